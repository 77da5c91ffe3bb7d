package mcp

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docpatch-labs/docpatch-cli/internal/core/domain"
	"github.com/docpatch-labs/docpatch-cli/internal/core/ports/driving"
)

// GetDocumentInput is the input schema for the get_document_as_json tool.
type GetDocumentInput struct {
	DocxPath       string `json:"docx_path" jsonschema:"path to the DOCX file to convert"`
	OutputJSONPath string `json:"output_json_path,omitempty" jsonschema:"where to write the JSON model (default: next to the source with an .export.json suffix)"`
	ReturnJSON     *bool  `json:"return_json,omitempty" jsonschema:"include the document model in the response (default true); when false only the written file path is reported"`
}

// GetDocumentOutput is the output schema for the get_document_as_json tool.
// With return_json (the default) the document model fields (source_file,
// textProperties, body) are inlined; otherwise only json_path is set.
type GetDocumentOutput struct {
	*domain.ExportDocument
	JSONPath string `json:"json_path,omitempty"`
}

// GetTextPropertiesInput is the input schema for the
// get_document_text_properties tool.
type GetTextPropertiesInput struct {
	DocxPath   string `json:"docx_path" jsonschema:"path to the DOCX file to inspect"`
	ReturnJSON *bool  `json:"return_json,omitempty" jsonschema:"include the descriptors in the response (default true); when false only their count is reported"`
}

// GetTextPropertiesOutput is the output schema for the
// get_document_text_properties tool.
type GetTextPropertiesOutput struct {
	SourceFile      string                               `json:"source_file,omitempty"`
	TextProperties  map[string]domain.PropertyDescriptor `json:"textProperties,omitempty"`
	PropertiesCount int                                  `json:"properties_count"`
}

// PatchOutput carries the fields shared by every mutating tool's output.
type PatchOutput struct {
	Success           bool                    `json:"success"`
	OutputDocxPath    string                  `json:"output_docx_path"`
	Version           int                     `json:"version"`
	OperationsApplied driving.OperationCounts `json:"operations_applied"`
	IDMapping         *domain.IDMapping       `json:"id_mapping,omitempty"`
	UpdatedDocument   *domain.ExportDocument  `json:"updated_document,omitempty"`
}

// DeleteElementsInput is the input schema for the delete_elements tool.
type DeleteElementsInput struct {
	DocxPath       string   `json:"docx_path" jsonschema:"path to the DOCX file to patch"`
	ElementIDs     []string `json:"element_ids" jsonschema:"IDs of the elements to delete; children are removed with their parent"`
	OutputPath     string   `json:"output_docx_path,omitempty" jsonschema:"explicit output path (default: next free .vN sibling)"`
	ResponseFormat string   `json:"response_format,omitempty" jsonschema:"one of minimal, id_mapping, full_document (default minimal)"`
}

// DeleteElementsOutput is the output schema for the delete_elements tool.
type DeleteElementsOutput struct {
	PatchOutput
	DeletedElementIDs []string `json:"deleted_element_ids"`
	DeletedCount      int      `json:"deleted_count"`
}

// AddElementsInput is the input schema for the add_elements tool.
type AddElementsInput struct {
	DocxPath           string               `json:"docx_path" jsonschema:"path to the DOCX file to patch"`
	Elements           []domain.ElementSpec `json:"elements" jsonschema:"elements to add; a plain string is shorthand for a paragraph with that text"`
	Position           string               `json:"position,omitempty" jsonschema:"one of after, before, end (default end)"`
	ReferenceElementID string               `json:"reference_element_id,omitempty" jsonschema:"top-level body element the position is relative to; required for after and before"`
	TextPropertiesRef  string               `json:"text_properties_ref,omitempty" jsonschema:"formatting reference applied to new runs that carry none of their own"`
	OutputPath         string               `json:"output_docx_path,omitempty" jsonschema:"explicit output path (default: next free .vN sibling)"`
	ResponseFormat     string               `json:"response_format,omitempty" jsonschema:"one of minimal, id_mapping, full_document (default minimal)"`
}

// AddElementsOutput is the output schema for the add_elements tool.
type AddElementsOutput struct {
	PatchOutput
	AddedCount         int    `json:"added_count"`
	AddedPosition      string `json:"added_position"`
	ReferenceElementID string `json:"reference_element_id,omitempty"`
}

// EditElementContentInput is the input schema for the edit_element_content tool.
type EditElementContentInput struct {
	DocxPath          string `json:"docx_path" jsonschema:"path to the DOCX file to patch"`
	ElementID         string `json:"element_id" jsonschema:"ID of the element to edit"`
	PropertyPath      string `json:"property_path" jsonschema:"content, pPr.jc, pPr.styleId, pPr.numPr.numId, pPr.numPr.ilvl, tcPr.gridSpan or tcPr.vMerge"`
	NewValue          any    `json:"new_value" jsonschema:"the new value; its type must match the property path"`
	TextPropertiesRef string `json:"text_properties_ref,omitempty" jsonschema:"formatting reference to apply alongside a content edit"`
	OutputPath        string `json:"output_docx_path,omitempty" jsonschema:"explicit output path (default: next free .vN sibling)"`
	ResponseFormat    string `json:"response_format,omitempty" jsonschema:"one of minimal, id_mapping, full_document (default minimal)"`
}

// EditElementContentOutput is the output schema for the edit_element_content tool.
type EditElementContentOutput struct {
	PatchOutput
	EditedElementID          string `json:"edited_element_id"`
	PropertyPath             string `json:"property_path"`
	AppliedTextPropertiesRef string `json:"applied_text_properties_ref,omitempty"`
}

// EditDocumentInput is the input schema for the edit_document tool.
type EditDocumentInput struct {
	DocxPath       string            `json:"docx_path" jsonschema:"path to the DOCX file to patch"`
	Deletions      []string          `json:"deletions,omitempty" jsonschema:"element IDs to delete first"`
	Edits          []domain.Edit     `json:"edits,omitempty" jsonschema:"property edits applied after deletions"`
	Additions      []domain.Addition `json:"additions,omitempty" jsonschema:"element additions applied last"`
	OutputPath     string            `json:"output_docx_path,omitempty" jsonschema:"explicit output path (default: next free .vN sibling)"`
	ResponseFormat string            `json:"response_format,omitempty" jsonschema:"one of minimal, id_mapping, full_document (default minimal)"`
}

// EditDocumentOutput is the output schema for the edit_document tool.
type EditDocumentOutput struct {
	PatchOutput
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_document_as_json",
		Description: "Convert a DOCX document into its flat JSON model",
	}, s.handleGetDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_document_text_properties",
		Description: "List the interned text formatting descriptors of a DOCX document",
	}, s.handleGetTextProperties)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_elements",
		Description: "Delete elements from a DOCX document and write a new version",
	}, s.handleDeleteElements)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_elements",
		Description: "Add paragraphs or tables to a DOCX document and write a new version",
		InputSchema: addElementsSchema(),
	}, s.handleAddElements)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "edit_element_content",
		Description: "Edit one property of one element in a DOCX document and write a new version",
	}, s.handleEditElementContent)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "edit_document",
		Description: "Apply a batch of deletions, edits and additions to a DOCX document atomically",
		InputSchema: editDocumentSchema(),
	}, s.handleEditDocument)
}

// Element specifications nest without bound (table cells hold further
// element specifications), which schema inference cannot express, so the
// two tools that accept them carry hand-written input schemas.

func elementSpecSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Description: "element to create; a plain string is shorthand for a paragraph with that text, " +
			"an object carries type (paragraph or table), content (runs with text and textPropsRef), " +
			"pPr, and for tables rows of cells whose content nests further elements",
	}
}

func addElementsSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:     "object",
		Required: []string{"docx_path", "elements"},
		Properties: map[string]*jsonschema.Schema{
			"docx_path": {Type: "string", Description: "path to the DOCX file to patch"},
			"elements": {
				Type:        "array",
				Items:       elementSpecSchema(),
				Description: "elements to add",
			},
			"position":             {Type: "string", Description: "one of after, before, end (default end)"},
			"reference_element_id": {Type: "string", Description: "top-level body element the position is relative to; required for after and before"},
			"text_properties_ref":  {Type: "string", Description: "formatting reference applied to new runs that carry none of their own"},
			"output_docx_path":     {Type: "string", Description: "explicit output path (default: next free .vN sibling)"},
			"response_format":      {Type: "string", Description: "one of minimal, id_mapping, full_document (default minimal)"},
		},
	}
}

func editDocumentSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:     "object",
		Required: []string{"docx_path"},
		Properties: map[string]*jsonschema.Schema{
			"docx_path": {Type: "string", Description: "path to the DOCX file to patch"},
			"deletions": {
				Type:        "array",
				Items:       &jsonschema.Schema{Type: "string"},
				Description: "element IDs to delete first",
			},
			"edits": {
				Type:        "array",
				Description: "property edits applied after deletions",
				Items: &jsonschema.Schema{
					Type:     "object",
					Required: []string{"element_id", "property_path", "new_value"},
					Properties: map[string]*jsonschema.Schema{
						"element_id":          {Type: "string"},
						"property_path":       {Type: "string", Description: "content, pPr.jc, pPr.styleId, pPr.numPr.numId, pPr.numPr.ilvl, tcPr.gridSpan or tcPr.vMerge"},
						"new_value":           {Description: "the new value; its type must match the property path"},
						"text_properties_ref": {Type: "string"},
					},
				},
			},
			"additions": {
				Type:        "array",
				Description: "element additions applied last",
				Items: &jsonschema.Schema{
					Type:     "object",
					Required: []string{"elements"},
					Properties: map[string]*jsonschema.Schema{
						"elements":             {Type: "array", Items: elementSpecSchema()},
						"position":             {Type: "string", Description: "one of after, before, end (default end)"},
						"reference_element_id": {Type: "string"},
						"text_properties_ref":  {Type: "string"},
					},
				},
			},
			"output_docx_path": {Type: "string", Description: "explicit output path (default: next free .vN sibling)"},
			"response_format":  {Type: "string", Description: "one of minimal, id_mapping, full_document (default minimal)"},
		},
	}
}

// exportPath derives the default JSON output path for a document.
func exportPath(docxPath string) string {
	return strings.TrimSuffix(docxPath, filepath.Ext(docxPath)) + ".export.json"
}

func patchOptions(outputPath, responseFormat string) driving.PatchOptions {
	return driving.PatchOptions{
		ResponseFormat: domain.ResponseFormat(responseFormat),
		OutputPath:     outputPath,
	}
}

func patchOutput(res *driving.PatchResult) PatchOutput {
	return PatchOutput{
		Success:           true,
		OutputDocxPath:    res.OutputPath,
		Version:           res.Version,
		OperationsApplied: res.Applied,
		IDMapping:         res.Mapping,
		UpdatedDocument:   res.Updated,
	}
}

// handleGetDocument handles the get_document_as_json tool invocation.
func (s *Server) handleGetDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetDocumentInput,
) (*mcp.CallToolResult, GetDocumentOutput, error) {
	jsonOut := input.OutputJSONPath
	if jsonOut == "" {
		jsonOut = exportPath(input.DocxPath)
	}

	export, err := s.ports.Editor.GetDocument(ctx, input.DocxPath, jsonOut)
	if err != nil {
		return nil, GetDocumentOutput{}, err
	}

	if input.ReturnJSON != nil && !*input.ReturnJSON {
		return nil, GetDocumentOutput{JSONPath: jsonOut}, nil
	}
	return nil, GetDocumentOutput{ExportDocument: &export}, nil
}

// handleGetTextProperties handles the get_document_text_properties tool
// invocation.
func (s *Server) handleGetTextProperties(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetTextPropertiesInput,
) (*mcp.CallToolResult, GetTextPropertiesOutput, error) {
	props, err := s.ports.Editor.GetTextProperties(ctx, input.DocxPath)
	if err != nil {
		return nil, GetTextPropertiesOutput{}, err
	}

	if input.ReturnJSON != nil && !*input.ReturnJSON {
		return nil, GetTextPropertiesOutput{PropertiesCount: len(props)}, nil
	}
	return nil, GetTextPropertiesOutput{
		SourceFile:      input.DocxPath,
		TextProperties:  props,
		PropertiesCount: len(props),
	}, nil
}

// handleDeleteElements handles the delete_elements tool invocation.
func (s *Server) handleDeleteElements(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteElementsInput,
) (*mcp.CallToolResult, DeleteElementsOutput, error) {
	res, err := s.ports.Editor.DeleteElements(ctx, input.DocxPath, input.ElementIDs,
		patchOptions(input.OutputPath, input.ResponseFormat))
	if err != nil {
		return nil, DeleteElementsOutput{}, err
	}

	return nil, DeleteElementsOutput{
		PatchOutput:       patchOutput(res),
		DeletedElementIDs: input.ElementIDs,
		DeletedCount:      len(input.ElementIDs),
	}, nil
}

// handleAddElements handles the add_elements tool invocation.
func (s *Server) handleAddElements(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddElementsInput,
) (*mcp.CallToolResult, AddElementsOutput, error) {
	position := input.Position
	if position == "" {
		position = string(domain.PositionEnd)
	}

	add := domain.Addition{
		Elements:     input.Elements,
		Position:     domain.Position(position),
		ReferenceID:  input.ReferenceElementID,
		TextPropsRef: input.TextPropertiesRef,
	}
	res, err := s.ports.Editor.AddElements(ctx, input.DocxPath, add,
		patchOptions(input.OutputPath, input.ResponseFormat))
	if err != nil {
		return nil, AddElementsOutput{}, err
	}

	return nil, AddElementsOutput{
		PatchOutput:        patchOutput(res),
		AddedCount:         len(input.Elements),
		AddedPosition:      position,
		ReferenceElementID: input.ReferenceElementID,
	}, nil
}

// handleEditElementContent handles the edit_element_content tool invocation.
func (s *Server) handleEditElementContent(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EditElementContentInput,
) (*mcp.CallToolResult, EditElementContentOutput, error) {
	edit := domain.Edit{
		ElementID:    input.ElementID,
		PropertyPath: input.PropertyPath,
		NewValue:     input.NewValue,
		TextPropsRef: input.TextPropertiesRef,
	}
	res, err := s.ports.Editor.EditElementContent(ctx, input.DocxPath, edit,
		patchOptions(input.OutputPath, input.ResponseFormat))
	if err != nil {
		return nil, EditElementContentOutput{}, err
	}

	return nil, EditElementContentOutput{
		PatchOutput:              patchOutput(res),
		EditedElementID:          input.ElementID,
		PropertyPath:             input.PropertyPath,
		AppliedTextPropertiesRef: input.TextPropertiesRef,
	}, nil
}

// handleEditDocument handles the edit_document tool invocation.
func (s *Server) handleEditDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EditDocumentInput,
) (*mcp.CallToolResult, EditDocumentOutput, error) {
	batch := domain.Batch{
		Deletions: input.Deletions,
		Edits:     input.Edits,
		Additions: input.Additions,
	}
	res, err := s.ports.Editor.EditDocument(ctx, input.DocxPath, batch,
		patchOptions(input.OutputPath, input.ResponseFormat))
	if err != nil {
		return nil, EditDocumentOutput{}, err
	}

	return nil, EditDocumentOutput{PatchOutput: patchOutput(res)}, nil
}
