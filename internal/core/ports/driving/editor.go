package driving

import (
	"context"

	"github.com/docpatch-labs/docpatch-cli/internal/core/domain"
)

// DocumentEditor is the single driving port of docpatch: every external
// surface (MCP tools, CLI commands) goes through it. Each call converts
// the source DOCX fresh, applies the requested operations atomically, and
// writes the result to a new version file - the source is never modified.
type DocumentEditor interface {
	// GetDocument converts the DOCX at path into its flat JSON model and,
	// when jsonOut is non-empty, also writes the model to that path.
	GetDocument(ctx context.Context, path, jsonOut string) (domain.ExportDocument, error)

	// GetTextProperties returns only the interned formatting descriptors
	// of the document, keyed by semantic ID.
	GetTextProperties(ctx context.Context, path string) (map[string]domain.PropertyDescriptor, error)

	// DeleteElements removes the identified elements (and their
	// descendants) and writes a new version.
	DeleteElements(ctx context.Context, path string, ids []string, opts PatchOptions) (*PatchResult, error)

	// AddElements inserts new elements at a body position and writes a
	// new version.
	AddElements(ctx context.Context, path string, add domain.Addition, opts PatchOptions) (*PatchResult, error)

	// EditElementContent changes one property of one element and writes
	// a new version.
	EditElementContent(ctx context.Context, path string, edit domain.Edit, opts PatchOptions) (*PatchResult, error)

	// EditDocument applies a full batch - deletions, then edits, then
	// additions - as one all-or-nothing transaction.
	EditDocument(ctx context.Context, path string, batch domain.Batch, opts PatchOptions) (*PatchResult, error)
}

// PatchOptions tunes a single mutating call.
type PatchOptions struct {
	// ResponseFormat selects payload verbosity. Zero value means minimal.
	ResponseFormat domain.ResponseFormat

	// OutputPath overrides the allocated version path when set. The file
	// must not already exist.
	OutputPath string
}

// OperationCounts reports how many operations each phase applied.
type OperationCounts struct {
	Deletions int `json:"deletions"`
	Edits     int `json:"edits"`
	Additions int `json:"additions"`
	Total     int `json:"total"`
}

// PatchResult is the outcome of a successful mutating call.
type PatchResult struct {
	// OutputPath is where the new document version was written.
	OutputPath string `json:"output_docx_path"`

	// Version is the allocated version number of the output file.
	Version int `json:"version"`

	// Applied counts the operations per phase.
	Applied OperationCounts `json:"operations_applied"`

	// Mapping lists deleted and created element IDs. Populated for the
	// id_mapping and full_document response formats.
	Mapping *domain.IDMapping `json:"id_mapping,omitempty"`

	// Updated is the post-patch document model. Populated only for the
	// full_document response format.
	Updated *domain.ExportDocument `json:"updated_document,omitempty"`
}
