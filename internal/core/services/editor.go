package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/docpatch-labs/docpatch-cli/internal/core/domain"
	"github.com/docpatch-labs/docpatch-cli/internal/core/ports/driven"
	"github.com/docpatch-labs/docpatch-cli/internal/core/ports/driving"
	"github.com/docpatch-labs/docpatch-cli/internal/logger"
)

// Ensure EditorService implements the interface.
var _ driving.DocumentEditor = (*EditorService)(nil)

// EditorService orchestrates the convert/patch/reconstruct cycle behind
// every tool. Each mutating call converts the source fresh, applies its
// batch in memory, allocates the next version path and writes the result;
// the source file is never touched.
type EditorService struct {
	converter     driven.Converter
	reconstructor driven.Reconstructor
	versions      driven.VersionAllocator
	callLog       driven.CallLog
	locks         *pathLocks
}

// NewEditorService creates a new editor service.
// The callLog parameter is optional (can be nil).
func NewEditorService(
	converter driven.Converter,
	reconstructor driven.Reconstructor,
	versions driven.VersionAllocator,
	callLog driven.CallLog,
) *EditorService {
	return &EditorService{
		converter:     converter,
		reconstructor: reconstructor,
		versions:      versions,
		callLog:       callLog,
		locks:         newPathLocks(),
	}
}

// GetDocument converts the DOCX at path into its flat JSON model and,
// when jsonOut is non-empty, also writes the model to that path.
func (s *EditorService) GetDocument(ctx context.Context, path, jsonOut string) (domain.ExportDocument, error) {
	start := time.Now()
	logger.Section("Convert")
	logger.Debug("Source: %s", path)

	doc, err := s.converter.Convert(ctx, path)
	if err != nil {
		s.record(ctx, "get_document_as_json", path, jsonOut, 0, start, err)
		return domain.ExportDocument{}, err
	}

	export := doc.Export()
	if jsonOut != "" {
		data, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			return domain.ExportDocument{}, fmt.Errorf("encoding document model: %w", err)
		}
		if err := os.WriteFile(jsonOut, data, 0o644); err != nil {
			s.record(ctx, "get_document_as_json", path, jsonOut, 0, start, err)
			return domain.ExportDocument{}, fmt.Errorf("writing document model: %w", err)
		}
		logger.Debug("Model written to %s", jsonOut)
	}

	s.record(ctx, "get_document_as_json", path, jsonOut, 0, start, nil)
	return export, nil
}

// GetTextProperties returns only the interned formatting descriptors.
func (s *EditorService) GetTextProperties(ctx context.Context, path string) (map[string]domain.PropertyDescriptor, error) {
	start := time.Now()
	doc, err := s.converter.Convert(ctx, path)
	if err != nil {
		s.record(ctx, "get_document_text_properties", path, "", 0, start, err)
		return nil, err
	}
	s.record(ctx, "get_document_text_properties", path, "", 0, start, nil)
	return doc.Registry.Snapshot(), nil
}

// DeleteElements removes the identified elements and writes a new version.
func (s *EditorService) DeleteElements(ctx context.Context, path string, ids []string, opts driving.PatchOptions) (*driving.PatchResult, error) {
	return s.apply(ctx, "delete_elements", path, domain.Batch{Deletions: ids}, opts)
}

// AddElements inserts new elements and writes a new version.
func (s *EditorService) AddElements(ctx context.Context, path string, add domain.Addition, opts driving.PatchOptions) (*driving.PatchResult, error) {
	return s.apply(ctx, "add_elements", path, domain.Batch{Additions: []domain.Addition{add}}, opts)
}

// EditElementContent changes one property of one element and writes a new
// version.
func (s *EditorService) EditElementContent(ctx context.Context, path string, edit domain.Edit, opts driving.PatchOptions) (*driving.PatchResult, error) {
	return s.apply(ctx, "edit_element_content", path, domain.Batch{Edits: []domain.Edit{edit}}, opts)
}

// EditDocument applies a full batch as one all-or-nothing transaction.
func (s *EditorService) EditDocument(ctx context.Context, path string, batch domain.Batch, opts driving.PatchOptions) (*driving.PatchResult, error) {
	return s.apply(ctx, "edit_document", path, batch, opts)
}

// apply is the shared mutating path. It holds the per-file lock across
// conversion, patching, version allocation and the final write.
func (s *EditorService) apply(ctx context.Context, tool, path string, batch domain.Batch, opts driving.PatchOptions) (*driving.PatchResult, error) {
	start := time.Now()
	logger.Section("Patch")
	logger.Debug("Tool: %s, source: %s, operations: %d", tool, path, batch.Size())

	if batch.Empty() {
		err := fmt.Errorf("%w: batch contains no operations", domain.ErrInvalidInput)
		s.record(ctx, tool, path, "", 0, start, err)
		return nil, err
	}
	format := opts.ResponseFormat
	if format == "" {
		format = domain.FormatMinimal
	}
	if !format.Valid() {
		err := fmt.Errorf("%w: unknown response format %q", domain.ErrInvalidInput, opts.ResponseFormat)
		s.record(ctx, tool, path, "", 0, start, err)
		return nil, err
	}

	unlock := s.locks.Lock(path)
	defer unlock()

	doc, err := s.converter.Convert(ctx, path)
	if err != nil {
		s.record(ctx, tool, path, "", 0, start, err)
		return nil, err
	}

	mapping, counts, err := applyBatch(doc, batch)
	if err != nil {
		s.record(ctx, tool, path, "", 0, start, err)
		return nil, err
	}

	outPath := opts.OutputPath
	version := 0
	if outPath == "" {
		outPath, version, err = s.versions.NextVersionPath(path)
		if err != nil {
			s.record(ctx, tool, path, "", 0, start, err)
			return nil, err
		}
	}
	logger.Debug("Writing version %d to %s", version, outPath)

	if err := s.reconstructor.Write(ctx, doc, outPath); err != nil {
		s.record(ctx, tool, path, outPath, version, start, err)
		return nil, err
	}

	result := &driving.PatchResult{
		OutputPath: outPath,
		Version:    version,
		Applied:    counts,
	}
	switch format {
	case domain.FormatIDMapping:
		result.Mapping = mapping
	case domain.FormatFullDocument:
		result.Mapping = mapping
		export := doc.Export()
		export.SourceFile = outPath
		result.Updated = &export
	}

	s.record(ctx, tool, path, outPath, version, start, nil)
	logger.Info("Applied %d operations, wrote %s", counts.Total, outPath)
	return result, nil
}

// record persists one audit entry; failures are logged, never surfaced.
func (s *EditorService) record(ctx context.Context, tool, source, output string, version int, start time.Time, callErr error) {
	if s.callLog == nil {
		return
	}
	call := domain.ToolCall{
		Tool:       tool,
		SourcePath: source,
		OutputPath: output,
		Version:    version,
		DurationMS: time.Since(start).Milliseconds(),
		CalledAt:   start.UTC().Format(time.RFC3339),
	}
	if callErr != nil {
		call.Error = callErr.Error()
	}
	if err := s.callLog.Record(ctx, call); err != nil {
		logger.Warn("Failed to record tool call: %v", err)
	}
}
