package mcp

import (
	"context"

	"github.com/docpatch-labs/docpatch-cli/internal/core/domain"
	"github.com/docpatch-labs/docpatch-cli/internal/core/ports/driving"
)

func boolPtr(b bool) *bool { return &b }

// mockEditorService is a mock implementation of driving.DocumentEditor.
// It records the arguments of the last call so tests can assert on the
// translation from tool input to port call.
type mockEditorService struct {
	export domain.ExportDocument
	props  map[string]domain.PropertyDescriptor
	result *driving.PatchResult
	err    error

	lastPath     string
	lastJSONOut  string
	lastIDs      []string
	lastAddition domain.Addition
	lastEdit     domain.Edit
	lastBatch    domain.Batch
	lastOpts     driving.PatchOptions
}

func (m *mockEditorService) GetDocument(
	_ context.Context,
	path, jsonOutputPath string,
) (domain.ExportDocument, error) {
	m.lastPath = path
	m.lastJSONOut = jsonOutputPath
	return m.export, m.err
}

func (m *mockEditorService) GetTextProperties(
	_ context.Context,
	path string,
) (map[string]domain.PropertyDescriptor, error) {
	m.lastPath = path
	return m.props, m.err
}

func (m *mockEditorService) DeleteElements(
	_ context.Context,
	path string,
	elementIDs []string,
	opts driving.PatchOptions,
) (*driving.PatchResult, error) {
	m.lastPath = path
	m.lastIDs = elementIDs
	m.lastOpts = opts
	return m.result, m.err
}

func (m *mockEditorService) AddElements(
	_ context.Context,
	path string,
	add domain.Addition,
	opts driving.PatchOptions,
) (*driving.PatchResult, error) {
	m.lastPath = path
	m.lastAddition = add
	m.lastOpts = opts
	return m.result, m.err
}

func (m *mockEditorService) EditElementContent(
	_ context.Context,
	path string,
	edit domain.Edit,
	opts driving.PatchOptions,
) (*driving.PatchResult, error) {
	m.lastPath = path
	m.lastEdit = edit
	m.lastOpts = opts
	return m.result, m.err
}

func (m *mockEditorService) EditDocument(
	_ context.Context,
	path string,
	batch domain.Batch,
	opts driving.PatchOptions,
) (*driving.PatchResult, error) {
	m.lastPath = path
	m.lastBatch = batch
	m.lastOpts = opts
	return m.result, m.err
}
