// Package mcp provides an MCP (Model Context Protocol) server adapter for
// docpatch. It lets AI assistants like Claude inspect and patch DOCX
// documents through typed tools.
package mcp

import "errors"

// ErrMissingEditorService is returned when the editor service is not provided.
var ErrMissingEditorService = errors.New("mcp: editor service is required")
