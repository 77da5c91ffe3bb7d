// Package domain defines the core business entities for docpatch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: an element arena plus ordered body, the in-memory model
//     of one DOCX document
//   - Element: one addressable node (paragraph, run, table, row, cell)
//   - PropertyDescriptor / PropertyRegistry: canonicalized formatting
//     bundles interned under stable semantic IDs
//   - Batch / Edit / Addition: the patch operations applied to a Document
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
