package driven

import (
	"context"

	"github.com/docpatch-labs/docpatch-cli/internal/core/domain"
)

// Converter reads a DOCX package into the domain document model.
type Converter interface {
	// Convert opens the DOCX at path and builds a fresh Document: body
	// elements in document order, runs merged by formatting, properties
	// interned in the registry. Fails with domain.ErrMalformedSource
	// when the file is not a readable WordprocessingML package.
	Convert(ctx context.Context, path string) (*domain.Document, error)
}

// Reconstructor writes a document model back out as a DOCX package.
type Reconstructor interface {
	// Write serializes doc into outPath, carrying over every package
	// part of doc.SourceFile except the main document body. The write
	// is atomic: outPath either appears complete or not at all, and the
	// call fails with domain.ErrVersionConflict if outPath already
	// exists.
	Write(ctx context.Context, doc *domain.Document, outPath string) error
}

// VersionAllocator picks output paths for new document versions.
type VersionAllocator interface {
	// NextVersionPath returns the path and number of the next free
	// version next to path. "report.docx" and "report.v3.docx" share
	// the stem "report"; if v1 and v2 exist the answer is
	// "report.v3.docx", 3.
	NextVersionPath(path string) (string, int, error)
}
