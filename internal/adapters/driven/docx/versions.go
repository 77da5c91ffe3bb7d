package docx

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/docpatch-labs/docpatch-cli/internal/core/domain"
	"github.com/docpatch-labs/docpatch-cli/internal/core/ports/driven"
)

// Ensure VersionAllocator implements the interface.
var _ driven.VersionAllocator = (*VersionAllocator)(nil)

// VersionAllocator picks .vN output paths next to the source document.
type VersionAllocator struct{}

// NewVersionAllocator creates a new version allocator.
func NewVersionAllocator() *VersionAllocator {
	return &VersionAllocator{}
}

var versionSuffixRE = regexp.MustCompile(`\.v(\d+)$`)

// NextVersionPath scans the source's directory for sibling versions of
// the same stem and returns the path one past the highest. The source's
// own version suffix, if any, is stripped first: patching report.v2.docx
// still allocates against the "report" family.
func (a *VersionAllocator) NextVersionPath(path string) (string, int, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	dir := filepath.Dir(abs)
	ext := filepath.Ext(abs)
	stem := strings.TrimSuffix(filepath.Base(abs), ext)
	stem = versionSuffixRE.ReplaceAllString(stem, "")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", 0, fmt.Errorf("reading %s: %w", dir, err)
	}

	siblingRE := regexp.MustCompile(
		`^` + regexp.QuoteMeta(stem) + `\.v(\d+)` + regexp.QuoteMeta(ext) + `$`)

	highest := 0
	for _, entry := range entries {
		m := siblingRE.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}

	next := highest + 1
	return filepath.Join(dir, fmt.Sprintf("%s.v%d%s", stem, next, ext)), next, nil
}
