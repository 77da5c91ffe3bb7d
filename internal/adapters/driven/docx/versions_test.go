package docx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestNextVersionPath_FirstVersion(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "report.docx")
	touch(t, source)

	path, version, err := NewVersionAllocator().NextVersionPath(source)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.v1.docx"), path)
	assert.Equal(t, 1, version)
}

func TestNextVersionPath_SkipsPastExistingVersions(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "report.docx")
	touch(t, source)
	touch(t, filepath.Join(dir, "report.v1.docx"))
	touch(t, filepath.Join(dir, "report.v2.docx"))

	path, version, err := NewVersionAllocator().NextVersionPath(source)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.v3.docx"), path)
	assert.Equal(t, 3, version)
}

func TestNextVersionPath_GapsDoNotGetReused(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "report.docx")
	touch(t, source)
	touch(t, filepath.Join(dir, "report.v5.docx"))

	path, version, err := NewVersionAllocator().NextVersionPath(source)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.v6.docx"), path)
	assert.Equal(t, 6, version)
}

func TestNextVersionPath_VersionedSourceSharesFamily(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "report.docx"))
	touch(t, filepath.Join(dir, "report.v1.docx"))
	touch(t, filepath.Join(dir, "report.v2.docx"))

	// Patching v1 must not produce a second v2.
	path, version, err := NewVersionAllocator().NextVersionPath(filepath.Join(dir, "report.v1.docx"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.v3.docx"), path)
	assert.Equal(t, 3, version)
}

func TestNextVersionPath_OtherStemsIgnored(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "report.docx")
	touch(t, source)
	touch(t, filepath.Join(dir, "summary.v4.docx"))
	touch(t, filepath.Join(dir, "report.v2.xlsx"))

	path, version, err := NewVersionAllocator().NextVersionPath(source)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.v1.docx"), path)
	assert.Equal(t, 1, version)
}

func TestNextVersionPath_MissingDirectory(t *testing.T) {
	_, _, err := NewVersionAllocator().NextVersionPath(filepath.Join(t.TempDir(), "nope", "report.docx"))
	assert.Error(t, err)
}
