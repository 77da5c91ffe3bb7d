package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchCmd_Use(t *testing.T) {
	assert.Equal(t, "patch [docx-path] [batch-file]", patchCmd.Use)
}

func TestPatchCmd_AppliesBatchFromFile(t *testing.T) {
	editor, cleanup := setupTestServices()
	defer cleanup()

	batchPath := filepath.Join(t.TempDir(), "batch.json")
	batch := `{
		"deletions": ["p-2"],
		"edits": [{"element_id": "p-1", "property_path": "pPr.jc", "new_value": "center"}],
		"additions": [{"elements": ["New text"], "position": "end"}]
	}`
	require.NoError(t, os.WriteFile(batchPath, []byte(batch), 0o644))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"patch", "/tmp/report.docx", batchPath})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, []string{"p-2"}, editor.lastBatch.Deletions)
	require.Len(t, editor.lastBatch.Edits, 1)
	assert.Equal(t, "pPr.jc", editor.lastBatch.Edits[0].PropertyPath)
	require.Len(t, editor.lastBatch.Additions, 1)
	assert.Equal(t, "New text", editor.lastBatch.Additions[0].Elements[0].Runs[0].Text)
}

func TestPatchCmd_ReadsBatchFromStdin(t *testing.T) {
	editor, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader(`{"deletions":["tbl-1"]}`))
	rootCmd.SetArgs([]string{"patch", "/tmp/report.docx", "-"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, []string{"tbl-1"}, editor.lastBatch.Deletions)
}

func TestPatchCmd_RejectsInvalidJSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	batchPath := filepath.Join(t.TempDir(), "batch.json")
	require.NoError(t, os.WriteFile(batchPath, []byte("{broken"), 0o644))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"patch", "/tmp/report.docx", batchPath})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid batch JSON")
}

func TestPatchCmd_ReportsMissingBatchFile(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"patch", "/tmp/report.docx", "/nope/batch.json"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read batch file")
}
