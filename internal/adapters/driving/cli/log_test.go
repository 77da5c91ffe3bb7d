package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docpatch-labs/docpatch-cli/internal/core/domain"
)

func TestLogCmd_Use(t *testing.T) {
	assert.Equal(t, "log", logCmd.Use)
}

func TestLogCmd_ErrorsWithoutCallLog(t *testing.T) {
	oldCallLog := callLog
	callLog = nil
	defer func() { callLog = oldCallLog }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"log"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestLogCmd_PrintsRecentCalls(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	callLog = &mockCallLog{calls: []domain.ToolCall{
		{
			Tool:       "delete_elements",
			SourcePath: "/tmp/report.docx",
			OutputPath: "/tmp/report.v2.docx",
			Version:    2,
			DurationMS: 12,
			CalledAt:   "2026-08-29T10:00:00Z",
		},
		{
			Tool:       "get_document_as_json",
			SourcePath: "/tmp/report.docx",
			DurationMS: 4,
			Error:      "not a zip archive",
			CalledAt:   "2026-08-29T09:59:00Z",
		},
	}}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"log"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "delete_elements")
	assert.Contains(t, buf.String(), "-> /tmp/report.v2.docx")
	assert.Contains(t, buf.String(), "error: not a zip archive")
}

func TestLogCmd_EmptyLog(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"log"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No tool calls recorded.")
}
