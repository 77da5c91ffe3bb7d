package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docpatch-labs/docpatch-cli/internal/core/domain"
)

func boolPtr(b bool) *bool { return &b }

func TestPropsCmd_Use(t *testing.T) {
	assert.Equal(t, "props [docx-path]", propsCmd.Use)
}

func TestPropsCmd_ListsDescriptors(t *testing.T) {
	editor, cleanup := setupTestServices()
	defer cleanup()
	editor.props = map[string]domain.PropertyDescriptor{
		"default_text_format": {},
		"heading_1_format": {
			Run:                domain.RunFormat{Bold: boolPtr(true), SizeHalfPoints: 32},
			FontName:           "Calibri Light",
			FontSizePt:         16,
			ParagraphStyleID:   "Heading1",
			ParagraphStyleName: "heading 1",
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"props", "/tmp/report.docx"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Text properties (2):")
	assert.Contains(t, out, "default_text_format")
	assert.Contains(t, out, "heading_1_format")
	assert.Contains(t, out, "Calibri Light, 16pt, bold")
	assert.Contains(t, out, "style heading 1")
}

func TestPropsCmd_JSONOutput(t *testing.T) {
	editor, cleanup := setupTestServices()
	defer cleanup()
	editor.props = map[string]domain.PropertyDescriptor{
		"bold_format": {Run: domain.RunFormat{Bold: boolPtr(true)}},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"props", "--json", "/tmp/report.docx"})
	defer func() {
		rootCmd.SetArgs(nil)
		propsJSON = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"bold_format"`)
	assert.Contains(t, buf.String(), `"bold": true`)
}

func TestPropsCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"props", "/tmp/report.docx"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No text properties found.")
}

func TestDescribeProps_Default(t *testing.T) {
	assert.Equal(t, "default", describeProps(domain.PropertyDescriptor{}))
}

func TestDescribeProps_Combined(t *testing.T) {
	desc := domain.PropertyDescriptor{
		Run: domain.RunFormat{
			Italic:    boolPtr(true),
			Color:     "FF0000",
			Highlight: "yellow",
		},
		FontName:   "Times New Roman",
		FontSizePt: 12,
	}
	assert.Equal(t, "Times New Roman, 12pt, italic, #FF0000, highlight yellow", describeProps(desc))
}
