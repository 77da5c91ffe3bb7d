package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil editor service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingEditorService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Editor: &mockEditorService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})

	// add_elements and edit_document accept element specifications whose
	// table cells nest further element specifications, so they carry
	// hand-written input schemas; registration must not reject them.
	t.Run("registers the nesting element tools", func(t *testing.T) {
		assert.NotPanics(t, func() {
			server, err := NewServer(&Ports{Editor: &mockEditorService{}})
			require.NoError(t, err)
			require.NotNil(t, server)
		})
	})
}

func TestElementToolSchemas(t *testing.T) {
	add := addElementsSchema()
	require.Contains(t, add.Properties, "elements")
	assert.NotNil(t, add.Properties["elements"].Items)
	assert.Contains(t, add.Required, "docx_path")

	batch := editDocumentSchema()
	for _, key := range []string{"deletions", "edits", "additions"} {
		require.Contains(t, batch.Properties, key)
	}
	adds := batch.Properties["additions"].Items
	require.NotNil(t, adds)
	assert.NotNil(t, adds.Properties["elements"].Items)
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil editor service returns error", func(t *testing.T) {
		ports := &Ports{}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingEditorService)
	})

	t.Run("editor set is valid", func(t *testing.T) {
		ports := &Ports{
			Editor: &mockEditorService{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})
}

func TestExportPath(t *testing.T) {
	assert.Equal(t, "/tmp/report.export.json", exportPath("/tmp/report.docx"))
	assert.Equal(t, "notes.export.json", exportPath("notes.docx"))
	assert.Equal(t, "plain.export.json", exportPath("plain"))
}
