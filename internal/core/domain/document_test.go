package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDoc assembles a document with two paragraphs (one run each) and a
// 1x2 table whose cells each hold a paragraph with a run.
func buildDoc(t *testing.T) *Document {
	t.Helper()
	doc := NewDocument("/tmp/source.docx")

	for _, text := range []string{"Hello", "World"} {
		p := doc.NewElement(KindParagraph)
		r := doc.NewElement(KindRun)
		r.Content = text
		p.Children = []string{r.ID}
		doc.Append(p.ID)
	}

	tbl := doc.NewElement(KindTable)
	row := doc.NewElement(KindRow)
	tbl.Children = []string{row.ID}
	for _, text := range []string{"A1", "B1"} {
		cell := doc.NewElement(KindCell)
		p := doc.NewElement(KindParagraph)
		r := doc.NewElement(KindRun)
		r.Content = text
		p.Children = []string{r.ID}
		cell.Children = []string{p.ID}
		row.Children = append(row.Children, cell.ID)
	}
	doc.Append(tbl.ID)

	require.NoError(t, doc.Validate())
	return doc
}

func TestNewElement_IDScheme(t *testing.T) {
	doc := NewDocument("/tmp/a.docx")

	p1 := doc.NewElement(KindParagraph)
	p2 := doc.NewElement(KindParagraph)
	r1 := doc.NewElement(KindRun)
	tbl := doc.NewElement(KindTable)
	row := doc.NewElement(KindRow)
	cell := doc.NewElement(KindCell)

	assert.Equal(t, "p-1", p1.ID)
	assert.Equal(t, "p-2", p2.ID)
	assert.Equal(t, "t-1", r1.ID)
	assert.Equal(t, "tbl-1", tbl.ID)
	assert.Equal(t, "tr-1", row.ID)
	assert.Equal(t, "tc-1", cell.ID)
}

func TestNewElement_NeverReusesDeletedIDs(t *testing.T) {
	doc := NewDocument("/tmp/a.docx")

	p1 := doc.NewElement(KindParagraph)
	doc.Append(p1.ID)
	removed, err := doc.Delete(p1.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"p-1"}, removed)

	p2 := doc.NewElement(KindParagraph)
	assert.Equal(t, "p-2", p2.ID, "freed IDs must never be reissued")
}

func TestDelete_CascadesDownOnly(t *testing.T) {
	doc := buildDoc(t)

	t.Run("deleting a paragraph removes its runs", func(t *testing.T) {
		removed, err := doc.Delete("p-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"p-1", "t-1"}, removed)
		assert.False(t, doc.Has("t-1"))
		assert.Equal(t, -1, doc.BodyIndex("p-1"))
	})

	t.Run("deleting a run keeps its paragraph", func(t *testing.T) {
		removed, err := doc.Delete("t-2")
		require.NoError(t, err)
		assert.Equal(t, []string{"t-2"}, removed)

		p2, ok := doc.Element("p-2")
		require.True(t, ok)
		assert.Empty(t, p2.Children)
		assert.GreaterOrEqual(t, doc.BodyIndex("p-2"), 0)
	})

	t.Run("deleting a table removes rows, cells and contents", func(t *testing.T) {
		removed, err := doc.Delete("tbl-1")
		require.NoError(t, err)
		assert.Equal(t, "tbl-1", removed[0])
		assert.Contains(t, removed, "tr-1")
		assert.Contains(t, removed, "tc-1")
		assert.Contains(t, removed, "tc-2")
		for _, id := range removed {
			assert.False(t, doc.Has(id))
		}
	})

	t.Run("unknown target fails", func(t *testing.T) {
		_, err := doc.Delete("p-99")
		assert.ErrorIs(t, err, ErrUnknownElementID)
	})
}

func TestInsert_BodySplicing(t *testing.T) {
	doc := buildDoc(t)

	p := doc.NewElement(KindParagraph)
	require.NoError(t, doc.InsertAfter("p-1", p.ID))
	assert.Equal(t, []string{"p-1", p.ID, "p-2", "tbl-1"}, doc.Body)

	q := doc.NewElement(KindParagraph)
	require.NoError(t, doc.InsertBefore("p-1", q.ID))
	assert.Equal(t, q.ID, doc.Body[0])

	err := doc.InsertAfter("p-99", doc.NewElement(KindParagraph).ID)
	assert.ErrorIs(t, err, ErrMissingReference)
}

func TestText_DocumentOrder(t *testing.T) {
	doc := buildDoc(t)
	assert.Equal(t, "Hello\nWorld\nA1\nB1", doc.Text())
}

func TestValidate_DetectsBrokenReferences(t *testing.T) {
	doc := buildDoc(t)

	p1, ok := doc.Element("p-1")
	require.True(t, ok)
	p1.Children = append(p1.Children, "t-404")
	assert.ErrorIs(t, doc.Validate(), ErrUnknownElementID)
}

func TestValidate_DetectsDanglingPropertyRef(t *testing.T) {
	doc := buildDoc(t)

	r, ok := doc.Element("t-1")
	require.True(t, ok)
	r.TextPropsRef = "ghost_format"
	assert.ErrorIs(t, doc.Validate(), ErrUnknownPropertyID)
}

func TestExport_Shape(t *testing.T) {
	doc := buildDoc(t)
	bold := true
	ref := doc.Registry.Intern(PropertyDescriptor{Run: RunFormat{Bold: &bold}})
	r, _ := doc.Element("t-1")
	r.TextPropsRef = ref

	export := doc.Export()
	assert.Equal(t, "/tmp/source.docx", export.SourceFile)
	require.Len(t, export.Body, 3)

	para := export.Body[0]
	assert.Equal(t, "p-1", para["id"])
	assert.Equal(t, "paragraph", para["type"])
	content, ok := para["content"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, content, 1)
	assert.Equal(t, "Hello", content[0]["text"])
	assert.Equal(t, ref, content[0]["textPropsRef"])

	table := export.Body[2]
	assert.Equal(t, "table", table["type"])
	rows, ok := table["rows"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, rows, 1)
	cells, ok := rows[0]["cells"].([]map[string]any)
	require.True(t, ok)
	assert.Len(t, cells, 2)
}
