package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/google/uuid"

	"github.com/docpatch-labs/docpatch-cli/internal/core/domain"
	"github.com/docpatch-labs/docpatch-cli/internal/core/ports/driven"
	"github.com/docpatch-labs/docpatch-cli/internal/logger"
)

// Ensure Reconstructor implements the interface.
var _ driven.Reconstructor = (*Reconstructor)(nil)

// Reconstructor writes a document model back out as a DOCX package.
// Every part of the source package except word/document.xml is copied
// through unchanged, so styles, numbering, media and settings survive.
type Reconstructor struct{}

// NewReconstructor creates a new DOCX reconstructor.
func NewReconstructor() *Reconstructor {
	return &Reconstructor{}
}

// Write serializes doc into outPath. The write is atomic: the archive is
// assembled in a temp file next to the target and renamed into place, so
// outPath either appears complete or not at all.
func (r *Reconstructor) Write(_ context.Context, doc *domain.Document, outPath string) error {
	if _, err := os.Stat(outPath); err == nil {
		return fmt.Errorf("%w: %s already exists", domain.ErrVersionConflict, outPath)
	}

	src, err := zip.OpenReader(doc.SourceFile)
	if err != nil {
		return fmt.Errorf("%w: opening source %s: %v", domain.ErrReconstruction, doc.SourceFile, err)
	}
	defer src.Close()

	docXML, err := buildDocumentXML(doc, trailingSectPr(&src.Reader))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrReconstruction, err)
	}

	tmp := fmt.Sprintf("%s.%s.tmp", outPath, uuid.New().String())
	if err := writeArchive(tmp, &src.Reader, docXML); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %v", domain.ErrReconstruction, err)
	}
	if err := os.Rename(tmp, outPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %v", domain.ErrReconstruction, err)
	}

	logger.Debug("Reconstructed %s (%d bytes of document XML)", outPath, len(docXML))
	return nil
}

// writeArchive assembles the output package: source parts copied through,
// word/document.xml replaced.
func writeArchive(path string, src *zip.Reader, docXML []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := zip.NewWriter(f)

	for _, part := range src.File {
		if part.Name == "word/document.xml" {
			continue
		}
		out, err := w.Create(part.Name)
		if err != nil {
			f.Close()
			return err
		}
		in, err := part.Open()
		if err != nil {
			f.Close()
			return err
		}
		_, err = io.Copy(out, in)
		in.Close()
		if err != nil {
			f.Close()
			return err
		}
	}

	out, err := w.Create("word/document.xml")
	if err != nil {
		f.Close()
		return err
	}
	if _, err := out.Write(docXML); err != nil {
		f.Close()
		return err
	}

	if err := w.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// trailingSectPr lifts the body-final section properties out of the
// source document so page setup survives reconstruction.
func trailingSectPr(src *zip.Reader) string {
	data, err := readPart(src, "word/document.xml")
	if err != nil {
		return ""
	}
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	sect := firstChild(firstChild(firstChild(root, "document"), "body"), "sectPr")
	if sect == nil {
		return ""
	}
	return sect.OutputXML(true)
}

// buildDocumentXML renders the whole word/document.xml part.
func buildDocumentXML(doc *domain.Document, sectPr string) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">`)
	b.WriteString(`<w:body>`)

	for _, id := range doc.Body {
		block, err := blockXML(doc, id)
		if err != nil {
			return nil, err
		}
		data, err := xml.Marshal(block)
		if err != nil {
			return nil, err
		}
		b.Write(data)
	}

	b.WriteString(sectPr)
	b.WriteString(`</w:body></w:document>`)
	return b.Bytes(), nil
}

func blockXML(doc *domain.Document, id string) (any, error) {
	el, ok := doc.Element(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownElementID, id)
	}
	switch el.Kind {
	case domain.KindParagraph:
		return paragraphXML(doc, el)
	case domain.KindTable:
		return tableXML(doc, el)
	default:
		return nil, fmt.Errorf("%s: %s cannot appear as a block", el.ID, el.Kind)
	}
}

func paragraphXML(doc *domain.Document, el *domain.Element) (xmlParagraph, error) {
	para := xmlParagraph{Props: paraPropsXML(el)}
	for _, id := range el.Children {
		run, ok := doc.Element(id)
		if !ok {
			return xmlParagraph{}, fmt.Errorf("%w: %s", domain.ErrUnknownElementID, id)
		}
		props, err := runPropsXML(doc, run.TextPropsRef)
		if err != nil {
			return xmlParagraph{}, err
		}
		para.Runs = append(para.Runs, xmlRun{
			Props: props,
			Items: runItems(run.Content),
		})
	}
	return para, nil
}

func paraPropsXML(el *domain.Element) *xmlParaProps {
	pPr := propMap(el.Properties, "pPr")
	if len(pPr) == 0 {
		return nil
	}
	props := &xmlParaProps{}
	if v := propString(pPr, "styleId"); v != "" {
		props.Style = &xmlVal{Val: v}
	}
	if numPr := propMap(pPr, "numPr"); len(numPr) > 0 {
		num := &xmlNumPr{}
		if v := propString(numPr, "ilvl"); v != "" {
			num.Level = &xmlVal{Val: v}
		}
		if v := propString(numPr, "numId"); v != "" {
			num.NumID = &xmlVal{Val: v}
		}
		props.Numbering = num
	}
	if v := propString(pPr, "jc"); v != "" {
		props.Alignment = &xmlVal{Val: v}
	}
	return props
}

// runPropsXML turns an interned descriptor into explicit run properties.
// Formatting that was inherited from styles at read time is written back
// as direct formatting, which renders identically.
func runPropsXML(doc *domain.Document, ref string) (*xmlRunProps, error) {
	if ref == "" {
		return nil, nil
	}
	desc, err := doc.Registry.Resolve(ref)
	if err != nil {
		return nil, err
	}

	props := &xmlRunProps{}
	empty := true
	if desc.CharacterStyleID != "" {
		props.Style = &xmlVal{Val: desc.CharacterStyleID}
		empty = false
	}
	rf := desc.Run
	if rf.Fonts != nil {
		props.Fonts = &xmlFonts{ASCII: rf.Fonts.ASCII, HAnsi: rf.Fonts.HAnsi}
		empty = false
	}
	if rf.Bold != nil {
		props.Bold = toggleXML(*rf.Bold)
		empty = false
	}
	if rf.Italic != nil {
		props.Italic = toggleXML(*rf.Italic)
		empty = false
	}
	if rf.Strike != nil {
		props.Strike = toggleXML(*rf.Strike)
		empty = false
	}
	if rf.Color != "" {
		props.Color = &xmlVal{Val: rf.Color}
		empty = false
	}
	if rf.SizeHalfPoints > 0 {
		v := strconv.Itoa(rf.SizeHalfPoints)
		props.Size = &xmlVal{Val: v}
		props.SizeCS = &xmlVal{Val: v}
		empty = false
	}
	if rf.Underline != "" {
		props.Underline = &xmlVal{Val: rf.Underline}
		empty = false
	}
	if rf.VertAlign != "" {
		props.VertAlign = &xmlVal{Val: rf.VertAlign}
		empty = false
	}
	if rf.Highlight != "" {
		props.Highlight = &xmlVal{Val: rf.Highlight}
		empty = false
	}

	if empty {
		return nil, nil
	}
	return props, nil
}

// toggleXML writes an OOXML toggle element: presence alone means on, an
// explicit w:val of "0" means off.
func toggleXML(on bool) *xmlOptVal {
	if on {
		return &xmlOptVal{}
	}
	return &xmlOptVal{Val: "0"}
}

// runItems splits run text into w:t, w:tab and w:br children. Text with
// leading or trailing whitespace is marked xml:space="preserve".
func runItems(text string) []xmlRunItem {
	var items []xmlRunItem
	var cur strings.Builder
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		s := cur.String()
		item := xmlRunItem{XMLName: xml.Name{Local: "w:t"}, Text: s}
		if s != strings.TrimSpace(s) {
			item.Space = "preserve"
		}
		items = append(items, item)
		cur.Reset()
	}
	for _, r := range text {
		switch r {
		case '\t':
			flush()
			items = append(items, xmlRunItem{XMLName: xml.Name{Local: "w:tab"}})
		case '\n':
			flush()
			items = append(items, xmlRunItem{XMLName: xml.Name{Local: "w:br"}})
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return items
}

func tableXML(doc *domain.Document, el *domain.Element) (xmlTable, error) {
	tbl := xmlTable{
		Props: xmlTblProps{Width: xmlTblWidth{W: "0", Type: "auto"}},
	}

	cols := 0
	for _, rowID := range el.Children {
		row, ok := doc.Element(rowID)
		if !ok {
			return xmlTable{}, fmt.Errorf("%w: %s", domain.ErrUnknownElementID, rowID)
		}
		xrow := xmlTableRow{}
		width := 0
		for _, cellID := range row.Children {
			cell, ok := doc.Element(cellID)
			if !ok {
				return xmlTable{}, fmt.Errorf("%w: %s", domain.ErrUnknownElementID, cellID)
			}
			xcell, span, err := cellXML(doc, cell)
			if err != nil {
				return xmlTable{}, err
			}
			xrow.Cells = append(xrow.Cells, xcell)
			width += span
		}
		if width > cols {
			cols = width
		}
		tbl.Rows = append(tbl.Rows, xrow)
	}

	tbl.Grid.Cols = make([]xmlGridCol, cols)
	return tbl, nil
}

func cellXML(doc *domain.Document, el *domain.Element) (xmlTableCell, int, error) {
	cell := xmlTableCell{}
	span := 1

	tcPr := propMap(el.Properties, "tcPr")
	if len(tcPr) > 0 {
		props := &xmlCellProps{}
		if v := propString(tcPr, "gridSpan"); v != "" {
			props.Span = &xmlVal{Val: v}
			if n, err := strconv.Atoi(v); err == nil && n > 1 {
				span = n
			}
		}
		switch propString(tcPr, "vMerge") {
		case "continue":
			props.Merge = &xmlOptVal{}
		case "restart":
			props.Merge = &xmlOptVal{Val: "restart"}
		}
		if props.Span != nil || props.Merge != nil {
			cell.Props = props
		}
	}

	lastWasTable := false
	for _, id := range el.Children {
		child, ok := doc.Element(id)
		if !ok {
			return xmlTableCell{}, 0, fmt.Errorf("%w: %s", domain.ErrUnknownElementID, id)
		}
		block, err := blockXML(doc, child.ID)
		if err != nil {
			return xmlTableCell{}, 0, err
		}
		cell.Blocks = append(cell.Blocks, block)
		lastWasTable = child.Kind == domain.KindTable
	}

	// A cell must end with a paragraph.
	if len(cell.Blocks) == 0 || lastWasTable {
		cell.Blocks = append(cell.Blocks, xmlParagraph{})
	}
	return cell, span, nil
}

// propMap digs a nested map out of an element's properties.
func propMap(props map[string]any, key string) map[string]any {
	if props == nil {
		return nil
	}
	m, _ := props[key].(map[string]any)
	return m
}

// propString renders a property value for a w:val attribute. Values
// arrive as strings from conversion and as ints from patches.
func propString(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.Itoa(int(v))
	}
	return ""
}
