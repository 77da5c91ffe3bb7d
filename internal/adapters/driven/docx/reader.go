package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/docpatch-labs/docpatch-cli/internal/core/domain"
	"github.com/docpatch-labs/docpatch-cli/internal/core/ports/driven"
	"github.com/docpatch-labs/docpatch-cli/internal/logger"
)

// Ensure Converter implements the interface.
var _ driven.Converter = (*Converter)(nil)

// Converter reads a DOCX package into the domain document model.
type Converter struct{}

// NewConverter creates a new DOCX converter.
func NewConverter() *Converter {
	return &Converter{}
}

// Convert opens the DOCX at path and builds a fresh document model.
// Formatting visible on each run is resolved through the style sheet
// (document defaults, paragraph style chain, character style chain,
// direct run properties) and interned in the registry; adjacent runs
// with identical formatting are merged.
func (c *Converter) Convert(_ context.Context, path string) (*domain.Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedSource, err)
	}

	archive, err := zip.OpenReader(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformedSource, abs, err)
	}
	defer archive.Close()

	docXML, err := readPart(&archive.Reader, "word/document.xml")
	if err != nil {
		return nil, fmt.Errorf("%w: %s has no word/document.xml", domain.ErrMalformedSource, abs)
	}
	root, err := xmlquery.Parse(bytes.NewReader(docXML))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing word/document.xml: %v", domain.ErrMalformedSource, err)
	}

	sheet := newStyleSheet()
	if stylesXML, err := readPart(&archive.Reader, "word/styles.xml"); err == nil {
		if stylesRoot, err := xmlquery.Parse(bytes.NewReader(stylesXML)); err == nil {
			sheet.parseStyles(stylesRoot)
		}
	}
	if themeXML, err := readPart(&archive.Reader, "word/theme/theme1.xml"); err == nil {
		if themeRoot, err := xmlquery.Parse(bytes.NewReader(themeXML)); err == nil {
			sheet.parseTheme(themeRoot)
		}
	}

	body := firstChild(firstChild(root, "document"), "body")
	if body == nil {
		return nil, fmt.Errorf("%w: %s has no document body", domain.ErrMalformedSource, abs)
	}

	doc := domain.NewDocument(abs)
	for node := body.FirstChild; node != nil; node = node.NextSibling {
		if node.Type != xmlquery.ElementNode {
			continue
		}
		switch node.Data {
		case "p":
			doc.Append(c.readParagraph(doc, sheet, node).ID)
		case "tbl":
			doc.Append(c.readTable(doc, sheet, node).ID)
		}
	}

	logger.Debug("Converted %s: %d body elements, %d text properties",
		abs, len(doc.Body), doc.Registry.Len())
	return doc, nil
}

// readParagraph builds a paragraph element and its merged runs.
func (c *Converter) readParagraph(doc *domain.Document, sheet *styleSheet, node *xmlquery.Node) *domain.Element {
	p := doc.NewElement(domain.KindParagraph)

	var styleID, alignment string
	if pPr := firstChild(node, "pPr"); pPr != nil {
		props := make(map[string]any)
		if pStyle := firstChild(pPr, "pStyle"); pStyle != nil {
			styleID = attr(pStyle, "val")
			props["styleId"] = styleID
		}
		if jc := firstChild(pPr, "jc"); jc != nil {
			alignment = attr(jc, "val")
			props["jc"] = alignment
		}
		if numPr := firstChild(pPr, "numPr"); numPr != nil {
			num := make(map[string]any)
			if numID := firstChild(numPr, "numId"); numID != nil {
				if n, err := strconv.Atoi(attr(numID, "val")); err == nil {
					num["numId"] = n
				}
			}
			if ilvl := firstChild(numPr, "ilvl"); ilvl != nil {
				if n, err := strconv.Atoi(attr(ilvl, "val")); err == nil {
					num["ilvl"] = n
				}
			}
			if len(num) > 0 {
				props["numPr"] = num
			}
		}
		if len(props) > 0 {
			p.Properties = map[string]any{"pPr": props}
		}
	}

	for _, runNode := range runNodes(node) {
		text := runText(runNode)
		if text == "" {
			continue
		}

		var direct runProps
		if rPr := firstChild(runNode, "rPr"); rPr != nil {
			direct = parseRunProps(rPr)
		}
		desc := domain.PropertyDescriptor{
			Run:              sheet.effectiveFormat(styleID, direct),
			CharacterStyleID: direct.charStyle,
		}
		if styleID != "" {
			desc.ParagraphStyleID = styleID
			desc.ParagraphStyleName = sheet.styleName(styleID)
		}
		ref := doc.Registry.Intern(desc)

		// Merge into the previous run when formatting matches, so one
		// logically continuous span is one element.
		if n := len(p.Children); n > 0 {
			if prev, ok := doc.Element(p.Children[n-1]); ok && prev.TextPropsRef == ref {
				prev.Content += text
				continue
			}
		}
		run := doc.NewElement(domain.KindRun)
		run.Content = text
		run.TextPropsRef = ref
		p.Children = append(p.Children, run.ID)
	}

	return p
}

// readTable builds a table element with its rows and cells. Cell content
// recurses into paragraphs and nested tables.
func (c *Converter) readTable(doc *domain.Document, sheet *styleSheet, node *xmlquery.Node) *domain.Element {
	tbl := doc.NewElement(domain.KindTable)

	for rowNode := node.FirstChild; rowNode != nil; rowNode = rowNode.NextSibling {
		if rowNode.Type != xmlquery.ElementNode || rowNode.Data != "tr" {
			continue
		}
		row := doc.NewElement(domain.KindRow)
		tbl.Children = append(tbl.Children, row.ID)

		for cellNode := rowNode.FirstChild; cellNode != nil; cellNode = cellNode.NextSibling {
			if cellNode.Type != xmlquery.ElementNode || cellNode.Data != "tc" {
				continue
			}
			cell := doc.NewElement(domain.KindCell)
			row.Children = append(row.Children, cell.ID)

			if tcPr := firstChild(cellNode, "tcPr"); tcPr != nil {
				props := make(map[string]any)
				if span := firstChild(tcPr, "gridSpan"); span != nil {
					if n, err := strconv.Atoi(attr(span, "val")); err == nil && n > 1 {
						props["gridSpan"] = n
					}
				}
				if merge := firstChild(tcPr, "vMerge"); merge != nil {
					// A bare w:vMerge continues the merge started above.
					v := attr(merge, "val")
					if v == "" {
						v = "continue"
					}
					props["vMerge"] = v
				}
				if len(props) > 0 {
					cell.Properties = map[string]any{"tcPr": props}
				}
			}

			for blockNode := cellNode.FirstChild; blockNode != nil; blockNode = blockNode.NextSibling {
				if blockNode.Type != xmlquery.ElementNode {
					continue
				}
				switch blockNode.Data {
				case "p":
					cell.Children = append(cell.Children, c.readParagraph(doc, sheet, blockNode).ID)
				case "tbl":
					cell.Children = append(cell.Children, c.readTable(doc, sheet, blockNode).ID)
				}
			}
		}
	}

	return tbl
}

// runNodes collects the w:r children of a paragraph in document order,
// flattening hyperlink wrappers.
func runNodes(para *xmlquery.Node) []*xmlquery.Node {
	var out []*xmlquery.Node
	for node := para.FirstChild; node != nil; node = node.NextSibling {
		if node.Type != xmlquery.ElementNode {
			continue
		}
		switch node.Data {
		case "r":
			out = append(out, node)
		case "hyperlink", "smartTag":
			for inner := node.FirstChild; inner != nil; inner = inner.NextSibling {
				if inner.Type == xmlquery.ElementNode && inner.Data == "r" {
					out = append(out, inner)
				}
			}
		}
	}
	return out
}

// runText extracts the text payload of one run: w:t character data, tabs
// as \t, breaks as \n.
func runText(run *xmlquery.Node) string {
	var b strings.Builder
	for node := run.FirstChild; node != nil; node = node.NextSibling {
		if node.Type != xmlquery.ElementNode {
			continue
		}
		switch node.Data {
		case "t":
			b.WriteString(node.InnerText())
		case "tab":
			b.WriteByte('\t')
		case "br", "cr":
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// readPart returns the raw bytes of one package part.
func readPart(archive *zip.Reader, name string) ([]byte, error) {
	for _, file := range archive.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("part %s not found", name)
}
