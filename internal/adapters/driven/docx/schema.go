package docx

import "encoding/xml"

// Serialization structs for writing word/document.xml. Tags carry the
// literal "w:" prefix; the enclosing w:document element declares the
// namespace, so marshaled fragments drop in as-is.

type xmlVal struct {
	Val string `xml:"w:val,attr"`
}

type xmlOptVal struct {
	Val string `xml:"w:val,attr,omitempty"`
}

type xmlParagraph struct {
	XMLName xml.Name      `xml:"w:p"`
	Props   *xmlParaProps `xml:"w:pPr,omitempty"`
	Runs    []xmlRun      `xml:"w:r"`
}

type xmlParaProps struct {
	Style     *xmlVal   `xml:"w:pStyle,omitempty"`
	Numbering *xmlNumPr `xml:"w:numPr,omitempty"`
	Alignment *xmlVal   `xml:"w:jc,omitempty"`
}

type xmlNumPr struct {
	Level *xmlVal `xml:"w:ilvl,omitempty"`
	NumID *xmlVal `xml:"w:numId,omitempty"`
}

type xmlRun struct {
	XMLName xml.Name     `xml:"w:r"`
	Props   *xmlRunProps `xml:"w:rPr,omitempty"`
	Items   []xmlRunItem
}

// xmlRunItem is one w:t, w:tab or w:br inside a run. XMLName selects the
// element per item so text and breaks keep their relative order.
type xmlRunItem struct {
	XMLName xml.Name
	Space   string `xml:"http://www.w3.org/XML/1998/namespace space,attr,omitempty"`
	Text    string `xml:",chardata"`
}

type xmlRunProps struct {
	Style     *xmlVal    `xml:"w:rStyle,omitempty"`
	Fonts     *xmlFonts  `xml:"w:rFonts,omitempty"`
	Bold      *xmlOptVal `xml:"w:b,omitempty"`
	Italic    *xmlOptVal `xml:"w:i,omitempty"`
	Strike    *xmlOptVal `xml:"w:strike,omitempty"`
	Color     *xmlVal    `xml:"w:color,omitempty"`
	Size      *xmlVal    `xml:"w:sz,omitempty"`
	SizeCS    *xmlVal    `xml:"w:szCs,omitempty"`
	Underline *xmlVal    `xml:"w:u,omitempty"`
	VertAlign *xmlVal    `xml:"w:vertAlign,omitempty"`
	Highlight *xmlVal    `xml:"w:highlight,omitempty"`
}

type xmlFonts struct {
	ASCII string `xml:"w:ascii,attr,omitempty"`
	HAnsi string `xml:"w:hAnsi,attr,omitempty"`
}

type xmlTable struct {
	XMLName xml.Name      `xml:"w:tbl"`
	Props   xmlTblProps   `xml:"w:tblPr"`
	Grid    xmlTblGrid    `xml:"w:tblGrid"`
	Rows    []xmlTableRow
}

type xmlTblProps struct {
	Width xmlTblWidth `xml:"w:tblW"`
}

type xmlTblWidth struct {
	W    string `xml:"w:w,attr"`
	Type string `xml:"w:type,attr"`
}

type xmlTblGrid struct {
	Cols []xmlGridCol `xml:"w:gridCol"`
}

type xmlGridCol struct{}

type xmlTableRow struct {
	XMLName xml.Name       `xml:"w:tr"`
	Cells   []xmlTableCell `xml:"w:tc"`
}

type xmlTableCell struct {
	XMLName xml.Name      `xml:"w:tc"`
	Props   *xmlCellProps `xml:"w:tcPr,omitempty"`
	Blocks  []any
}

type xmlCellProps struct {
	Span  *xmlVal    `xml:"w:gridSpan,omitempty"`
	Merge *xmlOptVal `xml:"w:vMerge,omitempty"`
}
