package docx

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/docpatch-labs/docpatch-cli/internal/core/domain"
)

// styleSheet is the part of styles.xml and theme1.xml the converter needs:
// named styles with their inheritance chains, the document defaults, and
// the two theme font slots.
type styleSheet struct {
	styles    map[string]*styleDef
	defaults  runProps
	majorFont string
	minorFont string
}

// styleDef is one w:style entry.
type styleDef struct {
	id      string
	name    string
	kind    string // "paragraph" or "character"
	basedOn string
	run     runProps
}

// runProps is raw run-level formatting as read from one w:rPr block.
// Every field is optional; absent fields inherit.
type runProps struct {
	bold      *bool
	italic    *bool
	strike    *bool
	underline string
	color     string
	highlight string
	size      int
	vertAlign string
	fontASCII string
	fontHAnsi string
	charStyle string
}

func newStyleSheet() *styleSheet {
	return &styleSheet{styles: make(map[string]*styleDef)}
}

// parseStyles reads a styles.xml document into the sheet.
func (s *styleSheet) parseStyles(root *xmlquery.Node) {
	stylesEl := firstChild(root, "styles")
	if stylesEl == nil {
		return
	}

	if defaults := firstChild(stylesEl, "docDefaults"); defaults != nil {
		if rPrDefault := firstChild(defaults, "rPrDefault"); rPrDefault != nil {
			if rPr := firstChild(rPrDefault, "rPr"); rPr != nil {
				s.defaults = parseRunProps(rPr)
			}
		}
	}

	for node := stylesEl.FirstChild; node != nil; node = node.NextSibling {
		if node.Type != xmlquery.ElementNode || node.Data != "style" {
			continue
		}
		def := &styleDef{
			id:   attr(node, "styleId"),
			kind: attr(node, "type"),
		}
		if def.id == "" {
			continue
		}
		if nameEl := firstChild(node, "name"); nameEl != nil {
			def.name = attr(nameEl, "val")
		}
		if basedOn := firstChild(node, "basedOn"); basedOn != nil {
			def.basedOn = attr(basedOn, "val")
		}
		if rPr := firstChild(node, "rPr"); rPr != nil {
			def.run = parseRunProps(rPr)
		}
		s.styles[def.id] = def
	}
}

// parseTheme pulls the latin typefaces of the major and minor font schemes
// out of theme1.xml.
func (s *styleSheet) parseTheme(root *xmlquery.Node) {
	for _, node := range descendants(root, "majorFont") {
		if latin := firstChild(node, "latin"); latin != nil {
			s.majorFont = attr(latin, "typeface")
		}
	}
	for _, node := range descendants(root, "minorFont") {
		if latin := firstChild(node, "latin"); latin != nil {
			s.minorFont = attr(latin, "typeface")
		}
	}
}

// styleName returns the display name of a style, falling back to its ID.
func (s *styleSheet) styleName(id string) string {
	if def, ok := s.styles[id]; ok && def.name != "" {
		return def.name
	}
	return id
}

// chain returns the style's inheritance chain root-first, cycle-safe.
func (s *styleSheet) chain(id string) []*styleDef {
	var out []*styleDef
	seen := make(map[string]bool)
	for id != "" && !seen[id] {
		seen[id] = true
		def, ok := s.styles[id]
		if !ok {
			break
		}
		out = append([]*styleDef{def}, out...)
		id = def.basedOn
	}
	return out
}

// effectiveFormat resolves the formatting a run renders with: document
// defaults, then the paragraph style chain, then the character style
// chain, then the run's own rPr. Later layers win.
func (s *styleSheet) effectiveFormat(paraStyleID string, direct runProps) domain.RunFormat {
	merged := s.defaults
	for _, def := range s.chain(paraStyleID) {
		merged = merged.overlay(def.run)
	}
	for _, def := range s.chain(direct.charStyle) {
		merged = merged.overlay(def.run)
	}
	merged = merged.overlay(direct)

	format := domain.RunFormat{
		Bold:           merged.bold,
		Italic:         merged.italic,
		Strike:         merged.strike,
		Underline:      merged.underline,
		Color:          merged.color,
		Highlight:      merged.highlight,
		SizeHalfPoints: merged.size,
		VertAlign:      merged.vertAlign,
	}
	ascii := s.resolveFont(merged.fontASCII)
	hAnsi := s.resolveFont(merged.fontHAnsi)
	if ascii != "" || hAnsi != "" {
		format.Fonts = &domain.RunFonts{ASCII: ascii, HAnsi: hAnsi}
	}
	return format
}

// resolveFont replaces theme placeholders with the concrete typeface.
func (s *styleSheet) resolveFont(name string) string {
	switch {
	case name == "":
		return ""
	case name == "+mj-lt" || strings.HasPrefix(name, "major"):
		return s.majorFont
	case name == "+mn-lt" || strings.HasPrefix(name, "minor"):
		return s.minorFont
	}
	return name
}

// overlay applies src on top of p, field by field.
func (p runProps) overlay(src runProps) runProps {
	out := p
	if src.bold != nil {
		out.bold = src.bold
	}
	if src.italic != nil {
		out.italic = src.italic
	}
	if src.strike != nil {
		out.strike = src.strike
	}
	if src.underline != "" {
		out.underline = src.underline
	}
	if src.color != "" {
		out.color = src.color
	}
	if src.highlight != "" {
		out.highlight = src.highlight
	}
	if src.size > 0 {
		out.size = src.size
	}
	if src.vertAlign != "" {
		out.vertAlign = src.vertAlign
	}
	if src.fontASCII != "" {
		out.fontASCII = src.fontASCII
	}
	if src.fontHAnsi != "" {
		out.fontHAnsi = src.fontHAnsi
	}
	if src.charStyle != "" {
		out.charStyle = src.charStyle
	}
	return out
}

// parseRunProps reads one w:rPr block.
func parseRunProps(rPr *xmlquery.Node) runProps {
	var p runProps
	for node := rPr.FirstChild; node != nil; node = node.NextSibling {
		if node.Type != xmlquery.ElementNode {
			continue
		}
		switch node.Data {
		case "b":
			p.bold = toggleValue(node)
		case "i":
			p.italic = toggleValue(node)
		case "strike":
			p.strike = toggleValue(node)
		case "u":
			if v := attr(node, "val"); v != "" && v != "none" {
				p.underline = v
			}
		case "color":
			if v := attr(node, "val"); v != "" && v != "auto" {
				p.color = v
			}
		case "highlight":
			if v := attr(node, "val"); v != "" && v != "none" {
				p.highlight = v
			}
		case "sz":
			if n, err := strconv.Atoi(attr(node, "val")); err == nil && n > 0 {
				p.size = n
			}
		case "vertAlign":
			if v := attr(node, "val"); v != "" && v != "baseline" {
				p.vertAlign = v
			}
		case "rFonts":
			p.fontASCII = fontAttr(node, "ascii", "asciiTheme")
			p.fontHAnsi = fontAttr(node, "hAnsi", "hAnsiTheme")
		case "rStyle":
			p.charStyle = attr(node, "val")
		}
	}
	return p
}

// toggleValue interprets OOXML toggle elements: presence means on unless
// w:val says otherwise.
func toggleValue(node *xmlquery.Node) *bool {
	v := attr(node, "val")
	on := v != "0" && !strings.EqualFold(v, "false")
	return &on
}

// fontAttr prefers a concrete typeface attribute, falling back to the
// theme placeholder attribute.
func fontAttr(node *xmlquery.Node, name, themeName string) string {
	if v := attr(node, name); v != "" {
		return v
	}
	return attr(node, themeName)
}
