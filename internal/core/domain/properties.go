package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// RunFonts names the fonts a run renders with. Only the Latin slots are
// modeled; theme references are resolved to concrete typefaces during
// conversion.
type RunFonts struct {
	ASCII string `json:"ascii,omitempty"`
	HAnsi string `json:"hAnsi,omitempty"`
}

// RunFormat is the visible run-level formatting (the rPr subset modeled by
// docpatch). Pointer booleans distinguish "explicitly off" from "inherit".
type RunFormat struct {
	Fonts          *RunFonts `json:"rFonts,omitempty"`
	Bold           *bool     `json:"bold,omitempty"`
	Italic         *bool     `json:"italic,omitempty"`
	Strike         *bool     `json:"strike,omitempty"`
	Underline      string    `json:"underline,omitempty"`
	Color          string    `json:"color,omitempty"`
	Highlight      string    `json:"highlight,omitempty"`
	SizeHalfPoints int       `json:"sizeHalfPoints,omitempty"`
	VertAlign      string    `json:"vertAlign,omitempty"`
}

// PropertyDescriptor is a canonicalized bundle of formatting attributes,
// interned once per distinct canonical key and referenced by ID.
type PropertyDescriptor struct {
	Run                RunFormat `json:"rPr"`
	FontName           string    `json:"fontName,omitempty"`
	FontSizePt         float64   `json:"fontSizePt,omitempty"`
	ParagraphStyleID   string    `json:"paragraphStyleId,omitempty"`
	ParagraphStyleName string    `json:"paragraphStyleName,omitempty"`
	CharacterStyleID   string    `json:"characterStyleId,omitempty"`
	Alignment          string    `json:"alignment,omitempty"`
}

// Canonicalize returns a normalized copy: colors upper-cased, font names
// trimmed, "none" underline dropped, derived fields (fontName, fontSizePt)
// recomputed from the run format. Two descriptors that render identically
// canonicalize to equal values.
func (p PropertyDescriptor) Canonicalize() PropertyDescriptor {
	out := p
	out.Run.Color = strings.ToUpper(strings.TrimSpace(p.Run.Color))
	out.Run.Highlight = strings.ToLower(strings.TrimSpace(p.Run.Highlight))
	if strings.EqualFold(out.Run.Underline, "none") {
		out.Run.Underline = ""
	}
	if p.Run.Fonts != nil {
		fonts := RunFonts{
			ASCII: strings.TrimSpace(p.Run.Fonts.ASCII),
			HAnsi: strings.TrimSpace(p.Run.Fonts.HAnsi),
		}
		if fonts.ASCII == "" {
			fonts.ASCII = fonts.HAnsi
		}
		if fonts.HAnsi == "" {
			fonts.HAnsi = fonts.ASCII
		}
		if fonts == (RunFonts{}) {
			out.Run.Fonts = nil
		} else {
			out.Run.Fonts = &fonts
		}
	}
	// Explicit false stays (it overrides an inherited true); nil stays nil.
	out.FontName = ""
	if out.Run.Fonts != nil {
		out.FontName = out.Run.Fonts.ASCII
	}
	out.FontSizePt = 0
	if out.Run.SizeHalfPoints > 0 {
		out.FontSizePt = float64(out.Run.SizeHalfPoints) / 2
	}
	return out
}

// CanonicalKey returns the order/format-independent identity of the
// descriptor. JSON of the canonicalized struct is deterministic because
// struct field order is fixed.
func (p PropertyDescriptor) CanonicalKey() string {
	data, err := json.Marshal(p.Canonicalize())
	if err != nil {
		// Marshal of this struct cannot fail; keep the signature total.
		return fmt.Sprintf("%#v", p)
	}
	return string(data)
}

// PropertyRegistry interns formatting descriptors and issues stable
// semantic IDs. It grows append-only during a conversion pass and is
// treated as read-only once handed to callers.
type PropertyRegistry struct {
	byID  map[string]PropertyDescriptor
	byKey map[string]string
	order []string
}

// NewPropertyRegistry creates an empty registry.
func NewPropertyRegistry() *PropertyRegistry {
	return &PropertyRegistry{
		byID:  make(map[string]PropertyDescriptor),
		byKey: make(map[string]string),
	}
}

// Intern returns the ID of an existing entry with the same canonical key,
// or adds the descriptor under a freshly generated semantic ID.
func (r *PropertyRegistry) Intern(desc PropertyDescriptor) string {
	canon := desc.Canonicalize()
	key := canon.CanonicalKey()
	if id, ok := r.byKey[key]; ok {
		return id
	}

	base := semanticName(canon)
	id := base
	for n := 2; ; n++ {
		if _, taken := r.byID[id]; !taken {
			break
		}
		id = fmt.Sprintf("%s_%d", base, n)
	}

	r.byID[id] = canon
	r.byKey[key] = id
	r.order = append(r.order, id)
	return id
}

// InternNamed adds the descriptor under a caller-assigned symbolic ID.
// If the ID is already bound to a different canonical key the call fails;
// interning the identical descriptor under its existing name is a no-op.
func (r *PropertyRegistry) InternNamed(id string, desc PropertyDescriptor) error {
	canon := desc.Canonicalize()
	key := canon.CanonicalKey()
	if existing, ok := r.byID[id]; ok {
		if existing.CanonicalKey() != key {
			return fmt.Errorf("property id %q already bound to a different descriptor", id)
		}
		return nil
	}
	r.byID[id] = canon
	if _, ok := r.byKey[key]; !ok {
		r.byKey[key] = id
	}
	r.order = append(r.order, id)
	return nil
}

// Resolve returns the descriptor for an ID.
func (r *PropertyRegistry) Resolve(id string) (PropertyDescriptor, error) {
	desc, ok := r.byID[id]
	if !ok {
		return PropertyDescriptor{}, fmt.Errorf("%w: %s", ErrUnknownPropertyID, id)
	}
	return desc, nil
}

// Has reports whether the ID is registered.
func (r *PropertyRegistry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Len returns the number of interned descriptors.
func (r *PropertyRegistry) Len() int {
	return len(r.byID)
}

// IDs returns the registered IDs in insertion order.
func (r *PropertyRegistry) IDs() []string {
	return append([]string(nil), r.order...)
}

// Snapshot returns the registry contents as a map for serialization.
func (r *PropertyRegistry) Snapshot() map[string]PropertyDescriptor {
	out := make(map[string]PropertyDescriptor, len(r.byID))
	for id, desc := range r.byID {
		out[id] = desc
	}
	return out
}

var headingRE = regexp.MustCompile(`heading\s*(\d+)`)

// semanticName derives a human-readable registry ID from the descriptor:
// style tag, emphasis flags, font, size, color and highlight, joined with
// underscores and suffixed "_format". An empty descriptor becomes
// "default_text_format".
func semanticName(p PropertyDescriptor) string {
	var parts []string

	style := strings.ToLower(strings.TrimSpace(p.ParagraphStyleName))
	if style == "" {
		style = strings.ToLower(strings.TrimSpace(p.ParagraphStyleID))
	}
	if style != "" {
		if m := headingRE.FindStringSubmatch(style); m != nil {
			parts = append(parts, "heading_"+m[1])
		} else {
			parts = append(parts, strings.ReplaceAll(style, " ", "_"))
		}
	}

	if p.Run.Bold != nil && *p.Run.Bold {
		parts = append(parts, "bold")
	}
	if p.Run.Italic != nil && *p.Run.Italic {
		parts = append(parts, "italic")
	}
	if p.Run.Underline != "" {
		parts = append(parts, "underline")
	}
	if p.Run.Fonts != nil && p.Run.Fonts.ASCII != "" {
		parts = append(parts, strings.ReplaceAll(strings.ToLower(p.Run.Fonts.ASCII), " ", "_"))
	}
	if p.Run.SizeHalfPoints > 0 {
		parts = append(parts, fmt.Sprintf("%dpt", p.Run.SizeHalfPoints/2))
	}
	if p.Run.Color != "" {
		parts = append(parts, "color_"+strings.ToLower(p.Run.Color))
	}
	if p.Run.Highlight != "" {
		parts = append(parts, "highlight_"+strings.ToLower(p.Run.Highlight))
	}

	if len(parts) == 0 {
		return "default_text_format"
	}
	return strings.Join(parts, "_") + "_format"
}

// SortedIDs returns the registered IDs in lexical order. Useful for
// deterministic output in tests and listings.
func (r *PropertyRegistry) SortedIDs() []string {
	ids := r.IDs()
	sort.Strings(ids)
	return ids
}
