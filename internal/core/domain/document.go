package domain

import (
	"fmt"
	"strings"
)

// ElementKind identifies the structural type of an element.
type ElementKind string

// Supported element kinds.
const (
	KindParagraph ElementKind = "paragraph"
	KindRun       ElementKind = "run"
	KindTable     ElementKind = "table"
	KindRow       ElementKind = "row"
	KindCell      ElementKind = "cell"
)

// idPrefixes maps each kind to its element ID prefix.
// The first paragraph is p-1, the first run t-1, and so on.
var idPrefixes = map[ElementKind]string{
	KindParagraph: "p",
	KindRun:       "t",
	KindTable:     "tbl",
	KindRow:       "tr",
	KindCell:      "tc",
}

// Prefix returns the ID prefix for the kind ("p" for paragraphs, "t" for
// runs, "tbl"/"tr"/"tc" for table structure).
func (k ElementKind) Prefix() string {
	return idPrefixes[k]
}

// Container reports whether elements of this kind hold child elements.
func (k ElementKind) Container() bool {
	return k != KindRun
}

// Element is one addressable node in the document model.
// Children are stored as ID references into the owning Document's arena,
// never as direct pointers.
type Element struct {
	// ID is unique within the Document for its entire lifetime,
	// including across patch phases.
	ID string

	// Kind is the structural type.
	Kind ElementKind

	// Content is the text payload for runs.
	Content string

	// Properties holds structural/formatting properties addressable by
	// dotted path, e.g. Properties["pPr"]["jc"] for paragraph alignment.
	Properties map[string]any

	// Children lists child element IDs in document order.
	Children []string

	// TextPropsRef references a PropertyRegistry entry (runs only).
	TextPropsRef string
}

// Document is the in-memory model of one DOCX document: an arena of
// elements indexed by ID, an ordered body of top-level element IDs, and
// the property registry the elements reference.
//
// A Document is created fresh by the converter for each call and is not
// safe for concurrent mutation.
type Document struct {
	// SourceFile is the absolute path of the document this model was
	// converted from.
	SourceFile string

	// Body lists top-level element IDs in document order.
	Body []string

	// Registry holds the interned formatting descriptors.
	Registry *PropertyRegistry

	elements map[string]*Element
	counters map[ElementKind]int
}

// NewDocument creates an empty document model for the given source path.
func NewDocument(sourceFile string) *Document {
	return &Document{
		SourceFile: sourceFile,
		Registry:   NewPropertyRegistry(),
		elements:   make(map[string]*Element),
		counters:   make(map[ElementKind]int),
	}
}

// NewElement mints a fresh element of the given kind with a unique,
// never-before-used ID and adds it to the arena. The caller is responsible
// for attaching the ID to Body or to a container's Children.
//
// Counters only ever advance, so an ID freed by deletion is never reissued
// within this Document's lifetime.
func (d *Document) NewElement(kind ElementKind) *Element {
	d.counters[kind]++
	el := &Element{
		ID:   fmt.Sprintf("%s-%d", kind.Prefix(), d.counters[kind]),
		Kind: kind,
	}
	d.elements[el.ID] = el
	return el
}

// Element returns the element with the given ID, if present.
func (d *Document) Element(id string) (*Element, bool) {
	el, ok := d.elements[id]
	return el, ok
}

// Has reports whether an element with the given ID currently exists.
func (d *Document) Has(id string) bool {
	_, ok := d.elements[id]
	return ok
}

// Len returns the number of elements currently in the arena.
func (d *Document) Len() int {
	return len(d.elements)
}

// BodyIndex returns the position of id within Body, or -1.
func (d *Document) BodyIndex(id string) int {
	for i, bid := range d.Body {
		if bid == id {
			return i
		}
	}
	return -1
}

// parentOf locates the container whose Children includes id.
// Top-level elements have no parent.
func (d *Document) parentOf(id string) (*Element, int) {
	for _, el := range d.elements {
		for i, cid := range el.Children {
			if cid == id {
				return el, i
			}
		}
	}
	return nil, -1
}

// Descendants returns the IDs of all elements below id, depth first in
// document order. The element itself is not included.
func (d *Document) Descendants(id string) []string {
	el, ok := d.elements[id]
	if !ok {
		return nil
	}
	var out []string
	for _, cid := range el.Children {
		out = append(out, cid)
		out = append(out, d.Descendants(cid)...)
	}
	return out
}

// Delete removes the element and, recursively, all of its descendants.
// The cascade runs downward only: deleting a run leaves its paragraph in
// place. Returns the removed IDs, target first, descendants depth first.
func (d *Document) Delete(id string) ([]string, error) {
	if !d.Has(id) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownElementID, id)
	}

	removed := append([]string{id}, d.Descendants(id)...)

	// Detach from the body or from the parent container.
	if i := d.BodyIndex(id); i >= 0 {
		d.Body = append(d.Body[:i], d.Body[i+1:]...)
	} else if parent, i := d.parentOf(id); parent != nil {
		parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
	}

	for _, rid := range removed {
		delete(d.elements, rid)
	}
	return removed, nil
}

// InsertAfter splices ids into the body immediately after refID.
func (d *Document) InsertAfter(refID string, ids ...string) error {
	return d.spliceBody(refID, 1, ids)
}

// InsertBefore splices ids into the body immediately before refID.
func (d *Document) InsertBefore(refID string, ids ...string) error {
	return d.spliceBody(refID, 0, ids)
}

// Append adds ids to the tail of the body.
func (d *Document) Append(ids ...string) {
	d.Body = append(d.Body, ids...)
}

func (d *Document) spliceBody(refID string, offset int, ids []string) error {
	i := d.BodyIndex(refID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrMissingReference, refID)
	}
	at := i + offset
	d.Body = append(d.Body[:at], append(append([]string{}, ids...), d.Body[at:]...)...)
	return nil
}

// Text returns the concatenated run text of the whole body in document
// order, paragraphs separated by newlines.
func (d *Document) Text() string {
	var parts []string
	for _, id := range d.Body {
		parts = append(parts, d.textOf(id)...)
	}
	return strings.Join(parts, "\n")
}

// textOf collects the paragraph-level strings under an element.
func (d *Document) textOf(id string) []string {
	el, ok := d.elements[id]
	if !ok {
		return nil
	}
	switch el.Kind {
	case KindRun:
		return []string{el.Content}
	case KindParagraph:
		var b strings.Builder
		for _, cid := range el.Children {
			if run, ok := d.elements[cid]; ok && run.Kind == KindRun {
				b.WriteString(run.Content)
			}
		}
		return []string{b.String()}
	default:
		var out []string
		for _, cid := range el.Children {
			out = append(out, d.textOf(cid)...)
		}
		return out
	}
}

// Validate checks the structural invariants: every child reference and
// body entry resolves, no element is claimed by two containers, and every
// text properties reference resolves in the registry.
func (d *Document) Validate() error {
	owners := make(map[string]string)
	for _, el := range d.elements {
		for _, cid := range el.Children {
			if _, ok := d.elements[cid]; !ok {
				return fmt.Errorf("%w: %s (child of %s)", ErrUnknownElementID, cid, el.ID)
			}
			if prev, taken := owners[cid]; taken {
				return fmt.Errorf("element %s claimed by both %s and %s", cid, prev, el.ID)
			}
			owners[cid] = el.ID
		}
		if el.TextPropsRef != "" {
			if _, err := d.Registry.Resolve(el.TextPropsRef); err != nil {
				return fmt.Errorf("element %s: %w", el.ID, err)
			}
		}
	}
	for _, id := range d.Body {
		if _, ok := d.elements[id]; !ok {
			return fmt.Errorf("%w: %s (in body)", ErrUnknownElementID, id)
		}
	}
	return nil
}
