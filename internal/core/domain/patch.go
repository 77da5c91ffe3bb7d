package domain

import (
	"encoding/json"
	"fmt"
)

// Position says where an addition is spliced relative to the body.
type Position string

// Valid insertion positions.
const (
	PositionAfter  Position = "after"
	PositionBefore Position = "before"
	PositionEnd    Position = "end"
)

// Valid reports whether p is one of the recognized positions.
func (p Position) Valid() bool {
	switch p {
	case PositionAfter, PositionBefore, PositionEnd:
		return true
	}
	return false
}

// ResponseFormat controls payload verbosity of patch results. It never
// affects what is applied or written.
type ResponseFormat string

// Supported response formats.
const (
	FormatMinimal      ResponseFormat = "minimal"
	FormatIDMapping    ResponseFormat = "id_mapping"
	FormatFullDocument ResponseFormat = "full_document"
)

// Valid reports whether f is one of the recognized formats.
func (f ResponseFormat) Valid() bool {
	switch f {
	case FormatMinimal, FormatIDMapping, FormatFullDocument:
		return true
	}
	return false
}

// Edit changes one property of one element.
type Edit struct {
	// ElementID targets the element; it must exist after deletions ran.
	ElementID string `json:"element_id"`

	// PropertyPath is a dotted path from the closed grammar, or the
	// special path "content" for the text payload.
	PropertyPath string `json:"property_path"`

	// NewValue is type-checked against the path's expected shape.
	NewValue any `json:"new_value"`

	// TextPropsRef, when set on a content edit, re-points the run's
	// formatting reference. The ID must already exist in the registry.
	TextPropsRef string `json:"text_properties_ref,omitempty"`
}

// Addition inserts new elements at a position in the body.
type Addition struct {
	Elements []ElementSpec `json:"elements"`

	Position Position `json:"position"`

	// ReferenceID is required for after/before positions and must name a
	// current top-level body element.
	ReferenceID string `json:"reference_element_id,omitempty"`

	// TextPropsRef, when set, is attached to every created run that does
	// not carry its own reference.
	TextPropsRef string `json:"text_properties_ref,omitempty"`
}

// Batch is one atomic group of patch operations. Phases apply in the
// fixed order deletions, edits, additions; any failure aborts the whole
// batch with nothing written.
type Batch struct {
	Deletions []string   `json:"deletions,omitempty"`
	Edits     []Edit     `json:"edits,omitempty"`
	Additions []Addition `json:"additions,omitempty"`
}

// Empty reports whether the batch contains no operations.
func (b Batch) Empty() bool {
	return len(b.Deletions) == 0 && len(b.Edits) == 0 && len(b.Additions) == 0
}

// Size returns the total number of operations across all phases.
func (b Batch) Size() int {
	return len(b.Deletions) + len(b.Edits) + len(b.Additions)
}

// IDMapping records the element IDs a patch removed and created, in
// operation order, for the caller to reconcile against its prior view.
type IDMapping struct {
	Deleted []string `json:"deleted"`
	Created []string `json:"created"`
}

// RunSpec describes one run inside a new paragraph.
type RunSpec struct {
	Text         string `json:"text"`
	TextPropsRef string `json:"textPropsRef,omitempty"`
}

// CellSpec describes one cell of a new table row. Cell content is a list
// of nested element specifications (paragraphs, nested tables).
type CellSpec struct {
	Content    []ElementSpec  `json:"content"`
	Properties map[string]any `json:"tcPr,omitempty"`
}

// RowSpec describes one row of a new table.
type RowSpec struct {
	Cells []CellSpec `json:"cells"`
}

// ElementSpec describes one element to create. A plain JSON string is an
// accepted shorthand for a paragraph holding a single run with that text.
type ElementSpec struct {
	Kind       ElementKind    `json:"type"`
	Runs       []RunSpec      `json:"content,omitempty"`
	Rows       []RowSpec      `json:"rows,omitempty"`
	Properties map[string]any `json:"pPr,omitempty"`
}

// UnmarshalJSON accepts either the string shorthand or the structured
// object form.
func (s *ElementSpec) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*s = ElementSpec{
			Kind: KindParagraph,
			Runs: []RunSpec{{Text: text}},
		}
		return nil
	}

	type alias ElementSpec
	var obj alias
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("%w: element spec must be a string or object: %v", ErrInvalidInput, err)
	}
	*s = ElementSpec(obj)
	return nil
}

// Validate checks that the described element is constructible.
func (s ElementSpec) Validate() error {
	switch s.Kind {
	case KindParagraph:
		if len(s.Rows) > 0 {
			return fmt.Errorf("%w: paragraph spec cannot carry rows", ErrInvalidInput)
		}
	case KindTable:
		if len(s.Runs) > 0 {
			return fmt.Errorf("%w: table spec cannot carry runs", ErrInvalidInput)
		}
		if len(s.Rows) == 0 {
			return fmt.Errorf("%w: table spec needs at least one row", ErrInvalidInput)
		}
		for _, row := range s.Rows {
			if len(row.Cells) == 0 {
				return fmt.Errorf("%w: table row needs at least one cell", ErrInvalidInput)
			}
			for _, cell := range row.Cells {
				for _, nested := range cell.Content {
					if err := nested.Validate(); err != nil {
						return err
					}
				}
			}
		}
	default:
		return fmt.Errorf("%w: cannot add elements of kind %q", ErrInvalidInput, s.Kind)
	}
	return nil
}

// ToolCall is one audit record of a tool invocation.
type ToolCall struct {
	ID         int64  `json:"id,omitempty"`
	Tool       string `json:"tool"`
	SourcePath string `json:"source_path"`
	OutputPath string `json:"output_path,omitempty"`
	Version    int    `json:"version,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
	CalledAt   string `json:"called_at"`
}
