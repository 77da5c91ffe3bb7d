package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/docpatch-labs/docpatch-cli/internal/core/domain"
	"github.com/docpatch-labs/docpatch-cli/internal/core/ports/driving"
	"github.com/docpatch-labs/docpatch-cli/internal/logger"
)

// applyBatch runs the three patch phases - deletions, edits, additions -
// against an in-memory document. The document is a throwaway conversion of
// the source file, so on error the caller simply discards it: nothing is
// ever half-applied to disk.
func applyBatch(doc *domain.Document, batch domain.Batch) (*domain.IDMapping, driving.OperationCounts, error) {
	mapping := &domain.IDMapping{}
	var counts driving.OperationCounts

	if err := applyDeletions(doc, batch.Deletions, mapping); err != nil {
		return nil, counts, err
	}
	counts.Deletions = len(batch.Deletions)

	if err := applyEdits(doc, batch.Edits, mapping); err != nil {
		return nil, counts, err
	}
	counts.Edits = len(batch.Edits)

	for _, add := range batch.Additions {
		if err := applyAddition(doc, add, mapping); err != nil {
			return nil, counts, err
		}
		counts.Additions += len(add.Elements)
	}

	counts.Total = counts.Deletions + counts.Edits + counts.Additions
	return mapping, counts, nil
}

// applyDeletions validates every target against the pre-batch document
// before removing anything, so the error for a batch with one bad ID names
// that ID and leaves the model untouched.
func applyDeletions(doc *domain.Document, ids []string, mapping *domain.IDMapping) error {
	for _, id := range ids {
		if !doc.Has(id) {
			return &domain.PatchError{
				Phase:     domain.PhaseDeletions,
				ElementID: id,
				Err:       fmt.Errorf("%w: %s", domain.ErrUnknownElementID, id),
			}
		}
	}

	for _, id := range ids {
		// An earlier cascade in the same batch may have taken this
		// element out already (e.g. a row deleted with its table).
		if !doc.Has(id) {
			continue
		}
		removed, err := doc.Delete(id)
		if err != nil {
			return &domain.PatchError{Phase: domain.PhaseDeletions, ElementID: id, Err: err}
		}
		logger.Debug("Deleted %s (cascade removed %d elements)", id, len(removed))
		mapping.Deleted = append(mapping.Deleted, removed...)
	}
	return nil
}

func applyEdits(doc *domain.Document, edits []domain.Edit, mapping *domain.IDMapping) error {
	for _, edit := range edits {
		if err := applyEdit(doc, edit, mapping); err != nil {
			return &domain.PatchError{Phase: domain.PhaseEdits, ElementID: edit.ElementID, Err: err}
		}
		logger.Debug("Edited %s %s", edit.ElementID, edit.PropertyPath)
	}
	return nil
}

func applyEdit(doc *domain.Document, edit domain.Edit, mapping *domain.IDMapping) error {
	el, ok := doc.Element(edit.ElementID)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownElementID, edit.ElementID)
	}

	if edit.PropertyPath == "content" {
		return editContent(doc, el, edit, mapping)
	}

	spec, ok := propertyPaths[edit.PropertyPath]
	if !ok {
		return fmt.Errorf("%w: unknown property path %q", domain.ErrInvalidInput, edit.PropertyPath)
	}
	if el.Kind != spec.kind {
		return fmt.Errorf("%w: path %q applies to %s elements, %s is a %s",
			domain.ErrTypePathMismatch, edit.PropertyPath, spec.kind, el.ID, el.Kind)
	}
	value, err := spec.coerce(edit.NewValue)
	if err != nil {
		return fmt.Errorf("path %q: %w", edit.PropertyPath, err)
	}
	setProperty(el, edit.PropertyPath, value)
	return nil
}

// editContent replaces the text payload of a run, or of a whole paragraph.
// Editing a paragraph collapses it to a single run: the first run is
// reused (keeping its formatting reference) and the rest are removed.
func editContent(doc *domain.Document, el *domain.Element, edit domain.Edit, mapping *domain.IDMapping) error {
	text, ok := edit.NewValue.(string)
	if !ok {
		return fmt.Errorf("%w: path \"content\" takes a string, got %T",
			domain.ErrTypePathMismatch, edit.NewValue)
	}
	if edit.TextPropsRef != "" && !doc.Registry.Has(edit.TextPropsRef) {
		return fmt.Errorf("%w: %s", domain.ErrUnknownPropertyID, edit.TextPropsRef)
	}

	switch el.Kind {
	case domain.KindRun:
		el.Content = text
		if edit.TextPropsRef != "" {
			el.TextPropsRef = edit.TextPropsRef
		}
		return nil

	case domain.KindParagraph:
		if len(el.Children) == 0 {
			run := doc.NewElement(domain.KindRun)
			run.Content = text
			run.TextPropsRef = edit.TextPropsRef
			el.Children = []string{run.ID}
			mapping.Created = append(mapping.Created, run.ID)
			return nil
		}
		first, ok := doc.Element(el.Children[0])
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrUnknownElementID, el.Children[0])
		}
		first.Content = text
		if edit.TextPropsRef != "" {
			first.TextPropsRef = edit.TextPropsRef
		}
		for _, extra := range el.Children[1:] {
			removed, err := doc.Delete(extra)
			if err != nil {
				return err
			}
			mapping.Deleted = append(mapping.Deleted, removed...)
		}
		el.Children = []string{first.ID}
		return nil

	default:
		return fmt.Errorf("%w: path \"content\" applies to runs and paragraphs, %s is a %s",
			domain.ErrTypePathMismatch, el.ID, el.Kind)
	}
}

// pathSpec ties one editable property path to the element kind it applies
// to and the value coercion it requires.
type pathSpec struct {
	kind   domain.ElementKind
	coerce func(any) (any, error)
}

// propertyPaths is the closed grammar of editable structural properties.
// Anything else is rejected, not stored blindly.
var propertyPaths = map[string]pathSpec{
	"pPr.jc":          {domain.KindParagraph, enumValue("left", "center", "right", "both", "justify", "distribute")},
	"pPr.styleId":     {domain.KindParagraph, stringValue},
	"pPr.numPr.numId": {domain.KindParagraph, intValue(0)},
	"pPr.numPr.ilvl":  {domain.KindParagraph, intValue(0)},
	"tcPr.gridSpan":   {domain.KindCell, intValue(1)},
	"tcPr.vMerge":     {domain.KindCell, enumValue("restart", "continue")},
}

func stringValue(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: expected string, got %T", domain.ErrTypePathMismatch, v)
	}
	return s, nil
}

func enumValue(allowed ...string) func(any) (any, error) {
	return func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected string, got %T", domain.ErrTypePathMismatch, v)
		}
		for _, a := range allowed {
			if s == a {
				return s, nil
			}
		}
		return nil, fmt.Errorf("%w: %q is not one of %s",
			domain.ErrTypePathMismatch, s, strings.Join(allowed, "|"))
	}
}

// intValue accepts Go ints and whole JSON numbers at or above min.
func intValue(min int) func(any) (any, error) {
	return func(v any) (any, error) {
		var n int
		switch x := v.(type) {
		case int:
			n = x
		case float64:
			if x != math.Trunc(x) {
				return nil, fmt.Errorf("%w: expected integer, got %v", domain.ErrTypePathMismatch, x)
			}
			n = int(x)
		default:
			return nil, fmt.Errorf("%w: expected integer, got %T", domain.ErrTypePathMismatch, v)
		}
		if n < min {
			return nil, fmt.Errorf("%w: value %d below minimum %d", domain.ErrTypePathMismatch, n, min)
		}
		return n, nil
	}
}

// setProperty stores value under the dotted path in the element's
// properties map, creating intermediate maps as needed.
func setProperty(el *domain.Element, path string, value any) {
	if el.Properties == nil {
		el.Properties = make(map[string]any)
	}
	parts := strings.Split(path, ".")
	node := el.Properties
	for _, part := range parts[:len(parts)-1] {
		next, ok := node[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			node[part] = next
		}
		node = next
	}
	node[parts[len(parts)-1]] = value
}

func applyAddition(doc *domain.Document, add domain.Addition, mapping *domain.IDMapping) error {
	if !add.Position.Valid() {
		return &domain.PatchError{
			Phase: domain.PhaseAdditions,
			Err:   fmt.Errorf("%w: unknown position %q", domain.ErrInvalidInput, add.Position),
		}
	}
	if len(add.Elements) == 0 {
		return &domain.PatchError{
			Phase: domain.PhaseAdditions,
			Err:   fmt.Errorf("%w: addition carries no elements", domain.ErrInvalidInput),
		}
	}
	if add.Position != domain.PositionEnd {
		if add.ReferenceID == "" {
			return &domain.PatchError{
				Phase: domain.PhaseAdditions,
				Err:   fmt.Errorf("%w: position %q requires a reference element", domain.ErrInvalidInput, add.Position),
			}
		}
		if doc.BodyIndex(add.ReferenceID) < 0 {
			return &domain.PatchError{
				Phase:     domain.PhaseAdditions,
				ElementID: add.ReferenceID,
				Err:       fmt.Errorf("%w: %s is not a top-level body element", domain.ErrMissingReference, add.ReferenceID),
			}
		}
	}

	for _, spec := range add.Elements {
		if err := spec.Validate(); err != nil {
			return &domain.PatchError{Phase: domain.PhaseAdditions, Err: err}
		}
	}

	ids := make([]string, 0, len(add.Elements))
	for _, spec := range add.Elements {
		el, err := buildElement(doc, spec, add.TextPropsRef, mapping)
		if err != nil {
			return &domain.PatchError{Phase: domain.PhaseAdditions, Err: err}
		}
		ids = append(ids, el.ID)
	}

	switch add.Position {
	case domain.PositionAfter:
		if err := doc.InsertAfter(add.ReferenceID, ids...); err != nil {
			return &domain.PatchError{Phase: domain.PhaseAdditions, ElementID: add.ReferenceID, Err: err}
		}
	case domain.PositionBefore:
		if err := doc.InsertBefore(add.ReferenceID, ids...); err != nil {
			return &domain.PatchError{Phase: domain.PhaseAdditions, ElementID: add.ReferenceID, Err: err}
		}
	default:
		doc.Append(ids...)
	}
	logger.Debug("Added %d elements at position %s", len(ids), add.Position)
	return nil
}

// buildElement materializes one element spec, minting IDs for it and all
// of its descendants. defaultRef is the addition-level formatting
// reference applied to runs that carry none of their own.
func buildElement(doc *domain.Document, spec domain.ElementSpec, defaultRef string, mapping *domain.IDMapping) (*domain.Element, error) {
	switch spec.Kind {
	case domain.KindParagraph:
		p := doc.NewElement(domain.KindParagraph)
		p.Properties = wrapProperties("pPr", spec.Properties)
		mapping.Created = append(mapping.Created, p.ID)
		for _, rs := range spec.Runs {
			ref := rs.TextPropsRef
			if ref == "" {
				ref = defaultRef
			}
			if ref != "" && !doc.Registry.Has(ref) {
				return nil, fmt.Errorf("%w: %s", domain.ErrUnknownPropertyID, ref)
			}
			run := doc.NewElement(domain.KindRun)
			run.Content = rs.Text
			run.TextPropsRef = ref
			p.Children = append(p.Children, run.ID)
			mapping.Created = append(mapping.Created, run.ID)
		}
		return p, nil

	case domain.KindTable:
		tbl := doc.NewElement(domain.KindTable)
		mapping.Created = append(mapping.Created, tbl.ID)
		for _, rowSpec := range spec.Rows {
			row := doc.NewElement(domain.KindRow)
			tbl.Children = append(tbl.Children, row.ID)
			mapping.Created = append(mapping.Created, row.ID)
			for _, cellSpec := range rowSpec.Cells {
				cell := doc.NewElement(domain.KindCell)
				cell.Properties = wrapProperties("tcPr", cellSpec.Properties)
				row.Children = append(row.Children, cell.ID)
				mapping.Created = append(mapping.Created, cell.ID)
				for _, nested := range cellSpec.Content {
					child, err := buildElement(doc, nested, defaultRef, mapping)
					if err != nil {
						return nil, err
					}
					cell.Children = append(cell.Children, child.ID)
				}
			}
		}
		return tbl, nil

	default:
		return nil, fmt.Errorf("%w: cannot add elements of kind %q", domain.ErrInvalidInput, spec.Kind)
	}
}

func wrapProperties(key string, props map[string]any) map[string]any {
	if len(props) == 0 {
		return nil
	}
	return map[string]any{key: props}
}
