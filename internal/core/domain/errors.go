package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrMalformedSource indicates the source document could not be parsed.
	// This is terminal for the call; no partial Document is produced.
	ErrMalformedSource = errors.New("malformed source document")

	// ErrUnknownElementID indicates an operation targeted an element ID
	// that does not exist in the current document snapshot.
	ErrUnknownElementID = errors.New("unknown element id")

	// ErrMissingReference indicates an insertion's reference element is
	// not present in the document body.
	ErrMissingReference = errors.New("missing reference element")

	// ErrTypePathMismatch indicates a property path is not valid for the
	// targeted element kind, or the new value has the wrong type.
	ErrTypePathMismatch = errors.New("type/path mismatch")

	// ErrUnknownPropertyID indicates a text properties reference does not
	// resolve to a registry entry.
	ErrUnknownPropertyID = errors.New("unknown property id")

	// ErrReconstruction indicates the model could not be expressed as
	// valid markup. This signals an invariant violation, not user error.
	ErrReconstruction = errors.New("reconstruction failed")

	// ErrVersionConflict indicates the allocated output path already
	// exists at write time.
	ErrVersionConflict = errors.New("version allocation conflict")

	// ErrInvalidInput indicates malformed or invalid caller input.
	ErrInvalidInput = errors.New("invalid input")
)

// Phase identifies one of the three fixed patch stages.
type Phase string

// Patch phases, applied in this order.
const (
	PhaseDeletions Phase = "deletions"
	PhaseEdits     Phase = "edits"
	PhaseAdditions Phase = "additions"
)

// PatchError wraps a failure in one patch phase with the operation context
// the caller needs: which phase and which element ID triggered it.
type PatchError struct {
	Phase     Phase
	ElementID string
	Err       error
}

// Error implements the error interface.
func (e *PatchError) Error() string {
	if e.ElementID == "" {
		return fmt.Sprintf("%s phase: %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("%s phase: element %q: %v", e.Phase, e.ElementID, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *PatchError) Unwrap() error {
	return e.Err
}
