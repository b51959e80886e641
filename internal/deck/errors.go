package deck

import (
	"errors"
	"fmt"

	"github.com/agnivade/levenshtein"
)

// Deck errors
var (
	ErrDuplicateSlide = errors.New("duplicate slide")
	ErrUnknownSlide   = errors.New("unknown slide")
	ErrEmptySlideID   = errors.New("slide id cannot be empty")
	ErrOrderMismatch  = errors.New("new order must list every registered slide exactly once")
)

// maxSuggestionDistance bounds how different an id may be and still be offered
// as a "did you mean" suggestion.
const maxSuggestionDistance = 3

// DuplicateSlideError is returned when a slide id is registered twice.
// Two cards declaring the same explicit name is a programming error.
type DuplicateSlideError struct {
	ID SlideID
}

func (e *DuplicateSlideError) Error() string {
	return fmt.Sprintf("slide names must be unique; %s has already been registered", e.ID)
}

// Is reports whether target is ErrDuplicateSlide.
func (e *DuplicateSlideError) Is(target error) bool {
	return target == ErrDuplicateSlide
}

// UnknownSlideError is returned when an operation targets an id that is not
// registered with the deck.
type UnknownSlideError struct {
	ID         SlideID
	Suggestion SlideID // closest registered id, empty when nothing is close
}

func (e *UnknownSlideError) Error() string {
	if e.Suggestion != None {
		return fmt.Sprintf("slide %q does not exist (did you mean %q?)", e.ID, e.Suggestion)
	}
	return fmt.Sprintf("slide %q does not exist", e.ID)
}

// Is reports whether target is ErrUnknownSlide.
func (e *UnknownSlideError) Is(target error) bool {
	return target == ErrUnknownSlide
}

// newUnknownSlideError builds an UnknownSlideError, suggesting the closest
// registered id by edit distance.
func newUnknownSlideError(id SlideID, known []SlideID) *UnknownSlideError {
	err := &UnknownSlideError{ID: id}
	best := maxSuggestionDistance + 1
	for _, candidate := range known {
		d := levenshtein.ComputeDistance(string(id), string(candidate))
		if d < best {
			best = d
			err.Suggestion = candidate
		}
	}
	return err
}
