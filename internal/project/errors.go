package project

import (
	"errors"
	"fmt"
)

// ErrDeclined is returned when the user answers no to a confirmation.
var ErrDeclined = errors.New("canceled")

// TagExistsError is returned when a release tag is already present.
type TagExistsError struct {
	Tag string
}

func (e *TagExistsError) Error() string {
	return fmt.Sprintf("tag %q already exists", e.Tag)
}

// Suggestion returns a hint for resolving the error.
func (e *TagExistsError) Suggestion() string {
	return "Bump the version first with 'keel bump <major|minor|patch>'"
}
