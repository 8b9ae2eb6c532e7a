package composer

import (
	"errors"
	"fmt"
)

// ErrEmptyDocument reports a document without sections.
// Render accepts such documents; callers decide whether to block on it.
var ErrEmptyDocument = errors.New("document has no sections")

// MissingResourceError is returned when a declared font file is absent.
type MissingResourceError struct {
	Path string
	Err  error
}

func (e *MissingResourceError) Error() string {
	return fmt.Sprintf("font resource not found: %s", e.Path)
}

func (e *MissingResourceError) Unwrap() error {
	return e.Err
}

// InvalidColorError is returned when a color string is not 6 hex digits.
type InvalidColorError struct {
	Value  string
	Reason string
}

func (e *InvalidColorError) Error() string {
	return fmt.Sprintf("invalid color %q: %s", e.Value, e.Reason)
}

// CheckNotEmpty returns ErrEmptyDocument if doc has no sections.
func CheckNotEmpty(doc Document) error {
	if len(doc.Sections) == 0 {
		return ErrEmptyDocument
	}
	return nil
}
