package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedCharacter is returned when normalized text still holds a
	// rune the report encoding cannot represent.
	ErrUnsupportedCharacter = errors.New("unsupported character")

	// ErrMissingSections is returned when a render is requested without a
	// prior analysis result.
	ErrMissingSections = errors.New("no analysis result for request")
)

// RenderError reports a failed render or artifact write. The artifact is
// not produced when a RenderError is returned.
type RenderError struct {
	Artifact string
	Err      error
}

func (e *RenderError) Error() string {
	if e.Artifact == "" {
		return fmt.Sprintf("render: %v", e.Err)
	}
	return fmt.Sprintf("render %s: %v", e.Artifact, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
