package scene

import (
	"errors"
	"fmt"
)

// ErrUnknownHandle is returned for handles that were never issued or whose visual has been removed.
var ErrUnknownHandle = errors.New("unknown dataset handle")

// InitializationError reports a visual that could not be declared or bound while
// being added to a scene. The scene is left unchanged.
type InitializationError struct {
	// Visual is the name of the visual type being added.
	Visual string

	// Err is the underlying *visual.DeclarationError or backend failure.
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("scene: initialize visual %s: %v", e.Visual, e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}
