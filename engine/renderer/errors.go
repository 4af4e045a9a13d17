package renderer

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch is returned when uploaded data does not match the allocated shape.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrUnknownRef is returned for handles that were never issued or already released.
	ErrUnknownRef = errors.New("unknown resource reference")

	// ErrInvalidSpec is returned when a buffer description cannot be allocated.
	ErrInvalidSpec = errors.New("invalid buffer spec")

	// ErrNoFrame is returned when a draw is submitted outside BeginFrame and EndFrame.
	ErrNoFrame = errors.New("no frame in progress")

	// ErrCompile is returned when a program fails to compile or link.
	ErrCompile = errors.New("program compilation failed")
)

// BackendError wraps every failure reported by a GraphicsBackend call.
type BackendError struct {
	// Backend is the name of the failing backend.
	Backend string

	// Op is the backend operation that failed, e.g. "upload".
	Op string

	// Err is the underlying cause.
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("renderer: %s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// backendError wraps err as a *BackendError unless it is nil or already one.
func backendError(backend, op string, err error) error {
	if err == nil {
		return nil
	}
	var be *BackendError
	if errors.As(err, &be) {
		return err
	}
	return &BackendError{Backend: backend, Op: op, Err: err}
}
