package visual

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateName is returned when a variable or compound name is already registered.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrInvalidShape is returned for non-positive texture axes and data whose shape
	// does not fit its declaration.
	ErrInvalidShape = errors.New("invalid shape")

	// ErrUnknownTargetVariable is returned when a compound expands to a name that was
	// not registered as a primitive variable before the compound.
	ErrUnknownTargetVariable = errors.New("unknown compound target variable")

	// ErrUnknownVariable is returned when a name is neither a variable nor a compound.
	ErrUnknownVariable = errors.New("unknown variable")

	// ErrMissingData is returned when a visual is bound while a variable has no data.
	ErrMissingData = errors.New("missing data")

	// ErrInvalidDeclaration is returned for declarations with out-of-range parameters.
	ErrInvalidDeclaration = errors.New("invalid declaration")

	// ErrUseAfterDestroy is returned by every operation on a destroyed visual.
	ErrUseAfterDestroy = errors.New("use after destroy")

	// ErrNotUpdatable is returned when updating a variable that carries no data, such as a varying.
	ErrNotUpdatable = errors.New("variable is not updatable")

	// ErrInvalidState is returned when an operation is not permitted in the current state.
	ErrInvalidState = errors.New("invalid visual state")
)

// DeclarationError reports a failure while declaring or binding a visual. It is
// fatal to the construction of that visual.
type DeclarationError struct {
	// Visual is the name of the visual being declared.
	Visual string

	// Name is the variable or compound involved, if any.
	Name string

	// Err is the underlying cause.
	Err error
}

func (e *DeclarationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("visual %s: declaration: %v", e.Visual, e.Err)
	}
	return fmt.Sprintf("visual %s: declaration of %q: %v", e.Visual, e.Name, e.Err)
}

func (e *DeclarationError) Unwrap() error {
	return e.Err
}

// UpdateError reports a failed data update. The visual stays usable and other
// visuals are unaffected.
type UpdateError struct {
	// Visual is the name of the updated visual.
	Visual string

	// Name is the variable or compound being updated.
	Name string

	// Err is the underlying cause.
	Err error
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("visual %s: update of %q: %v", e.Visual, e.Name, e.Err)
}

func (e *UpdateError) Unwrap() error {
	return e.Err
}
