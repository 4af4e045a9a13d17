package interaction

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateActionKind is returned when an action kind name is declared twice.
	ErrDuplicateActionKind = errors.New("duplicate action kind")

	// ErrUnknownActionKind is returned for binding entries naming an undeclared action kind.
	ErrUnknownActionKind = errors.New("unknown action kind")

	// ErrMalformedBinding is returned for binding entries whose event parameters
	// cannot match any event.
	ErrMalformedBinding = errors.New("malformed binding entry")

	// ErrUnsetPrecedence is returned when a binding set is built without choosing
	// whether extensions or base bindings are consulted first.
	ErrUnsetPrecedence = errors.New("binding precedence not set")
)

// BindingConfigurationError reports an invalid action kind declaration or binding
// entry. It is raised when the binding set is built, before any event is processed.
type BindingConfigurationError struct {
	// Index is the position of the offending entry in the merged binding list, or -1
	// when the error is not tied to an entry.
	Index int

	// Entry is the offending entry, if any.
	Entry BindingEntry

	// Err is the underlying cause.
	Err error
}

func (e *BindingConfigurationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("interaction: binding configuration: %v", e.Err)
	}
	return fmt.Sprintf("interaction: binding %d (%s -> %s): %v", e.Index, e.Entry.Event, e.Entry.Action, e.Err)
}

func (e *BindingConfigurationError) Unwrap() error {
	return e.Err
}

// ExtensionError reports a failure of the extension hook while handling an action.
// The view transform is restored to its value before the action.
type ExtensionError struct {
	// Action is the action being handled.
	Action Action

	// Err is the hook's error, or the recovered panic value as an error.
	Err error
}

func (e *ExtensionError) Error() string {
	return fmt.Sprintf("interaction: extension hook for %s: %v", e.Action.Kind, e.Err)
}

func (e *ExtensionError) Unwrap() error {
	return e.Err
}
