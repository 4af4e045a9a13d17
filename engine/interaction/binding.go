package interaction

import (
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-viz/common"
)

// Precedence selects which part of a binding set is consulted first when both the
// base bindings and an extension match the same event.
type Precedence int

const (
	// PrecedenceUnset is rejected by NewBindingSet.
	PrecedenceUnset Precedence = iota

	// ExtensionsFirst lets extension entries shadow base entries.
	ExtensionsFirst

	// BaseFirst keeps base entries authoritative; extensions only add new mappings.
	BaseFirst
)

// String returns the configuration name of the precedence.
func (p Precedence) String() string {
	switch p {
	case ExtensionsFirst:
		return "extensions-first"
	case BaseFirst:
		return "base-first"
	default:
		return "unset"
	}
}

// ParsePrecedence converts a configuration name to its Precedence.
//
// Parameters:
//   - s: "extensions-first" or "base-first"
//
// Returns:
//   - Precedence: the parsed precedence
//   - error: a *BindingConfigurationError wrapping ErrUnsetPrecedence for any other value
func ParsePrecedence(s string) (Precedence, error) {
	switch s {
	case "extensions-first":
		return ExtensionsFirst, nil
	case "base-first":
		return BaseFirst, nil
	}
	return PrecedenceUnset, &BindingConfigurationError{Index: -1, Err: fmt.Errorf("%w: %q", ErrUnsetPrecedence, s)}
}

// Extractor derives the action parameter from the matching event.
type Extractor func(ev RawEvent) any

// BindingEntry maps a raw event pattern to an action kind.
type BindingEntry struct {
	// Event is the event kind to match.
	Event EventKind

	// Key must equal the event key. Required for key events, zero otherwise.
	Key common.Key

	// Button must equal the event button; ButtonNone matches any button.
	Button common.MouseButton

	// Modifiers must equal the held modifiers, ignoring lock keys.
	Modifiers common.Modifier

	// Action is the resulting action kind.
	Action ActionKind

	// Extract optionally derives the action parameter.
	Extract Extractor
}

// Matches reports whether ev matches the entry's event kind and parameters.
func (e BindingEntry) Matches(ev RawEvent) bool {
	if e.Event != ev.Kind {
		return false
	}
	if e.Event.usesKey() && e.Key != ev.Key {
		return false
	}
	if e.Event.usesButton() && e.Button != common.ButtonNone && e.Button != ev.Button {
		return false
	}
	return e.Modifiers.Normalize() == ev.Modifiers.Normalize()
}

// validate checks that the entry names a declared kind and can match some event.
func (e BindingEntry) validate() error {
	if _, ok := eventKindNames[e.Event]; !ok {
		return fmt.Errorf("%w: event kind %d", ErrMalformedBinding, int(e.Event))
	}
	if !e.Action.Declared() {
		return fmt.Errorf("%w: %s", ErrUnknownActionKind, e.Action)
	}
	if e.Event.usesKey() && e.Key == 0 {
		return fmt.Errorf("%w: %s binding without a key", ErrMalformedBinding, e.Event)
	}
	if !e.Event.usesKey() && e.Key != 0 {
		return fmt.Errorf("%w: %s binding with key %d", ErrMalformedBinding, e.Event, e.Key)
	}
	if !e.Event.usesButton() && e.Button != common.ButtonNone {
		return fmt.Errorf("%w: %s binding with button %s", ErrMalformedBinding, e.Event, e.Button)
	}
	if e.Modifiers != e.Modifiers.Normalize() {
		return fmt.Errorf("%w: unsupported modifier bits %#x", ErrMalformedBinding, int(e.Modifiers))
	}
	return nil
}

// Extender contributes application binding entries to a binding set.
type Extender interface {
	// Extend returns the entries to add, in match order.
	Extend() []BindingEntry
}

// ExtenderFunc adapts a function to the Extender interface.
type ExtenderFunc func() []BindingEntry

// Extend calls f().
func (f ExtenderFunc) Extend() []BindingEntry {
	return f()
}

// BindingSet is an immutable, ordered table of binding entries. The first entry
// matching an event wins.
type BindingSet interface {
	// Entries returns the merged entries in match order.
	Entries() []BindingEntry

	// Precedence returns the configured precedence.
	Precedence() Precedence

	// Match returns the first entry matching ev.
	//
	// Parameters:
	//   - ev: the event
	//
	// Returns:
	//   - BindingEntry: the matching entry
	//   - bool: false if no entry matches
	Match(ev RawEvent) (BindingEntry, bool)
}

type bindingSet struct {
	precedence Precedence
	entries    []BindingEntry

	base      []BindingEntry
	extenders []Extender
}

var _ BindingSet = &bindingSet{}

// NewBindingSet merges the base bindings with the entries of every extender,
// ordered by precedence, and validates the result.
//
// Parameters:
//   - precedence: ExtensionsFirst or BaseFirst
//   - options: variadic list of BindingSetBuilderOption functions
//
// Returns:
//   - BindingSet: the validated binding set
//   - error: a *BindingConfigurationError for an unset precedence or a malformed entry
func NewBindingSet(precedence Precedence, options ...BindingSetBuilderOption) (BindingSet, error) {
	if precedence != ExtensionsFirst && precedence != BaseFirst {
		return nil, &BindingConfigurationError{Index: -1, Err: ErrUnsetPrecedence}
	}
	b := &bindingSet{
		precedence: precedence,
		base:       BaseBindings(),
	}
	for _, option := range options {
		option(b)
	}

	var extensions []BindingEntry
	for _, ext := range b.extenders {
		extensions = append(extensions, ext.Extend()...)
	}
	if precedence == ExtensionsFirst {
		b.entries = append(extensions, b.base...)
	} else {
		b.entries = append(slices.Clone(b.base), extensions...)
	}

	for i, e := range b.entries {
		if err := e.validate(); err != nil {
			return nil, &BindingConfigurationError{Index: i, Entry: e, Err: err}
		}
	}
	common.Logger().Debug("binding set built",
		"precedence", precedence.String(),
		"base", len(b.base),
		"extensions", len(extensions))
	return b, nil
}

// DefaultBindingSet returns the base bindings alone.
func DefaultBindingSet() BindingSet {
	b, err := NewBindingSet(BaseFirst)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *bindingSet) Entries() []BindingEntry {
	return slices.Clone(b.entries)
}

func (b *bindingSet) Precedence() Precedence {
	return b.precedence
}

func (b *bindingSet) Match(ev RawEvent) (BindingEntry, bool) {
	for _, e := range b.entries {
		if e.Matches(ev) {
			return e, true
		}
	}
	return BindingEntry{}, false
}
