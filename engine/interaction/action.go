package interaction

import (
	"fmt"
	"sync"
)

// ActionKind identifies a semantic action. Kinds are issued by DeclareActionKind and
// are unique within the process. The zero value is not a valid kind.
type ActionKind uint32

// Base action kinds, declared when the package is initialized.
var (
	ActionPan    = MustDeclareActionKind("pan")
	ActionZoom   = MustDeclareActionKind("zoom")
	ActionRotate = MustDeclareActionKind("rotate")
	ActionSelect = MustDeclareActionKind("select")
	ActionReset  = MustDeclareActionKind("reset")
)

type kindRegistry struct {
	mu     sync.RWMutex
	names  []string
	byName map[string]ActionKind
}

var kinds = &kindRegistry{
	names:  []string{""},
	byName: make(map[string]ActionKind),
}

// DeclareActionKind registers a new action kind. Applications declare their own
// kinds once, usually in a package-level var block, and bind them with extension
// entries; neither the translator nor the base bindings change.
//
// Parameters:
//   - name: the unique kind name
//
// Returns:
//   - ActionKind: the issued kind
//   - error: a *BindingConfigurationError wrapping ErrDuplicateActionKind if the name is
//     taken, or ErrMalformedBinding for an empty name
func DeclareActionKind(name string) (ActionKind, error) {
	if name == "" {
		return 0, &BindingConfigurationError{Index: -1, Err: fmt.Errorf("%w: empty action kind name", ErrMalformedBinding)}
	}
	kinds.mu.Lock()
	defer kinds.mu.Unlock()
	if _, taken := kinds.byName[name]; taken {
		return 0, &BindingConfigurationError{Index: -1, Err: fmt.Errorf("%w: %q", ErrDuplicateActionKind, name)}
	}
	k := ActionKind(len(kinds.names))
	kinds.names = append(kinds.names, name)
	kinds.byName[name] = k
	return k, nil
}

// MustDeclareActionKind is DeclareActionKind for package-level declarations. It panics on error.
func MustDeclareActionKind(name string) ActionKind {
	k, err := DeclareActionKind(name)
	if err != nil {
		panic(err)
	}
	return k
}

// LookupActionKind returns the kind declared under name.
//
// Parameters:
//   - name: the kind name
//
// Returns:
//   - ActionKind: the kind
//   - bool: false if no kind has that name
func LookupActionKind(name string) (ActionKind, bool) {
	kinds.mu.RLock()
	defer kinds.mu.RUnlock()
	k, ok := kinds.byName[name]
	return k, ok
}

// Declared reports whether k was issued by DeclareActionKind.
func (k ActionKind) Declared() bool {
	kinds.mu.RLock()
	defer kinds.mu.RUnlock()
	return k > 0 && int(k) < len(kinds.names)
}

// String returns the declared name of the kind.
func (k ActionKind) String() string {
	kinds.mu.RLock()
	defer kinds.mu.RUnlock()
	if k > 0 && int(k) < len(kinds.names) {
		return kinds.names[k]
	}
	return fmt.Sprintf("ActionKind(%d)", uint32(k))
}

// Base reports whether k is one of the kinds handled by the Manager itself.
func (k ActionKind) Base() bool {
	switch k {
	case ActionPan, ActionZoom, ActionRotate, ActionSelect, ActionReset:
		return true
	}
	return false
}

// Action is a semantic event produced by translating a raw event through a binding.
type Action struct {
	// Kind is the action kind.
	Kind ActionKind

	// Param is the value returned by the binding's extractor, or nil.
	Param any

	// Event is the raw or synthesized event that matched.
	Event RawEvent
}

// PanParam moves the view by a distance in pixels.
type PanParam struct {
	DX, DY float32
}

// ZoomParam zooms the view by exp(Amount * zoom speed) around an anchor.
type ZoomParam struct {
	// Amount is positive to zoom in and negative to zoom out.
	Amount float32

	// Anchor is the window position in pixels that stays fixed, when HasAnchor is set.
	// Otherwise the view center stays fixed.
	Anchor    [2]float32
	HasAnchor bool
}

// RotateParam rotates the view counter-clockwise by Angle radians.
type RotateParam struct {
	Angle float32
}

// SelectParam selects the data point under a window position in pixels.
type SelectParam struct {
	Position [2]float32
}
