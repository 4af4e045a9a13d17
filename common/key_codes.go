package common

import (
	"fmt"
	"strings"
)

// Key is a virtual key code. Values match GLFW key codes, which use ASCII values for
// printable keys. The zero value means "no key".
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
type Key int

const (
	KeyUnknown Key = -1 // Unmapped key reported by the platform (GLFW)

	KeyA     Key = 65 // A key (ASCII)
	KeyC     Key = 67 // C key (ASCII)
	KeyD     Key = 68 // D key (ASCII)
	KeyF     Key = 70 // F key (ASCII)
	KeyG     Key = 71 // G key (ASCII)
	KeyQ     Key = 81 // Q key (ASCII)
	KeyR     Key = 82 // R key (ASCII)
	KeyS     Key = 83 // S key (ASCII)
	KeyW     Key = 87 // W key (ASCII)
	KeySpace Key = 32 // Spacebar (ASCII)
	KeyMinus Key = 45 // - key (ASCII)
	KeyEqual Key = 61 // = and + key (ASCII)

	Key0 Key = 48 // 0 key (ASCII)
	Key1 Key = 49 // 1 key (ASCII)
	Key2 Key = 50 // 2 key (ASCII)
	Key3 Key = 51 // 3 key (ASCII)
)

// Additional non-printable keys
const (
	KeyEsc        Key = 256 // Escape key (GLFW)
	KeyEnter      Key = 257 // Enter key (GLFW)
	KeyBackspace  Key = 259 // Backspace key (GLFW)
	KeyRight      Key = 262 // Right arrow (GLFW)
	KeyLeft       Key = 263 // Left arrow (GLFW)
	KeyDown       Key = 264 // Down arrow (GLFW)
	KeyUp         Key = 265 // Up arrow (GLFW)
	KeyKPSubtract Key = 333 // Keypad - (GLFW)
	KeyKPAdd      Key = 334 // Keypad + (GLFW)
	KeyLeftShift  Key = 340 // Left Shift (GLFW)
	KeyRightShift Key = 344 // Right Shift (GLFW)
)

// MouseButton identifies a pointer button. Unlike GLFW, the zero value means
// "no button" so that button-less events carry an unambiguous value.
type MouseButton int

const (
	ButtonNone MouseButton = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// String returns a lowercase name for the button.
func (b MouseButton) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	default:
		return "none"
	}
}

// Modifier is a bit set of held modifier keys. Bit values match glfw.ModifierKey.
type Modifier int

const (
	ModShift   Modifier = 0x0001
	ModControl Modifier = 0x0002
	ModAlt     Modifier = 0x0004
	ModSuper   Modifier = 0x0008

	// modMask covers the modifiers that take part in binding matches. Caps and num
	// lock bits reported by some platforms are ignored.
	modMask = ModShift | ModControl | ModAlt | ModSuper
)

// Normalize strips lock-state bits so that two modifier sets compare equal when the
// same modifier keys are held.
func (m Modifier) Normalize() Modifier {
	return m & modMask
}

var namedKeys = map[string]Key{
	"space":       KeySpace,
	"minus":       KeyMinus,
	"equal":       KeyEqual,
	"escape":      KeyEsc,
	"enter":       KeyEnter,
	"backspace":   KeyBackspace,
	"right":       KeyRight,
	"left":        KeyLeft,
	"down":        KeyDown,
	"up":          KeyUp,
	"kp-subtract": KeyKPSubtract,
	"kp-add":      KeyKPAdd,
	"left-shift":  KeyLeftShift,
	"right-shift": KeyRightShift,
}

// ParseKey converts a key name into a Key. Single letters and digits map to their
// ASCII code; other keys use lowercase kebab-case names such as "space" or "kp-add".
//
// Parameters:
//   - s: the key name, case-insensitive
//
// Returns:
//   - Key: the parsed key
//   - error: an error if the name is unknown
func ParseKey(s string) (Key, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= 'a' && c <= 'z':
			return Key(c - 'a' + 'A'), nil
		case c >= '0' && c <= '9':
			return Key(c), nil
		case c == '-':
			return KeyMinus, nil
		case c == '=':
			return KeyEqual, nil
		}
	}
	if k, ok := namedKeys[name]; ok {
		return k, nil
	}
	return KeyUnknown, fmt.Errorf("common: unknown key %q", s)
}

// ParseMouseButton converts "left", "right", "middle" or "" (any button) into a MouseButton.
func ParseMouseButton(s string) (MouseButton, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "any":
		return ButtonNone, nil
	case "left":
		return ButtonLeft, nil
	case "right":
		return ButtonRight, nil
	case "middle":
		return ButtonMiddle, nil
	}
	return ButtonNone, fmt.Errorf("common: unknown mouse button %q", s)
}

// ParseModifiers combines modifier names ("shift", "control"/"ctrl", "alt", "super")
// into a Modifier set.
//
// Parameters:
//   - names: the modifier names, case-insensitive
//
// Returns:
//   - Modifier: the combined set
//   - error: an error naming the first unknown modifier
func ParseModifiers(names ...string) (Modifier, error) {
	var m Modifier
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "shift":
			m |= ModShift
		case "control", "ctrl":
			m |= ModControl
		case "alt":
			m |= ModAlt
		case "super":
			m |= ModSuper
		default:
			return 0, fmt.Errorf("common: unknown modifier %q", n)
		}
	}
	return m, nil
}
