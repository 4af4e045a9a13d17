package interaction

import (
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-viz/common"
)

// EventKind is the kind of a raw or synthesized device event.
type EventKind int

const (
	EventNone EventKind = iota
	EventKeyDown
	EventKeyUp
	EventPointerPress
	EventPointerRelease
	EventPointerMove
	EventWheel
	EventResize

	// Synthesized by the Translator from press, move and release sequences.
	EventPointerDrag
	EventClick
	EventDoubleClick
)

var eventKindNames = map[EventKind]string{
	EventKeyDown:        "key-down",
	EventKeyUp:          "key-up",
	EventPointerPress:   "pointer-press",
	EventPointerRelease: "pointer-release",
	EventPointerMove:    "pointer-move",
	EventWheel:          "wheel",
	EventResize:         "resize",
	EventPointerDrag:    "pointer-drag",
	EventClick:          "click",
	EventDoubleClick:    "double-click",
}

// String returns the kebab-case event name used in configuration files.
func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// ParseEventKind converts a kebab-case event name to its EventKind.
//
// Parameters:
//   - s: the event name, e.g. "key-down" or "pointer-drag"
//
// Returns:
//   - EventKind: the parsed kind
//   - error: an error if the name is unknown
func ParseEventKind(s string) (EventKind, error) {
	for k, name := range eventKindNames {
		if name == s {
			return k, nil
		}
	}
	return EventNone, fmt.Errorf("interaction: unknown event kind %q", s)
}

// usesKey reports whether events of kind k carry a key.
func (k EventKind) usesKey() bool {
	return k == EventKeyDown || k == EventKeyUp
}

// usesButton reports whether events of kind k carry a pointer button.
func (k EventKind) usesButton() bool {
	switch k {
	case EventPointerPress, EventPointerRelease, EventPointerDrag, EventClick, EventDoubleClick:
		return true
	}
	return false
}

// RawEvent is a device event as delivered by an EventSource, or synthesized from
// such events by the Translator.
type RawEvent struct {
	// Kind is the event kind.
	Kind EventKind

	// Key is the key of key events.
	Key common.Key

	// Button is the pointer button of press, release, drag and click events.
	Button common.MouseButton

	// Modifiers holds the modifier keys held when the event occurred.
	Modifiers common.Modifier

	// Position is the pointer position in window pixels, origin top-left.
	Position [2]float32

	// Delta is the pointer motion of drag events and the scroll offset of wheel events.
	Delta [2]float32

	// Size is the new framebuffer size of resize events.
	Size [2]int

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// EventSource delivers raw device events in arrival order.
type EventSource interface {
	// PollEvents returns the events received since the previous call, oldest first.
	PollEvents() []RawEvent
}
