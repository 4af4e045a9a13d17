package interaction

import (
	"time"

	"github.com/Carmen-Shannon/oxy-viz/common"
	"github.com/chewxy/math32"
)

// Defaults of the pointer gesture recognizer.
const (
	DefaultDragThreshold       float32 = 3
	DefaultDoubleClickInterval         = 300 * time.Millisecond
)

type pointerState int

const (
	pointerIdle pointerState = iota
	pointerPressed
	pointerDragging
)

// Translator is the ActionTranslator. Translate maps one event to an action using
// the binding set alone. Feed additionally runs the pointer gesture state machine,
// synthesizing drag, click and double-click events from press, move and release
// sequences, and translates both raw and synthesized events in order.
type Translator interface {
	// Translate returns the action of the first binding matching ev. The result
	// depends only on the binding set and ev.
	//
	// Parameters:
	//   - ev: the event
	//
	// Returns:
	//   - Action: the action
	//   - bool: false if no binding matches
	Translate(ev RawEvent) (Action, bool)

	// Feed advances the gesture state machine with a raw event and returns the
	// resulting actions in order.
	//
	// Parameters:
	//   - ev: the raw event
	//
	// Returns:
	//   - []Action: the actions of ev and of the events it synthesized
	Feed(ev RawEvent) []Action

	// Bindings returns the binding set in use.
	Bindings() BindingSet

	// Pointer returns the last known pointer position in window pixels.
	Pointer() [2]float32

	// Reset returns the gesture state machine to idle, discarding any pending press.
	Reset()
}

type translator struct {
	bindings BindingSet

	dragThreshold       float32
	doubleClickInterval time.Duration

	state     pointerState
	button    common.MouseButton
	pressPos  [2]float32
	pointer   [2]float32
	lastClick RawEvent
	clicked   bool
}

var _ Translator = &translator{}

// NewTranslator creates a Translator over a binding set.
//
// Parameters:
//   - bindings: the binding set (must not be nil)
//   - options: variadic list of TranslatorBuilderOption functions
//
// Returns:
//   - Translator: the translator
func NewTranslator(bindings BindingSet, options ...TranslatorBuilderOption) Translator {
	if bindings == nil {
		panic("interaction: NewTranslator requires a BindingSet")
	}
	t := &translator{
		bindings:            bindings,
		dragThreshold:       DefaultDragThreshold,
		doubleClickInterval: DefaultDoubleClickInterval,
	}
	for _, option := range options {
		option(t)
	}
	return t
}

func (t *translator) Translate(ev RawEvent) (Action, bool) {
	entry, ok := t.bindings.Match(ev)
	if !ok {
		return Action{}, false
	}
	a := Action{Kind: entry.Action, Event: ev}
	if entry.Extract != nil {
		a.Param = entry.Extract(ev)
	}
	return a, true
}

func (t *translator) Feed(ev RawEvent) []Action {
	var actions []Action
	emit := func(e RawEvent) {
		if a, ok := t.Translate(e); ok {
			actions = append(actions, a)
		}
	}

	emit(ev)
	for _, synth := range t.advance(ev) {
		emit(synth)
	}
	return actions
}

// advance updates the gesture state with a raw event and returns the synthesized events.
func (t *translator) advance(ev RawEvent) []RawEvent {
	switch ev.Kind {
	case EventPointerPress:
		t.pointer = ev.Position
		if t.state != pointerIdle {
			return nil
		}
		t.state = pointerPressed
		t.button = ev.Button
		t.pressPos = ev.Position

	case EventPointerMove:
		last := t.pointer
		t.pointer = ev.Position
		switch t.state {
		case pointerPressed:
			if distance(t.pressPos, ev.Position) <= t.dragThreshold {
				return nil
			}
			t.state = pointerDragging
			return []RawEvent{t.drag(ev, t.pressPos)}
		case pointerDragging:
			return []RawEvent{t.drag(ev, last)}
		}

	case EventPointerRelease:
		t.pointer = ev.Position
		if ev.Button != t.button || t.state == pointerIdle {
			return nil
		}
		wasPressed := t.state == pointerPressed
		t.state = pointerIdle
		if !wasPressed {
			return nil
		}
		click := ev
		click.Kind = EventClick
		out := []RawEvent{click}
		if t.clicked && t.lastClick.Button == click.Button &&
			click.Timestamp.Sub(t.lastClick.Timestamp) <= t.doubleClickInterval &&
			distance(t.lastClick.Position, click.Position) <= t.dragThreshold {
			double := click
			double.Kind = EventDoubleClick
			out = append(out, double)
			t.clicked = false
		} else {
			t.lastClick = click
			t.clicked = true
		}
		return out
	}
	return nil
}

func (t *translator) drag(ev RawEvent, from [2]float32) RawEvent {
	return RawEvent{
		Kind:      EventPointerDrag,
		Button:    t.button,
		Modifiers: ev.Modifiers,
		Position:  ev.Position,
		Delta:     [2]float32{ev.Position[0] - from[0], ev.Position[1] - from[1]},
		Timestamp: ev.Timestamp,
	}
}

func distance(a, b [2]float32) float32 {
	return math32.Hypot(a[0]-b[0], a[1]-b[1])
}

func (t *translator) Bindings() BindingSet {
	return t.bindings
}

func (t *translator) Pointer() [2]float32 {
	return t.pointer
}

func (t *translator) Reset() {
	t.state = pointerIdle
	t.button = common.ButtonNone
	t.clicked = false
}

// TranslatorBuilderOption is a functional option for configuring a Translator.
type TranslatorBuilderOption func(t *translator)

// WithDragThreshold sets the distance in pixels the pointer must travel while
// pressed before a drag starts. Shorter press-release sequences are clicks.
//
// Parameters:
//   - px: the threshold in pixels
//
// Returns:
//   - TranslatorBuilderOption: option function to apply
func WithDragThreshold(px float32) TranslatorBuilderOption {
	return func(t *translator) {
		t.dragThreshold = max(px, 0)
	}
}

// WithDoubleClickInterval sets the longest delay between two clicks of a double click.
//
// Parameters:
//   - d: the interval
//
// Returns:
//   - TranslatorBuilderOption: option function to apply
func WithDoubleClickInterval(d time.Duration) TranslatorBuilderOption {
	return func(t *translator) {
		t.doubleClickInterval = d
	}
}
