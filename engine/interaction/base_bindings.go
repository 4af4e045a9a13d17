package interaction

import "github.com/Carmen-Shannon/oxy-viz/common"

// Step sizes of the keyboard and pointer navigation bindings.
const (
	KeyPanStep     float32 = 40
	KeyZoomStep    float32 = 0.2
	WheelZoomRate  float32 = 0.1
	DragZoomRate   float32 = 0.01
	DragRotateRate float32 = 0.01
)

// BaseBindings returns the navigation bindings: left drag or arrow keys pan,
// right drag, the wheel or +/- zoom, middle drag rotates, a left click selects,
// and R or a left double click resets the view.
//
// Returns:
//   - []BindingEntry: a fresh copy of the base entries
func BaseBindings() []BindingEntry {
	return []BindingEntry{
		{Event: EventPointerDrag, Button: common.ButtonLeft, Action: ActionPan, Extract: dragPan},
		{Event: EventPointerDrag, Button: common.ButtonRight, Action: ActionZoom, Extract: dragZoom},
		{Event: EventPointerDrag, Button: common.ButtonMiddle, Action: ActionRotate, Extract: dragRotate},
		{Event: EventWheel, Action: ActionZoom, Extract: wheelZoom},

		{Event: EventKeyDown, Key: common.KeyLeft, Action: ActionPan, Extract: constant(PanParam{DX: -KeyPanStep})},
		{Event: EventKeyDown, Key: common.KeyRight, Action: ActionPan, Extract: constant(PanParam{DX: KeyPanStep})},
		{Event: EventKeyDown, Key: common.KeyUp, Action: ActionPan, Extract: constant(PanParam{DY: -KeyPanStep})},
		{Event: EventKeyDown, Key: common.KeyDown, Action: ActionPan, Extract: constant(PanParam{DY: KeyPanStep})},

		{Event: EventKeyDown, Key: common.KeyEqual, Action: ActionZoom, Extract: constant(ZoomParam{Amount: KeyZoomStep})},
		{Event: EventKeyDown, Key: common.KeyEqual, Modifiers: common.ModShift, Action: ActionZoom, Extract: constant(ZoomParam{Amount: KeyZoomStep})},
		{Event: EventKeyDown, Key: common.KeyKPAdd, Action: ActionZoom, Extract: constant(ZoomParam{Amount: KeyZoomStep})},
		{Event: EventKeyDown, Key: common.KeyMinus, Action: ActionZoom, Extract: constant(ZoomParam{Amount: -KeyZoomStep})},
		{Event: EventKeyDown, Key: common.KeyKPSubtract, Action: ActionZoom, Extract: constant(ZoomParam{Amount: -KeyZoomStep})},

		{Event: EventClick, Button: common.ButtonLeft, Action: ActionSelect, Extract: selectAt},
		{Event: EventKeyDown, Key: common.KeyR, Action: ActionReset},
		{Event: EventDoubleClick, Button: common.ButtonLeft, Action: ActionReset},
	}
}

func constant(v any) Extractor {
	return func(RawEvent) any { return v }
}

// Pointer moves to the right and up pan the data the same way.
func dragPan(ev RawEvent) any {
	return PanParam{DX: ev.Delta[0], DY: ev.Delta[1]}
}

func dragZoom(ev RawEvent) any {
	return ZoomParam{Amount: (ev.Delta[0] - ev.Delta[1]) * DragZoomRate, Anchor: ev.Position, HasAnchor: true}
}

func dragRotate(ev RawEvent) any {
	return RotateParam{Angle: ev.Delta[0] * DragRotateRate}
}

func wheelZoom(ev RawEvent) any {
	return ZoomParam{Amount: ev.Delta[1] * WheelZoomRate, Anchor: ev.Position, HasAnchor: true}
}

func selectAt(ev RawEvent) any {
	return SelectParam{Position: ev.Position}
}
