package interaction

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-viz/common"
	"github.com/Carmen-Shannon/oxy-viz/engine/scene"
	"github.com/chewxy/math32"
)

// Defaults of the view navigation.
const (
	DefaultPanSpeed  float32 = 1
	DefaultZoomSpeed float32 = 1
	DefaultMinZoom   float32 = 1e-3
	DefaultMaxZoom   float32 = 1e6
	DefaultFitMargin float32 = 0.05
)

// ExtensionHandler handles the actions whose kind the Manager does not handle itself.
type ExtensionHandler interface {
	// ProcessExtendedAction handles an application-declared action. The manager
	// gives access to the scene and the view; a returned error or a panic restores
	// the view to its value before the action.
	//
	// Parameters:
	//   - m: the manager dispatching the action
	//   - a: the action
	//
	// Returns:
	//   - error: an error reported to the caller as an *ExtensionError
	ProcessExtendedAction(m Manager, a Action) error
}

// ExtensionHandlerFunc adapts a function to the ExtensionHandler interface.
type ExtensionHandlerFunc func(m Manager, a Action) error

// ProcessExtendedAction calls f(m, a).
func (f ExtensionHandlerFunc) ProcessExtendedAction(m Manager, a Action) error {
	return f(m, a)
}

// SelectHook receives the data-space position of a select action.
type SelectHook func(m Manager, data [2]float32, a Action)

// Manager is the InteractionManager. It owns the view transform, handles the base
// actions itself, forwards every other action to the extension handler, and pushes
// view changes to the scene.
type Manager interface {
	// Process feeds a raw event through the translator and handles the resulting
	// actions in order. Resize events also update the viewport.
	//
	// Parameters:
	//   - ev: the raw event
	//
	// Returns:
	//   - error: the joined failures of the handled actions
	Process(ev RawEvent) error

	// HandleAction dispatches one action. The view is either fully updated or left
	// unchanged.
	//
	// Parameters:
	//   - a: the action
	//
	// Returns:
	//   - error: an *ExtensionError for hook failures, or the scene's view update failure
	HandleAction(a Action) error

	// View returns the current view transform.
	View() common.ViewTransform

	// SetView replaces the view transform and pushes it to the scene.
	//
	// Parameters:
	//   - view: the transform
	//
	// Returns:
	//   - error: the scene's view update failure
	SetView(view common.ViewTransform) error

	// Viewport returns the framebuffer size in pixels.
	Viewport() (int, int)

	// SetViewport sets the framebuffer size used to convert pixels to view units.
	SetViewport(width, height int)

	// Scene returns the managed scene.
	Scene() scene.Scene

	// Translator returns the translator feeding the manager.
	Translator() Translator
}

type manager struct {
	scene      scene.Scene
	translator Translator
	bindings   BindingSet
	transOpts  []TranslatorBuilderOption

	extension  ExtensionHandler
	selectHook SelectHook

	view          common.ViewTransform
	width, height int

	panSpeed  float32
	zoomSpeed float32
	minZoom   float32
	maxZoom   float32
	fitReset  bool
}

var _ Manager = &manager{}

// NewManager creates a Manager for a scene. Without WithBindingSet the base
// bindings are used.
//
// Parameters:
//   - s: the scene (must not be nil)
//   - options: variadic list of ManagerBuilderOption functions
//
// Returns:
//   - Manager: the manager
//   - error: an error if the zoom limits are invalid
func NewManager(s scene.Scene, options ...ManagerBuilderOption) (Manager, error) {
	if s == nil {
		panic("interaction: NewManager requires a Scene")
	}
	m := &manager{
		scene:     s,
		view:      s.View(),
		width:     1,
		height:    1,
		panSpeed:  DefaultPanSpeed,
		zoomSpeed: DefaultZoomSpeed,
		minZoom:   DefaultMinZoom,
		maxZoom:   DefaultMaxZoom,
	}
	for _, option := range options {
		option(m)
	}
	if m.minZoom <= 0 || m.maxZoom < m.minZoom {
		return nil, fmt.Errorf("interaction: invalid zoom limits [%g, %g]", m.minZoom, m.maxZoom)
	}
	if m.bindings == nil {
		m.bindings = DefaultBindingSet()
	}
	m.translator = NewTranslator(m.bindings, m.transOpts...)
	return m, nil
}

func (m *manager) Process(ev RawEvent) error {
	if ev.Kind == EventResize {
		m.SetViewport(ev.Size[0], ev.Size[1])
	}
	var errs []error
	for _, a := range m.translator.Feed(ev) {
		if err := m.HandleAction(a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *manager) HandleAction(a Action) error {
	prev := m.view
	next, handled, err := m.apply(a)
	if err != nil {
		m.restore(prev)
		return err
	}
	if !handled {
		return nil
	}
	if err := m.SetView(next); err != nil {
		m.restore(prev)
		return err
	}
	return nil
}

// apply computes the view after a base action, or runs the extension hook.
func (m *manager) apply(a Action) (common.ViewTransform, bool, error) {
	view := m.view
	switch a.Kind {
	case ActionPan:
		p, _ := a.Param.(PanParam)
		view.Translation[0] += 2 * p.DX / float32(m.width) * m.panSpeed
		view.Translation[1] -= 2 * p.DY / float32(m.height) * m.panSpeed
		return view, true, nil

	case ActionZoom:
		p, _ := a.Param.(ZoomParam)
		center := [2]float32{}
		if p.HasAnchor {
			center = m.toNDC(p.Anchor)
		}
		return m.zoom(view, p.Amount, center), true, nil

	case ActionRotate:
		p, _ := a.Param.(RotateParam)
		view.Rotation += p.Angle
		return view, true, nil

	case ActionReset:
		return m.resetView(), true, nil

	case ActionSelect:
		p, ok := a.Param.(SelectParam)
		if !ok {
			p.Position = m.translator.Pointer()
		}
		if m.selectHook == nil {
			return view, false, nil
		}
		data, ok := m.view.Unproject(m.toNDC(p.Position))
		if !ok {
			return view, false, nil
		}
		m.selectHook(m, data, a)
		return view, false, nil
	}

	if m.extension == nil {
		common.Logger().Debug("interaction: unhandled action", "kind", a.Kind.String())
		return view, false, nil
	}
	if err := m.runExtension(a); err != nil {
		return view, false, &ExtensionError{Action: a, Err: err}
	}
	return view, false, nil
}

// runExtension calls the extension hook, converting a panic into an error.
func (m *manager) runExtension(a Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return m.extension.ProcessExtendedAction(m, a)
}

// restore puts the view back after a failed action. The scene is only touched when
// the failed action changed the view.
func (m *manager) restore(prev common.ViewTransform) {
	if m.view == prev {
		return
	}
	m.view = prev
	if err := m.scene.SetView(prev); err != nil {
		common.Logger().Warn("interaction: view restore failed", "err", err)
	}
}

// zoom scales the view by exp(amount * zoom speed), clamped per axis, keeping the
// point under center (in normalized device coordinates) fixed.
func (m *manager) zoom(view common.ViewTransform, amount float32, center [2]float32) common.ViewTransform {
	anchor, ok := view.Unproject(center)
	if !ok {
		return view
	}
	factor := math32.Exp(amount * m.zoomSpeed)
	for i := range view.Scale {
		view.Scale[i] = clampMagnitude(view.Scale[i]*factor, m.minZoom, m.maxZoom)
	}
	rs := common.ViewTransform{Scale: view.Scale, Rotation: view.Rotation}.Apply(anchor)
	view.Translation = [2]float32{center[0] - rs[0], center[1] - rs[1]}
	return view
}

// clampMagnitude clamps |v| to [lo, hi] keeping the sign, so flipped axes stay flipped.
func clampMagnitude(v, lo, hi float32) float32 {
	sign := float32(1)
	if v < 0 {
		sign = -1
	}
	return sign * math32.Min(math32.Max(math32.Abs(v), lo), hi)
}

func (m *manager) resetView() common.ViewTransform {
	if !m.fitReset {
		return common.IdentityView()
	}
	b, ok := m.scene.Bounds()
	if !ok {
		return common.IdentityView()
	}
	return common.FitView(b, DefaultFitMargin)
}

func (m *manager) toNDC(p [2]float32) [2]float32 {
	return common.ScreenToNDC(p[0], p[1], m.width, m.height)
}

func (m *manager) View() common.ViewTransform {
	return m.view
}

func (m *manager) SetView(view common.ViewTransform) error {
	m.view = view
	return m.scene.SetView(view)
}

func (m *manager) Viewport() (int, int) {
	return m.width, m.height
}

func (m *manager) SetViewport(width, height int) {
	m.width, m.height = max(width, 1), max(height, 1)
}

func (m *manager) Scene() scene.Scene {
	return m.scene
}

func (m *manager) Translator() Translator {
	return m.translator
}
