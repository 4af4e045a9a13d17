package scene

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-viz/common"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viz/engine/visual"
)

// Handle is the dataset handle of a visual registered with a Scene. The zero
// Handle is never issued.
type Handle uint64

// PaintManager is the application hook populating a scene. Initialize runs once
// when the scene is initialized and typically adds the visuals to draw.
type PaintManager interface {
	// Initialize populates the scene.
	//
	// Parameters:
	//   - s: the scene being initialized
	//
	// Returns:
	//   - error: an error aborting initialization
	Initialize(s Scene) error
}

// PaintManagerFunc adapts a function to the PaintManager interface.
type PaintManagerFunc func(s Scene) error

// Initialize calls f(s).
func (f PaintManagerFunc) Initialize(s Scene) error {
	return f(s)
}

// Scene is the SceneManager: it owns the visuals of one view, issues a handle per
// visual, forwards data updates and draws every visual once per frame in insertion
// order, so later visuals draw on top. A Scene is not safe for concurrent use and
// must only be touched from the event/render thread.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Active returns whether the scene is drawn by Render.
	Active() bool

	// SetActive sets whether the scene is drawn by Render.
	//
	// Parameters:
	//   - active: whether the scene is drawn
	SetActive(active bool)

	// Backend returns the graphics backend visuals are bound to.
	Backend() renderer.Backend

	// Initialize runs the PaintManager hook, if any. It may be called once.
	//
	// Returns:
	//   - error: the hook's error, or an error if the scene was already initialized
	Initialize() error

	// AddVisual declares a visual from def, applies the current view and binds it to
	// the backend.
	//
	// Parameters:
	//   - def: the visual type
	//   - opts: variadic list of visual.VisualBuilderOption functions
	//
	// Returns:
	//   - Handle: the dataset handle of the new visual
	//   - error: an *InitializationError if declaration or binding fails
	AddVisual(def visual.Definition, opts ...visual.VisualBuilderOption) (Handle, error)

	// AddPlot adds a PlotVisual drawing the points (x[i], y[i]).
	//
	// Parameters:
	//   - x: the x coordinates
	//   - y: the y coordinates, of the same length as x
	//   - opts: variadic list of PlotOption functions
	//
	// Returns:
	//   - Handle: the dataset handle of the plot
	//   - error: an *InitializationError if the plot cannot be created
	AddPlot(x, y []float32, opts ...PlotOption) (Handle, error)

	// AddTexture adds a TextureVisual drawing tex on a rectangle.
	//
	// Parameters:
	//   - tex: the texel array shaped (rows, columns[, components]) with values in [0, 1]
	//   - opts: variadic list of TextureOption functions
	//
	// Returns:
	//   - Handle: the dataset handle of the texture
	//   - error: an *InitializationError if the texture cannot be created
	AddTexture(tex common.Array, opts ...TextureOption) (Handle, error)

	// Visual returns the visual registered under h.
	//
	// Parameters:
	//   - h: the dataset handle
	//
	// Returns:
	//   - visual.Visual: the visual
	//   - bool: false if h is unknown
	Visual(h Handle) (visual.Visual, bool)

	// Handles returns the live handles in insertion order.
	Handles() []Handle

	// Count returns the number of live visuals.
	Count() int

	// UpdateBuffer forwards a data update to the visual registered under h.
	//
	// Parameters:
	//   - h: the dataset handle
	//   - name: a variable or compound name of the visual
	//   - value: the new value
	//   - opts: variadic list of visual.UpdateOption functions
	//
	// Returns:
	//   - error: a *visual.UpdateError, wrapping ErrUnknownHandle for stale handles
	UpdateBuffer(h Handle, name string, value any, opts ...visual.UpdateOption) error

	// RemoveVisual destroys the visual registered under h, releasing its backend
	// resources, and invalidates the handle.
	//
	// Parameters:
	//   - h: the dataset handle
	//
	// Returns:
	//   - error: ErrUnknownHandle for stale handles, or the release failure
	RemoveVisual(h Handle) error

	// View returns the navigation transform applied to non-static visuals.
	View() common.ViewTransform

	// SetView applies a navigation transform to every non-static visual.
	//
	// Parameters:
	//   - view: the transform
	//
	// Returns:
	//   - error: the joined update failures, if any
	SetView(view common.ViewTransform) error

	// Bounds returns the union of the bounds of every visual.
	//
	// Returns:
	//   - common.Bounds: the scene bounds
	//   - bool: false if no visual contributes bounds
	Bounds() (common.Bounds, bool)

	// Render draws every visual in insertion order within one backend frame.
	//
	// Returns:
	//   - error: the first frame or draw failure
	Render() error

	// Release destroys every visual and invalidates every handle.
	//
	// Returns:
	//   - error: the joined release failures, if any
	Release() error
}

type entry struct {
	handle Handle
	visual visual.Visual
}

type scene struct {
	name    string
	active  bool
	backend renderer.Backend

	paintManager PaintManager
	initialized  bool

	entries []entry
	index   map[Handle]int
	nextID  Handle

	view common.ViewTransform
}

var _ Scene = &scene{}

// NewScene creates an empty scene drawing through backend.
//
// Parameters:
//   - name: the name of the scene
//   - backend: the graphics backend (must not be nil)
//   - options: variadic list of SceneBuilderOption functions
//
// Returns:
//   - Scene: the new scene
func NewScene(name string, backend renderer.Backend, options ...SceneBuilderOption) Scene {
	if backend == nil {
		panic("scene: NewScene requires a non-nil Backend")
	}
	s := &scene{
		name:    name,
		active:  true,
		backend: backend,
		index:   make(map[Handle]int),
		nextID:  1,
		view:    common.IdentityView(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Active() bool {
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.active = active
}

func (s *scene) Backend() renderer.Backend {
	return s.backend
}

func (s *scene) Initialize() error {
	if s.initialized {
		return fmt.Errorf("scene %s: already initialized", s.name)
	}
	s.initialized = true
	if s.paintManager == nil {
		return nil
	}
	if err := s.paintManager.Initialize(s); err != nil {
		return fmt.Errorf("scene %s: paint manager: %w", s.name, err)
	}
	return nil
}

func (s *scene) AddVisual(def visual.Definition, opts ...visual.VisualBuilderOption) (Handle, error) {
	v, err := visual.New(def, s.backend.Dialect(), opts...)
	if err != nil {
		return 0, &InitializationError{Visual: definitionName(def), Err: err}
	}
	if err := v.SetView(s.view); err != nil {
		return 0, &InitializationError{Visual: v.Name(), Err: err}
	}
	if err := v.Bind(s.backend); err != nil {
		return 0, &InitializationError{Visual: v.Name(), Err: err}
	}

	h := s.nextID
	s.nextID++
	s.index[h] = len(s.entries)
	s.entries = append(s.entries, entry{handle: h, visual: v})

	common.Logger().Info("visual added", "scene", s.name, "visual", v.Name(), "handle", uint64(h), "size", v.Size())
	return h, nil
}

func definitionName(def visual.Definition) string {
	if named, ok := def.(interface{ Name() string }); ok {
		return named.Name()
	}
	return fmt.Sprintf("%T", def)
}

func (s *scene) AddPlot(x, y []float32, opts ...PlotOption) (Handle, error) {
	pos, err := common.Interleave(x, y)
	if err != nil {
		return 0, &InitializationError{Visual: "plot", Err: err}
	}
	cfg := plotConfig{def: &visual.PlotVisual{Position: pos}}
	for _, opt := range opts {
		opt(&cfg)
	}
	return s.AddVisual(cfg.def, cfg.visualOpts...)
}

func (s *scene) AddTexture(tex common.Array, opts ...TextureOption) (Handle, error) {
	cfg := textureConfig{def: &visual.TextureVisual{Texture: tex}}
	for _, opt := range opts {
		opt(&cfg)
	}
	return s.AddVisual(cfg.def, cfg.visualOpts...)
}

func (s *scene) Visual(h Handle) (visual.Visual, bool) {
	i, ok := s.index[h]
	if !ok {
		return nil, false
	}
	return s.entries[i].visual, true
}

func (s *scene) Handles() []Handle {
	out := make([]Handle, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.handle
	}
	return out
}

func (s *scene) Count() int {
	return len(s.entries)
}

func (s *scene) UpdateBuffer(h Handle, name string, value any, opts ...visual.UpdateOption) error {
	v, ok := s.Visual(h)
	if !ok {
		return &visual.UpdateError{Visual: fmt.Sprintf("handle %d", h), Name: name, Err: ErrUnknownHandle}
	}
	return v.UpdateData(name, value, opts...)
}

func (s *scene) RemoveVisual(h Handle) error {
	i, ok := s.index[h]
	if !ok {
		return fmt.Errorf("scene %s: remove visual %d: %w", s.name, h, ErrUnknownHandle)
	}
	v := s.entries[i].visual

	s.entries = slices.Delete(s.entries, i, i+1)
	delete(s.index, h)
	for j := i; j < len(s.entries); j++ {
		s.index[s.entries[j].handle] = j
	}

	common.Logger().Info("visual removed", "scene", s.name, "visual", v.Name(), "handle", uint64(h))
	if err := v.Destroy(); err != nil {
		return fmt.Errorf("scene %s: remove visual %d: %w", s.name, h, err)
	}
	return nil
}

func (s *scene) View() common.ViewTransform {
	return s.view
}

func (s *scene) SetView(view common.ViewTransform) error {
	s.view = view
	var errs []error
	for _, e := range s.entries {
		if err := e.visual.SetView(view); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *scene) Bounds() (common.Bounds, bool) {
	bounds := common.EmptyBounds()
	found := false
	for _, e := range s.entries {
		if b, ok := e.visual.Bounds(); ok {
			bounds = bounds.Union(b)
			found = true
		}
	}
	return bounds, found
}

func (s *scene) Render() error {
	if !s.active {
		return nil
	}
	if err := s.backend.BeginFrame(); err != nil {
		return fmt.Errorf("scene %s: %w", s.name, err)
	}

	var drawErr error
	for _, e := range s.entries {
		if err := e.visual.Draw(); err != nil {
			drawErr = fmt.Errorf("scene %s: draw handle %d: %w", s.name, e.handle, err)
			break
		}
	}

	if err := s.backend.EndFrame(); err != nil && drawErr == nil {
		return fmt.Errorf("scene %s: %w", s.name, err)
	}
	return drawErr
}

func (s *scene) Release() error {
	var errs []error
	for _, e := range s.entries {
		if err := e.visual.Destroy(); err != nil {
			errs = append(errs, err)
		}
	}
	s.entries = nil
	clear(s.index)
	return errors.Join(errs...)
}
