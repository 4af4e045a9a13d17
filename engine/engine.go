package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-viz/common"
	"github.com/Carmen-Shannon/oxy-viz/engine/interaction"
	"github.com/Carmen-Shannon/oxy-viz/engine/profiler"
	"github.com/Carmen-Shannon/oxy-viz/engine/scene"
)

// Platform is the part of a window the run loop drives. window.Window implements it.
type Platform interface {
	interaction.EventSource

	// ProcessMessages pumps platform events into the event queue and reports
	// whether the window is still open.
	ProcessMessages() bool
}

// engine implements the Engine interface.
type engine struct {
	platform Platform
	scene    scene.Scene
	manager  interaction.Manager

	managerOptions []interaction.ManagerBuilderOption

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickRate     time.Duration
	tickCallback func(deltaTime float32)
	accumulated  time.Duration

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastRender       time.Time
	lastStep         time.Time

	initialized bool
	quit        chan struct{}
	quitOnce    sync.Once
}

// Engine runs the visualization loop. Every iteration pumps window events through
// the interaction manager in arrival order, runs the tick callback at the
// configured rate and renders the scene when the frame limit allows. Everything
// happens on the calling goroutine, which must be the one that created the window.
type Engine interface {
	// Scene returns the scene the engine renders.
	Scene() scene.Scene

	// Manager returns the interaction manager fed by the window events.
	Manager() interaction.Manager

	// Platform returns the event source, or nil for a headless engine.
	Platform() Platform

	// EnableProfiler enables frame-rate and memory sampling.
	EnableProfiler()

	// DisableProfiler disables frame-rate and memory sampling.
	DisableProfiler()

	// SetTickRate sets how many times per second the tick callback runs.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each tick. Use it for data
	// updates that animate the scene, e.g. Scene().UpdateBuffer.
	//
	// Parameters:
	//   - callback: function receiving the tick duration in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Step runs one loop iteration.
	//
	// Returns:
	//   - bool: false once the platform reports the window closed or Quit was called
	Step() bool

	// Run initializes the scene and loops until the window closes, ctx is done or
	// Quit is called. The scene is released before Run returns.
	//
	// Parameters:
	//   - ctx: cancels the loop
	//
	// Returns:
	//   - error: the scene initialization error, or ctx.Err() when cancelled
	Run(ctx context.Context) error

	// Quit stops the loop. Safe to call multiple times and from any goroutine.
	Quit()
}

// NewEngine creates an Engine rendering s. Unless WithManager supplies one, an
// interaction manager is created for s from the WithManagerOptions options.
//
// Parameters:
//   - s: the scene to render (must not be nil)
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: an error if the interaction manager cannot be created
func NewEngine(s scene.Scene, options ...EngineBuilderOption) (Engine, error) {
	if s == nil {
		panic("engine: NewEngine requires a non-nil Scene")
	}
	e := &engine{
		scene:    s,
		profiler: profiler.NewProfiler(time.Second),
		tickRate: time.Second / 60,
		quit:     make(chan struct{}),
	}
	for _, opt := range options {
		opt(e)
	}
	if e.manager == nil {
		m, err := interaction.NewManager(s, e.managerOptions...)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
		e.manager = m
	}
	return e, nil
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Manager() interaction.Manager {
	return e.manager
}

func (e *engine) Platform() Platform {
	return e.platform
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickRate(fps float64) {
	e.tickRate = tickInterval(fps)
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameInterval(fps)
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quit)
	})
}

func (e *engine) Run(ctx context.Context) error {
	if !e.initialized {
		if err := e.scene.Initialize(); err != nil {
			return fmt.Errorf("engine: %w", err)
		}
		e.initialized = true
	}
	defer func() {
		if err := e.scene.Release(); err != nil {
			common.Logger().Warn("scene release failed", "scene", e.scene.Name(), "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !e.Step() {
			return nil
		}
		e.throttle()
	}
}

func (e *engine) Step() bool {
	select {
	case <-e.quit:
		return false
	default:
	}

	now := time.Now()
	if e.lastStep.IsZero() {
		e.lastStep = now
	}
	elapsed := now.Sub(e.lastStep)
	e.lastStep = now

	if e.platform != nil {
		if !e.platform.ProcessMessages() {
			return false
		}
		for _, ev := range e.platform.PollEvents() {
			e.dispatch(ev)
		}
	}

	e.tick(elapsed)

	if e.renderFrameLimit == 0 || e.lastRender.IsZero() || now.Sub(e.lastRender) >= e.renderFrameLimit {
		e.lastRender = now
		if err := e.scene.Render(); err != nil {
			common.Logger().Warn("render failed", "scene", e.scene.Name(), "error", err)
		}
		if e.profilingEnabled {
			e.profiler.Tick()
		}
	}
	return true
}

// dispatch forwards one raw event. Resize events also reconfigure the backend.
func (e *engine) dispatch(ev interaction.RawEvent) {
	if ev.Kind == interaction.EventResize && ev.Size[0] > 0 && ev.Size[1] > 0 {
		e.scene.Backend().Resize(ev.Size[0], ev.Size[1])
	}
	if err := e.manager.Process(ev); err != nil {
		common.Logger().Warn("event processing failed", "event", ev.Kind.String(), "error", err)
	}
}

// tick runs the tick callback once per elapsed tick interval, catching up at most
// a few ticks after a stall.
func (e *engine) tick(elapsed time.Duration) {
	if e.tickCallback == nil {
		return
	}
	const maxCatchUp = 4
	e.accumulated += elapsed
	if e.accumulated > maxCatchUp*e.tickRate {
		e.accumulated = maxCatchUp * e.tickRate
	}
	dt := float32(e.tickRate.Seconds())
	for e.accumulated >= e.tickRate {
		e.accumulated -= e.tickRate
		e.tickCallback(dt)
	}
}

// throttle sleeps until the next frame is due when the loop is frame limited.
func (e *engine) throttle() {
	if e.renderFrameLimit == 0 {
		return
	}
	if remaining := e.renderFrameLimit - time.Since(e.lastRender); remaining > 0 {
		time.Sleep(remaining)
	}
}

func tickInterval(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}

func frameInterval(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
