package engine

import (
	"github.com/Carmen-Shannon/oxy-viz/engine/interaction"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets how many times per second the tick callback runs.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.tickRate = tickInterval(fps)
	}
}

// WithTickCallback registers the tick callback during engine construction.
func WithTickCallback(callback func(deltaTime float32)) EngineBuilderOption {
	return func(e *engine) {
		e.tickCallback = callback
	}
}

// WithPlatform sets the window whose events drive the interaction manager. Without
// it the engine runs headless and only renders.
//
// Parameters:
//   - p: the event source, typically a window.Window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPlatform(p Platform) EngineBuilderOption {
	return func(e *engine) {
		e.platform = p
	}
}

// WithManager supplies a preconfigured interaction manager. It must manage the
// engine's scene.
func WithManager(m interaction.Manager) EngineBuilderOption {
	return func(e *engine) {
		e.manager = m
	}
}

// WithManagerOptions sets the options of the interaction manager created by NewEngine.
// Ignored when WithManager is used.
//
// Parameters:
//   - opts: the manager options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithManagerOptions(opts ...interaction.ManagerBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.managerOptions = append(e.managerOptions, opts...)
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = frameInterval(fps)
	}
}
