package renderer

// PresentMode controls how frames are delivered to the display.
type PresentMode int

const (
	// PresentModeUncapped presents immediately and may tear.
	PresentModeUncapped PresentMode = iota

	// PresentModeVSync waits for vertical blank.
	PresentModeVSync

	// PresentModeTripleBuffered replaces queued frames without tearing.
	PresentModeTripleBuffered
)

// MSAASampleCount is the multisample count of the main render pass.
type MSAASampleCount uint32

const (
	MSAAOff MSAASampleCount = 1
	MSAA4x  MSAASampleCount = 4
)

type backendConfig struct {
	presentMode          PresentMode
	msaa                 MSAASampleCount
	clearColor           [4]float32
	validate             bool
	forceFallbackAdapter bool
	stagingWorkers       int
	headless             []HeadlessOption
}

func defaultBackendConfig() backendConfig {
	return backendConfig{
		presentMode: PresentModeVSync,
		msaa:        MSAA4x,
		clearColor:  [4]float32{0, 0, 0, 1},
	}
}

// RendererBuilderOption is a functional option applied to the backend configuration by NewBackend.
type RendererBuilderOption func(*backendConfig)

// WithPresentMode sets the surface present mode.
//
// Parameters:
//   - mode: the PresentMode to use (VSync, Uncapped, or TripleBuffered)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(c *backendConfig) {
		c.presentMode = mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count of the WebGPU backend.
// When not specified, the default is MSAA4x. Use MSAAOff to disable MSAA entirely.
//
// Parameters:
//   - count: the MSAASampleCount to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(c *backendConfig) {
		c.msaa = count
	}
}

// WithClearColor sets the color every frame starts from.
//
// Parameters:
//   - rgba: the red, green, blue and alpha components in [0, 1]
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option
func WithClearColor(rgba [4]float32) RendererBuilderOption {
	return func(c *backendConfig) {
		c.clearColor = rgba
	}
}

// WithShaderValidation compiles WGSL programs with naga before handing them to the
// device, so that generated source errors are reported with readable diagnostics.
//
// Parameters:
//   - enabled: true to validate programs
//
// Returns:
//   - RendererBuilderOption: a function that applies the validation option
func WithShaderValidation(enabled bool) RendererBuilderOption {
	return func(c *backendConfig) {
		c.validate = enabled
		if enabled {
			c.headless = append(c.headless, WithHeadlessValidation())
		}
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter.
// This requires a software Vulkan ICD (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter
//
// Returns:
//   - RendererBuilderOption: a function that applies the software renderer option
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(c *backendConfig) {
		c.forceFallbackAdapter = force
	}
}

// WithStagingWorkers sets the size of the worker pool converting texture data.
//
// Parameters:
//   - n: the number of workers, or 0 for one per CPU
//
// Returns:
//   - RendererBuilderOption: a function that applies the staging option
func WithStagingWorkers(n int) RendererBuilderOption {
	return func(c *backendConfig) {
		c.stagingWorkers = max(n, 0)
	}
}

// WithHeadlessOptions forwards options to the headless backend.
//
// Parameters:
//   - opts: the HeadlessOption functions
//
// Returns:
//   - RendererBuilderOption: a function that applies the headless options
func WithHeadlessOptions(opts ...HeadlessOption) RendererBuilderOption {
	return func(c *backendConfig) {
		c.headless = append(c.headless, opts...)
	}
}
