package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viz/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Surface is the window a GPU backend renders into.
type Surface interface {
	// SurfaceDescriptor returns the platform surface used by the WebGPU backend.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

// NewBackend creates the GraphicsBackend of the given type and configures it for the
// surface size. The OpenGL backend requires a surface that also implements GLContext.
// The headless backend ignores the surface, which may be nil.
//
// Parameters:
//   - backendType: the backend implementation to create
//   - surface: the window to render into
//   - options: variadic list of RendererBuilderOption functions
//
// Returns:
//   - Backend: the configured backend; every compiled program is owned by its caller
//   - error: a *BackendError if the backend could not be initialized
func NewBackend(backendType BackendType, surface Surface, options ...RendererBuilderOption) (Backend, error) {
	cfg := defaultBackendConfig()
	for _, opt := range options {
		opt(&cfg)
	}

	var backend Backend
	switch backendType {
	case BackendTypeHeadless:
		return NewHeadlessBackend(cfg.headless...), nil
	case BackendTypeOpenGL:
		ctx, ok := surface.(GLContext)
		if !ok {
			return nil, backendError(backendType.String(), "init", fmt.Errorf("surface %T has no OpenGL context", surface))
		}
		b, err := newGLRendererBackend(ctx, cfg)
		if err != nil {
			return nil, err
		}
		backend = b
	case BackendTypeWGPU:
		b, err := newWGPURendererBackend(surface.SurfaceDescriptor(), cfg)
		if err != nil {
			return nil, err
		}
		backend = b
	default:
		return nil, fmt.Errorf("renderer: unknown backend type %v", backendType)
	}

	backend.Resize(surface.Width(), surface.Height())
	common.Logger().Info("renderer backend created", "backend", backend.Name())
	return backend, nil
}
