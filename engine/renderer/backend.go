package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viz/common"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer/shader"
)

// BackendType identifies the GraphicsBackend implementation.
type BackendType int

const (
	// BackendTypeWGPU selects the WebGPU backend.
	BackendTypeWGPU BackendType = iota

	// BackendTypeOpenGL selects the OpenGL 4.1 core backend.
	BackendTypeOpenGL

	// BackendTypeHeadless selects the in-memory backend that records every call.
	BackendTypeHeadless
)

// String returns the backend identifier used in configuration files.
func (t BackendType) String() string {
	switch t {
	case BackendTypeWGPU:
		return "wgpu"
	case BackendTypeOpenGL:
		return "opengl"
	case BackendTypeHeadless:
		return "headless"
	default:
		return fmt.Sprintf("BackendType(%d)", int(t))
	}
}

// ParseBackendType converts a configuration identifier into a BackendType.
//
// Parameters:
//   - s: one of "wgpu", "opengl" or "headless"
//
// Returns:
//   - BackendType: the matching backend type
//   - error: an error if s is not a known identifier
func ParseBackendType(s string) (BackendType, error) {
	for _, t := range []BackendType{BackendTypeWGPU, BackendTypeOpenGL, BackendTypeHeadless} {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("renderer: unknown backend %q", s)
}

// PrimitiveType is the topology used to assemble vertices.
type PrimitiveType int

const (
	PrimitivePoints PrimitiveType = iota
	PrimitiveLines
	PrimitiveLineStrip
	PrimitiveTriangles
	PrimitiveTriangleStrip
)

// String returns the lowercase topology name.
func (p PrimitiveType) String() string {
	switch p {
	case PrimitivePoints:
		return "points"
	case PrimitiveLines:
		return "lines"
	case PrimitiveLineStrip:
		return "line-strip"
	case PrimitiveTriangles:
		return "triangles"
	case PrimitiveTriangleStrip:
		return "triangle-strip"
	default:
		return fmt.Sprintf("PrimitiveType(%d)", int(p))
	}
}

// Ref is an opaque handle to a backend resource. The zero Ref is never issued.
type Ref uint64

// BufferKind is the role of an allocated buffer.
type BufferKind int

const (
	// BufferVertex holds one attribute for every vertex, shaped (count, components).
	BufferVertex BufferKind = iota

	// BufferUniform holds one uniform value, shaped (components).
	BufferUniform

	// BufferTexture holds texels shaped (rows, columns, components) and its sampler.
	BufferTexture
)

// BufferSpec describes a buffer to allocate.
type BufferSpec struct {
	// Label names the buffer in backend diagnostics.
	Label string

	// Kind is the role of the buffer.
	Kind BufferKind

	// ValueType is the scalar type of vertex and uniform data. Textures are always float.
	ValueType shader.ValueType

	// Shape is the exact shape every upload must match.
	Shape []int

	// Sampling configures the sampler paired with a texture.
	Sampling shader.TextureSampling
}

// Binding attaches an allocated resource to a program slot for one draw.
type Binding struct {
	Slot shader.Slot
	Ref  Ref
}

// Backend is the GraphicsBackend capability: buffer and texture management, program
// compilation and draw submission. Every call is synchronous. Failures are returned
// as *BackendError and are never retried.
type Backend interface {
	// Name returns the backend identifier.
	//
	// Returns:
	//   - string: "wgpu", "opengl" or "headless"
	Name() string

	// Dialect returns the shading language the backend compiles.
	//
	// Returns:
	//   - shader.Dialect: the dialect programs must be assembled with
	Dialect() shader.Dialect

	// AllocateBuffer creates a buffer or texture with a fixed shape.
	//
	// Parameters:
	//   - spec: the buffer description
	//
	// Returns:
	//   - Ref: the handle of the new resource
	//   - error: a *BackendError if the spec is invalid or allocation fails
	AllocateBuffer(spec BufferSpec) (Ref, error)

	// UploadBuffer replaces the contents of an allocated buffer. The data shape must
	// equal the allocated shape; a mismatch fails with ErrShapeMismatch.
	//
	// Parameters:
	//   - ref: the buffer to write
	//   - data: the new contents
	//
	// Returns:
	//   - error: a *BackendError wrapping ErrShapeMismatch, ErrUnknownRef or the API failure
	UploadBuffer(ref Ref, data common.Array) error

	// CompileProgram compiles and links a vertex and fragment source pair.
	//
	// Parameters:
	//   - vertexSrc: the vertex stage source
	//   - fragmentSrc: the fragment stage source
	//
	// Returns:
	//   - Ref: the handle of the program
	//   - error: a *BackendError carrying the compiler diagnostics
	CompileProgram(vertexSrc, fragmentSrc string) (Ref, error)

	// SubmitDraw records one draw in the current frame.
	//
	// Parameters:
	//   - program: the program to draw with
	//   - bindings: the resources bound to the program slots
	//   - primitive: the vertex topology
	//   - count: the number of vertices
	//
	// Returns:
	//   - error: a *BackendError if no frame is in progress or a reference is unknown
	SubmitDraw(program Ref, bindings []Binding, primitive PrimitiveType, count int) error

	// Release frees a buffer, texture or program. Releasing an unknown ref fails.
	//
	// Parameters:
	//   - ref: the resource to free
	//
	// Returns:
	//   - error: a *BackendError wrapping ErrUnknownRef for unknown handles
	Release(ref Ref) error

	// BeginFrame starts a frame. Draws may only be submitted between BeginFrame and EndFrame.
	//
	// Returns:
	//   - error: a *BackendError if the frame could not be started
	BeginFrame() error

	// EndFrame finishes the frame and presents it.
	//
	// Returns:
	//   - error: a *BackendError if the frame could not be submitted
	EndFrame() error

	// Resize reconfigures the render target for a new framebuffer size.
	//
	// Parameters:
	//   - width: the framebuffer width in pixels
	//   - height: the framebuffer height in pixels
	Resize(width, height int)

	// Destroy releases every resource still held and the backend itself.
	Destroy()
}

// checkShape verifies that data matches the allocated shape.
func checkShape(want []int, data common.Array) error {
	if !data.SameShape(common.Array{Shape: want}) {
		return fmt.Errorf("%w: allocated %v, got %v", ErrShapeMismatch, want, data.Shape)
	}
	if len(data.Data) != shapeSize(want) {
		return fmt.Errorf("%w: shape %v holds %d values, got %d", ErrShapeMismatch, want, shapeSize(want), len(data.Data))
	}
	return nil
}

// validateSpec checks that a spec has a shape suitable for its kind.
func validateSpec(spec BufferSpec) error {
	want := map[BufferKind]int{BufferVertex: 2, BufferUniform: 1, BufferTexture: 3}[spec.Kind]
	if len(spec.Shape) != want {
		return fmt.Errorf("%w: %s buffer %q needs %d axes, got %v", ErrInvalidSpec, kindName(spec.Kind), spec.Label, want, spec.Shape)
	}
	for _, n := range spec.Shape {
		if n <= 0 {
			return fmt.Errorf("%w: buffer %q has non-positive axis in %v", ErrInvalidSpec, spec.Label, spec.Shape)
		}
	}
	comps := spec.Shape[len(spec.Shape)-1]
	if comps > 4 {
		return fmt.Errorf("%w: buffer %q has %d components, at most 4 are supported", ErrInvalidSpec, spec.Label, comps)
	}
	return nil
}

// encodeValues converts float32 payload values into the byte layout of the
// declared scalar type.
func encodeValues(t shader.ValueType, data []float32) []byte {
	switch t {
	case shader.ValueTypeInt32:
		out := make([]int32, len(data))
		for i, v := range data {
			out[i] = int32(v)
		}
		return common.SliceToBytes(out)
	case shader.ValueTypeUint32:
		out := make([]uint32, len(data))
		for i, v := range data {
			out[i] = uint32(max(v, 0))
		}
		return common.SliceToBytes(out)
	default:
		return common.SliceToBytes(data)
	}
}

func shapeSize(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

func kindName(k BufferKind) string {
	switch k {
	case BufferVertex:
		return "vertex"
	case BufferUniform:
		return "uniform"
	case BufferTexture:
		return "texture"
	default:
		return fmt.Sprintf("BufferKind(%d)", int(k))
	}
}
