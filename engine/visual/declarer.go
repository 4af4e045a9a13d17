package visual

import (
	"github.com/Carmen-Shannon/oxy-viz/common"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer/shader"
)

// Variable describes an attribute or uniform.
type Variable struct {
	// Name is the identifier used in shader source.
	Name string

	// ValueType is the scalar component type.
	ValueType shader.ValueType

	// Dim is the number of components, 1 to 4.
	Dim int

	// Data is the optional initial value, in any form accepted by common.AsArray.
	Data any
}

// Texture describes a sampled texture.
type Texture struct {
	// Name is the identifier used in shader source.
	Name string

	// Shape is the (rows, columns) size. When zero it is taken from Data.
	Shape [2]int

	// Components is the number of channels, 1 to 4. When zero it is taken from Data.
	Components int

	// Sampling holds the filter and mipmap settings.
	Sampling shader.TextureSampling

	// Data is the optional initial texel array shaped (rows, columns[, components]).
	Data any
}

// BoundsPolicy selects how a visual contributes to the scene bounds.
type BoundsPolicy int

const (
	// BoundsFromPosition computes the bounds of the "position" attribute data.
	BoundsFromPosition BoundsPolicy = iota

	// BoundsIgnore excludes the visual from the scene bounds.
	BoundsIgnore
)

// Declarer is the declaration contract a visual definition registers its shader
// inputs and source fragments through. Each method returns its error and the
// first error is also kept by the visual, so definitions may ignore the returns
// and let construction fail as a whole.
type Declarer interface {
	// AddAttribute declares a per-vertex input.
	AddAttribute(v Variable) error

	// AddUniform declares a per-draw constant.
	AddUniform(v Variable) error

	// AddTexture declares a sampled texture. A shape with a single row or column
	// selects the 1-D sampling path for the lifetime of the visual.
	AddTexture(t Texture) error

	// AddVarying declares a value written by the vertex stage and read by the
	// fragment stage. Both stages receive matching declarations.
	AddVarying(name string, valueType shader.ValueType, dim int) error

	// AddCompound declares a user-facing parameter expanding into primitive writes.
	AddCompound(name string, fn ExpandFunc, defaultValue any) error

	// AddVertexHeader appends source emitted before the vertex main function.
	AddVertexHeader(src string)

	// AddFragmentHeader appends source emitted before the fragment main function.
	AddFragmentHeader(src string)

	// AddVertexMain appends a statement block to the vertex main function.
	AddVertexMain(src string)

	// AddFragmentMain appends a statement block to the fragment main function.
	AddFragmentMain(src string)

	// SetPrimitiveType sets the vertex topology. The default is points.
	SetPrimitiveType(p renderer.PrimitiveType)

	// SetSize fixes the element count. Without it the count is taken from the attribute data.
	SetSize(n int)

	// SetBoundsPolicy selects how the visual contributes to the scene bounds.
	SetBoundsPolicy(p BoundsPolicy)

	// SetStatic excludes the visual from the navigation transform.
	SetStatic(static bool)

	// Dialect returns the shading language fragments must be written in.
	Dialect() shader.Dialect

	// SampleTexture returns the dialect expression sampling a declared texture at
	// coords, following the texture's 1-D or 2-D path.
	SampleTexture(name, coords string) string

	// Data returns the staged or uploaded value of a variable. Compound expansions
	// may call it to size their writes against the current data.
	Data(name string) (common.Array, bool)
}

// Definition is a visual type: it declares variables, compounds and shader
// fragments when a visual is constructed.
type Definition interface {
	// Initialize runs the declaration phase.
	//
	// Parameters:
	//   - d: the declaration contract of the visual under construction
	//
	// Returns:
	//   - error: an error aborting construction
	Initialize(d Declarer) error
}

// DefinitionFunc adapts a function to the Definition interface.
type DefinitionFunc func(d Declarer) error

// Initialize calls f(d).
func (f DefinitionFunc) Initialize(d Declarer) error {
	return f(d)
}
