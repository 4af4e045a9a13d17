package shader

import "fmt"

// ShaderType identifies the pipeline stage a piece of source belongs to.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage, paired with a vertex stage.
	ShaderTypeFragment
)

// String returns the lowercase stage name.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// VariableKind is the role a declared variable plays in the generated program.
type VariableKind int

const (
	// KindAttribute is a per-vertex input read by the vertex stage.
	KindAttribute VariableKind = iota

	// KindUniform is a per-draw constant visible to both stages.
	KindUniform

	// KindTexture is a sampled 1-D or 2-D texture visible to both stages.
	KindTexture

	// KindVarying is written by the vertex stage and interpolated into the fragment stage.
	KindVarying
)

// String returns the lowercase kind name.
func (k VariableKind) String() string {
	switch k {
	case KindAttribute:
		return "attribute"
	case KindUniform:
		return "uniform"
	case KindTexture:
		return "texture"
	case KindVarying:
		return "varying"
	default:
		return fmt.Sprintf("VariableKind(%d)", int(k))
	}
}

// ValueType is the scalar component type of a variable.
type ValueType int

const (
	ValueTypeFloat32 ValueType = iota
	ValueTypeInt32
	ValueTypeUint32
)

// String returns the scalar type name.
func (t ValueType) String() string {
	switch t {
	case ValueTypeFloat32:
		return "float32"
	case ValueTypeInt32:
		return "int32"
	case ValueTypeUint32:
		return "uint32"
	default:
		return fmt.Sprintf("ValueType(%d)", int(t))
	}
}

// Filter is a texture sampling filter.
type Filter int

const (
	FilterLinear Filter = iota
	FilterNearest
)

// TextureSampling configures how a texture is sampled.
type TextureSampling struct {
	MinFilter Filter
	MagFilter Filter
	Mipmap    bool
}

// Declaration describes one shader input. It is immutable once registered:
// only the data bound to it changes afterwards.
type Declaration struct {
	// Name is the identifier used in shader source. Unique within a visual.
	Name string

	// Kind is the role of the variable.
	Kind VariableKind

	// ValueType is the scalar component type. Textures are always sampled as float.
	ValueType ValueType

	// Dim is the number of components, 1 to 4. For textures it equals Components.
	Dim int

	// TextureShape is the (rows, columns) size of a texture. Unused for other kinds.
	TextureShape [2]int

	// Components is the number of channels per texel, 1 to 4. Unused for other kinds.
	Components int

	// Ndim is 1 or 2 for textures and selects the sampling path. Unused for other kinds.
	Ndim int

	// Sampling holds filter settings for textures.
	Sampling TextureSampling
}

// TextureNdim returns 1 when either axis of shape has size 1 and 2 otherwise.
func TextureNdim(shape [2]int) int {
	if shape[0] == 1 || shape[1] == 1 {
		return 1
	}
	return 2
}

// TextureLength returns the number of texels along the sampled axis of a 1-D texture.
func TextureLength(shape [2]int) int {
	if shape[0] == 1 {
		return shape[1]
	}
	return shape[0]
}

// Names of the variables that carry the navigation transform. Non-static visuals
// declare them automatically and the default vertex position applies them.
const (
	AttributePosition      = "position"
	UniformViewScale       = "view_scale"
	UniformViewTranslation = "view_translation"
	UniformViewRotation    = "view_rotation"
)

// Slot is the location a declaration is bound to in the generated program.
// Attributes and varyings use sequential @location indices, uniforms use sequential
// bindings in group 0 and textures use bindings 2*i and 2*i+1 (sampler) in group 1.
type Slot struct {
	Name  string
	Kind  VariableKind
	Index int
}

const (
	// UniformGroup is the WGSL bind group holding one uniform buffer per uniform.
	UniformGroup = 0

	// TextureGroup is the WGSL bind group holding texture and sampler pairs.
	TextureGroup = 1
)

// AssignSlots returns the slot of every declaration in declaration order, numbering
// each kind independently.
func AssignSlots(decls []Declaration) []Slot {
	counters := map[VariableKind]int{}
	slots := make([]Slot, 0, len(decls))
	for _, d := range decls {
		slots = append(slots, Slot{Name: d.Name, Kind: d.Kind, Index: counters[d.Kind]})
		counters[d.Kind]++
	}
	return slots
}

// filterKind returns the declarations of the given kind, preserving order.
func filterKind(decls []Declaration, kind VariableKind) []Declaration {
	var out []Declaration
	for _, d := range decls {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// hasNavigation reports whether all three navigation uniforms are declared.
func hasNavigation(decls []Declaration) bool {
	found := 0
	for _, d := range decls {
		if d.Kind != KindUniform {
			continue
		}
		switch d.Name {
		case UniformViewScale, UniformViewTranslation, UniformViewRotation:
			found++
		}
	}
	return found == 3
}

// positionAttribute returns the position attribute if one is declared.
func positionAttribute(decls []Declaration) (Declaration, bool) {
	for _, d := range decls {
		if d.Kind == KindAttribute && d.Name == AttributePosition {
			return d, true
		}
	}
	return Declaration{}, false
}
