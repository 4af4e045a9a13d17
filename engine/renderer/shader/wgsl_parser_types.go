package shader

import "github.com/cogentcore/webgpu/wgpu"

// vertexFormatInfo holds the wgpu vertex format and its byte size for stride calculation
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// sampledTextureInfo holds the view dimension of a sampled texture type
type sampledTextureInfo struct {
	viewDimension wgpu.TextureViewDimension
}

// wgslTypeLayout holds the byte size and alignment for a WGSL type per the WGSL specification.
// Used to compute MinBindingSize for buffer bindings.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField represents a single field extracted from a WGSL struct during parsing
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct represents a WGSL struct block extracted during parsing
type parsedStruct struct {
	name   string
	fields []parsedField
}

// WGSLLayout is the pipeline layout information recovered from an assembled WGSL
// program. The WebGPU backend only receives source strings, so everything it needs
// to build a render pipeline is derived here.
type WGSLLayout struct {
	// VertexEntryPoint and FragmentEntryPoint are the stage entry function names.
	VertexEntryPoint   string
	FragmentEntryPoint string

	// VertexBuffers holds one single-attribute buffer layout per vertex input,
	// ordered by @location.
	VertexBuffers []wgpu.VertexBufferLayout

	// AttributeNames holds the vertex input names, ordered by @location.
	AttributeNames []string

	// BindGroups holds the merged layout descriptors of both stages keyed by group.
	BindGroups map[int]wgpu.BindGroupLayoutDescriptor

	// BindingNames holds the declared variable name per group and binding.
	BindingNames map[int]map[int]string
}
