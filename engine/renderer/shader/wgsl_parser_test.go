package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWGSLProgram(t *testing.T) {
	p, err := Assemble(WGSL(), texturedDecls([2]int{1, 16}), Sources{
		VertexMain:   []string{"varying_tex_coords = tex_coords;"},
		FragmentMain: []string{"out_color = " + WGSL().SampleTexture("tex_sampler", "varying_tex_coords", 1) + ";"},
	})
	require.NoError(t, err)

	layout, err := ParseWGSLProgram(p.VertexSource, p.FragmentSource)
	require.NoError(t, err)

	assert.Equal(t, WGSLVertexEntryPoint, layout.VertexEntryPoint)
	assert.Equal(t, WGSLFragmentEntryPoint, layout.FragmentEntryPoint)
	assert.Equal(t, []string{"position", "tex_coords"}, layout.AttributeNames)
	require.Len(t, layout.VertexBuffers, 2)
	for i, vb := range layout.VertexBuffers {
		assert.Equal(t, uint64(8), vb.ArrayStride)
		require.Len(t, vb.Attributes, 1)
		assert.Equal(t, uint32(i), vb.Attributes[0].ShaderLocation)
		assert.Equal(t, wgpu.VertexFormatFloat32x2, vb.Attributes[0].Format)
	}

	uniforms := layout.BindGroups[UniformGroup]
	require.Len(t, uniforms.Entries, 3)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, uniforms.Entries[0].Buffer.Type)
	assert.Equal(t, uint64(8), uniforms.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, uint64(4), uniforms.Entries[2].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, uniforms.Entries[0].Visibility)

	textures := layout.BindGroups[TextureGroup]
	require.Len(t, textures.Entries, 2)
	assert.Equal(t, wgpu.TextureViewDimension1D, textures.Entries[0].Texture.ViewDimension)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, textures.Entries[0].Texture.SampleType)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, textures.Entries[1].Sampler.Type)
	assert.Equal(t, "tex_sampler", layout.BindingNames[TextureGroup][0])
	assert.Equal(t, "view_rotation", layout.BindingNames[UniformGroup][2])
}

func TestParseWGSLProgramRequiresEntryPoints(t *testing.T) {
	_, err := ParseWGSLProgram("fn main() {}", "@fragment fn fs() {}")
	assert.Error(t, err)
}

func TestResolveTypeLayout(t *testing.T) {
	structs := parseStructBlocks("struct Params { a: vec3<f32>, b: f32, c: vec2<f32> }")
	sizes := computeStructSizes(structs)

	cases := []struct {
		typeName string
		size     uint64
		ok       bool
	}{
		{"f32", 4, true},
		{"vec3<f32>", 12, true},
		{"Params", 32, true},
		{"array<vec4<f32>, 4>", 64, true},
		{"array<f32>", 0, false},
		{"Unknown", 0, false},
	}
	for _, tc := range cases {
		layout, ok := resolveTypeLayout(tc.typeName, sizes)
		assert.Equal(t, tc.ok, ok, tc.typeName)
		assert.Equal(t, tc.size, layout.size, tc.typeName)
	}
}
