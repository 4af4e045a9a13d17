package shader

import (
	"fmt"
	"strings"
)

// Entry point names of generated WGSL programs.
const (
	WGSLVertexEntryPoint   = "vs_main"
	WGSLFragmentEntryPoint = "fs_main"
)

const wgslNavigationSnippet = `fn transform_position(p: vec2<f32>) -> vec2<f32> {
    let s = p * view_scale;
    let c = cos(view_rotation);
    let r = sin(view_rotation);
    return vec2<f32>(c * s.x - r * s.y, r * s.x + c * s.y) + view_translation;
}`

type wgslDialect struct{}

var _ Dialect = wgslDialect{}

// WGSL returns the dialect consumed by the WebGPU backend. Every attribute is read
// from its own vertex buffer, every uniform lives in its own uniform buffer in
// group 0 and every texture is paired with a sampler named "<texture>_sampler" in
// group 1.
//
// Returns:
//   - Dialect: the WGSL dialect
func WGSL() Dialect {
	return wgslDialect{}
}

func (wgslDialect) Name() string {
	return "wgsl"
}

func (wgslDialect) Snippets() map[string]string {
	return map[string]string{"navigation": wgslNavigationSnippet}
}

func (wgslDialect) Preamble(stage ShaderType, decls []Declaration) string {
	var sb strings.Builder

	if stage == ShaderTypeVertex {
		if attrs := filterKind(decls, KindAttribute); len(attrs) > 0 {
			sb.WriteString("struct VertexInput {\n")
			for i, a := range attrs {
				fmt.Fprintf(&sb, "    @location(%d) %s: %s,\n", i, a.Name, wgslType(a.ValueType, a.Dim))
			}
			sb.WriteString("};\n\n")
		}
	}

	sb.WriteString("struct VertexOutput {\n")
	sb.WriteString("    @builtin(position) clip_position: vec4<f32>,\n")
	for i, v := range filterKind(decls, KindVarying) {
		interp := ""
		if v.ValueType != ValueTypeFloat32 {
			interp = "@interpolate(flat) "
		}
		fmt.Fprintf(&sb, "    @location(%d) %s%s: %s,\n", i, interp, v.Name, wgslType(v.ValueType, v.Dim))
	}
	sb.WriteString("};\n")

	if uniforms := filterKind(decls, KindUniform); len(uniforms) > 0 {
		sb.WriteString("\n")
		for i, u := range uniforms {
			fmt.Fprintf(&sb, "@group(%d) @binding(%d) var<uniform> %s: %s;\n", UniformGroup, i, u.Name, wgslType(u.ValueType, u.Dim))
		}
	}

	if textures := filterKind(decls, KindTexture); len(textures) > 0 {
		sb.WriteString("\n")
		for i, t := range textures {
			fmt.Fprintf(&sb, "@group(%d) @binding(%d) var %s: texture_%dd<f32>;\n", TextureGroup, 2*i, t.Name, t.Ndim)
			fmt.Fprintf(&sb, "@group(%d) @binding(%d) var %s_sampler: sampler;\n", TextureGroup, 2*i+1, t.Name)
		}
	}

	if hasNavigation(decls) {
		sb.WriteString("\n//@viz:include navigation\n")
	}

	return sb.String()
}

func (wgslDialect) MainOpen(stage ShaderType, decls []Declaration) string {
	var sb strings.Builder
	varyings := filterKind(decls, KindVarying)

	switch stage {
	case ShaderTypeVertex:
		attrs := filterKind(decls, KindAttribute)
		sb.WriteString("@vertex\n")
		if len(attrs) > 0 {
			fmt.Fprintf(&sb, "fn %s(in: VertexInput) -> VertexOutput {\n", WGSLVertexEntryPoint)
		} else {
			fmt.Fprintf(&sb, "fn %s() -> VertexOutput {\n", WGSLVertexEntryPoint)
		}
		sb.WriteString("    var out: VertexOutput;\n")
		for _, a := range attrs {
			fmt.Fprintf(&sb, "    let %s = in.%s;\n", a.Name, a.Name)
		}
		for _, v := range varyings {
			fmt.Fprintf(&sb, "    var %s: %s;\n", v.Name, wgslType(v.ValueType, v.Dim))
		}
		fmt.Fprintf(&sb, "    var out_position = %s;\n", wgslDefaultPosition(decls))
	case ShaderTypeFragment:
		sb.WriteString("@fragment\n")
		fmt.Fprintf(&sb, "fn %s(in: VertexOutput) -> @location(0) vec4<f32> {\n", WGSLFragmentEntryPoint)
		for _, v := range varyings {
			fmt.Fprintf(&sb, "    let %s = in.%s;\n", v.Name, v.Name)
		}
		sb.WriteString("    var out_color = vec4<f32>(1.0, 1.0, 1.0, 1.0);\n")
	}
	return sb.String()
}

func (wgslDialect) MainClose(stage ShaderType, decls []Declaration) string {
	var sb strings.Builder
	switch stage {
	case ShaderTypeVertex:
		sb.WriteString("    out.clip_position = out_position;\n")
		for _, v := range filterKind(decls, KindVarying) {
			fmt.Fprintf(&sb, "    out.%s = %s;\n", v.Name, v.Name)
		}
		sb.WriteString("    return out;\n")
	case ShaderTypeFragment:
		sb.WriteString("    return out_color;\n")
	}
	sb.WriteString("}\n")
	return sb.String()
}

func (wgslDialect) SampleTexture(name, coords string, ndim int) string {
	if ndim == 1 {
		return fmt.Sprintf("textureSample(%s, %s_sampler, (%s).x)", name, name, coords)
	}
	return fmt.Sprintf("textureSample(%s, %s_sampler, %s)", name, name, coords)
}

// wgslType returns the WGSL spelling of a scalar or vector type.
func wgslType(t ValueType, dim int) string {
	scalar := "f32"
	switch t {
	case ValueTypeInt32:
		scalar = "i32"
	case ValueTypeUint32:
		scalar = "u32"
	}
	if dim <= 1 {
		return scalar
	}
	return fmt.Sprintf("vec%d<%s>", dim, scalar)
}

// wgslDefaultPosition returns the initial clip position expression: the position
// attribute passed through the navigation transform when both are available.
func wgslDefaultPosition(decls []Declaration) string {
	pos, ok := positionAttribute(decls)
	if !ok || pos.ValueType != ValueTypeFloat32 {
		return "vec4<f32>(0.0, 0.0, 0.0, 1.0)"
	}
	var xy string
	switch pos.Dim {
	case 1:
		xy = "vec2<f32>(position, 0.0)"
	case 2:
		xy = "position"
	default:
		xy = "position.xy"
	}
	if hasNavigation(decls) {
		xy = "transform_position(" + xy + ")"
	}
	return fmt.Sprintf("vec4<f32>(%s, 0.0, 1.0)", xy)
}
