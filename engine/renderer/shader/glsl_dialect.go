package shader

import (
	"fmt"
	"strings"
)

const glslVersion = "#version 410 core"

const glslNavigationSnippet = `vec2 transform_position(vec2 p) {
    vec2 s = p * view_scale;
    float c = cos(view_rotation);
    float r = sin(view_rotation);
    return vec2(c * s.x - r * s.y, r * s.x + c * s.y) + view_translation;
}`

type glslDialect struct{}

var _ Dialect = glslDialect{}

// GLSL returns the GLSL 4.10 core dialect consumed by the OpenGL backend.
// Attributes use explicit layout locations, uniforms and samplers are plain
// uniforms looked up by name.
//
// Returns:
//   - Dialect: the GLSL dialect
func GLSL() Dialect {
	return glslDialect{}
}

func (glslDialect) Name() string {
	return "glsl"
}

func (glslDialect) Snippets() map[string]string {
	return map[string]string{"navigation": glslNavigationSnippet}
}

func (glslDialect) Preamble(stage ShaderType, decls []Declaration) string {
	var sb strings.Builder
	sb.WriteString(glslVersion)
	sb.WriteString("\n\n")

	switch stage {
	case ShaderTypeVertex:
		for i, a := range filterKind(decls, KindAttribute) {
			fmt.Fprintf(&sb, "layout(location = %d) in %s %s;\n", i, glslType(a.ValueType, a.Dim), a.Name)
		}
		for _, v := range filterKind(decls, KindVarying) {
			fmt.Fprintf(&sb, "%sout %s %s;\n", glslQualifier(v), glslType(v.ValueType, v.Dim), v.Name)
		}
	case ShaderTypeFragment:
		for _, v := range filterKind(decls, KindVarying) {
			fmt.Fprintf(&sb, "%sin %s %s;\n", glslQualifier(v), glslType(v.ValueType, v.Dim), v.Name)
		}
		sb.WriteString("out vec4 out_color;\n")
	}

	for _, u := range filterKind(decls, KindUniform) {
		fmt.Fprintf(&sb, "uniform %s %s;\n", glslType(u.ValueType, u.Dim), u.Name)
	}
	for _, t := range filterKind(decls, KindTexture) {
		fmt.Fprintf(&sb, "uniform sampler%dD %s;\n", t.Ndim, t.Name)
	}

	if stage == ShaderTypeVertex && hasNavigation(decls) {
		sb.WriteString("\n//@viz:include navigation\n")
	}

	return sb.String()
}

func (glslDialect) MainOpen(stage ShaderType, decls []Declaration) string {
	var sb strings.Builder
	sb.WriteString("void main() {\n")
	switch stage {
	case ShaderTypeVertex:
		fmt.Fprintf(&sb, "    vec4 out_position = %s;\n", glslDefaultPosition(decls))
	case ShaderTypeFragment:
		sb.WriteString("    out_color = vec4(1.0, 1.0, 1.0, 1.0);\n")
	}
	return sb.String()
}

func (glslDialect) MainClose(stage ShaderType, _ []Declaration) string {
	if stage == ShaderTypeVertex {
		return "    gl_Position = out_position;\n}\n"
	}
	return "}\n"
}

func (glslDialect) SampleTexture(name, coords string, ndim int) string {
	if ndim == 1 {
		return fmt.Sprintf("texture(%s, (%s).x)", name, coords)
	}
	return fmt.Sprintf("texture(%s, %s)", name, coords)
}

// glslType returns the GLSL spelling of a scalar or vector type.
func glslType(t ValueType, dim int) string {
	scalar, prefix := "float", ""
	switch t {
	case ValueTypeInt32:
		scalar, prefix = "int", "i"
	case ValueTypeUint32:
		scalar, prefix = "uint", "u"
	}
	if dim <= 1 {
		return scalar
	}
	return fmt.Sprintf("%svec%d", prefix, dim)
}

// glslQualifier returns the interpolation qualifier of a varying. Integer varyings
// cannot be interpolated.
func glslQualifier(v Declaration) string {
	if v.ValueType != ValueTypeFloat32 {
		return "flat "
	}
	return ""
}

func glslDefaultPosition(decls []Declaration) string {
	pos, ok := positionAttribute(decls)
	if !ok || pos.ValueType != ValueTypeFloat32 {
		return "vec4(0.0, 0.0, 0.0, 1.0)"
	}
	var xy string
	switch pos.Dim {
	case 1:
		xy = "vec2(position, 0.0)"
	case 2:
		xy = "position"
	default:
		xy = "position.xy"
	}
	if hasNavigation(decls) {
		xy = "transform_position(" + xy + ")"
	}
	return fmt.Sprintf("vec4(%s, 0.0, 1.0)", xy)
}
