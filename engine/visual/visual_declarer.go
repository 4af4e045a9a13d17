package visual

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viz/common"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer/shader"
)

// keep records the first declaration failure so that construction fails as a whole.
func (v *visual) keep(name string, err error) error {
	if err == nil {
		return nil
	}
	err = v.declarationError(name, err)
	if v.declErr == nil {
		v.declErr = err
	}
	return err
}

func (v *visual) declareVariable(kind shader.VariableKind, in Variable) error {
	if v.sealed {
		return v.keep(in.Name, fmt.Errorf("%w: declarations are closed", ErrInvalidState))
	}
	err := v.registry.Declare(shader.Declaration{
		Name:      in.Name,
		Kind:      kind,
		ValueType: in.ValueType,
		Dim:       in.Dim,
	})
	if err != nil {
		return v.keep(in.Name, err)
	}
	if in.Data != nil {
		v.pending = append(v.pending, pendingWrite{name: in.Name, value: in.Data})
	}
	return nil
}

func (v *visual) AddAttribute(in Variable) error {
	return v.declareVariable(shader.KindAttribute, in)
}

func (v *visual) AddUniform(in Variable) error {
	return v.declareVariable(shader.KindUniform, in)
}

func (v *visual) AddVarying(name string, valueType shader.ValueType, dim int) error {
	return v.declareVariable(shader.KindVarying, Variable{Name: name, ValueType: valueType, Dim: dim})
}

func (v *visual) AddTexture(in Texture) error {
	if v.sealed {
		return v.keep(in.Name, fmt.Errorf("%w: declarations are closed", ErrInvalidState))
	}
	shape, comps := in.Shape, in.Components
	if in.Data != nil && (shape == [2]int{} || comps == 0) {
		a, err := common.AsArray(in.Data)
		if err != nil {
			return v.keep(in.Name, fmt.Errorf("%w: %w", ErrInvalidShape, err))
		}
		switch a.Ndim() {
		case 2:
			if shape == [2]int{} {
				shape = [2]int{a.Shape[0], a.Shape[1]}
			}
			if comps == 0 {
				comps = 1
			}
		case 3:
			if shape == [2]int{} {
				shape = [2]int{a.Shape[0], a.Shape[1]}
			}
			if comps == 0 {
				comps = a.Shape[2]
			}
		default:
			return v.keep(in.Name, fmt.Errorf("%w: texture data needs 2 or 3 axes, got %v", ErrInvalidShape, a.Shape))
		}
	}
	if comps == 0 {
		comps = 4
	}
	err := v.registry.Declare(shader.Declaration{
		Name:         in.Name,
		Kind:         shader.KindTexture,
		ValueType:    shader.ValueTypeFloat32,
		Dim:          comps,
		TextureShape: shape,
		Components:   comps,
		Ndim:         shader.TextureNdim(shape),
		Sampling:     in.Sampling,
	})
	if err != nil {
		return v.keep(in.Name, err)
	}
	if in.Data != nil {
		v.pending = append(v.pending, pendingWrite{name: in.Name, value: in.Data})
	}
	return nil
}

func (v *visual) AddCompound(name string, fn ExpandFunc, defaultValue any) error {
	if v.sealed {
		return v.keep(name, fmt.Errorf("%w: declarations are closed", ErrInvalidState))
	}
	return v.keep(name, v.resolver.DeclareCompound(name, fn, defaultValue))
}

func (v *visual) AddVertexHeader(src string) {
	v.sources.VertexHeaders = append(v.sources.VertexHeaders, src)
}

func (v *visual) AddFragmentHeader(src string) {
	v.sources.FragmentHeaders = append(v.sources.FragmentHeaders, src)
}

func (v *visual) AddVertexMain(src string) {
	v.sources.VertexMain = append(v.sources.VertexMain, src)
}

func (v *visual) AddFragmentMain(src string) {
	v.sources.FragmentMain = append(v.sources.FragmentMain, src)
}

func (v *visual) SetPrimitiveType(p renderer.PrimitiveType) {
	v.primitive = p
}

func (v *visual) SetSize(n int) {
	if n <= 0 {
		_ = v.keep("", fmt.Errorf("%w: size %d", ErrInvalidDeclaration, n))
		return
	}
	v.size = n
	v.sizeFixed = true
}

func (v *visual) SetBoundsPolicy(p BoundsPolicy) {
	v.boundsPolicy = p
}

func (v *visual) SetStatic(static bool) {
	v.static = static
}

func (v *visual) Dialect() shader.Dialect {
	return v.dialect
}

func (v *visual) SampleTexture(name, coords string) string {
	ndim := 2
	if d, ok := v.registry.Lookup(name); ok && d.Kind == shader.KindTexture {
		ndim = d.Ndim
	}
	return v.dialect.SampleTexture(name, coords, ndim)
}
