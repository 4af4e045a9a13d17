package visual

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viz/common"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer/shader"
)

// Names declared by TextureVisual.
const (
	TextureSamplerName   = "tex_sampler"
	TextureCoordsName    = "tex_coords"
	TextureVaryingName   = "varying_tex_coords"
	TexturePointsName    = "points"
	TextureCompoundName  = "texture"
	textureRectangleSize = 4
)

// TextureVisual draws a texture on an axis-aligned rectangle made of a
// four-vertex triangle strip.
//
// The compound "points" takes the rectangle corners (x0, y0, x1, y1) and the
// compound "texture" takes new texel data for the "tex_sampler" texture.
type TextureVisual struct {
	// Texture is the texel array shaped (rows, columns[, components]) with values in [0, 1].
	Texture common.Array

	// Points optionally holds the corners (x0, y0, x1, y1). When nil the rectangle
	// fills [-1, 1] along its longer side and keeps the texture aspect ratio.
	Points []float32

	// Sampling holds the filter and mipmap settings.
	Sampling shader.TextureSampling

	ndim int
}

var _ Definition = &TextureVisual{}

// Name returns the default visual label.
func (t *TextureVisual) Name() string {
	return "texture"
}

// Ndim returns 1 or 2 once the visual has been initialized: the sampling path
// selected from the texture shape.
func (t *TextureVisual) Ndim() int {
	return t.ndim
}

func (t *TextureVisual) Initialize(d Declarer) error {
	tex := t.Texture
	if tex.Ndim() == 2 {
		var err error
		if tex, err = tex.Reshape(tex.Shape[0], tex.Shape[1], 1); err != nil {
			return err
		}
	}
	if tex.Ndim() != 3 {
		return fmt.Errorf("%w: texture needs (rows, columns[, components]), got %v", ErrInvalidShape, t.Texture.Shape)
	}
	shape := [2]int{tex.Shape[0], tex.Shape[1]}
	t.ndim = shader.TextureNdim(shape)

	points := t.Points
	if points == nil {
		points = aspectPoints(shape)
	}

	d.SetSize(textureRectangleSize)
	d.SetPrimitiveType(renderer.PrimitiveTriangleStrip)

	if err := d.AddAttribute(Variable{Name: shader.AttributePosition, Dim: 2}); err != nil {
		return err
	}
	if err := d.AddCompound(TexturePointsName, rectanglePoints, points); err != nil {
		return err
	}

	if err := d.AddAttribute(Variable{Name: TextureCoordsName, Dim: 2, Data: textureCoords(shape)}); err != nil {
		return err
	}
	if err := d.AddVarying(TextureVaryingName, shader.ValueTypeFloat32, 2); err != nil {
		return err
	}

	if err := d.AddTexture(Texture{
		Name:       TextureSamplerName,
		Shape:      shape,
		Components: tex.Shape[2],
		Sampling:   t.Sampling,
	}); err != nil {
		return err
	}
	if err := d.AddCompound(TextureCompoundName, func(value any) (map[string]any, error) {
		return map[string]any{TextureSamplerName: value}, nil
	}, tex); err != nil {
		return err
	}

	d.AddVertexMain(fmt.Sprintf("    %s = %s;\n", TextureVaryingName, TextureCoordsName))
	d.AddFragmentMain(fmt.Sprintf("    out_color = %s;\n", d.SampleTexture(TextureSamplerName, TextureVaryingName)))
	return nil
}

// rectanglePoints expands (x0, y0, x1, y1) into the four strip vertices, sorting
// each axis so that the corners are always in strip order.
func rectanglePoints(value any) (map[string]any, error) {
	a, err := common.AsArray(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidShape, err)
	}
	if len(a.Data) != 4 {
		return nil, fmt.Errorf("%w: points need 4 values (x0, y0, x1, y1), got %d", ErrInvalidShape, len(a.Data))
	}
	x0, y0, x1, y1 := a.Data[0], a.Data[1], a.Data[2], a.Data[3]
	x0, x1 = min(x0, x1), max(x0, x1)
	y0, y1 = min(y0, y1), max(y0, y1)
	return map[string]any{
		shader.AttributePosition: common.MustArray([]float32{
			x0, y0,
			x1, y0,
			x0, y1,
			x1, y1,
		}, 4, 2),
	}, nil
}

// aspectPoints returns the rectangle filling [-1, 1] along the longer side of the
// texture while keeping its aspect ratio.
func aspectPoints(shape [2]int) []float32 {
	ratio := float32(shape[1]) / float32(shape[0])
	if ratio < 1 {
		return []float32{-ratio, -1, ratio, 1}
	}
	a := 1 / ratio
	return []float32{-1, -a, 1, a}
}

// textureCoords returns the per-vertex texture coordinates. Row 0 of the texture is
// at the top of the rectangle. A 1-D texture is sampled along x only, so a single
// column texture gets its vertical coordinate in x.
func textureCoords(shape [2]int) common.Array {
	if shape[1] == 1 && shape[0] > 1 {
		return common.MustArray([]float32{
			1, 0,
			1, 0,
			0, 0,
			0, 0,
		}, 4, 2)
	}
	return common.MustArray([]float32{
		0, 1,
		1, 1,
		0, 0,
		1, 0,
	}, 4, 2)
}
