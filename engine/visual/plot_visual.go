package visual

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viz/common"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer/shader"
)

// Names declared by PlotVisual.
const (
	PlotColorName      = "color"
	PlotSolidColorName = "solid_color"
	PlotPointSizeName  = "point_size"
	plotVaryingColor   = "varying_color"
)

// DefaultPlotColor is the color of plot points when none is given.
var DefaultPlotColor = [4]float32{1, 1, 0, 1}

// PlotVisual draws a set of 2-D points as points or lines with a per-point color.
//
// The attribute "color" takes (n, 4) RGBA rows. The compound "solid_color" takes
// one RGBA value and paints every point with it.
type PlotVisual struct {
	// Position is the (n, 2) point array.
	Position common.Array

	// Color is either one RGBA value or an (n, 4) array. Nil selects DefaultPlotColor.
	Color any

	// Primitive is the topology; the zero value draws points.
	Primitive renderer.PrimitiveType

	// PointSize is the size of points in pixels where the backend supports it. Zero means 1.
	PointSize float32

	data Declarer
}

var _ Definition = &PlotVisual{}

// Name returns the default visual label.
func (p *PlotVisual) Name() string {
	return "plot"
}

func (p *PlotVisual) Initialize(d Declarer) error {
	if p.Position.Ndim() != 2 || p.Position.Components() != 2 {
		return fmt.Errorf("%w: plot positions need (n, 2), got %v", ErrInvalidShape, p.Position.Shape)
	}
	p.data = d

	pointSize := p.PointSize
	if pointSize <= 0 {
		pointSize = 1
	}

	// one RGBA value goes through the compound, per-point colors straight to the attribute
	var colors, solid any
	color := p.Color
	if color == nil {
		color = DefaultPlotColor
	}
	a, err := common.AsArray(color)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidShape, err)
	}
	if a.Ndim() == 1 {
		solid = a
	} else {
		colors = a
	}

	d.SetPrimitiveType(p.Primitive)
	if err := d.AddAttribute(Variable{Name: shader.AttributePosition, Dim: 2, Data: p.Position}); err != nil {
		return err
	}
	if err := d.AddAttribute(Variable{Name: PlotColorName, Dim: 4, Data: colors}); err != nil {
		return err
	}
	if err := d.AddUniform(Variable{Name: PlotPointSizeName, Dim: 1, Data: pointSize}); err != nil {
		return err
	}
	if err := d.AddVarying(plotVaryingColor, shader.ValueTypeFloat32, 4); err != nil {
		return err
	}
	if err := d.AddCompound(PlotSolidColorName, p.solidColor, solid); err != nil {
		return err
	}

	d.AddVertexMain(fmt.Sprintf("    %s = %s;\n", plotVaryingColor, PlotColorName))
	if d.Dialect().Name() == shader.GLSL().Name() {
		d.AddVertexMain(fmt.Sprintf("    gl_PointSize = %s;\n", PlotPointSizeName))
	}
	d.AddFragmentMain(fmt.Sprintf("    out_color = %s;\n", plotVaryingColor))
	return nil
}

// solidColor expands one RGBA value into a color row per point of the current
// position data, so that it follows resized positions.
func (p *PlotVisual) solidColor(value any) (map[string]any, error) {
	a, err := common.AsArray(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidShape, err)
	}
	if a.Ndim() != 1 || a.Len() != 4 {
		return nil, fmt.Errorf("%w: solid color needs 4 components, got %v", ErrInvalidShape, a.Shape)
	}
	rows := p.Position.Len()
	if pos, ok := p.data.Data(shader.AttributePosition); ok {
		rows = pos.Len()
	}
	return map[string]any{PlotColorName: common.Repeat(rows, a.Data...)}, nil
}
