package scene

import (
	"github.com/Carmen-Shannon/oxy-viz/common"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-viz/engine/visual"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is drawn by Render. Scenes start active.
//
// Parameters:
//   - active: whether the scene is drawn
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithPaintManager sets the hook run by Initialize.
//
// Parameters:
//   - pm: the paint manager
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPaintManager(pm PaintManager) SceneBuilderOption {
	return func(s *scene) {
		s.paintManager = pm
	}
}

// WithInitialView sets the navigation transform applied to visuals as they are added.
//
// Parameters:
//   - view: the transform
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithInitialView(view common.ViewTransform) SceneBuilderOption {
	return func(s *scene) {
		s.view = view
	}
}

type plotConfig struct {
	def        *visual.PlotVisual
	visualOpts []visual.VisualBuilderOption
}

// PlotOption configures a plot added with AddPlot.
type PlotOption func(c *plotConfig)

// WithPlotColor sets the plot color: one RGBA value or an (n, 4) array.
//
// Parameters:
//   - color: the color value
//
// Returns:
//   - PlotOption: option function to apply
func WithPlotColor(color any) PlotOption {
	return func(c *plotConfig) {
		c.def.Color = color
	}
}

// WithPlotPrimitive sets the topology used to draw the plot.
//
// Parameters:
//   - p: the topology
//
// Returns:
//   - PlotOption: option function to apply
func WithPlotPrimitive(p renderer.PrimitiveType) PlotOption {
	return func(c *plotConfig) {
		c.def.Primitive = p
	}
}

// WithPointSize sets the point size in pixels.
func WithPointSize(size float32) PlotOption {
	return func(c *plotConfig) {
		c.def.PointSize = size
	}
}

// WithPlotVisualOptions forwards options to the underlying visual.
func WithPlotVisualOptions(opts ...visual.VisualBuilderOption) PlotOption {
	return func(c *plotConfig) {
		c.visualOpts = append(c.visualOpts, opts...)
	}
}

type textureConfig struct {
	def        *visual.TextureVisual
	visualOpts []visual.VisualBuilderOption
}

// TextureOption configures a texture added with AddTexture.
type TextureOption func(c *textureConfig)

// WithTexturePoints sets the rectangle corners (x0, y0, x1, y1).
//
// Parameters:
//   - x0, y0: one corner
//   - x1, y1: the opposite corner
//
// Returns:
//   - TextureOption: option function to apply
func WithTexturePoints(x0, y0, x1, y1 float32) TextureOption {
	return func(c *textureConfig) {
		c.def.Points = []float32{x0, y0, x1, y1}
	}
}

// WithTextureSampling sets the filter and mipmap settings.
func WithTextureSampling(sampling shader.TextureSampling) TextureOption {
	return func(c *textureConfig) {
		c.def.Sampling = sampling
	}
}

// WithTextureVisualOptions forwards options to the underlying visual.
func WithTextureVisualOptions(opts ...visual.VisualBuilderOption) TextureOption {
	return func(c *textureConfig) {
		c.visualOpts = append(c.visualOpts, opts...)
	}
}
