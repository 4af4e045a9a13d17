package visual

import "github.com/Carmen-Shannon/oxy-viz/engine/renderer"

// VisualBuilderOption configures a visual before its definition runs.
type VisualBuilderOption func(*visual)

// WithName sets the label used in logs and errors.
//
// Parameters:
//   - name: the label
//
// Returns:
//   - VisualBuilderOption: a function that applies the name
func WithName(name string) VisualBuilderOption {
	return func(v *visual) {
		v.name = name
	}
}

// WithData stages an initial value for a variable or compound. Staged values are
// applied after compound defaults and override them.
//
// Parameters:
//   - name: a variable or compound name
//   - value: the value, in any form accepted by common.AsArray or by the compound
//
// Returns:
//   - VisualBuilderOption: a function that stages the value
func WithData(name string, value any) VisualBuilderOption {
	return func(v *visual) {
		v.overrides = append(v.overrides, pendingWrite{name: name, value: value})
	}
}

// WithStatic excludes the visual from the navigation transform. The definition may
// still override the setting.
//
// Returns:
//   - VisualBuilderOption: a function that marks the visual static
func WithStatic() VisualBuilderOption {
	return func(v *visual) {
		v.static = true
	}
}

// WithPrimitiveType sets the initial vertex topology. The definition may still override it.
//
// Parameters:
//   - p: the topology
//
// Returns:
//   - VisualBuilderOption: a function that applies the topology
func WithPrimitiveType(p renderer.PrimitiveType) VisualBuilderOption {
	return func(v *visual) {
		v.primitive = p
	}
}

type updateConfig struct {
	resize bool
}

// UpdateOption configures a single data update.
type UpdateOption func(*updateConfig)

// WithResize allows an update to change the element count of attributes or the size
// of a texture. Component counts and the texture sampling path stay fixed.
//
// Returns:
//   - UpdateOption: a function that enables resizing
func WithResize() UpdateOption {
	return func(c *updateConfig) {
		c.resize = true
	}
}
