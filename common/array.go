package common

import (
	"fmt"
	"slices"

	"github.com/chewxy/math32"
)

// Array is a dense, row-major float32 payload tagged with its shape.
// Attribute data is shaped (count, components), uniform data (components) and
// texture data (height, width, components).
type Array struct {
	// Data holds the flattened values in row-major order.
	Data []float32

	// Shape holds the size of every axis. The product of Shape must equal len(Data).
	Shape []int
}

// NewArray wraps data with the given shape after checking that the shape is
// positive and matches the number of values.
//
// Parameters:
//   - data: the flattened values
//   - shape: the size of each axis
//
// Returns:
//   - Array: the shaped array
//   - error: an error if the shape is empty, has a non-positive axis, or disagrees with len(data)
func NewArray(data []float32, shape ...int) (Array, error) {
	if len(shape) == 0 {
		return Array{}, fmt.Errorf("common: array shape must have at least one axis")
	}
	size := 1
	for i, n := range shape {
		if n <= 0 {
			return Array{}, fmt.Errorf("common: array axis %d has non-positive size %d", i, n)
		}
		size *= n
	}
	if size != len(data) {
		return Array{}, fmt.Errorf("common: array shape %v holds %d values, got %d", shape, size, len(data))
	}
	return Array{Data: data, Shape: slices.Clone(shape)}, nil
}

// MustArray is NewArray for literal data known to be well formed. It panics on error.
func MustArray(data []float32, shape ...int) Array {
	a, err := NewArray(data, shape...)
	if err != nil {
		panic(err)
	}
	return a
}

// Ndim returns the number of axes.
func (a Array) Ndim() int {
	return len(a.Shape)
}

// Len returns the size of the first axis, or 0 for an empty array.
func (a Array) Len() int {
	if len(a.Shape) == 0 {
		return 0
	}
	return a.Shape[0]
}

// Components returns the size of the last axis, or 0 for an empty array.
func (a Array) Components() int {
	if len(a.Shape) == 0 {
		return 0
	}
	return a.Shape[len(a.Shape)-1]
}

// Empty reports whether the array carries no values.
func (a Array) Empty() bool {
	return len(a.Data) == 0
}

// SameShape reports whether both arrays have identical shapes.
func (a Array) SameShape(b Array) bool {
	return slices.Equal(a.Shape, b.Shape)
}

// Reshape returns a view of the same data with a new shape.
//
// Parameters:
//   - shape: the new axis sizes, whose product must equal the number of values
//
// Returns:
//   - Array: the reshaped view
//   - error: an error if the new shape does not describe the same number of values
func (a Array) Reshape(shape ...int) (Array, error) {
	return NewArray(a.Data, shape...)
}

// Clone returns a deep copy of the array.
func (a Array) Clone() Array {
	return Array{Data: slices.Clone(a.Data), Shape: slices.Clone(a.Shape)}
}

// Row returns the values of row i of a two-axis array.
func (a Array) Row(i int) []float32 {
	c := a.Components()
	return a.Data[i*c : (i+1)*c]
}

// AsArray converts the value shapes accepted by data updates into an Array.
// Scalars become shape (1), flat slices and fixed vectors become shape (n), and
// slices of fixed vectors become shape (n, components).
//
// Parameters:
//   - v: an Array, *Array, scalar, []float32, []float64, [N]float32 or [][N]float32 value
//
// Returns:
//   - Array: the converted array (sharing memory with v where possible)
//   - error: an error if the type is not supported or the value is empty
func AsArray(v any) (Array, error) {
	var out Array
	switch t := v.(type) {
	case Array:
		out = t
	case *Array:
		if t == nil {
			return Array{}, fmt.Errorf("common: nil *Array")
		}
		out = *t
	case float32:
		out = Array{Data: []float32{t}, Shape: []int{1}}
	case float64:
		out = Array{Data: []float32{float32(t)}, Shape: []int{1}}
	case int:
		out = Array{Data: []float32{float32(t)}, Shape: []int{1}}
	case bool:
		f := float32(0)
		if t {
			f = 1
		}
		out = Array{Data: []float32{f}, Shape: []int{1}}
	case []float32:
		out = Array{Data: t, Shape: []int{len(t)}}
	case []float64:
		data := make([]float32, len(t))
		for i, f := range t {
			data[i] = float32(f)
		}
		out = Array{Data: data, Shape: []int{len(t)}}
	case [2]float32:
		out = Array{Data: t[:], Shape: []int{2}}
	case [3]float32:
		out = Array{Data: t[:], Shape: []int{3}}
	case [4]float32:
		out = Array{Data: t[:], Shape: []int{4}}
	case [][2]float32:
		out = flattenVectors(t)
	case [][3]float32:
		out = flattenVectors(t)
	case [][4]float32:
		out = flattenVectors(t)
	default:
		return Array{}, fmt.Errorf("common: unsupported array value of type %T", v)
	}
	if out.Empty() {
		return Array{}, fmt.Errorf("common: array value of type %T is empty", v)
	}
	return out, nil
}

// flattenVectors copies a slice of fixed-size vectors into a (n, N) array.
func flattenVectors[V [2]float32 | [3]float32 | [4]float32](rows []V) Array {
	if len(rows) == 0 {
		return Array{}
	}
	comps := len(rows[0])
	data := make([]float32, 0, len(rows)*comps)
	for _, r := range rows {
		for i := 0; i < comps; i++ {
			data = append(data, r[i])
		}
	}
	return Array{Data: data, Shape: []int{len(rows), comps}}
}

// Interleave builds a (n, 2) position array from separate x and y coordinate slices.
//
// Parameters:
//   - x: the x coordinates
//   - y: the y coordinates, of the same length as x
//
// Returns:
//   - Array: the interleaved positions
//   - error: an error if the slices are empty or differ in length
func Interleave(x, y []float32) (Array, error) {
	if len(x) != len(y) {
		return Array{}, fmt.Errorf("common: x has %d values but y has %d", len(x), len(y))
	}
	if len(x) == 0 {
		return Array{}, fmt.Errorf("common: no coordinates")
	}
	data := make([]float32, 2*len(x))
	for i := range x {
		data[2*i] = x[i]
		data[2*i+1] = y[i]
	}
	return Array{Data: data, Shape: []int{len(x), 2}}, nil
}

// Repeat builds an (n, len(value)) array where every row equals value.
func Repeat(n int, value ...float32) Array {
	data := make([]float32, 0, n*len(value))
	for i := 0; i < n; i++ {
		data = append(data, value...)
	}
	return Array{Data: data, Shape: []int{n, len(value)}}
}

// Bounds is an axis-aligned rectangle in data coordinates.
type Bounds struct {
	Min [2]float32
	Max [2]float32
}

// EmptyBounds returns bounds that contain nothing; the union with any other bounds
// yields the other bounds.
func EmptyBounds() Bounds {
	inf := math32.Inf(1)
	return Bounds{Min: [2]float32{inf, inf}, Max: [2]float32{-inf, -inf}}
}

// Empty reports whether the bounds contain no point.
func (b Bounds) Empty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1]
}

// Union returns the smallest bounds containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		Min: [2]float32{math32.Min(b.Min[0], o.Min[0]), math32.Min(b.Min[1], o.Min[1])},
		Max: [2]float32{math32.Max(b.Max[0], o.Max[0]), math32.Max(b.Max[1], o.Max[1])},
	}
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() [2]float32 {
	return [2]float32{(b.Min[0] + b.Max[0]) / 2, (b.Min[1] + b.Max[1]) / 2}
}

// Size returns the width and height of the bounds.
func (b Bounds) Size() [2]float32 {
	return [2]float32{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1]}
}

// ComputeBounds returns the bounds of the first two components of every row of a
// (n, components>=2) array. NaN values are skipped.
//
// Parameters:
//   - a: the point array
//
// Returns:
//   - Bounds: the computed bounds
//   - bool: false if the array has fewer than two components or no finite points
func ComputeBounds(a Array) (Bounds, bool) {
	if a.Ndim() != 2 || a.Components() < 2 {
		return Bounds{}, false
	}
	b := EmptyBounds()
	for i := 0; i < a.Len(); i++ {
		row := a.Row(i)
		x, y := row[0], row[1]
		if math32.IsNaN(x) || math32.IsNaN(y) {
			continue
		}
		b.Min[0] = math32.Min(b.Min[0], x)
		b.Min[1] = math32.Min(b.Min[1], y)
		b.Max[0] = math32.Max(b.Max[0], x)
		b.Max[1] = math32.Max(b.Max[1], y)
	}
	if b.Empty() {
		return Bounds{}, false
	}
	return b, true
}
