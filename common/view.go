package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ViewTransform is the 2D navigation transform applied to every non-static visual.
// A data-space point p maps to normalized device coordinates as
// Translation + Rotate(Rotation) * (Scale * p).
type ViewTransform struct {
	// Scale is the per-axis zoom factor.
	Scale [2]float32

	// Translation is the offset in normalized device coordinates.
	Translation [2]float32

	// Rotation is the counter-clockwise rotation in radians.
	Rotation float32
}

// IdentityView returns the transform that leaves every point unchanged.
func IdentityView() ViewTransform {
	return ViewTransform{Scale: [2]float32{1, 1}}
}

// Matrix returns the transform as a column-major 4x4 matrix.
func (v ViewTransform) Matrix() mgl32.Mat4 {
	t := mgl32.Translate3D(v.Translation[0], v.Translation[1], 0)
	r := mgl32.HomogRotate3DZ(v.Rotation)
	s := mgl32.Scale3D(v.Scale[0], v.Scale[1], 1)
	return t.Mul4(r).Mul4(s)
}

// Apply maps a data-space point to normalized device coordinates.
func (v ViewTransform) Apply(p [2]float32) [2]float32 {
	out := v.Matrix().Mul4x1(mgl32.Vec4{p[0], p[1], 0, 1})
	return [2]float32{out.X(), out.Y()}
}

// Unproject maps a point in normalized device coordinates back to data space.
//
// Parameters:
//   - p: the point in normalized device coordinates
//
// Returns:
//   - [2]float32: the data-space point
//   - bool: false if the transform is singular (a zero scale axis)
func (v ViewTransform) Unproject(p [2]float32) ([2]float32, bool) {
	m := v.Matrix()
	if math32.Abs(m.Det()) < 1e-12 {
		return [2]float32{}, false
	}
	out := m.Inv().Mul4x1(mgl32.Vec4{p[0], p[1], 0, 1})
	return [2]float32{out.X(), out.Y()}, true
}

// FitView returns the unrotated transform that maps b onto the [-1, 1] square,
// shrunk by margin (0.05 leaves five percent of free space on each side).
// Degenerate axes keep a scale of 1.
func FitView(b Bounds, margin float32) ViewTransform {
	if b.Empty() {
		return IdentityView()
	}
	size := b.Size()
	center := b.Center()
	view := IdentityView()
	for i := 0; i < 2; i++ {
		if size[i] > 0 {
			view.Scale[i] = 2 * (1 - margin) / size[i]
		}
		view.Translation[i] = -center[i] * view.Scale[i]
	}
	return view
}

// ScreenToNDC converts a window position in pixels to normalized device coordinates
// for a framebuffer of the given size. The y axis is flipped so that up is positive.
func ScreenToNDC(x, y float32, width, height int) [2]float32 {
	if width <= 0 || height <= 0 {
		return [2]float32{}
	}
	return [2]float32{
		2*x/float32(width) - 1,
		1 - 2*y/float32(height),
	}
}
