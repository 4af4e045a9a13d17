package visual

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viz/common"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(n int) common.Array {
	x := make([]float32, n)
	y := make([]float32, n)
	for i := range x {
		x[i] = float32(i)
		y[i] = float32(i * i)
	}
	a, _ := common.Interleave(x, y)
	return a
}

func TestPlotVisualDefaultColor(t *testing.T) {
	v, backend := newBound(t, &PlotVisual{Position: line(5)})
	assert.Equal(t, 5, v.Size())
	assert.Equal(t, renderer.PrimitivePoints, v.PrimitiveType())

	_, data, ok := backend.Buffer(v.refs[PlotColorName])
	require.True(t, ok)
	assert.Equal(t, []int{5, 4}, data.Shape)
	assert.Equal(t, DefaultPlotColor[:], data.Data[16:20])

	_, size, _ := backend.Buffer(v.refs[PlotPointSizeName])
	assert.Equal(t, []float32{1}, size.Data)
}

func TestPlotVisualPerPointColors(t *testing.T) {
	colors := common.Repeat(3, 0, 1, 0, 1)
	colors.Data[0] = 1
	v, backend := newBound(t, &PlotVisual{Position: line(3), Color: colors, Primitive: renderer.PrimitiveLineStrip})
	assert.Equal(t, renderer.PrimitiveLineStrip, v.PrimitiveType())

	_, data, _ := backend.Buffer(v.refs[PlotColorName])
	assert.Equal(t, colors.Data, data.Data)
}

func TestPlotVisualSolidColorCompound(t *testing.T) {
	v, backend := newBound(t, &PlotVisual{Position: line(3)})

	require.NoError(t, v.UpdateData(PlotSolidColorName, [4]float32{0, 0, 1, 1}))
	_, data, _ := backend.Buffer(v.refs[PlotColorName])
	assert.Equal(t, common.Repeat(3, 0, 0, 1, 1).Data, data.Data)

	assert.ErrorIs(t, v.UpdateData(PlotSolidColorName, [3]float32{0, 0, 1}), ErrInvalidShape)
}

func TestPlotVisualSolidColorAfterResize(t *testing.T) {
	v, backend := newBound(t, &PlotVisual{Position: line(3)})

	require.NoError(t, v.UpdateData(shader.AttributePosition, line(5), WithResize()))
	require.NoError(t, v.UpdateData(PlotSolidColorName, [4]float32{0, 0, 1, 1}, WithResize()))
	_, data, _ := backend.Buffer(v.refs[PlotColorName])
	assert.Equal(t, []int{5, 4}, data.Shape)

	require.NoError(t, backend.BeginFrame())
	require.NoError(t, v.Draw())
	require.NoError(t, backend.EndFrame())
	frame := backend.LastFrame()
	require.Len(t, frame, 1)
	assert.Equal(t, 5, frame[0].Count)
}

func TestPlotVisualSolidColorWhileDeclared(t *testing.T) {
	v, err := New(&PlotVisual{Position: line(3)}, shader.WGSL())
	require.NoError(t, err)

	require.NoError(t, v.UpdateData(shader.AttributePosition, line(6)))
	require.NoError(t, v.UpdateData(PlotSolidColorName, [4]float32{1, 0, 0, 1}))
	color, _ := v.Data(PlotColorName)
	assert.Equal(t, []int{6, 4}, color.Shape)

	require.NoError(t, v.Bind(renderer.NewHeadlessBackend()))
	assert.Equal(t, 6, v.Size())
}

func TestPlotVisualPointSizeByDialect(t *testing.T) {
	glsl, err := New(&PlotVisual{Position: line(2), PointSize: 4}, shader.GLSL())
	require.NoError(t, err)
	assert.Contains(t, glsl.Program().VertexSource, "gl_PointSize = point_size;")

	wgsl, err := New(&PlotVisual{Position: line(2), PointSize: 4}, shader.WGSL())
	require.NoError(t, err)
	assert.NotContains(t, wgsl.Program().VertexSource, "gl_PointSize")
	size, _ := wgsl.Data(PlotPointSizeName)
	assert.Equal(t, []float32{4}, size.Data)
}

func TestPlotVisualRejectsBadPositions(t *testing.T) {
	_, err := New(&PlotVisual{Position: common.Repeat(4, 1, 2, 3)}, shader.WGSL())
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestPlotVisualBounds(t *testing.T) {
	v, err := New(&PlotVisual{Position: line(4)}, shader.WGSL())
	require.NoError(t, err)
	b, ok := v.Bounds()
	require.True(t, ok)
	assert.Equal(t, [2]float32{0, 0}, b.Min)
	assert.Equal(t, [2]float32{3, 9}, b.Max)
}

func TestPlotVisualReturnsDeclarationErrors(t *testing.T) {
	var initErr error
	def := DefinitionFunc(func(d Declarer) error {
		require.NoError(t, d.AddAttribute(Variable{Name: PlotColorName, Dim: 3}))
		initErr = (&PlotVisual{Position: line(2)}).Initialize(d)
		return initErr
	})
	_, err := New(def, shader.WGSL())
	assert.ErrorIs(t, err, ErrDuplicateName)

	require.ErrorIs(t, initErr, ErrDuplicateName)
	var de *DeclarationError
	require.ErrorAs(t, initErr, &de)
	assert.Equal(t, PlotColorName, de.Name)
}
