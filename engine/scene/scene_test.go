package scene

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-viz/common"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-viz/engine/visual"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScene(opts ...SceneBuilderOption) (Scene, *renderer.HeadlessBackend) {
	backend := renderer.NewHeadlessBackend()
	return NewScene("test", backend, opts...), backend
}

func TestSceneAddPlotAndRender(t *testing.T) {
	s, backend := newTestScene()
	h1, err := s.AddPlot([]float32{0, 1, 2}, []float32{0, 1, 4})
	require.NoError(t, err)
	h2, err := s.AddPlot([]float32{0, 1}, []float32{1, 0}, WithPlotPrimitive(renderer.PrimitiveLines))
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
	assert.Equal(t, []Handle{h1, h2}, s.Handles())

	require.NoError(t, s.Render())
	require.NoError(t, s.Render())
	assert.Equal(t, 2, backend.Frames())

	frame := backend.LastFrame()
	require.Len(t, frame, 2)
	assert.Equal(t, 3, frame[0].Count)
	assert.Equal(t, renderer.PrimitivePoints, frame[0].Primitive)
	assert.Equal(t, 2, frame[1].Count)
	assert.Equal(t, renderer.PrimitiveLines, frame[1].Primitive)
}

func TestSceneVisualsOwnTheirPrograms(t *testing.T) {
	s, backend := newTestScene()
	h1, err := s.AddPlot([]float32{0, 1}, []float32{0, 1})
	require.NoError(t, err)
	_, err = s.AddPlot([]float32{0, 1}, []float32{0, 1})
	require.NoError(t, err)

	require.NoError(t, s.Render())
	frame := backend.LastFrame()
	require.Len(t, frame, 2)
	assert.NotEqual(t, frame[0].Program, frame[1].Program)

	require.NoError(t, s.RemoveVisual(h1))
	_, ok := backend.Program(frame[0].Program)
	assert.False(t, ok)
	_, ok = backend.Program(frame[1].Program)
	assert.True(t, ok)

	require.NoError(t, s.Render())
	assert.Len(t, backend.LastFrame(), 1)
}

func TestSceneRemoveVisualTwice(t *testing.T) {
	s, backend := newTestScene()
	h, err := s.AddPlot([]float32{0, 1}, []float32{0, 1})
	require.NoError(t, err)
	require.NotZero(t, backend.Live())

	require.NoError(t, s.RemoveVisual(h))
	assert.Equal(t, 0, backend.Live())
	assert.Zero(t, s.Count())

	err = s.RemoveVisual(h)
	assert.ErrorIs(t, err, ErrUnknownHandle)
}

func TestSceneRemoveKeepsOrder(t *testing.T) {
	s, backend := newTestScene()
	var handles []Handle
	for n := 1; n <= 3; n++ {
		x := make([]float32, n)
		h, err := s.AddPlot(x, x)
		require.NoError(t, err)
		handles = append(handles, h)
	}
	require.NoError(t, s.RemoveVisual(handles[1]))
	assert.Equal(t, []Handle{handles[0], handles[2]}, s.Handles())

	require.NoError(t, s.UpdateBuffer(handles[2], visual.PlotSolidColorName, [4]float32{1, 0, 0, 1}))

	require.NoError(t, s.Render())
	frame := backend.LastFrame()
	require.Len(t, frame, 2)
	assert.Equal(t, 1, frame[0].Count)
	assert.Equal(t, 3, frame[1].Count)
}

func TestSceneUpdateBuffer(t *testing.T) {
	s, _ := newTestScene()
	h, err := s.AddPlot([]float32{0, 1, 2}, []float32{0, 0, 0})
	require.NoError(t, err)

	require.NoError(t, s.UpdateBuffer(h, shader.AttributePosition, common.Repeat(3, 5, 5)))
	v, ok := s.Visual(h)
	require.True(t, ok)
	data, _ := v.Data(shader.AttributePosition)
	assert.Equal(t, common.Repeat(3, 5, 5).Data, data.Data)

	err = s.UpdateBuffer(h, shader.AttributePosition, common.Repeat(4, 5, 5))
	assert.ErrorIs(t, err, renderer.ErrShapeMismatch)

	err = s.UpdateBuffer(Handle(99), shader.AttributePosition, common.Repeat(3, 5, 5))
	var ue *visual.UpdateError
	require.ErrorAs(t, err, &ue)
	assert.ErrorIs(t, err, ErrUnknownHandle)
}

func TestSceneSolidColorFollowsResizedPositions(t *testing.T) {
	s, backend := newTestScene()
	h, err := s.AddPlot([]float32{0, 1, 2}, []float32{0, 1, 2})
	require.NoError(t, err)

	five := common.Repeat(5, 0.5, 0.5)
	require.NoError(t, s.UpdateBuffer(h, shader.AttributePosition, five, visual.WithResize()))
	require.NoError(t, s.UpdateBuffer(h, visual.PlotSolidColorName, [4]float32{0, 1, 0, 1}, visual.WithResize()))

	v, ok := s.Visual(h)
	require.True(t, ok)
	color, ok := v.Data(visual.PlotColorName)
	require.True(t, ok)
	assert.Equal(t, []int{5, 4}, color.Shape)

	require.NoError(t, s.Render())
	frame := backend.LastFrame()
	require.Len(t, frame, 1)
	assert.Equal(t, 5, frame[0].Count)
}

func TestSceneInitializationError(t *testing.T) {
	s, backend := newTestScene()
	bad := visual.DefinitionFunc(func(d visual.Declarer) error {
		d.AddAttribute(visual.Variable{Name: "a", Dim: 2})
		d.AddAttribute(visual.Variable{Name: "a", Dim: 2})
		return nil
	})
	_, err := s.AddVisual(bad)
	var ie *InitializationError
	require.ErrorAs(t, err, &ie)
	assert.ErrorIs(t, err, visual.ErrDuplicateName)
	assert.Zero(t, s.Count())

	backend.FailNext(renderer.OpCompile, errors.New("no device"))
	_, err = s.AddPlot([]float32{0}, []float32{0})
	require.ErrorAs(t, err, &ie)
	assert.ErrorIs(t, err, renderer.ErrCompile)
	assert.Zero(t, s.Count())
	assert.Zero(t, backend.Live())

	_, err = s.AddPlot([]float32{0, 1}, []float32{0})
	require.ErrorAs(t, err, &ie)
}

func TestSceneSetViewPropagates(t *testing.T) {
	s, _ := newTestScene()
	h, err := s.AddPlot([]float32{0, 1}, []float32{0, 1})
	require.NoError(t, err)

	view := common.ViewTransform{Scale: [2]float32{2, 2}, Translation: [2]float32{0.1, 0.2}}
	require.NoError(t, s.SetView(view))
	assert.Equal(t, view, s.View())

	v, _ := s.Visual(h)
	scale, _ := v.Data(shader.UniformViewScale)
	assert.Equal(t, []float32{2, 2}, scale.Data)

	// visuals added later start from the current view
	h2, err := s.AddTexture(common.MustArray(make([]float32, 16), 4, 4))
	require.NoError(t, err)
	v2, _ := s.Visual(h2)
	translation, _ := v2.Data(shader.UniformViewTranslation)
	assert.Equal(t, []float32{0.1, 0.2}, translation.Data)
}

func TestSceneBounds(t *testing.T) {
	s, _ := newTestScene()
	_, ok := s.Bounds()
	assert.False(t, ok)

	_, err := s.AddPlot([]float32{0, 2}, []float32{-1, 1})
	require.NoError(t, err)
	_, err = s.AddPlot([]float32{-3, 0}, []float32{0, 5})
	require.NoError(t, err)

	b, ok := s.Bounds()
	require.True(t, ok)
	assert.Equal(t, common.Bounds{Min: [2]float32{-3, -1}, Max: [2]float32{2, 5}}, b)
}

func TestScenePaintManager(t *testing.T) {
	var added Handle
	pm := PaintManagerFunc(func(s Scene) error {
		h, err := s.AddTexture(common.MustArray(make([]float32, 64*4), 1, 64, 4), WithTexturePoints(-1, -0.1, 1, 0.1))
		added = h
		return err
	})
	s, _ := newTestScene(WithPaintManager(pm))
	require.NoError(t, s.Initialize())
	assert.NotZero(t, added)
	assert.Equal(t, 1, s.Count())
	assert.Error(t, s.Initialize())

	failing := PaintManagerFunc(func(Scene) error { return errors.New("no data") })
	s, _ = newTestScene(WithPaintManager(failing))
	assert.Error(t, s.Initialize())
}

func TestSceneInactiveSkipsRender(t *testing.T) {
	s, backend := newTestScene(WithActive(false))
	_, err := s.AddPlot([]float32{0}, []float32{0})
	require.NoError(t, err)
	require.NoError(t, s.Render())
	assert.Zero(t, backend.Frames())

	s.SetActive(true)
	require.NoError(t, s.Render())
	assert.Equal(t, 1, backend.Frames())
}

func TestSceneRenderDrawFailure(t *testing.T) {
	s, backend := newTestScene()
	_, err := s.AddPlot([]float32{0}, []float32{0})
	require.NoError(t, err)

	backend.FailNext(renderer.OpDraw, errors.New("lost"))
	err = s.Render()
	var be *renderer.BackendError
	assert.ErrorAs(t, err, &be)
	assert.Equal(t, 1, backend.Frames())
}

func TestSceneRelease(t *testing.T) {
	s, backend := newTestScene()
	h, err := s.AddPlot([]float32{0}, []float32{0})
	require.NoError(t, err)
	require.NoError(t, s.Release())
	assert.Zero(t, backend.Live())
	assert.ErrorIs(t, s.RemoveVisual(h), ErrUnknownHandle)
}
