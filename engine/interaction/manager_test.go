package interaction

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-viz/common"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-viz/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, opts ...ManagerBuilderOption) (Manager, scene.Handle) {
	t.Helper()
	s := scene.NewScene("test", renderer.NewHeadlessBackend())
	h, err := s.AddPlot([]float32{-2, 2}, []float32{-1, 1})
	require.NoError(t, err)
	m, err := NewManager(s, append([]ManagerBuilderOption{WithViewport(200, 100)}, opts...)...)
	require.NoError(t, err)
	return m, h
}

func sceneScale(t *testing.T, m Manager, h scene.Handle) []float32 {
	t.Helper()
	v, ok := m.Scene().Visual(h)
	require.True(t, ok)
	data, ok := v.Data(shader.UniformViewScale)
	require.True(t, ok)
	return data.Data
}

func TestManagerPan(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.HandleAction(Action{Kind: ActionPan, Param: PanParam{DX: 50, DY: 25}}))

	view := m.View()
	assert.InDelta(t, 0.5, view.Translation[0], 1e-6)
	assert.InDelta(t, -0.5, view.Translation[1], 1e-6)
	assert.Equal(t, view, m.Scene().View())
}

func TestManagerZoomKeepsAnchor(t *testing.T) {
	m, h := newTestManager(t)
	anchor := [2]float32{150, 25}
	ndc := common.ScreenToNDC(anchor[0], anchor[1], 200, 100)
	before, ok := m.View().Unproject(ndc)
	require.True(t, ok)

	require.NoError(t, m.HandleAction(Action{Kind: ActionZoom, Param: ZoomParam{Amount: 1, Anchor: anchor, HasAnchor: true}}))
	view := m.View()
	assert.InDelta(t, 2.71828, view.Scale[0], 1e-4)

	after, ok := view.Unproject(ndc)
	require.True(t, ok)
	assert.InDelta(t, before[0], after[0], 1e-5)
	assert.InDelta(t, before[1], after[1], 1e-5)
	assert.InDelta(t, view.Scale[0], sceneScale(t, m, h)[0], 1e-6)
}

func TestManagerZoomLimits(t *testing.T) {
	m, _ := newTestManager(t, WithZoomLimits(0.5, 2))
	require.NoError(t, m.HandleAction(Action{Kind: ActionZoom, Param: ZoomParam{Amount: 10}}))
	assert.Equal(t, [2]float32{2, 2}, m.View().Scale)
	require.NoError(t, m.HandleAction(Action{Kind: ActionZoom, Param: ZoomParam{Amount: -10}}))
	assert.Equal(t, [2]float32{0.5, 0.5}, m.View().Scale)

	_, err := NewManager(m.Scene(), WithZoomLimits(2, 1))
	assert.Error(t, err)
}

func TestManagerRotateAndReset(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.HandleAction(Action{Kind: ActionRotate, Param: RotateParam{Angle: 0.5}}))
	assert.InDelta(t, 0.5, m.View().Rotation, 1e-6)

	require.NoError(t, m.HandleAction(Action{Kind: ActionReset}))
	assert.Equal(t, common.IdentityView(), m.View())
}

func TestManagerFitOnReset(t *testing.T) {
	m, _ := newTestManager(t, WithFitOnReset(true))
	require.NoError(t, m.HandleAction(Action{Kind: ActionReset}))
	view := m.View()
	// bounds are [-2, 2] x [-1, 1]
	assert.InDelta(t, 0.95/2, view.Scale[0], 1e-6)
	assert.InDelta(t, 0.95, view.Scale[1], 1e-6)
	assert.InDelta(t, 0, view.Translation[0], 1e-6)
}

func TestManagerSelectHook(t *testing.T) {
	var got [2]float32
	calls := 0
	hook := func(_ Manager, data [2]float32, _ Action) {
		got = data
		calls++
	}
	m, _ := newTestManager(t, WithSelectHook(hook))
	require.NoError(t, m.SetView(common.ViewTransform{Scale: [2]float32{2, 2}}))

	// the window center maps to the data origin, the top-right corner to (0.5, 0.5)
	require.NoError(t, m.HandleAction(Action{Kind: ActionSelect, Param: SelectParam{Position: [2]float32{200, 0}}}))
	assert.Equal(t, 1, calls)
	assert.InDelta(t, 0.5, got[0], 1e-6)
	assert.InDelta(t, 0.5, got[1], 1e-6)
}

func TestManagerExtensionHook(t *testing.T) {
	toggled := 0
	handler := ExtensionHandlerFunc(func(m Manager, a Action) error {
		if a.Kind != testKindToggle {
			return nil
		}
		toggled++
		return nil
	})
	set, err := NewBindingSet(ExtensionsFirst, WithEntries(
		BindingEntry{Event: EventKeyDown, Key: common.KeySpace, Action: testKindToggle},
	))
	require.NoError(t, err)
	m, _ := newTestManager(t, WithBindingSet(set), WithExtensionHandler(handler))

	require.NoError(t, m.Process(spaceDown()))
	require.NoError(t, m.Process(spaceDown()))
	assert.Equal(t, 2, toggled)
}

func TestManagerExtensionErrorRestoresView(t *testing.T) {
	boom := errors.New("boom")
	handler := ExtensionHandlerFunc(func(m Manager, a Action) error {
		if err := m.SetView(common.ViewTransform{Scale: [2]float32{9, 9}}); err != nil {
			return err
		}
		return boom
	})
	m, h := newTestManager(t, WithExtensionHandler(handler))
	require.NoError(t, m.HandleAction(Action{Kind: ActionPan, Param: PanParam{DX: 100}}))
	before := m.View()

	err := m.HandleAction(Action{Kind: testKindA})
	assert.ErrorIs(t, err, boom)
	var ee *ExtensionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, testKindA, ee.Action.Kind)

	assert.Equal(t, before, m.View())
	assert.Equal(t, before, m.Scene().View())
	assert.Equal(t, before.Scale[:], sceneScale(t, m, h))
}

func TestManagerExtensionPanicRestoresView(t *testing.T) {
	handler := ExtensionHandlerFunc(func(m Manager, a Action) error {
		_ = m.SetView(common.ViewTransform{Scale: [2]float32{3, 3}})
		panic("hook exploded")
	})
	m, _ := newTestManager(t, WithExtensionHandler(handler))

	var err error
	assert.NotPanics(t, func() { err = m.HandleAction(Action{Kind: testKindB}) })
	var ee *ExtensionError
	require.ErrorAs(t, err, &ee)
	assert.Contains(t, err.Error(), "hook exploded")
	assert.Equal(t, common.IdentityView(), m.View())
}

func TestManagerUnhandledKindWithoutHook(t *testing.T) {
	m, _ := newTestManager(t)
	assert.NoError(t, m.HandleAction(Action{Kind: testKindA}))
	assert.Equal(t, common.IdentityView(), m.View())
}

func TestManagerProcessDragAndResize(t *testing.T) {
	m, _ := newTestManager(t, WithTranslatorOptions(WithDragThreshold(0)))
	require.NoError(t, m.Process(RawEvent{Kind: EventResize, Size: [2]int{400, 400}}))
	w, hgt := m.Viewport()
	assert.Equal(t, 400, w)
	assert.Equal(t, 400, hgt)

	t0 := time.Unix(0, 0)
	require.NoError(t, m.Process(press(100, 100, common.ButtonLeft, t0)))
	require.NoError(t, m.Process(move(200, 100, t0)))
	assert.InDelta(t, 0.5, m.View().Translation[0], 1e-6)
	require.NoError(t, m.Process(release(200, 100, common.ButtonLeft, t0)))

	require.NoError(t, m.Process(RawEvent{Kind: EventKeyDown, Key: common.KeyR}))
	assert.Equal(t, common.IdentityView(), m.View())
}
