package engine

import (
	"context"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-viz/common"
	"github.com/Carmen-Shannon/oxy-viz/engine/interaction"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viz/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlatform struct {
	open    bool
	pending [][]interaction.RawEvent
}

func (p *fakePlatform) ProcessMessages() bool {
	return p.open
}

func (p *fakePlatform) PollEvents() []interaction.RawEvent {
	if len(p.pending) == 0 {
		return nil
	}
	out := p.pending[0]
	p.pending = p.pending[1:]
	return out
}

func newTestEngine(t *testing.T, opts ...EngineBuilderOption) (Engine, *renderer.HeadlessBackend) {
	t.Helper()
	backend := renderer.NewHeadlessBackend()
	s := scene.NewScene("test", backend)
	_, err := s.AddPlot([]float32{-1, 0, 1}, []float32{0, 1, 0})
	require.NoError(t, err)
	e, err := NewEngine(s, opts...)
	require.NoError(t, err)
	return e, backend
}

func TestNewEngine_PanicsOnNilScene(t *testing.T) {
	assert.Panics(t, func() { _, _ = NewEngine(nil) })
}

func TestNewEngine_InvalidManagerOptions(t *testing.T) {
	s := scene.NewScene("test", renderer.NewHeadlessBackend())
	_, err := NewEngine(s, WithManagerOptions(interaction.WithZoomLimits(2, 1)))
	assert.Error(t, err)
}

func TestStep_HeadlessRendersEveryIteration(t *testing.T) {
	e, backend := newTestEngine(t)
	assert.True(t, e.Step())
	assert.True(t, e.Step())
	assert.Equal(t, 2, backend.Frames())
	assert.Len(t, backend.LastFrame(), 1)
}

func TestStep_EventsReachManagerBeforeRender(t *testing.T) {
	p := &fakePlatform{open: true, pending: [][]interaction.RawEvent{{
		{Kind: interaction.EventResize, Size: [2]int{800, 600}},
		{Kind: interaction.EventKeyDown, Key: common.KeyRight},
	}}}
	e, backend := newTestEngine(t, WithPlatform(p))

	require.True(t, e.Step())
	w, h := backend.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	vw, vh := e.Manager().Viewport()
	assert.Equal(t, 800, vw)
	assert.Equal(t, 600, vh)
	assert.NotEqual(t, common.IdentityView(), e.Scene().View())
	assert.Equal(t, e.Manager().View(), e.Scene().View())
}

func TestStep_StopsWhenPlatformCloses(t *testing.T) {
	p := &fakePlatform{open: false}
	e, backend := newTestEngine(t, WithPlatform(p))
	assert.False(t, e.Step())
	assert.Equal(t, 0, backend.Frames())
}

func TestStep_StopsAfterQuit(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Quit()
	e.Quit()
	assert.False(t, e.Step())
}

func TestStep_FrameLimitSkipsEarlyRenders(t *testing.T) {
	e, backend := newTestEngine(t, WithRenderFrameLimit(1))
	e.Step()
	e.Step()
	e.Step()
	assert.Equal(t, 1, backend.Frames())
}

func TestStep_TickCallbackRunsAtTickRate(t *testing.T) {
	ticks := 0
	var dt float32
	e, _ := newTestEngine(t, WithTickRate(1000), WithTickCallback(func(d float32) {
		ticks++
		dt = d
	}))
	e.Step()
	time.Sleep(3 * time.Millisecond)
	e.Step()
	assert.GreaterOrEqual(t, ticks, 1)
	assert.LessOrEqual(t, ticks, 4)
	assert.InDelta(t, 0.001, dt, 1e-6)
}

func TestRun_CancelledContextReleasesScene(t *testing.T) {
	e, backend := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	frames := 0
	e.SetTickCallback(func(float32) {
		frames++
		if frames >= 2 {
			cancel()
		}
	})
	e.SetTickRate(10000)

	err := e.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, e.Scene().Count())
	assert.Equal(t, 0, backend.Live())
}

func TestRun_ReturnsNilWhenWindowCloses(t *testing.T) {
	p := &fakePlatform{open: false}
	e, _ := newTestEngine(t, WithPlatform(p))
	assert.NoError(t, e.Run(context.Background()))
}

func TestRun_InitializationError(t *testing.T) {
	s := scene.NewScene("test", renderer.NewHeadlessBackend())
	require.NoError(t, s.Initialize())
	e, err := NewEngine(s)
	require.NoError(t, err)
	assert.Error(t, e.Run(context.Background()))
}
