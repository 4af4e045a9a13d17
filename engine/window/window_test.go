package window

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-viz/engine/interaction"
	"github.com/stretchr/testify/assert"
)

func TestEventQueue_DrainPreservesOrder(t *testing.T) {
	q := newEventQueue()
	q.push(interaction.RawEvent{Kind: interaction.EventPointerPress})
	q.push(interaction.RawEvent{Kind: interaction.EventPointerMove})
	q.push(interaction.RawEvent{Kind: interaction.EventPointerRelease})

	got := q.drain()
	assert.Len(t, got, 3)
	assert.Equal(t, interaction.EventPointerPress, got[0].Kind)
	assert.Equal(t, interaction.EventPointerMove, got[1].Kind)
	assert.Equal(t, interaction.EventPointerRelease, got[2].Kind)
	assert.Empty(t, q.drain())
}

func TestEventQueue_ConcurrentPush(t *testing.T) {
	q := newEventQueue()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.push(interaction.RawEvent{Kind: interaction.EventWheel})
			}
		}()
	}
	wg.Wait()
	assert.Len(t, q.drain(), 800)
}

func TestWindowAccessors_WithoutPlatformWindow(t *testing.T) {
	w := &engineWindow{width: 640, height: 480, events: newEventQueue()}
	WithTitle("plot")(w)
	WithResizable(false)(w)
	WithClientAPI(ClientAPIOpenGL)(w)
	WithMinSize(100, -1)(w)

	assert.Equal(t, "plot", w.title)
	assert.False(t, w.resizable)
	assert.Equal(t, ClientAPIOpenGL, w.clientAPI)
	assert.Equal(t, 100, sizeLimit(w.minWidth))
	assert.Equal(t, 640, w.Width())
	assert.Equal(t, 480, w.Height())
	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
	assert.Empty(t, w.PollEvents())
}
