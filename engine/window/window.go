package window

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-viz/engine/interaction"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
)

// ClientAPI selects the graphics API the window is prepared for.
type ClientAPI int

const (
	// ClientAPINone creates no context; WebGPU draws through the surface descriptor.
	ClientAPINone ClientAPI = iota

	// ClientAPIOpenGL creates an OpenGL 4.1 core context for the GL backend.
	ClientAPIOpenGL
)

// Window provides the platform window: it is the EventSource of raw device events,
// the drawing surface of the renderer and, for the OpenGL backend, the GL context.
type Window interface {
	interaction.EventSource
	renderer.Surface
	renderer.GLContext

	// IsRunning returns true if the window is still open.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// ProcessMessages polls the platform for pending events without blocking and
	// queues them for PollEvents.
	//
	// Returns:
	//   - bool: false once the window has been asked to close
	ProcessMessages() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if the window was never created
	Close() error

	// SetTitle replaces the window title.
	SetTitle(title string)
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title string

	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int
	width     int
	height    int
	resizable bool

	clientAPI   ClientAPI
	escCloses   bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	events *eventQueue
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
//   - error: an error if the platform window cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:     "oxy-viz",
		maxWidth:  -1,
		maxHeight: -1,
		minWidth:  200,
		minHeight: 200,
		width:     1280,
		height:    720,
		resizable: true,
		escCloses: true,
		events:    newEventQueue(),
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) PollEvents() []interaction.RawEvent {
	return w.events.drain()
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) MakeContextCurrent() {
	platformMakeContextCurrent(w)
}

func (w *engineWindow) SwapBuffers() {
	platformSwapBuffers(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) ProcessMessages() bool {
	return platformProcessMessages(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) SetTitle(title string) {
	w.title = title
	platformSetTitle(w, title)
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// eventQueue buffers raw events between platform callbacks and PollEvents.
type eventQueue struct {
	mu     sync.Mutex
	events []interaction.RawEvent
}

func newEventQueue() *eventQueue {
	return &eventQueue{}
}

func (q *eventQueue) push(ev interaction.RawEvent) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

// drain returns the queued events oldest first and empties the queue.
func (q *eventQueue) drain() []interaction.RawEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.events
	q.events = nil
	return out
}
