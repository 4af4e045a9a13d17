package window

import (
	"fmt"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-viz/common"
	"github.com/Carmen-Shannon/oxy-viz/engine/interaction"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	parent  *engineWindow
	window  *glfw.Window
	running bool
}

// newPlatformWindow creates the GLFW window, registers the input callbacks that
// feed the event queue and stores it as the internal window.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	switch w.clientAPI {
	case ClientAPIOpenGL:
		// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints_ctx
		glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
		glfw.WindowHint(glfw.ContextVersionMajor, 4)
		glfw.WindowHint(glfw.ContextVersionMinor, 1)
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	default:
		glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	}
	if w.resizable {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Resizable, glfw.False)
	}

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.SetSizeLimits(sizeLimit(w.minWidth), sizeLimit(w.minHeight), sizeLimit(w.maxWidth), sizeLimit(w.maxHeight))

	gw := &glfwWindow{
		parent:  w,
		window:  win,
		running: true,
	}
	w.internalWindow = gw

	cursor := func() [2]float32 {
		x, y := win.GetCursorPos()
		return [2]float32{float32(x), float32(y)}
	}

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetKeyCallback
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		if w.escCloses && key == glfw.KeyEscape && action == glfw.Press {
			gw.running = false
			win.SetShouldClose(true)
			return
		}
		ev := interaction.RawEvent{
			Key:       common.Key(key),
			Modifiers: common.Modifier(mods).Normalize(),
			Position:  cursor(),
			Timestamp: time.Now(),
		}
		switch action {
		case glfw.Press, glfw.Repeat:
			ev.Kind = interaction.EventKeyDown
		case glfw.Release:
			ev.Kind = interaction.EventKeyUp
		default:
			return
		}
		w.events.push(ev)
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetScrollCallback
	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		w.events.push(interaction.RawEvent{
			Kind:      interaction.EventWheel,
			Modifiers: currentModifiers(win),
			Position:  cursor(),
			Delta:     [2]float32{float32(xoff), float32(yoff)},
			Timestamp: time.Now(),
		})
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetMouseButtonCallback
	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		b := mouseButton(button)
		if b == common.ButtonNone {
			return
		}
		ev := interaction.RawEvent{
			Button:    b,
			Modifiers: common.Modifier(mods).Normalize(),
			Position:  cursor(),
			Timestamp: time.Now(),
		}
		switch action {
		case glfw.Press:
			ev.Kind = interaction.EventPointerPress
		case glfw.Release:
			ev.Kind = interaction.EventPointerRelease
		default:
			return
		}
		w.events.push(ev)
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetCursorPosCallback
	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		w.events.push(interaction.RawEvent{
			Kind:      interaction.EventPointerMove,
			Modifiers: currentModifiers(win),
			Position:  [2]float32{float32(xpos), float32(ypos)},
			Timestamp: time.Now(),
		})
	})

	// Use framebuffer size callback for pixel-accurate resize events.
	// On high-DPI displays (e.g., macOS Retina), framebuffer size differs from window size.
	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetFramebufferSizeCallback
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width = width
		w.height = height
		w.events.push(interaction.RawEvent{
			Kind:      interaction.EventResize,
			Size:      [2]int{width, height},
			Timestamp: time.Now(),
		})
	})

	fbWidth, fbHeight := win.GetFramebufferSize()
	w.width = fbWidth
	w.height = fbHeight

	return nil
}

// sizeLimit maps a negative limit to glfw.DontCare.
func sizeLimit(v int) int {
	if v < 0 {
		return glfw.DontCare
	}
	return v
}

// mouseButton maps GLFW buttons onto common.MouseButton; extra buttons map to ButtonNone.
func mouseButton(b glfw.MouseButton) common.MouseButton {
	switch b {
	case glfw.MouseButtonLeft:
		return common.ButtonLeft
	case glfw.MouseButtonRight:
		return common.ButtonRight
	case glfw.MouseButtonMiddle:
		return common.ButtonMiddle
	default:
		return common.ButtonNone
	}
}

// currentModifiers reads the held modifiers for callbacks that do not receive them.
func currentModifiers(win *glfw.Window) common.Modifier {
	var m common.Modifier
	if win.GetKey(glfw.KeyLeftShift) == glfw.Press || win.GetKey(glfw.KeyRightShift) == glfw.Press {
		m |= common.ModShift
	}
	if win.GetKey(glfw.KeyLeftControl) == glfw.Press || win.GetKey(glfw.KeyRightControl) == glfw.Press {
		m |= common.ModControl
	}
	if win.GetKey(glfw.KeyLeftAlt) == glfw.Press || win.GetKey(glfw.KeyRightAlt) == glfw.Press {
		m |= common.ModAlt
	}
	if win.GetKey(glfw.KeyLeftSuper) == glfw.Press || win.GetKey(glfw.KeyRightSuper) == glfw.Press {
		m |= common.ModSuper
	}
	return m
}

// platformGetSurfaceDescriptor creates a platform-appropriate wgpu.SurfaceDescriptor from the GLFW window.
// Uses the wgpuglfw bridge package which has per-platform implementations (Windows, X11, Wayland, macOS).
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

func platformMakeContextCurrent(w *engineWindow) {
	if gw, ok := w.internalWindow.(*glfwWindow); ok && w.clientAPI == ClientAPIOpenGL {
		gw.window.MakeContextCurrent()
	}
}

func platformSwapBuffers(w *engineWindow) {
	if gw, ok := w.internalWindow.(*glfwWindow); ok && w.clientAPI == ClientAPIOpenGL {
		gw.window.SwapBuffers()
	}
}

func platformSetTitle(w *engineWindow, title string) {
	if gw, ok := w.internalWindow.(*glfwWindow); ok {
		gw.window.SetTitle(title)
	}
}

// platformIsRunningCheck returns whether the GLFW window is still active.
// Returns false if the internal window is nil, the running flag is cleared, or GLFW reports ShouldClose.
func platformIsRunningCheck(w *engineWindow) bool {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok {
		return false
	}
	return gw.running && !gw.window.ShouldClose()
}

// platformCloseWindow destroys the GLFW window and terminates the GLFW library.
func platformCloseWindow(w *engineWindow) error {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok {
		return fmt.Errorf("window: not initialized")
	}
	gw.running = false
	gw.window.SetShouldClose(true)
	gw.window.Destroy()
	w.internalWindow = nil
	glfw.Terminate()
	return nil
}

// platformProcessMessages polls GLFW for pending events without blocking.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#PollEvents
func platformProcessMessages(w *engineWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}
