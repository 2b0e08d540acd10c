package platform

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/hubastard/framekit/engine/colors"
	"github.com/hubastard/framekit/engine/core"
	glbackend "github.com/hubastard/framekit/engine/gfx/gl"
	"go.uber.org/zap"
)

// GLFWWindow is a desktop core.Surface and core.MessageSource. GLFW
// callbacks are translated into normalized messages and queued; TryGetMessage
// pumps the GLFW event loop only when the queue is empty.
//
// Every method must be called from the main goroutine, locked to its OS
// thread (see runtime.LockOSThread).
type GLFWWindow struct {
	title string
	vsync bool
	log   *zap.Logger

	w  *glfw.Window
	r  *glbackend.Renderer
	q  queue
	mu sync.Mutex // guards onClose

	buttons core.ButtonMask
	cursor  core.Point
	onClose func()
}

func NewGLFWWindow(title string, vsync bool, log *zap.Logger) *GLFWWindow {
	if log == nil {
		log = zap.NewNop()
	}
	return &GLFWWindow{title: title, vsync: vsync, log: log}
}

// OnClose sets the function called when the user closes the window.
func (g *GLFWWindow) OnClose(fn func()) {
	g.mu.Lock()
	g.onClose = fn
	g.mu.Unlock()
}

func (g *GLFWWindow) Open(width, height int) error {
	if g.w != nil {
		return fmt.Errorf("glfw window: %w", core.ErrAlreadyStarted)
	}
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}

	// GL 3.2+ core profile (Mac requires forward-compatible flag).
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.Samples, 0)

	win, err := glfw.CreateWindow(width, height, g.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	if g.vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return fmt.Errorf("gl init: %w", err)
	}
	g.log.Info("window opened",
		zap.String("gl", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.Int("width", width),
		zap.Int("height", height))

	g.w = win
	g.installCallbacks()
	return nil
}

func (g *GLFWWindow) installCallbacks() {
	win := g.w
	win.SetCloseCallback(func(*glfw.Window) {
		g.mu.Lock()
		fn := g.onClose
		g.mu.Unlock()
		if fn != nil {
			fn()
		}
	})
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		if g.r != nil {
			g.r.Viewport(w, h)
		}
		g.q.push(core.Message{Kind: core.MsgSize, LParam: packXY(w, h)})
	})
	win.SetPosCallback(func(_ *glfw.Window, x, y int) {
		g.q.push(core.Message{Kind: core.MsgMove, LParam: packXY(x, y)})
	})
	win.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		var active int64
		if focused {
			active = 1
		}
		g.q.push(core.Message{Kind: core.MsgActivate, WParam: active})
	})
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		g.cursor = core.Point{X: int(x), Y: int(y)}
		g.q.push(g.mouseMessage(core.MsgMouseMove))
	})
	win.SetMouseButtonCallback(func(_ *glfw.Window, b glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		kind, mask, ok := translateButton(b, action)
		if !ok {
			return
		}
		if action == glfw.Press {
			g.buttons |= mask
		} else {
			g.buttons &^= mask
		}
		g.q.push(g.mouseMessage(kind))
	})
	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		m := g.mouseMessage(core.MsgWheel)
		m.Wheel = int(yoff * core.WheelDelta)
		g.q.push(m)
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		m, ok := translateKey(key, scancode, action)
		if !ok {
			return
		}
		g.setModifiers(mods)
		g.q.push(m)
	})
	win.SetCharCallback(func(_ *glfw.Window, r rune) {
		g.q.push(core.Message{Kind: core.MsgChar, Char: r})
	})
}

func (g *GLFWWindow) mouseMessage(kind core.MessageKind) core.Message {
	return core.Message{Kind: kind, X: g.cursor.X, Y: g.cursor.Y, Buttons: g.buttons}
}

func (g *GLFWWindow) setModifiers(mods glfw.ModifierKey) {
	g.buttons &^= core.MaskShift | core.MaskCtrl
	if mods&glfw.ModShift != 0 {
		g.buttons |= core.MaskShift
	}
	if mods&glfw.ModControl != 0 {
		g.buttons |= core.MaskCtrl
	}
}

func (g *GLFWWindow) Resize(width, height int) error {
	if g.w == nil {
		return fmt.Errorf("glfw window: %w", core.ErrWindowNotInitialized)
	}
	g.w.SetSize(width, height)
	return nil
}

func (g *GLFWWindow) Close() error {
	if g.w == nil {
		return nil
	}
	if g.r != nil {
		_ = g.r.Release()
		g.r = nil
	}
	g.w.Destroy()
	g.w = nil
	glfw.Terminate()
	g.log.Info("window closed")
	return nil
}

func (g *GLFWWindow) IsOpen() bool { return g.w != nil }

func (g *GLFWWindow) Width() int {
	if g.w == nil {
		return 0
	}
	w, _ := g.w.GetFramebufferSize()
	return w
}

func (g *GLFWWindow) Height() int {
	if g.w == nil {
		return 0
	}
	_, h := g.w.GetFramebufferSize()
	return h
}

func (g *GLFWWindow) Clear(c colors.Color) {
	if g.r != nil {
		g.r.Clear(c)
	}
}

func (g *GLFWWindow) Present() {
	if g.w != nil {
		g.w.SwapBuffers()
	}
}

// PresentRegion swaps the whole frame; core GL has no partial swap.
func (g *GLFWWindow) PresentRegion(core.Rect) { g.Present() }

// GraphicsContext builds a fresh renderer for the current framebuffer.
func (g *GLFWWindow) GraphicsContext() (core.GraphicsContext, error) {
	if g.w == nil {
		return nil, fmt.Errorf("glfw window: %w", core.ErrWindowNotInitialized)
	}
	r, err := glbackend.New(g.w.GetFramebufferSize())
	if err != nil {
		return nil, err
	}
	g.r = r
	return r, nil
}

// TryGetMessage implements core.MessageSource.
func (g *GLFWWindow) TryGetMessage(filter core.MessageFilter, remove bool) (core.Message, bool) {
	if g.w == nil {
		return core.Message{}, false
	}
	if g.q.len() == 0 {
		glfw.PollEvents()
	}
	return g.q.take(filter, remove)
}

// ---------- painter ----------

func (g *GLFWWindow) FillRect(r core.Rect, c colors.Color) {
	if g.r != nil {
		g.r.FillRect(r, c)
	}
}

func (g *GLFWWindow) StrokeRect(r core.Rect, c colors.Color) {
	if g.r != nil {
		g.r.StrokeRect(r, c)
	}
}

func (g *GLFWWindow) DrawText(p core.Point, s string, c colors.Color) {
	if g.r != nil {
		g.r.DrawText(p, s, c)
	}
}

// SetClip limits painting to r through the GL scissor; a zero rect resets it.
func (g *GLFWWindow) SetClip(r core.Rect) {
	if g.r != nil {
		g.r.Scissor(r)
	}
}

// ---------- translation ----------

func packXY(x, y int) int64 { return int64(uint16(y))<<16 | int64(uint16(x)) }

func translateButton(b glfw.MouseButton, action glfw.Action) (core.MessageKind, core.ButtonMask, bool) {
	down := action == glfw.Press
	switch b {
	case glfw.MouseButtonLeft:
		if down {
			return core.MsgLeftDown, core.MaskLeft, true
		}
		return core.MsgLeftUp, core.MaskLeft, true
	case glfw.MouseButtonRight:
		if down {
			return core.MsgRightDown, core.MaskRight, true
		}
		return core.MsgRightUp, core.MaskRight, true
	case glfw.MouseButtonMiddle:
		if down {
			return core.MsgMidDown, core.MaskMid, true
		}
		return core.MsgMidUp, core.MaskMid, true
	}
	return core.MsgNone, 0, false
}

// modifierScan gives the generic code, set-1 scan code and extended flag of
// each GLFW modifier so the tracker can recover the side.
var modifierScan = map[glfw.Key]struct {
	key      core.Key
	scan     uint8
	extended bool
}{
	glfw.KeyLeftShift:    {core.KeyShift, core.ScanLeftShift, false},
	glfw.KeyRightShift:   {core.KeyShift, core.ScanRightShift, false},
	glfw.KeyLeftControl:  {core.KeyCtrl, core.ScanCtrl, false},
	glfw.KeyRightControl: {core.KeyCtrl, core.ScanCtrl, true},
	glfw.KeyLeftAlt:      {core.KeyAlt, core.ScanAlt, false},
	glfw.KeyRightAlt:     {core.KeyAlt, core.ScanAlt, true},
}

func translateKey(key glfw.Key, scancode int, action glfw.Action) (core.Message, bool) {
	kind := core.MsgKeyDown
	if action == glfw.Release {
		kind = core.MsgKeyUp
	}
	release := action == glfw.Release
	if m, ok := modifierScan[key]; ok {
		return core.Message{
			Kind:     kind,
			Key:      m.key,
			ScanCode: m.scan,
			Extended: core.ExtendedParam(m.key, m.scan, m.extended, release),
		}, true
	}
	k, ok := glfwKeys[key]
	if !ok {
		switch {
		case key >= glfw.KeyA && key <= glfw.KeyZ:
			k, ok = core.KeyA+core.Key(key-glfw.KeyA), true
		case key >= glfw.Key0 && key <= glfw.Key9:
			k, ok = core.Key0+core.Key(key-glfw.Key0), true
		case key >= glfw.KeyF1 && key <= glfw.KeyF24:
			k, ok = core.KeyF1+core.Key(key-glfw.KeyF1), true
		case key >= glfw.KeyKP0 && key <= glfw.KeyKP9:
			k, ok = core.KeyNumpad0+core.Key(key-glfw.KeyKP0), true
		}
	}
	if !ok {
		return core.Message{}, false
	}
	scan := uint8(scancode)
	return core.Message{
		Kind:     kind,
		Key:      k,
		ScanCode: scan,
		Extended: core.ExtendedParam(k, scan, false, release),
	}, true
}

var glfwKeys = map[glfw.Key]core.Key{
	glfw.KeyEscape:       core.KeyEscape,
	glfw.KeyEnter:        core.KeyEnter,
	glfw.KeyTab:          core.KeyTab,
	glfw.KeyBackspace:    core.KeyBackspace,
	glfw.KeyInsert:       core.KeyInsert,
	glfw.KeyDelete:       core.KeyDelete,
	glfw.KeyRight:        core.KeyRight,
	glfw.KeyLeft:         core.KeyLeft,
	glfw.KeyDown:         core.KeyDown,
	glfw.KeyUp:           core.KeyUp,
	glfw.KeyPageUp:       core.KeyPageUp,
	glfw.KeyPageDown:     core.KeyPageDown,
	glfw.KeyHome:         core.KeyHome,
	glfw.KeyEnd:          core.KeyEnd,
	glfw.KeyCapsLock:     core.KeyCapsLock,
	glfw.KeyScrollLock:   core.KeyScrollLck,
	glfw.KeyNumLock:      core.KeyNumLock,
	glfw.KeyPause:        core.KeyPause,
	glfw.KeySpace:        core.KeySpace,
	glfw.KeyApostrophe:   core.KeyApostrophe,
	glfw.KeyComma:        core.KeyComma,
	glfw.KeyMinus:        core.KeyMinus,
	glfw.KeyPeriod:       core.KeyPeriod,
	glfw.KeySlash:        core.KeySlash,
	glfw.KeySemicolon:    core.KeySemicolon,
	glfw.KeyEqual:        core.KeyEqual,
	glfw.KeyLeftBracket:  core.KeyLeftBracket,
	glfw.KeyBackslash:    core.KeyBackslash,
	glfw.KeyRightBracket: core.KeyRightBracket,
	glfw.KeyGraveAccent:  core.KeyGraveAccent,
	glfw.KeyKPDecimal:    core.KeyDecimal,
	glfw.KeyKPDivide:     core.KeyDivide,
	glfw.KeyKPMultiply:   core.KeyMultiply,
	glfw.KeyKPSubtract:   core.KeySubtract,
	glfw.KeyKPAdd:        core.KeyAdd,
	glfw.KeyKPEnter:      core.KeyEnter,
	glfw.KeyLeftSuper:    core.KeyLeftWin,
	glfw.KeyRightSuper:   core.KeyRightWin,
	glfw.KeyMenu:         core.KeyApps,
}
