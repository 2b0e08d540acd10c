package ui

import (
	"fmt"
	"sync"

	"github.com/hubastard/framekit/engine/core"
)

// MouseButton identifies the button of a click.
type MouseButton uint8

const (
	LeftClick MouseButton = iota
	RightClick
	MidClick
)

func (m MouseButton) String() string {
	switch m {
	case LeftClick:
		return "left"
	case RightClick:
		return "right"
	case MidClick:
		return "mid"
	}
	return fmt.Sprintf("MouseButton(%d)", uint8(m))
}

func clickOf(k core.MessageKind) (b MouseButton, down, ok bool) {
	switch k {
	case core.MsgLeftDown:
		return LeftClick, true, true
	case core.MsgLeftUp:
		return LeftClick, false, true
	case core.MsgRightDown:
		return RightClick, true, true
	case core.MsgRightUp:
		return RightClick, false, true
	case core.MsgMidDown:
		return MidClick, true, true
	case core.MsgMidUp:
		return MidClick, false, true
	}
	return 0, false, false
}

// ClickButton is a rectangular hotspot. It is a core.Drawable (invisible on
// its own) subscribed to the loop's per-tick message notification.
//
// A click is a press of ClickWith inside Rect followed by its release inside
// Rect without leaving in between. Hover and click notifications only fire
// while the button is active.
type ClickButton struct {
	Rect      core.Rect
	ClickWith MouseButton

	mu      sync.Mutex
	layer   int
	active  bool
	hover   bool
	pressed bool
	closed  bool

	host MessageHost
	sub  core.Subscription

	click    core.Observers[*ClickButton]
	mouseIn  core.Observers[*ClickButton]
	mouseOut core.Observers[*ClickButton]
	press    core.Observers[MouseButton]
	release  core.Observers[MouseButton]
}

// NewClickButton subscribes a new active button to h.
func NewClickButton(h MessageHost, r core.Rect) (*ClickButton, error) {
	if h == nil {
		return nil, fmt.Errorf("click button: host is nil: %w", core.ErrInvalidArgument)
	}
	b := &ClickButton{Rect: r, active: true, host: h}
	b.sub = h.OnMessage(b.handle)
	return b, nil
}

func (b *ClickButton) handle(msg core.Message) {
	if msg.Kind == core.MsgMouseMove {
		m := b.host.Input().Mouse()
		was, now := b.Rect.Contains(m.Previous), b.Rect.Contains(m.Position)
		if was != now {
			b.setHover(now)
		}
	}
	if btn, down, ok := clickOf(msg.Kind); ok {
		if down {
			b.clickDown(btn)
		} else {
			b.clickUp(btn)
		}
	}
}

func (b *ClickButton) setHover(in bool) {
	b.mu.Lock()
	b.hover = in
	if !in {
		b.pressed = false
	}
	active := b.active
	b.mu.Unlock()
	if !active {
		return
	}
	if in {
		b.mouseIn.Notify(b)
	} else {
		b.mouseOut.Notify(b)
	}
}

func (b *ClickButton) clickDown(btn MouseButton) {
	b.mu.Lock()
	if b.hover && btn == b.ClickWith {
		b.pressed = true
	}
	b.mu.Unlock()
	b.press.Notify(btn)
}

func (b *ClickButton) clickUp(btn MouseButton) {
	b.mu.Lock()
	fire := b.hover && btn == b.ClickWith && b.pressed
	if fire {
		b.pressed = false
	}
	active := b.active
	b.mu.Unlock()
	b.release.Notify(btn)
	if fire && active {
		b.click.Notify(b)
	}
}

// Contains reports whether p is inside the button, edges included.
func (b *ClickButton) Contains(p core.Point) bool { return b.Rect.Contains(p) }

// Hovered reports whether the mouse is over the button.
func (b *ClickButton) Hovered() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hover
}

// Pressed reports whether a click is in progress.
func (b *ClickButton) Pressed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pressed
}

func (b *ClickButton) OnClick(fn func(*ClickButton)) core.Subscription    { return b.click.Add(fn) }
func (b *ClickButton) OnMouseIn(fn func(*ClickButton)) core.Subscription  { return b.mouseIn.Add(fn) }
func (b *ClickButton) OnMouseOut(fn func(*ClickButton)) core.Subscription { return b.mouseOut.Add(fn) }

// OnPress and OnRelease see every mouse button message, wherever the cursor is.
func (b *ClickButton) OnPress(fn func(MouseButton)) core.Subscription   { return b.press.Add(fn) }
func (b *ClickButton) OnRelease(fn func(MouseButton)) core.Subscription { return b.release.Add(fn) }

// ---------- core.Drawable ----------

func (b *ClickButton) Layer() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.layer
}

// SetLayer takes effect on the next promotion or RefreshOrdering.
func (b *ClickButton) SetLayer(l int) {
	b.mu.Lock()
	b.layer = l
	b.mu.Unlock()
}

func (b *ClickButton) Active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

func (b *ClickButton) SetActive(on bool) {
	b.mu.Lock()
	b.active = on
	b.mu.Unlock()
}

func (b *ClickButton) Start()  {}
func (b *ClickButton) Render() {}

// ---------- Button ----------

func (b *ClickButton) Permissions() Permissions { return CanGetFrame | CanClick }
func (b *ClickButton) Down() (bool, error)      { return false, unsupported("down") }
func (b *ClickButton) Up() (bool, error)        { return false, unsupported("up") }
func (b *ClickButton) State() (bool, error)     { return false, unsupported("state") }
func (b *ClickButton) Power() (float32, error)  { return 0, unsupported("power") }
func (b *ClickButton) Frame() (uint64, error)   { return hostFrame(b.host) }

// Close unsubscribes from the loop and drops every observer. The registry
// calls it on shutdown.
func (b *ClickButton) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	b.sub.Unsubscribe()
	b.click.Clear()
	b.mouseIn.Clear()
	b.mouseOut.Clear()
	b.press.Clear()
	b.release.Clear()
	return nil
}
