package core

import "sync"

// WheelDelta is the raw wheel value of one notch.
const WheelDelta = 120

// NoChar is the typed-character sentinel for "nothing typed this tick".
const NoChar rune = -1

// keyState is the tri-state of one code. held persists across ticks,
// pressed/released only live for the tick the transition happened in.
type keyState struct {
	held     bool
	pressed  bool
	released bool
}

// ButtonState is the per-tick state of one mouse button.
type ButtonState struct {
	Held     bool
	Pressed  bool
	Released bool
}

// MouseState is a snapshot of the mouse for the current tick.
type MouseState struct {
	Position Point
	Previous Point
	Delta    Point
	// Wheel is the raw wheel delta, a multiple of WheelDelta.
	Wheel int
	// WheelNotches is Wheel / WheelDelta.
	WheelNotches int
	Left         ButtonState
	Mid          ButtonState
	Right        ButtonState
}

// InputQuery is the read side of the input tracker handed to game code.
type InputQuery interface {
	Held(k Key) bool
	Pressed(k Key) bool
	Released(k Key) bool
	FirstPressed() Key
	FirstReleased() Key
	AnyPressed() bool
	TypedChar() (rune, bool)
	Mouse() MouseState
}

// NoticeKind tags a notification produced while decoding a message.
type NoticeKind uint8

const (
	NoticeWindow NoticeKind = iota + 1
	NoticeKeyDown
	NoticeKeyUp
	NoticeChar
)

// Notice is one notification raised by Process. They are returned rather than
// dispatched so observers never run under the tracker lock.
type Notice struct {
	Kind   NoticeKind
	Key    KeyCode
	Char   rune
	Window WindowEvent
}

// Input tracks key, button and mouse state across ticks. It consumes exactly
// one normalized message per tick.
type Input struct {
	mu sync.RWMutex

	keys  [256]keyState
	mouse MouseState

	firstDown Key
	firstUp   Key
	anyDown   bool
	char      rune

	// resolve Shift/Ctrl/Alt to their left/right codes
	sided bool

	notices []Notice
}

func NewInput() *Input {
	return &Input{char: NoChar, notices: make([]Notice, 0, 2)}
}

// BeginFrame clears every transient flag. Held state survives.
func (in *Input) BeginFrame() {
	in.mu.Lock()
	defer in.mu.Unlock()
	for i := range in.keys {
		in.keys[i].pressed = false
		in.keys[i].released = false
	}
	m := &in.mouse
	m.Left.Pressed, m.Left.Released = false, false
	m.Mid.Pressed, m.Mid.Released = false, false
	m.Right.Pressed, m.Right.Released = false, false
	m.Delta = Point{}
	m.Wheel = 0
	m.WheelNotches = 0

	in.firstDown = KeyNone
	in.firstUp = KeyNone
	in.anyDown = false
	in.char = NoChar
}

// Process decodes one message and returns the notifications it raised, in
// the order they must be dispatched. The returned slice is reused by the next
// call.
func (in *Input) Process(msg Message) []Notice {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.notices = in.notices[:0]

	switch msg.Kind.Class() {
	case FilterKey:
		in.processKey(msg)
	case FilterMouse:
		in.processMouse(msg)
	case FilterChar:
		in.char = msg.Char
		in.notices = append(in.notices, Notice{Kind: NoticeChar, Char: msg.Char})
	case FilterWindow:
		in.notices = append(in.notices, Notice{
			Kind:   NoticeWindow,
			Window: WindowEvent{Kind: msg.Kind, WParam: msg.WParam, LParam: msg.LParam},
		})
	}
	return in.notices
}

func (in *Input) processKey(msg Message) {
	k := msg.Key
	if in.sided {
		side, release, ok := sideOf(msg.Extended)
		if ok {
			// Some platforms alias modifier releases into the key-down
			// stream; those must not register as presses.
			if msg.Kind == MsgKeyDown && release {
				return
			}
			k = side
		}
	}
	code := KeyCode{Key: k, ScanCode: msg.ScanCode}
	switch msg.Kind {
	case MsgKeyDown:
		in.press(k)
		in.notices = append(in.notices, Notice{Kind: NoticeKeyDown, Key: code})
	case MsgKeyUp:
		in.release(k)
		in.notices = append(in.notices, Notice{Kind: NoticeKeyUp, Key: code})
	}
}

func (in *Input) press(k Key) {
	s := &in.keys[k]
	if s.held {
		return
	}
	s.held = true
	s.pressed = true
	in.anyDown = true
	if in.firstDown == KeyNone {
		in.firstDown = k
	}
}

func (in *Input) release(k Key) {
	s := &in.keys[k]
	if !s.held {
		return
	}
	s.held = false
	s.released = true
	if in.firstUp == KeyNone {
		in.firstUp = k
	}
}

func (in *Input) processMouse(msg Message) {
	m := &in.mouse
	if msg.Kind == MsgWheel {
		m.Wheel = msg.Wheel
		m.WheelNotches = msg.Wheel / WheelDelta
	} else {
		m.Wheel = 0
		m.WheelNotches = 0
	}

	var (
		button Key
		down   bool
	)
	switch msg.Kind {
	case MsgMouseMove:
		prev := m.Position
		m.Position = msg.Position()
		m.Previous = prev
		m.Delta = m.Position.Sub(prev)
		return
	case MsgLeftDown:
		button, down = KeyLeftButton, true
	case MsgLeftUp:
		button = KeyLeftButton
	case MsgMidDown:
		button, down = KeyMidButton, true
	case MsgMidUp:
		button = KeyMidButton
	case MsgRightDown:
		button, down = KeyRightButton, true
	case MsgRightUp:
		button = KeyRightButton
	default:
		return
	}

	code := KeyCode{Key: button, ScanCode: msg.ScanCode}
	if down {
		in.press(button)
		in.notices = append(in.notices, Notice{Kind: NoticeKeyDown, Key: code})
	} else {
		in.release(button)
		in.notices = append(in.notices, Notice{Kind: NoticeKeyUp, Key: code})
	}
	in.syncButtons()
}

// syncButtons mirrors the button codes of the key table into the mouse snapshot.
func (in *Input) syncButtons() {
	conv := func(s keyState) ButtonState {
		return ButtonState{Held: s.held, Pressed: s.pressed, Released: s.released}
	}
	in.mouse.Left = conv(in.keys[KeyLeftButton])
	in.mouse.Mid = conv(in.keys[KeyMidButton])
	in.mouse.Right = conv(in.keys[KeyRightButton])
}

// SetModifierDisambiguation switches between generic and left/right modifier
// codes. The held state of the family going out of use is cleared so no key
// stays stuck across the switch.
func (in *Input) SetModifierDisambiguation(on bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if on {
		for _, k := range genericModifiers {
			in.keys[k].held = false
		}
	} else {
		for _, k := range sidedModifiers {
			in.keys[k].held = false
		}
	}
	in.sided = on
}

func (in *Input) ModifierDisambiguation() bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.sided
}

// Held reports whether k is currently down.
func (in *Input) Held(k Key) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.keys[k].held
}

// Pressed reports whether k went down during this tick.
func (in *Input) Pressed(k Key) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.keys[k].pressed
}

// Released reports whether k went up during this tick.
func (in *Input) Released(k Key) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.keys[k].released
}

// FirstPressed returns the first code pressed this tick or KeyNone.
func (in *Input) FirstPressed() Key {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.firstDown
}

// FirstReleased returns the first code released this tick or KeyNone.
func (in *Input) FirstReleased() Key {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.firstUp
}

// AnyPressed reports whether any code went down this tick.
func (in *Input) AnyPressed() bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.anyDown
}

// TypedChar returns the character typed this tick. When several character
// messages would arrive only the last is kept.
func (in *Input) TypedChar() (rune, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.char, in.char != NoChar
}

// Mouse returns a copy of the mouse state.
func (in *Input) Mouse() MouseState {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.mouse
}
