package core

// MessageKind tags a normalized backend message.
type MessageKind uint16

const (
	MsgNone MessageKind = 0

	// window class
	MsgMove     MessageKind = 0x003
	MsgSize     MessageKind = 0x005
	MsgActivate MessageKind = 0x006

	// key class
	MsgKeyDown MessageKind = 0x100
	MsgKeyUp   MessageKind = 0x101
	MsgChar    MessageKind = 0x102

	// mouse class
	MsgMouseMove   MessageKind = 0x200
	MsgLeftDown    MessageKind = 0x201
	MsgLeftUp      MessageKind = 0x202
	MsgLeftDouble  MessageKind = 0x203
	MsgRightDown   MessageKind = 0x204
	MsgRightUp     MessageKind = 0x205
	MsgRightDouble MessageKind = 0x206
	MsgMidDown     MessageKind = 0x207
	MsgMidUp       MessageKind = 0x208
	MsgMidDouble   MessageKind = 0x209
	MsgWheel       MessageKind = 0x20A
)

// MessageFilter selects message classes in TryGetMessage.
type MessageFilter uint8

const (
	FilterMouse  MessageFilter = 1 << 0
	FilterKey    MessageFilter = 1 << 1
	FilterChar   MessageFilter = 1 << 2
	FilterWindow MessageFilter = 1 << 3
	FilterAll    MessageFilter = 0xFF
)

// Class returns the filter bit a message kind belongs to, 0 for MsgNone.
func (k MessageKind) Class() MessageFilter {
	switch {
	case k == MsgKeyDown || k == MsgKeyUp:
		return FilterKey
	case k == MsgChar:
		return FilterChar
	case k >= MsgMouseMove && k <= MsgWheel:
		return FilterMouse
	case k == MsgMove || k == MsgSize || k == MsgActivate:
		return FilterWindow
	}
	return 0
}

// Accepts reports whether a message of kind k passes the filter.
func (f MessageFilter) Accepts(k MessageKind) bool { return f&k.Class() != 0 }

// ButtonMask is the button/modifier snapshot carried by mouse messages.
type ButtonMask uint8

const (
	MaskLeft  ButtonMask = 1 << 0
	MaskMid   ButtonMask = 1 << 1
	MaskRight ButtonMask = 1 << 2
	MaskShift ButtonMask = 1 << 3
	MaskCtrl  ButtonMask = 1 << 4
)

// Message is one normalized input/window message pulled from a MessageSource.
type Message struct {
	Kind     MessageKind
	Key      Key
	ScanCode uint8
	// Extended is the platform's auxiliary key parameter, see ExtendedParam.
	Extended uint32
	X, Y     int
	Wheel    int
	Buttons  ButtonMask
	Char     rune
	// WParam/LParam carry window sub-message payloads verbatim.
	WParam, LParam int64
}

// Position returns the mouse coordinates of the message.
func (m Message) Position() Point { return Point{X: m.X, Y: m.Y} }

// Extended parameter layout for key messages:
//
//	bits 0-7   virtual key
//	bits 8-15  scan code
//	bit  16    extended-key flag (right Ctrl/Alt)
//	bit  17    release transition
const (
	extendedKeyFlag = 1 << 16
	releaseFlag     = 1 << 17
)

// ExtendedParam encodes the auxiliary parameter a backend attaches to key
// messages so that generic modifiers can later be resolved to a side.
func ExtendedParam(k Key, scan uint8, extended, release bool) uint32 {
	v := uint32(k) | uint32(scan)<<8
	if extended {
		v |= extendedKeyFlag
	}
	if release {
		v |= releaseFlag
	}
	return v
}

// Scan codes of the modifier keys (set 1).
const (
	ScanLeftShift  uint8 = 0x2A
	ScanRightShift uint8 = 0x36
	ScanCtrl       uint8 = 0x1D
	ScanAlt        uint8 = 0x38
)

// sideOf resolves a generic modifier to its left/right code using the
// extended parameter. ok is false when the parameter names no modifier.
func sideOf(ext uint32) (k Key, release bool, ok bool) {
	vk := Key(ext & 0xFF)
	scan := uint8(ext >> 8)
	extended := ext&extendedKeyFlag != 0
	release = ext&releaseFlag != 0
	switch vk {
	case KeyShift:
		switch scan {
		case ScanLeftShift:
			return KeyLeftShift, release, true
		case ScanRightShift:
			return KeyRightShift, release, true
		}
	case KeyCtrl:
		if scan == ScanCtrl {
			if extended {
				return KeyRightCtrl, release, true
			}
			return KeyLeftCtrl, release, true
		}
	case KeyAlt:
		if scan == ScanAlt {
			if extended {
				return KeyRightAlt, release, true
			}
			return KeyLeftAlt, release, true
		}
	}
	return KeyNone, release, false
}

// WindowEvent is the payload of a window-class notification.
type WindowEvent struct {
	Kind           MessageKind
	WParam, LParam int64
}

// Point is an integer pixel coordinate.
type Point struct{ X, Y int }

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Rect is a pixel rectangle with inclusive edges.
type Rect struct{ Left, Top, Right, Bottom int }

func (r Rect) Width() int  { return r.Right - r.Left }
func (r Rect) Height() int { return r.Bottom - r.Top }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}
