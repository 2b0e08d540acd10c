package core

import "strconv"

// Key is a virtual key code. Mouse buttons share the code space with keyboard
// keys so both can be queried through the same Held/Pressed/Released calls.
type Key uint8

// KeyNone is the "no key" sentinel returned by FirstPressed/FirstReleased.
const KeyNone Key = 0

// Mouse buttons.
const (
	KeyLeftButton  Key = 0x01
	KeyRightButton Key = 0x02
	KeyCancel      Key = 0x03
	KeyMidButton   Key = 0x04
	KeyXButton1    Key = 0x05
	KeyXButton2    Key = 0x06
)

// Editing and control keys.
const (
	KeyBackspace Key = 0x08
	KeyTab       Key = 0x09
	KeyClear     Key = 0x0C
	KeyEnter     Key = 0x0D
	KeyPause     Key = 0x13
	KeyCapsLock  Key = 0x14
	KeyEscape    Key = 0x1B
	KeySpace     Key = 0x20
	KeyPageUp    Key = 0x21
	KeyPageDown  Key = 0x22
	KeyEnd       Key = 0x23
	KeyHome      Key = 0x24
	KeyLeft      Key = 0x25
	KeyUp        Key = 0x26
	KeyRight     Key = 0x27
	KeyDown      Key = 0x28
	KeyInsert    Key = 0x2D
	KeyDelete    Key = 0x2E
	KeyLeftWin   Key = 0x5B
	KeyRightWin  Key = 0x5C
	KeyApps      Key = 0x5D
	KeyNumLock   Key = 0x90
	KeyScrollLck Key = 0x91
)

// Generic modifiers. Reported when modifier disambiguation is off.
const (
	KeyShift Key = 0x10
	KeyCtrl  Key = 0x11
	KeyAlt   Key = 0x12
)

// Side-specific modifiers. Reported when modifier disambiguation is on.
const (
	KeyLeftShift  Key = 0xA0
	KeyRightShift Key = 0xA1
	KeyLeftCtrl   Key = 0xA2
	KeyRightCtrl  Key = 0xA3
	KeyLeftAlt    Key = 0xA4
	KeyRightAlt   Key = 0xA5
)

// Digits, letters, function keys and numpad. Ranges are contiguous.
const (
	Key0 Key = 0x30
	Key1 Key = 0x31
	Key2 Key = 0x32
	Key3 Key = 0x33
	Key4 Key = 0x34
	Key5 Key = 0x35
	Key6 Key = 0x36
	Key7 Key = 0x37
	Key8 Key = 0x38
	Key9 Key = 0x39

	KeyA Key = 0x41
	KeyB Key = 0x42
	KeyC Key = 0x43
	KeyD Key = 0x44
	KeyE Key = 0x45
	KeyF Key = 0x46
	KeyG Key = 0x47
	KeyH Key = 0x48
	KeyI Key = 0x49
	KeyJ Key = 0x4A
	KeyK Key = 0x4B
	KeyL Key = 0x4C
	KeyM Key = 0x4D
	KeyN Key = 0x4E
	KeyO Key = 0x4F
	KeyP Key = 0x50
	KeyQ Key = 0x51
	KeyR Key = 0x52
	KeyS Key = 0x53
	KeyT Key = 0x54
	KeyU Key = 0x55
	KeyV Key = 0x56
	KeyW Key = 0x57
	KeyX Key = 0x58
	KeyY Key = 0x59
	KeyZ Key = 0x5A

	KeyNumpad0  Key = 0x60
	KeyMultiply Key = 0x6A
	KeyAdd      Key = 0x6B
	KeySep      Key = 0x6C
	KeySubtract Key = 0x6D
	KeyDecimal  Key = 0x6E
	KeyDivide   Key = 0x6F

	KeyF1  Key = 0x70
	KeyF12 Key = 0x7B
	KeyF24 Key = 0x87
)

// Punctuation (US layout positions).
const (
	KeySemicolon    Key = 0xBA
	KeyEqual        Key = 0xBB
	KeyComma        Key = 0xBC
	KeyMinus        Key = 0xBD
	KeyPeriod       Key = 0xBE
	KeySlash        Key = 0xBF
	KeyGraveAccent  Key = 0xC0
	KeyLeftBracket  Key = 0xDB
	KeyBackslash    Key = 0xDC
	KeyRightBracket Key = 0xDD
	KeyApostrophe   Key = 0xDE
)

var genericModifiers = [...]Key{KeyShift, KeyCtrl, KeyAlt}

var sidedModifiers = [...]Key{
	KeyLeftShift, KeyRightShift,
	KeyLeftCtrl, KeyRightCtrl,
	KeyLeftAlt, KeyRightAlt,
}

// IsGenericModifier reports whether k is Shift, Ctrl or Alt without a side.
func (k Key) IsGenericModifier() bool {
	return k == KeyShift || k == KeyCtrl || k == KeyAlt
}

// IsMouseButton reports whether k is one of the three tracked mouse buttons.
func (k Key) IsMouseButton() bool {
	return k == KeyLeftButton || k == KeyMidButton || k == KeyRightButton
}

var keyNames = map[Key]string{
	KeyNone: "None", KeyLeftButton: "LeftButton", KeyRightButton: "RightButton",
	KeyMidButton: "MidButton", KeyXButton1: "XButton1", KeyXButton2: "XButton2",
	KeyBackspace: "Backspace", KeyTab: "Tab", KeyEnter: "Enter", KeyEscape: "Escape",
	KeySpace: "Space", KeyShift: "Shift", KeyCtrl: "Ctrl", KeyAlt: "Alt",
	KeyLeftShift: "LeftShift", KeyRightShift: "RightShift", KeyLeftCtrl: "LeftCtrl",
	KeyRightCtrl: "RightCtrl", KeyLeftAlt: "LeftAlt", KeyRightAlt: "RightAlt",
	KeyLeft: "Left", KeyUp: "Up", KeyRight: "Right", KeyDown: "Down",
	KeyHome: "Home", KeyEnd: "End", KeyPageUp: "PageUp", KeyPageDown: "PageDown",
	KeyInsert: "Insert", KeyDelete: "Delete", KeyCapsLock: "CapsLock", KeyPause: "Pause",
}

func (k Key) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	switch {
	case k >= KeyA && k <= KeyZ:
		return string(rune('A' + (k - KeyA)))
	case k >= Key0 && k <= Key9:
		return string(rune('0' + (k - Key0)))
	case k >= KeyF1 && k <= KeyF24:
		return "F" + strconv.Itoa(int(k-KeyF1)+1)
	case k >= KeyNumpad0 && k <= KeyNumpad0+9:
		return "Numpad" + strconv.Itoa(int(k-KeyNumpad0))
	}
	return "Key(0x" + strconv.FormatUint(uint64(k), 16) + ")"
}

// KeyCode is the payload of key-down/key-up notifications.
type KeyCode struct {
	Key      Key
	ScanCode uint8
}
