package ui

import (
	"fmt"

	"github.com/hubastard/framekit/engine/core"
)

// Permissions lists the queries a Button answers. Queries outside the set
// fail with core.ErrUnsupportedOperation.
type Permissions uint8

const (
	CanGetDown Permissions = 1 << iota
	CanGetUp
	CanGetState
	CanGetPower
	CanGetFrame
	CanClick

	AllStates = CanGetDown | CanGetUp | CanGetState | CanGetPower
)

func (p Permissions) Has(q Permissions) bool { return p&q == q }

// Button is the query side shared by every button kind.
type Button interface {
	Permissions() Permissions
	// Down reports whether the button went down this tick.
	Down() (bool, error)
	// Up reports whether the button went up this tick.
	Up() (bool, error)
	// State reports whether the button is held.
	State() (bool, error)
	// Power is the analog value in [MinPower, MaxPower], 0 or 1 for digital buttons.
	Power() (float32, error)
	// Frame is the tick the answers refer to.
	Frame() (uint64, error)
}

// Host is what buttons need from the running loop. *core.Controller
// implements it.
type Host interface {
	Input() core.InputQuery
	Frame() uint64
}

// MessageHost is a Host that also delivers the per-tick message notification.
type MessageHost interface {
	Host
	OnMessage(fn func(core.Message)) core.Subscription
}

func unsupported(op string) error {
	return fmt.Errorf("button %s: %w", op, core.ErrUnsupportedOperation)
}

func hostFrame(h Host) (uint64, error) {
	if h == nil {
		return 0, fmt.Errorf("button frame: no loop bound: %w", core.ErrUnsupportedOperation)
	}
	return h.Frame(), nil
}

// KeyButton maps a key code onto the Button queries.
type KeyButton struct {
	Key  core.Key
	host Host
}

func NewKeyButton(h Host, k core.Key) *KeyButton { return &KeyButton{Key: k, host: h} }

func (b *KeyButton) Permissions() Permissions { return AllStates | CanGetFrame }

func (b *KeyButton) input() (core.InputQuery, error) {
	if b.host == nil {
		return nil, fmt.Errorf("key button %s: no loop bound: %w", b.Key, core.ErrUnsupportedOperation)
	}
	return b.host.Input(), nil
}

func (b *KeyButton) Down() (bool, error) {
	in, err := b.input()
	if err != nil {
		return false, err
	}
	return in.Pressed(b.Key), nil
}

func (b *KeyButton) Up() (bool, error) {
	in, err := b.input()
	if err != nil {
		return false, err
	}
	return in.Released(b.Key), nil
}

func (b *KeyButton) State() (bool, error) {
	in, err := b.input()
	if err != nil {
		return false, err
	}
	return in.Held(b.Key), nil
}

func (b *KeyButton) Power() (float32, error) {
	held, err := b.State()
	if err != nil || !held {
		return 0, err
	}
	return 1, nil
}

func (b *KeyButton) MinPower() float32 { return 0 }
func (b *KeyButton) MaxPower() float32 { return 1 }

func (b *KeyButton) Frame() (uint64, error) { return hostFrame(b.host) }

func (b *KeyButton) String() string { return b.Key.String() }
