package core

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// DefaultPromptMaxLen is the input length limit when none is set.
const DefaultPromptMaxLen = 32

// PromptRequest describes a modal text input box.
type PromptRequest struct {
	Title   string
	Prompt  string
	Default string
	// Width/Height of the box in pixels; 0 lets the backend choose.
	Width  int
	Height int
	// MaxLen is the maximum number of runes accepted. It grows to fit Default.
	MaxLen     int
	HideCancel bool
}

func (r *PromptRequest) normalize() error {
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("prompt size %dx%d: %w", r.Width, r.Height, ErrInvalidArgument)
	}
	if r.MaxLen < 0 {
		return fmt.Errorf("prompt max length %d: %w", r.MaxLen, ErrInvalidArgument)
	}
	if r.MaxLen == 0 {
		r.MaxLen = DefaultPromptMaxLen
	}
	if n := utf8.RuneCountInString(r.Default); n > r.MaxLen {
		r.MaxLen = n
	}
	return nil
}

// Prompt shows a modal text input box and blocks the calling goroutine, the
// tick goroutine included, until the user dismisses it. ok is false when the
// box was cancelled.
func (c *Controller) Prompt(ctx context.Context, req PromptRequest) (text string, ok bool, err error) {
	if err := c.checkDisposed(); err != nil {
		return "", false, err
	}
	if !c.surface.IsOpen() {
		return "", false, fmt.Errorf("prompt: %w", ErrWindowNotInitialized)
	}
	if c.prompter == nil {
		return "", false, fmt.Errorf("prompt: no prompter bound: %w", ErrUnsupportedOperation)
	}
	if err := req.normalize(); err != nil {
		return "", false, err
	}
	text, ok, err = c.prompter.Prompt(ctx, req)
	if err != nil || !ok {
		return "", false, err
	}
	if utf8.RuneCountInString(text) > req.MaxLen {
		text = string([]rune(text)[:req.MaxLen])
	}
	return text, true, nil
}

// TextInput is a prompt bound to a controller, reusable across ticks.
type TextInput struct {
	ctl *Controller
	PromptRequest
}

func (c *Controller) NewTextInput(req PromptRequest) *TextInput {
	return &TextInput{ctl: c, PromptRequest: req}
}

// Input shows the box and waits for the user.
func (t *TextInput) Input(ctx context.Context) (string, bool, error) {
	return t.ctl.Prompt(ctx, t.PromptRequest)
}
