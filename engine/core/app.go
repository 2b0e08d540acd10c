package core

import (
	"context"
	"time"

	"github.com/hubastard/framekit/engine/colors"
)

// Surface is the drawing surface the loop renders into.
type Surface interface {
	// Open creates the surface with the given size in pixels.
	Open(width, height int) error
	// Resize re-initializes the surface at a new size. The caller re-acquires
	// the graphics context afterwards.
	Resize(width, height int) error
	Close() error
	IsOpen() bool
	Width() int
	Height() int
	// Clear fills the back buffer with c.
	Clear(c colors.Color)
	// Present flushes the back buffer to the screen.
	Present()
	// PresentRegion flushes only r.
	PresentRegion(r Rect)
	// GraphicsContext acquires the backend drawing context.
	GraphicsContext() (GraphicsContext, error)
}

// GraphicsContext is a backend drawing handle owned by the controller.
type GraphicsContext interface {
	Release() error
}

// MessageSource is the platform message queue. TryGetMessage never blocks.
type MessageSource interface {
	TryGetMessage(filter MessageFilter, remove bool) (Message, bool)
}

// Prompter shows a modal text input box. It blocks until dismissed and
// returns ok=false when the user cancelled.
type Prompter interface {
	Prompt(ctx context.Context, req PromptRequest) (text string, ok bool, err error)
}

// Config for the controller and its scheduler.
type Config struct {
	Title  string
	Width  int
	Height int
	VSync  bool

	Background colors.Color

	MessageCapture         bool
	Rendering              bool
	ModifierDisambiguation bool
	// IsolateRenderFaults recovers panics of individual drawables instead of
	// aborting the render pass.
	IsolateRenderFaults bool

	FixedStep  time.Duration
	MaxCatchUp int
	TargetFPS  int
}

// DefaultConfig returns the settings the controller uses when none are given.
func DefaultConfig() Config {
	return Config{
		Title:          "framekit",
		Width:          640,
		Height:         480,
		VSync:          true,
		Background:     colors.Black,
		MessageCapture: true,
		Rendering:      true,
		FixedStep:      time.Second / 60,
		MaxCatchUp:     10,
	}
}
