package platform

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"sync"

	"github.com/hubastard/framekit/engine/colors"
	"github.com/hubastard/framekit/engine/core"
	"github.com/hubastard/framekit/engine/text"
	"go.uber.org/zap"
)

// MemorySurface is an offscreen core.Surface backed by two RGBA images, with a
// scripted message queue. It runs headless: tests, CI and frame capture.
type MemorySurface struct {
	log *zap.Logger
	q   queue

	mu       sync.Mutex
	back     *image.RGBA
	front    *image.RGBA
	presents int
	contexts int
	// clip is the painter clip in back-buffer pixels; empty means none.
	clip image.Rectangle
}

func NewMemorySurface(log *zap.Logger) *MemorySurface {
	if log == nil {
		log = zap.NewNop()
	}
	return &MemorySurface{log: log}
}

// Push queues messages for TryGetMessage.
func (s *MemorySurface) Push(ms ...core.Message) { s.q.push(ms...) }

// Queued returns the number of messages not yet consumed.
func (s *MemorySurface) Queued() int { return s.q.len() }

func (s *MemorySurface) TryGetMessage(filter core.MessageFilter, remove bool) (core.Message, bool) {
	return s.q.take(filter, remove)
}

func (s *MemorySurface) Open(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.back != nil {
		return fmt.Errorf("memory surface: %w", core.ErrAlreadyStarted)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("memory surface %dx%d: %w", width, height, core.ErrInvalidArgument)
	}
	s.alloc(width, height)
	s.log.Debug("memory surface opened", zap.Int("width", width), zap.Int("height", height))
	return nil
}

func (s *MemorySurface) alloc(width, height int) {
	r := image.Rect(0, 0, width, height)
	s.back = image.NewRGBA(r)
	s.front = image.NewRGBA(r)
}

func (s *MemorySurface) Resize(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.back == nil {
		return fmt.Errorf("memory surface: %w", core.ErrWindowNotInitialized)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("memory surface %dx%d: %w", width, height, core.ErrInvalidArgument)
	}
	s.alloc(width, height)
	return nil
}

func (s *MemorySurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.back, s.front = nil, nil
	s.clip = image.Rectangle{}
	s.q.reset()
	return nil
}

func (s *MemorySurface) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.back != nil
}

func (s *MemorySurface) Width() int  { return s.size().X }
func (s *MemorySurface) Height() int { return s.size().Y }

func (s *MemorySurface) size() image.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.back == nil {
		return image.Point{}
	}
	return s.back.Bounds().Size()
}

func (s *MemorySurface) Clear(c colors.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.back != nil {
		draw.Draw(s.back, s.back.Bounds(), image.NewUniform(c.NRGBA()), image.Point{}, draw.Src)
	}
}

func (s *MemorySurface) Present() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.back == nil {
		return
	}
	copy(s.front.Pix, s.back.Pix)
	s.presents++
}

func (s *MemorySurface) PresentRegion(r core.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.back == nil {
		return
	}
	rect := image.Rect(r.Left, r.Top, r.Right, r.Bottom).Intersect(s.back.Bounds())
	draw.Draw(s.front, rect, s.back, rect.Min, draw.Src)
	s.presents++
}

// Presents returns how many times the back buffer was presented.
func (s *MemorySurface) Presents() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presents
}

// Frame returns a copy of the last presented image, nil when closed.
func (s *MemorySurface) Frame() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.front == nil {
		return nil
	}
	out := image.NewRGBA(s.front.Bounds())
	copy(out.Pix, s.front.Pix)
	return out
}

type memoryContext struct {
	s        *MemorySurface
	released bool
}

func (c *memoryContext) Release() error {
	if c.released {
		return nil
	}
	c.released = true
	c.s.mu.Lock()
	c.s.contexts--
	c.s.mu.Unlock()
	return nil
}

func (s *MemorySurface) GraphicsContext() (core.GraphicsContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.back == nil {
		return nil, fmt.Errorf("memory surface: %w", core.ErrWindowNotInitialized)
	}
	s.contexts++
	return &memoryContext{s: s}, nil
}

// LiveContexts returns the number of acquired, unreleased contexts.
func (s *MemorySurface) LiveContexts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contexts
}

// ---------- painter ----------

// FillRect fills r, edges included.
func (s *MemorySurface) FillRect(r core.Rect, c colors.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.back == nil {
		return
	}
	rect := image.Rect(r.Left, r.Top, r.Right+1, r.Bottom+1)
	draw.Draw(s.target(), rect, image.NewUniform(c.NRGBA()), image.Point{}, draw.Over)
}

// StrokeRect draws a one pixel outline on the inclusive edges of r.
func (s *MemorySurface) StrokeRect(r core.Rect, c colors.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.back == nil {
		return
	}
	src := image.NewUniform(c.NRGBA())
	for _, e := range []image.Rectangle{
		image.Rect(r.Left, r.Top, r.Right+1, r.Top+1),
		image.Rect(r.Left, r.Bottom, r.Right+1, r.Bottom+1),
		image.Rect(r.Left, r.Top, r.Left+1, r.Bottom+1),
		image.Rect(r.Right, r.Top, r.Right+1, r.Bottom+1),
	} {
		draw.Draw(s.target(), e, src, image.Point{}, draw.Over)
	}
}

func (s *MemorySurface) DrawText(p core.Point, str string, c colors.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.back == nil {
		return
	}
	text.Draw(s.target(), image.Pt(p.X, p.Y), str, c.NRGBA())
}

// SetClip limits FillRect, StrokeRect and DrawText to r, edges included. A
// zero rect resets the clip. Clear ignores it.
func (s *MemorySurface) SetClip(r core.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r == (core.Rect{}) {
		s.clip = image.Rectangle{}
		return
	}
	s.clip = image.Rect(r.Left, r.Top, r.Right+1, r.Bottom+1)
}

// target returns the back buffer narrowed to the clip; s.mu must be held.
func (s *MemorySurface) target() *image.RGBA {
	if s.clip.Empty() {
		return s.back
	}
	return s.back.SubImage(s.clip).(*image.RGBA)
}

// ---------- prompter ----------

// PromptReply is one scripted answer of a ScriptedPrompter.
type PromptReply struct {
	Text      string
	Cancelled bool
	Err       error
}

// ScriptedPrompter answers prompts from a fixed list, in order, and records
// the requests it saw. Once the list is exhausted every prompt is cancelled.
type ScriptedPrompter struct {
	mu       sync.Mutex
	replies  []PromptReply
	requests []core.PromptRequest
}

func NewScriptedPrompter(replies ...PromptReply) *ScriptedPrompter {
	return &ScriptedPrompter{replies: replies}
}

func (p *ScriptedPrompter) Prompt(ctx context.Context, req core.PromptRequest) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
	if len(p.replies) == 0 {
		return "", false, nil
	}
	r := p.replies[0]
	p.replies = p.replies[1:]
	if r.Err != nil {
		return "", false, r.Err
	}
	return r.Text, !r.Cancelled, nil
}

// Requests returns the prompts seen so far.
func (p *ScriptedPrompter) Requests() []core.PromptRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]core.PromptRequest(nil), p.requests...)
}
