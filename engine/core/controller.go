package core

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hubastard/framekit/engine/colors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// State of the frame loop controller.
type State int32

const (
	StateNotStarted State = iota
	StateRunning
	StateExiting
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateRunning:
		return "running"
	case StateExiting:
		return "exiting"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// PhaseTimer records named spans; Start returns the function that ends the
// span.
type PhaseTimer interface {
	Start(name string) func()
}

type nopTimer struct{}

func (nopTimer) Start(string) func() { return func() {} }

// Option configures a Controller.
type Option func(*Controller)

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

func WithConfig(cfg Config) Option { return func(c *Controller) { c.cfg = cfg } }

// WithScheduler plugs the controller into an existing scheduler.
func WithScheduler(s *Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.sched = s
		}
	}
}

func WithPrompter(p Prompter) Option { return func(c *Controller) { c.prompter = p } }

func WithPhaseTimer(t PhaseTimer) Option {
	return func(c *Controller) {
		if t != nil {
			c.timer = t
		}
	}
}

// Controller drives the per-tick protocol around a Surface and a
// MessageSource:
//
//	begin-frame  clear, poll one message, promote drawables
//	body         scheduler Update/FixedUpdate callbacks
//	end-frame    render active drawables, present
//
// It replaces any global game instance: construct one and hand it to the
// code that needs it.
type Controller struct {
	cfg      Config
	surface  Surface
	source   MessageSource
	prompter Prompter
	sched    *Scheduler
	input    *Input
	registry *Registry
	log      *zap.Logger
	timer    PhaseTimer

	state     atomic.Int32
	capture   atomic.Bool
	rendering atomic.Bool
	isolate   atomic.Bool

	bgMu sync.RWMutex
	bg   colors.Color

	// gcMu serializes context replacement and resize with the render pass.
	// Drawables run with it held; calls they make back into the controller
	// see inPass and never take it.
	gcMu    sync.Mutex
	gc      atomic.Pointer[gcSlot]
	inPass  atomic.Bool
	resizeQ atomic.Pointer[Point]

	window  observers[WindowEvent]
	keyDown observers[KeyCode]
	keyUp   observers[KeyCode]
	char    observers[rune]
	message observers[Message]
	faults  observers[RenderFault]

	hooks    []Subscription
	exitOnce sync.Once
	exitErr  error
}

// NewController builds a controller over surface and source. source may be
// nil, in which case no input is ever captured.
func NewController(surface Surface, source MessageSource, opts ...Option) (*Controller, error) {
	if surface == nil {
		return nil, fmt.Errorf("surface is nil: %w", ErrInvalidArgument)
	}
	c := &Controller{
		cfg:     DefaultConfig(),
		surface: surface,
		source:  source,
		log:     zap.NewNop(),
		timer:   nopTimer{},
		input:   NewInput(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.sched == nil {
		c.sched = NewScheduler()
		c.sched.FixedStep = c.cfg.FixedStep
		c.sched.MaxCatchUp = c.cfg.MaxCatchUp
		c.sched.TargetFPS = c.cfg.TargetFPS
	}
	c.registry = NewRegistry(c.log)
	c.capture.Store(c.cfg.MessageCapture)
	c.rendering.Store(c.cfg.Rendering)
	c.isolate.Store(c.cfg.IsolateRenderFaults)
	c.bg = c.cfg.Background
	c.input.SetModifierDisambiguation(c.cfg.ModifierDisambiguation)
	return c, nil
}

// ---------- lifecycle ----------

// Start opens the surface, acquires the graphics context and hooks the frame
// phases into the scheduler.
func (c *Controller) Start(width, height int) error {
	if !c.state.CompareAndSwap(int32(StateNotStarted), int32(StateRunning)) {
		if c.State() >= StateExiting {
			return fmt.Errorf("start: %w", ErrObjectDisposed)
		}
		return fmt.Errorf("start: %w", ErrAlreadyStarted)
	}
	if width <= 0 || height <= 0 {
		c.state.Store(int32(StateNotStarted))
		return fmt.Errorf("start: size %dx%d: %w", width, height, ErrInvalidArgument)
	}
	if err := c.surface.Open(width, height); err != nil {
		c.state.Store(int32(StateNotStarted))
		return fmt.Errorf("open surface: %w", err)
	}
	if err := c.acquireContext(); err != nil {
		_ = c.surface.Close()
		c.state.Store(int32(StateNotStarted))
		return err
	}

	c.hooks = append(c.hooks,
		c.sched.BeforeTick(c.beginFrame),
		c.sched.AfterTick(c.endFrame),
		c.sched.OnExit(func() { _ = c.exit() }),
	)
	c.log.Info("frame loop started",
		zap.String("title", c.cfg.Title),
		zap.Int("width", width),
		zap.Int("height", height))
	return nil
}

// Run starts the controller and runs the scheduler on the calling goroutine
// until ctx is done or Exit is called. Resources are released before Run
// returns.
func (c *Controller) Run(ctx context.Context, width, height int) error {
	if err := c.Start(width, height); err != nil {
		return err
	}
	if err := c.sched.Run(ctx); err != nil {
		return err
	}
	return c.exitErr
}

// Tick runs a single tick for callers that own the loop themselves.
func (c *Controller) Tick() error {
	switch c.State() {
	case StateNotStarted:
		return fmt.Errorf("tick: %w", ErrWindowNotInitialized)
	case StateExiting, StateStopped:
		return fmt.Errorf("tick: %w", ErrObjectDisposed)
	}
	c.sched.Step()
	if c.sched.ExitRequested() {
		return c.exit()
	}
	return nil
}

// Exit asks the loop to stop at the next tick boundary.
func (c *Controller) Exit() { c.sched.RequestExit() }

// Shutdown releases everything. While the scheduler is running, or when
// called during a render pass, it only requests the exit, which then happens
// on the tick goroutine at the end of the tick.
func (c *Controller) Shutdown() error {
	if c.sched.Running() || c.inPass.Load() {
		c.sched.RequestExit()
		return nil
	}
	return c.exit()
}

func (c *Controller) exit() error {
	c.exitOnce.Do(func() {
		prev := State(c.state.Swap(int32(StateExiting)))
		end := c.timer.Start("frame.exit")

		err := c.registry.Shutdown()
		c.gcMu.Lock()
		c.resizeQ.Store(nil)
		if slot := c.gc.Swap(nil); slot != nil {
			err = multierr.Append(err, slot.gc.Release())
		}
		if c.surface.IsOpen() {
			err = multierr.Append(err, c.surface.Close())
		}
		c.gcMu.Unlock()

		for _, h := range c.hooks {
			h.Unsubscribe()
		}
		c.hooks = nil
		end()

		c.state.Store(int32(StateStopped))
		c.exitErr = err
		if err != nil {
			c.log.Error("frame loop stopped with errors", zap.Error(err))
			return
		}
		if prev == StateRunning {
			c.log.Info("frame loop stopped", zap.Uint64("frames", c.sched.Frame()))
		}
	})
	return c.exitErr
}

func (c *Controller) State() State { return State(c.state.Load()) }

func (c *Controller) checkDisposed() error {
	if c.State() >= StateExiting {
		return ErrObjectDisposed
	}
	return nil
}

// acquireContext replaces the graphics context; gcMu must not be held.
func (c *Controller) acquireContext() error {
	c.gcMu.Lock()
	defer c.gcMu.Unlock()
	return c.reacquireLocked()
}

type gcSlot struct{ gc GraphicsContext }

func (c *Controller) reacquireLocked() error {
	if old := c.gc.Swap(nil); old != nil {
		if err := old.gc.Release(); err != nil {
			c.log.Warn("release graphics context", zap.Error(err))
		}
	}
	gc, err := c.surface.GraphicsContext()
	if err != nil {
		return fmt.Errorf("acquire graphics context: %w", err)
	}
	c.gc.Store(&gcSlot{gc: gc})
	return nil
}

// ---------- frame phases ----------

func (c *Controller) beginFrame() {
	if !c.surface.IsOpen() {
		return
	}
	end := c.timer.Start("frame.begin")
	defer end()

	c.gcMu.Lock()
	c.applyQueuedResize()
	if c.rendering.Load() {
		c.surface.Clear(c.Background())
	}
	c.gcMu.Unlock()
	if c.capture.Load() {
		c.pollMessage()
	}
	c.registry.Promote()
}

// pollMessage consumes at most one message. Bursts are spread over several
// ticks rather than drained.
func (c *Controller) pollMessage() {
	c.input.BeginFrame()
	var msg Message
	if c.source != nil {
		if m, ok := c.source.TryGetMessage(FilterAll, true); ok {
			msg = m
			for _, n := range c.input.Process(msg) {
				c.dispatch(n)
			}
		}
	}
	c.message.notify(msg)
}

func (c *Controller) dispatch(n Notice) {
	switch n.Kind {
	case NoticeWindow:
		c.window.notify(n.Window)
	case NoticeKeyDown:
		c.keyDown.notify(n.Key)
	case NoticeKeyUp:
		c.keyUp.notify(n.Key)
	case NoticeChar:
		c.char.notify(n.Char)
	}
}

func (c *Controller) endFrame() {
	if !c.surface.IsOpen() || !c.rendering.Load() {
		return
	}
	end := c.timer.Start("frame.end")
	defer end()

	faults := c.renderAndPresent()
	for _, f := range faults {
		c.log.Error("drawable render failed",
			zap.String("type", fmt.Sprintf("%T", f.Drawable)),
			zap.Int("layer", f.Drawable.Layer()),
			zap.Error(f.Err))
		c.faults.notify(f)
	}
}

func (c *Controller) renderAndPresent() []RenderFault {
	c.gcMu.Lock()
	defer c.gcMu.Unlock()
	c.inPass.Store(true)
	defer c.inPass.Store(false)

	faults := c.registry.Render(c.isolate.Load())
	c.surface.Present()
	c.applyQueuedResize()
	return faults
}

// applyQueuedResize performs a resize requested during a render pass; gcMu
// must be held.
func (c *Controller) applyQueuedResize() {
	p := c.resizeQ.Swap(nil)
	if p == nil {
		return
	}
	if err := c.resizeLocked(p.X, p.Y); err != nil {
		c.log.Error("deferred resize failed", zap.Int("width", p.X), zap.Int("height", p.Y), zap.Error(err))
	}
}

// ---------- surface ----------

// Resize re-initializes the surface at a new size and re-acquires the
// graphics context. While a render pass is in flight the request is queued
// and applied by the tick goroutine right after the pass presents; the last
// queued size wins. Otherwise it waits for the context lock and resizes
// immediately.
func (c *Controller) Resize(width, height int) error {
	if err := c.checkDisposed(); err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("resize %dx%d: %w", width, height, ErrInvalidArgument)
	}
	if c.inPass.Load() {
		if !c.surface.IsOpen() {
			return fmt.Errorf("resize: %w", ErrWindowNotInitialized)
		}
		c.resizeQ.Store(&Point{X: width, Y: height})
		c.log.Debug("resize queued behind render pass", zap.Int("width", width), zap.Int("height", height))
		return nil
	}
	c.gcMu.Lock()
	defer c.gcMu.Unlock()
	c.resizeQ.Store(nil)
	return c.resizeLocked(width, height)
}

func (c *Controller) resizeLocked(width, height int) error {
	if !c.surface.IsOpen() {
		return fmt.Errorf("resize: %w", ErrWindowNotInitialized)
	}
	if err := c.surface.Resize(width, height); err != nil {
		return fmt.Errorf("resize surface: %w", err)
	}
	if err := c.reacquireLocked(); err != nil {
		return err
	}
	c.log.Debug("surface resized", zap.Int("width", width), zap.Int("height", height))
	return nil
}

// Flush presents the back buffer immediately. Called from a drawable's
// Render it shows what the pass has drawn so far.
func (c *Controller) Flush() error {
	if err := c.checkDisposed(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return c.withSurface("flush", c.surface.Present)
}

// PresentRegion presents only r of the back buffer.
func (c *Controller) PresentRegion(r Rect) error {
	if err := c.checkDisposed(); err != nil {
		return fmt.Errorf("present region: %w", err)
	}
	return c.withSurface("present region", func() { c.surface.PresentRegion(r) })
}

// withSurface runs fn against the open surface. Inside a render pass the pass
// already owns the context lock, so fn runs directly.
func (c *Controller) withSurface(op string, fn func()) error {
	if !c.inPass.Load() {
		c.gcMu.Lock()
		defer c.gcMu.Unlock()
	}
	if !c.surface.IsOpen() {
		return fmt.Errorf("%s: %w", op, ErrWindowNotInitialized)
	}
	fn()
	return nil
}

// GraphicsContext returns the current backend context. The controller owns
// it; callers must not release it.
func (c *Controller) GraphicsContext() (GraphicsContext, error) {
	if err := c.checkDisposed(); err != nil {
		return nil, fmt.Errorf("graphics context: %w", err)
	}
	slot := c.gc.Load()
	if slot == nil {
		return nil, fmt.Errorf("graphics context: %w", ErrWindowNotInitialized)
	}
	return slot.gc, nil
}

func (c *Controller) Width() int  { return c.surface.Width() }
func (c *Controller) Height() int { return c.surface.Height() }

// ---------- drawables ----------

func (c *Controller) Register(d Drawable) error         { return c.registry.Register(d) }
func (c *Controller) RegisterMany(ds ...Drawable) error { return c.registry.RegisterMany(ds...) }
func (c *Controller) Remove(d Drawable) (bool, error)   { return c.registry.Remove(d) }
func (c *Controller) ClearDrawables() error             { return c.registry.Clear() }
func (c *Controller) RefreshOrdering() error            { return c.registry.RefreshOrdering() }
func (c *Controller) Drawables() *Registry              { return c.registry }
func (c *Controller) RegisterRange(list []Drawable, index, count int) error {
	return c.registry.RegisterRange(list, index, count)
}
func (c *Controller) Find(pred func(Drawable) bool) (Drawable, bool, error) {
	return c.registry.Find(pred)
}

// ---------- toggles ----------

// SetMessageCapture turns message polling on or off. While off, input state
// freezes and no input notifications fire.
func (c *Controller) SetMessageCapture(on bool) { c.capture.Store(on) }
func (c *Controller) MessageCapture() bool      { return c.capture.Load() }

// SetRendering turns clearing and rendering on or off from the next tick.
func (c *Controller) SetRendering(on bool) error {
	if err := c.checkDisposed(); err != nil {
		return fmt.Errorf("set rendering: %w", err)
	}
	c.rendering.Store(on)
	return nil
}
func (c *Controller) Rendering() bool { return c.rendering.Load() }

func (c *Controller) SetIsolateRenderFaults(on bool) { c.isolate.Store(on) }

// SetModifierDisambiguation switches Shift/Ctrl/Alt between generic and
// left/right codes.
func (c *Controller) SetModifierDisambiguation(on bool) { c.input.SetModifierDisambiguation(on) }
func (c *Controller) ModifierDisambiguation() bool      { return c.input.ModifierDisambiguation() }

func (c *Controller) SetBackground(col colors.Color) {
	c.bgMu.Lock()
	c.bg = col
	c.bgMu.Unlock()
}

func (c *Controller) Background() colors.Color {
	c.bgMu.RLock()
	defer c.bgMu.RUnlock()
	return c.bg
}

// ---------- queries ----------

func (c *Controller) Input() InputQuery     { return c.input }
func (c *Controller) Frame() uint64         { return c.sched.Frame() }
func (c *Controller) Scheduler() *Scheduler { return c.sched }
func (c *Controller) Logger() *zap.Logger   { return c.log }

// ---------- observers ----------

func (c *Controller) OnWindow(fn func(WindowEvent)) Subscription { return c.window.add(fn) }
func (c *Controller) OnKeyDown(fn func(KeyCode)) Subscription    { return c.keyDown.add(fn) }
func (c *Controller) OnKeyUp(fn func(KeyCode)) Subscription      { return c.keyUp.add(fn) }
func (c *Controller) OnChar(fn func(rune)) Subscription          { return c.char.add(fn) }

// OnMessage fires once per tick after every other input notification, with
// a MsgNone message when nothing arrived.
func (c *Controller) OnMessage(fn func(Message)) Subscription { return c.message.add(fn) }

// OnRenderFault fires for each drawable that panicked while fault isolation
// is on.
func (c *Controller) OnRenderFault(fn func(RenderFault)) Subscription { return c.faults.add(fn) }
