package core

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"
)

// Scheduler is the repeating-tick primitive. Each tick runs BeforeTick hooks,
// the per-frame Update callbacks, as many FixedUpdate callbacks as the
// accumulated time allows, then AfterTick hooks. Termination is cooperative:
// RequestExit or a cancelled context is observed once per tick boundary.
// The exported fields are read by the tick goroutine and must be set before
// Run. Step and Run belong to the tick goroutine; the query methods, hook
// registration and RequestExit may be called from any goroutine.
type Scheduler struct {
	// FixedStep is the FixedUpdate period; 0 disables fixed updates.
	FixedStep time.Duration
	// MaxCatchUp bounds fixed updates per tick to prevent a spiral of death.
	MaxCatchUp int
	// TargetFPS paces Run; 0 runs unpaced.
	TargetFPS int

	onStart    hooks
	beforeTick hooks
	afterTick  hooks
	onExit     hooks
	update     observers[float64]
	fixed      observers[float64]

	frame   atomic.Uint64
	exit    atomic.Bool
	running atomic.Bool

	now  func() time.Time
	prev time.Time
	// delta and accum are published for readers on other goroutines.
	delta atomic.Int64
	accum atomic.Int64
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		FixedStep:  time.Second / 60,
		MaxCatchUp: 10,
		now:        time.Now,
	}
}

// OnStart runs once when Run begins, before the first tick.
func (s *Scheduler) OnStart(fn func()) Subscription { return s.onStart.addFunc(fn) }

// BeforeTick runs at the start of every tick.
func (s *Scheduler) BeforeTick(fn func()) Subscription { return s.beforeTick.addFunc(fn) }

// AfterTick runs at the end of every tick.
func (s *Scheduler) AfterTick(fn func()) Subscription { return s.afterTick.addFunc(fn) }

// OnExit runs once when Run stops.
func (s *Scheduler) OnExit(fn func()) Subscription { return s.onExit.addFunc(fn) }

// OnUpdate runs once per tick with the frame time in seconds.
func (s *Scheduler) OnUpdate(fn func(dt float64)) Subscription { return s.update.add(fn) }

// OnFixedUpdate runs zero or more times per tick with FixedStep in seconds.
func (s *Scheduler) OnFixedUpdate(fn func(dt float64)) Subscription { return s.fixed.add(fn) }

// Frame returns the number of ticks started so far.
func (s *Scheduler) Frame() uint64 { return s.frame.Load() }

// Delta returns the duration of the last tick.
func (s *Scheduler) Delta() time.Duration { return time.Duration(s.delta.Load()) }

// Alpha is the interpolation factor [0..1) between fixed updates.
func (s *Scheduler) Alpha() float64 {
	if s.FixedStep <= 0 {
		return 0
	}
	return float64(s.accum.Load()) / float64(s.FixedStep)
}

// RequestExit asks Run to stop at the next tick boundary.
func (s *Scheduler) RequestExit() { s.exit.Store(true) }

// ExitRequested reports whether RequestExit was called.
func (s *Scheduler) ExitRequested() bool { return s.exit.Load() }

// Running reports whether Run is executing.
func (s *Scheduler) Running() bool { return s.running.Load() }

// Step runs exactly one tick on the calling goroutine.
func (s *Scheduler) Step() {
	now := s.now()
	if s.prev.IsZero() {
		s.prev = now
	}
	frame := now.Sub(s.prev)
	s.prev = now
	s.delta.Store(int64(frame))
	s.frame.Add(1)

	s.beforeTick.fire()
	s.update.notify(frame.Seconds())

	if step := s.FixedStep; step > 0 {
		accum := time.Duration(s.accum.Load()) + frame
		steps := 0
		for accum >= step && steps < s.MaxCatchUp {
			s.fixed.notify(step.Seconds())
			accum -= step
			steps++
		}
		if accum >= step {
			accum %= step
		}
		s.accum.Store(int64(accum))
	}

	s.afterTick.fire()
}

// Run ticks until ctx is done or RequestExit is called. OnStart and OnExit
// hooks run exactly once on the calling goroutine, which is locked to its OS
// thread for the duration since graphics contexts require it.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("scheduler: %w", ErrAlreadyStarted)
	}
	defer s.running.Store(false)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	s.onStart.fire()
	defer s.onExit.fire()

	var budget time.Duration
	if s.TargetFPS > 0 {
		budget = time.Second / time.Duration(s.TargetFPS)
	}
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for ctx.Err() == nil && !s.exit.Load() {
		start := time.Now()
		s.Step()

		if budget == 0 {
			continue
		}
		wait := budget - time.Since(start)
		if wait <= 0 {
			continue
		}
		timer.Reset(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
	}
	return nil
}
