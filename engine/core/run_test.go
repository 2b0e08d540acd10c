package core

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"
)

// steppedClock advances by step on every reading.
func steppedClock(step time.Duration) func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestStepPhaseOrder(t *testing.T) {
	s := NewScheduler()
	s.FixedStep = 10 * time.Millisecond
	s.now = steppedClock(25 * time.Millisecond)

	var got []string
	s.BeforeTick(func() { got = append(got, "before") })
	s.OnUpdate(func(float64) { got = append(got, "update") })
	s.OnFixedUpdate(func(float64) { got = append(got, "fixed") })
	s.AfterTick(func() { got = append(got, "after") })

	s.Step()
	if want := []string{"before", "update", "after"}; !slices.Equal(got, want) {
		t.Fatalf("first tick = %v, want %v", got, want)
	}
	got = got[:0]
	s.Step()
	if want := []string{"before", "update", "fixed", "fixed", "after"}; !slices.Equal(got, want) {
		t.Fatalf("second tick = %v, want %v", got, want)
	}
	if s.Frame() != 2 || s.Delta() != 25*time.Millisecond {
		t.Fatalf("frame=%d delta=%s", s.Frame(), s.Delta())
	}
	if a := s.Alpha(); a < 0.49 || a > 0.51 {
		t.Fatalf("alpha = %v", a)
	}
}

func TestFixedUpdateCounts(t *testing.T) {
	tests := []struct {
		name      string
		fixed     time.Duration
		catchUp   int
		tick      time.Duration
		steps     int
		wantFixed int
	}{
		{"exact", 10 * time.Millisecond, 10, 10 * time.Millisecond, 4, 3},
		{"accumulates", 10 * time.Millisecond, 10, 25 * time.Millisecond, 3, 5},
		{"catch-up bound", 10 * time.Millisecond, 2, 100 * time.Millisecond, 3, 4},
		{"disabled", 0, 10, 10 * time.Millisecond, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScheduler()
			s.FixedStep = tt.fixed
			s.MaxCatchUp = tt.catchUp
			s.now = steppedClock(tt.tick)
			n := 0
			var dts []float64
			s.OnFixedUpdate(func(dt float64) { n++; dts = append(dts, dt) })
			for range tt.steps {
				s.Step()
			}
			if n != tt.wantFixed {
				t.Fatalf("fixed updates = %d, want %d", n, tt.wantFixed)
			}
			for _, dt := range dts {
				if dt != tt.fixed.Seconds() {
					t.Fatalf("fixed dt = %v", dt)
				}
			}
		})
	}
}

func TestRunUntilExitRequested(t *testing.T) {
	s := NewScheduler()
	var starts, exits int
	s.OnStart(func() { starts++ })
	s.OnExit(func() { exits++ })
	s.OnUpdate(func(float64) {
		if s.Frame() == 3 {
			s.RequestExit()
		}
	})

	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s.Frame() != 3 || starts != 1 || exits != 1 {
		t.Fatalf("frames=%d starts=%d exits=%d", s.Frame(), starts, exits)
	}
	if s.Running() {
		t.Fatal("still running")
	}
}

func TestRunCancelledContext(t *testing.T) {
	s := NewScheduler()
	exits := 0
	s.OnExit(func() { exits++ })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if s.Frame() != 0 || exits != 1 {
		t.Fatalf("frames=%d exits=%d", s.Frame(), exits)
	}
}

func TestRunPaced(t *testing.T) {
	s := NewScheduler()
	s.TargetFPS = 200
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.OnUpdate(func(float64) {
		if s.Frame() == 4 {
			s.RequestExit()
		}
	})
	start := time.Now()
	if err := s.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Fatalf("4 paced ticks at 200 FPS took only %s", elapsed)
	}
}

func TestRunNotReentrant(t *testing.T) {
	s := NewScheduler()
	var inner error
	s.OnStart(func() { inner = s.Run(context.Background()) })
	s.OnUpdate(func(float64) { s.RequestExit() })
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !errors.Is(inner, ErrAlreadyStarted) {
		t.Fatalf("nested Run = %v", inner)
	}
}

func TestSchedulerUnsubscribe(t *testing.T) {
	s := NewScheduler()
	n := 0
	sub := s.OnUpdate(func(float64) { n++ })
	s.Step()
	sub.Unsubscribe()
	sub.Unsubscribe()
	s.Step()
	if n != 1 {
		t.Fatalf("updates = %d", n)
	}
}

func TestTimingReadableDuringSteps(t *testing.T) {
	s := NewScheduler()
	s.FixedStep = 10 * time.Millisecond
	s.now = steppedClock(15 * time.Millisecond)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
			}
			if d := s.Delta(); d != 0 && d != 15*time.Millisecond {
				t.Errorf("Delta = %s", d)
				return
			}
			if a := s.Alpha(); a < 0 || a >= 1 {
				t.Errorf("Alpha = %v", a)
				return
			}
		}
	}()
	for range 200 {
		s.Step()
	}
	close(stop)
	<-done
}
