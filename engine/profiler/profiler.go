package profiler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// ErrNoEvents is returned when there is nothing to export.
var ErrNoEvents = errors.New("profiler: no events")

// Recorder collects open/close span events into a fixed-size ring. Old events
// are overwritten once the ring is full. A nil *Recorder records nothing.
type Recorder struct {
	cap   uint64
	write atomic.Uint64
	evs   []evEntry
	now   func() time.Time

	muFrames sync.Mutex
	frames   []string
	index    map[string]int
}

type evEntry struct {
	AtNS    int64
	FrameID int
	Open    bool
}

// New returns a recorder holding up to capacity events (default 1<<20).
func New(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = 1 << 20
	}
	return &Recorder{
		cap:   uint64(capacity),
		evs:   make([]evEntry, capacity),
		now:   time.Now,
		index: map[string]int{},
	}
}

// Start begins a span and returns the func that ends it.
func (r *Recorder) Start(name string) func() {
	if r == nil {
		return func() {}
	}
	fid := r.intern(name)
	start := r.now().UnixNano()
	r.push(evEntry{AtNS: start, FrameID: fid, Open: true})
	return func() {
		end := r.now().UnixNano()
		if end < start {
			end = start
		}
		r.push(evEntry{AtNS: end, FrameID: fid})
	}
}

// Len returns the number of events currently held.
func (r *Recorder) Len() int {
	if r == nil {
		return 0
	}
	return min(int(r.write.Load()), int(r.cap))
}

func (r *Recorder) push(e evEntry) {
	i := r.write.Add(1) - 1
	r.evs[i%r.cap] = e
}

// snapshot preserves write order.
func (r *Recorder) snapshot() []evEntry {
	n := r.write.Load()
	if n == 0 {
		return nil
	}
	start := uint64(0)
	if n > r.cap {
		start = n - r.cap
	}
	out := make([]evEntry, 0, n-start)
	for k := start; k < n; k++ {
		out = append(out, r.evs[k%r.cap])
	}
	return out
}

func (r *Recorder) intern(name string) int {
	r.muFrames.Lock()
	defer r.muFrames.Unlock()
	if id, ok := r.index[name]; ok {
		return id
	}
	id := len(r.frames)
	r.index[name] = id
	r.frames = append(r.frames, name)
	return id
}

// Stats is a point-in-time view of the Go runtime.
type Stats struct {
	Alloc      uint64
	Mallocs    uint64
	Goroutines int
	CPUs       int
}

func ReadStats() Stats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return Stats{
		Alloc:      m.Alloc,
		Mallocs:    m.Mallocs,
		Goroutines: runtime.NumGoroutine(),
		CPUs:       runtime.NumCPU(),
	}
}

// ---------- speedscope export ----------

type ssFile struct {
	Schema             string      `json:"$schema"`
	Shared             ssShared    `json:"shared"`
	Profiles           []ssProfile `json:"profiles"`
	ActiveProfileIndex int         `json:"activeProfileIndex,omitempty"`
	Exporter           string      `json:"exporter,omitempty"`
	Name               string      `json:"name,omitempty"`
}

type ssShared struct {
	Frames []ssFrame `json:"frames"`
}

type ssFrame struct {
	Name string `json:"name"`
}

type ssProfile struct {
	Type       string    `json:"type"` // "evented"
	Name       string    `json:"name"`
	Unit       string    `json:"unit"` // "microseconds"
	StartValue int64     `json:"startValue"`
	EndValue   int64     `json:"endValue"`
	Events     []ssEvent `json:"events"`
}

type ssEvent struct {
	Type  string `json:"type"`  // "O" or "C"
	At    int64  `json:"at"`    // µs since first event
	Frame int    `json:"frame"` // index into shared frames
}

// WriteSpeedscope encodes the recorded spans as an evented speedscope
// document. Unmatched closes are dropped and spans still open are closed at
// the last timestamp.
func (r *Recorder) WriteSpeedscope(w io.Writer, name string) error {
	if r == nil {
		return ErrNoEvents
	}
	evs := r.snapshot()
	if len(evs) == 0 {
		return ErrNoEvents
	}

	r.muFrames.Lock()
	fs := make([]ssFrame, len(r.frames))
	for i, n := range r.frames {
		fs[i] = ssFrame{Name: n}
	}
	r.muFrames.Unlock()

	base := evs[0].AtNS
	endUS := int64(0)
	out := make([]ssEvent, 0, len(evs)+16)
	stack := make([]int, 0, 64)
	lastUS := int64(-1)

	for _, e := range evs {
		atUS := (e.AtNS - base) / 1000
		if atUS < lastUS {
			atUS = lastUS
		}
		if e.Open {
			out = append(out, ssEvent{Type: "O", At: atUS, Frame: e.FrameID})
			stack = append(stack, e.FrameID)
		} else {
			if len(stack) == 0 || stack[len(stack)-1] != e.FrameID {
				continue
			}
			stack = stack[:len(stack)-1]
			out = append(out, ssEvent{Type: "C", At: atUS, Frame: e.FrameID})
		}
		lastUS = atUS
		endUS = max(endUS, atUS)
	}
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, ssEvent{Type: "C", At: lastUS, Frame: stack[i]})
	}
	if len(out) == 0 {
		return ErrNoEvents
	}

	doc := ssFile{
		Schema: "https://www.speedscope.app/file-format-schema.json",
		Shared: ssShared{Frames: fs},
		Profiles: []ssProfile{{
			Type:     "evented",
			Name:     name,
			Unit:     "microseconds",
			EndValue: endUS,
			Events:   out,
		}},
		Exporter: "framekit-profiler",
		Name:     name,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&doc)
}

// Dump writes the speedscope document to path atomically.
func (r *Recorder) Dump(path, name string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("profiler: %w", err)
	}
	if err := r.WriteSpeedscope(f, name); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("profiler: %w", err)
	}
	return os.Rename(tmp, path)
}
