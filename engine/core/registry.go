package core

import (
	"fmt"
	"io"
	"reflect"
	"slices"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Drawable is anything the loop can promote and render each tick.
// Implementations must be comparable (usually a pointer): the registry
// deduplicates by identity. A Drawable that implements io.Closer is closed
// when the registry shuts down.
type Drawable interface {
	Layer() int   // lower layers render first
	Active() bool // inactive drawables stay registered but are skipped
	Start()       // called once, at promotion
	Render()      // called every tick while active
}

// RenderFault describes a drawable whose Render panicked while fault
// isolation was enabled.
type RenderFault struct {
	Drawable Drawable
	Err      error
}

// Registry holds drawables waiting for promotion and the layer-sorted list of
// promoted ones. The two collections have independent locks: Register may be
// called from any goroutine, Promote and Render from the tick goroutine only.
type Registry struct {
	pendingMu sync.Mutex
	pending   []Drawable

	activeMu sync.Mutex
	active   []Drawable

	// tick-goroutine scratch for the render snapshot
	drawBuf []Drawable

	disposed atomic.Bool
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{log: log}
}

func validDrawable(d Drawable) error {
	if d == nil {
		return fmt.Errorf("drawable is nil: %w", ErrInvalidArgument)
	}
	v := reflect.ValueOf(d)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if v.IsNil() {
			return fmt.Errorf("drawable %T is nil: %w", d, ErrInvalidArgument)
		}
	}
	if !v.Type().Comparable() {
		return fmt.Errorf("drawable %T is not comparable: %w", d, ErrInvalidArgument)
	}
	return nil
}

func (r *Registry) checkDisposed() error {
	if r.disposed.Load() {
		return fmt.Errorf("registry: %w", ErrObjectDisposed)
	}
	return nil
}

// Register queues d for promotion at the next tick.
func (r *Registry) Register(d Drawable) error {
	if err := r.checkDisposed(); err != nil {
		return err
	}
	if err := validDrawable(d); err != nil {
		return err
	}
	r.pendingMu.Lock()
	r.pending = append(r.pending, d)
	r.pendingMu.Unlock()
	return nil
}

// RegisterMany queues every non-nil drawable of ds.
func (r *Registry) RegisterMany(ds ...Drawable) error {
	if err := r.checkDisposed(); err != nil {
		return err
	}
	r.pendingMu.Lock()
	defer r.pendingMu.Unlock()
	for _, d := range ds {
		if validDrawable(d) != nil {
			continue
		}
		r.pending = append(r.pending, d)
	}
	return nil
}

// RegisterRange queues list[index:index+count], skipping nil entries.
func (r *Registry) RegisterRange(list []Drawable, index, count int) error {
	if err := r.checkDisposed(); err != nil {
		return err
	}
	if list == nil {
		return fmt.Errorf("drawable list is nil: %w", ErrInvalidArgument)
	}
	if index < 0 || count < 0 || index+count > len(list) {
		return fmt.Errorf("range [%d:%d] of %d drawables: %w", index, index+count, len(list), ErrInvalidArgument)
	}
	return r.RegisterMany(list[index : index+count]...)
}

// Pending returns the number of drawables waiting for promotion.
func (r *Registry) Pending() int {
	r.pendingMu.Lock()
	defer r.pendingMu.Unlock()
	return len(r.pending)
}

// Promote moves every pending drawable into the active list, calling Start on
// those not already present. Start runs without any registry lock held, so
// it may register further drawables; those are promoted on the next tick.
// It returns the number of drawables started.
func (r *Registry) Promote() int {
	r.pendingMu.Lock()
	batch := r.pending
	r.pending = nil
	r.pendingMu.Unlock()
	if len(batch) == 0 {
		return 0
	}

	started := 0
	for _, d := range batch {
		if r.contains(d) {
			continue
		}
		d.Start()
		r.activeMu.Lock()
		r.active = append(r.active, d)
		r.activeMu.Unlock()
		started++
	}
	if started > 0 {
		r.activeMu.Lock()
		sortByLayer(r.active)
		r.activeMu.Unlock()
	}
	return started
}

func (r *Registry) contains(d Drawable) bool {
	r.activeMu.Lock()
	defer r.activeMu.Unlock()
	return indexOf(r.active, d) >= 0
}

func indexOf(list []Drawable, d Drawable) int {
	for i, x := range list {
		if x == d {
			return i
		}
	}
	return -1
}

// sortByLayer orders by ascending layer; equal layers keep promotion order.
func sortByLayer(list []Drawable) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Layer() < list[j].Layer()
	})
}

// Remove drops d from the active list and from the pending buffer, so it is
// never rendered again unless registered anew. It reports whether d was found
// in either.
func (r *Registry) Remove(d Drawable) (bool, error) {
	if err := r.checkDisposed(); err != nil {
		return false, err
	}
	if err := validDrawable(d); err != nil {
		return false, err
	}
	r.pendingMu.Lock()
	n := len(r.pending)
	r.pending = slices.DeleteFunc(r.pending, func(x Drawable) bool { return x == d })
	found := len(r.pending) != n
	r.pendingMu.Unlock()

	r.activeMu.Lock()
	defer r.activeMu.Unlock()
	if i := indexOf(r.active, d); i >= 0 {
		r.active = slices.Delete(r.active, i, i+1)
		found = true
	}
	return found, nil
}

// Find returns the first active drawable matching pred, in render order.
func (r *Registry) Find(pred func(Drawable) bool) (Drawable, bool, error) {
	if err := r.checkDisposed(); err != nil {
		return nil, false, err
	}
	if pred == nil {
		return nil, false, fmt.Errorf("predicate is nil: %w", ErrInvalidArgument)
	}
	r.activeMu.Lock()
	defer r.activeMu.Unlock()
	for _, d := range r.active {
		if pred(d) {
			return d, true, nil
		}
	}
	return nil, false, nil
}

// Clear drops every active drawable without closing it.
func (r *Registry) Clear() error {
	if err := r.checkDisposed(); err != nil {
		return err
	}
	r.activeMu.Lock()
	clear(r.active)
	r.active = r.active[:0]
	r.activeMu.Unlock()
	return nil
}

// RefreshOrdering re-sorts the active list. Changing a drawable's layer after
// promotion does not reorder it until this is called.
func (r *Registry) RefreshOrdering() error {
	if err := r.checkDisposed(); err != nil {
		return err
	}
	r.activeMu.Lock()
	sortByLayer(r.active)
	r.activeMu.Unlock()
	return nil
}

// Len returns the number of active drawables.
func (r *Registry) Len() int {
	r.activeMu.Lock()
	defer r.activeMu.Unlock()
	return len(r.active)
}

// Snapshot returns a copy of the active list in render order.
func (r *Registry) Snapshot() []Drawable {
	r.activeMu.Lock()
	defer r.activeMu.Unlock()
	out := make([]Drawable, len(r.active))
	copy(out, r.active)
	return out
}

// Render calls Render on every active drawable in layer order. The list is
// snapshotted first so drawables may add or remove drawables while rendering.
// When isolate is false a panicking drawable aborts the pass; when true the
// panic is recovered, the pass continues and the fault is returned.
func (r *Registry) Render(isolate bool) []RenderFault {
	r.activeMu.Lock()
	r.drawBuf = append(r.drawBuf[:0], r.active...)
	r.activeMu.Unlock()
	defer clear(r.drawBuf)

	var faults []RenderFault
	for _, d := range r.drawBuf {
		if !d.Active() {
			continue
		}
		if !isolate {
			d.Render()
			continue
		}
		if err := renderRecover(d); err != nil {
			faults = append(faults, RenderFault{Drawable: d, Err: err})
		}
	}
	return faults
}

func renderRecover(d Drawable) (err error) {
	defer func() {
		if v := recover(); v != nil {
			if e, ok := v.(error); ok {
				err = fmt.Errorf("render %T: %w", d, e)
				return
			}
			err = fmt.Errorf("render %T: %v", d, v)
		}
	}()
	d.Render()
	return nil
}

// Shutdown closes every pending and active drawable that implements io.Closer,
// empties both collections and rejects further use. Close errors are combined.
func (r *Registry) Shutdown() error {
	if !r.disposed.CompareAndSwap(false, true) {
		return nil
	}
	r.pendingMu.Lock()
	pending := r.pending
	r.pending = nil
	r.pendingMu.Unlock()

	r.activeMu.Lock()
	active := r.active
	r.active = nil
	r.activeMu.Unlock()

	var (
		err  error
		seen = make([]Drawable, 0, len(pending)+len(active))
	)
	for _, d := range append(pending, active...) {
		if indexOf(seen, d) >= 0 {
			continue
		}
		seen = append(seen, d)
		c, ok := d.(io.Closer)
		if !ok {
			continue
		}
		if cerr := c.Close(); cerr != nil {
			r.log.Warn("drawable close failed", zap.String("type", fmt.Sprintf("%T", d)), zap.Error(cerr))
			err = multierr.Append(err, fmt.Errorf("close %T: %w", d, cerr))
		}
	}
	r.drawBuf = nil
	return err
}

// Disposed reports whether Shutdown has run.
func (r *Registry) Disposed() bool { return r.disposed.Load() }
