package core

import "sync"

// Subscription removes a registered observer.
type Subscription struct {
	id     uint64
	remove func(uint64)
}

// Unsubscribe stops further notifications. Safe to call more than once and on
// the zero Subscription.
func (s Subscription) Unsubscribe() {
	if s.remove != nil {
		s.remove(s.id)
	}
}

type observer[T any] struct {
	id uint64
	fn func(T)
}

// observers is a copy-on-write observer list. Subscribe/unsubscribe may come
// from any goroutine; notify runs the handlers in registration order on the
// caller's goroutine without holding the lock, so handlers may (un)subscribe.
type observers[T any] struct {
	mu   sync.Mutex
	next uint64
	list []observer[T]
}

func (o *observers[T]) add(fn func(T)) Subscription {
	if fn == nil {
		return Subscription{}
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.next++
	id := o.next
	l := make([]observer[T], len(o.list), len(o.list)+1)
	copy(l, o.list)
	o.list = append(l, observer[T]{id: id, fn: fn})
	return Subscription{id: id, remove: o.remove}
}

func (o *observers[T]) remove(id uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, ob := range o.list {
		if ob.id != id {
			continue
		}
		l := make([]observer[T], 0, len(o.list)-1)
		l = append(l, o.list[:i]...)
		o.list = append(l, o.list[i+1:]...)
		return
	}
}

func (o *observers[T]) notify(v T) {
	o.mu.Lock()
	l := o.list
	o.mu.Unlock()
	for _, ob := range l {
		ob.fn(v)
	}
}

func (o *observers[T]) len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.list)
}

func (o *observers[T]) clear() {
	o.mu.Lock()
	o.list = nil
	o.mu.Unlock()
}

// hooks adapts argument-less callbacks onto an observer list.
type hooks struct{ observers[struct{}] }

func (h *hooks) addFunc(fn func()) Subscription {
	if fn == nil {
		return Subscription{}
	}
	return h.add(func(struct{}) { fn() })
}

func (h *hooks) fire() { h.notify(struct{}{}) }

// Observers is an observer list for packages building on core. The zero
// value is ready to use.
type Observers[T any] struct{ o observers[T] }

func (x *Observers[T]) Add(fn func(T)) Subscription { return x.o.add(fn) }
func (x *Observers[T]) Notify(v T)                  { x.o.notify(v) }
func (x *Observers[T]) Len() int                    { return x.o.len() }
func (x *Observers[T]) Clear()                      { x.o.clear() }
