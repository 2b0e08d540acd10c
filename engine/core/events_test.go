package core

import (
	"slices"
	"testing"
)

func TestObserversOrderAndRemoval(t *testing.T) {
	var o observers[int]
	var got []string
	a := o.add(func(v int) { got = append(got, "a") })
	o.add(func(v int) { got = append(got, "b") })
	o.add(nil)

	o.notify(1)
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("notify = %v", got)
	}
	a.Unsubscribe()
	got = got[:0]
	o.notify(2)
	if !slices.Equal(got, []string{"b"}) || o.len() != 1 {
		t.Fatalf("after unsubscribe = %v (len %d)", got, o.len())
	}
	Subscription{}.Unsubscribe()
}

func TestObserversMutateDuringNotify(t *testing.T) {
	var o Observers[string]
	var got []string
	var self Subscription
	self = o.Add(func(s string) {
		got = append(got, "once:"+s)
		self.Unsubscribe()
		o.Add(func(s string) { got = append(got, "late:"+s) })
	})

	o.Notify("x")
	if !slices.Equal(got, []string{"once:x"}) {
		t.Fatalf("first notify = %v", got)
	}
	got = got[:0]
	o.Notify("y")
	if !slices.Equal(got, []string{"late:y"}) {
		t.Fatalf("second notify = %v", got)
	}
	o.Clear()
	if o.Len() != 0 {
		t.Fatal("Clear left observers")
	}
}
