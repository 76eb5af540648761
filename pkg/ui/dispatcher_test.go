package ui

import (
	"slices"
	"testing"
)

func TestDispatcherOrder(t *testing.T) {
	d := NewDispatcher()
	var got []string
	d.Subscribe(KeyEnter, func(Event) bool { got = append(got, "a"); return false })
	d.Subscribe(KeyEnter, func(Event) bool { got = append(got, "b"); return false })
	d.Subscribe(KeyEscape, func(Event) bool { got = append(got, "esc"); return false })

	if d.Dispatch(KeyEnter) {
		t.Error("Dispatch() = true, want false when no handler consumes")
	}
	if want := []string{"a", "b"}; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDispatcherConsume(t *testing.T) {
	d := NewDispatcher()
	var second bool
	d.Subscribe(KeyEnter, func(Event) bool { return true })
	d.Subscribe(KeyEnter, func(Event) bool { second = true; return false })

	if !d.Dispatch(KeyEnter) {
		t.Error("Dispatch() = false, want true")
	}
	if second {
		t.Error("second handler called after event was consumed")
	}
}

func TestDispatcherUnsubscribe(t *testing.T) {
	d := NewDispatcher()
	calls := 0
	unsub := d.Subscribe(KeyLeft, func(Event) bool { calls++; return false })
	d.Subscribe(KeyLeft, func(Event) bool { return false })

	d.Dispatch(KeyLeft)
	unsub()
	unsub()
	d.Dispatch(KeyLeft)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if n := d.Handlers(KeyLeft); n != 1 {
		t.Errorf("Handlers() = %d, want 1", n)
	}
}

func TestDispatcherSeq(t *testing.T) {
	d := NewDispatcher()
	var seqs []uint64
	d.Subscribe(KeyEnter, func(ev Event) bool { seqs = append(seqs, ev.Seq); return false })
	d.Dispatch(KeyEnter)
	d.Dispatch(KeyEscape)
	d.Dispatch(KeyEnter)

	if want := []uint64{1, 3}; !slices.Equal(seqs, want) {
		t.Errorf("seqs = %v, want %v", seqs, want)
	}
}
