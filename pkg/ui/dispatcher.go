package ui

import "slices"

// Key identifies an input.
type Key string

// Keys used by the default bindings.
const (
	KeyEscape     Key = "esc"
	KeyRightClick Key = "mouse2"
	KeyLeft       Key = "a"
	KeyRight      Key = "d"
	KeyEnter      Key = "enter"
)

// Event is a delivered input. Seq increases by one per dispatched event and
// starts at 1, so the zero Event never collides with a real one.
type Event struct {
	Key Key
	Seq uint64
}

// Handler reacts to an event. Returning true consumes the event and stops
// delivery to later handlers.
type Handler func(Event) bool

type subscription struct {
	id uint64
	fn Handler
}

// Dispatcher delivers key events to subscribed handlers in subscription order.
type Dispatcher struct {
	subs   map[Key][]subscription
	nextID uint64
	seq    uint64
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{subs: make(map[Key][]subscription)}
}

// Subscribe registers fn for key and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (d *Dispatcher) Subscribe(key Key, fn Handler) (unsubscribe func()) {
	d.nextID++
	id := d.nextID
	d.subs[key] = append(d.subs[key], subscription{id: id, fn: fn})
	return func() {
		d.subs[key] = slices.DeleteFunc(d.subs[key], func(s subscription) bool { return s.id == id })
	}
}

// Dispatch delivers key and reports whether a handler consumed it.
func (d *Dispatcher) Dispatch(key Key) bool {
	d.seq++
	ev := Event{Key: key, Seq: d.seq}
	// Copy so handlers may subscribe or unsubscribe while being called.
	for _, s := range slices.Clone(d.subs[key]) {
		if s.fn(ev) {
			return true
		}
	}
	return false
}

// Handlers returns the number of handlers bound to key.
func (d *Dispatcher) Handlers(key Key) int { return len(d.subs[key]) }
