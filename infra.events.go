package main

import (
	"sync"
)

// ChangeOp names the operation which changed the collection.
type ChangeOp string

const (
	ChangeLoad   ChangeOp = "load"
	ChangeAdd    ChangeOp = "add"
	ChangeToggle ChangeOp = "toggle"
	ChangeRemove ChangeOp = "remove"
)

// ChangeEvent notifies that the collection changed. Receivers are
// expected to read the current state instead of relying on the event.
type ChangeEvent struct {
	Op     ChangeOp `json:"op"`
	BookID int64    `json:"bookId,omitempty"`
}

// ChangePublisher broadcasts change notifications.
type ChangePublisher interface {
	Publish(ev ChangeEvent)
}

// Ensure *ChangeBroker implements ChangePublisher.
var _ ChangePublisher = (*ChangeBroker)(nil)

// ChangeBroker fans change events out to attached listeners then to
// subscribers channels. Listeners are called in the publishing goroutine,
// so their work is done when Publish returns. Channel delivery never
// blocks: an event is dropped for a subscriber whose buffer is full,
// since that subscriber already has a notification pending.
type ChangeBroker struct {
	mu        sync.RWMutex
	listeners []ChangePublisher
	subs      map[uint64]chan ChangeEvent
	next      uint64
	closed    bool
}

// NewChangeBroker provides a ready to use broker.
func NewChangeBroker() *ChangeBroker {
	return &ChangeBroker{subs: make(map[uint64]chan ChangeEvent)}
}

// Attach registers a listener called synchronously on each publication,
// in attachment order. Listeners must not publish.
func (b *ChangeBroker) Attach(l ChangePublisher) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

// Subscribe registers a new subscriber with a channel buffer of the given
// size (at least 1). The returned func unsubscribes and closes the channel.
func (b *ChangeBroker) Subscribe(buffer int) (<-chan ChangeEvent, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan ChangeEvent, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.next
	b.next++
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// Publish hands ev to every listener then delivers it to every subscriber
// without blocking.
func (b *ChangeBroker) Publish(ev ChangeEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, l := range b.listeners {
		l.Publish(ev)
	}
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Close closes every subscriber channel. Later publications are ignored.
func (b *ChangeBroker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
