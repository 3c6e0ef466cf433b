package event

import (
	"fmt"
	"sync"
)

// Handler receives events.
type Handler func(Event)

// Subscription represents an active subscription.
type Subscription interface {
	// Unsubscribe removes the subscription. Calling it twice is harmless.
	Unsubscribe()

	// Pause temporarily stops delivery.
	Pause()

	// Resume continues delivery after pause.
	Resume()

	// IsPaused returns true if the subscription is paused.
	IsPaused() bool
}

// Dispatcher fans events out to subscribers in subscription order.
type Dispatcher struct {
	mu     sync.RWMutex
	subs   []*subscription
	nextID int

	// OnError is called when a handler panics.
	OnError func(evt Event, err error)
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

type subscription struct {
	id      int
	types   map[Type]struct{} // empty = all types
	handler Handler
	d       *Dispatcher

	mu     sync.Mutex
	paused bool
}

// Subscribe registers handler for the given types, or for every type when
// none are given.
func (d *Dispatcher) Subscribe(handler Handler, types ...Type) Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	sub := &subscription{
		id:      d.nextID,
		types:   make(map[Type]struct{}, len(types)),
		handler: handler,
		d:       d,
	}
	for _, t := range types {
		sub.types[t] = struct{}{}
	}
	d.subs = append(d.subs, sub)
	return sub
}

// Publish delivers events to every matching subscriber before returning.
func (d *Dispatcher) Publish(events ...Event) {
	if d == nil || len(events) == 0 {
		return
	}
	d.mu.RLock()
	subs := make([]*subscription, len(d.subs))
	copy(subs, d.subs)
	d.mu.RUnlock()

	for _, evt := range events {
		for _, sub := range subs {
			if sub.matches(evt.Type) {
				d.deliver(sub, evt)
			}
		}
	}
}

// Len returns the number of subscriptions.
func (d *Dispatcher) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subs)
}

func (d *Dispatcher) deliver(sub *subscription, evt Event) {
	defer func() {
		if r := recover(); r != nil && d.OnError != nil {
			d.OnError(evt, fmt.Errorf("handler panic: %v", r))
		}
	}()
	sub.handler(evt)
}

func (s *subscription) matches(t Type) bool {
	s.mu.Lock()
	paused := s.paused
	s.mu.Unlock()
	if paused {
		return false
	}
	if len(s.types) == 0 {
		return true
	}
	_, ok := s.types[t]
	return ok
}

// Unsubscribe removes the subscription.
func (s *subscription) Unsubscribe() {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	for i, other := range s.d.subs {
		if other.id == s.id {
			s.d.subs = append(s.d.subs[:i], s.d.subs[i+1:]...)
			return
		}
	}
}

// Pause temporarily stops delivery.
func (s *subscription) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
}

// Resume continues delivery after pause.
func (s *subscription) Resume() {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
}

// IsPaused returns true if the subscription is paused.
func (s *subscription) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}
