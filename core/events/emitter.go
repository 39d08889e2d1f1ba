// Package events provides a simple event emitter.
package events

import (
	"io"

	"github.com/chuckpreslar/emission"
)

// Emitter is a simple event emitter.
// On and Once return an io.Closer that cancels the callback registration.
// A nil *Emitter is valid and drops every event.
type Emitter struct {
	*emission.Emitter
}

// NewEmitter creates a simple event emitter.
func NewEmitter() *Emitter {
	return &Emitter{
		Emitter: emission.NewEmitter(),
	}
}

// On registers a callback when an event occurs.
func (emitter *Emitter) On(event, listener any) io.Closer {
	emitter.Emitter.On(event, listener)
	return canceler{emitter.Emitter, event, listener}
}

// Once registers a one-time callback when an event occurs.
func (emitter *Emitter) Once(event, listener any) io.Closer {
	emitter.Emitter.Once(event, listener)
	return canceler{emitter.Emitter, event, listener}
}

// Emit invokes callbacks registered for an event concurrently and waits for them to return.
func (emitter *Emitter) Emit(event any, args ...any) {
	if emitter == nil || emitter.Emitter == nil {
		return
	}
	emitter.Emitter.Emit(event, args...)
}

// Listeners returns the number of callbacks registered for an event.
func (emitter *Emitter) Listeners(event any) int {
	if emitter == nil || emitter.Emitter == nil {
		return 0
	}
	return emitter.GetListenerCount(event)
}

type canceler struct {
	emitter  *emission.Emitter
	event    any
	listener any
}

func (c canceler) Close() error {
	c.emitter.Off(c.event, c.listener)
	return nil
}

// Topic is an event on an Emitter whose callbacks receive one argument of type T.
// Callbacks run sequentially in registration order on the emitting goroutine.
type Topic[T any] struct {
	emitter *Emitter
	event   any
}

// NewTopic binds an event on an emitter.
func NewTopic[T any](emitter *Emitter, event any) Topic[T] {
	return Topic[T]{emitter, event}
}

// On registers a callback.
func (t Topic[T]) On(cb func(T)) io.Closer {
	return t.emitter.On(t.event, cb)
}

// Active reports whether any callback is registered.
func (t Topic[T]) Active() bool {
	return t.emitter.Listeners(t.event) > 0
}

// Emit invokes every callback with v.
func (t Topic[T]) Emit(v T) {
	if !t.Active() {
		return
	}
	t.emitter.EmitSync(t.event, v)
}
