// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"context"
	"errors"
)

// Emitter buffers events raised during a call. Events of a failed call are
// dropped with [Rollback]; surviving events reach subscribers on [Flush].
//
// Emitter is not safe for concurrent use.
type Emitter[T any] struct {
	subs    []Subscription[T]
	pending []T
}

func NewEmitter[T any](subs ...Subscription[T]) *Emitter[T] {
	return &Emitter[T]{subs: subs}
}

// Subscribe adds [sub] to the set of subscribers notified on [Flush].
func (e *Emitter[T]) Subscribe(sub Subscription[T]) {
	e.subs = append(e.subs, sub)
}

func (e *Emitter[T]) Emit(t T) {
	e.pending = append(e.pending, t)
}

// Mark returns a restore point for [Rollback].
func (e *Emitter[T]) Mark() int {
	return len(e.pending)
}

// Rollback drops every event emitted after [mark].
func (e *Emitter[T]) Rollback(mark int) {
	if mark < len(e.pending) {
		e.pending = e.pending[:mark]
	}
}

// Pending returns the buffered events in emission order.
func (e *Emitter[T]) Pending() []T {
	return e.pending
}

// Flush delivers buffered events to every subscriber and clears the buffer.
func (e *Emitter[T]) Flush(ctx context.Context) error {
	var errs []error
	for _, t := range e.pending {
		if err := NotifyAll(ctx, t, e.subs...); err != nil {
			errs = append(errs, err)
		}
	}
	e.pending = nil
	return errors.Join(errs...)
}

// Close closes all subscribers.
func (e *Emitter[T]) Close() error {
	var errs []error
	for _, sub := range e.subs {
		if err := sub.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
