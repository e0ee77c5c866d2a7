// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

// Package event delivers the events of committed operations to
// subscribers.
package event

import (
	"context"
	"errors"
)

var _ Subscription[struct{}] = (*SubscriptionFunc[struct{}])(nil)

// Subscription consumes events after the operation raising them commits.
type Subscription[T any] interface {
	// Accept returns fatal errors
	Accept(ctx context.Context, t T) error
	// Close returns fatal errors
	Close() error
}

// SubscriptionFunc adapts a function to a [Subscription] with nothing to
// close.
type SubscriptionFunc[T any] struct {
	AcceptF func(ctx context.Context, t T) error
}

func (s SubscriptionFunc[T]) Accept(ctx context.Context, t T) error {
	return s.AcceptF(ctx, t)
}

func (SubscriptionFunc[_]) Close() error {
	return nil
}

// NotifyAll hands [e] to every subscriber, even after one fails, and joins
// their errors.
func NotifyAll[T any](ctx context.Context, e T, subs ...Subscription[T]) error {
	var errs []error
	for _, sub := range subs {
		if err := sub.Accept(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
