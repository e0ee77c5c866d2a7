// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"errors"

	"github.com/galacticcouncil/Basilisk-node-sub002/state"
)

// ErrInvalidKeyValue is returned for a malformed key or a value exceeding
// the chunk budget of its key.
var ErrInvalidKeyValue = errors.New("invalid key or value")

// Atomic runs [f] against a fresh view over [mu]. Changes reach [mu] only
// if [f] returns nil; otherwise every write made by [f] is discarded.
func Atomic(ctx context.Context, mu state.Mutable, f func(state.Mutable) error) error {
	view := New(mu)
	if err := f(view); err != nil {
		return err
	}
	return view.Commit(ctx, mu)
}
