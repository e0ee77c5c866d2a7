// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package amm

import (
	"context"

	"github.com/galacticcouncil/Basilisk-node-sub002/state"
	"github.com/galacticcouncil/Basilisk-node-sub002/tstate"
)

// Transactional runs [f] over a fresh view of [mu]. State changes and
// events raised by [f] survive only if it returns nil.
func Transactional(ctx context.Context, mu state.Mutable, emitter *Emitter, f func(state.Mutable) error) error {
	mark := emitter.Mark()
	if err := tstate.Atomic(ctx, mu, f); err != nil {
		emitter.Rollback(mark)
		return err
	}
	return nil
}
