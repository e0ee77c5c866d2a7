// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/galacticcouncil/Basilisk-node-sub002/keys"
	"github.com/galacticcouncil/Basilisk-node-sub002/state"
)

const defaultOps = 16

var _ state.Mutable = (*TStateView)(nil)

type op struct {
	k string

	pastExists  bool
	pastV       []byte
	pastChanged bool
}

// TStateView buffers writes on top of a parent state. Nothing reaches the
// parent until [Commit] is called.
type TStateView struct {
	parent             state.Immutable
	pendingChangedKeys map[string]maybe.Maybe[[]byte]

	// Ops is a record of all operations performed on the view. Tracking
	// operations allows for reverting state to a certain point-in-time.
	ops []*op
}

func New(parent state.Immutable) *TStateView {
	return &TStateView{
		parent:             parent,
		pendingChangedKeys: make(map[string]maybe.Maybe[[]byte]),
		ops:                make([]*op, 0, defaultOps),
	}
}

// Rollback restores the view to the ts.ops[restorePoint] operation.
func (ts *TStateView) Rollback(_ context.Context, restorePoint int) {
	for i := len(ts.ops) - 1; i >= restorePoint; i-- {
		op := ts.ops[i]

		// Key was untouched before this op: drop it from the view.
		if !op.pastChanged {
			delete(ts.pendingChangedKeys, op.k)
			continue
		}

		// Key was deleted earlier in this view.
		if !op.pastExists {
			ts.pendingChangedKeys[op.k] = maybe.Nothing[[]byte]()
			continue
		}

		ts.pendingChangedKeys[op.k] = maybe.Some(op.pastV)
	}
	ts.ops = ts.ops[:restorePoint]
}

// OpIndex returns the number of operations done on ts.
func (ts *TStateView) OpIndex() int {
	return len(ts.ops)
}

// PendingChanges returns the number of keys modified in the view.
func (ts *TStateView) PendingChanges() int {
	return len(ts.pendingChangedKeys)
}

// GetValue returns the value associated with [key], consulting pending
// writes before the parent.
func (ts *TStateView) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	v, _, exists, err := ts.getValue(ctx, string(key))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, database.ErrNotFound
	}
	return v, nil
}

func (ts *TStateView) getValue(ctx context.Context, key string) ([]byte, bool, bool, error) {
	if v, ok := ts.pendingChangedKeys[key]; ok {
		if v.IsNothing() {
			return nil, true, false, nil
		}
		return v.Value(), true, true, nil
	}
	v, err := ts.parent.GetValue(ctx, []byte(key))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, false, nil
	}
	if err != nil {
		return nil, false, false, err
	}
	return v, false, true, nil
}

// Insert sets or updates [key] to [value].
//
// Any bytes passed into [Insert] will be consumed by the view and should
// not be modified/referenced after this call.
func (ts *TStateView) Insert(ctx context.Context, key []byte, value []byte) error {
	if !keys.VerifyValue(key, value) {
		return ErrInvalidKeyValue
	}
	k := string(key)
	past, changed, exists, err := ts.getValue(ctx, k)
	if err != nil {
		return err
	}
	ts.pendingChangedKeys[k] = maybe.Some(value)
	ts.ops = append(ts.ops, &op{
		k:           k,
		pastExists:  exists,
		pastV:       past,
		pastChanged: changed,
	})
	return nil
}

// Remove deletes [key] from the view.
func (ts *TStateView) Remove(ctx context.Context, key []byte) error {
	k := string(key)
	past, changed, exists, err := ts.getValue(ctx, k)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	ts.pendingChangedKeys[k] = maybe.Nothing[[]byte]()
	ts.ops = append(ts.ops, &op{
		k:           k,
		pastExists:  true,
		pastV:       past,
		pastChanged: changed,
	})
	return nil
}

// Commit writes all pending changes to [mu] in key order and resets the
// view.
func (ts *TStateView) Commit(ctx context.Context, mu state.Mutable) error {
	changed := maps.Keys(ts.pendingChangedKeys)
	slices.Sort(changed)
	for _, k := range changed {
		v := ts.pendingChangedKeys[k]
		if v.IsNothing() {
			if err := mu.Remove(ctx, []byte(k)); err != nil {
				return err
			}
			continue
		}
		if err := mu.Insert(ctx, []byte(k), v.Value()); err != nil {
			return err
		}
	}
	ts.pendingChangedKeys = make(map[string]maybe.Maybe[[]byte])
	ts.ops = ts.ops[:0]
	return nil
}
