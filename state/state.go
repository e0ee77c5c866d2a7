// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

// Package state defines the key/value view every engine reads and writes.
package state

import "context"

// Immutable reads state. A missing key returns database.ErrNotFound.
type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

// Mutable reads and writes state. Engines receive a Mutable scoped to one
// operation.
type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
}
