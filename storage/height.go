// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"

	"github.com/galacticcouncil/Basilisk-node-sub002/consts"
	"github.com/galacticcouncil/Basilisk-node-sub002/keys"
	"github.com/galacticcouncil/Basilisk-node-sub002/state"
)

func HeightKey() []byte {
	return keys.EncodeChunks([]byte{heightPrefix}, HeightChunks)
}

func GetBlockHeight(ctx context.Context, im state.Immutable) (uint64, error) {
	return getUint64(ctx, im, HeightKey())
}

func SetBlockHeight(ctx context.Context, mu state.Mutable, height uint64) error {
	v := make([]byte, consts.Uint64Len)
	binary.BigEndian.PutUint64(v, height)
	return mu.Insert(ctx, HeightKey(), v)
}

// HeightProvider reads the current block number from state.
type HeightProvider struct{}

func (HeightProvider) CurrentBlockNumber(ctx context.Context, im state.Immutable) (uint64, error) {
	return GetBlockHeight(ctx, im)
}
