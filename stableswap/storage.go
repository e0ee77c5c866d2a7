// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package stableswap

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"golang.org/x/exp/slices"

	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/config"
	"github.com/galacticcouncil/Basilisk-node-sub002/consts"
	"github.com/galacticcouncil/Basilisk-node-sub002/keys"
	"github.com/galacticcouncil/Basilisk-node-sub002/pricing"
	"github.com/galacticcouncil/Basilisk-node-sub002/state"
	"github.com/galacticcouncil/Basilisk-node-sub002/storage"
	"github.com/galacticcouncil/Basilisk-node-sub002/utils"
)

const (
	poolChunks  uint16 = 2
	maxPoolSize        = consts.ByteLen + config.MaxStableswapAssets*consts.Uint32Len + consts.Uint64Len + 2*consts.Uint32Len
)

var poolAccountSeed = []byte("sts")

// Pool is the record of a stableswap pool. The pool is identified by its
// share asset.
type Pool struct {
	Assets        []codec.AssetID `json:"assets"`
	Amplification uint64          `json:"amplification"`
	TradeFee      pricing.Permill `json:"tradeFee"`
	WithdrawFee   pricing.Permill `json:"withdrawFee"`
}

// Find returns the index of [asset] in the pool.
func (p *Pool) Find(asset codec.AssetID) (int, bool) {
	i := slices.Index(p.Assets, asset)
	return i, i >= 0
}

// PoolAccount derives the account holding the reserves of pool [id].
func PoolAccount(id codec.AssetID, assets []codec.AssetID) codec.Address {
	seed := make([]byte, 0, len(poolAccountSeed)+consts.Uint32Len*(len(assets)+1))
	seed = append(seed, poolAccountSeed...)
	seed = append(seed, id.Bytes()...)
	for _, asset := range assets {
		seed = append(seed, asset.Bytes()...)
	}
	return codec.CreateAddress(codec.PoolTypeID, utils.ToID(seed))
}

// Account returns the account holding the reserves of the pool.
func (p *Pool) Account(id codec.AssetID) codec.Address {
	return PoolAccount(id, p.Assets)
}

// [StableswapPoolPrefix] + [share asset]
func PoolKey(id codec.AssetID) []byte {
	k := make([]byte, 0, 1+consts.Uint32Len+consts.Uint16Len)
	k = append(k, storage.StableswapPoolPrefix)
	k = append(k, id.Bytes()...)
	return keys.EncodeChunks(k, poolChunks)
}

// GetPool returns the pool whose share asset is [id], if any.
func GetPool(ctx context.Context, im state.Immutable, id codec.AssetID) (*Pool, bool, error) {
	v, err := im.GetValue(ctx, PoolKey(id))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	p := codec.NewReader(v, maxPoolSize)
	pool := &Pool{
		Assets:        p.UnpackAssets(config.MaxStableswapAssets),
		Amplification: p.UnpackUint64(true),
	}
	pool.TradeFee = pricing.Permill(p.UnpackUint32())
	pool.WithdrawFee = pricing.Permill(p.UnpackUint32())
	if err := p.Err(); err != nil {
		return nil, false, err
	}
	return pool, true, nil
}

func setPool(ctx context.Context, mu state.Mutable, id codec.AssetID, pool *Pool) error {
	size := consts.ByteLen + len(pool.Assets)*consts.Uint32Len + consts.Uint64Len + 2*consts.Uint32Len
	p := codec.NewWriter(size, maxPoolSize)
	p.PackAssets(pool.Assets)
	p.PackUint64(pool.Amplification)
	p.PackUint32(uint32(pool.TradeFee))
	p.PackUint32(uint32(pool.WithdrawFee))
	if err := p.Err(); err != nil {
		return err
	}
	return mu.Insert(ctx, PoolKey(id), p.Bytes())
}

// reserves returns the balance of every pool asset held by [account], in
// pool order.
func reserves(ctx context.Context, im state.Immutable, account codec.Address, assets []codec.AssetID) ([]uint64, error) {
	out := make([]uint64, len(assets))
	for i, asset := range assets {
		b, err := storage.GetBalance(ctx, im, asset, account)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}
