// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package xyk

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/galacticcouncil/Basilisk-node-sub002/amm"
	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/consts"
	"github.com/galacticcouncil/Basilisk-node-sub002/keys"
	"github.com/galacticcouncil/Basilisk-node-sub002/state"
	"github.com/galacticcouncil/Basilisk-node-sub002/storage"
	"github.com/galacticcouncil/Basilisk-node-sub002/utils"
)

const (
	poolChunks uint16 = 1
	poolSize          = 3*consts.Uint32Len + consts.Uint64Len
)

var poolAccountSeed = []byte("xyk")

// Pool is the record kept for every pair. Reserves are the balances of
// the pool account.
type Pool struct {
	AssetA         codec.AssetID `json:"assetA"`
	AssetB         codec.AssetID `json:"assetB"`
	ShareToken     codec.AssetID `json:"shareToken"`
	TotalLiquidity uint64        `json:"totalLiquidity"`
}

// PoolAccount derives the account holding the reserves of the pair.
// The order of the assets does not matter.
func PoolAccount(assetA, assetB codec.AssetID) codec.Address {
	pair := amm.AssetPair{AssetIn: assetA, AssetOut: assetB}
	seed := append(append([]byte{}, poolAccountSeed...), pair.Bytes()...)
	return codec.CreateAddress(codec.PoolTypeID, utils.ToID(seed))
}

// ShareTokenName is the registry name of the share token of the pair.
func ShareTokenName(assetA, assetB codec.AssetID) []byte {
	a, b := amm.AssetPair{AssetIn: assetA, AssetOut: assetB}.Ordered()
	return []byte(fmt.Sprintf("xyk:%s:%s", a, b))
}

// [XYKPoolPrefix] + [pool account]
func PoolKey(account codec.Address) []byte {
	k := make([]byte, 0, 1+codec.AddressLen+consts.Uint16Len)
	k = append(k, storage.XYKPoolPrefix)
	k = append(k, account[:]...)
	return keys.EncodeChunks(k, poolChunks)
}

// GetPool returns the pool of the pair, if any.
func GetPool(ctx context.Context, im state.Immutable, assetA, assetB codec.AssetID) (*Pool, bool, error) {
	return getPool(ctx, im, PoolAccount(assetA, assetB))
}

func getPool(ctx context.Context, im state.Immutable, account codec.Address) (*Pool, bool, error) {
	v, err := im.GetValue(ctx, PoolKey(account))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	p := codec.NewReader(v, poolSize)
	pool := &Pool{
		AssetA:     p.UnpackAsset(),
		AssetB:     p.UnpackAsset(),
		ShareToken: p.UnpackAsset(),
	}
	pool.TotalLiquidity = p.UnpackUint64(false)
	if err := p.Err(); err != nil {
		return nil, false, err
	}
	return pool, true, nil
}

func setPool(ctx context.Context, mu state.Mutable, account codec.Address, pool *Pool) error {
	p := codec.NewWriter(poolSize, poolSize)
	p.PackAsset(pool.AssetA)
	p.PackAsset(pool.AssetB)
	p.PackAsset(pool.ShareToken)
	p.PackUint64(pool.TotalLiquidity)
	if err := p.Err(); err != nil {
		return err
	}
	return mu.Insert(ctx, PoolKey(account), p.Bytes())
}

func deletePool(ctx context.Context, mu state.Mutable, account codec.Address) error {
	return mu.Remove(ctx, PoolKey(account))
}

// reserves returns the balances of [assetIn] and [assetOut] held by
// [account].
func reserves(ctx context.Context, im state.Immutable, account codec.Address, assetIn, assetOut codec.AssetID) (uint64, uint64, error) {
	in, err := storage.GetBalance(ctx, im, assetIn, account)
	if err != nil {
		return 0, 0, err
	}
	out, err := storage.GetBalance(ctx, im, assetOut, account)
	if err != nil {
		return 0, 0, err
	}
	return in, out, nil
}
