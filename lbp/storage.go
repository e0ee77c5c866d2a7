// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package lbp

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"

	"github.com/galacticcouncil/Basilisk-node-sub002/amm"
	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/consts"
	"github.com/galacticcouncil/Basilisk-node-sub002/keys"
	"github.com/galacticcouncil/Basilisk-node-sub002/pricing"
	"github.com/galacticcouncil/Basilisk-node-sub002/state"
	"github.com/galacticcouncil/Basilisk-node-sub002/storage"
	"github.com/galacticcouncil/Basilisk-node-sub002/utils"
)

const (
	poolChunks uint16 = 2
	poolSize          = 2*codec.AddressLen + 4*consts.Uint64Len + 6*consts.Uint32Len + consts.ByteLen
)

var poolAccountSeed = []byte("lbp")

// WeightCurve selects how weights move between start and end.
type WeightCurve uint8

const Linear WeightCurve = 0

// Pool is the record of a liquidity bootstrapping pool. AssetA is the
// accumulated asset and carries the interpolated weight; AssetB is the
// distributed asset and carries the remainder.
type Pool struct {
	Owner         codec.Address `json:"owner"`
	Start         uint64        `json:"start"`
	End           uint64        `json:"end"`
	AssetA        codec.AssetID `json:"assetA"`
	AssetB        codec.AssetID `json:"assetB"`
	InitialWeight uint32        `json:"initialWeight"`
	FinalWeight   uint32        `json:"finalWeight"`
	WeightCurve   WeightCurve   `json:"weightCurve"`
	Fee           pricing.Fee   `json:"fee"`
	FeeCollector  codec.Address `json:"feeCollector"`
	RepayTarget   uint64        `json:"repayTarget"`
	// Repaid is the amount of the accumulated asset collected as fees.
	Repaid uint64 `json:"repaid"`
}

// Scheduled reports whether the sale has a block range.
func (p *Pool) Scheduled() bool {
	return p.Start != 0 || p.End != 0
}

// PoolAccount derives the account holding the reserves of the pair.
func PoolAccount(assetA, assetB codec.AssetID) codec.Address {
	pair := amm.AssetPair{AssetIn: assetA, AssetOut: assetB}
	seed := append(append([]byte{}, poolAccountSeed...), pair.Bytes()...)
	return codec.CreateAddress(codec.PoolTypeID, utils.ToID(seed))
}

// [LBPPoolPrefix] + [pool account]
func PoolKey(account codec.Address) []byte {
	k := make([]byte, 0, 1+codec.AddressLen+consts.Uint16Len)
	k = append(k, storage.LBPPoolPrefix)
	k = append(k, account[:]...)
	return keys.EncodeChunks(k, poolChunks)
}

// GetPool returns the pool stored for [account], if any.
func GetPool(ctx context.Context, im state.Immutable, account codec.Address) (*Pool, bool, error) {
	v, err := im.GetValue(ctx, PoolKey(account))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	p := codec.NewReader(v, poolSize)
	var pool Pool
	p.UnpackAddress(&pool.Owner)
	pool.Start = p.UnpackUint64(false)
	pool.End = p.UnpackUint64(false)
	pool.AssetA = p.UnpackAsset()
	pool.AssetB = p.UnpackAsset()
	pool.InitialWeight = p.UnpackUint32()
	pool.FinalWeight = p.UnpackUint32()
	pool.WeightCurve = WeightCurve(p.UnpackByte())
	pool.Fee.Numerator = p.UnpackUint32()
	pool.Fee.Denominator = p.UnpackUint32()
	p.UnpackAddress(&pool.FeeCollector)
	pool.RepayTarget = p.UnpackUint64(false)
	pool.Repaid = p.UnpackUint64(false)
	if err := p.Err(); err != nil {
		return nil, false, err
	}
	return &pool, true, nil
}

func setPool(ctx context.Context, mu state.Mutable, account codec.Address, pool *Pool) error {
	p := codec.NewWriter(poolSize, poolSize)
	p.PackAddress(pool.Owner)
	p.PackUint64(pool.Start)
	p.PackUint64(pool.End)
	p.PackAsset(pool.AssetA)
	p.PackAsset(pool.AssetB)
	p.PackUint32(pool.InitialWeight)
	p.PackUint32(pool.FinalWeight)
	p.PackByte(uint8(pool.WeightCurve))
	p.PackUint32(pool.Fee.Numerator)
	p.PackUint32(pool.Fee.Denominator)
	p.PackAddress(pool.FeeCollector)
	p.PackUint64(pool.RepayTarget)
	p.PackUint64(pool.Repaid)
	if err := p.Err(); err != nil {
		return err
	}
	return mu.Insert(ctx, PoolKey(account), p.Bytes())
}

func deletePool(ctx context.Context, mu state.Mutable, account codec.Address) error {
	return mu.Remove(ctx, PoolKey(account))
}

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
