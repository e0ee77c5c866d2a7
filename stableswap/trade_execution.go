// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package stableswap

import (
	"context"

	"github.com/galacticcouncil/Basilisk-node-sub002/amm"
	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/state"
)

var _ amm.TradeExecution = (*Engine)(nil)

// CalculateSell returns what the trader receives for [amountIn], net of
// the trade fee.
func (e *Engine) CalculateSell(
	ctx context.Context,
	im state.Immutable,
	pool amm.PoolType,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amountIn uint64,
) (uint64, error) {
	if pool.Kind != amm.StableswapKind {
		return 0, amm.ErrNotSupported
	}
	m, err := e.loadMarket(ctx, im, pool.ShareAsset, assetIn, assetOut, amountIn)
	if err != nil {
		return 0, err
	}
	out, _, err := m.quoteSell(amountIn)
	return out, err
}

// CalculateBuy returns what the trader pays, fee included, for
// [amountOut].
func (e *Engine) CalculateBuy(
	ctx context.Context,
	im state.Immutable,
	pool amm.PoolType,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amountOut uint64,
) (uint64, error) {
	if pool.Kind != amm.StableswapKind {
		return 0, amm.ErrNotSupported
	}
	m, err := e.loadMarket(ctx, im, pool.ShareAsset, assetIn, assetOut, amountOut)
	if err != nil {
		return 0, err
	}
	in, _, err := m.quoteBuy(amountOut)
	return in, err
}

func (e *Engine) ExecuteSell(
	ctx context.Context,
	mu state.Mutable,
	who codec.Address,
	pool amm.PoolType,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amountIn uint64,
	minAmountOut uint64,
) error {
	if pool.Kind != amm.StableswapKind {
		return amm.ErrNotSupported
	}
	return e.sell(ctx, mu, who, pool.ShareAsset, assetIn, assetOut, amountIn, minAmountOut)
}

func (e *Engine) ExecuteBuy(
	ctx context.Context,
	mu state.Mutable,
	who codec.Address,
	pool amm.PoolType,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amountOut uint64,
	maxAmountIn uint64,
) error {
	if pool.Kind != amm.StableswapKind {
		return amm.ErrNotSupported
	}
	return e.buy(ctx, mu, who, pool.ShareAsset, assetIn, assetOut, amountOut, maxAmountIn)
}

// GetLiquidityDepth returns the reserve of [assetB] in the pool.
func (*Engine) GetLiquidityDepth(
	ctx context.Context,
	im state.Immutable,
	pool amm.PoolType,
	_ codec.AssetID,
	assetB codec.AssetID,
) (uint64, error) {
	if pool.Kind != amm.StableswapKind {
		return 0, amm.ErrNotSupported
	}
	p, exists, err := GetPool(ctx, im, pool.ShareAsset)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrPoolNotFound
	}
	idx, ok := p.Find(assetB)
	if !ok {
		return 0, ErrAssetNotInPool
	}
	rs, err := reserves(ctx, im, p.Account(pool.ShareAsset), p.Assets)
	if err != nil {
		return 0, err
	}
	return rs[idx], nil
}
