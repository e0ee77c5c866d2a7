// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package lbp

import (
	"context"

	"github.com/galacticcouncil/Basilisk-node-sub002/amm"
	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/state"
)

var _ amm.TradeExecution = (*Engine)(nil)

// CalculateSell returns what the trader receives for [amountIn].
func (e *Engine) CalculateSell(
	ctx context.Context,
	im state.Immutable,
	pool amm.PoolType,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amountIn uint64,
) (uint64, error) {
	if pool.Kind != amm.LBPKind {
		return 0, amm.ErrNotSupported
	}
	m, err := e.loadMarket(ctx, im, assetIn, assetOut, amountIn)
	if err != nil {
		return 0, err
	}
	t, err := e.quoteSell(m, codec.EmptyAddress, assetIn, assetOut, amountIn)
	if err != nil {
		return 0, err
	}
	return t.AmountOut, nil
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
	if pool.Kind != amm.LBPKind {
		return 0, amm.ErrNotSupported
	}
	m, err := e.loadMarket(ctx, im, assetIn, assetOut, amountOut)
	if err != nil {
		return 0, err
	}
	t, err := e.quoteBuy(m, codec.EmptyAddress, assetIn, assetOut, amountOut)
	if err != nil {
		return 0, err
	}
	return t.Spent()
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
	if pool.Kind != amm.LBPKind {
		return amm.ErrNotSupported
	}
	return e.sell(ctx, mu, who, assetIn, assetOut, amountIn, minAmountOut)
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
	if pool.Kind != amm.LBPKind {
		return amm.ErrNotSupported
	}
	return e.buy(ctx, mu, who, assetIn, assetOut, amountOut, maxAmountIn)
}

// GetLiquidityDepth returns the reserve of [assetB] in the pair's pool.
func (*Engine) GetLiquidityDepth(
	ctx context.Context,
	im state.Immutable,
	pool amm.PoolType,
	assetA codec.AssetID,
	assetB codec.AssetID,
) (uint64, error) {
	if pool.Kind != amm.LBPKind {
		return 0, amm.ErrNotSupported
	}
	account := PoolAccount(assetA, assetB)
	_, exists, err := GetPool(ctx, im, account)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrPoolNotFound
	}
	_, depth, err := reserves(ctx, im, account, assetA, assetB)
	return depth, err
}
