// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package xyk

import (
	"context"

	"github.com/galacticcouncil/Basilisk-node-sub002/amm"
	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/state"
)

var _ amm.TradeExecution = (*Engine)(nil)

func (e *Engine) CalculateSell(
	ctx context.Context,
	im state.Immutable,
	pool amm.PoolType,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amountIn uint64,
) (uint64, error) {
	if pool.Kind != amm.XYKKind {
		return 0, amm.ErrNotSupported
	}
	reserveIn, reserveOut, err := tradeReserves(ctx, im, assetIn, assetOut)
	if err != nil {
		return 0, err
	}
	out, _, err := e.quoteSell(reserveIn, reserveOut, amountIn, false)
	return out, err
}

func (e *Engine) CalculateBuy(
	ctx context.Context,
	im state.Immutable,
	pool amm.PoolType,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amountOut uint64,
) (uint64, error) {
	if pool.Kind != amm.XYKKind {
		return 0, amm.ErrNotSupported
	}
	reserveIn, reserveOut, err := tradeReserves(ctx, im, assetIn, assetOut)
	if err != nil {
		return 0, err
	}
	in, fee, err := e.quoteBuy(reserveIn, reserveOut, amountOut, false)
	if err != nil {
		return 0, err
	}
	return in + fee, nil
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
	if pool.Kind != amm.XYKKind {
		return amm.ErrNotSupported
	}
	return e.sell(ctx, mu, who, assetIn, assetOut, amountIn, minAmountOut, false)
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
	if pool.Kind != amm.XYKKind {
		return amm.ErrNotSupported
	}
	return e.buy(ctx, mu, who, assetIn, assetOut, amountOut, maxAmountIn, false)
}

// GetLiquidityDepth returns the reserve of [assetB] in the pair's pool.
func (*Engine) GetLiquidityDepth(
	ctx context.Context,
	im state.Immutable,
	pool amm.PoolType,
	assetA codec.AssetID,
	assetB codec.AssetID,
) (uint64, error) {
	if pool.Kind != amm.XYKKind {
		return 0, amm.ErrNotSupported
	}
	_, depth, err := tradeReserves(ctx, im, assetA, assetB)
	return depth, err
}

func tradeReserves(ctx context.Context, im state.Immutable, assetIn, assetOut codec.AssetID) (uint64, uint64, error) {
	account := PoolAccount(assetIn, assetOut)
	_, exists, err := getPool(ctx, im, account)
	if err != nil {
		return 0, 0, err
	}
	if !exists {
		return 0, 0, ErrTokenPoolNotFound
	}
	return reserves(ctx, im, account, assetIn, assetOut)
}
