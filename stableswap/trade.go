// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package stableswap

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/galacticcouncil/Basilisk-node-sub002/amm"
	"github.com/galacticcouncil/Basilisk-node-sub002/auth"
	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/pricing"
	"github.com/galacticcouncil/Basilisk-node-sub002/state"
	"github.com/galacticcouncil/Basilisk-node-sub002/storage"

	smath "github.com/ava-labs/avalanchego/utils/math"
	pstableswap "github.com/galacticcouncil/Basilisk-node-sub002/pricing/stableswap"
)

// Transfer is a validated trade. The trade fee never leaves the pool.
type Transfer struct {
	Who      codec.Address
	PoolID   codec.AssetID
	Account  codec.Address
	AssetIn  codec.AssetID
	AssetOut codec.AssetID

	// AmountIn is paid by the trader, fee included for a buy.
	AmountIn uint64
	// AmountOut is received by the trader, net of the fee for a sell.
	AmountOut uint64
	Fee       uint64
}

type market struct {
	pool     *Pool
	account  codec.Address
	reserves []uint64
	idxIn    int
	idxOut   int
}

func (e *Engine) loadMarket(
	ctx context.Context,
	im state.Immutable,
	poolID codec.AssetID,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amount uint64,
) (*market, error) {
	if assetIn == assetOut {
		return nil, ErrSameAssets
	}
	if amount < e.limits.MinTradingLimit {
		return nil, ErrInsufficientTradingAmount
	}
	pool, exists, err := GetPool(ctx, im, poolID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrPoolNotFound
	}
	idxIn, ok := pool.Find(assetIn)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotInPool, assetIn)
	}
	idxOut, ok := pool.Find(assetOut)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotInPool, assetOut)
	}
	account := pool.Account(poolID)
	rs, err := reserves(ctx, im, account, pool.Assets)
	if err != nil {
		return nil, err
	}
	return &market{
		pool:     pool,
		account:  account,
		reserves: rs,
		idxIn:    idxIn,
		idxOut:   idxOut,
	}, nil
}

func liquidityErr(err error) error {
	if errors.Is(err, pricing.ErrInsufficientReserve) || errors.Is(err, pricing.ErrZeroReserve) {
		return ErrInsufficientLiquidity
	}
	return err
}

func (m *market) quoteSell(amountIn uint64) (uint64, uint64, error) {
	if m.reserves[m.idxIn] == 0 || m.reserves[m.idxOut] == 0 {
		return 0, 0, ErrInsufficientLiquidity
	}
	out, err := pstableswap.CalculateOutGivenIn(m.reserves, m.idxIn, m.idxOut, amountIn, m.pool.Amplification)
	if err != nil {
		return 0, 0, liquidityErr(err)
	}
	fee, err := m.pool.TradeFee.MulFloor(out)
	if err != nil {
		return 0, 0, err
	}
	net := out - fee
	if net == 0 || net >= m.reserves[m.idxOut] {
		return 0, 0, ErrInsufficientLiquidity
	}
	return net, fee, nil
}

func (m *market) quoteBuy(amountOut uint64) (uint64, uint64, error) {
	if m.reserves[m.idxIn] == 0 || amountOut >= m.reserves[m.idxOut] {
		return 0, 0, ErrInsufficientLiquidity
	}
	in, err := pstableswap.CalculateInGivenOut(m.reserves, m.idxIn, m.idxOut, amountOut, m.pool.Amplification)
	if err != nil {
		return 0, 0, liquidityErr(err)
	}
	fee, err := m.pool.TradeFee.MulCeil(in)
	if err != nil {
		return 0, 0, err
	}
	total, err := smath.Add64(in, fee)
	if err != nil {
		return 0, 0, err
	}
	return total, fee, nil
}

// ValidateSell quotes selling [amountIn] of [assetIn] for at least
// [minBuyAmount] of [assetOut].
func (e *Engine) ValidateSell(
	ctx context.Context,
	im state.Immutable,
	who codec.Address,
	poolID codec.AssetID,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amountIn uint64,
	minBuyAmount uint64,
) (*Transfer, error) {
	m, err := e.loadMarket(ctx, im, poolID, assetIn, assetOut, amountIn)
	if err != nil {
		return nil, err
	}
	if err := ensureBalance(ctx, im, assetIn, who, amountIn); err != nil {
		return nil, err
	}
	out, fee, err := m.quoteSell(amountIn)
	if err != nil {
		return nil, err
	}
	if out < minBuyAmount {
		return nil, fmt.Errorf("%w: got %d, min %d", ErrBuyLimitNotReached, out, minBuyAmount)
	}
	return &Transfer{
		Who:       who,
		PoolID:    poolID,
		Account:   m.account,
		AssetIn:   assetIn,
		AssetOut:  assetOut,
		AmountIn:  amountIn,
		AmountOut: out,
		Fee:       fee,
	}, nil
}

// ValidateBuy quotes buying [amountOut] of [assetOut] for at most
// [maxSellAmount] of [assetIn].
func (e *Engine) ValidateBuy(
	ctx context.Context,
	im state.Immutable,
	who codec.Address,
	poolID codec.AssetID,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amountOut uint64,
	maxSellAmount uint64,
) (*Transfer, error) {
	m, err := e.loadMarket(ctx, im, poolID, assetIn, assetOut, amountOut)
	if err != nil {
		return nil, err
	}
	in, fee, err := m.quoteBuy(amountOut)
	if err != nil {
		return nil, err
	}
	if in > maxSellAmount {
		return nil, fmt.Errorf("%w: required %d, max %d", ErrSellLimitExceeded, in, maxSellAmount)
	}
	if err := ensureBalance(ctx, im, assetIn, who, in); err != nil {
		return nil, err
	}
	return &Transfer{
		Who:       who,
		PoolID:    poolID,
		Account:   m.account,
		AssetIn:   assetIn,
		AssetOut:  assetOut,
		AmountIn:  in,
		AmountOut: amountOut,
		Fee:       fee,
	}, nil
}

func (*Engine) apply(ctx context.Context, mu state.Mutable, t *Transfer) error {
	if err := storage.Transfer(ctx, mu, t.AssetIn, t.Who, t.Account, t.AmountIn); err != nil {
		return err
	}
	return storage.Transfer(ctx, mu, t.AssetOut, t.Account, t.Who, t.AmountOut)
}

// ExecuteSellTransfer applies a transfer returned by ValidateSell.
func (e *Engine) ExecuteSellTransfer(ctx context.Context, mu state.Mutable, t *Transfer) error {
	if err := e.apply(ctx, mu, t); err != nil {
		return err
	}
	e.emitter.Emit(SellExecuted{
		Who:       t.Who,
		PoolID:    t.PoolID,
		AssetIn:   t.AssetIn,
		AssetOut:  t.AssetOut,
		AmountIn:  t.AmountIn,
		AmountOut: t.AmountOut,
		Fee:       t.Fee,
	})
	e.log.Debug("stableswap sell executed",
		zap.Stringer("who", t.Who),
		zap.Stringer("pool", t.PoolID),
		zap.Stringer("assetIn", t.AssetIn),
		zap.Stringer("assetOut", t.AssetOut),
		zap.Uint64("amountIn", t.AmountIn),
		zap.Uint64("amountOut", t.AmountOut),
		zap.Uint64("fee", t.Fee),
	)
	return nil
}

// ExecuteBuyTransfer applies a transfer returned by ValidateBuy.
func (e *Engine) ExecuteBuyTransfer(ctx context.Context, mu state.Mutable, t *Transfer) error {
	if err := e.apply(ctx, mu, t); err != nil {
		return err
	}
	e.emitter.Emit(BuyExecuted{
		Who:       t.Who,
		PoolID:    t.PoolID,
		AssetIn:   t.AssetIn,
		AssetOut:  t.AssetOut,
		AmountIn:  t.AmountIn,
		AmountOut: t.AmountOut,
		Fee:       t.Fee,
	})
	e.log.Debug("stableswap buy executed",
		zap.Stringer("who", t.Who),
		zap.Stringer("pool", t.PoolID),
		zap.Stringer("assetIn", t.AssetIn),
		zap.Stringer("assetOut", t.AssetOut),
		zap.Uint64("amountIn", t.AmountIn),
		zap.Uint64("amountOut", t.AmountOut),
		zap.Uint64("fee", t.Fee),
	)
	return nil
}

// Sell validates and executes a sell as a single transaction.
func (e *Engine) Sell(
	ctx context.Context,
	mu state.Mutable,
	origin auth.Origin,
	poolID codec.AssetID,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amountIn uint64,
	minBuyAmount uint64,
) error {
	who, err := auth.EnsureSigned(origin)
	if err != nil {
		return err
	}
	return e.sell(ctx, mu, who, poolID, assetIn, assetOut, amountIn, minBuyAmount)
}

func (e *Engine) sell(
	ctx context.Context,
	mu state.Mutable,
	who codec.Address,
	poolID codec.AssetID,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amountIn uint64,
	minBuyAmount uint64,
) error {
	return amm.Transactional(ctx, mu, e.emitter, func(mu state.Mutable) error {
		t, err := e.ValidateSell(ctx, mu, who, poolID, assetIn, assetOut, amountIn, minBuyAmount)
		if err != nil {
			return err
		}
		return e.ExecuteSellTransfer(ctx, mu, t)
	})
}

// Buy validates and executes a buy as a single transaction.
func (e *Engine) Buy(
	ctx context.Context,
	mu state.Mutable,
	origin auth.Origin,
	poolID codec.AssetID,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amountOut uint64,
	maxSellAmount uint64,
) error {
	who, err := auth.EnsureSigned(origin)
	if err != nil {
		return err
	}
	return e.buy(ctx, mu, who, poolID, assetIn, assetOut, amountOut, maxSellAmount)
}

func (e *Engine) buy(
	ctx context.Context,
	mu state.Mutable,
	who codec.Address,
	poolID codec.AssetID,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amountOut uint64,
	maxSellAmount uint64,
) error {
	return amm.Transactional(ctx, mu, e.emitter, func(mu state.Mutable) error {
		t, err := e.ValidateBuy(ctx, mu, who, poolID, assetIn, assetOut, amountOut, maxSellAmount)
		if err != nil {
			return err
		}
		return e.ExecuteBuyTransfer(ctx, mu, t)
	})
}
