// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package lbp

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/galacticcouncil/Basilisk-node-sub002/amm"
	"github.com/galacticcouncil/Basilisk-node-sub002/auth"
	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/pricing"
	"github.com/galacticcouncil/Basilisk-node-sub002/state"
	"github.com/galacticcouncil/Basilisk-node-sub002/storage"

	smath "github.com/ava-labs/avalanchego/utils/math"
	plbp "github.com/galacticcouncil/Basilisk-node-sub002/pricing/lbp"
)

// Transfer is a validated trade. The fee is always paid in the accumulated
// asset, either by the trader or by the pool depending on the direction.
type Transfer struct {
	Who      codec.Address
	Pool     codec.Address
	AssetIn  codec.AssetID
	AssetOut codec.AssetID

	// AmountIn is paid by the trader to the pool.
	AmountIn uint64
	// AmountOut is paid by the pool to the trader.
	AmountOut uint64

	FeeAsset     codec.AssetID
	Fee          uint64
	FeeCollector codec.Address
	// FeeFromPool is set when the pool, not the trader, pays the fee.
	FeeFromPool bool
}

// Spent is the total the trader pays.
func (t *Transfer) Spent() (uint64, error) {
	if t.FeeFromPool {
		return t.AmountIn, nil
	}
	return smath.Add64(t.AmountIn, t.Fee)
}

type market struct {
	account    codec.Address
	pool       *Pool
	reserveIn  uint64
	reserveOut uint64
	weightIn   uint32
	weightOut  uint32
}

// loadMarket reads the pool of the pair and checks the sale is running.
func (e *Engine) loadMarket(
	ctx context.Context,
	im state.Immutable,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amount uint64,
) (*market, error) {
	if amount == 0 {
		return nil, ErrZeroAmount
	}
	if amount < e.limits.MinTradingLimit {
		return nil, ErrInsufficientTradingAmount
	}
	account := PoolAccount(assetIn, assetOut)
	pool, exists, err := GetPool(ctx, im, account)
	if err != nil {
		return nil, err
	}
	if !exists || assetIn == assetOut {
		return nil, ErrPoolNotFound
	}
	now, err := e.blocks.CurrentBlockNumber(ctx, im)
	if err != nil {
		return nil, err
	}
	if !pool.Scheduled() || now < pool.Start {
		return nil, ErrSaleNotStarted
	}
	if now > pool.End {
		return nil, ErrSaleEnded
	}
	weightIn, weightOut, err := sortedWeights(pool, assetIn, now)
	if err != nil {
		return nil, err
	}
	reserveIn, reserveOut, err := reserves(ctx, im, account, assetIn, assetOut)
	if err != nil {
		return nil, err
	}
	return &market{
		account:    account,
		pool:       pool,
		reserveIn:  reserveIn,
		reserveOut: reserveOut,
		weightIn:   weightIn,
		weightOut:  weightOut,
	}, nil
}

// feeRate is the repay fee until the repay target is collected.
func (e *Engine) feeRate(pool *Pool) pricing.Fee {
	if pool.Repaid < pool.RepayTarget {
		return e.cfg.RepayFee
	}
	return pool.Fee
}

func (e *Engine) fee(pool *Pool, amount uint64) (uint64, error) {
	fee, err := e.feeRate(pool).Amount(amount)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFeeAmountInvalid, err)
	}
	return fee, nil
}

func (e *Engine) quoteSell(m *market, who codec.Address, assetIn, assetOut codec.AssetID, amount uint64) (*Transfer, error) {
	if amount > m.reserveIn/e.limits.MaxInRatio {
		return nil, ErrMaxInRatioExceeded
	}
	t := &Transfer{
		Who:          who,
		Pool:         m.account,
		AssetIn:      assetIn,
		AssetOut:     assetOut,
		FeeAsset:     m.pool.AssetA,
		FeeCollector: m.pool.FeeCollector,
	}
	if assetIn == m.pool.AssetA {
		// the trader pays the fee out of the amount sold
		fee, err := e.fee(m.pool, amount)
		if err != nil {
			return nil, err
		}
		out, err := plbp.CalculateOutGivenIn(m.reserveIn, m.reserveOut, m.weightIn, m.weightOut, amount-fee)
		if err != nil {
			return nil, err
		}
		if out > m.reserveOut/e.limits.MaxOutRatio {
			return nil, ErrMaxOutRatioExceeded
		}
		t.AmountIn = amount - fee
		t.AmountOut = out
		t.Fee = fee
		return t, nil
	}

	// the pool pays the fee out of the amount bought
	out, err := plbp.CalculateOutGivenIn(m.reserveIn, m.reserveOut, m.weightIn, m.weightOut, amount)
	if err != nil {
		return nil, err
	}
	if out > m.reserveOut/e.limits.MaxOutRatio {
		return nil, ErrMaxOutRatioExceeded
	}
	fee, err := e.fee(m.pool, out)
	if err != nil {
		return nil, err
	}
	t.AmountIn = amount
	t.AmountOut = out - fee
	t.Fee = fee
	t.FeeFromPool = true
	return t, nil
}

func (e *Engine) quoteBuy(m *market, who codec.Address, assetIn, assetOut codec.AssetID, amount uint64) (*Transfer, error) {
	if amount >= m.reserveOut {
		return nil, ErrInsufficientLiquidity
	}
	t := &Transfer{
		Who:          who,
		Pool:         m.account,
		AssetIn:      assetIn,
		AssetOut:     assetOut,
		AmountOut:    amount,
		FeeAsset:     m.pool.AssetA,
		FeeCollector: m.pool.FeeCollector,
	}
	if assetOut == m.pool.AssetA {
		// the pool pays the fee on top of the amount bought
		fee, err := e.fee(m.pool, amount)
		if err != nil {
			return nil, err
		}
		gross, err := smath.Add64(amount, fee)
		if err != nil {
			return nil, err
		}
		if gross >= m.reserveOut {
			return nil, ErrInsufficientLiquidity
		}
		if gross > m.reserveOut/e.limits.MaxOutRatio {
			return nil, ErrMaxOutRatioExceeded
		}
		in, err := plbp.CalculateInGivenOut(m.reserveIn, m.reserveOut, m.weightIn, m.weightOut, gross)
		if err != nil {
			return nil, err
		}
		if in > m.reserveIn/e.limits.MaxInRatio {
			return nil, ErrMaxInRatioExceeded
		}
		t.AmountIn = in
		t.Fee = fee
		t.FeeFromPool = true
		return t, nil
	}

	// the trader pays the fee on top of the amount sold
	if amount > m.reserveOut/e.limits.MaxOutRatio {
		return nil, ErrMaxOutRatioExceeded
	}
	in, err := plbp.CalculateInGivenOut(m.reserveIn, m.reserveOut, m.weightIn, m.weightOut, amount)
	if err != nil {
		return nil, err
	}
	if in > m.reserveIn/e.limits.MaxInRatio {
		return nil, ErrMaxInRatioExceeded
	}
	fee, err := e.fee(m.pool, in)
	if err != nil {
		return nil, err
	}
	t.AmountIn = in
	t.Fee = fee
	return t, nil
}

// ValidateSell quotes selling [amount] of [assetIn]. The trader must
// receive at least [minBought].
func (e *Engine) ValidateSell(
	ctx context.Context,
	im state.Immutable,
	who codec.Address,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amount uint64,
	minBought uint64,
) (*Transfer, error) {
	m, err := e.loadMarket(ctx, im, assetIn, assetOut, amount)
	if err != nil {
		return nil, err
	}
	if err := ensureBalance(ctx, im, assetIn, who, amount); err != nil {
		return nil, err
	}
	t, err := e.quoteSell(m, who, assetIn, assetOut, amount)
	if err != nil {
		return nil, err
	}
	if t.AmountOut < minBought {
		return nil, fmt.Errorf("%w: got %d, min %d", ErrTradingLimitReached, t.AmountOut, minBought)
	}
	return t, nil
}

// ValidateBuy quotes buying [amount] of [assetOut]. The trader pays at
// most [maxSold] including the fee.
func (e *Engine) ValidateBuy(
	ctx context.Context,
	im state.Immutable,
	who codec.Address,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amount uint64,
	maxSold uint64,
) (*Transfer, error) {
	m, err := e.loadMarket(ctx, im, assetIn, assetOut, amount)
	if err != nil {
		return nil, err
	}
	t, err := e.quoteBuy(m, who, assetIn, assetOut, amount)
	if err != nil {
		return nil, err
	}
	spent, err := t.Spent()
	if err != nil {
		return nil, err
	}
	if spent > maxSold {
		return nil, fmt.Errorf("%w: required %d, max %d", ErrTradingLimitReached, spent, maxSold)
	}
	if err := ensureBalance(ctx, im, assetIn, who, spent); err != nil {
		return nil, err
	}
	return t, nil
}

// apply moves the funds of [t] and records the collected fee.
func (*Engine) apply(ctx context.Context, mu state.Mutable, t *Transfer) error {
	if err := storage.Transfer(ctx, mu, t.AssetIn, t.Who, t.Pool, t.AmountIn); err != nil {
		return err
	}
	if err := storage.Transfer(ctx, mu, t.AssetOut, t.Pool, t.Who, t.AmountOut); err != nil {
		return err
	}
	payer := t.Who
	if t.FeeFromPool {
		payer = t.Pool
	}
	if err := storage.Transfer(ctx, mu, t.FeeAsset, payer, t.FeeCollector, t.Fee); err != nil {
		return err
	}
	if t.Fee == 0 {
		return nil
	}
	pool, exists, err := GetPool(ctx, mu, t.Pool)
	if err != nil {
		return err
	}
	if !exists {
		return ErrPoolNotFound
	}
	pool.Repaid, err = smath.Add64(pool.Repaid, t.Fee)
	if err != nil {
		return err
	}
	return setPool(ctx, mu, t.Pool, pool)
}

// ExecuteSellTransfer applies a transfer returned by ValidateSell.
func (e *Engine) ExecuteSellTransfer(ctx context.Context, mu state.Mutable, t *Transfer) error {
	if err := e.apply(ctx, mu, t); err != nil {
		return err
	}
	e.emitter.Emit(SellExecuted{
		Who:       t.Who,
		AssetIn:   t.AssetIn,
		AssetOut:  t.AssetOut,
		AmountIn:  t.AmountIn,
		AmountOut: t.AmountOut,
		FeeAsset:  t.FeeAsset,
		Fee:       t.Fee,
	})
	e.log.Debug("lbp sell executed",
		zap.Stringer("who", t.Who),
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
		AssetOut:  t.AssetOut,
		AssetIn:   t.AssetIn,
		AmountOut: t.AmountOut,
		AmountIn:  t.AmountIn,
		FeeAsset:  t.FeeAsset,
		Fee:       t.Fee,
	})
	e.log.Debug("lbp buy executed",
		zap.Stringer("who", t.Who),
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
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amount uint64,
	minBought uint64,
) error {
	who, err := auth.EnsureSigned(origin)
	if err != nil {
		return err
	}
	return e.sell(ctx, mu, who, assetIn, assetOut, amount, minBought)
}

func (e *Engine) sell(
	ctx context.Context,
	mu state.Mutable,
	who codec.Address,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amount uint64,
	minBought uint64,
) error {
	return amm.Transactional(ctx, mu, e.emitter, func(mu state.Mutable) error {
		t, err := e.ValidateSell(ctx, mu, who, assetIn, assetOut, amount, minBought)
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
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amount uint64,
	maxSold uint64,
) error {
	who, err := auth.EnsureSigned(origin)
	if err != nil {
		return err
	}
	return e.buy(ctx, mu, who, assetIn, assetOut, amount, maxSold)
}

func (e *Engine) buy(
	ctx context.Context,
	mu state.Mutable,
	who codec.Address,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amount uint64,
	maxSold uint64,
) error {
	return amm.Transactional(ctx, mu, e.emitter, func(mu state.Mutable) error {
		t, err := e.ValidateBuy(ctx, mu, who, assetIn, assetOut, amount, maxSold)
		if err != nil {
			return err
		}
		return e.ExecuteBuyTransfer(ctx, mu, t)
	})
}
