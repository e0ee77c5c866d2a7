// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

// Package xyk implements constant product pools. Every pair of assets has
// at most one pool whose reserves are the balances of a derived account.
package xyk

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/galacticcouncil/Basilisk-node-sub002/amm"
	"github.com/galacticcouncil/Basilisk-node-sub002/auth"
	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/config"
	"github.com/galacticcouncil/Basilisk-node-sub002/state"
	"github.com/galacticcouncil/Basilisk-node-sub002/storage"

	smath "github.com/ava-labs/avalanchego/utils/math"
	pxyk "github.com/galacticcouncil/Basilisk-node-sub002/pricing/xyk"
)

type Engine struct {
	cfg     config.XYK
	limits  config.Limits
	native  codec.AssetID
	emitter *amm.Emitter
	log     logging.Logger
}

func New(
	cfg config.XYK,
	limits config.Limits,
	native codec.AssetID,
	emitter *amm.Emitter,
	log logging.Logger,
) *Engine {
	return &Engine{
		cfg:     cfg,
		limits:  limits,
		native:  native,
		emitter: emitter,
		log:     log,
	}
}

// CreatePool creates the pool of [assetA] and [assetB] funded by the
// caller. The caller receives shares equal to the amount of the asset that
// sorts first.
func (e *Engine) CreatePool(
	ctx context.Context,
	mu state.Mutable,
	origin auth.Origin,
	assetA codec.AssetID,
	amountA uint64,
	assetB codec.AssetID,
	amountB uint64,
) error {
	who, err := auth.EnsureSigned(origin)
	if err != nil {
		return err
	}
	if assetA == assetB {
		return ErrCannotCreatePoolWithSameAssets
	}
	if amountA < e.limits.MinPoolLiquidity || amountB < e.limits.MinPoolLiquidity {
		return ErrInsufficientLiquidity
	}
	return amm.Transactional(ctx, mu, e.emitter, func(mu state.Mutable) error {
		account := PoolAccount(assetA, assetB)
		_, exists, err := getPool(ctx, mu, account)
		if err != nil {
			return err
		}
		if exists {
			return ErrTokenPoolAlreadyExists
		}
		if err := ensureBalance(ctx, mu, assetA, who, amountA); err != nil {
			return err
		}
		if err := ensureBalance(ctx, mu, assetB, who, amountB); err != nil {
			return err
		}

		shareToken, err := storage.RetrieveOrCreateAsset(ctx, mu, ShareTokenName(assetA, assetB), e.limits.MinPoolLiquidity)
		if err != nil {
			return err
		}
		shares := amountA
		if assetB < assetA {
			shares = amountB
		}
		if err := storage.Transfer(ctx, mu, assetA, who, account, amountA); err != nil {
			return err
		}
		if err := storage.Transfer(ctx, mu, assetB, who, account, amountB); err != nil {
			return err
		}
		if err := storage.Deposit(ctx, mu, shareToken, who, shares); err != nil {
			return err
		}
		if err := setPool(ctx, mu, account, &Pool{
			AssetA:         assetA,
			AssetB:         assetB,
			ShareToken:     shareToken,
			TotalLiquidity: shares,
		}); err != nil {
			return err
		}

		e.emitter.Emit(PoolCreated{
			Who:        who,
			AssetA:     assetA,
			AssetB:     assetB,
			Shares:     shares,
			ShareToken: shareToken,
			Pool:       account,
		})
		e.log.Info("xyk pool created",
			zap.Stringer("pool", account),
			zap.Stringer("assetA", assetA),
			zap.Stringer("assetB", assetB),
			zap.Uint64("shares", shares),
		)
		return nil
	})
}

// AddLiquidity deposits [amountA] of [assetA] and the matching amount of
// [assetB] at the current price. At most [amountBMaxLimit] of [assetB] is
// taken.
func (e *Engine) AddLiquidity(
	ctx context.Context,
	mu state.Mutable,
	origin auth.Origin,
	assetA codec.AssetID,
	assetB codec.AssetID,
	amountA uint64,
	amountBMaxLimit uint64,
) error {
	who, err := auth.EnsureSigned(origin)
	if err != nil {
		return err
	}
	return amm.Transactional(ctx, mu, e.emitter, func(mu state.Mutable) error {
		account := PoolAccount(assetA, assetB)
		pool, exists, err := getPool(ctx, mu, account)
		if err != nil {
			return err
		}
		if !exists {
			return ErrTokenPoolNotFound
		}
		if amountA < e.limits.MinTradingLimit {
			return ErrInsufficientTradingAmount
		}
		if amountBMaxLimit == 0 {
			return ErrZeroLiquidity
		}
		if err := ensureBalance(ctx, mu, assetA, who, amountA); err != nil {
			return err
		}
		if err := ensureBalance(ctx, mu, assetB, who, amountBMaxLimit); err != nil {
			return err
		}

		reserveA, reserveB, err := reserves(ctx, mu, account, assetA, assetB)
		if err != nil {
			return err
		}
		amountB, err := pxyk.CalculateLiquidityIn(reserveA, reserveB, amountA)
		if err != nil {
			return err
		}
		if amountB < e.limits.MinTradingLimit {
			return ErrInsufficientTradingAmount
		}
		if amountB > amountBMaxLimit {
			return fmt.Errorf("%w: required %d, limit %d", ErrAssetAmountExceededLimit, amountB, amountBMaxLimit)
		}
		// Minted against the smaller of the two deposit ratios.
		sharesA, err := pxyk.CalculateShares(reserveA, amountA, pool.TotalLiquidity)
		if err != nil {
			return err
		}
		sharesB, err := pxyk.CalculateShares(reserveB, amountB, pool.TotalLiquidity)
		if err != nil {
			return err
		}
		shares := min(sharesA, sharesB)
		if shares == 0 {
			return ErrInvalidMintedLiquidity
		}
		accountShares, err := storage.GetBalance(ctx, mu, pool.ShareToken, who)
		if err != nil {
			return err
		}
		newAccountShares, err := smath.Add64(accountShares, shares)
		if err != nil {
			return ErrInvalidMintedLiquidity
		}
		if newAccountShares < e.limits.MinPoolLiquidity {
			return ErrInsufficientLiquidity
		}
		pool.TotalLiquidity, err = smath.Add64(pool.TotalLiquidity, shares)
		if err != nil {
			return err
		}

		if err := storage.Transfer(ctx, mu, assetA, who, account, amountA); err != nil {
			return err
		}
		if err := storage.Transfer(ctx, mu, assetB, who, account, amountB); err != nil {
			return err
		}
		if err := storage.Deposit(ctx, mu, pool.ShareToken, who, shares); err != nil {
			return err
		}
		if err := setPool(ctx, mu, account, pool); err != nil {
			return err
		}

		e.emitter.Emit(LiquidityAdded{
			Who:     who,
			AssetA:  assetA,
			AssetB:  assetB,
			AmountA: amountA,
			AmountB: amountB,
			Shares:  shares,
		})
		e.log.Debug("xyk liquidity added",
			zap.Stringer("pool", account),
			zap.Uint64("amountA", amountA),
			zap.Uint64("amountB", amountB),
			zap.Uint64("shares", shares),
		)
		return nil
	})
}

// RemoveLiquidity burns [liquidity] shares for a proportional slice of both
// reserves. The pool is destroyed once no shares remain.
func (e *Engine) RemoveLiquidity(
	ctx context.Context,
	mu state.Mutable,
	origin auth.Origin,
	assetA codec.AssetID,
	assetB codec.AssetID,
	liquidity uint64,
) error {
	who, err := auth.EnsureSigned(origin)
	if err != nil {
		return err
	}
	if liquidity == 0 {
		return ErrCannotRemoveLiquidityWithZero
	}
	return amm.Transactional(ctx, mu, e.emitter, func(mu state.Mutable) error {
		account := PoolAccount(assetA, assetB)
		pool, exists, err := getPool(ctx, mu, account)
		if err != nil {
			return err
		}
		if !exists {
			return ErrTokenPoolNotFound
		}
		accountShares, err := storage.GetBalance(ctx, mu, pool.ShareToken, who)
		if err != nil {
			return err
		}
		if pool.TotalLiquidity < liquidity || accountShares < liquidity {
			return ErrInsufficientAssetBalance
		}
		if left := accountShares - liquidity; left != 0 && left < e.limits.MinPoolLiquidity {
			return ErrInsufficientLiquidity
		}

		reserveA, reserveB, err := reserves(ctx, mu, account, assetA, assetB)
		if err != nil {
			return err
		}
		amountA, amountB, err := pxyk.CalculateLiquidityOut(reserveA, reserveB, liquidity, pool.TotalLiquidity)
		if err != nil {
			return err
		}
		if err := storage.Transfer(ctx, mu, assetA, account, who, amountA); err != nil {
			return err
		}
		if err := storage.Transfer(ctx, mu, assetB, account, who, amountB); err != nil {
			return err
		}
		if err := storage.Withdraw(ctx, mu, pool.ShareToken, who, liquidity); err != nil {
			return err
		}
		pool.TotalLiquidity -= liquidity

		e.emitter.Emit(LiquidityRemoved{
			Who:     who,
			AssetA:  assetA,
			AssetB:  assetB,
			Shares:  liquidity,
			AmountA: amountA,
			AmountB: amountB,
		})
		e.log.Debug("xyk liquidity removed",
			zap.Stringer("pool", account),
			zap.Uint64("shares", liquidity),
			zap.Uint64("amountA", amountA),
			zap.Uint64("amountB", amountB),
		)

		if pool.TotalLiquidity > 0 {
			return setPool(ctx, mu, account, pool)
		}
		if err := deletePool(ctx, mu, account); err != nil {
			return err
		}
		e.emitter.Emit(PoolDestroyed{
			Who:        who,
			AssetA:     assetA,
			AssetB:     assetB,
			ShareToken: pool.ShareToken,
			Pool:       account,
		})
		e.log.Info("xyk pool destroyed", zap.Stringer("pool", account))
		return nil
	})
}

// GetPool returns the pool of the pair, if any.
func (*Engine) GetPool(ctx context.Context, im state.Immutable, assetA, assetB codec.AssetID) (*Pool, bool, error) {
	return GetPool(ctx, im, assetA, assetB)
}

// PoolAccount returns the account holding the reserves of the pair.
func (*Engine) PoolAccount(assetA, assetB codec.AssetID) codec.Address {
	return PoolAccount(assetA, assetB)
}

// GetSpotPrice values [amount] of [assetA] in [assetB] using the pair's
// reserves.
func (*Engine) GetSpotPrice(ctx context.Context, im state.Immutable, assetA, assetB codec.AssetID, amount uint64) (uint64, error) {
	account := PoolAccount(assetA, assetB)
	_, exists, err := getPool(ctx, im, account)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrTokenPoolNotFound
	}
	reserveA, reserveB, err := reserves(ctx, im, account, assetA, assetB)
	if err != nil {
		return 0, err
	}
	return pxyk.CalculateSpotPrice(reserveA, reserveB, amount)
}

func ensureBalance(ctx context.Context, im state.Immutable, asset codec.AssetID, who codec.Address, amount uint64) error {
	balance, err := storage.GetBalance(ctx, im, asset, who)
	if err != nil {
		return err
	}
	if balance < amount {
		return fmt.Errorf("%w: asset %s, have %d, need %d", ErrInsufficientAssetBalance, asset, balance, amount)
	}
	return nil
}
