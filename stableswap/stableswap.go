// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

// Package stableswap implements multi-asset pools of like-valued assets
// priced by the amplified invariant. Each pool is identified by the asset
// that represents its shares.
package stableswap

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/set"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"github.com/galacticcouncil/Basilisk-node-sub002/amm"
	"github.com/galacticcouncil/Basilisk-node-sub002/auth"
	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/config"
	"github.com/galacticcouncil/Basilisk-node-sub002/pricing"
	"github.com/galacticcouncil/Basilisk-node-sub002/state"
	"github.com/galacticcouncil/Basilisk-node-sub002/storage"

	smath "github.com/ava-labs/avalanchego/utils/math"
	pstableswap "github.com/galacticcouncil/Basilisk-node-sub002/pricing/stableswap"
)

type Engine struct {
	cfg     config.Stableswap
	limits  config.Limits
	emitter *amm.Emitter
	log     logging.Logger
}

func New(
	cfg config.Stableswap,
	limits config.Limits,
	emitter *amm.Emitter,
	log logging.Logger,
) *Engine {
	return &Engine{
		cfg:     cfg,
		limits:  limits,
		emitter: emitter,
		log:     log,
	}
}

// CreatePool registers an empty pool over [assets] whose shares are
// [shareAsset]. Only root may create pools.
func (e *Engine) CreatePool(
	ctx context.Context,
	mu state.Mutable,
	origin auth.Origin,
	shareAsset codec.AssetID,
	assets []codec.AssetID,
	amplification uint64,
	tradeFee pricing.Permill,
	withdrawFee pricing.Permill,
) error {
	if err := auth.EnsureRoot(origin); err != nil {
		return err
	}
	if len(assets) < 2 || len(assets) > e.cfg.MaxAssetsInPool {
		return ErrIncorrectAssets
	}
	if set.Of(assets...).Len() != len(assets) {
		return ErrSameAssets
	}
	if slices.Contains(assets, shareAsset) {
		return ErrShareAssetInPoolAssets
	}
	if amplification < e.cfg.MinAmplification || amplification > e.cfg.MaxAmplification {
		return ErrInvalidAmplification
	}
	if !tradeFee.Valid() || !withdrawFee.Valid() {
		return ErrInvalidFee
	}
	return amm.Transactional(ctx, mu, e.emitter, func(mu state.Mutable) error {
		_, exists, err := GetPool(ctx, mu, shareAsset)
		if err != nil {
			return err
		}
		if exists {
			return ErrPoolExists
		}
		for _, asset := range append([]codec.AssetID{shareAsset}, assets...) {
			registered, err := storage.AssetExists(ctx, mu, asset)
			if err != nil {
				return err
			}
			if !registered {
				return fmt.Errorf("%w: %s", ErrAssetNotRegistered, asset)
			}
		}

		sorted := slices.Clone(assets)
		slices.Sort(sorted)
		pool := &Pool{
			Assets:        sorted,
			Amplification: amplification,
			TradeFee:      tradeFee,
			WithdrawFee:   withdrawFee,
		}
		if err := setPool(ctx, mu, shareAsset, pool); err != nil {
			return err
		}

		e.emitter.Emit(PoolCreated{
			PoolID:        shareAsset,
			Assets:        sorted,
			Amplification: amplification,
			TradeFee:      tradeFee,
			WithdrawFee:   withdrawFee,
		})
		e.log.Info("stableswap pool created",
			zap.Stringer("pool", shareAsset),
			zap.Any("assets", sorted),
			zap.Uint64("amplification", amplification),
			zap.Stringer("tradeFee", tradeFee),
			zap.Stringer("withdrawFee", withdrawFee),
		)
		return nil
	})
}

// AddLiquidity deposits [assets] and mints shares to the caller. Assets of
// the pool that are not listed are left untouched, but a pool reserve must
// never be left empty.
func (e *Engine) AddLiquidity(
	ctx context.Context,
	mu state.Mutable,
	origin auth.Origin,
	poolID codec.AssetID,
	assets []AssetAmount,
) error {
	who, err := auth.EnsureSigned(origin)
	if err != nil {
		return err
	}
	if len(assets) == 0 {
		return ErrInvalidAssetAmount
	}
	return amm.Transactional(ctx, mu, e.emitter, func(mu state.Mutable) error {
		pool, exists, err := GetPool(ctx, mu, poolID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrPoolNotFound
		}
		if len(assets) > len(pool.Assets) {
			return ErrIncorrectAssets
		}

		account := pool.Account(poolID)
		initial, err := reserves(ctx, mu, account, pool.Assets)
		if err != nil {
			return err
		}
		updated := slices.Clone(initial)
		seen := set.NewSet[codec.AssetID](len(assets))
		for _, a := range assets {
			if seen.Contains(a.AssetID) {
				return ErrIncorrectAssets
			}
			seen.Add(a.AssetID)
			idx, ok := pool.Find(a.AssetID)
			if !ok {
				return fmt.Errorf("%w: %s", ErrAssetNotInPool, a.AssetID)
			}
			if a.Amount < e.limits.MinTradingLimit {
				return ErrInsufficientTradingAmount
			}
			if err := ensureBalance(ctx, mu, a.AssetID, who, a.Amount); err != nil {
				return err
			}
			if updated[idx], err = smath.Add64(updated[idx], a.Amount); err != nil {
				return err
			}
		}
		for _, r := range updated {
			if r == 0 {
				return ErrInvalidInitialLiquidity
			}
		}

		issuance, err := storage.GetTotalIssuance(ctx, mu, poolID)
		if err != nil {
			return err
		}
		shares, err := pstableswap.CalculateShares(initial, updated, pool.Amplification, issuance, pool.TradeFee)
		if err != nil {
			return err
		}
		if shares == 0 {
			return ErrInvalidAssetAmount
		}
		held, err := storage.GetBalance(ctx, mu, poolID, who)
		if err != nil {
			return err
		}
		total, err := smath.Add64(held, shares)
		if err != nil {
			return err
		}
		if total < e.limits.MinPoolLiquidity {
			return ErrInsufficientShareBalance
		}

		for _, a := range assets {
			if err := storage.Transfer(ctx, mu, a.AssetID, who, account, a.Amount); err != nil {
				return err
			}
		}
		if err := storage.Deposit(ctx, mu, poolID, who, shares); err != nil {
			return err
		}

		e.emitter.Emit(LiquidityAdded{
			PoolID: poolID,
			Who:    who,
			Shares: shares,
			Assets: assets,
		})
		e.log.Debug("stableswap liquidity added",
			zap.Stringer("pool", poolID),
			zap.Stringer("who", who),
			zap.Uint64("shares", shares),
		)
		return nil
	})
}

// removal holds what is common to both ways of burning shares.
type removal struct {
	pool     *Pool
	account  codec.Address
	reserves []uint64
	issuance uint64
}

func (e *Engine) prepareRemoval(
	ctx context.Context,
	im state.Immutable,
	who codec.Address,
	poolID codec.AssetID,
	shares uint64,
) (*removal, error) {
	if shares == 0 {
		return nil, ErrInvalidAssetAmount
	}
	pool, exists, err := GetPool(ctx, im, poolID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrPoolNotFound
	}
	held, err := storage.GetBalance(ctx, im, poolID, who)
	if err != nil {
		return nil, err
	}
	if held < shares {
		return nil, ErrInsufficientShares
	}
	if left := held - shares; left > 0 && left < e.limits.MinPoolLiquidity {
		return nil, ErrInsufficientShareBalance
	}
	issuance, err := storage.GetTotalIssuance(ctx, im, poolID)
	if err != nil {
		return nil, err
	}
	if left := issuance - shares; left > 0 && left < e.limits.MinPoolLiquidity {
		return nil, ErrInsufficientLiquidityRemaining
	}
	account := pool.Account(poolID)
	rs, err := reserves(ctx, im, account, pool.Assets)
	if err != nil {
		return nil, err
	}
	return &removal{
		pool:     pool,
		account:  account,
		reserves: rs,
		issuance: issuance,
	}, nil
}

// RemoveLiquidity burns [shares] and pays out the proportional part of
// every reserve. No fee is charged.
func (e *Engine) RemoveLiquidity(
	ctx context.Context,
	mu state.Mutable,
	origin auth.Origin,
	poolID codec.AssetID,
	shares uint64,
) error {
	who, err := auth.EnsureSigned(origin)
	if err != nil {
		return err
	}
	return amm.Transactional(ctx, mu, e.emitter, func(mu state.Mutable) error {
		r, err := e.prepareRemoval(ctx, mu, who, poolID, shares)
		if err != nil {
			return err
		}
		amounts, err := pstableswap.CalculateRemoveLiquidityAmounts(r.reserves, shares, r.issuance)
		if err != nil {
			return err
		}

		if err := storage.Withdraw(ctx, mu, poolID, who, shares); err != nil {
			return err
		}
		paid := make([]AssetAmount, len(amounts))
		for i, amount := range amounts {
			asset := r.pool.Assets[i]
			if err := storage.Transfer(ctx, mu, asset, r.account, who, amount); err != nil {
				return err
			}
			paid[i] = AssetAmount{AssetID: asset, Amount: amount}
		}

		e.emitter.Emit(LiquidityRemoved{
			PoolID:  poolID,
			Who:     who,
			Shares:  shares,
			Amounts: paid,
		})
		e.log.Debug("stableswap liquidity removed",
			zap.Stringer("pool", poolID),
			zap.Stringer("who", who),
			zap.Uint64("shares", shares),
		)
		return nil
	})
}

// RemoveLiquidityOneAsset burns [shares] and pays out [asset] only. The
// withdraw fee stays in the pool.
func (e *Engine) RemoveLiquidityOneAsset(
	ctx context.Context,
	mu state.Mutable,
	origin auth.Origin,
	poolID codec.AssetID,
	asset codec.AssetID,
	shares uint64,
	minAmountOut uint64,
) error {
	who, err := auth.EnsureSigned(origin)
	if err != nil {
		return err
	}
	return amm.Transactional(ctx, mu, e.emitter, func(mu state.Mutable) error {
		r, err := e.prepareRemoval(ctx, mu, who, poolID, shares)
		if err != nil {
			return err
		}
		idx, ok := r.pool.Find(asset)
		if !ok {
			return fmt.Errorf("%w: %s", ErrAssetNotInPool, asset)
		}
		amount, fee, err := pstableswap.CalculateWithdrawOneAsset(
			r.reserves,
			shares,
			idx,
			r.issuance,
			r.pool.Amplification,
			r.pool.WithdrawFee,
		)
		if errors.Is(err, pricing.ErrInsufficientReserve) {
			return ErrInsufficientLiquidity
		}
		if err != nil {
			return err
		}
		if amount < minAmountOut {
			return fmt.Errorf("%w: got %d, min %d", ErrBuyLimitNotReached, amount, minAmountOut)
		}

		if err := storage.Withdraw(ctx, mu, poolID, who, shares); err != nil {
			return err
		}
		if err := storage.Transfer(ctx, mu, asset, r.account, who, amount); err != nil {
			return err
		}

		e.emitter.Emit(LiquidityRemoved{
			PoolID:  poolID,
			Who:     who,
			Shares:  shares,
			Amounts: []AssetAmount{{AssetID: asset, Amount: amount}},
			Fee:     fee,
		})
		e.log.Debug("stableswap liquidity removed",
			zap.Stringer("pool", poolID),
			zap.Stringer("who", who),
			zap.Stringer("asset", asset),
			zap.Uint64("shares", shares),
			zap.Uint64("amount", amount),
			zap.Uint64("fee", fee),
		)
		return nil
	})
}

// GetPool returns the pool whose share asset is [poolID].
func (*Engine) GetPool(ctx context.Context, im state.Immutable, poolID codec.AssetID) (*Pool, bool, error) {
	return GetPool(ctx, im, poolID)
}

// GetReserves returns the pool assets and their reserves in pool order.
func (*Engine) GetReserves(ctx context.Context, im state.Immutable, poolID codec.AssetID) ([]AssetAmount, error) {
	pool, exists, err := GetPool(ctx, im, poolID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrPoolNotFound
	}
	rs, err := reserves(ctx, im, pool.Account(poolID), pool.Assets)
	if err != nil {
		return nil, err
	}
	out := make([]AssetAmount, len(rs))
	for i, r := range rs {
		out[i] = AssetAmount{AssetID: pool.Assets[i], Amount: r}
	}
	return out, nil
}

func ensureBalance(ctx context.Context, im state.Immutable, asset codec.AssetID, who codec.Address, amount uint64) error {
	balance, err := storage.GetBalance(ctx, im, asset, who)
	if err != nil {
		return err
	}
	if balance < amount {
		return fmt.Errorf("%w: asset %s, have %d, need %d", ErrInsufficientBalance, asset, balance, amount)
	}
	return nil
}
