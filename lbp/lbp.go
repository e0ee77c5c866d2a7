// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

// Package lbp implements liquidity bootstrapping pools: two asset pools
// whose weights move linearly over a sale window measured in blocks.
package lbp

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/galacticcouncil/Basilisk-node-sub002/amm"
	"github.com/galacticcouncil/Basilisk-node-sub002/auth"
	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/config"
	"github.com/galacticcouncil/Basilisk-node-sub002/pricing"
	"github.com/galacticcouncil/Basilisk-node-sub002/state"
	"github.com/galacticcouncil/Basilisk-node-sub002/storage"

	plbp "github.com/galacticcouncil/Basilisk-node-sub002/pricing/lbp"
)

// BlockNumberProvider supplies the block number sales are measured against.
type BlockNumberProvider interface {
	CurrentBlockNumber(ctx context.Context, im state.Immutable) (uint64, error)
}

type Engine struct {
	cfg     config.LBP
	limits  config.Limits
	blocks  BlockNumberProvider
	emitter *amm.Emitter
	log     logging.Logger
}

func New(
	cfg config.LBP,
	limits config.Limits,
	blocks BlockNumberProvider,
	emitter *amm.Emitter,
	log logging.Logger,
) *Engine {
	return &Engine{
		cfg:     cfg,
		limits:  limits,
		blocks:  blocks,
		emitter: emitter,
		log:     log,
	}
}

// CreateArgs describes a new pool. AssetA is the accumulated asset.
// Start and End both zero leave the sale unscheduled.
type CreateArgs struct {
	Owner         codec.Address
	AssetA        codec.AssetID
	AmountA       uint64
	AssetB        codec.AssetID
	AmountB       uint64
	InitialWeight uint32
	FinalWeight   uint32
	WeightCurve   WeightCurve
	Fee           pricing.Fee
	FeeCollector  codec.Address
	RepayTarget   uint64
	Start         uint64
	End           uint64
}

// UpdateArgs holds the fields to change. Nil fields are kept.
type UpdateArgs struct {
	Owner         *codec.Address
	Start         *uint64
	End           *uint64
	InitialWeight *uint32
	FinalWeight   *uint32
	Fee           *pricing.Fee
	FeeCollector  *codec.Address
	RepayTarget   *uint64
}

func (u *UpdateArgs) empty() bool {
	return u.Owner == nil && u.Start == nil && u.End == nil &&
		u.InitialWeight == nil && u.FinalWeight == nil &&
		u.Fee == nil && u.FeeCollector == nil && u.RepayTarget == nil
}

// CreatePool creates a pool funded by the owner. Only root may create
// pools.
func (e *Engine) CreatePool(ctx context.Context, mu state.Mutable, origin auth.Origin, args CreateArgs) error {
	if err := auth.EnsureRoot(origin); err != nil {
		return err
	}
	if args.AssetA == args.AssetB {
		return ErrCannotCreatePoolWithSameAssets
	}
	if args.AmountA == 0 || args.AmountB == 0 {
		return ErrCannotAddZeroLiquidity
	}
	if args.AmountA < e.limits.MinPoolLiquidity || args.AmountB < e.limits.MinPoolLiquidity {
		return ErrInsufficientLiquidity
	}
	return amm.Transactional(ctx, mu, e.emitter, func(mu state.Mutable) error {
		account := PoolAccount(args.AssetA, args.AssetB)
		_, exists, err := GetPool(ctx, mu, account)
		if err != nil {
			return err
		}
		if exists {
			return ErrPoolAlreadyExists
		}
		now, err := e.blocks.CurrentBlockNumber(ctx, mu)
		if err != nil {
			return err
		}
		pool := &Pool{
			Owner:         args.Owner,
			Start:         args.Start,
			End:           args.End,
			AssetA:        args.AssetA,
			AssetB:        args.AssetB,
			InitialWeight: args.InitialWeight,
			FinalWeight:   args.FinalWeight,
			WeightCurve:   args.WeightCurve,
			Fee:           args.Fee,
			FeeCollector:  args.FeeCollector,
			RepayTarget:   args.RepayTarget,
		}
		if err := e.validatePool(pool, now); err != nil {
			return err
		}
		if err := ensureBalance(ctx, mu, args.AssetA, args.Owner, args.AmountA); err != nil {
			return err
		}
		if err := ensureBalance(ctx, mu, args.AssetB, args.Owner, args.AmountB); err != nil {
			return err
		}
		if err := storage.Transfer(ctx, mu, args.AssetA, args.Owner, account, args.AmountA); err != nil {
			return err
		}
		if err := storage.Transfer(ctx, mu, args.AssetB, args.Owner, account, args.AmountB); err != nil {
			return err
		}
		if err := setPool(ctx, mu, account, pool); err != nil {
			return err
		}

		e.emitter.Emit(PoolCreated{Pool: account, Data: *pool})
		e.log.Info("lbp pool created",
			zap.Stringer("pool", account),
			zap.Stringer("owner", pool.Owner),
			zap.Stringer("accumulated", pool.AssetA),
			zap.Stringer("distributed", pool.AssetB),
			zap.Uint64("start", pool.Start),
			zap.Uint64("end", pool.End),
		)
		return nil
	})
}

// UpdatePoolData changes the parameters of a sale that has not started.
func (e *Engine) UpdatePoolData(
	ctx context.Context,
	mu state.Mutable,
	origin auth.Origin,
	account codec.Address,
	args UpdateArgs,
) error {
	who, err := auth.EnsureSigned(origin)
	if err != nil {
		return err
	}
	if args.empty() {
		return ErrNothingToUpdate
	}
	return amm.Transactional(ctx, mu, e.emitter, func(mu state.Mutable) error {
		pool, exists, err := GetPool(ctx, mu, account)
		if err != nil {
			return err
		}
		if !exists {
			return ErrPoolNotFound
		}
		if who != pool.Owner {
			return ErrNotOwner
		}
		now, err := e.blocks.CurrentBlockNumber(ctx, mu)
		if err != nil {
			return err
		}
		if pool.Scheduled() && pool.Start <= now {
			return ErrSaleStarted
		}

		if args.Owner != nil {
			pool.Owner = *args.Owner
		}
		if args.Start != nil {
			pool.Start = *args.Start
		}
		if args.End != nil {
			pool.End = *args.End
		}
		if args.InitialWeight != nil {
			pool.InitialWeight = *args.InitialWeight
		}
		if args.FinalWeight != nil {
			pool.FinalWeight = *args.FinalWeight
		}
		if args.Fee != nil {
			pool.Fee = *args.Fee
		}
		if args.FeeCollector != nil {
			pool.FeeCollector = *args.FeeCollector
		}
		if args.RepayTarget != nil {
			pool.RepayTarget = *args.RepayTarget
		}
		if err := e.validatePool(pool, now); err != nil {
			return err
		}
		if err := setPool(ctx, mu, account, pool); err != nil {
			return err
		}

		e.emitter.Emit(PoolUpdated{Pool: account, Data: *pool})
		e.log.Info("lbp pool updated",
			zap.Stringer("pool", account),
			zap.Uint64("start", pool.Start),
			zap.Uint64("end", pool.End),
		)
		return nil
	})
}

// AddLiquidity lets the owner top up either reserve.
func (e *Engine) AddLiquidity(
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
	if amountA == 0 && amountB == 0 {
		return ErrCannotAddZeroLiquidity
	}
	return amm.Transactional(ctx, mu, e.emitter, func(mu state.Mutable) error {
		account := PoolAccount(assetA, assetB)
		pool, exists, err := GetPool(ctx, mu, account)
		if err != nil {
			return err
		}
		if !exists {
			return ErrPoolNotFound
		}
		if who != pool.Owner {
			return ErrNotOwner
		}
		if err := ensureBalance(ctx, mu, assetA, who, amountA); err != nil {
			return err
		}
		if err := ensureBalance(ctx, mu, assetB, who, amountB); err != nil {
			return err
		}
		if err := storage.Transfer(ctx, mu, assetA, who, account, amountA); err != nil {
			return err
		}
		if err := storage.Transfer(ctx, mu, assetB, who, account, amountB); err != nil {
			return err
		}

		e.emitter.Emit(LiquidityAdded{
			Who:     who,
			AssetA:  assetA,
			AssetB:  assetB,
			AmountA: amountA,
			AmountB: amountB,
		})
		e.log.Debug("lbp liquidity added",
			zap.Stringer("pool", account),
			zap.Uint64("amountA", amountA),
			zap.Uint64("amountB", amountB),
		)
		return nil
	})
}

// RemoveLiquidity drains the pool to its owner and destroys it. A running
// sale cannot be drained. Once a sale has ended, any part of the repay
// target not yet collected is paid to the fee collector first.
func (e *Engine) RemoveLiquidity(ctx context.Context, mu state.Mutable, origin auth.Origin, account codec.Address) error {
	who, err := auth.EnsureSigned(origin)
	if err != nil {
		return err
	}
	return amm.Transactional(ctx, mu, e.emitter, func(mu state.Mutable) error {
		pool, exists, err := GetPool(ctx, mu, account)
		if err != nil {
			return err
		}
		if !exists {
			return ErrPoolNotFound
		}
		if who != pool.Owner {
			return ErrNotOwner
		}
		now, err := e.blocks.CurrentBlockNumber(ctx, mu)
		if err != nil {
			return err
		}
		if pool.Scheduled() && pool.Start <= now && now <= pool.End {
			return ErrSaleNotEnded
		}

		amountA, amountB, err := reserves(ctx, mu, account, pool.AssetA, pool.AssetB)
		if err != nil {
			return err
		}
		var repaid uint64
		if pool.Scheduled() && now > pool.End && pool.Repaid < pool.RepayTarget {
			repaid = pool.RepayTarget - pool.Repaid
			if amountA < repaid {
				return fmt.Errorf("%w: outstanding %d, reserve %d", ErrRepayTargetNotMet, repaid, amountA)
			}
			if err := storage.Transfer(ctx, mu, pool.AssetA, account, pool.FeeCollector, repaid); err != nil {
				return err
			}
			amountA -= repaid
		}
		if err := storage.Transfer(ctx, mu, pool.AssetA, account, who, amountA); err != nil {
			return err
		}
		if err := storage.Transfer(ctx, mu, pool.AssetB, account, who, amountB); err != nil {
			return err
		}
		if err := deletePool(ctx, mu, account); err != nil {
			return err
		}

		e.emitter.Emit(LiquidityRemoved{
			Who:     who,
			AssetA:  pool.AssetA,
			AssetB:  pool.AssetB,
			AmountA: amountA,
			AmountB: amountB,
			Repaid:  repaid,
		})
		e.emitter.Emit(PoolDestroyed{
			Who:    who,
			AssetA: pool.AssetA,
			AssetB: pool.AssetB,
			Pool:   account,
		})
		e.log.Info("lbp pool destroyed",
			zap.Stringer("pool", account),
			zap.Uint64("amountA", amountA),
			zap.Uint64("amountB", amountB),
			zap.Uint64("repaid", repaid),
		)
		return nil
	})
}

// GetPool returns the pool of the pair, if any.
func (*Engine) GetPool(ctx context.Context, im state.Immutable, assetA, assetB codec.AssetID) (*Pool, bool, error) {
	return GetPool(ctx, im, PoolAccount(assetA, assetB))
}

// PoolAccount returns the account holding the reserves of the pair.
func (*Engine) PoolAccount(assetA, assetB codec.AssetID) codec.Address {
	return PoolAccount(assetA, assetB)
}

// CurrentWeights returns the weights of the accumulated and distributed
// assets of [pool] at block [now]. Outside the sale window the nearest end
// of the curve applies.
func CurrentWeights(pool *Pool, now uint64) (uint32, uint32, error) {
	switch {
	case !pool.Scheduled() || now <= pool.Start:
		return pool.InitialWeight, plbp.MaxWeight - pool.InitialWeight, nil
	case now >= pool.End:
		return pool.FinalWeight, plbp.MaxWeight - pool.FinalWeight, nil
	default:
		return plbp.CalculateLinearWeights(pool.Start, pool.End, pool.InitialWeight, pool.FinalWeight, now)
	}
}

// GetSpotPrice values [amount] of [assetA] in [assetB] at the current
// weights.
func (e *Engine) GetSpotPrice(ctx context.Context, im state.Immutable, assetA, assetB codec.AssetID, amount uint64) (uint64, error) {
	account := PoolAccount(assetA, assetB)
	pool, exists, err := GetPool(ctx, im, account)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrPoolNotFound
	}
	now, err := e.blocks.CurrentBlockNumber(ctx, im)
	if err != nil {
		return 0, err
	}
	weightA, weightB, err := sortedWeights(pool, assetA, now)
	if err != nil {
		return 0, err
	}
	reserveA, reserveB, err := reserves(ctx, im, account, assetA, assetB)
	if err != nil {
		return 0, err
	}
	return plbp.CalculateSpotPrice(reserveA, reserveB, weightA, weightB, amount)
}

// sortedWeights returns the weight of [asset] followed by the weight of
// the other pool asset.
func sortedWeights(pool *Pool, asset codec.AssetID, now uint64) (uint32, uint32, error) {
	weightA, weightB, err := CurrentWeights(pool, now)
	if err != nil {
		return 0, 0, err
	}
	if asset == pool.AssetA {
		return weightA, weightB, nil
	}
	return weightB, weightA, nil
}

func (e *Engine) validatePool(pool *Pool, now uint64) error {
	if pool.Owner == codec.EmptyAddress || pool.FeeCollector == codec.EmptyAddress {
		return ErrInvalidAccount
	}
	if pool.Scheduled() {
		if now >= pool.Start || pool.Start >= pool.End {
			return ErrInvalidBlockRange
		}
		if pool.End-pool.Start > e.cfg.MaxSaleDuration {
			return ErrMaxSaleDurationExceeded
		}
	}
	for _, w := range []uint32{pool.InitialWeight, pool.FinalWeight} {
		if w == 0 || w >= plbp.MaxWeight {
			return fmt.Errorf("%w: %d", ErrInvalidWeight, w)
		}
	}
	if pool.WeightCurve != Linear {
		return ErrInvalidWeightCurve
	}
	if !pool.Fee.Valid() {
		return ErrFeeAmountInvalid
	}
	return nil
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
