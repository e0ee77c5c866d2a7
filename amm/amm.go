// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

// Package amm holds the abstractions shared by every pool engine and the
// router.
package amm

import (
	"context"
	"errors"

	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/event"
	"github.com/galacticcouncil/Basilisk-node-sub002/state"
)

var (
	// ErrNotSupported is returned by a TradeExecution that does not handle
	// the requested pool type.
	ErrNotSupported    = errors.New("pool type not supported")
	ErrIdenticalAssets = errors.New("identical assets")
)

// Event is raised by a successful state-changing operation.
type Event interface {
	Name() string
}

// Emitter is the event sink shared by the pool engines and the router.
type Emitter = event.Emitter[Event]

func NewEmitter(subs ...event.Subscription[Event]) *Emitter {
	return event.NewEmitter(subs...)
}

// TradeExecution is implemented by every pool engine. Calculate* are pure
// quotes. Execute* mutate [mu] and fail without a partial write when the
// limit is not met.
type TradeExecution interface {
	CalculateSell(ctx context.Context, im state.Immutable, pool PoolType, assetIn, assetOut codec.AssetID, amountIn uint64) (uint64, error)
	CalculateBuy(ctx context.Context, im state.Immutable, pool PoolType, assetIn, assetOut codec.AssetID, amountOut uint64) (uint64, error)
	ExecuteSell(ctx context.Context, mu state.Mutable, who codec.Address, pool PoolType, assetIn, assetOut codec.AssetID, amountIn, minAmountOut uint64) error
	ExecuteBuy(ctx context.Context, mu state.Mutable, who codec.Address, pool PoolType, assetIn, assetOut codec.AssetID, amountOut, maxAmountIn uint64) error
	GetLiquidityDepth(ctx context.Context, im state.Immutable, pool PoolType, assetA, assetB codec.AssetID) (uint64, error)
}
