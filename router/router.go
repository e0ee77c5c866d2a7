// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

// Package router executes multi-hop trades across pools of any type. A
// route is quoted in full before any state is touched and then executed
// leg by leg as a single transaction.
package router

import (
	"context"
	"errors"
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
)

// Trade is one leg of a route.
type Trade struct {
	Pool     amm.PoolType  `json:"pool" yaml:"pool"`
	AssetIn  codec.AssetID `json:"assetIn" yaml:"asset_in"`
	AssetOut codec.AssetID `json:"assetOut" yaml:"asset_out"`
}

// TradeAmount is the quoted input and output of a leg.
type TradeAmount struct {
	AmountIn  uint64 `json:"amountIn"`
	AmountOut uint64 `json:"amountOut"`
}

type Router struct {
	cfg       config.Router
	emitter   *amm.Emitter
	log       logging.Logger
	metrics   *Metrics
	executors []amm.TradeExecution
}

// New returns a router that dispatches each leg to the first of
// [executors] that supports its pool type.
func New(
	cfg config.Router,
	emitter *amm.Emitter,
	log logging.Logger,
	metrics *Metrics,
	executors ...amm.TradeExecution,
) *Router {
	return &Router{
		cfg:       cfg,
		emitter:   emitter,
		log:       log,
		metrics:   metrics,
		executors: executors,
	}
}

func (r *Router) validateRoute(route []Trade) error {
	if len(route) == 0 {
		return ErrEmptyRoute
	}
	if len(route) > r.cfg.MaxTrades {
		return fmt.Errorf("%w: %d > %d", ErrMaxTradesExceeded, len(route), r.cfg.MaxTrades)
	}
	for i := 1; i < len(route); i++ {
		if route[i-1].AssetOut != route[i].AssetIn {
			return fmt.Errorf("%w: leg %d does not continue leg %d", ErrInvalidRoute, i, i-1)
		}
	}
	return nil
}

func validateEnds(assetIn, assetOut codec.AssetID, route []Trade) error {
	if route[0].AssetIn != assetIn || route[len(route)-1].AssetOut != assetOut {
		return fmt.Errorf("%w: route does not trade %s for %s", ErrInvalidRoute, assetIn, assetOut)
	}
	return nil
}

// dispatch calls [f] on each executor until one supports [pool].
func dispatch[T any](r *Router, pool amm.PoolType, f func(amm.TradeExecution) (T, error)) (T, error) {
	for _, e := range r.executors {
		v, err := f(e)
		if errors.Is(err, amm.ErrNotSupported) {
			continue
		}
		return v, err
	}
	var zero T
	return zero, fmt.Errorf("%w: %s", ErrPoolNotSupported, pool)
}

// CalculateSellAmounts quotes [route] front to back starting from
// [amountIn]. State is not modified.
func (r *Router) CalculateSellAmounts(
	ctx context.Context,
	im state.Immutable,
	amountIn uint64,
	route []Trade,
) ([]TradeAmount, error) {
	if err := r.validateRoute(route); err != nil {
		return nil, err
	}
	amounts := make([]TradeAmount, len(route))
	in := amountIn
	for i, leg := range route {
		out, err := dispatch(r, leg.Pool, func(e amm.TradeExecution) (uint64, error) {
			return e.CalculateSell(ctx, im, leg.Pool, leg.AssetIn, leg.AssetOut, in)
		})
		if err != nil {
			return nil, err
		}
		amounts[i] = TradeAmount{AmountIn: in, AmountOut: out}
		in = out
	}
	return amounts, nil
}

// CalculateBuyAmounts quotes [route] back to front so that the last leg
// yields [amountOut]. State is not modified.
func (r *Router) CalculateBuyAmounts(
	ctx context.Context,
	im state.Immutable,
	amountOut uint64,
	route []Trade,
) ([]TradeAmount, error) {
	if err := r.validateRoute(route); err != nil {
		return nil, err
	}
	amounts := make([]TradeAmount, len(route))
	out := amountOut
	for i := len(route) - 1; i >= 0; i-- {
		leg := route[i]
		in, err := dispatch(r, leg.Pool, func(e amm.TradeExecution) (uint64, error) {
			return e.CalculateBuy(ctx, im, leg.Pool, leg.AssetIn, leg.AssetOut, out)
		})
		if err != nil {
			return nil, err
		}
		amounts[i] = TradeAmount{AmountIn: in, AmountOut: out}
		out = in
	}
	return amounts, nil
}

// Sell trades [amountIn] of [assetIn] along [route] and fails unless at
// least [minAmountOut] of [assetOut] is received.
func (r *Router) Sell(
	ctx context.Context,
	mu state.Mutable,
	origin auth.Origin,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amountIn uint64,
	minAmountOut uint64,
	route []Trade,
) error {
	who, err := auth.EnsureSigned(origin)
	if err != nil {
		return err
	}
	err = r.sell(ctx, mu, who, assetIn, assetOut, amountIn, minAmountOut, route)
	r.record(err, "sell", who, len(route))
	return err
}

func (r *Router) sell(
	ctx context.Context,
	mu state.Mutable,
	who codec.Address,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amountIn uint64,
	minAmountOut uint64,
	route []Trade,
) error {
	if err := r.validateRoute(route); err != nil {
		return err
	}
	if err := validateEnds(assetIn, assetOut, route); err != nil {
		return err
	}
	if err := ensureBalance(ctx, mu, assetIn, who, amountIn); err != nil {
		return err
	}
	amounts, err := r.CalculateSellAmounts(ctx, mu, amountIn, route)
	if err != nil {
		return err
	}
	last := amounts[len(amounts)-1]
	if last.AmountOut < minAmountOut {
		return fmt.Errorf("%w: got %d, min %d", ErrTradingLimitReached, last.AmountOut, minAmountOut)
	}

	return amm.Transactional(ctx, mu, r.emitter, func(mu state.Mutable) error {
		for i, leg := range route {
			amount := amounts[i]
			err := r.executeLeg(ctx, mu, who, leg, amount, func(e amm.TradeExecution) error {
				return e.ExecuteSell(ctx, mu, who, leg.Pool, leg.AssetIn, leg.AssetOut, amount.AmountIn, amount.AmountOut)
			})
			if err != nil {
				return fmt.Errorf("leg %d: %w", i, err)
			}
		}
		r.emitter.Emit(RouteExecuted{
			Who:       who,
			AssetIn:   assetIn,
			AssetOut:  assetOut,
			AmountIn:  amountIn,
			AmountOut: last.AmountOut,
			Legs:      len(route),
		})
		return nil
	})
}

// Buy trades along [route] to receive [amountOut] of [assetOut] and fails
// if more than [maxAmountIn] of [assetIn] would be spent.
func (r *Router) Buy(
	ctx context.Context,
	mu state.Mutable,
	origin auth.Origin,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amountOut uint64,
	maxAmountIn uint64,
	route []Trade,
) error {
	who, err := auth.EnsureSigned(origin)
	if err != nil {
		return err
	}
	err = r.buy(ctx, mu, who, assetIn, assetOut, amountOut, maxAmountIn, route)
	r.record(err, "buy", who, len(route))
	return err
}

func (r *Router) buy(
	ctx context.Context,
	mu state.Mutable,
	who codec.Address,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amountOut uint64,
	maxAmountIn uint64,
	route []Trade,
) error {
	if err := r.validateRoute(route); err != nil {
		return err
	}
	if err := validateEnds(assetIn, assetOut, route); err != nil {
		return err
	}
	amounts, err := r.CalculateBuyAmounts(ctx, mu, amountOut, route)
	if err != nil {
		return err
	}
	first := amounts[0]
	if first.AmountIn > maxAmountIn {
		return fmt.Errorf("%w: required %d, max %d", ErrTradingLimitReached, first.AmountIn, maxAmountIn)
	}
	if err := ensureBalance(ctx, mu, assetIn, who, first.AmountIn); err != nil {
		return err
	}

	return amm.Transactional(ctx, mu, r.emitter, func(mu state.Mutable) error {
		for i, leg := range route {
			amount := amounts[i]
			err := r.executeLeg(ctx, mu, who, leg, amount, func(e amm.TradeExecution) error {
				return e.ExecuteBuy(ctx, mu, who, leg.Pool, leg.AssetIn, leg.AssetOut, amount.AmountOut, amount.AmountIn)
			})
			if err != nil {
				return fmt.Errorf("leg %d: %w", i, err)
			}
		}
		r.emitter.Emit(RouteExecuted{
			Who:       who,
			AssetIn:   assetIn,
			AssetOut:  assetOut,
			AmountIn:  first.AmountIn,
			AmountOut: amountOut,
			Legs:      len(route),
		})
		return nil
	})
}

// executeLeg runs [f] on the executor of [leg] and checks that the trader
// spent exactly the quoted input.
func (r *Router) executeLeg(
	ctx context.Context,
	mu state.Mutable,
	who codec.Address,
	leg Trade,
	amount TradeAmount,
	f func(amm.TradeExecution) error,
) error {
	before, err := storage.GetBalance(ctx, mu, leg.AssetIn, who)
	if err != nil {
		return err
	}
	if _, err := dispatch(r, leg.Pool, func(e amm.TradeExecution) (struct{}, error) {
		return struct{}{}, f(e)
	}); err != nil {
		return err
	}
	after, err := storage.GetBalance(ctx, mu, leg.AssetIn, who)
	if err != nil {
		return err
	}
	spent, err := smath.Sub(before, after)
	if err != nil || spent != amount.AmountIn {
		return fmt.Errorf("%w: %s moved %s balance from %d to %d, quoted %d", ErrInvalidRouteExecution, leg.Pool, leg.AssetIn, before, after, amount.AmountIn)
	}
	return nil
}

func (r *Router) record(err error, kind string, who codec.Address, legs int) {
	if err != nil {
		r.metrics.failed()
		r.log.Debug("route rejected",
			zap.String("kind", kind),
			zap.Stringer("who", who),
			zap.Int("legs", legs),
			zap.Error(err),
		)
		return
	}
	r.metrics.executed(legs)
	r.log.Debug("route executed",
		zap.String("kind", kind),
		zap.Stringer("who", who),
		zap.Int("legs", legs),
	)
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
