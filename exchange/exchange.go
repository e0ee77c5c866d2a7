// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

// Package exchange wires the pool engines and the router over one
// configuration and one event emitter.
package exchange

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/galacticcouncil/Basilisk-node-sub002/amm"
	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/config"
	"github.com/galacticcouncil/Basilisk-node-sub002/event"
	"github.com/galacticcouncil/Basilisk-node-sub002/lbp"
	"github.com/galacticcouncil/Basilisk-node-sub002/router"
	"github.com/galacticcouncil/Basilisk-node-sub002/stableswap"
	"github.com/galacticcouncil/Basilisk-node-sub002/state"
	"github.com/galacticcouncil/Basilisk-node-sub002/storage"
	ammtrace "github.com/galacticcouncil/Basilisk-node-sub002/trace"
	"github.com/galacticcouncil/Basilisk-node-sub002/xyk"
)

type Exchange struct {
	Config  *config.Config
	Emitter *amm.Emitter

	XYK        *xyk.Engine
	LBP        *lbp.Engine
	Stableswap *stableswap.Engine
	Router     *router.Router
	Tracer     trace.Tracer

	log logging.Logger
}

// New builds every engine from [cfg]. Router metrics are registered with
// [registerer]; [subs] receive flushed events.
func New(
	cfg *config.Config,
	log logging.Logger,
	registerer prometheus.Registerer,
	subs ...event.Subscription[amm.Event],
) (*Exchange, error) {
	metrics, err := router.NewMetrics(registerer)
	if err != nil {
		return nil, fmt.Errorf("unable to register router metrics: %w", err)
	}
	tracer, err := ammtrace.New(cfg.Trace)
	if err != nil {
		return nil, fmt.Errorf("unable to create tracer: %w", err)
	}
	emitter := amm.NewEmitter(subs...)
	e := &Exchange{
		Config:     cfg,
		Emitter:    emitter,
		XYK:        xyk.New(cfg.XYK, cfg.Limits, cfg.NativeAssetID, emitter, log),
		LBP:        lbp.New(cfg.LBP, cfg.Limits, storage.HeightProvider{}, emitter, log),
		Stableswap: stableswap.New(cfg.Stableswap, cfg.Limits, emitter, log),
		Tracer:     tracer,
		log:        log,
	}
	e.Router = router.New(cfg.Router, emitter, log, metrics, e.XYK, e.LBP, e.Stableswap)
	return e, nil
}

// Genesis registers the native asset in [mu] unless it already exists.
func (e *Exchange) Genesis(ctx context.Context, mu state.Mutable) (codec.AssetID, error) {
	exists, err := storage.AssetExists(ctx, mu, e.Config.NativeAssetID)
	if err != nil {
		return 0, err
	}
	if exists {
		return e.Config.NativeAssetID, nil
	}
	native, err := storage.Genesis(ctx, mu)
	if err != nil {
		return 0, err
	}
	e.log.Info("initialized state", zap.Stringer("native", native))
	return native, nil
}

// Execute runs [f] as one transaction and delivers its events to the
// subscribers once it commits.
func (e *Exchange) Execute(ctx context.Context, mu state.Mutable, f func(state.Mutable) error) error {
	ctx, span := e.Tracer.Start(ctx, "Exchange.Execute")
	defer span.End()

	if err := amm.Transactional(ctx, mu, e.Emitter, f); err != nil {
		return err
	}
	return e.Emitter.Flush(ctx)
}

// Close flushes the tracer and closes every subscription.
func (e *Exchange) Close() error {
	return errors.Join(e.Tracer.Close(), e.Emitter.Close())
}
