// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/galacticcouncil/Basilisk-node-sub002/amm"
	"github.com/galacticcouncil/Basilisk-node-sub002/auth"
	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/config"
	"github.com/galacticcouncil/Basilisk-node-sub002/consts"
	"github.com/galacticcouncil/Basilisk-node-sub002/lbp"
	"github.com/galacticcouncil/Basilisk-node-sub002/pricing"
	"github.com/galacticcouncil/Basilisk-node-sub002/stableswap"
	"github.com/galacticcouncil/Basilisk-node-sub002/state"
	"github.com/galacticcouncil/Basilisk-node-sub002/storage"
	"github.com/galacticcouncil/Basilisk-node-sub002/utils"
	"github.com/galacticcouncil/Basilisk-node-sub002/xyk"
)

const (
	assetA codec.AssetID = 1
	assetB codec.AssetID = 2
	assetC codec.AssetID = 3
	assetD codec.AssetID = 4
	shares codec.AssetID = 5
)

var (
	charlie = utils.AccountAddress("charlie")

	// threeLegs trades A for D through an XYK, an LBP and a stableswap
	// pool.
	threeLegs = []Trade{
		{Pool: amm.XYK(), AssetIn: assetA, AssetOut: assetB},
		{Pool: amm.LBP(), AssetIn: assetB, AssetOut: assetC},
		{Pool: amm.Stableswap(shares), AssetIn: assetC, AssetOut: assetD},
	}
)

type routeEnv struct {
	ctx     context.Context
	db      *state.Database
	emitter *amm.Emitter
	router  *Router

	accounts []codec.Address
}

func newRouteEnv(t *testing.T) *routeEnv {
	require := require.New(t)

	ctx := context.Background()
	db := state.NewDatabase(memdb.New())
	native, err := storage.Genesis(ctx, db)
	require.NoError(err)
	for _, name := range []string{"AAA", "BBB", "CCC", "DDD", "SHR"} {
		_, err := storage.RegisterAsset(ctx, db, []byte(name), 0)
		require.NoError(err)
	}
	for _, who := range []codec.Address{alice, bob} {
		for _, asset := range []codec.AssetID{native, assetA, assetB, assetC, assetD} {
			require.NoError(storage.Deposit(ctx, db, asset, who, 1_000*consts.UNITS))
		}
	}

	cfg := config.Default()
	emitter := amm.NewEmitter()
	xykEngine := xyk.New(cfg.XYK, cfg.Limits, native, emitter, logging.NoLog{})
	lbpEngine := lbp.New(cfg.LBP, cfg.Limits, storage.HeightProvider{}, emitter, logging.NoLog{})
	stableEngine := stableswap.New(cfg.Stableswap, cfg.Limits, emitter, logging.NoLog{})

	require.NoError(xykEngine.CreatePool(ctx, db, auth.Signed(alice), assetA, 100*consts.UNITS, assetB, 100*consts.UNITS))
	require.NoError(lbpEngine.CreatePool(ctx, db, auth.Root(), lbp.CreateArgs{
		Owner:         alice,
		AssetA:        assetB,
		AmountA:       100 * consts.UNITS,
		AssetB:        assetC,
		AmountB:       200 * consts.UNITS,
		InitialWeight: 20_000_000,
		FinalWeight:   80_000_000,
		WeightCurve:   lbp.Linear,
		Fee:           pricing.NewFee(2, 1_000),
		FeeCollector:  charlie,
		Start:         10,
		End:           40,
	}))
	require.NoError(storage.SetBlockHeight(ctx, db, 20))
	require.NoError(stableEngine.CreatePool(ctx, db, auth.Root(), shares, []codec.AssetID{assetC, assetD}, 100, 3_000, 5_000))
	require.NoError(stableEngine.AddLiquidity(ctx, db, auth.Signed(alice), shares, []stableswap.AssetAmount{
		{AssetID: assetC, Amount: 100 * consts.UNITS},
		{AssetID: assetD, Amount: 100 * consts.UNITS},
	}))
	require.NoError(emitter.Flush(ctx))

	metrics, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(err)
	return &routeEnv{
		ctx:     ctx,
		db:      db,
		emitter: emitter,
		router:  New(cfg.Router, emitter, logging.NoLog{}, metrics, xykEngine, lbpEngine, stableEngine),
		accounts: []codec.Address{
			bob,
			charlie,
			xyk.PoolAccount(assetA, assetB),
			lbp.PoolAccount(assetB, assetC),
			stableswap.PoolAccount(shares, []codec.AssetID{assetC, assetD}),
		},
	}
}

func (e *routeEnv) balance(t *testing.T, asset codec.AssetID, who codec.Address) uint64 {
	b, err := storage.GetBalance(e.ctx, e.db, asset, who)
	require.NoError(t, err)
	return b
}

// snapshot returns every balance a route can touch.
func (e *routeEnv) snapshot(t *testing.T) map[codec.Address][]uint64 {
	out := make(map[codec.Address][]uint64, len(e.accounts))
	for _, who := range e.accounts {
		for _, asset := range []codec.AssetID{assetA, assetB, assetC, assetD} {
			out[who] = append(out[who], e.balance(t, asset, who))
		}
	}
	return out
}

func TestThreeLegSell(t *testing.T) {
	require := require.New(t)

	env := newRouteEnv(t)
	amounts, err := env.router.CalculateSellAmounts(env.ctx, env.db, consts.UNITS, threeLegs)
	require.NoError(err)
	require.Len(amounts, 3)
	for i := 1; i < len(amounts); i++ {
		require.Equal(amounts[i-1].AmountOut, amounts[i].AmountIn)
	}
	out := amounts[2].AmountOut
	require.Positive(out)

	require.NoError(env.router.Sell(env.ctx, env.db, auth.Signed(bob), assetA, assetD, consts.UNITS, out, threeLegs))
	require.Equal(999*consts.UNITS, env.balance(t, assetA, bob))
	require.Equal(1_000*consts.UNITS, env.balance(t, assetB, bob))
	require.Equal(1_000*consts.UNITS, env.balance(t, assetC, bob))
	require.Equal(1_000*consts.UNITS+out, env.balance(t, assetD, bob))

	pending := env.emitter.Pending()
	require.Len(pending, 4)
	require.IsType(xyk.SellExecuted{}, pending[0])
	require.IsType(lbp.SellExecuted{}, pending[1])
	require.IsType(stableswap.SellExecuted{}, pending[2])
	require.Equal(RouteExecuted{
		Who:       bob,
		AssetIn:   assetA,
		AssetOut:  assetD,
		AmountIn:  consts.UNITS,
		AmountOut: out,
		Legs:      3,
	}, pending[3])
}

func TestThreeLegSellBelowMinimum(t *testing.T) {
	require := require.New(t)

	env := newRouteEnv(t)
	amounts, err := env.router.CalculateSellAmounts(env.ctx, env.db, consts.UNITS, threeLegs)
	require.NoError(err)
	before := env.snapshot(t)

	err = env.router.Sell(env.ctx, env.db, auth.Signed(bob), assetA, assetD, consts.UNITS, amounts[2].AmountOut+1, threeLegs)
	require.ErrorIs(err, ErrTradingLimitReached)
	require.Equal(before, env.snapshot(t))
	require.Empty(env.emitter.Pending())
}

func TestThreeLegIntermediateFailure(t *testing.T) {
	require := require.New(t)

	env := newRouteEnv(t)
	require.NoError(storage.SetBlockHeight(env.ctx, env.db, 45))
	before := env.snapshot(t)

	err := env.router.Sell(env.ctx, env.db, auth.Signed(bob), assetA, assetD, consts.UNITS, 0, threeLegs)
	require.ErrorIs(err, lbp.ErrSaleEnded)
	err = env.router.Buy(env.ctx, env.db, auth.Signed(bob), assetA, assetD, consts.UNITS, 10*consts.UNITS, threeLegs)
	require.ErrorIs(err, lbp.ErrSaleEnded)
	require.Equal(before, env.snapshot(t))
	require.Empty(env.emitter.Pending())
}

func TestThreeLegBuy(t *testing.T) {
	require := require.New(t)

	env := newRouteEnv(t)
	amounts, err := env.router.CalculateBuyAmounts(env.ctx, env.db, consts.UNITS, threeLegs)
	require.NoError(err)
	in := amounts[0].AmountIn

	err = env.router.Buy(env.ctx, env.db, auth.Signed(bob), assetA, assetD, consts.UNITS, in-1, threeLegs)
	require.ErrorIs(err, ErrTradingLimitReached)

	require.NoError(env.router.Buy(env.ctx, env.db, auth.Signed(bob), assetA, assetD, consts.UNITS, in, threeLegs))
	require.Equal(1_000*consts.UNITS-in, env.balance(t, assetA, bob))
	require.Equal(1_000*consts.UNITS, env.balance(t, assetB, bob))
	require.Equal(1_000*consts.UNITS, env.balance(t, assetC, bob))
	require.Equal(1_001*consts.UNITS, env.balance(t, assetD, bob))
}
