// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package lbp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/galacticcouncil/Basilisk-node-sub002/amm"
	"github.com/galacticcouncil/Basilisk-node-sub002/auth"
	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/consts"
)

// Every case trades at block 20 where the weights are 40% (A) and 60% (B).
func TestTradeFeeSides(t *testing.T) {
	tests := []struct {
		name     string
		sell     bool
		assetIn  codec.AssetID
		assetOut codec.AssetID
		amount   uint64

		traderIn    uint64
		traderOut   uint64
		poolIn      uint64
		poolOut     uint64
		fee         uint64
		feeFromPool bool
	}{
		{
			name:      "sell accumulated",
			sell:      true,
			assetIn:   assetA,
			assetOut:  assetB,
			amount:    10 * consts.UNITS,
			traderIn:  10 * consts.UNITS,
			traderOut: 12_289_952_858_141,
			poolIn:    9_980_000_000_000,
			poolOut:   12_289_952_858_141,
			fee:       20_000_000_000,
		},
		{
			name:        "sell distributed",
			sell:        true,
			assetIn:     assetB,
			assetOut:    assetA,
			amount:      10 * consts.UNITS,
			traderIn:    10 * consts.UNITS,
			traderOut:   7_043_021_637_844,
			poolIn:      10 * consts.UNITS,
			poolOut:     7_057_135_909_663,
			fee:         14_114_271_819,
			feeFromPool: true,
		},
		{
			name:        "buy accumulated",
			assetIn:     assetB,
			assetOut:    assetA,
			amount:      5 * consts.UNITS,
			traderIn:    6_971_908_281_700,
			traderOut:   5 * consts.UNITS,
			poolIn:      6_971_908_281_700,
			poolOut:     5_010_000_000_000,
			fee:         10_000_000_000,
			feeFromPool: true,
		},
		{
			name:      "buy distributed",
			assetIn:   assetA,
			assetOut:  assetB,
			amount:    10 * consts.UNITS,
			traderIn:  8_013_716_714_666,
			traderOut: 10 * consts.UNITS,
			poolIn:    7_997_721_272_122,
			poolOut:   10 * consts.UNITS,
			fee:       15_995_442_544,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			env := newTestEnv(t)
			account := env.createPool(t, defaultArgs())
			env.setBlock(t, 20)
			reserveIn := env.balance(t, tt.assetIn, account)
			reserveOut := env.balance(t, tt.assetOut, account)

			if tt.sell {
				require.NoError(env.engine.Sell(env.ctx, env.db, auth.Signed(bob), tt.assetIn, tt.assetOut, tt.amount, tt.traderOut))
				require.Equal(SellExecuted{
					Who:       bob,
					AssetIn:   tt.assetIn,
					AssetOut:  tt.assetOut,
					AmountIn:  tt.poolIn,
					AmountOut: tt.traderOut,
					FeeAsset:  assetA,
					Fee:       tt.fee,
				}, env.lastEvent())
			} else {
				require.NoError(env.engine.Buy(env.ctx, env.db, auth.Signed(bob), tt.assetIn, tt.assetOut, tt.amount, tt.traderIn))
				require.Equal(BuyExecuted{
					Who:       bob,
					AssetOut:  tt.assetOut,
					AssetIn:   tt.assetIn,
					AmountOut: tt.traderOut,
					AmountIn:  tt.poolIn,
					FeeAsset:  assetA,
					Fee:       tt.fee,
				}, env.lastEvent())
			}

			require.Equal(1_000*consts.UNITS-tt.traderIn, env.balance(t, tt.assetIn, bob))
			require.Equal(1_000*consts.UNITS+tt.traderOut, env.balance(t, tt.assetOut, bob))
			require.Equal(reserveIn+tt.poolIn, env.balance(t, tt.assetIn, account))
			require.Equal(reserveOut-tt.poolOut, env.balance(t, tt.assetOut, account))
			require.Equal(tt.fee, env.balance(t, assetA, charlie))
			if tt.feeFromPool {
				require.Equal(tt.poolOut, tt.traderOut+tt.fee)
			} else {
				require.Equal(tt.traderIn, tt.poolIn+tt.fee)
			}

			pool, _, err := GetPool(env.ctx, env.db, account)
			require.NoError(err)
			require.Equal(tt.fee, pool.Repaid)
		})
	}
}

func TestSaleWindow(t *testing.T) {
	tests := []struct {
		block uint64
		err   error
	}{
		{block: 5, err: ErrSaleNotStarted},
		{block: 9, err: ErrSaleNotStarted},
		{block: 10},
		{block: 25},
		{block: 40},
		{block: 41, err: ErrSaleEnded},
		{block: 45, err: ErrSaleEnded},
	}
	for _, tt := range tests {
		require := require.New(t)

		env := newTestEnv(t)
		env.createPool(t, defaultArgs())
		env.setBlock(t, tt.block)

		err := env.engine.Sell(env.ctx, env.db, auth.Signed(bob), assetA, assetB, consts.UNITS, 0)
		if tt.err == nil {
			require.NoError(err, "block %d", tt.block)
		} else {
			require.ErrorIs(err, tt.err, "block %d", tt.block)
		}
		_, err = env.engine.CalculateBuy(env.ctx, env.db, amm.LBP(), assetA, assetB, consts.UNITS)
		if tt.err == nil {
			require.NoError(err, "block %d", tt.block)
		} else {
			require.ErrorIs(err, tt.err, "block %d", tt.block)
		}
	}
}

func TestRepayFee(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t)
	args := defaultArgs()
	args.RepayTarget = 2 * consts.UNITS
	env.createPool(t, args)
	env.setBlock(t, 20)

	require.NoError(env.engine.Sell(env.ctx, env.db, auth.Signed(bob), assetA, assetB, 10*consts.UNITS, 0))
	require.Equal(2*consts.UNITS, env.balance(t, assetA, charlie))
	require.Equal(1_000*consts.UNITS+10_002_672_591_478, env.balance(t, assetB, bob))

	// the target is met so the pool fee applies
	require.NoError(env.engine.Sell(env.ctx, env.db, auth.Signed(bob), assetA, assetB, 10*consts.UNITS, 0))
	require.Equal(2*consts.UNITS+20_000_000_000, env.balance(t, assetA, charlie))
}

func TestTradeErrors(t *testing.T) {
	tests := []struct {
		name     string
		origin   auth.Origin
		sell     bool
		assetIn  codec.AssetID
		assetOut codec.AssetID
		amount   uint64
		limit    uint64
		err      error
	}{
		{
			name:     "root origin",
			origin:   auth.Root(),
			sell:     true,
			assetIn:  assetA,
			assetOut: assetB,
			amount:   consts.UNITS,
			err:      auth.ErrBadOrigin,
		},
		{
			name:     "zero amount",
			sell:     true,
			assetIn:  assetA,
			assetOut: assetB,
			err:      ErrZeroAmount,
		},
		{
			name:     "below trading limit",
			assetIn:  assetA,
			assetOut: assetB,
			amount:   999,
			limit:    consts.UNITS,
			err:      ErrInsufficientTradingAmount,
		},
		{
			name:     "pool not found",
			sell:     true,
			assetIn:  assetA,
			assetOut: assetC,
			amount:   consts.UNITS,
			err:      ErrPoolNotFound,
		},
		{
			name:     "sell more than owned",
			sell:     true,
			assetIn:  assetA,
			assetOut: assetB,
			amount:   1_001 * consts.UNITS,
			err:      ErrInsufficientAssetBalance,
		},
		{
			name:     "sell over max in ratio",
			sell:     true,
			assetIn:  assetA,
			assetOut: assetB,
			amount:   34 * consts.UNITS,
			err:      ErrMaxInRatioExceeded,
		},
		{
			name:     "sell under min bought",
			sell:     true,
			assetIn:  assetA,
			assetOut: assetB,
			amount:   10 * consts.UNITS,
			limit:    13 * consts.UNITS,
			err:      ErrTradingLimitReached,
		},
		{
			name:     "buy whole reserve",
			assetIn:  assetA,
			assetOut: assetB,
			amount:   200 * consts.UNITS,
			limit:    1_000 * consts.UNITS,
			err:      ErrInsufficientLiquidity,
		},
		{
			name:     "buy over max out ratio",
			assetIn:  assetA,
			assetOut: assetB,
			amount:   70 * consts.UNITS,
			limit:    1_000 * consts.UNITS,
			err:      ErrMaxOutRatioExceeded,
		},
		{
			name:     "buy over max sold",
			assetIn:  assetA,
			assetOut: assetB,
			amount:   10 * consts.UNITS,
			limit:    8 * consts.UNITS,
			err:      ErrTradingLimitReached,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			env := newTestEnv(t)
			account := env.createPool(t, defaultArgs())
			env.setBlock(t, 20)
			events := len(env.emitter.Pending())

			origin := tt.origin
			if origin == (auth.Origin{}) {
				origin = auth.Signed(bob)
			}
			var err error
			if tt.sell {
				err = env.engine.Sell(env.ctx, env.db, origin, tt.assetIn, tt.assetOut, tt.amount, tt.limit)
			} else {
				err = env.engine.Buy(env.ctx, env.db, origin, tt.assetIn, tt.assetOut, tt.amount, tt.limit)
			}
			require.ErrorIs(err, tt.err)
			require.Len(env.emitter.Pending(), events)
			require.Equal(1_000*consts.UNITS, env.balance(t, assetA, bob))
			require.Equal(100*consts.UNITS, env.balance(t, assetA, account))
			require.Zero(env.balance(t, assetA, charlie))
		})
	}
}

func TestTradeExecution(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t)
	env.createPool(t, defaultArgs())
	env.setBlock(t, 20)

	out, err := env.engine.CalculateSell(env.ctx, env.db, amm.LBP(), assetA, assetB, 10*consts.UNITS)
	require.NoError(err)
	require.Equal(uint64(12_289_952_858_141), out)

	in, err := env.engine.CalculateBuy(env.ctx, env.db, amm.LBP(), assetA, assetB, 10*consts.UNITS)
	require.NoError(err)
	require.Equal(uint64(8_013_716_714_666), in)

	depth, err := env.engine.GetLiquidityDepth(env.ctx, env.db, amm.LBP(), assetA, assetB)
	require.NoError(err)
	require.Equal(200*consts.UNITS, depth)

	require.NoError(env.engine.ExecuteSell(env.ctx, env.db, bob, amm.LBP(), assetA, assetB, 10*consts.UNITS, out))
	require.Equal(1_000*consts.UNITS+out, env.balance(t, assetB, bob))

	for _, pool := range []amm.PoolType{amm.XYK(), amm.Stableswap(4)} {
		_, err := env.engine.CalculateSell(env.ctx, env.db, pool, assetA, assetB, consts.UNITS)
		require.ErrorIs(err, amm.ErrNotSupported)
		_, err = env.engine.CalculateBuy(env.ctx, env.db, pool, assetA, assetB, consts.UNITS)
		require.ErrorIs(err, amm.ErrNotSupported)
		_, err = env.engine.GetLiquidityDepth(env.ctx, env.db, pool, assetA, assetB)
		require.ErrorIs(err, amm.ErrNotSupported)
		require.ErrorIs(env.engine.ExecuteSell(env.ctx, env.db, bob, pool, assetA, assetB, consts.UNITS, 0), amm.ErrNotSupported)
		require.ErrorIs(env.engine.ExecuteBuy(env.ctx, env.db, bob, pool, assetA, assetB, consts.UNITS, consts.UNITS), amm.ErrNotSupported)
	}
}

func TestSpotPrice(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t)
	env.createPool(t, defaultArgs())
	env.setBlock(t, 20)

	price, err := env.engine.GetSpotPrice(env.ctx, env.db, assetA, assetB, consts.UNITS)
	require.NoError(err)
	require.Equal(uint64(1_333_333_333_333), price)
}
