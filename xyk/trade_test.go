// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package xyk

import (
	"math/rand"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/galacticcouncil/Basilisk-node-sub002/auth"
	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/config"
	"github.com/galacticcouncil/Basilisk-node-sub002/consts"
	"github.com/galacticcouncil/Basilisk-node-sub002/storage"
	"github.com/galacticcouncil/Basilisk-node-sub002/utils"
)

var carol = utils.AccountAddress("carol")

func TestSell(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, nil)
	env.createPool(t, assetA, 100*consts.UNITS, assetB, 50*consts.UNITS)

	require.NoError(env.engine.Sell(env.ctx, env.db, auth.Signed(bob), assetA, assetB, 10*consts.UNITS, 4_500_000_000_000, false))

	account := PoolAccount(assetA, assetB)
	require.Equal(990*consts.UNITS, env.balance(t, assetA, bob))
	require.Equal(1_000*consts.UNITS+4_531_818_181_818, env.balance(t, assetB, bob))
	require.Equal(110*consts.UNITS, env.balance(t, assetA, account))
	// the fee stays in the pool
	require.Equal(uint64(45_468_181_818_182), env.balance(t, assetB, account))
	require.Equal(SellExecuted{
		Who:       bob,
		AssetIn:   assetA,
		AssetOut:  assetB,
		AmountIn:  10 * consts.UNITS,
		AmountOut: 4_531_818_181_818,
		FeeAsset:  assetB,
		Fee:       13_636_363_636,
	}, env.lastEvent())
}

func TestBuy(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, nil)
	env.createPool(t, assetA, 100*consts.UNITS, assetB, 50*consts.UNITS)

	require.NoError(env.engine.Buy(env.ctx, env.db, auth.Signed(bob), assetA, assetB, 5*consts.UNITS, 12*consts.UNITS, false))

	account := PoolAccount(assetA, assetB)
	require.Equal(1_000*consts.UNITS-11_144_444_444_445, env.balance(t, assetA, bob))
	require.Equal(1_005*consts.UNITS, env.balance(t, assetB, bob))
	require.Equal(100*consts.UNITS+11_144_444_444_445, env.balance(t, assetA, account))
	require.Equal(45*consts.UNITS, env.balance(t, assetB, account))
	require.Equal(BuyExecuted{
		Who:       bob,
		AssetOut:  assetB,
		AssetIn:   assetA,
		AmountOut: 5 * consts.UNITS,
		AmountIn:  11_111_111_111_112,
		FeeAsset:  assetA,
		Fee:       33_333_333_333,
	}, env.lastEvent())
}

func TestTradeErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
		origin auth.Origin
		sell   bool
		assetB codec.AssetID
		amount uint64
		limit  uint64
		err    error
	}{
		{
			name:   "root origin",
			origin: auth.Root(),
			sell:   true,
			assetB: assetB,
			amount: 10 * consts.UNITS,
			err:    auth.ErrBadOrigin,
		},
		{
			name:   "sell below trading limit",
			sell:   true,
			assetB: assetB,
			amount: 999,
			err:    ErrInsufficientTradingAmount,
		},
		{
			name:   "sell without pool",
			sell:   true,
			assetB: assetC,
			amount: 10 * consts.UNITS,
			err:    ErrTokenPoolNotFound,
		},
		{
			name:   "sell more than owned",
			sell:   true,
			assetB: assetB,
			amount: 1_001 * consts.UNITS,
			err:    ErrInsufficientAssetBalance,
		},
		{
			name:   "sell over max in ratio",
			sell:   true,
			assetB: assetB,
			amount: 34 * consts.UNITS,
			err:    ErrMaxInRatioExceeded,
		},
		{
			name:   "sell under min bought",
			sell:   true,
			assetB: assetB,
			amount: 10 * consts.UNITS,
			limit:  5 * consts.UNITS,
			err:    ErrAssetAmountNotReachedLimit,
		},
		{
			name: "sell over max out ratio",
			modify: func(c *config.Config) {
				c.MaxInRatio = 1
			},
			sell:   true,
			assetB: assetB,
			amount: 100 * consts.UNITS,
			err:    ErrMaxOutRatioExceeded,
		},
		{
			name:   "buy below trading limit",
			assetB: assetB,
			amount: 999,
			limit:  consts.UNITS,
			err:    ErrInsufficientTradingAmount,
		},
		{
			name:   "buy whole reserve",
			assetB: assetB,
			amount: 50 * consts.UNITS,
			limit:  1_000 * consts.UNITS,
			err:    ErrInsufficientPoolAssetBalance,
		},
		{
			name:   "buy over max out ratio",
			assetB: assetB,
			amount: 17 * consts.UNITS,
			limit:  1_000 * consts.UNITS,
			err:    ErrMaxOutRatioExceeded,
		},
		{
			name:   "buy over limit",
			assetB: assetB,
			amount: 5 * consts.UNITS,
			limit:  11 * consts.UNITS,
			err:    ErrAssetAmountExceededLimit,
		},
		{
			name:   "buy over max in ratio",
			assetB: assetB,
			amount: 16 * consts.UNITS,
			limit:  1_000 * consts.UNITS,
			err:    ErrMaxInRatioExceeded,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			env := newTestEnv(t, tt.modify)
			env.createPool(t, assetA, 100*consts.UNITS, assetB, 50*consts.UNITS)
			events := len(env.emitter.Pending())

			origin := tt.origin
			if origin == (auth.Origin{}) {
				origin = auth.Signed(bob)
			}
			var err error
			if tt.sell {
				err = env.engine.Sell(env.ctx, env.db, origin, assetA, tt.assetB, tt.amount, tt.limit, false)
			} else {
				err = env.engine.Buy(env.ctx, env.db, origin, assetA, tt.assetB, tt.amount, tt.limit, false)
			}
			require.ErrorIs(err, tt.err)

			require.Len(env.emitter.Pending(), events)
			require.Equal(1_000*consts.UNITS, env.balance(t, assetA, bob))
			require.Equal(1_000*consts.UNITS, env.balance(t, assetB, bob))
			require.Equal(100*consts.UNITS, env.balance(t, assetA, PoolAccount(assetA, assetB)))
		})
	}
}

func TestSellWithDiscount(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, nil)
	env.createPool(t, assetA, 100*consts.UNITS, assetB, 50*consts.UNITS)
	env.createPool(t, assetB, 50*consts.UNITS, native, 200*consts.UNITS)
	before, err := storage.GetTotalIssuance(env.ctx, env.db, native)
	require.NoError(err)

	require.NoError(env.engine.Sell(env.ctx, env.db, auth.Signed(bob), assetA, assetB, 10*consts.UNITS, 0, true))

	require.Equal(1_000*consts.UNITS+4_542_272_727_273, env.balance(t, assetB, bob))
	require.Equal(1_000*consts.UNITS-12_727_272_724, env.balance(t, native, bob))
	after, err := storage.GetTotalIssuance(env.ctx, env.db, native)
	require.NoError(err)
	require.Equal(before-12_727_272_724, after)
	require.Equal(uint64(3_181_818_181), env.lastEvent().(SellExecuted).Fee)
}

func TestDiscountErrors(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, nil)
	env.createPool(t, assetA, 100*consts.UNITS, assetB, 50*consts.UNITS)

	err := env.engine.Sell(env.ctx, env.db, auth.Signed(bob), assetA, assetB, 10*consts.UNITS, 0, true)
	require.ErrorIs(err, ErrCannotApplyDiscount)

	// carol holds no native currency to burn
	require.NoError(storage.Deposit(env.ctx, env.db, assetA, carol, 100*consts.UNITS))
	env.createPool(t, assetB, 50*consts.UNITS, native, 200*consts.UNITS)
	err = env.engine.Sell(env.ctx, env.db, auth.Signed(carol), assetA, assetB, 10*consts.UNITS, 0, true)
	require.ErrorIs(err, ErrInsufficientNativeCurrencyBalance)
	require.Equal(100*consts.UNITS, env.balance(t, assetA, carol))
}

func TestFeeReceiver(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, func(c *config.Config) {
		c.XYK.FeeReceiver = carol.String()
		require.NoError(c.Verify())
	})
	env.createPool(t, assetA, 100*consts.UNITS, assetB, 50*consts.UNITS)
	account := PoolAccount(assetA, assetB)

	require.NoError(env.engine.Sell(env.ctx, env.db, auth.Signed(bob), assetA, assetB, 10*consts.UNITS, 0, false))
	require.Equal(uint64(13_636_363_636), env.balance(t, assetB, carol))
	require.Equal(50*consts.UNITS-4_545_454_545_454, env.balance(t, assetB, account))

	require.NoError(env.engine.Buy(env.ctx, env.db, auth.Signed(bob), assetB, assetA, consts.UNITS, 10*consts.UNITS, false))
	events := env.emitter.Pending()
	buy := events[len(events)-1].(BuyExecuted)
	require.Equal(buy.Fee, env.balance(t, assetB, carol)-13_636_363_636)
	require.Equal(50*consts.UNITS-4_545_454_545_454+buy.AmountIn, env.balance(t, assetB, account))
}

func TestTradesKeepInvariant(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, nil)
	env.createPool(t, assetA, 100*consts.UNITS, assetB, 50*consts.UNITS)
	account := PoolAccount(assetA, assetB)

	invariant := func() *uint256.Int {
		a := uint256.NewInt(env.balance(t, assetA, account))
		b := uint256.NewInt(env.balance(t, assetB, account))
		return new(uint256.Int).Mul(a, b)
	}

	r := rand.New(rand.NewSource(1)) //nolint:gosec
	last := invariant()
	for i := 0; i < 200; i++ {
		assetIn, assetOut := assetA, assetB
		if r.Intn(2) == 0 {
			assetIn, assetOut = assetB, assetA
		}
		amount := consts.UNITS/100 + uint64(r.Int63n(int64(consts.UNITS)))
		if r.Intn(2) == 0 {
			require.NoError(env.engine.Sell(env.ctx, env.db, auth.Signed(bob), assetIn, assetOut, amount, 0, false))
		} else {
			require.NoError(env.engine.Buy(env.ctx, env.db, auth.Signed(bob), assetIn, assetOut, amount, 100*consts.UNITS, false))
		}
		next := invariant()
		require.False(next.Lt(last), "invariant decreased at trade %d", i)
		last = next
	}
}
