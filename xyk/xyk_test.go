// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package xyk

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/galacticcouncil/Basilisk-node-sub002/amm"
	"github.com/galacticcouncil/Basilisk-node-sub002/auth"
	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/config"
	"github.com/galacticcouncil/Basilisk-node-sub002/consts"
	"github.com/galacticcouncil/Basilisk-node-sub002/state"
	"github.com/galacticcouncil/Basilisk-node-sub002/storage"
	"github.com/galacticcouncil/Basilisk-node-sub002/utils"
)

const (
	native codec.AssetID = 0
	assetA codec.AssetID = 1
	assetB codec.AssetID = 2
	assetC codec.AssetID = 3
)

var (
	alice = utils.AccountAddress("alice")
	bob   = utils.AccountAddress("bob")
)

type testEnv struct {
	ctx     context.Context
	db      *state.Database
	emitter *amm.Emitter
	engine  *Engine
}

func newTestEnv(t *testing.T, modify func(*config.Config)) *testEnv {
	require := require.New(t)

	ctx := context.Background()
	db := state.NewDatabase(memdb.New())
	id, err := storage.Genesis(ctx, db)
	require.NoError(err)
	require.Equal(native, id)
	for i, name := range []string{"AAA", "BBB", "CCC"} {
		id, err := storage.RegisterAsset(ctx, db, []byte(name), 0)
		require.NoError(err)
		require.Equal(codec.AssetID(i+1), id)
	}
	for _, who := range []codec.Address{alice, bob} {
		for _, asset := range []codec.AssetID{native, assetA, assetB, assetC} {
			require.NoError(storage.Deposit(ctx, db, asset, who, 1_000*consts.UNITS))
		}
	}

	cfg := config.Default()
	if modify != nil {
		modify(cfg)
	}
	emitter := amm.NewEmitter()
	return &testEnv{
		ctx:     ctx,
		db:      db,
		emitter: emitter,
		engine:  New(cfg.XYK, cfg.Limits, cfg.NativeAssetID, emitter, logging.NoLog{}),
	}
}

func (e *testEnv) balance(t *testing.T, asset codec.AssetID, who codec.Address) uint64 {
	b, err := storage.GetBalance(e.ctx, e.db, asset, who)
	require.NoError(t, err)
	return b
}

func (e *testEnv) createPool(t *testing.T, a codec.AssetID, amountA uint64, b codec.AssetID, amountB uint64) {
	require.NoError(t, e.engine.CreatePool(e.ctx, e.db, auth.Signed(alice), a, amountA, b, amountB))
}

func (e *testEnv) lastEvent() amm.Event {
	pending := e.emitter.Pending()
	if len(pending) == 0 {
		return nil
	}
	return pending[len(pending)-1]
}

func TestCreatePool(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, nil)
	env.createPool(t, assetB, 50*consts.UNITS, assetA, 100*consts.UNITS)

	account := PoolAccount(assetA, assetB)
	require.Equal(account, PoolAccount(assetB, assetA))
	require.True(account.IsPool())
	require.Equal(100*consts.UNITS, env.balance(t, assetA, account))
	require.Equal(50*consts.UNITS, env.balance(t, assetB, account))
	require.Equal(950*consts.UNITS, env.balance(t, assetB, alice))

	pool, exists, err := GetPool(env.ctx, env.db, assetA, assetB)
	require.NoError(err)
	require.True(exists)
	require.Equal(assetB, pool.AssetA)
	require.Equal(assetA, pool.AssetB)
	// shares follow the asset that sorts first
	require.Equal(100*consts.UNITS, pool.TotalLiquidity)
	require.Equal(100*consts.UNITS, env.balance(t, pool.ShareToken, alice))

	shareToken, exists, err := storage.GetAssetIDByName(env.ctx, env.db, []byte("xyk:1:2"))
	require.NoError(err)
	require.True(exists)
	require.Equal(pool.ShareToken, shareToken)

	require.Equal(PoolCreated{
		Who:        alice,
		AssetA:     assetB,
		AssetB:     assetA,
		Shares:     100 * consts.UNITS,
		ShareToken: shareToken,
		Pool:       account,
	}, env.lastEvent())
}

func TestCreatePoolErrors(t *testing.T) {
	tests := []struct {
		name    string
		origin  auth.Origin
		assetA  codec.AssetID
		amountA uint64
		assetB  codec.AssetID
		amountB uint64
		err     error
	}{
		{
			name:    "root origin",
			origin:  auth.Root(),
			assetA:  assetA,
			amountA: 100 * consts.UNITS,
			assetB:  assetC,
			amountB: 100 * consts.UNITS,
			err:     auth.ErrBadOrigin,
		},
		{
			name:    "same assets",
			origin:  auth.Signed(alice),
			assetA:  assetA,
			amountA: 100 * consts.UNITS,
			assetB:  assetA,
			amountB: 100 * consts.UNITS,
			err:     ErrCannotCreatePoolWithSameAssets,
		},
		{
			name:    "first amount below minimum",
			origin:  auth.Signed(alice),
			assetA:  assetA,
			amountA: 999,
			assetB:  assetC,
			amountB: 100 * consts.UNITS,
			err:     ErrInsufficientLiquidity,
		},
		{
			name:    "second amount below minimum",
			origin:  auth.Signed(alice),
			assetA:  assetA,
			amountA: 100 * consts.UNITS,
			assetB:  assetC,
			amountB: 999,
			err:     ErrInsufficientLiquidity,
		},
		{
			name:    "already exists",
			origin:  auth.Signed(alice),
			assetA:  assetB,
			amountA: 100 * consts.UNITS,
			assetB:  assetA,
			amountB: 100 * consts.UNITS,
			err:     ErrTokenPoolAlreadyExists,
		},
		{
			name:    "insufficient balance",
			origin:  auth.Signed(alice),
			assetA:  assetA,
			amountA: 2_000 * consts.UNITS,
			assetB:  assetC,
			amountB: 100 * consts.UNITS,
			err:     ErrInsufficientAssetBalance,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			env := newTestEnv(t, nil)
			env.createPool(t, assetA, 100*consts.UNITS, assetB, 50*consts.UNITS)
			events := len(env.emitter.Pending())

			err := env.engine.CreatePool(env.ctx, env.db, tt.origin, tt.assetA, tt.amountA, tt.assetB, tt.amountB)
			require.ErrorIs(err, tt.err)
			require.Len(env.emitter.Pending(), events)
			require.Equal(900*consts.UNITS, env.balance(t, assetA, alice))
			require.Equal(1_000*consts.UNITS, env.balance(t, assetC, alice))
		})
	}
}

func TestAddLiquidity(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, nil)
	env.createPool(t, assetA, 100*consts.UNITS, assetB, 50*consts.UNITS)

	require.NoError(env.engine.AddLiquidity(env.ctx, env.db, auth.Signed(bob), assetA, assetB, 10*consts.UNITS, 6*consts.UNITS))
	account := PoolAccount(assetA, assetB)
	require.Equal(110*consts.UNITS, env.balance(t, assetA, account))
	require.Equal(55*consts.UNITS, env.balance(t, assetB, account))
	require.Equal(995*consts.UNITS, env.balance(t, assetB, bob))

	pool, _, err := GetPool(env.ctx, env.db, assetA, assetB)
	require.NoError(err)
	require.Equal(110*consts.UNITS, pool.TotalLiquidity)
	require.Equal(10*consts.UNITS, env.balance(t, pool.ShareToken, bob))
	require.Equal(LiquidityAdded{
		Who:     bob,
		AssetA:  assetA,
		AssetB:  assetB,
		AmountA: 10 * consts.UNITS,
		AmountB: 5 * consts.UNITS,
		Shares:  10 * consts.UNITS,
	}, env.lastEvent())
}

func TestAddLiquidityErrors(t *testing.T) {
	tests := []struct {
		name    string
		assetB  codec.AssetID
		amountA uint64
		limit   uint64
		err     error
	}{
		{
			name:    "pool not found",
			assetB:  assetC,
			amountA: 10 * consts.UNITS,
			limit:   10 * consts.UNITS,
			err:     ErrTokenPoolNotFound,
		},
		{
			name:    "below trading limit",
			assetB:  assetB,
			amountA: 999,
			limit:   10 * consts.UNITS,
			err:     ErrInsufficientTradingAmount,
		},
		{
			name:    "zero limit",
			assetB:  assetB,
			amountA: 10 * consts.UNITS,
			limit:   0,
			err:     ErrZeroLiquidity,
		},
		{
			name:    "limit exceeded",
			assetB:  assetB,
			amountA: 10 * consts.UNITS,
			limit:   4 * consts.UNITS,
			err:     ErrAssetAmountExceededLimit,
		},
		{
			name:    "insufficient balance",
			assetB:  assetB,
			amountA: 1_001 * consts.UNITS,
			limit:   10 * consts.UNITS,
			err:     ErrInsufficientAssetBalance,
		},
		{
			name:    "required amount below trading limit",
			assetB:  assetB,
			amountA: 1_001,
			limit:   10 * consts.UNITS,
			err:     ErrInsufficientTradingAmount,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			env := newTestEnv(t, nil)
			env.createPool(t, assetA, 100*consts.UNITS, assetB, 50*consts.UNITS)

			err := env.engine.AddLiquidity(env.ctx, env.db, auth.Signed(bob), assetA, tt.assetB, tt.amountA, tt.limit)
			require.ErrorIs(err, tt.err)
			require.Equal(1_000*consts.UNITS, env.balance(t, assetA, bob))
		})
	}
}

func TestLiquidityRoundTrip(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, nil)
	env.createPool(t, assetA, 100*consts.UNITS, assetB, 50*consts.UNITS)
	require.NoError(env.engine.AddLiquidity(env.ctx, env.db, auth.Signed(bob), assetA, assetB, 10*consts.UNITS, 5*consts.UNITS))

	pool, _, err := GetPool(env.ctx, env.db, assetA, assetB)
	require.NoError(err)
	shares := env.balance(t, pool.ShareToken, bob)
	require.NoError(env.engine.RemoveLiquidity(env.ctx, env.db, auth.Signed(bob), assetA, assetB, shares))

	require.Equal(1_000*consts.UNITS, env.balance(t, assetA, bob))
	require.Equal(1_000*consts.UNITS, env.balance(t, assetB, bob))
	require.Zero(env.balance(t, pool.ShareToken, bob))
	require.Equal(LiquidityRemoved{
		Who:     bob,
		AssetA:  assetA,
		AssetB:  assetB,
		Shares:  10 * consts.UNITS,
		AmountA: 10 * consts.UNITS,
		AmountB: 5 * consts.UNITS,
	}, env.lastEvent())
}

func TestLiquidityRoundTripAfterTrade(t *testing.T) {
	tests := []struct {
		name   string
		assetA codec.AssetID
		assetB codec.AssetID
		amount uint64
		limit  uint64
	}{
		{
			name:   "deposit asset sorting first",
			assetA: assetA,
			assetB: assetB,
			amount: 11 * consts.UNITS,
			limit:  10 * consts.UNITS,
		},
		{
			name:   "deposit asset sorting second",
			assetA: assetB,
			assetB: assetA,
			amount: 3 * consts.UNITS,
			limit:  10 * consts.UNITS,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			env := newTestEnv(t, nil)
			env.createPool(t, assetA, 100*consts.UNITS, assetB, 50*consts.UNITS)
			require.NoError(env.engine.Sell(env.ctx, env.db, auth.Signed(bob), assetA, assetB, 10*consts.UNITS, 0, false))

			beforeA := env.balance(t, assetA, bob)
			beforeB := env.balance(t, assetB, bob)
			pool, _, err := GetPool(env.ctx, env.db, assetA, assetB)
			require.NoError(err)
			totalBefore := pool.TotalLiquidity

			require.NoError(env.engine.AddLiquidity(env.ctx, env.db, auth.Signed(bob), tt.assetA, tt.assetB, tt.amount, tt.limit))
			shares := env.balance(t, pool.ShareToken, bob)
			require.NotZero(shares)

			// Shares are minted against the moved reserves, not the raw deposit.
			account := PoolAccount(assetA, assetB)
			reserveA := env.balance(t, assetA, account)
			require.Less(shares, reserveA-(100*consts.UNITS+10*consts.UNITS))
			pool, _, err = GetPool(env.ctx, env.db, assetA, assetB)
			require.NoError(err)
			require.Equal(totalBefore+shares, pool.TotalLiquidity)

			require.NoError(env.engine.RemoveLiquidity(env.ctx, env.db, auth.Signed(bob), tt.assetA, tt.assetB, shares))
			require.LessOrEqual(env.balance(t, assetA, bob), beforeA)
			require.LessOrEqual(env.balance(t, assetB, bob), beforeB)
			require.Zero(env.balance(t, pool.ShareToken, bob))
		})
	}
}

func TestRemoveLiquidityDestroysPool(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, nil)
	env.createPool(t, assetA, 100*consts.UNITS, assetB, 50*consts.UNITS)
	pool, _, err := GetPool(env.ctx, env.db, assetA, assetB)
	require.NoError(err)

	require.NoError(env.engine.RemoveLiquidity(env.ctx, env.db, auth.Signed(alice), assetB, assetA, 100*consts.UNITS))
	account := PoolAccount(assetA, assetB)
	require.Zero(env.balance(t, assetA, account))
	require.Zero(env.balance(t, assetB, account))
	require.Equal(1_000*consts.UNITS, env.balance(t, assetA, alice))
	issuance, err := storage.GetTotalIssuance(env.ctx, env.db, pool.ShareToken)
	require.NoError(err)
	require.Zero(issuance)
	require.Equal(PoolDestroyed{
		Who:        alice,
		AssetA:     assetB,
		AssetB:     assetA,
		ShareToken: pool.ShareToken,
		Pool:       account,
	}, env.lastEvent())

	_, exists, err := GetPool(env.ctx, env.db, assetA, assetB)
	require.NoError(err)
	require.False(exists)

	// the pair can be created again and reuses its share token
	env.createPool(t, assetA, 10*consts.UNITS, assetB, 10*consts.UNITS)
	recreated, _, err := GetPool(env.ctx, env.db, assetA, assetB)
	require.NoError(err)
	require.Equal(pool.ShareToken, recreated.ShareToken)
}

func TestRemoveLiquidityErrors(t *testing.T) {
	tests := []struct {
		name      string
		who       codec.Address
		assetB    codec.AssetID
		liquidity uint64
		err       error
	}{
		{
			name:      "zero",
			who:       alice,
			assetB:    assetB,
			liquidity: 0,
			err:       ErrCannotRemoveLiquidityWithZero,
		},
		{
			name:      "pool not found",
			who:       alice,
			assetB:    assetC,
			liquidity: consts.UNITS,
			err:       ErrTokenPoolNotFound,
		},
		{
			name:      "more than owned",
			who:       bob,
			assetB:    assetB,
			liquidity: consts.UNITS,
			err:       ErrInsufficientAssetBalance,
		},
		{
			name:      "more than total",
			who:       alice,
			assetB:    assetB,
			liquidity: 101 * consts.UNITS,
			err:       ErrInsufficientAssetBalance,
		},
		{
			name:      "dust left",
			who:       alice,
			assetB:    assetB,
			liquidity: 100*consts.UNITS - 500,
			err:       ErrInsufficientLiquidity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			env := newTestEnv(t, nil)
			env.createPool(t, assetA, 100*consts.UNITS, assetB, 50*consts.UNITS)

			err := env.engine.RemoveLiquidity(env.ctx, env.db, auth.Signed(tt.who), assetA, tt.assetB, tt.liquidity)
			require.ErrorIs(err, tt.err)
			require.Equal(100*consts.UNITS, env.balance(t, assetA, PoolAccount(assetA, assetB)))
		})
	}
}
