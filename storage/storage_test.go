// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"

	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/state"
	"github.com/galacticcouncil/Basilisk-node-sub002/utils"
)

var (
	alice = utils.AccountAddress("alice")
	bob   = utils.AccountAddress("bob")
)

func TestLedger(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.NewDatabase(memdb.New())
	asset := codec.AssetID(1)

	require.NoError(Deposit(ctx, mu, asset, alice, 1_000))
	issuance, err := GetTotalIssuance(ctx, mu, asset)
	require.NoError(err)
	require.Equal(uint64(1_000), issuance)

	require.NoError(Transfer(ctx, mu, asset, alice, bob, 400))
	balance, err := GetBalance(ctx, mu, asset, alice)
	require.NoError(err)
	require.Equal(uint64(600), balance)
	balance, err = GetBalance(ctx, mu, asset, bob)
	require.NoError(err)
	require.Equal(uint64(400), balance)

	require.ErrorIs(Transfer(ctx, mu, asset, bob, alice, 401), ErrInsufficientBalance)
	require.ErrorIs(Withdraw(ctx, mu, asset, bob, 401), ErrInsufficientBalance)

	require.NoError(Withdraw(ctx, mu, asset, bob, 400))
	balance, err = GetBalance(ctx, mu, asset, bob)
	require.NoError(err)
	require.Zero(balance)
	issuance, err = GetTotalIssuance(ctx, mu, asset)
	require.NoError(err)
	require.Equal(uint64(600), issuance)
}

func TestRegistry(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.NewDatabase(memdb.New())

	native, err := Genesis(ctx, mu)
	require.NoError(err)
	require.Equal(codec.AssetID(0), native)

	dot, err := RegisterAsset(ctx, mu, []byte("DOT"), 10)
	require.NoError(err)
	require.Equal(codec.AssetID(1), dot)

	_, err = RegisterAsset(ctx, mu, []byte("DOT"), 10)
	require.ErrorIs(err, ErrAssetAlreadyRegistered)
	_, err = RegisterAsset(ctx, mu, nil, 0)
	require.ErrorIs(err, ErrInvalidAssetName)

	id, err := RetrieveOrCreateAsset(ctx, mu, []byte("DOT"), 0)
	require.NoError(err)
	require.Equal(dot, id)
	id, err = RetrieveOrCreateAsset(ctx, mu, []byte("KSM"), 0)
	require.NoError(err)
	require.Equal(codec.AssetID(2), id)

	asset, exists, err := GetAsset(ctx, mu, dot)
	require.NoError(err)
	require.True(exists)
	require.Equal([]byte("DOT"), asset.Name)
	require.Equal(uint64(10), asset.ExistentialDeposit)

	exists, err = AssetExists(ctx, mu, 99)
	require.NoError(err)
	require.False(exists)
}

func TestBlockHeight(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.NewDatabase(memdb.New())

	height, err := HeightProvider{}.CurrentBlockNumber(ctx, mu)
	require.NoError(err)
	require.Zero(height)

	require.NoError(SetBlockHeight(ctx, mu, 25))
	height, err = HeightProvider{}.CurrentBlockNumber(ctx, mu)
	require.NoError(err)
	require.Equal(uint64(25), height)
}
