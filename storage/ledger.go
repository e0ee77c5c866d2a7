// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/consts"
	"github.com/galacticcouncil/Basilisk-node-sub002/keys"
	"github.com/galacticcouncil/Basilisk-node-sub002/state"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// [balancePrefix] + [asset] + [account]
func BalanceKey(asset codec.AssetID, account codec.Address) []byte {
	k := make([]byte, 0, 1+consts.Uint32Len+codec.AddressLen+consts.Uint16Len)
	k = append(k, balancePrefix)
	k = append(k, asset.Bytes()...)
	k = append(k, account[:]...)
	return keys.EncodeChunks(k, BalanceChunks)
}

// [issuancePrefix] + [asset]
func IssuanceKey(asset codec.AssetID) []byte {
	k := make([]byte, 0, 1+consts.Uint32Len+consts.Uint16Len)
	k = append(k, issuancePrefix)
	k = append(k, asset.Bytes()...)
	return keys.EncodeChunks(k, IssuanceChunks)
}

// GetBalance returns the free balance of [account] in [asset]. Missing
// entries are zero.
func GetBalance(
	ctx context.Context,
	im state.Immutable,
	asset codec.AssetID,
	account codec.Address,
) (uint64, error) {
	return getUint64(ctx, im, BalanceKey(asset, account))
}

func setBalance(
	ctx context.Context,
	mu state.Mutable,
	asset codec.AssetID,
	account codec.Address,
	balance uint64,
) error {
	return setUint64(ctx, mu, BalanceKey(asset, account), balance)
}

// GetTotalIssuance returns the amount of [asset] in existence.
func GetTotalIssuance(ctx context.Context, im state.Immutable, asset codec.AssetID) (uint64, error) {
	return getUint64(ctx, im, IssuanceKey(asset))
}

// Transfer moves [amount] of [asset] from [from] to [to].
func Transfer(
	ctx context.Context,
	mu state.Mutable,
	asset codec.AssetID,
	from codec.Address,
	to codec.Address,
	amount uint64,
) error {
	if amount == 0 || from == to {
		return nil
	}
	fromBalance, err := GetBalance(ctx, mu, asset, from)
	if err != nil {
		return err
	}
	newFromBalance, err := smath.Sub(fromBalance, amount)
	if err != nil {
		return fmt.Errorf("%w: asset %s, have %d, need %d", ErrInsufficientBalance, asset, fromBalance, amount)
	}
	toBalance, err := GetBalance(ctx, mu, asset, to)
	if err != nil {
		return err
	}
	newToBalance, err := smath.Add64(toBalance, amount)
	if err != nil {
		return err
	}
	if err := setBalance(ctx, mu, asset, from, newFromBalance); err != nil {
		return err
	}
	return setBalance(ctx, mu, asset, to, newToBalance)
}

// Deposit mints [amount] of [asset] to [to].
func Deposit(
	ctx context.Context,
	mu state.Mutable,
	asset codec.AssetID,
	to codec.Address,
	amount uint64,
) error {
	if amount == 0 {
		return nil
	}
	issuance, err := GetTotalIssuance(ctx, mu, asset)
	if err != nil {
		return err
	}
	newIssuance, err := smath.Add64(issuance, amount)
	if err != nil {
		return err
	}
	balance, err := GetBalance(ctx, mu, asset, to)
	if err != nil {
		return err
	}
	newBalance, err := smath.Add64(balance, amount)
	if err != nil {
		return err
	}
	if err := setUint64(ctx, mu, IssuanceKey(asset), newIssuance); err != nil {
		return err
	}
	return setBalance(ctx, mu, asset, to, newBalance)
}

// Withdraw burns [amount] of [asset] held by [from].
func Withdraw(
	ctx context.Context,
	mu state.Mutable,
	asset codec.AssetID,
	from codec.Address,
	amount uint64,
) error {
	if amount == 0 {
		return nil
	}
	balance, err := GetBalance(ctx, mu, asset, from)
	if err != nil {
		return err
	}
	newBalance, err := smath.Sub(balance, amount)
	if err != nil {
		return fmt.Errorf("%w: asset %s, have %d, need %d", ErrInsufficientBalance, asset, balance, amount)
	}
	issuance, err := GetTotalIssuance(ctx, mu, asset)
	if err != nil {
		return err
	}
	newIssuance, err := smath.Sub(issuance, amount)
	if err != nil {
		return err
	}
	if err := setUint64(ctx, mu, IssuanceKey(asset), newIssuance); err != nil {
		return err
	}
	return setBalance(ctx, mu, asset, from, newBalance)
}

func getUint64(ctx context.Context, im state.Immutable, k []byte) (uint64, error) {
	v, err := im.GetValue(ctx, k)
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(v) != consts.Uint64Len {
		return 0, ErrInvalidRecord
	}
	return binary.BigEndian.Uint64(v), nil
}

// setUint64 removes the key when [v] is zero so drained accounts leave no
// state behind.
func setUint64(ctx context.Context, mu state.Mutable, k []byte, v uint64) error {
	if v == 0 {
		return mu.Remove(ctx, k)
	}
	b := make([]byte, consts.Uint64Len)
	binary.BigEndian.PutUint64(b, v)
	return mu.Insert(ctx, k, b)
}
