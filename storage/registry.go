// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"

	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/consts"
	"github.com/galacticcouncil/Basilisk-node-sub002/keys"
	"github.com/galacticcouncil/Basilisk-node-sub002/state"
	"github.com/galacticcouncil/Basilisk-node-sub002/utils"
)

// Asset is the registry entry of a fungible asset.
type Asset struct {
	Name               []byte `json:"name"`
	ExistentialDeposit uint64 `json:"existentialDeposit"`
}

// [assetPrefix] + [asset]
func AssetKey(asset codec.AssetID) []byte {
	k := make([]byte, 0, 1+consts.Uint32Len+consts.Uint16Len)
	k = append(k, assetPrefix)
	k = append(k, asset.Bytes()...)
	return keys.EncodeChunks(k, AssetChunks)
}

// [assetNamePrefix] + [hash(name)]
func AssetNameKey(name []byte) []byte {
	id := utils.ToID(name)
	k := make([]byte, 0, 1+consts.IDLen+consts.Uint16Len)
	k = append(k, assetNamePrefix)
	k = append(k, id[:]...)
	return keys.EncodeChunks(k, AssetNameChunks)
}

func AssetCounterKey() []byte {
	return keys.EncodeChunks([]byte{assetCounterPrefix}, AssetCounterChunks)
}

// RegisterAsset allocates the next asset id for [name].
func RegisterAsset(
	ctx context.Context,
	mu state.Mutable,
	name []byte,
	existentialDeposit uint64,
) (codec.AssetID, error) {
	if len(name) == 0 || len(name) > MaxAssetNameSize {
		return 0, ErrInvalidAssetName
	}
	_, exists, err := GetAssetIDByName(ctx, mu, name)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrAssetAlreadyRegistered
	}
	next, err := getUint64(ctx, mu, AssetCounterKey())
	if err != nil {
		return 0, err
	}
	if next > uint64(consts.MaxUint32) {
		return 0, ErrInvalidRecord
	}
	id := codec.AssetID(next)

	p := codec.NewWriter(consts.IntLen+len(name)+consts.Uint64Len, consts.NetworkSizeLimit)
	p.PackBytes(name)
	p.PackUint64(existentialDeposit)
	if err := p.Err(); err != nil {
		return 0, err
	}
	if err := mu.Insert(ctx, AssetKey(id), p.Bytes()); err != nil {
		return 0, err
	}
	if err := mu.Insert(ctx, AssetNameKey(name), id.Bytes()); err != nil {
		return 0, err
	}
	// The counter key is never removed, so a zero value must still be stored.
	v := make([]byte, consts.Uint64Len)
	binary.BigEndian.PutUint64(v, next+1)
	return id, mu.Insert(ctx, AssetCounterKey(), v)
}

// RetrieveOrCreateAsset returns the id registered for [name], registering
// it if needed.
func RetrieveOrCreateAsset(
	ctx context.Context,
	mu state.Mutable,
	name []byte,
	existentialDeposit uint64,
) (codec.AssetID, error) {
	id, exists, err := GetAssetIDByName(ctx, mu, name)
	if err != nil {
		return 0, err
	}
	if exists {
		return id, nil
	}
	return RegisterAsset(ctx, mu, name, existentialDeposit)
}

func GetAssetIDByName(ctx context.Context, im state.Immutable, name []byte) (codec.AssetID, bool, error) {
	v, err := im.GetValue(ctx, AssetNameKey(name))
	if errors.Is(err, database.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if len(v) != consts.Uint32Len {
		return 0, false, ErrInvalidRecord
	}
	return codec.AssetID(binary.BigEndian.Uint32(v)), true, nil
}

func GetAsset(ctx context.Context, im state.Immutable, asset codec.AssetID) (*Asset, bool, error) {
	v, err := im.GetValue(ctx, AssetKey(asset))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	p := codec.NewReader(v, consts.NetworkSizeLimit)
	var a Asset
	p.UnpackBytes(MaxAssetNameSize, true, &a.Name)
	a.ExistentialDeposit = p.UnpackUint64(false)
	if err := p.Err(); err != nil {
		return nil, false, err
	}
	return &a, true, nil
}

// AssetExists reports whether [asset] is registered.
func AssetExists(ctx context.Context, im state.Immutable, asset codec.AssetID) (bool, error) {
	_, exists, err := GetAsset(ctx, im, asset)
	return exists, err
}

// Genesis registers the native asset. It must run before any other asset
// is registered so the native asset receives id 0.
func Genesis(ctx context.Context, mu state.Mutable) (codec.AssetID, error) {
	return RetrieveOrCreateAsset(ctx, mu, []byte(NativeAssetName), 0)
}
