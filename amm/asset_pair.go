// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package amm

import "github.com/galacticcouncil/Basilisk-node-sub002/codec"

// AssetPair is the pair of assets traded against each other.
type AssetPair struct {
	AssetIn  codec.AssetID `json:"assetIn"`
	AssetOut codec.AssetID `json:"assetOut"`
}

func NewAssetPair(assetIn, assetOut codec.AssetID) (AssetPair, error) {
	if assetIn == assetOut {
		return AssetPair{}, ErrIdenticalAssets
	}
	return AssetPair{AssetIn: assetIn, AssetOut: assetOut}, nil
}

// Ordered returns the pair sorted ascending. (A, B) and (B, A) map to the
// same ordered pair.
func (p AssetPair) Ordered() (codec.AssetID, codec.AssetID) {
	if p.AssetIn < p.AssetOut {
		return p.AssetIn, p.AssetOut
	}
	return p.AssetOut, p.AssetIn
}

// Contains reports whether [asset] is one side of the pair.
func (p AssetPair) Contains(asset codec.AssetID) bool {
	return p.AssetIn == asset || p.AssetOut == asset
}

// Bytes returns the ordered pair encoding used for key derivation.
func (p AssetPair) Bytes() []byte {
	a, b := p.Ordered()
	return append(a.Bytes(), b.Bytes()...)
}
