// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

// Key prefixes
const (
	balancePrefix byte = iota
	issuancePrefix
	assetPrefix
	assetNamePrefix
	assetCounterPrefix
	heightPrefix

	// Pool records are owned by their engines.
	XYKPoolPrefix
	LBPPoolPrefix
	StableswapPoolPrefix
)

// Chunks
const (
	BalanceChunks      uint16 = 1
	IssuanceChunks     uint16 = 1
	AssetChunks        uint16 = 2
	AssetNameChunks    uint16 = 1
	AssetCounterChunks uint16 = 1
	HeightChunks       uint16 = 1
)

const (
	MaxAssetNameSize = 64

	// NativeAssetName is registered at genesis and receives id 0.
	NativeAssetName = "BSX"
)
