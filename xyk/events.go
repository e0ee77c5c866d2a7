// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package xyk

import (
	"github.com/galacticcouncil/Basilisk-node-sub002/amm"
	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
)

var (
	_ amm.Event = PoolCreated{}
	_ amm.Event = LiquidityAdded{}
	_ amm.Event = LiquidityRemoved{}
	_ amm.Event = PoolDestroyed{}
	_ amm.Event = SellExecuted{}
	_ amm.Event = BuyExecuted{}
)

type PoolCreated struct {
	Who        codec.Address `json:"who"`
	AssetA     codec.AssetID `json:"assetA"`
	AssetB     codec.AssetID `json:"assetB"`
	Shares     uint64        `json:"shares"`
	ShareToken codec.AssetID `json:"shareToken"`
	Pool       codec.Address `json:"pool"`
}

func (PoolCreated) Name() string { return "xyk.PoolCreated" }

type LiquidityAdded struct {
	Who     codec.Address `json:"who"`
	AssetA  codec.AssetID `json:"assetA"`
	AssetB  codec.AssetID `json:"assetB"`
	AmountA uint64        `json:"amountA"`
	AmountB uint64        `json:"amountB"`
	Shares  uint64        `json:"shares"`
}

func (LiquidityAdded) Name() string { return "xyk.LiquidityAdded" }

type LiquidityRemoved struct {
	Who     codec.Address `json:"who"`
	AssetA  codec.AssetID `json:"assetA"`
	AssetB  codec.AssetID `json:"assetB"`
	Shares  uint64        `json:"shares"`
	AmountA uint64        `json:"amountA"`
	AmountB uint64        `json:"amountB"`
}

func (LiquidityRemoved) Name() string { return "xyk.LiquidityRemoved" }

type PoolDestroyed struct {
	Who        codec.Address `json:"who"`
	AssetA     codec.AssetID `json:"assetA"`
	AssetB     codec.AssetID `json:"assetB"`
	ShareToken codec.AssetID `json:"shareToken"`
	Pool       codec.Address `json:"pool"`
}

func (PoolDestroyed) Name() string { return "xyk.PoolDestroyed" }

type SellExecuted struct {
	Who       codec.Address `json:"who"`
	AssetIn   codec.AssetID `json:"assetIn"`
	AssetOut  codec.AssetID `json:"assetOut"`
	AmountIn  uint64        `json:"amountIn"`
	AmountOut uint64        `json:"amountOut"`
	FeeAsset  codec.AssetID `json:"feeAsset"`
	Fee       uint64        `json:"fee"`
}

func (SellExecuted) Name() string { return "xyk.SellExecuted" }

type BuyExecuted struct {
	Who       codec.Address `json:"who"`
	AssetOut  codec.AssetID `json:"assetOut"`
	AssetIn   codec.AssetID `json:"assetIn"`
	AmountOut uint64        `json:"amountOut"`
	AmountIn  uint64        `json:"amountIn"`
	FeeAsset  codec.AssetID `json:"feeAsset"`
	Fee       uint64        `json:"fee"`
}

func (BuyExecuted) Name() string { return "xyk.BuyExecuted" }
