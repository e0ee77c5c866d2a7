// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package lbp

import (
	"github.com/galacticcouncil/Basilisk-node-sub002/amm"
	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
)

var (
	_ amm.Event = PoolCreated{}
	_ amm.Event = PoolUpdated{}
	_ amm.Event = LiquidityAdded{}
	_ amm.Event = LiquidityRemoved{}
	_ amm.Event = PoolDestroyed{}
	_ amm.Event = SellExecuted{}
	_ amm.Event = BuyExecuted{}
)

type PoolCreated struct {
	Pool codec.Address `json:"pool"`
	Data Pool          `json:"data"`
}

func (PoolCreated) Name() string { return "lbp.PoolCreated" }

type PoolUpdated struct {
	Pool codec.Address `json:"pool"`
	Data Pool          `json:"data"`
}

func (PoolUpdated) Name() string { return "lbp.PoolUpdated" }

type LiquidityAdded struct {
	Who     codec.Address `json:"who"`
	AssetA  codec.AssetID `json:"assetA"`
	AssetB  codec.AssetID `json:"assetB"`
	AmountA uint64        `json:"amountA"`
	AmountB uint64        `json:"amountB"`
}

func (LiquidityAdded) Name() string { return "lbp.LiquidityAdded" }

type LiquidityRemoved struct {
	Who     codec.Address `json:"who"`
	AssetA  codec.AssetID `json:"assetA"`
	AssetB  codec.AssetID `json:"assetB"`
	AmountA uint64        `json:"amountA"`
	AmountB uint64        `json:"amountB"`
	// Repaid is the part of the accumulated reserve sent to the fee
	// collector to meet the repay target.
	Repaid uint64 `json:"repaid"`
}

func (LiquidityRemoved) Name() string { return "lbp.LiquidityRemoved" }

type PoolDestroyed struct {
	Who    codec.Address `json:"who"`
	AssetA codec.AssetID `json:"assetA"`
	AssetB codec.AssetID `json:"assetB"`
	Pool   codec.Address `json:"pool"`
}

func (PoolDestroyed) Name() string { return "lbp.PoolDestroyed" }

type SellExecuted struct {
	Who       codec.Address `json:"who"`
	AssetIn   codec.AssetID `json:"assetIn"`
	AssetOut  codec.AssetID `json:"assetOut"`
	AmountIn  uint64        `json:"amountIn"`
	AmountOut uint64        `json:"amountOut"`
	FeeAsset  codec.AssetID `json:"feeAsset"`
	Fee       uint64        `json:"fee"`
}

func (SellExecuted) Name() string { return "lbp.SellExecuted" }

type BuyExecuted struct {
	Who       codec.Address `json:"who"`
	AssetOut  codec.AssetID `json:"assetOut"`
	AssetIn   codec.AssetID `json:"assetIn"`
	AmountOut uint64        `json:"amountOut"`
	AmountIn  uint64        `json:"amountIn"`
	FeeAsset  codec.AssetID `json:"feeAsset"`
	Fee       uint64        `json:"fee"`
}

func (BuyExecuted) Name() string { return "lbp.BuyExecuted" }
