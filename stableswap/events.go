// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package stableswap

import (
	"github.com/galacticcouncil/Basilisk-node-sub002/amm"
	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/pricing"
)

var (
	_ amm.Event = PoolCreated{}
	_ amm.Event = LiquidityAdded{}
	_ amm.Event = LiquidityRemoved{}
	_ amm.Event = SellExecuted{}
	_ amm.Event = BuyExecuted{}
)

// AssetAmount pairs an asset with an amount of it.
type AssetAmount struct {
	AssetID codec.AssetID `json:"assetId" yaml:"asset"`
	Amount  uint64        `json:"amount" yaml:"amount"`
}

type PoolCreated struct {
	PoolID        codec.AssetID   `json:"poolId"`
	Assets        []codec.AssetID `json:"assets"`
	Amplification uint64          `json:"amplification"`
	TradeFee      pricing.Permill `json:"tradeFee"`
	WithdrawFee   pricing.Permill `json:"withdrawFee"`
}

func (PoolCreated) Name() string { return "stableswap.PoolCreated" }

type LiquidityAdded struct {
	PoolID codec.AssetID `json:"poolId"`
	Who    codec.Address `json:"who"`
	Shares uint64        `json:"shares"`
	Assets []AssetAmount `json:"assets"`
}

func (LiquidityAdded) Name() string { return "stableswap.LiquidityAdded" }

type LiquidityRemoved struct {
	PoolID  codec.AssetID `json:"poolId"`
	Who     codec.Address `json:"who"`
	Shares  uint64        `json:"shares"`
	Amounts []AssetAmount `json:"amounts"`
	// Fee is the withdraw fee kept by the pool on a single asset removal.
	Fee uint64 `json:"fee"`
}

func (LiquidityRemoved) Name() string { return "stableswap.LiquidityRemoved" }

type SellExecuted struct {
	Who       codec.Address `json:"who"`
	PoolID    codec.AssetID `json:"poolId"`
	AssetIn   codec.AssetID `json:"assetIn"`
	AssetOut  codec.AssetID `json:"assetOut"`
	AmountIn  uint64        `json:"amountIn"`
	AmountOut uint64        `json:"amountOut"`
	Fee       uint64        `json:"fee"`
}

func (SellExecuted) Name() string { return "stableswap.SellExecuted" }

type BuyExecuted struct {
	Who       codec.Address `json:"who"`
	PoolID    codec.AssetID `json:"poolId"`
	AssetIn   codec.AssetID `json:"assetIn"`
	AssetOut  codec.AssetID `json:"assetOut"`
	AmountIn  uint64        `json:"amountIn"`
	AmountOut uint64        `json:"amountOut"`
	Fee       uint64        `json:"fee"`
}

func (BuyExecuted) Name() string { return "stableswap.BuyExecuted" }
