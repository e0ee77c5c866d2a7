// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"github.com/galacticcouncil/Basilisk-node-sub002/amm"
	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
)

var _ amm.Event = RouteExecuted{}

// RouteExecuted is raised once per successful route, after the events of
// its legs.
type RouteExecuted struct {
	Who       codec.Address `json:"who"`
	AssetIn   codec.AssetID `json:"assetIn"`
	AssetOut  codec.AssetID `json:"assetOut"`
	AmountIn  uint64        `json:"amountIn"`
	AmountOut uint64        `json:"amountOut"`
	Legs      int           `json:"legs"`
}

func (RouteExecuted) Name() string { return "router.RouteExecuted" }
