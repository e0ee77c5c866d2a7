// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/galacticcouncil/Basilisk-node-sub002/exchange"
	"github.com/galacticcouncil/Basilisk-node-sub002/state"
)

// Backend is what the API handlers read from.
type Backend interface {
	Logger() logging.Logger
	Exchange() *exchange.Exchange
	// ImmutableState returns a read-only view of the current state.
	ImmutableState(ctx context.Context) (state.Immutable, error)
	Gatherer() prometheus.Gatherer
}
