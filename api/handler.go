// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

// Package api exposes the exchange over HTTP.
package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/galacticcouncil/Basilisk-node-sub002/server"
)

const (
	Name            = "amm"
	MetricsEndpoint = "/metrics"
)

var _ HandlerFactory[Backend] = MetricsHandlerFactory{}

type Handler struct {
	Path    string
	Handler http.Handler
}

type HandlerFactory[T any] interface {
	New(t T) (Handler, error)
}

// MetricsHandlerFactory serves the backend's metrics in the prometheus
// text format.
type MetricsHandlerFactory struct{}

func (MetricsHandlerFactory) New(backend Backend) (Handler, error) {
	return Handler{
		Path:    MetricsEndpoint,
		Handler: promhttp.HandlerFor(backend.Gatherer(), promhttp.HandlerOpts{}),
	}, nil
}

// Register mounts the handler of every factory on [srv].
func Register(srv *server.Server, backend Backend, factories ...HandlerFactory[Backend]) error {
	for _, factory := range factories {
		h, err := factory.New(backend)
		if err != nil {
			return err
		}
		srv.AddRoute(h.Path, h.Handler)
	}
	return nil
}
