// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

// Package server hosts HTTP handlers behind CORS and gzip.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type HTTPConfig struct {
	ReadTimeout       time.Duration `json:"readTimeout"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout"`
	WriteTimeout      time.Duration `json:"writeHeaderTimeout"`
	IdleTimeout       time.Duration `json:"idleTimeout"`
}

func NewDefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

type Server struct {
	log logging.Logger

	shutdownTimeout time.Duration

	// Maps paths to handlers
	router *mux.Router

	srv *http.Server

	// Listener used to serve traffic. Nil when the server is only used
	// through [Server.Handler].
	listener net.Listener
}

// New returns a server whose routes are reachable from [allowedOrigins].
func New(
	log logging.Logger,
	listener net.Listener,
	httpConfig HTTPConfig,
	allowedOrigins []string,
	shutdownTimeout time.Duration,
) *Server {
	router := mux.NewRouter()
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
	}).Handler(router)
	gzipHandler := gziphandler.GzipHandler(corsHandler)

	log.Info("API created",
		zap.Strings("allowedOrigins", allowedOrigins),
	)

	return &Server{
		log:             log,
		shutdownTimeout: shutdownTimeout,
		router:          router,
		srv: &http.Server{
			Handler:           gzipHandler,
			ReadTimeout:       httpConfig.ReadTimeout,
			ReadHeaderTimeout: httpConfig.ReadHeaderTimeout,
			WriteTimeout:      httpConfig.WriteTimeout,
			IdleTimeout:       httpConfig.IdleTimeout,
		},
		listener: listener,
	}
}

// AddRoute serves [handler] at [path].
func (s *Server) AddRoute(path string, handler http.Handler) {
	s.log.Info("adding route", zap.String("path", path))
	s.router.Handle(path, handler)
}

// Handler returns the wrapped router.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Dispatch serves until [Server.Shutdown] is called.
func (s *Server) Dispatch() error {
	err := s.srv.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	err := s.srv.Shutdown(ctx)
	cancel()

	// If shutdown times out, make sure the server is still shutdown.
	_ = s.srv.Close()
	return err
}
