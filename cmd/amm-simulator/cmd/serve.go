// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/galacticcouncil/Basilisk-node-sub002/api"
	"github.com/galacticcouncil/Basilisk-node-sub002/api/jsonrpc"
	"github.com/galacticcouncil/Basilisk-node-sub002/api/ws"
	"github.com/galacticcouncil/Basilisk-node-sub002/pubsub"
	"github.com/galacticcouncil/Basilisk-node-sub002/server"
	"github.com/galacticcouncil/Basilisk-node-sub002/utils"
)

const shutdownTimeout = 10 * time.Second

var _ ws.Submitter = (*simulator)(nil)

func newServeCmd(s *simulator) *cobra.Command {
	var (
		host           string
		port           uint16
		allowedOrigins []string
		readOnly       bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query API, metrics and the live websocket simulator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.withState(cmd.Context(), func() error {
				listener, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(int(port))))
				if err != nil {
					return err
				}
				srv, err := s.newServer(listener, allowedOrigins, readOnly)
				if err != nil {
					_ = listener.Close()
					return err
				}
				return s.serve(cmd.Context(), srv, listener.Addr())
			})
		},
	}
	cmd.Flags().StringVar(&host, "http-host", "127.0.0.1", "address to listen on")
	cmd.Flags().Uint16Var(&port, "http-port", 9660, "port to listen on")
	cmd.Flags().StringSliceVar(&allowedOrigins, "allowed-origins", []string{"*"}, "origins allowed by CORS")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "reject steps submitted over the websocket")
	return cmd
}

// newServer mounts the JSON-RPC, metrics and websocket handlers. The
// websocket server receives every event the exchange flushes.
func (s *simulator) newServer(listener net.Listener, allowedOrigins []string, readOnly bool) (*server.Server, error) {
	var submitter ws.Submitter = s
	if readOnly {
		submitter = nil
	}
	wsServer := ws.NewWebSocketServer(s.log, s.exchange.Tracer, submitter, pubsub.NewDefaultServerConfig())
	s.exchange.Emitter.Subscribe(wsServer.Subscription())

	srv := server.New(s.log, listener, server.NewDefaultHTTPConfig(), allowedOrigins, shutdownTimeout)
	if err := api.Register(
		srv,
		s,
		jsonrpc.JSONRPCServerFactory{},
		api.MetricsHandlerFactory{},
		ws.NewWebSocketServerFactory(wsServer),
	); err != nil {
		return nil, err
	}
	return srv, nil
}

func (s *simulator) serve(ctx context.Context, srv *server.Server, addr net.Addr) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Dispatch)
	g.Go(func() error {
		<-ctx.Done()
		s.log.Info("shutting down server")
		return srv.Shutdown()
	})

	s.log.Info("serving", zap.Stringer("address", addr))
	utils.Outf("{{green}}serving on{{/}} http://%s%s and ws://%s%s\n", addr, jsonrpc.Endpoint, addr, ws.Endpoint)
	return g.Wait()
}

// Submit runs one step received over the websocket. Steps are applied one
// at a time in arrival order.
func (s *simulator) Submit(ctx context.Context, request json.RawMessage) (json.RawMessage, error) {
	var step Step
	if err := json.Unmarshal(request, &step); err != nil {
		return nil, err
	}
	plan := Plan{Steps: []Step{step}}
	if err := plan.verify(); err != nil {
		return nil, err
	}

	s.stepLock.Lock()
	defer s.stepLock.Unlock()

	resp := newResponse(s.submitted)
	s.submitted++
	if failure := s.runStep(ctx, &step, resp); failure != nil {
		resp.Error = failure.Error()
	}
	return json.Marshal(resp)
}
