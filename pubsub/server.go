// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/units"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type ServerConfig struct {
	// Size of the ws read buffer
	ReadBufferSize int
	// Size of the ws write buffer
	WriteBufferSize int
	// Maximum number of pending messages to send to a peer.
	MaxPendingMessages int
	// Maximum message size in bytes allowed from peer.
	MaxReadMessageSize int64
	// Time allowed to write a message to the peer.
	WriteWait time.Duration
	// Time allowed to read the next pong message from the peer.
	PongWait time.Duration
	// Send pings to peer with this period. Must be less than PongWait.
	PingPeriod time.Duration
}

func NewDefaultServerConfig() ServerConfig {
	pongWait := 60 * time.Second
	return ServerConfig{
		ReadBufferSize:     units.KiB,
		WriteBufferSize:    units.KiB,
		MaxPendingMessages: 1024,
		MaxReadMessageSize: 64 * units.KiB,
		WriteWait:          10 * time.Second,
		PongWait:           pongWait,
		PingPeriod:         (pongWait * 9) / 10,
	}
}

// Callback handles one message read from [c].
type Callback func(msg []byte, c *Connection)

// Server maintains the set of active websocket clients. It is mounted as
// an [http.Handler]; connect with websocket.DefaultDialer.Dial().
type Server struct {
	log      logging.Logger
	config   ServerConfig
	callback Callback
	upgrader websocket.Upgrader

	// every active connection
	conns *Connections
}

// New returns a Server calling [callback] for every message received, if
// not nil.
func New(log logging.Logger, config ServerConfig, callback Callback) *Server {
	return &Server{
		log:      log,
		config:   config,
		callback: callback,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		conns: NewConnections(),
	}
}

// ServeHTTP upgrades the request and starts the read and write pumps of
// the new connection.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("failed to upgrade", zap.Error(err))
		return
	}
	conn := &Connection{
		s:    s,
		conn: wsConn,
		send: make(chan []byte, s.config.MaxPendingMessages),
	}
	s.conns.Add(conn)

	go conn.writePump()
	go conn.readPump()
}

// Publish sends [msg] to every connection of [toConns] and returns the
// ones that are no longer active.
func (s *Server) Publish(msg []byte, toConns *Connections) []*Connection {
	var inactive []*Connection
	for _, conn := range toConns.List() {
		if !s.conns.Has(conn) {
			inactive = append(inactive, conn)
			continue
		}
		if !conn.Send(msg) {
			s.log.Verbo("dropping message to subscribed connection due to too many pending messages")
		}
	}
	return inactive
}

// Len returns the number of active connections.
func (s *Server) Len() int {
	return s.conns.Len()
}

func (s *Server) removeConnection(conn *Connection) {
	s.conns.Remove(conn)
}
