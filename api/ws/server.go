// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/galacticcouncil/Basilisk-node-sub002/amm"
	"github.com/galacticcouncil/Basilisk-node-sub002/api"
	"github.com/galacticcouncil/Basilisk-node-sub002/event"
	"github.com/galacticcouncil/Basilisk-node-sub002/pubsub"
)

const Endpoint = "/ext/amm/ws"

// Message types. Clients send SubscribeMode and SubmitMode; the server
// answers with SubscribeMode, ResultMode or ErrorMode and streams
// EventMode messages to subscribers.
const (
	SubscribeMode = "subscribe"
	SubmitMode    = "submit"
	EventMode     = "event"
	ResultMode    = "result"
	ErrorMode     = "error"
)

var (
	ErrSubmitDisabled = errors.New("submissions are disabled")
	ErrUnknownMessage = errors.New("unknown message type")
)

type Message struct {
	Type string `json:"type"`
	// Event name, set on EventMode messages.
	Name    string          `json:"name,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Submitter executes one encoded request against the exchange.
type Submitter interface {
	Submit(ctx context.Context, request json.RawMessage) (json.RawMessage, error)
}

var (
	_ http.Handler                    = (*WebSocketServer)(nil)
	_ api.HandlerFactory[api.Backend] = (*WebSocketServerFactory)(nil)
)

// WebSocketServer streams exchange events to subscribed clients and
// forwards submissions to a [Submitter].
type WebSocketServer struct {
	log       logging.Logger
	tracer    trace.Tracer
	submitter Submitter

	s              *pubsub.Server
	eventListeners *pubsub.Connections
}

// NewWebSocketServer returns a server rejecting submissions when
// [submitter] is nil.
func NewWebSocketServer(
	log logging.Logger,
	tracer trace.Tracer,
	submitter Submitter,
	config pubsub.ServerConfig,
) *WebSocketServer {
	w := &WebSocketServer{
		log:            log,
		tracer:         tracer,
		submitter:      submitter,
		eventListeners: pubsub.NewConnections(),
	}
	w.s = pubsub.New(log, config, w.callback)
	return w
}

func (w *WebSocketServer) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	w.s.ServeHTTP(rw, r)
}

// Subscription delivers flushed exchange events to the server.
func (w *WebSocketServer) Subscription() event.Subscription[amm.Event] {
	return event.SubscriptionFunc[amm.Event]{AcceptF: w.AcceptEvent}
}

func (w *WebSocketServer) AcceptEvent(_ context.Context, e amm.Event) error {
	if w.eventListeners.Len() == 0 {
		return nil
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(Message{Type: EventMode, Name: e.Name(), Payload: payload})
	if err != nil {
		return err
	}
	w.eventListeners.Remove(w.s.Publish(msg, w.eventListeners)...)
	return nil
}

func (w *WebSocketServer) callback(msgBytes []byte, c *pubsub.Connection) {
	ctx, span := w.tracer.Start(context.Background(), "WebSocketServer.Callback")
	defer span.End()

	var msg Message
	if err := json.Unmarshal(msgBytes, &msg); err != nil {
		w.log.Debug("failed to unmarshal msg",
			zap.Int("len", len(msgBytes)),
			zap.Error(err),
		)
		w.reply(c, Message{Type: ErrorMode, Error: err.Error()})
		return
	}

	switch msg.Type {
	case SubscribeMode:
		if w.eventListeners.Add(c) {
			w.log.Debug("added event listener")
		}
		w.reply(c, Message{Type: SubscribeMode})
	case SubmitMode:
		if w.submitter == nil {
			w.reply(c, Message{Type: ErrorMode, Error: ErrSubmitDisabled.Error()})
			return
		}
		result, err := w.submitter.Submit(ctx, msg.Payload)
		if err != nil {
			w.log.Debug("failed to submit", zap.Error(err))
			w.reply(c, Message{Type: ErrorMode, Error: err.Error()})
			return
		}
		w.reply(c, Message{Type: ResultMode, Payload: result})
	default:
		w.log.Debug("unexpected message type", zap.String("type", msg.Type))
		w.reply(c, Message{Type: ErrorMode, Error: ErrUnknownMessage.Error()})
	}
}

func (w *WebSocketServer) reply(c *pubsub.Connection, msg Message) {
	b, err := json.Marshal(msg)
	if err != nil {
		w.log.Error("failed to marshal reply", zap.Error(err))
		return
	}
	if !c.Send(b) {
		w.log.Debug("dropped reply", zap.String("type", msg.Type))
	}
}

func NewWebSocketServerFactory(server *WebSocketServer) *WebSocketServerFactory {
	return &WebSocketServerFactory{server: server}
}

type WebSocketServerFactory struct {
	server *WebSocketServer
}

func (w *WebSocketServerFactory) New(api.Backend) (api.Handler, error) {
	return api.Handler{
		Path:    Endpoint,
		Handler: w.server,
	}, nil
}
