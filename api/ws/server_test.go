// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/galacticcouncil/Basilisk-node-sub002/pubsub"
	"github.com/galacticcouncil/Basilisk-node-sub002/trace"
	"github.com/galacticcouncil/Basilisk-node-sub002/xyk"
)

var errRejected = errors.New("rejected")

// echoSubmitter raises an event for every request and answers with the
// request itself.
type echoSubmitter struct {
	server *WebSocketServer
}

func (e *echoSubmitter) Submit(ctx context.Context, request json.RawMessage) (json.RawMessage, error) {
	if string(request) == `"reject"` {
		return nil, errRejected
	}
	if err := e.server.AcceptEvent(ctx, xyk.SellExecuted{AmountIn: 7}); err != nil {
		return nil, err
	}
	return request, nil
}

type client struct {
	t    *testing.T
	conn *websocket.Conn
}

func newClient(t *testing.T, url string) *client {
	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http"), nil)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	t.Cleanup(func() { _ = conn.Close() })
	return &client{t: t, conn: conn}
}

func (c *client) send(msg Message) {
	b, err := json.Marshal(msg)
	require.NoError(c.t, err)
	require.NoError(c.t, c.conn.WriteMessage(websocket.TextMessage, b))
}

func (c *client) read() Message {
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, b, err := c.conn.ReadMessage()
	require.NoError(c.t, err)
	var msg Message
	require.NoError(c.t, json.Unmarshal(b, &msg))
	return msg
}

func newTestServer(t *testing.T, withSubmitter bool) (*WebSocketServer, string) {
	submitter := &echoSubmitter{}
	var s Submitter
	if withSubmitter {
		s = submitter
	}
	server := NewWebSocketServer(logging.NoLog{}, trace.Noop(), s, pubsub.NewDefaultServerConfig())
	submitter.server = server
	ts := httptest.NewServer(server)
	t.Cleanup(ts.Close)
	return server, ts.URL
}

func TestSubmitStreamsEvents(t *testing.T) {
	require := require.New(t)

	_, url := newTestServer(t, true)
	subscriber := newClient(t, url)
	subscriber.send(Message{Type: SubscribeMode})
	require.Equal(Message{Type: SubscribeMode}, subscriber.read())

	submitter := newClient(t, url)
	submitter.send(Message{Type: SubmitMode, Payload: json.RawMessage(`{"step":1}`)})

	// Only subscribers receive the event.
	result := submitter.read()
	require.Equal(ResultMode, result.Type)
	require.JSONEq(`{"step":1}`, string(result.Payload))

	msg := subscriber.read()
	require.Equal(EventMode, msg.Type)
	require.Equal("xyk.SellExecuted", msg.Name)
	var sell xyk.SellExecuted
	require.NoError(json.Unmarshal(msg.Payload, &sell))
	require.Equal(uint64(7), sell.AmountIn)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name          string
		withSubmitter bool
		msg           Message
		err           string
	}{
		{
			name:          "submit rejected",
			withSubmitter: true,
			msg:           Message{Type: SubmitMode, Payload: json.RawMessage(`"reject"`)},
			err:           errRejected.Error(),
		},
		{
			name: "submit disabled",
			msg:  Message{Type: SubmitMode, Payload: json.RawMessage(`{}`)},
			err:  ErrSubmitDisabled.Error(),
		},
		{
			name:          "unknown type",
			withSubmitter: true,
			msg:           Message{Type: "teleport"},
			err:           ErrUnknownMessage.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			_, url := newTestServer(t, tt.withSubmitter)
			c := newClient(t, url)
			c.send(tt.msg)
			reply := c.read()
			require.Equal(ErrorMode, reply.Type)
			require.Equal(tt.err, reply.Error)
		})
	}
}

func TestAcceptEventWithoutListeners(t *testing.T) {
	server, _ := newTestServer(t, false)
	require.NoError(t, server.AcceptEvent(context.Background(), xyk.SellExecuted{}))
}
