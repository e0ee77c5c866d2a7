// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, url string) *websocket.Conn {
	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http"), nil)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) string {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	return string(msg)
}

func TestServerCallback(t *testing.T) {
	require := require.New(t)

	server := New(logging.NoLog{}, NewDefaultServerConfig(), func(msg []byte, c *Connection) {
		c.Send(append([]byte("echo:"), msg...))
	})
	ts := httptest.NewServer(server)
	defer ts.Close()

	conn := dial(t, ts.URL)
	require.NoError(conn.WriteMessage(websocket.TextMessage, []byte("hello")))
	require.Equal("echo:hello", read(t, conn))
	require.Equal(1, server.Len())
}

func TestServerPublish(t *testing.T) {
	require := require.New(t)

	listeners := NewConnections()
	server := New(logging.NoLog{}, NewDefaultServerConfig(), func(_ []byte, c *Connection) {
		listeners.Add(c)
		c.Send([]byte("subscribed"))
	})
	ts := httptest.NewServer(server)
	defer ts.Close()

	first := dial(t, ts.URL)
	second := dial(t, ts.URL)
	for _, conn := range []*websocket.Conn{first, second} {
		require.NoError(conn.WriteMessage(websocket.TextMessage, []byte("subscribe")))
		require.Equal("subscribed", read(t, conn))
	}
	require.Equal(2, listeners.Len())

	require.Empty(server.Publish([]byte("event"), listeners))
	require.Equal("event", read(t, first))
	require.Equal("event", read(t, second))

	// Closed clients are reported as inactive once the server drops them.
	require.NoError(first.Close())
	require.Eventually(func() bool {
		return server.Len() == 1
	}, 5*time.Second, 10*time.Millisecond)
	inactive := server.Publish([]byte("event"), listeners)
	require.Len(inactive, 1)
	require.Equal("event", read(t, second))

	listeners.Remove(inactive...)
	require.Equal(1, listeners.Len())
	require.True(listeners.Add(inactive[0]))
	require.False(listeners.Add(inactive[0]))
}

func TestSendAfterClose(t *testing.T) {
	c := &Connection{send: make(chan []byte, 1)}
	require.True(t, c.Send([]byte("a")))
	require.False(t, c.Send([]byte("b")))
	c.deactivate()
	require.False(t, c.Send([]byte("c")))
}
