// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"
)

func TestRoutes(t *testing.T) {
	require := require.New(t)

	s := New(logging.NoLog{}, nil, NewDefaultHTTPConfig(), []string{"*"}, time.Second)
	s.AddRoute("/ping", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	}))

	tests := []struct {
		name   string
		path   string
		status int
		body   string
	}{
		{
			name:   "registered",
			path:   "/ping",
			status: http.StatusOK,
			body:   "pong",
		},
		{
			name:   "unknown",
			path:   "/missing",
			status: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(tt.status, rec.Code)
			if tt.body != "" {
				require.Equal(tt.body, rec.Body.String())
			}
		})
	}
}

func TestJSONRPCHandlerRejectsInvalidService(t *testing.T) {
	_, err := NewJSONRPCHandler("bad", struct{}{})
	require.Error(t, err)
}
