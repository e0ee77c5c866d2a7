// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net/http"

	"github.com/ava-labs/avalanchego/utils/json"
	"github.com/gorilla/rpc/v2"
)

var contentTypes = []string{
	"application/json",
	"application/json;charset=UTF-8",
}

// NewJSONRPCHandler exposes the exported methods of [service] as
// "<name>.<method>" JSON-RPC calls.
func NewJSONRPCHandler(name string, service any) (http.Handler, error) {
	s := rpc.NewServer()
	codec := json.NewCodec()
	for _, contentType := range contentTypes {
		s.RegisterCodec(codec, contentType)
	}
	if err := s.RegisterService(service, name); err != nil {
		return nil, err
	}
	return s, nil
}
