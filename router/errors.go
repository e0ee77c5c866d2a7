// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import "errors"

var (
	ErrEmptyRoute            = errors.New("route is empty")
	ErrMaxTradesExceeded     = errors.New("route exceeds max trades")
	ErrInvalidRoute          = errors.New("invalid route")
	ErrPoolNotSupported      = errors.New("no executor supports pool")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrTradingLimitReached   = errors.New("trading limit reached")
	ErrInvalidRouteExecution = errors.New("route execution did not match quote")
)
