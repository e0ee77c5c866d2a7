// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import "errors"

var (
	ErrOverflow            = errors.New("arithmetic overflow")
	ErrDivisionByZero      = errors.New("division by zero")
	ErrZeroReserve         = errors.New("zero reserve")
	ErrInsufficientReserve = errors.New("insufficient reserve")
	ErrConvergence         = errors.New("calculation did not converge")
	ErrWeightCalculation   = errors.New("weight calculation failed")
	ErrZeroWeight          = errors.New("zero weight")
	ErrInvariantDecreased  = errors.New("invariant decreased")
	ErrAssetIndex          = errors.New("asset index out of range")
)
