// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import "errors"

var (
	ErrInvalidConfigFormat = errors.New("invalid config format")
	ErrInvalidPlan         = errors.New("invalid plan")
	ErrInvalidStep         = errors.New("invalid step")
	ErrUnknownKind         = errors.New("unknown step kind")
	ErrUnexpectedAssertion = errors.New("assertions are only supported on balance steps")
	ErrInvalidOperator     = errors.New("invalid assertion operator")
	ErrAssertionFailed     = errors.New("assertion failed")
	ErrUnknownAsset        = errors.New("unknown asset")
	ErrMissingParam        = errors.New("missing parameter")
	ErrExpectedFailure     = errors.New("step succeeded but was expected to fail")
	ErrUnexpectedError     = errors.New("step failed with an unexpected error")
)
