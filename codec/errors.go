// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "errors"

var (
	// ErrFieldNotPopulated is recorded by the [Packer] when a required
	// value decodes to its zero value.
	ErrFieldNotPopulated = errors.New("field is not populated")
	ErrTooManyItems      = errors.New("too many items")
	ErrInvalidSize       = errors.New("invalid size")
)
