// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrAssetNotFound          = errors.New("asset not found")
	ErrAssetAlreadyRegistered = errors.New("asset already registered")
	ErrInvalidAssetName       = errors.New("invalid asset name")
	ErrInvalidRecord          = errors.New("invalid record")
)
