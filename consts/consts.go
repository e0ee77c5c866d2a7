// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	IDLen     = 32
	ByteLen   = 1
	BoolLen   = 1
	IntLen    = 4
	Uint16Len = 2
	Uint32Len = 4
	Uint64Len = 8
	MaxUint16 = ^uint16(0)
	MaxUint32 = ^uint32(0)
	MaxUint64 = ^uint64(0)
)

// UNITS is the number of base units in one whole token (12 decimals).
const (
	Decimals        = 12
	UNITS    uint64 = 1_000_000_000_000
)

// NetworkSizeLimit bounds any value read from state or the wire.
const NetworkSizeLimit = 2_044_723 // 1.95 MiB
