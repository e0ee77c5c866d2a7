// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package keys

import (
	"encoding/binary"

	"github.com/galacticcouncil/Basilisk-node-sub002/consts"
)

const chunkSize = 64 // bytes

// Valid returns whether [key] carries a chunk suffix.
func Valid(key []byte) bool {
	return len(key) >= consts.Uint16Len
}

// MaxChunks returns the number of value chunks [key] is allowed to hold.
func MaxChunks(key []byte) (uint16, bool) {
	l := len(key)
	if l < consts.Uint16Len {
		return 0, false
	}
	return binary.BigEndian.Uint16(key[l-consts.Uint16Len:]), true
}

// NumChunks returns the number of chunks needed to store [value].
func NumChunks(value []byte) (uint16, bool) {
	l := len(value)
	if l == 0 {
		return 0, true
	}
	raw := (l-1)/chunkSize + 1
	if raw > int(consts.MaxUint16) {
		return 0, false
	}
	return uint16(raw), true
}

// VerifyValue returns whether [value] fits in the chunk budget of [key].
func VerifyValue(key []byte, value []byte) bool {
	valueChunks, ok := NumChunks(value)
	if !ok {
		return false
	}
	keyChunks, ok := MaxChunks(key)
	if !ok {
		return false
	}
	return valueChunks <= keyChunks
}

// EncodeChunks appends the [maxChunks] suffix to [key].
func EncodeChunks(key []byte, maxChunks uint16) []byte {
	return binary.BigEndian.AppendUint16(key, maxChunks)
}
