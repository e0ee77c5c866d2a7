// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/binary"
	"strconv"

	"github.com/galacticcouncil/Basilisk-node-sub002/consts"
)

// AssetID identifies a fungible asset in the registry.
type AssetID uint32

func (a AssetID) String() string {
	return strconv.FormatUint(uint64(a), 10)
}

// Bytes returns the big-endian encoding of a.
func (a AssetID) Bytes() []byte {
	b := make([]byte, consts.Uint32Len)
	binary.BigEndian.PutUint32(b, uint32(a))
	return b
}
