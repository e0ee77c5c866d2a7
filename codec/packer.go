// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "github.com/ava-labs/avalanchego/utils/wrappers"

// Packer is a wrapper struct for the Packer struct
// from avalanchego/utils/wrappers/packing.go. A bool [required] is
// added to track whether any required field was empty.
type Packer struct {
	p        *wrappers.Packer
	required bool
}

// NewReader returns a Packer instance with the initial byte length [src]
// and the max length [limit].
func NewReader(src []byte, limit int) *Packer {
	return &Packer{
		p: &wrappers.Packer{Bytes: src, MaxSize: limit},
	}
}

// NewWriter returns a Packer instance with an initial size of [initial] and a
// MaxSize set to [limit].
func NewWriter(initial, limit int) *Packer {
	return &Packer{
		p: &wrappers.Packer{MaxSize: limit, Bytes: make([]byte, 0, initial)},
	}
}

// Bytes returns the byte slice value for the underlying Packer.
func (p *Packer) Bytes() []byte {
	return p.p.Bytes
}

func (p *Packer) PackAddress(a Address) {
	p.p.PackFixedBytes(a[:])
}

func (p *Packer) UnpackAddress(dest *Address) {
	copy((*dest)[:], p.p.UnpackFixedBytes(AddressLen))
	if *dest == EmptyAddress {
		p.addErr(ErrFieldNotPopulated)
	}
}

// UnpackOptionalAddress decodes an address that may be empty.
func (p *Packer) UnpackOptionalAddress(dest *Address) {
	copy((*dest)[:], p.p.UnpackFixedBytes(AddressLen))
}

func (p *Packer) PackAsset(a AssetID) {
	p.p.PackInt(uint32(a))
}

func (p *Packer) UnpackAsset() AssetID {
	return AssetID(p.p.UnpackInt())
}

func (p *Packer) PackAssets(assets []AssetID) {
	p.p.PackByte(uint8(len(assets)))
	for _, a := range assets {
		p.PackAsset(a)
	}
}

// UnpackAssets decodes a length-prefixed list of at most [limit] assets.
func (p *Packer) UnpackAssets(limit int) []AssetID {
	l := int(p.p.UnpackByte())
	if l > limit {
		p.addErr(ErrTooManyItems)
		return nil
	}
	assets := make([]AssetID, 0, l)
	for i := 0; i < l; i++ {
		assets = append(assets, p.UnpackAsset())
	}
	return assets
}

func (p *Packer) PackBool(src bool) {
	p.p.PackBool(src)
}

func (p *Packer) UnpackBool() bool {
	return p.p.UnpackBool()
}

func (p *Packer) PackByte(b uint8) {
	p.p.PackByte(b)
}

func (p *Packer) UnpackByte() uint8 {
	return p.p.UnpackByte()
}

func (p *Packer) PackUint16(v uint16) {
	p.p.PackShort(v)
}

func (p *Packer) UnpackUint16() uint16 {
	return p.p.UnpackShort()
}

func (p *Packer) PackUint32(v uint32) {
	p.p.PackInt(v)
}

func (p *Packer) UnpackUint32() uint32 {
	return p.p.UnpackInt()
}

func (p *Packer) PackUint64(v uint64) {
	p.p.PackLong(v)
}

// UnpackUint64 decodes a uint64. If [required] is set, a zero value is
// recorded as an error.
func (p *Packer) UnpackUint64(required bool) uint64 {
	v := p.p.UnpackLong()
	if required && v == 0 {
		p.addErr(ErrFieldNotPopulated)
	}
	return v
}

func (p *Packer) PackBytes(b []byte) {
	p.p.PackBytes(b)
}

// UnpackBytes decodes a length-prefixed byte slice of at most [limit] bytes.
func (p *Packer) UnpackBytes(limit int, required bool, dest *[]byte) {
	l := int(p.p.UnpackInt())
	if l > limit {
		p.addErr(ErrTooManyItems)
		return
	}
	*dest = p.p.UnpackFixedBytes(l)
	if required && len(*dest) == 0 {
		p.addErr(ErrFieldNotPopulated)
	}
}

// Empty returns true if the Packer has consumed all of its bytes.
func (p *Packer) Empty() bool {
	return p.p.Offset == len(p.p.Bytes)
}

// Err returns any error associated with p.
func (p *Packer) Err() error {
	return p.p.Err
}

func (p *Packer) addErr(err error) {
	if p.p.Err == nil {
		p.p.Err = err
	}
}
