// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "github.com/ava-labs/avalanchego/ids"

const AddressLen = 33

// Address type prefixes. Accounts are created by users, pool accounts are
// derived deterministically from the assets a pool holds.
const (
	AccountTypeID uint8 = iota
	PoolTypeID
)

// Address represents the 33 byte address of an account or a pool.
type Address [AddressLen]byte

var EmptyAddress = Address{}

// CreateAddress returns [Address] made from concatenating
// [typeID] with [id].
func CreateAddress(typeID uint8, id ids.ID) Address {
	a := make([]byte, AddressLen)
	a[0] = typeID
	copy(a[1:], id[:])
	return Address(a)
}

// StringToAddress parses the hex representation of an address.
func StringToAddress(s string) (Address, error) {
	b, err := LoadHex(s, AddressLen)
	if err != nil {
		return EmptyAddress, err
	}
	return Address(b), nil
}

// TypeID returns the address prefix.
func (a Address) TypeID() uint8 {
	return a[0]
}

// IsPool reports whether a was derived for a pool.
func (a Address) IsPool() bool {
	return a[0] == PoolTypeID
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return "0x" + ToHex(a[:])
}

// MarshalText returns the hex representation of a.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses a hex-encoded address.
func (a *Address) UnmarshalText(input []byte) error {
	b, err := LoadHex(string(input), AddressLen)
	if err != nil {
		return err
	}
	copy(a[:], b)
	return nil
}
