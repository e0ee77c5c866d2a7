// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"errors"

	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
)

var ErrBadOrigin = errors.New("bad origin")

// Kind distinguishes account-signed calls from privileged ones.
type Kind uint8

const (
	SignedKind Kind = iota
	RootKind
)

// Origin identifies who dispatched a call.
type Origin struct {
	Kind    Kind
	Account codec.Address
}

// Signed returns an origin for a call signed by [account].
func Signed(account codec.Address) Origin {
	return Origin{Kind: SignedKind, Account: account}
}

// Root returns the privileged origin.
func Root() Origin {
	return Origin{Kind: RootKind}
}

// EnsureSigned returns the signing account of [o].
func EnsureSigned(o Origin) (codec.Address, error) {
	if o.Kind != SignedKind || o.Account == codec.EmptyAddress {
		return codec.EmptyAddress, ErrBadOrigin
	}
	return o.Account, nil
}

func EnsureRoot(o Origin) error {
	if o.Kind != RootKind {
		return ErrBadOrigin
	}
	return nil
}

func (o Origin) String() string {
	if o.Kind == RootKind {
		return "root"
	}
	return o.Account.String()
}
