// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package amm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
)

var ErrUnknownPoolType = errors.New("unknown pool type")

type PoolKind uint8

const (
	XYKKind PoolKind = iota + 1
	LBPKind
	StableswapKind
)

func (k PoolKind) String() string {
	switch k {
	case XYKKind:
		return "xyk"
	case LBPKind:
		return "lbp"
	case StableswapKind:
		return "stableswap"
	default:
		return "unknown"
	}
}

// PoolType tags a trade leg with the engine that executes it. ShareAsset
// identifies the pool for Stableswap and is zero otherwise.
type PoolType struct {
	Kind       PoolKind
	ShareAsset codec.AssetID
}

func XYK() PoolType { return PoolType{Kind: XYKKind} }

func LBP() PoolType { return PoolType{Kind: LBPKind} }

func Stableswap(shareAsset codec.AssetID) PoolType {
	return PoolType{Kind: StableswapKind, ShareAsset: shareAsset}
}

// String returns "xyk", "lbp" or "stableswap:<share asset>".
func (p PoolType) String() string {
	if p.Kind == StableswapKind {
		return p.Kind.String() + ":" + p.ShareAsset.String()
	}
	return p.Kind.String()
}

// ParsePoolType is the inverse of [PoolType.String].
func ParsePoolType(s string) (PoolType, error) {
	kind, id, found := strings.Cut(s, ":")
	switch kind {
	case XYKKind.String():
		if found {
			break
		}
		return XYK(), nil
	case LBPKind.String():
		if found {
			break
		}
		return LBP(), nil
	case StableswapKind.String():
		if !found {
			break
		}
		v, err := strconv.ParseUint(id, 10, 32)
		if err != nil {
			return PoolType{}, fmt.Errorf("%w: %s", ErrUnknownPoolType, s)
		}
		return Stableswap(codec.AssetID(v)), nil
	}
	return PoolType{}, fmt.Errorf("%w: %s", ErrUnknownPoolType, s)
}

func (p PoolType) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PoolType) UnmarshalText(b []byte) error {
	v, err := ParsePoolType(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
