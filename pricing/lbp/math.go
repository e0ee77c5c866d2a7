// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package lbp

import (
	"github.com/holiman/uint256"

	"github.com/galacticcouncil/Basilisk-node-sub002/pricing"
)

const (
	fixedDecimals = 18

	// maxPowIterations bounds the binomial series of the fractional power.
	maxPowIterations = 300
)

// One is 1.0 in 18 decimal fixed point.
var One = uint256.NewInt(1_000_000_000_000_000_000)

func fixedMul(x, y *uint256.Int) (*uint256.Int, error) {
	r, err := pricing.Mul(x, y)
	if err != nil {
		return nil, err
	}
	return r.Div(r, One), nil
}

// Pow returns base^exp where both are fixed point numbers with 18 decimals.
//
// The integer part of exp is applied by repeated squaring. The fractional
// part uses the binomial series of (1+x)^f, which converges for bases in
// (0, 2).
func Pow(base, exp *uint256.Int) (*uint256.Int, error) {
	whole, frac := new(uint256.Int).DivMod(exp, One, new(uint256.Int))

	result := One.Clone()
	b := base.Clone()
	if !whole.IsUint64() {
		return nil, pricing.ErrOverflow
	}
	w := whole.Uint64()
	for w > 0 {
		var err error
		if w&1 == 1 {
			if result, err = fixedMul(result, b); err != nil {
				return nil, err
			}
		}
		w >>= 1
		if w == 0 {
			break
		}
		if b, err = fixedMul(b, b); err != nil {
			return nil, err
		}
	}
	if frac.IsZero() {
		return result, nil
	}
	f, err := powFrac(base, frac)
	if err != nil {
		return nil, err
	}
	return fixedMul(result, f)
}

// powFrac evaluates (1+x)^f for 0 < f < 1 as
// sum_k term_k, term_k = term_{k-1} * (f-(k-1)) * x / k.
// Magnitudes are tracked unsigned with the sign carried separately.
func powFrac(base, frac *uint256.Int) (*uint256.Int, error) {
	if base.IsZero() {
		return new(uint256.Int), nil
	}

	var (
		negX = base.Lt(One)
		x    = new(uint256.Int)
	)
	if negX {
		x.Sub(One, base)
	} else {
		x.Sub(base, One)
	}
	if !x.Lt(One) {
		return nil, pricing.ErrConvergence
	}

	var (
		sum     = One.Clone()
		term    = One.Clone()
		negTerm bool
		c       = new(uint256.Int)
		k       = new(uint256.Int)
	)
	for i := uint64(1); i <= maxPowIterations; i++ {
		// c = |f - (i-1)|
		k.Mul(uint256.NewInt(i-1), One)
		negC := frac.Lt(k)
		if negC {
			c.Sub(k, frac)
		} else {
			c.Sub(frac, k)
		}

		term.Mul(term, c)
		term.Div(term, One)
		term.Mul(term, x)
		term.Div(term, One)
		term.Div(term, uint256.NewInt(i))
		negTerm = negTerm != (negC != negX)

		if term.IsZero() {
			return sum, nil
		}
		if negTerm {
			if sum.Lt(term) {
				return nil, pricing.ErrConvergence
			}
			sum.Sub(sum, term)
		} else {
			sum.Add(sum, term)
		}
	}
	return nil, pricing.ErrConvergence
}
