// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

// Package stableswap implements the amplified invariant used by stable
// pools.
package stableswap

import (
	"github.com/holiman/uint256"
	"golang.org/x/exp/slices"

	"github.com/galacticcouncil/Basilisk-node-sub002/pricing"
)

const (
	MaxDIterations = 128
	MaxYIterations = 64

	precision = 1
)

var precisionU = uint256.NewInt(precision)

func hasConverged(prev, next *uint256.Int) bool {
	if next.Gt(prev) {
		return !new(uint256.Int).Sub(next, prev).Gt(precisionU)
	}
	return new(uint256.Int).Sub(prev, next).Lt(precisionU)
}

// ann returns amp * n^n.
func ann(n int, amp uint64) *uint256.Int {
	r := uint256.NewInt(amp)
	for i := 0; i < n; i++ {
		r.Mul(r, uint256.NewInt(uint64(n)))
	}
	return r
}

// nonZeroSorted drops empty reserves and orders the rest ascending.
func nonZeroSorted(reserves []uint64) []*uint256.Int {
	values := make([]uint64, 0, len(reserves))
	for _, r := range reserves {
		if r != 0 {
			values = append(values, r)
		}
	}
	slices.Sort(values)
	xp := make([]*uint256.Int, len(values))
	for i, v := range values {
		xp[i] = uint256.NewInt(v)
	}
	return xp
}

// CalculateD solves the invariant for the given reserves. Zero reserves do
// not participate.
func CalculateD(reserves []uint64, amp uint64) (*uint256.Int, error) {
	xp := nonZeroSorted(reserves)
	n := uint64(len(xp))
	sum := new(uint256.Int)
	for _, x := range xp {
		sum.Add(sum, x)
	}
	if sum.IsZero() {
		return sum, nil
	}

	var (
		a    = ann(len(xp), amp)
		nU   = uint256.NewInt(n)
		d    = sum.Clone()
		annS = new(uint256.Int).Mul(a, sum)
		annM = new(uint256.Int).SubUint64(a, 1)
	)
	for i := 0; i < MaxDIterations; i++ {
		dp := d.Clone()
		for _, x := range xp {
			dp.Mul(dp, d)
			dp.Div(dp, new(uint256.Int).Mul(x, nU))
		}
		prev := d

		// (ann*s + dp*n) * d
		num := new(uint256.Int).Mul(dp, nU)
		num.Add(num, annS)
		num, err := pricing.Mul(num, d)
		if err != nil {
			return nil, err
		}
		// (ann-1)*d + (n+1)*dp
		den := new(uint256.Int).Mul(annM, d)
		den.Add(den, new(uint256.Int).Mul(uint256.NewInt(n+1), dp))
		if den.IsZero() {
			return nil, pricing.ErrDivisionByZero
		}
		d = num.Div(num, den)
		d.AddUint64(d, 2)

		if hasConverged(prev, d) {
			return d, nil
		}
	}
	return nil, pricing.ErrConvergence
}

// CalculateY solves the invariant for the one reserve missing from
// [reserves] given [d].
func CalculateY(reserves []uint64, d *uint256.Int, amp uint64) (*uint256.Int, error) {
	xp := nonZeroSorted(reserves)
	n := len(xp) + 1
	nU := uint256.NewInt(uint64(n))
	a := ann(n, amp)

	sum := new(uint256.Int)
	c := d.Clone()
	for _, x := range xp {
		sum.Add(sum, x)
		c.Mul(c, d)
		c.Div(c, new(uint256.Int).Mul(x, nU))
	}
	c.Mul(c, d)
	c.Div(c, new(uint256.Int).Mul(a, nU))
	b := new(uint256.Int).Div(d, a)
	b.Add(b, sum)

	y := d.Clone()
	for i := 0; i < MaxYIterations; i++ {
		prev := y

		// (y*y + c) / (2y + b - d)
		num := new(uint256.Int).Mul(y, y)
		num.Add(num, c)
		den := new(uint256.Int).Lsh(y, 1)
		den.Add(den, b)
		den, err := pricing.Sub(den, d)
		if err != nil {
			return nil, err
		}
		if den.IsZero() {
			return nil, pricing.ErrDivisionByZero
		}
		y = num.Div(num, den)
		y.AddUint64(y, 2)

		if hasConverged(prev, y) {
			return y, nil
		}
	}
	return nil, pricing.ErrConvergence
}

func checkIndexes(reserves []uint64, idx ...int) error {
	for _, i := range idx {
		if i < 0 || i >= len(reserves) {
			return pricing.ErrAssetIndex
		}
	}
	return nil
}

// CalculateOutGivenIn returns the amount of reserves[idxOut] released for
// [amountIn] of reserves[idxIn], before fees.
func CalculateOutGivenIn(reserves []uint64, idxIn, idxOut int, amountIn, amp uint64) (uint64, error) {
	if err := checkIndexes(reserves, idxIn, idxOut); err != nil {
		return 0, err
	}
	d, err := CalculateD(reserves, amp)
	if err != nil {
		return 0, err
	}
	xp := make([]uint64, 0, len(reserves)-1)
	for i, r := range reserves {
		switch i {
		case idxOut:
		case idxIn:
			v, err := safeAdd(r, amountIn)
			if err != nil {
				return 0, err
			}
			xp = append(xp, v)
		default:
			xp = append(xp, r)
		}
	}
	y, err := CalculateY(xp, d, amp)
	if err != nil {
		return 0, err
	}
	out, err := pricing.Sub(pricing.U(reserves[idxOut]), y)
	if err != nil {
		return 0, pricing.ErrInsufficientReserve
	}
	return out.Uint64(), nil
}

// CalculateInGivenOut returns the amount of reserves[idxIn] needed to
// release [amountOut] of reserves[idxOut], before fees.
func CalculateInGivenOut(reserves []uint64, idxIn, idxOut int, amountOut, amp uint64) (uint64, error) {
	if err := checkIndexes(reserves, idxIn, idxOut); err != nil {
		return 0, err
	}
	if amountOut >= reserves[idxOut] {
		return 0, pricing.ErrInsufficientReserve
	}
	d, err := CalculateD(reserves, amp)
	if err != nil {
		return 0, err
	}
	xp := make([]uint64, 0, len(reserves)-1)
	for i, r := range reserves {
		switch i {
		case idxIn:
		case idxOut:
			xp = append(xp, r-amountOut)
		default:
			xp = append(xp, r)
		}
	}
	y, err := CalculateY(xp, d, amp)
	if err != nil {
		return 0, err
	}
	in, err := pricing.Sub(y, pricing.U(reserves[idxIn]))
	if err != nil {
		return 0, pricing.ErrInsufficientReserve
	}
	return pricing.ToUint64(in)
}

func safeAdd(a, b uint64) (uint64, error) {
	if a+b < a {
		return 0, pricing.ErrOverflow
	}
	return a + b, nil
}
