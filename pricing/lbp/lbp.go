// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

// Package lbp implements the weighted pool formulas used by liquidity
// bootstrapping pools.
package lbp

import (
	"github.com/holiman/uint256"

	"github.com/galacticcouncil/Basilisk-node-sub002/pricing"
)

// MaxWeight is the sum of both asset weights.
const MaxWeight uint32 = 100_000_000

// CalculateLinearWeights interpolates the weight of the first asset at block
// [at] between [initialWeight] at [start] and [finalWeight] at [end]. The
// second weight is MaxWeight minus the first.
func CalculateLinearWeights(start, end uint64, initialWeight, finalWeight uint32, at uint64) (uint32, uint32, error) {
	if end <= start || at < start || at > end {
		return 0, 0, pricing.ErrWeightCalculation
	}
	left := new(uint256.Int).Mul(uint256.NewInt(uint64(initialWeight)), uint256.NewInt(end-at))
	right := new(uint256.Int).Mul(uint256.NewInt(uint64(finalWeight)), uint256.NewInt(at-start))
	w := left.Add(left, right)
	w.Div(w, uint256.NewInt(end-start))
	if !w.IsUint64() || w.Uint64() > uint64(MaxWeight) {
		return 0, 0, pricing.ErrWeightCalculation
	}
	first := uint32(w.Uint64())
	return first, MaxWeight - first, nil
}

func weightRatio(num, den uint32) (*uint256.Int, error) {
	if num == 0 || den == 0 {
		return nil, pricing.ErrZeroWeight
	}
	r := new(uint256.Int).Mul(uint256.NewInt(uint64(num)), One)
	return r.Div(r, uint256.NewInt(uint64(den))), nil
}

// CalculateOutGivenIn returns floor(rOut*(1-(rIn/(rIn+a))^(wIn/wOut))).
func CalculateOutGivenIn(reserveIn, reserveOut uint64, weightIn, weightOut uint32, amountIn uint64) (uint64, error) {
	ratio, err := weightRatio(weightIn, weightOut)
	if err != nil {
		return 0, err
	}
	if amountIn == 0 {
		return 0, nil
	}
	if reserveIn == 0 {
		return 0, pricing.ErrZeroReserve
	}

	// rounding the base up keeps the result in favour of the pool
	num := new(uint256.Int).Mul(pricing.U(reserveIn), One)
	den := new(uint256.Int).Add(pricing.U(reserveIn), pricing.U(amountIn))
	y, err := Pow(pricing.DivCeil(num, den), ratio)
	if err != nil {
		return 0, err
	}
	if y.Gt(One) {
		return 0, nil
	}
	out := new(uint256.Int).Sub(One, y)
	out.Mul(out, pricing.U(reserveOut))
	return pricing.ToUint64(out.Div(out, One))
}

// CalculateInGivenOut returns ceil(rIn*((rOut/(rOut-a))^(wOut/wIn)-1)).
func CalculateInGivenOut(reserveIn, reserveOut uint64, weightIn, weightOut uint32, amountOut uint64) (uint64, error) {
	ratio, err := weightRatio(weightOut, weightIn)
	if err != nil {
		return 0, err
	}
	if amountOut == 0 {
		return 0, nil
	}
	if amountOut >= reserveOut {
		return 0, pricing.ErrInsufficientReserve
	}

	num := new(uint256.Int).Mul(pricing.U(reserveOut), One)
	y, err := Pow(pricing.DivCeil(num, pricing.U(reserveOut-amountOut)), ratio)
	if err != nil {
		return 0, err
	}
	if y.Lt(One) {
		return 0, nil
	}
	in := new(uint256.Int).Sub(y, One)
	in, err = pricing.Mul(in, pricing.U(reserveIn))
	if err != nil {
		return 0, err
	}
	return pricing.ToUint64(pricing.DivCeil(in, One))
}

// CalculateSpotPrice values [amount] of asset A in asset B:
// amount * (rB/wB) / (rA/wA).
func CalculateSpotPrice(reserveA, reserveB uint64, weightA, weightB uint32, amount uint64) (uint64, error) {
	if reserveA == 0 {
		return 0, pricing.ErrZeroReserve
	}
	if weightA == 0 || weightB == 0 {
		return 0, pricing.ErrZeroWeight
	}
	num := new(uint256.Int).Mul(pricing.U(reserveB), uint256.NewInt(uint64(weightA)))
	num.Mul(num, pricing.U(amount))
	den := new(uint256.Int).Mul(pricing.U(reserveA), uint256.NewInt(uint64(weightB)))
	return pricing.ToUint64(num.Div(num, den))
}
