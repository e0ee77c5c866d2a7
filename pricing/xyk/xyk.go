// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

// Package xyk implements the constant product formulas.
package xyk

import (
	"github.com/holiman/uint256"

	"github.com/galacticcouncil/Basilisk-node-sub002/pricing"
)

// CalculateOutGivenIn returns floor(reserveOut*amountIn/(reserveIn+amountIn)).
func CalculateOutGivenIn(reserveIn, reserveOut, amountIn uint64) (uint64, error) {
	if reserveIn == 0 {
		return 0, pricing.ErrZeroReserve
	}
	num := new(uint256.Int).Mul(pricing.U(reserveOut), pricing.U(amountIn))
	den := new(uint256.Int).Add(pricing.U(reserveIn), pricing.U(amountIn))
	return pricing.ToUint64(num.Div(num, den))
}

// CalculateInGivenOut returns ceil(reserveIn*amountOut/(reserveOut-amountOut)).
func CalculateInGivenOut(reserveIn, reserveOut, amountOut uint64) (uint64, error) {
	if amountOut >= reserveOut {
		return 0, pricing.ErrInsufficientReserve
	}
	num := new(uint256.Int).Mul(pricing.U(reserveIn), pricing.U(amountOut))
	return pricing.ToUint64(pricing.DivCeil(num, pricing.U(reserveOut-amountOut)))
}

// CalculateLiquidityIn returns the amount of asset B that has to accompany
// amountA to keep the pool ratio, rounded up.
func CalculateLiquidityIn(reserveA, reserveB, amountA uint64) (uint64, error) {
	if reserveA == 0 {
		return 0, pricing.ErrZeroReserve
	}
	return pricing.MulDivCeil(amountA, reserveB, reserveA)
}

// CalculateLiquidityOut returns the reserves owed to [shares] out of
// [totalShares], rounded down.
func CalculateLiquidityOut(reserveA, reserveB, shares, totalShares uint64) (uint64, uint64, error) {
	if totalShares == 0 {
		return 0, 0, pricing.ErrZeroReserve
	}
	if shares > totalShares {
		return 0, 0, pricing.ErrInsufficientReserve
	}
	a, err := pricing.MulDiv(reserveA, shares, totalShares)
	if err != nil {
		return 0, 0, err
	}
	b, err := pricing.MulDiv(reserveB, shares, totalShares)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// CalculateShares returns floor(totalShares*amount/reserve).
func CalculateShares(reserve, amount, totalShares uint64) (uint64, error) {
	if reserve == 0 {
		return 0, pricing.ErrZeroReserve
	}
	return pricing.MulDiv(totalShares, amount, reserve)
}

// CalculateSpotPrice values [amount] of asset A in asset B.
func CalculateSpotPrice(reserveA, reserveB, amount uint64) (uint64, error) {
	if reserveA == 0 {
		return 0, pricing.ErrZeroReserve
	}
	return pricing.MulDiv(amount, reserveB, reserveA)
}
