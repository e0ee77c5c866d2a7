// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package stableswap

import (
	"github.com/holiman/uint256"

	"github.com/galacticcouncil/Basilisk-node-sub002/pricing"
)

// imbalanceFee spreads the pool fee over the assets: fee*n/(4*(n-1)).
func imbalanceFee(fee pricing.Permill, n int) pricing.Permill {
	if n < 2 {
		return 0
	}
	return pricing.Permill(uint64(fee) * uint64(n) / uint64(4*(n-1)))
}

func mulDivU(a uint64, b, c *uint256.Int) (uint64, error) {
	if c.IsZero() {
		return 0, pricing.ErrDivisionByZero
	}
	r, err := pricing.Mul(pricing.U(a), b)
	if err != nil {
		return 0, err
	}
	return pricing.ToUint64(r.Div(r, c))
}

// CalculateShares returns the shares minted for moving the pool from
// [initial] to [updated] reserves. Deposits that unbalance the pool pay
// the imbalance fee. The first deposit mints D.
func CalculateShares(initial, updated []uint64, amp, issuance uint64, fee pricing.Permill) (uint64, error) {
	if len(initial) != len(updated) {
		return 0, pricing.ErrAssetIndex
	}
	d0, err := CalculateD(initial, amp)
	if err != nil {
		return 0, err
	}
	d1, err := CalculateD(updated, amp)
	if err != nil {
		return 0, err
	}
	if d1.Lt(d0) {
		return 0, pricing.ErrInvariantDecreased
	}
	if issuance == 0 {
		return pricing.ToUint64(d1)
	}
	if d0.IsZero() {
		return 0, pricing.ErrZeroReserve
	}

	feePerAsset := imbalanceFee(fee, len(initial))
	adjusted := make([]uint64, len(updated))
	for i := range updated {
		ideal, err := mulDivU(initial[i], d1, d0)
		if err != nil {
			return 0, err
		}
		diff := updated[i] - ideal
		if ideal > updated[i] {
			diff = ideal - updated[i]
		}
		fee, err := feePerAsset.MulFloor(diff)
		if err != nil {
			return 0, err
		}
		if fee > updated[i] {
			return 0, pricing.ErrInsufficientReserve
		}
		adjusted[i] = updated[i] - fee
	}
	d2, err := CalculateD(adjusted, amp)
	if err != nil {
		return 0, err
	}
	if d2.Lt(d0) {
		return 0, pricing.ErrInvariantDecreased
	}
	diff := new(uint256.Int).Sub(d2, d0)
	return mulDivU(issuance, diff, d0)
}

// CalculateWithdrawOneAsset returns the amount of reserves[idx] paid out
// for burning [shares] and the fee retained by the pool.
func CalculateWithdrawOneAsset(reserves []uint64, shares uint64, idx int, issuance, amp uint64, fee pricing.Permill) (uint64, uint64, error) {
	if err := checkIndexes(reserves, idx); err != nil {
		return 0, 0, err
	}
	if len(reserves) < 2 {
		return 0, 0, pricing.ErrAssetIndex
	}
	if issuance == 0 {
		return 0, 0, pricing.ErrZeroReserve
	}
	if shares > issuance {
		return 0, 0, pricing.ErrInsufficientReserve
	}

	feePerAsset := imbalanceFee(fee, len(reserves))
	d0, err := CalculateD(reserves, amp)
	if err != nil {
		return 0, 0, err
	}
	burned, err := pricing.Mul(d0, pricing.U(shares))
	if err != nil {
		return 0, 0, err
	}
	burned.Div(burned, pricing.U(issuance))
	d1 := new(uint256.Int).Sub(d0, burned)

	others := make([]uint64, 0, len(reserves)-1)
	for i, r := range reserves {
		if i != idx {
			others = append(others, r)
		}
	}
	y, err := CalculateY(others, d1, amp)
	if err != nil {
		return 0, 0, err
	}

	reduced := make([]uint64, len(reserves))
	for i, r := range reserves {
		proportional, err := mulDivU(r, d1, d0)
		if err != nil {
			return 0, 0, err
		}
		var expected uint64
		if i == idx {
			e, err := pricing.Sub(pricing.U(proportional), y)
			if err != nil {
				return 0, 0, err
			}
			expected = e.Uint64()
		} else {
			expected = r - proportional
		}
		fee, err := feePerAsset.MulFloor(expected)
		if err != nil {
			return 0, 0, err
		}
		if fee > r {
			return 0, 0, pricing.ErrInsufficientReserve
		}
		reduced[i] = r - fee
	}

	others = others[:0]
	for i, r := range reduced {
		if i != idx {
			others = append(others, r)
		}
	}
	y1, err := CalculateY(others, d1, amp)
	if err != nil {
		return 0, 0, err
	}
	dy, err := pricing.Sub(pricing.U(reduced[idx]), y1)
	if err != nil {
		return 0, 0, pricing.ErrInsufficientReserve
	}
	dy0, err := pricing.Sub(pricing.U(reserves[idx]), y)
	if err != nil {
		return 0, 0, pricing.ErrInsufficientReserve
	}
	if dy.Gt(dy0) {
		return dy0.Uint64(), 0, nil
	}
	return dy.Uint64(), new(uint256.Int).Sub(dy0, dy).Uint64(), nil
}

// CalculateRemoveLiquidityAmounts returns the proportional share of every
// reserve owed to [shares], rounded down.
func CalculateRemoveLiquidityAmounts(reserves []uint64, shares, issuance uint64) ([]uint64, error) {
	if issuance == 0 {
		return nil, pricing.ErrZeroReserve
	}
	if shares > issuance {
		return nil, pricing.ErrInsufficientReserve
	}
	amounts := make([]uint64, len(reserves))
	for i, r := range reserves {
		a, err := pricing.MulDiv(r, shares, issuance)
		if err != nil {
			return nil, err
		}
		amounts[i] = a
	}
	return amounts, nil
}
