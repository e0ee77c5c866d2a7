// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package lbp

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/galacticcouncil/Basilisk-node-sub002/consts"
	"github.com/galacticcouncil/Basilisk-node-sub002/pricing"
	"github.com/galacticcouncil/Basilisk-node-sub002/pricing/xyk"
)

func TestCalculateLinearWeights(t *testing.T) {
	tests := []struct {
		name          string
		start         uint64
		end           uint64
		initial       uint32
		final         uint32
		at            uint64
		expectedFirst uint32
		expectedOther uint32
		err           error
	}{
		{
			name:          "midpoint",
			start:         10,
			end:           40,
			initial:       20_000_000,
			final:         80_000_000,
			at:            25,
			expectedFirst: 50_000_000,
			expectedOther: 50_000_000,
		},
		{
			name:          "decreasing",
			start:         100,
			end:           200,
			initial:       50_000_000,
			final:         33_333_333,
			at:            170,
			expectedFirst: 38_333_333,
			expectedOther: 61_666_667,
		},
		{
			name:          "start",
			start:         100,
			end:           200,
			initial:       10_000_000,
			final:         90_000_000,
			at:            100,
			expectedFirst: 10_000_000,
			expectedOther: 90_000_000,
		},
		{
			name:          "end",
			start:         100,
			end:           200,
			initial:       10_000_000,
			final:         90_000_000,
			at:            200,
			expectedFirst: 90_000_000,
			expectedOther: 10_000_000,
		},
		{
			name:    "empty range",
			start:   100,
			end:     100,
			initial: 10_000_000,
			final:   90_000_000,
			at:      100,
			err:     pricing.ErrWeightCalculation,
		},
		{
			name:    "before start",
			start:   100,
			end:     200,
			initial: 10_000_000,
			final:   90_000_000,
			at:      99,
			err:     pricing.ErrWeightCalculation,
		},
		{
			name:    "after end",
			start:   100,
			end:     200,
			initial: 10_000_000,
			final:   90_000_000,
			at:      201,
			err:     pricing.ErrWeightCalculation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			first, other, err := CalculateLinearWeights(tt.start, tt.end, tt.initial, tt.final, tt.at)
			require.ErrorIs(err, tt.err)
			require.Equal(tt.expectedFirst, first)
			require.Equal(tt.expectedOther, other)
		})
	}
}

func TestLinearWeightsBoundedAndMonotonic(t *testing.T) {
	require := require.New(t)

	for _, tt := range []struct{ initial, final uint32 }{
		{20_000_000, 80_000_000},
		{90_000_000, 10_000_000},
		{1, MaxWeight - 1},
	} {
		lo, hi := tt.initial, tt.final
		if lo > hi {
			lo, hi = hi, lo
		}
		prev := tt.initial
		for at := uint64(1_000); at <= 1_977; at++ {
			w, other, err := CalculateLinearWeights(1_000, 1_977, tt.initial, tt.final, at)
			require.NoError(err)
			require.Equal(MaxWeight, w+other)
			require.GreaterOrEqual(w, lo)
			require.LessOrEqual(w, hi)
			if tt.initial < tt.final {
				require.GreaterOrEqual(w, prev)
			} else {
				require.LessOrEqual(w, prev)
			}
			prev = w
		}
		require.Equal(tt.final, prev)
	}
}

func absDiff(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return new(uint256.Int).Sub(b, a)
	}
	return new(uint256.Int).Sub(a, b)
}

func fixed(s string) *uint256.Int {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestPow(t *testing.T) {
	tests := []struct {
		name     string
		base     *uint256.Int
		exp      *uint256.Int
		expected *uint256.Int
	}{
		{
			name:     "integer exponent",
			base:     fixed("2000000000000000000"),
			exp:      fixed("3000000000000000000"),
			expected: fixed("8000000000000000000"),
		},
		{
			name:     "zero exponent",
			base:     fixed("1234000000000000000"),
			exp:      new(uint256.Int),
			expected: One,
		},
		{
			name:     "fractional base below one",
			base:     fixed("750000000000000000"),
			exp:      fixed("3700000000000000000"),
			expected: fixed("344926589699677473"),
		},
		{
			name:     "fractional base above one",
			base:     fixed("1500000000000000000"),
			exp:      fixed("2500000000000000000"),
			expected: fixed("2755675960631075360"),
		},
		{
			name:     "square root",
			base:     fixed("1440000000000000000"),
			exp:      fixed("500000000000000000"),
			expected: fixed("1200000000000000000"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			r, err := Pow(tt.base, tt.exp)
			require.NoError(err)
			require.True(absDiff(r, tt.expected).Lt(uint256.NewInt(1_000)), "got %s", r)
		})
	}
}

func TestPowDiverges(t *testing.T) {
	require := require.New(t)

	_, err := Pow(fixed("2500000000000000000"), fixed("500000000000000000"))
	require.ErrorIs(err, pricing.ErrConvergence)
}

func TestCalculateOutGivenIn(t *testing.T) {
	tests := []struct {
		name      string
		weightIn  uint32
		weightOut uint32
		expected  uint64
	}{
		{
			name:      "low weight in",
			weightIn:  20_000_000,
			weightOut: 80_000_000,
			expected:  4_968_982_486_749,
		},
		{
			name:      "high weight in",
			weightIn:  80_000_000,
			weightOut: 20_000_000,
			expected:  78_039_311_034_367,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			out, err := CalculateOutGivenIn(1_000*consts.UNITS, 2_000*consts.UNITS, tt.weightIn, tt.weightOut, 10*consts.UNITS)
			require.NoError(err)
			require.InDelta(tt.expected, out, 2)
			require.LessOrEqual(out, tt.expected)
		})
	}
}

func TestCalculateInGivenOut(t *testing.T) {
	require := require.New(t)

	in, err := CalculateInGivenOut(1_000*consts.UNITS, 2_000*consts.UNITS, 20_000_000, 80_000_000, 10*consts.UNITS)
	require.NoError(err)
	require.InDelta(uint64(20_252_522_051_322), in, 2)
	require.GreaterOrEqual(in, uint64(20_252_522_051_322))

	_, err = CalculateInGivenOut(1_000, 1_000, 50_000_000, 50_000_000, 1_000)
	require.ErrorIs(err, pricing.ErrInsufficientReserve)

	_, err = CalculateInGivenOut(1_000, 1_000, 0, 50_000_000, 10)
	require.ErrorIs(err, pricing.ErrZeroWeight)
}

func TestEqualWeightsMatchConstantProduct(t *testing.T) {
	require := require.New(t)

	for _, amount := range []uint64{1_000, consts.UNITS, 10 * consts.UNITS, 100 * consts.UNITS} {
		out, err := CalculateOutGivenIn(1_000*consts.UNITS, 500*consts.UNITS, 50_000_000, 50_000_000, amount)
		require.NoError(err)
		expected, err := xyk.CalculateOutGivenIn(1_000*consts.UNITS, 500*consts.UNITS, amount)
		require.NoError(err)
		require.InDelta(expected, out, 1)

		in, err := CalculateInGivenOut(1_000*consts.UNITS, 500*consts.UNITS, 50_000_000, 50_000_000, amount)
		require.NoError(err)
		expected, err = xyk.CalculateInGivenOut(1_000*consts.UNITS, 500*consts.UNITS, amount)
		require.NoError(err)
		require.InDelta(expected, in, 1)
	}
}

func TestCalculateSpotPrice(t *testing.T) {
	require := require.New(t)

	price, err := CalculateSpotPrice(1_000*consts.UNITS, 2_000*consts.UNITS, 20_000_000, 80_000_000, consts.UNITS)
	require.NoError(err)
	require.Equal(consts.UNITS/2, price)

	_, err = CalculateSpotPrice(0, 1, 1, 1, 1)
	require.ErrorIs(err, pricing.ErrZeroReserve)
}
