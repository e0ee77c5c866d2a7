// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/galacticcouncil/Basilisk-node-sub002/consts"
)

func TestAccountAddress(t *testing.T) {
	require := require.New(t)

	alice := AccountAddress("alice")
	require.Equal(alice, AccountAddress("alice"))
	require.NotEqual(alice, AccountAddress("bob"))
	require.False(alice.IsPool())
}

func TestParseBalance(t *testing.T) {
	tests := []struct {
		input       string
		expected    uint64
		expectedErr error
	}{
		{input: "1", expected: consts.UNITS},
		{input: "4.5", expected: 4*consts.UNITS + consts.UNITS/2},
		{input: "0.000000000001", expected: 1},
		{input: "0.0000000000001", expectedErr: ErrInvalidBalance},
		{input: "abc", expectedErr: ErrInvalidBalance},
		{input: "99999999", expectedErr: ErrInvalidBalance},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require := require.New(t)
			v, err := ParseBalance(tt.input)
			require.ErrorIs(err, tt.expectedErr)
			require.Equal(tt.expected, v)
		})
	}
}

func TestFormatBalance(t *testing.T) {
	require := require.New(t)
	require.Equal("4.545454545454", FormatBalance(4_545_454_545_454))
	require.Equal("0.000000000001", FormatBalance(1))
}
