// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/consts"

	formatter "github.com/onsi/ginkgo/v2/formatter"
)

var ErrInvalidBalance = errors.New("invalid balance")

func ToID(bytes []byte) ids.ID {
	return ids.ID(hashing.ComputeHash256Array(bytes))
}

// AccountAddress derives a deterministic account address from [name].
func AccountAddress(name string) codec.Address {
	return codec.CreateAddress(codec.AccountTypeID, ToID([]byte(name)))
}

// Outf outputs to stdout.
//
// e.g.,
//
//	Outf("{{green}}{{bold}}hi there %q{{/}}", "aa")
//	Outf("{{magenta}}{{bold}}hi therea{{/}} {{cyan}}{{underline}}b{{/}}")
//
// ref.
// https://github.com/onsi/ginkgo/blob/v2.0.0/formatter/formatter.go#L52-L73
func Outf(format string, args ...interface{}) {
	s := formatter.F(format, args...)
	fmt.Fprint(formatter.ColorableStdOut, s)
}

// FormatBalance renders [bal] base units as a decimal amount of whole units.
func FormatBalance(bal uint64) string {
	whole := bal / consts.UNITS
	frac := bal % consts.UNITS
	return fmt.Sprintf("%d.%0*d", whole, consts.Decimals, frac)
}

// ParseBalance parses a decimal amount of whole units into base units.
func ParseBalance(bal string) (uint64, error) {
	whole, frac, _ := strings.Cut(bal, ".")
	if len(frac) > consts.Decimals {
		return 0, fmt.Errorf("%w: too many decimals", ErrInvalidBalance)
	}
	w, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidBalance, err)
	}
	var f uint64
	if len(frac) > 0 {
		f, err = strconv.ParseUint(frac+strings.Repeat("0", consts.Decimals-len(frac)), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidBalance, err)
		}
	}
	if w > (consts.MaxUint64-f)/consts.UNITS {
		return 0, fmt.Errorf("%w: overflow", ErrInvalidBalance)
	}
	return w*consts.UNITS + f, nil
}
