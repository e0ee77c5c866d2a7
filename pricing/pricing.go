// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pricing holds the integer arithmetic shared by the pool
// formulas. Balances are uint64; every intermediate product is computed
// in 256 bits and converted back with an overflow check.
package pricing

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Fee is a rational fee rate.
type Fee struct {
	Numerator   uint32 `json:"numerator"   yaml:"numerator"`
	Denominator uint32 `json:"denominator" yaml:"denominator"`
}

func NewFee(numerator, denominator uint32) Fee {
	return Fee{Numerator: numerator, Denominator: denominator}
}

// Valid reports whether the fee has a usable denominator and does not
// exceed 100%.
func (f Fee) Valid() bool {
	return f.Denominator != 0 && f.Numerator <= f.Denominator
}

func (f Fee) IsZero() bool {
	return f.Numerator == 0 || f.Denominator == 0
}

// Amount returns floor(x*n/d). A zero numerator or denominator yields no
// fee and n == d yields the whole amount.
func (f Fee) Amount(x uint64) (uint64, error) {
	switch {
	case f.IsZero():
		return 0, nil
	case f.Numerator == f.Denominator:
		return x, nil
	default:
		return MulDiv(x, uint64(f.Numerator), uint64(f.Denominator))
	}
}

// AmountCeil is Amount rounded up.
func (f Fee) AmountCeil(x uint64) (uint64, error) {
	switch {
	case f.IsZero():
		return 0, nil
	case f.Numerator == f.Denominator:
		return x, nil
	default:
		return MulDivCeil(x, uint64(f.Numerator), uint64(f.Denominator))
	}
}

func (f Fee) String() string {
	return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
}

// OneMillion is the Permill denominator.
const OneMillion = 1_000_000

// Permill is a fraction in parts per million.
type Permill uint32

func PermillFromPercent(p uint32) Permill {
	return Permill(p * 10_000)
}

func (p Permill) Valid() bool {
	return p <= OneMillion
}

// MulFloor returns floor(x*p/1e6). It fails with [ErrOverflow] when p is
// above one million.
func (p Permill) MulFloor(x uint64) (uint64, error) {
	if !p.Valid() {
		return 0, ErrOverflow
	}
	return MulDiv(x, uint64(p), OneMillion)
}

// MulCeil returns ceil(x*p/1e6).
func (p Permill) MulCeil(x uint64) (uint64, error) {
	if !p.Valid() {
		return 0, ErrOverflow
	}
	return MulDivCeil(x, uint64(p), OneMillion)
}

func (p Permill) String() string {
	return fmt.Sprintf("%d/%d", uint32(p), OneMillion)
}

// MulDiv returns floor(a*b/c).
func MulDiv(a, b, c uint64) (uint64, error) {
	if c == 0 {
		return 0, ErrDivisionByZero
	}
	r := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	r.Div(r, uint256.NewInt(c))
	return ToUint64(r)
}

// MulDivCeil returns ceil(a*b/c).
func MulDivCeil(a, b, c uint64) (uint64, error) {
	if c == 0 {
		return 0, ErrDivisionByZero
	}
	r := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	return ToUint64(DivCeil(r, uint256.NewInt(c)))
}

// DivCeil returns ceil(x/y) as a new value. y must be non-zero.
func DivCeil(x, y *uint256.Int) *uint256.Int {
	q, m := new(uint256.Int).DivMod(x, y, new(uint256.Int))
	if !m.IsZero() {
		q.AddUint64(q, 1)
	}
	return q
}

// Mul returns x*y or ErrOverflow.
func Mul(x, y *uint256.Int) (*uint256.Int, error) {
	r, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}
	return r, nil
}

// Add returns x+y or ErrOverflow.
func Add(x, y *uint256.Int) (*uint256.Int, error) {
	r, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}
	return r, nil
}

// Sub returns x-y or ErrOverflow when y > x.
func Sub(x, y *uint256.Int) (*uint256.Int, error) {
	if x.Lt(y) {
		return nil, ErrOverflow
	}
	return new(uint256.Int).Sub(x, y), nil
}

// Div returns x/y or ErrDivisionByZero.
func Div(x, y *uint256.Int) (*uint256.Int, error) {
	if y.IsZero() {
		return nil, ErrDivisionByZero
	}
	return new(uint256.Int).Div(x, y), nil
}

func ToUint64(x *uint256.Int) (uint64, error) {
	if !x.IsUint64() {
		return 0, ErrOverflow
	}
	return x.Uint64(), nil
}

// U converts a balance into a 256-bit value.
func U(x uint64) *uint256.Int {
	return uint256.NewInt(x)
}
