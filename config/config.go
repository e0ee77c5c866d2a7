// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/consts"
	"github.com/galacticcouncil/Basilisk-node-sub002/pricing"
	"github.com/galacticcouncil/Basilisk-node-sub002/trace"
)

// MaxStableswapAssets bounds the size of a stored stableswap pool record.
const MaxStableswapAssets = 16

const (
	defaultMinTradingLimit  = 1_000
	defaultMinPoolLiquidity = 1_000
	defaultMaxInRatio       = 3
	defaultMaxOutRatio      = 3

	defaultMaxSaleDuration  = uint64(consts.MaxUint32)
	defaultMaxAssetsInPool  = 5
	defaultMinAmplification = 1
	defaultMaxAmplification = 10_000
	defaultMaxTrades        = 5
)

var (
	ErrInvalidRatio         = errors.New("ratio must be positive")
	ErrInvalidFee           = errors.New("invalid fee")
	ErrInvalidAmplification = errors.New("invalid amplification range")
	ErrInvalidAssetCount    = errors.New("invalid max assets in pool")
	ErrInvalidMaxTrades     = errors.New("max trades must be positive")
)

// Limits are shared by every pool engine.
type Limits struct {
	MinTradingLimit  uint64 `json:"minTradingLimit"`
	MinPoolLiquidity uint64 `json:"minPoolLiquidity"`
	MaxInRatio       uint64 `json:"maxInRatio"`
	MaxOutRatio      uint64 `json:"maxOutRatio"`
}

type XYK struct {
	ExchangeFee   pricing.Fee `json:"exchangeFee"`
	DiscountedFee pricing.Fee `json:"discountedFee"`
	// Empty leaves trade fees in the pool.
	FeeReceiver string `json:"feeReceiver"`

	feeReceiver codec.Address
}

// Receiver returns the parsed fee receiver and whether one is set.
func (x XYK) Receiver() (codec.Address, bool) {
	return x.feeReceiver, x.feeReceiver != codec.EmptyAddress
}

type LBP struct {
	DefaultFee      pricing.Fee `json:"defaultFee"`
	RepayFee        pricing.Fee `json:"repayFee"`
	MaxSaleDuration uint64      `json:"maxSaleDuration"`
}

type Stableswap struct {
	MaxAssetsInPool  int    `json:"maxAssetsInPool"`
	MinAmplification uint64 `json:"minAmplification"`
	MaxAmplification uint64 `json:"maxAmplification"`
}

type Router struct {
	MaxTrades int `json:"maxTrades"`
}

type Store struct {
	// Empty keeps state in memory.
	Directory string `json:"directory"`
	Sync      bool   `json:"sync"`
}

type Config struct {
	LogLevel      logging.Level `json:"logLevel"`
	NativeAssetID codec.AssetID `json:"nativeAssetId"`

	Limits

	XYK        XYK          `json:"xyk"`
	LBP        LBP          `json:"lbp"`
	Stableswap Stableswap   `json:"stableswap"`
	Router     Router       `json:"router"`
	Store      Store        `json:"store"`
	Trace      trace.Config `json:"trace"`
}

func New(b []byte) (*Config, error) {
	c := &Config{}
	c.setDefault()
	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", string(b), err)
		}
	}
	if err := c.Verify(); err != nil {
		return nil, err
	}
	return c, nil
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	c := &Config{}
	c.setDefault()
	return c
}

func (c *Config) setDefault() {
	c.LogLevel = logging.Info
	c.NativeAssetID = 0
	c.Limits = Limits{
		MinTradingLimit:  defaultMinTradingLimit,
		MinPoolLiquidity: defaultMinPoolLiquidity,
		MaxInRatio:       defaultMaxInRatio,
		MaxOutRatio:      defaultMaxOutRatio,
	}
	c.XYK = XYK{
		ExchangeFee:   pricing.NewFee(3, 1_000),
		DiscountedFee: pricing.NewFee(7, 10_000),
	}
	c.LBP = LBP{
		DefaultFee:      pricing.NewFee(2, 1_000),
		RepayFee:        pricing.NewFee(2, 10),
		MaxSaleDuration: defaultMaxSaleDuration,
	}
	c.Stableswap = Stableswap{
		MaxAssetsInPool:  defaultMaxAssetsInPool,
		MinAmplification: defaultMinAmplification,
		MaxAmplification: defaultMaxAmplification,
	}
	c.Router = Router{MaxTrades: defaultMaxTrades}
	c.Trace = trace.NewDefaultConfig()
}

// Verify checks the configuration and resolves the fee receiver.
func (c *Config) Verify() error {
	if c.MaxInRatio == 0 || c.MaxOutRatio == 0 {
		return ErrInvalidRatio
	}
	for name, fee := range map[string]pricing.Fee{
		"xyk.exchangeFee":   c.XYK.ExchangeFee,
		"xyk.discountedFee": c.XYK.DiscountedFee,
		"lbp.defaultFee":    c.LBP.DefaultFee,
		"lbp.repayFee":      c.LBP.RepayFee,
	} {
		if !fee.Valid() {
			return fmt.Errorf("%w: %s %s", ErrInvalidFee, name, fee)
		}
	}
	if c.Stableswap.MinAmplification == 0 || c.Stableswap.MinAmplification > c.Stableswap.MaxAmplification {
		return ErrInvalidAmplification
	}
	if c.Stableswap.MaxAssetsInPool < 2 || c.Stableswap.MaxAssetsInPool > MaxStableswapAssets {
		return ErrInvalidAssetCount
	}
	if c.Router.MaxTrades <= 0 {
		return ErrInvalidMaxTrades
	}
	c.XYK.feeReceiver = codec.EmptyAddress
	if c.XYK.FeeReceiver != "" {
		addr, err := codec.StringToAddress(c.XYK.FeeReceiver)
		if err != nil {
			return fmt.Errorf("invalid fee receiver: %w", err)
		}
		c.XYK.feeReceiver = addr
	}
	return nil
}

func (c *Config) GetLogLevel() logging.Level { return c.LogLevel }
