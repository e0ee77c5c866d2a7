// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package stableswap

import "errors"

var (
	ErrSameAssets                     = errors.New("same assets")
	ErrIncorrectAssets                = errors.New("incorrect assets")
	ErrShareAssetInPoolAssets         = errors.New("share asset in pool assets")
	ErrPoolNotFound                   = errors.New("pool not found")
	ErrPoolExists                     = errors.New("pool exists")
	ErrAssetNotInPool                 = errors.New("asset not in pool")
	ErrAssetNotRegistered             = errors.New("asset not registered")
	ErrInvalidAssetAmount             = errors.New("invalid asset amount")
	ErrInvalidAmplification           = errors.New("invalid amplification")
	ErrInvalidFee                     = errors.New("invalid fee")
	ErrInsufficientBalance            = errors.New("insufficient balance")
	ErrInsufficientShares             = errors.New("insufficient shares")
	ErrInsufficientLiquidity          = errors.New("insufficient liquidity")
	ErrInsufficientLiquidityRemaining = errors.New("insufficient liquidity remaining")
	ErrInsufficientTradingAmount      = errors.New("amount is less than min trading limit")
	ErrBuyLimitNotReached             = errors.New("buy limit not reached")
	ErrSellLimitExceeded              = errors.New("sell limit exceeded")
	ErrInvalidInitialLiquidity        = errors.New("invalid initial liquidity")
	ErrInsufficientShareBalance       = errors.New("insufficient share balance")
)
