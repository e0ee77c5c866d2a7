// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package xyk

import "errors"

var (
	ErrCannotCreatePoolWithSameAssets    = errors.New("cannot create pool with same assets")
	ErrInsufficientLiquidity             = errors.New("insufficient liquidity")
	ErrInsufficientTradingAmount         = errors.New("amount is less than min trading limit")
	ErrZeroLiquidity                     = errors.New("zero liquidity")
	ErrCannotRemoveLiquidityWithZero     = errors.New("cannot remove zero liquidity")
	ErrInvalidMintedLiquidity            = errors.New("invalid minted liquidity")
	ErrAssetAmountExceededLimit          = errors.New("asset amount exceeded limit")
	ErrAssetAmountNotReachedLimit        = errors.New("asset amount not reached limit")
	ErrInsufficientAssetBalance          = errors.New("insufficient asset balance")
	ErrInsufficientPoolAssetBalance      = errors.New("insufficient pool asset balance")
	ErrInsufficientNativeCurrencyBalance = errors.New("insufficient native currency balance")
	ErrTokenPoolNotFound                 = errors.New("token pool not found")
	ErrTokenPoolAlreadyExists            = errors.New("token pool already exists")
	ErrCannotApplyDiscount               = errors.New("cannot apply discount")
	ErrMaxOutRatioExceeded               = errors.New("max out ratio exceeded")
	ErrMaxInRatioExceeded                = errors.New("max in ratio exceeded")
)
