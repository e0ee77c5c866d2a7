// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package lbp

import "errors"

var (
	ErrCannotCreatePoolWithSameAssets = errors.New("cannot create pool with same assets")
	ErrCannotAddZeroLiquidity         = errors.New("cannot add zero liquidity")
	ErrInsufficientLiquidity          = errors.New("insufficient liquidity")
	ErrPoolAlreadyExists              = errors.New("pool already exists")
	ErrPoolNotFound                   = errors.New("pool not found")
	ErrInsufficientAssetBalance       = errors.New("insufficient asset balance")
	ErrInvalidWeight                  = errors.New("invalid weight")
	ErrInvalidWeightCurve             = errors.New("invalid weight curve")
	ErrFeeAmountInvalid               = errors.New("fee amount invalid")
	ErrInvalidBlockRange              = errors.New("invalid block range")
	ErrMaxSaleDurationExceeded        = errors.New("max sale duration exceeded")
	ErrNotOwner                       = errors.New("not owner")
	ErrSaleStarted                    = errors.New("sale already started")
	ErrSaleNotEnded                   = errors.New("sale not ended")
	ErrSaleNotStarted                 = errors.New("sale not started")
	ErrSaleEnded                      = errors.New("sale ended")
	ErrNothingToUpdate                = errors.New("nothing to update")
	ErrRepayTargetNotMet              = errors.New("repay target not met")
	ErrZeroAmount                     = errors.New("zero amount")
	ErrInsufficientTradingAmount      = errors.New("amount is less than min trading limit")
	ErrMaxInRatioExceeded             = errors.New("max in ratio exceeded")
	ErrMaxOutRatioExceeded            = errors.New("max out ratio exceeded")
	ErrTradingLimitReached            = errors.New("trading limit reached")
	ErrInvalidAccount                 = errors.New("invalid account")
)
