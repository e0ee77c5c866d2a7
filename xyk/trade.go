// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package xyk

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/galacticcouncil/Basilisk-node-sub002/amm"
	"github.com/galacticcouncil/Basilisk-node-sub002/auth"
	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/state"
	"github.com/galacticcouncil/Basilisk-node-sub002/storage"

	smath "github.com/ava-labs/avalanchego/utils/math"
	pxyk "github.com/galacticcouncil/Basilisk-node-sub002/pricing/xyk"
)

// Transfer is a validated trade. It is produced without touching state and
// applied by ExecuteSellTransfer or ExecuteBuyTransfer.
type Transfer struct {
	Who      codec.Address
	AssetIn  codec.AssetID
	AssetOut codec.AssetID

	// AmountIn is paid by the trader to the pool, excluding the fee of a buy.
	AmountIn uint64
	// AmountOut is paid by the pool to the trader, net of the fee of a sell.
	AmountOut uint64

	FeeAsset codec.AssetID
	Fee      uint64

	Discount bool
	// DiscountAmount of the native asset is burned from the trader.
	DiscountAmount uint64
}

func (e *Engine) fee(amount uint64, discount bool) (uint64, error) {
	if discount {
		return e.cfg.DiscountedFee.Amount(amount)
	}
	return e.cfg.ExchangeFee.Amount(amount)
}

// quoteSell prices selling [amount] against the reserves and enforces the
// trading limits. It returns the output net of the fee and the fee.
func (e *Engine) quoteSell(reserveIn, reserveOut, amount uint64, discount bool) (uint64, uint64, error) {
	if amount < e.limits.MinTradingLimit {
		return 0, 0, ErrInsufficientTradingAmount
	}
	if amount > reserveIn/e.limits.MaxInRatio {
		return 0, 0, ErrMaxInRatioExceeded
	}
	out, err := pxyk.CalculateOutGivenIn(reserveIn, reserveOut, amount)
	if err != nil {
		return 0, 0, err
	}
	if out >= reserveOut {
		return 0, 0, ErrInsufficientPoolAssetBalance
	}
	fee, err := e.fee(out, discount)
	if err != nil {
		return 0, 0, err
	}
	net := out - fee
	if net > reserveOut/e.limits.MaxOutRatio {
		return 0, 0, ErrMaxOutRatioExceeded
	}
	return net, fee, nil
}

// quoteBuy prices buying [amount] against the reserves and enforces the
// trading limits. It returns the input without the fee and the fee.
func (e *Engine) quoteBuy(reserveIn, reserveOut, amount uint64, discount bool) (uint64, uint64, error) {
	if amount < e.limits.MinTradingLimit {
		return 0, 0, ErrInsufficientTradingAmount
	}
	if amount >= reserveOut {
		return 0, 0, ErrInsufficientPoolAssetBalance
	}
	if amount > reserveOut/e.limits.MaxOutRatio {
		return 0, 0, ErrMaxOutRatioExceeded
	}
	in, err := pxyk.CalculateInGivenOut(reserveIn, reserveOut, amount)
	if err != nil {
		return 0, 0, err
	}
	if in > reserveIn/e.limits.MaxInRatio {
		return 0, 0, ErrMaxInRatioExceeded
	}
	fee, err := e.fee(in, discount)
	if err != nil {
		return 0, 0, err
	}
	if _, err := smath.Add64(in, fee); err != nil {
		return 0, 0, err
	}
	return in, fee, nil
}

// ValidateSell quotes selling [amount] of [assetIn]. The trader must
// receive at least [minBought] after fees.
func (e *Engine) ValidateSell(
	ctx context.Context,
	im state.Immutable,
	who codec.Address,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amount uint64,
	minBought uint64,
	discount bool,
) (*Transfer, error) {
	if amount < e.limits.MinTradingLimit {
		return nil, ErrInsufficientTradingAmount
	}
	account := PoolAccount(assetIn, assetOut)
	_, exists, err := getPool(ctx, im, account)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrTokenPoolNotFound
	}
	if err := ensureBalance(ctx, im, assetIn, who, amount); err != nil {
		return nil, err
	}

	reserveIn, reserveOut, err := reserves(ctx, im, account, assetIn, assetOut)
	if err != nil {
		return nil, err
	}
	outWithoutFee, fee, err := e.quoteSell(reserveIn, reserveOut, amount, discount)
	if err != nil {
		return nil, err
	}
	if outWithoutFee < minBought {
		return nil, fmt.Errorf("%w: got %d, min %d", ErrAssetAmountNotReachedLimit, outWithoutFee, minBought)
	}

	t := &Transfer{
		Who:       who,
		AssetIn:   assetIn,
		AssetOut:  assetOut,
		AmountIn:  amount,
		AmountOut: outWithoutFee,
		FeeAsset:  assetOut,
		Fee:       fee,
		Discount:  discount,
	}
	if discount {
		if t.DiscountAmount, err = e.discountAmount(ctx, im, who, assetOut, fee); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// ValidateBuy quotes buying [amount] of [assetOut]. The trader pays at most
// [maxLimit] including fees.
func (e *Engine) ValidateBuy(
	ctx context.Context,
	im state.Immutable,
	who codec.Address,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amount uint64,
	maxLimit uint64,
	discount bool,
) (*Transfer, error) {
	if amount < e.limits.MinTradingLimit {
		return nil, ErrInsufficientTradingAmount
	}
	account := PoolAccount(assetIn, assetOut)
	_, exists, err := getPool(ctx, im, account)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrTokenPoolNotFound
	}

	reserveIn, reserveOut, err := reserves(ctx, im, account, assetIn, assetOut)
	if err != nil {
		return nil, err
	}
	in, fee, err := e.quoteBuy(reserveIn, reserveOut, amount, discount)
	if err != nil {
		return nil, err
	}
	inWithFee := in + fee
	if inWithFee > maxLimit {
		return nil, fmt.Errorf("%w: required %d, max %d", ErrAssetAmountExceededLimit, inWithFee, maxLimit)
	}
	if err := ensureBalance(ctx, im, assetIn, who, inWithFee); err != nil {
		return nil, err
	}

	t := &Transfer{
		Who:       who,
		AssetIn:   assetIn,
		AssetOut:  assetOut,
		AmountIn:  in,
		AmountOut: amount,
		FeeAsset:  assetIn,
		Fee:       fee,
		Discount:  discount,
	}
	if discount {
		if t.DiscountAmount, err = e.discountAmount(ctx, im, who, assetIn, fee); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// discountAmount prices [fee] of [feeAsset] in the native asset through the
// (feeAsset, native) pool and checks the trader can burn it.
func (e *Engine) discountAmount(
	ctx context.Context,
	im state.Immutable,
	who codec.Address,
	feeAsset codec.AssetID,
	fee uint64,
) (uint64, error) {
	if feeAsset == e.native {
		return 0, nil
	}
	account := PoolAccount(feeAsset, e.native)
	_, exists, err := getPool(ctx, im, account)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrCannotApplyDiscount
	}
	assetReserve, nativeReserve, err := reserves(ctx, im, account, feeAsset, e.native)
	if err != nil {
		return 0, err
	}
	amount, err := pxyk.CalculateSpotPrice(assetReserve, nativeReserve, fee)
	if err != nil {
		return 0, ErrCannotApplyDiscount
	}
	balance, err := storage.GetBalance(ctx, im, e.native, who)
	if err != nil {
		return 0, err
	}
	if balance < amount {
		return 0, ErrInsufficientNativeCurrencyBalance
	}
	return amount, nil
}

// ExecuteSellTransfer applies a transfer returned by ValidateSell.
func (e *Engine) ExecuteSellTransfer(ctx context.Context, mu state.Mutable, t *Transfer) error {
	account := PoolAccount(t.AssetIn, t.AssetOut)
	if t.Discount && t.DiscountAmount > 0 {
		if err := storage.Withdraw(ctx, mu, e.native, t.Who, t.DiscountAmount); err != nil {
			return err
		}
	}
	if err := storage.Transfer(ctx, mu, t.AssetIn, t.Who, account, t.AmountIn); err != nil {
		return err
	}
	if err := storage.Transfer(ctx, mu, t.AssetOut, account, t.Who, t.AmountOut); err != nil {
		return err
	}
	if receiver, ok := e.cfg.Receiver(); ok {
		if err := storage.Transfer(ctx, mu, t.FeeAsset, account, receiver, t.Fee); err != nil {
			return err
		}
	}

	e.emitter.Emit(SellExecuted{
		Who:       t.Who,
		AssetIn:   t.AssetIn,
		AssetOut:  t.AssetOut,
		AmountIn:  t.AmountIn,
		AmountOut: t.AmountOut,
		FeeAsset:  t.FeeAsset,
		Fee:       t.Fee,
	})
	e.log.Debug("xyk sell executed",
		zap.Stringer("who", t.Who),
		zap.Stringer("assetIn", t.AssetIn),
		zap.Stringer("assetOut", t.AssetOut),
		zap.Uint64("amountIn", t.AmountIn),
		zap.Uint64("amountOut", t.AmountOut),
		zap.Uint64("fee", t.Fee),
	)
	return nil
}

// ExecuteBuyTransfer applies a transfer returned by ValidateBuy.
func (e *Engine) ExecuteBuyTransfer(ctx context.Context, mu state.Mutable, t *Transfer) error {
	account := PoolAccount(t.AssetIn, t.AssetOut)
	if t.Discount && t.DiscountAmount > 0 {
		if err := storage.Withdraw(ctx, mu, e.native, t.Who, t.DiscountAmount); err != nil {
			return err
		}
	}
	if err := storage.Transfer(ctx, mu, t.AssetOut, account, t.Who, t.AmountOut); err != nil {
		return err
	}
	if receiver, ok := e.cfg.Receiver(); ok {
		if err := storage.Transfer(ctx, mu, t.AssetIn, t.Who, account, t.AmountIn); err != nil {
			return err
		}
		if err := storage.Transfer(ctx, mu, t.FeeAsset, t.Who, receiver, t.Fee); err != nil {
			return err
		}
	} else {
		paid, err := smath.Add64(t.AmountIn, t.Fee)
		if err != nil {
			return err
		}
		if err := storage.Transfer(ctx, mu, t.AssetIn, t.Who, account, paid); err != nil {
			return err
		}
	}

	e.emitter.Emit(BuyExecuted{
		Who:       t.Who,
		AssetOut:  t.AssetOut,
		AssetIn:   t.AssetIn,
		AmountOut: t.AmountOut,
		AmountIn:  t.AmountIn,
		FeeAsset:  t.FeeAsset,
		Fee:       t.Fee,
	})
	e.log.Debug("xyk buy executed",
		zap.Stringer("who", t.Who),
		zap.Stringer("assetIn", t.AssetIn),
		zap.Stringer("assetOut", t.AssetOut),
		zap.Uint64("amountIn", t.AmountIn),
		zap.Uint64("amountOut", t.AmountOut),
		zap.Uint64("fee", t.Fee),
	)
	return nil
}

// Sell validates and executes a sell as a single transaction.
func (e *Engine) Sell(
	ctx context.Context,
	mu state.Mutable,
	origin auth.Origin,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amount uint64,
	minBought uint64,
	discount bool,
) error {
	who, err := auth.EnsureSigned(origin)
	if err != nil {
		return err
	}
	return e.sell(ctx, mu, who, assetIn, assetOut, amount, minBought, discount)
}

func (e *Engine) sell(
	ctx context.Context,
	mu state.Mutable,
	who codec.Address,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amount uint64,
	minBought uint64,
	discount bool,
) error {
	return amm.Transactional(ctx, mu, e.emitter, func(mu state.Mutable) error {
		t, err := e.ValidateSell(ctx, mu, who, assetIn, assetOut, amount, minBought, discount)
		if err != nil {
			return err
		}
		return e.ExecuteSellTransfer(ctx, mu, t)
	})
}

// Buy validates and executes a buy as a single transaction.
func (e *Engine) Buy(
	ctx context.Context,
	mu state.Mutable,
	origin auth.Origin,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amount uint64,
	maxLimit uint64,
	discount bool,
) error {
	who, err := auth.EnsureSigned(origin)
	if err != nil {
		return err
	}
	return e.buy(ctx, mu, who, assetIn, assetOut, amount, maxLimit, discount)
}

func (e *Engine) buy(
	ctx context.Context,
	mu state.Mutable,
	who codec.Address,
	assetIn codec.AssetID,
	assetOut codec.AssetID,
	amount uint64,
	maxLimit uint64,
	discount bool,
) error {
	return amm.Transactional(ctx, mu, e.emitter, func(mu state.Mutable) error {
		t, err := e.ValidateBuy(ctx, mu, who, assetIn, assetOut, amount, maxLimit, discount)
		if err != nil {
			return err
		}
		return e.ExecuteBuyTransfer(ctx, mu, t)
	})
}
