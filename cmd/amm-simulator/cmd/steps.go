// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"

	"github.com/galacticcouncil/Basilisk-node-sub002/amm"
	"github.com/galacticcouncil/Basilisk-node-sub002/auth"
	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/consts"
	"github.com/galacticcouncil/Basilisk-node-sub002/exchange"
	"github.com/galacticcouncil/Basilisk-node-sub002/lbp"
	"github.com/galacticcouncil/Basilisk-node-sub002/pricing"
	"github.com/galacticcouncil/Basilisk-node-sub002/router"
	"github.com/galacticcouncil/Basilisk-node-sub002/stableswap"
	"github.com/galacticcouncil/Basilisk-node-sub002/state"
	"github.com/galacticcouncil/Basilisk-node-sub002/storage"
	"github.com/galacticcouncil/Basilisk-node-sub002/utils"
)

// stepContext is the environment of one step. Every write goes to [mu],
// which is discarded if the step fails.
type stepContext struct {
	ctx    context.Context
	mu     state.Mutable
	ex     *exchange.Exchange
	origin auth.Origin
	params *Params
	result *Result
}

type stepFunc func(*stepContext) error

var handlers = map[Kind]stepFunc{
	RegisterAsset: registerAsset,
	Mint:          mint,
	SetBlock:      setBlock,
	Balance:       balance,

	XYKCreate: xykCreate,
	XYKAdd:    xykAdd,
	XYKRemove: xykRemove,
	XYKSell:   xykSell,
	XYKBuy:    xykBuy,

	LBPCreate: lbpCreate,
	LBPUpdate: lbpUpdate,
	LBPAdd:    lbpAdd,
	LBPRemove: lbpRemove,
	LBPSell:   lbpSell,
	LBPBuy:    lbpBuy,

	StableswapCreate:    stableswapCreate,
	StableswapAdd:       stableswapAdd,
	StableswapRemove:    stableswapRemove,
	StableswapRemoveOne: stableswapRemoveOne,
	StableswapSell:      stableswapSell,
	StableswapBuy:       stableswapBuy,

	RouterSell: routerSell,
	RouterBuy:  routerBuy,
}

func (s *stepContext) asset(field, name string) (codec.AssetID, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: %s", ErrMissingParam, field)
	}
	id, exists, err := storage.GetAssetIDByName(s.ctx, s.mu, []byte(name))
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, fmt.Errorf("%w: %s", ErrUnknownAsset, name)
	}
	return id, nil
}

func (s *stepContext) pair(fieldA, nameA, fieldB, nameB string) (codec.AssetID, codec.AssetID, error) {
	a, err := s.asset(fieldA, nameA)
	if err != nil {
		return 0, 0, err
	}
	b, err := s.asset(fieldB, nameB)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func account(field, name string) (codec.Address, error) {
	if name == "" {
		return codec.EmptyAddress, fmt.Errorf("%w: %s", ErrMissingParam, field)
	}
	return utils.AccountAddress(name), nil
}

func amount(field, value string) (uint64, error) {
	if value == "" {
		return 0, fmt.Errorf("%w: %s", ErrMissingParam, field)
	}
	return utils.ParseBalance(value)
}

func optionalAmount(value string, def uint64) (uint64, error) {
	if value == "" {
		return def, nil
	}
	return utils.ParseBalance(value)
}

func registerAsset(s *stepContext) error {
	if err := auth.EnsureRoot(s.origin); err != nil {
		return err
	}
	if s.params.Name == "" {
		return fmt.Errorf("%w: name", ErrMissingParam)
	}
	ed, err := optionalAmount(s.params.ExistentialDeposit, 0)
	if err != nil {
		return err
	}
	id, err := storage.RegisterAsset(s.ctx, s.mu, []byte(s.params.Name), ed)
	if err != nil {
		return err
	}
	v := uint32(id)
	s.result.AssetID = &v
	return nil
}

func mint(s *stepContext) error {
	if err := auth.EnsureRoot(s.origin); err != nil {
		return err
	}
	asset, err := s.asset("asset", s.params.Asset)
	if err != nil {
		return err
	}
	to, err := account("account", s.params.Account)
	if err != nil {
		return err
	}
	value, err := amount("amount", s.params.Amount)
	if err != nil {
		return err
	}
	return storage.Deposit(s.ctx, s.mu, asset, to, value)
}

func setBlock(s *stepContext) error {
	if err := auth.EnsureRoot(s.origin); err != nil {
		return err
	}
	return storage.SetBlockHeight(s.ctx, s.mu, s.params.Height)
}

func balance(s *stepContext) error {
	asset, err := s.asset("asset", s.params.Asset)
	if err != nil {
		return err
	}
	who, err := account("account", s.params.Account)
	if err != nil {
		return err
	}
	b, err := storage.GetBalance(s.ctx, s.mu, asset, who)
	if err != nil {
		return err
	}
	s.result.Balance = &b
	return nil
}

func xykCreate(s *stepContext) error {
	assetA, assetB, err := s.pair("asset_a", s.params.AssetA, "asset_b", s.params.AssetB)
	if err != nil {
		return err
	}
	amountA, err := amount("amount_a", s.params.AmountA)
	if err != nil {
		return err
	}
	amountB, err := amount("amount_b", s.params.AmountB)
	if err != nil {
		return err
	}
	return s.ex.XYK.CreatePool(s.ctx, s.mu, s.origin, assetA, amountA, assetB, amountB)
}

func xykAdd(s *stepContext) error {
	assetA, assetB, err := s.pair("asset_a", s.params.AssetA, "asset_b", s.params.AssetB)
	if err != nil {
		return err
	}
	amountA, err := amount("amount_a", s.params.AmountA)
	if err != nil {
		return err
	}
	maxB, err := optionalAmount(s.params.Limit, consts.MaxUint64)
	if err != nil {
		return err
	}
	return s.ex.XYK.AddLiquidity(s.ctx, s.mu, s.origin, assetA, assetB, amountA, maxB)
}

func xykRemove(s *stepContext) error {
	assetA, assetB, err := s.pair("asset_a", s.params.AssetA, "asset_b", s.params.AssetB)
	if err != nil {
		return err
	}
	shares, err := amount("shares", s.params.Shares)
	if err != nil {
		return err
	}
	return s.ex.XYK.RemoveLiquidity(s.ctx, s.mu, s.origin, assetA, assetB, shares)
}

// trade resolves the common arguments of a sell or buy. The limit
// defaults to no minimum on sells and no maximum on buys.
func (s *stepContext) trade(buy bool) (codec.AssetID, codec.AssetID, uint64, uint64, error) {
	assetIn, assetOut, err := s.pair("asset_in", s.params.AssetIn, "asset_out", s.params.AssetOut)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	value, err := amount("amount", s.params.Amount)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	def := uint64(0)
	if buy {
		def = consts.MaxUint64
	}
	limit, err := optionalAmount(s.params.Limit, def)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return assetIn, assetOut, value, limit, nil
}

func xykSell(s *stepContext) error {
	assetIn, assetOut, value, limit, err := s.trade(false)
	if err != nil {
		return err
	}
	return s.ex.XYK.Sell(s.ctx, s.mu, s.origin, assetIn, assetOut, value, limit, s.params.Discount)
}

func xykBuy(s *stepContext) error {
	assetIn, assetOut, value, limit, err := s.trade(true)
	if err != nil {
		return err
	}
	return s.ex.XYK.Buy(s.ctx, s.mu, s.origin, assetIn, assetOut, value, limit, s.params.Discount)
}

func lbpCreate(s *stepContext) error {
	p := s.params
	owner, err := account("owner", p.Owner)
	if err != nil {
		return err
	}
	collector, err := account("fee_collector", p.FeeCollector)
	if err != nil {
		return err
	}
	assetA, assetB, err := s.pair("asset_a", p.AssetA, "asset_b", p.AssetB)
	if err != nil {
		return err
	}
	amountA, err := amount("amount_a", p.AmountA)
	if err != nil {
		return err
	}
	amountB, err := amount("amount_b", p.AmountB)
	if err != nil {
		return err
	}
	if p.InitialWeight == nil || p.FinalWeight == nil {
		return fmt.Errorf("%w: initial_weight and final_weight", ErrMissingParam)
	}
	repay, err := optionalAmount(p.RepayTarget, 0)
	if err != nil {
		return err
	}
	args := lbp.CreateArgs{
		Owner:         owner,
		AssetA:        assetA,
		AmountA:       amountA,
		AssetB:        assetB,
		AmountB:       amountB,
		InitialWeight: *p.InitialWeight,
		FinalWeight:   *p.FinalWeight,
		WeightCurve:   lbp.Linear,
		Fee:           s.ex.Config.LBP.DefaultFee,
		FeeCollector:  collector,
		RepayTarget:   repay,
	}
	if p.Fee != nil {
		args.Fee = pricing.NewFee(p.Fee.Numerator, p.Fee.Denominator)
	}
	if p.Start != nil {
		args.Start = *p.Start
	}
	if p.End != nil {
		args.End = *p.End
	}
	return s.ex.LBP.CreatePool(s.ctx, s.mu, s.origin, args)
}

func lbpUpdate(s *stepContext) error {
	p := s.params
	assetA, assetB, err := s.pair("asset_a", p.AssetA, "asset_b", p.AssetB)
	if err != nil {
		return err
	}
	args := lbp.UpdateArgs{
		Start:         p.Start,
		End:           p.End,
		InitialWeight: p.InitialWeight,
		FinalWeight:   p.FinalWeight,
	}
	if p.Owner != "" {
		owner := utils.AccountAddress(p.Owner)
		args.Owner = &owner
	}
	if p.FeeCollector != "" {
		collector := utils.AccountAddress(p.FeeCollector)
		args.FeeCollector = &collector
	}
	if p.Fee != nil {
		fee := pricing.NewFee(p.Fee.Numerator, p.Fee.Denominator)
		args.Fee = &fee
	}
	if p.RepayTarget != "" {
		repay, err := utils.ParseBalance(p.RepayTarget)
		if err != nil {
			return err
		}
		args.RepayTarget = &repay
	}
	return s.ex.LBP.UpdatePoolData(s.ctx, s.mu, s.origin, lbp.PoolAccount(assetA, assetB), args)
}

func lbpAdd(s *stepContext) error {
	assetA, assetB, err := s.pair("asset_a", s.params.AssetA, "asset_b", s.params.AssetB)
	if err != nil {
		return err
	}
	amountA, err := optionalAmount(s.params.AmountA, 0)
	if err != nil {
		return err
	}
	amountB, err := optionalAmount(s.params.AmountB, 0)
	if err != nil {
		return err
	}
	return s.ex.LBP.AddLiquidity(s.ctx, s.mu, s.origin, assetA, amountA, assetB, amountB)
}

func lbpRemove(s *stepContext) error {
	assetA, assetB, err := s.pair("asset_a", s.params.AssetA, "asset_b", s.params.AssetB)
	if err != nil {
		return err
	}
	return s.ex.LBP.RemoveLiquidity(s.ctx, s.mu, s.origin, lbp.PoolAccount(assetA, assetB))
}

func lbpSell(s *stepContext) error {
	assetIn, assetOut, value, limit, err := s.trade(false)
	if err != nil {
		return err
	}
	return s.ex.LBP.Sell(s.ctx, s.mu, s.origin, assetIn, assetOut, value, limit)
}

func lbpBuy(s *stepContext) error {
	assetIn, assetOut, value, limit, err := s.trade(true)
	if err != nil {
		return err
	}
	return s.ex.LBP.Buy(s.ctx, s.mu, s.origin, assetIn, assetOut, value, limit)
}

func stableswapCreate(s *stepContext) error {
	p := s.params
	share, err := s.asset("share_asset", p.ShareAsset)
	if err != nil {
		return err
	}
	assets := make([]codec.AssetID, len(p.Assets))
	for i, name := range p.Assets {
		if assets[i], err = s.asset("assets", name); err != nil {
			return err
		}
	}
	return s.ex.Stableswap.CreatePool(
		s.ctx,
		s.mu,
		s.origin,
		share,
		assets,
		p.Amplification,
		pricing.Permill(p.TradeFee),
		pricing.Permill(p.WithdrawFee),
	)
}

func stableswapAdd(s *stepContext) error {
	share, err := s.asset("share_asset", s.params.ShareAsset)
	if err != nil {
		return err
	}
	liquidity := make([]stableswap.AssetAmount, len(s.params.Liquidity))
	for i, l := range s.params.Liquidity {
		asset, err := s.asset("liquidity", l.Asset)
		if err != nil {
			return err
		}
		value, err := amount("liquidity", l.Amount)
		if err != nil {
			return err
		}
		liquidity[i] = stableswap.AssetAmount{AssetID: asset, Amount: value}
	}
	return s.ex.Stableswap.AddLiquidity(s.ctx, s.mu, s.origin, share, liquidity)
}

func stableswapRemove(s *stepContext) error {
	share, err := s.asset("share_asset", s.params.ShareAsset)
	if err != nil {
		return err
	}
	shares, err := amount("shares", s.params.Shares)
	if err != nil {
		return err
	}
	return s.ex.Stableswap.RemoveLiquidity(s.ctx, s.mu, s.origin, share, shares)
}

func stableswapRemoveOne(s *stepContext) error {
	share, err := s.asset("share_asset", s.params.ShareAsset)
	if err != nil {
		return err
	}
	asset, err := s.asset("asset", s.params.Asset)
	if err != nil {
		return err
	}
	shares, err := amount("shares", s.params.Shares)
	if err != nil {
		return err
	}
	minOut, err := optionalAmount(s.params.Limit, 0)
	if err != nil {
		return err
	}
	return s.ex.Stableswap.RemoveLiquidityOneAsset(s.ctx, s.mu, s.origin, share, asset, shares, minOut)
}

func stableswapSell(s *stepContext) error {
	share, err := s.asset("share_asset", s.params.ShareAsset)
	if err != nil {
		return err
	}
	assetIn, assetOut, value, limit, err := s.trade(false)
	if err != nil {
		return err
	}
	return s.ex.Stableswap.Sell(s.ctx, s.mu, s.origin, share, assetIn, assetOut, value, limit)
}

func stableswapBuy(s *stepContext) error {
	share, err := s.asset("share_asset", s.params.ShareAsset)
	if err != nil {
		return err
	}
	assetIn, assetOut, value, limit, err := s.trade(true)
	if err != nil {
		return err
	}
	return s.ex.Stableswap.Buy(s.ctx, s.mu, s.origin, share, assetIn, assetOut, value, limit)
}

func (s *stepContext) route() ([]router.Trade, error) {
	route := make([]router.Trade, len(s.params.Route))
	for i, leg := range s.params.Route {
		assetIn, assetOut, err := s.pair("asset_in", leg.AssetIn, "asset_out", leg.AssetOut)
		if err != nil {
			return nil, fmt.Errorf("leg %d: %w", i, err)
		}
		var pool amm.PoolType
		if leg.Pool == amm.StableswapKind.String() {
			share, err := s.asset("share_asset", leg.ShareAsset)
			if err != nil {
				return nil, fmt.Errorf("leg %d: %w", i, err)
			}
			pool = amm.Stableswap(share)
		} else if pool, err = amm.ParsePoolType(leg.Pool); err != nil {
			return nil, fmt.Errorf("leg %d: %w", i, err)
		}
		route[i] = router.Trade{Pool: pool, AssetIn: assetIn, AssetOut: assetOut}
	}
	return route, nil
}

func routerSell(s *stepContext) error {
	assetIn, assetOut, value, limit, err := s.trade(false)
	if err != nil {
		return err
	}
	route, err := s.route()
	if err != nil {
		return err
	}
	return s.ex.Router.Sell(s.ctx, s.mu, s.origin, assetIn, assetOut, value, limit, route)
}

func routerBuy(s *stepContext) error {
	assetIn, assetOut, value, limit, err := s.trade(true)
	if err != nil {
		return err
	}
	route, err := s.route()
	if err != nil {
		return err
	}
	return s.ex.Router.Buy(s.ctx, s.mu, s.origin, assetIn, assetOut, value, limit, route)
}
