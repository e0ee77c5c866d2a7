// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/galacticcouncil/Basilisk-node-sub002/api"
	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/lbp"
	"github.com/galacticcouncil/Basilisk-node-sub002/router"
	"github.com/galacticcouncil/Basilisk-node-sub002/server"
	"github.com/galacticcouncil/Basilisk-node-sub002/stableswap"
	"github.com/galacticcouncil/Basilisk-node-sub002/state"
	"github.com/galacticcouncil/Basilisk-node-sub002/storage"
	"github.com/galacticcouncil/Basilisk-node-sub002/xyk"
)

const Endpoint = "/ext/amm"

var _ api.HandlerFactory[api.Backend] = (*JSONRPCServerFactory)(nil)

type JSONRPCServerFactory struct{}

func (JSONRPCServerFactory) New(backend api.Backend) (api.Handler, error) {
	handler, err := server.NewJSONRPCHandler(api.Name, NewJSONRPCServer(backend))
	if err != nil {
		return api.Handler{}, err
	}
	return api.Handler{
		Path:    Endpoint,
		Handler: handler,
	}, nil
}

// JSONRPCServer answers queries against the current state. No method
// modifies state.
type JSONRPCServer struct {
	backend api.Backend
}

func NewJSONRPCServer(backend api.Backend) *JSONRPCServer {
	return &JSONRPCServer{backend: backend}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) error {
	j.backend.Logger().Debug("ping")
	reply.Success = true
	return nil
}

type BlockHeightReply struct {
	Height uint64 `json:"height"`
}

func (j *JSONRPCServer) BlockHeight(req *http.Request, _ *struct{}, reply *BlockHeightReply) error {
	ctx, span := j.backend.Exchange().Tracer.Start(req.Context(), "JSONRPCServer.BlockHeight")
	defer span.End()

	im, err := j.backend.ImmutableState(ctx)
	if err != nil {
		return err
	}
	reply.Height, err = storage.GetBlockHeight(ctx, im)
	return err
}

type AssetArgs struct {
	Asset codec.AssetID `json:"asset"`
}

type AssetReply struct {
	Name               string `json:"name"`
	ExistentialDeposit uint64 `json:"existentialDeposit"`
	TotalIssuance      uint64 `json:"totalIssuance"`
}

func (j *JSONRPCServer) Asset(req *http.Request, args *AssetArgs, reply *AssetReply) error {
	ctx, span := j.backend.Exchange().Tracer.Start(req.Context(), "JSONRPCServer.Asset")
	defer span.End()

	im, err := j.backend.ImmutableState(ctx)
	if err != nil {
		return err
	}
	asset, exists, err := storage.GetAsset(ctx, im, args.Asset)
	if err != nil {
		return err
	}
	if !exists {
		return storage.ErrAssetNotFound
	}
	issuance, err := storage.GetTotalIssuance(ctx, im, args.Asset)
	if err != nil {
		return err
	}
	reply.Name = string(asset.Name)
	reply.ExistentialDeposit = asset.ExistentialDeposit
	reply.TotalIssuance = issuance
	return nil
}

type BalanceArgs struct {
	Account codec.Address `json:"account"`
	Asset   codec.AssetID `json:"asset"`
}

type BalanceReply struct {
	Amount uint64 `json:"amount"`
}

func (j *JSONRPCServer) Balance(req *http.Request, args *BalanceArgs, reply *BalanceReply) error {
	ctx, span := j.backend.Exchange().Tracer.Start(req.Context(), "JSONRPCServer.Balance")
	defer span.End()

	im, err := j.backend.ImmutableState(ctx)
	if err != nil {
		return err
	}
	reply.Amount, err = storage.GetBalance(ctx, im, args.Asset, args.Account)
	return err
}

type QuoteArgs struct {
	Amount uint64         `json:"amount"`
	Route  []router.Trade `json:"route"`
}

type QuoteReply struct {
	AmountIn  uint64               `json:"amountIn"`
	AmountOut uint64               `json:"amountOut"`
	Legs      []router.TradeAmount `json:"legs"`
}

func (r *QuoteReply) set(legs []router.TradeAmount) {
	r.Legs = legs
	r.AmountIn = legs[0].AmountIn
	r.AmountOut = legs[len(legs)-1].AmountOut
}

// QuoteSell quotes selling [args.Amount] along the route.
func (j *JSONRPCServer) QuoteSell(req *http.Request, args *QuoteArgs, reply *QuoteReply) error {
	ctx, span := j.backend.Exchange().Tracer.Start(req.Context(), "JSONRPCServer.QuoteSell")
	defer span.End()

	im, err := j.backend.ImmutableState(ctx)
	if err != nil {
		return err
	}
	legs, err := j.backend.Exchange().Router.CalculateSellAmounts(ctx, im, args.Amount, args.Route)
	if err != nil {
		j.backend.Logger().Debug("sell quote failed", zap.Error(err))
		return err
	}
	reply.set(legs)
	return nil
}

// QuoteBuy quotes buying [args.Amount] of the last asset of the route.
func (j *JSONRPCServer) QuoteBuy(req *http.Request, args *QuoteArgs, reply *QuoteReply) error {
	ctx, span := j.backend.Exchange().Tracer.Start(req.Context(), "JSONRPCServer.QuoteBuy")
	defer span.End()

	im, err := j.backend.ImmutableState(ctx)
	if err != nil {
		return err
	}
	legs, err := j.backend.Exchange().Router.CalculateBuyAmounts(ctx, im, args.Amount, args.Route)
	if err != nil {
		j.backend.Logger().Debug("buy quote failed", zap.Error(err))
		return err
	}
	reply.set(legs)
	return nil
}

type PairArgs struct {
	AssetA codec.AssetID `json:"assetA"`
	AssetB codec.AssetID `json:"assetB"`
}

type XYKPoolReply struct {
	Account  codec.Address `json:"account"`
	Pool     *xyk.Pool     `json:"pool"`
	ReserveA uint64        `json:"reserveA"`
	ReserveB uint64        `json:"reserveB"`
}

func (j *JSONRPCServer) XYKPool(req *http.Request, args *PairArgs, reply *XYKPoolReply) error {
	ctx, span := j.backend.Exchange().Tracer.Start(req.Context(), "JSONRPCServer.XYKPool")
	defer span.End()

	im, err := j.backend.ImmutableState(ctx)
	if err != nil {
		return err
	}
	pool, exists, err := xyk.GetPool(ctx, im, args.AssetA, args.AssetB)
	if err != nil {
		return err
	}
	if !exists {
		return xyk.ErrTokenPoolNotFound
	}
	reply.Account = xyk.PoolAccount(args.AssetA, args.AssetB)
	reply.Pool = pool
	reply.ReserveA, reply.ReserveB, err = pairReserves(ctx, im, reply.Account, pool.AssetA, pool.AssetB)
	return err
}

type LBPPoolReply struct {
	Account     codec.Address `json:"account"`
	Pool        *lbp.Pool     `json:"pool"`
	ReserveA    uint64        `json:"reserveA"`
	ReserveB    uint64        `json:"reserveB"`
	WeightA     uint32        `json:"weightA"`
	WeightB     uint32        `json:"weightB"`
	BlockHeight uint64        `json:"blockHeight"`
}

// LBPPool returns the pool of the pair and its weights at the current
// block.
func (j *JSONRPCServer) LBPPool(req *http.Request, args *PairArgs, reply *LBPPoolReply) error {
	ctx, span := j.backend.Exchange().Tracer.Start(req.Context(), "JSONRPCServer.LBPPool")
	defer span.End()

	im, err := j.backend.ImmutableState(ctx)
	if err != nil {
		return err
	}
	account := lbp.PoolAccount(args.AssetA, args.AssetB)
	pool, exists, err := lbp.GetPool(ctx, im, account)
	if err != nil {
		return err
	}
	if !exists {
		return lbp.ErrPoolNotFound
	}
	now, err := storage.GetBlockHeight(ctx, im)
	if err != nil {
		return err
	}
	weightA, weightB, err := lbp.CurrentWeights(pool, now)
	if err != nil {
		return err
	}
	reply.Account = account
	reply.Pool = pool
	reply.WeightA = weightA
	reply.WeightB = weightB
	reply.BlockHeight = now
	reply.ReserveA, reply.ReserveB, err = pairReserves(ctx, im, account, pool.AssetA, pool.AssetB)
	return err
}

type StableswapPoolArgs struct {
	PoolID codec.AssetID `json:"poolId"`
}

type StableswapPoolReply struct {
	Account  codec.Address            `json:"account"`
	Pool     *stableswap.Pool         `json:"pool"`
	Reserves []stableswap.AssetAmount `json:"reserves"`
	Shares   uint64                   `json:"shares"`
}

func (j *JSONRPCServer) StableswapPool(req *http.Request, args *StableswapPoolArgs, reply *StableswapPoolReply) error {
	ctx, span := j.backend.Exchange().Tracer.Start(req.Context(), "JSONRPCServer.StableswapPool")
	defer span.End()

	im, err := j.backend.ImmutableState(ctx)
	if err != nil {
		return err
	}
	engine := j.backend.Exchange().Stableswap
	pool, exists, err := engine.GetPool(ctx, im, args.PoolID)
	if err != nil {
		return err
	}
	if !exists {
		return stableswap.ErrPoolNotFound
	}
	reserves, err := engine.GetReserves(ctx, im, args.PoolID)
	if err != nil {
		return err
	}
	shares, err := storage.GetTotalIssuance(ctx, im, args.PoolID)
	if err != nil {
		return err
	}
	reply.Account = pool.Account(args.PoolID)
	reply.Pool = pool
	reply.Reserves = reserves
	reply.Shares = shares
	return nil
}

func pairReserves(ctx context.Context, im state.Immutable, account codec.Address, assetA, assetB codec.AssetID) (uint64, uint64, error) {
	reserveA, err := storage.GetBalance(ctx, im, assetA, account)
	if err != nil {
		return 0, 0, err
	}
	reserveB, err := storage.GetBalance(ctx, im, assetB, account)
	if err != nil {
		return 0, 0, err
	}
	return reserveA, reserveB, nil
}
