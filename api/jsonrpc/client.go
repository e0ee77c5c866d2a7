// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"context"
	"strings"

	"github.com/ava-labs/avalanchego/utils/rpc"

	"github.com/galacticcouncil/Basilisk-node-sub002/api"
	"github.com/galacticcouncil/Basilisk-node-sub002/codec"
	"github.com/galacticcouncil/Basilisk-node-sub002/router"
)

type JSONRPCClient struct {
	requester rpc.EndpointRequester
}

// NewJSONRPCClient returns a client for the API served at [uri].
func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += Endpoint
	return &JSONRPCClient{requester: rpc.NewEndpointRequester(uri)}
}

func (cli *JSONRPCClient) send(ctx context.Context, method string, args any, reply any) error {
	return cli.requester.SendRequest(ctx, api.Name+"."+method, args, reply)
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.send(ctx, "Ping", struct{}{}, resp)
	return resp.Success, err
}

func (cli *JSONRPCClient) BlockHeight(ctx context.Context) (uint64, error) {
	resp := new(BlockHeightReply)
	err := cli.send(ctx, "BlockHeight", struct{}{}, resp)
	return resp.Height, err
}

func (cli *JSONRPCClient) Asset(ctx context.Context, asset codec.AssetID) (*AssetReply, error) {
	resp := new(AssetReply)
	if err := cli.send(ctx, "Asset", &AssetArgs{Asset: asset}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *JSONRPCClient) Balance(ctx context.Context, account codec.Address, asset codec.AssetID) (uint64, error) {
	resp := new(BalanceReply)
	err := cli.send(ctx, "Balance", &BalanceArgs{Account: account, Asset: asset}, resp)
	return resp.Amount, err
}

func (cli *JSONRPCClient) QuoteSell(ctx context.Context, amountIn uint64, route []router.Trade) (*QuoteReply, error) {
	resp := new(QuoteReply)
	if err := cli.send(ctx, "QuoteSell", &QuoteArgs{Amount: amountIn, Route: route}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *JSONRPCClient) QuoteBuy(ctx context.Context, amountOut uint64, route []router.Trade) (*QuoteReply, error) {
	resp := new(QuoteReply)
	if err := cli.send(ctx, "QuoteBuy", &QuoteArgs{Amount: amountOut, Route: route}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *JSONRPCClient) XYKPool(ctx context.Context, assetA, assetB codec.AssetID) (*XYKPoolReply, error) {
	resp := new(XYKPoolReply)
	if err := cli.send(ctx, "XYKPool", &PairArgs{AssetA: assetA, AssetB: assetB}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *JSONRPCClient) LBPPool(ctx context.Context, assetA, assetB codec.AssetID) (*LBPPoolReply, error) {
	resp := new(LBPPoolReply)
	if err := cli.send(ctx, "LBPPool", &PairArgs{AssetA: assetA, AssetB: assetB}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *JSONRPCClient) StableswapPool(ctx context.Context, poolID codec.AssetID) (*StableswapPoolReply, error) {
	resp := new(StableswapPoolReply)
	if err := cli.send(ctx, "StableswapPool", &StableswapPoolArgs{PoolID: poolID}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
