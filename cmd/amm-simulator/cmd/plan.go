// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v2"

	"github.com/galacticcouncil/Basilisk-node-sub002/utils"
)

type Plan struct {
	// The name of the plan.
	Name string `json:"name" yaml:"name"`
	// A description of the plan.
	Description string `json:"description" yaml:"description"`
	// Steps to perform during simulation.
	Steps []Step `json:"steps" yaml:"steps"`
}

type Step struct {
	// Description of the step.
	Description string `json:"description" yaml:"description"`
	// The operation to perform. (required)
	Kind Kind `json:"kind" yaml:"kind"`
	// Name of the signing account. Empty calls as root.
	Caller string `json:"caller" yaml:"caller"`
	Params Params `json:"params" yaml:"params"`
	// The step must fail with an error containing this text.
	ExpectError string `json:"expectError" yaml:"expect_error"`
	// Define required assertions against this step.
	Require *Require `json:"require,omitempty" yaml:"require,omitempty"`
}

type Kind string

const (
	RegisterAsset Kind = "register_asset"
	Mint          Kind = "mint"
	SetBlock      Kind = "set_block"
	Balance       Kind = "balance"

	XYKCreate Kind = "xyk_create"
	XYKAdd    Kind = "xyk_add"
	XYKRemove Kind = "xyk_remove"
	XYKSell   Kind = "xyk_sell"
	XYKBuy    Kind = "xyk_buy"

	LBPCreate Kind = "lbp_create"
	LBPUpdate Kind = "lbp_update"
	LBPAdd    Kind = "lbp_add"
	LBPRemove Kind = "lbp_remove"
	LBPSell   Kind = "lbp_sell"
	LBPBuy    Kind = "lbp_buy"

	StableswapCreate    Kind = "stableswap_create"
	StableswapAdd       Kind = "stableswap_add"
	StableswapRemove    Kind = "stableswap_remove"
	StableswapRemoveOne Kind = "stableswap_remove_one"
	StableswapSell      Kind = "stableswap_sell"
	StableswapBuy       Kind = "stableswap_buy"

	RouterSell Kind = "router_sell"
	RouterBuy  Kind = "router_buy"
)

// Params holds the arguments of every step kind; each kind reads the
// fields it needs. Assets and accounts are referenced by name. Amounts
// are decimal strings of whole units (see [utils.ParseBalance]).
type Params struct {
	Name               string `json:"name" yaml:"name"`
	ExistentialDeposit string `json:"existentialDeposit" yaml:"existential_deposit"`
	Account            string `json:"account" yaml:"account"`
	Height             uint64 `json:"height" yaml:"height"`

	Asset   string `json:"asset" yaml:"asset"`
	AssetA  string `json:"assetA" yaml:"asset_a"`
	AssetB  string `json:"assetB" yaml:"asset_b"`
	AmountA string `json:"amountA" yaml:"amount_a"`
	AmountB string `json:"amountB" yaml:"amount_b"`

	AssetIn  string `json:"assetIn" yaml:"asset_in"`
	AssetOut string `json:"assetOut" yaml:"asset_out"`
	Amount   string `json:"amount" yaml:"amount"`
	// Minimum received on sells, maximum spent on buys. Empty is
	// unlimited.
	Limit    string `json:"limit" yaml:"limit"`
	Discount bool   `json:"discount" yaml:"discount"`
	Shares   string `json:"shares" yaml:"shares"`

	// LBP
	Owner         string  `json:"owner" yaml:"owner"`
	InitialWeight *uint32 `json:"initialWeight" yaml:"initial_weight"`
	FinalWeight   *uint32 `json:"finalWeight" yaml:"final_weight"`
	Fee           *Fee    `json:"fee" yaml:"fee"`
	FeeCollector  string  `json:"feeCollector" yaml:"fee_collector"`
	RepayTarget   string  `json:"repayTarget" yaml:"repay_target"`
	Start         *uint64 `json:"start" yaml:"start"`
	End           *uint64 `json:"end" yaml:"end"`

	// Stableswap
	ShareAsset    string        `json:"shareAsset" yaml:"share_asset"`
	Assets        []string      `json:"assets" yaml:"assets"`
	Amplification uint64        `json:"amplification" yaml:"amplification"`
	TradeFee      uint32        `json:"tradeFee" yaml:"trade_fee"`
	WithdrawFee   uint32        `json:"withdrawFee" yaml:"withdraw_fee"`
	Liquidity     []AssetAmount `json:"liquidity" yaml:"liquidity"`

	// Router
	Route []Leg `json:"route" yaml:"route"`
}

type Fee struct {
	Numerator   uint32 `json:"numerator" yaml:"numerator"`
	Denominator uint32 `json:"denominator" yaml:"denominator"`
}

type AssetAmount struct {
	Asset  string `json:"asset" yaml:"asset"`
	Amount string `json:"amount" yaml:"amount"`
}

type Leg struct {
	// One of xyk, lbp or stableswap.
	Pool string `json:"pool" yaml:"pool"`
	// Stableswap only.
	ShareAsset string `json:"shareAsset" yaml:"share_asset"`
	AssetIn    string `json:"assetIn" yaml:"asset_in"`
	AssetOut   string `json:"assetOut" yaml:"asset_out"`
}

type Require struct {
	// Assertions against the result of the step.
	Result ResultAssertion `json:"result" yaml:"result"`
}

type ResultAssertion struct {
	// The operator to use for the assertion.
	Operator string `json:"operator" yaml:"operator"`
	// The value to compare against, in whole units.
	Value string `json:"value" yaml:"value"`
}

type Operator string

const (
	NumericGt Operator = ">"
	NumericLt Operator = "<"
	NumericGe Operator = ">="
	NumericLe Operator = "<="
	NumericEq Operator = "=="
	NumericNe Operator = "!="
)

// validateAssertion reports whether [actual] satisfies [op] against
// [expected].
func validateAssertion(actual uint64, op Operator, expected uint64) (bool, error) {
	switch op {
	case NumericGt:
		return actual > expected, nil
	case NumericLt:
		return actual < expected, nil
	case NumericGe:
		return actual >= expected, nil
	case NumericLe:
		return actual <= expected, nil
	case NumericEq:
		return actual == expected, nil
	case NumericNe:
		return actual != expected, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidOperator, op)
	}
}

type Response struct {
	// The index of the step that generated this response.
	ID int `json:"id" yaml:"id"`
	// The result of the step.
	Result Result `json:"result,omitempty" yaml:"result,omitempty"`
	// The error message if available.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

func newResponse(id int) *Response {
	return &Response{ID: id}
}

type Result struct {
	// Set by register_asset.
	AssetID *uint32 `json:"assetId,omitempty" yaml:"asset_id,omitempty"`
	// Set by balance, in base units.
	Balance *uint64 `json:"balance,omitempty" yaml:"balance,omitempty"`
	// Names of the events raised by the step.
	Events []string `json:"events,omitempty" yaml:"events,omitempty"`
}

func unmarshalPlan(bytes []byte) (*Plan, error) {
	var p Plan
	switch {
	case isJSON(bytes):
		if err := json.Unmarshal(bytes, &p); err != nil {
			return nil, err
		}
	case isYAML(bytes):
		if err := yaml.Unmarshal(bytes, &p); err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidConfigFormat
	}
	return &p, nil
}

func isJSON(b []byte) bool {
	var js map[string]interface{}
	return json.Unmarshal(b, &js) == nil
}

func isYAML(b []byte) bool {
	var y map[string]interface{}
	return yaml.Unmarshal(b, &y) == nil
}

// verify checks the shape of the plan before any step runs.
func (p *Plan) verify() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("%w: no steps found", ErrInvalidPlan)
	}
	for i, step := range p.Steps {
		if _, ok := handlers[step.Kind]; !ok {
			return fmt.Errorf("%w %d: %w %q", ErrInvalidStep, i, ErrUnknownKind, step.Kind)
		}
		if step.Require != nil && step.Kind != Balance {
			return fmt.Errorf("%w %d: %w", ErrInvalidStep, i, ErrUnexpectedAssertion)
		}
		if step.Require != nil {
			if _, err := utils.ParseBalance(step.Require.Result.Value); err != nil {
				return fmt.Errorf("%w %d: invalid assertion value: %w", ErrInvalidStep, i, err)
			}
		}
	}
	return nil
}
