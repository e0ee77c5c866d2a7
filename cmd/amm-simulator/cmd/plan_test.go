// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/galacticcouncil/Basilisk-node-sub002/utils"
)

func TestUnmarshalPlan(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "json",
			raw: `{
				"name": "seed",
				"steps": [
					{"kind": "register_asset", "params": {"name": "AAA"}},
					{"kind": "lbp_create", "caller": "alice", "params": {"initialWeight": 10, "start": 5}},
					{"kind": "balance", "params": {"asset": "AAA", "account": "alice"},
					 "require": {"result": {"operator": ">=", "value": "1.5"}}}
				]
			}`,
		},
		{
			name: "yaml",
			raw: `
name: seed
steps:
  - kind: register_asset
    params:
      name: AAA
  - kind: lbp_create
    caller: alice
    params:
      initial_weight: 10
      start: 5
  - kind: balance
    params:
      asset: AAA
      account: alice
    require:
      result:
        operator: ">="
        value: "1.5"
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			plan, err := unmarshalPlan([]byte(tt.raw))
			require.NoError(err)
			require.NoError(plan.verify())
			require.Equal("seed", plan.Name)
			require.Len(plan.Steps, 3)

			require.Equal(RegisterAsset, plan.Steps[0].Kind)
			require.Equal("AAA", plan.Steps[0].Params.Name)
			require.Empty(plan.Steps[0].Caller)

			lbpStep := plan.Steps[1]
			require.Equal("alice", lbpStep.Caller)
			require.NotNil(lbpStep.Params.InitialWeight)
			require.Equal(uint32(10), *lbpStep.Params.InitialWeight)
			require.Nil(lbpStep.Params.FinalWeight)
			require.NotNil(lbpStep.Params.Start)
			require.Equal(uint64(5), *lbpStep.Params.Start)

			require.NotNil(plan.Steps[2].Require)
			require.Equal(">=", plan.Steps[2].Require.Result.Operator)
			require.Equal("1.5", plan.Steps[2].Require.Result.Value)
		})
	}
}

func TestUnmarshalPlanInvalidFormat(t *testing.T) {
	_, err := unmarshalPlan([]byte("- just\n- a list"))
	require.ErrorIs(t, err, ErrInvalidConfigFormat)
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name string
		plan Plan
		err  error
	}{
		{
			name: "no steps",
			plan: Plan{},
			err:  ErrInvalidPlan,
		},
		{
			name: "unknown kind",
			plan: Plan{Steps: []Step{{Kind: "teleport"}}},
			err:  ErrUnknownKind,
		},
		{
			name: "assertion on a trade",
			plan: Plan{Steps: []Step{{
				Kind:    XYKSell,
				Require: &Require{Result: ResultAssertion{Operator: "==", Value: "1"}},
			}}},
			err: ErrUnexpectedAssertion,
		},
		{
			name: "bad assertion value",
			plan: Plan{Steps: []Step{{
				Kind:    Balance,
				Require: &Require{Result: ResultAssertion{Operator: "==", Value: "one"}},
			}}},
			err: utils.ErrInvalidBalance,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.plan.verify(), tt.err)
		})
	}
}

func TestValidateAssertion(t *testing.T) {
	tests := []struct {
		op       Operator
		actual   uint64
		expected uint64
		want     bool
	}{
		{op: NumericGt, actual: 2, expected: 1, want: true},
		{op: NumericGt, actual: 1, expected: 1, want: false},
		{op: NumericLt, actual: 1, expected: 2, want: true},
		{op: NumericGe, actual: 1, expected: 1, want: true},
		{op: NumericLe, actual: 2, expected: 1, want: false},
		{op: NumericEq, actual: 3, expected: 3, want: true},
		{op: NumericNe, actual: 3, expected: 3, want: false},
	}
	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			require := require.New(t)

			ok, err := validateAssertion(tt.actual, tt.op, tt.expected)
			require.NoError(err)
			require.Equal(tt.want, ok)
		})
	}

	_, err := validateAssertion(1, "~", 1)
	require.ErrorIs(t, err, ErrInvalidOperator)
}
