// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/onsi/ginkgo/v2/formatter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/galacticcouncil/Basilisk-node-sub002/auth"
	"github.com/galacticcouncil/Basilisk-node-sub002/state"
	"github.com/galacticcouncil/Basilisk-node-sub002/utils"
)

func newRunCmd(s *simulator) *cobra.Command {
	var human bool
	cmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Run a simulation plan, reading it from stdin when path is -",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := readPlan(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			if err := plan.verify(); err != nil {
				return err
			}
			return s.withState(cmd.Context(), func() error {
				return s.run(cmd.Context(), plan, &printer{w: cmd.OutOrStdout(), human: human})
			})
		},
	}
	cmd.Flags().BoolVar(&human, "human", false, "print colored summaries instead of JSON lines")
	return cmd
}

func readPlan(stdin io.Reader, p string) (*Plan, error) {
	var (
		b   []byte
		err error
	)
	if p == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(p)
	}
	if err != nil {
		return nil, err
	}
	return unmarshalPlan(b)
}

// run executes the steps in order and stops at the first one that does not
// behave as the plan expects.
func (s *simulator) run(ctx context.Context, plan *Plan, out *printer) error {
	s.log.Info("running plan",
		zap.String("name", plan.Name),
		zap.String("description", plan.Description),
		zap.Int("steps", len(plan.Steps)),
	)
	for i := range plan.Steps {
		step := &plan.Steps[i]
		resp := newResponse(i)
		failure := s.runStep(ctx, step, resp)
		if err := out.print(step, resp, failure); err != nil {
			return err
		}
		if failure != nil {
			s.log.Warn("step failed",
				zap.Int("step", i),
				zap.String("kind", string(step.Kind)),
				zap.Error(failure),
			)
			return fmt.Errorf("step %d: %w", i, failure)
		}
	}
	return nil
}

func (s *simulator) runStep(ctx context.Context, step *Step, resp *Response) error {
	origin := auth.Root()
	if step.Caller != "" {
		origin = auth.Signed(utils.AccountAddress(step.Caller))
	}

	s.events = nil
	err := s.exchange.Execute(ctx, s.db, func(mu state.Mutable) error {
		return handlers[step.Kind](&stepContext{
			ctx:    ctx,
			mu:     mu,
			ex:     s.exchange,
			origin: origin,
			params: &step.Params,
			result: &resp.Result,
		})
	})
	resp.Result.Events = s.events
	if err != nil {
		resp.Error = err.Error()
	}
	s.log.Debug("step executed",
		zap.Int("step", resp.ID),
		zap.String("kind", string(step.Kind)),
		zap.Error(err),
	)

	switch {
	case step.ExpectError != "" && err == nil:
		return fmt.Errorf("%w: %q", ErrExpectedFailure, step.ExpectError)
	case step.ExpectError != "" && !strings.Contains(err.Error(), step.ExpectError):
		return fmt.Errorf("%w: %w", ErrUnexpectedError, err)
	case step.ExpectError == "" && err != nil:
		return err
	}
	if step.Require == nil || resp.Result.Balance == nil {
		return nil
	}
	expected, err := utils.ParseBalance(step.Require.Result.Value)
	if err != nil {
		return err
	}
	op := Operator(step.Require.Result.Operator)
	ok, err := validateAssertion(*resp.Result.Balance, op, expected)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s %s %s",
			ErrAssertionFailed,
			utils.FormatBalance(*resp.Result.Balance),
			op,
			step.Require.Result.Value,
		)
	}
	return nil
}

type printer struct {
	w     io.Writer
	human bool
}

func (p *printer) print(step *Step, resp *Response, failure error) error {
	if !p.human {
		b, err := json.Marshal(resp)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(p.w, string(b))
		return err
	}

	label := step.Description
	if label == "" {
		label = string(step.Kind)
	}
	if failure != nil {
		_, err := fmt.Fprint(p.w, formatter.F("{{red}}✗ [%d] %s{{/}}: %s\n", resp.ID, label, failure))
		return err
	}
	var detail string
	switch {
	case resp.Result.Balance != nil:
		detail = utils.FormatBalance(*resp.Result.Balance)
	case resp.Result.AssetID != nil:
		detail = fmt.Sprintf("asset %d", *resp.Result.AssetID)
	case resp.Error != "":
		detail = "failed as expected: " + resp.Error
	default:
		detail = strings.Join(resp.Result.Events, ", ")
	}
	_, err := fmt.Fprint(p.w, formatter.F("{{green}}✓ [%d] %s{{/}} {{cyan}}%s{{/}}\n", resp.ID, label, detail))
	return err
}
