// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/stablematch/config"
	"github.com/katalvlaran/stablematch/gale"
	"github.com/katalvlaran/stablematch/prefs"
	"github.com/katalvlaran/stablematch/relational"
	"github.com/katalvlaran/stablematch/stability"
)

var (
	solveIn  string
	solveOut string
)

// errUnstable is returned when a matching fails verification.
var errUnstable = errors.New("matching is not stable")

// solveCmd computes a stable matching for an instance file.
var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Compute a stable matching",
	Long: `Reads an instance, computes its stable matching and writes it as YAML.
The result is verified for blocking pairs before it is written.

Strategies:
  - rounds:     round-synchronous deferred acceptance (optionally sharded)
  - relational: the same fixpoint as reduce/antijoin over candidate edges`,
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().StringVarP(&solveIn, "in", "i", "", "instance file (required)")
	solveCmd.Flags().StringVarP(&solveOut, "out", "o", "", "output file (default stdout)")
	solveCmd.Flags().String("strategy", config.StrategyRounds, "rounds|relational")
	solveCmd.Flags().Int("workers", 1, "goroutines per phase (0 = GOMAXPROCS)")
	solveCmd.Flags().Int("max-rounds", 0, "round cap (0 = n²+1)")
	solveCmd.Flags().Bool("responder-optimal", false, "let responders propose")
	_ = solveCmd.MarkFlagRequired("in")
}

func runSolve(cmd *cobra.Command, args []string) error {
	ec := cfg.Engine
	if f := cmd.Flags(); f != nil {
		if f.Changed("strategy") {
			ec.Strategy, _ = f.GetString("strategy")
		}
		if f.Changed("workers") {
			ec.Workers, _ = f.GetInt("workers")
		}
		if f.Changed("max-rounds") {
			ec.MaxRounds, _ = f.GetInt("max-rounds")
		}
		if f.Changed("responder-optimal") {
			ec.ResponderOptimal, _ = f.GetBool("responder-optimal")
		}
	}

	inst, err := readInstance(solveIn)
	if err != nil {
		return err
	}
	work := inst
	if ec.ResponderOptimal {
		work = prefs.Swap(inst)
	}

	doc, err := solve(cmd, work, ec)
	if err != nil {
		return err
	}
	m := prefs.FromPairs(doc.Matching)
	if ec.ResponderOptimal {
		m = prefs.Transpose(m)
		doc.Matching = m.Pairs()
	}

	rep := stability.Check(inst, m)
	if !rep.Perfect() {
		logger.Error("solver produced a defective matching", zap.String("report", rep.String()))
		return fmt.Errorf("%w: %s", errUnstable, rep)
	}
	logger.Info("matching computed",
		zap.String("strategy", doc.Strategy),
		zap.Int("agents", len(doc.Matching)),
		zap.Int("rounds", doc.Rounds))

	return writeYAML(cmd.OutOrStdout(), solveOut, doc)
}

func solve(cmd *cobra.Command, inst prefs.Instance, ec config.Engine) (*matchingDoc, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	switch ec.Strategy {
	case config.StrategyRelational:
		res, err := relational.Match(ctx, inst)
		if err != nil {
			return nil, err
		}
		return &matchingDoc{Matching: res.Matching.Pairs(), Strategy: ec.Strategy, Rounds: res.Iterations}, nil

	case config.StrategyRounds, "":
		m, err := prefs.Validate(inst)
		if err != nil {
			return nil, err
		}
		opts := []gale.Option{
			gale.WithContext(ctx),
			gale.WithWorkers(ec.Workers),
			gale.WithLogger(logger),
		}
		if ec.MaxRounds > 0 {
			opts = append(opts, gale.WithMaxRounds(ec.MaxRounds))
		}
		res, err := gale.MatchMarket(m, opts...)
		if err != nil {
			return nil, err
		}
		return &matchingDoc{
			Matching:   res.Matching.Pairs(),
			Strategy:   config.StrategyRounds,
			Rounds:     res.Rounds,
			Proposals:  res.Proposals,
			Rejections: res.Rejections,
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", config.ErrInvalidConfig, ec.Strategy)
	}
}
