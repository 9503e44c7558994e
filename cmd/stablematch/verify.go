// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/stablematch/stability"
)

var (
	verifyIn       string
	verifyMatching string
)

// verifyCmd checks a matching file against an instance file.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check a matching for blocking pairs",
	Long: `Reports blocking pairs and structural defects (unmatched, unknown or
shared agents, unacceptable pairs). Exits non-zero if the matching is unstable.`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVarP(&verifyIn, "in", "i", "", "instance file (required)")
	verifyCmd.Flags().StringVarP(&verifyMatching, "matching", "m", "", "matching file (required)")
	_ = verifyCmd.MarkFlagRequired("in")
	_ = verifyCmd.MarkFlagRequired("matching")
}

func runVerify(cmd *cobra.Command, args []string) error {
	inst, err := readInstance(verifyIn)
	if err != nil {
		return err
	}
	m, err := readMatching(verifyMatching)
	if err != nil {
		return err
	}

	rep := stability.Check(inst, m)
	fmt.Fprintln(cmd.OutOrStdout(), rep.String())
	logger.Info("matching verified",
		zap.Bool("stable", rep.Stable()),
		zap.Int("blocking_pairs", len(rep.BlockingPairs)))
	if !rep.Stable() {
		return errUnstable
	}

	return nil
}
