// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/stablematch/stability"
)

var enumerateIn string

// enumerateCmd lists every stable matching of a small instance.
var enumerateCmd = &cobra.Command{
	Use:   "enumerate",
	Short: "List all stable matchings of a small instance",
	Long: fmt.Sprintf(`Exhaustively enumerates every stable perfect matching, one per line.
Instances are limited to %d agents per side.`, stability.MaxEnumerate),
	RunE: runEnumerate,
}

func init() {
	enumerateCmd.Flags().StringVarP(&enumerateIn, "in", "i", "", "instance file (required)")
	_ = enumerateCmd.MarkFlagRequired("in")
}

func runEnumerate(cmd *cobra.Command, args []string) error {
	inst, err := readInstance(enumerateIn)
	if err != nil {
		return err
	}
	all, err := stability.Enumerate(inst)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, m := range all {
		fmt.Fprintln(out, m.String())
	}
	fmt.Fprintf(out, "%d stable matching(s)\n", len(all))

	return nil
}
