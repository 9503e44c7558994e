// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/stablematch/config"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Resolved configuration and logger, set in PersistentPreRunE.
	cfg    = config.Default()
	logger = zap.NewNop()
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "stablematch",
	Short: "Stable matching with Gale–Shapley deferred acceptance",
	Long: `stablematch computes proposer- or responder-optimal stable matchings
between two equally sized populations with strict preference lists, and
checks candidate matchings for blocking pairs.

Instances and matchings are YAML documents; see "generate" for the format.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			if cfg, err = config.Load(configPath); err != nil {
				return err
			}
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		logger, err = cfg.Logger()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging (per-round engine output)")

	rootCmd.AddCommand(generateCmd, solveCmd, verifyCmd, enumerateCmd)
}
