package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "riskdash",
	Short: "A live risk-monitoring dashboard core for automated trading",
	Long: `Riskdash is the state core of a live operational dashboard for an
automated trading process.

It provides:
  - Per-position risk classification (drawdown, staleness, size)
  - System health derivation (latency, API quota, memory)
  - A bounded activity log with oldest-eviction
  - A hold-to-confirm gate for manual position kills
  - One immutable state snapshot per tick for any rendering layer

Complete documentation is available at https://github.com/rustyeddy/riskdash`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
