// Package cli implements planctl, an offline cobra front-end over
// plan_horizon for snapshot-driven planning outside the HTTP service.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "planctl",
	Short: "Run the horizon planner against a squad/fixture snapshot",
	Long: `planctl runs plan_horizon offline against a JSON snapshot of a squad,
fixture list, constraints, and formation. It never talks to Redis or
Postgres — useful for CI, reproducing a reported plan, and experimenting
with parameter overrides.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(validateCmd)
}
