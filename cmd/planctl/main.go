// Command planctl runs plan_horizon offline against a JSON snapshot of
// (squad, fixtures, constraints, formation) — no Redis, no Postgres, no
// HTTP server, for CI and local experimentation with parameter overrides.
package main

import (
	"fmt"
	"os"

	"github.com/pitchside/horizon-planner/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
