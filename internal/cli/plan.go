package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pitchside/horizon-planner/internal/horizon"
	"github.com/pitchside/horizon-planner/internal/params"
	"github.com/pitchside/horizon-planner/internal/planner"
)

var (
	snapshotPath  string
	paramsPath    string
	outputPath    string
)

func init() {
	planCmd.Flags().StringVarP(&snapshotPath, "snapshot", "s", "", "path to a squad/fixture/constraints snapshot (required)")
	planCmd.Flags().StringVarP(&paramsPath, "params", "p", "", "path to a JSON params.Store override (optional, defaults to params.Default())")
	planCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the resulting plan to this path instead of stdout")
	planCmd.MarkFlagRequired("snapshot")

	validateCmd.Flags().StringVarP(&snapshotPath, "snapshot", "s", "", "path to a squad/fixture/constraints snapshot (required)")
	validateCmd.MarkFlagRequired("snapshot")
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Run plan_horizon against a snapshot and print the resulting plan",
	RunE:  runPlan,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse a snapshot and check its unavailable ids and formation name, without solving",
	RunE:  runValidate,
}

func runPlan(cmd *cobra.Command, args []string) error {
	snap, err := loadSnapshot(snapshotPath)
	if err != nil {
		return err
	}

	store := params.Default()
	if paramsPath != "" {
		data, err := os.ReadFile(paramsPath)
		if err != nil {
			return fmt.Errorf("read params override: %w", err)
		}
		if err := json.Unmarshal(data, store); err != nil {
			return fmt.Errorf("parse params override: %w", err)
		}
	}

	constraints, err := toConstraints(*snap)
	if err != nil {
		return err
	}

	plan, planErr := horizon.PlanHorizon(horizon.Input{
		Squad:       snap.Squad,
		Fixtures:    snap.Fixtures,
		Constraints: constraints,
		Parameters:  store,
		Formation:   snap.Formation,
	})
	if planErr != nil {
		return fmt.Errorf("plan_horizon failed: %s", planErr.Error())
	}

	out, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}

	if outputPath == "" {
		fmt.Println(string(out))
		return nil
	}
	return os.WriteFile(outputPath, out, 0644)
}

func runValidate(cmd *cobra.Command, args []string) error {
	snap, err := loadSnapshot(snapshotPath)
	if err != nil {
		return err
	}
	if _, err := toConstraints(*snap); err != nil {
		return err
	}
	if _, err := planner.FormationSlots(snap.Formation); err != nil {
		return fmt.Errorf("invalid formation: %w", err)
	}
	fmt.Printf("snapshot OK: %d players, %d fixtures, formation %s\n", len(snap.Squad), len(snap.Fixtures), snap.Formation)
	return nil
}

func toConstraints(snap Snapshot) (planner.Constraints, error) {
	unavailable := make(map[uuid.UUID]bool, len(snap.Unavailable))
	for _, idStr := range snap.Unavailable {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return planner.Constraints{}, fmt.Errorf("invalid unavailable player id %q: %w", idStr, err)
		}
		unavailable[id] = true
	}
	return planner.Constraints{
		Locks:       snap.Locks,
		Rejections:  snap.Rejections,
		Unavailable: unavailable,
	}, nil
}
