// Package explain implements the Explainer: structured, machine-readable
// rationales for every inclusion or exclusion, built by decomposing the
// Global Selection Score and the constraints that shaped the solved
// assignment into the §6 category enum.
package explain

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pitchside/horizon-planner/internal/params"
	"github.com/pitchside/horizon-planner/internal/planner"
)

// Input bundles the per-fixture context the Explainer reads; it never
// re-derives anything the solver already decided, only narrates it.
type Input struct {
	Squad       []planner.Player
	Fixture     planner.Fixture
	Assignment  planner.Assignment
	Lambda      map[uuid.UUID]float64
	Constraints planner.Constraints
	Store       *params.Store
}

// Explain produces one rationale per squad player: starters, bench, and
// everyone left out entirely.
func Explain(in Input) []planner.Rationale {
	playerByID := make(map[uuid.UUID]planner.Player, len(in.Squad))
	for _, p := range in.Squad {
		playerByID[p.ID] = p
	}

	starterSlot := map[uuid.UUID]string{}
	for slotKey, playerID := range in.Assignment.Slots {
		starterSlot[playerID] = slotKey
	}
	onBench := map[uuid.UUID]bool{}
	for _, id := range in.Assignment.Bench {
		onBench[id] = true
	}

	rationales := make([]planner.Rationale, 0, len(in.Squad))
	for _, p := range in.Squad {
		if slotKey, started := starterSlot[p.ID]; started {
			rationales = append(rationales, starterRationale(in, p, slotKey))
			continue
		}
		rationales = append(rationales, nonStarterRationale(in, p, onBench[p.ID]))
	}
	return rationales
}

func starterRationale(in Input, p planner.Player, slotKey string) planner.Rationale {
	if lockedSlot, ok := lockedSlotFor(in.Constraints, p.ID); ok && lockedSlot == slotKey {
		return planner.Rationale{
			PlayerID: p.ID,
			Category: planner.CategoryLocked,
			Reason:   fmt.Sprintf("%s starts at %s by user lock", p.Name, slotKey),
		}
	}

	importance := in.Store.ImportanceWeightFor(in.Fixture.Scenario)
	switch {
	case in.Fixture.Scenario == planner.ScenarioSharpness && p.Sharpness < in.Store.SharpnessLowThreshold:
		return planner.Rationale{
			PlayerID: p.ID,
			Category: planner.CategorySelectedSharpnessBuild,
			Reason:   fmt.Sprintf("%s starts at %s to rebuild sharpness (%.2f)", p.Name, slotKey, p.Sharpness),
		}
	case importance >= 5:
		return planner.Rationale{
			PlayerID: p.ID,
			Category: planner.CategorySelectedHighImportance,
			Reason:   fmt.Sprintf("%s starts at %s: fixture importance %.1f outweighs rotation concerns", p.Name, slotKey, importance),
		}
	case p.Condition < in.Store.ConditionFloor:
		return planner.Rationale{
			PlayerID: p.ID,
			Category: planner.CategorySelectedDespiteFatigue,
			Reason:   fmt.Sprintf("%s starts at %s despite condition %.2f below the usual floor", p.Name, slotKey, p.Condition),
		}
	default:
		return planner.Rationale{
			PlayerID: p.ID,
			Category: planner.CategorySelectedPeak,
			Reason:   fmt.Sprintf("%s starts at %s at or near peak form (condition %.2f, sharpness %.2f)", p.Name, slotKey, p.Condition, p.Sharpness),
		}
	}
}

func nonStarterRationale(in Input, p planner.Player, bench bool) planner.Rationale {
	if p.Injured || p.Suspended {
		return planner.Rationale{
			PlayerID: p.ID,
			Category: planner.CategoryUnavailable,
			Reason:   fmt.Sprintf("%s unavailable (injured or suspended)", p.Name),
		}
	}
	if in.Constraints.Unavailable[p.ID] {
		return planner.Rationale{
			PlayerID: p.ID,
			Category: planner.CategoryUnavailable,
			Reason:   fmt.Sprintf("%s marked unavailable for this fixture", p.Name),
		}
	}
	if rejectedSlot, ok := anyRejection(in.Constraints, p.ID); ok {
		return planner.Rationale{
			PlayerID: p.ID,
			Category: planner.CategoryRejected,
			Reason:   fmt.Sprintf("%s excluded from %s by user rejection", p.Name, rejectedSlot),
		}
	}

	lambda := in.Lambda[p.ID]
	category := planner.CategoryBenchedRotation
	reason := fmt.Sprintf("%s rotated out to manage squad balance", p.Name)

	switch {
	case p.Condition < in.Store.ConditionFloor:
		category = planner.CategoryBenchedConditionLow
		reason = fmt.Sprintf("%s held back: condition %.2f below the starting floor", p.Name, p.Condition)
	case lambda > 0 && lambda >= in.Store.ShadowWeight*5:
		category = planner.CategoryBenchedShadowPreserved
		reason = fmt.Sprintf("%s rested: high shadow price (%.2f) protects future fixtures", p.Name, lambda)
	case p.Jadedness >= 700:
		category = planner.CategoryBenchedFatigueRisk
		reason = fmt.Sprintf("%s held back: jadedness %.0f carries elevated fatigue risk", p.Name, p.Jadedness)
	case len(p.RoleRatings) == 0:
		category = planner.CategoryBenchedRoleFitLow
		reason = fmt.Sprintf("%s has no rated role in this formation", p.Name)
	}

	if bench {
		return planner.Rationale{PlayerID: p.ID, Category: category, Reason: reason}
	}
	return planner.Rationale{PlayerID: p.ID, Category: category, Reason: reason + "; outside the matchday squad"}
}

func lockedSlotFor(constraints planner.Constraints, playerID uuid.UUID) (string, bool) {
	for _, l := range constraints.Locks {
		if l.PlayerID == playerID {
			return l.SlotKey, true
		}
	}
	return "", false
}

func anyRejection(constraints planner.Constraints, playerID uuid.UUID) (string, bool) {
	for _, r := range constraints.Rejections {
		if r.PlayerID == playerID {
			return r.SlotKey, true
		}
	}
	return "", false
}
