package horizon

import (
	"sort"

	"github.com/google/uuid"

	"github.com/pitchside/horizon-planner/internal/params"
	"github.com/pitchside/horizon-planner/internal/planner"
)

// rotationScenario caps starter minutes at 75 to manage load across a
// crowded fixture list, per §4.7 step 5.
func rotationScenario(s planner.Scenario) bool {
	return s == planner.ScenarioDeadRubber || s == planner.ScenarioCupEarly
}

func attenuatedBaseMinutes(store *params.Store, condition float64, scenario planner.Scenario) int {
	minutes := 90.0
	for _, band := range store.ConditionCliffBands {
		if condition >= band.MinCondition {
			if !band.Forbidden {
				minutes = 90.0 * band.Multiplier
			}
			break
		}
	}
	if rotationScenario(scenario) && minutes > 75 {
		minutes = 75
	}
	return int(minutes)
}

// AllocateMinutes implements §4.7 step 5: base minutes attenuated by
// condition/fatigue bands and rotation scenarios, three scheduled
// substitutions at 60'/70'/80' drawing from the bench in order, and the
// Sharpness-scenario guarantee of at least 45' for low-sharpness starters.
func AllocateMinutes(store *params.Store, assignment planner.Assignment, squad map[uuid.UUID]planner.Player, fixture planner.Fixture) map[uuid.UUID]int {
	minutes := map[uuid.UUID]int{}

	starters := make([]uuid.UUID, 0, len(assignment.Slots))
	for _, playerID := range assignment.Slots {
		starters = append(starters, playerID)
	}

	protected := map[uuid.UUID]bool{}
	for _, playerID := range starters {
		p := squad[playerID]
		base := attenuatedBaseMinutes(store, p.Condition, fixture.Scenario)
		if fixture.Scenario == planner.ScenarioSharpness && p.Sharpness < store.SharpnessLowThreshold {
			if base < 45 {
				base = 45
			}
			protected[playerID] = true
		}
		minutes[playerID] = base
	}

	subCandidates := make([]uuid.UUID, 0, len(starters))
	for _, id := range starters {
		if !protected[id] {
			subCandidates = append(subCandidates, id)
		}
	}
	sort.Slice(subCandidates, func(i, j int) bool {
		pi, pj := squad[subCandidates[i]], squad[subCandidates[j]]
		if pi.Condition != pj.Condition {
			return pi.Condition < pj.Condition
		}
		return subCandidates[i].String() < subCandidates[j].String()
	})

	subCount := len(store.SubstitutionMinutes)
	if subCount > len(subCandidates) {
		subCount = len(subCandidates)
	}
	if subCount > len(assignment.Bench) {
		subCount = len(assignment.Bench)
	}

	for i := 0; i < subCount; i++ {
		subTime := store.SubstitutionMinutes[i]
		outgoing := subCandidates[i]
		incoming := assignment.Bench[i]
		minutes[outgoing] = subTime
		minutes[incoming] = 90 - subTime
	}

	return minutes
}
