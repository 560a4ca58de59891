// Package horizon implements the Horizon Orchestrator (spec §4.7): the
// top-level plan_horizon entry point that sequences the per-fixture
// pipeline (PrepareStates, ComputeShadow, BuildMatrix, Solve,
// AllocateMinutes, Propagate, Explain, RecordHistory), owns the per-plan
// stability ledger, and enforces the determinism and ordering guarantees
// of §5.
package horizon

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pitchside/horizon-planner/internal/assignment"
	"github.com/pitchside/horizon-planner/internal/costmatrix"
	"github.com/pitchside/horizon-planner/internal/explain"
	"github.com/pitchside/horizon-planner/internal/params"
	"github.com/pitchside/horizon-planner/internal/planner"
	"github.com/pitchside/horizon-planner/internal/shadow"
	"github.com/pitchside/horizon-planner/internal/state"
	"github.com/pitchside/horizon-planner/pkg/logger"
)

// ProgressFunc receives one telemetry event per pipeline stage reached for
// a given fixture. matchIndex/total identify the fixture within the
// horizon; stage is one of "prepared", "shadow_priced", "solved",
// "propagated", "explained". Callers that don't need progress telemetry
// leave this nil.
type ProgressFunc func(matchIndex, total int, stage string)

// Input is the plan_horizon call signature described in §6.
type Input struct {
	Squad       []planner.Player
	Fixtures    []planner.Fixture
	Constraints planner.Constraints
	Parameters  *params.Store // nil uses params.Default()
	Formation   string
	Progress    ProgressFunc // optional per-fixture progress telemetry
}

// PlanHorizon is the Horizon Orchestrator's sole entry point. It returns
// exactly one of (*planner.HorizonPlan, *planner.PlanError), never both —
// the Result-style discriminated union §7 requires.
func PlanHorizon(in Input) (*planner.HorizonPlan, *planner.PlanError) {
	planID := uuid.New().String()
	log := logger.WithPlanContext(planID, "horizon")

	store := in.Parameters
	if store == nil {
		store = params.Default()
	}

	if err := validateInput(in); err != nil {
		log.WithError(err).Warn("plan_horizon rejected invalid input")
		return nil, err
	}

	formationSlots, ferr := planner.FormationSlots(in.Formation)
	if ferr != nil {
		return nil, planner.NewInvalidInput(ferr.Error())
	}

	if err := costmatrix.ValidateLocks(in.Squad, formationSlots, in.Constraints); err != nil {
		log.WithField("slot", err.SlotKey).Warn("lock validation failed")
		return nil, err
	}

	currentSquad := cloneSquad(in.Squad)
	ledger := costmatrix.NewLedger()

	result := &planner.HorizonPlan{}

	progress := in.Progress
	if progress == nil {
		progress = func(int, int, string) {}
	}
	total := len(in.Fixtures)

	for t, fixture := range in.Fixtures {
		fixtureLog := log.WithFields(logrus.Fields{"match_index": t, "fixture_id": fixture.ID, "scenario": fixture.Scenario})

		// Step 1: PrepareStates. The previous iteration's Propagate step
		// already produced this fixture's pre-match state (it propagates
		// forward through the inter-match gap); this is the explicit
		// copy-on-write boundary the pipeline names, not additional work.
		prepared := cloneSquad(currentSquad)
		progress(t, total, "prepared")

		// Step 2: ComputeShadow.
		prices := shadow.Compute(store, prepared, in.Fixtures, t, formationSlots)
		progress(t, total, "shadow_priced")

		// Step 3: BuildMatrix.
		var nextFixture *planner.Fixture
		if t+1 < len(in.Fixtures) {
			nextFixture = &in.Fixtures[t+1]
		}
		matrices := costmatrix.Build(costmatrix.Input{
			Squad:       prepared,
			Formation:   formationSlots,
			Fixture:     fixture,
			NextFixture: nextFixture,
			Lambda:      prices.Lambda,
			Constraints: in.Constraints,
			Ledger:      ledger,
			Store:       store,
		})
		result.Diagnostics = append(result.Diagnostics, matrices.Diagnostics...)

		// Step 4: Solve.
		plannedAssignment, _, solveErr := assignment.Solve(matrices, store, fixture, prepared, t)
		if solveErr != nil {
			solveErr.MatchIndex = t
			fixtureLog.WithField("error_kind", solveErr.Kind).Warn("solve failed for fixture")
			return nil, solveErr
		}
		progress(t, total, "solved")

		squadByID := make(map[uuid.UUID]planner.Player, len(prepared))
		for _, p := range prepared {
			squadByID[p.ID] = p
		}

		// Step 5: AllocateMinutes.
		minutes := AllocateMinutes(store, plannedAssignment, squadByID, fixture)
		plannedAssignment.Minutes = minutes

		// Step 6: Propagate.
		slotByPlayer := map[uuid.UUID]planner.Slot{}
		for slotKey, playerID := range plannedAssignment.Slots {
			for _, s := range formationSlots {
				if s.Key == slotKey {
					slotByPlayer[playerID] = s
				}
			}
		}
		restDays := 0
		if nextFixture != nil {
			restDays = daysBetween(fixture.Date, nextFixture.Date)
		}

		nextSquad := make([]planner.Player, len(prepared))
		projectedState := make(map[uuid.UUID]planner.PlayerStateSnapshot, len(prepared))
		for i, p := range prepared {
			mins := minutes[p.ID]
			slot, playedSlot := slotByPlayer[p.ID]
			if !playedSlot {
				slot = planner.Slot{Key: "__UNUSED__", RatingColumn: "__UNUSED__"}
			}
			advanced := state.Propagate(store, p, fixture.Date, state.Action{
				Minutes:  mins,
				Slot:     slot,
				RestDays: restDays,
				Scenario: fixture.Scenario,
			})
			nextSquad[i] = advanced
			projectedState[advanced.ID] = advanced.Snapshot()
		}
		progress(t, total, "propagated")

		// Step 7: Explain.
		rationales := explain.Explain(explain.Input{
			Squad:       prepared,
			Fixture:     fixture,
			Assignment:  plannedAssignment,
			Lambda:      prices.Lambda,
			Constraints: in.Constraints,
			Store:       store,
		})
		sort.Slice(rationales, func(i, j int) bool {
			return rationales[i].PlayerID.String() < rationales[j].PlayerID.String()
		})
		progress(t, total, "explained")

		result.Fixtures = append(result.Fixtures, planner.FixtureResult{
			FixtureID:      fixture.ID,
			MatchIndex:     t,
			Assignment:     plannedAssignment,
			ProjectedState: projectedState,
			Rationales:     rationales,
		})

		// Step 8: RecordHistory.
		ledger = ledger.Advance(plannedAssignment)
		currentSquad = nextSquad

		fixtureLog.Info("fixture planned")
	}

	return result, nil
}

func cloneSquad(squad []planner.Player) []planner.Player {
	out := make([]planner.Player, len(squad))
	for i, p := range squad {
		out[i] = p.Clone()
	}
	return out
}

func daysBetween(a, b time.Time) int {
	d := int(b.Sub(a).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// validateInput enforces §6's InvalidInput preconditions: an empty fixture
// list, a player without an id, duplicate player ids, fixtures not strictly
// calendar-ordered, and the minimum squad composition among available
// players (≥11 non-GK-only players, ≥1 player with a GK rating). Player
// attributes other than the id are not checked for presence.
func validateInput(in Input) *planner.PlanError {
	if len(in.Fixtures) == 0 {
		return planner.NewInvalidInput("at least one fixture is required")
	}

	seen := map[uuid.UUID]bool{}
	for _, p := range in.Squad {
		if p.ID == uuid.Nil {
			return planner.NewInvalidInput("player missing identity")
		}
		if seen[p.ID] {
			return planner.NewInvalidInput(fmt.Sprintf("duplicate player id %s", p.ID))
		}
		seen[p.ID] = true
	}

	for i := 1; i < len(in.Fixtures); i++ {
		if !in.Fixtures[i].Date.After(in.Fixtures[i-1].Date) {
			return planner.NewInvalidInput("fixtures must be strictly calendar-ordered with unique dates")
		}
	}

	nonGKOnly := 0
	hasGK := false
	for _, p := range in.Squad {
		if !p.Available() {
			continue
		}
		if _, ok := p.BaseRating("GK"); ok {
			hasGK = true
		}
		if !planner.IsGoalkeeperOnly(p) {
			nonGKOnly++
		}
	}
	if nonGKOnly < 11 {
		return planner.NewInvalidInput("squad requires at least 11 non-goalkeeper-only available players")
	}
	if !hasGK {
		return planner.NewInvalidInput("squad requires at least one available player with a goalkeeper rating")
	}

	return nil
}
