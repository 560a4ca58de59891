package horizon

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/horizon-planner/internal/params"
	"github.com/pitchside/horizon-planner/internal/planner"
)

func day(offset int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func roundRobinSquad(n int) []planner.Player {
	formation, _ := planner.FormationSlots("4-4-2")
	squad := make([]planner.Player, 0, n)
	for i := 0; i < n; i++ {
		ratings := map[string]int{}
		familiarity := map[string]float64{}
		for _, s := range formation {
			ratings[s.RatingColumn] = 130 + (i*7)%40
			familiarity[s.RatingColumn] = 0.7
		}
		squad = append(squad, planner.Player{
			ID:              uuid.New(),
			Name:            "Player",
			Age:             24 + i%10,
			NaturalFitness:  13,
			Stamina:         13,
			InjuryProneness: 8,
			RoleRatings:     ratings,
			Familiarity:     familiarity,
			Condition:       0.95,
			Sharpness:       0.85,
		})
	}
	return squad
}

func threeFixtures() []planner.Fixture {
	return []planner.Fixture{
		{ID: uuid.New(), Date: day(0), Scenario: planner.ScenarioStandard, Importance: 1.5},
		{ID: uuid.New(), Date: day(4), Scenario: planner.ScenarioTitleRival, Importance: 3},
		{ID: uuid.New(), Date: day(8), Scenario: planner.ScenarioDeadRubber, Importance: 0.1},
	}
}

func TestPlanHorizon_ProducesOneFixtureResultPerFixtureInOrder(t *testing.T) {
	squad := roundRobinSquad(18)
	fixtures := threeFixtures()

	plan, planErr := PlanHorizon(Input{
		Squad:     squad,
		Fixtures:  fixtures,
		Formation: "4-4-2",
	})
	require.Nil(t, planErr)
	require.Len(t, plan.Fixtures, 3)

	for i, fr := range plan.Fixtures {
		assert.Equal(t, i, fr.MatchIndex)
		assert.Equal(t, fixtures[i].ID, fr.FixtureID)
		assert.Len(t, fr.Assignment.Slots, 11)
		assert.Len(t, fr.Rationales, len(squad))
	}
}

func TestPlanHorizon_RationalesAreSortedByPlayerID(t *testing.T) {
	squad := roundRobinSquad(18)
	fixtures := threeFixtures()

	plan, planErr := PlanHorizon(Input{Squad: squad, Fixtures: fixtures, Formation: "4-4-2"})
	require.Nil(t, planErr)

	for _, fr := range plan.Fixtures {
		for i := 1; i < len(fr.Rationales); i++ {
			assert.LessOrEqual(t, fr.Rationales[i-1].PlayerID.String(), fr.Rationales[i].PlayerID.String())
		}
	}
}

func TestPlanHorizon_RejectsNonCalendarOrderedFixtures(t *testing.T) {
	squad := roundRobinSquad(18)
	fixtures := []planner.Fixture{
		{ID: uuid.New(), Date: day(4), Scenario: planner.ScenarioStandard, Importance: 1.5},
		{ID: uuid.New(), Date: day(0), Scenario: planner.ScenarioStandard, Importance: 1.5},
	}

	plan, planErr := PlanHorizon(Input{Squad: squad, Fixtures: fixtures, Formation: "4-4-2"})
	assert.Nil(t, plan)
	require.NotNil(t, planErr)
	assert.Equal(t, planner.ErrInvalidInput, planErr.Kind)
}

func TestPlanHorizon_RejectsEmptyFixtureList(t *testing.T) {
	squad := roundRobinSquad(18)
	_, planErr := PlanHorizon(Input{Squad: squad, Fixtures: nil, Formation: "4-4-2"})
	require.NotNil(t, planErr)
	assert.Equal(t, planner.ErrInvalidInput, planErr.Kind)
}

func TestPlanHorizon_RejectsDuplicatePlayerIDs(t *testing.T) {
	squad := roundRobinSquad(18)
	squad[1].ID = squad[0].ID
	_, planErr := PlanHorizon(Input{Squad: squad, Fixtures: threeFixtures(), Formation: "4-4-2"})
	require.NotNil(t, planErr)
	assert.Equal(t, planner.ErrInvalidInput, planErr.Kind)
}

func TestPlanHorizon_RejectsTooSmallSquad(t *testing.T) {
	squad := roundRobinSquad(8)
	_, planErr := PlanHorizon(Input{Squad: squad, Fixtures: threeFixtures(), Formation: "4-4-2"})
	require.NotNil(t, planErr)
	assert.Equal(t, planner.ErrInvalidInput, planErr.Kind)
}

func TestPlanHorizon_RejectsUnknownFormation(t *testing.T) {
	squad := roundRobinSquad(18)
	_, planErr := PlanHorizon(Input{Squad: squad, Fixtures: threeFixtures(), Formation: "7-0-3"})
	require.NotNil(t, planErr)
	assert.Equal(t, planner.ErrInvalidInput, planErr.Kind)
}

func TestPlanHorizon_HonoursLockAcrossTheHorizon(t *testing.T) {
	squad := roundRobinSquad(18)
	fixtures := threeFixtures()
	constraints := planner.Constraints{Locks: []planner.Lock{{PlayerID: squad[0].ID, SlotKey: "ST1"}}}

	plan, planErr := PlanHorizon(Input{Squad: squad, Fixtures: fixtures, Constraints: constraints, Formation: "4-4-2"})
	require.Nil(t, planErr)

	for _, fr := range plan.Fixtures {
		assert.Equal(t, squad[0].ID, fr.Assignment.Slots["ST1"])
	}
}

func TestPlanHorizon_ProjectedStateCarriesForwardBetweenFixtures(t *testing.T) {
	squad := roundRobinSquad(18)
	fixtures := threeFixtures()

	plan, planErr := PlanHorizon(Input{Squad: squad, Fixtures: fixtures, Formation: "4-4-2"})
	require.Nil(t, planErr)
	require.Len(t, plan.Fixtures, 3)

	firstState := plan.Fixtures[0].ProjectedState
	secondState := plan.Fixtures[1].ProjectedState
	require.NotEmpty(t, firstState)
	require.NotEmpty(t, secondState)
	// at least one player's state must differ match to match, otherwise
	// propagation never ran.
	changed := false
	for id, snap := range secondState {
		if prior, ok := firstState[id]; ok && (prior.Condition != snap.Condition || prior.Sharpness != snap.Sharpness || prior.Jadedness != snap.Jadedness) {
			changed = true
			break
		}
	}
	assert.True(t, changed)
}

func TestPlanHorizon_CustomParametersAreUsed(t *testing.T) {
	squad := roundRobinSquad(18)
	fixtures := threeFixtures()
	store := params.Default()
	store.BenchSize = 3

	plan, planErr := PlanHorizon(Input{Squad: squad, Fixtures: fixtures, Parameters: store, Formation: "4-4-2"})
	require.Nil(t, planErr)
	for _, fr := range plan.Fixtures {
		assert.LessOrEqual(t, len(fr.Assignment.Bench), 3)
	}
}

func TestPlanHorizon_ProgressReportsEveryStagePerFixture(t *testing.T) {
	squad := roundRobinSquad(18)
	fixtures := threeFixtures()

	var stages []string
	_, planErr := PlanHorizon(Input{
		Squad:     squad,
		Fixtures:  fixtures,
		Formation: "4-4-2",
		Progress: func(matchIndex, total int, stage string) {
			assert.Equal(t, len(fixtures), total)
			stages = append(stages, stage)
		},
	})
	require.Nil(t, planErr)

	expected := []string{"prepared", "shadow_priced", "solved", "propagated", "explained"}
	require.Len(t, stages, len(expected)*len(fixtures))
	for i := range fixtures {
		assert.Equal(t, expected, stages[i*len(expected):(i+1)*len(expected)])
	}
}
