package state

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/horizon-planner/internal/params"
	"github.com/pitchside/horizon-planner/internal/planner"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func basePlayer() planner.Player {
	return planner.Player{
		ID:              uuid.New(),
		Age:             26,
		NaturalFitness:  15,
		Stamina:         14,
		InjuryProneness: 8,
		RoleRatings:     map[string]int{"ST": 150},
		Condition:       0.95,
		Sharpness:       0.85,
		Jadedness:       100,
	}
}

func TestPropagate_DoesNotMutateReceiver(t *testing.T) {
	store := params.Default()
	p := basePlayer()
	before := p

	_ = Propagate(store, p, date("2026-01-01"), Action{
		Minutes: 90, Slot: planner.Slot{RatingColumn: "ST"}, RestDays: 3, Scenario: planner.ScenarioStandard,
	})

	assert.Equal(t, before.Condition, p.Condition)
	assert.Equal(t, before.Sharpness, p.Sharpness)
	assert.Equal(t, before.Jadedness, p.Jadedness)
}

func TestPropagate_PlayingDrainsConditionMoreThanResting(t *testing.T) {
	store := params.Default()
	p := basePlayer()

	played := Propagate(store, p, date("2026-01-01"), Action{
		Minutes: 90, Slot: planner.Slot{RatingColumn: "ST"}, RestDays: 0, Scenario: planner.ScenarioStandard,
	})
	rested := Propagate(store, p, date("2026-01-01"), Action{
		Minutes: 0, Slot: planner.Slot{RatingColumn: "ST"}, RestDays: 0, Scenario: planner.ScenarioStandard,
	})

	assert.Less(t, played.Condition, rested.Condition)
}

func TestPropagate_RestRecoversCondition(t *testing.T) {
	store := params.Default()
	p := basePlayer()
	p.Condition = 0.5

	rested := Propagate(store, p, date("2026-01-01"), Action{
		Minutes: 0, Slot: planner.Slot{RatingColumn: "ST"}, RestDays: 5, Scenario: planner.ScenarioStandard,
	})

	assert.Greater(t, rested.Condition, p.Condition)
}

func TestPropagate_ConditionStaysWithinBounds(t *testing.T) {
	store := params.Default()
	p := basePlayer()
	p.Condition = 0.02

	for i := 0; i < 5; i++ {
		p = Propagate(store, p, date("2026-01-01"), Action{
			Minutes: 90, Slot: planner.Slot{RatingColumn: "ST"}, RestDays: 0, Scenario: planner.ScenarioCupFinal,
		})
	}
	assert.GreaterOrEqual(t, p.Condition, 0.0)
	assert.LessOrEqual(t, p.Condition, 1.0)
}

func TestPropagate_SharpnessGainDiminishesNearCeiling(t *testing.T) {
	store := params.Default()
	low := basePlayer()
	low.Sharpness = 0.3
	high := basePlayer()
	high.Sharpness = 0.95

	lowNext := Propagate(store, low, date("2026-01-01"), Action{Minutes: 90, Slot: planner.Slot{RatingColumn: "ST"}, Scenario: planner.ScenarioStandard})
	highNext := Propagate(store, high, date("2026-01-01"), Action{Minutes: 90, Slot: planner.Slot{RatingColumn: "ST"}, Scenario: planner.ScenarioStandard})

	assert.Greater(t, lowNext.Sharpness-low.Sharpness, highNext.Sharpness-high.Sharpness)
}

func TestPropagate_SharpnessDecayHasGracePeriod(t *testing.T) {
	store := params.Default()
	p := basePlayer()
	p.Sharpness = 0.8

	rested := Propagate(store, p, date("2026-01-01"), Action{
		Minutes: 0, Slot: planner.Slot{RatingColumn: "ST"}, RestDays: store.SharpnessDecayGraceDays, Scenario: planner.ScenarioStandard,
	})
	assert.Equal(t, p.Sharpness, rested.Sharpness, "no decay within the grace period")

	restedPastGrace := Propagate(store, p, date("2026-01-01"), Action{
		Minutes: 0, Slot: planner.Slot{RatingColumn: "ST"}, RestDays: store.SharpnessDecayGraceDays + 5, Scenario: planner.ScenarioStandard,
	})
	assert.Less(t, restedPastGrace.Sharpness, p.Sharpness)
}

func TestPropagate_RecordsRollingLoadEntry(t *testing.T) {
	store := params.Default()
	p := basePlayer()

	next := Propagate(store, p, date("2026-01-01"), Action{
		Minutes: 90, Slot: planner.Slot{RatingColumn: "ST"}, RestDays: 0, Scenario: planner.ScenarioStandard,
	})

	entries := next.RollingLoad.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 90, entries[0].Minutes)
}

func TestPropagate_HighIntensityScenarioAddsMoreJadedness(t *testing.T) {
	store := params.Default()
	pCupFinal := basePlayer()
	pDeadRubber := basePlayer()

	afterCupFinal := Propagate(store, pCupFinal, date("2026-01-01"), Action{
		Minutes: 90, Slot: planner.Slot{RatingColumn: "ST"}, RestDays: 0, Scenario: planner.ScenarioCupFinal,
	})
	afterDeadRubber := Propagate(store, pDeadRubber, date("2026-01-01"), Action{
		Minutes: 90, Slot: planner.Slot{RatingColumn: "ST"}, RestDays: 0, Scenario: planner.ScenarioDeadRubber,
	})

	assert.Greater(t, afterCupFinal.Jadedness, afterDeadRubber.Jadedness)
}
