package horizon

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pitchside/horizon-planner/internal/params"
	"github.com/pitchside/horizon-planner/internal/planner"
)

func TestAllocateMinutes_FullConditionStartersPlayNinety(t *testing.T) {
	store := params.Default()
	id := uuid.New()
	squad := map[uuid.UUID]planner.Player{id: {ID: id, Condition: 1.0}}
	assignment := planner.Assignment{Slots: map[string]uuid.UUID{"ST1": id}}
	fixture := planner.Fixture{Scenario: planner.ScenarioStandard}

	minutes := AllocateMinutes(store, assignment, squad, fixture)
	assert.Equal(t, 90, minutes[id])
}

func TestAllocateMinutes_LowConditionReducesMinutes(t *testing.T) {
	store := params.Default()
	id := uuid.New()
	squad := map[uuid.UUID]planner.Player{id: {ID: id, Condition: 0.76}}
	assignment := planner.Assignment{Slots: map[string]uuid.UUID{"ST1": id}}
	fixture := planner.Fixture{Scenario: planner.ScenarioStandard}

	minutes := AllocateMinutes(store, assignment, squad, fixture)
	assert.Less(t, minutes[id], 90)
}

func TestAllocateMinutes_RotationScenarioCapsAtSeventyFive(t *testing.T) {
	store := params.Default()
	id := uuid.New()
	squad := map[uuid.UUID]planner.Player{id: {ID: id, Condition: 1.0}}
	assignment := planner.Assignment{Slots: map[string]uuid.UUID{"ST1": id}}
	fixture := planner.Fixture{Scenario: planner.ScenarioDeadRubber}

	minutes := AllocateMinutes(store, assignment, squad, fixture)
	assert.Equal(t, 75, minutes[id])
}

func TestAllocateMinutes_SharpnessScenarioGuaranteesFortyFiveMinimum(t *testing.T) {
	store := params.Default()
	id := uuid.New()
	squad := map[uuid.UUID]planner.Player{id: {ID: id, Condition: 0.76, Sharpness: 0.3}}
	assignment := planner.Assignment{Slots: map[string]uuid.UUID{"ST1": id}}
	fixture := planner.Fixture{Scenario: planner.ScenarioSharpness}

	minutes := AllocateMinutes(store, assignment, squad, fixture)
	assert.GreaterOrEqual(t, minutes[id], 45)
}

func TestAllocateMinutes_SubstitutionsDrawFromBenchInOrder(t *testing.T) {
	store := params.Default()
	starters := make([]uuid.UUID, 11)
	squad := map[uuid.UUID]planner.Player{}
	slots := map[string]uuid.UUID{}
	for i := range starters {
		id := uuid.New()
		starters[i] = id
		squad[id] = planner.Player{ID: id, Condition: 0.95 - float64(i)*0.01}
		slots[uuid.NewString()] = id
	}
	bench := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, id := range bench {
		squad[id] = planner.Player{ID: id, Condition: 1.0}
	}
	assignment := planner.Assignment{Slots: slots, Bench: bench}
	fixture := planner.Fixture{Scenario: planner.ScenarioStandard}

	minutes := AllocateMinutes(store, assignment, squad, fixture)

	for i, id := range bench {
		expectedIn := 90 - store.SubstitutionMinutes[i]
		assert.Equal(t, expectedIn, minutes[id])
	}
}
