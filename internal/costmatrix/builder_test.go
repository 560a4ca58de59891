package costmatrix

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/horizon-planner/internal/params"
	"github.com/pitchside/horizon-planner/internal/planner"
)

func testFixture(scenario planner.Scenario, importance float64) planner.Fixture {
	return planner.Fixture{ID: uuid.New(), Date: time.Now(), Scenario: scenario, Importance: importance}
}

func squadOf(n int, ratingColumn string) []planner.Player {
	squad := make([]planner.Player, n)
	for i := range squad {
		squad[i] = planner.Player{
			ID:              uuid.New(),
			Age:             25,
			NaturalFitness:  14,
			Stamina:         14,
			InjuryProneness: 8,
			RoleRatings:     map[string]int{ratingColumn: 150},
			Familiarity:     map[string]float64{ratingColumn: 1.0},
			Condition:       0.95,
			Sharpness:       0.9,
		}
	}
	return squad
}

func fullFormationSquad(n int) []planner.Player {
	formation, _ := planner.FormationSlots("4-4-2")
	squad := make([]planner.Player, 0, n)
	for i := 0; i < n; i++ {
		ratings := map[string]int{}
		familiarity := map[string]float64{}
		for _, s := range formation {
			ratings[s.RatingColumn] = 140
			familiarity[s.RatingColumn] = 0.8
		}
		squad = append(squad, planner.Player{
			ID:              uuid.New(),
			Age:             25,
			NaturalFitness:  14,
			Stamina:         14,
			InjuryProneness: 8,
			RoleRatings:     ratings,
			Familiarity:     familiarity,
			Condition:       0.95,
			Sharpness:       0.9,
		})
	}
	return squad
}

func TestValidateLocks_ConflictOnSameSlot(t *testing.T) {
	formation, _ := planner.FormationSlots("4-4-2")
	squad := fullFormationSquad(2)
	constraints := planner.Constraints{
		Locks: []planner.Lock{
			{PlayerID: squad[0].ID, SlotKey: "ST1"},
			{PlayerID: squad[1].ID, SlotKey: "ST1"},
		},
	}
	err := ValidateLocks(squad, formation, constraints)
	require.NotNil(t, err)
	assert.Equal(t, planner.ErrLockConflict, err.Kind)
}

func TestValidateLocks_UnavailablePlayerLocked(t *testing.T) {
	formation, _ := planner.FormationSlots("4-4-2")
	squad := fullFormationSquad(1)
	squad[0].Injured = true
	constraints := planner.Constraints{
		Locks: []planner.Lock{{PlayerID: squad[0].ID, SlotKey: "ST1"}},
	}
	err := ValidateLocks(squad, formation, constraints)
	require.NotNil(t, err)
}

func TestValidateLocks_RoleIncompatibleLock(t *testing.T) {
	formation, _ := planner.FormationSlots("4-4-2")
	squad := squadOf(1, "GK")
	constraints := planner.Constraints{
		Locks: []planner.Lock{{PlayerID: squad[0].ID, SlotKey: "ST1"}},
	}
	err := ValidateLocks(squad, formation, constraints)
	require.NotNil(t, err)
}

func TestValidateLocks_ValidLockPasses(t *testing.T) {
	formation, _ := planner.FormationSlots("4-4-2")
	squad := fullFormationSquad(2)
	constraints := planner.Constraints{
		Locks: []planner.Lock{{PlayerID: squad[0].ID, SlotKey: "ST1"}},
	}
	err := ValidateLocks(squad, formation, constraints)
	assert.Nil(t, err)
}

func TestBuild_LockedPlayerGetsBigNegativeCostAtOwnSlotBigMElsewhere(t *testing.T) {
	formation, _ := planner.FormationSlots("4-4-2")
	squad := fullFormationSquad(14)
	constraints := planner.Constraints{
		Locks: []planner.Lock{{PlayerID: squad[0].ID, SlotKey: "ST1"}},
	}
	store := params.Default()

	result := Build(Input{
		Squad:       squad,
		Formation:   formation,
		Fixture:     testFixture(planner.ScenarioStandard, 1.5),
		Lambda:      map[uuid.UUID]float64{},
		Constraints: constraints,
		Ledger:      NewLedger(),
		Store:       store,
	})

	var st1Row, otherRow = -1, -1
	for i, s := range result.Outfield.Slots {
		if s.Key == "ST1" {
			st1Row = i
		} else if !s.IsRest && s.Key == "ST2" {
			otherRow = i
		}
	}
	require.GreaterOrEqual(t, st1Row, 0)
	require.GreaterOrEqual(t, otherRow, 0)

	var playerCol = -1
	for j, id := range result.Outfield.Players {
		if id == squad[0].ID {
			playerCol = j
		}
	}
	require.GreaterOrEqual(t, playerCol, 0)

	assert.Equal(t, -params.BigM, result.Outfield.Cost.At(st1Row, playerCol))
	assert.Equal(t, params.BigM, result.Outfield.Cost.At(otherRow, playerCol))
}

func TestBuild_RejectedPlayerGetsBigMAtThatSlot(t *testing.T) {
	formation, _ := planner.FormationSlots("4-4-2")
	squad := fullFormationSquad(14)
	constraints := planner.Constraints{
		Rejections: []planner.Rejection{{PlayerID: squad[0].ID, SlotKey: "ST1"}},
	}
	store := params.Default()

	result := Build(Input{
		Squad:       squad,
		Formation:   formation,
		Fixture:     testFixture(planner.ScenarioStandard, 1.5),
		Lambda:      map[uuid.UUID]float64{},
		Constraints: constraints,
		Ledger:      NewLedger(),
		Store:       store,
	})

	var st1Row = -1
	for i, s := range result.Outfield.Slots {
		if s.Key == "ST1" {
			st1Row = i
		}
	}
	require.GreaterOrEqual(t, st1Row, 0)
	var playerCol = -1
	for j, id := range result.Outfield.Players {
		if id == squad[0].ID {
			playerCol = j
		}
	}
	require.GreaterOrEqual(t, playerCol, 0)
	assert.Equal(t, params.BigM, result.Outfield.Cost.At(st1Row, playerCol))
}

func TestBuild_GoalkeeperOnlyPlayerExcludedFromOutfieldCandidates(t *testing.T) {
	formation, _ := planner.FormationSlots("4-4-2")
	squad := append(fullFormationSquad(13), squadOf(1, "GK")...)
	store := params.Default()

	result := Build(Input{
		Squad:       squad,
		Formation:   formation,
		Fixture:     testFixture(planner.ScenarioStandard, 1.5),
		Lambda:      map[uuid.UUID]float64{},
		Constraints: planner.Constraints{},
		Ledger:      NewLedger(),
		Store:       store,
	})

	gkOnlyID := squad[len(squad)-1].ID
	for _, id := range result.Outfield.Players {
		assert.NotEqual(t, gkOnlyID, id, "a goalkeeper-only player must never appear as an outfield candidate")
	}
}

func TestBuild_PadsRestRowsWhenSurplusCandidates(t *testing.T) {
	formation, _ := planner.FormationSlots("4-4-2")
	squad := fullFormationSquad(16) // 16 outfield-eligible vs 10 outfield slots
	store := params.Default()

	result := Build(Input{
		Squad:       squad,
		Formation:   formation,
		Fixture:     testFixture(planner.ScenarioStandard, 1.5),
		Lambda:      map[uuid.UUID]float64{},
		Constraints: planner.Constraints{},
		Ledger:      NewLedger(),
		Store:       store,
	})

	restRows := 0
	for _, s := range result.Outfield.Slots {
		if s.IsRest {
			restRows++
		}
	}
	assert.Equal(t, len(squad)-10, restRows)
}

func TestLedger_AdvanceTracksConsecutiveStarts(t *testing.T) {
	playerID := uuid.New()
	ledger := NewLedger()
	assignment := planner.Assignment{Slots: map[string]uuid.UUID{"ST1": playerID}}

	ledger = ledger.Advance(assignment)
	assert.Equal(t, 1, ledger.ConsecutiveStarts[playerID])

	ledger = ledger.Advance(assignment)
	assert.Equal(t, 2, ledger.ConsecutiveStarts[playerID])

	otherAssignment := planner.Assignment{Slots: map[string]uuid.UUID{"ST2": playerID}}
	ledger = ledger.Advance(otherAssignment)
	assert.Equal(t, 1, ledger.ConsecutiveStarts[playerID], "changing slot resets the streak")
}
