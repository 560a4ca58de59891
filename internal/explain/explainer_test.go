package explain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/horizon-planner/internal/params"
	"github.com/pitchside/horizon-planner/internal/planner"
)

func mkPlayer(name string) planner.Player {
	return planner.Player{
		ID:          uuid.New(),
		Name:        name,
		RoleRatings: map[string]int{"ST": 150},
		Condition:   0.95,
		Sharpness:   0.9,
	}
}

func TestExplain_LockedStarterGetsLockedCategory(t *testing.T) {
	store := params.Default()
	p := mkPlayer("Locked Lad")
	in := Input{
		Squad:       []planner.Player{p},
		Fixture:     planner.Fixture{ID: uuid.New(), Date: time.Now(), Scenario: planner.ScenarioStandard, Importance: 1.5},
		Assignment:  planner.Assignment{Slots: map[string]uuid.UUID{"ST1": p.ID}},
		Lambda:      map[uuid.UUID]float64{},
		Constraints: planner.Constraints{Locks: []planner.Lock{{PlayerID: p.ID, SlotKey: "ST1"}}},
		Store:       store,
	}
	rationales := Explain(in)
	require.Len(t, rationales, 1)
	assert.Equal(t, planner.CategoryLocked, rationales[0].Category)
}

func TestExplain_UnavailableInjuredPlayer(t *testing.T) {
	store := params.Default()
	p := mkPlayer("Crocked")
	p.Injured = true
	in := Input{
		Squad:       []planner.Player{p},
		Fixture:     planner.Fixture{ID: uuid.New(), Date: time.Now(), Scenario: planner.ScenarioStandard, Importance: 1.5},
		Assignment:  planner.Assignment{Slots: map[string]uuid.UUID{}},
		Lambda:      map[uuid.UUID]float64{},
		Constraints: planner.Constraints{},
		Store:       store,
	}
	rationales := Explain(in)
	require.Len(t, rationales, 1)
	assert.Equal(t, planner.CategoryUnavailable, rationales[0].Category)
}

func TestExplain_RejectedPlayerGetsRejectedCategory(t *testing.T) {
	store := params.Default()
	p := mkPlayer("Nope")
	in := Input{
		Squad:       []planner.Player{p},
		Fixture:     planner.Fixture{ID: uuid.New(), Date: time.Now(), Scenario: planner.ScenarioStandard, Importance: 1.5},
		Assignment:  planner.Assignment{Slots: map[string]uuid.UUID{}},
		Lambda:      map[uuid.UUID]float64{},
		Constraints: planner.Constraints{Rejections: []planner.Rejection{{PlayerID: p.ID, SlotKey: "ST1"}}},
		Store:       store,
	}
	rationales := Explain(in)
	require.Len(t, rationales, 1)
	assert.Equal(t, planner.CategoryRejected, rationales[0].Category)
}

func TestExplain_HighImportanceStarter(t *testing.T) {
	store := params.Default()
	p := mkPlayer("Big Game Player")
	in := Input{
		Squad:       []planner.Player{p},
		Fixture:     planner.Fixture{ID: uuid.New(), Date: time.Now(), Scenario: planner.ScenarioCupFinal, Importance: 10},
		Assignment:  planner.Assignment{Slots: map[string]uuid.UUID{"ST1": p.ID}},
		Lambda:      map[uuid.UUID]float64{},
		Constraints: planner.Constraints{},
		Store:       store,
	}
	rationales := Explain(in)
	require.Len(t, rationales, 1)
	assert.Equal(t, planner.CategorySelectedHighImportance, rationales[0].Category)
}

func TestExplain_BenchedByHighShadowPrice(t *testing.T) {
	store := params.Default()
	p := mkPlayer("Protected")
	in := Input{
		Squad:       []planner.Player{p},
		Fixture:     planner.Fixture{ID: uuid.New(), Date: time.Now(), Scenario: planner.ScenarioStandard, Importance: 1.5},
		Assignment:  planner.Assignment{Slots: map[string]uuid.UUID{}, Bench: []uuid.UUID{p.ID}},
		Lambda:      map[uuid.UUID]float64{p.ID: store.ShadowWeight * 10},
		Constraints: planner.Constraints{},
		Store:       store,
	}
	rationales := Explain(in)
	require.Len(t, rationales, 1)
	assert.Equal(t, planner.CategoryBenchedShadowPreserved, rationales[0].Category)
}

func TestExplain_OneRationalePerSquadMember(t *testing.T) {
	store := params.Default()
	starter := mkPlayer("Starter")
	benchPlayer := mkPlayer("Benched")
	cutPlayer := mkPlayer("Cut")
	in := Input{
		Squad:       []planner.Player{starter, benchPlayer, cutPlayer},
		Fixture:     planner.Fixture{ID: uuid.New(), Date: time.Now(), Scenario: planner.ScenarioStandard, Importance: 1.5},
		Assignment:  planner.Assignment{Slots: map[string]uuid.UUID{"ST1": starter.ID}, Bench: []uuid.UUID{benchPlayer.ID}},
		Lambda:      map[uuid.UUID]float64{},
		Constraints: planner.Constraints{},
		Store:       store,
	}
	rationales := Explain(in)
	assert.Len(t, rationales, 3)
}
