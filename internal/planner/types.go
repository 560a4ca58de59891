// Package planner holds the domain model shared by every subsystem of the
// horizon planner: players, slots, fixtures, assignments, and the plan the
// orchestrator ultimately produces. It owns no business logic beyond what
// is needed to keep the model internally consistent (archetype derivation,
// rolling-load pruning) — scoring, propagation, pricing, matrix-building,
// solving, and orchestration each live in their own package.
package planner

import (
	"time"

	"github.com/google/uuid"
)

// Archetype is a derived tag summarising a player's static traits.
type Archetype string

const (
	ArchetypeWorkhorse   Archetype = "workhorse"
	ArchetypeGlassCannon Archetype = "glass_cannon"
	ArchetypeVeteran     Archetype = "veteran"
	ArchetypeYoungster   Archetype = "youngster"
	ArchetypeStandard    Archetype = "standard"
)

// DeriveArchetype classifies a player from age, stamina, natural fitness,
// and injury proneness. Veteran/Youngster take priority over the fitness
// archetypes since age is the harder signal; GlassCannon requires both low
// fitness and high injury proneness so a merely injury-prone but robust
// player isn't mislabeled.
func DeriveArchetype(age, naturalFitness, stamina, injuryProneness int) Archetype {
	switch {
	case age >= 32:
		return ArchetypeVeteran
	case age <= 21:
		return ArchetypeYoungster
	case injuryProneness >= 15 && naturalFitness < 10:
		return ArchetypeGlassCannon
	case stamina >= 17 && injuryProneness <= 8:
		return ArchetypeWorkhorse
	default:
		return ArchetypeStandard
	}
}

// Player is the identity, static-trait, and dynamic-state record described
// in spec §3. Role ratings and familiarity are sparse: a missing entry
// means the player cannot play that slot / has zero familiarity with it.
type Player struct {
	ID          uuid.UUID
	Name        string
	Age         int
	NaturalFitness  int // 1-20
	Stamina         int // 1-20
	InjuryProneness int // 1-20

	RoleRatings map[string]int     // slot rating column -> 0-200
	Familiarity map[string]float64 // slot rating column -> 0-1

	Condition float64 // 0-1
	Sharpness float64 // 0-1
	Jadedness float64 // 0-1000

	RollingLoad RollingLoadBuffer

	Injured           bool
	InjuryReturnDate  *time.Time
	Suspended         bool
	LoanedIn          bool
}

// Archetype derives this player's archetype tag from their static traits.
func (p Player) Archetype() Archetype {
	return DeriveArchetype(p.Age, p.NaturalFitness, p.Stamina, p.InjuryProneness)
}

// BaseRating returns the player's rating for a slot rating column, and
// whether they have one at all. Missing means "cannot play this role."
func (p Player) BaseRating(ratingColumn string) (int, bool) {
	v, ok := p.RoleRatings[ratingColumn]
	return v, ok
}

// FamiliarityFor returns the player's familiarity fraction for a slot
// rating column; missing familiarity is 0, not an error.
func (p Player) FamiliarityFor(ratingColumn string) float64 {
	return p.Familiarity[ratingColumn]
}

// Snapshot extracts the dynamic-state portion of a player for use with the
// Scoring Kernel, which only ever reads state, never the full player.
func (p Player) Snapshot() PlayerStateSnapshot {
	return PlayerStateSnapshot{
		Condition:   p.Condition,
		Sharpness:   p.Sharpness,
		Jadedness:   p.Jadedness,
		RollingLoad: p.RollingLoad,
	}
}

// Available reports whether the player may be used at all (injured and
// suspended players are never eligible).
func (p Player) Available() bool {
	return !p.Injured && !p.Suspended
}

// Clone returns a deep copy safe for copy-on-write per-match projection;
// the orchestrator never mutates the caller's squad snapshot.
func (p Player) Clone() Player {
	clone := p
	clone.RoleRatings = make(map[string]int, len(p.RoleRatings))
	for k, v := range p.RoleRatings {
		clone.RoleRatings[k] = v
	}
	clone.Familiarity = make(map[string]float64, len(p.Familiarity))
	for k, v := range p.Familiarity {
		clone.Familiarity[k] = v
	}
	clone.RollingLoad = p.RollingLoad.Clone()
	if p.InjuryReturnDate != nil {
		t := *p.InjuryReturnDate
		clone.InjuryReturnDate = &t
	}
	return clone
}

// Scenario tags a fixture with the context that drives importance weight,
// scalarisation weights, and scenario-specific gates (§4.1, §4.6).
type Scenario string

const (
	ScenarioCupFinal      Scenario = "cup_final"
	ScenarioContinentalKO Scenario = "continental_ko"
	ScenarioTitleRival    Scenario = "title_rival"
	ScenarioStandard      Scenario = "standard"
	ScenarioCupEarly      Scenario = "cup_early"
	ScenarioDeadRubber    Scenario = "dead_rubber"
	ScenarioSharpness     Scenario = "sharpness"
)

// Fixture is an immutable calendar entry in the planning horizon.
type Fixture struct {
	ID               uuid.UUID
	Date             time.Time
	Importance       float64 // 0.1-10.0
	Scenario         Scenario
	OpponentStrength *float64
}

// Slot is a formation position: a display key and the rating column it
// reads from Player.RoleRatings/Familiarity. RestSlot is a distinguished
// padding column used by the cost matrix builder, never part of a
// formation's eleven.
type Slot struct {
	Key          string
	RatingColumn string
	IsRest       bool
}

const RestRatingColumn = "__REST__"

// RestSlot constructs a padding slot for the n-th rest column.
func RestSlot(index int) Slot {
	return Slot{Key: RestSlotKey(index), RatingColumn: RestRatingColumn, IsRest: true}
}

func RestSlotKey(index int) string {
	return "REST"
}

// Lock pins a player to a slot for a fixture; if compatible with
// availability it is always honoured (§3 invariants).
type Lock struct {
	PlayerID uuid.UUID
	SlotKey  string
}

// Rejection forbids a player from ever filling a slot for a fixture.
type Rejection struct {
	PlayerID uuid.UUID
	SlotKey  string
}

// Constraints bundles the user-supplied overrides accepted by plan_horizon.
type Constraints struct {
	Locks       []Lock
	Rejections  []Rejection
	Unavailable map[uuid.UUID]bool
}

func (c Constraints) isUnavailable(id uuid.UUID) bool {
	return c.Unavailable != nil && c.Unavailable[id]
}

// Assignment is the chosen XI, ordered bench, and planned minutes for one
// fixture.
type Assignment struct {
	Slots   map[string]uuid.UUID // slot key -> player id
	Bench   []uuid.UUID          // ordered
	Minutes map[uuid.UUID]int
}

// PlayerStateSnapshot is the dynamic state of one player at one point in
// the horizon, returned to the caller so downstream advisors (§6) can
// consume it without reaching into the core's internals.
type PlayerStateSnapshot struct {
	Condition   float64
	Sharpness   float64
	Jadedness   float64
	RollingLoad RollingLoadBuffer
}

// RationaleCategory is the machine-readable reason behind one player's
// inclusion or exclusion, per §6.
type RationaleCategory string

const (
	CategorySelectedPeak             RationaleCategory = "selected_peak"
	CategorySelectedSharpnessBuild   RationaleCategory = "selected_sharpness_build"
	CategorySelectedDespiteFatigue   RationaleCategory = "selected_despite_fatigue"
	CategorySelectedHighImportance   RationaleCategory = "selected_high_importance"
	CategoryBenchedFatigueRisk       RationaleCategory = "benched_fatigue_risk"
	CategoryBenchedConditionLow      RationaleCategory = "benched_condition_low"
	CategoryBenchedShadowPreserved   RationaleCategory = "benched_shadow_preserved"
	CategoryBenchedRoleFitLow        RationaleCategory = "benched_role_fit_low"
	CategoryBenchedRotation          RationaleCategory = "benched_rotation"
	CategoryLocked                   RationaleCategory = "locked"
	CategoryRejected                 RationaleCategory = "rejected"
	CategoryUnavailable              RationaleCategory = "unavailable"
)

// Rationale is one structured, machine-readable explanation line.
type Rationale struct {
	PlayerID uuid.UUID
	Category RationaleCategory
	Reason   string
}

// DiagnosticSeverity distinguishes informational notices from warnings
// that should surface to a human.
type DiagnosticSeverity string

const (
	SeverityInfo DiagnosticSeverity = "info"
	SeverityWarn DiagnosticSeverity = "warn"
)

// Diagnostic is a non-fatal note attached to a plan — e.g. a holiday
// recommendation — that never changes the plan itself (§7).
type Diagnostic struct {
	Severity DiagnosticSeverity
	Code     string
	Message  string
	PlayerID *uuid.UUID
	MatchIndex *int
}

// FixtureResult is one match's slice of the HorizonPlan.
type FixtureResult struct {
	FixtureID      uuid.UUID
	MatchIndex     int
	Assignment     Assignment
	ProjectedState map[uuid.UUID]PlayerStateSnapshot
	Rationales     []Rationale
}

// HorizonPlan is the complete output of plan_horizon: one FixtureResult per
// fixture in calendar order, plus any non-fatal diagnostics accumulated
// along the way.
type HorizonPlan struct {
	Fixtures    []FixtureResult
	Diagnostics []Diagnostic
}
