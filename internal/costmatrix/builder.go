// Package costmatrix implements the Cost Matrix Builder (spec §4.5): for
// one fixture it assembles the GK and outfield cost matrices the
// Assignment Solver minimises over, applying utility, the condition-cliff
// overlay, multi-objective scalarisation, stability costs, hard
// constraints, and REST padding.
//
// Rows are slots (plus REST pad rows on the outfield matrix), columns are
// candidate players — the transpose of spec §4.5 step 1's literal
// (players)×(slots) framing, chosen because §4.5 step 6 explicitly sizes
// the partitioned submatrices as 1×N_GK and 10×N_outfield (rows=slots).
// See DESIGN.md for the full resolution of that orientation ambiguity.
package costmatrix

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/pitchside/horizon-planner/internal/params"
	"github.com/pitchside/horizon-planner/internal/planner"
	"github.com/pitchside/horizon-planner/internal/scoring"
)

// Ledger is the stability history the orchestrator owns per-plan (§3
// "Assignment history... owned by the orchestrator and discarded when the
// horizon completes", §9 "not process-wide").
type Ledger struct {
	PreviousSlot      map[uuid.UUID]string
	ConsecutiveStarts map[uuid.UUID]int
}

// NewLedger returns an empty ledger, the starting point for match 1.
func NewLedger() Ledger {
	return Ledger{
		PreviousSlot:      map[uuid.UUID]string{},
		ConsecutiveStarts: map[uuid.UUID]int{},
	}
}

// Advance folds one fixture's assignment into the ledger for the next
// fixture's stability costs.
func (l Ledger) Advance(assignment planner.Assignment) Ledger {
	next := Ledger{
		PreviousSlot:      map[uuid.UUID]string{},
		ConsecutiveStarts: map[uuid.UUID]int{},
	}
	for slotKey, playerID := range assignment.Slots {
		next.PreviousSlot[playerID] = slotKey
		streak := 1
		if prevSlot, ok := l.PreviousSlot[playerID]; ok && prevSlot == slotKey {
			streak = l.ConsecutiveStarts[playerID] + 1
		}
		next.ConsecutiveStarts[playerID] = streak
	}
	return next
}

// Input bundles everything the builder needs for one fixture. Squad must
// already reflect the pre-match-t projected state.
type Input struct {
	Squad       []planner.Player
	Formation   []planner.Slot
	Fixture     planner.Fixture
	NextFixture *planner.Fixture
	Lambda      map[uuid.UUID]float64
	Constraints planner.Constraints
	Ledger      Ledger
	Store       *params.Store
}

// Matrix is one rows(slots)×cols(players) cost matrix.
type Matrix struct {
	Slots   []planner.Slot
	Players []uuid.UUID
	Cost    *mat.Dense
}

// Result is everything BuildMatrix produces for one fixture.
type Result struct {
	GK          Matrix
	Outfield    Matrix
	Diagnostics []planner.Diagnostic
}

func sortedByID(players []planner.Player) []planner.Player {
	out := make([]planner.Player, len(players))
	copy(out, players)
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out
}

// ValidateLocks checks the §4.5 step 4 lock-conflict preconditions before
// any matrix is built: two locks on the same slot, or a lock on an
// unavailable / role-incompatible player.
func ValidateLocks(squad []planner.Player, formation []planner.Slot, constraints planner.Constraints) *planner.PlanError {
	bySlot := map[string][]string{}
	byPlayer := map[uuid.UUID]planner.Player{}
	for _, p := range squad {
		byPlayer[p.ID] = p
	}
	columnBySlot := map[string]string{}
	for _, s := range formation {
		columnBySlot[s.Key] = s.RatingColumn
	}

	for _, lock := range constraints.Locks {
		bySlot[lock.SlotKey] = append(bySlot[lock.SlotKey], lock.PlayerID.String())

		p, ok := byPlayer[lock.PlayerID]
		if !ok {
			return planner.NewLockConflict(lock.SlotKey, []string{lock.PlayerID.String()},
				fmt.Sprintf("locked player %s not found in squad", lock.PlayerID))
		}
		if !p.Available() || constraints.Unavailable[p.ID] {
			return planner.NewLockConflict(lock.SlotKey, []string{lock.PlayerID.String()},
				fmt.Sprintf("locked player %s is unavailable", p.Name))
		}
		column, ok := columnBySlot[lock.SlotKey]
		if !ok {
			return planner.NewLockConflict(lock.SlotKey, []string{lock.PlayerID.String()},
				fmt.Sprintf("slot %s does not exist in this formation", lock.SlotKey))
		}
		if _, hasRating := p.BaseRating(column); !hasRating {
			return planner.NewLockConflict(lock.SlotKey, []string{lock.PlayerID.String()},
				fmt.Sprintf("locked player %s has no rating for slot %s", p.Name, lock.SlotKey))
		}
	}

	for slotKey, ids := range bySlot {
		if len(ids) > 1 {
			return planner.NewLockConflict(slotKey, ids,
				fmt.Sprintf("multiple locks on slot %s", slotKey))
		}
	}
	return nil
}

func lockedSlotFor(constraints planner.Constraints, playerID uuid.UUID) (string, bool) {
	for _, l := range constraints.Locks {
		if l.PlayerID == playerID {
			return l.SlotKey, true
		}
	}
	return "", false
}

func isRejected(constraints planner.Constraints, playerID uuid.UUID, slotKey string) bool {
	for _, r := range constraints.Rejections {
		if r.PlayerID == playerID && r.SlotKey == slotKey {
			return true
		}
	}
	return false
}

// conditionCliffMultiplier applies the discrete overlay of §4.5 step 2 on
// top of the continuous condition sigmoid, and reports whether the band is
// forbidding.
func conditionCliffMultiplier(store *params.Store, condition float64) (float64, bool) {
	for _, band := range store.ConditionCliffBands {
		if condition >= band.MinCondition {
			if band.Forbidden {
				return 0, true
			}
			return band.Multiplier, false
		}
	}
	return 1.0, false
}

func devPenalty(store *params.Store, p planner.Player, wDev float64) float64 {
	if wDev == 0 {
		return 0
	}
	over := float64(p.Age) - store.DevPenaltyAgeFloor
	if over < 0 {
		over = 0
	}
	return over / store.DevPenaltyScale
}

func stabilityCost(store *params.Store, ledger Ledger, playerID uuid.UUID, slotKey string) float64 {
	prevSlot, started := ledger.PreviousSlot[playerID]
	if !started {
		return 0
	}
	if prevSlot == slotKey {
		bonus := store.StabilityContinuityBonus
		if ledger.ConsecutiveStarts[playerID] >= store.StabilityAnchorThreshold {
			bonus *= store.StabilityAnchorMultiplier
		}
		return -bonus
	}
	return store.StabilityBaseSwitchCost
}

// cellCost computes one (player, slot) cost cell fully, short-circuiting
// through hard constraints before reaching the scalarised soft cost.
func cellCost(store *params.Store, p planner.Player, slot planner.Slot, in Input, diag *scoring.Diagnostics) float64 {
	if !p.Available() || in.Constraints.Unavailable[p.ID] {
		return params.BigM
	}
	if isRejected(in.Constraints, p.ID, slot.Key) {
		return params.BigM
	}
	if lockedSlot, ok := lockedSlotFor(in.Constraints, p.ID); ok {
		if lockedSlot == slot.Key {
			return -params.BigM
		}
		return params.BigM
	}

	gss, ok := scoring.GSS(p, slot, p.Snapshot(), in.Fixture.Scenario, store, diag)
	if !ok {
		return params.BigM
	}

	multiplier, forbidden := conditionCliffMultiplier(store, p.Condition)
	if forbidden {
		return params.BigM
	}
	utility := gss * multiplier

	weights := store.ScenarioWeightsFor(in.Fixture.Scenario)
	lambda := in.Lambda[p.ID]
	total := weights.WPerf*(-utility) + weights.WRest*lambda + weights.WDev*devPenalty(store, p, weights.WDev)
	total += stabilityCost(store, in.Ledger, p.ID, slot.Key)

	return scoring.Quantize2(total)
}

func restRowCost(store *params.Store, p planner.Player, nextFixture *planner.Fixture) float64 {
	if nextFixture == nil {
		return store.RestBaseCost
	}
	fatigue := p.Jadedness / 1000.0
	if fatigue > 1 {
		fatigue = 1
	}
	importanceFraction := nextFixture.Importance / 10.0
	if importanceFraction > 1 {
		importanceFraction = 1
	}
	cost := store.RestBaseCost - store.RestFatigueWeight*fatigue*importanceFraction
	return scoring.Quantize2(cost)
}

// Build assembles the GK and outfield matrices for one fixture. Callers
// must run ValidateLocks first; Build does not repeat that check.
func Build(in Input) Result {
	var diagnostics []planner.Diagnostic
	diag := &scoring.Diagnostics{}

	squad := sortedByID(in.Squad)

	var gkSlot planner.Slot
	outfieldSlots := make([]planner.Slot, 0, len(in.Formation)-1)
	for _, s := range in.Formation {
		if planner.IsGoalkeeperSlot(s) {
			gkSlot = s
		} else {
			outfieldSlots = append(outfieldSlots, s)
		}
	}

	gkCandidates := make([]uuid.UUID, 0, len(squad))
	for _, p := range squad {
		if _, ok := p.BaseRating(gkSlot.RatingColumn); ok {
			gkCandidates = append(gkCandidates, p.ID)
		} else if lockedSlot, ok := lockedSlotFor(in.Constraints, p.ID); ok && lockedSlot == gkSlot.Key {
			gkCandidates = append(gkCandidates, p.ID)
		}
	}
	gkMatrix := mat.NewDense(1, len(gkCandidates), nil)
	playerByID := make(map[uuid.UUID]planner.Player, len(squad))
	for _, p := range squad {
		playerByID[p.ID] = p
	}
	for j, id := range gkCandidates {
		gkMatrix.Set(0, j, cellCost(in.Store, playerByID[id], gkSlot, in, diag))
	}

	outfieldCandidates := make([]uuid.UUID, 0, len(squad))
	for _, p := range squad {
		if planner.IsGoalkeeperOnly(p) {
			continue
		}
		outfieldCandidates = append(outfieldCandidates, p.ID)
	}

	restPadCount := len(outfieldCandidates) - len(outfieldSlots)
	if restPadCount < 0 {
		restPadCount = 0
	}
	rows := make([]planner.Slot, 0, len(outfieldSlots)+restPadCount)
	rows = append(rows, outfieldSlots...)
	for i := 0; i < restPadCount; i++ {
		rows = append(rows, planner.RestSlot(i))
	}

	outfieldMatrix := mat.NewDense(len(rows), len(outfieldCandidates), nil)
	for i, slot := range rows {
		for j, id := range outfieldCandidates {
			p := playerByID[id]
			if slot.IsRest {
				outfieldMatrix.Set(i, j, restRowCost(in.Store, p, in.NextFixture))
				continue
			}
			outfieldMatrix.Set(i, j, cellCost(in.Store, p, slot, in, diag))
		}
	}

	diagnostics = append(diagnostics, diag.Drain()...)

	return Result{
		GK:       Matrix{Slots: []planner.Slot{gkSlot}, Players: gkCandidates, Cost: gkMatrix},
		Outfield: Matrix{Slots: rows, Players: outfieldCandidates, Cost: outfieldMatrix},
		Diagnostics: diagnostics,
	}
}
