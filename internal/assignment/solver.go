// Package assignment implements the Assignment Solver (spec §4.6): the
// two-stage rectangular minimum-weight matching that turns cost matrices
// into an XI and an ordered bench, including the goalkeeper/outfield
// partition, the Sharpness-scenario objective override, and post-solve
// validation.
package assignment

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/pitchside/horizon-planner/internal/costmatrix"
	"github.com/pitchside/horizon-planner/internal/params"
	"github.com/pitchside/horizon-planner/internal/planner"
	"github.com/pitchside/horizon-planner/internal/scoring"
)

// infeasibleThreshold is the post-solve validation bound (§4.6): any
// solved cost at or above this is treated as "every candidate forbidden"
// for that cell, not a genuine optimum.
const infeasibleThreshold = params.BigM / 2

// numericalBreachThreshold is the §8 Big-M safety property: total solved
// cost must stay comfortably below M. A solved total at or above this
// indicates a builder/solver invariant violation, not user-facing
// infeasibility.
const numericalBreachThreshold = 100_000.0

// Solve runs the full two-stage workflow for one fixture: GK, then
// outfield (with the Sharpness-scenario override applied when relevant),
// then the Coverage Utility bench.
func Solve(matrices costmatrix.Result, store *params.Store, fixture planner.Fixture, squad []planner.Player, matchIndex int) (planner.Assignment, []planner.Diagnostic, *planner.PlanError) {
	playerByID := make(map[uuid.UUID]planner.Player, len(squad))
	for _, p := range squad {
		playerByID[p.ID] = p
	}

	keeperID, keeperCost, gkErr := solveGK(matrices.GK, playerByID, matchIndex)
	if gkErr != nil {
		return planner.Assignment{}, nil, gkErr
	}
	if keeperCost >= numericalBreachThreshold {
		return planner.Assignment{}, nil, planner.NewNumericalBreach(matchIndex, "goalkeeper solve exceeded Big-M safety bound")
	}

	reduced := removeColumn(matrices.Outfield, keeperID)
	reduced, err := rebalanceRows(reduced, matchIndex)
	if err != nil {
		return planner.Assignment{}, nil, err
	}

	if fixture.Scenario == planner.ScenarioSharpness {
		reduced, err = applySharpnessOverride(reduced, store, playerByID, matchIndex)
		if err != nil {
			return planner.Assignment{}, nil, err
		}
	}

	slotAssignments, benchCandidates, outfieldTotal, solveErr := solveOutfield(reduced, playerByID, matchIndex)
	if solveErr != nil {
		return planner.Assignment{}, nil, solveErr
	}
	if outfieldTotal >= numericalBreachThreshold {
		return planner.Assignment{}, nil, planner.NewNumericalBreach(matchIndex, "outfield solve exceeded Big-M safety bound")
	}

	slots := map[string]uuid.UUID{matrices.GK.Slots[0].Key: keeperID}
	for slotKey, playerID := range slotAssignments {
		slots[slotKey] = playerID
	}

	if dupErr := validateNoDuplicates(slots); dupErr != nil {
		return planner.Assignment{}, nil, dupErr
	}

	bench := coverageBench(store, playerByID, benchCandidates, formationSlotsFrom(matrices), fixture.Scenario)

	assignment := planner.Assignment{
		Slots:   slots,
		Bench:   bench,
		Minutes: map[uuid.UUID]int{},
	}
	return assignment, nil, nil
}

func formationSlotsFrom(matrices costmatrix.Result) []planner.Slot {
	slots := make([]planner.Slot, 0, len(matrices.Outfield.Slots)+1)
	slots = append(slots, matrices.GK.Slots[0])
	for _, s := range matrices.Outfield.Slots {
		if !s.IsRest {
			slots = append(slots, s)
		}
	}
	return slots
}

func solveGK(gk costmatrix.Matrix, playerByID map[uuid.UUID]planner.Player, matchIndex int) (uuid.UUID, float64, *planner.PlanError) {
	if len(gk.Players) == 0 {
		return uuid.Nil, 0, planner.NewInfeasibleSlot(matchIndex, gk.Slots[0].Key, planner.ReasonNoCandidates,
			"no goalkeeper-capable candidate available")
	}
	rowToCol, total := SolveRectangular(gk.Cost)
	col := rowToCol[0]
	if gk.Cost.At(0, col) >= infeasibleThreshold {
		if allInjuredOrSuspended(gk.Players, playerByID) {
			return uuid.Nil, 0, planner.NewInfeasibleSlot(matchIndex, gk.Slots[0].Key, planner.ReasonAllInjuredOrSuspended,
				"every goalkeeper candidate is injured or suspended")
		}
		return uuid.Nil, 0, planner.NewInfeasibleSlot(matchIndex, gk.Slots[0].Key, planner.ReasonAllForbiddenByConstraints,
			"every goalkeeper candidate forbidden by constraints or availability")
	}
	return gk.Players[col], total, nil
}

// allInjuredOrSuspended reports whether every candidate in ids is
// unavailable purely because of injury/suspension, letting the caller
// distinguish §7's all_injured_or_suspended reason from the broader
// all_forbidden_by_constraints (locks, rejections, unavailable flags).
func allInjuredOrSuspended(ids []uuid.UUID, playerByID map[uuid.UUID]planner.Player) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if playerByID[id].Available() {
			return false
		}
	}
	return true
}

func removeColumn(m costmatrix.Matrix, playerID uuid.UUID) costmatrix.Matrix {
	idx := -1
	for i, id := range m.Players {
		if id == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return m
	}
	rows, cols := m.Cost.Dims()
	out := mat.NewDense(rows, cols-1, nil)
	players := make([]uuid.UUID, 0, cols-1)
	col := 0
	for j := 0; j < cols; j++ {
		if j == idx {
			continue
		}
		for i := 0; i < rows; i++ {
			out.Set(i, col, m.Cost.At(i, j))
		}
		players = append(players, m.Players[j])
		col++
	}
	return costmatrix.Matrix{Slots: m.Slots, Players: players, Cost: out}
}

// rebalanceRows drops one REST pad row when removing the keeper's column
// left rows > cols, keeping the rectangular solver's rows<=cols contract
// intact (the builder sized REST rows against the full candidate pool,
// before the keeper was known).
func rebalanceRows(m costmatrix.Matrix, matchIndex int) (costmatrix.Matrix, *planner.PlanError) {
	rows, cols := m.Cost.Dims()
	if rows <= cols {
		return m, nil
	}
	excess := rows - cols
	restIdx := make([]int, 0, excess)
	for i := len(m.Slots) - 1; i >= 0 && len(restIdx) < excess; i-- {
		if m.Slots[i].IsRest {
			restIdx = append(restIdx, i)
		}
	}
	if len(restIdx) < excess {
		return m, planner.NewInfeasibleSlot(matchIndex, m.Slots[0].Key, planner.ReasonNoCandidates,
			"not enough outfield-eligible candidates to fill every slot")
	}
	drop := make(map[int]bool, excess)
	for _, i := range restIdx {
		drop[i] = true
	}
	newRows := rows - excess
	out := mat.NewDense(newRows, cols, nil)
	slots := make([]planner.Slot, 0, newRows)
	r := 0
	for i := 0; i < rows; i++ {
		if drop[i] {
			continue
		}
		for j := 0; j < cols; j++ {
			out.Set(r, j, m.Cost.At(i, j))
		}
		slots = append(slots, m.Slots[i])
		r++
	}
	return costmatrix.Matrix{Slots: slots, Players: m.Players, Cost: out}, nil
}

// applySharpnessOverride implements §4.6's two-phase Sharpness-scenario
// objective: restrict to the notional XI plus top-N backups, then boost
// low-sharpness and penalise near-peak-sharpness players within that pool,
// leaving hard-constraint cells (already at ±Big-M) untouched.
func applySharpnessOverride(m costmatrix.Matrix, store *params.Store, playerByID map[uuid.UUID]planner.Player, matchIndex int) (costmatrix.Matrix, *planner.PlanError) {
	rowToCol, _ := SolveRectangular(m.Cost)
	selected := map[int]bool{}
	for i, col := range rowToCol {
		if m.Slots[i].IsRest {
			continue
		}
		selected[col] = true
	}

	type ranked struct {
		col  int
		best float64
	}
	var backups []ranked
	for j := range m.Players {
		if selected[j] {
			continue
		}
		best := params.BigM
		rows, _ := m.Cost.Dims()
		for i := 0; i < rows; i++ {
			if !m.Slots[i].IsRest && m.Cost.At(i, j) < best {
				best = m.Cost.At(i, j)
			}
		}
		backups = append(backups, ranked{col: j, best: best})
	}
	sort.Slice(backups, func(i, j int) bool { return backups[i].best < backups[j].best })

	poolCols := map[int]bool{}
	for col := range selected {
		poolCols[col] = true
	}
	for i := 0; i < store.SharpnessPoolBackups && i < len(backups); i++ {
		poolCols[backups[i].col] = true
	}

	rows, cols := m.Cost.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, m.Cost.At(i, j))
		}
	}
	for j := range m.Players {
		p := playerByID[m.Players[j]]
		for i := 0; i < rows; i++ {
			if m.Slots[i].IsRest {
				continue
			}
			cur := out.At(i, j)
			if cur >= infeasibleThreshold || cur <= -infeasibleThreshold {
				continue
			}
			if !poolCols[j] {
				out.Set(i, j, params.BigM)
				continue
			}
			if p.Sharpness < store.SharpnessLowThreshold {
				out.Set(i, j, scoring.Quantize2(cur-store.SharpnessBoostAmount))
			} else if p.Sharpness >= store.SharpnessHighThreshold {
				out.Set(i, j, scoring.Quantize2(cur+store.SharpnessPenaltyAmount))
			}
		}
	}

	return costmatrix.Matrix{Slots: m.Slots, Players: m.Players, Cost: out}, nil
}

func solveOutfield(m costmatrix.Matrix, playerByID map[uuid.UUID]planner.Player, matchIndex int) (map[string]uuid.UUID, []uuid.UUID, float64, *planner.PlanError) {
	rowToCol, total := SolveRectangular(m.Cost)

	result := map[string]uuid.UUID{}
	usedCols := map[int]bool{}
	for i, col := range rowToCol {
		slot := m.Slots[i]
		cost := m.Cost.At(i, col)
		usedCols[col] = true
		if slot.IsRest {
			continue
		}
		if cost >= infeasibleThreshold {
			if allInjuredOrSuspended(m.Players, playerByID) {
				return nil, nil, 0, planner.NewInfeasibleSlot(matchIndex, slot.Key, planner.ReasonAllInjuredOrSuspended,
					fmt.Sprintf("every candidate for slot %s is injured or suspended", slot.Key))
			}
			return nil, nil, 0, planner.NewInfeasibleSlot(matchIndex, slot.Key, planner.ReasonAllForbiddenByConstraints,
				fmt.Sprintf("no legal candidate for slot %s", slot.Key))
		}
		result[slot.Key] = m.Players[col]
	}

	residual := make([]uuid.UUID, 0, len(m.Players))
	for j, id := range m.Players {
		if !usedCols[j] {
			residual = append(residual, id)
		}
	}

	return result, residual, total, nil
}

func validateNoDuplicates(slots map[string]uuid.UUID) *planner.PlanError {
	seen := map[uuid.UUID]string{}
	for slotKey, playerID := range slots {
		if other, ok := seen[playerID]; ok {
			return planner.NewNumericalBreach(0, fmt.Sprintf("player %s assigned to both %s and %s", playerID, other, slotKey))
		}
		seen[playerID] = slotKey
	}
	return nil
}

// coverageBench implements §4.6 Stage 2: U_cover(p) = Σ GSS(p,s)·P_injury(s)
// over the formation's real slots, rewarding versatility over peak single-
// slot ability. Ordered descending, ties broken by ascending player id.
func coverageBench(store *params.Store, playerByID map[uuid.UUID]planner.Player, residual []uuid.UUID, formation []planner.Slot, scenario planner.Scenario) []uuid.UUID {
	type scored struct {
		id    uuid.UUID
		score float64
	}
	out := make([]scored, 0, len(residual))
	for _, id := range residual {
		p := playerByID[id]
		if !p.Available() {
			continue
		}
		total := 0.0
		for _, slot := range formation {
			gss, ok := scoring.GSS(p, slot, p.Snapshot(), scenario, store, nil)
			if !ok {
				continue
			}
			family := planner.SlotFamily(slot.RatingColumn)
			prob := store.InjuryProbabilityBySlotFamily[family]
			total += gss * prob
		}
		out = append(out, scored{id: id, score: scoring.Quantize2(total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].id.String() < out[j].id.String()
	})

	limit := store.BenchSize
	if limit > len(out) {
		limit = len(out)
	}
	bench := make([]uuid.UUID, limit)
	for i := 0; i < limit; i++ {
		bench[i] = out[i].id
	}
	return bench
}
