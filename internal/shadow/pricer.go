// Package shadow implements the Shadow Pricer (spec §4.4): for each
// (player, match) pair in the horizon it computes λ(p,t) ≥ 0, the expected
// future utility lost if p plays now rather than resting. The algorithm is
// the single-pass trajectory bifurcation the spec calls for — an O(N·H)
// heuristic, explicitly not a full Lagrangian dual.
package shadow

import (
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/pitchside/horizon-planner/internal/params"
	"github.com/pitchside/horizon-planner/internal/planner"
	"github.com/pitchside/horizon-planner/internal/scoring"
	"github.com/pitchside/horizon-planner/internal/state"
)

// Prices is the λ(p,t) result for one fixture index t, plus squad-wide
// summary statistics of the per-player backup gaps that feed each player's
// VORP scarcity multiplier — kept around for diagnostics rather than
// recomputed by callers.
type Prices struct {
	Lambda     map[uuid.UUID]float64
	GapMean    float64
	GapStdDev  float64
}

// bestFitSlot returns the formation slot at which a player has their
// highest base rating, used as the fixed projection slot for both the
// play and rest trajectories.
func bestFitSlot(p planner.Player, slots []planner.Slot) (planner.Slot, bool) {
	var best planner.Slot
	bestRating := -1
	found := false
	for _, s := range slots {
		if s.IsRest {
			continue
		}
		if r, ok := p.BaseRating(s.RatingColumn); ok && r > bestRating {
			bestRating = r
			best = s
			found = true
		}
	}
	return best, found
}

// Compute derives λ(p,t) for every available squad player at fixture index
// t, using the remaining sub-horizon [t+1, T). squad and fixtures must
// already reflect the pre-match-t projected state (the orchestrator's
// PrepareStates step runs first).
func Compute(store *params.Store, squad []planner.Player, fixtures []planner.Fixture, t int, slots []planner.Slot) Prices {
	lambda := make(map[uuid.UUID]float64, len(squad))
	gaps := make([]float64, 0, len(squad))

	if t >= len(fixtures)-1 {
		for _, p := range squad {
			lambda[p.ID] = 0
		}
		return Prices{Lambda: lambda}
	}

	slotByPlayer := make(map[uuid.UUID]planner.Slot, len(squad))
	for _, p := range squad {
		if !p.Available() {
			continue
		}
		slot, ok := bestFitSlot(p, slots)
		if !ok {
			continue
		}
		slotByPlayer[p.ID] = slot
	}

	for _, p := range squad {
		if !p.Available() {
			lambda[p.ID] = 0
			continue
		}
		slot, ok := slotByPlayer[p.ID]
		if !ok {
			lambda[p.ID] = 0
			continue
		}

		playState, restState := p, p
		sum := 0.0
		for k := t + 1; k < len(fixtures); k++ {
			gap := daysBetween(fixtures[k-1].Date, fixtures[k].Date)

			playState = state.Propagate(store, playState, fixtures[k-1].Date, state.Action{
				Minutes:  minutesFor(k-1, t),
				Slot:     slot,
				RestDays: gap,
				Scenario: fixtures[k-1].Scenario,
			})
			restState = state.Propagate(store, restState, fixtures[k-1].Date, state.Action{
				Minutes:  0,
				Slot:     slot,
				RestDays: gap,
				Scenario: fixtures[k-1].Scenario,
			})

			restGSS, restOK := scoring.GSS(restState, slot, restState.Snapshot(), fixtures[k].Scenario, store, nil)
			playGSS, playOK := scoring.GSS(playState, slot, playState.Snapshot(), fixtures[k].Scenario, store, nil)
			if !restOK {
				restGSS = 0
			}
			if !playOK {
				playGSS = 0
			}

			deltaGSS := restGSS - playGSS
			if deltaGSS < 0 {
				deltaGSS = 0
			}

			importance := store.ImportanceWeightFor(fixtures[k].Scenario)
			discount := pow(store.ShadowGamma, k-t)
			sum += discount * importance * deltaGSS
		}

		backupGap := scarcityGap(store, p, slot, fixtures[t].Scenario, squad)
		gaps = append(gaps, backupGap)
		alpha := 1 + store.ShadowScarcityLambda*clampMin(0.5, backupGap)

		lambda[p.ID] = scoring.Quantize2(alpha * store.ShadowWeight * sum)
	}

	result := Prices{Lambda: lambda}
	if len(gaps) > 0 {
		result.GapMean = stat.Mean(gaps, nil)
		if len(gaps) > 1 {
			result.GapStdDev = stat.StdDev(gaps, nil)
		}
	}
	return result
}

// scarcityGap computes (GSS_star - GSS_backup)/GSS_star for a player at
// their best-fit slot (§4.4 step 3), evaluating GSS for p and every
// candidate backup against each player's own current projected state —
// condition, sharpness, and jadedness genuinely differ across the squad,
// so the comparison cannot be reduced to base ratings alone.
func scarcityGap(store *params.Store, p planner.Player, slot planner.Slot, scenario planner.Scenario, squad []planner.Player) float64 {
	starGSS, ok := scoring.GSS(p, slot, p.Snapshot(), scenario, store, nil)
	if !ok || starGSS <= 0 {
		return 0
	}
	backupGSS := 0.0
	for _, other := range squad {
		if other.ID == p.ID || !other.Available() {
			continue
		}
		gss, ok := scoring.GSS(other, slot, other.Snapshot(), scenario, store, nil)
		if !ok {
			continue
		}
		if gss > backupGSS {
			backupGSS = gss
		}
	}
	return (starGSS - backupGSS) / starGSS
}

func clampMin(cap, v float64) float64 {
	if v > cap {
		return cap
	}
	if v < 0 {
		return 0
	}
	return v
}

func pow(base float64, exp int) float64 {
	if exp <= 0 {
		return 1
	}
	result := 1.0
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}

// minutesFor returns 90 only for the play trajectory's single divergence
// point — match t itself — and 0 everywhere else, per §4.4 step 1: "plays
// 90 minutes at t, rests otherwise."
func minutesFor(matchIndex, t int) int {
	if matchIndex == t {
		return 90
	}
	return 0
}

func daysBetween(a, b time.Time) int {
	d := int(b.Sub(a).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
