// Package scoring implements the Scoring Kernel (spec §4.2): the pure,
// total, deterministic functions that turn a player, a slot, and a
// transient state into the Global Selection Score (GSS).
package scoring

import (
	"fmt"
	"math"

	"github.com/pitchside/horizon-planner/internal/params"
	"github.com/pitchside/horizon-planner/internal/planner"
)

// Diagnostics accumulates non-fatal clamp notices raised while scoring.
// It is supplied by the caller (typically the orchestrator) and never
// changes the score itself — only what gets reported alongside the plan.
type Diagnostics struct {
	notes []planner.Diagnostic
}

func (d *Diagnostics) add(n planner.Diagnostic) {
	if d == nil {
		return
	}
	d.notes = append(d.notes, n)
}

// Drain returns and clears the accumulated diagnostics.
func (d *Diagnostics) Drain() []planner.Diagnostic {
	if d == nil {
		return nil
	}
	out := d.notes
	d.notes = nil
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// Quantize2 rounds to two decimal places so tie-breaking is deterministic
// across platforms (§4.2, §5).
func Quantize2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BaseScore returns the player's role rating for the slot and whether one
// exists at all — a missing rating means "cannot play this role."
func BaseScore(p planner.Player, s planner.Slot) (float64, bool) {
	v, ok := p.BaseRating(s.RatingColumn)
	if !ok {
		return 0, false
	}
	return float64(v), true
}

// ConditionFactor is σ(k·(c − c0)).
func ConditionFactor(store *params.Store, condition float64) float64 {
	return sigmoid(store.ConditionK * (condition - store.ConditionC0))
}

// SharpnessFactor is the bounded sigmoid Ψ(s) = 1.02·σ(k(s−s0)) − 0.02.
func SharpnessFactor(store *params.Store, sharpness float64) float64 {
	return 1.02*sigmoid(store.SharpnessK*(sharpness-store.SharpnessS0)) - 0.02
}

// FamiliarityFactor is the linear map Θ(f) = clamp(0.7 + 0.3f, 0.7, 1.0).
func FamiliarityFactor(store *params.Store, familiarity float64) float64 {
	raw := store.FamiliarityBase + store.FamiliarityScale*familiarity
	return clamp(raw, store.FamiliarityBase, store.FamiliarityBase+store.FamiliarityScale)
}

// JadednessFactor is the step function over §4.1's thresholds.
func JadednessFactor(store *params.Store, jadedness float64) float64 {
	return store.JadednessFactor(jadedness)
}

// clampState clamps state fields into their declared ranges, recording a
// diagnostic for any field that needed clamping (§4.2 "Failure modes").
func clampState(state planner.PlayerStateSnapshot, player *planner.Player, diag *Diagnostics) planner.PlayerStateSnapshot {
	out := state
	if state.Condition < 0 || state.Condition > 1 {
		out.Condition = clamp(state.Condition, 0, 1)
		noteClamp(diag, player, "condition", state.Condition, out.Condition)
	}
	if state.Sharpness < 0 || state.Sharpness > 1 {
		out.Sharpness = clamp(state.Sharpness, 0, 1)
		noteClamp(diag, player, "sharpness", state.Sharpness, out.Sharpness)
	}
	if state.Jadedness < 0 || state.Jadedness > 1000 {
		out.Jadedness = clamp(state.Jadedness, 0, 1000)
		noteClamp(diag, player, "jadedness", state.Jadedness, out.Jadedness)
	}
	return out
}

func noteClamp(diag *Diagnostics, p *planner.Player, field string, from, to float64) {
	if diag == nil {
		return
	}
	id := p.ID
	diag.add(planner.Diagnostic{
		Severity: planner.SeverityWarn,
		Code:     "clamped_" + field,
		Message:  fmt.Sprintf("%s %.4f out of declared range, clamped to %.4f before scoring", field, from, to),
		PlayerID: &id,
	})
}

// GSS computes the Global Selection Score: the product of the five factor
// functions, gated by availability and (outside CupFinal) the condition
// floor. ok=false means the score is not a candidate at all — either the
// player has no rating for this slot, or a hard gate forbids it.
func GSS(p planner.Player, s planner.Slot, state planner.PlayerStateSnapshot, scenario planner.Scenario, store *params.Store, diag *Diagnostics) (float64, bool) {
	base, ok := BaseScore(p, s)
	if !ok {
		return 0, false
	}
	if !p.Available() {
		return 0, false
	}

	clamped := clampState(state, &p, diag)

	conditionMultiplier := 1.0
	if clamped.Condition < store.ConditionFloor {
		if scenario == planner.ScenarioCupFinal {
			conditionMultiplier = 0.8
		} else {
			return 0, false
		}
	}

	cf := ConditionFactor(store, clamped.Condition) * conditionMultiplier
	sf := SharpnessFactor(store, clamped.Sharpness)
	ff := FamiliarityFactor(store, p.FamiliarityFor(s.RatingColumn))
	jf := JadednessFactor(store, clamped.Jadedness)

	gss := base * cf * sf * ff * jf
	return Quantize2(gss), true
}
