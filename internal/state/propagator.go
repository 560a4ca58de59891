// Package state implements the State Propagator (spec §4.3): given a
// player's prior state and a proposed action (play N minutes at slot S,
// then rest D days before the next match), it produces the next state.
// Propagation is a pure function of its inputs — it never mutates the
// caller's player and running it twice on identical inputs is idempotent.
package state

import (
	"time"

	"github.com/pitchside/horizon-planner/internal/params"
	"github.com/pitchside/horizon-planner/internal/planner"
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Action is the proposed usage between the current state and the next
// match: minutes played at a slot, then a rest gap in whole days.
type Action struct {
	Minutes   int
	Slot      planner.Slot
	RestDays  int
	Scenario  planner.Scenario
}

// jadednessThrottle grows with jadedness and damps condition recovery —
// heavily jaded players recover more slowly even with full rest.
func jadednessThrottle(store *params.Store, jadedness float64) float64 {
	return clamp(jadedness*store.JadednessThrottleScale, 0, 0.9)
}

// intensityFactor scales jadedness accumulation by scenario; high-stakes
// matches are assumed more physically taxing than dead-rubber fixtures.
func intensityFactor(scenario planner.Scenario) float64 {
	switch scenario {
	case planner.ScenarioCupFinal, planner.ScenarioContinentalKO:
		return 1.15
	case planner.ScenarioTitleRival:
		return 1.08
	case planner.ScenarioDeadRubber:
		return 0.85
	default:
		return 1.0
	}
}

// sharpnessDecay applies the piecewise decay curve over the elapsed rest
// days: zero through the grace period, mild through the mid band, a cliff
// beyond it (§4.1, §9's configurable day-4/day-7 inflections).
func sharpnessDecay(store *params.Store, sharpness float64, restDays int) float64 {
	if restDays <= store.SharpnessDecayGraceDays {
		return 0
	}
	mildDays := restDays
	if mildDays > store.SharpnessDecayMildDays {
		mildDays = store.SharpnessDecayMildDays
	}
	mildSpan := mildDays - store.SharpnessDecayGraceDays
	decay := float64(mildSpan) * store.SharpnessDecayMildRate
	if restDays > store.SharpnessDecayMildDays {
		cliffSpan := restDays - store.SharpnessDecayMildDays
		decay += float64(cliffSpan) * store.SharpnessDecayCliffRate
	}
	return clamp(decay, 0, 1) * sharpness
}

// sharpnessGain is the bump from playing minutes, diminishing above the
// configured knee so already-sharp players gain little extra from a cameo.
func sharpnessGain(store *params.Store, sharpness float64, minutes int) float64 {
	if minutes <= 0 {
		return 0
	}
	fraction := float64(minutes) / 90.0
	damping := 1.0
	if sharpness > store.SharpnessGainDiminishStart {
		span := 1.0 - store.SharpnessGainDiminishStart
		over := sharpness - store.SharpnessGainDiminishStart
		damping = 1.0 - (over/span)*(1.0-store.SharpnessGainDiminishFloor)
		if damping < store.SharpnessGainDiminishFloor {
			damping = store.SharpnessGainDiminishFloor
		}
	}
	return fraction * store.SharpnessGainRate * damping
}

// Propagate advances a player's dynamic state by one action and returns
// the next state, whose rolling-load buffer carries the entry the action
// produced (no entry when minutes is zero). It never mutates p.
func Propagate(store *params.Store, p planner.Player, matchDate time.Time, action Action) planner.Player {
	next := p.Clone()

	family := planner.SlotFamily(action.Slot.RatingColumn)
	drag := store.DragFor(family)

	minuteFraction := float64(action.Minutes) / 90.0
	drainRate := drag * store.ConditionDrainScale
	deltaConditionMatch := minuteFraction * drainRate * (1 - float64(p.Stamina)/200.0)

	throttle := jadednessThrottle(store, p.Jadedness)
	deltaConditionRecovery := float64(action.RestDays) * store.RecoveryRate * (float64(p.NaturalFitness) / 100.0) * (1 - throttle)

	nextCondition := clamp(p.Condition-deltaConditionMatch+deltaConditionRecovery, 0, 1)

	gain := sharpnessGain(store, p.Sharpness, action.Minutes)
	decay := sharpnessDecay(store, p.Sharpness, action.RestDays)
	nextSharpness := clamp(p.Sharpness+gain-decay, 0, 1)

	windowMinutes := p.RollingLoad.Minutes14Day(matchDate, store.RollingWindowDays) + action.Minutes
	deltaJadedness := float64(action.Minutes) * drag * intensityFactor(action.Scenario)
	if windowMinutes > store.RollingWindowThreshold {
		deltaJadedness *= store.RollingWindowMultiplier
	}
	// Background recovery: spec §4.3 ties ~5 pts/day of normal-rest recovery
	// to the out-of-band holiday/training advisor; the core applies the
	// background component only (holidays themselves are signalled, not
	// executed, per §6).
	backgroundRecovery := float64(action.RestDays) * 5.0
	nextJadedness := clamp(p.Jadedness+deltaJadedness-backgroundRecovery, 0, 1000)

	next.Condition = nextCondition
	next.Sharpness = nextSharpness
	next.Jadedness = nextJadedness
	next.RollingLoad = p.RollingLoad.Add(matchDate, action.Minutes, drag, store.RollingWindowDays)

	return next
}
