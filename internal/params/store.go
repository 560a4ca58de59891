// Package params is the Parameter Store (spec §4.1): the single source of
// truth for every numeric constant the planning pipeline reads. A Store is
// constructed once per plan_horizon call, passed by reference, and never
// mutated for the duration of that call — every downstream package takes
// a *Store rather than reading package-level constants.
package params

import "github.com/pitchside/horizon-planner/internal/planner"

// BigM is the forbidden-assignment sentinel cost (§4.1, §9). It must
// exceed any feasible matrix sum (≈ 11·200 = 2200) by orders of magnitude
// while staying well inside float64 precision; 10^6 is a contract, not an
// accident.
const BigM = 1_000_000.0

// ScenarioWeights is the (w_perf, w_dev, w_rest) scalarisation triple for
// one scenario (§4.1).
type ScenarioWeights struct {
	WPerf float64
	WDev  float64
	WRest float64
}

// Store holds every configurable constant in §4.1. Zero-value fields are
// never valid inputs to the scoring/propagation math; always obtain a Store
// via Default() and override selectively.
type Store struct {
	// Condition sigmoid: multiplier = sigmoid(ConditionK*(c-ConditionC0)).
	ConditionK     float64
	ConditionC0    float64
	ConditionFloor float64 // hard gate outside CupFinal; soft 0.8x multiplier inside it

	// Sharpness bounded sigmoid: 1.02*sigmoid(k(s-s0)) - 0.02.
	SharpnessK  float64
	SharpnessS0 float64

	// Familiarity linear map: clamp(0.7 + 0.3*f, 0.7, 1.0).
	FamiliarityBase  float64
	FamiliarityScale float64

	// Jadedness step thresholds, ascending, paired with the factor applied
	// at or below each threshold; the final entry is the catch-all.
	JadednessThresholds []JadednessBand

	// Positional drag coefficients keyed by SlotFamily (§9, planner.SlotFamily).
	PositionalDrag map[string]float64

	RollingWindowDays      int // authoritative per §9's open question: 14
	RollingWindowThreshold int // minutes
	RollingWindowMultiplier float64

	// Sharpness decay bands: elapsed days -> %/day decay rate. Configurable
	// per §9's open question about the day-4/day-7 inflections.
	SharpnessDecayGraceDays int     // 0% decay through this many days
	SharpnessDecayMildRate  float64 // %/day for the mild band
	SharpnessDecayMildDays  int     // mild band upper bound (inclusive)
	SharpnessDecayCliffRate float64 // %/day from SharpnessDecayMildDays+1 onward

	ShadowGamma   float64 // per-match-step discount
	ShadowScarcityLambda float64 // λ_V
	ShadowWeight  float64 // λ_shadow

	ScenarioWeights map[planner.Scenario]ScenarioWeights
	ImportanceWeights map[planner.Scenario]float64

	StabilityInertia       float64
	StabilityBaseSwitchCost float64
	StabilityContinuityBonus float64
	StabilityAnchorThreshold int
	StabilityAnchorMultiplier float64

	BenchSize int

	// Condition-cliff discrete overlay bands (§4.5 step 2), evaluated in
	// the order given; the first band whose floor the player's condition
	// meets or exceeds applies.
	ConditionCliffBands []ConditionCliffBand

	// Recovery constants for the condition propagator (§4.3); left
	// qualitative in the source and explicitly open for calibration (§9).
	RecoveryRate float64 // β
	JadednessThrottleScale float64 // γ in the recovery throttle term

	// Substitution minute markers used by AllocateMinutes (§4.7 step 5).
	SubstitutionMinutes [3]int

	// Condition drain reuses the positional drag table, scaled down to a
	// per-90-minute condition cost; §4.1 names only R_pos, so the State
	// Propagator's drain_rate(slot) is defined in terms of it rather than
	// introducing a second, undocumented table.
	ConditionDrainScale float64

	// Sharpness gain-from-playing shape (§4.3): linear in minutes fraction
	// below the diminishing-returns knee, damped above it.
	SharpnessGainRate          float64
	SharpnessGainDiminishStart float64
	SharpnessGainDiminishFloor float64

	// REST pad row costs (§4.5 step 5): base cost discounted by fatigue
	// and upcoming-fixture importance, so tired players facing a big match
	// soon are cheaper to rest than to start.
	RestBaseCost       float64
	RestFatigueWeight  float64

	// Development-penalty scaling for the w_dev scalarisation term (§4.5
	// step 3); 0 when a scenario's w_dev is 0.
	DevPenaltyAgeFloor float64
	DevPenaltyScale    float64

	// Sharpness-scenario two-phase override (§4.6): pool size of extra
	// backups considered alongside the notional XI, and the boost/penalty
	// applied to low/high-sharpness players within that pool.
	SharpnessPoolBackups    int
	SharpnessLowThreshold   float64
	SharpnessHighThreshold  float64
	SharpnessBoostAmount    float64
	SharpnessPenaltyAmount  float64

	// Coverage Utility (§4.6 Stage 2): per-slot-family injury/substitution
	// likelihood weighting used to reward bench versatility. Not given
	// numerically by the source material; left configurable pending
	// calibration (§9's open-question pattern for unspecified constants).
	InjuryProbabilityBySlotFamily map[string]float64
}

// JadednessBand is one step of the jadedness factor step function.
type JadednessBand struct {
	MaxJadedness float64 // upper bound, inclusive; the last band's factor also applies above its bound
	Factor       float64
}

// ConditionCliffBand is one step of the condition-cliff discrete overlay.
type ConditionCliffBand struct {
	MinCondition float64 // floor, inclusive
	Multiplier   float64 // ignored when Forbidden is set
	Forbidden    bool
}

// Default returns the Parameter Store populated with every §4.1 default.
// Callers wanting an override pass a *Store built by copying Default() and
// mutating the fields named in the caller's `parameters` argument — the
// Store itself never reads the environment (pkg/config governs the service
// shell only).
func Default() *Store {
	return &Store{
		ConditionK:     25,
		ConditionC0:    0.88,
		ConditionFloor: 0.91,

		SharpnessK:  15,
		SharpnessS0: 0.75,

		FamiliarityBase:  0.7,
		FamiliarityScale: 0.3,

		JadednessThresholds: []JadednessBand{
			{MaxJadedness: 200, Factor: 1.0},
			{MaxJadedness: 400, Factor: 0.9},
			{MaxJadedness: 700, Factor: 0.7},
			{MaxJadedness: 1000, Factor: 0.4},
		},

		PositionalDrag: map[string]float64{
			"GK":           0.20,
			"CB":           0.95,
			"DM":           1.15,
			"CM":           1.45,
			"AM_CENTRAL":   1.35,
			"WIDE_ATTACK":  1.40,
			"ST":           1.40,
			"FULLBACK":     1.65,
		},

		RollingWindowDays:       14,
		RollingWindowThreshold:  270,
		RollingWindowMultiplier: 2.5,

		SharpnessDecayGraceDays: 3,
		SharpnessDecayMildRate:  0.015,
		SharpnessDecayMildDays:  6,
		SharpnessDecayCliffRate: 0.065,

		ShadowGamma:          0.85,
		ShadowScarcityLambda: 2.0,
		ShadowWeight:         1.0,

		ScenarioWeights: map[planner.Scenario]ScenarioWeights{
			planner.ScenarioCupFinal:      {WPerf: 1.0, WDev: 0, WRest: 0},
			planner.ScenarioStandard:      {WPerf: 0.6, WDev: 0.1, WRest: 0.3},
			planner.ScenarioDeadRubber:    {WPerf: 0.2, WDev: 0.5, WRest: 0.3},
			planner.ScenarioContinentalKO: {WPerf: 0.9, WDev: 0, WRest: 0.1},
			planner.ScenarioTitleRival:    {WPerf: 0.8, WDev: 0, WRest: 0.2},
			planner.ScenarioCupEarly:      {WPerf: 0.4, WDev: 0.3, WRest: 0.3},
			planner.ScenarioSharpness:     {WPerf: 0.6, WDev: 0.1, WRest: 0.3},
		},

		ImportanceWeights: map[planner.Scenario]float64{
			planner.ScenarioCupFinal:      10,
			planner.ScenarioContinentalKO: 5,
			planner.ScenarioTitleRival:    3,
			planner.ScenarioStandard:      1.5,
			planner.ScenarioCupEarly:      0.8,
			planner.ScenarioDeadRubber:    0.1,
			planner.ScenarioSharpness:     1.5,
		},

		StabilityInertia:         0.5,
		StabilityBaseSwitchCost:  0.15,
		StabilityContinuityBonus: 0.05,
		StabilityAnchorThreshold: 3,
		StabilityAnchorMultiplier: 2.0,

		BenchSize: 7,

		ConditionCliffBands: []ConditionCliffBand{
			{MinCondition: 0.95, Multiplier: 1.00},
			{MinCondition: 0.90, Multiplier: 0.95},
			{MinCondition: 0.80, Multiplier: 0.80},
			{MinCondition: 0.75, Multiplier: 0.50},
			{MinCondition: 0, Forbidden: true},
		},

		RecoveryRate:           0.04,
		JadednessThrottleScale: 0.0008,

		SubstitutionMinutes: [3]int{60, 70, 80},

		ConditionDrainScale: 0.12,

		SharpnessGainRate:          0.10,
		SharpnessGainDiminishStart: 0.90,
		SharpnessGainDiminishFloor: 0.20,

		RestBaseCost:      40,
		RestFatigueWeight: 90,

		DevPenaltyAgeFloor: 23,
		DevPenaltyScale:    2.5,

		SharpnessPoolBackups:   6,
		SharpnessLowThreshold:  0.75,
		SharpnessHighThreshold: 0.99,
		SharpnessBoostAmount:   20,
		SharpnessPenaltyAmount: 20,

		InjuryProbabilityBySlotFamily: map[string]float64{
			"GK":          0.04,
			"CB":          0.10,
			"DM":          0.12,
			"CM":          0.14,
			"AM_CENTRAL":  0.14,
			"WIDE_ATTACK": 0.16,
			"ST":          0.16,
			"FULLBACK":    0.14,
		},
	}
}

// ScenarioWeightsFor returns the scalarisation weights for a scenario,
// falling back to Standard's weights if the scenario is unrecognised (a
// defensive default, never expected to trigger given the closed Scenario
// enum).
func (s *Store) ScenarioWeightsFor(sc planner.Scenario) ScenarioWeights {
	if w, ok := s.ScenarioWeights[sc]; ok {
		return w
	}
	return s.ScenarioWeights[planner.ScenarioStandard]
}

// ImportanceWeightFor returns I_k for a scenario.
func (s *Store) ImportanceWeightFor(sc planner.Scenario) float64 {
	if w, ok := s.ImportanceWeights[sc]; ok {
		return w
	}
	return s.ImportanceWeights[planner.ScenarioStandard]
}

// JadednessFactor evaluates the jadedness step function at J.
func (s *Store) JadednessFactor(j float64) float64 {
	for _, band := range s.JadednessThresholds {
		if j <= band.MaxJadedness {
			return band.Factor
		}
	}
	return s.JadednessThresholds[len(s.JadednessThresholds)-1].Factor
}

// DragFor returns the positional drag coefficient for a slot family,
// defaulting to the CM coefficient for an unrecognised family.
func (s *Store) DragFor(family string) float64 {
	if v, ok := s.PositionalDrag[family]; ok {
		return v
	}
	return s.PositionalDrag["CM"]
}
