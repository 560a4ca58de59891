package planner

import "fmt"

// FormationSlots returns the ordered eleven slots for a named formation.
// Keys are unique per formation (e.g. two centre-backs are "D(C)1" and
// "D(C)2") while RatingColumn is the shared lookup key into a player's
// RoleRatings/Familiarity maps, mirroring the teacher's PositionSlot
// dispatch-by-name pattern generalised from sport/platform to formation name.
func FormationSlots(formation string) ([]Slot, error) {
	switch formation {
	case "4-4-2":
		return []Slot{
			{Key: "GK", RatingColumn: "GK"},
			{Key: "D(L)", RatingColumn: "D(L)"},
			{Key: "D(C)1", RatingColumn: "D(C)"},
			{Key: "D(C)2", RatingColumn: "D(C)"},
			{Key: "D(R)", RatingColumn: "D(R)"},
			{Key: "M(L)", RatingColumn: "M(L)"},
			{Key: "M(C)1", RatingColumn: "M(C)"},
			{Key: "M(C)2", RatingColumn: "M(C)"},
			{Key: "M(R)", RatingColumn: "M(R)"},
			{Key: "ST1", RatingColumn: "ST"},
			{Key: "ST2", RatingColumn: "ST"},
		}, nil
	case "4-3-3":
		return []Slot{
			{Key: "GK", RatingColumn: "GK"},
			{Key: "D(L)", RatingColumn: "D(L)"},
			{Key: "D(C)1", RatingColumn: "D(C)"},
			{Key: "D(C)2", RatingColumn: "D(C)"},
			{Key: "D(R)", RatingColumn: "D(R)"},
			{Key: "DM1", RatingColumn: "DM(C)"},
			{Key: "DM2", RatingColumn: "DM(C)"},
			{Key: "M(C)", RatingColumn: "M(C)"},
			{Key: "AM(L)", RatingColumn: "AM(L)"},
			{Key: "AM(R)", RatingColumn: "AM(R)"},
			{Key: "ST1", RatingColumn: "ST"},
		}, nil
	case "4-2-3-1":
		return []Slot{
			{Key: "GK", RatingColumn: "GK"},
			{Key: "D(L)", RatingColumn: "D(L)"},
			{Key: "D(C)1", RatingColumn: "D(C)"},
			{Key: "D(C)2", RatingColumn: "D(C)"},
			{Key: "D(R)", RatingColumn: "D(R)"},
			{Key: "DM1", RatingColumn: "DM(C)"},
			{Key: "DM2", RatingColumn: "DM(C)"},
			{Key: "AM(L)", RatingColumn: "AM(L)"},
			{Key: "AM(C)", RatingColumn: "AM(C)"},
			{Key: "AM(R)", RatingColumn: "AM(R)"},
			{Key: "ST1", RatingColumn: "ST"},
		}, nil
	case "3-5-2":
		return []Slot{
			{Key: "GK", RatingColumn: "GK"},
			{Key: "D(C)1", RatingColumn: "D(C)"},
			{Key: "D(C)2", RatingColumn: "D(C)"},
			{Key: "D(C)3", RatingColumn: "D(C)"},
			{Key: "WB(L)", RatingColumn: "WB(L)"},
			{Key: "DM1", RatingColumn: "DM(C)"},
			{Key: "DM2", RatingColumn: "DM(C)"},
			{Key: "WB(R)", RatingColumn: "WB(R)"},
			{Key: "AM(C)", RatingColumn: "AM(C)"},
			{Key: "ST1", RatingColumn: "ST"},
			{Key: "ST2", RatingColumn: "ST"},
		}, nil
	default:
		return nil, fmt.Errorf("unknown formation %q", formation)
	}
}

// SlotFamily collapses a rating column to the positional drag family §4.1
// keys its R_pos table by.
func SlotFamily(ratingColumn string) string {
	switch ratingColumn {
	case "GK":
		return "GK"
	case "D(C)":
		return "CB"
	case "DM(C)":
		return "DM"
	case "M(C)", "M(L)", "M(R)":
		return "CM"
	case "AM(C)":
		return "AM_CENTRAL"
	case "AM(L)", "AM(R)":
		return "WIDE_ATTACK"
	case "ST":
		return "ST"
	case "D(L)", "D(R)", "WB(L)", "WB(R)":
		return "FULLBACK"
	default:
		return "CM"
	}
}

// CanPlayerFillSlot reports whether a player has any rating at all for the
// slot's rating column; callers needing the numeric rating should use
// Player.BaseRating directly (a missing rating means "cannot play").
func CanPlayerFillSlot(p Player, s Slot) bool {
	if s.IsRest {
		return true
	}
	_, ok := p.BaseRating(s.RatingColumn)
	return ok
}

// IsGoalkeeperSlot reports whether a slot is the goalkeeper slot, the one
// position the Cost Matrix Builder and Assignment Solver partition away
// from the outfield submatrix (§4.5, §4.6).
func IsGoalkeeperSlot(s Slot) bool {
	return s.RatingColumn == "GK"
}

// IsGoalkeeperOnly reports whether a player's only non-null rating is GK —
// such a player must never be placed in an outfield slot (§3 invariant).
func IsGoalkeeperOnly(p Player) bool {
	_, hasGK := p.RoleRatings["GK"]
	if !hasGK {
		return false
	}
	for col := range p.RoleRatings {
		if col != "GK" {
			return false
		}
	}
	return true
}
