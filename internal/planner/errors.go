package planner

// ErrorKind is the machine-identifiable category from §7's error taxonomy.
type ErrorKind string

const (
	ErrInfeasibleSlot ErrorKind = "InfeasibleSlot"
	ErrLockConflict   ErrorKind = "LockConflict"
	ErrInvalidInput   ErrorKind = "InvalidInput"
	ErrNumericalBreach ErrorKind = "NumericalBreach"
)

// InfeasibleSlotReason enumerates §7's sub-reasons for InfeasibleSlot.
type InfeasibleSlotReason string

const (
	ReasonNoCandidates            InfeasibleSlotReason = "no_candidates"
	ReasonAllForbiddenByConstraints InfeasibleSlotReason = "all_forbidden_by_constraints"
	ReasonAllInjuredOrSuspended   InfeasibleSlotReason = "all_injured_or_suspended"
)

// PlanError is the discriminated union §7 asks for: plan_horizon returns
// exactly one of (*HorizonPlan, *PlanError), never both, never neither.
type PlanError struct {
	Kind ErrorKind

	MatchIndex int
	SlotKey    string
	Reason     InfeasibleSlotReason

	ConflictingSlotKey string
	ConflictingPlayers []string // player ids, stringified for display

	Message string
}

func (e *PlanError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// NewInfeasibleSlot builds an InfeasibleSlot error.
func NewInfeasibleSlot(matchIndex int, slotKey string, reason InfeasibleSlotReason, message string) *PlanError {
	return &PlanError{Kind: ErrInfeasibleSlot, MatchIndex: matchIndex, SlotKey: slotKey, Reason: reason, Message: message}
}

// NewLockConflict builds a LockConflict error.
func NewLockConflict(slotKey string, players []string, message string) *PlanError {
	return &PlanError{Kind: ErrLockConflict, ConflictingSlotKey: slotKey, ConflictingPlayers: players, Message: message}
}

// NewInvalidInput builds an InvalidInput error.
func NewInvalidInput(message string) *PlanError {
	return &PlanError{Kind: ErrInvalidInput, Message: message}
}

// NewNumericalBreach builds a NumericalBreach error. This category is
// fatal: an invariant violation in the builder or solver, never a
// recoverable user-facing condition (§7).
func NewNumericalBreach(matchIndex int, message string) *PlanError {
	return &PlanError{Kind: ErrNumericalBreach, MatchIndex: matchIndex, Message: message}
}
