package control

import "strconv"

// State is a controller state.
type State int

const (
	Idle State = iota
	Validating
	Committed
	Rejected
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Committed:
		return "committed"
	case Rejected:
		return "rejected"
	default:
		return "state(" + strconv.Itoa(int(s)) + ")"
	}
}

// Reason explains a rejection.
type Reason string

const (
	ReasonNone       Reason = ""
	ReasonInfeasible Reason = "infeasible"
	ReasonUnchanged  Reason = "unchanged"
	ReasonEngine     Reason = "engine"
)

// Outcome is the terminal result of one proposal.
type Outcome struct {
	State  State
	Reason Reason
	// K is the engine's k after the proposal, as shown in the entry.
	K int
	// Err is an *EngineCommitError for ReasonEngine, nil otherwise.
	Err error
}

// Feasible reports whether raw is a usable k: one or more ASCII decimal
// digits whose value is greater than 1. Digit strings too large for an int
// are feasible; the controller rejects them with ErrKOutOfRange.
func Feasible(raw string) bool {
	_, ok, _ := parseK(raw)
	return ok
}

// parseK reports ok for feasible text. A feasible value that overflows int
// comes back with ErrKOutOfRange.
func parseK(raw string) (v int, ok bool, err error) {
	if raw == "" {
		return 0, false, nil
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return 0, false, nil
		}
	}
	v, err = strconv.Atoi(raw)
	if err != nil {
		return 0, true, ErrKOutOfRange
	}
	if v <= 1 {
		return 0, false, nil
	}
	return v, true, nil
}
