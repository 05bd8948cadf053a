package schema

// State is the lifecycle state of an issue.
type State string

// All issue states. StateUnset marks a record without a state field and
// StateUnknown a state string outside the closed set.
const (
	StateOpen    State = "open"
	StateClosed  State = "closed"
	StateUnset   State = ""
	StateUnknown State = "unknown"
)

// AllStates lists the closed set of valid states in display order.
var AllStates = []State{StateOpen, StateClosed}

// ParseState maps a raw state string onto the closed set. Unknown values are
// rejected rather than coerced.
func ParseState(s string) (State, bool) {
	switch State(s) {
	case StateOpen:
		return StateOpen, true
	case StateClosed:
		return StateClosed, true
	default:
		return StateUnset, false
	}
}
