package gesture

// State is the held gesture state.
type State int

const (
	// StateReleased is the initial state.
	StateReleased State = iota
	StatePinched
)

func (s State) String() string {
	switch s {
	case StateReleased:
		return "released"
	case StatePinched:
		return "pinched"
	default:
		return "unknown"
	}
}

// Event is emitted on a state change.
type Event int

const (
	EventNone Event = iota
	// EventEnter is emitted when a pinch begins.
	EventEnter
	// EventExit is emitted when a pinch ends.
	EventExit
)

func (e Event) String() string {
	switch e {
	case EventNone:
		return "none"
	case EventEnter:
		return "enter"
	case EventExit:
		return "exit"
	default:
		return "unknown"
	}
}

// StateMachine turns per-frame classifications into edge-triggered events.
// It emits at most one event per Update and never two Enter events without
// an Exit in between. It is not safe for concurrent use.
type StateMachine struct {
	state State
}

// NewStateMachine returns a machine in StateReleased.
func NewStateMachine() *StateMachine {
	return &StateMachine{state: StateReleased}
}

// State returns the current state.
func (m *StateMachine) State() State {
	return m.state
}

// Update applies the classification for the current frame.
//
//	Released + Released -> Released, none
//	Released + Pinched  -> Pinched,  Enter
//	Pinched  + Pinched  -> Pinched,  none
//	Pinched  + Released -> Released, Exit
func (m *StateMachine) Update(c Classification) Event {
	switch {
	case m.state == StateReleased && c == Pinched:
		m.state = StatePinched
		return EventEnter
	case m.state == StatePinched && c != Pinched:
		m.state = StateReleased
		return EventExit
	default:
		return EventNone
	}
}

// ForceRelease moves the machine to StateReleased, returning EventExit if a
// pinch was held.
func (m *StateMachine) ForceRelease() Event {
	return m.Update(Released)
}
