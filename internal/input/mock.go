package input

import "sync"

// Action is a recorded key action.
type Action string

const (
	ActionKeyDown Action = "down"
	ActionKeyUp   Action = "up"
)

// Call is one recorded injector call.
type Call struct {
	Action Action
	Key    string
}

// Recorder is a test implementation of Injector that records calls.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
	err   error
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// SetError makes every subsequent call fail with err after being recorded.
func (r *Recorder) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// KeyDown records a key-down.
func (r *Recorder) KeyDown(key string) error {
	return r.record(ActionKeyDown, key)
}

// KeyUp records a key-up.
func (r *Recorder) KeyUp(key string) error {
	return r.record(ActionKeyUp, key)
}

func (r *Recorder) record(action Action, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Action: action, Key: key})
	return r.err
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	calls := make([]Call, len(r.calls))
	copy(calls, r.calls)
	return calls
}

// Actions returns the recorded actions in order.
func (r *Recorder) Actions() []Action {
	calls := r.Calls()
	actions := make([]Action, len(calls))
	for i, c := range calls {
		actions[i] = c.Action
	}
	return actions
}
