package turn

import (
	"sync"
	"time"
)

// StateChange represents a state transition event.
type StateChange struct {
	FromState State
	ToState   State
	Timestamp time.Time
	Reason    string
	// Elapsed is how long the machine stayed in FromState.
	Elapsed time.Duration
}

// StateListener observes turn state changes.
type StateListener interface {
	OnStateChange(event StateChange)
}

// ListenerFunc adapts a function to StateListener.
type ListenerFunc func(StateChange)

func (f ListenerFunc) OnStateChange(event StateChange) { f(event) }

// Machine is the turn state machine of one controller:
// Idle -> Listening -> Thinking -> Speaking -> Idle.
type Machine struct {
	mu           sync.RWMutex
	currentState State
	enteredAt    time.Time
	now          func() time.Time

	// Event emission
	stateChangeListeners []StateListener
}

// NewMachine creates a machine in StateIdle.
func NewMachine() *Machine {
	return newMachine(time.Now)
}

func newMachine(now func() time.Time) *Machine {
	return &Machine{currentState: StateIdle, enteredAt: now(), now: now}
}

// State returns the current state.
func (tm *Machine) State() State {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.currentState
}

// Since returns how long the machine has been in its current state.
func (tm *Machine) Since() time.Duration {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.now().Sub(tm.enteredAt)
}

var validTransitions = map[State][]State{
	StateIdle:      {StateListening},
	StateListening: {StateThinking, StateIdle},
	StateThinking:  {StateSpeaking, StateIdle},
	StateSpeaking:  {StateIdle},
}

// transitionValid checks if a state transition is valid.
func transitionValid(from, to State) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition moves to a new state with validation.
func (tm *Machine) Transition(state State, reason string) error {
	staged, err := tm.Stage(state, reason)
	if err != nil {
		return err
	}
	staged.Notify()
	return nil
}

// Stage moves to a new state like Transition but leaves listener delivery
// to the caller, who must call Notify on the result.
func (tm *Machine) Stage(state State, reason string) (Staged, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if !transitionValid(tm.currentState, state) {
		return Staged{}, &InvalidTransitionError{From: tm.currentState, To: state}
	}
	return tm.moveLocked(state, reason), nil
}

// Begin moves Idle -> Listening atomically. It reports false when a turn is
// already running.
func (tm *Machine) Begin(reason string) bool {
	return tm.Transition(StateListening, reason) == nil
}

// Reset forces the machine back to Idle from any state. Resetting an idle
// machine is a no-op and notifies nobody.
func (tm *Machine) Reset(reason string) {
	tm.StageReset(reason).Notify()
}

// StageReset is Reset with listener delivery left to the caller.
func (tm *Machine) StageReset(reason string) Staged {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if tm.currentState == StateIdle {
		return Staged{}
	}
	return tm.moveLocked(StateIdle, reason)
}

// AddListener registers a listener for state change events.
func (tm *Machine) AddListener(listener StateListener) {
	if listener == nil {
		return
	}
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.stateChangeListeners = append(tm.stateChangeListeners, listener)
}

func (tm *Machine) moveLocked(state State, reason string) Staged {
	now := tm.now()
	event := StateChange{
		FromState: tm.currentState,
		ToState:   state,
		Timestamp: now,
		Reason:    reason,
		Elapsed:   now.Sub(tm.enteredAt),
	}
	tm.currentState = state
	tm.enteredAt = now

	listeners := make([]StateListener, len(tm.stateChangeListeners))
	copy(listeners, tm.stateChangeListeners)
	return Staged{event: event, listeners: listeners}
}

// Staged is a state change that has been applied but not yet delivered to
// listeners. The zero Staged notifies nobody.
type Staged struct {
	event     StateChange
	listeners []StateListener
}

// Event returns the staged change.
func (s Staged) Event() StateChange { return s.event }

// Notify delivers the change. It runs outside the machine lock so listeners
// may query the machine.
func (s Staged) Notify() {
	for _, listener := range s.listeners {
		listener.OnStateChange(s.event)
	}
}

// InvalidTransitionError represents an invalid state transition attempt
type InvalidTransitionError struct {
	From State
	To   State
}

func (e *InvalidTransitionError) Error() string {
	return "invalid state transition from " + e.From.String() + " to " + e.To.String()
}
