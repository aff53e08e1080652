package checkin

import "fmt"

// State is the lifecycle of a single submission.
type State int

const (
	StateIdle State = iota
	StateWriting
	StateAwaitingAck
	StateCommitted
	StateDeferred
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWriting:
		return "writing"
	case StateAwaitingAck:
		return "awaiting_ack"
	case StateCommitted:
		return "committed"
	case StateDeferred:
		return "deferred"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateCommitted || s == StateDeferred || s == StateFailed
}

// MarksAnswered reports whether a submission in this state may set the
// period's status flag.
func (s State) MarksAnswered() bool {
	return s == StateCommitted || s == StateDeferred
}

var transitions = map[State][]State{
	StateIdle:        {StateWriting},
	StateWriting:     {StateAwaitingAck, StateFailed},
	StateAwaitingAck: {StateCommitted, StateDeferred, StateFailed},
}

type submission struct {
	state State
}

// advance moves to next, rejecting transitions the lifecycle does not allow.
func (s *submission) advance(next State) error {
	for _, allowed := range transitions[s.state] {
		if allowed == next {
			s.state = next
			return nil
		}
	}
	return fmt.Errorf("illegal submission transition %s -> %s", s.state, next)
}
