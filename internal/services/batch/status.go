package batch

import (
	"encoding/json"
	"fmt"
)

type State uint8

const (
	StatePending State = iota
	StateUploading
	StateSuccess
	StatePartial
	StateError
	StateSkipped
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateUploading:
		return "uploading"
	case StateSuccess:
		return "success"
	case StatePartial:
		return "partial"
	case StateError:
		return "error"
	case StateSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

func parseState(s string) (State, error) {
	switch s {
	case "", "pending":
		return StatePending, nil
	case "uploading":
		return StateUploading, nil
	case "success":
		return StateSuccess, nil
	case "partial":
		return StatePartial, nil
	case "error":
		return StateError, nil
	case "skipped":
		return StateSkipped, nil
	default:
		return 0, fmt.Errorf("unknown status %q", s)
	}
}

// Status is the lifecycle of one row or file in a commit loop. Message is only carried by
// Error and Partial.
type Status struct {
	State   State
	Message string
}

func Pending() Status   { return Status{State: StatePending} }
func Uploading() Status { return Status{State: StateUploading} }
func Success() Status   { return Status{State: StateSuccess} }
func Skipped() Status   { return Status{State: StateSkipped} }

func Failed(msg string) Status {
	return Status{State: StateError, Message: msg}
}

// PartiallyDone marks an item whose main write succeeded but whose follow-up write failed.
func PartiallyDone(msg string) Status {
	return Status{State: StatePartial, Message: msg}
}

func (s Status) IsPending() bool { return s.State == StatePending }

// IsTerminal reports whether the status can no longer change.
func (s Status) IsTerminal() bool {
	switch s.State {
	case StateSuccess, StatePartial, StateError, StateSkipped:
		return true
	case StatePending, StateUploading:
		return false
	default:
		return false
	}
}

// CanTransition enforces forward-only moves:
// pending → uploading | success | partial | error | skipped, uploading → success | partial | error.
func (s Status) CanTransition(next State) bool {
	switch s.State {
	case StatePending:
		return next != StatePending
	case StateUploading:
		return next == StateSuccess || next == StatePartial || next == StateError
	case StateSuccess, StatePartial, StateError, StateSkipped:
		return false
	default:
		return false
	}
}

// Advance returns next when the move is allowed.
func (s Status) Advance(next Status) (Status, error) {
	if !s.CanTransition(next.State) {
		return s, fmt.Errorf("invalid status transition %s -> %s", s.State, next.State)
	}
	return next, nil
}

type statusJSON struct {
	State   string `json:"state"`
	Message string `json:"message,omitempty"`
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(statusJSON{State: s.State.String(), Message: s.Message})
}

func (s *Status) UnmarshalJSON(data []byte) error {
	// Accept a bare string as well ("pending").
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		st, err := parseState(plain)
		if err != nil {
			return err
		}
		*s = Status{State: st}
		return nil
	}
	var raw statusJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	st, err := parseState(raw.State)
	if err != nil {
		return err
	}
	*s = Status{State: st, Message: raw.Message}
	return nil
}
