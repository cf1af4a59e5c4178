package studio

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when a notebook already has a generation request in
// flight. Single-flight is enforced per notebook; the caller may resubmit
// once the outstanding request settles.
var ErrBusy = errors.New("a generation request is already in flight for this notebook")

// ValidationError reports a caller-side precondition violation (no sources,
// empty question, unknown intent). A refused intent leaves the conversation
// log untouched.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s", e.Reason)
}
