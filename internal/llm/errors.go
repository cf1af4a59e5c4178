package llm

import "fmt"

// GenerationError reports that the backend refused or failed a request: a
// non-OK status, a transport failure, or an empty completion. The conversation
// turn that triggered it is reconciled by the caller; the client itself never
// retries.
type GenerationError struct {
	Provider string
	Status   int
	Message  string
	Err      error
}

func (e *GenerationError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s generation failed with status %d: %s", e.Provider, e.Status, e.Message)
	}
	return fmt.Sprintf("%s generation failed: %s", e.Provider, e.Message)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// InvalidFormatError reports that the backend returned a completion that does
// not decode into the requested structure.
type InvalidFormatError struct {
	Provider string
	Reason   string
	Err      error
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("%s returned malformed output: %s", e.Provider, e.Reason)
}

func (e *InvalidFormatError) Unwrap() error { return e.Err }
