package normalize

import (
	"errors"
	"fmt"
)

// UnrecognizedLabel is what a display surface shows when a date cannot be read.
const UnrecognizedLabel = "Unrecognized date"

// ErrUnrecognized is the single failure outcome of Normalize. Malformed text,
// impossible dates and unsupported layouts all collapse into it.
var ErrUnrecognized = errors.New("unrecognized date")

// Reason says why a string was unrecognized. It is diagnostic only; callers
// that just need success or failure can test errors.Is(err, ErrUnrecognized).
type Reason string

const (
	ReasonEmpty           Reason = "empty"
	ReasonNoGrammar       Reason = "no-grammar"
	ReasonInvalidCalendar Reason = "invalid-calendar"
)

// UnrecognizedError carries the input and the failure reason.
type UnrecognizedError struct {
	Input  string
	Reason Reason
	// Grammar is the last grammar that matched syntactically, if any.
	Grammar string
}

func (e *UnrecognizedError) Error() string {
	if e.Grammar != "" {
		return fmt.Sprintf("unrecognized date %q: %s (%s)", e.Input, e.Reason, e.Grammar)
	}
	return fmt.Sprintf("unrecognized date %q: %s", e.Input, e.Reason)
}

func (e *UnrecognizedError) Unwrap() error {
	return ErrUnrecognized
}

// ReasonOf extracts the Reason from err, or "" if err is not an UnrecognizedError.
func ReasonOf(err error) Reason {
	var ue *UnrecognizedError
	if errors.As(err, &ue) {
		return ue.Reason
	}
	return ""
}
