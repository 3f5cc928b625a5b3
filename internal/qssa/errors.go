package qssa

import (
	"errors"
	"fmt"
)

// Domain errors for trajectory steps.
var (
	// ErrNoReaction indicates the total propensity is zero, so no channel can fire.
	ErrNoReaction = errors.New("qssa: no reaction can fire (total propensity is not positive)")

	// ErrNumericDomain indicates a non-finite or out-of-domain intermediate value,
	// e.g. a negative count raised to a non-integer power or an overflowing rate.
	ErrNumericDomain = errors.New("qssa: numeric domain error")
)

// StepError wraps an error with the position in the trajectory where it
// happened.
type StepError struct {
	Step        int
	Time        float64
	Temperature float64
	Err         error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (time=%g, T=%g): %v", e.Step, e.Time, e.Temperature, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func domainErrorf(format string, v ...any) error {
	return fmt.Errorf("%w: %s", ErrNumericDomain, fmt.Sprintf(format, v...))
}
