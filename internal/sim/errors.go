package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrNoState indicates a setup without particles.
	ErrNoState = errors.New("sim: no particle state")

	// ErrInvalidSetup indicates a setup parameter outside its valid range.
	ErrInvalidSetup = errors.New("sim: invalid setup")
)

// StepError wraps a failure that happened while completing a step.
type StepError struct {
	Step int
	Time float64
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
