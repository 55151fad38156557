// Package regulator converts a rate of "ticks per steps" into an integer
// number of ticks to perform on each call, without drift.
package regulator

import (
	"errors"
	"fmt"
)

// ErrZeroSteps is returned when a regulator is configured with a zero step count.
var ErrZeroSteps = errors.New("steps must be greater than zero")

// RateRegulator emits exactly Ticks ticks over every Steps consecutive calls to Step.
type RateRegulator struct {
	ticks     int
	steps     int
	remainder int
}

// New creates a RateRegulator for ticks per steps.
func New(ticks, steps int) (*RateRegulator, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("invalid rate %d/%d: %w", ticks, steps, ErrZeroSteps)
	}
	if ticks < 0 {
		return nil, fmt.Errorf("invalid rate %d/%d: ticks must not be negative", ticks, steps)
	}
	return &RateRegulator{
		ticks: ticks,
		steps: steps,
	}, nil
}

// Step returns the number of ticks to perform for this call.
func (r *RateRegulator) Step() int {
	r.remainder += r.ticks
	out := r.remainder / r.steps
	r.remainder %= r.steps
	return out
}

func (r *RateRegulator) Ticks() int {
	return r.ticks
}

func (r *RateRegulator) Steps() int {
	return r.steps
}
