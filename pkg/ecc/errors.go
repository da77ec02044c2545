package ecc

import (
	"errors"
	"fmt"
)

// Common errors returned by the engine.
var (
	// ErrInvalidParameter marks caller input that the engine refuses to
	// correct: a prime of the wrong residue class, a signature component
	// outside [1, q-1], a malformed ciphertext or a non-invertible mask.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrArithmeticInconsistency marks a broken internal invariant, such as a
	// Cornacchia descent that does not end on a perfect square.
	ErrArithmeticInconsistency = errors.New("arithmetic inconsistency")

	// ErrSamplingExhausted is returned when a rejection-sampling loop runs out
	// of attempts or its context expires.
	ErrSamplingExhausted = errors.New("sampling attempts exhausted")
)

// SamplingError reports which rejection-sampling stage gave up.
// It allows the caller to decide whether retrying with a larger budget makes sense.
type SamplingError struct {
	Stage    string
	Attempts int
	Err      error
}

func (e *SamplingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s after %d attempts: %v", ErrSamplingExhausted, e.Stage, e.Attempts, e.Err)
	}
	return fmt.Sprintf("%s: %s after %d attempts", ErrSamplingExhausted, e.Stage, e.Attempts)
}

// Is makes errors.Is(err, ErrSamplingExhausted) hold for every SamplingError.
func (e *SamplingError) Is(target error) bool {
	return target == ErrSamplingExhausted
}

func (e *SamplingError) Unwrap() error {
	return e.Err
}

// NewSamplingError creates a new SamplingError. err is the optional cause,
// usually a context error.
func NewSamplingError(stage string, attempts int, err error) *SamplingError {
	return &SamplingError{
		Stage:    stage,
		Attempts: attempts,
		Err:      err,
	}
}
