package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrValidation marks user-supplied parameters that violate a declared constraint
	ErrValidation = errors.New("parameter validation failed")

	// ErrUnsupportedDistribution marks an identifier that is not in the registry
	ErrUnsupportedDistribution = errors.New("unsupported distribution")

	// ErrUndefinedMoment marks a theoretical statistic that does not exist for the parameters
	ErrUndefinedMoment = errors.New("moment is undefined")
)

// ValidationError describes which constraint a parameter set violated.
// It matches ErrValidation under errors.Is.
type ValidationError struct {
	Distribution string `json:"distribution"`
	Parameter    string `json:"parameter,omitempty"`
	Constraint   string `json:"constraint"`
}

func (e *ValidationError) Error() string {
	if e.Parameter == "" {
		return fmt.Sprintf("%s: %s", e.Distribution, e.Constraint)
	}
	return fmt.Sprintf("%s: parameter %q %s", e.Distribution, e.Parameter, e.Constraint)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Error constructors with context
func NewValidationError(distribution, parameter, constraint string) error {
	return &ValidationError{
		Distribution: distribution,
		Parameter:    parameter,
		Constraint:   constraint,
	}
}

func NewUnsupportedDistributionError(id string) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedDistribution, id)
}

// Error checking helpers
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsUnsupportedDistribution(err error) bool {
	return errors.Is(err, ErrUnsupportedDistribution)
}

func IsUndefinedMoment(err error) bool {
	return errors.Is(err, ErrUndefinedMoment)
}

// AsValidationError extracts the structured validation failure, if any
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
