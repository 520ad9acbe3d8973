package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_MatchesSentinel(t *testing.T) {
	err := NewValidationError("uniform", "high", "must exceed low")

	assert.True(t, IsValidationError(err))
	assert.False(t, IsUnsupportedDistribution(err))
	assert.Equal(t, `uniform: parameter "high" must exceed low`, err.Error())

	wrapped := fmt.Errorf("resolve: %w", err)
	ve, ok := AsValidationError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "high", ve.Parameter)
}

func TestValidationError_WithoutParameter(t *testing.T) {
	err := NewValidationError("multinomial", "", "probabilities must sum to 1")
	assert.Equal(t, "multinomial: probabilities must sum to 1", err.Error())
}

func TestUnsupportedDistributionError(t *testing.T) {
	err := NewUnsupportedDistributionError("cauchy")

	assert.True(t, IsUnsupportedDistribution(err))
	assert.True(t, errors.Is(err, ErrUnsupportedDistribution))
	assert.False(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "cauchy")
}
