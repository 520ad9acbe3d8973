package comparison

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"distlab/adapters/stats/families"
	"distlab/domain/core"
	"distlab/domain/distribution"
)

func newEngine() *Engine {
	return NewEngine(families.NewRegistry())
}

func TestOverlay_SelectedFamilies(t *testing.T) {
	curves, err := newEngine().Overlay([]distribution.ID{distribution.Normal, distribution.Gamma})
	require.NoError(t, err)

	require.Len(t, curves, 2)
	for id, c := range curves {
		assert.Len(t, c.Density, distribution.GridPoints, id)
		assert.NotEmpty(t, c.Label)
	}
	assert.Equal(t, 2.0, curves[distribution.Gamma].Parameters["k"])
}

func TestOverlay_EmptyAndDuplicates(t *testing.T) {
	e := newEngine()

	curves, err := e.Overlay(nil)
	require.NoError(t, err)
	assert.Empty(t, curves)

	curves, err = e.Overlay([]distribution.ID{distribution.Uniform, distribution.Uniform})
	require.NoError(t, err)
	assert.Len(t, curves, 1)
}

func TestOverlay_RejectsOtherFamilies(t *testing.T) {
	curves, err := newEngine().Overlay([]distribution.ID{distribution.Normal, distribution.Beta})
	assert.Nil(t, curves)
	assert.True(t, core.IsUnsupportedDistribution(err))
}

func TestOverlay_CanonicalShapes(t *testing.T) {
	e := newEngine()
	grid := e.Grid()
	curves, err := e.Overlay(OverlayFamilies)
	require.NoError(t, err)

	for i, x := range grid {
		if x < -1 || x > 1 {
			assert.Zero(t, curves[distribution.Uniform].Density[i])
		}
		if x < 0 {
			assert.Zero(t, curves[distribution.Exponential].Density[i])
			assert.Zero(t, curves[distribution.Gamma].Density[i])
		}
	}
}

func TestSensitivity_Normal(t *testing.T) {
	panels, err := newEngine().Sensitivity(distribution.Normal, distribution.ParameterSet{"mean": 1, "std_dev": 1.5})
	require.NoError(t, err)
	require.Len(t, panels, 2)

	assert.Equal(t, "mean", panels[0].Parameter)
	require.Len(t, panels[0].Curves, 3)
	assert.Equal(t, "μ=-2", panels[0].Curves[0].Label)
	for _, c := range panels[0].Curves {
		assert.Equal(t, 1.5, c.Parameters["std_dev"])
		assert.Len(t, c.Density, distribution.GridPoints)
	}

	assert.Equal(t, "std_dev", panels[1].Parameter)
	require.Len(t, panels[1].Curves, 3)
	assert.Equal(t, "σ=0.5", panels[1].Curves[0].Label)
	for _, c := range panels[1].Curves {
		assert.Equal(t, 1.0, c.Parameters["mean"])
	}
}

func TestSensitivity_Gamma(t *testing.T) {
	panels, err := newEngine().Sensitivity(distribution.Gamma, distribution.ParameterSet{"k": 1, "theta": 2})
	require.NoError(t, err)
	require.Len(t, panels, 1)

	labels := make([]string, 0, 4)
	for _, c := range panels[0].Curves {
		labels = append(labels, c.Label)
		assert.Equal(t, 2.0, c.Parameters["theta"])
		assert.Len(t, c.Density, distribution.GridPoints)
	}
	assert.Equal(t, []string{"k=0.5", "k=1", "k=2", "k=5"}, labels)
}

func TestSensitivity_Errors(t *testing.T) {
	e := newEngine()

	_, err := e.Sensitivity(distribution.Normal, distribution.ParameterSet{"mean": 0, "std_dev": 0})
	assert.True(t, core.IsValidationError(err))

	_, err = e.Sensitivity(distribution.Beta, distribution.ParameterSet{"alpha": 2, "beta": 2})
	assert.True(t, core.IsUnsupportedDistribution(err))

	_, err = e.Sensitivity("lognormal", nil)
	assert.True(t, core.IsUnsupportedDistribution(err))
}

func TestGrid_ReturnsCopy(t *testing.T) {
	e := newEngine()
	g := e.Grid()
	g[0] = 42
	assert.Equal(t, distribution.GridMin, e.Grid()[0])
}
