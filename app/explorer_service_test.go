package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"distlab/adapters/stats/families"
	"distlab/domain/core"
	"distlab/domain/distribution"
	"distlab/internal"
	"distlab/internal/comparison"
	"distlab/internal/resolver"
	"distlab/internal/statistics"
)

func newTestService(buf *bytes.Buffer, level internal.LogLevel) *ExplorerService {
	registry := families.NewRegistry()
	return NewExplorerService(
		resolver.New(registry),
		statistics.NewCalculator(registry),
		comparison.NewEngine(registry),
		internal.NewLoggerTo(buf, level),
	)
}

func TestExplore_ChainsResolverAndCalculator(t *testing.T) {
	var buf bytes.Buffer
	svc := newTestService(&buf, internal.LogLevelDebug)

	exp, err := svc.Explore(context.Background(), distribution.Normal, distribution.ParameterSet{"mean": 1, "std_dev": 2})
	require.NoError(t, err)

	assert.Equal(t, distribution.Normal, exp.Spec.ID)
	assert.Len(t, exp.Result.Sample, distribution.SampleSize)
	assert.Equal(t, distribution.SampleSize, exp.Statistics.SampleSize)
	require.NotNil(t, exp.Statistics.Theoretical)
	assert.Equal(t, 4.0, exp.Statistics.Theoretical.Variance.Or(0))
	assert.True(t, exp.Statistics.Fit.Applicable)
	assert.Contains(t, buf.String(), "[DEBUG] [explorer] explored normal")
}

func TestExplore_ValidationStopsEverything(t *testing.T) {
	var buf bytes.Buffer
	svc := newTestService(&buf, internal.LogLevelWarn)

	exp, err := svc.Explore(context.Background(), distribution.Uniform, distribution.ParameterSet{"low": 3, "high": 1})
	assert.Nil(t, exp)
	require.True(t, core.IsValidationError(err))
	assert.Contains(t, buf.String(), "[WARN] [explorer] explore uniform rejected")
}

func TestExplore_Unsupported(t *testing.T) {
	var buf bytes.Buffer
	exp, err := newTestService(&buf, internal.LogLevelError).Explore(context.Background(), "zipf", nil)
	assert.Nil(t, exp)
	assert.True(t, core.IsUnsupportedDistribution(err))
	assert.Empty(t, buf.String())
}

func TestExplore_CancelledContext(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestService(&buf, internal.LogLevelInfo).Explore(ctx, distribution.Normal, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExplore_Multinomial(t *testing.T) {
	var buf bytes.Buffer
	svc := newTestService(&buf, internal.LogLevelInfo)

	params, err := svc.Parameters(distribution.Multinomial, distribution.ParameterSet{"num_categories": 4})
	require.NoError(t, err)

	exp, err := svc.Explore(context.Background(), distribution.Multinomial, params)
	require.NoError(t, err)
	assert.Equal(t, 4, exp.Result.Dimension)
	assert.InDelta(t, 0.125, exp.Result.Parameters["prob_4"], 1e-12)
	assert.Equal(t, distribution.SampleSize*4, exp.Statistics.SampleSize)
	assert.Nil(t, exp.Statistics.Theoretical)
}

func TestParameters_MergesDefaults(t *testing.T) {
	var buf bytes.Buffer
	svc := newTestService(&buf, internal.LogLevelInfo)

	params, err := svc.Parameters(distribution.Gamma, distribution.ParameterSet{"theta": 3})
	require.NoError(t, err)
	assert.Equal(t, distribution.ParameterSet{"k": 1, "theta": 3}, params)

	_, err = svc.Parameters("zipf", nil)
	assert.True(t, core.IsUnsupportedDistribution(err))
}

func TestDescribe_ExternalSample(t *testing.T) {
	var buf bytes.Buffer
	svc := newTestService(&buf, internal.LogLevelInfo)

	report, err := svc.Describe(context.Background(), distribution.Uniform,
		distribution.ParameterSet{"low": 0, "high": 1}, []float64{0.1, 0.4, 0.7})
	require.NoError(t, err)
	assert.InDelta(t, 0.4, report.Empirical.Mean.Or(0), 1e-12)
	assert.InDelta(t, 0.3, report.Fit.Statistic.Or(0), 1e-12)

	_, err = svc.Describe(context.Background(), distribution.Uniform,
		distribution.ParameterSet{"low": 0, "high": 1}, nil)
	assert.True(t, core.IsValidationError(err))
}

func TestOverlayAndSensitivity(t *testing.T) {
	var buf bytes.Buffer
	svc := newTestService(&buf, internal.LogLevelInfo)
	ctx := context.Background()

	curves, err := svc.Overlay(ctx, []distribution.ID{distribution.Normal, distribution.Exponential})
	require.NoError(t, err)
	assert.Len(t, curves, 2)

	panels, err := svc.Sensitivity(ctx, distribution.Gamma, distribution.ParameterSet{"k": 1, "theta": 1})
	require.NoError(t, err)
	assert.Len(t, panels, 1)

	_, err = svc.Sensitivity(ctx, distribution.Poisson, distribution.ParameterSet{"mu": 3})
	assert.True(t, core.IsUnsupportedDistribution(err))

	assert.Len(t, svc.Grid(), distribution.GridPoints)
	assert.Len(t, svc.Specs(), 14)
}
