package statistics

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"distlab/adapters/stats/families"
	"distlab/domain/core"
	"distlab/domain/distribution"
)

// Summary holds mean, variance, standard deviation, skewness and excess kurtosis
type Summary struct {
	Mean     distribution.Moment `json:"mean" yaml:"mean"`
	Variance distribution.Moment `json:"variance" yaml:"variance"`
	StdDev   distribution.Moment `json:"std_dev" yaml:"std_dev"`
	Skewness distribution.Moment `json:"skewness" yaml:"skewness"`
	Kurtosis distribution.Moment `json:"kurtosis" yaml:"kurtosis"` // Excess (Fisher) kurtosis
}

// TheoreticalShape holds the closed-form counterparts offered for comparison
type TheoreticalShape struct {
	Mean     distribution.Moment `json:"mean" yaml:"mean"`
	Variance distribution.Moment `json:"variance" yaml:"variance"`
	Skewness distribution.Moment `json:"skewness" yaml:"skewness"`
	Kurtosis distribution.Moment `json:"kurtosis" yaml:"kurtosis"`
}

// Report is the output of Describe
type Report struct {
	Distribution distribution.ID   `json:"distribution" yaml:"distribution"`
	SampleSize   int               `json:"sample_size" yaml:"sample_size"`
	Empirical    Summary           `json:"empirical" yaml:"empirical"`
	Theoretical  *TheoreticalShape `json:"theoretical,omitempty" yaml:"theoretical,omitempty"`
	Fit          GoodnessOfFit     `json:"goodness_of_fit" yaml:"goodness_of_fit"`
	Intervals    []Interval        `json:"intervals,omitempty" yaml:"intervals,omitempty"` // Normal only
}

// Entry is one named statistic of a report
type Entry struct {
	Name  string              `json:"name" yaml:"name"`
	Value distribution.Moment `json:"value" yaml:"value"`
}

// Entries flattens the report into display order
func (r *Report) Entries() []Entry {
	entries := []Entry{
		{"mean", r.Empirical.Mean},
		{"variance", r.Empirical.Variance},
		{"std_dev", r.Empirical.StdDev},
		{"skewness", r.Empirical.Skewness},
		{"kurtosis", r.Empirical.Kurtosis},
	}
	if r.Theoretical != nil {
		entries = append(entries,
			Entry{"theoretical_mean", r.Theoretical.Mean},
			Entry{"theoretical_variance", r.Theoretical.Variance},
			Entry{"theoretical_skewness", r.Theoretical.Skewness},
			Entry{"theoretical_kurtosis", r.Theoretical.Kurtosis},
		)
	}
	if r.Fit.Applicable {
		entries = append(entries,
			Entry{"fit_statistic", r.Fit.Statistic},
			Entry{"fit_p_value", r.Fit.PValue},
		)
	}
	return entries
}

// theoreticalShapes covers normal and uniform only. Other families get
// their mean and variance from the resolver's Moments instead.
var theoreticalShapes = map[distribution.ID]func(distribution.ParameterSet) TheoreticalShape{
	distribution.Normal: func(p distribution.ParameterSet) TheoreticalShape {
		sigma := p["std_dev"]
		return TheoreticalShape{
			Mean:     distribution.Defined(p["mean"]),
			Variance: distribution.Defined(sigma * sigma),
			Skewness: distribution.Defined(0),
			Kurtosis: distribution.Defined(0),
		}
	},
	distribution.Uniform: func(p distribution.ParameterSet) TheoreticalShape {
		a, b := p["low"], p["high"]
		return TheoreticalShape{
			Mean:     distribution.Defined((a + b) / 2),
			Variance: distribution.Defined((b - a) * (b - a) / 12),
			Skewness: distribution.Defined(0),
			Kurtosis: distribution.Defined(-6.0 / 5.0),
		}
	},
}

// Calculator computes descriptive statistics and goodness-of-fit results
type Calculator struct {
	registry *families.Registry
}

// NewCalculator creates a calculator that checks identifiers against registry
func NewCalculator(registry *families.Registry) *Calculator {
	return &Calculator{registry: registry}
}

// Describe summarises sample. Multinomial samples are summarised over the
// flattened counts.
func (c *Calculator) Describe(sample []float64, id distribution.ID, params distribution.ParameterSet) (*Report, error) {
	family, err := c.registry.Get(id)
	if err != nil {
		return nil, err
	}
	if err := family.Validate(params); err != nil {
		return nil, err
	}
	if len(sample) == 0 {
		return nil, core.NewValidationError(id.String(), "", "sample must not be empty")
	}

	summary, err := summarize(sample)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Distribution: id,
		SampleSize:   len(sample),
		Empirical:    summary,
		Fit:          fit(sample, id),
	}
	if shape, ok := theoreticalShapes[id]; ok {
		t := shape(params)
		report.Theoretical = &t
	}
	if id == distribution.Normal {
		report.Intervals = normalIntervals(sample, params)
	}
	return report, nil
}

// DescribeResult is Describe applied to a resolved sample
func (c *Calculator) DescribeResult(result *distribution.SampleResult) (*Report, error) {
	return c.Describe(result.Sample, result.Distribution, result.Parameters)
}

// summarize computes population moments (divisor N)
func summarize(data []float64) (Summary, error) {
	mean, err := stats.Mean(data)
	if err != nil {
		return Summary{}, err
	}
	variance, err := stats.PopulationVariance(data)
	if err != nil {
		return Summary{}, err
	}
	stdDev, err := stats.StandardDeviationPopulation(data)
	if err != nil {
		return Summary{}, err
	}

	skew, kurt := shapeMoments(data, mean)
	return Summary{
		Mean:     distribution.Defined(mean),
		Variance: distribution.Defined(variance),
		StdDev:   distribution.Defined(stdDev),
		Skewness: skew,
		Kurtosis: kurt,
	}, nil
}

// shapeMoments returns the biased skewness m3/m2^1.5 and excess kurtosis m4/m2^2 - 3.
// Both are undefined when the sample has (numerically) zero variance.
func shapeMoments(data []float64, mean float64) (skewness, kurtosis distribution.Moment) {
	m2 := stat.Moment(2, data, nil)
	if degenerate(m2, mean) {
		return distribution.Undefined(), distribution.Undefined()
	}
	m3 := stat.Moment(3, data, nil)
	m4 := stat.Moment(4, data, nil)
	return distribution.Defined(m3 / math.Pow(m2, 1.5)), distribution.Defined(m4/(m2*m2) - 3)
}

// degenerate reports a second moment indistinguishable from rounding noise
func degenerate(m2, mean float64) bool {
	const resolution = 1e-15
	return m2 <= (resolution*mean)*(resolution*mean) || m2 == 0
}
