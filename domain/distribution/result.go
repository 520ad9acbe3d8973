package distribution

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// SampleSize is the number of observations drawn per resolve
	SampleSize = 1000

	// GridPoints, GridMin and GridMax define the shared evaluation grid
	GridPoints = 1000
	GridMin    = -5.0
	GridMax    = 10.0
)

// DefaultGrid returns a fresh copy of the shared evaluation grid,
// GridPoints evenly spaced values over [GridMin, GridMax].
func DefaultGrid() []float64 {
	return floats.Span(make([]float64, GridPoints), GridMin, GridMax)
}

// IntegerSupport returns the values lo, lo+1, ..., hi
func IntegerSupport(lo, hi int) []float64 {
	if hi < lo {
		return []float64{}
	}
	support := make([]float64, hi-lo+1)
	for i := range support {
		support[i] = float64(lo + i)
	}
	return support
}

// Moments holds closed-form theoretical statistics for a parameter set.
// Vector-valued families populate the per-category fields instead of Mean/Variance.
type Moments struct {
	Mean     Moment `json:"mean" yaml:"mean"`
	Variance Moment `json:"variance" yaml:"variance"`

	CategoryMeans     []float64 `json:"category_means,omitempty" yaml:"category_means,omitempty"`
	CategoryVariances []float64 `json:"category_variances,omitempty" yaml:"category_variances,omitempty"` // Non-forced categories only
}

// Point is a single (x, density) pair
type Point struct {
	X       float64 `json:"x" yaml:"x"`
	Density float64 `json:"density" yaml:"density"`
}

// SampleResult is the immutable output of one resolve call
type SampleResult struct {
	Distribution ID           `json:"distribution" yaml:"distribution"`
	Kind         Kind         `json:"kind" yaml:"kind"`
	Parameters   ParameterSet `json:"parameters" yaml:"parameters"`

	// Sample is row-major with Dimension values per observation
	Sample    []float64 `json:"sample" yaml:"sample"`
	Dimension int       `json:"dimension" yaml:"dimension"`

	Grid    []float64 `json:"grid" yaml:"grid"`
	Density []float64 `json:"density" yaml:"density"`
	Moments Moments   `json:"moments" yaml:"moments"`

	// EmpiricalProportions is set for multinomial only
	EmpiricalProportions []float64 `json:"empirical_proportions,omitempty" yaml:"empirical_proportions,omitempty"`
}

// Observations returns the number of draws (rows), independent of Dimension
func (r *SampleResult) Observations() int {
	if r.Dimension <= 1 {
		return len(r.Sample)
	}
	return len(r.Sample) / r.Dimension
}

// Matrix views the sample as an Observations x Dimension matrix.
// The matrix shares storage with Sample and must not be modified.
// It is nil for an empty sample.
func (r *SampleResult) Matrix() *mat.Dense {
	dim := r.Dimension
	if dim < 1 {
		dim = 1
	}
	rows := len(r.Sample) / dim
	if rows == 0 {
		return nil
	}
	return mat.NewDense(rows, dim, r.Sample[:rows*dim])
}

// PlotSeries returns the grid/density pairs restricted to the family's
// plotted support: x >= 0 for non-negative families, everything otherwise.
func (r *SampleResult) PlotSeries() []Point {
	points := make([]Point, 0, len(r.Grid))
	for i, x := range r.Grid {
		if r.Kind == KindNonNegative && x < 0 {
			continue
		}
		points = append(points, Point{X: x, Density: r.Density[i]})
	}
	return points
}
