package statistics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"distlab/domain/distribution"
)

// maxIntegerBins caps unit-width bins for discrete samples; wider ranges
// fall back to equal-width bins
const maxIntegerBins = 60

// Bin is one histogram bar. Density is scaled so the bars integrate to 1.
type Bin struct {
	Lower   float64 `json:"lower" yaml:"lower"`
	Upper   float64 `json:"upper" yaml:"upper"`
	Count   float64 `json:"count" yaml:"count"`
	Density float64 `json:"density" yaml:"density"`
}

// Histogram bins the finite values of a univariate sample. Discrete samples
// get one bin per integer when the range allows it; otherwise the range is
// split into bins equal-width bins.
func Histogram(sample []float64, bins int, discrete bool) []Bin {
	sorted := make([]float64, 0, len(sample))
	for _, x := range sample {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			sorted = append(sorted, x)
		}
	}
	if len(sorted) == 0 || bins < 1 {
		return nil
	}
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if discrete && hi-lo < maxIntegerBins {
		lo, hi = math.Floor(lo)-0.5, math.Ceil(hi)+0.5
		bins = int(hi - lo)
	} else if hi == lo {
		lo, hi = lo-0.5, hi+0.5
	}

	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	// The top divider must lie strictly above the maximum
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, sorted, nil)

	n := float64(len(sorted))
	out := make([]Bin, bins)
	for i, c := range counts {
		width := dividers[i+1] - dividers[i]
		out[i] = Bin{
			Lower:   dividers[i],
			Upper:   dividers[i+1],
			Count:   c,
			Density: c / (n * width),
		}
	}
	return out
}

// SampleHistogram bins a resolved univariate sample. Vector-valued samples
// have no histogram; their per-category proportions serve instead.
func SampleHistogram(result *distribution.SampleResult, bins int) []Bin {
	if result == nil || result.Dimension > 1 {
		return nil
	}
	return Histogram(result.Sample, bins, result.Kind == distribution.KindDiscrete)
}
