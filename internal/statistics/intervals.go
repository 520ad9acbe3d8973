package statistics

import (
	"gonum.org/v1/gonum/stat/distuv"

	"distlab/domain/distribution"
)

// Interval is the μ ± kσ range of a normal parameterisation together with
// the probability mass it holds and the share of the sample that fell inside
type Interval struct {
	Sigmas    float64 `json:"sigmas" yaml:"sigmas"`
	Lower     float64 `json:"lower" yaml:"lower"`
	Upper     float64 `json:"upper" yaml:"upper"`
	Coverage  float64 `json:"coverage" yaml:"coverage"`
	Empirical float64 `json:"empirical" yaml:"empirical"`
}

var intervalSigmas = []float64{1, 2}

func normalIntervals(sample []float64, params distribution.ParameterSet) []Interval {
	mu, sigma := params["mean"], params["std_dev"]
	out := make([]Interval, 0, len(intervalSigmas))
	for _, k := range intervalSigmas {
		iv := Interval{
			Sigmas:   k,
			Lower:    mu - k*sigma,
			Upper:    mu + k*sigma,
			Coverage: distuv.UnitNormal.CDF(k) - distuv.UnitNormal.CDF(-k),
		}
		inside := 0
		for _, x := range sample {
			if x >= iv.Lower && x <= iv.Upper {
				inside++
			}
		}
		if len(sample) > 0 {
			iv.Empirical = float64(inside) / float64(len(sample))
		}
		out = append(out, iv)
	}
	return out
}
