package statistics

import (
	"math"
	"sort"
)

// KolmogorovSmirnovUniform compares sample with the standard uniform CDF
// and returns the statistic D = sup|F_n(x) - x| and its asymptotic p-value.
func KolmogorovSmirnovUniform(sample []float64) (d, pValue float64) {
	n := len(sample)
	if n == 0 {
		return 0, 1
	}
	sorted := append([]float64(nil), sample...)
	sort.Float64s(sorted)

	nf := float64(n)
	for i, x := range sorted {
		cdf := math.Max(0, math.Min(1, x))
		above := float64(i+1)/nf - cdf
		below := cdf - float64(i)/nf
		d = math.Max(d, math.Max(above, below))
	}

	sqrtN := math.Sqrt(nf)
	return d, kolmogorovQ((sqrtN + 0.12 + 0.11/sqrtN) * d)
}

// kolmogorovQ is the survival function of the Kolmogorov distribution,
// 2 * sum_{j>=1} (-1)^(j-1) exp(-2 j^2 lambda^2). A series that has not
// converged after 100 terms means lambda is tiny and Q is 1.
func kolmogorovQ(lambda float64) float64 {
	a2 := -2 * lambda * lambda
	sign := 2.0
	sum, prev := 0.0, 0.0
	for j := 1; j <= 100; j++ {
		term := sign * math.Exp(a2*float64(j*j))
		sum += term
		if math.Abs(term) <= 0.001*prev || math.Abs(term) <= 1e-8*sum {
			return math.Max(0, math.Min(1, sum))
		}
		sign = -sign
		prev = math.Abs(term)
	}
	return 1
}
