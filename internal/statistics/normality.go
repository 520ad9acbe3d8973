package statistics

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MinNormalitySample is the smallest sample the skewness test accepts
const MinNormalitySample = 8

var (
	ErrSampleTooSmall = errors.New("normality test needs at least 8 observations")
	ErrZeroVariance   = errors.New("normality test is undefined for a constant sample")
	ErrKurtosisTest   = errors.New("kurtosis test is undefined for this sample")
)

// NormalityTest is the D'Agostino-Pearson omnibus test. The statistic is
// the sum of squared skewness and kurtosis z-scores, chi-squared with two
// degrees of freedom under normality.
func NormalityTest(sample []float64) (k2, pValue float64, err error) {
	if len(sample) < MinNormalitySample {
		return 0, 0, ErrSampleTooSmall
	}
	mean := stat.Mean(sample, nil)
	m2 := stat.Moment(2, sample, nil)
	if degenerate(m2, mean) {
		return 0, 0, ErrZeroVariance
	}
	skew := stat.Moment(3, sample, nil) / math.Pow(m2, 1.5)
	kurt := stat.Moment(4, sample, nil) / (m2 * m2)

	n := float64(len(sample))
	zs := skewnessZ(skew, n)
	zk, ok := kurtosisZ(kurt, n)
	if !ok {
		return 0, 0, ErrKurtosisTest
	}

	k2 = zs*zs + zk*zk
	chi2 := distuv.ChiSquared{K: 2}
	return k2, chi2.Survival(k2), nil
}

// skewnessZ transforms the sample skewness b1 to an approximately standard normal score
func skewnessZ(b1, n float64) float64 {
	y := b1 * math.Sqrt((n+1)*(n+3)/(6*(n-2)))
	beta2 := 3 * (n*n + 27*n - 70) * (n + 1) * (n + 3) /
		((n - 2) * (n + 5) * (n + 7) * (n + 9))
	w2 := -1 + math.Sqrt(2*(beta2-1))
	delta := 1 / math.Sqrt(0.5*math.Log(w2))
	alpha := math.Sqrt(2 / (w2 - 1))
	return delta * math.Asinh(y/alpha)
}

// kurtosisZ is Anscombe and Glynn's transformation of the Pearson kurtosis b2
func kurtosisZ(b2, n float64) (float64, bool) {
	expected := 3 * (n - 1) / (n + 1)
	variance := 24 * n * (n - 2) * (n - 3) / ((n + 1) * (n + 1) * (n + 3) * (n + 5))
	x := (b2 - expected) / math.Sqrt(variance)

	sqrtBeta1 := 6 * (n*n - 5*n + 2) / ((n + 7) * (n + 9)) *
		math.Sqrt(6*(n+3)*(n+5)/(n*(n-2)*(n-3)))
	a := 6 + 8/sqrtBeta1*(2/sqrtBeta1+math.Sqrt(1+4/(sqrtBeta1*sqrtBeta1)))

	term1 := 1 - 2/(9*a)
	denom := 1 + x*math.Sqrt(2/(a-4))
	if denom == 0 {
		return 0, false
	}
	term2 := math.Cbrt((1 - 2/a) / denom)
	z := (term1 - term2) / math.Sqrt(2/(9*a))
	return z, !math.IsNaN(z) && !math.IsInf(z, 0)
}
