package families

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"
	"gonum.org/v1/gonum/stat/distuv"

	"distlab/domain/distribution"
)

// Upper ends of the evaluated support for families with unbounded support
const (
	poissonSupportMax   = 20
	negBinomSupportMax  = 20
	geometricSupportMax = 10
)

// drawBinomial draws from Binomial(n, p), handling the degenerate p = 0 and p = 1
func drawBinomial(n int, p float64) float64 {
	switch {
	case n <= 0 || p <= 0:
		return 0
	case p >= 1:
		return float64(n)
	}
	return distuv.Binomial{N: float64(n), P: p}.Rand()
}

// binomialPMF is the mass at k, exact at the degenerate endpoints
func binomialPMF(n int, p, k float64) float64 {
	if k < 0 || k > float64(n) || k != math.Trunc(k) {
		return 0
	}
	switch {
	case p <= 0:
		if k == 0 {
			return 1
		}
		return 0
	case p >= 1:
		if k == float64(n) {
			return 1
		}
		return 0
	}
	return distuv.Binomial{N: float64(n), P: p}.Prob(k)
}

// BinomialFamily counts successes in n Bernoulli trials
type BinomialFamily struct{ base }

func NewBinomial() *BinomialFamily {
	return &BinomialFamily{base{distribution.Spec{
		ID:   distribution.Binomial,
		Name: "Binomial",
		Kind: distribution.KindDiscrete,
		Params: []distribution.ParamSpec{
			{Name: "n", Label: "Trials (n)", Min: 1, Max: 100, Default: 10, Step: 1, Integer: true,
				Description: "Total number of independent trials."},
			{Name: "p", Label: "Success probability (p)", Min: 0, Max: 1, Default: 0.5, Step: 0.01,
				Description: "Probability of success in each trial."},
		},
		Formula:     `P(X=k) = \binom{n}{k} p^k (1-p)^{n-k}`,
		Description: "The number of **successes in n independent yes/no trials**.",
	}}}
}

func (f *BinomialFamily) Bind(params distribution.ParameterSet) (Model, error) {
	if err := f.Validate(params); err != nil {
		return nil, err
	}
	n, p := int(params["n"]), params["p"]
	return &univariate{
		params: pick(params, f.spec.Params),
		kind:   f.spec.Kind,
		draw:   func() float64 { return drawBinomial(n, p) },
		prob:   func(k float64) float64 { return binomialPMF(n, p, k) },
		grid: func() []float64 {
			return distribution.IntegerSupport(0, n)
		},
		moments: meanVariance(float64(n)*p, float64(n)*p*(1-p)),
	}, nil
}

// PoissonFamily counts events occurring at a constant average rate
type PoissonFamily struct{ base }

func NewPoisson() *PoissonFamily {
	return &PoissonFamily{base{distribution.Spec{
		ID:   distribution.Poisson,
		Name: "Poisson",
		Kind: distribution.KindDiscrete,
		Params: []distribution.ParamSpec{
			{Name: "mu", Label: "Rate (λ)", Min: 0.1, Max: 10, Default: 3, Step: 0.1,
				Description: "Average number of events per interval."},
		},
		Formula:     `P(X=k) = \frac{\lambda^k e^{-\lambda}}{k!}`,
		Description: "The number of **events in a fixed interval** when events occur independently at a constant rate.",
	}}}
}

func (f *PoissonFamily) Bind(params distribution.ParameterSet) (Model, error) {
	if err := f.Validate(params); err != nil {
		return nil, err
	}
	mu := params["mu"]
	d := distuv.Poisson{Lambda: mu}
	return &univariate{
		params: pick(params, f.spec.Params),
		kind:   f.spec.Kind,
		draw:   d.Rand,
		prob:   d.Prob,
		grid: func() []float64 {
			return distribution.IntegerSupport(0, poissonSupportMax)
		},
		moments: meanVariance(mu, mu),
	}, nil
}

// GeometricFamily is the number of trials up to and including the first success
type GeometricFamily struct{ base }

func NewGeometric() *GeometricFamily {
	return &GeometricFamily{base{distribution.Spec{
		ID:   distribution.Geometric,
		Name: "Geometric",
		Kind: distribution.KindDiscrete,
		Params: []distribution.ParamSpec{
			{Name: "p", Label: "Success probability (p)", Min: 0.01, Max: 1, Default: 0.5, Step: 0.01,
				Description: "Probability of success in each trial."},
		},
		Formula:     `P(X=k) = (1-p)^{k-1} p, \quad k \ge 1`,
		Description: "The number of **trials needed for the first success**.",
	}}}
}

func (f *GeometricFamily) Bind(params distribution.ParameterSet) (Model, error) {
	if err := f.Validate(params); err != nil {
		return nil, err
	}
	p := params["p"]
	draw := func() float64 { return 1 }
	if p < 1 {
		// 1 + floor(E) with E ~ Exp(-ln(1-p)) is geometric on {1, 2, ...}
		e := distuv.Exponential{Rate: -math.Log1p(-p)}
		draw = func() float64 { return 1 + math.Floor(e.Rand()) }
	}
	return &univariate{
		params: pick(params, f.spec.Params),
		kind:   f.spec.Kind,
		draw:   draw,
		prob: func(k float64) float64 {
			if k < 1 || k != math.Trunc(k) {
				return 0
			}
			return math.Pow(1-p, k-1) * p
		},
		grid: func() []float64 {
			return distribution.IntegerSupport(1, geometricSupportMax)
		},
		moments: meanVariance(1/p, (1-p)/(p*p)),
	}, nil
}

// NegativeBinomialFamily is the number of failures before the n-th success
type NegativeBinomialFamily struct{ base }

func NewNegativeBinomial() *NegativeBinomialFamily {
	return &NegativeBinomialFamily{base{distribution.Spec{
		ID:   distribution.NegativeBinomial,
		Name: "Negative binomial",
		Kind: distribution.KindDiscrete,
		Params: []distribution.ParamSpec{
			{Name: "n", Label: "Target successes (r)", Min: 1, Max: 100, Default: 10, Step: 1, Integer: true,
				Description: "Number of successes to wait for."},
			{Name: "p", Label: "Success probability (p)", Min: 0.01, Max: 1, Default: 0.5, Step: 0.01,
				Description: "Probability of success in each trial."},
		},
		Formula:     `P(X=k) = \binom{k+r-1}{k} p^r (1-p)^k`,
		Description: "The number of **failures before the r-th success**. It is an over-dispersed alternative to the Poisson.",
	}}}
}

func (f *NegativeBinomialFamily) Bind(params distribution.ParameterSet) (Model, error) {
	if err := f.Validate(params); err != nil {
		return nil, err
	}
	r, p := params["n"], params["p"]
	return &univariate{
		params: pick(params, f.spec.Params),
		kind:   f.spec.Kind,
		draw:   func() float64 { return drawNegativeBinomial(r, p) },
		prob:   func(k float64) float64 { return negativeBinomialPMF(r, p, k) },
		grid: func() []float64 {
			return distribution.IntegerSupport(0, negBinomSupportMax)
		},
		moments: meanVariance(r*(1-p)/p, r*(1-p)/(p*p)),
	}, nil
}

// drawNegativeBinomial uses the gamma-Poisson mixture
func drawNegativeBinomial(r, p float64) float64 {
	if p >= 1 {
		return 0
	}
	lambda := distuv.Gamma{Alpha: r, Beta: p / (1 - p)}.Rand()
	if lambda <= 0 {
		return 0
	}
	return distuv.Poisson{Lambda: lambda}.Rand()
}

func negativeBinomialPMF(r, p, k float64) float64 {
	if k < 0 || k != math.Trunc(k) {
		return 0
	}
	if p >= 1 {
		if k == 0 {
			return 1
		}
		return 0
	}
	return math.Exp(combin.LogGeneralizedBinomial(k+r-1, k) + r*math.Log(p) + k*math.Log1p(-p))
}
