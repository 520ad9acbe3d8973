package families

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"distlab/domain/core"
	"distlab/domain/distribution"
)

// base carries the static spec and the declared-range validation shared by most families
type base struct {
	spec distribution.Spec
}

func (b base) Spec() distribution.Spec {
	return b.spec.Clone()
}

func (b base) Validate(params distribution.ParameterSet) error {
	return validateDeclared(b.spec.ID, params, b.spec.Params)
}

// NormalFamily is the normal (Gaussian) distribution
type NormalFamily struct{ base }

func NewNormal() *NormalFamily {
	return &NormalFamily{base{distribution.Spec{
		ID:   distribution.Normal,
		Name: "Normal",
		Kind: distribution.KindContinuous,
		Params: []distribution.ParamSpec{
			{Name: "mean", Label: "Mean (μ)", Min: -5, Max: 5, Default: 0, Step: 0.1,
				Description: "Centre of the distribution. The data balances around this value."},
			{Name: "std_dev", Label: "Standard deviation (σ)", Min: 0.1, Max: 5, Default: 1, Step: 0.1,
				Description: "Spread of the distribution. Larger values flatten and widen the bell."},
		},
		Formula: `f(x) = \frac{1}{\sigma\sqrt{2\pi}} e^{-\frac{(x-\mu)^2}{2\sigma^2}}`,
		Description: "The **normal distribution** is the symmetric bell curve. " +
			"About 68% of observations fall within μ ± σ and 95% within μ ± 2σ.",
	}}}
}

func (f *NormalFamily) Bind(params distribution.ParameterSet) (Model, error) {
	if err := f.Validate(params); err != nil {
		return nil, err
	}
	mu, sigma := params["mean"], params["std_dev"]
	d := distuv.Normal{Mu: mu, Sigma: sigma}
	return &univariate{
		params:  pick(params, f.spec.Params),
		kind:    f.spec.Kind,
		draw:    d.Rand,
		prob:    d.Prob,
		grid:    distribution.DefaultGrid,
		moments: meanVariance(mu, sigma*sigma),
	}, nil
}

// UniformFamily is the continuous uniform distribution on [low, high]
type UniformFamily struct{ base }

func NewUniform() *UniformFamily {
	return &UniformFamily{base{distribution.Spec{
		ID:   distribution.Uniform,
		Name: "Uniform",
		Kind: distribution.KindContinuous,
		Params: []distribution.ParamSpec{
			{Name: "low", Label: "Minimum (a)", Min: -5, Max: 5, Default: 0, Step: 0.1,
				Description: "Lower bound. Values below it have probability zero."},
			{Name: "high", Label: "Maximum (b)", Min: -5, Max: 5, Default: 1, Step: 0.1,
				Description: "Upper bound. Must be strictly greater than the minimum."},
		},
		Formula:     `f(x) = \frac{1}{b-a}, \quad a \le x \le b`,
		Description: "Every value between **a** and **b** is equally likely.",
	}}}
}

func (f *UniformFamily) Validate(params distribution.ParameterSet) error {
	if err := f.base.Validate(params); err != nil {
		return err
	}
	if params["high"] <= params["low"] {
		return core.NewValidationError(f.spec.ID.String(), "high", "must be greater than low")
	}
	return nil
}

func (f *UniformFamily) Bind(params distribution.ParameterSet) (Model, error) {
	if err := f.Validate(params); err != nil {
		return nil, err
	}
	a, b := params["low"], params["high"]
	d := distuv.Uniform{Min: a, Max: b}
	return &univariate{
		params:  pick(params, f.spec.Params),
		kind:    f.spec.Kind,
		draw:    d.Rand,
		prob:    d.Prob,
		grid:    distribution.DefaultGrid,
		moments: meanVariance((a+b)/2, (b-a)*(b-a)/12),
	}, nil
}

// ExponentialFamily is the exponential distribution parameterised by scale (1/rate)
type ExponentialFamily struct{ base }

func NewExponential() *ExponentialFamily {
	return &ExponentialFamily{base{distribution.Spec{
		ID:   distribution.Exponential,
		Name: "Exponential",
		Kind: distribution.KindNonNegative,
		Params: []distribution.ParamSpec{
			{Name: "scale", Label: "Scale (1/λ)", Min: 0.1, Max: 5, Default: 1, Step: 0.1,
				Description: "Mean waiting time. Smaller values decay faster."},
		},
		Formula:     `f(x) = \frac{1}{\beta} e^{-x/\beta}, \quad x \ge 0`,
		Description: "Models **waiting times** between independent events that occur at a constant rate.",
	}}}
}

func (f *ExponentialFamily) Bind(params distribution.ParameterSet) (Model, error) {
	if err := f.Validate(params); err != nil {
		return nil, err
	}
	scale := params["scale"]
	d := distuv.Exponential{Rate: 1 / scale}
	return &univariate{
		params:  pick(params, f.spec.Params),
		kind:    f.spec.Kind,
		draw:    d.Rand,
		prob:    d.Prob,
		grid:    distribution.DefaultGrid,
		moments: meanVariance(scale, scale*scale),
	}, nil
}

// BetaFamily is the beta distribution on [0, 1]
type BetaFamily struct{ base }

func NewBeta() *BetaFamily {
	return &BetaFamily{base{distribution.Spec{
		ID:   distribution.Beta,
		Name: "Beta",
		Kind: distribution.KindContinuous,
		Params: []distribution.ParamSpec{
			{Name: "alpha", Label: "α", Min: 0.1, Max: 10, Default: 2, Step: 0.1,
				Description: "Shape of the left side. Larger values push mass away from 0."},
			{Name: "beta", Label: "β", Min: 0.1, Max: 10, Default: 2, Step: 0.1,
				Description: "Shape of the right side. Larger values push mass away from 1."},
		},
		Formula:     `f(x) = \frac{x^{\alpha-1}(1-x)^{\beta-1}}{B(\alpha,\beta)}, \quad 0 \le x \le 1`,
		Description: "A flexible family for **proportions and probabilities** bounded between 0 and 1.",
	}}}
}

func (f *BetaFamily) Bind(params distribution.ParameterSet) (Model, error) {
	if err := f.Validate(params); err != nil {
		return nil, err
	}
	a, b := params["alpha"], params["beta"]
	d := distuv.Beta{Alpha: a, Beta: b}
	return &univariate{
		params:  pick(params, f.spec.Params),
		kind:    f.spec.Kind,
		draw:    d.Rand,
		prob:    d.Prob,
		grid:    distribution.DefaultGrid,
		moments: meanVariance(a/(a+b), a*b/((a+b)*(a+b)*(a+b+1))),
	}, nil
}

// StudentsTFamily is the standard Student's t distribution
type StudentsTFamily struct{ base }

func NewStudentsT() *StudentsTFamily {
	return &StudentsTFamily{base{distribution.Spec{
		ID:   distribution.StudentsT,
		Name: "Student's t",
		Kind: distribution.KindContinuous,
		Params: []distribution.ParamSpec{
			{Name: "df", Label: "Degrees of freedom (ν)", Min: 1, Max: 100, Default: 10, Step: 1, Integer: true,
				Description: "Controls tail weight. Larger values approach the normal distribution."},
		},
		Formula: `f(x) = \frac{\Gamma(\frac{\nu+1}{2})}{\sqrt{\nu\pi}\,\Gamma(\frac{\nu}{2})}\left(1+\frac{x^2}{\nu}\right)^{-\frac{\nu+1}{2}}`,
		Description: "A heavy-tailed bell curve used for **small-sample inference**. " +
			"The mean exists only for ν > 1 and the variance only for ν > 2.",
	}}}
}

func (f *StudentsTFamily) Bind(params distribution.ParameterSet) (Model, error) {
	if err := f.Validate(params); err != nil {
		return nil, err
	}
	nu := params["df"]
	d := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: nu}
	return &univariate{
		params:  pick(params, f.spec.Params),
		kind:    f.spec.Kind,
		draw:    d.Rand,
		prob:    d.Prob,
		grid:    distribution.DefaultGrid,
		moments: studentsTMoments(nu),
	}, nil
}

func studentsTMoments(nu float64) distribution.Moments {
	m := distribution.Moments{Mean: distribution.Undefined(), Variance: distribution.Undefined()}
	if nu > 1 {
		m.Mean = distribution.Defined(0)
	}
	if nu > 2 {
		m.Variance = distribution.Defined(nu / (nu - 2))
	}
	return m
}

// FFamily is Fisher's F distribution
type FFamily struct{ base }

func NewF() *FFamily {
	return &FFamily{base{distribution.Spec{
		ID:   distribution.F,
		Name: "F",
		Kind: distribution.KindNonNegative,
		Params: []distribution.ParamSpec{
			{Name: "dfn", Label: "Numerator degrees of freedom (d₁)", Min: 1, Max: 100, Default: 10, Step: 1, Integer: true,
				Description: "First shape parameter."},
			{Name: "dfd", Label: "Denominator degrees of freedom (d₂)", Min: 1, Max: 100, Default: 10, Step: 1, Integer: true,
				Description: "Second shape parameter. It controls the right tail."},
		},
		Formula: `f(x) = \frac{\sqrt{\frac{(d_1x)^{d_1} d_2^{d_2}}{(d_1x+d_2)^{d_1+d_2}}}}{x\,B(\frac{d_1}{2},\frac{d_2}{2})}`,
		Description: "The ratio of two scaled chi-squared variables, central to **ANOVA**. " +
			"The mean exists only for d₂ > 2 and the variance only for d₂ > 4.",
	}}}
}

func (f *FFamily) Bind(params distribution.ParameterSet) (Model, error) {
	if err := f.Validate(params); err != nil {
		return nil, err
	}
	d1, d2 := params["dfn"], params["dfd"]
	d := distuv.F{D1: d1, D2: d2}
	return &univariate{
		params:  pick(params, f.spec.Params),
		kind:    f.spec.Kind,
		draw:    d.Rand,
		prob:    d.Prob,
		grid:    distribution.DefaultGrid,
		moments: fMoments(d1, d2),
	}, nil
}

func fMoments(d1, d2 float64) distribution.Moments {
	m := distribution.Moments{Mean: distribution.Undefined(), Variance: distribution.Undefined()}
	if d2 > 2 {
		m.Mean = distribution.Defined(d2 / (d2 - 2))
	}
	if d2 > 4 {
		m.Variance = distribution.Defined(2 * d2 * d2 * (d1 + d2 - 2) / (d1 * (d2 - 2) * (d2 - 2) * (d2 - 4)))
	}
	return m
}

// ChiSquaredFamily is the chi-squared distribution
type ChiSquaredFamily struct{ base }

func NewChiSquared() *ChiSquaredFamily {
	return &ChiSquaredFamily{base{distribution.Spec{
		ID:   distribution.ChiSquared,
		Name: "Chi-squared",
		Kind: distribution.KindNonNegative,
		Params: []distribution.ParamSpec{
			{Name: "df", Label: "Degrees of freedom (k)", Min: 1, Max: 100, Default: 10, Step: 1, Integer: true,
				Description: "Number of squared standard normals being summed."},
		},
		Formula:     `f(x) = \frac{x^{k/2-1} e^{-x/2}}{2^{k/2}\Gamma(k/2)}, \quad x \ge 0`,
		Description: "The distribution of a **sum of squared standard normal variables**, used in goodness-of-fit tests.",
	}}}
}

func (f *ChiSquaredFamily) Bind(params distribution.ParameterSet) (Model, error) {
	if err := f.Validate(params); err != nil {
		return nil, err
	}
	k := params["df"]
	d := distuv.ChiSquared{K: k}
	return &univariate{
		params:  pick(params, f.spec.Params),
		kind:    f.spec.Kind,
		draw:    d.Rand,
		prob:    d.Prob,
		grid:    distribution.DefaultGrid,
		moments: meanVariance(k, 2*k),
	}, nil
}

// GammaFamily is the gamma distribution in shape/scale form
type GammaFamily struct{ base }

func NewGamma() *GammaFamily {
	return &GammaFamily{base{distribution.Spec{
		ID:   distribution.Gamma,
		Name: "Gamma",
		Kind: distribution.KindNonNegative,
		Params: []distribution.ParamSpec{
			{Name: "k", Label: "Shape (k)", Min: 0.1, Max: 10, Default: 1, Step: 0.1,
				Description: "Controls the shape. k = 1 gives the exponential distribution."},
			{Name: "theta", Label: "Scale (θ)", Min: 0.1, Max: 10, Default: 1, Step: 0.1,
				Description: "Stretches the distribution horizontally."},
		},
		Formula:     `f(x) = \frac{x^{k-1} e^{-x/\theta}}{\Gamma(k)\theta^k}, \quad x \ge 0`,
		Description: "Models **waiting times for several events**. It generalises the exponential and chi-squared distributions.",
	}}}
}

func (f *GammaFamily) Bind(params distribution.ParameterSet) (Model, error) {
	if err := f.Validate(params); err != nil {
		return nil, err
	}
	k, theta := params["k"], params["theta"]
	d := gammaDist(k, theta)
	return &univariate{
		params:  pick(params, f.spec.Params),
		kind:    f.spec.Kind,
		draw:    d.Rand,
		prob:    d.Prob,
		grid:    distribution.DefaultGrid,
		moments: meanVariance(k*theta, k*theta*theta),
	}, nil
}

// gammaDist converts shape/scale to gonum's shape/rate form
func gammaDist(k, theta float64) distuv.Gamma {
	return distuv.Gamma{Alpha: k, Beta: 1 / theta}
}

// GammaDensity evaluates the gamma(k, theta) density on xs, zero below the origin
func GammaDensity(k, theta float64, xs []float64) []float64 {
	return evaluate(distribution.KindNonNegative, xs, gammaDist(k, theta).Prob)
}

// WeibullFamily is the two-parameter Weibull distribution
type WeibullFamily struct{ base }

func NewWeibull() *WeibullFamily {
	return &WeibullFamily{base{distribution.Spec{
		ID:   distribution.Weibull,
		Name: "Weibull",
		Kind: distribution.KindNonNegative,
		Params: []distribution.ParamSpec{
			{Name: "c", Label: "Shape (k)", Min: 0.1, Max: 10, Default: 1, Step: 0.1,
				Description: "Controls the shape. k = 1 gives the exponential distribution."},
			{Name: "scale", Label: "Scale (λ)", Min: 0.1, Max: 10, Default: 1, Step: 0.1,
				Description: "Stretches the distribution horizontally."},
		},
		Formula:     `f(x) = \frac{k}{\lambda}\left(\frac{x}{\lambda}\right)^{k-1} e^{-(x/\lambda)^k}, \quad x \ge 0`,
		Description: "Widely used for **lifetimes and failure analysis**.",
	}}}
}

func (f *WeibullFamily) Bind(params distribution.ParameterSet) (Model, error) {
	if err := f.Validate(params); err != nil {
		return nil, err
	}
	c, lambda := params["c"], params["scale"]
	d := distuv.Weibull{K: c, Lambda: lambda}
	g1 := math.Gamma(1 + 1/c)
	g2 := math.Gamma(1 + 2/c)
	return &univariate{
		params:  pick(params, f.spec.Params),
		kind:    f.spec.Kind,
		draw:    d.Rand,
		prob:    d.Prob,
		grid:    distribution.DefaultGrid,
		moments: meanVariance(lambda*g1, lambda*lambda*(g2-g1*g1)),
	}, nil
}
