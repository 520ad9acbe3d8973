// Package families holds one handler per supported distribution family.
// Handlers are dispatched by identifier through a Registry.
package families

import (
	"fmt"
	"math"

	"distlab/domain/core"
	"distlab/domain/distribution"
)

// Family is the capability set every distribution handler implements
type Family interface {
	// Spec returns the family's static description
	Spec() distribution.Spec

	// Validate checks params against every declared constraint and returns
	// a *core.ValidationError naming the first violation
	Validate(params distribution.ParameterSet) error

	// Bind validates params and returns a model for that parameterisation
	Bind(params distribution.ParameterSet) (Model, error)
}

// Model is a family bound to one validated parameter set
type Model interface {
	// Parameters returns the validated parameters, including derived values
	Parameters() distribution.ParameterSet

	// Dimension is the number of values per observation (1 for univariate)
	Dimension() int

	// Sample draws n independent observations, flattened row-major
	Sample(n int) []float64

	// Grid returns the evaluation grid or discrete support
	Grid() []float64

	// Density evaluates the density or mass function at each x
	Density(xs []float64) []float64

	// Moments returns the closed-form theoretical moments
	Moments() distribution.Moments
}

// ProportionModel is implemented by vector-valued models that can summarise
// a sample as per-category proportions
type ProportionModel interface {
	EmpiricalProportions(sample []float64) []float64
}

// validateDeclared checks presence, finiteness, integrality and range of each declared parameter
func validateDeclared(id distribution.ID, params distribution.ParameterSet, declared []distribution.ParamSpec) error {
	for _, p := range declared {
		v, ok := params.Get(p.Name)
		if !ok {
			return core.NewValidationError(id.String(), p.Name, "is required")
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return core.NewValidationError(id.String(), p.Name, "must be a finite number")
		}
		if p.Integer && v != math.Trunc(v) {
			return core.NewValidationError(id.String(), p.Name, "must be a whole number")
		}
		if v < p.Min || v > p.Max {
			return core.NewValidationError(id.String(), p.Name, fmt.Sprintf("must be within [%g, %g]", p.Min, p.Max))
		}
	}
	return nil
}

// pick copies the declared parameters out of params
func pick(params distribution.ParameterSet, declared []distribution.ParamSpec) distribution.ParameterSet {
	out := make(distribution.ParameterSet, len(declared))
	for _, p := range declared {
		out[p.Name] = params[p.Name]
	}
	return out
}

// finite maps non-finite density values (boundary singularities) to 0
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// evaluate applies prob to each x. Non-negative kinds are zero below the origin.
func evaluate(kind distribution.Kind, xs []float64, prob func(float64) float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		if kind == distribution.KindNonNegative && x < 0 {
			continue
		}
		out[i] = finite(prob(x))
	}
	return out
}

// univariate is the Model shared by all scalar families
type univariate struct {
	params  distribution.ParameterSet
	kind    distribution.Kind
	draw    func() float64
	prob    func(float64) float64
	grid    func() []float64
	moments distribution.Moments
}

func (m *univariate) Parameters() distribution.ParameterSet { return m.params.Clone() }

func (m *univariate) Dimension() int { return 1 }

func (m *univariate) Sample(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = m.draw()
	}
	return out
}

func (m *univariate) Grid() []float64 { return m.grid() }

func (m *univariate) Density(xs []float64) []float64 {
	return evaluate(m.kind, xs, m.prob)
}

func (m *univariate) Moments() distribution.Moments { return m.moments }

// meanVariance builds Moments for families whose mean and variance always exist
func meanVariance(mean, variance float64) distribution.Moments {
	return distribution.Moments{
		Mean:     distribution.Defined(mean),
		Variance: distribution.Defined(variance),
	}
}
