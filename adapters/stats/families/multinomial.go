package families

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"distlab/domain/core"
	"distlab/domain/distribution"
)

const (
	minCategories = 2
	maxCategories = 6

	// probSumTolerance absorbs rounding in user-entered probabilities
	probSumTolerance = 1e-9
)

// ProbParam names the probability parameter of 1-based category i
func ProbParam(i int) string {
	return fmt.Sprintf("prob_%d", i)
}

// MultinomialFamily distributes n trials over 2..6 categories. The last
// category's probability is derived as 1 - sum(others).
type MultinomialFamily struct{ base }

func NewMultinomial() *MultinomialFamily {
	params := []distribution.ParamSpec{
		{Name: "num_categories", Label: "Categories", Min: minCategories, Max: maxCategories, Default: 3, Step: 1, Integer: true,
			Description: "Number of outcome categories (2 to 6)."},
		{Name: "n", Label: "Trials (n)", Min: 1, Max: 1000, Default: 100, Step: 1, Integer: true,
			Description: "Total number of trials per observation."},
	}
	// Each default takes half of the probability still unassigned
	remaining := 1.0
	for i := 1; i < maxCategories; i++ {
		def := remaining / 2
		params = append(params, distribution.ParamSpec{
			Name:        ProbParam(i),
			Label:       fmt.Sprintf("Category %d probability", i),
			Min:         0,
			Max:         1,
			Default:     def,
			Step:        0.01,
			Description: "Only the first num_categories-1 probabilities are used. The last category takes the remainder.",
		})
		remaining -= def
	}

	return &MultinomialFamily{base{distribution.Spec{
		ID:          distribution.Multinomial,
		Name:        "Multinomial",
		Kind:        distribution.KindDiscrete,
		Params:      params,
		Formula:     `P(X_1=x_1,\dots,X_k=x_k) = \frac{n!}{x_1!\cdots x_k!} p_1^{x_1}\cdots p_k^{x_k}`,
		Description: "Generalises the binomial to **k outcome categories**. Each observation is a vector of counts summing to n.",
	}}}
}

// required lists the parameters that must be present for a given category count
func (f *MultinomialFamily) required(k int) []distribution.ParamSpec {
	return f.spec.Params[:2+k-1]
}

func (f *MultinomialFamily) Validate(params distribution.ParameterSet) error {
	if err := validateDeclared(f.spec.ID, params, f.spec.Params[:2]); err != nil {
		return err
	}
	k := int(params["num_categories"])
	if err := validateDeclared(f.spec.ID, params, f.required(k)); err != nil {
		return err
	}
	free := make([]float64, 0, k-1)
	for i := 1; i < k; i++ {
		free = append(free, params[ProbParam(i)])
	}
	if floats.Sum(free) > 1+probSumTolerance {
		return core.NewValidationError(f.spec.ID.String(), "", "category probabilities must sum to at most 1")
	}
	return nil
}

func (f *MultinomialFamily) Bind(params distribution.ParameterSet) (Model, error) {
	if err := f.Validate(params); err != nil {
		return nil, err
	}
	k := int(params["num_categories"])
	resolved := pick(params, f.required(k))

	probs := make([]float64, k)
	for i := 1; i < k; i++ {
		probs[i-1] = params[ProbParam(i)]
	}
	probs[k-1] = math.Max(0, math.Min(1, 1-floats.Sum(probs[:k-1])))
	resolved[ProbParam(k)] = probs[k-1]

	return &multinomialModel{
		params: resolved,
		trials: int(params["n"]),
		probs:  probs,
	}, nil
}

type multinomialModel struct {
	params distribution.ParameterSet
	trials int
	probs  []float64
}

func (m *multinomialModel) Parameters() distribution.ParameterSet { return m.params.Clone() }

func (m *multinomialModel) Dimension() int { return len(m.probs) }

// Sample draws n count vectors using sequential conditional binomials
func (m *multinomialModel) Sample(n int) []float64 {
	k := len(m.probs)
	out := make([]float64, n*k)
	for row := 0; row < n; row++ {
		counts := out[row*k : (row+1)*k]
		remaining, rest := m.trials, 1.0
		for i := 0; i < k-1 && remaining > 0 && rest > 0; i++ {
			q := math.Min(1, m.probs[i]/rest)
			c := drawBinomial(remaining, q)
			counts[i] = c
			remaining -= int(c)
			rest -= m.probs[i]
		}
		counts[k-1] += float64(remaining)
	}
	return out
}

// Grid is the category index 0..k-1
func (m *multinomialModel) Grid() []float64 {
	return distribution.IntegerSupport(0, len(m.probs)-1)
}

// Density maps each category index to its theoretical probability
func (m *multinomialModel) Density(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		idx := int(x)
		if x == math.Trunc(x) && idx >= 0 && idx < len(m.probs) {
			out[i] = m.probs[idx]
		}
	}
	return out
}

// Moments are per category: expected counts for every category and
// variances for the freely chosen ones only
func (m *multinomialModel) Moments() distribution.Moments {
	n := float64(m.trials)
	k := len(m.probs)
	means := make([]float64, k)
	variances := make([]float64, k-1)
	for i, p := range m.probs {
		means[i] = n * p
		if i < k-1 {
			variances[i] = n * p * (1 - p)
		}
	}
	return distribution.Moments{
		Mean:              distribution.Undefined(),
		Variance:          distribution.Undefined(),
		CategoryMeans:     means,
		CategoryVariances: variances,
	}
}

// EmpiricalProportions averages each category column and divides by the trial count
func (m *multinomialModel) EmpiricalProportions(sample []float64) []float64 {
	k := len(m.probs)
	rows := len(sample) / k
	props := make([]float64, k)
	if rows == 0 {
		return props
	}
	counts := mat.NewDense(rows, k, sample[:rows*k])
	col := make([]float64, rows)
	for j := 0; j < k; j++ {
		mat.Col(col, j, counts)
		props[j] = stat.Mean(col, nil) / float64(m.trials)
	}
	return props
}
