package resolver

import (
	"distlab/adapters/stats/families"
	"distlab/domain/distribution"
)

// Resolver maps a distribution identifier and parameter set to a sample,
// its theoretical density on the evaluation grid, and closed-form moments
type Resolver struct {
	registry   *families.Registry
	sampleSize int
}

// New creates a resolver drawing distribution.SampleSize observations per call
func New(registry *families.Registry) *Resolver {
	return &Resolver{
		registry:   registry,
		sampleSize: distribution.SampleSize,
	}
}

// Resolve validates params and computes a fresh SampleResult.
// Validation failures return a *core.ValidationError and no result;
// unknown identifiers return core.ErrUnsupportedDistribution.
func (r *Resolver) Resolve(id distribution.ID, params distribution.ParameterSet) (*distribution.SampleResult, error) {
	family, err := r.registry.Get(id)
	if err != nil {
		return nil, err
	}

	model, err := family.Bind(params)
	if err != nil {
		return nil, err
	}

	spec := family.Spec()
	grid := model.Grid()
	result := &distribution.SampleResult{
		Distribution: spec.ID,
		Kind:         spec.Kind,
		Parameters:   model.Parameters(),
		Sample:       model.Sample(r.sampleSize),
		Dimension:    model.Dimension(),
		Grid:         grid,
		Density:      model.Density(grid),
		Moments:      model.Moments(),
	}

	if pm, ok := model.(families.ProportionModel); ok {
		result.EmpiricalProportions = pm.EmpiricalProportions(result.Sample)
	}

	return result, nil
}

// Spec returns the static description of a family
func (r *Resolver) Spec(id distribution.ID) (distribution.Spec, error) {
	family, err := r.registry.Get(id)
	if err != nil {
		return distribution.Spec{}, err
	}
	return family.Spec(), nil
}

// Specs returns every registered family in display order
func (r *Resolver) Specs() []distribution.Spec {
	return r.registry.Specs()
}

// DefaultParameters returns the declared defaults for a family
func (r *Resolver) DefaultParameters(id distribution.ID) (distribution.ParameterSet, error) {
	spec, err := r.Spec(id)
	if err != nil {
		return nil, err
	}
	return spec.Defaults(), nil
}
