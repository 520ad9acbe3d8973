package families

import (
	"distlab/domain/core"
	"distlab/domain/distribution"
)

// Registry dispatches distribution identifiers to their handlers
type Registry struct {
	families map[distribution.ID]Family
	order    []distribution.ID
}

// NewRegistry creates a registry holding all fourteen supported families
func NewRegistry() *Registry {
	r := &Registry{families: make(map[distribution.ID]Family)}
	for _, f := range []Family{
		NewNormal(),
		NewUniform(),
		NewExponential(),
		NewBeta(),
		NewBinomial(),
		NewPoisson(),
		NewStudentsT(),
		NewF(),
		NewChiSquared(),
		NewGamma(),
		NewWeibull(),
		NewGeometric(),
		NewNegativeBinomial(),
		NewMultinomial(),
	} {
		id := f.Spec().ID
		r.families[id] = f
		r.order = append(r.order, id)
	}
	return r
}

// Get returns the handler for id, or an ErrUnsupportedDistribution error
func (r *Registry) Get(id distribution.ID) (Family, error) {
	f, ok := r.families[id]
	if !ok {
		return nil, core.NewUnsupportedDistributionError(id.String())
	}
	return f, nil
}

// IDs returns the registered identifiers in display order
func (r *Registry) IDs() []distribution.ID {
	return append([]distribution.ID(nil), r.order...)
}

// Specs returns copies of every family spec in display order
func (r *Registry) Specs() []distribution.Spec {
	specs := make([]distribution.Spec, len(r.order))
	for i, id := range r.order {
		specs[i] = r.families[id].Spec()
	}
	return specs
}
