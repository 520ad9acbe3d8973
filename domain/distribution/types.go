package distribution

import (
	"fmt"
	"sort"
)

// ID identifies a distribution family in the registry
type ID string

const (
	Normal           ID = "normal"
	Uniform          ID = "uniform"
	Exponential      ID = "exponential"
	Beta             ID = "beta"
	Binomial         ID = "binomial"
	Poisson          ID = "poisson"
	StudentsT        ID = "students_t"
	F                ID = "f"
	ChiSquared       ID = "chi_squared"
	Gamma            ID = "gamma"
	Weibull          ID = "weibull"
	Geometric        ID = "geometric"
	NegativeBinomial ID = "negative_binomial"
	Multinomial      ID = "multinomial"
)

func (id ID) String() string {
	return string(id)
}

// Kind controls how a family's support is restricted for evaluation and plotting
type Kind string

const (
	KindContinuous  Kind = "continuous"
	KindDiscrete    Kind = "discrete"
	KindNonNegative Kind = "non_negative"
)

// ParamSpec declares one named parameter of a family
type ParamSpec struct {
	Name        string  `json:"name" yaml:"name"`
	Label       string  `json:"label" yaml:"label"`
	Min         float64 `json:"min" yaml:"min"`
	Max         float64 `json:"max" yaml:"max"`
	Default     float64 `json:"default" yaml:"default"`
	Step        float64 `json:"step" yaml:"step"`
	Integer     bool    `json:"integer" yaml:"integer"`
	Description string  `json:"description" yaml:"description"` // Markdown
}

// Spec is the static, read-only description of a distribution family
type Spec struct {
	ID          ID          `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Kind        Kind        `json:"kind" yaml:"kind"`
	Params      []ParamSpec `json:"params" yaml:"params"`
	Formula     string      `json:"formula" yaml:"formula"`         // LaTeX
	Description string      `json:"description" yaml:"description"` // Markdown
}

// Param looks up a parameter declaration by name
func (s Spec) Param(name string) (ParamSpec, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamSpec{}, false
}

// Defaults returns a ParameterSet populated with every declared default
func (s Spec) Defaults() ParameterSet {
	params := make(ParameterSet, len(s.Params))
	for _, p := range s.Params {
		params[p.Name] = p.Default
	}
	return params
}

// Clone returns a deep copy so registry entries are never shared
func (s Spec) Clone() Spec {
	out := s
	out.Params = append([]ParamSpec(nil), s.Params...)
	return out
}

// ParameterSet maps parameter names to values for one family.
// It is supplied fresh on every call.
type ParameterSet map[string]float64

// Get returns the named value and whether it was supplied
func (p ParameterSet) Get(name string) (float64, bool) {
	v, ok := p[name]
	return v, ok
}

// Clone returns an independent copy
func (p ParameterSet) Clone() ParameterSet {
	out := make(ParameterSet, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Names returns parameter names in sorted order
func (p ParameterSet) Names() []string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// String renders the set deterministically, e.g. "mean=0, std_dev=1"
func (p ParameterSet) String() string {
	out := ""
	for i, name := range p.Names() {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s=%g", name, p[name])
	}
	return out
}
