// Package comparison computes overlay and parameter-sensitivity curves on
// the shared evaluation grid. It never draws samples.
package comparison

import (
	"fmt"

	"distlab/adapters/stats/families"
	"distlab/domain/core"
	"distlab/domain/distribution"
)

// Curve is one labelled density series aligned with Grid()
type Curve struct {
	Label      string                    `json:"label" yaml:"label"`
	Parameters distribution.ParameterSet `json:"parameters" yaml:"parameters"`
	Density    []float64                 `json:"density" yaml:"density"`
}

// Panel groups the curves produced by varying one parameter
type Panel struct {
	Title     string  `json:"title" yaml:"title"`
	Parameter string  `json:"parameter" yaml:"parameter"`
	Curves    []Curve `json:"curves" yaml:"curves"`
}

// OverlayFamilies lists the families available for overlay, in display order
var OverlayFamilies = []distribution.ID{
	distribution.Normal,
	distribution.Uniform,
	distribution.Exponential,
	distribution.Gamma,
}

var canonical = map[distribution.ID]struct {
	label  string
	params distribution.ParameterSet
}{
	distribution.Normal:      {"Normal(μ=0, σ=1)", distribution.ParameterSet{"mean": 0, "std_dev": 1}},
	distribution.Uniform:     {"Uniform(a=-1, b=1)", distribution.ParameterSet{"low": -1, "high": 1}},
	distribution.Exponential: {"Exponential(scale=1)", distribution.ParameterSet{"scale": 1}},
	distribution.Gamma:       {"Gamma(k=2, θ=1)", distribution.ParameterSet{"k": 2, "theta": 1}},
}

// SensitivityFamilies lists the families Sensitivity accepts
var SensitivityFamilies = []distribution.ID{distribution.Normal, distribution.Gamma}

var (
	normalMeans   = []float64{-2, 0, 2}
	normalStdDevs = []float64{0.5, 1, 2}
	gammaShapes   = []float64{0.5, 1, 2, 5}
)

// Engine evaluates fixed comparison scenarios
type Engine struct {
	registry *families.Registry
	grid     []float64
}

// NewEngine creates an engine evaluating on distribution.DefaultGrid
func NewEngine(registry *families.Registry) *Engine {
	return &Engine{
		registry: registry,
		grid:     distribution.DefaultGrid(),
	}
}

// Grid returns a copy of the shared evaluation grid
func (e *Engine) Grid() []float64 {
	return append([]float64(nil), e.grid...)
}

// Overlay evaluates the canonical parameterisation of each selected family.
// Repeated identifiers collapse to one entry.
func (e *Engine) Overlay(selection []distribution.ID) (map[distribution.ID]Curve, error) {
	curves := make(map[distribution.ID]Curve, len(selection))
	for _, id := range selection {
		if _, done := curves[id]; done {
			continue
		}
		c, ok := canonical[id]
		if !ok {
			return nil, core.NewUnsupportedDistributionError(id.String())
		}
		density, err := e.density(id, c.params)
		if err != nil {
			return nil, err
		}
		curves[id] = Curve{Label: c.label, Parameters: c.params.Clone(), Density: density}
	}
	return curves, nil
}

// Sensitivity varies one parameter at a time around base.
// Normal yields a mean panel and a std_dev panel; gamma yields a shape panel.
func (e *Engine) Sensitivity(id distribution.ID, base distribution.ParameterSet) ([]Panel, error) {
	family, err := e.registry.Get(id)
	if err != nil {
		return nil, err
	}

	switch id {
	case distribution.Normal:
		if err := family.Validate(base); err != nil {
			return nil, err
		}
		return e.normalPanels(base["mean"], base["std_dev"])
	case distribution.Gamma:
		if err := family.Validate(base); err != nil {
			return nil, err
		}
		return []Panel{e.gammaPanel(base["theta"])}, nil
	default:
		return nil, core.NewUnsupportedDistributionError(id.String())
	}
}

func (e *Engine) normalPanels(mean, stdDev float64) ([]Panel, error) {
	byMean := Panel{
		Title:     fmt.Sprintf("Varying mean (σ=%g)", stdDev),
		Parameter: "mean",
	}
	for _, mu := range normalMeans {
		params := distribution.ParameterSet{"mean": mu, "std_dev": stdDev}
		density, err := e.density(distribution.Normal, params)
		if err != nil {
			return nil, err
		}
		byMean.Curves = append(byMean.Curves, Curve{Label: fmt.Sprintf("μ=%g", mu), Parameters: params, Density: density})
	}

	bySpread := Panel{
		Title:     fmt.Sprintf("Varying standard deviation (μ=%g)", mean),
		Parameter: "std_dev",
	}
	for _, sigma := range normalStdDevs {
		params := distribution.ParameterSet{"mean": mean, "std_dev": sigma}
		density, err := e.density(distribution.Normal, params)
		if err != nil {
			return nil, err
		}
		bySpread.Curves = append(bySpread.Curves, Curve{Label: fmt.Sprintf("σ=%g", sigma), Parameters: params, Density: density})
	}

	return []Panel{byMean, bySpread}, nil
}

func (e *Engine) gammaPanel(theta float64) Panel {
	panel := Panel{
		Title:     fmt.Sprintf("Varying shape (θ=%g)", theta),
		Parameter: "k",
	}
	for _, k := range gammaShapes {
		panel.Curves = append(panel.Curves, Curve{
			Label:      fmt.Sprintf("k=%g", k),
			Parameters: distribution.ParameterSet{"k": k, "theta": theta},
			Density:    families.GammaDensity(k, theta, e.grid),
		})
	}
	return panel
}

func (e *Engine) density(id distribution.ID, params distribution.ParameterSet) ([]float64, error) {
	family, err := e.registry.Get(id)
	if err != nil {
		return nil, err
	}
	model, err := family.Bind(params)
	if err != nil {
		return nil, err
	}
	return model.Density(e.grid), nil
}
