package app

import (
	"context"
	"fmt"
	"time"

	"distlab/domain/distribution"
	"distlab/internal"
	"distlab/internal/comparison"
	"distlab/internal/resolver"
	"distlab/internal/statistics"
)

// ExplorerService chains the resolver and the statistics calculator and
// fronts the comparison engine for every presentation layer
type ExplorerService struct {
	resolver   *resolver.Resolver
	calculator *statistics.Calculator
	comparison *comparison.Engine
	logger     *internal.Logger
}

// Exploration is one resolved parameter set together with its statistics
type Exploration struct {
	Spec       distribution.Spec          `json:"spec" yaml:"spec"`
	Result     *distribution.SampleResult `json:"result" yaml:"result"`
	Statistics *statistics.Report         `json:"statistics" yaml:"statistics"`
	Elapsed    time.Duration              `json:"elapsed_ns" yaml:"elapsed_ns"`
}

// NewExplorerService creates an explorer service
func NewExplorerService(r *resolver.Resolver, calc *statistics.Calculator, cmp *comparison.Engine, logger *internal.Logger) *ExplorerService {
	return &ExplorerService{
		resolver:   r,
		calculator: calc,
		comparison: cmp,
		logger:     logger.With("explorer"),
	}
}

// Specs lists every supported family
func (s *ExplorerService) Specs() []distribution.Spec {
	return s.resolver.Specs()
}

// Spec describes one family
func (s *ExplorerService) Spec(id distribution.ID) (distribution.Spec, error) {
	return s.resolver.Spec(id)
}

// Parameters overlays overrides on the family defaults. Overrides for
// parameters the family does not declare are kept so validation can see them.
func (s *ExplorerService) Parameters(id distribution.ID, overrides distribution.ParameterSet) (distribution.ParameterSet, error) {
	params, err := s.resolver.DefaultParameters(id)
	if err != nil {
		return nil, err
	}
	for name, v := range overrides {
		params[name] = v
	}
	return params, nil
}

// Explore resolves params and describes the resulting sample. On any
// failure nothing downstream runs and no partial exploration is returned.
func (s *ExplorerService) Explore(ctx context.Context, id distribution.ID, params distribution.ParameterSet) (*Exploration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	spec, err := s.resolver.Spec(id)
	if err != nil {
		s.logger.Warn("explore %s rejected: %v", id, err)
		return nil, err
	}

	result, err := s.resolver.Resolve(id, params)
	if err != nil {
		s.logger.Warn("explore %s rejected: %v", id, err)
		return nil, err
	}

	report, err := s.calculator.DescribeResult(result)
	if err != nil {
		s.logger.Warn("describe %s failed: %v", id, err)
		return nil, fmt.Errorf("describe %s: %w", id, err)
	}

	elapsed := time.Since(start)
	s.logger.Debug("explored %s (%s) in %s", id, result.Parameters, elapsed)

	return &Exploration{
		Spec:       spec,
		Result:     result,
		Statistics: report,
		Elapsed:    elapsed,
	}, nil
}

// Describe summarises an externally supplied sample as if drawn from id with params
func (s *ExplorerService) Describe(ctx context.Context, id distribution.ID, params distribution.ParameterSet, sample []float64) (*statistics.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report, err := s.calculator.Describe(sample, id, params)
	if err != nil {
		s.logger.Warn("describe %s rejected: %v", id, err)
		return nil, err
	}
	s.logger.Debug("described %d values as %s", len(sample), id)
	return report, nil
}

// Overlay evaluates canonical curves for the selected families
func (s *ExplorerService) Overlay(ctx context.Context, selection []distribution.ID) (map[distribution.ID]comparison.Curve, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	curves, err := s.comparison.Overlay(selection)
	if err != nil {
		s.logger.Warn("overlay %v rejected: %v", selection, err)
		return nil, err
	}
	s.logger.Debug("overlay of %d families", len(curves))
	return curves, nil
}

// Sensitivity evaluates one-parameter sweeps around base
func (s *ExplorerService) Sensitivity(ctx context.Context, id distribution.ID, base distribution.ParameterSet) ([]comparison.Panel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	panels, err := s.comparison.Sensitivity(id, base)
	if err != nil {
		s.logger.Warn("sensitivity %s rejected: %v", id, err)
		return nil, err
	}
	s.logger.Debug("sensitivity %s: %d panels", id, len(panels))
	return panels, nil
}

// Grid is the shared evaluation grid used by overlay and sensitivity curves
func (s *ExplorerService) Grid() []float64 {
	return s.comparison.Grid()
}
