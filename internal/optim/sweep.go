// Package optim searches scenario parameters for the best value of a run
// metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/san-kum/astrodyn/internal/config"
	"github.com/san-kum/astrodyn/internal/experiment"
)

var ErrNoCandidates = errors.New("optim: no candidate produced the metric")

// Trial is one evaluated grid point.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// GridSearch evaluates every combination of the given parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	maximize   bool
	logger     log.Logger
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, logger: log.NewNopLogger()}
}

// Maximize flips the objective from smallest to largest metric value.
func (g *GridSearch) Maximize(on bool) *GridSearch {
	g.maximize = on
	return g
}

func (g *GridSearch) WithLogger(l log.Logger) *GridSearch {
	g.logger = l
	return g
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs base once per grid point with the point's values written into
// the model params, and returns the best point and every trial in grid order.
// A trial that fails to build or run is recorded and skipped.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (Trial, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return Trial{}, nil, fmt.Errorf("optim: %d params but %d ranges", len(g.paramNames), len(g.ranges))
	}

	var trials []Trial
	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) {
		trials = append(trials, g.evaluate(ctx, base, params, metricName))
	})
	if err != nil {
		return Trial{}, trials, err
	}

	best := Trial{Value: math.Inf(1)}
	if g.maximize {
		best.Value = math.Inf(-1)
	}
	found := false
	for _, tr := range trials {
		if tr.Err != nil {
			continue
		}
		if (g.maximize && tr.Value > best.Value) || (!g.maximize && tr.Value < best.Value) {
			best = tr
			found = true
		}
	}
	if !found {
		return Trial{}, trials, fmt.Errorf("%w: %s", ErrNoCandidates, metricName)
	}
	return best, trials, nil
}

func (g *GridSearch) evaluate(ctx context.Context, base *config.Config, params map[string]float64, metricName string) Trial {
	tr := Trial{Params: params}

	cfg := base.Clone()
	if cfg.Params == nil {
		cfg.Params = make(map[string]float64, len(params))
	}
	for k, v := range params {
		cfg.Params[k] = v
	}

	exp := experiment.New(cfg)
	if tr.Err = exp.Setup(); tr.Err != nil {
		level.Warn(g.logger).Log("msg", "trial setup failed", "params", fmtParams(params), "err", tr.Err)
		return tr
	}
	result, err := exp.Run(ctx)
	if err != nil {
		tr.Err = err
		level.Warn(g.logger).Log("msg", "trial failed", "params", fmtParams(params), "err", err)
		return tr
	}
	v, ok := result.Metrics[metricName]
	if !ok || math.IsNaN(v) {
		tr.Err = fmt.Errorf("metric %s not recorded", metricName)
		return tr
	}
	tr.Value = v
	level.Debug(g.logger).Log("msg", "trial done", "params", fmtParams(params), metricName, v)
	return tr
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, visit func(map[string]float64)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		visit(current)
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, visit); err != nil {
			return err
		}
	}
	return nil
}

func fmtParams(p map[string]float64) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	s := ""
	for i, k := range keys {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf("%s=%g", k, p[k])
	}
	return s
}
