package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/vservo/internal/experiment"
)

var ErrNoCandidate = errors.New("optim: no converged candidate")

// GridSearch evaluates every combination of named parameter values and
// keeps the one minimising a run metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Builder returns a ready experiment for one parameter combination.
type Builder func(params map[string]float64) (*experiment.Experiment, error)

// Size is the number of combinations Search evaluates.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs every combination. Runs that fail to converge or report a
// negative metric are skipped.
func (g *GridSearch) Search(ctx context.Context, build Builder, metricName string) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("optim: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	idx := make([]int, len(g.ranges))
	for n := g.Size(); n > 0; n-- {
		if err := ctx.Err(); err != nil {
			return bestParams, best, err
		}

		params := make(map[string]float64, len(idx))
		for d, i := range idx {
			params[g.paramNames[d]] = g.ranges[d][i]
		}

		exp, err := build(params)
		if err != nil {
			return nil, 0, err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return nil, 0, err
		}
		if val, ok := result.Metrics[metricName]; ok && result.Converged && val >= 0 && val < best {
			best, bestParams = val, params
		}

		g.advance(idx)
	}

	if bestParams == nil {
		return nil, best, ErrNoCandidate
	}
	return bestParams, best, nil
}

// advance steps idx like an odometer, last parameter fastest.
func (g *GridSearch) advance(idx []int) {
	for d := len(idx) - 1; d >= 0; d-- {
		idx[d]++
		if idx[d] < len(g.ranges[d]) {
			return
		}
		idx[d] = 0
	}
}
