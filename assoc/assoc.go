// Package assoc relates the combined expression of an edge's two genes to a
// sample annotation, over the samples that support the edge.
package assoc

import (
	"fmt"

	"github.com/carbocation/coexstats/annotation"
	"github.com/carbocation/coexstats/expression"
	"github.com/carbocation/coexstats/network"
	"github.com/carbocation/pfx"
	"gopkg.in/guregu/null.v3"
)

// Result of regressing combined expression on a covariate. Effect is missing
// when no slope could be estimated, and P is also missing when the slope
// cannot be tested.
type Result struct {
	P      null.Float
	Effect null.Float

	// N is the number of samples with both a covariate value and finite
	// expression.
	N int
}

// Options for network-wide association.
type Options struct {
	// Override, if non-empty, replaces each edge's own samples.
	Override []int

	// Progress, if set, is called after each edge.
	Progress func(done, total int)
}

// covariate returns the factor codes of field aligned to the expression
// samples.
func covariate(expr *expression.Matrix, ann *annotation.Table, field string) ([]float64, error) {
	return ann.Factor(field, expr.Samples)
}

// edgeData collects the usable (covariate, combined expression) pairs for an
// edge over samples.
func edgeData(edge network.Edge, expr *expression.Matrix, codes []float64, samples []int) ([]float64, []float64, error) {
	y, err := expr.Combined(edge.Source, edge.Target, samples)
	if err != nil {
		return nil, nil, err
	}

	x := make([]float64, len(samples))
	for k, i := range samples {
		x[k] = codes[i]
	}

	xs, ys := pairs(x, y)

	return xs, ys, nil
}

func edgeSamples(edge network.Edge, override []int) ([]int, error) {
	if len(override) > 0 {
		return override, nil
	}

	return edge.SampleIndices()
}

// Test regresses the summed expression of the edge's Source and Target genes
// on the numeric factor codes of field. samples selects expression columns;
// if it is empty, the edge's own Samples string is used.
func Test(edge network.Edge, expr *expression.Matrix, ann *annotation.Table, field string, samples []int) (Result, error) {
	codes, err := covariate(expr, ann, field)
	if err != nil {
		return Result{}, err
	}

	return test(edge, expr, codes, samples)
}

func test(edge network.Edge, expr *expression.Matrix, codes []float64, samples []int) (Result, error) {
	samples, err := edgeSamples(edge, samples)
	if err != nil {
		return Result{}, err
	}

	x, y, err := edgeData(edge, expr, codes, samples)
	if err != nil {
		return Result{}, err
	}

	out := Result{N: len(x)}
	model, ok := fit(x, y)
	if !ok {
		return out, nil
	}

	out.Effect = null.FloatFrom(model.Slope)
	if model.Testable() {
		out.P = null.FloatFrom(model.SlopeP())
	}

	return out, nil
}

// Network tests every edge and returns a copy of net with the columns
// field_pval and field_effect appended.
func Network(net *network.Network, expr *expression.Matrix, ann *annotation.Table, field string, opts Options) (*network.Annotated, error) {
	codes, err := covariate(expr, ann, field)
	if err != nil {
		return nil, pfx.Err(err)
	}

	if len(opts.Override) == 0 {
		if err := net.ValidateSamples(expr.NSamples()); err != nil {
			return nil, pfx.Err(err)
		}
	}

	out := network.NewAnnotated(net, []string{field + "_pval", field + "_effect"})
	for i, edge := range net.Edges {
		res, err := test(edge, expr, codes, opts.Override)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("Edge %d (%s-%s): %w", i, edge.Source, edge.Target, err))
		}
		out.Values[i][0] = res.P
		out.Values[i][1] = res.Effect

		if opts.Progress != nil {
			opts.Progress(i+1, len(net.Edges))
		}
	}

	return out, nil
}
