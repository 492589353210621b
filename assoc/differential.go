package assoc

import (
	"fmt"
	"math"

	"github.com/carbocation/coexstats/annotation"
	"github.com/carbocation/coexstats/expression"
	"github.com/carbocation/coexstats/network"
	"github.com/carbocation/pfx"
	"github.com/montanaflynn/stats"
	"gopkg.in/guregu/null.v3"
)

// DefaultLevel is the coverage of the prediction interval.
const DefaultLevel = 0.95

// Group is a named set of expression sample columns.
type Group struct {
	Name    string
	Samples []int
}

// Differential fits the regression of combined expression on field over the
// model samples, then scores each test sample by where its observed value
// falls in the prediction interval at level: -1 at the lower bound, 0 on the
// fitted line, 1 at the upper bound, clamped to [-1, 1]. The median score is
// returned. An empty model set means the edge's own samples. The result is
// missing if the model slope cannot be tested or no test sample is usable.
func Differential(edge network.Edge, expr *expression.Matrix, ann *annotation.Table, field string, model, test []int, level float64) (null.Float, error) {
	codes, err := covariate(expr, ann, field)
	if err != nil {
		return null.Float{}, err
	}

	return differential(edge, expr, codes, model, test, level)
}

func differential(edge network.Edge, expr *expression.Matrix, codes []float64, model, test []int, level float64) (null.Float, error) {
	if level <= 0 || level >= 1 {
		return null.Float{}, fmt.Errorf("Prediction level %v must lie strictly between 0 and 1", level)
	}

	model, err := edgeSamples(edge, model)
	if err != nil {
		return null.Float{}, err
	}

	mx, my, err := edgeData(edge, expr, codes, model)
	if err != nil {
		return null.Float{}, err
	}
	fitted, ok := fit(mx, my)
	if !ok || !fitted.Testable() {
		return null.Float{}, nil
	}

	tx, ty, err := edgeData(edge, expr, codes, test)
	if err != nil {
		return null.Float{}, err
	}
	if len(tx) == 0 {
		return null.Float{}, nil
	}

	scores := make([]float64, 0, len(tx))
	for i := range tx {
		lwr, upr := fitted.PredictionInterval(tx[i], level)
		scores = append(scores, intervalScore(ty[i], lwr, upr))
	}

	median, err := stats.Median(scores)
	if err != nil {
		return null.Float{}, pfx.Err(err)
	}

	return null.FloatFrom(median), nil
}

func intervalScore(y, lwr, upr float64) float64 {
	if upr == lwr {
		switch {
		case y > upr:
			return 1
		case y < lwr:
			return -1
		}
		return 0
	}

	return math.Max(-1, math.Min(1, 2*(y-lwr)/(upr-lwr)-1))
}

// DifferentialNetwork computes Differential for every edge and test group,
// appending one column per group named field_<group>_diff.
func DifferentialNetwork(net *network.Network, expr *expression.Matrix, ann *annotation.Table, field string, model []int, groups []Group, level float64, progress func(done, total int)) (*network.Annotated, error) {
	codes, err := covariate(expr, ann, field)
	if err != nil {
		return nil, pfx.Err(err)
	}

	if len(model) == 0 {
		if err := net.ValidateSamples(expr.NSamples()); err != nil {
			return nil, pfx.Err(err)
		}
	}

	columns := make([]string, 0, len(groups))
	for _, g := range groups {
		columns = append(columns, fmt.Sprintf("%s_%s_diff", field, g.Name))
	}

	out := network.NewAnnotated(net, columns)
	for i, edge := range net.Edges {
		for k, g := range groups {
			v, err := differential(edge, expr, codes, model, g.Samples, level)
			if err != nil {
				return nil, pfx.Err(fmt.Errorf("Edge %d (%s-%s), group %s: %w", i, edge.Source, edge.Target, g.Name, err))
			}
			out.Values[i][k] = v
		}

		if progress != nil {
			progress(i+1, len(net.Edges))
		}
	}

	return out, nil
}

// GroupsFromField builds one Group per level of field, holding the expression
// columns whose samples carry that level.
func GroupsFromField(expr *expression.Matrix, ann *annotation.Table, field string) ([]Group, error) {
	levels, err := ann.Levels(field)
	if err != nil {
		return nil, err
	}
	aligned, err := ann.Aligned(field, expr.Samples)
	if err != nil {
		return nil, err
	}

	out := make([]Group, 0, len(levels))
	for _, level := range levels {
		g := Group{Name: level}
		for i, v := range aligned {
			if v == level {
				g.Samples = append(g.Samples, i)
			}
		}
		if len(g.Samples) > 0 {
			out = append(out, g)
		}
	}

	return out, nil
}

// GroupSamples returns the expression columns whose field equals value.
func GroupSamples(expr *expression.Matrix, ann *annotation.Table, field, value string) ([]int, error) {
	aligned, err := ann.Aligned(field, expr.Samples)
	if err != nil {
		return nil, err
	}

	out := make([]int, 0)
	for i, v := range aligned {
		if v == value && !annotation.IsMissing(v) {
			out = append(out, i)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("No samples have %s=%s", field, value)
	}

	return out, nil
}
