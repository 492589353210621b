package assoc

import (
	"math"

	"github.com/carbocation/runningvariance"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MinSamples is the fewest usable samples for which a slope and its standard
// error can be estimated.
const MinSamples = 3

// ols is a simple linear regression of y on x.
type ols struct {
	Intercept float64
	Slope     float64

	N     int
	MeanX float64
	SXX   float64

	// Sigma2 is the residual variance on N-2 degrees of freedom, NaN when
	// N is 2.
	Sigma2 float64

	// Constant is set when every response is the same.
	Constant bool
}

// pairs drops every position where either value is not finite.
func pairs(x, y []float64) ([]float64, []float64) {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsInf(x[i], 0) || math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}

	return xs, ys
}

// estimable reports whether a slope can be estimated: at least two samples
// and a covariate with more than one value.
func estimable(x []float64) bool {
	if len(x) < 2 {
		return false
	}

	distinct := make(map[float64]struct{})
	for _, v := range x {
		distinct[v] = struct{}{}
	}

	return len(distinct) >= 2
}

// constant reports whether every response is the same.
func constant(y []float64) bool {
	rs := runningvariance.NewRunningStat()
	for _, v := range y {
		rs.Push(v)
	}

	return rs.Variance() == 0
}

// fit returns the regression of y on x, or false if no slope can be
// estimated.
func fit(x, y []float64) (ols, bool) {
	if !estimable(x) {
		return ols{}, false
	}

	out := ols{N: len(x), Constant: constant(y)}
	out.Intercept, out.Slope = stat.LinearRegression(x, y, nil, false)

	var varX float64
	out.MeanX, varX = stat.MeanVariance(x, nil)
	out.SXX = varX * float64(out.N-1)

	if out.N > 2 {
		sse := 0.0
		for i := range x {
			r := y[i] - out.Predict(x[i])
			sse += r * r
		}
		out.Sigma2 = sse / float64(out.N-2)
	} else {
		out.Sigma2 = math.NaN()
	}

	return out, true
}

// Testable reports whether the slope can be tested against zero: at least
// MinSamples samples and a response that varies.
func (o ols) Testable() bool {
	return o.N >= MinSamples && !o.Constant
}

func (o ols) Predict(x float64) float64 {
	return o.Intercept + o.Slope*x
}

func (o ols) df() float64 {
	return float64(o.N - 2)
}

// SlopeSE is the standard error of the slope.
func (o ols) SlopeSE() float64 {
	return math.Sqrt(o.Sigma2 / o.SXX)
}

// SlopeP is the two-sided P value of the t test of a zero slope.
func (o ols) SlopeP() float64 {
	se := o.SlopeSE()
	if se == 0 {
		// Perfect fit
		return 0
	}

	t := math.Abs(o.Slope / se)
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: o.df()}

	return 2 * dist.Survival(t)
}

// PredictionInterval returns the interval expected to contain a new
// observation at x with probability level.
func (o ols) PredictionInterval(x, level float64) (lwr, upr float64) {
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: o.df()}
	q := dist.Quantile(1 - (1-level)/2)

	dx := x - o.MeanX
	se := math.Sqrt(o.Sigma2 * (1 + 1/float64(o.N) + dx*dx/o.SXX))
	fit := o.Predict(x)

	return fit - q*se, fit + q*se
}
