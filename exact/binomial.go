package exact

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// relErr is the tolerance used when deciding which outcomes are at least as
// extreme as the observed one in the two-sided binomial test.
const relErr = 1 + 1e-7

// BinomialResult is the outcome of an exact binomial test.
type BinomialResult struct {
	P        float64
	Estimate float64

	// Clopper-Pearson confidence interval for the success probability at
	// ConfLevel, one-sided when the alternative is.
	Lower, Upper float64
	ConfLevel    float64
}

type binom struct {
	n int
	p float64
	d distuv.Binomial
}

func newBinom(n int, p float64) binom {
	return binom{n: n, p: p, d: distuv.Binomial{N: float64(n), P: p}}
}

// pmf is P(X = k).
func (b binom) pmf(k int) float64 {
	if k < 0 || k > b.n {
		return 0
	}
	switch b.p {
	case 0:
		if k == 0 {
			return 1
		}
		return 0
	case 1:
		if k == b.n {
			return 1
		}
		return 0
	}

	return b.d.Prob(float64(k))
}

// cdf is P(X <= k).
func (b binom) cdf(k int) float64 {
	if k < 0 {
		return 0
	}
	if k >= b.n {
		return 1
	}
	switch b.p {
	case 0:
		return 1
	case 1:
		return 0
	}

	return b.d.CDF(float64(k))
}

// upper is P(X > k).
func (b binom) upper(k int) float64 {
	return 1 - b.cdf(k)
}

// Binomial performs an exact test of the null hypothesis that the probability
// of success in n Bernoulli trials is p, having observed x successes.
func Binomial(x, n int, p float64, alt Alternative, confLevel float64) (BinomialResult, error) {
	if n < 1 {
		return BinomialResult{}, fmt.Errorf("Binomial test needs at least one trial, got %d", n)
	}
	if x < 0 || x > n {
		return BinomialResult{}, fmt.Errorf("Binomial test successes (%d) must lie between 0 and the number of trials (%d)", x, n)
	}
	if p < 0 || p > 1 || math.IsNaN(p) {
		return BinomialResult{}, fmt.Errorf("Binomial test probability %v must lie between 0 and 1", p)
	}
	if confLevel <= 0 || confLevel >= 1 {
		return BinomialResult{}, fmt.Errorf("Confidence level %v must lie strictly between 0 and 1", confLevel)
	}

	b := newBinom(n, p)

	out := BinomialResult{
		Estimate:  float64(x) / float64(n),
		ConfLevel: confLevel,
	}

	switch alt {
	case Less:
		out.P = b.cdf(x)
		out.Lower, out.Upper = 0, clopperPearsonUpper(x, n, 1-confLevel)
	case Greater:
		out.P = b.upper(x - 1)
		out.Lower, out.Upper = clopperPearsonLower(x, n, 1-confLevel), 1
	default:
		out.P = binomialTwoSided(b, x)
		alpha := (1 - confLevel) / 2
		out.Lower, out.Upper = clopperPearsonLower(x, n, alpha), clopperPearsonUpper(x, n, alpha)
	}

	out.P = clamp01(out.P)

	return out, nil
}

// binomialTwoSided sums the probability of every outcome no more likely than
// x, on both sides of the expected count.
func binomialTwoSided(b binom, x int) float64 {
	d := b.pmf(x)
	m := float64(b.n) * b.p

	if float64(x) == m {
		return 1
	}

	if float64(x) < m {
		y := 0
		for i := int(math.Ceil(m)); i <= b.n; i++ {
			if b.pmf(i) <= d*relErr {
				y++
			}
		}
		return math.Min(1, b.cdf(x)+b.upper(b.n-y))
	}

	y := 0
	for i := 0; i <= int(math.Floor(m)); i++ {
		if b.pmf(i) <= d*relErr {
			y++
		}
	}

	return math.Min(1, b.cdf(y-1)+b.upper(x-1))
}

func clopperPearsonLower(x, n int, alpha float64) float64 {
	if x == 0 {
		return 0
	}

	return distuv.Beta{Alpha: float64(x), Beta: float64(n - x + 1)}.Quantile(alpha)
}

func clopperPearsonUpper(x, n int, alpha float64) float64 {
	if x == n {
		return 1
	}

	return distuv.Beta{Alpha: float64(x + 1), Beta: float64(n - x)}.Quantile(1 - alpha)
}
