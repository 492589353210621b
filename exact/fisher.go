package exact

import (
	"fmt"

	"github.com/BenLubar/memoize"
	fet "github.com/glycerine/golang-fisher-exact"
)

// Many edges share the same cluster size and category counts, so the same
// tables recur across a network.
var memoizedFisherExactTest = memoize.Memoize(fet.FisherExactTest)

// Table2x2 is a contingency table. Rows are in-cluster / not-in-cluster,
// columns are matches-category / does-not-match:
//
//	N11  N12
//	N21  N22
type Table2x2 struct {
	N11, N12, N21, N22 int
}

func (t Table2x2) String() string {
	return fmt.Sprintf("[[%d,%d],[%d,%d]]", t.N11, t.N12, t.N21, t.N22)
}

// N returns the total count.
func (t Table2x2) N() int {
	return t.N11 + t.N12 + t.N21 + t.N22
}

// Valid reports whether every cell is non-negative.
func (t Table2x2) Valid() bool {
	return t.N11 >= 0 && t.N12 >= 0 && t.N21 >= 0 && t.N22 >= 0
}

// FisherResult holds the probability of the observed table and the p-values
// for each alternative.
type FisherResult struct {
	// Prob is the hypergeometric probability of exactly this table.
	Prob float64

	// Left is P(X <= N11): the odds ratio is less than 1.
	Left float64

	// Right is P(X >= N11): the odds ratio is greater than 1.
	Right float64

	// TwoSided sums the probabilities of every table no more likely than
	// the observed one.
	TwoSided float64
}

// P returns the p-value for the requested alternative.
func (r FisherResult) P(alt Alternative) float64 {
	switch alt {
	case Greater:
		return r.Right
	case Less:
		return r.Left
	}

	return r.TwoSided
}

// Fisher computes Fisher's exact test for the table. Fisher is safe to call
// from concurrent goroutines.
func Fisher(t Table2x2) (FisherResult, error) {
	if !t.Valid() {
		return FisherResult{}, fmt.Errorf("Contingency table %s has a negative cell", t)
	}

	prob, left, right, two := memoizedFisherExactTest.(func(int, int, int, int) (float64, float64, float64, float64))(t.N11, t.N12, t.N21, t.N22)

	return FisherResult{
		Prob:     prob,
		Left:     clamp01(left),
		Right:    clamp01(right),
		TwoSided: clamp01(two),
	}, nil
}

// FisherP is a convenience wrapper returning only the p-value for alt.
func FisherP(t Table2x2, alt Alternative) (float64, error) {
	r, err := Fisher(t)
	if err != nil {
		return 0, err
	}

	return r.P(alt), nil
}

// Summed tail probabilities can drift a hair above 1.
func clamp01(p float64) float64 {
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}

	return p
}
