package exact

import (
	"math"

	"github.com/tokenme/probab/dst"
)

// Approximate returns the Pearson chi-square (1 degree of freedom, no
// continuity correction) p-value for the table. It is two-sided.
func Approximate(t Table2x2) (p float64) {
	p = 1.0
	defer func() { recover() }()

	p = 1.0 - dst.ChiSquareCDF(1)(ChiSquare(t))

	return
}

// ChiSquare returns the Pearson chi-square statistic for the table. A table
// with an empty row or column carries no information about association and
// yields 0, which maps to P=1.0.
func ChiSquare(t Table2x2) float64 {
	r1 := float64(t.N11 + t.N12)
	r2 := float64(t.N21 + t.N22)
	c1 := float64(t.N11 + t.N21)
	c2 := float64(t.N12 + t.N22)

	if r1 == 0 || r2 == 0 || c1 == 0 || c2 == 0 {
		return 0.0
	}

	N := r1 + r2
	diff := float64(t.N11)*float64(t.N22) - float64(t.N12)*float64(t.N21)

	return N * math.Pow(diff, 2) / (r1 * r2 * c1 * c2)
}
