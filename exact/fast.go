package exact

import "github.com/BenLubar/memoize"

var memoizedApproximate = memoize.Memoize(Approximate)

// Fast uses the chi-square approximation, folded to the tail of alt. If the
// approximate P value is below cutoff, the exact Fisher P value for alt is
// computed and returned instead. Tables that are clearly unremarkable
// therefore never pay for the exact computation.
func Fast(t Table2x2, alt Alternative, cutoff float64) (float64, error) {
	if !t.Valid() {
		return FisherP(t, alt)
	}

	p := oneSided(t, memoizedApproximate.(func(Table2x2) float64)(t), alt)
	if p < cutoff {
		return FisherP(t, alt)
	}

	return p, nil
}

// oneSided converts a two-sided chi-square P value into the P value for alt,
// using the direction of association in t.
func oneSided(t Table2x2, p float64, alt Alternative) float64 {
	switch alt {
	case Greater:
		if t.N11*t.N22 > t.N12*t.N21 {
			return p / 2
		}
		return 1 - p/2
	case Less:
		if t.N11*t.N22 < t.N12*t.N21 {
			return p / 2
		}
		return 1 - p/2
	}

	return p
}
