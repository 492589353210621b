// Package exact provides the exact tests used to score sample clusters
// against annotation categories: Fisher's exact test on a 2x2 table and the
// exact binomial test, plus a chi-square approximation that can be used to
// screen tables before running the exact computation.
package exact

import (
	"fmt"
	"strings"
)

// Alternative is the direction of the alternative hypothesis.
type Alternative int

const (
	TwoSided Alternative = iota
	Greater
	Less
)

func (a Alternative) String() string {
	switch a {
	case Greater:
		return "greater"
	case Less:
		return "less"
	}

	return "two.sided"
}

// ParseAlternative accepts two.sided (or two-sided, two_sided), greater and
// less.
func ParseAlternative(s string) (Alternative, error) {
	switch strings.ToLower(strings.NewReplacer("-", ".", "_", ".").Replace(s)) {
	case "two.sided", "two", "both":
		return TwoSided, nil
	case "greater":
		return Greater, nil
	case "less":
		return Less, nil
	}

	return TwoSided, fmt.Errorf("Alternative %s is not found. Valid alternatives include: two.sided, greater, less", s)
}
