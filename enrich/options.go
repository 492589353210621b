// Package enrich scores how strongly each annotation category is represented
// among the samples that support a network edge.
package enrich

import (
	"fmt"
	"strings"

	"github.com/carbocation/coexstats/exact"
	"github.com/carbocation/coexstats/padjust"
)

// Mode selects the test applied to each category.
type Mode int

const (
	// Enrichment compares the cluster against the remaining samples with
	// Fisher's exact test.
	Enrichment Mode = iota

	// Uniqueness compares the category's frequency within the cluster against
	// its frequency among all annotated samples with an exact binomial test.
	Uniqueness
)

func (m Mode) String() string {
	if m == Uniqueness {
		return "uniqueness"
	}

	return "enrichment"
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "enrichment", "enrich", "fisher":
		return Enrichment, nil
	case "uniqueness", "unique", "binomial":
		return Uniqueness, nil
	}

	return Enrichment, fmt.Errorf("Mode %s is not found. Valid modes include: enrichment, uniqueness", s)
}

const (
	DefaultConfLevel  = 0.99
	DefaultFastCutoff = 0.05
)

// Options controls a category test. Start from DefaultOptions: the zero value
// of Alternative is two-sided, which is not the default for either mode.
type Options struct {
	Mode        Mode
	Alternative exact.Alternative
	Correction  padjust.Method

	// ConfLevel is the confidence level of the binomial interval.
	ConfLevel float64

	// Joint adjusts the p-values of all categories of one cluster together,
	// rather than adjusting each one alone against the number of categories.
	Joint bool

	// Fast screens enrichment tables with the chi-square approximation and
	// only runs the exact test when the approximate P is below FastCutoff.
	Fast       bool
	FastCutoff float64
}

// DefaultOptions returns the defaults for mode: a greater-than alternative for
// enrichment, less-than for uniqueness, Hochberg correction and a 99%
// confidence level.
func DefaultOptions(mode Mode) Options {
	alt := exact.Greater
	if mode == Uniqueness {
		alt = exact.Less
	}

	return Options{
		Mode:        mode,
		Alternative: alt,
		Correction:  padjust.Hochberg,
		ConfLevel:   DefaultConfLevel,
		FastCutoff:  DefaultFastCutoff,
	}
}

func (o Options) validate() (Options, error) {
	if o.Correction == "" {
		o.Correction = padjust.Hochberg
	}
	if _, err := padjust.ParseMethod(string(o.Correction)); err != nil {
		return o, err
	}
	if o.ConfLevel == 0 {
		o.ConfLevel = DefaultConfLevel
	}
	if o.ConfLevel < 0 || o.ConfLevel >= 1 {
		return o, fmt.Errorf("Confidence level %v must lie strictly between 0 and 1", o.ConfLevel)
	}
	if o.FastCutoff == 0 {
		o.FastCutoff = DefaultFastCutoff
	}
	if o.Mode != Enrichment && o.Mode != Uniqueness {
		return o, fmt.Errorf("Unknown mode %d", o.Mode)
	}

	return o, nil
}
