package enrich

import (
	"fmt"
	"math"
	"strings"

	"github.com/carbocation/coexstats/annotation"
	"github.com/carbocation/coexstats/exact"
	"github.com/carbocation/coexstats/padjust"
	"github.com/carbocation/pfx"
	"gopkg.in/guregu/null.v3"
)

// Tester scores clusters against every category of one annotation field.
// Samples are identified by their position in sampleIDs, which is normally the
// column order of the expression matrix. Samples whose value is missing take
// no part in any test.
type Tester struct {
	Field      string
	Categories []string

	opts      Options
	values    []string
	annotated []bool

	nAnnotated int
	matches    map[string]int
}

// NewTester prepares a Tester for field.
func NewTester(ann *annotation.Table, field string, sampleIDs []string, opts Options) (*Tester, error) {
	opts, err := opts.validate()
	if err != nil {
		return nil, err
	}

	values, err := ann.Aligned(field, sampleIDs)
	if err != nil {
		return nil, err
	}

	categories, err := ann.Levels(field)
	if err != nil {
		return nil, err
	}

	t := &Tester{
		Field:      field,
		Categories: categories,
		opts:       opts,
		values:     values,
		annotated:  make([]bool, len(values)),
		matches:    make(map[string]int, len(categories)),
	}
	for i, v := range values {
		if annotation.IsMissing(v) {
			continue
		}
		t.annotated[i] = true
		t.nAnnotated++
		t.matches[v]++
	}

	return t, nil
}

func (t *Tester) hasCategory(category string) bool {
	for _, c := range t.Categories {
		if c == category {
			return true
		}
	}

	return false
}

func (t *Tester) checkCluster(cluster []int) error {
	if len(cluster) == 0 {
		return fmt.Errorf("Cluster has no samples")
	}
	for _, i := range cluster {
		if i < 0 || i >= len(t.values) {
			return fmt.Errorf("Cluster sample index %d is outside of the %d samples", i, len(t.values))
		}
	}

	return nil
}

// ContingencyTable counts annotated samples as
//
//	in cluster & matches      in cluster & does not match
//	out of cluster & matches  out of cluster & does not match
//
// A category that is annotated in the field but absent from these samples
// yields a table with an empty first column.
func (t *Tester) ContingencyTable(category string, cluster []int) (exact.Table2x2, error) {
	if !t.hasCategory(category) {
		return exact.Table2x2{}, fmt.Errorf("Category %s is not found in field %s. Valid categories include: %s", category, t.Field, strings.Join(t.Categories, ", "))
	}
	if err := t.checkCluster(cluster); err != nil {
		return exact.Table2x2{}, err
	}

	inCluster := make([]bool, len(t.values))
	for _, i := range cluster {
		inCluster[i] = true
	}

	var tab exact.Table2x2
	for i, v := range t.values {
		if !t.annotated[i] {
			continue
		}
		match := v == category
		switch {
		case inCluster[i] && match:
			tab.N11++
		case inCluster[i]:
			tab.N12++
		case match:
			tab.N21++
		default:
			tab.N22++
		}
	}

	return tab, nil
}

// PValue returns the unadjusted P value for category. NaN means the test
// could not be performed on these samples, for example a uniqueness test on a
// cluster with no annotated members.
func (t *Tester) PValue(category string, cluster []int) (float64, error) {
	tab, err := t.ContingencyTable(category, cluster)
	if err != nil {
		return math.NaN(), err
	}

	if t.opts.Mode == Uniqueness {
		n := tab.N11 + tab.N12
		if n == 0 || t.nAnnotated == 0 {
			return math.NaN(), nil
		}
		freq := float64(t.matches[category]) / float64(t.nAnnotated)

		res, err := exact.Binomial(tab.N11, n, freq, t.opts.Alternative, t.opts.ConfLevel)
		if err != nil {
			return math.NaN(), pfx.Err(err)
		}
		return res.P, nil
	}

	if t.opts.Fast {
		p, err := exact.Fast(tab, t.opts.Alternative, t.opts.FastCutoff)
		return p, pfx.Err(err)
	}

	p, err := exact.FisherP(tab, t.opts.Alternative)
	return p, pfx.Err(err)
}

// Test returns the P value for category, adjusted on its own as one of
// len(Categories) comparisons.
func (t *Tester) Test(category string, cluster []int) (null.Float, error) {
	p, err := t.PValue(category, cluster)
	if err != nil {
		return null.Float{}, err
	}
	if math.IsNaN(p) {
		return null.Float{}, nil
	}

	adj, err := padjust.AdjustOne(p, t.opts.Correction, len(t.Categories))
	if err != nil {
		return null.Float{}, pfx.Err(err)
	}

	return null.FloatFrom(adj), nil
}

// TestAll scores every category in Categories order. With Options.Joint the
// category P values are adjusted together; otherwise each is adjusted alone as
// in Test.
func (t *Tester) TestAll(cluster []int) ([]null.Float, error) {
	out := make([]null.Float, len(t.Categories))

	if !t.opts.Joint {
		for k, category := range t.Categories {
			v, err := t.Test(category, cluster)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	}

	raw := make([]float64, len(t.Categories))
	for k, category := range t.Categories {
		p, err := t.PValue(category, cluster)
		if err != nil {
			return nil, err
		}
		raw[k] = p
	}

	adj, err := padjust.Adjust(raw, t.opts.Correction, 0)
	if err != nil {
		return nil, pfx.Err(err)
	}
	for k, p := range adj {
		if !math.IsNaN(p) {
			out[k] = null.FloatFrom(p)
		}
	}

	return out, nil
}

// Test scores one category of field for a cluster of sample indices. The
// indices refer to positions in sampleIDs.
func Test(category, field string, ann *annotation.Table, cluster []int, sampleIDs []string, opts Options) (null.Float, error) {
	t, err := NewTester(ann, field, sampleIDs, opts)
	if err != nil {
		return null.Float{}, err
	}

	return t.Test(category, cluster)
}

// ContingencyTable builds the enrichment table for one category of field.
func ContingencyTable(category, field string, ann *annotation.Table, cluster []int, sampleIDs []string) (exact.Table2x2, error) {
	t, err := NewTester(ann, field, sampleIDs, DefaultOptions(Enrichment))
	if err != nil {
		return exact.Table2x2{}, err
	}

	return t.ContingencyTable(category, cluster)
}
