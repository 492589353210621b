// Package annotation holds per-sample metadata: one row per sample, keyed by
// the mandatory Sample column, with arbitrary categorical or quantitative
// fields.
package annotation

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/coexstats"
	"github.com/carbocation/pfx"
)

// ColSample is the mandatory sample identifier column.
const ColSample = "Sample"

type Table struct {
	Samples []string
	Fields  []string

	values      map[string][]string
	sampleIndex map[string]int
}

// IsMissing reports whether an annotation value should be treated as absent.
func IsMissing(v string) bool {
	switch strings.TrimSpace(v) {
	case "", "NA", "NaN", "nan", "null", "NULL":
		return true
	}

	return false
}

// FromTable builds an annotation Table from a parsed delimited table.
func FromTable(t *coexstats.Table) (*Table, error) {
	colSample := t.Column(ColSample)
	if colSample < 0 {
		return nil, fmt.Errorf("Annotation table must have a %s column. Found: %v", ColSample, t.Header)
	}

	out := &Table{
		values:      make(map[string][]string),
		sampleIndex: make(map[string]int, len(t.Rows)),
	}
	for i, name := range t.Header {
		if i == colSample {
			continue
		}
		out.Fields = append(out.Fields, name)
		out.values[name] = make([]string, 0, len(t.Rows))
	}

	for i, row := range t.Rows {
		if len(row) != len(t.Header) {
			return nil, fmt.Errorf("Row %d has %d columns, expected %d", i+1, len(row), len(t.Header))
		}

		id := row[colSample]
		if _, exists := out.sampleIndex[id]; exists {
			return nil, fmt.Errorf("Sample %s appears more than once", id)
		}
		out.sampleIndex[id] = len(out.Samples)
		out.Samples = append(out.Samples, id)

		for j, name := range t.Header {
			if j == colSample {
				continue
			}
			out.values[name] = append(out.values[name], row[j])
		}
	}

	return out, nil
}

// ReadFromPath reads an annotation table from a local or gs:// path.
func ReadFromPath(ctx context.Context, path string, client *storage.Client) (*Table, error) {
	t, err := coexstats.ReadTableFromPath(ctx, path, client)
	if err != nil {
		return nil, err
	}

	a, err := FromTable(t)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return a, nil
}

// HasField reports whether the table carries the named field.
func (t *Table) HasField(field string) bool {
	_, exists := t.values[field]
	return exists
}

// Field returns the raw values of field in annotation row order.
func (t *Table) Field(field string) ([]string, error) {
	v, exists := t.values[field]
	if !exists {
		return nil, fmt.Errorf("Annotation field %s not found. Valid fields include: %s", field, strings.Join(t.Fields, ", "))
	}

	return v, nil
}

// Value returns the value of field for one sample identifier.
func (t *Table) Value(field, sample string) (string, bool) {
	v, exists := t.values[field]
	if !exists {
		return "", false
	}
	i, exists := t.sampleIndex[sample]
	if !exists {
		return "", false
	}

	return v[i], true
}

// Aligned returns the values of field reordered to match sampleIDs, which is
// usually the column order of the expression matrix. Samples without an
// annotation row get an empty (missing) value.
func (t *Table) Aligned(field string, sampleIDs []string) ([]string, error) {
	v, err := t.Field(field)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(sampleIDs))
	for k, id := range sampleIDs {
		if i, exists := t.sampleIndex[id]; exists {
			out[k] = v[i]
		}
	}

	return out, nil
}

// Levels returns the distinct non-missing values of field, in first-seen
// order.
func (t *Table) Levels(field string) ([]string, error) {
	v, err := t.Field(field)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, x := range v {
		if IsMissing(x) {
			continue
		}
		if _, exists := seen[x]; exists {
			continue
		}
		seen[x] = struct{}{}
		out = append(out, x)
	}

	return out, nil
}

// FactorCodes maps each distinct value to its 1-based level. Levels are sorted
// numerically when every value parses as a number, and lexically otherwise.
func FactorCodes(values []string) map[string]float64 {
	distinct := make([]string, 0)
	seen := make(map[string]struct{})
	allNumeric := true
	for _, x := range values {
		if IsMissing(x) {
			continue
		}
		if _, exists := seen[x]; exists {
			continue
		}
		seen[x] = struct{}{}
		distinct = append(distinct, x)
		if _, err := strconv.ParseFloat(x, 64); err != nil {
			allNumeric = false
		}
	}

	sort.SliceStable(distinct, func(i, j int) bool {
		if allNumeric {
			a, _ := strconv.ParseFloat(distinct[i], 64)
			b, _ := strconv.ParseFloat(distinct[j], 64)
			return a < b
		}
		return distinct[i] < distinct[j]
	})

	out := make(map[string]float64, len(distinct))
	for i, x := range distinct {
		out[x] = float64(i + 1)
	}

	return out
}

// Factor coerces field to numeric factor codes aligned to sampleIDs. Codes are
// assigned over every annotated sample, so the same value has the same code
// regardless of which subset is later analysed. Missing values are NaN.
func (t *Table) Factor(field string, sampleIDs []string) ([]float64, error) {
	v, err := t.Field(field)
	if err != nil {
		return nil, err
	}
	codes := FactorCodes(v)

	aligned, err := t.Aligned(field, sampleIDs)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(aligned))
	for i, x := range aligned {
		code, exists := codes[x]
		if !exists {
			out[i] = math.NaN()
			continue
		}
		out[i] = code
	}

	return out, nil
}
