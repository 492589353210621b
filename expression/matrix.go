// Package expression holds a gene by sample expression matrix. Column order
// defines the sample index space that decoded Samples strings refer to.
package expression

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/coexstats"
	"github.com/carbocation/pfx"
	"gonum.org/v1/gonum/mat"
)

type Matrix struct {
	Genes   []string
	Samples []string
	Data    *mat.Dense

	geneIndex   map[string]int
	sampleIndex map[string]int
}

// New wraps data (genes by samples) with its row and column names.
func New(genes, samples []string, data *mat.Dense) (*Matrix, error) {
	r, c := data.Dims()
	if r != len(genes) || c != len(samples) {
		return nil, fmt.Errorf("Matrix is %dx%d but %d genes and %d samples were named", r, c, len(genes), len(samples))
	}

	m := &Matrix{
		Genes:       genes,
		Samples:     samples,
		Data:        data,
		geneIndex:   make(map[string]int, len(genes)),
		sampleIndex: make(map[string]int, len(samples)),
	}
	for i, g := range genes {
		if _, exists := m.geneIndex[g]; exists {
			return nil, fmt.Errorf("Gene %s appears more than once", g)
		}
		m.geneIndex[g] = i
	}
	for i, s := range samples {
		if _, exists := m.sampleIndex[s]; exists {
			return nil, fmt.Errorf("Sample %s appears more than once", s)
		}
		m.sampleIndex[s] = i
	}

	return m, nil
}

// NSamples returns the number of sample columns.
func (m *Matrix) NSamples() int {
	return len(m.Samples)
}

// SampleIndex returns the column of a sample, or -1.
func (m *Matrix) SampleIndex(sample string) int {
	if i, exists := m.sampleIndex[sample]; exists {
		return i
	}

	return -1
}

// Row returns a copy of the expression vector of gene across all samples.
func (m *Matrix) Row(gene string) ([]float64, error) {
	i, exists := m.geneIndex[gene]
	if !exists {
		return nil, fmt.Errorf("Gene %s not found in the expression matrix", gene)
	}

	return mat.Row(nil, i, m.Data), nil
}

// Combined returns the element-wise sum of the two genes' expression at the
// given sample columns.
func (m *Matrix) Combined(geneA, geneB string, samples []int) ([]float64, error) {
	a, err := m.Row(geneA)
	if err != nil {
		return nil, err
	}
	b, err := m.Row(geneB)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(samples))
	for k, i := range samples {
		if i < 0 || i >= len(a) {
			return nil, fmt.Errorf("Sample index %d is outside of the %d expression samples", i, len(a))
		}
		out[k] = a[i] + b[i]
	}

	return out, nil
}

// FromTable builds a Matrix from a parsed table whose first column names the
// gene and whose remaining header cells name the samples. A header that names
// only the samples is also accepted. NA, NaN and empty cells become NaN.
func FromTable(t *coexstats.Table) (*Matrix, error) {
	if len(t.Header) < 2 {
		return nil, fmt.Errorf("Expression table needs a gene column and at least one sample column, found %v", t.Header)
	}

	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("Expression table has no genes")
	}

	samples := append([]string(nil), t.Header[1:]...)
	if headerLacksGeneColumn(t) {
		samples = append([]string(nil), t.Header...)
	}
	genes := make([]string, 0, len(t.Rows))
	data := mat.NewDense(len(t.Rows), len(samples), nil)

	for i, row := range t.Rows {
		if len(row) != len(samples)+1 {
			return nil, fmt.Errorf("Row %d has %d columns, expected %d", i+1, len(row), len(samples)+1)
		}
		genes = append(genes, row[0])
		for j, cell := range row[1:] {
			v, err := parseValue(cell)
			if err != nil {
				return nil, fmt.Errorf("Gene %s, sample %s: %w", row[0], samples[j], err)
			}
			data.Set(i, j, v)
		}
	}

	return New(genes, samples, data)
}

// ReadFromPath reads an expression matrix from a local or gs:// path.
func ReadFromPath(ctx context.Context, path string, client *storage.Client) (*Matrix, error) {
	t, err := coexstats.ReadTableFromPath(ctx, path, client)
	if err != nil {
		return nil, err
	}

	m, err := FromTable(t)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return m, nil
}

// headerLacksGeneColumn reports whether the header names only the samples, as
// with matrices written with row names.
func headerLacksGeneColumn(t *coexstats.Table) bool {
	for _, row := range t.Rows {
		if len(row) != len(t.Header)+1 {
			return false
		}
	}

	return true
}

func parseValue(cell string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "", "na", "nan":
		return math.NaN(), nil
	}

	return strconv.ParseFloat(strings.TrimSpace(cell), 64)
}
