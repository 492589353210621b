package edgecluster

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Metric names a distance between two membership rows.
type Metric string

const (
	Manhattan Metric = "manhattan"
	Euclidean Metric = "euclidean"
	Maximum   Metric = "maximum"
	Canberra  Metric = "canberra"
	Binary    Metric = "binary"
)

var Metrics = []Metric{Manhattan, Euclidean, Maximum, Canberra, Binary}

func ParseMetric(name string) (Metric, error) {
	for _, m := range Metrics {
		if strings.EqualFold(name, string(m)) {
			return m, nil
		}
	}

	names := make([]string, 0, len(Metrics))
	for _, m := range Metrics {
		names = append(names, string(m))
	}

	return "", fmt.Errorf("Distance metric %s is not found. Valid metrics include: %s", name, strings.Join(names, ", "))
}

// Func returns the distance function for the metric.
func (m Metric) Func() (func(a, b []float64) float64, error) {
	switch m {
	case Manhattan:
		return func(a, b []float64) float64 { return floats.Distance(a, b, 1) }, nil
	case Euclidean:
		return func(a, b []float64) float64 { return floats.Distance(a, b, 2) }, nil
	case Maximum:
		return func(a, b []float64) float64 { return floats.Distance(a, b, math.Inf(1)) }, nil
	case Canberra:
		return canberra, nil
	case Binary:
		return binary, nil
	}

	_, err := ParseMetric(string(m))
	return nil, err
}

// Terms where both values are zero are dropped and the sum is rescaled to the
// full vector length.
func canberra(a, b []float64) float64 {
	sum, used := 0.0, 0
	for i := range a {
		num := math.Abs(a[i] - b[i])
		den := math.Abs(a[i]) + math.Abs(b[i])
		if den == 0 {
			continue
		}
		sum += num / den
		used++
	}
	if used == 0 {
		return 0
	}

	return sum * float64(len(a)) / float64(used)
}

// binary is the proportion of positions, among those where at least one value
// is non-zero, at which exactly one is. Two all-zero rows are at distance 0.
func binary(a, b []float64) float64 {
	either, one := 0, 0
	for i := range a {
		x, y := a[i] != 0, b[i] != 0
		if x || y {
			either++
		}
		if x != y {
			one++
		}
	}
	if either == 0 {
		return 0
	}

	return float64(one) / float64(either)
}

// Dissimilarity is a condensed symmetric distance matrix over N items.
type Dissimilarity struct {
	N int
	D []float64
}

func NewDissimilarity(n int) *Dissimilarity {
	size := 0
	if n > 1 {
		size = n * (n - 1) / 2
	}

	return &Dissimilarity{N: n, D: make([]float64, size)}
}

func (d *Dissimilarity) index(i, j int) int {
	if i > j {
		i, j = j, i
	}

	return i*d.N - i*(i+1)/2 + (j - i - 1)
}

// At returns the distance between items i and j.
func (d *Dissimilarity) At(i, j int) float64 {
	if i == j {
		return 0
	}

	return d.D[d.index(i, j)]
}

// Set stores the distance between items i and j (i != j).
func (d *Dissimilarity) Set(i, j int, v float64) {
	d.D[d.index(i, j)] = v
}

// Distances computes the pairwise distance between the rows of m.
func Distances(m mat.Matrix, metric Metric) (*Dissimilarity, error) {
	f, err := metric.Func()
	if err != nil {
		return nil, err
	}

	r, _ := m.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = mat.Row(nil, i, m)
	}

	out := NewDissimilarity(r)
	for i := 0; i < r; i++ {
		for j := i + 1; j < r; j++ {
			out.Set(i, j, f(rows[i], rows[j]))
		}
	}

	return out, nil
}
