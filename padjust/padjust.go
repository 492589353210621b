// Package padjust adjusts p-values for multiple comparisons. Semantics follow
// R's p.adjust(p, method, n): n may exceed the number of p-values supplied, in
// which case the missing comparisons are assumed to exist. NaN entries are
// passed through and do not count towards the default n.
package padjust

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

type Method string

const (
	Bonferroni Method = "bonferroni"
	Holm       Method = "holm"
	Hochberg   Method = "hochberg"
	Hommel     Method = "hommel"
	BH         Method = "BH"
	BY         Method = "BY"
	None       Method = "none"
)

// Methods lists every supported method.
var Methods = []Method{Holm, Hochberg, Hommel, Bonferroni, BH, BY, None}

// ParseMethod resolves a method name. "fdr" is accepted as an alias for BH.
func ParseMethod(name string) (Method, error) {
	if strings.EqualFold(name, "fdr") {
		return BH, nil
	}

	for _, m := range Methods {
		if strings.EqualFold(name, string(m)) {
			return m, nil
		}
	}

	names := make([]string, 0, len(Methods))
	for _, m := range Methods {
		names = append(names, string(m))
	}

	return "", fmt.Errorf("Adjustment method %s is not found. Valid methods include: %s", name, strings.Join(names, ", "))
}

// Adjust returns adjusted p-values in the input order. If n <= 0, n is the
// number of non-NaN p-values. It is an error for n to be smaller than that
// number.
func Adjust(p []float64, method Method, n int) ([]float64, error) {
	out := append([]float64(nil), p...)

	present := make([]int, 0, len(p))
	for i, v := range p {
		if !math.IsNaN(v) {
			present = append(present, i)
		}
	}
	lp := len(present)

	if n <= 0 {
		n = lp
	}
	if n < lp {
		return nil, fmt.Errorf("n (%d) must be at least the number of p-values (%d)", n, lp)
	}
	if n <= 1 || lp == 0 {
		if _, err := ParseMethod(string(method)); err != nil {
			return nil, err
		}
		return out, nil
	}
	if n == 2 && method == Hommel {
		method = Hochberg
	}

	vals := make([]float64, lp)
	for k, i := range present {
		vals[k] = p[i]
	}

	var adj []float64
	switch method {
	case Bonferroni:
		adj = make([]float64, lp)
		for i, v := range vals {
			adj[i] = math.Min(1, float64(n)*v)
		}
	case Holm:
		adj = holm(vals, n)
	case Hochberg:
		adj = stepUp(vals, func(i int) float64 { return float64(n + 1 - i) })
	case BH:
		adj = stepUp(vals, func(i int) float64 { return float64(n) / float64(i) })
	case BY:
		q := 0.0
		for i := 1; i <= n; i++ {
			q += 1 / float64(i)
		}
		adj = stepUp(vals, func(i int) float64 { return q * float64(n) / float64(i) })
	case Hommel:
		adj = hommel(vals, n)
	case None:
		adj = vals
	default:
		_, err := ParseMethod(string(method))
		return nil, err
	}

	for k, i := range present {
		out[i] = adj[k]
	}

	return out, nil
}

// AdjustOne adjusts a single p-value as though it were one of n comparisons.
func AdjustOne(p float64, method Method, n int) (float64, error) {
	out, err := Adjust([]float64{p}, method, n)
	if err != nil {
		return math.NaN(), err
	}

	return out[0], nil
}

// order returns the indices of p sorted ascending (or descending), keeping
// ties in input order.
func order(p []float64, decreasing bool) []int {
	o := make([]int, len(p))
	for i := range o {
		o[i] = i
	}
	sort.SliceStable(o, func(i, j int) bool {
		if decreasing {
			return p[o[i]] > p[o[j]]
		}
		return p[o[i]] < p[o[j]]
	})

	return o
}

func holm(p []float64, n int) []float64 {
	o := order(p, false)
	out := make([]float64, len(p))
	running := math.Inf(-1)
	for rank, idx := range o {
		v := float64(n-rank) * p[idx]
		running = math.Max(running, v)
		out[idx] = math.Min(1, running)
	}

	return out
}

// stepUp walks p from largest to smallest. The largest value has i = len(p)
// and the smallest has i = 1; each is scaled by factor(i) and the running
// minimum is kept.
func stepUp(p []float64, factor func(i int) float64) []float64 {
	o := order(p, true)
	out := make([]float64, len(p))
	running := math.Inf(1)
	for rank, idx := range o {
		i := len(p) - rank
		running = math.Min(running, factor(i)*p[idx])
		out[idx] = math.Min(1, running)
	}

	return out
}

func hommel(p0 []float64, n int) []float64 {
	lp := len(p0)
	p := make([]float64, n)
	copy(p, p0)
	for i := lp; i < n; i++ {
		p[i] = 1
	}

	o := order(p, false)
	sorted := make([]float64, n)
	ro := make([]int, n)
	for pos, idx := range o {
		sorted[pos] = p[idx]
		ro[idx] = pos
	}

	init := math.Inf(1)
	for i, v := range sorted {
		init = math.Min(init, float64(n)*v/float64(i+1))
	}

	q := make([]float64, n)
	pa := make([]float64, n)
	for i := range q {
		q[i] = init
		pa[i] = init
	}

	for m := n - 1; m >= 2; m-- {
		q1 := math.Inf(1)
		for k := 0; k < m-1; k++ {
			q1 = math.Min(q1, float64(m)*sorted[n-m+1+k]/float64(k+2))
		}
		for i := 0; i <= n-m; i++ {
			q[i] = math.Min(float64(m)*sorted[i], q1)
		}
		for i := n - m + 1; i < n; i++ {
			q[i] = q[n-m]
		}
		for i := range pa {
			pa[i] = math.Max(pa[i], q[i])
		}
	}

	out := make([]float64, lp)
	for k := 0; k < lp; k++ {
		out[k] = math.Max(pa[ro[k]], sorted[ro[k]])
	}

	return out
}
