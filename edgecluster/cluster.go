// Package edgecluster groups network edges by the samples that support them.
// Each edge becomes a 0/1 membership row over the samples; rows are compared
// with a distance metric and merged agglomeratively.
package edgecluster

import (
	"fmt"
	"math"

	"github.com/carbocation/coexstats/network"
	"github.com/carbocation/pfx"
	"gonum.org/v1/gonum/mat"
)

// Options selects the distance metric and linkage. The zero value uses
// Manhattan distance with Ward linkage.
type Options struct {
	Metric  Metric
	Linkage Linkage
}

func (o Options) withDefaults() Options {
	if o.Metric == "" {
		o.Metric = Manhattan
	}
	if o.Linkage == "" {
		o.Linkage = WardD
	}

	return o
}

// MembershipMatrix returns an edges by samples matrix with 1 where the sample
// belongs to the edge's cluster and 0 elsewhere. Every edge must carry a
// Samples string of the same length.
func MembershipMatrix(net *network.Network) (*mat.Dense, error) {
	if net.Len() == 0 {
		return nil, fmt.Errorf("Cannot build a membership matrix for an empty network")
	}

	nSamples, err := net.SampleCount()
	if err != nil {
		return nil, err
	}
	if nSamples == 0 {
		return nil, fmt.Errorf("Samples strings are empty")
	}

	m := mat.NewDense(net.Len(), nSamples, nil)
	for i, e := range net.Edges {
		row, err := e.Membership()
		if err != nil {
			return nil, err
		}
		m.SetRow(i, row)
	}

	return m, nil
}

// Cluster builds the membership matrix for net and clusters its edges. The
// membership matrix is returned alongside the tree so that it can be rendered.
func Cluster(net *network.Network, opts Options) (*Tree, *mat.Dense, error) {
	opts = opts.withDefaults()

	m, err := MembershipMatrix(net)
	if err != nil {
		return nil, nil, pfx.Err(err)
	}

	d, err := Distances(m, opts.Metric)
	if err != nil {
		return nil, nil, pfx.Err(err)
	}

	tree, err := Agglomerate(d, opts.Linkage)
	if err != nil {
		return nil, nil, pfx.Err(err)
	}

	return tree, m, nil
}

// Agglomerate performs hierarchical clustering on d. At every step the closest
// pair of clusters is merged, using a list of each cluster's nearest
// neighbour. Ties go to the lowest-numbered pair. d is not modified.
func Agglomerate(d *Dissimilarity, linkage Linkage) (*Tree, error) {
	if _, err := ParseLinkage(string(linkage)); err != nil {
		return nil, err
	}

	n := d.N
	if n < 1 {
		return nil, fmt.Errorf("Cannot cluster zero items")
	}

	diss := &Dissimilarity{N: n, D: append([]float64(nil), d.D...)}
	for _, v := range diss.D {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("Dissimilarities must not be NaN")
		}
	}
	if linkage == WardD2 {
		for i, v := range diss.D {
			diss.D[i] = v * v
		}
	}

	active := make([]bool, n)
	size := make([]float64, n)
	node := make([]int, n) // tree node currently held in each slot
	for i := range active {
		active[i] = true
		size[i] = 1
		node[i] = i
	}

	nn := make([]int, n)
	disnn := make([]float64, n)
	nearest := func(i int) {
		best, jbest := math.Inf(1), -1
		for j := i + 1; j < n; j++ {
			if active[j] && diss.At(i, j) < best {
				best, jbest = diss.At(i, j), j
			}
		}
		nn[i], disnn[i] = jbest, best
	}
	for i := 0; i < n-1; i++ {
		nearest(i)
	}

	tree := &Tree{N: n, Merges: make([]Merge, 0, n-1)}

	for step := 0; step < n-1; step++ {
		dmin, im, jm := math.Inf(1), -1, -1
		for i := 0; i < n-1; i++ {
			if active[i] && nn[i] >= 0 && disnn[i] < dmin {
				dmin, im, jm = disnn[i], i, nn[i]
			}
		}
		if im < 0 {
			// Only infinite distances remain; merge the first two live slots.
			for i := 0; i < n && jm < 0; i++ {
				if !active[i] {
					continue
				}
				if im < 0 {
					im = i
				} else {
					jm = i
				}
			}
			dmin = diss.At(im, jm)
		}

		i2, j2 := im, jm
		if i2 > j2 {
			i2, j2 = j2, i2
		}

		height := dmin
		if linkage == WardD2 {
			height = math.Sqrt(dmin)
		}
		tree.add(node[i2], node[j2], height, int(size[i2]+size[j2]))

		active[j2] = false

		// Distances from the merged cluster, which keeps slot i2.
		dij := diss.At(i2, j2)
		best, jbest := math.Inf(1), -1
		for k := 0; k < n; k++ {
			if !active[k] || k == i2 {
				continue
			}
			v := linkage.update(diss.At(i2, k), diss.At(j2, k), dij, size[i2], size[j2], size[k])
			diss.Set(i2, k, v)

			if i2 < k {
				if v < best {
					best, jbest = v, k
				}
			} else if v < disnn[k] {
				// Non-monotone linkages can bring i2 closer to k than k's
				// current nearest neighbour.
				disnn[k], nn[k] = v, i2
			}
		}
		size[i2] += size[j2]
		node[i2] = n + step
		nn[i2], disnn[i2] = jbest, best

		for i := 0; i < n-1; i++ {
			if active[i] && (nn[i] == i2 || nn[i] == j2) {
				nearest(i)
			}
		}
	}

	tree.buildOrder()

	return tree, nil
}
