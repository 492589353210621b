// Package network holds the edge table produced by a co-expression network
// builder: one row per gene pair, with an optional string recording which
// samples support the edge.
package network

import (
	"fmt"
)

// Edge is a single row of a network table.
type Edge struct {
	Source     string
	Target     string
	Similarity float64

	// Samples holds one character per sample. '1' marks a sample that belongs
	// to the cluster supporting this edge. Empty if the network carries no
	// sample strings.
	Samples string

	// Extra holds the values of any input columns that are not recognized,
	// in the order of Network.ExtraHeader.
	Extra []string
}

// Network is an ordered edge table.
type Network struct {
	Edges       []Edge
	ExtraHeader []string
}

// Len returns the number of edges.
func (n *Network) Len() int {
	return len(n.Edges)
}

// SampleCount returns the common length of the Samples strings. It is an error
// for edges to disagree, or for any edge to lack a Samples string.
func (n *Network) SampleCount() (int, error) {
	count := -1
	for i, e := range n.Edges {
		if e.Samples == "" {
			return 0, fmt.Errorf("Edge %d (%s-%s) has no Samples string", i, e.Source, e.Target)
		}
		if count < 0 {
			count = len(e.Samples)
			continue
		}
		if len(e.Samples) != count {
			return 0, fmt.Errorf("Edge %d (%s-%s) has %d samples, but earlier edges had %d", i, e.Source, e.Target, len(e.Samples), count)
		}
	}

	if count < 0 {
		return 0, nil
	}

	return count, nil
}

// ValidateSamples confirms that every edge's Samples string has exactly
// nSamples characters, matching the expression matrix.
func (n *Network) ValidateSamples(nSamples int) error {
	count, err := n.SampleCount()
	if err != nil {
		return err
	}
	if len(n.Edges) > 0 && count != nSamples {
		return fmt.Errorf("Samples strings have %d characters, but %d samples were expected", count, nSamples)
	}

	return nil
}

// Clone returns a deep copy of the network.
func (n *Network) Clone() *Network {
	out := &Network{
		Edges:       make([]Edge, len(n.Edges)),
		ExtraHeader: append([]string(nil), n.ExtraHeader...),
	}
	for i, e := range n.Edges {
		e.Extra = append([]string(nil), e.Extra...)
		out.Edges[i] = e
	}

	return out
}
