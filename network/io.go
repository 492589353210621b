package network

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"cloud.google.com/go/storage"
	"github.com/carbocation/coexstats"
	"github.com/carbocation/pfx"
)

// Recognized column names. Similarity_Score is the name some network builders
// use for the similarity column.
const (
	ColSource          = "Source"
	ColTarget          = "Target"
	ColSimilarity      = "Similarity"
	ColSimilarityScore = "Similarity_Score"
	ColSamples         = "Samples"
)

// FromTable builds a Network from a parsed delimited table. Source, Target and
// a similarity column are required; Samples is optional. Unrecognized columns
// are carried along in Extra.
func FromTable(t *coexstats.Table) (*Network, error) {
	colSource := t.Column(ColSource)
	colTarget := t.Column(ColTarget)
	colSim := t.Column(ColSimilarity)
	simName := ColSimilarity
	if colSim < 0 {
		colSim = t.Column(ColSimilarityScore)
		simName = ColSimilarityScore
	}
	colSamples := t.Column(ColSamples)

	if colSource < 0 || colTarget < 0 || colSim < 0 {
		return nil, fmt.Errorf("Network table must have %s, %s and %s columns. Found: %v", ColSource, ColTarget, ColSimilarity, t.Header)
	}

	known := map[int]struct{}{colSource: {}, colTarget: {}, colSim: {}}
	if colSamples >= 0 {
		known[colSamples] = struct{}{}
	}

	out := &Network{Edges: make([]Edge, 0, len(t.Rows))}
	extraCols := make([]int, 0)
	for i, name := range t.Header {
		if _, exists := known[i]; exists {
			continue
		}
		extraCols = append(extraCols, i)
		out.ExtraHeader = append(out.ExtraHeader, name)
	}

	for i, row := range t.Rows {
		if len(row) != len(t.Header) {
			return nil, fmt.Errorf("Row %d has %d columns, expected %d", i+1, len(row), len(t.Header))
		}

		sim, err := strconv.ParseFloat(row[colSim], 64)
		if err != nil {
			return nil, fmt.Errorf("Row %d, column %s: %w", i+1, simName, err)
		}

		e := Edge{
			Source:     row[colSource],
			Target:     row[colTarget],
			Similarity: sim,
		}
		if colSamples >= 0 {
			e.Samples = row[colSamples]
		}
		if len(extraCols) > 0 {
			e.Extra = make([]string, 0, len(extraCols))
			for _, c := range extraCols {
				e.Extra = append(e.Extra, row[c])
			}
		}

		out.Edges = append(out.Edges, e)
	}

	return out, nil
}

// Read parses a network table from r.
func Read(r io.Reader) (*Network, error) {
	t, err := coexstats.ReadTable(r)
	if err != nil {
		return nil, err
	}

	return FromTable(t)
}

// ReadFromPath reads a network from a local or gs:// path, which may be
// compressed.
func ReadFromPath(ctx context.Context, path string, client *storage.Client) (*Network, error) {
	t, err := coexstats.ReadTableFromPath(ctx, path, client)
	if err != nil {
		return nil, err
	}

	net, err := FromTable(t)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return net, nil
}

// Header returns the column names that Write emits for this network, before
// any appended columns.
func (n *Network) Header() []string {
	out := []string{ColSource, ColTarget, ColSimilarity}
	if n.hasSamples() {
		out = append(out, ColSamples)
	}

	return append(out, n.ExtraHeader...)
}

func (n *Network) hasSamples() bool {
	for _, e := range n.Edges {
		if e.Samples != "" {
			return true
		}
	}

	return false
}

func (n *Network) row(i int, withSamples bool) []string {
	e := n.Edges[i]
	out := []string{e.Source, e.Target, strconv.FormatFloat(e.Similarity, 'g', -1, 64)}
	if withSamples {
		out = append(out, e.Samples)
	}

	return append(out, e.Extra...)
}

// Write emits the network as a tab-delimited table.
func (n *Network) Write(w io.Writer) error {
	return (&Annotated{Network: n}).Write(w)
}

func newTSVWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	return cw
}
