package enrich

import (
	"fmt"
	"log"

	"github.com/carbocation/coexstats/annotation"
	"github.com/carbocation/coexstats/network"
	"github.com/carbocation/pfx"
)

// AnnotateOptions extends Options with per-network settings.
type AnnotateOptions struct {
	Options

	// Override, if non-empty, is used as the cluster for every edge instead
	// of the edge's own Samples string.
	Override []int

	// Progress, if set, is called after each edge.
	Progress func(done, total int)
}

// Annotate tests every edge of net against every category of field and
// returns a copy of net with one column per category, named field+category.
// net is not modified.
func Annotate(net *network.Network, ann *annotation.Table, sampleIDs []string, field string, opts AnnotateOptions) (*network.Annotated, error) {
	tester, err := NewTester(ann, field, sampleIDs, opts.Options)
	if err != nil {
		return nil, pfx.Err(err)
	}

	if len(opts.Override) == 0 {
		if err := net.ValidateSamples(len(sampleIDs)); err != nil {
			return nil, pfx.Err(err)
		}
	}

	columns := make([]string, 0, len(tester.Categories))
	for _, category := range tester.Categories {
		columns = append(columns, field+category)
	}

	out := network.NewAnnotated(net, columns)
	total := len(net.Edges)
	for i, edge := range net.Edges {
		cluster := opts.Override
		if len(cluster) == 0 {
			cluster, err = edge.SampleIndices()
			if err != nil {
				return nil, pfx.Err(err)
			}
		}

		values, err := tester.TestAll(cluster)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("Edge %d (%s-%s): %w", i, edge.Source, edge.Target, err))
		}
		copy(out.Values[i], values)

		if opts.Progress != nil {
			opts.Progress(i+1, total)
		}
	}

	return out, nil
}

// AnnotateAll runs Annotate for each field and joins the resulting columns in
// field order.
func AnnotateAll(net *network.Network, ann *annotation.Table, sampleIDs []string, fields []string, opts AnnotateOptions) (*network.Annotated, error) {
	out := network.NewAnnotated(net, nil)
	for _, field := range fields {
		a, err := Annotate(net, ann, sampleIDs, field, opts)
		if err != nil {
			return nil, err
		}

		out, err = out.Merge(a)
		if err != nil {
			return nil, pfx.Err(err)
		}
	}

	return out, nil
}

// LogProgress returns a Progress observer that logs every `every` edges and
// once more at the end.
func LogProgress(every int) func(done, total int) {
	if every < 1 {
		every = 1
	}

	return func(done, total int) {
		if done%every == 0 || done == total {
			log.Printf("Processed %d/%d edges (%.1f%%)\n", done, total, 100*float64(done)/float64(total))
		}
	}
}
