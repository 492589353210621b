// edgecluster hierarchically clusters the edges of a co-expression network by
// the samples that support them, and writes the network in dendrogram order
// with each edge's position and, optionally, its cluster after cutting the
// tree.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/carbocation/coexstats"
	_ "github.com/carbocation/coexstats/compileinfoprint"
	"github.com/carbocation/coexstats/edgecluster"
	"github.com/carbocation/coexstats/network"
	"gopkg.in/guregu/null.v3"
)

func main() {
	var (
		networkPath string
		metricName  string
		linkageName string
		outPath     string
		mergesPath  string
		k           int
	)

	flag.StringVar(&networkPath, "network", "", "Path to the network table (local or gs://, optionally compressed). Must have a Samples column.")
	flag.StringVar(&metricName, "metric", string(edgecluster.Manhattan), "Distance between edge membership vectors. One of manhattan, euclidean, maximum, canberra, binary.")
	flag.StringVar(&linkageName, "linkage", string(edgecluster.WardD), "Linkage method. One of ward.D, ward.D2, single, complete, average, mcquitty, median, centroid.")
	flag.IntVar(&k, "k", 0, "Optional. If set, cut the tree into this many clusters and add a Cluster column.")
	flag.StringVar(&outPath, "out", "", "Optional. Output path for the ordered network. Defaults to stdout.")
	flag.StringVar(&mergesPath, "merges", "", "Optional. Output path for the merge table.")
	flag.Parse()

	if networkPath == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	metric, err := edgecluster.ParseMetric(metricName)
	if err != nil {
		log.Fatalln(err)
	}
	linkage, err := edgecluster.ParseLinkage(linkageName)
	if err != nil {
		log.Fatalln(err)
	}

	ctx := context.Background()
	client, err := coexstats.StorageClientFor(ctx, networkPath)
	if err != nil {
		log.Fatalln(err)
	}

	net, err := network.ReadFromPath(ctx, networkPath, client)
	if err != nil {
		log.Fatalln(err)
	}
	log.Printf("Clustering %d edges with %s distance and %s linkage\n", net.Len(), metric, linkage)

	tree, _, err := edgecluster.Cluster(net, edgecluster.Options{Metric: metric, Linkage: linkage})
	if err != nil {
		log.Fatalln(err)
	}

	out, err := ordered(net, tree, k)
	if err != nil {
		log.Fatalln(err)
	}

	if err := writeTo(outPath, out.Write); err != nil {
		log.Fatalln(err)
	}

	if mergesPath != "" {
		if err := writeTo(mergesPath, func(w io.Writer) error { return writeMerges(w, tree) }); err != nil {
			log.Fatalln(err)
		}
	}
}

// ordered returns the network rearranged into dendrogram order, with the
// original edge index and, if k > 0, the cluster of each edge.
func ordered(net *network.Network, tree *edgecluster.Tree, k int) (*network.Annotated, error) {
	columns := []string{"EdgeIndex"}
	var labels []int
	if k > 0 {
		var err error
		labels, err = tree.Cut(k)
		if err != nil {
			return nil, err
		}
		columns = append(columns, "Cluster")
	}

	reordered := &network.Network{ExtraHeader: net.ExtraHeader}
	for _, i := range tree.Order {
		reordered.Edges = append(reordered.Edges, net.Edges[i])
	}

	out := network.NewAnnotated(reordered, columns)
	for row, i := range tree.Order {
		out.Values[row][0] = null.FloatFrom(float64(i))
		if labels != nil {
			out.Values[row][1] = null.FloatFrom(float64(labels[i]))
		}
	}

	return out, nil
}

func writeMerges(w io.Writer, tree *edgecluster.Tree) error {
	if _, err := fmt.Fprintln(w, "Node\tA\tB\tHeight\tSize"); err != nil {
		return err
	}
	for k, m := range tree.Merges {
		if _, err := fmt.Fprintf(w, "%d\t%d\t%d\t%g\t%d\n", tree.N+k, m.A, m.B, m.Height, m.Size); err != nil {
			return err
		}
	}

	return nil
}

func writeTo(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(os.Stdout)
	}

	f, err := os.Create(coexstats.ExpandHome(path))
	if err != nil {
		return err
	}
	defer f.Close()

	if err := write(f); err != nil {
		return err
	}

	return f.Close()
}
