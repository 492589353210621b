// edgeheatmap clusters the edges of a network and draws their sample
// membership as a PNG heatmap, with samples sorted and colored by annotation
// fields.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"

	"github.com/carbocation/coexstats"
	"github.com/carbocation/coexstats/annotation"
	_ "github.com/carbocation/coexstats/compileinfoprint"
	"github.com/carbocation/coexstats/edgecluster"
	"github.com/carbocation/coexstats/expression"
	"github.com/carbocation/coexstats/heatmap"
	"github.com/carbocation/coexstats/network"
)

func main() {
	var (
		networkPath    string
		annotationPath string
		expressionPath string
		sortBy         string
		palette        string
		metricName     string
		linkageName    string
		seed           int64
		outPath        string
		cellSize       float64
	)

	flag.StringVar(&networkPath, "network", "", "Path to the network table (local or gs://, optionally compressed). Must have a Samples column.")
	flag.StringVar(&annotationPath, "annotation", "", "Path to the sample annotation table. Must have a Sample column.")
	flag.StringVar(&expressionPath, "expression", "", "Optional. Path to the expression matrix, whose columns define the sample order of the Samples strings. If unset, the annotation row order is used.")
	flag.StringVar(&sortBy, "sortby", "", "Optional. Comma-separated annotation fields to sort samples by. The first also colors the strip above the heatmap.")
	flag.StringVar(&palette, "palette", "", "Optional. Comma-separated category=#rrggbb pairs for the first --sortby field. Other categories get random colors.")
	flag.StringVar(&metricName, "metric", string(edgecluster.Manhattan), "Distance between edge membership vectors.")
	flag.StringVar(&linkageName, "linkage", string(edgecluster.WardD), "Linkage method.")
	flag.Int64Var(&seed, "seed", 0, "Optional. Seed for category colors. If 0, colors differ between runs.")
	flag.Float64Var(&cellSize, "cell", 4, "Width and height of one heatmap cell, in pixels.")
	flag.StringVar(&outPath, "out", "", "Output PNG path.")
	flag.Parse()

	if networkPath == "" || annotationPath == "" || outPath == "" {
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

	opts := heatmap.Options{
		CellWidth:  cellSize,
		CellHeight: cellSize,
	}
	if sortBy != "" {
		opts.SortBy = strings.Split(sortBy, ",")
	}
	if opts.Palette, err = parsePalette(palette); err != nil {
		log.Fatalln(err)
	}
	if seed != 0 {
		opts.Rand = rand.New(rand.NewSource(seed))
	}

	ctx := context.Background()
	client, err := coexstats.StorageClientFor(ctx, networkPath, annotationPath, expressionPath)
	if err != nil {
		log.Fatalln(err)
	}

	net, err := network.ReadFromPath(ctx, networkPath, client)
	if err != nil {
		log.Fatalln(err)
	}

	ann, err := annotation.ReadFromPath(ctx, annotationPath, client)
	if err != nil {
		log.Fatalln(err)
	}

	sampleIDs := ann.Samples
	if expressionPath != "" {
		expr, err := expression.ReadFromPath(ctx, expressionPath, client)
		if err != nil {
			log.Fatalln(err)
		}
		sampleIDs = expr.Samples
	}

	tree, m, err := edgecluster.Cluster(net, edgecluster.Options{Metric: metric, Linkage: linkage})
	if err != nil {
		log.Fatalln(err)
	}

	f, err := os.Create(coexstats.ExpandHome(outPath))
	if err != nil {
		log.Fatalln(err)
	}
	defer f.Close()

	if err := heatmap.Render(f, m, tree, ann, sampleIDs, opts); err != nil {
		log.Fatalln(err)
	}

	log.Println("Wrote", outPath)
}

func parsePalette(s string) (map[string]string, error) {
	out := make(map[string]string)
	if s == "" {
		return out, nil
	}

	for _, pair := range strings.Split(s, ",") {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("Palette entry %q is not of the form category=#rrggbb", pair)
		}
		out[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}

	return out, nil
}
