// edgeenrich tests whether the samples supporting each network edge are
// enriched for (or uniquely characterized by) the categories of one or more
// sample annotation fields, and appends one adjusted P value column per
// category.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/carbocation/coexstats"
	"github.com/carbocation/coexstats/annotation"
	_ "github.com/carbocation/coexstats/compileinfoprint"
	"github.com/carbocation/coexstats/enrich"
	"github.com/carbocation/coexstats/exact"
	"github.com/carbocation/coexstats/expression"
	"github.com/carbocation/coexstats/network"
	"github.com/carbocation/coexstats/padjust"
)

func main() {
	var (
		networkPath    string
		annotationPath string
		expressionPath string
		fields         string
		modeName       string
		alternative    string
		correction     string
		confLevel      float64
		joint          bool
		fast           bool
		override       string
		outPath        string
		every          int
	)

	flag.StringVar(&networkPath, "network", "", "Path to the network table (local or gs://, optionally compressed).")
	flag.StringVar(&annotationPath, "annotation", "", "Path to the sample annotation table. Must have a Sample column.")
	flag.StringVar(&expressionPath, "expression", "", "Optional. Path to the expression matrix, whose columns define the sample order of the Samples strings. If unset, the annotation row order is used.")
	flag.StringVar(&fields, "field", "", "Comma-separated annotation fields to test.")
	flag.StringVar(&modeName, "mode", "enrichment", "enrichment (Fisher's exact test) or uniqueness (exact binomial test).")
	flag.StringVar(&alternative, "alternative", "", "Optional. greater, less or two.sided. Defaults to greater for enrichment and less for uniqueness.")
	flag.StringVar(&correction, "correction", string(padjust.Hochberg), "P value adjustment. One of holm, hochberg, hommel, bonferroni, BH, BY, none.")
	flag.Float64Var(&confLevel, "conflevel", enrich.DefaultConfLevel, "Confidence level for the binomial interval.")
	flag.BoolVar(&joint, "joint", false, "Adjust all categories of an edge together, instead of each category alone against the number of categories.")
	flag.BoolVar(&fast, "fast", false, "Screen enrichment tables with a chi-square approximation and only run the exact test when it looks significant.")
	flag.StringVar(&override, "override", "", "Optional. Comma-separated sample IDs to use as the cluster for every edge, instead of each edge's Samples string.")
	flag.StringVar(&outPath, "out", "", "Optional. Output path. Defaults to stdout.")
	flag.IntVar(&every, "progress", 1000, "Log progress every this many edges.")
	flag.Parse()

	if networkPath == "" || annotationPath == "" || fields == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	mode, err := enrich.ParseMode(modeName)
	if err != nil {
		log.Fatalln(err)
	}
	opts := enrich.DefaultOptions(mode)
	if alternative != "" {
		if opts.Alternative, err = exact.ParseAlternative(alternative); err != nil {
			log.Fatalln(err)
		}
	}
	if opts.Correction, err = padjust.ParseMethod(correction); err != nil {
		log.Fatalln(err)
	}
	opts.ConfLevel = confLevel
	opts.Joint = joint
	opts.Fast = fast

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

	overrideIdx, err := coexstats.SampleIndices(override, sampleIDs)
	if err != nil {
		log.Fatalln(err)
	}

	log.Printf("Testing %d edges for %s of %s (%s, %s correction, joint=%v)\n", net.Len(), mode, fields, opts.Alternative, opts.Correction, opts.Joint)

	out, err := enrich.AnnotateAll(net, ann, sampleIDs, strings.Split(fields, ","), enrich.AnnotateOptions{
		Options:  opts,
		Override: overrideIdx,
		Progress: enrich.LogProgress(every),
	})
	if err != nil {
		log.Fatalln(err)
	}

	w := os.Stdout
	if outPath != "" {
		w, err = os.Create(coexstats.ExpandHome(outPath))
		if err != nil {
			log.Fatalln(err)
		}
		defer w.Close()
	}

	if err := out.Write(w); err != nil {
		log.Fatalln(err)
	}
}
