// edgeassoc regresses the summed expression of each edge's two genes on a
// sample annotation, over the samples supporting the edge, and appends the
// P value and slope of the association.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/carbocation/coexstats"
	"github.com/carbocation/coexstats/annotation"
	"github.com/carbocation/coexstats/assoc"
	_ "github.com/carbocation/coexstats/compileinfoprint"
	"github.com/carbocation/coexstats/enrich"
	"github.com/carbocation/coexstats/expression"
	"github.com/carbocation/coexstats/network"
)

func main() {
	var (
		networkPath    string
		expressionPath string
		annotationPath string
		fields         string
		override       string
		outPath        string
		every          int
	)

	flag.StringVar(&networkPath, "network", "", "Path to the network table (local or gs://, optionally compressed).")
	flag.StringVar(&expressionPath, "expression", "", "Path to the gene by sample expression matrix.")
	flag.StringVar(&annotationPath, "annotation", "", "Path to the sample annotation table. Must have a Sample column.")
	flag.StringVar(&fields, "field", "", "Comma-separated annotation fields to use as covariates. Values are coerced to numeric factor codes.")
	flag.StringVar(&override, "override", "", "Optional. Comma-separated sample IDs to use for every edge, instead of each edge's Samples string.")
	flag.StringVar(&outPath, "out", "", "Optional. Output path. Defaults to stdout.")
	flag.IntVar(&every, "progress", 1000, "Log progress every this many edges.")
	flag.Parse()

	if networkPath == "" || expressionPath == "" || annotationPath == "" || fields == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	ctx := context.Background()
	client, err := coexstats.StorageClientFor(ctx, networkPath, expressionPath, annotationPath)
	if err != nil {
		log.Fatalln(err)
	}

	net, err := network.ReadFromPath(ctx, networkPath, client)
	if err != nil {
		log.Fatalln(err)
	}

	expr, err := expression.ReadFromPath(ctx, expressionPath, client)
	if err != nil {
		log.Fatalln(err)
	}

	ann, err := annotation.ReadFromPath(ctx, annotationPath, client)
	if err != nil {
		log.Fatalln(err)
	}

	overrideIdx, err := coexstats.SampleIndices(override, expr.Samples)
	if err != nil {
		log.Fatalln(err)
	}

	out := network.NewAnnotated(net, nil)
	for _, field := range strings.Split(fields, ",") {
		log.Printf("Testing %d edges for association with %s\n", net.Len(), field)

		a, err := assoc.Network(net, expr, ann, field, assoc.Options{
			Override: overrideIdx,
			Progress: enrich.LogProgress(every),
		})
		if err != nil {
			log.Fatalln(err)
		}

		out, err = out.Merge(a)
		if err != nil {
			log.Fatalln(err)
		}
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
