// edgediff fits each edge's expression-covariate regression on a model set of
// samples and scores how far each test group falls from the model's
// prediction interval, appending one median score column per test group.
package main

import (
	"context"
	"flag"
	"log"
	"os"

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
		field          string
		groupField     string
		modelGroup     string
		modelSamples   string
		level          float64
		outPath        string
		every          int
	)

	flag.StringVar(&networkPath, "network", "", "Path to the network table (local or gs://, optionally compressed).")
	flag.StringVar(&expressionPath, "expression", "", "Path to the gene by sample expression matrix.")
	flag.StringVar(&annotationPath, "annotation", "", "Path to the sample annotation table. Must have a Sample column.")
	flag.StringVar(&field, "field", "", "Annotation field to use as the covariate.")
	flag.StringVar(&groupField, "group", "", "Annotation field whose levels define the test groups.")
	flag.StringVar(&modelGroup, "model", "", "Optional. Level of --group whose samples are used to fit the model. If unset, each edge's own samples are used.")
	flag.StringVar(&modelSamples, "modelsamples", "", "Optional. Comma-separated sample IDs used to fit the model. Overrides --model.")
	flag.Float64Var(&level, "level", assoc.DefaultLevel, "Coverage of the prediction interval.")
	flag.StringVar(&outPath, "out", "", "Optional. Output path. Defaults to stdout.")
	flag.IntVar(&every, "progress", 1000, "Log progress every this many edges.")
	flag.Parse()

	if networkPath == "" || expressionPath == "" || annotationPath == "" || field == "" || groupField == "" {
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

	var model []int
	switch {
	case modelSamples != "":
		model, err = coexstats.SampleIndices(modelSamples, expr.Samples)
	case modelGroup != "":
		model, err = assoc.GroupSamples(expr, ann, groupField, modelGroup)
	}
	if err != nil {
		log.Fatalln(err)
	}

	groups, err := assoc.GroupsFromField(expr, ann, groupField)
	if err != nil {
		log.Fatalln(err)
	}
	log.Printf("Scoring %d edges against %d groups of %s\n", net.Len(), len(groups), groupField)

	out, err := assoc.DifferentialNetwork(net, expr, ann, field, model, groups, level, enrich.LogProgress(every))
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
