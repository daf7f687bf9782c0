// Command salient-run executes the phrase analysis pipeline over a JSONL
// corpus and prints the per-signal tables, the fused ranking, and the
// consensus set. With --db the run is also persisted to SQLite.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/cognicore/salient/pkg/salient"
	"github.com/cognicore/salient/pkg/salient/config"
	"github.com/cognicore/salient/pkg/salient/corpus"
	"github.com/cognicore/salient/pkg/salient/dedup"
	"github.com/cognicore/salient/pkg/salient/keyphrase"
	"github.com/cognicore/salient/pkg/salient/store/sqlite"
)

func main() {
	var (
		input       = flag.String("input", "", "Path to JSONL corpus file (required)")
		pipelineCfg = flag.String("config", "", "Optional: pipeline YAML config")
		stoplistCfg = flag.String("stoplist", "", "Optional: stoplist YAML file")
		dbPath      = flag.String("db", "", "Optional: SQLite path to persist the run")
		preview     = flag.Int("preview", 10, "Rows to print per table")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("--input required")
	}

	ctx := context.Background()

	loader := config.Loader{
		PipelinePath: *pipelineCfg,
		StoplistPath: *stoplistCfg,
	}
	components, err := loader.Load()
	if err != nil {
		log.Fatalf("load configs: %v", err)
	}
	params := components.Pipeline

	docs, report, err := corpus.LoadFromJSONL(*input)
	if err != nil {
		log.Fatalf("load corpus: %v", err)
	}
	for _, issue := range report.Issues {
		log.Printf("corpus: %s", issue)
	}
	if !report.Ok() {
		log.Printf("loaded %d of %d records (%d dropped)", report.Loaded, report.Lines, report.Dropped())
	}

	opts := salient.Options{
		Normalizer: components.Normalizer,
		Observer: func(stage salient.Stage) {
			log.Printf("stage complete: %s", stage)
		},
	}

	method, err := keyphrase.ParseMethod(params.Keyphrase.Method)
	if err != nil {
		log.Fatalf("keyphrase method: %v", err)
	}
	opts.Extractor, err = keyphrase.NewExtractor(method, keyphrase.Config{
		MinN: params.NGram.Min,
		MaxN: params.NGram.Max,
		TopN: params.KeyphraseTopN,
	}, nil)
	if err != nil {
		log.Fatalf("build extractor: %v", err)
	}

	opts.Dedup, err = buildDedup(params)
	if err != nil {
		log.Fatalf("build dedup strategy: %v", err)
	}

	if *dbPath != "" {
		st, err := sqlite.Open(ctx, *dbPath)
		if err != nil {
			log.Fatalf("open store: %v", err)
		}
		opts.Store = st
	}

	engine := salient.New(opts)
	defer engine.Close()

	result, err := engine.Run(ctx, docs, salient.Config{
		MinN:          params.NGram.Min,
		MaxN:          params.NGram.Max,
		Clusters:      params.Clusters,
		Seed:          params.Seed,
		FrequencyTopN: params.FrequencyTopN,
		KeyphraseTopN: params.KeyphraseTopN,
		TopK:          params.TopK,
	})
	if err != nil {
		log.Fatalf("run analysis: %v", err)
	}

	log.Printf("analyzed %d documents (%d skipped)", result.DocCount, result.Skipped)
	for _, warn := range result.Warnings {
		log.Printf("warning: %v", warn)
	}

	printTable("Frequency", result.Frequency, *preview)
	printTable("Keyphrase", result.Keyphrase, *preview)
	printTable("Cluster", result.Cluster, *preview)

	fmt.Println("== Fused ranking ==")
	limit := *preview
	if limit > len(result.Records) {
		limit = len(result.Records)
	}
	for _, rec := range result.Records[:limit] {
		fmt.Printf("%4d  %-40s %6d  %s\n", rec.Rank, rec.Phrase, rec.Frequency, rec.Category)
	}

	fmt.Println("== Consensus ==")
	for _, phrase := range result.Consensus {
		fmt.Printf("  %s\n", phrase)
	}

	if *dbPath != "" {
		log.Printf("run %s saved to %s", result.RunID, *dbPath)
	}
}

func buildDedup(params config.Pipeline) (dedup.Strategy, error) {
	switch params.Dedup.Strategy {
	case "", "lexical":
		ratio := params.Dedup.Ratio
		if ratio == 0 {
			ratio = dedup.DefaultLexicalThreshold
		}
		return dedup.NewLexicalStrategy(ratio)
	case "embedding":
		// Needs a fit vectorizer or a remote embedder, neither of which
		// the CLI configures.
		return nil, fmt.Errorf("dedup strategy %q requires an embedder; configure it programmatically", params.Dedup.Strategy)
	default:
		return nil, fmt.Errorf("unknown dedup strategy %q", params.Dedup.Strategy)
	}
}

func printTable(name string, canonicals []dedup.Canonical, limit int) {
	fmt.Printf("== %s ==\n", name)
	if limit > len(canonicals) {
		limit = len(canonicals)
	}
	for _, c := range canonicals[:limit] {
		fmt.Printf("  %-40s %8.0f", c.Text, c.Weight)
		if len(c.Members) > 1 {
			fmt.Printf("  (merged %d)", len(c.Members))
		}
		fmt.Println()
	}
}
