package salient

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cognicore/salient/pkg/salient/corpus"
	"github.com/cognicore/salient/pkg/salient/internalerr"
	"github.com/cognicore/salient/pkg/salient/store/memstore"
)

func testCorpus() []corpus.Document {
	texts := []string{
		"order shipped late again",
		"order shipped to wrong address",
		"refund for damaged order",
		"refund still not received",
		"password reset link broken",
		"password reset email missing",
	}
	docs := make([]corpus.Document, len(texts))
	for i, t := range texts {
		docs[i] = corpus.Document{ID: fmt.Sprintf("doc-%d", i), RawText: t}
	}
	return docs
}

func defaultTestConfig() Config {
	return Config{MinN: 1, MaxN: 2, Clusters: 2, Seed: 42}
}

func TestRunProducesRankedResult(t *testing.T) {
	e := New(Options{})
	defer e.Close()

	result, err := e.Run(context.Background(), testCorpus(), defaultTestConfig())
	if err != nil {
		t.Fatal(err)
	}

	if result.RunID == "" {
		t.Error("expected a run ID")
	}
	if result.DocCount != 6 {
		t.Errorf("doc count = %d, want 6", result.DocCount)
	}
	if len(result.Records) == 0 {
		t.Fatal("expected fused records")
	}
	for i, rec := range result.Records {
		if rec.Rank != i+1 {
			t.Errorf("record %d has rank %d", i, rec.Rank)
		}
	}
	if len(result.Frequency) == 0 {
		t.Error("expected a frequency table")
	}
	if len(result.Weights) != len(result.Records) {
		t.Errorf("weights cover %d phrases for %d records", len(result.Weights), len(result.Records))
	}
}

func TestRunDeterministicForSameSeed(t *testing.T) {
	run := func() *Result {
		e := New(Options{})
		defer e.Close()
		r, err := e.Run(context.Background(), testCorpus(), defaultTestConfig())
		if err != nil {
			t.Fatal(err)
		}
		return r
	}

	first, second := run(), run()
	if len(first.Records) != len(second.Records) {
		t.Fatalf("record counts differ: %d vs %d", len(first.Records), len(second.Records))
	}
	for i := range first.Records {
		a, b := first.Records[i], second.Records[i]
		if a.Phrase != b.Phrase || a.Category != b.Category || a.Rank != b.Rank {
			t.Errorf("record %d differs: %+v vs %+v", i, a, b)
		}
	}
}

func TestRunDedupesCorpus(t *testing.T) {
	docs := testCorpus()
	docs = append(docs, corpus.Document{ID: "dup", RawText: docs[0].RawText})

	e := New(Options{})
	defer e.Close()

	result, err := e.Run(context.Background(), docs, defaultTestConfig())
	if err != nil {
		t.Fatal(err)
	}
	if result.DocCount != 6 {
		t.Errorf("doc count = %d, want duplicate dropped", result.DocCount)
	}
}

func TestRunObserverStageOrder(t *testing.T) {
	var stages []Stage
	e := New(Options{Observer: func(s Stage) { stages = append(stages, s) }})
	defer e.Close()

	if _, err := e.Run(context.Background(), testCorpus(), defaultTestConfig()); err != nil {
		t.Fatal(err)
	}

	want := []Stage{StageNormalize, StageFrequency, StageKeyphrase, StageCluster, StageDedup, StageFuse}
	if len(stages) != len(want) {
		t.Fatalf("stages = %v, want %v", stages, want)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Errorf("stage %d = %v, want %v", i, stages[i], want[i])
		}
	}
}

func TestRunPersistsToStore(t *testing.T) {
	s := memstore.New()
	e := New(Options{Store: s})
	defer e.Close()

	result, err := e.Run(context.Background(), testCorpus(), defaultTestConfig())
	if err != nil {
		t.Fatal(err)
	}

	saved, err := s.GetRun(context.Background(), result.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if saved.DocCount != result.DocCount {
		t.Errorf("stored doc count = %d, want %d", saved.DocCount, result.DocCount)
	}
	if len(saved.Records) != len(result.Records) {
		t.Errorf("stored %d records, want %d", len(saved.Records), len(result.Records))
	}
	if len(saved.Tables) != 3 {
		t.Errorf("stored %d signal tables, want 3", len(saved.Tables))
	}
}

func TestRunInvalidNGramRange(t *testing.T) {
	e := New(Options{})
	defer e.Close()

	cfg := defaultTestConfig()
	cfg.MinN, cfg.MaxN = 3, 1

	if _, err := e.Run(context.Background(), testCorpus(), cfg); !errors.Is(err, internalerr.ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
}

func TestRunInvalidClusterCount(t *testing.T) {
	e := New(Options{})
	defer e.Close()

	cfg := defaultTestConfig()
	cfg.Clusters = 1

	if _, err := e.Run(context.Background(), testCorpus(), cfg); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestRunInsufficientDocuments(t *testing.T) {
	e := New(Options{})
	defer e.Close()

	cfg := defaultTestConfig()
	cfg.Clusters = 10

	if _, err := e.Run(context.Background(), testCorpus(), cfg); !errors.Is(err, internalerr.ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

type erroringExtractor struct{}

func (erroringExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	return nil, errors.New("extractor offline")
}

func TestRunEmptyKeyphraseSignalWarns(t *testing.T) {
	e := New(Options{Extractor: erroringExtractor{}})
	defer e.Close()

	result, err := e.Run(context.Background(), testCorpus(), defaultTestConfig())
	if err != nil {
		t.Fatal(err)
	}

	if result.Skipped != result.DocCount {
		t.Errorf("skipped = %d, want every document", result.Skipped)
	}
	if len(result.Keyphrase) != 0 {
		t.Errorf("keyphrase table = %v, want empty", result.Keyphrase)
	}

	var found bool
	for _, w := range result.Warnings {
		if errors.Is(w, internalerr.ErrEmptySignal) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an empty-signal warning, got %v", result.Warnings)
	}

	// The run still fuses the surviving signals.
	if len(result.Records) == 0 {
		t.Error("expected records from the remaining signals")
	}
	if len(result.Consensus) != 0 {
		t.Errorf("consensus = %v, want empty with a missing signal", result.Consensus)
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.applyDefaults()

	if cfg.FrequencyTopN != 100 || cfg.KeyphraseTopN != 5 || cfg.TopK != 100 {
		t.Errorf("defaults = %+v", cfg)
	}
}
