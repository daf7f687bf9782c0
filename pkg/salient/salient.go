// Package salient fuses three independent phrase signals (n-gram
// frequency, keyphrase extraction, embedding clustering) over a corpus of
// short free-text records into a single ranked, deduplicated phrase table.
package salient

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/salient/pkg/salient/assemble"
	"github.com/cognicore/salient/pkg/salient/cluster"
	"github.com/cognicore/salient/pkg/salient/corpus"
	"github.com/cognicore/salient/pkg/salient/dedup"
	"github.com/cognicore/salient/pkg/salient/embed"
	"github.com/cognicore/salient/pkg/salient/freq"
	"github.com/cognicore/salient/pkg/salient/fuse"
	"github.com/cognicore/salient/pkg/salient/internalerr"
	"github.com/cognicore/salient/pkg/salient/keyphrase"
	"github.com/cognicore/salient/pkg/salient/store"
)

// Stage identifies a pipeline checkpoint reported to the observer.
type Stage string

const (
	StageNormalize Stage = "normalize"
	StageFrequency Stage = "frequency"
	StageKeyphrase Stage = "keyphrase"
	StageCluster   Stage = "cluster"
	StageDedup     Stage = "dedup"
	StageFuse      Stage = "fuse"
)

// Signal names used for tables and warnings.
const (
	SignalFrequency = "frequency"
	SignalKeyphrase = "keyphrase"
	SignalCluster   = "cluster"
)

// Options configures an Engine. All collaborators are injected; the
// caller owns their lifecycle and may reuse them across runs.
type Options struct {
	// Normalizer maps raw record text to normalized token strings.
	// Defaults to a bare TextNormalizer.
	Normalizer corpus.Normalizer

	// Extractor is the keyphrase signal. When nil, a statistical
	// extractor is built from the run config.
	Extractor keyphrase.Extractor

	// Dedup collapses near-duplicate phrases within each signal.
	// Defaults to the lexical strategy at the default ratio.
	Dedup dedup.Strategy

	// Store, when set, persists each completed run.
	Store store.Store

	// Observer, when set, is invoked at pipeline checkpoints. It must
	// not block; it has no influence on the computation.
	Observer func(stage Stage)
}

// Config holds per-run parameters.
type Config struct {
	MinN     int   // n-gram range, inclusive
	MaxN     int
	Clusters int   // k-means cluster count, >= 2
	Seed     int64 // clustering seed

	FrequencyTopN int // frequency membership set size (default 100)
	KeyphraseTopN int // per-document keyphrase cap (default 5)
	TopK          int // final output cutoff (default 100)
}

func (c *Config) applyDefaults() {
	if c.FrequencyTopN <= 0 {
		c.FrequencyTopN = 100
	}
	if c.KeyphraseTopN <= 0 {
		c.KeyphraseTopN = 5
	}
	if c.TopK <= 0 {
		c.TopK = assemble.DefaultTopK
	}
}

// Result is the output of one run. All structures are owned by the run
// that produced them; nothing is shared across runs.
type Result struct {
	RunID    string
	DocCount int // documents analyzed after corpus dedup
	Skipped  int // documents the keyphrase extractor failed on

	// Records is the fused, ranked table, truncated to TopK.
	Records []fuse.Record
	// Weights maps the same top-K phrases to their frequency for
	// visualization consumers.
	Weights map[string]int64

	// Per-signal deduplicated tables.
	Frequency []dedup.Canonical
	Keyphrase []dedup.Canonical
	Cluster   []dedup.Canonical

	// Consensus lists phrases present in all three signal tables.
	Consensus []string

	// Warnings carries non-fatal degradations, e.g. an empty signal.
	Warnings []error
}

// Engine runs the analysis pipeline.
type Engine struct {
	opts    Options
	entropy *ulid.MonotonicEntropy
}

// New creates an Engine with the given dependencies.
func New(opts Options) *Engine {
	if opts.Normalizer == nil {
		opts.Normalizer = corpus.NewTextNormalizer(corpus.NormalizerOptions{})
	}
	if opts.Dedup == nil {
		opts.Dedup, _ = dedup.NewLexicalStrategy(dedup.DefaultLexicalThreshold)
	}
	return &Engine{
		opts:    opts,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Close releases the store, if any.
func (e *Engine) Close() error {
	if e.opts.Store != nil {
		return e.opts.Store.Close()
	}
	return nil
}

// Run executes the full pipeline over docs. Structural and configuration
// errors surface before any signal computation; after that, a run either
// completes with a fully fused result or fails without partial output.
func (e *Engine) Run(ctx context.Context, docs []corpus.Document, cfg Config) (*Result, error) {
	cfg.applyDefaults()

	// Fail fast on config before touching the corpus.
	analyzer, err := freq.NewAnalyzer(cfg.MinN, cfg.MaxN)
	if err != nil {
		return nil, err
	}
	if cfg.Clusters < 2 {
		return nil, fmt.Errorf("%w: cluster count %d, need at least 2", internalerr.ErrInvalidConfig, cfg.Clusters)
	}

	extractor := e.opts.Extractor
	if extractor == nil {
		extractor = keyphrase.NewStatistical(keyphrase.Config{
			MinN: cfg.MinN,
			MaxN: cfg.MaxN,
			TopN: cfg.KeyphraseTopN,
		})
	}

	// Normalize and drop duplicate records.
	normalized := corpus.Dedupe(corpus.NormalizeAll(e.opts.Normalizer, docs))
	e.observe(StageNormalize)

	if len(normalized) < cfg.Clusters {
		return nil, fmt.Errorf("%w: %d documents for %d clusters", internalerr.ErrInsufficientData, len(normalized), cfg.Clusters)
	}

	texts := make([]string, len(normalized))
	for i, d := range normalized {
		texts[i] = d.Normalized
	}

	// The cluster signal uses a run-scoped vectorizer so the centroids
	// can be mapped back onto vocabulary terms.
	vectorizer := embed.NewVectorizer(embed.DefaultDim)
	vectorizer.Fit(texts)

	result := &Result{DocCount: len(normalized)}

	// The three signals read the same immutable corpus and nothing else;
	// execution order does not affect their outputs.
	freqEntries := analyzer.Analyze(texts)
	e.observe(StageFrequency)

	keyCandidates, skipped := keyphrase.Aggregate(ctx, extractor, texts)
	result.Skipped = skipped
	e.observe(StageKeyphrase)

	clusterer, err := cluster.New(vectorizer, cfg.Clusters, cfg.Seed)
	if err != nil {
		return nil, err
	}
	clustering, err := clusterer.Cluster(ctx, normalized)
	if err != nil {
		return nil, err
	}
	clusterTerms := clustering.RepresentativeTerms(vectorizer.Features(), 1)
	e.observe(StageCluster)

	// Per-signal dedup over candidates sorted by descending weight.
	result.Frequency, err = e.dedupe(ctx, freqCandidates(freqEntries, cfg.FrequencyTopN))
	if err != nil {
		return nil, fmt.Errorf("dedup frequency signal: %w", err)
	}
	result.Keyphrase, err = e.dedupe(ctx, keyphraseCandidates(keyCandidates))
	if err != nil {
		return nil, fmt.Errorf("dedup keyphrase signal: %w", err)
	}
	result.Cluster, err = e.dedupe(ctx, clusterCandidates(clusterTerms))
	if err != nil {
		return nil, fmt.Errorf("dedup cluster signal: %w", err)
	}
	e.observe(StageDedup)

	// An empty signal degrades to absent membership, never aborts.
	if len(result.Keyphrase) == 0 {
		result.Warnings = append(result.Warnings, fmt.Errorf("%s: %w", SignalKeyphrase, internalerr.ErrEmptySignal))
	}
	if len(result.Cluster) == 0 {
		result.Warnings = append(result.Warnings, fmt.Errorf("%s: %w", SignalCluster, internalerr.ErrEmptySignal))
	}

	signals := fuse.Signals{
		FrequencyTop: phraseSet(result.Frequency),
		Keyphrases:   phraseSet(result.Keyphrase),
		ClusterTexts: texts,
	}
	phrases := unionPhrases(result.Frequency, result.Keyphrase, result.Cluster)
	records := fuse.Fuse(phrases, freq.CountMap(freqEntries), signals)
	e.observe(StageFuse)

	output := assemble.Assemble(records, cfg.TopK)
	result.Records = output.Records
	result.Weights = output.Weights
	result.Consensus = assemble.Consensus(
		dedup.Texts(result.Frequency),
		dedup.Texts(result.Keyphrase),
		dedup.Texts(result.Cluster),
	)

	result.RunID = ulid.MustNew(ulid.Now(), e.entropy).String()
	if e.opts.Store != nil {
		if err := e.opts.Store.SaveRun(ctx, e.toStoreRun(result)); err != nil {
			return nil, fmt.Errorf("save run: %w", err)
		}
	}

	return result, nil
}

func (e *Engine) observe(stage Stage) {
	if e.opts.Observer != nil {
		e.opts.Observer(stage)
	}
}

func (e *Engine) dedupe(ctx context.Context, candidates []dedup.Candidate) ([]dedup.Canonical, error) {
	dedup.SortByWeight(candidates)
	return e.opts.Dedup.Deduplicate(ctx, candidates)
}

// freqCandidates converts the top-N frequency entries into dedup input.
func freqCandidates(entries []freq.Entry, topN int) []dedup.Candidate {
	entries = freq.TopN(entries, topN)
	out := make([]dedup.Candidate, len(entries))
	for i, e := range entries {
		out[i] = dedup.Candidate{Text: e.Phrase, Weight: float64(e.Count)}
	}
	return out
}

func keyphraseCandidates(candidates []keyphrase.Candidate) []dedup.Candidate {
	out := make([]dedup.Candidate, len(candidates))
	for i, c := range candidates {
		out[i] = dedup.Candidate{Text: c.Phrase, Weight: float64(c.Count)}
	}
	return out
}

// clusterCandidates weights each representative term equally; the cluster
// signal carries membership, not magnitude.
func clusterCandidates(terms []string) []dedup.Candidate {
	out := make([]dedup.Candidate, len(terms))
	for i, t := range terms {
		out[i] = dedup.Candidate{Text: t, Weight: 1}
	}
	return out
}

func phraseSet(canonicals []dedup.Canonical) map[string]struct{} {
	set := make(map[string]struct{}, len(canonicals))
	for _, c := range canonicals {
		set[c.Text] = struct{}{}
	}
	return set
}

// unionPhrases lists every canonical phrase once, frequency table first,
// preserving each table's order.
func unionPhrases(tables ...[]dedup.Canonical) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, table := range tables {
		for _, c := range table {
			if _, dup := seen[c.Text]; dup {
				continue
			}
			seen[c.Text] = struct{}{}
			out = append(out, c.Text)
		}
	}
	return out
}

func (e *Engine) toStoreRun(r *Result) store.Run {
	run := store.Run{
		ID:        r.RunID,
		CreatedAt: time.Now().UTC(),
		DocCount:  r.DocCount,
		Skipped:   r.Skipped,
		Consensus: append([]string(nil), r.Consensus...),
	}

	run.Records = make([]store.Record, len(r.Records))
	for i, rec := range r.Records {
		run.Records[i] = store.Record{
			Rank:      rec.Rank,
			Phrase:    rec.Phrase,
			Frequency: rec.Frequency,
			Category:  rec.Category.String(),
		}
	}

	for _, t := range []struct {
		name    string
		phrases []dedup.Canonical
	}{
		{SignalFrequency, r.Frequency},
		{SignalKeyphrase, r.Keyphrase},
		{SignalCluster, r.Cluster},
	} {
		table := store.SignalTable{Signal: t.name}
		for _, c := range t.phrases {
			table.Phrases = append(table.Phrases, store.SignalPhrase{
				Phrase:  c.Text,
				Weight:  c.Weight,
				Members: append([]string(nil), c.Members...),
			})
		}
		run.Tables = append(run.Tables, table)
	}

	return run
}
