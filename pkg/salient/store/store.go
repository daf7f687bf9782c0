package store

import (
	"context"
	"time"
)

// Store persists completed analysis runs for later inspection and export.
type Store interface {
	Close() error

	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
}

// Run is one completed analysis: the fused table plus the per-signal
// deduplicated tables and the consensus view.
type Run struct {
	ID        string
	CreatedAt time.Time
	DocCount  int
	Skipped   int
	Records   []Record
	Tables    []SignalTable
	Consensus []string
}

// Record is one fused phrase row.
type Record struct {
	Rank      int
	Phrase    string
	Frequency int64
	Category  string
}

// SignalTable is one signal's deduplicated phrase table.
type SignalTable struct {
	Signal  string // frequency | keyphrase | cluster
	Phrases []SignalPhrase
}

// SignalPhrase is one canonical phrase in a signal table.
type SignalPhrase struct {
	Phrase  string
	Weight  float64
	Members []string
}

// RunSummary identifies a stored run without its tables.
type RunSummary struct {
	ID        string
	CreatedAt time.Time
	DocCount  int
	Records   int
}
