package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/salient/pkg/salient/internalerr"
	"github.com/cognicore/salient/pkg/salient/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and initializes the
// schema.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	doc_count INTEGER NOT NULL,
	skipped INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_records (
	run_id TEXT NOT NULL,
	rank INTEGER NOT NULL,
	phrase TEXT NOT NULL,
	frequency INTEGER NOT NULL,
	category TEXT NOT NULL,
	PRIMARY KEY(run_id, rank),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS signal_phrases (
	run_id TEXT NOT NULL,
	signal TEXT NOT NULL,
	pos INTEGER NOT NULL,
	phrase TEXT NOT NULL,
	weight REAL NOT NULL,
	members TEXT,
	PRIMARY KEY(run_id, signal, pos),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS run_consensus (
	run_id TEXT NOT NULL,
	phrase TEXT NOT NULL,
	PRIMARY KEY(run_id, phrase),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun stores a run and all of its tables in one transaction.
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("%w: run ID required", internalerr.ErrInvalidConfig)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, created_at, doc_count, skipped) VALUES (?, ?, ?, ?)`,
		r.ID, r.CreatedAt.UTC().Format(time.RFC3339Nano), r.DocCount, r.Skipped,
	); err != nil {
		return err
	}

	// Replace semantics: wipe dependent rows before reinserting.
	for _, table := range []string{"run_records", "signal_phrases", "run_consensus"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE run_id = ?", r.ID); err != nil {
			return err
		}
	}

	for _, rec := range r.Records {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_records (run_id, rank, phrase, frequency, category) VALUES (?, ?, ?, ?, ?)`,
			r.ID, rec.Rank, rec.Phrase, rec.Frequency, rec.Category,
		); err != nil {
			return err
		}
	}

	for _, table := range r.Tables {
		for pos, p := range table.Phrases {
			members, err := json.Marshal(p.Members)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO signal_phrases (run_id, signal, pos, phrase, weight, members) VALUES (?, ?, ?, ?, ?, ?)`,
				r.ID, table.Signal, pos, p.Phrase, p.Weight, string(members),
			); err != nil {
				return err
			}
		}
	}

	for _, phrase := range r.Consensus {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO run_consensus (run_id, phrase) VALUES (?, ?)`,
			r.ID, phrase,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetRun loads a run and all of its tables.
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	var r store.Run
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, doc_count, skipped FROM runs WHERE id = ?`, id,
	).Scan(&r.ID, &createdAt, &r.DocCount, &r.Skipped)
	if err == sql.ErrNoRows {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Run{}, err
	}
	if t, perr := time.Parse(time.RFC3339Nano, createdAt); perr == nil {
		r.CreatedAt = t
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT rank, phrase, frequency, category FROM run_records WHERE run_id = ? ORDER BY rank`, id)
	if err != nil {
		return store.Run{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var rec store.Record
		if err := rows.Scan(&rec.Rank, &rec.Phrase, &rec.Frequency, &rec.Category); err != nil {
			return store.Run{}, err
		}
		r.Records = append(r.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return store.Run{}, err
	}

	tables, err := s.loadTables(ctx, id)
	if err != nil {
		return store.Run{}, err
	}
	r.Tables = tables

	consensus, err := s.db.QueryContext(ctx,
		`SELECT phrase FROM run_consensus WHERE run_id = ? ORDER BY phrase`, id)
	if err != nil {
		return store.Run{}, err
	}
	defer consensus.Close()
	for consensus.Next() {
		var phrase string
		if err := consensus.Scan(&phrase); err != nil {
			return store.Run{}, err
		}
		r.Consensus = append(r.Consensus, phrase)
	}
	if err := consensus.Err(); err != nil {
		return store.Run{}, err
	}

	return r, nil
}

func (s *sqliteStore) loadTables(ctx context.Context, id string) ([]store.SignalTable, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT signal, phrase, weight, members FROM signal_phrases WHERE run_id = ? ORDER BY signal, pos`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []store.SignalTable
	byName := make(map[string]int)
	for rows.Next() {
		var signal, phrase, members string
		var weight float64
		if err := rows.Scan(&signal, &phrase, &weight, &members); err != nil {
			return nil, err
		}

		idx, ok := byName[signal]
		if !ok {
			idx = len(tables)
			byName[signal] = idx
			tables = append(tables, store.SignalTable{Signal: signal})
		}

		sp := store.SignalPhrase{Phrase: phrase, Weight: weight}
		if members != "" {
			if err := json.Unmarshal([]byte(members), &sp.Members); err != nil {
				return nil, fmt.Errorf("decode members for %q: %w", phrase, err)
			}
		}
		tables[idx].Phrases = append(tables[idx].Phrases, sp)
	}
	return tables, rows.Err()
}

// ListRuns returns run summaries, most recent first.
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT r.id, r.created_at, r.doc_count, COUNT(rr.rank)
FROM runs r LEFT JOIN run_records rr ON rr.run_id = r.id
GROUP BY r.id ORDER BY r.created_at DESC, r.id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.RunSummary
	for rows.Next() {
		var sum store.RunSummary
		var createdAt string
		if err := rows.Scan(&sum.ID, &createdAt, &sum.DocCount, &sum.Records); err != nil {
			return nil, err
		}
		if t, perr := time.Parse(time.RFC3339Nano, createdAt); perr == nil {
			sum.CreatedAt = t
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}
