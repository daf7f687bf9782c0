package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Document represents one input record. Normalized is filled in once by a
// Normalizer and is immutable afterwards; all downstream signals read it.
type Document struct {
	ID         string `json:"id"`
	RawText    string `json:"text"`
	Normalized string `json:"-"`
}

// Validate checks if the document has required fields
func (d *Document) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return errors.New("document id is required")
	}

	if strings.TrimSpace(d.RawText) == "" {
		return errors.New("document text is required")
	}

	return nil
}

// ValidationReport records why input lines were dropped while loading a
// corpus file.
type ValidationReport struct {
	Lines      int // non-blank lines read
	Loaded     int // documents accepted
	Malformed  int // lines that failed JSON decoding
	Invalid    int // documents missing a mandatory field
	Duplicates int // documents repeating an earlier document ID

	// Issues has one human-readable entry per dropped line.
	Issues []string
}

// Dropped counts lines rejected for any reason.
func (r *ValidationReport) Dropped() int {
	return r.Malformed + r.Invalid + r.Duplicates
}

// Ok reports whether every line loaded cleanly.
func (r *ValidationReport) Ok() bool {
	return r.Dropped() == 0
}

// LoadFromJSONL loads documents from a JSONL file. Lines that fail to
// decode, fail validation, or repeat an earlier document ID are dropped
// and itemized in the report; the first occurrence of an ID wins. A file
// with no valid documents is an error.
func LoadFromJSONL(path string) ([]Document, *ValidationReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read file %s: %w", path, err)
	}

	report := &ValidationReport{}
	seenIDs := make(map[string]int)
	var docs []Document

	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		report.Lines++

		var doc Document
		if err := json.Unmarshal([]byte(line), &doc); err != nil {
			report.Malformed++
			report.Issues = append(report.Issues, fmt.Sprintf("line %d: malformed JSON: %v", i+1, err))
			continue
		}
		if err := doc.Validate(); err != nil {
			report.Invalid++
			report.Issues = append(report.Issues, fmt.Sprintf("line %d: %v", i+1, err))
			continue
		}
		if first, dup := seenIDs[doc.ID]; dup {
			report.Duplicates++
			report.Issues = append(report.Issues, fmt.Sprintf("line %d: duplicate document id %q (first seen at line %d)", i+1, doc.ID, first))
			continue
		}
		seenIDs[doc.ID] = i + 1

		docs = append(docs, doc)
		report.Loaded++
	}

	if len(docs) == 0 {
		return nil, report, fmt.Errorf("no valid documents found in %s", path)
	}

	return docs, report, nil
}

// NormalizeAll returns a copy of docs with Normalized filled in.
func NormalizeAll(n Normalizer, docs []Document) []Document {
	out := make([]Document, len(docs))
	for i, d := range docs {
		d.Normalized = n.Normalize(d.RawText)
		out[i] = d
	}
	return out
}

// Dedupe drops documents whose normalized text was already seen, keeping
// the first occurrence. Input order is preserved. This is distinct from
// the loader's duplicate-ID check: two documents with different IDs can
// still normalize to the same text.
func Dedupe(docs []Document) []Document {
	seen := make(map[string]struct{}, len(docs))
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if _, ok := seen[d.Normalized]; ok {
			continue
		}
		seen[d.Normalized] = struct{}{}
		out = append(out, d)
	}
	return out
}
