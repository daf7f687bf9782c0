package cluster

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/cognicore/salient/pkg/salient/corpus"
	"github.com/cognicore/salient/pkg/salient/embed"
	"github.com/cognicore/salient/pkg/salient/internalerr"
)

func fitVectorizer(texts []string) *embed.Vectorizer {
	v := embed.NewVectorizer(64)
	v.Fit(texts)
	return v
}

func testDocs() []corpus.Document {
	texts := []string{
		"ship order fast",
		"ship order late",
		"refund payment issued",
		"refund payment delayed",
		"password reset request",
		"password reset failed",
	}
	docs := make([]corpus.Document, len(texts))
	for i, t := range texts {
		docs[i] = corpus.Document{ID: string(rune('a' + i)), Normalized: t}
	}
	return docs
}

func TestNewRejectsSmallK(t *testing.T) {
	v := fitVectorizer([]string{"some text"})

	if _, err := New(v, 1, 42); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for k=1, got %v", err)
	}
	if _, err := New(v, 0, 42); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for k=0, got %v", err)
	}
}

func TestClusterEmptyCorpus(t *testing.T) {
	v := fitVectorizer(nil)
	c, err := New(v, 5, 42)
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Cluster(context.Background(), nil)
	if !errors.Is(err, internalerr.ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestClusterCorpusSmallerThanK(t *testing.T) {
	docs := testDocs()[:2]
	v := fitVectorizer([]string{docs[0].Normalized, docs[1].Normalized})
	c, err := New(v, 3, 42)
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Cluster(context.Background(), docs)
	if !errors.Is(err, internalerr.ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestClusterAssignsEveryDocumentOnce(t *testing.T) {
	docs := testDocs()
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Normalized
	}
	c, err := New(fitVectorizer(texts), 3, 42)
	if err != nil {
		t.Fatal(err)
	}

	result, err := c.Cluster(context.Background(), docs)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Assignments) != len(docs) {
		t.Fatalf("expected %d assignments, got %d", len(docs), len(result.Assignments))
	}
	seen := make(map[string]struct{})
	for _, a := range result.Assignments {
		if a.Cluster < 0 || a.Cluster >= 3 {
			t.Errorf("cluster id %d out of range", a.Cluster)
		}
		if _, dup := seen[a.DocID]; dup {
			t.Errorf("document %s assigned twice", a.DocID)
		}
		seen[a.DocID] = struct{}{}
	}
}

func TestClusterDeterministicForSameSeed(t *testing.T) {
	docs := testDocs()
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Normalized
	}
	v := fitVectorizer(texts)

	run := func() []Assignment {
		c, err := New(v, 3, 7)
		if err != nil {
			t.Fatal(err)
		}
		result, err := c.Cluster(context.Background(), docs)
		if err != nil {
			t.Fatal(err)
		}
		return result.Assignments
	}

	if first, second := run(), run(); !reflect.DeepEqual(first, second) {
		t.Errorf("same seed produced different partitions:\n%v\n%v", first, second)
	}
}

func TestRepresentativeTerms(t *testing.T) {
	docs := testDocs()
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Normalized
	}
	v := fitVectorizer(texts)
	c, err := New(v, 3, 42)
	if err != nil {
		t.Fatal(err)
	}

	result, err := c.Cluster(context.Background(), docs)
	if err != nil {
		t.Fatal(err)
	}

	terms := result.RepresentativeTerms(v.Features(), 1)
	if len(terms) == 0 {
		t.Fatal("expected representative terms")
	}
	seen := make(map[string]struct{})
	for _, term := range terms {
		if term == "" {
			t.Error("empty representative term")
		}
		if _, dup := seen[term]; dup {
			t.Errorf("duplicate representative term %q", term)
		}
		seen[term] = struct{}{}
	}
}
