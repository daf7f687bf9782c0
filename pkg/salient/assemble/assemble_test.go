package assemble

import (
	"reflect"
	"testing"

	"github.com/cognicore/salient/pkg/salient/fuse"
)

func TestConsensusIntersection(t *testing.T) {
	got := Consensus(
		[]string{"a", "b"},
		[]string{"b", "c"},
		[]string{"b", "d"},
	)
	want := []string{"b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Consensus = %v, want %v", got, want)
	}
}

func TestConsensusEmptyTable(t *testing.T) {
	got := Consensus(
		[]string{"a", "b"},
		nil,
		[]string{"b"},
	)
	if len(got) != 0 {
		t.Errorf("an empty table should empty the consensus, got %v", got)
	}
}

func TestConsensusIgnoresDuplicatesWithinTable(t *testing.T) {
	got := Consensus(
		[]string{"b", "b"},
		[]string{"a"},
	)
	if len(got) != 0 {
		t.Errorf("duplicate entries must not fake agreement, got %v", got)
	}
}

func TestConsensusNoTables(t *testing.T) {
	if got := Consensus(); got != nil {
		t.Errorf("Consensus() = %v, want nil", got)
	}
}

func TestAssembleTruncatesToTopK(t *testing.T) {
	records := []fuse.Record{
		{Phrase: "a", Frequency: 5, Rank: 1},
		{Phrase: "b", Frequency: 3, Rank: 2},
		{Phrase: "c", Frequency: 1, Rank: 3},
	}

	out := Assemble(records, 2)
	if len(out.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out.Records))
	}
	if len(out.Weights) != 2 {
		t.Fatalf("weights must cover exactly the top-K, got %v", out.Weights)
	}
	if out.Weights["a"] != 5 || out.Weights["b"] != 3 {
		t.Errorf("unexpected weights: %v", out.Weights)
	}
	if _, ok := out.Weights["c"]; ok {
		t.Error("truncated phrase leaked into weights")
	}
}

func TestAssembleDefaultTopK(t *testing.T) {
	records := []fuse.Record{{Phrase: "a", Frequency: 1, Rank: 1}}

	out := Assemble(records, 0)
	if len(out.Records) != 1 {
		t.Errorf("default cutoff should keep all records, got %v", out.Records)
	}
}
