package embed

import (
	"context"
	"math"
	"reflect"
	"testing"
)

func TestCosine(t *testing.T) {
	cases := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 0}, []float64{1, 0}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Cosine(tc.a, tc.b); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Cosine = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestVectorizerDeterministic(t *testing.T) {
	corpus := []string{"ship order", "refund payment", "ship refund"}

	build := func() []float64 {
		v := NewVectorizer(32)
		v.Fit(corpus)
		vec, err := v.Embed(context.Background(), "ship order")
		if err != nil {
			t.Fatal(err)
		}
		return vec
	}

	if first, second := build(), build(); !reflect.DeepEqual(first, second) {
		t.Error("identical corpora must produce identical vectors")
	}
}

func TestVectorizerNormalized(t *testing.T) {
	v := NewVectorizer(32)
	v.Fit([]string{"alpha beta", "beta gamma"})

	vec, err := v.Embed(context.Background(), "alpha beta")
	if err != nil {
		t.Fatal(err)
	}

	var norm float64
	for _, val := range vec {
		norm += val * val
	}
	if math.Abs(math.Sqrt(norm)-1) > 1e-9 {
		t.Errorf("vector norm = %v, want 1", math.Sqrt(norm))
	}
}

func TestVectorizerEmptyText(t *testing.T) {
	v := NewVectorizer(16)
	v.Fit([]string{"some words"})

	vec, err := v.Embed(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(vec) != 16 {
		t.Errorf("vector length = %d, want 16", len(vec))
	}
	for _, val := range vec {
		if val != 0 {
			t.Errorf("empty text should embed to the zero vector, got %v", vec)
			break
		}
	}
}

func TestVectorizerFeaturesSorted(t *testing.T) {
	v := NewVectorizer(16)
	v.Fit([]string{"zebra apple", "mango apple"})

	features := v.Features()
	want := []string{"apple", "mango", "zebra"}
	if !reflect.DeepEqual(features, want) {
		t.Errorf("Features = %v, want %v", features, want)
	}
}

func TestVectorizerSimilarTextsCloser(t *testing.T) {
	corpus := []string{
		"shipping delay customs",
		"shipping delay weather",
		"refund issued promptly",
	}
	v := NewVectorizer(32)
	v.Fit(corpus)

	ctx := context.Background()
	a, _ := v.Embed(ctx, corpus[0])
	b, _ := v.Embed(ctx, corpus[1])
	c, _ := v.Embed(ctx, corpus[2])

	if Cosine(a, b) <= Cosine(a, c) {
		t.Errorf("overlapping texts should be more similar: %v vs %v", Cosine(a, b), Cosine(a, c))
	}
}
