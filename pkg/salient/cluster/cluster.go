// Package cluster partitions the normalized corpus into K groups using
// document embeddings and seeded k-means, and derives the cluster phrase
// signal from the fitted centroids.
package cluster

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/cognicore/salient/pkg/salient/corpus"
	"github.com/cognicore/salient/pkg/salient/embed"
	"github.com/cognicore/salient/pkg/salient/internalerr"
)

// DefaultMaxIterations bounds the Lloyd iteration count.
const DefaultMaxIterations = 25

// Assignment maps one document to its cluster. Every document gets exactly
// one assignment; cluster ids are in [0, K).
type Assignment struct {
	DocID   string
	Cluster int
}

// Result is a fitted clustering.
type Result struct {
	K           int
	Assignments []Assignment
	Centroids   [][]float64
}

// Clusterer runs seeded k-means over document embeddings. The same seed,
// embedder, and corpus always reproduce the same partition.
type Clusterer struct {
	embedder embed.Embedder
	k        int
	seed     int64
	maxIter  int
}

// New creates a clusterer. K must be at least 2.
func New(embedder embed.Embedder, k int, seed int64) (*Clusterer, error) {
	if k < 2 {
		return nil, fmt.Errorf("%w: cluster count %d, need at least 2", internalerr.ErrInvalidConfig, k)
	}
	return &Clusterer{
		embedder: embedder,
		k:        k,
		seed:     seed,
		maxIter:  DefaultMaxIterations,
	}, nil
}

// Cluster assigns every document to one of K clusters. It fails with
// ErrInsufficientData when the corpus is smaller than K.
func (c *Clusterer) Cluster(ctx context.Context, docs []corpus.Document) (*Result, error) {
	if len(docs) < c.k {
		return nil, fmt.Errorf("%w: %d documents for %d clusters", internalerr.ErrInsufficientData, len(docs), c.k)
	}

	vectors := make([][]float64, len(docs))
	for i, d := range docs {
		vec, err := c.embedder.Embed(ctx, d.Normalized)
		if err != nil {
			return nil, fmt.Errorf("embed document %s: %w", d.ID, err)
		}
		vectors[i] = vec
	}

	assignments := c.kmeans(vectors)

	result := &Result{
		K:           c.k,
		Assignments: make([]Assignment, len(docs)),
		Centroids:   centroids(vectors, assignments, c.k),
	}
	for i, d := range docs {
		result.Assignments[i] = Assignment{DocID: d.ID, Cluster: assignments[i]}
	}
	return result, nil
}

// kmeans is Lloyd's algorithm with seeded initialization. Ties on distance
// go to the lowest cluster index so runs are reproducible.
func (c *Clusterer) kmeans(vectors [][]float64) []int {
	rng := rand.New(rand.NewSource(c.seed))

	perm := rng.Perm(len(vectors))
	centers := make([][]float64, c.k)
	for i := 0; i < c.k; i++ {
		centers[i] = append([]float64(nil), vectors[perm[i]]...)
	}

	assignments := make([]int, len(vectors))
	for iter := 0; iter < c.maxIter; iter++ {
		changed := false
		for i, vec := range vectors {
			best := nearest(vec, centers)
			if best != assignments[i] {
				assignments[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}
		next := centroids(vectors, assignments, c.k)
		for j := range next {
			// An empty cluster keeps its previous centroid.
			if next[j] == nil {
				next[j] = centers[j]
			}
		}
		centers = next
	}

	return assignments
}

func nearest(vec []float64, centers [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for j, center := range centers {
		d := sqDist(vec, center)
		if d < bestDist {
			bestDist = d
			best = j
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// centroids computes per-cluster mean vectors; an empty cluster yields nil.
func centroids(vectors [][]float64, assignments []int, k int) [][]float64 {
	if len(vectors) == 0 {
		return make([][]float64, k)
	}
	dim := len(vectors[0])
	sums := make([][]float64, k)
	counts := make([]int, k)
	for i, vec := range vectors {
		j := assignments[i]
		if sums[j] == nil {
			sums[j] = make([]float64, dim)
		}
		for p, v := range vec {
			sums[j][p] += v
		}
		counts[j]++
	}
	for j := range sums {
		if counts[j] == 0 {
			continue
		}
		for p := range sums[j] {
			sums[j][p] /= float64(counts[j])
		}
	}
	return sums
}

// RepresentativeTerms maps each centroid back onto the vectorizer
// vocabulary and returns the top weighted terms per cluster, duplicates
// removed, cluster order preserved.
func (r *Result) RepresentativeTerms(features []string, perCluster int) []string {
	if perCluster < 1 {
		perCluster = 1
	}

	var out []string
	seen := make(map[string]struct{})
	for _, center := range r.Centroids {
		if center == nil {
			continue
		}
		for i := 0; i < perCluster; i++ {
			idx := argmaxExcluding(center, features, seen)
			if idx < 0 {
				break
			}
			out = append(out, features[idx])
			seen[features[idx]] = struct{}{}
		}
	}
	return out
}

func argmaxExcluding(center []float64, features []string, exclude map[string]struct{}) int {
	best := -1
	bestVal := 0.0
	n := len(center)
	if len(features) < n {
		n = len(features)
	}
	for i := 0; i < n; i++ {
		if _, skip := exclude[features[i]]; skip {
			continue
		}
		if center[i] > bestVal {
			bestVal = center[i]
			best = i
		}
	}
	return best
}
