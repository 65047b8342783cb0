package rag

import (
	"math"
	"sort"
)

// DefaultTopK is the fixed retrieval depth used by the question-answering
// path. Five chunks gives the generator enough surrounding context without
// drowning the question in marginal matches.
const DefaultTopK = 5

// Cosine returns the cosine similarity of a and b: the dot product divided
// by the product of the Euclidean norms. If either vector has zero norm the
// similarity is 0 — degenerate all-zero embeddings must not poison the
// ranking with NaN.
//
// Vectors of unequal length are compared over their common prefix; in
// practice all vectors in a corpus share one dimensionality.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, v := range a {
		normA += float64(v) * float64(v)
	}
	for _, v := range b {
		normB += float64(v) * float64(v)
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Rank scores every chunk against the query vector and returns up to k
// chunks in descending similarity order. Ties keep the chunks' original
// document order (stable sort). Rank never mutates its inputs and is safe
// to call concurrently with other reads.
func Rank(chunks []Chunk, query []float32, k int) []ScoredChunk {
	if k <= 0 {
		k = DefaultTopK
	}

	scored := make([]ScoredChunk, len(chunks))
	for i, c := range chunks {
		scored[i] = ScoredChunk{Chunk: c, Similarity: Cosine(query, c.Vector)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}
