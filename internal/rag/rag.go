// Package rag defines the core types and interfaces of the retrieval
// pipeline: document chunks, the learned corpus, similarity ranking, and
// the contracts for the external embedding and generation oracles.
// Concrete implementations (OpenAI, Ollama, Gemini, etc.) satisfy these
// interfaces so the pipelines never depend on a specific backend.
package rag

import (
	"context"
)

// Chunk is a bounded-length text window extracted from a document, paired
// with its embedding vector.
type Chunk struct {
	// Content is the raw text of the window. Never empty after ingestion.
	Content string

	// Vector is the embedding of Content. All vectors in a corpus share the
	// same dimensionality, which is a property of the embedding backend.
	Vector []float32
}

// ScoredChunk is a Chunk annotated with its cosine similarity to a query
// vector. Produced only during ranking; never stored.
type ScoredChunk struct {
	// Chunk is the ranked chunk.
	Chunk Chunk

	// Similarity is the cosine similarity to the query vector, in [-1, 1].
	Similarity float64
}

// Corpus is the single currently-learned document: its display name, the
// full extracted text, and the embedded chunks. The zero value means no
// document has been learned.
//
// A Corpus is always replaced wholesale — chunks and text are never
// mutated in place, so a reader holding a Corpus value can use it without
// synchronisation.
type Corpus struct {
	// Filename is the display name of the uploaded document.
	Filename string

	// FullText is the complete extracted text. Required non-empty for the
	// summarize path and for the learned-document presence check.
	FullText string

	// Chunks are the embedded windows of FullText, in document order.
	Chunks []Chunk
}

// Empty reports whether no document has been learned.
func (c Corpus) Empty() bool {
	return c.FullText == ""
}

// Embedder converts text into dense vector embeddings.
// Implementations must be safe to call from multiple goroutines.
type Embedder interface {
	// Embed converts a batch of texts into their corresponding embeddings.
	// The returned slice is parallel to the input slice.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces natural-language text from a system instruction and a
// user message. It is the single oracle behind both interaction
// classification and answer composition.
// Implementations must be safe to call from multiple goroutines.
type Generator interface {
	// Generate returns the model's response text for the given instruction
	// pair. temperature controls randomness (0.0–1.0).
	Generate(ctx context.Context, system, user string, temperature float32) (string, error)
}
