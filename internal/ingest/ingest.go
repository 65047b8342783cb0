// Package ingest implements the document learning pipeline: extract text,
// split it into overlapping chunks, embed every chunk, and atomically
// replace the stored corpus.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"docsage/internal/chunker"
	"docsage/internal/corpus"
	"docsage/internal/extract"
	"docsage/internal/logging"
	"docsage/internal/rag"
)

// ErrInProgress is returned when an upload arrives while another document
// is still being ingested. Only one ingestion runs at a time.
var ErrInProgress = errors.New("ingest: another document is being processed")

// DefaultBatchSize is the number of chunks sent per embedding request.
const DefaultBatchSize = 100

// Config tunes the pipeline. The zero value is replaced with defaults.
type Config struct {
	// ChunkSize is the chunk length in characters.
	ChunkSize int
	// ChunkOverlap is how many characters consecutive chunks share.
	ChunkOverlap int
	// BatchSize is the number of chunks per embedding request.
	BatchSize int
}

// Result reports a completed ingestion.
type Result struct {
	// Filename is the name of the ingested document.
	Filename string
	// ChunkCount is the number of chunks stored.
	ChunkCount int
}

// Pipeline runs the learn flow. A Pipeline rejects concurrent ingestions
// but is otherwise safe for concurrent use.
type Pipeline struct {
	extractor extract.Extractor
	embedder  rag.Embedder
	store     corpus.Store
	cfg       Config

	busy atomic.Bool
}

// New constructs a Pipeline. The chunking policy is validated up front so a
// bad configuration fails at startup, not on the first upload.
func New(extractor extract.Extractor, embedder rag.Embedder, store corpus.Store, cfg Config) (*Pipeline, error) {
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = chunker.DefaultSize
	}
	if cfg.ChunkOverlap == 0 {
		cfg.ChunkOverlap = chunker.DefaultOverlap
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if _, err := chunker.Split("probe", cfg.ChunkSize, cfg.ChunkOverlap); err != nil {
		return nil, fmt.Errorf("ingest: invalid chunking config: %w", err)
	}
	return &Pipeline{
		extractor: extractor,
		embedder:  embedder,
		store:     store,
		cfg:       cfg,
	}, nil
}

// Ingest runs the full pipeline for one document and atomically replaces
// the previous corpus. On any failure the previous corpus is left intact.
func (p *Pipeline) Ingest(ctx context.Context, data []byte, mimeType, filename string) (Result, error) {
	if !p.busy.CompareAndSwap(false, true) {
		return Result{}, ErrInProgress
	}
	defer p.busy.Store(false)

	log := logging.FromContext(ctx).With("filename", filename)

	text, err := p.extractor.Extract(ctx, data, mimeType)
	if err != nil {
		return Result{}, fmt.Errorf("ingest: %w", err)
	}
	log.Info("ingest: extracted text", "chars", len(text))

	pieces, err := chunker.Split(text, p.cfg.ChunkSize, p.cfg.ChunkOverlap)
	if err != nil {
		return Result{}, fmt.Errorf("ingest: %w", err)
	}
	log.Info("ingest: chunked document", "chunks", len(pieces))

	chunks, err := p.embedAll(ctx, log, pieces)
	if err != nil {
		return Result{}, err
	}

	c := rag.Corpus{
		Filename: filename,
		FullText: text,
		Chunks:   chunks,
	}
	if err := p.store.Put(ctx, c); err != nil {
		return Result{}, fmt.Errorf("ingest: store corpus: %w", err)
	}

	log.Info("ingest: document learned", "chunks", len(chunks))
	return Result{Filename: filename, ChunkCount: len(chunks)}, nil
}

// embedAll embeds pieces in sequential batches. The first failed batch
// aborts the whole ingestion — a partially embedded corpus is never stored.
func (p *Pipeline) embedAll(ctx context.Context, log *slog.Logger, pieces []string) ([]rag.Chunk, error) {
	chunks := make([]rag.Chunk, 0, len(pieces))
	for start := 0; start < len(pieces); start += p.cfg.BatchSize {
		end := start + p.cfg.BatchSize
		if end > len(pieces) {
			end = len(pieces)
		}
		batch := pieces[start:end]

		vectors, err := p.embedder.Embed(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("ingest: embed chunks %d-%d: %w", start, end-1, err)
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("ingest: embed chunks %d-%d: got %d vectors for %d chunks", start, end-1, len(vectors), len(batch))
		}

		for i, v := range vectors {
			chunks = append(chunks, rag.Chunk{Content: batch[i], Vector: v})
		}
		log.Info("ingest: embedded batch", "done", end, "total", len(pieces))
	}
	return chunks, nil
}
