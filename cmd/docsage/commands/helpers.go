package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"docsage/internal/classify"
	"docsage/internal/compose"
	"docsage/internal/corpus"
	"docsage/internal/extract"
	"docsage/internal/generator"
	"docsage/internal/ingest"
	"docsage/internal/provider"
	"docsage/internal/query"
	"docsage/internal/rag"
)

// buildExtractor selects the text extraction backend from EXTRACT_BACKEND:
// "local" (default) parses plain text and PDF in-process; "tika" delegates
// to an Apache Tika server at TIKA_URL.
func buildExtractor() (extract.Extractor, error) {
	switch backend := getEnvOrDefault("EXTRACT_BACKEND", "local"); backend {
	case "local":
		return extract.NewLocal(), nil
	case "tika":
		return extract.NewTika(getEnvOrDefault("TIKA_URL", "http://localhost:9998")), nil
	default:
		return nil, fmt.Errorf("unsupported EXTRACT_BACKEND %q (use \"local\" or \"tika\")", backend)
	}
}

// buildCorpusStore selects the corpus backend. When REDIS_ADDR is set the
// corpus survives restarts in Redis; otherwise it lives in process memory.
// The returned cleanup closes the Redis connection (no-op for memory).
func buildCorpusStore(ctx context.Context, log *slog.Logger) (corpus.Store, func(), error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Info("corpus: using in-memory store (set REDIS_ADDR to persist)")
		return corpus.NewMemoryStore(), func() {}, nil
	}

	rs, err := corpus.NewRedisStore(ctx, addr, os.Getenv("REDIS_PASSWORD"), getEnvInt("REDIS_DB", 0))
	if err != nil {
		return nil, nil, fmt.Errorf("corpus: failed to connect to Redis at %s: %w", addr, err)
	}
	log.Info("corpus: using Redis store", slog.String("addr", addr))
	return rs, func() { _ = rs.Close() }, nil
}

// buildAskPipeline wires the full question-answering flow: chat model,
// classifier, composer, and retrieval over the given store.
func buildAskPipeline(ctx context.Context, store corpus.Store, emb rag.Embedder) (*query.Pipeline, error) {
	chatModel, err := provider.NewFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise model provider: %w", err)
	}

	gen := generator.New(chatModel)
	classifier := classify.New(gen, os.Getenv("DEFAULT_LANGUAGE"))
	composer := compose.New(gen)

	return query.New(store, classifier, emb, composer, getEnvInt("ANSWER_TOP_K", 0)), nil
}

// buildIngestPipeline wires the document learn flow over the given store.
func buildIngestPipeline(store corpus.Store, emb rag.Embedder) (*ingest.Pipeline, error) {
	extractor, err := buildExtractor()
	if err != nil {
		return nil, err
	}

	return ingest.New(extractor, emb, store, ingest.Config{
		ChunkSize:    getEnvInt("CHUNK_SIZE", 0),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 0),
		BatchSize:    getEnvInt("EMBED_BATCH_SIZE", 0),
	})
}

// getEnvOrDefault returns the environment variable value or fallback if unset
// or empty.
func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt returns the environment variable parsed as an int, or fallback
// if unset or unparseable.
func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
