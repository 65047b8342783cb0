package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"docsage/internal/rag"
)

// corpusKey is the single Redis key the whole corpus lives under. Storing
// one JSON document per corpus makes SET the atomic-replacement primitive.
const corpusKey = "docsage:corpus"

// RedisStore persists the corpus in Redis so it survives service restarts.
// The entire corpus is serialised into one value; readers either see the
// previous blob or the new one, matching the MemoryStore guarantee.
type RedisStore struct {
	// client is the shared Redis connection pool.
	client *redis.Client
}

// redisCorpus is the JSON shape of the stored corpus.
type redisCorpus struct {
	Filename string       `json:"filename"`
	FullText string       `json:"fullText"`
	Chunks   []redisChunk `json:"chunks"`
}

// redisChunk is the JSON shape of a single stored chunk.
type redisChunk struct {
	Content string    `json:"content"`
	Vector  []float32 `json:"vector"`
}

// NewRedisStore constructs a RedisStore over the given connection settings
// and verifies connectivity with a PING.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("corpus: redis ping %s: %w", addr, err)
	}
	return &RedisStore{client: client}, nil
}

// Put serialises c and replaces the stored corpus in a single SET.
func (s *RedisStore) Put(ctx context.Context, c rag.Corpus) error {
	doc := redisCorpus{
		Filename: c.Filename,
		FullText: c.FullText,
		Chunks:   make([]redisChunk, 0, len(c.Chunks)),
	}
	for _, ch := range c.Chunks {
		doc.Chunks = append(doc.Chunks, redisChunk{Content: ch.Content, Vector: ch.Vector})
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("corpus: marshal: %w", err)
	}
	if err := s.client.Set(ctx, corpusKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("corpus: redis set: %w", err)
	}
	return nil
}

// Get returns the stored corpus, or the zero Corpus when the key is absent.
func (s *RedisStore) Get(ctx context.Context) (rag.Corpus, error) {
	payload, err := s.client.Get(ctx, corpusKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return rag.Corpus{}, nil
	}
	if err != nil {
		return rag.Corpus{}, fmt.Errorf("corpus: redis get: %w", err)
	}

	var doc redisCorpus
	if err := json.Unmarshal(payload, &doc); err != nil {
		return rag.Corpus{}, fmt.Errorf("corpus: unmarshal: %w", err)
	}

	c := rag.Corpus{
		Filename: doc.Filename,
		FullText: doc.FullText,
		Chunks:   make([]rag.Chunk, 0, len(doc.Chunks)),
	}
	for _, ch := range doc.Chunks {
		c.Chunks = append(c.Chunks, rag.Chunk{Content: ch.Content, Vector: ch.Vector})
	}
	return c, nil
}

// Ping reports Redis reachability. Used by the readiness probe.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("corpus: redis ping: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
