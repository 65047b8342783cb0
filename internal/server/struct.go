package server

import (
	"context"
	"log/slog"
	"time"

	"docsage/internal/history"
	"docsage/internal/ingest"
	"docsage/internal/query"
)

// Config holds the HTTP server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1).
	Host string
	// Port is the TCP port to listen on (default: 8080).
	Port int
	// ReadTimeout is the maximum duration for reading the request.
	ReadTimeout time.Duration
	// WriteTimeout is the maximum duration for writing the response.
	WriteTimeout time.Duration
	// ShutdownTimeout is the maximum duration for a graceful shutdown.
	ShutdownTimeout time.Duration
	// Logger is the structured logger used by the server and its handlers.
	// If nil, [logging.New] is used.
	Logger *slog.Logger
	// Pingers is the ordered list of dependency probes run by GET /api/ready.
	// If empty, /api/ready returns 200 with no checks (liveness-only mode).
	Pingers []Pinger
	// RateLimit is the sustained request rate allowed per IP on rate-limited
	// endpoints (requests/second). Defaults to 10 if zero.
	RateLimit float64
	// RateBurst is the maximum instantaneous burst per IP. Defaults to 20 if zero.
	RateBurst int
	// APIKey is the Bearer token required on all protected /api/* routes.
	// If empty, authentication is disabled (development mode).
	APIKey string
	// AllowedIPs is the comma-separated client allow-list. "*" (the default)
	// allows every client.
	AllowedIPs string
	// StaticDir is the directory served at / (default: ./public).
	StaticDir string
	// MaxUploadBytes caps the size of uploaded documents. Defaults to 32 MiB.
	MaxUploadBytes int64
	// History records question/answer turns when non-nil.
	History history.Store
}

// ingester is the interface handleTrain calls to learn a document.
// *ingest.Pipeline satisfies it; tests inject a fake.
type ingester interface {
	Ingest(ctx context.Context, data []byte, mimeType, filename string) (ingest.Result, error)
}

// asker is the interface handleAsk calls to answer a question.
// *query.Pipeline satisfies it; tests inject a fake.
type asker interface {
	Ask(ctx context.Context, question string) (query.Answer, error)
}

// Status is the JSON response for GET /api/status.
type Status struct {
	// Trained is true when a document has been learned.
	Trained bool `json:"trained"`
	// Filename is the name of the loaded document. Empty when untrained.
	Filename string `json:"filename,omitempty"`
	// ChunkCount is the number of stored chunks.
	ChunkCount int `json:"chunkCount"`
}

// askRequest is the JSON body for POST /api/ask.
type askRequest struct {
	// Question is the user's natural language question.
	Question string `json:"question"`
}

// askResponse is the JSON response for POST /api/ask.
type askResponse struct {
	// Answer is the reply shown to the user.
	Answer string `json:"answer"`
}

// trainResponse is the JSON response for POST /api/train.
type trainResponse struct {
	// Filename is the name of the learned document.
	Filename string `json:"filename"`
	// ChunkCount is the number of chunks stored.
	ChunkCount int `json:"chunkCount"`
	// Message is a human-readable confirmation.
	Message string `json:"message"`
}

// errorResponse is the JSON shape of every error reply.
type errorResponse struct {
	// Error is the human-readable failure reason.
	Error string `json:"error"`
}
