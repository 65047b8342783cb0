package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwego/eino/callbacks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"docsage/internal/embedder"
	"docsage/internal/history"
	"docsage/internal/logging"
	"docsage/internal/server"
	"docsage/internal/tracing"
)

// NewServeCmd constructs the `docsage serve` command, which starts the HTTP
// server and serves the web UI for interactive use.
func NewServeCmd() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the DocSage HTTP server and web UI",
		Long: `Start the DocSage HTTP server on localhost.

The server exposes a REST API and serves the web UI for document upload
and question answering. Upload a document with POST /api/train, then ask
questions with POST /api/ask.

Examples:
  docsage serve
  docsage serve --port 9090
  MODEL_PROVIDER=openai docsage serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			log.Info("serve starting", slog.String("provider", os.Getenv("MODEL_PROVIDER")))

			// Setup Langfuse tracing — opt-in, no-op if keys are absent.
			handler, flush, ok := tracing.Setup()
			if ok {
				callbacks.AppendGlobalHandlers(handler)
				defer flush()
				log.Info("langfuse tracing enabled")
			} else {
				log.Info("langfuse tracing disabled", slog.String("reason", "LANGFUSE_PUBLIC_KEY not set"))
			}

			// Fail fast on embedding misconfiguration — a bad embedder only
			// surfaces on the first upload otherwise.
			if err := embedder.Validate(log); err != nil {
				return fmt.Errorf("serve: %w", err)
			}

			emb, err := embedder.NewFromEnv()
			if err != nil {
				return fmt.Errorf("serve: failed to initialise embedder: %w", err)
			}

			store, closeStore, err := buildCorpusStore(ctx, log)
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			defer closeStore()

			ingestPipeline, err := buildIngestPipeline(store, emb)
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}

			askPipeline, err := buildAskPipeline(ctx, store, emb)
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}

			// Open question/answer history. DOCSAGE_HISTORY_DB overrides the
			// default path (~/.docsage/history.db). Set to "disabled" to turn
			// history off.
			var historyStore history.Store
			dbPath := os.Getenv("DOCSAGE_HISTORY_DB")
			if dbPath != "disabled" {
				if dbPath == "" {
					dbPath, err = history.DefaultDBPath()
					if err != nil {
						log.Warn("history: could not resolve default DB path, disabling", slog.Any("error", err))
					}
				}
				if dbPath != "" {
					hs, hsErr := history.Open(dbPath)
					if hsErr != nil {
						log.Warn("history: failed to open store, disabling", slog.Any("error", hsErr))
					} else {
						historyStore = hs
						defer func() { _ = hs.Close() }()
						log.Info("history: store opened", slog.String("path", dbPath))
					}
				}
			} else {
				log.Info("history: disabled via DOCSAGE_HISTORY_DB=disabled")
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			srv, err := server.New(ingestPipeline, askPipeline, store, &server.Config{
				Host:       host,
				Port:       port,
				Logger:     log,
				Pingers:    buildPingers(emb, store),
				APIKey:     os.Getenv("DOCSAGE_API_KEY"),
				AllowedIPs: os.Getenv("ALLOWED_IPS"),
				StaticDir:  os.Getenv("STATIC_DIR"),
				History:    historyStore,
			}, reg)
			if err != nil {
				return fmt.Errorf("serve: failed to create server: %w", err)
			}

			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "Host address to bind to")
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "TCP port to listen on")

	return cmd
}

// buildPingers wires readiness probes for every dependency that exposes one.
// The in-memory corpus store has no Ping method and is skipped.
func buildPingers(emb any, store any) []server.Pinger {
	type pingable interface {
		Ping(ctx context.Context) error
	}

	var pingers []server.Pinger
	embBackend := getEnvOrDefault("EMBEDDING_PROVIDER", getEnvOrDefault("MODEL_PROVIDER", "ollama"))
	if p, ok := emb.(pingable); ok {
		pingers = append(pingers, server.NewDependencyPinger(embBackend, p))
	}
	if p, ok := store.(pingable); ok {
		pingers = append(pingers, server.NewDependencyPinger("redis", p))
	}
	return pingers
}
