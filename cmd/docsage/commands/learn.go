package commands

import (
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docsage/internal/embedder"
	"docsage/internal/logging"
)

// NewLearnCmd constructs the `docsage learn` command, which runs the full
// ingestion pipeline for a single document from the command line.
func NewLearnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learn [file]",
		Short: "Learn a document so it can be asked about",
		Long: `Extract, chunk, and embed a document, replacing any previously
learned document.

With REDIS_ADDR set the learned document persists and is shared with a
running 'docsage serve' instance. Without it the corpus is in-memory and
only useful within a single process, so 'learn' is mostly a dry run.

Examples:
  docsage learn ./manual.pdf
  REDIS_ADDR=localhost:6379 docsage learn ./handbook.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("learn: %w", err)
			}

			if err := embedder.Validate(log); err != nil {
				return fmt.Errorf("learn: %w", err)
			}

			emb, err := embedder.NewFromEnv()
			if err != nil {
				return fmt.Errorf("learn: failed to initialise embedder: %w", err)
			}

			store, closeStore, err := buildCorpusStore(ctx, log)
			if err != nil {
				return fmt.Errorf("learn: %w", err)
			}
			defer closeStore()

			pipeline, err := buildIngestPipeline(store, emb)
			if err != nil {
				return fmt.Errorf("learn: %w", err)
			}

			mimeType := mime.TypeByExtension(filepath.Ext(path))
			res, err := pipeline.Ingest(ctx, data, mimeType, filepath.Base(path))
			if err != nil {
				return fmt.Errorf("learn: %w", err)
			}

			log.Info("document learned",
				slog.String("filename", res.Filename),
				slog.Int("chunks", res.ChunkCount),
			)
			fmt.Printf("Learned %s (%d chunks)\n", res.Filename, res.ChunkCount)
			return nil
		},
	}

	return cmd
}
