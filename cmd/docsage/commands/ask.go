package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"docsage/internal/embedder"
	"docsage/internal/logging"
)

// NewAskCmd constructs the `docsage ask` command, which answers a single
// question about the learned document and prints the answer to stdout.
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a question about the learned document",
		Long: `Ask a natural language question about the currently learned document.

The question may be in any language; the answer comes back in the same
language. Asking for a summary produces a whole-document summary instead
of a retrieval-based answer.

Requires REDIS_ADDR pointing at the corpus a previous 'docsage learn' (or
'docsage serve' upload) populated.

Examples:
  REDIS_ADDR=localhost:6379 docsage ask "what is the refund policy?"
  REDIS_ADDR=localhost:6379 docsage ask "이 문서를 요약해줘"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			emb, err := embedder.NewFromEnv()
			if err != nil {
				return fmt.Errorf("ask: failed to initialise embedder: %w", err)
			}

			store, closeStore, err := buildCorpusStore(ctx, log)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}
			defer closeStore()

			pipeline, err := buildAskPipeline(ctx, store, emb)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}

			ans, err := pipeline.Ask(ctx, args[0])
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}

			fmt.Println(ans.Text)
			return nil
		},
	}

	return cmd
}
