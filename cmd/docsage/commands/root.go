// Package commands defines all Cobra CLI commands for the docsage binary.
package commands

import (
	"github.com/spf13/cobra"

	"docsage/internal/audit"
	"docsage/internal/config"
	"docsage/internal/logging"
)

// configPath holds the --config flag value for YAML config file override.
var configPath string

// loadedConfigPath stores the resolved config file path for audit logging.
var loadedConfigPath string

// NewRootCmd constructs the root Cobra command that all subcommands attach to.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "docsage",
		Short: "DocSage — ask questions about any document",
		Long: `DocSage is a local-first question-answering service for documents.

Upload a document once ("learn" it), then ask questions in any language.
Answers are grounded strictly in the document's content: the service
retrieves the most relevant passages and composes a reply from them,
or produces a whole-document summary when asked.

Model provider is selected via the MODEL_PROVIDER environment variable
or a YAML config file (~/.docsage/config.yaml).
See 'docsage --help' for available commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log := logging.New()

			// Load YAML config (env vars always override YAML values).
			path, err := config.Load(configPath, log)
			if err != nil {
				return err
			}
			loadedConfigPath = path

			// Emit structured audit log for every command invocation.
			audit.LogCommandStart(log, cmd.Name(), loadedConfigPath)

			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default: ~/.docsage/config.yaml)")

	root.AddCommand(
		NewServeCmd(),
		NewLearnCmd(),
		NewAskCmd(),
		NewVersionCmd(),
	)

	return root
}
