// Command docsage is the entry point for the document QA service.
// It provides a CLI interface (via Cobra) and an HTTP server with a web UI
// for learning a document and asking questions about it.
package main

import (
	"fmt"
	"os"

	"docsage/cmd/docsage/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
