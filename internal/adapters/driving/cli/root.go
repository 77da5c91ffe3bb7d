// Package cli implements the docpatch command line interface using cobra.
// Commands call the core services through the driving ports; wiring happens
// in main via SetServices.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/docpatch-labs/docpatch-cli/internal/core/ports/driven"
	"github.com/docpatch-labs/docpatch-cli/internal/core/ports/driving"
	"github.com/docpatch-labs/docpatch-cli/internal/logger"
)

var (
	version = "dev"
	verbose bool
)

var (
	editorService driving.DocumentEditor
	callLog       driven.CallLog
	configStore   driven.ConfigStore
)

var rootCmd = &cobra.Command{
	Use:   "docpatch",
	Short: "Inspect and patch DOCX documents through a flat JSON model",
	Long: `docpatch converts DOCX documents into a flat, ID-addressed JSON model,
applies batches of deletions, edits and additions atomically, and writes
each result as a new version file next to the source. The source document
is never modified.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Services carries the adapters the CLI commands depend on. CallLog and
// Config are optional; commands that need them report when they are absent.
type Services struct {
	Editor  driving.DocumentEditor
	CallLog driven.CallLog
	Config  driven.ConfigStore
}

// SetServices injects the service implementations the commands call.
func SetServices(s Services) {
	editorService = s.Editor
	callLog = s.CallLog
	configStore = s.Config
}

// ExecuteContext runs the root command. The context is cancelled on
// shutdown signals so long-running commands like mcp serve stop cleanly.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
