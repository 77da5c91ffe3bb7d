package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var logLimit int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent tool calls",
	Long: `Shows the most recent tool invocations from the audit log, newest
first. The audit log records every conversion and patch regardless of
which surface (CLI or MCP) triggered it.`,
	RunE: runLog,
}

func init() {
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 20, "maximum number of entries")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, _ []string) error {
	if callLog == nil {
		return errors.New("audit log not configured")
	}

	calls, err := callLog.Recent(cmd.Context(), logLimit)
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}

	if len(calls) == 0 {
		cmd.Println("No tool calls recorded.")
		return nil
	}

	for _, call := range calls {
		status := "ok"
		if call.Error != "" {
			status = "error: " + call.Error
		}
		cmd.Printf("%s  %-22s %s (%dms, %s)\n",
			call.CalledAt, call.Tool, call.SourcePath, call.DurationMS, status)
		if call.OutputPath != "" {
			cmd.Printf("%*s-> %s\n", len(call.CalledAt)+2, "", call.OutputPath)
		}
	}
	return nil
}
