package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/docpatch-labs/docpatch-cli/internal/core/domain"
)

var patchCmdFlags patchFlags

var patchCmd = &cobra.Command{
	Use:   "patch [docx-path] [batch-file]",
	Short: "Apply a batch of operations atomically",
	Long: `Applies a JSON batch of deletions, edits and additions in one
all-or-nothing transaction: deletions first, then edits, then additions.
Any failure aborts the batch and nothing is written.

The batch file holds an object with "deletions", "edits" and "additions"
keys; pass "-" to read it from stdin:

  docpatch patch report.docx batch.json
  echo '{"deletions":["p-2"]}' | docpatch patch report.docx -`,
	Args: cobra.ExactArgs(2),
	RunE: runPatch,
}

func init() {
	patchCmdFlags.register(patchCmd)
	rootCmd.AddCommand(patchCmd)
}

func runPatch(cmd *cobra.Command, args []string) error {
	if editorService == nil {
		return errors.New("editor service not configured")
	}

	data, err := readBatchFile(cmd, args[1])
	if err != nil {
		return err
	}

	var batch domain.Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return fmt.Errorf("invalid batch JSON: %w", err)
	}

	res, err := editorService.EditDocument(cmd.Context(), args[0], batch, patchCmdFlags.options())
	if err != nil {
		return fmt.Errorf("patch failed: %w", err)
	}

	return printPatchResult(cmd, res)
}

func readBatchFile(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read batch from stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return data, nil
}
