package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteFlags patchFlags

var deleteCmd = &cobra.Command{
	Use:   "delete [docx-path] [element-id...]",
	Short: "Delete elements from a document",
	Long: `Deletes the identified elements and all their descendants, then writes
the result as a new version file. Every ID is validated before anything is
removed; one unknown ID aborts the whole call.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runDelete,
}

func init() {
	deleteFlags.register(deleteCmd)
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if editorService == nil {
		return errors.New("editor service not configured")
	}

	res, err := editorService.DeleteElements(cmd.Context(), args[0], args[1:], deleteFlags.options())
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	return printPatchResult(cmd, res)
}
