package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docpatch-labs/docpatch-cli/internal/core/domain"
)

var (
	editFlags    patchFlags
	editPropsRef string
)

var editCmd = &cobra.Command{
	Use:   "edit [docx-path] [element-id] [property-path] [new-value]",
	Short: "Edit one property of one element",
	Long: `Changes a single property of a single element and writes the result as
a new version file.

The property path is either "content" (the text of a run or paragraph) or
one of the structural paths: pPr.jc, pPr.styleId, pPr.numPr.numId,
pPr.numPr.ilvl, tcPr.gridSpan, tcPr.vMerge.

Numbers and booleans in the value are recognized as JSON; anything else is
taken as a plain string:

  docpatch edit report.docx p-3 pPr.jc center
  docpatch edit report.docx t-7 content "Revised wording" --props-ref bold_format`,
	Args: cobra.ExactArgs(4),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editPropsRef, "props-ref", "", "text properties ref for content edits")
	editFlags.register(editCmd)
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	if editorService == nil {
		return errors.New("editor service not configured")
	}

	edit := domain.Edit{
		ElementID:    args[1],
		PropertyPath: args[2],
		NewValue:     parseValue(args[3]),
		TextPropsRef: editPropsRef,
	}

	res, err := editorService.EditElementContent(cmd.Context(), args[0], edit, editFlags.options())
	if err != nil {
		return fmt.Errorf("edit failed: %w", err)
	}

	return printPatchResult(cmd, res)
}

// parseValue interprets the argument as JSON when it parses as a number,
// boolean or null, and as a raw string otherwise.
func parseValue(arg string) any {
	var v any
	if err := json.Unmarshal([]byte(arg), &v); err == nil {
		if _, isString := v.(string); !isString {
			return v
		}
	}
	return arg
}
