package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docpatch-labs/docpatch-cli/internal/core/domain"
)

var (
	addFlags    patchFlags
	addPosition string
	addRef      string
	addPropsRef string
	addElements string
)

var addCmd = &cobra.Command{
	Use:   "add [docx-path] [text...]",
	Short: "Add paragraphs or tables to a document",
	Long: `Adds new elements to the document body and writes the result as a new
version file.

Each positional text argument becomes one paragraph. For tables or runs
with explicit formatting, pass a JSON element array via --elements instead:

  docpatch add report.docx --elements '[{"type":"table","rows":[{"cells":[{"content":["A"]},{"content":["B"]}]}]}]'

Elements land at the end of the body unless --position after/before with
--ref names a top-level reference element.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addPosition, "position", "end", "where to insert: after, before or end")
	addCmd.Flags().StringVar(&addRef, "ref", "", "reference element ID for after/before")
	addCmd.Flags().StringVar(&addPropsRef, "props-ref", "", "text properties ref for new runs")
	addCmd.Flags().StringVar(&addElements, "elements", "", "JSON array of elements to add")
	addFlags.register(addCmd)
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if editorService == nil {
		return errors.New("editor service not configured")
	}

	texts := args[1:]
	if len(texts) == 0 && addElements == "" {
		return errors.New("nothing to add: pass text arguments or --elements")
	}
	if len(texts) > 0 && addElements != "" {
		return errors.New("pass either text arguments or --elements, not both")
	}

	var elements []domain.ElementSpec
	if addElements != "" {
		if err := json.Unmarshal([]byte(addElements), &elements); err != nil {
			return fmt.Errorf("invalid --elements JSON: %w", err)
		}
	} else {
		for _, text := range texts {
			elements = append(elements, domain.ElementSpec{
				Kind: domain.KindParagraph,
				Runs: []domain.RunSpec{{Text: text}},
			})
		}
	}

	add := domain.Addition{
		Elements:     elements,
		Position:     domain.Position(addPosition),
		ReferenceID:  addRef,
		TextPropsRef: addPropsRef,
	}

	res, err := editorService.AddElements(cmd.Context(), args[0], add, addFlags.options())
	if err != nil {
		return fmt.Errorf("add failed: %w", err)
	}

	return printPatchResult(cmd, res)
}
