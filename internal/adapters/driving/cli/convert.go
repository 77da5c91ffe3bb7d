package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	convertOut    string
	convertStdout bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [docx-path]",
	Short: "Convert a DOCX document into its flat JSON model",
	Long: `Converts a DOCX document into the flat JSON model: every paragraph,
run and table gets a stable ID, and distinct text formattings are interned
once under semantic names like heading_1_format or bold_format.

The model is written next to the source with an .export.json suffix unless
--out names another path.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertOut, "out", "", "JSON output path (default: <source>.export.json)")
	convertCmd.Flags().BoolVar(&convertStdout, "stdout", false, "print the model instead of writing a file")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	docxPath := args[0]

	if editorService == nil {
		return errors.New("editor service not configured")
	}

	jsonOut := convertOut
	if convertStdout {
		jsonOut = ""
	} else if jsonOut == "" {
		jsonOut = strings.TrimSuffix(docxPath, filepath.Ext(docxPath)) + ".export.json"
	}

	export, err := editorService.GetDocument(cmd.Context(), docxPath, jsonOut)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if convertStdout {
		data, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal document: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Wrote %s\n", jsonOut)
	cmd.Printf("%d body elements, %d text properties\n", len(export.Body), len(export.TextProperties))
	return nil
}
