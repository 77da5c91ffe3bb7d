package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docpatch-labs/docpatch-cli/internal/core/domain"
)

var propsJSON bool

var propsCmd = &cobra.Command{
	Use:   "props [docx-path]",
	Short: "List the interned text formatting descriptors of a document",
	Long: `Lists every distinct text formatting the document uses, keyed by its
semantic ID. Runs in the JSON model reference these IDs instead of carrying
formatting inline.`,
	Args: cobra.ExactArgs(1),
	RunE: runProps,
}

func init() {
	propsCmd.Flags().BoolVar(&propsJSON, "json", false, "output descriptors as JSON")
	rootCmd.AddCommand(propsCmd)
}

func runProps(cmd *cobra.Command, args []string) error {
	if editorService == nil {
		return errors.New("editor service not configured")
	}

	props, err := editorService.GetTextProperties(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to read text properties: %w", err)
	}

	if propsJSON {
		data, err := json.MarshalIndent(props, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal descriptors: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(props) == 0 {
		cmd.Println("No text properties found.")
		return nil
	}

	ids := make([]string, 0, len(props))
	for id := range props {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	cmd.Printf("Text properties (%d):\n", len(ids))
	for _, id := range ids {
		cmd.Printf("  %-40s %s\n", id, describeProps(props[id]))
	}
	return nil
}

func describeProps(p domain.PropertyDescriptor) string {
	var parts []string
	if p.ParagraphStyleName != "" {
		parts = append(parts, "style "+p.ParagraphStyleName)
	}
	if p.FontName != "" {
		parts = append(parts, p.FontName)
	}
	if p.FontSizePt > 0 {
		parts = append(parts, fmt.Sprintf("%gpt", p.FontSizePt))
	}
	if p.Run.Bold != nil && *p.Run.Bold {
		parts = append(parts, "bold")
	}
	if p.Run.Italic != nil && *p.Run.Italic {
		parts = append(parts, "italic")
	}
	if p.Run.Strike != nil && *p.Run.Strike {
		parts = append(parts, "strike")
	}
	if p.Run.Underline != "" {
		parts = append(parts, "underline")
	}
	if p.Run.Color != "" {
		parts = append(parts, "#"+p.Run.Color)
	}
	if p.Run.Highlight != "" {
		parts = append(parts, "highlight "+p.Run.Highlight)
	}
	if len(parts) == 0 {
		return "default"
	}
	return strings.Join(parts, ", ")
}
