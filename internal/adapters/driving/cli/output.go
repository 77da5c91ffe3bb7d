package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docpatch-labs/docpatch-cli/internal/core/domain"
	"github.com/docpatch-labs/docpatch-cli/internal/core/ports/driving"
)

// patchFlags are the flags every mutating command shares.
type patchFlags struct {
	output string
	format string
}

func (f *patchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output path (default: next free .vN sibling)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "minimal", "response format: minimal, id_mapping or full_document")
}

func (f *patchFlags) options() driving.PatchOptions {
	return driving.PatchOptions{
		ResponseFormat: domain.ResponseFormat(f.format),
		OutputPath:     f.output,
	}
}

func printPatchResult(cmd *cobra.Command, res *driving.PatchResult) error {
	if res.Version > 0 {
		cmd.Printf("Wrote %s (version %d)\n", res.OutputPath, res.Version)
	} else {
		cmd.Printf("Wrote %s\n", res.OutputPath)
	}
	cmd.Printf("Applied: %d deletions, %d edits, %d additions (%d total)\n",
		res.Applied.Deletions, res.Applied.Edits, res.Applied.Additions, res.Applied.Total)

	if res.Mapping != nil {
		if len(res.Mapping.Deleted) > 0 {
			cmd.Printf("Deleted IDs: %s\n", strings.Join(res.Mapping.Deleted, ", "))
		}
		if len(res.Mapping.Created) > 0 {
			cmd.Printf("Created IDs: %s\n", strings.Join(res.Mapping.Created, ", "))
		}
	}

	if res.Updated != nil {
		data, err := json.MarshalIndent(res.Updated, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal document: %w", err)
		}
		cmd.Println(string(data))
	}

	return nil
}
