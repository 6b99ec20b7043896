package cmd

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/neuroforge/doc-forge/internal/discovery"
	"github.com/neuroforge/doc-forge/internal/fixer"
)

func newFixCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Repair generated API documentation",
		Long: `Fixes common defects in generated reStructuredText: unbalanced inline
literals, misclassified exception references, missing blank lines and
duplicate object descriptions. Every fix is idempotent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := resolveWorkspace()
			if err != nil {
				return err
			}

			result, err := fixer.New(ws).FixAll(dir)
			if err != nil {
				return err
			}

			if result.Total() == 0 {
				fmt.Printf("Scanned %d files, nothing to fix\n", result.FilesScanned)
				return nil
			}
			names := make([]string, 0, len(result.Fixes))
			for name := range result.Fixes {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				if n := result.Fixes[name]; n > 0 {
					fmt.Printf("  %s: %d\n", name, n)
				}
			}
			color.Green("Applied %d fixes across %d files", result.Total(), result.FilesChanged)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", discovery.AutoAPIDir, "Directory to fix, relative to the docs root")
	return cmd
}
