package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/neuroforge/doc-forge/internal/discovery"
	"github.com/neuroforge/doc-forge/internal/toc"
)

func newTocCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toc",
		Short: "Analyze and update tables of contents",
	}
	cmd.AddCommand(newTocAnalyzeCmd())
	cmd.AddCommand(newTocUpdateCmd())
	return cmd
}

func newTocAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Report broken toctree entries and orphaned documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := resolveWorkspace()
			if err != nil {
				return err
			}

			analysis, err := toc.NewAnalyzer(ws).Analyze()
			if err != nil {
				return err
			}
			if err := analysis.WriteReport(os.Stdout); err != nil {
				return err
			}
			if len(analysis.Issues) > 0 {
				return fmt.Errorf("%d navigation issues found", len(analysis.Issues))
			}
			return nil
		},
	}
}

func newTocUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Regenerate toctrees from the docs tree",
		Long: `Rewrites the toctree blocks of the root index from the discovered
documents and creates index pages for sections that lack one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := resolveWorkspace()
			if err != nil {
				return err
			}

			d := discovery.New(ws)
			if err := d.DiscoverAll(); err != nil {
				return err
			}

			written, err := toc.NewTreeManager(ws, d).UpdateAll()
			if err != nil {
				return err
			}
			if len(written) == 0 {
				fmt.Println("Tables of contents already up to date")
				return nil
			}
			for _, rel := range written {
				fmt.Printf("  updated %s\n", rel)
			}
			color.Green("Updated %d files", len(written))
			return nil
		},
	}
}
