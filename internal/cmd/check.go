package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/neuroforge/doc-forge/internal/analysis"
	"github.com/neuroforge/doc-forge/internal/discovery"
	"github.com/neuroforge/doc-forge/internal/toc"
	"github.com/neuroforge/doc-forge/internal/validate"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check documentation health",
		Long: `Runs every non-mutating check: document validation, table-of-contents
analysis and API documentation coverage. Exits non-zero when problems are
found, so check slots into CI.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := resolveWorkspace()
			if err != nil {
				return err
			}
			cfg, err := loadConfig(ws)
			if err != nil {
				return err
			}

			d := discovery.New(ws)
			if err := d.DiscoverAll(); err != nil {
				return err
			}

			inv, err := analysis.NewScanner(ws, cfg.Docs.SourceDir).Scan()
			if err != nil {
				return err
			}

			report, err := validate.New(ws, d).Run(inv.Names())
			if err != nil {
				return err
			}
			if err := report.WriteText(os.Stdout); err != nil {
				return err
			}

			tocAnalysis, err := toc.NewAnalyzer(ws).Analyze()
			if err != nil {
				return err
			}
			if err := tocAnalysis.WriteReport(os.Stdout); err != nil {
				return err
			}

			problems := len(report.Discrepancies) + len(tocAnalysis.Issues)
			if problems > 0 {
				color.Red("Check failed: %d problems", problems)
				return fmt.Errorf("%d problems found", problems)
			}
			color.Green("All checks passed")
			return nil
		},
	}
}
