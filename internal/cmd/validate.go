package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neuroforge/doc-forge/internal/analysis"
	"github.com/neuroforge/doc-forge/internal/discovery"
	"github.com/neuroforge/doc-forge/internal/validate"
)

func newValidateCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the documentation tree",
		Long: `Checks for missing required documents, structural problems, broken
references, stub pages and undocumented exported identifiers.`,
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

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else if err := report.WriteText(os.Stdout); err != nil {
				return err
			}

			if !report.OK() {
				return fmt.Errorf("%d discrepancies found", len(report.Discrepancies))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the report as JSON")
	return cmd
}
