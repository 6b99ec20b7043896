package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/neuroforge/doc-forge/internal/discovery"
)

func newDiscoverCmd() *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Scan the docs tree and report what was found",
		RunE: func(cmd *cobra.Command, args []string) error {
			reportFormat, err := discovery.ParseReportFormat(format)
			if err != nil {
				return err
			}

			ws, err := resolveWorkspace()
			if err != nil {
				return err
			}
			d := discovery.New(ws)
			if err := d.DiscoverAll(); err != nil {
				return err
			}

			var w io.Writer = os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			if err := d.WriteReport(w, reportFormat); err != nil {
				return err
			}
			if output != "" {
				fmt.Printf("Wrote %s report to %s (%d documents)\n", format, output, d.Total())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Report format: text, json or yaml")
	return cmd
}
