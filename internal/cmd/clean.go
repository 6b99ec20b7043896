package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/neuroforge/doc-forge/internal/builder"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove build output",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := resolveWorkspace()
			if err != nil {
				return err
			}
			cfg, err := loadConfig(ws)
			if err != nil {
				return err
			}
			if err := builder.New(ws, cfg).Clean(); err != nil {
				return err
			}
			color.Green("Removed %s", ws.BuildDir())
			return nil
		},
	}
}
