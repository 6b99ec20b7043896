package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/neuroforge/doc-forge/internal/builder"
	"github.com/neuroforge/doc-forge/internal/discovery"
	"github.com/neuroforge/doc-forge/internal/fixer"
	"github.com/neuroforge/doc-forge/internal/logger"
	"github.com/neuroforge/doc-forge/internal/manifest"
	"github.com/neuroforge/doc-forge/internal/toc"
)

func newBuildCmd() *cobra.Command {
	var (
		formats  []string
		runFix   bool
		runClean bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the documentation",
		Long: `Discovers the documentation tree, refreshes the tables of contents,
renders every page and updates the manifest with the build result.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := resolveWorkspace()
			if err != nil {
				return err
			}
			cfg, err := loadConfig(ws)
			if err != nil {
				return err
			}
			for _, format := range formats {
				if !formatSupported(cfg.Docs.Formats, format) {
					return fmt.Errorf("format %q is not enabled in the configuration (have: %s)",
						format, strings.Join(cfg.Docs.Formats, ", "))
				}
			}

			b := builder.New(ws, cfg)
			if runClean {
				if err := b.Clean(); err != nil {
					return err
				}
			}

			d := discovery.New(ws)
			if err := d.DiscoverAll(); err != nil {
				return err
			}
			fmt.Printf("Discovered %d documents\n", d.Total())

			if written, err := toc.NewTreeManager(ws, d).UpdateAll(); err != nil {
				return err
			} else if len(written) > 0 {
				fmt.Printf("Updated %d tables of contents\n", len(written))
				// The toc pass may have created new pages.
				if err := d.DiscoverAll(); err != nil {
					return err
				}
			}

			if runFix {
				result, err := fixer.New(ws).FixAll(discovery.AutoAPIDir)
				if err != nil {
					return err
				}
				fmt.Printf("Applied %d fixes to generated docs\n", result.Total())
			}

			m := manifest.Load(ws.ManifestPath(), cfg.Project.Name)
			m.Sync(d)

			result, err := b.Build()
			if err != nil {
				m.UpdateBuildInfo(manifest.BuildStatusFailed)
				if saveErr := m.Save(ws.ManifestPath()); saveErr != nil {
					logger.LogError("cmd", "failed to record failed build: %v", saveErr)
				}
				return err
			}

			m.UpdateBuildInfo(manifest.BuildStatusSuccess)
			if err := m.Save(ws.ManifestPath()); err != nil {
				return err
			}

			color.Green("Build succeeded: %s", result.Summary())
			fmt.Printf("Output: %s\n", result.OutputDir)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&formats, "format", []string{"html"}, "Output formats (repeatable)")
	cmd.Flags().BoolVar(&runFix, "fix", false, "Fix generated API docs before building")
	cmd.Flags().BoolVar(&runClean, "clean", false, "Remove previous build output first")
	return cmd
}

func formatSupported(enabled []string, format string) bool {
	for _, f := range enabled {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}
