package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/neuroforge/doc-forge/internal/discovery"
	"github.com/neuroforge/doc-forge/internal/manifest"
)

func newManifestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Manage the documentation manifest",
	}
	cmd.AddCommand(newManifestSyncCmd())
	cmd.AddCommand(newManifestValidateCmd())
	cmd.AddCommand(newManifestIndexCmd())
	return cmd
}

func newManifestSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Rebuild the manifest from the docs tree",
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

			m := manifest.Load(ws.ManifestPath(), cfg.Project.Name)
			m.Sync(d)
			if err := m.Save(ws.ManifestPath()); err != nil {
				return err
			}

			color.Green("Manifest synced: %s", m.IndexSummary())
			return nil
		},
	}
}

func newManifestValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Reconcile the manifest against the docs tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := resolveWorkspace()
			if err != nil {
				return err
			}
			cfg, err := loadConfig(ws)
			if err != nil {
				return err
			}

			m := manifest.Load(ws.ManifestPath(), cfg.Project.Name)
			status := m.Validate(ws.DocsDir)

			problems := len(status.Missing) + len(status.Outdated)
			for _, rel := range status.Missing {
				fmt.Printf("  missing: %s\n", rel)
			}
			for _, rel := range status.Outdated {
				fmt.Printf("  outdated: %s\n", rel)
			}
			for _, rel := range status.Orphaned {
				fmt.Printf("  orphaned: %s\n", rel)
			}

			if err := m.Save(ws.ManifestPath()); err != nil {
				return err
			}
			if problems > 0 {
				color.Yellow("Manifest is out of date (%d problems); run doc-forge manifest sync", problems)
				return fmt.Errorf("manifest validation found %d problems", problems)
			}
			color.Green("Manifest matches the docs tree (%d entries)", m.Total())
			return nil
		},
	}
}

func newManifestIndexCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Generate a Markdown index of every tracked document",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := resolveWorkspace()
			if err != nil {
				return err
			}
			cfg, err := loadConfig(ws)
			if err != nil {
				return err
			}

			m := manifest.Load(ws.ManifestPath(), cfg.Project.Name)
			if output == "" {
				return m.WriteIndex(os.Stdout)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			defer f.Close()
			if err := m.WriteIndex(f); err != nil {
				return err
			}
			fmt.Printf("Wrote index to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the index to a file instead of stdout")
	return cmd
}
