package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/neuroforge/doc-forge/internal/discovery"
	"github.com/neuroforge/doc-forge/internal/manifest"
	"github.com/neuroforge/doc-forge/internal/workspace"
)

const configTemplate = `[project]
name = "%s"

[docs]
dir = "docs"
source_dir = "."
build_dir = "_build"
formats = ["html"]
theme = "default"

[serve]
port = 8000

[test]
pattern = "**/*_test.go"
`

const rootIndexTemplate = `# %s Documentation

Welcome. Run ` + "`doc-forge toc update`" + ` after adding pages to refresh
the tables of contents.
`

func newInitCmd() *cobra.Command {
	var projectName string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the documentation skeleton and configuration",
		Long: `Creates docforge.toml, the docs directory layout (user_docs, auto_docs,
ai_docs), a root index and an empty manifest. Existing files are left alone,
so init is safe to re-run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			root := wd
			if repoRoot != "" {
				root = repoRoot
			}
			if projectName == "" {
				projectName = filepath.Base(root)
			}

			created, err := initProject(root, projectName)
			if err != nil {
				return err
			}

			if len(created) == 0 {
				fmt.Println("Nothing to do: project already initialized")
				return nil
			}
			for _, path := range created {
				fmt.Printf("  created %s\n", path)
			}
			color.Green("Initialized documentation for %s", projectName)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectName, "name", "", "Project name (default: repository directory name)")
	return cmd
}

// initProject creates the missing pieces of the documentation skeleton and
// returns the rel paths it created.
func initProject(root, projectName string) ([]string, error) {
	var created []string

	configPath := filepath.Join(root, workspace.ConfigFileName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		content := fmt.Sprintf(configTemplate, projectName)
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", configPath, err)
		}
		created = append(created, workspace.ConfigFileName)
	}

	ws := workspace.New(root)
	skeleton := []string{
		discovery.UserDocsDir + "/getting_started",
		discovery.UserDocsDir + "/guides",
		discovery.AutoDocsDir,
		discovery.AIDocsDir,
		"assets",
	}
	for _, dir := range skeleton {
		path := filepath.Join(ws.DocsDir, filepath.FromSlash(dir))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := workspace.EnsureDir(path); err != nil {
				return nil, err
			}
			created = append(created, "docs/"+dir+"/")
		}
	}

	indexPath := filepath.Join(ws.DocsDir, "index.md")
	if _, err := os.Stat(indexPath); os.IsNotExist(err) {
		content := fmt.Sprintf(rootIndexTemplate, projectName)
		if err := os.WriteFile(indexPath, []byte(content), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", indexPath, err)
		}
		created = append(created, "docs/index.md")
	}

	manifestPath := ws.ManifestPath()
	if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
		m := manifest.Default(projectName)
		if err := m.Save(manifestPath); err != nil {
			return nil, err
		}
		created = append(created, "docs/docs_manifest.json")
	}

	debugLog.Printf("Initialized project %s at %s (%d items)", projectName, root, len(created))
	return created, nil
}
