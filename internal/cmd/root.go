// Package cmd wires the doc-forge command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neuroforge/doc-forge/internal/config"
	"github.com/neuroforge/doc-forge/internal/logger"
	"github.com/neuroforge/doc-forge/internal/workspace"
)

const defaultLogDir = "/tmp/doc-forge"

var (
	repoRoot   string
	configFile string
	debugAll   bool
	debugLog   = logger.New("cmd:root")
	version    = "dev" // overridden by SetVersion
)

var rootCmd = &cobra.Command{
	Use:     "doc-forge",
	Short:   "Documentation build and maintenance tool",
	Version: version,
	Long: `Doc Forge discovers, validates, builds and serves project documentation.
It keeps the manifest and tables of contents in sync with the docs tree and
measures how well the exported Go API is tested and documented.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debugAll {
			os.Setenv(logger.DebugEnvVar, "all")
		}
		if err := logger.InitFileLogger(getDefaultLogDir(), "doc-forge.log"); err != nil {
			fmt.Fprintf(os.Stderr, "warning: file logging unavailable: %v\n", err)
		}
		logger.LogInfo("cmd", "doc-forge %s: %s", version, cmd.CommandPath())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&repoRoot, "repo-root", "", "Repository root (default: auto-detect from the working directory)")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to docforge.toml (default: <repo-root>/docforge.toml)")
	rootCmd.PersistentFlags().BoolVar(&debugAll, "debug", false, "Enable debug logging for all categories")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newDiscoverCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newManifestCmd())
	rootCmd.AddCommand(newTocCmd())
	rootCmd.AddCommand(newFixCmd())
	rootCmd.AddCommand(newTestCmd())
	rootCmd.AddCommand(newCompletionCmd())
}

// getDefaultLogDir returns the log directory, honoring DOC_FORGE_LOG_DIR.
func getDefaultLogDir() string {
	if dir := os.Getenv("DOC_FORGE_LOG_DIR"); dir != "" {
		return dir
	}
	return defaultLogDir
}

// resolveWorkspace locates the repository, either from --repo-root or by
// walking up from the working directory.
func resolveWorkspace() (*workspace.Workspace, error) {
	if repoRoot != "" {
		info, err := os.Stat(repoRoot)
		if err != nil {
			return nil, fmt.Errorf("repo root %s: %w", repoRoot, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("repo root %s is not a directory", repoRoot)
		}
		debugLog.Printf("Using explicit repo root: %s", repoRoot)
		return workspace.New(repoRoot), nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return workspace.Detect(wd)
}

// loadConfig loads the project configuration for the workspace, honoring the
// --config flag.
func loadConfig(ws *workspace.Workspace) (*config.Config, error) {
	path := configFile
	if path == "" {
		path = ws.ConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	debugLog.Printf("Configuration loaded from %s", path)
	return cfg, nil
}

// Execute runs the root command.
func Execute() {
	defer logger.CloseGlobalLogger()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		logger.CloseGlobalLogger()
		os.Exit(1)
	}
}

// SetVersion sets the version string for the CLI.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
