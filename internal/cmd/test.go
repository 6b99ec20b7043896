package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/neuroforge/doc-forge/internal/analysis"
	"github.com/neuroforge/doc-forge/internal/logger"
	"github.com/neuroforge/doc-forge/internal/workspace"
)

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run and analyze the project's tests",
	}
	cmd.AddCommand(newTestRunCmd())
	cmd.AddCommand(newTestAnalyzeCmd())
	cmd.AddCommand(newTestTodoCmd())
	cmd.AddCommand(newTestStubsCmd())
	return cmd
}

func newTestRunCmd() *cobra.Command {
	var (
		verbose bool
		pattern string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the test suite",
		Long: `Runs go test for every package whose test files match the pattern.
The exit code mirrors go test's own.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := resolveWorkspace()
			if err != nil {
				return err
			}
			cfg, err := loadConfig(ws)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("pattern") {
				pattern = cfg.Test.Pattern
			}
			if !cmd.Flags().Changed("verbose") {
				verbose = cfg.Test.Verbose
			}

			r := analysis.NewRunner(ws, pattern, verbose)
			r.Stdout = os.Stdout
			r.Stderr = os.Stderr

			code, err := r.Run(cmd.Context())
			if err != nil {
				return err
			}
			if code != 0 {
				color.Red("Tests failed (exit code %d)", code)
				// os.Exit skips the deferred close in Execute.
				logger.CloseGlobalLogger()
				os.Exit(code)
			}
			color.Green("Tests passed")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose test output")
	cmd.Flags().StringVar(&pattern, "pattern", "**/*_test.go", "Glob selecting test files")
	return cmd
}

// analyzeReport scans the source and test trees and cross-references them.
func analyzeReport(ws *workspace.Workspace, sourceDir string) (*analysis.Report, error) {
	s := analysis.NewScanner(ws, sourceDir)
	inv, err := s.Scan()
	if err != nil {
		return nil, err
	}
	tests, err := s.ScanTests()
	if err != nil {
		return nil, err
	}
	return analysis.Analyze(inv, tests), nil
}

func newTestAnalyzeCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Report test and documentation coverage of the exported API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := resolveWorkspace()
			if err != nil {
				return err
			}
			cfg, err := loadConfig(ws)
			if err != nil {
				return err
			}

			report, err := analyzeReport(ws, cfg.Docs.SourceDir)
			if err != nil {
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

			switch format {
			case "markdown", "md":
				err = report.WriteMarkdown(w)
			case "json":
				err = report.WriteJSON(w)
			case "html":
				err = report.WriteHTML(w)
			default:
				return fmt.Errorf("unsupported format %q (use markdown, json or html)", format)
			}
			if err != nil {
				return err
			}

			if output != "" {
				fmt.Printf("Wrote %s report to %s\n", format, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "Report format: markdown, json or html")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the report to a file instead of stdout")
	return cmd
}

func newTestTodoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "todo",
		Short: "Generate a work list of untested and undocumented API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := resolveWorkspace()
			if err != nil {
				return err
			}
			cfg, err := loadConfig(ws)
			if err != nil {
				return err
			}

			report, err := analyzeReport(ws, cfg.Docs.SourceDir)
			if err != nil {
				return err
			}
			return report.WriteTodo(os.Stdout)
		},
	}
}

func newTestStubsCmd() *cobra.Command {
	var pkg string

	cmd := &cobra.Command{
		Use:   "stubs",
		Short: "Generate skeleton tests for untested exported entities",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := resolveWorkspace()
			if err != nil {
				return err
			}
			cfg, err := loadConfig(ws)
			if err != nil {
				return err
			}

			report, err := analyzeReport(ws, cfg.Docs.SourceDir)
			if err != nil {
				return err
			}

			if pkg == "" {
				pkgs := report.StubPackages()
				if len(pkgs) == 0 {
					fmt.Println("Nothing to stub: every exported entity is tested")
					return nil
				}
				fmt.Println("Packages with untested entities (pass --package):")
				for _, p := range pkgs {
					fmt.Printf("  %s\n", p)
				}
				return nil
			}

			stubs, err := report.Stubs(pkg)
			if err != nil {
				return err
			}
			fmt.Print(stubs)
			return nil
		},
	}

	cmd.Flags().StringVar(&pkg, "package", "", "Package directory to generate stubs for")
	return cmd
}
