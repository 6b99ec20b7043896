package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/neuroforge/doc-forge/internal/server"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the documentation with live reload",
		Long: `Builds the documentation and serves it over HTTP. Source changes trigger
a rebuild and connected browsers reload automatically.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := resolveWorkspace()
			if err != nil {
				return err
			}
			cfg, err := loadConfig(ws)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Serve.Port = port
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.New(ws, cfg).Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8000, "Port to serve on")
	return cmd
}
