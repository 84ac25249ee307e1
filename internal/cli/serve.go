package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mrlokans/kindlr/internal/config"
	"github.com/mrlokans/kindlr/internal/entrypoint"
)

func newServeCommand(ctx context.Context, cfg *config.Config, version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(ctx, cfg, version)
		},
	}

	cmd.Flags().StringVar(&cfg.HTTP.Host, "host", cfg.HTTP.Host, "Address to listen on")
	cmd.Flags().Int32Var(&cfg.HTTP.Port, "port", cfg.HTTP.Port, "Port to listen on")

	return cmd
}
