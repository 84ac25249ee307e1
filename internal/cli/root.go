package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrlokans/kindlr/internal/config"
	"github.com/mrlokans/kindlr/internal/entrypoint"
)

// NewRootCommand creates the top-level command. Persistent flags override
// the environment-derived parser settings in cfg.
func NewRootCommand(ctx context.Context, cfg *config.Config, version string) *cobra.Command {
	var (
		mode        string
		locales     string
		localesFile string
	)

	cmd := &cobra.Command{
		Use:           "kindlr",
		Short:         "Parse Kindle 'My Clippings.txt' exports into structured records.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("mode") {
				cfg.Parser.Mode = mode
			}
			if flags.Changed("locales") {
				cfg.Parser.Locales = config.SplitList(locales)
			}
			if flags.Changed("locales-file") {
				cfg.Parser.LocalesFile = localesFile
			}
			return nil
		},
		// Without a subcommand the server starts, as in earlier releases.
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(ctx, cfg, version)
		},
	}

	cmd.PersistentFlags().StringVar(&mode, "mode", cfg.Parser.Mode, "Parse mode: fail-fast or collect")
	cmd.PersistentFlags().StringVar(&locales, "locales", strings.Join(cfg.Parser.Locales, ","), "Comma-separated locale ids to match, in order (default: all)")
	cmd.PersistentFlags().StringVar(&localesFile, "locales-file", cfg.Parser.LocalesFile, "Locale table file (yaml, json or toml) replacing the built-in one")

	cmd.AddCommand(
		newParseCommand(cfg),
		newExportCommand(cfg),
		newLocalesCommand(cfg),
		newServeCommand(ctx, cfg, version),
	)

	return cmd
}

// Main is used by the root main.go to keep wiring contained in one package.
func Main(ctx context.Context, version string) {
	cfg := config.NewConfig()
	cmd := NewRootCommand(ctx, cfg, version)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
