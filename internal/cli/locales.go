package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/kindlr/internal/config"
)

func newLocalesCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "locales",
		Short: "List the locales used to match metadata lines.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := cfg.LoadTable()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, newStyles(out).heading.Render(fmt.Sprintf("Locale table v%d", table.Version())))
			for i, loc := range table.Locales() {
				fmt.Fprintf(out, "%d. %s\n", i+1, loc.ID)
			}
			return nil
		},
	}
}
