package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/kindlr/internal/clippings"
	"github.com/mrlokans/kindlr/internal/config"
)

type parseOutput struct {
	Records  []clippings.IndexedRecord `json:"records"`
	Failures []parseFailure            `json:"failures,omitempty"`
	Total    int                       `json:"total"`
}

type parseFailure struct {
	Entry int    `json:"entry"`
	Error string `json:"error"`
}

func newParseCommand(cfg *config.Config) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a clippings file and print every entry.",
		Long: "Parse a Kindle 'My Clippings.txt' file and print every entry.\n\n" +
			"In fail-fast mode the first malformed entry aborts the run. In collect mode\n" +
			"valid entries are printed, failures are listed afterwards and the command\n" +
			"exits with an error if there were any. Use '-' to read from stdin.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := cfg.NewClippingsParser()
			if err != nil {
				return err
			}

			raw, err := readClippings(cmd, args[0])
			if err != nil {
				return err
			}

			result, err := parser.Run(raw)
			if err != nil {
				return err
			}

			if asJSON {
				if err := printJSON(cmd, result); err != nil {
					return err
				}
			} else {
				printRecords(cmd, result)
			}

			if len(result.Failures) > 0 {
				return fmt.Errorf("%d of %d entries failed to parse",
					len(result.Failures), len(result.Failures)+len(result.Records))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print records as JSON")

	return cmd
}

func printRecords(cmd *cobra.Command, result clippings.Result) {
	out := cmd.OutOrStdout()
	st := newStyles(out)

	for _, rec := range result.Records {
		fmt.Fprintln(out, st.heading.Render(fmt.Sprintf("Clipping #%d:", rec.Index)))
		fmt.Fprintln(out, rec.Record.String())
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "Total clippings: %d\n", len(result.Records))

	if len(result.Failures) == 0 {
		return
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, st.failure.Render(fmt.Sprintf("Failed entries: %d", len(result.Failures))))
	for _, failure := range result.Failures {
		fmt.Fprintf(out, "  [ERROR] %v\n", failure)
	}
}

func printJSON(cmd *cobra.Command, result clippings.Result) error {
	output := parseOutput{
		Records: result.Records,
		Total:   len(result.Records),
	}
	if output.Records == nil {
		output.Records = []clippings.IndexedRecord{}
	}
	for _, failure := range result.Failures {
		output.Failures = append(output.Failures, parseFailure{Entry: failure.Index, Error: failure.Err.Error()})
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
