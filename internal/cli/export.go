package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mrlokans/kindlr/internal/config"
	"github.com/mrlokans/kindlr/internal/exporters"
)

func newExportCommand(cfg *config.Config) *cobra.Command {
	var (
		outputDir string
		format    string
		verbose   bool
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export clippings as one markdown or JSON file per book.",
		Example: "  kindlr export \"/Volumes/Kindle/documents/My Clippings.txt\" --output ~/Obsidian/Highlights\n" +
			"  kindlr export \"My Clippings.txt\" --format json --dry-run --verbose",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			st := newStyles(out)

			fmt.Fprintln(out, st.heading.Render("Kindle Export"))
			fmt.Fprintln(out, st.heading.Render("============="))
			if dryRun {
				fmt.Fprintln(out, "DRY RUN MODE - No files will be written")
				fmt.Fprintln(out)
			}

			exporter, err := exporters.NewExporter(format, outputDir)
			if err != nil {
				return err
			}

			parser, err := cfg.NewClippingsParser()
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "File: %s\n", args[0])
			raw, err := readClippings(cmd, args[0])
			if err != nil {
				return err
			}

			result, err := parser.Run(raw)
			if err != nil {
				return fmt.Errorf("failed to parse clippings: %w", err)
			}
			for _, failure := range result.Failures {
				fmt.Fprintf(out, "  [SKIPPED] %v\n", failure)
			}

			books := exporters.GroupByBook(result.Plain())
			if len(books) == 0 {
				fmt.Fprintln(out, "No books found in clippings file")
				return nil
			}

			totalHighlights := 0
			for _, book := range books {
				totalHighlights += len(book.Highlights)
			}
			fmt.Fprintf(out, "Found %d books with %d total highlights\n", len(books), totalHighlights)

			if verbose {
				fmt.Fprintln(out)
				fmt.Fprintln(out, st.heading.Render("=== Books Found ==="))
				for i, book := range books {
					author := book.Author
					if author == "" {
						author = "(no author)"
					}
					fmt.Fprintf(out, "%d. \"%s\" by %s (%d highlights, %d bookmarks)\n",
						i+1, book.Title, author, len(book.Highlights), len(book.Bookmarks))
				}
			}

			if dryRun {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Dry run complete. Use without --dry-run to export.")
				return nil
			}

			absOutputDir, err := filepath.Abs(outputDir)
			if err != nil {
				return fmt.Errorf("failed to get absolute path for output: %w", err)
			}
			fmt.Fprintf(out, "\nExporting %s to: %s\n", format, absOutputDir)

			exportResult, err := exporter.Export(books)
			if err != nil {
				return fmt.Errorf("failed to export: %w", err)
			}

			fmt.Fprintf(out, "Exported %d books with %d highlights\n", exportResult.BooksProcessed, exportResult.HighlightsProcessed)
			if verbose {
				for _, file := range exportResult.Files {
					fmt.Fprintf(out, "  %s\n", st.muted.Render(file))
				}
			}
			if exportResult.BooksFailed > 0 {
				return fmt.Errorf("%d books failed to export", exportResult.BooksFailed)
			}

			fmt.Fprintln(out, "\nExport complete!")
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", cfg.Export.OutputDir, "Output directory for exported files")
	cmd.Flags().StringVarP(&format, "format", "f", cfg.Export.Format, "Export format: markdown or json")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List books and written files")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be exported without writing files")

	return cmd
}
