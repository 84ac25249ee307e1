package exporters

import "fmt"

type BookExporter interface {
	Export(books []Book) (ExportResult, error)
}

type ExportResult struct {
	BooksProcessed      int      `json:"books_processed"`
	HighlightsProcessed int      `json:"highlights_processed"`
	BooksFailed         int      `json:"books_failed"`
	Files               []string `json:"files,omitempty"`
}

const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// NewExporter returns the file exporter for the given format.
func NewExporter(format, outputDir string) (BookExporter, error) {
	switch format {
	case FormatMarkdown, "md", "":
		return NewMarkdownExporter(outputDir), nil
	case FormatJSON:
		return NewJSONExporter(outputDir), nil
	default:
		return nil, fmt.Errorf("unknown export format: %s", format)
	}
}
