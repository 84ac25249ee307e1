package exporters

import "encoding/json"

type JSONExporter struct {
	OutputDir string
}

func NewJSONExporter(outputDir string) *JSONExporter {
	return &JSONExporter{OutputDir: outputDir}
}

func (exporter *JSONExporter) Export(books []Book) (ExportResult, error) {
	return exportFiles(exporter.OutputDir, books, ".json", func(book Book) ([]byte, error) {
		return json.MarshalIndent(book, "", "  ")
	})
}
