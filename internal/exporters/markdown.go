package exporters

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mrlokans/kindlr/internal/utils"
)

type MarkdownExporter struct {
	OutputDir string
	Now       func() time.Time
}

func NewMarkdownExporter(outputDir string) *MarkdownExporter {
	return &MarkdownExporter{
		OutputDir: outputDir,
		Now:       time.Now,
	}
}

// GenerateMarkdown renders a book as an Obsidian note with YAML front matter.
func GenerateMarkdown(book Book, createdAt time.Time) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "---\n")
	fmt.Fprintf(&builder, "content_source: kindle\n")
	fmt.Fprintf(&builder, "content_type: book_highlights\n")
	fmt.Fprintf(&builder, "created_at: %s\n", createdAt.Format("2006-01-02"))
	fmt.Fprintf(&builder, "title: \"%s\"\n", escapeQuotes(book.Title))
	fmt.Fprintf(&builder, "author: \"%s\"\n", escapeQuotes(book.Author))
	fmt.Fprintf(&builder, "tags: [highlights, books]\n")
	fmt.Fprintf(&builder, "---\n\n")
	fmt.Fprintf(&builder, "## Highlights\n\n")

	for _, highlight := range book.Highlights {
		fmt.Fprintf(&builder, "> [!quote] %s\n", locationLabel(highlight.Page, highlight.Location.String(), highlight.AddedAt))
		if highlight.Text != "" {
			fmt.Fprintf(&builder, "> %s\n", strings.ReplaceAll(highlight.Text, "\n", "\n> "))
		}
		fmt.Fprintf(&builder, "\n")
		if highlight.Note != "" {
			fmt.Fprintf(&builder, "**Note:** %s\n\n", highlight.Note)
		}
		fmt.Fprintf(&builder, "^%s\n\n", highlight.ID)
	}

	if len(book.Bookmarks) > 0 {
		fmt.Fprintf(&builder, "## Bookmarks\n\n")
		for _, bookmark := range book.Bookmarks {
			fmt.Fprintf(&builder, "- %s\n", locationLabel(bookmark.Page, bookmark.Location.String(), bookmark.AddedAt))
		}
		fmt.Fprintf(&builder, "\n")
	}

	return builder.String()
}

// GenerateMarkdownAll renders several books into one document.
func GenerateMarkdownAll(books []Book, createdAt time.Time) string {
	parts := make([]string, len(books))
	for i, book := range books {
		parts[i] = GenerateMarkdown(book, createdAt)
	}
	return strings.Join(parts, "\n")
}

func (exporter *MarkdownExporter) Export(books []Book) (ExportResult, error) {
	return exportFiles(exporter.OutputDir, books, ".md", func(book Book) ([]byte, error) {
		return []byte(GenerateMarkdown(book, exporter.Now())), nil
	})
}

func locationLabel(page *uint32, location, addedAt string) string {
	label := "Location " + location
	if page != nil {
		label = fmt.Sprintf("Page %d, %s", *page, label)
	}
	return label + " (" + addedAt + ")"
}

// Double-quoted YAML scalars treat backslash as an escape character.
var yamlQuoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string {
	return yamlQuoteEscaper.Replace(s)
}

// exportFiles writes one file per book into outputDir, creating it if needed.
// A book that fails to write is counted and skipped.
func exportFiles(outputDir string, books []Book, ext string, render func(Book) ([]byte, error)) (ExportResult, error) {
	result := ExportResult{}

	if outputDir == "" {
		return result, fmt.Errorf("output directory is not set")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return result, fmt.Errorf("failed to create export directory: %w", err)
	}

	used := make(map[string]int)
	for _, book := range books {
		content, err := render(book)
		if err != nil {
			log.Printf("Failed to render %q: %v", book.Title, err)
			result.BooksFailed++
			continue
		}

		outputPath := filepath.Join(outputDir, uniqueFilename(used, utils.BookFilename(book.Title, book.Author, ext), ext))
		if err := os.WriteFile(outputPath, content, 0644); err != nil {
			log.Printf("Failed to write %s: %v", outputPath, err)
			result.BooksFailed++
			continue
		}

		result.BooksProcessed++
		result.HighlightsProcessed += len(book.Highlights)
		result.Files = append(result.Files, outputPath)
	}

	return result, nil
}

// uniqueFilename appends " (2)", " (3)", ... when an earlier book of the same
// export already took name. Names are compared case-insensitively because
// the default macOS and Windows filesystems are.
func uniqueFilename(used map[string]int, name, ext string) string {
	key := strings.ToLower(name)
	used[key]++
	if used[key] == 1 {
		return name
	}

	base := strings.TrimSuffix(name, ext)
	for n := used[key]; ; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, n, ext)
		if _, taken := used[strings.ToLower(candidate)]; !taken {
			used[strings.ToLower(candidate)] = 1
			log.Printf("File name %q already used in this export, writing %q instead", name, candidate)
			return candidate
		}
	}
}
