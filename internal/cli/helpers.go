package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// readClippings reads the clippings file at path, or stdin when path is "-".
func readClippings(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("clippings file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read clippings file: %w", err)
	}
	return string(data), nil
}

// styles renders headings for the command's output. Styling is dropped
// automatically when the output is not a terminal.
type styles struct {
	heading lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	renderer := lipgloss.NewRenderer(w)
	return styles{
		heading: renderer.NewStyle().Bold(true),
		failure: renderer.NewStyle().Foreground(lipgloss.Color("9")),
		muted:   renderer.NewStyle().Faint(true),
	}
}
