package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	// Whitespace characters to normalize
	whitespaceChars = regexp.MustCompile(`[\r\n\t]`)
	// Multiple spaces to collapse
	multipleSpaces = regexp.MustCompile(`\s+`)
)

const maxFilenameBytes = 200

// SanitizeFilename makes a book title safe to use as a file name in
// Obsidian vaults and on common filesystems.
func SanitizeFilename(filename string) string {
	filename = invalidFilenameChars.ReplaceAllString(filename, "")
	filename = whitespaceChars.ReplaceAllString(filename, " ")
	filename = multipleSpaces.ReplaceAllString(filename, " ")
	filename = strings.TrimSpace(filename)

	// Obsidian treats these as tags and links
	filename = strings.ReplaceAll(filename, "#", "")
	filename = strings.ReplaceAll(filename, "[", "(")
	filename = strings.ReplaceAll(filename, "]", ")")

	filename = strings.TrimSpace(truncateUTF8(filename, maxFilenameBytes))

	if filename == "" {
		filename = "Untitled"
	}

	return filename
}

// BookFilename builds "<Title> - <Author>" with the given extension.
// The author is left out when empty.
func BookFilename(title, author, ext string) string {
	name := title
	if author != "" {
		name = title + " - " + author
	}
	return SanitizeFilename(name) + ext
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
