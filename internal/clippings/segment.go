package clippings

import "strings"

// EntrySeparator is the line that separates entries in a clippings file.
const EntrySeparator = "=========="

const byteOrderMark = "\uFEFF"

// Block is the raw text of one entry with its 1-based position among non-empty entries.
type Block struct {
	Index int
	Text  string
}

// Segment splits raw file content into entry blocks on separator lines.
// Blank blocks are dropped and do not consume an index.
func Segment(raw string) []Block {
	var blocks []Block
	var current []string

	flush := func() {
		text := strings.Join(current, "\n")
		current = current[:0]
		if trim(text) == "" {
			return
		}
		blocks = append(blocks, Block{Index: len(blocks) + 1, Text: text})
	}

	for _, line := range strings.Split(raw, "\n") {
		if trim(line) == EntrySeparator {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return blocks
}

// trim removes surrounding whitespace and byte-order marks, which Kindle
// devices write at the start of the file and sometimes of each entry.
func trim(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), byteOrderMark))
}
