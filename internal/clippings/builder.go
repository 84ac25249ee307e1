package clippings

import "strings"

// Build assembles one entry block into a Record using the default locale table.
func Build(block string) (Record, error) {
	return buildRecord(block, DefaultTable())
}

func buildRecord(block string, table *Table) (Record, error) {
	lines := nonBlankLines(block)

	if len(lines) < 1 {
		return Record{}, missingField("title/author")
	}
	title, author, err := ExtractTitleAuthor(lines[0])
	if err != nil {
		return Record{}, err
	}

	if len(lines) < 2 {
		return Record{}, missingField("metadata")
	}
	metadata := lines[1]

	kind, err := ExtractKind(metadata, table)
	if err != nil {
		return Record{}, err
	}
	page, err := ExtractPage(metadata, table)
	if err != nil {
		return Record{}, err
	}
	location, _, err := ExtractLocation(metadata, table)
	if err != nil {
		return Record{}, err
	}
	weekday, err := ExtractWeekday(metadata, table)
	if err != nil {
		return Record{}, err
	}
	timestamp, err := ExtractDatetime(metadata, table)
	if err != nil {
		return Record{}, err
	}

	record := Record{
		Kind:      kind,
		Title:     title,
		Author:    author,
		Page:      page,
		Location:  location,
		Weekday:   weekday,
		Timestamp: timestamp,
	}

	if kind == KindBookmark {
		return record, nil
	}

	if len(lines) < 3 {
		return Record{}, missingField("content")
	}
	body := lines[2]
	record.Body = &body

	return record, nil
}

func nonBlankLines(block string) []string {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		if line = trim(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
