package clippings

import (
	"regexp"
	"strconv"
)

// Title with author: "Book Title (Author Name)".
// Title is lazy and author greedy up to the final ")" so that
// "Title ((Author) (Translator))" keeps the whole author part.
var titleAuthorPattern = regexp.MustCompile(`^(.+?)\s+\((.+)\)$`)

// LocationShape tells which location matcher produced a Location.
type LocationShape int

const (
	ShapePointOnly LocationShape = iota
	ShapeWithRange
)

func ExtractTitleAuthor(line string) (title, author string, err error) {
	matches := titleAuthorPattern.FindStringSubmatch(line)
	if matches == nil {
		return "", "", invalidFormat("title/author", line, "expected 'Title (Author)'")
	}
	return trim(matches[1]), trim(matches[2]), nil
}

func ExtractKind(line string, table *Table) (EntryKind, error) {
	var unknown string
	structural := false

	for _, loc := range table.locales {
		matches := loc.Kind.FindStringSubmatch(line)
		if matches == nil {
			continue
		}
		if kind, ok := loc.LookupKind(matches[1]); ok {
			return kind, nil
		}
		if !structural {
			structural = true
			unknown = matches[1]
		}
	}

	if structural {
		return 0, invalidFormat("entry kind", line, "unknown entry kind %q", unknown)
	}
	return 0, invalidFormat("entry kind", line, "no entry kind pattern matched")
}

// ExtractPage returns nil when the line carries no page token.
func ExtractPage(line string, table *Table) (*uint32, error) {
	for _, loc := range table.locales {
		matches := loc.Page.FindStringSubmatch(line)
		if matches == nil {
			continue
		}
		page, err := parseUint32(matches[1])
		if err != nil {
			return nil, invalidFormat("page", line, "invalid page %q", matches[1])
		}
		return &page, nil
	}
	return nil, nil
}

func ExtractLocation(line string, table *Table) (Location, LocationShape, error) {
	for _, loc := range table.locales {
		if matches := loc.LocationRange.FindStringSubmatch(line); matches != nil {
			start, err := parseUint32(matches[1])
			if err != nil {
				return Location{}, 0, invalidFormat("location", line, "invalid location start %q", matches[1])
			}
			end, err := parseUint32(matches[2])
			if err != nil {
				return Location{}, 0, invalidFormat("location", line, "invalid location end %q", matches[2])
			}
			return Location{Start: start, End: &end}, ShapeWithRange, nil
		}
		if matches := loc.LocationPoint.FindStringSubmatch(line); matches != nil {
			start, err := parseUint32(matches[1])
			if err != nil {
				return Location{}, 0, invalidFormat("location", line, "invalid location %q", matches[1])
			}
			return Location{Start: start}, ShapePointOnly, nil
		}
	}
	return Location{}, 0, invalidFormat("location", line, "no location pattern matched")
}

func ExtractWeekday(line string, table *Table) (Weekday, error) {
	var unknown string
	structural := false

	for _, loc := range table.locales {
		matches := loc.Weekday.FindStringSubmatch(line)
		if matches == nil {
			continue
		}
		if day, ok := loc.LookupWeekday(matches[1]); ok {
			return day, nil
		}
		if !structural {
			structural = true
			unknown = matches[1]
		}
	}

	if structural {
		return 0, invalidFormat("weekday", line, "invalid weekday %q", unknown)
	}
	return 0, invalidFormat("weekday", line, "no weekday pattern matched")
}

// ExtractDatetime returns the date-time text exactly as written.
func ExtractDatetime(line string, table *Table) (string, error) {
	for _, loc := range table.locales {
		if matches := loc.Datetime.FindStringSubmatch(line); matches != nil {
			return matches[1], nil
		}
	}
	return "", invalidFormat("datetime", line, "no datetime pattern matched")
}

func parseUint32(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}
