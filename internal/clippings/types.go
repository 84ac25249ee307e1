package clippings

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EntryKind is the type of a clipping entry
type EntryKind int

const (
	KindHighlight EntryKind = iota
	KindNote
	KindBookmark
)

var entryKindNames = [...]string{
	KindHighlight: "Highlight",
	KindNote:      "Note",
	KindBookmark:  "Bookmark",
}

func (k EntryKind) String() string {
	if k < 0 || int(k) >= len(entryKindNames) {
		return "EntryKind(" + strconv.Itoa(int(k)) + ")"
	}
	return entryKindNames[k]
}

// ParseEntryKind resolves a canonical kind name ("Highlight", "note", ...).
func ParseEntryKind(s string) (EntryKind, error) {
	for i, name := range entryKindNames {
		if strings.EqualFold(name, s) {
			return EntryKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown entry kind: %s", s)
}

func (k EntryKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(k.String()))
}

func (k *EntryKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseEntryKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Weekday is a day of the week, ordered Monday first.
// It is a display value only, no calendar arithmetic is done with it.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

func (d Weekday) String() string {
	if d < 0 || int(d) >= len(weekdayNames) {
		return "Weekday(" + strconv.Itoa(int(d)) + ")"
	}
	return weekdayNames[d]
}

// ParseWeekday resolves a canonical English weekday name.
func ParseWeekday(s string) (Weekday, error) {
	for i, name := range weekdayNames {
		if strings.EqualFold(name, s) {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("invalid weekday: %s", s)
}

func (d Weekday) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Weekday) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseWeekday(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Location is a single position (End == nil) or a range inside the book.
type Location struct {
	Start uint32  `json:"start"`
	End   *uint32 `json:"end,omitempty"`
}

func (l Location) IsRange() bool {
	return l.End != nil
}

func (l Location) String() string {
	if l.End == nil {
		return strconv.FormatUint(uint64(l.Start), 10)
	}
	return fmt.Sprintf("%d-%d", l.Start, *l.End)
}

// Record is a single parsed clipping.
// Body is nil if and only if Kind is KindBookmark.
type Record struct {
	Kind      EntryKind `json:"kind"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Page      *uint32   `json:"page,omitempty"`
	Location  Location  `json:"location"`
	Weekday   Weekday   `json:"weekday"`
	Timestamp string    `json:"timestamp"`
	Body      *string   `json:"body,omitempty"`
}

func (r Record) HasBody() bool {
	return r.Body != nil
}

// Time parses Timestamp with the layouts of the table's locales.
// The parser itself keeps Timestamp verbatim and never calls this.
func (r Record) Time(table *Table) (time.Time, error) {
	if table == nil {
		table = DefaultTable()
	}
	for _, loc := range table.Locales() {
		for _, layout := range loc.Layouts {
			if t, err := time.Parse(layout, r.Timestamp); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("no layout matches timestamp %q", r.Timestamp)
}

func (r Record) String() string {
	page := "N/A"
	if r.Page != nil {
		page = strconv.FormatUint(uint64(*r.Page), 10)
	}
	body := "N/A"
	if r.Body != nil {
		body = *r.Body
	}
	return fmt.Sprintf("Type: %s\nBook: %s\nAuthor: %s\nLocation: %s\nDate: %s (%s)\nPage: %s\nContent: %s",
		r.Kind, r.Title, r.Author, r.Location, r.Timestamp, r.Weekday, page, body)
}
