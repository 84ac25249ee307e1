package exporters

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mrlokans/kindlr/internal/clippings"
)

// idNamespace scopes the name-based UUIDs of exported entries.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/mrlokans/kindlr"))

// Highlight is a highlight with the note taken at the same place, or a
// standalone note when Text is empty.
type Highlight struct {
	ID       string             `json:"id"`
	Text     string             `json:"text,omitempty"`
	Note     string             `json:"note,omitempty"`
	Page     *uint32            `json:"page,omitempty"`
	Location clippings.Location `json:"location"`
	Weekday  clippings.Weekday  `json:"weekday"`
	AddedAt  string             `json:"added_at"`
}

type Bookmark struct {
	ID       string             `json:"id"`
	Page     *uint32            `json:"page,omitempty"`
	Location clippings.Location `json:"location"`
	AddedAt  string             `json:"added_at"`
}

// Book groups the clippings of one title/author pair.
type Book struct {
	Title      string      `json:"title"`
	Author     string      `json:"author"`
	Highlights []Highlight `json:"highlights"`
	Bookmarks  []Bookmark  `json:"bookmarks,omitempty"`
}

// GroupByBook groups records per book in order of first appearance.
// Notes are attached to the highlight at the same location; notes without
// one become note-only highlights.
func GroupByBook(records []clippings.Record) []Book {
	bookMap := make(map[string]*Book)
	var bookOrder []string
	notesByBook := make(map[string][]clippings.Record)

	for _, record := range records {
		key := bookKey(record.Title, record.Author)
		book, exists := bookMap[key]
		if !exists {
			book = &Book{Title: record.Title, Author: record.Author, Highlights: []Highlight{}}
			bookMap[key] = book
			bookOrder = append(bookOrder, key)
		}

		switch record.Kind {
		case clippings.KindNote:
			notesByBook[key] = append(notesByBook[key], record)
		case clippings.KindBookmark:
			book.Bookmarks = append(book.Bookmarks, Bookmark{
				ID:       EntryID(record),
				Page:     record.Page,
				Location: record.Location,
				AddedAt:  record.Timestamp,
			})
		default:
			book.Highlights = append(book.Highlights, Highlight{
				ID:       EntryID(record),
				Text:     body(record),
				Page:     record.Page,
				Location: record.Location,
				Weekday:  record.Weekday,
				AddedAt:  record.Timestamp,
			})
		}
	}

	for _, key := range bookOrder {
		book := bookMap[key]
		for _, note := range notesByBook[key] {
			if h := findHighlightAt(book.Highlights, note.Location); h != nil {
				if h.Note == "" {
					h.Note = body(note)
				} else {
					h.Note = h.Note + "\n\n" + body(note)
				}
				continue
			}
			book.Highlights = append(book.Highlights, Highlight{
				ID:       EntryID(note),
				Note:     body(note),
				Page:     note.Page,
				Location: note.Location,
				Weekday:  note.Weekday,
				AddedAt:  note.Timestamp,
			})
		}
	}

	books := make([]Book, 0, len(bookOrder))
	for _, key := range bookOrder {
		books = append(books, *bookMap[key])
	}
	return books
}

// EntryID is a stable identifier derived from the record's identifying fields,
// so exporting the same clippings twice yields the same ids.
func EntryID(record clippings.Record) string {
	name := fmt.Sprintf("%s|%s|%s|%s|%s",
		record.Kind, record.Title, record.Author, record.Location, record.Timestamp)
	return uuid.NewSHA1(idNamespace, []byte(name)).String()
}

// Kindle stores a note at the last location of the highlighted passage.
func findHighlightAt(highlights []Highlight, loc clippings.Location) *Highlight {
	for i := range highlights {
		h := &highlights[i]
		if h.Text == "" {
			continue
		}
		if h.Location.Start == loc.Start {
			return h
		}
		if h.Location.End != nil && *h.Location.End == loc.Start {
			return h
		}
	}
	return nil
}

func bookKey(title, author string) string {
	return strings.ToLower(title) + "|" + strings.ToLower(author)
}

func body(record clippings.Record) string {
	if record.Body == nil {
		return ""
	}
	return *record.Body
}
