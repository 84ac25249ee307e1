package clippings

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const highlightEntry = `Book Title (Author Name)
- Your Highlight on page 123 | Location 1234-1235 | Added on Monday, 26 August 2025 12:57:30

Highlighted text.`

const bookmarkEntry = `Book Title (Author Name)
- Your Bookmark on page 123 | Location 1234 | Added on Monday, 26 August 2025 12:57:30

`

const noteEntry = `Book Title (Author Name)
- Your Note on page 123 | Location 1234 | Added on Monday, 26 August 2025 12:57:30

Your note content goes here.`

func TestBuild_Highlight(t *testing.T) {
	record, err := Build(highlightEntry)
	require.NoError(t, err)

	assert.Equal(t, KindHighlight, record.Kind)
	assert.Equal(t, "Book Title", record.Title)
	assert.Equal(t, "Author Name", record.Author)
	require.NotNil(t, record.Page)
	assert.Equal(t, uint32(123), *record.Page)
	assert.Equal(t, uint32(1234), record.Location.Start)
	require.NotNil(t, record.Location.End)
	assert.Equal(t, uint32(1235), *record.Location.End)
	assert.Equal(t, Monday, record.Weekday)
	assert.Equal(t, "26 August 2025 12:57:30", record.Timestamp)
	require.NotNil(t, record.Body)
	assert.Equal(t, "Highlighted text.", *record.Body)
}

func TestBuild_Bookmark(t *testing.T) {
	record, err := Build(bookmarkEntry)
	require.NoError(t, err)

	assert.Equal(t, KindBookmark, record.Kind)
	assert.Nil(t, record.Body)
	assert.False(t, record.HasBody())
	assert.False(t, record.Location.IsRange())
	assert.Equal(t, uint32(1234), record.Location.Start)
}

func TestBuild_Note(t *testing.T) {
	record, err := Build(noteEntry)
	require.NoError(t, err)

	assert.Equal(t, KindNote, record.Kind)
	require.NotNil(t, record.Body)
	assert.Equal(t, "Your note content goes here.", *record.Body)
	assert.Nil(t, record.Location.End)
}

func TestBuild_BookmarkIgnoresTrailingText(t *testing.T) {
	record, err := Build(bookmarkEntry + "stray text")
	require.NoError(t, err)
	assert.Nil(t, record.Body)
}

func TestBuild_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		block string
		field string
	}{
		{"empty block", "  \n\n", "title/author"},
		{"only title", "Book (Author)\n", "metadata"},
		{"highlight without content", "Book (Author)\n- Your Highlight on page 1 | Location 10 | Added on Monday, 1 January 2025 10:00:00\n\n", "content"},
		{"note without content", "Book (Author)\n- Your Note | Location 10 | Added on Monday, 1 January 2025 10:00:00", "content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.block)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingField))

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, MissingField, parseErr.Kind)
			assert.Equal(t, tt.field, parseErr.Field)
		})
	}
}

func TestBuild_InvalidFormat(t *testing.T) {
	tests := []struct {
		name   string
		block  string
		field  string
		detail string
	}{
		{
			name:   "title without author",
			block:  "Just a title\n- Your Highlight | Location 10 | Added on Monday, 1 January 2025 10:00:00\ntext",
			field:  "title/author",
			detail: "expected 'Title (Author)'",
		},
		{
			name:   "unknown kind keyword",
			block:  "Book (Author)\n- Your Clip on page 1 | Location 10 | Added on Monday, 1 January 2025 10:00:00\ntext",
			field:  "entry kind",
			detail: `unknown entry kind "Clip"`,
		},
		{
			name:   "no kind at all",
			block:  "Book (Author)\n- Location 10 | Added on Monday, 1 January 2025 10:00:00\ntext",
			field:  "entry kind",
			detail: "no entry kind pattern matched",
		},
		{
			name:   "missing location",
			block:  "Book (Author)\n- Your Highlight on page 3 | Added on Monday, 1 January 2025 10:00:00\ntext",
			field:  "location",
			detail: "no location pattern matched",
		},
		{
			name:   "unknown weekday",
			block:  "Book (Author)\n- Your Highlight | Location 10 | Added on Funday, 1 January 2025 10:00:00\ntext",
			field:  "weekday",
			detail: `invalid weekday "Funday"`,
		},
		{
			name:   "missing datetime",
			block:  "Book (Author)\n- Your Highlight | Location 10 | Added on Monday, yesterday\ntext",
			field:  "datetime",
			detail: "no datetime pattern matched",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.block)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidFormat))

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.field, parseErr.Field)
			assert.Equal(t, tt.detail, parseErr.Detail)
			assert.NotEmpty(t, parseErr.Line)
		})
	}
}

func TestBuild_NestedParenthesesInAuthor(t *testing.T) {
	block := "The Master and Margarita ((Mikhail Bulgakov) (translated by Michael Glenny))\n" +
		"- Your Highlight on page 5 | Location 70-71 | Added on Friday, 3 January 2025 09:15:00\n\n" +
		"Manuscripts don't burn."

	record, err := Build(block)
	require.NoError(t, err)
	assert.Equal(t, "The Master and Margarita", record.Title)
	assert.Equal(t, "(Mikhail Bulgakov) (translated by Michael Glenny)", record.Author)
}

func TestBuild_USDateFormatAndLegacyLocation(t *testing.T) {
	block := "Fahrenheit 451 (Ray Bradbury)\n" +
		"- Your Highlight at location 784-785 | Added on Tuesday, April 15, 2025 10:16:21 PM\n\n" +
		"Who knows who might be the target of the well-read man?"

	record, err := Build(block)
	require.NoError(t, err)
	assert.Nil(t, record.Page)
	assert.Equal(t, "784-785", record.Location.String())
	assert.Equal(t, Tuesday, record.Weekday)
	assert.Equal(t, "April 15, 2025 10:16:21 PM", record.Timestamp)
}

func TestBuild_DayMonthYearWithMeridiem(t *testing.T) {
	block := "Book Title (Author Name)\n" +
		"- Your Highlight on page 3 | Location 40-41 | Added on Monday, 26 August 2025 3:04:05 PM\n\n" +
		"Highlighted text."

	record, err := Build(block)
	require.NoError(t, err)
	assert.Equal(t, "26 August 2025 3:04:05 PM", record.Timestamp)

	ts, err := record.Time(nil)
	require.NoError(t, err)
	assert.Equal(t, 15, ts.Hour())
	assert.Equal(t, 4, ts.Minute())
}

func TestBuild_WindowsLineEndingsAndBOM(t *testing.T) {
	block := "\uFEFFBook Title (Author Name)\r\n" +
		"- Your Highlight on page 123 | Location 1234-1235 | Added on Monday, 26 August 2025 12:57:30\r\n\r\n" +
		"Highlighted text.\r\n"

	record, err := Build(block)
	require.NoError(t, err)
	assert.Equal(t, "Book Title", record.Title)
	assert.Equal(t, "Highlighted text.", *record.Body)
}

func TestParse_MultipleEntries(t *testing.T) {
	raw := strings.Join([]string{highlightEntry, bookmarkEntry, noteEntry}, "\n==========\n") + "\n==========\n"

	records, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, KindHighlight, records[0].Kind)
	assert.Equal(t, KindBookmark, records[1].Kind)
	assert.Equal(t, KindNote, records[2].Kind)

	for _, record := range records {
		assert.Equal(t, record.Kind != KindBookmark, record.HasBody())
	}
}

func TestParse_EmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   \n\n", "==========\n\n==========\n"} {
		records, err := Parse(raw)
		require.NoError(t, err)
		assert.Empty(t, records)
	}
}

func TestParse_FailFast(t *testing.T) {
	raw := highlightEntry + "\n==========\nBroken entry without metadata\n==========\n" + noteEntry

	records, err := Parse(raw)
	require.Error(t, err)
	assert.Nil(t, records)

	var entryErr *EntryError
	require.True(t, errors.As(err, &entryErr))
	assert.Equal(t, 2, entryErr.Index)
	assert.True(t, errors.Is(err, ErrInvalidFormat))
	assert.Contains(t, err.Error(), "failed to parse entry #2: ")
}

func TestParse_FailFastIndexSkipsBlankBlocks(t *testing.T) {
	raw := "\n==========\n" + highlightEntry + "\n==========\n\n\n==========\nBook (Author)\n==========\n"

	_, err := Parse(raw)
	require.Error(t, err)

	var entryErr *EntryError
	require.True(t, errors.As(err, &entryErr))
	assert.Equal(t, 2, entryErr.Index)
	assert.True(t, errors.Is(err, ErrMissingField))
}

func TestParse_Deterministic(t *testing.T) {
	raw := strings.Join([]string{highlightEntry, bookmarkEntry, noteEntry}, "\n==========\n")

	first, err := Parse(raw)
	require.NoError(t, err)
	second, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseAll_CollectsFailures(t *testing.T) {
	raw := strings.Join([]string{
		highlightEntry,
		"Broken (Entry)\n- Your Highlight | Added on Monday, 1 January 2025 10:00:00\ntext",
		noteEntry,
		"Another (Broken)",
	}, "\n==========\n")

	result := ParseAll(raw)

	require.Len(t, result.Records, 2)
	assert.Equal(t, 1, result.Records[0].Index)
	assert.Equal(t, 3, result.Records[1].Index)

	require.Len(t, result.Failures, 2)
	assert.Equal(t, 2, result.Failures[0].Index)
	assert.True(t, errors.Is(result.Failures[0], ErrInvalidFormat))
	assert.Equal(t, 4, result.Failures[1].Index)
	assert.True(t, errors.Is(result.Failures[1], ErrMissingField))

	assert.Len(t, result.Plain(), 2)
}

func TestParser_Run(t *testing.T) {
	raw := highlightEntry + "\n==========\nBroken (Entry)\n"

	t.Run("fail-fast returns error and no records", func(t *testing.T) {
		result, err := NewParser(nil, ModeFailFast).Run(raw)
		require.Error(t, err)
		assert.Empty(t, result.Records)
		require.Len(t, result.Failures, 1)
		assert.Equal(t, 2, result.Failures[0].Index)
	})

	t.Run("collect keeps valid records", func(t *testing.T) {
		result, err := NewParser(nil, ModeCollect).Run(raw)
		require.NoError(t, err)
		require.Len(t, result.Records, 1)
		require.Len(t, result.Failures, 1)
	})

	t.Run("fail-fast success numbers records", func(t *testing.T) {
		result, err := NewParser(nil, ModeFailFast).Run(highlightEntry + "\n==========\n" + noteEntry)
		require.NoError(t, err)
		require.Len(t, result.Records, 2)
		assert.Equal(t, 2, result.Records[1].Index)
	})
}

func TestParser_ConcurrentUse(t *testing.T) {
	parser := NewParser(nil, ModeFailFast)
	raw := strings.Join([]string{highlightEntry, bookmarkEntry, noteEntry}, "\n==========\n")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			records, err := parser.Parse(raw)
			assert.NoError(t, err)
			assert.Len(t, records, 3)
		}()
	}
	wg.Wait()
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("collect")
	require.NoError(t, err)
	assert.Equal(t, ModeCollect, mode)

	mode, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeFailFast, mode)

	_, err = ParseMode("lenient")
	assert.Error(t, err)
}
