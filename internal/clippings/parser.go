package clippings

import (
	"fmt"
	"strings"
)

// Mode selects how the batch parser reacts to a malformed entry.
type Mode int

const (
	// ModeFailFast aborts on the first malformed entry and returns no records.
	ModeFailFast Mode = iota
	// ModeCollect keeps every valid record and reports each failure.
	ModeCollect
)

func (m Mode) String() string {
	if m == ModeCollect {
		return "collect"
	}
	return "fail-fast"
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail-fast", "failfast":
		return ModeFailFast, nil
	case "collect":
		return ModeCollect, nil
	default:
		return ModeFailFast, fmt.Errorf("unknown parse mode: %s", s)
	}
}

// IndexedRecord is a record together with its 1-based entry index.
type IndexedRecord struct {
	Index  int    `json:"index"`
	Record Record `json:"record"`
}

// Result is the outcome of parsing a whole file.
// In fail-fast mode Failures holds at most one error and Records is empty when it does.
type Result struct {
	Records  []IndexedRecord
	Failures []*EntryError
}

// Plain returns the records without their indices.
func (r Result) Plain() []Record {
	out := make([]Record, len(r.Records))
	for i, rec := range r.Records {
		out[i] = rec.Record
	}
	return out
}

// Parser parses Kindle "My Clippings.txt" content.
// A Parser holds no mutable state and may be shared between goroutines.
type Parser struct {
	table *Table
	mode  Mode
}

func NewParser(table *Table, mode Mode) *Parser {
	if table == nil {
		table = DefaultTable()
	}
	return &Parser{table: table, mode: mode}
}

func (p *Parser) Table() *Table {
	return p.table
}

func (p *Parser) Mode() Mode {
	return p.mode
}

// Build assembles one entry block into a Record.
func (p *Parser) Build(block string) (Record, error) {
	return buildRecord(block, p.table)
}

// Parse parses all entries and stops at the first malformed one.
func (p *Parser) Parse(raw string) ([]Record, error) {
	blocks := Segment(raw)
	records := make([]Record, 0, len(blocks))
	for _, block := range blocks {
		record, err := p.Build(block.Text)
		if err != nil {
			return nil, &EntryError{Index: block.Index, Err: err}
		}
		records = append(records, record)
	}
	return records, nil
}

// ParseAll parses every entry, collecting valid records and per-entry failures.
func (p *Parser) ParseAll(raw string) Result {
	var result Result
	for _, block := range Segment(raw) {
		record, err := p.Build(block.Text)
		if err != nil {
			result.Failures = append(result.Failures, &EntryError{Index: block.Index, Err: err})
			continue
		}
		result.Records = append(result.Records, IndexedRecord{Index: block.Index, Record: record})
	}
	return result
}

// Run parses raw in the parser's mode. The error is non-nil only in
// fail-fast mode; collect mode reports problems through Result.Failures.
func (p *Parser) Run(raw string) (Result, error) {
	if p.mode == ModeCollect {
		return p.ParseAll(raw), nil
	}

	records, err := p.Parse(raw)
	if err != nil {
		entryErr := err.(*EntryError)
		return Result{Failures: []*EntryError{entryErr}}, err
	}

	result := Result{Records: make([]IndexedRecord, len(records))}
	for i, record := range records {
		result.Records[i] = IndexedRecord{Index: i + 1, Record: record}
	}
	return result, nil
}

// Parse parses raw with the default locale table in fail-fast mode.
func Parse(raw string) ([]Record, error) {
	return NewParser(nil, ModeFailFast).Parse(raw)
}

// ParseAll parses raw with the default locale table, collecting failures.
func ParseAll(raw string) Result {
	return NewParser(nil, ModeCollect).ParseAll(raw)
}
