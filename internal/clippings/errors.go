package clippings

import (
	"errors"
	"fmt"
)

// Sentinel errors, matched by errors.Is against any *ParseError of that kind.
var (
	ErrInvalidFormat = errors.New("invalid format")
	ErrMissingField  = errors.New("missing field")
)

type ErrorKind int

const (
	// InvalidFormat: a line was present but no pattern matched it, or a matched
	// token did not resolve to a known value.
	InvalidFormat ErrorKind = iota
	// MissingField: an expected line was absent from the entry.
	MissingField
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidFormat:
		return "invalid format"
	case MissingField:
		return "missing field"
	default:
		return "unknown"
	}
}

// ParseError describes why a single entry could not be built.
type ParseError struct {
	Kind   ErrorKind
	Field  string
	Detail string
	Line   string
}

func (e *ParseError) Error() string {
	if e.Kind == MissingField {
		return fmt.Sprintf("Missing field: %s", e.Field)
	}
	if e.Line == "" {
		return fmt.Sprintf("Invalid format: %s: %s", e.Field, e.Detail)
	}
	return fmt.Sprintf("Invalid format: %s: %s, got: %s", e.Field, e.Detail, excerpt(e.Line))
}

func (e *ParseError) Is(target error) bool {
	switch target {
	case ErrInvalidFormat:
		return e.Kind == InvalidFormat
	case ErrMissingField:
		return e.Kind == MissingField
	}
	return false
}

func missingField(field string) *ParseError {
	return &ParseError{Kind: MissingField, Field: field}
}

func invalidFormat(field, line, detail string, args ...any) *ParseError {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &ParseError{Kind: InvalidFormat, Field: field, Detail: detail, Line: line}
}

const maxExcerptRunes = 80

func excerpt(line string) string {
	runes := []rune(line)
	if len(runes) <= maxExcerptRunes {
		return line
	}
	return string(runes[:maxExcerptRunes]) + "..."
}

// EntryError attaches the 1-based entry index to a build failure.
type EntryError struct {
	Index int
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("failed to parse entry #%d: %v", e.Index, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}
