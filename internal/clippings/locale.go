package clippings

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// TableVersion is the only locale table version this package understands.
const TableVersion = 1

//go:embed locales.yaml
var defaultLocales []byte

// Locale is one compiled row of the pattern table.
type Locale struct {
	ID string

	Kind          *regexp.Regexp
	Page          *regexp.Regexp
	LocationRange *regexp.Regexp
	LocationPoint *regexp.Regexp
	Weekday       *regexp.Regexp
	Datetime      *regexp.Regexp

	Months  []string
	Layouts []string

	kinds    map[string]EntryKind
	weekdays map[string]Weekday
}

// LookupKind resolves a captured kind keyword, ignoring case.
func (l *Locale) LookupKind(keyword string) (EntryKind, bool) {
	k, ok := l.kinds[strings.ToLower(keyword)]
	return k, ok
}

// LookupWeekday resolves a captured weekday name, ignoring case.
func (l *Locale) LookupWeekday(name string) (Weekday, bool) {
	d, ok := l.weekdays[strings.ToLower(name)]
	return d, ok
}

// Table is an ordered, immutable set of locale rows.
// It is safe for concurrent use once built.
type Table struct {
	version int
	locales []*Locale
}

func (t *Table) Version() int {
	return t.version
}

// Locales returns the rows in match order.
func (t *Table) Locales() []*Locale {
	out := make([]*Locale, len(t.locales))
	copy(out, t.locales)
	return out
}

// IDs returns the locale identifiers in match order.
func (t *Table) IDs() []string {
	ids := make([]string, len(t.locales))
	for i, loc := range t.locales {
		ids[i] = loc.ID
	}
	return ids
}

// Select returns a table restricted to the given locale ids, in the given order.
func (t *Table) Select(ids ...string) (*Table, error) {
	if len(ids) == 0 {
		return t, nil
	}
	byID := make(map[string]*Locale, len(t.locales))
	for _, loc := range t.locales {
		byID[strings.ToLower(loc.ID)] = loc
	}
	selected := make([]*Locale, 0, len(ids))
	for _, id := range ids {
		loc, ok := byID[strings.ToLower(strings.TrimSpace(id))]
		if !ok {
			return nil, fmt.Errorf("unknown locale: %s", id)
		}
		selected = append(selected, loc)
	}
	return &Table{version: t.version, locales: selected}, nil
}

var (
	defaultTableOnce sync.Once
	defaultTable     *Table
)

// DefaultTable returns the embedded locale table. It is built once per process.
func DefaultTable() *Table {
	defaultTableOnce.Do(func() {
		t, err := LoadTable(bytes.NewReader(defaultLocales), "yaml")
		if err != nil {
			panic(fmt.Sprintf("embedded locale table is invalid: %v", err))
		}
		defaultTable = t
	})
	return defaultTable
}

type tableFile struct {
	Version int          `mapstructure:"version"`
	Locales []localeSpec `mapstructure:"locales"`
}

type localeSpec struct {
	ID            string        `mapstructure:"id"`
	Kind          string        `mapstructure:"kind"`
	Page          string        `mapstructure:"page"`
	LocationRange string        `mapstructure:"location_range"`
	LocationPoint string        `mapstructure:"location_point"`
	Weekday       string        `mapstructure:"weekday"`
	Datetime      string        `mapstructure:"datetime"`
	Kinds         []kindSpec    `mapstructure:"kinds"`
	Weekdays      []weekdaySpec `mapstructure:"weekdays"`
	Months        []string      `mapstructure:"months"`
	Layouts       []string      `mapstructure:"layouts"`
}

type kindSpec struct {
	Keyword string `mapstructure:"keyword"`
	Kind    string `mapstructure:"kind"`
}

type weekdaySpec struct {
	Name    string `mapstructure:"name"`
	Weekday string `mapstructure:"weekday"`
}

// LoadTable decodes a locale table in any format viper understands
// ("yaml", "json", "toml") and compiles it.
func LoadTable(r io.Reader, format string) (*Table, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("failed to read locale table: %w", err)
	}
	return decodeTable(v)
}

// LoadTableFile reads a locale table from disk; the format follows the file extension.
func LoadTableFile(path string) (*Table, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read locale table %s: %w", path, err)
	}
	return decodeTable(v)
}

func decodeTable(v *viper.Viper) (*Table, error) {
	var file tableFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to decode locale table: %w", err)
	}
	if file.Version != TableVersion {
		return nil, fmt.Errorf("unsupported locale table version %d (want %d)", file.Version, TableVersion)
	}
	if len(file.Locales) == 0 {
		return nil, fmt.Errorf("locale table has no locales")
	}

	table := &Table{version: file.Version}
	seen := make(map[string]bool)
	for _, spec := range file.Locales {
		loc, err := compileLocale(spec)
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(loc.ID)
		if seen[key] {
			return nil, fmt.Errorf("duplicate locale %s", loc.ID)
		}
		seen[key] = true
		table.locales = append(table.locales, loc)
	}
	return table, nil
}

func compileLocale(spec localeSpec) (*Locale, error) {
	if spec.ID == "" {
		return nil, fmt.Errorf("locale without id")
	}

	loc := &Locale{
		ID:       spec.ID,
		Months:   spec.Months,
		Layouts:  spec.Layouts,
		kinds:    make(map[string]EntryKind, len(spec.Kinds)),
		weekdays: make(map[string]Weekday, len(spec.Weekdays)),
	}

	months := make([]string, len(spec.Months))
	for i, m := range spec.Months {
		months[i] = regexp.QuoteMeta(m)
	}
	datetime := strings.ReplaceAll(spec.Datetime, "{months}", strings.Join(months, "|"))

	patterns := []struct {
		field  string
		source string
		groups int
		dst    **regexp.Regexp
	}{
		{"kind", spec.Kind, 1, &loc.Kind},
		{"page", spec.Page, 1, &loc.Page},
		{"location_range", spec.LocationRange, 2, &loc.LocationRange},
		{"location_point", spec.LocationPoint, 1, &loc.LocationPoint},
		{"weekday", spec.Weekday, 1, &loc.Weekday},
		{"datetime", datetime, 1, &loc.Datetime},
	}
	for _, p := range patterns {
		if p.source == "" {
			return nil, fmt.Errorf("locale %s: missing %s pattern", spec.ID, p.field)
		}
		re, err := regexp.Compile(p.source)
		if err != nil {
			return nil, fmt.Errorf("locale %s: invalid %s pattern: %w", spec.ID, p.field, err)
		}
		if re.NumSubexp() != p.groups {
			return nil, fmt.Errorf("locale %s: %s pattern needs %d capture groups, has %d",
				spec.ID, p.field, p.groups, re.NumSubexp())
		}
		*p.dst = re
	}

	for _, k := range spec.Kinds {
		kind, err := ParseEntryKind(k.Kind)
		if err != nil {
			return nil, fmt.Errorf("locale %s: %w", spec.ID, err)
		}
		loc.kinds[strings.ToLower(k.Keyword)] = kind
	}
	for _, w := range spec.Weekdays {
		day, err := ParseWeekday(w.Weekday)
		if err != nil {
			return nil, fmt.Errorf("locale %s: %w", spec.ID, err)
		}
		loc.weekdays[strings.ToLower(w.Name)] = day
	}
	if len(loc.kinds) == 0 || len(loc.weekdays) == 0 {
		return nil, fmt.Errorf("locale %s: kinds and weekdays must not be empty", spec.ID)
	}

	return loc, nil
}
