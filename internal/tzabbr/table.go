// Package tzabbr maps timezone abbreviations to fixed UTC offsets.
//
// The table is deliberately small. Abbreviations such as CST or IST name
// several unrelated zones and are left out of the default table; callers that
// know their audience can add them with New or FromLibrary and Merge.
package tzabbr

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Table maps upper-case abbreviations to offsets in seconds east of UTC.
// A Table is never mutated after construction and is safe for concurrent use.
type Table struct {
	offsets map[string]int
}

var defaultOffsets = map[string]int{
	"EDT": -4 * 3600,
	"EST": -5 * 3600,
	"PDT": -7 * 3600,
	"PST": -8 * 3600,
	"GMT": 0,
	"UTC": 0,
}

// Default returns the guaranteed abbreviation table.
func Default() *Table {
	offsets := make(map[string]int, len(defaultOffsets))
	for k, v := range defaultOffsets {
		offsets[k] = v
	}
	return &Table{offsets: offsets}
}

// New builds a table from abbreviation -> offset strings such as "-04:00".
// Keys that differ only in case are rejected.
func New(entries map[string]string) (*Table, error) {
	offsets := make(map[string]int, len(entries))
	for abbr, raw := range entries {
		key := strings.ToUpper(strings.TrimSpace(abbr))
		if !isAbbreviation(key) {
			return nil, fmt.Errorf("invalid zone abbreviation %q", abbr)
		}
		if _, dup := offsets[key]; dup {
			return nil, fmt.Errorf("zone %s given more than once (abbreviations ignore case)", key)
		}
		off, err := ParseOffset(raw)
		if err != nil {
			return nil, fmt.Errorf("zone %s: %w", key, err)
		}
		offsets[key] = off
	}
	return &Table{offsets: offsets}, nil
}

// Merge returns a new table holding both sets of entries; other wins on conflict.
func (t *Table) Merge(other *Table) *Table {
	offsets := make(map[string]int, t.Len()+other.Len())
	if t != nil {
		for k, v := range t.offsets {
			offsets[k] = v
		}
	}
	if other != nil {
		for k, v := range other.offsets {
			offsets[k] = v
		}
	}
	return &Table{offsets: offsets}
}

// Lookup returns the offset for abbr, ignoring case.
func (t *Table) Lookup(abbr string) (int, bool) {
	if t == nil {
		return 0, false
	}
	off, ok := t.offsets[strings.ToUpper(abbr)]
	return off, ok
}

// Len returns the number of abbreviations in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.offsets)
}

// Abbreviations returns the known abbreviations, longest first, then alphabetical.
// Longest-first ordering lets callers build regexp alternations directly.
func (t *Table) Abbreviations() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.offsets))
	for k := range t.offsets {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

// ParseOffset parses "Z", "+HH", "+HHMM" or "+HH:MM" into seconds east of UTC.
func ParseOffset(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "Z" || s == "z" {
		return 0, nil
	}
	if len(s) < 3 || (s[0] != '+' && s[0] != '-') {
		return 0, fmt.Errorf("invalid offset %q", s)
	}
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	body := strings.Replace(s[1:], ":", "", 1)
	if len(body) != 2 && len(body) != 4 {
		return 0, fmt.Errorf("invalid offset %q", s)
	}
	hh, err := strconv.Atoi(body[:2])
	if err != nil {
		return 0, fmt.Errorf("invalid offset %q", s)
	}
	mm := 0
	if len(body) == 4 {
		if mm, err = strconv.Atoi(body[2:]); err != nil {
			return 0, fmt.Errorf("invalid offset %q", s)
		}
	}
	if hh > 23 || mm > 59 {
		return 0, fmt.Errorf("offset %q out of range", s)
	}
	return sign * (hh*3600 + mm*60), nil
}

// FormatOffset renders seconds east of UTC as "+HH:MM".
func FormatOffset(sec int) string {
	sign := '+'
	if sec < 0 {
		sign = '-'
		sec = -sec
	}
	return fmt.Sprintf("%c%02d:%02d", sign, sec/3600, (sec%3600)/60)
}

func isAbbreviation(s string) bool {
	if len(s) < 2 || len(s) > 5 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
