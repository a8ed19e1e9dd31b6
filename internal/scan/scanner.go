// Package scan locates date-shaped substrings in free text.
package scan

import (
	"iter"
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/gyeh/chronosync/internal/tzabbr"
)

// Match is one date-shaped span of the scanned text.
// Start and End are byte offsets, so text[Start:End] == Text.
type Match struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Text    string `json:"text"`
	Pattern string `json:"pattern"`
}

// Scanner finds date-shaped substrings. It holds no per-call state and is
// safe for concurrent use.
type Scanner struct {
	patterns []Pattern
	re       *regexp.Regexp
}

// New builds a Scanner whose long-form zone token recognizes the
// abbreviations in zones. A nil table still recognizes numeric offsets.
func New(zones *tzabbr.Table) *Scanner {
	patterns := buildPatterns(zones)
	return &Scanner{patterns: patterns, re: compile(patterns)}
}

// Patterns returns the pattern list in priority order.
func (s *Scanner) Patterns() []Pattern {
	out := make([]Pattern, len(s.patterns))
	copy(out, s.patterns)
	return out
}

// FindDates lazily yields matches in text order. Matches never overlap:
// scanning resumes strictly after the end of the previous match.
func (s *Scanner) FindDates(text string) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		pos := 0
		for pos < len(text) {
			loc := s.re.FindStringSubmatchIndex(text[pos:])
			if loc == nil {
				return
			}
			start, end := pos+loc[0], pos+loc[1]

			// A date glued to a letter or digit on either side ("x14/10/2025",
			// "2025-10-14T23:59:00Zulu") is part of some other token; retry
			// one rune further on.
			if end == start || gluedToPrevious(text, start) || gluedToNext(text, end) {
				_, w := utf8.DecodeRuneInString(text[start:])
				pos = start + max(w, 1)
				continue
			}

			m := Match{Start: start, End: end, Text: text[start:end]}
			for i, p := range s.patterns {
				if loc[2*(i+1)] >= 0 {
					m.Pattern = p.Name
					break
				}
			}
			if !yield(m) {
				return
			}
			pos = end
		}
	}
}

// All collects every match of FindDates.
func (s *Scanner) All(text string) []Match {
	var out []Match
	for m := range s.FindDates(text) {
		out = append(out, m)
	}
	return out
}

func gluedToPrevious(text string, start int) bool {
	if start == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(text[:start])
	return isWordRune(r)
}

func gluedToNext(text string, end int) bool {
	if end >= len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
