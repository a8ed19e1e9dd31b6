package scan

import (
	"regexp"
	"strings"

	"github.com/gyeh/chronosync/internal/tzabbr"
)

// space accepts ASCII whitespace plus Unicode space separators such as the
// no-break spaces browsers put between a time and its meridiem.
const space = `[\s\p{Zs}]`

const monthNames = `January|February|March|April|May|June|July|August|September|October|November|December`

// Pattern is one recognizable date grammar. Patterns are tried in list order
// and the first one that matches at a position wins.
type Pattern struct {
	Name string
	Expr string
}

// buildPatterns returns the fixed pattern list. The zone token of the
// long-form pattern accepts only abbreviations known to zones, so trailing
// prose ("at 7:59 PM and ...") is not mistaken for a zone. The ISO and numeric
// patterns end without a word boundary: a match that runs into a letter or
// digit is dropped by the scanner rather than shortened, so
// "2025-10-14T23:59:00Zulu" cannot lose its Z.
func buildPatterns(zones *tzabbr.Table) []Pattern {
	// Numeric offsets and Z may follow the time directly; an abbreviation
	// needs a separating space ("7:59EDT" is not a zone).
	zone := space + `*(?:[+-]\d{2}:?\d{2}|Z)\b`
	if abbrs := zones.Abbreviations(); len(abbrs) > 0 {
		quoted := make([]string, len(abbrs))
		for i, a := range abbrs {
			quoted[i] = regexp.QuoteMeta(a)
		}
		zone = space + `+(?:` + strings.Join(quoted, "|") + `)\b|` + zone
	}

	return []Pattern{
		{
			Name: "long-form",
			Expr: `(?:` + monthNames + `)` + space + `+\d{1,2},` + space + `+\d{4}\b` +
				`(?:` + space + `+at` + space + `+\d{1,2}:\d{2}(?::\d{2})?` +
				`(?:` + space + `*[AP]M\b)?` +
				`(?:` + zone + `)?)?`,
		},
		{
			Name: "iso-8601",
			Expr: `\d{4}-\d{2}-\d{2}` +
				`(?:T\d{2}:\d{2}(?::\d{2}(?:\.\d{1,9})?)?(?:Z|[+-]\d{2}(?::?\d{2})?)?)?`,
		},
		{
			Name: "numeric",
			Expr: `(?:\d{1,2}/\d{1,2}/|\d{1,2}-\d{1,2}-)(?:\d{4}|\d{2})` +
				`(?:` + space + `+\d{1,2}:\d{2}(?::\d{2})?)?`,
		},
	}
}

// compile joins the patterns into one case-insensitive alternation with one
// capture group per pattern, so the winning pattern can be identified.
func compile(patterns []Pattern) *regexp.Regexp {
	parts := make([]string, len(patterns))
	for i, p := range patterns {
		parts[i] = "(" + p.Expr + ")"
	}
	return regexp.MustCompile(`(?i)` + strings.Join(parts, "|"))
}
