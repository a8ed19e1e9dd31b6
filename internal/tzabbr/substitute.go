package tzabbr

import (
	"regexp"
	"strings"
)

// tailWord matches the last alphabetic word of a string, allowing trailing
// dots and spaces ("7:59 PM EDT." or "7:59 PM EDT ").
var tailWord = regexp.MustCompile(`\b([A-Za-z]{2,5})\b[. ]*$`)

// Substitute replaces a known abbreviation at the end of s with its numeric
// offset, e.g. "October 14, 2025 at 7:59 PM EDT" -> "... 7:59 PM -04:00".
// Only the final word is considered, so abbreviations elsewhere in s are left
// alone. The boolean reports whether a replacement was made.
func (t *Table) Substitute(s string) (string, bool) {
	loc := tailWord.FindStringSubmatchIndex(s)
	if loc == nil {
		return s, false
	}
	off, ok := t.Lookup(s[loc[2]:loc[3]])
	if !ok {
		return s, false
	}
	return s[:loc[0]] + FormatOffset(off), true
}

// SplitTail separates the final alphabetic word of s, the same word
// Substitute looks at, from the text before it.
func SplitTail(s string) (rest, word string, ok bool) {
	loc := tailWord.FindStringSubmatchIndex(s)
	if loc == nil {
		return s, "", false
	}
	return strings.TrimRight(s[:loc[0]], " "), s[loc[2]:loc[3]], true
}
