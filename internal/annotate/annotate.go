// Package annotate renders text with every recognized date followed by (or
// replaced with) its local time.
package annotate

import (
	"strings"
	"time"

	"github.com/gyeh/chronosync/internal/normalize"
	"github.com/gyeh/chronosync/internal/scan"
)

// Segment is a run of plain text or a single date match. Concatenating the
// Text of all segments reproduces the input.
type Segment struct {
	Text  string
	Date  bool
	Match scan.Match
}

// Segments splits text around the scanner's matches.
func Segments(text string, sc *scan.Scanner) []Segment {
	var segs []Segment
	pos := 0
	for m := range sc.FindDates(text) {
		if m.Start > pos {
			segs = append(segs, Segment{Text: text[pos:m.Start]})
		}
		segs = append(segs, Segment{Text: m.Text, Date: true, Match: m})
		pos = m.End
	}
	if pos < len(text) {
		segs = append(segs, Segment{Text: text[pos:]})
	}
	return segs
}

// Style controls how a local rendering is placed next to its date.
type Style struct {
	Open, Close string
	// Replace drops the original date text and keeps only the rendering.
	Replace bool
}

var (
	// Bracketed: "... 9:15 PM PDT [October 15, 2025 at 12:15:00 AM EDT]".
	Bracketed = Style{Open: " [", Close: "]"}
	// Inline swaps each date for its local rendering.
	Inline = Style{Replace: true}
)

// Annotate rewrites text so each date carries its rendering in local.
// Dates that cannot be read get normalize.UnrecognizedLabel.
func Annotate(text string, sc *scan.Scanner, n *normalize.Normalizer, now time.Time, local *time.Location, style Style) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, seg := range Segments(text, sc) {
		if !seg.Date {
			b.WriteString(seg.Text)
			continue
		}
		if !style.Replace {
			b.WriteString(seg.Text)
		}
		b.WriteString(style.Open)
		b.WriteString(n.Label(seg.Text, now, local))
		b.WriteString(style.Close)
	}
	return b.String()
}
