// Package normalize turns a recognized date string into a local-time display
// string. It tries a fixed, ordered list of grammars and keeps the first one
// that yields a real calendar date.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"

	"github.com/gyeh/chronosync/internal/tzabbr"
)

// DisplayLayout renders e.g. "October 15, 2025 at 12:40:00 AM EDT".
const DisplayLayout = "January 2, 2006 at 3:04:05 PM MST"

// NumericOrder decides how "a/b/yyyy" is read.
type NumericOrder int

const (
	DayFirst NumericOrder = iota
	MonthFirst
)

func (o NumericOrder) String() string {
	if o == MonthFirst {
		return "month-first"
	}
	return "day-first"
}

// ParseNumericOrder accepts "day-first" (or "") and "month-first".
func ParseNumericOrder(s string) (NumericOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "day-first", "dmy":
		return DayFirst, nil
	case "month-first", "mdy":
		return MonthFirst, nil
	}
	return DayFirst, fmt.Errorf("unknown numeric order %q (want day-first or month-first)", s)
}

var multiSpace = regexp.MustCompile(`\s+`)

// Normalizer is immutable after New and safe for concurrent use.
type Normalizer struct {
	zones    *tzabbr.Table
	order    NumericOrder
	grammars []Grammar
	log      zerolog.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithOrder sets how slash/dash numeric dates are read. Default DayFirst.
func WithOrder(o NumericOrder) Option {
	return func(n *Normalizer) { n.order = o }
}

// WithLogger enables debug logging of each normalization.
func WithLogger(log zerolog.Logger) Option {
	return func(n *Normalizer) { n.log = log }
}

// New creates a Normalizer that rewrites trailing abbreviations found in zones.
func New(zones *tzabbr.Table, opts ...Option) *Normalizer {
	n := &Normalizer{
		zones:    zones,
		order:    DayFirst,
		grammars: grammars,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Grammars returns the grammar names in priority order.
func (n *Normalizer) Grammars() []string {
	names := make([]string, len(n.grammars))
	for i, g := range n.grammars {
		names[i] = g.Name
	}
	return names
}

// Result is a successful parse.
type Result struct {
	// Instant is in the source zone when one was given, otherwise in local.
	Instant time.Time
	Grammar string
	Zoned   bool
}

// Parse interprets raw as a point in time. Strings without zone information
// are taken to be in local. now anchors two-digit years; the zero value means
// time.Now(). A nil local means time.Local.
func (n *Normalizer) Parse(raw string, now time.Time, local *time.Location) (Result, error) {
	if local == nil {
		local = time.Local
	}
	if now.IsZero() {
		now = time.Now()
	}

	s := prepare(raw)
	if s == "" {
		return Result{}, &UnrecognizedError{Input: raw, Reason: ReasonEmpty}
	}
	sub, _ := n.zones.Substitute(s)

	res, matched, ok := n.match(sub, now, local)
	if !ok && sub == s {
		// Not a table abbreviation; it may still name local's own zone,
		// as in Format's output for a viewer in Asia/Tokyo.
		if rest, abbr, found := tzabbr.SplitTail(s); found {
			if r, found := n.matchLocalAbbr(rest, abbr, now, local); found {
				res, ok = r, true
			}
		}
	}
	if ok {
		n.log.Debug().
			Str("input", raw).
			Str("processed", sub).
			Str("grammar", res.Grammar).
			Msg("date recognized")
		return res, nil
	}

	reason := ReasonNoGrammar
	if matched != "" {
		reason = ReasonInvalidCalendar
	}
	n.log.Debug().Str("input", raw).Str("processed", sub).Str("reason", string(reason)).Msg("date unrecognized")
	return Result{}, &UnrecognizedError{Input: raw, Reason: reason, Grammar: matched}
}

// match tries the grammars in order. matched names the last grammar that
// accepted s syntactically, even if its fields were not a real date.
func (n *Normalizer) match(s string, now time.Time, local *time.Location) (Result, string, bool) {
	matched := ""
	for _, g := range n.grammars {
		m := g.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		matched = g.Name
		p, ok := g.extract(m, n.order)
		if !ok {
			continue
		}
		t, ok := p.resolve(now, local)
		if !ok {
			continue
		}
		return Result{Instant: t, Grammar: g.Name, Zoned: p.hasOffset}, matched, true
	}
	return Result{}, matched, false
}

// matchLocalAbbr reads rest as a zone-less local time and accepts abbr if it
// is the name local uses at that wall-clock time. Around a fall-back
// transition the same wall clock occurs twice under two names; the instants
// an hour either side are checked so either one resolves.
func (n *Normalizer) matchLocalAbbr(rest, abbr string, now time.Time, local *time.Location) (Result, bool) {
	res, _, ok := n.match(rest, now, local)
	if !ok || res.Zoned {
		return Result{}, false
	}
	wall := res.Instant
	for _, at := range []time.Time{wall, wall.Add(-time.Hour), wall.Add(time.Hour)} {
		at = at.In(local)
		name, off := at.Zone()
		if !strings.EqualFold(name, abbr) || at.Hour() != wall.Hour() || at.Minute() != wall.Minute() {
			continue
		}
		t := time.Date(wall.Year(), wall.Month(), wall.Day(), wall.Hour(), wall.Minute(),
			wall.Second(), wall.Nanosecond(), time.FixedZone(name, off))
		return Result{Instant: t, Grammar: res.Grammar, Zoned: true}, true
	}
	return Result{}, false
}

// Normalize parses raw and renders it in local with DisplayLayout.
// On failure it returns an error wrapping ErrUnrecognized.
func (n *Normalizer) Normalize(raw string, now time.Time, local *time.Location) (string, error) {
	if local == nil {
		local = time.Local
	}
	res, err := n.Parse(raw, now, local)
	if err != nil {
		return "", err
	}
	return Format(res.Instant, local), nil
}

// Label is Normalize for display surfaces: failures become UnrecognizedLabel.
func (n *Normalizer) Label(raw string, now time.Time, local *time.Location) string {
	s, err := n.Normalize(raw, now, local)
	if err != nil {
		return UnrecognizedLabel
	}
	return s
}

// Format renders t in local with DisplayLayout. The zone name is the one in
// effect at that instant, so EST and EDT are never confused. Parse accepts
// the output back even when that name is not in the abbreviation table, as
// long as the zone has an alphabetic name; bare-offset names like "+03" are
// not read back.
func Format(t time.Time, local *time.Location) string {
	if local == nil {
		local = time.Local
	}
	return t.In(local).Format(DisplayLayout)
}

// prepare folds compatibility characters (no-break spaces and the like),
// collapses whitespace runs and trims.
func prepare(raw string) string {
	s := norm.NFKC.String(raw)
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// resolve validates the fields against the calendar and builds the instant.
// Nothing is allowed to roll over: February 30 is rejected, not turned into
// March 2.
func (p parts) resolve(now time.Time, local *time.Location) (time.Time, bool) {
	year := p.year
	if p.twoDigitYear {
		year = expandYear(year, now)
	}
	if p.month < 1 || p.month > 12 {
		return time.Time{}, false
	}
	if p.day < 1 || p.day > daysIn(year, time.Month(p.month)) {
		return time.Time{}, false
	}

	hour := p.hour
	switch p.meridiem {
	case "am", "pm":
		if hour < 1 || hour > 12 {
			return time.Time{}, false
		}
		hour %= 12
		if p.meridiem == "pm" {
			hour += 12
		}
	default:
		if hour > 23 {
			return time.Time{}, false
		}
	}
	if p.minute > 59 || p.second > 59 {
		return time.Time{}, false
	}

	if p.hasOffset {
		return time.Date(year, time.Month(p.month), p.day, hour, p.minute, p.second, p.nsec, time.FixedZone("", p.offset)), true
	}

	// A wall-clock time skipped by a DST transition does not exist in local.
	t := time.Date(year, time.Month(p.month), p.day, hour, p.minute, p.second, p.nsec, local)
	if t.Year() != year || int(t.Month()) != p.month || t.Day() != p.day ||
		t.Hour() != hour || t.Minute() != p.minute {
		return time.Time{}, false
	}
	return t, true
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// expandYear places a two-digit year in the century that puts it within
// fifty years of now.
func expandYear(yy int, now time.Time) int {
	ref := now.Year()
	y := ref - ref%100 + yy
	switch {
	case y > ref+50:
		y -= 100
	case y <= ref-50:
		y += 100
	}
	return y
}
