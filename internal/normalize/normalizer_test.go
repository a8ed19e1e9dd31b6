package normalize

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog"

	"github.com/gyeh/chronosync/internal/tzabbr"
)

func eastern(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load America/New_York: %v", err)
	}
	return loc
}

var refNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func TestNormalize_Eastern(t *testing.T) {
	loc := eastern(t)
	n := New(tzabbr.Default())

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"UTC ISO string", "2025-10-15T04:40:00Z", "October 15, 2025 at 12:40:00 AM EDT"},
		{"long date with time and zone", "October 14, 2025 at 7:59 PM EDT", "October 14, 2025 at 7:59:00 PM EDT"},
		{"slash date", "14/10/2025 19:59", "October 14, 2025 at 7:59:00 PM EDT"},
		{"dash date", "14-10-2025 19:59", "October 14, 2025 at 7:59:00 PM EDT"},
		{"long date without time", "October 14, 2025", "October 14, 2025 at 12:00:00 AM EDT"},
		{"PDT crosses midnight", "October 14, 2025 at 9:15 PM PDT", "October 15, 2025 at 12:15:00 AM EDT"},
		{"EST after DST ends", "November 3, 2025 at 10:00 AM EST", "November 3, 2025 at 10:00:00 AM EST"},
		{"GMT", "October 14, 2025 at 11:59 PM GMT", "October 14, 2025 at 7:59:00 PM EDT"},
		{"lowercase", "october 14, 2025 at 7:59 pm edt", "October 14, 2025 at 7:59:00 PM EDT"},
		{"trailing dot after zone", "October 14, 2025 at 7:59 PM EDT.", "October 14, 2025 at 7:59:00 PM EDT"},
		{"no-break spaces", "October\u00a014, 2025 at 7:59\u202fPM EDT", "October 14, 2025 at 7:59:00 PM EDT"},
		{"extra whitespace", "  October  14,\n2025 at 7:59 PM   EDT ", "October 14, 2025 at 7:59:00 PM EDT"},
		{"long form numeric offset", "October 14, 2025 at 7:59:30 PM -07:00", "October 14, 2025 at 10:59:30 PM EDT"},
		{"long form without zone is local", "October 14, 2025 at 7:59 PM", "October 14, 2025 at 7:59:00 PM EDT"},
		{"long form 24h clock", "October 14, 2025 at 19:59", "October 14, 2025 at 7:59:00 PM EDT"},
		{"ISO without zone is local", "2025-10-14T23:59", "October 14, 2025 at 11:59:00 PM EDT"},
		{"ISO fractional with offset", "2025-10-14T23:59:00.500-05:00", "October 15, 2025 at 12:59:00 AM EDT"},
		{"ISO compact offset", "2025-10-15T09:40:00+0500", "October 15, 2025 at 12:40:00 AM EDT"},
		{"ISO date only", "2025-10-14", "October 14, 2025 at 12:00:00 AM EDT"},
		{"slash date only", "14/10/2025", "October 14, 2025 at 12:00:00 AM EDT"},
		{"slash with seconds", "14/10/2025 19:59:07", "October 14, 2025 at 7:59:07 PM EDT"},
		{"leap day", "February 29, 2024", "February 29, 2024 at 12:00:00 AM EST"},
		{"winter date is EST", "January 5, 2026 at 8:00 AM", "January 5, 2026 at 8:00:00 AM EST"},
		{"noon", "October 14, 2025 at 12:00 PM EDT", "October 14, 2025 at 12:00:00 PM EDT"},
		{"midnight", "October 14, 2025 at 12:00 AM EDT", "October 14, 2025 at 12:00:00 AM EDT"},
		{"just after spring-forward", "March 9, 2025 at 3:30 AM", "March 9, 2025 at 3:30:00 AM EDT"},
		{"just before spring-forward", "March 9, 2025 at 1:59 AM", "March 9, 2025 at 1:59:00 AM EST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize(tt.input, refNow, loc)
			if err != nil {
				t.Fatalf("Normalize(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_Unrecognized(t *testing.T) {
	loc := eastern(t)
	n := New(tzabbr.Default())

	tests := []struct {
		name   string
		input  string
		reason Reason
	}{
		{"not a date", "this is not a date", ReasonNoGrammar},
		{"empty", "", ReasonEmpty},
		{"blank", " \t ", ReasonEmpty},
		{"February 30", "February 30, 2025", ReasonInvalidCalendar},
		{"February 29 non-leap", "February 29, 2025", ReasonInvalidCalendar},
		{"April 31", "31/04/2025", ReasonInvalidCalendar},
		{"hour 24", "14/10/2025 24:00", ReasonInvalidCalendar},
		{"hour 25 ISO", "2025-10-14T25:00:00Z", ReasonInvalidCalendar},
		{"minute 60", "October 14, 2025 at 7:60 PM EDT", ReasonInvalidCalendar},
		{"PM with 24h hour", "October 14, 2025 at 13:00 PM EDT", ReasonInvalidCalendar},
		{"zero hour with meridiem", "October 14, 2025 at 0:30 AM EDT", ReasonInvalidCalendar},
		{"month 13", "2025-13-01", ReasonInvalidCalendar},
		{"unknown zone", "October 14, 2025 at 7:59 PM CET", ReasonNoGrammar},
		{"mixed separators", "14/10-2025", ReasonNoGrammar},
		{"abbreviated month", "Oct 14, 2025", ReasonNoGrammar},
		{"spring-forward gap", "March 9, 2025 at 2:30 AM", ReasonInvalidCalendar},
		{"spring-forward gap ISO", "2025-03-09T02:59:59", ReasonInvalidCalendar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize(tt.input, refNow, loc)
			if err == nil {
				t.Fatalf("Normalize(%q) = %q, want error", tt.input, got)
			}
			if !errors.Is(err, ErrUnrecognized) {
				t.Errorf("error %v does not wrap ErrUnrecognized", err)
			}
			if r := ReasonOf(err); r != tt.reason {
				t.Errorf("ReasonOf = %q, want %q", r, tt.reason)
			}
			if got != "" {
				t.Errorf("expected empty result on failure, got %q", got)
			}
		})
	}
}

func TestNormalize_MonthFirst(t *testing.T) {
	loc := eastern(t)

	mdy := New(tzabbr.Default(), WithOrder(MonthFirst))
	got, err := mdy.Normalize("10/14/2025 19:59", refNow, loc)
	if err != nil {
		t.Fatalf("month-first: %v", err)
	}
	if got != "October 14, 2025 at 7:59:00 PM EDT" {
		t.Errorf("month-first = %q", got)
	}

	dmy := New(tzabbr.Default())
	if _, err := dmy.Normalize("10/14/2025 19:59", refNow, loc); ReasonOf(err) != ReasonInvalidCalendar {
		t.Errorf("day-first should reject month 14, got %v", err)
	}
}

func TestNormalize_TwoDigitYears(t *testing.T) {
	loc := eastern(t)
	n := New(tzabbr.Default())
	tests := []struct {
		input string
		want  string
	}{
		{"14/10/25", "October 14, 2025 at 12:00:00 AM EDT"},
		{"01/01/99", "January 1, 1999 at 12:00:00 AM EST"},
		{"01-01-40 08:00", "January 1, 2040 at 8:00:00 AM EST"},
	}
	for _, tt := range tests {
		got, err := n.Normalize(tt.input, refNow, loc)
		if err != nil {
			t.Errorf("Normalize(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalize_OtherLocalZone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("load Asia/Tokyo: %v", err)
	}
	n := New(tzabbr.Default())
	got, err := n.Normalize("2025-10-15T04:40:00Z", refNow, tokyo)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got != "October 15, 2025 at 1:40:00 PM JST" {
		t.Errorf("got %q", got)
	}
}

func TestNormalize_CustomZoneTable(t *testing.T) {
	loc := eastern(t)
	extra, err := tzabbr.New(map[string]string{"CET": "+01:00"})
	if err != nil {
		t.Fatalf("tzabbr.New: %v", err)
	}
	n := New(tzabbr.Default().Merge(extra))
	got, err := n.Normalize("October 14, 2025 at 7:59 PM CET", refNow, loc)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got != "October 14, 2025 at 2:59:00 PM EDT" {
		t.Errorf("got %q", got)
	}
}

func TestNormalize_IdempotentOnOutput(t *testing.T) {
	loc := eastern(t)
	n := New(tzabbr.Default())
	for _, in := range []string{
		"2025-10-15T04:40:00Z",
		"October 14, 2025 at 9:15 PM PDT",
		"November 3, 2025 at 10:00 AM EST",
		"14/10/2025 19:59",
		"February 29, 2024",
	} {
		first, err := n.Normalize(in, refNow, loc)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", in, err)
		}
		second, err := n.Normalize(first, refNow, loc)
		if err != nil {
			t.Fatalf("Normalize(%q) on own output: %v", first, err)
		}
		if first != second {
			t.Errorf("not idempotent: %q -> %q", first, second)
		}
	}
}

func TestNormalize_IdempotentInLocalZones(t *testing.T) {
	n := New(tzabbr.Default())
	tests := []struct {
		zone  string
		input string
		want  string
	}{
		{"Asia/Tokyo", "2025-10-15T04:40:00Z", "October 15, 2025 at 1:40:00 PM JST"},
		{"Europe/Paris", "2025-07-01T08:00:00Z", "July 1, 2025 at 10:00:00 AM CEST"},
		{"Europe/Paris", "2025-01-15T08:00:00Z", "January 15, 2025 at 9:00:00 AM CET"},
		{"Australia/Sydney", "2025-01-15T08:00:00Z", "January 15, 2025 at 7:00:00 PM AEDT"},
		{"Asia/Kolkata", "2025-01-15T08:00:00Z", "January 15, 2025 at 1:30:00 PM IST"},
	}
	for _, tt := range tests {
		t.Run(tt.zone+" "+tt.input, func(t *testing.T) {
			loc, err := time.LoadLocation(tt.zone)
			if err != nil {
				t.Fatalf("load %s: %v", tt.zone, err)
			}
			first, err := n.Normalize(tt.input, refNow, loc)
			if err != nil || first != tt.want {
				t.Fatalf("Normalize(%q) = %q, %v; want %q", tt.input, first, err, tt.want)
			}
			res, err := n.Parse(first, refNow, loc)
			if err != nil {
				t.Fatalf("Parse(%q) on own output: %v", first, err)
			}
			if !res.Zoned {
				t.Errorf("local zone name in %q should count as an explicit zone", first)
			}
			if second := Format(res.Instant, loc); second != first {
				t.Errorf("not idempotent: %q -> %q", first, second)
			}
		})
	}
}

func TestParse_LocalAbbreviationAcrossFallBack(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Fatalf("load Europe/Paris: %v", err)
	}
	n := New(tzabbr.Default())

	// 2:30 happens twice on October 26, 2025 in Paris, once as CEST and once as CET.
	for _, want := range []time.Time{
		time.Date(2025, 10, 26, 0, 30, 0, 0, time.UTC),
		time.Date(2025, 10, 26, 1, 30, 0, 0, time.UTC),
	} {
		s := Format(want, paris)
		res, err := n.Parse(s, refNow, paris)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if !res.Instant.Equal(want) {
			t.Errorf("Parse(%q) = %s, want %s", s, res.Instant.UTC(), want)
		}
	}
}

func TestParse_ForeignAbbreviationNotLocal(t *testing.T) {
	n := New(tzabbr.Default())
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("load Asia/Tokyo: %v", err)
	}
	if _, err := n.Parse("October 15, 2025 at 1:40:00 PM CET", refNow, tokyo); ReasonOf(err) != ReasonNoGrammar {
		t.Errorf("CET should not resolve for a Tokyo viewer, got %v", err)
	}

	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Fatalf("load Europe/Paris: %v", err)
	}
	// 1:30 on March 30, 2025 is still CET in Paris.
	if _, err := n.Parse("March 30, 2025 at 1:30 AM CEST", refNow, paris); err == nil {
		t.Error("CEST should not label a wall-clock time that was CET")
	}
}

func TestFormatParse_RoundTrip(t *testing.T) {
	loc := eastern(t)
	n := New(tzabbr.Default())
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	step := 37*time.Hour + 13*time.Minute

	for i := 0; i < 300; i++ {
		want := start.Add(time.Duration(i) * step)
		s := Format(want, loc)
		res, err := n.Parse(s, refNow, loc)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if !res.Instant.Equal(want) {
			t.Fatalf("round trip of %s via %q gave %s", want, s, res.Instant.UTC())
		}
		if !res.Zoned || res.Grammar != "long-datetime-offset" {
			t.Fatalf("unexpected parse result for %q: %+v", s, res)
		}
	}
}

func TestParse_ReportsGrammar(t *testing.T) {
	loc := eastern(t)
	n := New(tzabbr.Default())
	tests := []struct {
		input   string
		grammar string
		zoned   bool
	}{
		{"October 14, 2025 at 7:59 PM EDT", "long-datetime-offset", true},
		{"14/10/2025 19:59", "slash-datetime", false},
		{"14-10-2025 19:59", "dash-datetime", false},
		{"October 14, 2025", "long-date", false},
		{"2025-10-14T23:59:00Z", "iso-datetime-offset", true},
		{"2025-10-14T23:59:00", "iso-datetime", false},
		{"October 14, 2025 at 7:59 PM", "long-datetime", false},
		{"14/10/2025", "slash-date", false},
		{"14-10-2025", "dash-date", false},
		{"2025-10-14", "iso-date", false},
	}
	for _, tt := range tests {
		res, err := n.Parse(tt.input, refNow, loc)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.input, err)
			continue
		}
		if res.Grammar != tt.grammar || res.Zoned != tt.zoned {
			t.Errorf("Parse(%q) = %s zoned=%v, want %s zoned=%v",
				tt.input, res.Grammar, res.Zoned, tt.grammar, tt.zoned)
		}
	}
}

func TestGrammars_Order(t *testing.T) {
	got := New(nil).Grammars()
	if len(got) != 10 || got[0] != "long-datetime-offset" || got[9] != "iso-date" {
		t.Errorf("unexpected grammar order: %v", got)
	}
}

func TestLabel(t *testing.T) {
	loc := eastern(t)
	n := New(tzabbr.Default())
	if got := n.Label("February 30, 2025", refNow, loc); got != UnrecognizedLabel {
		t.Errorf("Label = %q, want %q", got, UnrecognizedLabel)
	}
	if got := n.Label("October 14, 2025", refNow, loc); got != "October 14, 2025 at 12:00:00 AM EDT" {
		t.Errorf("Label = %q", got)
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	n := New(tzabbr.Default(), WithLogger(log))

	if _, err := n.Normalize("October 14, 2025 at 7:59 PM EDT", refNow, eastern(t)); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"grammar":"long-datetime-offset"`) {
		t.Errorf("expected grammar in debug log, got %s", out)
	}
	if !strings.Contains(out, `-04:00`) {
		t.Errorf("expected substituted string in debug log, got %s", out)
	}
}

func TestNormalize_Concurrent(t *testing.T) {
	loc := eastern(t)
	n := New(tzabbr.Default())
	inputs := map[string]string{
		"October 14, 2025 at 9:15 PM PDT": "October 15, 2025 at 12:15:00 AM EDT",
		"14/10/2025 19:59":                "October 14, 2025 at 7:59:00 PM EDT",
		"2025-10-15T04:40:00Z":            "October 15, 2025 at 12:40:00 AM EDT",
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for in, want := range inputs {
				if got, err := n.Normalize(in, refNow, loc); err != nil || got != want {
					errs <- in
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for in := range errs {
		t.Errorf("concurrent Normalize(%q) mismatch", in)
	}
}

func TestParseNumericOrder(t *testing.T) {
	tests := []struct {
		in      string
		want    NumericOrder
		wantErr bool
	}{
		{"", DayFirst, false},
		{"day-first", DayFirst, false},
		{"MDY", MonthFirst, false},
		{"month-first", MonthFirst, false},
		{"year-first", DayFirst, true},
	}
	for _, tt := range tests {
		got, err := ParseNumericOrder(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseNumericOrder(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestExpandYear(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := map[int]int{0: 2000, 25: 2025, 76: 2076, 77: 1977, 99: 1999}
	for yy, want := range cases {
		if got := expandYear(yy, now); got != want {
			t.Errorf("expandYear(%d) = %d, want %d", yy, got, want)
		}
	}
}
