package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gyeh/chronosync/internal/tzabbr"
)

// parts is the raw field set pulled out of a matched string, before any
// calendar validation.
type parts struct {
	year, month, day     int
	hour, minute, second int
	nsec                 int
	meridiem             string // "", "am" or "pm"
	twoDigitYear         bool
	offset               int
	hasOffset            bool
}

// Grammar is one textual date layout: a recognizer plus the rule that pulls
// fields out of a successful match.
type Grammar struct {
	Name    string
	re      *regexp.Regexp
	extract func(m []string, order NumericOrder) (parts, bool)
}

const monthAlt = `(january|february|march|april|may|june|july|august|september|october|november|december)`

var monthByName = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4,
	"may": 5, "june": 6, "july": 7, "august": 8,
	"september": 9, "october": 10, "november": 11, "december": 12,
}

// grammars is the fixed priority order. The first grammar that matches and
// yields a real calendar date wins.
var grammars = []Grammar{
	longForm("long-datetime-offset", true, true),
	numeric("slash-datetime", "/", true),
	numeric("dash-datetime", "-", true),
	longForm("long-date", false, false),
	iso("iso-datetime-offset", true, true),
	iso("iso-datetime", true, false),
	longForm("long-datetime", true, false),
	numeric("slash-date", "/", false),
	numeric("dash-date", "-", false),
	iso("iso-date", false, false),
}

// longForm: "October 14, 2025[ at 7:59[:00][ PM][ -04:00]]".
func longForm(name string, withTime, withZone bool) Grammar {
	expr := `^` + monthAlt + ` (\d{1,2}), (\d{4})`
	if withTime {
		expr += ` at (\d{1,2}):(\d{2})(?::(\d{2}))?(?: ?([ap]m))?`
	}
	if withZone {
		expr += ` ?(z|[+-]\d{2}:?\d{2})`
	}
	return Grammar{
		Name: name,
		re:   regexp.MustCompile(`(?i)` + expr + `$`),
		extract: func(m []string, _ NumericOrder) (parts, bool) {
			p := parts{
				month: monthByName[strings.ToLower(m[1])],
				day:   atoi(m[2]),
				year:  atoi(m[3]),
			}
			if withTime {
				p.hour, p.minute, p.second = atoi(m[4]), atoi(m[5]), atoi(m[6])
				p.meridiem = strings.ToLower(m[7])
			}
			if withZone {
				return p, p.setOffset(m[8])
			}
			return p, true
		},
	}
}

// numeric: "14/10/2025[ 19:59[:00]]" with either "/" or "-" throughout.
func numeric(name, sep string, withTime bool) Grammar {
	q := regexp.QuoteMeta(sep)
	expr := `^(\d{1,2})` + q + `(\d{1,2})` + q + `(\d{4}|\d{2})`
	if withTime {
		expr += ` (\d{1,2}):(\d{2})(?::(\d{2}))?`
	}
	return Grammar{
		Name: name,
		re:   regexp.MustCompile(expr + `$`),
		extract: func(m []string, order NumericOrder) (parts, bool) {
			p := parts{year: atoi(m[3]), twoDigitYear: len(m[3]) == 2}
			p.day, p.month = atoi(m[1]), atoi(m[2])
			if order == MonthFirst {
				p.day, p.month = p.month, p.day
			}
			if withTime {
				p.hour, p.minute, p.second = atoi(m[4]), atoi(m[5]), atoi(m[6])
			}
			return p, true
		},
	}
}

// iso: "2025-10-14[T23:59[:00[.000]]][Z|±HH[:MM]]".
func iso(name string, withTime, withZone bool) Grammar {
	expr := `^(\d{4})-(\d{2})-(\d{2})`
	if withTime {
		expr += `t(\d{2}):(\d{2})(?::(\d{2})(?:\.(\d{1,9}))?)?`
	}
	if withZone {
		expr += `(z|[+-]\d{2}(?::?\d{2})?)`
	}
	return Grammar{
		Name: name,
		re:   regexp.MustCompile(`(?i)` + expr + `$`),
		extract: func(m []string, _ NumericOrder) (parts, bool) {
			p := parts{year: atoi(m[1]), month: atoi(m[2]), day: atoi(m[3])}
			if withTime {
				p.hour, p.minute, p.second = atoi(m[4]), atoi(m[5]), atoi(m[6])
				p.nsec = fraction(m[7])
			}
			if withZone {
				return p, p.setOffset(m[8])
			}
			return p, true
		},
	}
}

func (p *parts) setOffset(s string) bool {
	off, err := tzabbr.ParseOffset(s)
	if err != nil {
		return false
	}
	p.offset, p.hasOffset = off, true
	return true
}

// atoi is only called on regexp-validated digit groups; empty means absent.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// fraction converts up to nine fractional-second digits to nanoseconds.
func fraction(s string) int {
	if s == "" {
		return 0
	}
	return atoi(s + strings.Repeat("0", 9-len(s)))
}
