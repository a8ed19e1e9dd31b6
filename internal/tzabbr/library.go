package tzabbr

import (
	"strings"

	"github.com/tkuchiki/go-timezone"
)

// FromLibrary resolves abbreviations through the go-timezone database.
// Only abbreviations that map to exactly one offset are kept; unknown and
// ambiguous ones (CST, IST, ...) are returned in skipped.
func FromLibrary(abbrs ...string) (table *Table, skipped []string) {
	tz := timezone.New()
	offsets := make(map[string]int, len(abbrs))

	for _, a := range abbrs {
		key := strings.ToUpper(strings.TrimSpace(a))
		if !isAbbreviation(key) {
			skipped = append(skipped, key)
			continue
		}
		infos, err := tz.GetTzAbbreviationInfo(key)
		if err != nil || len(infos) == 0 {
			skipped = append(skipped, key)
			continue
		}

		off := infos[0].Offset()
		ambiguous := false
		for _, info := range infos[1:] {
			if info.Offset() != off {
				ambiguous = true
				break
			}
		}
		if ambiguous {
			skipped = append(skipped, key)
			continue
		}
		offsets[key] = off
	}

	return &Table{offsets: offsets}, skipped
}
