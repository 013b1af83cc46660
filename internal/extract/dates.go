package extract

import (
	"regexp"
	"strings"
	"time"
)

// Date patterns recognized inside statement text. Matching is attempted in
// order; the first parseable match wins.
var datePatterns = []struct {
	re      *regexp.Regexp
	layouts []string
}{
	// ISO: 2023-04-15
	{regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`), []string{"2006-01-02"}},
	// Month-name: April 15, 2023 / Apr 15 2023
	{regexp.MustCompile(`\b([A-Z][a-z]+ \d{1,2},? \d{4})\b`), []string{
		"January 2, 2006", "January 2 2006", "Jan 2, 2006", "Jan 2 2006",
	}},
	// Day-first: 15 April 2023
	{regexp.MustCompile(`\b(\d{1,2} [A-Z][a-z]+ \d{4})\b`), []string{
		"2 January 2006", "2 Jan 2006",
	}},
	// Slashed: 04/15/2023 (US order)
	{regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{4})\b`), []string{
		"1/2/2006",
	}},
}

// FindDate locates the first date reference embedded in text and normalizes
// it to a UTC timestamp. Returns false when no parseable date is present.
func FindDate(text string) (time.Time, bool) {
	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		candidate := strings.TrimSpace(m[1])
		for _, layout := range p.layouts {
			if t, err := time.Parse(layout, candidate); err == nil {
				return t.UTC(), true
			}
		}
	}
	return time.Time{}, false
}
