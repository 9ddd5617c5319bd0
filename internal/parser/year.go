package parser

import (
	"regexp"
	"strconv"
	"time"
)

var yearHintPattern = regexp.MustCompile(`20\d{2}`)

// YearHint is the statement year inferred from a whole document. The zero
// value carries no year.
type YearHint struct {
	year int
}

// NewYearHint returns a hint for the given year.
func NewYearHint(year int) YearHint {
	return YearHint{year: year}
}

// Year returns the hinted year, if any.
func (h YearHint) Year() (int, bool) {
	return h.year, h.year != 0
}

// Anchor returns January 1st of the hinted year.
func (h YearHint) Anchor() (time.Time, bool) {
	if h.year == 0 {
		return time.Time{}, false
	}
	return time.Date(h.year, time.January, 1, 0, 0, 0, 0, time.UTC), true
}

// DetectYearHint picks the most frequent "20xx" run in the text. Ties go to
// the value seen first.
func DetectYearHint(text string) YearHint {
	counts := make(map[string]int)
	var order []string
	for _, m := range yearHintPattern.FindAllString(text, -1) {
		if counts[m] == 0 {
			order = append(order, m)
		}
		counts[m]++
	}

	best, bestCount := "", 0
	for _, y := range order {
		if counts[y] > bestCount {
			best, bestCount = y, counts[y]
		}
	}
	if best == "" {
		return YearHint{}
	}
	year, _ := strconv.Atoi(best)
	return YearHint{year: year}
}
