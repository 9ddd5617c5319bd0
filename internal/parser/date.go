package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateCandidatePattern matches M/D, M/D/YY[YY] and YYYY/M/D with either - or /.
var dateCandidatePattern = regexp.MustCompile(
	`\b((?:\d{1,2}[-/]\d{1,2}(?:[-/]\d{2,4})?)|(?:\d{4}[-/]\d{1,2}[-/]\d{1,2}))\b`,
)

// Statements print the date in the leading column, so a match in the first
// dateHeadRunes characters wins over one further along the line.
const dateHeadRunes = 40

// isoDate is the layout records carry their date in.
const isoDate = "2006-01-02"

// DateToken is a date substring resolved to a calendar day.
type DateToken struct {
	Raw   string
	Date  time.Time
	Start int
	End   int
}

// ResolveDate finds the date token of a line and parses it, using hint when
// the token carries no year. It reports false when no token is present or the
// token does not describe a real day.
func ResolveDate(line string, hint YearHint) (DateToken, bool) {
	loc := dateCandidatePattern.FindStringSubmatchIndex(line[:headRunes(line, dateHeadRunes)])
	if loc == nil {
		loc = dateCandidatePattern.FindStringSubmatchIndex(line)
	}
	if loc == nil {
		return DateToken{}, false
	}

	tok := DateToken{Raw: line[loc[2]:loc[3]], Start: loc[2], End: loc[3]}
	d, ok := parseDateToken(tok.Raw, hint)
	if !ok {
		return DateToken{}, false
	}
	tok.Date = d
	return tok, true
}

// parseDateToken reads month-first tokens. When the first field cannot be a
// month but the second can, the two are swapped.
func parseDateToken(tok string, hint YearHint) (time.Time, bool) {
	parts := strings.FieldsFunc(tok, func(r rune) bool { return r == '-' || r == '/' })

	var y, m, d int
	var ok bool
	switch {
	case len(parts) == 3 && len(parts[0]) == 4:
		y, _ = strconv.Atoi(parts[0])
		m, _ = strconv.Atoi(parts[1])
		d, _ = strconv.Atoi(parts[2])
	case len(parts) == 3:
		m, _ = strconv.Atoi(parts[0])
		d, _ = strconv.Atoi(parts[1])
		if y, ok = expandYear(parts[2]); !ok {
			return time.Time{}, false
		}
	case len(parts) == 2:
		m, _ = strconv.Atoi(parts[0])
		d, _ = strconv.Atoi(parts[1])
		anchor, ok := hint.Anchor()
		if !ok {
			return time.Time{}, false
		}
		y = anchor.Year()
	default:
		return time.Time{}, false
	}

	if m > 12 && d <= 12 {
		m, d = d, m
	}
	return calendarDate(y, m, d)
}

// expandYear turns a two- or four-digit year into a full year. Two-digit years
// pivot at 69 like the "06" layout of package time, so "70" is 1970 and never
// 2070 whatever the current date.
func expandYear(s string) (int, bool) {
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	switch len(s) {
	case 2:
		if y >= 69 {
			return 1900 + y, true
		}
		return 2000 + y, true
	case 4:
		return y, true
	}
	return 0, false
}

func calendarDate(y, m, d int) (time.Time, bool) {
	if y < 1 || m < 1 || m > 12 || d < 1 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Month() != time.Month(m) || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}
