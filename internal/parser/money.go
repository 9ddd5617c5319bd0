package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// moneyPattern matches the body of a monetary token: optional minus, optional
// currency symbol, digits (thousands-grouped or a plain run) and exactly two
// fractional digits. RE2 has no lookaround, so the neighbour rules live in
// moneyBoundary.
var moneyPattern = regexp.MustCompile(`-?[$£€]?(?:\d{1,3}(?:,\d{3})+|\d+)\.\d{2}`)

// MoneyToken is a monetary substring found on a line.
type MoneyToken struct {
	Raw   string
	Value decimal.Decimal
	Start int // byte offsets into the line
	End   int
}

// MoneyScanner finds the monetary tokens of a line, left to right.
type MoneyScanner interface {
	Scan(line string) []MoneyToken
}

// RegexScanner is the default MoneyScanner.
type RegexScanner struct{}

// Scan returns every well-formed monetary token on the line. Tokens that sit
// inside a longer numeric run, or that fail to parse, are left out.
func (RegexScanner) Scan(line string) []MoneyToken {
	var tokens []MoneyToken
	for pos := 0; pos < len(line); {
		loc := moneyPattern.FindStringIndex(line[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if !moneyBoundary(line, start, end) {
			pos = start + 1
			continue
		}
		raw := line[start:end]
		if v, err := parseAmount(raw); err == nil {
			tokens = append(tokens, MoneyToken{Raw: raw, Value: v, Start: start, End: end})
		}
		pos = end
	}
	return tokens
}

// moneyBoundary rejects a candidate glued to a neighbouring number, e.g. the
// tail of an account number or a three-decimal figure.
func moneyBoundary(line string, start, end int) bool {
	if start > 0 && strings.IndexByte("0123456789,.-", line[start-1]) >= 0 {
		return false
	}
	if end < len(line) && isDigit(line[end]) {
		return false
	}
	return true
}

// Layout assigns the amount and balance roles to the monetary tokens of a line.
type Layout interface {
	Assign(tokens []MoneyToken) (amount MoneyToken, balance *MoneyToken, ok bool)
}

// TrailingLayout reads the last token as the transaction amount and the one
// before it, when present, as the running balance.
type TrailingLayout struct{}

// Assign reports false only when there are no tokens.
func (TrailingLayout) Assign(tokens []MoneyToken) (MoneyToken, *MoneyToken, bool) {
	if len(tokens) == 0 {
		return MoneyToken{}, nil, false
	}
	amount := tokens[len(tokens)-1]
	if len(tokens) < 2 {
		return amount, nil, true
	}
	balance := tokens[len(tokens)-2]
	return amount, &balance, true
}
