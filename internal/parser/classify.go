package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-extractor/internal/models"
)

var (
	// Statement summary block phrases.
	statementHeaderPattern = regexp.MustCompile(
		`(?i)(previous\s+balance|new\s+balance|total\s+payment|statement\s+period|credit\s+limit)`,
	)
	paginationPattern = regexp.MustCompile(`(?i)page\s+\d+\s+of\s+\d+`)
	// Total and summary rows that carry an amount but are not transactions.
	totalRowPattern = regexp.MustCompile(`(?i)\b(total|new balance|previous balance|payments?\s+and\s+credits)\b`)
)

// ClassifyLine decides whether a line can hold a transaction. Anything other
// than VerdictKeep means the line produces no record.
func ClassifyLine(line string, scanner MoneyScanner) models.LineVerdict {
	verdict, _ := classify(line, scanner)
	return verdict
}

// classify also hands back the monetary tokens so the builder does not scan twice.
func classify(line string, scanner MoneyScanner) (models.LineVerdict, []MoneyToken) {
	if len(strings.TrimSpace(line)) < 3 {
		return models.VerdictShort, nil
	}
	if statementHeaderPattern.MatchString(line) {
		return models.VerdictHeader, nil
	}
	if paginationPattern.MatchString(line) {
		return models.VerdictPagination, nil
	}
	tokens := scanner.Scan(line)
	if len(tokens) == 0 {
		return models.VerdictNoAmount, nil
	}
	if totalRowPattern.MatchString(line) {
		return models.VerdictTotal, nil
	}
	return models.VerdictKeep, tokens
}
