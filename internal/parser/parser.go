package parser

import (
	"strings"

	"github.com/insightdelivered/statement-extractor/internal/models"
)

// Parser defines the interface for statement parsers.
type Parser interface {
	// Parse takes the page texts of one document and returns its records.
	// source identifies the document and is stamped on every record.
	Parse(source string, pages []string) (*models.Statement, error)
	// Name returns a human-readable parser name.
	Name() string
}

// Heuristic parses linearised statement text without any knowledge of the
// issuing bank's layout: every line carrying a monetary token is a candidate
// transaction.
type Heuristic struct {
	Builder *Builder
	// Debug records a DebugLine for every input line.
	Debug bool
}

// New returns a Heuristic parser with the default scanner and layout.
func New() *Heuristic {
	return &Heuristic{Builder: NewBuilder()}
}

func (p *Heuristic) Name() string {
	return "heuristic"
}

func (p *Heuristic) Parse(source string, pages []string) (*models.Statement, error) {
	lines := SplitLines(pages)
	hint := DetectYearHint(strings.Join(lines, "\n"))

	stmt := &models.Statement{Source: source, Lines: len(lines)}
	stmt.YearHint, _ = hint.Year()

	for i, line := range lines {
		verdict, tokens := classify(line, p.Builder.Scanner)
		result := "skipped"

		if verdict == models.VerdictKeep {
			txn, ok := p.Builder.build(line, tokens, hint, source)
			switch {
			case !ok:
			case !keepRecord(txn):
				result = "filtered"
			default:
				stmt.Transactions = append(stmt.Transactions, txn)
				result = "parsed"
			}
		}

		if p.Debug {
			stmt.DebugLines = append(stmt.DebugLines, models.DebugLine{
				LineNum: i + 1,
				Text:    line,
				Verdict: verdict,
				Result:  result,
			})
		}
	}

	return stmt, nil
}

// SplitLines flattens page texts into lines in reading order.
func SplitLines(pages []string) []string {
	var lines []string
	for _, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			lines = append(lines, strings.TrimRight(line, "\r"))
		}
	}
	return lines
}
