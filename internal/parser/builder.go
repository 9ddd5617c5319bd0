package parser

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-extractor/internal/models"
)

var (
	paymentKeywords = []string{"payment", "autopay", "thank you"}
	feeKeywords     = []string{"fee", "interest", "late"}
	creditKeywords  = []string{"credit", "refund", "reversal"}
)

// Builder assembles a Transaction from one statement line.
type Builder struct {
	Scanner MoneyScanner
	Layout  Layout
}

// NewBuilder returns a Builder reading the trailing amount columns.
func NewBuilder() *Builder {
	return &Builder{Scanner: RegexScanner{}, Layout: TrailingLayout{}}
}

// Build turns a line into a record. It reports false when the line holds no
// monetary token. The record is not post-filtered; see keepRecord.
func (b *Builder) Build(line string, hint YearHint, source string) (models.Transaction, bool) {
	return b.build(line, b.Scanner.Scan(line), hint, source)
}

func (b *Builder) build(line string, tokens []MoneyToken, hint YearHint, source string) (models.Transaction, bool) {
	amount, balance, ok := b.Layout.Assign(tokens)
	if !ok {
		return models.Transaction{}, false
	}

	cut := amount.Start
	if balance != nil {
		cut = balance.Start
	}
	segment := line[:cut]

	txn := models.Transaction{
		SourceLine:     collapseSpaces(line),
		SourceDocument: source,
	}
	if date, ok := ResolveDate(line, hint); ok {
		txn.Date = date.Date.Format(isoDate)
		if date.End <= cut {
			segment = segment[:date.Start] + " " + segment[date.End:]
		}
	}
	txn.Description = collapseSpaces(segment)

	txn.Kind, txn.Amount = inferKind(strings.ToLower(line), amount.Value)
	txn.Amount = txn.Amount.Round(2)
	if balance != nil {
		txn.Balance = decimal.NewNullDecimal(balance.Value.Round(2))
	}
	return txn, true
}

// inferKind applies the keyword rules in priority order; the first match
// decides both the kind and the sign of the amount.
func inferKind(lower string, amount decimal.Decimal) (models.Kind, decimal.Decimal) {
	switch {
	case containsAny(lower, paymentKeywords):
		if amount.IsPositive() {
			amount = amount.Neg()
		}
		return models.KindPayment, amount
	case containsAny(lower, feeKeywords):
		// Statements print fee and interest signs inconsistently; keep it as read.
		return models.KindFeeInterest, amount
	case containsAny(lower, creditKeywords) && amount.IsPositive():
		return models.KindCredit, amount.Abs().Neg()
	default:
		return models.KindPurchase, amount.Abs()
	}
}

// keepRecord drops records that carry neither a date nor a description.
func keepRecord(t models.Transaction) bool {
	return t.HasDate() || t.Description != ""
}
