package models

import (
	"github.com/shopspring/decimal"
)

// Kind is the closed set of transaction classifications. It drives the sign
// convention applied to Amount.
type Kind string

const (
	KindPayment     Kind = "payment"
	KindFeeInterest Kind = "fee_interest"
	KindCredit      Kind = "credit"
	KindPurchase    Kind = "purchase"
)

// Transaction is one record parsed from a single statement line.
//
// Amount is positive for money leaving the account (purchases) and negative
// for money coming back (payments, credits). Fee and interest lines keep the
// sign printed on the statement.
type Transaction struct {
	Date           string              `json:"date,omitempty"` // ISO 8601, empty when no date was found
	Description    string              `json:"description,omitempty"`
	Amount         decimal.Decimal     `json:"amount"`
	Balance        decimal.NullDecimal `json:"balance"`
	Kind           Kind                `json:"type"`
	SourceLine     string              `json:"sourceLine"`
	SourceDocument string              `json:"sourceDocument"`
}

// HasDate reports whether a date token was resolved for the record.
func (t Transaction) HasDate() bool {
	return t.Date != ""
}

// LineVerdict records why the classifier kept or skipped a line.
type LineVerdict string

const (
	VerdictKeep       LineVerdict = "keep"
	VerdictShort      LineVerdict = "short"
	VerdictHeader     LineVerdict = "header"
	VerdictPagination LineVerdict = "pagination"
	VerdictNoAmount   LineVerdict = "no_amount"
	VerdictTotal      LineVerdict = "total"
)

// DebugLine captures what the parser did with each input line.
type DebugLine struct {
	LineNum int         `json:"lineNum"`
	Text    string      `json:"text"`
	Verdict LineVerdict `json:"verdict"`
	Result  string      `json:"result"` // "parsed", "skipped", "filtered"
}

// Statement holds everything extracted from one document.
type Statement struct {
	Source       string
	YearHint     int // 0 when the text carries no 20xx year
	Lines        int
	Transactions []Transaction
	DebugLines   []DebugLine
}
