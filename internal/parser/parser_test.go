package parser

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/insightdelivered/statement-extractor/internal/models"
)

var samplePages = []string{
	`ACME BANK CREDIT CARD STATEMENT
Statement Period: 02/15/2024 - 03/14/2024
Previous Balance $1,200.00
Account number 4111333355557777
02/16 PAYMENT - THANK YOU 500.00
02/18 GROCERY STORE 45.67
Page 1 of 2`,
	`02/20 LATE FEE 35.00
02/21 AMAZON REFUND 12.34
Payments and Credits -500.00
03/01 BOOKSTORE 1,257.30 19.99
    4.50
New Balance $1,257.30
Page 2 of 2`,
}

func formatRows(txns []models.Transaction) []string {
	rows := []string{}
	for _, t := range txns {
		bal := ""
		if t.Balance.Valid {
			bal = t.Balance.Decimal.StringFixed(2)
		}
		rows = append(rows, fmt.Sprintf("%s|%s|%s|%s|%s|%s",
			t.Date, t.Description, t.Amount.StringFixed(2), bal, t.Kind, t.SourceDocument))
	}
	return rows
}

func TestHeuristic_Parse(t *testing.T) {
	p := New()
	stmt, err := p.Parse("cards/feb.pdf", samplePages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stmt.YearHint != 2024 {
		t.Errorf("YearHint: got %d, want 2024", stmt.YearHint)
	}
	if stmt.Lines != 14 {
		t.Errorf("Lines: got %d, want 14", stmt.Lines)
	}

	want := []string{
		"2024-02-16|PAYMENT - THANK YOU|-500.00||payment|cards/feb.pdf",
		"2024-02-18|GROCERY STORE|45.67||purchase|cards/feb.pdf",
		"2024-02-20|LATE FEE|35.00||fee_interest|cards/feb.pdf",
		"2024-02-21|AMAZON REFUND|-12.34||credit|cards/feb.pdf",
		"2024-03-01|BOOKSTORE|19.99|1257.30|purchase|cards/feb.pdf",
	}
	got := formatRows(stmt.Transactions)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("transactions:\n got %v\nwant %v", got, want)
	}

	if stmt.DebugLines != nil {
		t.Error("debug lines should only be recorded in debug mode")
	}
}

func TestHeuristic_ParseIsIdempotent(t *testing.T) {
	p := New()
	first, _ := p.Parse("feb.pdf", samplePages)
	second, _ := p.Parse("feb.pdf", samplePages)

	if !reflect.DeepEqual(formatRows(first.Transactions), formatRows(second.Transactions)) {
		t.Error("parsing the same text twice produced different records")
	}
}

func TestHeuristic_DebugLines(t *testing.T) {
	p := New()
	p.Debug = true
	stmt, _ := p.Parse("feb.pdf", samplePages)

	if len(stmt.DebugLines) != stmt.Lines {
		t.Fatalf("debug lines: got %d, want %d", len(stmt.DebugLines), stmt.Lines)
	}

	tests := []struct {
		lineNum int
		verdict models.LineVerdict
		result  string
	}{
		{1, models.VerdictNoAmount, "skipped"},
		{2, models.VerdictHeader, "skipped"},
		{3, models.VerdictHeader, "skipped"},
		{5, models.VerdictKeep, "parsed"},
		{7, models.VerdictPagination, "skipped"},
		{10, models.VerdictTotal, "skipped"},
		{12, models.VerdictKeep, "filtered"},
		{13, models.VerdictHeader, "skipped"},
	}
	for _, tt := range tests {
		dl := stmt.DebugLines[tt.lineNum-1]
		if dl.LineNum != tt.lineNum {
			t.Errorf("line %d: LineNum %d", tt.lineNum, dl.LineNum)
		}
		if dl.Verdict != tt.verdict || dl.Result != tt.result {
			t.Errorf("line %d (%q): got %s/%s, want %s/%s",
				tt.lineNum, dl.Text, dl.Verdict, dl.Result, tt.verdict, tt.result)
		}
	}
}

func TestHeuristic_NoYearInDocument(t *testing.T) {
	stmt, _ := New().Parse("undated.txt", []string{"03/12 COFFEE SHOP 4.50"})
	if len(stmt.Transactions) != 1 {
		t.Fatalf("transactions: got %d, want 1", len(stmt.Transactions))
	}
	txn := stmt.Transactions[0]
	if txn.Date != "" {
		t.Errorf("Date: got %q, want none", txn.Date)
	}
	if txn.Description != "03/12 COFFEE SHOP" {
		t.Errorf("Description: got %q", txn.Description)
	}
}

func TestHeuristic_EmptyDocument(t *testing.T) {
	stmt, err := New().Parse("empty.pdf", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmt.Transactions) != 0 {
		t.Errorf("transactions: got %d, want 0", len(stmt.Transactions))
	}
}

func TestSplitLines(t *testing.T) {
	got := SplitLines([]string{"a\r\nb", "c"})
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}
