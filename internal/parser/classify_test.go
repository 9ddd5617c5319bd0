package parser

import (
	"testing"

	"github.com/insightdelivered/statement-extractor/internal/models"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line     string
		expected models.LineVerdict
	}{
		{"03/12 COFFEE SHOP 4.50", models.VerdictKeep},
		{"  ", models.VerdictShort},
		{"ab", models.VerdictShort},
		{"Previous Balance  $100.00", models.VerdictHeader},
		{"NEW BALANCE 250.00", models.VerdictHeader},
		{"Total Payments 300.00", models.VerdictHeader},
		{"Statement Period 01/01/2024 - 01/31/2024", models.VerdictHeader},
		{"Credit Limit $5,000.00", models.VerdictHeader},
		{"Page 2 of 5", models.VerdictPagination},
		{"page 1 of 3 03/12 GROCERY 12.00", models.VerdictPagination},
		{"03/12 COFFEE SHOP", models.VerdictNoAmount},
		{"Total fees charged this period 35.00", models.VerdictTotal},
		{"Payments and Credits -500.00", models.VerdictTotal},
		{"Payment and credits -500.00", models.VerdictTotal},
		{"03/12 TOTALLY WIRELESS 45.00", models.VerdictKeep},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := ClassifyLine(tt.line, RegexScanner{})
			if got != tt.expected {
				t.Errorf("ClassifyLine(%q): got %q, want %q", tt.line, got, tt.expected)
			}
		})
	}
}
