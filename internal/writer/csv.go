package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-extractor/internal/models"
)

// Columns is the fixed column order of the output file.
var Columns = []string{"date", "description", "amount", "balance", "type", "source_document", "source_line"}

// CSVWriter writes transactions to CSV format.
type CSVWriter struct{}

// WriteToFile writes transactions to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, txns []models.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}

	if err := w.Write(f, txns); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write writes the header row and one row per transaction to out.
func (w *CSVWriter) Write(out io.Writer, txns []models.Transaction) error {
	writer := csv.NewWriter(out)

	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range txns {
		row := []string{
			txn.Date,
			txn.Description,
			formatAmount(txn.Amount),
			formatBalance(txn.Balance),
			string(txn.Kind),
			txn.SourceDocument,
			txn.SourceLine,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

func formatBalance(balance decimal.NullDecimal) string {
	if !balance.Valid {
		return ""
	}
	return formatAmount(balance.Decimal)
}
