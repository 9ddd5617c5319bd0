// Package dedup drops transactions that were picked up more than once, e.g.
// from overlapping page text or a repeated extraction pass.
package dedup

import (
	"github.com/insightdelivered/statement-extractor/internal/models"
)

type key struct {
	source      string
	date        string
	description string
	amount      string
}

func keyOf(t models.Transaction) key {
	return key{
		source:      t.SourceDocument,
		date:        t.Date,
		description: t.Description,
		amount:      t.Amount.StringFixed(2),
	}
}

// Unique returns the records whose (document, date, description, amount)
// has not been seen earlier in the slice. Order is preserved and records are
// never modified.
func Unique(records []models.Transaction) []models.Transaction {
	seen := make(map[key]struct{}, len(records))
	out := make([]models.Transaction, 0, len(records))
	for _, r := range records {
		k := keyOf(r)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}
