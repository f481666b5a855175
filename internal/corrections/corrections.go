// Package corrections merges externally corrected transactions back into
// the store.
package corrections

import (
	"context"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/dvloznov/finance-dashboard/internal/store"
)

// Result counts what happened to each corrected record.
type Result struct {
	Inserted  int `json:"inserted" yaml:"inserted"`
	Replaced  int `json:"replaced" yaml:"replaced"`
	Unchanged int `json:"unchanged" yaml:"unchanged"`
	Skipped   int `json:"skipped" yaml:"skipped"`
}

// Changed reports whether the store was modified.
func (r Result) Changed() bool {
	return r.Inserted > 0 || r.Replaced > 0
}

// Apply upserts each record by id: an existing record is replaced, a new id
// is inserted. Records failing validation are skipped and logged. Applying
// the same list again leaves the store as it was and counts every valid
// record as unchanged.
func Apply(ctx context.Context, s store.TransactionStore, corrected []domain.Transaction) Result {
	log := logger.FromContext(ctx)

	var res Result
	for _, tx := range corrected {
		if err := tx.Validate(); err != nil {
			log.Warn().Err(err).Str("transaction_id", tx.ID).Msg("Skipping invalid corrected transaction")
			res.Skipped++
			continue
		}

		current, ok := s.Transaction(tx.ID)
		switch {
		case !ok:
			s.AddTransaction(tx)
			res.Inserted++
		case current.Equal(tx):
			res.Unchanged++
		default:
			s.UpdateTransaction(tx)
			res.Replaced++
		}
	}

	log.Info().
		Int("inserted", res.Inserted).
		Int("replaced", res.Replaced).
		Int("unchanged", res.Unchanged).
		Int("skipped", res.Skipped).
		Msg("Applied corrections")

	return res
}
