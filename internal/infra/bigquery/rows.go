// Package bigquery exports point-in-time snapshots of the transaction list
// and its metrics to BigQuery. The export is write-only: nothing is read
// back into the in-memory store.
package bigquery

import (
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/dvloznov/finance-dashboard/internal/accrual"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/metrics"
)

const (
	transactionsTable = "transaction_snapshots"
	metricsTable      = "metrics_snapshots"
)

// TransactionRow is one transaction as of a snapshot.
type TransactionRow struct {
	SnapshotID    string `bigquery:"snapshot_id"`    // REQUIRED
	TransactionID string `bigquery:"transaction_id"` // REQUIRED

	TransactionDate bigquery.NullDate `bigquery:"transaction_date"` // NULLABLE
	DueDate         bigquery.NullDate `bigquery:"due_date"`         // NULLABLE

	Amount *big.Rat `bigquery:"amount"` // REQUIRED NUMERIC

	Category          string              `bigquery:"category"`           // REQUIRED
	EntryType         string              `bigquery:"entry_type"`         // REQUIRED
	Description       string              `bigquery:"description"`        // REQUIRED
	DashboardCategory bigquery.NullString `bigquery:"dashboard_category"` // NULLABLE
	Vendor            bigquery.NullString `bigquery:"vendor"`             // NULLABLE

	// Effect multipliers applied at export time, for auditing rule changes.
	CashEffect   *big.Rat `bigquery:"cash_effect"`
	RulesVersion string   `bigquery:"rules_version"`

	ExportedAt time.Time `bigquery:"exported_at"` // REQUIRED
}

// MetricsRow is the aggregate figures of one snapshot.
type MetricsRow struct {
	SnapshotID       string `bigquery:"snapshot_id"`       // REQUIRED
	TransactionCount int64  `bigquery:"transaction_count"` // REQUIRED

	CashBalance        *big.Rat `bigquery:"cash_balance"`
	Revenue            *big.Rat `bigquery:"revenue"`
	Expenses           *big.Rat `bigquery:"expenses"`
	NetBurn            *big.Rat `bigquery:"net_burn"`
	AccountsReceivable *big.Rat `bigquery:"accounts_receivable"`
	AccountsPayable    *big.Rat `bigquery:"accounts_payable"`

	RulesVersion string    `bigquery:"rules_version"`
	ExportedAt   time.Time `bigquery:"exported_at"` // REQUIRED
}

// Snapshot describes one exported snapshot.
type Snapshot struct {
	SnapshotID       string    `bigquery:"snapshot_id" json:"snapshotId"`
	TransactionCount int64     `bigquery:"transaction_count" json:"transactionCount"`
	ExportedAt       time.Time `bigquery:"exported_at" json:"exportedAt"`
}

func nullDate(d domain.Date) bigquery.NullDate {
	if d.IsZero() {
		return bigquery.NullDate{}
	}
	return bigquery.NullDate{Date: d.Date, Valid: true}
}

func nullString(s string) bigquery.NullString {
	return bigquery.NullString{StringVal: s, Valid: s != ""}
}

// ToTransactionRows maps txs to export rows tagged with snapshotID.
func ToTransactionRows(snapshotID string, txs []domain.Transaction, exportedAt time.Time) []*TransactionRow {
	rows := make([]*TransactionRow, 0, len(txs))
	for _, tx := range txs {
		row := &TransactionRow{
			SnapshotID:        snapshotID,
			TransactionID:     tx.ID,
			TransactionDate:   nullDate(tx.Date),
			Amount:            tx.Amount.Rat(),
			Category:          string(tx.Category),
			EntryType:         string(tx.Type),
			Description:       tx.Description,
			DashboardCategory: nullString(tx.DashboardCategory),
			Vendor:            nullString(tx.Vendor),
			CashEffect:        accrual.Lookup(tx.Category).Effect(tx.Type).Cash.Rat(),
			RulesVersion:      accrual.Version,
			ExportedAt:        exportedAt,
		}
		if tx.DueDate != nil {
			row.DueDate = nullDate(*tx.DueDate)
		}
		rows = append(rows, row)
	}
	return rows
}

// ToMetricsRow maps the aggregate figures to an export row.
func ToMetricsRow(snapshotID string, count int, m metrics.Metrics, exportedAt time.Time) *MetricsRow {
	return &MetricsRow{
		SnapshotID:         snapshotID,
		TransactionCount:   int64(count),
		CashBalance:        m.CashBalance.Rat(),
		Revenue:            m.Revenue.Rat(),
		Expenses:           m.Expenses.Rat(),
		NetBurn:            m.NetBurn.Rat(),
		AccountsReceivable: m.AccountsReceivable.Rat(),
		AccountsPayable:    m.AccountsPayable.Rat(),
		RulesVersion:       accrual.Version,
		ExportedAt:         exportedAt,
	}
}
