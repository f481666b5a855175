package cashflow

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/accrual"
	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// MonthlyFlow is the cash movement of one calendar month.
type MonthlyFlow struct {
	Month   string          `json:"month" yaml:"month"`
	Inflow  decimal.Decimal `json:"inflow" yaml:"inflow"`
	Outflow decimal.Decimal `json:"outflow" yaml:"outflow"`
	Net     decimal.Decimal `json:"net" yaml:"net"`
}

// Bucketize groups transactions by month of their date, ascending. Only
// months that have transactions appear.
func Bucketize(txs []domain.Transaction) []MonthlyFlow {
	byMonth := make(map[string]*MonthlyFlow)
	for _, tx := range txs {
		key := tx.Date.YearMonth()
		m, ok := byMonth[key]
		if !ok {
			m = &MonthlyFlow{Month: key}
			byMonth[key] = m
		}
		if accrual.Lookup(tx.Category).Inflow(tx.Type) {
			m.Inflow = m.Inflow.Add(tx.Amount)
		} else {
			m.Outflow = m.Outflow.Add(tx.Amount)
		}
	}

	out := make([]MonthlyFlow, 0, len(byMonth))
	for _, m := range byMonth {
		m.Net = m.Inflow.Sub(m.Outflow)
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// Totals sums the series.
func Totals(flows []MonthlyFlow) (inflow, outflow decimal.Decimal) {
	for _, f := range flows {
		inflow = inflow.Add(f.Inflow)
		outflow = outflow.Add(f.Outflow)
	}
	return inflow, outflow
}
