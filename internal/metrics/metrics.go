// Package metrics derives the dashboard aggregates and the statement summary
// from the current transaction list.
package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/accrual"
	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// Metrics are the point-in-time dashboard figures.
type Metrics struct {
	CashBalance        decimal.Decimal `json:"cashBalance" yaml:"cashBalance"`
	Revenue            decimal.Decimal `json:"revenue" yaml:"revenue"`
	Expenses           decimal.Decimal `json:"expenses" yaml:"expenses"`
	NetBurn            decimal.Decimal `json:"netBurn" yaml:"netBurn"`
	AccountsReceivable decimal.Decimal `json:"accountsReceivable" yaml:"accountsReceivable"`
	AccountsPayable    decimal.Decimal `json:"accountsPayable" yaml:"accountsPayable"`
}

// Aggregate folds txs through the accrual table. An empty list yields zeros.
func Aggregate(txs []domain.Transaction) Metrics {
	return fromTotals(accrual.Fold(txs))
}

func fromTotals(t accrual.Totals) Metrics {
	return Metrics{
		CashBalance:        t.Cash,
		Revenue:            t.Revenue,
		Expenses:           t.Expense,
		NetBurn:            t.Expense.Sub(t.Revenue),
		AccountsReceivable: t.Receivable,
		AccountsPayable:    t.Payable,
	}
}

// DisplayCashBalance is the cash balance floored at zero for presentation.
func (m Metrics) DisplayCashBalance() decimal.Decimal {
	return decimal.Max(decimal.Zero, m.CashBalance)
}

// Summary is the statement-page view of the same fold.
type Summary struct {
	TotalTransactions  int                                       `json:"totalTransactions" yaml:"totalTransactions"`
	Revenue            decimal.Decimal                           `json:"revenue" yaml:"revenue"`
	Expenses           decimal.Decimal                           `json:"expenses" yaml:"expenses"`
	COGS               decimal.Decimal                           `json:"cogs" yaml:"cogs"`
	GrossProfit        decimal.Decimal                           `json:"grossProfit" yaml:"grossProfit"`
	NetIncome          decimal.Decimal                           `json:"netIncome" yaml:"netIncome"`
	Cash               decimal.Decimal                           `json:"cash" yaml:"cash"`
	AccountsReceivable decimal.Decimal                           `json:"accountsReceivable" yaml:"accountsReceivable"`
	AccountsPayable    decimal.Decimal                           `json:"accountsPayable" yaml:"accountsPayable"`
	Inventory          decimal.Decimal                           `json:"inventory" yaml:"inventory"`
	ByCategory         map[domain.Category]accrual.CategoryTotal `json:"byCategory" yaml:"byCategory"`
	Metrics            Metrics                                   `json:"metrics" yaml:"metrics"`
	RulesVersion       string                                    `json:"rulesVersion" yaml:"rulesVersion"`
}

// Summarize builds the statement summary. It shares the fold with Aggregate,
// so Summary.Metrics always matches Aggregate(txs).
func Summarize(txs []domain.Transaction) Summary {
	t := accrual.Fold(txs)
	byCategory := t.ByCategory
	if byCategory == nil {
		byCategory = map[domain.Category]accrual.CategoryTotal{}
	}
	gross := t.Revenue.Sub(t.COGS)
	return Summary{
		TotalTransactions:  t.Count,
		Revenue:            t.Revenue,
		Expenses:           t.Expense,
		COGS:               t.COGS,
		GrossProfit:        gross,
		NetIncome:          gross.Sub(t.Expense),
		Cash:               t.Cash,
		AccountsReceivable: t.Receivable,
		AccountsPayable:    t.Payable,
		Inventory:          t.Inventory,
		ByCategory:         byCategory,
		Metrics:            fromTotals(t),
		RulesVersion:       accrual.Version,
	}
}
