package accrual

import (
	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// CategoryTotal counts transactions and sums their amounts for one category.
type CategoryTotal struct {
	Count int             `json:"count" yaml:"count"`
	Total decimal.Decimal `json:"total" yaml:"total"`
}

// Totals is the running result of posting transactions through the table.
type Totals struct {
	Count      int
	Cash       decimal.Decimal
	Revenue    decimal.Decimal
	Expense    decimal.Decimal
	Receivable decimal.Decimal
	Payable    decimal.Decimal
	COGS       decimal.Decimal
	Inventory  decimal.Decimal
	ByCategory map[domain.Category]CategoryTotal
}

// Post applies one transaction. Inventory never drops below zero.
func (t *Totals) Post(tx domain.Transaction) {
	e := Lookup(tx.Category).Effect(tx.Type)
	amt := tx.Amount

	t.Count++
	t.Cash = t.Cash.Add(amt.Mul(e.Cash))
	t.Revenue = t.Revenue.Add(amt.Mul(e.Revenue))
	t.Expense = t.Expense.Add(amt.Mul(e.Expense))
	t.Receivable = t.Receivable.Add(amt.Mul(e.Receivable))
	t.Payable = t.Payable.Add(amt.Mul(e.Payable))
	t.COGS = t.COGS.Add(amt.Mul(e.COGS))
	t.Inventory = decimal.Max(decimal.Zero, t.Inventory.Add(amt.Mul(e.Inventory)))

	if t.ByCategory == nil {
		t.ByCategory = make(map[domain.Category]CategoryTotal)
	}
	ct := t.ByCategory[tx.Category]
	ct.Count++
	ct.Total = ct.Total.Add(amt)
	t.ByCategory[tx.Category] = ct
}

// Fold posts every transaction in order and returns the result.
func Fold(txs []domain.Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		t.Post(tx)
	}
	return t
}
