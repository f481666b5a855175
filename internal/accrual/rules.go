// Package accrual holds the category heuristics that approximate accrual
// accounting. Every aggregate in the engine is computed from this table.
package accrual

import (
	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// Version identifies the rule table. Bump it whenever a multiplier changes.
const Version = "2024.1"

// Flow classifies a category for the monthly cash-flow series.
type Flow string

const (
	FlowByType  Flow = "by-type"
	FlowInflow  Flow = "inflow"
	FlowOutflow Flow = "outflow"
)

// Effect holds multipliers applied to a transaction amount.
type Effect struct {
	Cash       decimal.Decimal `json:"cash"`
	Revenue    decimal.Decimal `json:"revenue"`
	Expense    decimal.Decimal `json:"expense"`
	Receivable decimal.Decimal `json:"receivable"`
	Payable    decimal.Decimal `json:"payable"`
	COGS       decimal.Decimal `json:"cogs"`
	Inventory  decimal.Decimal `json:"inventory"`
}

// Rule is one row of the table.
type Rule struct {
	Category domain.Category `json:"category"`
	Credit   Effect          `json:"credit"`
	Debit    Effect          `json:"debit"`
	Flow     Flow            `json:"flow"`
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var (
	one      = decimal.NewFromInt(1)
	minusOne = decimal.NewFromInt(-1)

	cashIn  = Effect{Cash: one}
	cashOut = Effect{Cash: minusOne}

	purchase = Effect{COGS: one, Inventory: one, Cash: minusOne}
)

var table = []Rule{
	{
		Category: domain.CategoryBankTransactions,
		Credit:   cashIn,
		Debit:    cashOut,
		Flow:     FlowByType,
	},
	{
		Category: domain.CategoryInvoices,
		Credit:   Effect{Cash: d("0.7"), Receivable: d("0.3"), Revenue: one},
		Debit:    Effect{Receivable: one, Revenue: one},
		Flow:     FlowInflow,
	},
	{
		Category: domain.CategoryBills,
		Credit:   Effect{Payable: one, Expense: one},
		Debit:    Effect{Cash: d("-0.6"), Payable: d("0.4"), Expense: one},
		Flow:     FlowOutflow,
	},
	{
		Category: domain.CategoryInventory,
		Credit:   Effect{Revenue: one, Inventory: d("-0.8"), Cash: one},
		Debit:    purchase,
		Flow:     FlowByType,
	},
	{
		Category: domain.CategoryItemRestocks,
		Credit:   Effect{Inventory: one},
		Debit:    purchase,
		Flow:     FlowByType,
	},
	{
		Category: domain.CategoryManualJournals,
		Credit:   cashIn,
		Debit:    cashOut,
		Flow:     FlowByType,
	},
	{
		Category: domain.CategoryGeneralLedgers,
		Credit:   cashIn,
		Debit:    cashOut,
		Flow:     FlowByType,
	},
	{
		Category: domain.CategoryGeneralEntries,
		Credit:   cashIn,
		Debit:    cashOut,
		Flow:     FlowByType,
	},
}

// Lookup returns the rule for category. Unknown categories get a rule with
// zero effects and by-type flow.
func Lookup(category domain.Category) Rule {
	for _, r := range table {
		if r.Category == category {
			return r
		}
	}
	return Rule{Category: category, Flow: FlowByType}
}

// Rules returns a copy of the full table in category order.
func Rules() []Rule {
	return append([]Rule(nil), table...)
}

// Categories lists the categories covered by the table.
func Categories() []domain.Category {
	out := make([]domain.Category, len(table))
	for i, r := range table {
		out[i] = r.Category
	}
	return out
}

// Effect returns the multipliers for the given direction. An unknown type
// has no effect.
func (r Rule) Effect(t domain.EntryType) Effect {
	switch t {
	case domain.Credit:
		return r.Credit
	case domain.Debit:
		return r.Debit
	default:
		return Effect{}
	}
}

// Inflow reports whether a transaction of type t counts as cash inflow in the
// monthly series.
func (r Rule) Inflow(t domain.EntryType) bool {
	switch r.Flow {
	case FlowInflow:
		return true
	case FlowOutflow:
		return false
	default:
		return t == domain.Credit
	}
}
