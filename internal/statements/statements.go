// Package statements computes the advisory checks shown next to generated
// financial statements. None of these functions mutate their input.
package statements

import (
	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// Tolerance is the absolute difference under which a balance sheet counts
// as balanced.
var Tolerance = decimal.RequireFromString("0.01")

type BalanceCheck struct {
	TotalAssets               decimal.Decimal `json:"totalAssets" yaml:"totalAssets"`
	TotalLiabilities          decimal.Decimal `json:"totalLiabilities" yaml:"totalLiabilities"`
	TotalEquity               decimal.Decimal `json:"totalEquity" yaml:"totalEquity"`
	TotalLiabilitiesAndEquity decimal.Decimal `json:"totalLiabilitiesAndEquity" yaml:"totalLiabilitiesAndEquity"`
	Difference                decimal.Decimal `json:"difference" yaml:"difference"`
	IsBalanced                bool            `json:"isBalanced" yaml:"isBalanced"`
}

// CheckBalance verifies assets = liabilities + equity within Tolerance.
// Items of any other type are ignored.
func CheckBalance(items []domain.BalanceSheetItem) BalanceCheck {
	var c BalanceCheck
	for _, it := range items {
		switch it.Type {
		case domain.Asset:
			c.TotalAssets = c.TotalAssets.Add(it.Amount)
		case domain.Liability:
			c.TotalLiabilities = c.TotalLiabilities.Add(it.Amount)
		case domain.Equity:
			c.TotalEquity = c.TotalEquity.Add(it.Amount)
		}
	}
	c.TotalLiabilitiesAndEquity = c.TotalLiabilities.Add(c.TotalEquity)
	c.Difference = c.TotalAssets.Sub(c.TotalLiabilitiesAndEquity)
	c.IsBalanced = c.Difference.Abs().LessThan(Tolerance)
	return c
}

type TrialBalance struct {
	TotalDebit  decimal.Decimal `json:"totalDebit" yaml:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit" yaml:"totalCredit"`
	Difference  decimal.Decimal `json:"difference" yaml:"difference"`
	IsBalanced  bool            `json:"isBalanced" yaml:"isBalanced"`
}

func TrialBalanceTotals(items []domain.TrialBalanceItem) TrialBalance {
	var tb TrialBalance
	for _, it := range items {
		tb.TotalDebit = tb.TotalDebit.Add(it.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(it.Credit)
	}
	tb.Difference = tb.TotalDebit.Sub(tb.TotalCredit)
	tb.IsBalanced = tb.Difference.Abs().LessThan(Tolerance)
	return tb
}

type ProfitLoss struct {
	TotalRevenue  decimal.Decimal `json:"totalRevenue" yaml:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses" yaml:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome" yaml:"netIncome"`
}

func ProfitLossTotals(items []domain.ProfitLossItem) ProfitLoss {
	var pl ProfitLoss
	for _, it := range items {
		switch it.Type {
		case domain.Revenue:
			pl.TotalRevenue = pl.TotalRevenue.Add(it.Amount)
		case domain.Expense:
			pl.TotalExpenses = pl.TotalExpenses.Add(it.Amount)
		}
	}
	pl.NetIncome = pl.TotalRevenue.Sub(pl.TotalExpenses)
	return pl
}

type CashFlow struct {
	Operating decimal.Decimal `json:"operating" yaml:"operating"`
	Investing decimal.Decimal `json:"investing" yaml:"investing"`
	Financing decimal.Decimal `json:"financing" yaml:"financing"`
	Net       decimal.Decimal `json:"net" yaml:"net"`
}

// CashFlowTotals sums signed amounts per section.
func CashFlowTotals(items []domain.CashFlowItem) CashFlow {
	var cf CashFlow
	for _, it := range items {
		switch it.Type {
		case domain.Operating:
			cf.Operating = cf.Operating.Add(it.Amount)
		case domain.Investing:
			cf.Investing = cf.Investing.Add(it.Amount)
		case domain.Financing:
			cf.Financing = cf.Financing.Add(it.Amount)
		}
	}
	cf.Net = cf.Operating.Add(cf.Investing).Add(cf.Financing)
	return cf
}

// Report bundles every check for one statement.
type Report struct {
	Balance      BalanceCheck `json:"balance" yaml:"balance"`
	TrialBalance TrialBalance `json:"trialBalance" yaml:"trialBalance"`
	ProfitLoss   ProfitLoss   `json:"profitLoss" yaml:"profitLoss"`
	CashFlow     CashFlow     `json:"cashFlow" yaml:"cashFlow"`
}

func BuildReport(s domain.FinancialStatement) Report {
	return Report{
		Balance:      CheckBalance(s.BalanceSheet),
		TrialBalance: TrialBalanceTotals(s.TrialBalance),
		ProfitLoss:   ProfitLossTotals(s.ProfitLoss),
		CashFlow:     CashFlowTotals(s.CashFlow),
	}
}
