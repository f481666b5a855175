package statements

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCheckBalance(t *testing.T) {
	tests := []struct {
		name         string
		items        []domain.BalanceSheetItem
		wantBalanced bool
		wantDiff     string
	}{
		{
			name: "balanced",
			items: []domain.BalanceSheetItem{
				{Account: "Cash", Type: domain.Asset, Amount: amt("1500")},
				{Account: "Loan", Type: domain.Liability, Amount: amt("1000")},
				{Account: "Capital", Type: domain.Equity, Amount: amt("500")},
			},
			wantBalanced: true,
			wantDiff:     "0",
		},
		{
			name: "within tolerance",
			items: []domain.BalanceSheetItem{
				{Account: "Cash", Type: domain.Asset, Amount: amt("100.005")},
				{Account: "Capital", Type: domain.Equity, Amount: amt("100")},
			},
			wantBalanced: true,
			wantDiff:     "0.005",
		},
		{
			name: "exactly at tolerance is not balanced",
			items: []domain.BalanceSheetItem{
				{Account: "Cash", Type: domain.Asset, Amount: amt("100")},
				{Account: "Capital", Type: domain.Equity, Amount: amt("100.01")},
			},
			wantBalanced: false,
			wantDiff:     "-0.01",
		},
		{
			name:         "empty sheet",
			wantBalanced: true,
			wantDiff:     "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckBalance(tt.items)
			if got.IsBalanced != tt.wantBalanced {
				t.Errorf("IsBalanced = %v, want %v", got.IsBalanced, tt.wantBalanced)
			}
			if !got.Difference.Equal(amt(tt.wantDiff)) {
				t.Errorf("Difference = %s, want %s", got.Difference, tt.wantDiff)
			}
			if !got.TotalLiabilitiesAndEquity.Equal(got.TotalLiabilities.Add(got.TotalEquity)) {
				t.Error("TotalLiabilitiesAndEquity should be liabilities + equity")
			}
		})
	}
}

func TestCheckBalance_DoesNotMutate(t *testing.T) {
	items := []domain.BalanceSheetItem{{Account: "Cash", Type: domain.Asset, Amount: amt("10")}}
	CheckBalance(items)
	if !items[0].Amount.Equal(amt("10")) || items[0].Type != domain.Asset {
		t.Error("CheckBalance modified its input")
	}
}

func TestBuildReport(t *testing.T) {
	r := BuildReport(domain.FinancialStatement{
		TrialBalance: []domain.TrialBalanceItem{
			{Account: "Cash", Debit: amt("700")},
			{Account: "Revenue", Credit: amt("700")},
		},
		ProfitLoss: []domain.ProfitLossItem{
			{Account: "Sales", Type: domain.Revenue, Amount: amt("1000")},
			{Account: "Rent", Type: domain.Expense, Amount: amt("400")},
		},
		CashFlow: []domain.CashFlowItem{
			{Description: "Customers", Type: domain.Operating, Amount: amt("700")},
			{Description: "Equipment", Type: domain.Investing, Amount: amt("-250")},
			{Description: "Loan", Type: domain.Financing, Amount: amt("100")},
		},
	})

	if !r.TrialBalance.IsBalanced {
		t.Errorf("trial balance should balance: %+v", r.TrialBalance)
	}
	if !r.ProfitLoss.NetIncome.Equal(amt("600")) {
		t.Errorf("NetIncome = %s, want 600", r.ProfitLoss.NetIncome)
	}
	if !r.CashFlow.Net.Equal(amt("550")) {
		t.Errorf("cash flow Net = %s, want 550", r.CashFlow.Net)
	}
	if !r.Balance.IsBalanced {
		t.Error("empty balance sheet should report balanced")
	}
}
