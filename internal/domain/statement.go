package domain

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

type BalanceSheetType string

const (
	Asset     BalanceSheetType = "asset"
	Liability BalanceSheetType = "liability"
	Equity    BalanceSheetType = "equity"
)

type ProfitLossType string

const (
	Revenue ProfitLossType = "revenue"
	Expense ProfitLossType = "expense"
)

type CashFlowSection string

const (
	Operating CashFlowSection = "operating"
	Investing CashFlowSection = "investing"
	Financing CashFlowSection = "financing"
)

type BalanceSheetItem struct {
	Account  string           `json:"account" yaml:"account"`
	Type     BalanceSheetType `json:"type" yaml:"type"`
	Amount   decimal.Decimal  `json:"amount" yaml:"amount"`
	Category string           `json:"category" yaml:"category"`
}

type ProfitLossItem struct {
	Account  string          `json:"account" yaml:"account"`
	Type     ProfitLossType  `json:"type" yaml:"type"`
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
	Category string          `json:"category" yaml:"category"`
}

type TrialBalanceItem struct {
	Account string          `json:"account" yaml:"account"`
	Debit   decimal.Decimal `json:"debit" yaml:"debit"`
	Credit  decimal.Decimal `json:"credit" yaml:"credit"`
}

type CashFlowItem struct {
	Description string          `json:"description" yaml:"description"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Type        CashFlowSection `json:"type" yaml:"type"`
}

// ProfessionalNotes is the commentary attached to generated statements.
// Every field is optional.
type ProfessionalNotes struct {
	ProfessionalAnalysis string                 `json:"professional_analysis,omitempty" yaml:"professional_analysis,omitempty"`
	GeneratedAt          string                 `json:"generated_at,omitempty" yaml:"generated_at,omitempty"`
	AIVerified           bool                   `json:"ai_verified,omitempty" yaml:"ai_verified,omitempty"`
	ExecutiveSummary     string                 `json:"executive_summary,omitempty" yaml:"executive_summary,omitempty"`
	BalanceSheetAnalysis string                 `json:"balance_sheet_analysis,omitempty" yaml:"balance_sheet_analysis,omitempty"`
	ProfitLossAnalysis   string                 `json:"profit_loss_analysis,omitempty" yaml:"profit_loss_analysis,omitempty"`
	CashFlowAnalysis     string                 `json:"cash_flow_analysis,omitempty" yaml:"cash_flow_analysis,omitempty"`
	KeyRatios            map[string]interface{} `json:"key_ratios,omitempty" yaml:"key_ratios,omitempty"`
	RiskAssessment       string                 `json:"risk_assessment,omitempty" yaml:"risk_assessment,omitempty"`
	Recommendations      string                 `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
	Error                string                 `json:"error,omitempty" yaml:"error,omitempty"`
}

// FinancialStatement is replaced wholesale whenever statements are generated.
type FinancialStatement struct {
	BalanceSheet      []BalanceSheetItem `json:"balanceSheet" yaml:"balanceSheet"`
	ProfitLoss        []ProfitLossItem   `json:"profitLoss" yaml:"profitLoss"`
	TrialBalance      []TrialBalanceItem `json:"trialBalance" yaml:"trialBalance"`
	CashFlow          []CashFlowItem     `json:"cashFlow" yaml:"cashFlow"`
	ProfessionalNotes *ProfessionalNotes `json:"professionalNotes,omitempty" yaml:"professionalNotes,omitempty"`
}

// UnmarshalJSON decodes a statement, treating professionalNotes that is not
// an object (the generator sends [] for an empty ledger) as absent.
func (s *FinancialStatement) UnmarshalJSON(data []byte) error {
	type plain FinancialStatement
	var raw struct {
		plain
		ProfessionalNotes json.RawMessage `json:"professionalNotes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = FinancialStatement(raw.plain)
	s.ProfessionalNotes = decodeNotes(raw.ProfessionalNotes)
	return nil
}

func decodeNotes(data json.RawMessage) *ProfessionalNotes {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil
	}
	var n ProfessionalNotes
	if err := json.Unmarshal(data, &n); err != nil {
		return nil
	}
	return &n
}

// Clone returns a copy that shares no slices with s.
func (s FinancialStatement) Clone() FinancialStatement {
	c := FinancialStatement{
		BalanceSheet: append([]BalanceSheetItem(nil), s.BalanceSheet...),
		ProfitLoss:   append([]ProfitLossItem(nil), s.ProfitLoss...),
		TrialBalance: append([]TrialBalanceItem(nil), s.TrialBalance...),
		CashFlow:     append([]CashFlowItem(nil), s.CashFlow...),
	}
	if s.ProfessionalNotes != nil {
		n := *s.ProfessionalNotes
		if n.KeyRatios != nil {
			n.KeyRatios = make(map[string]interface{}, len(s.ProfessionalNotes.KeyRatios))
			for k, v := range s.ProfessionalNotes.KeyRatios {
				n.KeyRatios[k] = v
			}
		}
		c.ProfessionalNotes = &n
	}
	return c
}
