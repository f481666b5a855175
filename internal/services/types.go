package services

import (
	"encoding/json"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// AnalysisResult is the classification and extraction payload for one
// document. ExtractedData is kept loosely typed because its fields vary by
// category and analyzer.
type AnalysisResult struct {
	Category          string                 `json:"category"`
	DashboardCategory string                 `json:"dashboardCategory,omitempty"`
	Confidence        *float64               `json:"confidence,omitempty"`
	ExtractedData     map[string]interface{} `json:"extractedData,omitempty"`
}

// ValidationSummary counts issues by kind.
type ValidationSummary struct {
	TotalIssues     int `json:"total_issues"`
	DuplicatesFound int `json:"duplicates_found"`
	AmountErrors    int `json:"amount_errors"`
	MissingRefs     int `json:"missing_refs"`
	BalanceErrors   int `json:"balance_errors"`
}

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

type ValidationIssue struct {
	Type                string   `json:"type"`
	Severity            Severity `json:"severity"`
	TransactionID       string   `json:"transaction_id"`
	Description         string   `json:"description"`
	SuggestedCorrection string   `json:"suggested_correction,omitempty"`
}

type ValidationResult struct {
	Summary ValidationSummary `json:"summary"`
	Issues  []ValidationIssue `json:"issues"`
}

// Correction describes one change the validator made. Amounts are left as
// raw numbers since the service reports them only for display.
type Correction struct {
	Action      string   `json:"action"`
	Description string   `json:"description,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	OldAmount   *float64 `json:"old_amount,omitempty"`
	NewAmount   *float64 `json:"new_amount,omitempty"`
}

// ValidationResponse is returned by the validation service. It never
// modifies the store by itself; CorrectedTransactions are applied
// explicitly.
type ValidationResponse struct {
	Status                string               `json:"status,omitempty"`
	IssuesFound           int                  `json:"issues_found"`
	ValidationResult      *ValidationResult    `json:"validation_result,omitempty"`
	Corrections           []Correction         `json:"corrections,omitempty"`
	CorrectedTransactions []domain.Transaction `json:"corrected_transactions,omitempty"`
	Message               string               `json:"message,omitempty"`

	// DroppedTransactions counts corrected records that could not be decoded.
	DroppedTransactions int `json:"dropped_transactions,omitempty"`
}

// UnmarshalJSON decodes corrected transactions one by one so that a single
// undecodable record is dropped instead of failing the whole response.
func (r *ValidationResponse) UnmarshalJSON(data []byte) error {
	type plain ValidationResponse
	var raw struct {
		plain
		CorrectedTransactions []json.RawMessage `json:"corrected_transactions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = ValidationResponse(raw.plain)
	r.CorrectedTransactions = nil
	for _, item := range raw.CorrectedTransactions {
		var tx domain.Transaction
		if err := json.Unmarshal(item, &tx); err != nil {
			r.DroppedTransactions++
			continue
		}
		r.CorrectedTransactions = append(r.CorrectedTransactions, tx)
	}
	return nil
}
