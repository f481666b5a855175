package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/services"
)

// ErrNoTransaction is returned when an analysis result cannot yield a
// transaction, for example because its category is unknown.
var ErrNoTransaction = errors.New("analysis result does not describe a transaction")

var (
	nonNumeric    = regexp.MustCompile(`[^0-9.-]`)
	numericPrefix = regexp.MustCompile(`^(-?)(\d*)(\.\d+)?`)
)

// DeriveTransaction builds the transaction conventionally attached to a
// document from the analyzer's extracted data. Missing or malformed
// optional fields are left empty and never cause an error.
func DeriveTransaction(doc domain.Document, result *services.AnalysisResult, today domain.Date) (domain.Transaction, error) {
	if result == nil {
		return domain.Transaction{}, ErrNoTransaction
	}
	category, err := domain.ParseCategory(result.Category)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: %v", ErrNoTransaction, err)
	}

	data := result.ExtractedData
	if data == nil {
		data = map[string]interface{}{}
	}

	amount, typ := inferAmount(category, data)

	tx := domain.Transaction{
		ID:                domain.TransactionIDFor(doc.ID),
		Date:              firstDate(data, today, "date", "invoiceDate"),
		Description:       firstString(data, "description"),
		Amount:            amount,
		Category:          category,
		Type:              typ,
		DashboardCategory: result.DashboardCategory,
		Vendor:            firstString(data, "vendor", "customer"),
		ValidatedAt:       firstString(data, "validated_at"),
	}
	if tx.Description == "" {
		tx.Description = doc.Name
	}
	if due := firstDate(data, domain.Date{}, "due_date"); !due.IsZero() {
		tx.DueDate = &due
	}
	tx.ValidationChecks = getValidationChecks(data, "validation_checks")

	return tx, nil
}

// inferAmount picks the amount and direction. Bank transactions prefer a
// non-zero "incoming" (credit), then "outgoing" (debit), then the signed
// "amount"; every other category uses the signed "amount".
func inferAmount(category domain.Category, data map[string]interface{}) (decimal.Decimal, domain.EntryType) {
	if category == domain.CategoryBankTransactions {
		if in := getDecimalField(data, "incoming"); !in.IsZero() {
			return in.Abs(), domain.Credit
		}
		if out := getDecimalField(data, "outgoing"); !out.IsZero() {
			return out.Abs(), domain.Debit
		}
	}

	amount := getDecimalField(data, "amount")
	if amount.IsNegative() {
		return amount.Abs(), domain.Debit
	}
	return amount, domain.Credit
}

// sanitizeAmount strips currency symbols, thousands separators and other
// decoration, then parses the longest numeric prefix of what is left.
func sanitizeAmount(s string) (decimal.Decimal, bool) {
	m := numericPrefix.FindStringSubmatch(nonNumeric.ReplaceAllString(s, ""))
	if m == nil || m[2]+m[3] == "" {
		return decimal.Zero, false
	}
	whole := m[2]
	if whole == "" {
		whole = "0"
	}
	cleaned := m[1] + whole + m[3]
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func getDecimalField(m map[string]interface{}, key string) decimal.Decimal {
	switch val := m[key].(type) {
	case float64:
		return decimal.NewFromFloat(val)
	case int:
		return decimal.NewFromInt(int64(val))
	case json.Number:
		if d, ok := sanitizeAmount(val.String()); ok {
			return d
		}
	case string:
		if d, ok := sanitizeAmount(val); ok {
			return d
		}
	}
	return decimal.Zero
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstDate returns the first key holding a parseable date, or fallback.
func firstDate(m map[string]interface{}, fallback domain.Date, keys ...string) domain.Date {
	for _, k := range keys {
		s, ok := m[k].(string)
		if !ok {
			continue
		}
		if d, err := domain.ParseDate(s); err == nil && !d.IsZero() {
			return d
		}
	}
	return fallback
}

func getValidationChecks(m map[string]interface{}, key string) *domain.ValidationChecks {
	raw, ok := m[key].(map[string]interface{})
	if !ok {
		return nil
	}
	flag := func(name string) bool {
		b, _ := raw[name].(bool)
		return b
	}
	return &domain.ValidationChecks{
		AmountValid:    flag("amount_valid"),
		DateValid:      flag("date_valid"),
		PaymentOverdue: flag("payment_overdue"),
	}
}
