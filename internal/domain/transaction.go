package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel to and from the analysis services as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Category is one of the fixed document/transaction categories.
type Category string

const (
	CategoryBankTransactions Category = "bank-transactions"
	CategoryInvoices         Category = "invoices"
	CategoryBills            Category = "bills"
	CategoryInventory        Category = "inventory"
	CategoryItemRestocks     Category = "item-restocks"
	CategoryManualJournals   Category = "manual-journals"
	CategoryGeneralLedgers   Category = "general-ledgers"
	CategoryGeneralEntries   Category = "general-entries"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryBankTransactions,
	CategoryInvoices,
	CategoryBills,
	CategoryInventory,
	CategoryItemRestocks,
	CategoryManualJournals,
	CategoryGeneralLedgers,
	CategoryGeneralEntries,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory normalizes a category label as returned by the analysis
// service ("Invoices", " bills ") into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// EntryType is the direction of a transaction.
type EntryType string

const (
	Credit EntryType = "credit"
	Debit  EntryType = "debit"
)

// Valid reports whether t is credit or debit.
func (t EntryType) Valid() bool {
	return t == Credit || t == Debit
}

var (
	ErrMissingID       = errors.New("transaction id is required")
	ErrMissingDate     = errors.New("transaction date is required")
	ErrNegativeAmount  = errors.New("amount must not be negative")
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownType     = errors.New("unknown transaction type")
)

// ValidationChecks are the flags attached by the analysis service.
type ValidationChecks struct {
	AmountValid    bool `json:"amount_valid"`
	DateValid      bool `json:"date_valid"`
	PaymentOverdue bool `json:"payment_overdue"`
}

// Transaction is one categorized financial transaction. Records are only
// ever replaced as a whole, keyed on ID.
type Transaction struct {
	ID                string            `json:"id" yaml:"id"`
	Date              Date              `json:"date" yaml:"date"`
	Description       string            `json:"description" yaml:"description"`
	Amount            decimal.Decimal   `json:"amount" yaml:"amount"`
	Category          Category          `json:"category" yaml:"category"`
	Type              EntryType         `json:"type" yaml:"type"`
	DashboardCategory string            `json:"dashboardCategory,omitempty" yaml:"dashboardCategory,omitempty"`
	DueDate           *Date             `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	Vendor            string            `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	ValidatedAt       string            `json:"validatedAt,omitempty" yaml:"validatedAt,omitempty"` // as reported by the analysis service
	ValidationChecks  *ValidationChecks `json:"validationChecks,omitempty" yaml:"validationChecks,omitempty"`
}

// Validate checks the record invariants and returns every violation joined
// into a single error.
func (t Transaction) Validate() error {
	var errs []error
	if strings.TrimSpace(t.ID) == "" {
		errs = append(errs, ErrMissingID)
	}
	if t.Date.IsZero() {
		errs = append(errs, ErrMissingDate)
	}
	if t.Amount.IsNegative() {
		errs = append(errs, fmt.Errorf("%w: %s", ErrNegativeAmount, t.Amount))
	}
	if !t.Category.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownCategory, t.Category))
	}
	if !t.Type.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownType, t.Type))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("transaction %q: %w", t.ID, errors.Join(errs...))
}

// Equal reports whether two records have identical content.
func (t Transaction) Equal(o Transaction) bool {
	if t.ID != o.ID || t.Date != o.Date || t.Description != o.Description ||
		!t.Amount.Equal(o.Amount) || t.Category != o.Category || t.Type != o.Type ||
		t.DashboardCategory != o.DashboardCategory || t.Vendor != o.Vendor ||
		t.ValidatedAt != o.ValidatedAt {
		return false
	}
	if (t.DueDate == nil) != (o.DueDate == nil) {
		return false
	}
	if t.DueDate != nil && *t.DueDate != *o.DueDate {
		return false
	}
	if (t.ValidationChecks == nil) != (o.ValidationChecks == nil) {
		return false
	}
	return t.ValidationChecks == nil || *t.ValidationChecks == *o.ValidationChecks
}

// Clone returns a deep copy so callers cannot mutate stored records
// through shared pointers.
func (t Transaction) Clone() Transaction {
	c := t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.ValidationChecks != nil {
		v := *t.ValidationChecks
		c.ValidationChecks = &v
	}
	return c
}
