package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/services"
)

var testToday = domain.NewDate(2024, time.July, 1)

func TestDeriveTransaction_AmountAndDirection(t *testing.T) {
	tests := []struct {
		name       string
		category   string
		data       map[string]interface{}
		wantAmount string
		wantType   domain.EntryType
	}{
		{
			name:       "bank incoming wins",
			category:   "bank-transactions",
			data:       map[string]interface{}{"incoming": 250.0, "outgoing": 40.0, "amount": -10.0},
			wantAmount: "250",
			wantType:   domain.Credit,
		},
		{
			name:       "bank outgoing when incoming is zero",
			category:   "bank-transactions",
			data:       map[string]interface{}{"incoming": 0.0, "outgoing": "£1,200.50"},
			wantAmount: "1200.5",
			wantType:   domain.Debit,
		},
		{
			name:       "bank falls back to signed amount",
			category:   "bank-transactions",
			data:       map[string]interface{}{"amount": -75.25},
			wantAmount: "75.25",
			wantType:   domain.Debit,
		},
		{
			name:       "invoice ignores incoming",
			category:   "invoices",
			data:       map[string]interface{}{"incoming": 999.0, "amount": "$1,000.00"},
			wantAmount: "1000",
			wantType:   domain.Credit,
		},
		{
			name:       "negative bill is a debit",
			category:   "Bills",
			data:       map[string]interface{}{"amount": "-500"},
			wantAmount: "500",
			wantType:   domain.Debit,
		},
		{
			name:       "missing amount yields zero credit",
			category:   "manual-journals",
			data:       nil,
			wantAmount: "0",
			wantType:   domain.Credit,
		},
		{
			name:       "garbage amount yields zero",
			category:   "general-ledgers",
			data:       map[string]interface{}{"amount": "n/a"},
			wantAmount: "0",
			wantType:   domain.Credit,
		},
	}

	doc := domain.Document{ID: "doc1", Name: "file.pdf"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := DeriveTransaction(doc, &services.AnalysisResult{Category: tt.category, ExtractedData: tt.data}, testToday)
			if err != nil {
				t.Fatalf("DeriveTransaction failed: %v", err)
			}
			if !tx.Amount.Equal(decimal.RequireFromString(tt.wantAmount)) {
				t.Errorf("Amount = %s, want %s", tx.Amount, tt.wantAmount)
			}
			if tx.Type != tt.wantType {
				t.Errorf("Type = %s, want %s", tx.Type, tt.wantType)
			}
			if err := tx.Validate(); err != nil {
				t.Errorf("derived transaction should be valid: %v", err)
			}
		})
	}
}

func TestDeriveTransaction_Fields(t *testing.T) {
	doc := domain.Document{ID: "abc", Name: "acme-invoice.pdf"}
	result := &services.AnalysisResult{
		Category:          "invoices",
		DashboardCategory: "Revenue",
		ExtractedData: map[string]interface{}{
			"amount":       1500.0,
			"invoiceDate":  "15/02/2024",
			"due_date":     "2024-03-15",
			"customer":     "ACME Ltd",
			"validated_at": "2024-02-16T10:00:00.123456",
			"validation_checks": map[string]interface{}{
				"amount_valid":    true,
				"date_valid":      true,
				"payment_overdue": false,
			},
		},
	}

	tx, err := DeriveTransaction(doc, result, testToday)
	if err != nil {
		t.Fatalf("DeriveTransaction failed: %v", err)
	}
	if tx.ID != "abc_transaction" {
		t.Errorf("ID = %q", tx.ID)
	}
	if tx.Date != domain.NewDate(2024, time.February, 15) {
		t.Errorf("Date = %v, want 2024-02-15 from invoiceDate", tx.Date)
	}
	if tx.Description != "acme-invoice.pdf" {
		t.Errorf("Description = %q, want file name fallback", tx.Description)
	}
	if tx.Vendor != "ACME Ltd" {
		t.Errorf("Vendor = %q, want customer fallback", tx.Vendor)
	}
	if tx.DueDate == nil || *tx.DueDate != domain.NewDate(2024, time.March, 15) {
		t.Errorf("DueDate = %v", tx.DueDate)
	}
	if tx.DashboardCategory != "Revenue" || tx.ValidatedAt == "" {
		t.Errorf("unexpected metadata: %+v", tx)
	}
	if tx.ValidationChecks == nil || !tx.ValidationChecks.AmountValid || tx.ValidationChecks.PaymentOverdue {
		t.Errorf("ValidationChecks = %+v", tx.ValidationChecks)
	}
}

func TestDeriveTransaction_DateFallsBackToToday(t *testing.T) {
	tx, err := DeriveTransaction(domain.Document{ID: "d"}, &services.AnalysisResult{
		Category:      "bills",
		ExtractedData: map[string]interface{}{"date": "sometime last week", "description": "Power"},
	}, testToday)
	if err != nil {
		t.Fatalf("DeriveTransaction failed: %v", err)
	}
	if tx.Date != testToday {
		t.Errorf("Date = %v, want today", tx.Date)
	}
	if tx.DueDate != nil {
		t.Errorf("DueDate = %v, want nil", tx.DueDate)
	}
	if tx.Description != "Power" {
		t.Errorf("Description = %q", tx.Description)
	}
}

func TestDeriveTransaction_UnknownCategory(t *testing.T) {
	_, err := DeriveTransaction(domain.Document{ID: "d"}, &services.AnalysisResult{Category: "receipts"}, testToday)
	if !errors.Is(err, ErrNoTransaction) {
		t.Errorf("expected ErrNoTransaction, got %v", err)
	}
	if _, err := DeriveTransaction(domain.Document{ID: "d"}, nil, testToday); !errors.Is(err, ErrNoTransaction) {
		t.Errorf("nil result: expected ErrNoTransaction, got %v", err)
	}
}

func TestSanitizeAmount(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "$1,234.56", want: "1234.56", wantOK: true},
		{in: "-€20", want: "-20", wantOK: true},
		{in: "USD", wantOK: false},
		{in: "1.2.3", want: "1.2", wantOK: true},
		{in: "1.234.56", want: "1.234", wantOK: true},
		{in: "12-5", want: "12", wantOK: true},
		{in: ".5", want: "0.5", wantOK: true},
		{in: "-", wantOK: false},
		{in: "--5", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := sanitizeAmount(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("sanitizeAmount(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("sanitizeAmount(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}
