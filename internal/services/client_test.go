package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

func sampleTransactions() []domain.Transaction {
	return []domain.Transaction{{
		ID:       "t1",
		Date:     domain.NewDate(2024, time.January, 5),
		Amount:   decimal.RequireFromString("120.50"),
		Category: domain.CategoryInvoices,
		Type:     domain.Credit,
	}}
}

func TestHTTPClient_AnalyzeDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != analyzePath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		file, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if hdr.Filename != "invoice.pdf" || string(data) != "%PDF-1.4" {
			t.Errorf("unexpected upload %q (%q)", hdr.Filename, data)
		}
		if got := hdr.Header.Get("Content-Type"); got != "application/pdf" {
			t.Errorf("part content type = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"category":"invoices","dashboardCategory":"Revenue","confidence":0.93,"extractedData":{"amount":"1,000.00","vendor":"ACME"}}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", 5*time.Second)
	res, err := c.AnalyzeDocument(context.Background(), "invoice.pdf", "application/pdf", []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("AnalyzeDocument failed: %v", err)
	}
	if res.Category != "invoices" || res.DashboardCategory != "Revenue" {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.Confidence == nil || *res.Confidence != 0.93 {
		t.Errorf("Confidence = %v, want 0.93", res.Confidence)
	}
	if res.ExtractedData["vendor"] != "ACME" {
		t.Errorf("ExtractedData = %v", res.ExtractedData)
	}
}

func TestHTTPClient_ValidateTransactions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != validatePath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var got []map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(got) != 1 || got[0]["amount"] != 120.5 || got[0]["date"] != "2024-01-05" {
			t.Errorf("unexpected request body: %v", got)
		}
		io.WriteString(w, `{
			"issues_found": 1,
			"validation_result": {
				"summary": {"total_issues": 1, "duplicates_found": 0, "amount_errors": 1, "missing_refs": 0, "balance_errors": 0},
				"issues": [{"type": "amount_error", "severity": "high", "transaction_id": "t1", "description": "rounded"}]
			},
			"corrections": [{"action": "updated_amount", "old_amount": 120.5, "new_amount": 120}],
			"corrected_transactions": [{"id": "t1", "date": "2024-01-05", "description": "", "amount": 120, "category": "invoices", "type": "credit"}],
			"message": "1 issue corrected"
		}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, 0)
	res, err := c.ValidateTransactions(context.Background(), sampleTransactions())
	if err != nil {
		t.Fatalf("ValidateTransactions failed: %v", err)
	}
	if res.IssuesFound != 1 || res.ValidationResult == nil || res.ValidationResult.Summary.AmountErrors != 1 {
		t.Errorf("unexpected response: %+v", res)
	}
	if res.ValidationResult.Issues[0].Severity != SeverityHigh {
		t.Errorf("Severity = %q", res.ValidationResult.Issues[0].Severity)
	}
	if len(res.CorrectedTransactions) != 1 || !res.CorrectedTransactions[0].Amount.Equal(decimal.NewFromInt(120)) {
		t.Errorf("CorrectedTransactions = %+v", res.CorrectedTransactions)
	}
}

func TestHTTPClient_GenerateStatements(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{
			"balanceSheet": [{"account": "Cash", "type": "asset", "amount": 700, "category": "Current"}],
			"profitLoss": [], "trialBalance": [], "cashFlow": [],
			"professionalNotes": {"executive_summary": "Healthy", "ai_verified": true}
		}`)
	}))
	defer srv.Close()

	res, err := NewHTTPClient(srv.URL, time.Second).GenerateStatements(context.Background(), nil)
	if err != nil {
		t.Fatalf("GenerateStatements failed: %v", err)
	}
	if len(res.BalanceSheet) != 1 || res.BalanceSheet[0].Type != domain.Asset {
		t.Errorf("BalanceSheet = %+v", res.BalanceSheet)
	}
	if res.ProfessionalNotes == nil || res.ProfessionalNotes.ExecutiveSummary != "Healthy" {
		t.Errorf("ProfessionalNotes = %+v", res.ProfessionalNotes)
	}
}

func TestHTTPClient_GenerateStatementsEmptyLedger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"balanceSheet":[],"profitLoss":[],"trialBalance":[],"cashFlow":[],"professionalNotes":[]}`)
	}))
	defer srv.Close()

	res, err := NewHTTPClient(srv.URL, time.Second).GenerateStatements(context.Background(), nil)
	if err != nil {
		t.Fatalf("GenerateStatements failed: %v", err)
	}
	if res.ProfessionalNotes != nil {
		t.Errorf("ProfessionalNotes = %+v, want nil", res.ProfessionalNotes)
	}
	if len(res.BalanceSheet) != 0 {
		t.Errorf("BalanceSheet = %+v", res.BalanceSheet)
	}
}

func TestHTTPClient_ValidateTransactionsDropsUndecodableRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{
			"issues_found": 2,
			"validation_result": {"summary": {"total_issues": 2}, "issues": []},
			"corrected_transactions": [
				{"id": "t1", "date": "2024-01-02", "description": "ok", "amount": 50, "category": "bills", "type": "debit"},
				{"id": "t2", "date": "N/A", "description": "bad date", "amount": 10, "category": "bills", "type": "debit"}
			],
			"message": "2 issues"
		}`)
	}))
	defer srv.Close()

	res, err := NewHTTPClient(srv.URL, time.Second).ValidateTransactions(context.Background(), sampleTransactions())
	if err != nil {
		t.Fatalf("ValidateTransactions failed: %v", err)
	}
	if res.IssuesFound != 2 || res.ValidationResult == nil || res.Message != "2 issues" {
		t.Errorf("response fields lost: %+v", res)
	}
	if len(res.CorrectedTransactions) != 1 || res.CorrectedTransactions[0].ID != "t1" {
		t.Errorf("CorrectedTransactions = %+v", res.CorrectedTransactions)
	}
	if res.DroppedTransactions != 1 {
		t.Errorf("DroppedTransactions = %d, want 1", res.DroppedTransactions)
	}
}

func TestHTTPClient_TransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL, time.Second).GenerateStatements(context.Background(), sampleTransactions())
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %T", err)
	}
	if se.StatusCode != http.StatusServiceUnavailable || se.Body != "model overloaded" {
		t.Errorf("unexpected status error: %+v", se)
	}

	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()
	_, err = NewHTTPClient(closed.URL, time.Second).ValidateTransactions(context.Background(), nil)
	if !errors.Is(err, ErrTransport) {
		t.Errorf("connection failure should wrap ErrTransport, got %v", err)
	}
}

func TestHTTPClient_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>oops</html>")
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL, time.Second).ValidateTransactions(context.Background(), nil)
	if !errors.Is(err, ErrTransport) {
		t.Errorf("undecodable body should wrap ErrTransport, got %v", err)
	}
}

func TestHTTPClient_HonorsContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewHTTPClient(srv.URL, 0).GenerateStatements(ctx, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}
