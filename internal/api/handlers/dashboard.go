package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/accrual"
	"github.com/dvloznov/finance-dashboard/internal/api/middleware"
	"github.com/dvloznov/finance-dashboard/internal/cashflow"
	"github.com/dvloznov/finance-dashboard/internal/metrics"
	"github.com/dvloznov/finance-dashboard/internal/store"
)

// DashboardHandler serves the figures derived from the transaction list.
// Everything is recomputed per request.
type DashboardHandler struct {
	store store.TransactionStore
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(s store.TransactionStore) *DashboardHandler {
	return &DashboardHandler{store: s}
}

// GetMetrics handles GET /api/metrics
func (h *DashboardHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	m := metrics.Aggregate(h.store.Transactions())

	middleware.WriteJSON(w, http.StatusOK, struct {
		metrics.Metrics
		DisplayCashBalance decimal.Decimal `json:"displayCashBalance"`
	}{m, m.DisplayCashBalance()})
}

// GetCashFlow handles GET /api/cashflow
func (h *DashboardHandler) GetCashFlow(w http.ResponseWriter, r *http.Request) {
	flows := cashflow.Bucketize(h.store.Transactions())
	inflow, outflow := cashflow.Totals(flows)

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"months":       flows,
		"totalInflow":  inflow,
		"totalOutflow": outflow,
	})
}

// GetSummary handles GET /api/summary
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, metrics.Summarize(h.store.Transactions()))
}

// GetRules handles GET /api/rules
func (h *DashboardHandler) GetRules(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version": accrual.Version,
		"rules":   accrual.Rules(),
	})
}
