package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dvloznov/finance-dashboard/internal/api/middleware"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/dvloznov/finance-dashboard/internal/pipeline"
	"github.com/dvloznov/finance-dashboard/internal/services"
	"github.com/dvloznov/finance-dashboard/internal/statements"
	"github.com/dvloznov/finance-dashboard/internal/store"
)

// ReviewHandler serves the validation and statement workflows.
type ReviewHandler struct {
	reviewer *pipeline.Reviewer
	store    store.StatementStore
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(reviewer *pipeline.Reviewer, s store.StatementStore) *ReviewHandler {
	return &ReviewHandler{reviewer: reviewer, store: s}
}

// serviceStatus maps a collaborator failure to a response status.
func serviceStatus(err error) int {
	if errors.Is(err, services.ErrTransport) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Validate handles POST /api/validation. The store is not modified.
func (h *ReviewHandler) Validate(w http.ResponseWriter, r *http.Request) {
	resp, err := h.reviewer.Validate(r.Context())
	if err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("Validation failed")
		middleware.WriteError(w, serviceStatus(err), "Validation service unavailable")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, resp)
}

// ApplyCorrections handles POST /api/validation/apply
func (h *ReviewHandler) ApplyCorrections(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CorrectedTransactions []domain.Transaction `json:"corrected_transactions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, h.reviewer.ApplyCorrections(r.Context(), req.CorrectedTransactions))
}

type statementsResponse struct {
	Statements domain.FinancialStatement `json:"statements"`
	Report     statements.Report         `json:"report"`
}

// GetStatements handles GET /api/statements
func (h *ReviewHandler) GetStatements(w http.ResponseWriter, r *http.Request) {
	stmt, ok := h.store.Statements()
	if !ok {
		middleware.WriteError(w, http.StatusNotFound, "No statements generated yet")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, statementsResponse{Statements: stmt, Report: statements.BuildReport(stmt)})
}

// GenerateStatements handles POST /api/statements/generate. On failure the
// previous statements stay in place.
func (h *ReviewHandler) GenerateStatements(w http.ResponseWriter, r *http.Request) {
	stmt, err := h.reviewer.GenerateStatements(r.Context())
	if err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("Statement generation failed")
		middleware.WriteError(w, serviceStatus(err), "Statement generation failed")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, statementsResponse{Statements: stmt, Report: statements.BuildReport(stmt)})
}
