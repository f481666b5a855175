package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dvloznov/finance-dashboard/internal/api/middleware"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/dvloznov/finance-dashboard/internal/store"
)

// TransactionsHandler handles transaction-related endpoints.
type TransactionsHandler struct {
	store store.TransactionStore
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(s store.TransactionStore) *TransactionsHandler {
	return &TransactionsHandler{store: s}
}

type mutationResponse struct {
	Applied     bool                `json:"applied"`
	Transaction *domain.Transaction `json:"transaction,omitempty"`
}

// ListTransactions handles GET /api/transactions
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	// Return array directly for frontend compatibility
	middleware.WriteJSON(w, http.StatusOK, h.store.Transactions())
}

func decodeTransaction(w http.ResponseWriter, r *http.Request) (domain.Transaction, bool) {
	var tx domain.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return tx, false
	}
	return tx, true
}

// CreateTransaction handles POST /api/transactions. A duplicate id is not an
// error; the response reports applied=false.
func (h *TransactionsHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	tx, ok := decodeTransaction(w, r)
	if !ok {
		return
	}
	if err := tx.Validate(); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	applied := h.store.AddTransaction(tx)
	if applied {
		log := logger.FromContext(r.Context())
		log.Info().Str("transaction_id", tx.ID).Msg("Transaction added")
	}

	status := http.StatusCreated
	if !applied {
		status = http.StatusOK
	}
	middleware.WriteJSON(w, status, mutationResponse{Applied: applied, Transaction: &tx})
}

// UpdateTransaction handles PUT /api/transactions/{id}
func (h *TransactionsHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tx, ok := decodeTransaction(w, r)
	if !ok {
		return
	}
	if tx.ID == "" {
		tx.ID = id
	}
	if tx.ID != id {
		middleware.WriteError(w, http.StatusBadRequest, "Transaction id does not match path")
		return
	}
	if err := tx.Validate(); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	applied := h.store.UpdateTransaction(tx)
	middleware.WriteJSON(w, http.StatusOK, mutationResponse{Applied: applied, Transaction: &tx})
}

// DeleteTransaction handles DELETE /api/transactions/{id}
func (h *TransactionsHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	applied := h.store.RemoveTransaction(chi.URLParam(r, "id"))
	middleware.WriteJSON(w, http.StatusOK, mutationResponse{Applied: applied})
}
