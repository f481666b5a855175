package pipeline

import (
	"context"
	"fmt"

	"github.com/dvloznov/finance-dashboard/internal/corrections"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/dvloznov/finance-dashboard/internal/services"
	"github.com/dvloznov/finance-dashboard/internal/store"
)

// Reviewer runs the validation and statement workflows against the store.
// Neither external call writes to the store unless it succeeds.
type Reviewer struct {
	store     store.Store
	validator services.DataValidator
	generator services.StatementGenerator
}

func NewReviewer(s store.Store, validator services.DataValidator, generator services.StatementGenerator) *Reviewer {
	return &Reviewer{store: s, validator: validator, generator: generator}
}

// Validate sends the current transactions for review. The store is never
// modified here.
func (r *Reviewer) Validate(ctx context.Context) (*services.ValidationResponse, error) {
	txs := r.store.Transactions()
	resp, err := r.validator.ValidateTransactions(ctx, txs)
	if err != nil {
		return nil, fmt.Errorf("Validate: %w", err)
	}

	log := logger.FromContext(ctx)
	log.Info().
		Int("transactions", len(txs)).
		Int("issues_found", resp.IssuesFound).
		Int("corrected", len(resp.CorrectedTransactions)).
		Int("dropped", resp.DroppedTransactions).
		Msg("Validation finished")
	return resp, nil
}

// ApplyCorrections merges corrected transactions into the store.
func (r *Reviewer) ApplyCorrections(ctx context.Context, corrected []domain.Transaction) corrections.Result {
	return corrections.Apply(ctx, r.store, corrected)
}

// ValidateAndApply validates and, if the service proposed corrections,
// applies them.
func (r *Reviewer) ValidateAndApply(ctx context.Context) (*services.ValidationResponse, corrections.Result, error) {
	resp, err := r.Validate(ctx)
	if err != nil {
		return nil, corrections.Result{}, err
	}
	return resp, r.ApplyCorrections(ctx, resp.CorrectedTransactions), nil
}

// GenerateStatements asks the generator for fresh statements and replaces
// the stored ones only on success.
func (r *Reviewer) GenerateStatements(ctx context.Context) (domain.FinancialStatement, error) {
	txs := r.store.Transactions()
	stmt, err := r.generator.GenerateStatements(ctx, txs)
	if err != nil {
		return domain.FinancialStatement{}, fmt.Errorf("GenerateStatements: %w", err)
	}
	if stmt == nil {
		return domain.FinancialStatement{}, fmt.Errorf("GenerateStatements: %w", services.ErrTransport)
	}

	r.store.SetStatements(*stmt)

	log := logger.FromContext(ctx)
	log.Info().
		Int("transactions", len(txs)).
		Int("balance_sheet_items", len(stmt.BalanceSheet)).
		Msg("Financial statements generated")
	return stmt.Clone(), nil
}
