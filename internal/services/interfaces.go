package services

import (
	"context"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// DocumentAnalyzer classifies a document and extracts its financial fields.
type DocumentAnalyzer interface {
	AnalyzeDocument(ctx context.Context, filename, mimeType string, content []byte) (*AnalysisResult, error)
}

// DataValidator reviews the transaction list and proposes corrections.
type DataValidator interface {
	ValidateTransactions(ctx context.Context, txs []domain.Transaction) (*ValidationResponse, error)
}

// StatementGenerator produces a complete set of financial statements.
type StatementGenerator interface {
	GenerateStatements(ctx context.Context, txs []domain.Transaction) (*domain.FinancialStatement, error)
}
