package pipeline

import (
	"context"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/services"
)

// MockAnalyzer is a mock implementation of services.DocumentAnalyzer.
type MockAnalyzer struct {
	AnalyzeDocumentFunc func(ctx context.Context, filename, mimeType string, content []byte) (*services.AnalysisResult, error)
}

func (m *MockAnalyzer) AnalyzeDocument(ctx context.Context, filename, mimeType string, content []byte) (*services.AnalysisResult, error) {
	if m.AnalyzeDocumentFunc != nil {
		return m.AnalyzeDocumentFunc(ctx, filename, mimeType, content)
	}
	return &services.AnalysisResult{Category: "general-entries"}, nil
}

// MockArchiver is a mock implementation of Archiver.
type MockArchiver struct {
	ArchiveFunc func(ctx context.Context, filename, mimeType string, content []byte) (string, error)
}

func (m *MockArchiver) Archive(ctx context.Context, filename, mimeType string, content []byte) (string, error) {
	if m.ArchiveFunc != nil {
		return m.ArchiveFunc(ctx, filename, mimeType, content)
	}
	return "gs://mock-bucket/uploads/" + filename, nil
}

// MockValidator is a mock implementation of services.DataValidator.
type MockValidator struct {
	ValidateTransactionsFunc func(ctx context.Context, txs []domain.Transaction) (*services.ValidationResponse, error)
}

func (m *MockValidator) ValidateTransactions(ctx context.Context, txs []domain.Transaction) (*services.ValidationResponse, error) {
	if m.ValidateTransactionsFunc != nil {
		return m.ValidateTransactionsFunc(ctx, txs)
	}
	return &services.ValidationResponse{}, nil
}

// MockGenerator is a mock implementation of services.StatementGenerator.
type MockGenerator struct {
	GenerateStatementsFunc func(ctx context.Context, txs []domain.Transaction) (*domain.FinancialStatement, error)
}

func (m *MockGenerator) GenerateStatements(ctx context.Context, txs []domain.Transaction) (*domain.FinancialStatement, error) {
	if m.GenerateStatementsFunc != nil {
		return m.GenerateStatementsFunc(ctx, txs)
	}
	return &domain.FinancialStatement{}, nil
}
