// Package store owns the session state: transactions, documents and the
// current financial statement.
package store

import (
	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// TransactionStore is the id-keyed collection of transactions. Add of an
// existing id and Update/Remove of an absent id are no-ops reporting false.
type TransactionStore interface {
	AddTransaction(tx domain.Transaction) bool
	UpdateTransaction(tx domain.Transaction) bool
	RemoveTransaction(id string) bool
	Transaction(id string) (domain.Transaction, bool)
	Transactions() []domain.Transaction
}

// DocumentStore mirrors TransactionStore for uploaded documents.
type DocumentStore interface {
	AddDocument(doc domain.Document) bool
	UpdateDocument(doc domain.Document) bool
	RemoveDocument(id string) bool
	Document(id string) (domain.Document, bool)
	Documents() []domain.Document
}

// StatementStore holds the last generated financial statement.
type StatementStore interface {
	Statements() (domain.FinancialStatement, bool)
	SetStatements(s domain.FinancialStatement)
}

// Store is the full session state.
type Store interface {
	TransactionStore
	DocumentStore
	StatementStore
}
