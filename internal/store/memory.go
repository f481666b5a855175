package store

import (
	"sync"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

var _ Store = (*Memory)(nil)

// Memory is an in-memory Store. Records keep insertion order and every
// accessor returns copies.
type Memory struct {
	mu           sync.RWMutex
	transactions []domain.Transaction
	documents    []domain.Document
	statement    *domain.FinancialStatement
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{}
}

// NewMemoryWith creates a store seeded with txs. Later duplicates of an id
// are dropped.
func NewMemoryWith(txs []domain.Transaction) *Memory {
	m := NewMemory()
	for _, tx := range txs {
		m.AddTransaction(tx)
	}
	return m
}

func (m *Memory) indexOfTransaction(id string) int {
	for i := range m.transactions {
		if m.transactions[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Memory) AddTransaction(tx domain.Transaction) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexOfTransaction(tx.ID) >= 0 {
		return false
	}
	m.transactions = append(m.transactions, tx.Clone())
	return true
}

func (m *Memory) UpdateTransaction(tx domain.Transaction) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOfTransaction(tx.ID)
	if i < 0 {
		return false
	}
	m.transactions[i] = tx.Clone()
	return true
}

func (m *Memory) RemoveTransaction(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOfTransaction(id)
	if i < 0 {
		return false
	}
	m.transactions = append(m.transactions[:i], m.transactions[i+1:]...)
	return true
}

func (m *Memory) Transaction(id string) (domain.Transaction, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOfTransaction(id)
	if i < 0 {
		return domain.Transaction{}, false
	}
	return m.transactions[i].Clone(), true
}

func (m *Memory) Transactions() []domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Transaction, len(m.transactions))
	for i, tx := range m.transactions {
		out[i] = tx.Clone()
	}
	return out
}

func (m *Memory) indexOfDocument(id string) int {
	for i := range m.documents {
		if m.documents[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Memory) AddDocument(doc domain.Document) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexOfDocument(doc.ID) >= 0 {
		return false
	}
	m.documents = append(m.documents, doc.Clone())
	return true
}

func (m *Memory) UpdateDocument(doc domain.Document) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOfDocument(doc.ID)
	if i < 0 {
		return false
	}
	m.documents[i] = doc.Clone()
	return true
}

// RemoveDocument drops the document and the transaction derived from it.
func (m *Memory) RemoveDocument(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOfDocument(id)
	if i < 0 {
		return false
	}
	m.documents = append(m.documents[:i], m.documents[i+1:]...)
	if j := m.indexOfTransaction(domain.TransactionIDFor(id)); j >= 0 {
		m.transactions = append(m.transactions[:j], m.transactions[j+1:]...)
	}
	return true
}

func (m *Memory) Document(id string) (domain.Document, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOfDocument(id)
	if i < 0 {
		return domain.Document{}, false
	}
	return m.documents[i].Clone(), true
}

func (m *Memory) Documents() []domain.Document {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Document, len(m.documents))
	for i, doc := range m.documents {
		out[i] = doc.Clone()
	}
	return out
}

// Statements returns the current statement and whether one has been set.
func (m *Memory) Statements() (domain.FinancialStatement, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.statement == nil {
		return domain.FinancialStatement{}, false
	}
	return m.statement.Clone(), true
}

func (m *Memory) SetStatements(s domain.FinancialStatement) {
	c := s.Clone()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.statement = &c
}
