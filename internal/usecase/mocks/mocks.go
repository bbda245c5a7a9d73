// Package mocks provides hand-written in-memory fakes for the usecase
// repository interfaces. Each method can be overridden per test by setting
// the corresponding XxxFunc field; otherwise a simple in-memory default
// behavior applies.
package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iho/sochitieu/internal/domain"
)

// MockTransactionRepository is a mock implementation of
// usecase.TransactionRepository backed by an in-memory map.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[int64]domain.Transaction
	nextID       int64

	FetchAllFunc func(ctx context.Context) ([]domain.Transaction, error)
	InsertFunc   func(ctx context.Context, input domain.TransactionInput) (domain.Transaction, error)
	GetByIDFunc  func(ctx context.Context, id int64) (domain.Transaction, error)
	UpdateFunc   func(ctx context.Context, id int64, patch domain.TransactionPatch) (domain.Transaction, error)
	DeleteFunc   func(ctx context.Context, id int64) error
	ClearAllFunc func(ctx context.Context) error
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[int64]domain.Transaction),
	}
}

func (m *MockTransactionRepository) FetchAll(ctx context.Context) ([]domain.Transaction, error) {
	if m.FetchAllFunc != nil {
		return m.FetchAllFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Transaction, 0, len(m.transactions))
	for _, tx := range m.transactions {
		out = append(out, tx)
	}
	return out, nil
}

func (m *MockTransactionRepository) Insert(ctx context.Context, input domain.TransactionInput) (domain.Transaction, error) {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, input)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	now := time.Now().UTC()
	tx := domain.Transaction{
		ID:        m.nextID,
		Amount:    input.Amount,
		Type:      input.Type,
		Category:  input.Category,
		Date:      input.Date,
		Note:      input.Note,
		Wallet:    input.Wallet,
		Tags:      input.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.transactions[tx.ID] = tx
	return tx, nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id int64) (domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if tx, ok := m.transactions[id]; ok {
		return tx, nil
	}
	return domain.Transaction{}, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) Update(ctx context.Context, id int64, patch domain.TransactionPatch) (domain.Transaction, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.transactions[id]
	if !ok {
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}
	merged := patch.Apply(current)
	merged.UpdatedAt = time.Now().UTC()
	m.transactions[id] = merged
	return merged, nil
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.transactions, id)
	return nil
}

func (m *MockTransactionRepository) ClearAll(ctx context.Context) error {
	if m.ClearAllFunc != nil {
		return m.ClearAllFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = make(map[int64]domain.Transaction)
	return nil
}

// MockCategoryRepository is a mock implementation of
// usecase.CategoryRepository.
type MockCategoryRepository struct {
	mu         sync.RWMutex
	categories []domain.CategoryMeta

	ListCustomFunc   func(ctx context.Context) ([]domain.CategoryMeta, error)
	InsertCustomFunc func(ctx context.Context, category domain.CategoryMeta) error
	DeleteCustomFunc func(ctx context.Context, id string) error
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{}
}

func (m *MockCategoryRepository) ListCustom(ctx context.Context) ([]domain.CategoryMeta, error) {
	if m.ListCustomFunc != nil {
		return m.ListCustomFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.CategoryMeta, len(m.categories))
	copy(out, m.categories)
	return out, nil
}

func (m *MockCategoryRepository) InsertCustom(ctx context.Context, category domain.CategoryMeta) error {
	if m.InsertCustomFunc != nil {
		return m.InsertCustomFunc(ctx, category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories = append(m.categories, category)
	return nil
}

func (m *MockCategoryRepository) DeleteCustom(ctx context.Context, id string) error {
	if m.DeleteCustomFunc != nil {
		return m.DeleteCustomFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.categories[:0]
	for _, c := range m.categories {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	m.categories = kept
	return nil
}

// MockIDGenerator is a deterministic mock implementation of
// usecase.IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("ID%06d", m.counter)
}
