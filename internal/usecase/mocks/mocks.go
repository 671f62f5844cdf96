// Package mocks provides hand-written fakes for the usecase interfaces.
// Each fake keeps simple in-memory state and exposes overridable Func
// fields for forcing specific behavior in tests.
package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tripledger/tripledger/internal/domain"
	"github.com/tripledger/tripledger/internal/usecase"
)

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip

	CreateFunc      func(ctx context.Context, trip *domain.Trip) error
	GetByIDFunc     func(ctx context.Context, id string) (*domain.Trip, error)
	ListFunc        func(ctx context.Context, status string, limit, offset int) ([]*domain.Trip, error)
	UpdateFunc      func(ctx context.Context, trip *domain.Trip) error
	DeleteFunc      func(ctx context.Context, id string) error
	BumpVersionFunc func(ctx context.Context, tx usecase.Transaction, id string, updatedAt time.Time) (int64, error)
}

func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[string]*domain.Trip),
	}
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, trip)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if trip, ok := m.trips[id]; ok {
		return trip, nil
	}
	return nil, domain.ErrTripNotFound
}

func (m *MockTripRepository) List(ctx context.Context, status string, limit, offset int) ([]*domain.Trip, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, status, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var trips []*domain.Trip
	for _, trip := range m.trips {
		if status == "" || trip.Status == status {
			trips = append(trips, trip)
		}
	}
	sort.Slice(trips, func(i, j int) bool { return trips[i].ID < trips[j].ID })
	return trips, nil
}

func (m *MockTripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, trip)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[trip.ID]; !ok {
		return domain.ErrTripNotFound
	}
	m.trips[trip.ID] = trip
	return nil
}

func (m *MockTripRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[id]; !ok {
		return domain.ErrTripNotFound
	}
	delete(m.trips, id)
	return nil
}

func (m *MockTripRepository) BumpVersion(ctx context.Context, tx usecase.Transaction, id string, updatedAt time.Time) (int64, error) {
	if m.BumpVersionFunc != nil {
		return m.BumpVersionFunc(ctx, tx, id, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	trip, ok := m.trips[id]
	if !ok {
		return 0, domain.ErrTripNotFound
	}
	trip.Version++
	trip.UpdatedAt = updatedAt
	return trip.Version, nil
}

// MockMemberRepository is a mock implementation of MemberRepository.
type MockMemberRepository struct {
	mu      sync.RWMutex
	members map[string]*domain.Member

	CreateFunc          func(ctx context.Context, member *domain.Member) error
	GetByIDFunc         func(ctx context.Context, id string) (*domain.Member, error)
	ListByTripFunc      func(ctx context.Context, tripID string) ([]*domain.Member, error)
	UpdateFunc          func(ctx context.Context, member *domain.Member) error
	DeleteFunc          func(ctx context.Context, id string) error
	CountReferencesFunc func(ctx context.Context, memberID string) (int64, error)
}

func NewMockMemberRepository() *MockMemberRepository {
	return &MockMemberRepository{
		members: make(map[string]*domain.Member),
	}
}

func (m *MockMemberRepository) Create(ctx context.Context, member *domain.Member) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, member)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[member.ID] = member
	return nil
}

func (m *MockMemberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if member, ok := m.members[id]; ok {
		return member, nil
	}
	return nil, domain.ErrMemberNotFound
}

func (m *MockMemberRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.Member, error) {
	if m.ListByTripFunc != nil {
		return m.ListByTripFunc(ctx, tripID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var members []*domain.Member
	for _, member := range m.members {
		if member.TripID == tripID {
			members = append(members, member)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, nil
}

func (m *MockMemberRepository) Update(ctx context.Context, member *domain.Member) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, member)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.members[member.ID]; !ok {
		return domain.ErrMemberNotFound
	}
	m.members[member.ID] = member
	return nil
}

func (m *MockMemberRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.members[id]; !ok {
		return domain.ErrMemberNotFound
	}
	delete(m.members, id)
	return nil
}

func (m *MockMemberRepository) CountReferences(ctx context.Context, memberID string) (int64, error) {
	if m.CountReferencesFunc != nil {
		return m.CountReferencesFunc(ctx, memberID)
	}
	return 0, nil
}

// MockWalletRepository is a mock implementation of WalletRepository.
type MockWalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet

	CreateFunc         func(ctx context.Context, wallet *domain.Wallet) error
	GetByIDFunc        func(ctx context.Context, id string) (*domain.Wallet, error)
	ListByTripFunc     func(ctx context.Context, tripID string) ([]*domain.Wallet, error)
	UpdateFunc         func(ctx context.Context, wallet *domain.Wallet) error
	DeleteFunc         func(ctx context.Context, id string) error
	ReplaceMembersFunc func(ctx context.Context, walletID string, memberIDs []string) error
}

func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		wallets: make(map[string]*domain.Wallet),
	}
}

func (m *MockWalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, wallet)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[wallet.ID] = wallet
	return nil
}

func (m *MockWalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if wallet, ok := m.wallets[id]; ok {
		return wallet, nil
	}
	return nil, domain.ErrWalletNotFound
}

func (m *MockWalletRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.Wallet, error) {
	if m.ListByTripFunc != nil {
		return m.ListByTripFunc(ctx, tripID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var wallets []*domain.Wallet
	for _, wallet := range m.wallets {
		if wallet.TripID == tripID {
			wallets = append(wallets, wallet)
		}
	}
	sort.Slice(wallets, func(i, j int) bool { return wallets[i].ID < wallets[j].ID })
	return wallets, nil
}

func (m *MockWalletRepository) Update(ctx context.Context, wallet *domain.Wallet) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, wallet)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.wallets[wallet.ID]; !ok {
		return domain.ErrWalletNotFound
	}
	m.wallets[wallet.ID] = wallet
	return nil
}

func (m *MockWalletRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.wallets[id]; !ok {
		return domain.ErrWalletNotFound
	}
	delete(m.wallets, id)
	return nil
}

func (m *MockWalletRepository) ReplaceMembers(ctx context.Context, walletID string, memberIDs []string) error {
	if m.ReplaceMembersFunc != nil {
		return m.ReplaceMembersFunc(ctx, walletID, memberIDs)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	wallet, ok := m.wallets[walletID]
	if !ok {
		return domain.ErrWalletNotFound
	}
	wallet.MemberIDs = memberIDs
	return nil
}

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mu         sync.RWMutex
	categories map[string]*domain.Category

	CreateFunc  func(ctx context.Context, category *domain.Category) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Category, error)
	ListFunc    func(ctx context.Context) ([]*domain.Category, error)
	UpdateFunc  func(ctx context.Context, category *domain.Category) error
	DeleteFunc  func(ctx context.Context, id string) error
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		categories: make(map[string]*domain.Category),
	}
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[category.ID] = category
	return nil
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if category, ok := m.categories[id]; ok {
		return category, nil
	}
	return nil, domain.ErrCategoryNotFound
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var categories []*domain.Category
	for _, category := range m.categories {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].SortOrder != categories[j].SortOrder {
			return categories[i].SortOrder < categories[j].SortOrder
		}
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[category.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	m.categories[category.ID] = category
	return nil
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu   sync.RWMutex
	txns map[string]*domain.Transaction

	CreateTxFunc   func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	GetByIDFunc    func(ctx context.Context, id string) (*domain.Transaction, error)
	UpdateTxFunc   func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	DeleteTxFunc   func(ctx context.Context, tx usecase.Transaction, id string) error
	ListFunc       func(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error)
	ListByTripFunc func(ctx context.Context, tripID string) ([]*domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		txns: make(map[string]*domain.Transaction),
	}
}

func (m *MockTransactionRepository) CreateTx(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txns[txn.ID] = txn
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if txn, ok := m.txns[id]; ok {
		return txn, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) UpdateTx(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.UpdateTxFunc != nil {
		return m.UpdateTxFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.txns[txn.ID]; !ok {
		return domain.ErrTransactionNotFound
	}
	m.txns[txn.ID] = txn
	return nil
}

func (m *MockTransactionRepository) DeleteTx(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteTxFunc != nil {
		return m.DeleteTxFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.txns[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(m.txns, id)
	return nil
}

func (m *MockTransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txns []*domain.Transaction
	for _, txn := range m.txns {
		if filter.TripID != "" && txn.TripID != filter.TripID {
			continue
		}
		if filter.Type != "" && txn.Type != filter.Type {
			continue
		}
		if filter.CategoryID != "" && txn.CategoryID != filter.CategoryID {
			continue
		}
		txns = append(txns, txn)
	}
	sort.Slice(txns, func(i, j int) bool { return txns[i].OccurredAt.Before(txns[j].OccurredAt) })
	return txns, nil
}

func (m *MockTransactionRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.Transaction, error) {
	if m.ListByTripFunc != nil {
		return m.ListByTripFunc(ctx, tripID)
	}
	return m.List(ctx, domain.TransactionFilter{TripID: tripID})
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
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
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]byte),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key], nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	m.data[key] = response
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
