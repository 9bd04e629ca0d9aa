package ledger

import (
	"context"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dansever/estait-app-sub000/internal/domain/leasing"
	"github.com/dansever/estait-app-sub000/internal/domain/ledger"
	"github.com/dansever/estait-app-sub000/internal/domain/property"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockLeaseRepository is a mock implementation of LeaseRepository
type MockLeaseRepository struct {
	mock.Mock
}

func (m *MockLeaseRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*leasing.Lease, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Lease), args.Error(1)
}

func (m *MockLeaseRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]leasing.Lease, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]leasing.Lease), args.Error(1)
}

func (m *MockLeaseRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeaseRepository) FindByProperty(ctx context.Context, ownerID, propertyID uuid.UUID) ([]leasing.Lease, error) {
	args := m.Called(ctx, ownerID, propertyID)
	return args.Get(0).([]leasing.Lease), args.Error(1)
}

func (m *MockLeaseRepository) FindUnexpired(ctx context.Context, ownerID uuid.UUID, since civil.Date) ([]leasing.Lease, error) {
	args := m.Called(ctx, ownerID, since)
	return args.Get(0).([]leasing.Lease), args.Error(1)
}

func (m *MockLeaseRepository) FindOwnersWithLeases(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockLeaseRepository) CountByTenant(ctx context.Context, ownerID, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeaseRepository) CountByProperty(ctx context.Context, ownerID, propertyID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID, propertyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeaseRepository) CountLiveByProperty(ctx context.Context, ownerID, propertyID uuid.UUID, asOf civil.Date) (int64, error) {
	args := m.Called(ctx, ownerID, propertyID, asOf)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeaseRepository) SaveExclusive(ctx context.Context, lease *leasing.Lease) error {
	args := m.Called(ctx, lease)
	return args.Error(0)
}

func (m *MockLeaseRepository) Save(ctx context.Context, lease *leasing.Lease) error {
	args := m.Called(ctx, lease)
	return args.Error(0)
}

func (m *MockLeaseRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

// MockPropertyRepository is a mock implementation of PropertyRepository
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*property.Property, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]property.Property, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]property.Property), args.Error(1)
}

func (m *MockPropertyRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPropertyRepository) ExistsForOwner(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, ownerID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPropertyRepository) Save(ctx context.Context, p *property.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPropertyRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*ledger.Transaction, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]ledger.Transaction, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) FindInPeriod(ctx context.Context, ownerID uuid.UUID, propertyID *uuid.UUID, from, to civil.Date) ([]ledger.Transaction, error) {
	args := m.Called(ctx, ownerID, propertyID, from, to)
	return args.Get(0).([]ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ExistsByReference(ctx context.Context, ownerID uuid.UUID, reference string) (bool, error) {
	args := m.Called(ctx, ownerID, reference)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) Save(ctx context.Context, t *ledger.Transaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

// memoryStore is an in-process IdempotencyStore
type memoryStore struct {
	mu   sync.Mutex
	keys map[string]struct{}
	err  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{keys: make(map[string]struct{})}
}

func (s *memoryStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if _, ok := s.keys[key]; ok {
		return false, nil
	}
	s.keys[key] = struct{}{}
	return true, nil
}

func (s *memoryStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.keys[key]
	return ok, nil
}

func (s *memoryStore) Close() error { return nil }

// recordingPublisher collects published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.EventType()
	}
	return types
}

func clockAt(date string) shared.Clock {
	d, err := civil.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return shared.FixedClock{At: d.In(time.UTC).Add(9 * time.Hour)}
}

func day(s string) civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}
