package leasing

import (
	"context"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dansever/estait-app-sub000/internal/domain/leasing"
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

// MockTenantRepository is a mock implementation of TenantRepository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*property.Tenant, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]property.Tenant, error) {
	args := m.Called(ctx, ownerID, ids)
	return args.Get(0).([]property.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]property.Tenant, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]property.Tenant), args.Error(1)
}

func (m *MockTenantRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTenantRepository) ExistsByEmail(ctx context.Context, ownerID uuid.UUID, email string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, ownerID, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTenantRepository) Save(ctx context.Context, t *property.Tenant) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTenantRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

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
