package leasing

import (
	"context"
	"testing"

	"github.com/dansever/estait-app-sub000/internal/domain/leasing"
	"github.com/dansever/estait-app-sub000/internal/domain/property"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/dansever/estait-app-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	leases     *MockLeaseRepository
	properties *MockPropertyRepository
	tenants    *MockTenantRepository
	publisher  *recordingPublisher
	service    *LeaseService
}

func newServiceFixture(today string) *serviceFixture {
	f := &serviceFixture{
		leases:     new(MockLeaseRepository),
		properties: new(MockPropertyRepository),
		tenants:    new(MockTenantRepository),
		publisher:  &recordingPublisher{},
	}
	f.service = NewLeaseService(f.leases, f.properties, f.tenants, f.publisher, clockAt(today))
	return f
}

func newTestProperty(t *testing.T, ownerID uuid.UUID) *property.Property {
	t.Helper()
	addr, err := valueobject.NewAddress("1 Harbor Rd", "Haifa")
	require.NoError(t, err)
	p, err := property.NewProperty(ownerID, "Harbor View", property.TypeApartment, addr,
		property.WithDetails(property.Details{Currency: "ILS"}))
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func newTestLease(t *testing.T, ownerID, propertyID uuid.UUID, start, end string) *leasing.Lease {
	t.Helper()
	dueDay := 1
	lease, err := leasing.NewLease(ownerID, propertyID, day(start), day(end), leasing.Terms{
		RentAmount:    decimal.NewFromInt(1500),
		PaymentDueDay: &dueDay,
	})
	require.NoError(t, err)
	lease.ClearDomainEvents()
	return lease
}

func rent(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestLeaseService_Create(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("rejects invalid ranges before touching storage", func(t *testing.T) {
		f := newServiceFixture("2024-07-01")

		_, err := f.service.Create(ctx, ownerID, CreateLeaseRequest{
			PropertyID: uuid.New(), LeaseStart: "2024-05-01", LeaseEnd: "2024-05-01", RentAmount: rent(100),
		})
		assert.ErrorIs(t, err, leasing.ErrEndBeforeStart)

		_, err = f.service.Create(ctx, ownerID, CreateLeaseRequest{
			PropertyID: uuid.New(), LeaseStart: "not-a-date", LeaseEnd: "2024-05-01", RentAmount: rent(100),
		})
		assert.ErrorIs(t, err, leasing.ErrInvalidRange)

		f.properties.AssertNotCalled(t, "FindByIDForOwner", mock.Anything, mock.Anything, mock.Anything)
		f.leases.AssertNotCalled(t, "SaveExclusive", mock.Anything, mock.Anything)
	})

	t.Run("records lease with renter through the exclusive write", func(t *testing.T) {
		f := newServiceFixture("2024-07-01")
		prop := newTestProperty(t, ownerID)
		tenant, err := property.NewTenant(ownerID, "Noa", "Katz", property.ContactInfo{}, "")
		require.NoError(t, err)

		f.properties.On("FindByIDForOwner", ctx, ownerID, prop.ID).Return(prop, nil)
		f.tenants.On("FindByIDForOwner", ctx, ownerID, tenant.ID).Return(tenant, nil)
		f.tenants.On("FindByIDs", ctx, ownerID, []uuid.UUID{tenant.ID}).Return([]property.Tenant{*tenant}, nil)
		f.leases.On("SaveExclusive", ctx, mock.MatchedBy(func(l *leasing.Lease) bool {
			return l.PropertyID == prop.ID && l.Version == 1 && l.TenantID != nil && *l.TenantID == tenant.ID
		})).Return(nil)

		dueDay := 5
		resp, err := f.service.Create(ctx, ownerID, CreateLeaseRequest{
			PropertyID:    prop.ID,
			TenantID:      &tenant.ID,
			LeaseStart:    "2024-01-01",
			LeaseEnd:      "2024-12-31",
			RentAmount:    rent(4200),
			PaymentDueDay: &dueDay,
			Notes:         "first lease",
		})
		require.NoError(t, err)

		assert.Equal(t, leasing.StatusActive, resp.Status)
		assert.True(t, resp.IsActive)
		assert.Equal(t, "ILS", resp.Currency)
		assert.Equal(t, "Noa Katz", resp.TenantName)
		assert.Equal(t, 365, resp.Progress.TotalDays)
		assert.Equal(t, 183, resp.Progress.DaysRemaining)
		require.NotNil(t, resp.NextPaymentDate)
		assert.Equal(t, day("2024-07-05"), *resp.NextPaymentDate)
		assert.Equal(t, []string{leasing.EventTypeLeaseCreated}, f.publisher.types())
		f.leases.AssertExpectations(t)
	})

	t.Run("accepts timestamps the request binding accepts", func(t *testing.T) {
		f := newServiceFixture("2024-07-01")
		prop := newTestProperty(t, ownerID)
		f.properties.On("FindByIDForOwner", ctx, ownerID, prop.ID).Return(prop, nil)
		f.leases.On("SaveExclusive", ctx, mock.MatchedBy(func(l *leasing.Lease) bool {
			return l.LeaseStart == day("2024-01-01") && l.LeaseEnd == day("2024-12-31")
		})).Return(nil)

		resp, err := f.service.Create(ctx, ownerID, CreateLeaseRequest{
			PropertyID: prop.ID, LeaseStart: "2024-01-01T00:00:00Z", LeaseEnd: "2024-12-31T00:00:00Z", RentAmount: rent(100),
		})
		require.NoError(t, err)
		assert.Equal(t, leasing.StatusActive, resp.Status)
		f.leases.AssertExpectations(t)
	})

	t.Run("surfaces overlap conflicts", func(t *testing.T) {
		f := newServiceFixture("2024-07-01")
		prop := newTestProperty(t, ownerID)
		f.properties.On("FindByIDForOwner", ctx, ownerID, prop.ID).Return(prop, nil)
		f.leases.On("SaveExclusive", ctx, mock.Anything).Return(leasing.ErrLeaseOverlap)

		_, err := f.service.Create(ctx, ownerID, CreateLeaseRequest{
			PropertyID: prop.ID, LeaseStart: "2024-01-01", LeaseEnd: "2024-12-31", RentAmount: rent(100),
		})
		assert.ErrorIs(t, err, leasing.ErrLeaseOverlap)
		assert.Empty(t, f.publisher.types())
	})

	t.Run("rejects archived property", func(t *testing.T) {
		f := newServiceFixture("2024-07-01")
		prop := newTestProperty(t, ownerID)
		require.NoError(t, prop.Archive())
		f.properties.On("FindByIDForOwner", ctx, ownerID, prop.ID).Return(prop, nil)

		_, err := f.service.Create(ctx, ownerID, CreateLeaseRequest{
			PropertyID: prop.ID, LeaseStart: "2024-01-01", LeaseEnd: "2024-12-31", RentAmount: rent(100),
		})
		assert.ErrorIs(t, err, ErrPropertyArchived)
	})

	t.Run("rejects unknown renter", func(t *testing.T) {
		f := newServiceFixture("2024-07-01")
		prop := newTestProperty(t, ownerID)
		tenantID := uuid.New()
		f.properties.On("FindByIDForOwner", ctx, ownerID, prop.ID).Return(prop, nil)
		f.tenants.On("FindByIDForOwner", ctx, ownerID, tenantID).Return(nil, shared.ErrNotFound)

		_, err := f.service.Create(ctx, ownerID, CreateLeaseRequest{
			PropertyID: prop.ID, TenantID: &tenantID, LeaseStart: "2024-01-01", LeaseEnd: "2024-12-31", RentAmount: rent(100),
		})
		assert.ErrorIs(t, err, ErrTenantNotFound)
	})

	t.Run("requires rent", func(t *testing.T) {
		f := newServiceFixture("2024-07-01")
		_, err := f.service.Create(ctx, ownerID, CreateLeaseRequest{
			PropertyID: uuid.New(), LeaseStart: "2024-01-01", LeaseEnd: "2024-12-31",
		})
		assert.ErrorIs(t, err, ErrRentRequired)
	})
}

func TestLeaseService_Update(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	propertyID := uuid.New()

	t.Run("stale version is a conflict", func(t *testing.T) {
		f := newServiceFixture("2024-07-01")
		lease := newTestLease(t, ownerID, propertyID, "2024-01-01", "2024-12-31")
		f.leases.On("FindByIDForOwner", ctx, ownerID, lease.ID).Return(lease, nil)

		_, err := f.service.Update(ctx, ownerID, lease.ID, UpdateLeaseRequest{Version: lease.Version + 1})
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("period change goes through the overlap check", func(t *testing.T) {
		f := newServiceFixture("2024-07-01")
		lease := newTestLease(t, ownerID, propertyID, "2024-01-01", "2024-12-31")
		f.leases.On("FindByIDForOwner", ctx, ownerID, lease.ID).Return(lease, nil)
		f.leases.On("SaveExclusive", ctx, lease).Return(nil)

		end := "2025-06-30"
		resp, err := f.service.Update(ctx, ownerID, lease.ID, UpdateLeaseRequest{LeaseEnd: &end, Version: lease.Version})
		require.NoError(t, err)
		assert.Equal(t, day("2025-06-30"), resp.LeaseEnd)
		assert.Equal(t, 2, resp.Version)
		f.leases.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("term change saves directly", func(t *testing.T) {
		f := newServiceFixture("2024-07-01")
		lease := newTestLease(t, ownerID, propertyID, "2024-01-01", "2024-12-31")
		f.leases.On("FindByIDForOwner", ctx, ownerID, lease.ID).Return(lease, nil)
		f.leases.On("Save", ctx, lease).Return(nil)

		resp, err := f.service.Update(ctx, ownerID, lease.ID, UpdateLeaseRequest{
			RentAmount:  rent(1650),
			ClearDueDay: true,
			Version:     lease.Version,
		})
		require.NoError(t, err)
		assert.True(t, resp.RentAmount.Equal(decimal.NewFromInt(1650)))
		assert.Nil(t, resp.PaymentDueDay)
		assert.Nil(t, resp.NextPaymentDate)
		f.leases.AssertNotCalled(t, "SaveExclusive", mock.Anything, mock.Anything)
		assert.Equal(t, []string{leasing.EventTypeLeaseUpdated}, f.publisher.types())
	})

	t.Run("invalid new end", func(t *testing.T) {
		f := newServiceFixture("2024-07-01")
		lease := newTestLease(t, ownerID, propertyID, "2024-01-01", "2024-12-31")
		f.leases.On("FindByIDForOwner", ctx, ownerID, lease.ID).Return(lease, nil)

		end := "2023-12-31"
		_, err := f.service.Update(ctx, ownerID, lease.ID, UpdateLeaseRequest{LeaseEnd: &end, Version: lease.Version})
		assert.ErrorIs(t, err, leasing.ErrEndBeforeStart)
	})
}

func TestLeaseService_TerminateAndReinstate(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	f := newServiceFixture("2024-07-01")
	lease := newTestLease(t, ownerID, uuid.New(), "2024-01-01", "2024-12-31")

	f.leases.On("FindByIDForOwner", ctx, ownerID, lease.ID).Return(lease, nil)
	f.leases.On("Save", ctx, lease).Return(nil).Once()

	resp, err := f.service.Terminate(ctx, ownerID, lease.ID, TerminateLeaseRequest{TerminatedAt: "2024-06-15", Reason: "moved abroad"})
	require.NoError(t, err)
	assert.Equal(t, leasing.StatusExpired, resp.Status)
	assert.False(t, resp.IsActive)
	assert.Nil(t, resp.NextPaymentDate)
	f.leases.AssertNotCalled(t, "SaveExclusive", mock.Anything, mock.Anything)

	_, err = f.service.Terminate(ctx, ownerID, lease.ID, TerminateLeaseRequest{TerminatedAt: "garbage"})
	assert.ErrorIs(t, err, leasing.ErrInvalidTermination)

	f.leases.On("SaveExclusive", ctx, lease).Return(nil).Once()
	resp, err = f.service.Reinstate(ctx, ownerID, lease.ID)
	require.NoError(t, err)
	assert.Equal(t, leasing.StatusActive, resp.Status)
	assert.Equal(t, []string{leasing.EventTypeLeaseTerminated, leasing.EventTypeLeaseReinstated}, f.publisher.types())
}

func TestLeaseService_AssignTenant(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	f := newServiceFixture("2024-07-01")
	lease := newTestLease(t, ownerID, uuid.New(), "2024-01-01", "2024-12-31")
	tenant, err := property.NewTenant(ownerID, "Avi", "Ben", property.ContactInfo{}, "")
	require.NoError(t, err)

	f.leases.On("FindByIDForOwner", ctx, ownerID, lease.ID).Return(lease, nil)
	f.leases.On("Save", ctx, lease).Return(nil)
	f.tenants.On("FindByIDForOwner", ctx, ownerID, tenant.ID).Return(tenant, nil)
	f.tenants.On("FindByIDs", ctx, ownerID, []uuid.UUID{tenant.ID}).Return([]property.Tenant{*tenant}, nil)

	resp, err := f.service.AssignTenant(ctx, ownerID, lease.ID, AssignTenantRequest{TenantID: &tenant.ID})
	require.NoError(t, err)
	assert.Equal(t, "Avi Ben", resp.TenantName)

	resp, err = f.service.AssignTenant(ctx, ownerID, lease.ID, AssignTenantRequest{})
	require.NoError(t, err)
	assert.Nil(t, resp.TenantID)
	assert.Empty(t, resp.TenantName)
}

func TestLeaseService_ListByProperty(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	propertyID := uuid.New()
	f := newServiceFixture("2024-07-01")

	past1 := newTestLease(t, ownerID, propertyID, "2022-01-01", "2022-12-31")
	past2 := newTestLease(t, ownerID, propertyID, "2023-01-01", "2023-12-31")
	current := newTestLease(t, ownerID, propertyID, "2024-01-01", "2024-12-31")
	next1 := newTestLease(t, ownerID, propertyID, "2025-01-01", "2025-12-31")
	next2 := newTestLease(t, ownerID, propertyID, "2026-01-01", "2026-12-31")

	f.properties.On("ExistsForOwner", ctx, ownerID, propertyID).Return(true, nil)
	f.leases.On("FindByProperty", ctx, ownerID, propertyID).
		Return([]leasing.Lease{*next2, *past1, *current, *next1, *past2}, nil)

	resp, err := f.service.ListByProperty(ctx, ownerID, propertyID)
	require.NoError(t, err)
	require.NotNil(t, resp.Current)
	assert.Equal(t, current.ID, resp.Current.ID)
	require.Len(t, resp.Upcoming, 2)
	assert.Equal(t, next1.ID, resp.Upcoming[0].ID)
	require.Len(t, resp.Past, 2)
	assert.Equal(t, past2.ID, resp.Past[0].ID)

	t.Run("unknown property", func(t *testing.T) {
		missing := uuid.New()
		f.properties.On("ExistsForOwner", ctx, ownerID, missing).Return(false, nil)
		_, err := f.service.ListByProperty(ctx, ownerID, missing)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestLeaseService_List(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	propertyID := uuid.New()
	f := newServiceFixture("2024-12-15")
	lease := newTestLease(t, ownerID, propertyID, "2024-01-01", "2024-12-31")

	matchesFilter := mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Filters[leasing.FilterStatus] == leasing.StatusEndingSoon &&
			filter.Filters[leasing.FilterAsOf] == day("2024-12-15") &&
			filter.Filters[leasing.FilterPropertyID] == propertyID &&
			filter.Page == 1 && filter.PageSize == shared.DefaultPageSize
	})
	f.leases.On("FindAllForOwner", ctx, ownerID, matchesFilter).Return([]leasing.Lease{*lease}, nil)
	f.leases.On("CountForOwner", ctx, ownerID, matchesFilter).Return(int64(1), nil)

	items, total, err := f.service.List(ctx, ownerID, LeaseListFilter{PropertyID: &propertyID, Status: "ending_soon"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, leasing.StatusEndingSoon, items[0].Status)
	assert.Equal(t, 16, items[0].Progress.DaysRemaining)
}

func TestLeaseService_Preview(t *testing.T) {
	f := newServiceFixture("2024-07-01")

	tests := []struct {
		name      string
		req       PreviewRequest
		valid     bool
		code      string
		status    leasing.Status
		remaining int
	}{
		{"active mid lease", PreviewRequest{LeaseStart: "2024-01-01", LeaseEnd: "2024-12-31"}, true, "", leasing.StatusActive, 183},
		{"ending soon", PreviewRequest{LeaseStart: "2024-01-01", LeaseEnd: "2024-12-31", AsOf: "2024-12-15"}, true, "", leasing.StatusEndingSoon, 16},
		{"missing end", PreviewRequest{LeaseStart: "2024-01-01"}, false, leasing.CodeInvalidRange, leasing.StatusNoLease, 0},
		{"equal dates", PreviewRequest{LeaseStart: "2024-08-01", LeaseEnd: "2024-08-01"}, false, leasing.CodeEndBeforeStart, leasing.StatusUpcoming, 31},
		{"garbage", PreviewRequest{LeaseStart: "soon", LeaseEnd: "later"}, false, leasing.CodeInvalidRange, leasing.StatusNoLease, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.service.Preview(tt.req)
			assert.Equal(t, tt.valid, resp.Valid)
			assert.Equal(t, tt.code, resp.ErrorCode)
			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, tt.remaining, resp.Progress.DaysRemaining)
		})
	}

	t.Run("next payment for monthly schedule", func(t *testing.T) {
		dueDay := 31
		resp := f.service.Preview(PreviewRequest{LeaseStart: "2024-01-01", LeaseEnd: "2024-12-31", AsOf: "2024-02-10", PaymentDueDay: &dueDay})
		require.NotNil(t, resp.NextPaymentDate)
		assert.Equal(t, day("2024-02-29"), *resp.NextPaymentDate)
	})

	t.Run("no next payment for weekly schedule", func(t *testing.T) {
		dueDay := 3
		resp := f.service.Preview(PreviewRequest{LeaseStart: "2024-01-01", LeaseEnd: "2024-12-31", PaymentFrequency: "weekly", PaymentDueDay: &dueDay})
		assert.Nil(t, resp.NextPaymentDate)
	})
}

func TestLeaseService_Summary(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	f := newServiceFixture("2024-12-15")

	propA, propB := uuid.New(), uuid.New()
	endingSoon := newTestLease(t, ownerID, propA, "2024-01-01", "2024-12-31")
	active := newTestLease(t, ownerID, propB, "2024-06-01", "2025-05-31")
	upcoming := newTestLease(t, ownerID, propA, "2025-01-01", "2025-12-31")

	f.leases.On("FindUnexpired", ctx, ownerID, day("2024-12-15")).
		Return([]leasing.Lease{*endingSoon, *active, *upcoming}, nil)
	f.leases.On("CountForOwner", ctx, ownerID, mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Filters[leasing.FilterStatus] == leasing.StatusExpired
	})).Return(int64(3), nil)
	f.properties.On("CountForOwner", ctx, ownerID, mock.MatchedBy(activePropertyFilter(nil))).Return(int64(4), nil)
	f.properties.On("CountForOwner", ctx, ownerID, mock.MatchedBy(activePropertyFilter([]uuid.UUID{propA, propB}))).Return(int64(2), nil)

	summary, err := f.service.Summary(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Counts[leasing.StatusActive])
	assert.Equal(t, 1, summary.Counts[leasing.StatusEndingSoon])
	assert.Equal(t, 1, summary.Counts[leasing.StatusUpcoming])
	assert.Equal(t, 3, summary.Counts[leasing.StatusExpired])
	assert.Equal(t, 2, summary.Counts[leasing.StatusNoLease])
	assert.Equal(t, 2, summary.Occupied)
	assert.InDelta(t, 50.0, summary.OccupancyRate, 0.001)
	require.Len(t, summary.EndingSoon, 1)
	assert.Equal(t, endingSoon.ID, summary.EndingSoon[0].ID)

	t.Run("leases on archived properties do not count as occupied", func(t *testing.T) {
		f := newServiceFixture("2024-12-15")
		archivedProp := uuid.New()
		onActive := newTestLease(t, ownerID, propA, "2024-06-01", "2025-05-31")
		onArchived := newTestLease(t, ownerID, archivedProp, "2024-06-01", "2025-05-31")

		f.leases.On("FindUnexpired", ctx, ownerID, day("2024-12-15")).
			Return([]leasing.Lease{*onActive, *onArchived}, nil)
		f.leases.On("CountForOwner", ctx, ownerID, mock.Anything).Return(int64(0), nil)
		f.properties.On("CountForOwner", ctx, ownerID, mock.MatchedBy(activePropertyFilter(nil))).Return(int64(1), nil)
		f.properties.On("CountForOwner", ctx, ownerID, mock.MatchedBy(activePropertyFilter([]uuid.UUID{propA, archivedProp}))).Return(int64(1), nil)

		summary, err := f.service.Summary(ctx, ownerID)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Occupied)
		assert.LessOrEqual(t, summary.OccupancyRate, 100.0)
		assert.InDelta(t, 100.0, summary.OccupancyRate, 0.001)
		assert.Zero(t, summary.Counts[leasing.StatusNoLease])
	})
}

// activePropertyFilter matches a property count restricted to active
// properties and, when ids is non-nil, to exactly those IDs
func activePropertyFilter(ids []uuid.UUID) func(shared.Filter) bool {
	return func(filter shared.Filter) bool {
		if filter.Filters["status"] != string(property.StatusActive) {
			return false
		}
		got, scoped := filter.Filters["ids"].([]uuid.UUID)
		if ids == nil {
			return !scoped
		}
		return scoped && len(ids) == len(got) && containsAll(got, ids)
	}
}

func containsAll(got, want []uuid.UUID) bool {
	seen := make(map[uuid.UUID]bool, len(got))
	for _, id := range got {
		seen[id] = true
	}
	for _, id := range want {
		if !seen[id] {
			return false
		}
	}
	return true
}
