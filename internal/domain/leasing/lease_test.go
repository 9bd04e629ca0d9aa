package leasing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLease(t *testing.T, start, end string) *Lease {
	t.Helper()
	lease, err := NewLease(uuid.New(), uuid.New(), day(start), day(end), Terms{
		RentAmount:    decimal.NewFromInt(1500),
		Currency:      "usd",
		PaymentDueDay: intPtr(1),
	})
	require.NoError(t, err)
	lease.ClearDomainEvents()
	return lease
}

func TestNewLease(t *testing.T) {
	ownerID := uuid.New()
	propertyID := uuid.New()

	t.Run("applies defaults and records creation", func(t *testing.T) {
		lease, err := NewLease(ownerID, propertyID, day("2024-01-01"), day("2024-12-31"), Terms{
			RentAmount: decimal.NewFromInt(1200),
		})
		require.NoError(t, err)
		assert.Equal(t, ownerID, lease.OwnerID)
		assert.Equal(t, "USD", lease.Currency)
		assert.Equal(t, FrequencyMonthly, lease.PaymentFrequency)
		assert.True(t, lease.SecurityDeposit.IsZero())
		assert.Nil(t, lease.TenantID)
		assert.Equal(t, 1, lease.Version)

		events := lease.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeLeaseCreated, events[0].EventType())
		assert.Equal(t, lease.ID, events[0].AggregateID())
		assert.Equal(t, ownerID, events[0].OwnerID())
	})

	t.Run("options set renter and notes without bumping the version", func(t *testing.T) {
		tenantID := uuid.New()
		lease, err := NewLease(ownerID, propertyID, day("2024-01-01"), day("2024-12-31"), Terms{},
			WithTenant(tenantID), WithNotes("  keys handed over "))
		require.NoError(t, err)
		require.NotNil(t, lease.TenantID)
		assert.Equal(t, tenantID, *lease.TenantID)
		assert.Equal(t, "keys handed over", lease.Notes)
		assert.Equal(t, 1, lease.Version)

		created := lease.GetDomainEvents()[0].(*LeaseCreatedEvent)
		assert.Equal(t, &tenantID, created.TenantID)
	})

	t.Run("rejects nil renter option", func(t *testing.T) {
		_, err := NewLease(ownerID, propertyID, day("2024-01-01"), day("2024-12-31"), Terms{}, WithTenant(uuid.Nil))
		assert.Error(t, err)
	})

	tests := []struct {
		name    string
		start   string
		end     string
		terms   Terms
		wantErr error
	}{
		{"equal dates", "2024-01-01", "2024-01-01", Terms{}, ErrEndBeforeStart},
		{"reversed dates", "2024-02-01", "2024-01-01", Terms{}, ErrEndBeforeStart},
		{"negative rent", "2024-01-01", "2024-12-31", Terms{RentAmount: decimal.NewFromInt(-1)}, ErrInvalidRent},
		{"negative deposit", "2024-01-01", "2024-12-31", Terms{SecurityDeposit: decimal.NewFromInt(-5)}, ErrInvalidDeposit},
		{"unknown currency", "2024-01-01", "2024-12-31", Terms{Currency: "ZZZZ"}, ErrInvalidCurrency},
		{"unknown frequency", "2024-01-01", "2024-12-31", Terms{PaymentFrequency: "daily"}, ErrInvalidFrequency},
		{"due day too large", "2024-01-01", "2024-12-31", Terms{PaymentDueDay: intPtr(32)}, ErrInvalidDueDay},
		{"rent below a cent", "2024-01-01", "2024-12-31", Terms{RentAmount: decimal.RequireFromString("1000.005")}, ErrInvalidMoneyScale},
		{"deposit below a cent", "2024-01-01", "2024-12-31", Terms{SecurityDeposit: decimal.RequireFromString("2500.125")}, ErrInvalidMoneyScale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLease(ownerID, propertyID, day(tt.start), day(tt.end), tt.terms)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("requires property", func(t *testing.T) {
		_, err := NewLease(ownerID, uuid.Nil, day("2024-01-01"), day("2024-12-31"), Terms{})
		assert.Error(t, err)
	})

	t.Run("amounts in cents are kept exactly", func(t *testing.T) {
		lease, err := NewLease(ownerID, propertyID, day("2024-01-01"), day("2024-12-31"), Terms{
			RentAmount:      decimal.RequireFromString("1000.50"),
			SecurityDeposit: decimal.RequireFromString("2500.100"),
		})
		require.NoError(t, err)
		assert.True(t, lease.RentAmount.Equal(decimal.RequireFromString("1000.5")))
		assert.True(t, lease.SecurityDeposit.Equal(decimal.RequireFromString("2500.1")))
	})
}

func TestLease_StatusAndProgress(t *testing.T) {
	lease := newTestLease(t, "2024-01-01", "2024-12-31")

	assert.Equal(t, StatusActive, lease.Status(day("2024-07-01")))
	assert.True(t, lease.IsActive(day("2024-07-01")))
	assert.True(t, lease.IsActive(day("2024-12-15")))
	assert.False(t, lease.IsActive(day("2023-12-31")))
	assert.False(t, lease.IsActive(day("2025-01-01")))
	assert.Equal(t, 183, lease.Progress(day("2024-07-01")).DaysRemaining)
}

func TestLease_Terminate(t *testing.T) {
	lease := newTestLease(t, "2024-01-01", "2024-12-31")
	version := lease.Version

	require.NoError(t, lease.Terminate(day("2024-06-01"), " moved out "))
	assert.True(t, lease.IsTerminated())
	assert.Equal(t, "moved out", lease.TerminationReason)
	assert.Equal(t, version+1, lease.Version)

	assert.Equal(t, StatusEndingSoon, lease.Status(day("2024-05-15")))
	assert.Equal(t, StatusActive, lease.Status(day("2024-03-01")))
	assert.Equal(t, StatusExpired, lease.Status(day("2024-06-01")))
	assert.Equal(t, day("2024-05-31"), *lease.EffectivePeriod().End)
	assert.False(t, lease.IsVoided())

	events := lease.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeLeaseTerminated, events[0].EventType())

	assert.ErrorIs(t, lease.Terminate(day("2024-07-01"), ""), ErrLeaseTerminated)
	assert.ErrorIs(t, lease.Reschedule(day("2024-01-01"), day("2025-01-01")), ErrLeaseTerminated)
	assert.ErrorIs(t, lease.AssignTenant(uuid.New()), ErrLeaseTerminated)

	t.Run("reinstate restores the contractual period", func(t *testing.T) {
		require.NoError(t, lease.Reinstate())
		assert.False(t, lease.IsTerminated())
		assert.Equal(t, StatusActive, lease.Status(day("2024-07-01")))
		assert.ErrorIs(t, lease.Reinstate(), ErrLeaseNotTerminated)
	})

	t.Run("a lease terminated on its first day is always expired", func(t *testing.T) {
		voided := newTestLease(t, "2024-03-01", "2024-12-31")
		require.NoError(t, voided.Terminate(day("2024-03-01"), "never signed"))

		assert.True(t, voided.IsVoided())
		for _, d := range []string{"2024-01-15", "2024-02-29", "2024-03-01", "2024-07-01", "2025-01-01"} {
			assert.Equal(t, StatusExpired, voided.Status(day(d)), d)
			assert.False(t, voided.IsActive(day(d)), d)
		}
		assert.Equal(t, Progress{}, voided.Progress(day("2024-02-01")))
		assert.False(t, voided.Overlaps(newTestLease(t, "2024-01-01", "2024-06-30")))
	})

	t.Run("termination outside the period is rejected", func(t *testing.T) {
		other := newTestLease(t, "2024-01-01", "2024-12-31")
		assert.ErrorIs(t, other.Terminate(day("2023-12-31"), ""), ErrInvalidTermination)
		assert.ErrorIs(t, other.Terminate(day("2025-01-01"), ""), ErrInvalidTermination)
	})
}

func TestLease_TenantAssignment(t *testing.T) {
	lease := newTestLease(t, "2024-01-01", "2024-12-31")
	tenantID := uuid.New()

	require.NoError(t, lease.AssignTenant(tenantID))
	assert.True(t, lease.HasTenant())
	assert.Equal(t, tenantID, *lease.TenantID)

	lease.UnassignTenant()
	assert.False(t, lease.HasTenant())
	assert.Len(t, lease.GetDomainEvents(), 2)

	assert.Error(t, lease.AssignTenant(uuid.Nil))
}

func TestLease_UpdateTermsAndReschedule(t *testing.T) {
	lease := newTestLease(t, "2024-01-01", "2024-12-31")

	err := lease.UpdateTerms(Terms{
		RentAmount:       decimal.NewFromInt(1600),
		Currency:         "EUR",
		SecurityDeposit:  decimal.NewFromInt(3200),
		PaymentFrequency: FrequencyQuarterly,
	})
	require.NoError(t, err)
	assert.Equal(t, "EUR", lease.Currency)
	assert.Equal(t, FrequencyQuarterly, lease.PaymentFrequency)
	assert.Equal(t, "1600.00 EUR", lease.Rent().String())

	version := lease.Version
	assert.ErrorIs(t, lease.UpdateTerms(Terms{RentAmount: decimal.RequireFromString("1600.001")}), ErrInvalidMoneyScale)
	assert.Equal(t, version, lease.Version)
	assert.Equal(t, "1600.00 EUR", lease.Rent().String())

	assert.ErrorIs(t, lease.Reschedule(day("2024-06-01"), day("2024-06-01")), ErrEndBeforeStart)
	require.NoError(t, lease.Reschedule(day("2024-02-01"), day("2025-01-31")))
	assert.Equal(t, day("2025-01-31"), lease.LeaseEnd)
}

func TestLease_Revise(t *testing.T) {
	t.Run("applies every field as one modification", func(t *testing.T) {
		lease := newTestLease(t, "2024-01-01", "2024-12-31")

		err := lease.Revise(Revision{
			Start: day("2024-02-01"),
			End:   day("2025-01-31"),
			Terms: Terms{RentAmount: decimal.NewFromInt(1700), PaymentDueDay: intPtr(5)},
			Notes: "  renewed  ",
		})
		require.NoError(t, err)
		assert.Equal(t, 2, lease.Version)
		assert.Equal(t, day("2024-02-01"), lease.LeaseStart)
		assert.Equal(t, "1700", lease.RentAmount.String())
		assert.Equal(t, "renewed", lease.Notes)
		require.Len(t, lease.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeLeaseUpdated, lease.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects an invalid period", func(t *testing.T) {
		lease := newTestLease(t, "2024-01-01", "2024-12-31")
		err := lease.Revise(Revision{Start: day("2024-05-01"), End: day("2024-04-01"), Terms: lease.Terms()})
		assert.ErrorIs(t, err, ErrEndBeforeStart)
		assert.Equal(t, 1, lease.Version)
	})

	t.Run("freezes the period of a terminated lease", func(t *testing.T) {
		lease := newTestLease(t, "2024-01-01", "2024-12-31")
		require.NoError(t, lease.Terminate(day("2024-06-01"), "sold"))

		err := lease.Revise(Revision{Start: day("2024-01-01"), End: day("2025-12-31"), Terms: lease.Terms()})
		assert.ErrorIs(t, err, ErrLeaseTerminated)

		terms := lease.Terms()
		terms.RentAmount = decimal.NewFromInt(900)
		require.NoError(t, lease.Revise(Revision{Start: lease.LeaseStart, End: lease.LeaseEnd, Terms: terms, Notes: "adjusted"}))
		assert.Equal(t, "900", lease.RentAmount.String())
	})
}

func TestLease_NextPaymentDate(t *testing.T) {
	lease := newTestLease(t, "2024-03-15", "2024-12-31")

	t.Run("upcoming lease counts from its start", func(t *testing.T) {
		next := lease.NextPaymentDate(day("2024-01-20"))
		require.NotNil(t, next)
		assert.Equal(t, day("2024-04-01"), *next)
	})

	t.Run("active lease", func(t *testing.T) {
		next := lease.NextPaymentDate(day("2024-07-02"))
		require.NotNil(t, next)
		assert.Equal(t, day("2024-08-01"), *next)
	})

	t.Run("no due date after the lease ends", func(t *testing.T) {
		assert.Nil(t, lease.NextPaymentDate(day("2024-12-05")))
	})

	t.Run("expired lease", func(t *testing.T) {
		assert.Nil(t, lease.NextPaymentDate(day("2025-02-01")))
	})
}

func TestLease_Overlaps(t *testing.T) {
	a := newTestLease(t, "2024-01-01", "2024-06-30")
	b := newTestLease(t, "2024-06-01", "2024-12-31")
	c := newTestLease(t, "2024-07-01", "2024-12-31")

	assert.True(t, a.Overlaps(b))
	assert.False(t, a.Overlaps(c))

	require.NoError(t, b.Terminate(day("2024-06-01"), ""))
	assert.False(t, a.Overlaps(b))
}

func TestLeaseStatusChangedEvent_IdempotencyKey(t *testing.T) {
	lease := newTestLease(t, "2024-01-01", "2024-12-31")
	e := NewLeaseStatusChangedEvent(lease, StatusActive, StatusEndingSoon, day("2024-12-01"))

	assert.Equal(t, 30, e.DaysRemaining)
	assert.Equal(t, "lease-status:"+lease.ID.String()+":ending_soon:2024-12-01", e.IdempotencyKey())
}
