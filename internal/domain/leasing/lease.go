package leasing

import (
	"strings"

	"cloud.google.com/go/civil"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/dansever/estait-app-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentFrequency is how often rent is due
type PaymentFrequency string

const (
	FrequencyMonthly   PaymentFrequency = "monthly"
	FrequencyWeekly    PaymentFrequency = "weekly"
	FrequencyBiweekly  PaymentFrequency = "biweekly"
	FrequencyQuarterly PaymentFrequency = "quarterly"
	FrequencyAnnually  PaymentFrequency = "annually"
)

// IsValid checks if the frequency is a known PaymentFrequency
func (f PaymentFrequency) IsValid() bool {
	switch f {
	case FrequencyMonthly, FrequencyWeekly, FrequencyBiweekly, FrequencyQuarterly, FrequencyAnnually:
		return true
	}
	return false
}

// String returns the string representation of PaymentFrequency
func (f PaymentFrequency) String() string {
	return string(f)
}

// PaymentTerms describes the rent schedule of a lease
type PaymentTerms struct {
	Frequency PaymentFrequency
	DueDay    *int
}

// Terms are the editable financial terms of a lease
type Terms struct {
	RentAmount       decimal.Decimal
	Currency         string
	SecurityDeposit  decimal.Decimal
	PaymentFrequency PaymentFrequency
	PaymentDueDay    *int
}

// normalize validates the terms and fills defaults
func (t Terms) normalize() (Terms, error) {
	if t.RentAmount.IsNegative() {
		return Terms{}, ErrInvalidRent
	}
	if t.SecurityDeposit.IsNegative() {
		return Terms{}, ErrInvalidDeposit
	}
	if !hasMoneyScale(t.RentAmount) || !hasMoneyScale(t.SecurityDeposit) {
		return Terms{}, ErrInvalidMoneyScale
	}

	if strings.TrimSpace(t.Currency) == "" {
		t.Currency = valueobject.DefaultCurrency.String()
	}
	cur, err := valueobject.ParseCurrency(t.Currency)
	if err != nil {
		return Terms{}, ErrInvalidCurrency
	}
	t.Currency = cur.String()

	if t.PaymentFrequency == "" {
		t.PaymentFrequency = FrequencyMonthly
	}
	if !t.PaymentFrequency.IsValid() {
		return Terms{}, ErrInvalidFrequency
	}
	if t.PaymentDueDay != nil {
		if *t.PaymentDueDay < 1 || *t.PaymentDueDay > 31 {
			return Terms{}, ErrInvalidDueDay
		}
		day := *t.PaymentDueDay
		t.PaymentDueDay = &day
	}
	return t, nil
}

// MoneyScale is the number of decimal places stored for rent and deposit
const MoneyScale = 2

// hasMoneyScale reports whether amount fits MoneyScale without rounding.
// Trailing zeros beyond the scale are accepted.
func hasMoneyScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(MoneyScale))
}

// Lease is one tenancy period for one property
type Lease struct {
	shared.OwnedAggregateRoot
	PropertyID        uuid.UUID
	TenantID          *uuid.UUID
	LeaseStart        civil.Date
	LeaseEnd          civil.Date
	RentAmount        decimal.Decimal
	Currency          string
	SecurityDeposit   decimal.Decimal
	PaymentFrequency  PaymentFrequency
	PaymentDueDay     *int
	TerminatedAt      *civil.Date
	TerminationReason string
	Notes             string
}

// LeaseOption sets optional fields of a new lease
type LeaseOption func(*Lease) error

// WithTenant assigns a renter at signing
func WithTenant(tenantID uuid.UUID) LeaseOption {
	return func(l *Lease) error {
		if tenantID == uuid.Nil {
			return shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
		}
		l.TenantID = &tenantID
		return nil
	}
}

// WithNotes sets the initial notes
func WithNotes(notes string) LeaseOption {
	return func(l *Lease) error {
		l.Notes = strings.TrimSpace(notes)
		return nil
	}
}

// NewLease creates a lease for a property. The period must span at least one day.
func NewLease(ownerID, propertyID uuid.UUID, start, end civil.Date, terms Terms, opts ...LeaseOption) (*Lease, error) {
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "Property ID cannot be empty")
	}
	if err := ValidateRange(start, end); err != nil {
		return nil, err
	}
	normalized, err := terms.normalize()
	if err != nil {
		return nil, err
	}

	lease := &Lease{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		PropertyID:         propertyID,
		LeaseStart:         start,
		LeaseEnd:           end,
	}
	lease.applyTerms(normalized)
	for _, opt := range opts {
		if err := opt(lease); err != nil {
			return nil, err
		}
	}
	lease.AddDomainEvent(NewLeaseCreatedEvent(lease))
	return lease, nil
}

func (l *Lease) applyTerms(t Terms) {
	l.RentAmount = t.RentAmount
	l.Currency = t.Currency
	l.SecurityDeposit = t.SecurityDeposit
	l.PaymentFrequency = t.PaymentFrequency
	l.PaymentDueDay = t.PaymentDueDay
}

// Terms returns the current financial terms
func (l *Lease) Terms() Terms {
	return Terms{
		RentAmount:       l.RentAmount,
		Currency:         l.Currency,
		SecurityDeposit:  l.SecurityDeposit,
		PaymentFrequency: l.PaymentFrequency,
		PaymentDueDay:    l.PaymentDueDay,
	}
}

// PaymentTerms returns the rent schedule
func (l *Lease) PaymentTerms() PaymentTerms {
	return PaymentTerms{Frequency: l.PaymentFrequency, DueDay: l.PaymentDueDay}
}

// Rent returns the rent as Money
func (l *Lease) Rent() valueobject.Money {
	m, err := valueobject.NewMoney(l.RentAmount, valueobject.Currency(l.Currency))
	if err != nil {
		return valueobject.Zero(valueobject.Currency(l.Currency))
	}
	return m
}

// UpdateTerms replaces rent, deposit, currency and schedule
func (l *Lease) UpdateTerms(terms Terms) error {
	normalized, err := terms.normalize()
	if err != nil {
		return err
	}
	l.applyTerms(normalized)
	l.MarkModified()
	l.AddDomainEvent(NewLeaseUpdatedEvent(l))
	return nil
}

// Reschedule changes the lease period. Terminated leases cannot be rescheduled.
func (l *Lease) Reschedule(start, end civil.Date) error {
	if l.IsTerminated() {
		return ErrLeaseTerminated
	}
	if err := ValidateRange(start, end); err != nil {
		return err
	}
	l.LeaseStart = start
	l.LeaseEnd = end
	l.MarkModified()
	l.AddDomainEvent(NewLeaseUpdatedEvent(l))
	return nil
}

// Revision is a complete edit of a lease: period, financial terms and notes
type Revision struct {
	Start civil.Date
	End   civil.Date
	Terms Terms
	Notes string
}

// Revise applies a full edit as a single modification. The period of a
// terminated lease is frozen; its terms and notes can still change.
func (l *Lease) Revise(r Revision) error {
	normalized, err := r.Terms.normalize()
	if err != nil {
		return err
	}
	if r.Start != l.LeaseStart || r.End != l.LeaseEnd {
		if l.IsTerminated() {
			return ErrLeaseTerminated
		}
		if err := ValidateRange(r.Start, r.End); err != nil {
			return err
		}
	}
	l.LeaseStart = r.Start
	l.LeaseEnd = r.End
	l.applyTerms(normalized)
	l.Notes = strings.TrimSpace(r.Notes)
	l.MarkModified()
	l.AddDomainEvent(NewLeaseUpdatedEvent(l))
	return nil
}

// SetNotes replaces the free-form notes
func (l *Lease) SetNotes(notes string) {
	l.Notes = strings.TrimSpace(notes)
	l.MarkModified()
}

// AssignTenant links a renter to the lease
func (l *Lease) AssignTenant(tenantID uuid.UUID) error {
	if tenantID == uuid.Nil {
		return shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if l.IsTerminated() {
		return ErrLeaseTerminated
	}
	l.TenantID = &tenantID
	l.MarkModified()
	l.AddDomainEvent(NewLeaseTenantAssignedEvent(l))
	return nil
}

// UnassignTenant leaves the lease signed but without a renter
func (l *Lease) UnassignTenant() {
	if l.TenantID == nil {
		return
	}
	l.TenantID = nil
	l.MarkModified()
	l.AddDomainEvent(NewLeaseTenantAssignedEvent(l))
}

// HasTenant reports whether a renter is assigned
func (l *Lease) HasTenant() bool {
	return l.TenantID != nil
}

// Terminate ends the lease early. From the termination day on the lease is expired.
func (l *Lease) Terminate(on civil.Date, reason string) error {
	if l.IsTerminated() {
		return ErrLeaseTerminated
	}
	if !on.IsValid() || on.Before(l.LeaseStart) || on.After(l.LeaseEnd) {
		return ErrInvalidTermination
	}
	l.TerminatedAt = &on
	l.TerminationReason = strings.TrimSpace(reason)
	l.MarkModified()
	l.AddDomainEvent(NewLeaseTerminatedEvent(l))
	return nil
}

// Reinstate clears a manual termination
func (l *Lease) Reinstate() error {
	if !l.IsTerminated() {
		return ErrLeaseNotTerminated
	}
	l.TerminatedAt = nil
	l.TerminationReason = ""
	l.MarkModified()
	l.AddDomainEvent(NewLeaseReinstatedEvent(l))
	return nil
}

// IsTerminated reports whether the lease carries a manual termination
func (l *Lease) IsTerminated() bool {
	return l.TerminatedAt != nil
}

// Period returns the contractual lease period
func (l *Lease) Period() DateRange {
	return NewDateRange(l.LeaseStart, l.LeaseEnd)
}

// EffectivePeriod returns the period actually covered by the lease: when a
// termination falls before the contractual end, the lease ends the day before it.
func (l *Lease) EffectivePeriod() DateRange {
	if l.TerminatedAt != nil {
		lastDay := l.TerminatedAt.AddDays(-1)
		if lastDay.Before(l.LeaseEnd) {
			return NewDateRange(l.LeaseStart, lastDay)
		}
	}
	return l.Period()
}

// Status derives the lease status on day now. A terminated lease is expired
// from its termination day on, and a voided lease is always expired.
func (l *Lease) Status(now civil.Date) Status {
	if l.IsVoided() || (l.TerminatedAt != nil && !now.Before(*l.TerminatedAt)) {
		return StatusExpired
	}
	return ClassifyStatus(l.EffectivePeriod(), now)
}

// IsVoided reports whether the lease was terminated on its first day and so
// never covered any day.
func (l *Lease) IsVoided() bool {
	return l.TerminatedAt != nil && !l.TerminatedAt.After(l.LeaseStart)
}

// IsActive reports whether the lease governs occupancy on day now
func (l *Lease) IsActive(now civil.Date) bool {
	return l.Status(now).IsCurrent()
}

// Progress returns elapsed and remaining metrics on day now
func (l *Lease) Progress(now civil.Date) Progress {
	return ComputeProgress(l.EffectivePeriod(), now)
}

// NextPaymentDate returns the next rent due date, or nil when the lease is
// expired, has no monthly schedule, or the next due date falls after the lease ends.
func (l *Lease) NextPaymentDate(now civil.Date) *civil.Date {
	if l.Status(now) == StatusExpired {
		return nil
	}
	from := now
	if from.Before(l.LeaseStart) {
		from = l.LeaseStart
	}
	next := NextPaymentDate(l.PaymentTerms(), from)
	if next == nil {
		return nil
	}
	if _, end, ok := l.EffectivePeriod().bounds(); ok && next.After(end) {
		return nil
	}
	return next
}

// Overlaps reports whether the effective periods of two leases share a day
func (l *Lease) Overlaps(other *Lease) bool {
	return l.EffectivePeriod().Overlaps(other.EffectivePeriod())
}
