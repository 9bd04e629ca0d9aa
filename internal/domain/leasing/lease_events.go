package leasing

import (
	"cloud.google.com/go/civil"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeLease = "Lease"

// Event type constants
const (
	EventTypeLeaseCreated        = "LeaseCreated"
	EventTypeLeaseUpdated        = "LeaseUpdated"
	EventTypeLeaseTenantAssigned = "LeaseTenantAssigned"
	EventTypeLeaseTerminated     = "LeaseTerminated"
	EventTypeLeaseReinstated     = "LeaseReinstated"
	EventTypeLeaseStatusChanged  = "LeaseStatusChanged"
)

// LeaseCreatedEvent is raised when a new lease is recorded
type LeaseCreatedEvent struct {
	shared.BaseDomainEvent
	LeaseID    uuid.UUID       `json:"lease_id"`
	PropertyID uuid.UUID       `json:"property_id"`
	TenantID   *uuid.UUID      `json:"tenant_id,omitempty"`
	LeaseStart civil.Date      `json:"lease_start"`
	LeaseEnd   civil.Date      `json:"lease_end"`
	RentAmount decimal.Decimal `json:"rent_amount"`
	Currency   string          `json:"currency"`
}

// NewLeaseCreatedEvent creates a new LeaseCreatedEvent
func NewLeaseCreatedEvent(l *Lease) *LeaseCreatedEvent {
	return &LeaseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeaseCreated, AggregateTypeLease, l.ID, l.OwnerID),
		LeaseID:         l.ID,
		PropertyID:      l.PropertyID,
		TenantID:        l.TenantID,
		LeaseStart:      l.LeaseStart,
		LeaseEnd:        l.LeaseEnd,
		RentAmount:      l.RentAmount,
		Currency:        l.Currency,
	}
}

// LeaseUpdatedEvent is raised when dates or terms change
type LeaseUpdatedEvent struct {
	shared.BaseDomainEvent
	LeaseID    uuid.UUID       `json:"lease_id"`
	PropertyID uuid.UUID       `json:"property_id"`
	LeaseStart civil.Date      `json:"lease_start"`
	LeaseEnd   civil.Date      `json:"lease_end"`
	RentAmount decimal.Decimal `json:"rent_amount"`
	Version    int             `json:"version"`
}

// NewLeaseUpdatedEvent creates a new LeaseUpdatedEvent
func NewLeaseUpdatedEvent(l *Lease) *LeaseUpdatedEvent {
	return &LeaseUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeaseUpdated, AggregateTypeLease, l.ID, l.OwnerID),
		LeaseID:         l.ID,
		PropertyID:      l.PropertyID,
		LeaseStart:      l.LeaseStart,
		LeaseEnd:        l.LeaseEnd,
		RentAmount:      l.RentAmount,
		Version:         l.Version,
	}
}

// LeaseTenantAssignedEvent is raised when a renter is linked or unlinked.
// A nil TenantID means the lease was unassigned.
type LeaseTenantAssignedEvent struct {
	shared.BaseDomainEvent
	LeaseID    uuid.UUID  `json:"lease_id"`
	PropertyID uuid.UUID  `json:"property_id"`
	TenantID   *uuid.UUID `json:"tenant_id,omitempty"`
}

// NewLeaseTenantAssignedEvent creates a new LeaseTenantAssignedEvent
func NewLeaseTenantAssignedEvent(l *Lease) *LeaseTenantAssignedEvent {
	return &LeaseTenantAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeaseTenantAssigned, AggregateTypeLease, l.ID, l.OwnerID),
		LeaseID:         l.ID,
		PropertyID:      l.PropertyID,
		TenantID:        l.TenantID,
	}
}

// LeaseTerminatedEvent is raised when a lease is ended early
type LeaseTerminatedEvent struct {
	shared.BaseDomainEvent
	LeaseID      uuid.UUID  `json:"lease_id"`
	PropertyID   uuid.UUID  `json:"property_id"`
	TerminatedAt civil.Date `json:"terminated_at"`
	Reason       string     `json:"reason,omitempty"`
}

// NewLeaseTerminatedEvent creates a new LeaseTerminatedEvent
func NewLeaseTerminatedEvent(l *Lease) *LeaseTerminatedEvent {
	e := &LeaseTerminatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeaseTerminated, AggregateTypeLease, l.ID, l.OwnerID),
		LeaseID:         l.ID,
		PropertyID:      l.PropertyID,
		Reason:          l.TerminationReason,
	}
	if l.TerminatedAt != nil {
		e.TerminatedAt = *l.TerminatedAt
	}
	return e
}

// LeaseReinstatedEvent is raised when a termination is withdrawn
type LeaseReinstatedEvent struct {
	shared.BaseDomainEvent
	LeaseID    uuid.UUID `json:"lease_id"`
	PropertyID uuid.UUID `json:"property_id"`
}

// NewLeaseReinstatedEvent creates a new LeaseReinstatedEvent
func NewLeaseReinstatedEvent(l *Lease) *LeaseReinstatedEvent {
	return &LeaseReinstatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeaseReinstated, AggregateTypeLease, l.ID, l.OwnerID),
		LeaseID:         l.ID,
		PropertyID:      l.PropertyID,
	}
}

// LeaseStatusChangedEvent is raised by the status sweep when the derived
// status of a lease differs from the one observed on the previous day
type LeaseStatusChangedEvent struct {
	shared.BaseDomainEvent
	LeaseID       uuid.UUID  `json:"lease_id"`
	PropertyID    uuid.UUID  `json:"property_id"`
	TenantID      *uuid.UUID `json:"tenant_id,omitempty"`
	From          Status     `json:"from"`
	To            Status     `json:"to"`
	On            civil.Date `json:"on"`
	DaysRemaining int        `json:"days_remaining"`
}

// NewLeaseStatusChangedEvent creates a new LeaseStatusChangedEvent
func NewLeaseStatusChangedEvent(l *Lease, from, to Status, on civil.Date) *LeaseStatusChangedEvent {
	return &LeaseStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeaseStatusChanged, AggregateTypeLease, l.ID, l.OwnerID),
		LeaseID:         l.ID,
		PropertyID:      l.PropertyID,
		TenantID:        l.TenantID,
		From:            from,
		To:              to,
		On:              on,
		DaysRemaining:   l.Progress(on).DaysRemaining,
	}
}

// IdempotencyKey identifies one transition of one lease on one day
func (e *LeaseStatusChangedEvent) IdempotencyKey() string {
	return "lease-status:" + e.LeaseID.String() + ":" + string(e.To) + ":" + e.On.String()
}
