package property

import (
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeProperty = "Property"
	AggregateTypeTenant   = "Tenant"
)

// Event type constants
const (
	EventTypePropertyCreated  = "PropertyCreated"
	EventTypePropertyUpdated  = "PropertyUpdated"
	EventTypePropertyArchived = "PropertyArchived"
	EventTypePropertyRestored = "PropertyRestored"
	EventTypeTenantCreated    = "TenantCreated"
	EventTypeTenantUpdated    = "TenantUpdated"
)

// PropertyEvent carries the identifying fields of a property change
type PropertyEvent struct {
	shared.BaseDomainEvent
	PropertyID uuid.UUID `json:"property_id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
}

func newPropertyEvent(eventType string, p *Property) *PropertyEvent {
	return &PropertyEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeProperty, p.ID, p.OwnerID),
		PropertyID:      p.ID,
		Name:            p.Name,
		Status:          string(p.Status),
	}
}

// NewPropertyCreatedEvent creates a PropertyCreated event
func NewPropertyCreatedEvent(p *Property) *PropertyEvent {
	return newPropertyEvent(EventTypePropertyCreated, p)
}

// NewPropertyUpdatedEvent creates a PropertyUpdated event
func NewPropertyUpdatedEvent(p *Property) *PropertyEvent {
	return newPropertyEvent(EventTypePropertyUpdated, p)
}

// NewPropertyArchivedEvent creates a PropertyArchived event
func NewPropertyArchivedEvent(p *Property) *PropertyEvent {
	return newPropertyEvent(EventTypePropertyArchived, p)
}

// NewPropertyRestoredEvent creates a PropertyRestored event
func NewPropertyRestoredEvent(p *Property) *PropertyEvent {
	return newPropertyEvent(EventTypePropertyRestored, p)
}

// TenantEvent carries the identifying fields of a renter change
type TenantEvent struct {
	shared.BaseDomainEvent
	TenantID uuid.UUID `json:"tenant_id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email,omitempty"`
}

func newTenantEvent(eventType string, t *Tenant) *TenantEvent {
	return &TenantEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeTenant, t.ID, t.OwnerID),
		TenantID:        t.ID,
		FullName:        t.FullName(),
		Email:           t.Email,
	}
}

// NewTenantCreatedEvent creates a TenantCreated event
func NewTenantCreatedEvent(t *Tenant) *TenantEvent {
	return newTenantEvent(EventTypeTenantCreated, t)
}

// NewTenantUpdatedEvent creates a TenantUpdated event
func NewTenantUpdatedEvent(t *Tenant) *TenantEvent {
	return newTenantEvent(EventTypeTenantUpdated, t)
}
