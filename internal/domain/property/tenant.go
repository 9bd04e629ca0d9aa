package property

import (
	"net/mail"
	"strings"

	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// Tenant is a renter that can be assigned to leases
type Tenant struct {
	shared.OwnedAggregateRoot
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	EmergencyContact string
	Notes            string
}

// ContactInfo are the optional contact fields of a renter
type ContactInfo struct {
	Email            string
	Phone            string
	EmergencyContact string
}

// NewTenant creates a new renter record
func NewTenant(ownerID uuid.UUID, firstName, lastName string, contact ContactInfo, notes string) (*Tenant, error) {
	t := &Tenant{OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID)}
	if err := t.apply(firstName, lastName, contact); err != nil {
		return nil, err
	}
	t.Notes = strings.TrimSpace(notes)
	t.AddDomainEvent(NewTenantCreatedEvent(t))
	return t, nil
}

func (t *Tenant) apply(firstName, lastName string, contact ContactInfo) error {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" {
		return shared.NewDomainError("INVALID_NAME", "First name cannot be empty")
	}
	if len(firstName) > 100 || len(lastName) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Names cannot exceed 100 characters")
	}

	email := strings.ToLower(strings.TrimSpace(contact.Email))
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
		}
	}

	t.FirstName = firstName
	t.LastName = lastName
	t.Email = email
	t.Phone = strings.TrimSpace(contact.Phone)
	t.EmergencyContact = strings.TrimSpace(contact.EmergencyContact)
	return nil
}

// Update replaces names and contact details
func (t *Tenant) Update(firstName, lastName string, contact ContactInfo) error {
	if err := t.apply(firstName, lastName, contact); err != nil {
		return err
	}
	t.MarkModified()
	t.AddDomainEvent(NewTenantUpdatedEvent(t))
	return nil
}

// Revise replaces names, contact details and notes as a single modification
func (t *Tenant) Revise(firstName, lastName string, contact ContactInfo, notes string) error {
	if err := t.apply(firstName, lastName, contact); err != nil {
		return err
	}
	t.Notes = strings.TrimSpace(notes)
	t.MarkModified()
	t.AddDomainEvent(NewTenantUpdatedEvent(t))
	return nil
}

// SetNotes replaces the free-form notes
func (t *Tenant) SetNotes(notes string) {
	t.Notes = strings.TrimSpace(notes)
	t.MarkModified()
}

// FullName returns first and last name joined by a space
func (t *Tenant) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}
