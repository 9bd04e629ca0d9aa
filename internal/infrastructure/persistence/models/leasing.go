package models

import (
	"time"

	"github.com/dansever/estait-app-sub000/internal/domain/leasing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaseModel is the persistence model for the Lease aggregate.
// The exclusion constraint on (property_id, daterange) lives in the SQL migrations.
type LeaseModel struct {
	OwnedAggregateModel
	PropertyID        uuid.UUID                `gorm:"type:uuid;not null;index"`
	TenantID          *uuid.UUID               `gorm:"type:uuid;index"`
	LeaseStart        time.Time                `gorm:"type:date;not null"`
	LeaseEnd          time.Time                `gorm:"type:date;not null;index"`
	RentAmount        decimal.Decimal          `gorm:"type:decimal(18,2);not null;default:0"`
	Currency          string                   `gorm:"type:varchar(3);not null;default:'USD'"`
	SecurityDeposit   decimal.Decimal          `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentFrequency  leasing.PaymentFrequency `gorm:"type:varchar(20);not null;default:'monthly'"`
	PaymentDueDay     *int                     `gorm:"type:smallint"`
	TerminatedAt      *time.Time               `gorm:"type:date"`
	TerminationReason string                   `gorm:"type:varchar(500)"`
	Notes             string                   `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (LeaseModel) TableName() string {
	return "leases"
}

// ToDomain converts the persistence model to a domain Lease
func (m *LeaseModel) ToDomain() *leasing.Lease {
	return &leasing.Lease{
		OwnedAggregateRoot: m.ToOwnedAggregateRoot(),
		PropertyID:         m.PropertyID,
		TenantID:           m.TenantID,
		LeaseStart:         DateOf(m.LeaseStart),
		LeaseEnd:           DateOf(m.LeaseEnd),
		RentAmount:         m.RentAmount,
		Currency:           m.Currency,
		SecurityDeposit:    m.SecurityDeposit,
		PaymentFrequency:   m.PaymentFrequency,
		PaymentDueDay:      m.PaymentDueDay,
		TerminatedAt:       DatePtrOf(m.TerminatedAt),
		TerminationReason:  m.TerminationReason,
		Notes:              m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Lease
func (m *LeaseModel) FromDomain(l *leasing.Lease) {
	m.FromDomainOwnedAggregateRoot(l.OwnedAggregateRoot)
	m.PropertyID = l.PropertyID
	m.TenantID = l.TenantID
	m.LeaseStart = DateValue(l.LeaseStart)
	m.LeaseEnd = DateValue(l.LeaseEnd)
	m.RentAmount = l.RentAmount
	m.Currency = l.Currency
	m.SecurityDeposit = l.SecurityDeposit
	m.PaymentFrequency = l.PaymentFrequency
	m.PaymentDueDay = l.PaymentDueDay
	m.TerminatedAt = DatePtrValue(l.TerminatedAt)
	m.TerminationReason = l.TerminationReason
	m.Notes = l.Notes
}

// LeaseModelFromDomain creates a new persistence model from a domain Lease
func LeaseModelFromDomain(l *leasing.Lease) *LeaseModel {
	m := &LeaseModel{}
	m.FromDomain(l)
	return m
}
