package models

import (
	"time"

	"github.com/dansever/estait-app-sub000/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionModel is the persistence model for ledger transactions
type TransactionModel struct {
	OwnedAggregateModel
	PropertyID  uuid.UUID              `gorm:"type:uuid;not null;index"`
	LeaseID     *uuid.UUID             `gorm:"type:uuid;index"`
	Type        ledger.TransactionType `gorm:"type:varchar(10);not null"`
	Category    ledger.Category        `gorm:"type:varchar(20);not null;default:'other'"`
	Amount      decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	Currency    string                 `gorm:"type:varchar(3);not null;default:'USD'"`
	Date        time.Time              `gorm:"column:date;type:date;not null;index"`
	Description string                 `gorm:"type:varchar(500)"`
	Status      ledger.Status          `gorm:"type:varchar(20);not null;default:'pending'"`
	Reference   *string                `gorm:"type:varchar(200);index"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the persistence model to a domain Transaction
func (m *TransactionModel) ToDomain() *ledger.Transaction {
	t := &ledger.Transaction{
		OwnedAggregateRoot: m.ToOwnedAggregateRoot(),
		PropertyID:         m.PropertyID,
		LeaseID:            m.LeaseID,
		Entry: ledger.Entry{
			Type:        m.Type,
			Category:    m.Category,
			Amount:      m.Amount,
			Currency:    m.Currency,
			Date:        DateOf(m.Date),
			Description: m.Description,
		},
		Status: m.Status,
	}
	if m.Reference != nil {
		t.Reference = *m.Reference
	}
	return t
}

// FromDomain populates the persistence model from a domain Transaction.
// An empty reference is stored as NULL so the partial unique index ignores it.
func (m *TransactionModel) FromDomain(t *ledger.Transaction) {
	m.FromDomainOwnedAggregateRoot(t.OwnedAggregateRoot)
	m.PropertyID = t.PropertyID
	m.LeaseID = t.LeaseID
	m.Type = t.Type
	m.Category = t.Category
	m.Amount = t.Amount
	m.Currency = t.Currency
	m.Date = DateValue(t.Date)
	m.Description = t.Description
	m.Status = t.Status
	m.Reference = nil
	if t.Reference != "" {
		ref := t.Reference
		m.Reference = &ref
	}
}

// TransactionModelFromDomain creates a new persistence model from a domain Transaction
func TransactionModelFromDomain(t *ledger.Transaction) *TransactionModel {
	m := &TransactionModel{}
	m.FromDomain(t)
	return m
}
