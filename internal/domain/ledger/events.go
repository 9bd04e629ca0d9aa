package ledger

import (
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AggregateTypeTransaction = "Transaction"

	EventTypeTransactionRecorded      = "TransactionRecorded"
	EventTypeTransactionStatusChanged = "TransactionStatusChanged"
)

// TransactionEvent carries the amounts of a transaction change
type TransactionEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	PropertyID    uuid.UUID       `json:"property_id"`
	LeaseID       *uuid.UUID      `json:"lease_id,omitempty"`
	Type          TransactionType `json:"type"`
	Category      Category        `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        Status          `json:"status"`
}

func newTransactionEvent(eventType string, t *Transaction) *TransactionEvent {
	return &TransactionEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeTransaction, t.ID, t.OwnerID),
		TransactionID:   t.ID,
		PropertyID:      t.PropertyID,
		LeaseID:         t.LeaseID,
		Type:            t.Type,
		Category:        t.Category,
		Amount:          t.Amount,
		Currency:        t.Currency,
		Status:          t.Status,
	}
}

// NewTransactionRecordedEvent creates a TransactionRecorded event
func NewTransactionRecordedEvent(t *Transaction) *TransactionEvent {
	return newTransactionEvent(EventTypeTransactionRecorded, t)
}

// NewTransactionStatusChangedEvent creates a TransactionStatusChanged event
func NewTransactionStatusChangedEvent(t *Transaction) *TransactionEvent {
	return newTransactionEvent(EventTypeTransactionStatusChanged, t)
}
