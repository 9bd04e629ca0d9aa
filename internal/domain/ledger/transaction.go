package ledger

import (
	"strings"

	"cloud.google.com/go/civil"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/dansever/estait-app-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the direction of money flow
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// IsValid checks if the type is a known TransactionType
func (t TransactionType) IsValid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Category classifies a transaction
type Category string

const (
	CategoryRent        Category = "rent"
	CategoryDeposit     Category = "deposit"
	CategoryMaintenance Category = "maintenance"
	CategoryUtilities   Category = "utilities"
	CategoryInsurance   Category = "insurance"
	CategoryTax         Category = "tax"
	CategoryMortgage    Category = "mortgage"
	CategoryManagement  Category = "management"
	CategoryOther       Category = "other"
)

// IsValid checks if the category is a known Category
func (c Category) IsValid() bool {
	switch c {
	case CategoryRent, CategoryDeposit, CategoryMaintenance, CategoryUtilities, CategoryInsurance,
		CategoryTax, CategoryMortgage, CategoryManagement, CategoryOther:
		return true
	}
	return false
}

// Status represents the settlement state of a transaction
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusCompleted || target == StatusCancelled
	case StatusCompleted:
		return target == StatusCancelled
	}
	return false
}

var (
	ErrInvalidAmount     = shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	ErrInvalidTransition = shared.NewDomainError("INVALID_STATUS_TRANSITION", "Transaction cannot move to the requested status")
)

// Entry is the editable content of a transaction
type Entry struct {
	Type        TransactionType
	Category    Category
	Amount      decimal.Decimal
	Currency    string
	Date        civil.Date
	Description string
}

func (e Entry) normalize() (Entry, error) {
	if !e.Type.IsValid() {
		return Entry{}, shared.NewDomainError("INVALID_TYPE", "Transaction type must be income or expense")
	}
	if e.Category == "" {
		e.Category = CategoryOther
	}
	if !e.Category.IsValid() {
		return Entry{}, shared.NewDomainError("INVALID_CATEGORY", "Unknown transaction category")
	}
	if !e.Amount.IsPositive() {
		return Entry{}, ErrInvalidAmount
	}
	if !e.Date.IsValid() {
		return Entry{}, shared.NewDomainError("INVALID_DATE", "Transaction date is not a valid calendar date")
	}
	if strings.TrimSpace(e.Currency) == "" {
		e.Currency = valueobject.DefaultCurrency.String()
	}
	cur, err := valueobject.ParseCurrency(e.Currency)
	if err != nil {
		return Entry{}, shared.NewDomainError("INVALID_CURRENCY", "Currency must be an ISO 4217 code")
	}
	e.Currency = cur.String()
	e.Description = strings.TrimSpace(e.Description)
	return e, nil
}

// Transaction is a single income or expense record of a property
type Transaction struct {
	shared.OwnedAggregateRoot
	PropertyID uuid.UUID
	LeaseID    *uuid.UUID
	Entry
	Status Status
	// Reference is an optional external or idempotency reference, unique per owner
	Reference string
}

// TransactionOption sets optional fields of a new transaction
type TransactionOption func(*Transaction)

// WithReference sets the external reference of the transaction
func WithReference(reference string) TransactionOption {
	return func(t *Transaction) {
		t.Reference = strings.TrimSpace(reference)
	}
}

// Settled records the transaction as already completed
func Settled() TransactionOption {
	return func(t *Transaction) {
		t.Status = StatusCompleted
	}
}

// NewTransaction creates a transaction, pending unless Settled is given
func NewTransaction(ownerID, propertyID uuid.UUID, leaseID *uuid.UUID, entry Entry, opts ...TransactionOption) (*Transaction, error) {
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "Property ID cannot be empty")
	}
	normalized, err := entry.normalize()
	if err != nil {
		return nil, err
	}
	tx := &Transaction{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		PropertyID:         propertyID,
		LeaseID:            leaseID,
		Entry:              normalized,
		Status:             StatusPending,
	}
	for _, opt := range opts {
		opt(tx)
	}
	tx.AddDomainEvent(NewTransactionRecordedEvent(tx))
	return tx, nil
}

// RentChargeReference is the reference of the scheduled rent charge of a lease on a due date
func RentChargeReference(leaseID uuid.UUID, due civil.Date) string {
	return "rent:" + leaseID.String() + ":" + due.String()
}

// NewRentCharge creates the pending rent income of a lease for one due date
func NewRentCharge(ownerID, propertyID, leaseID uuid.UUID, amount decimal.Decimal, currency string, due civil.Date) (*Transaction, error) {
	return NewTransaction(ownerID, propertyID, &leaseID, Entry{
		Type:        TypeIncome,
		Category:    CategoryRent,
		Amount:      amount,
		Currency:    currency,
		Date:        due,
		Description: "Rent due " + due.String(),
	}, WithReference(RentChargeReference(leaseID, due)))
}

// Update replaces the entry of a pending transaction
func (t *Transaction) Update(entry Entry) error {
	if t.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending transactions can be edited")
	}
	normalized, err := entry.normalize()
	if err != nil {
		return err
	}
	t.Entry = normalized
	t.MarkModified()
	return nil
}

// MarkCompleted settles the transaction
func (t *Transaction) MarkCompleted() error {
	return t.transition(StatusCompleted)
}

// Cancel voids the transaction
func (t *Transaction) Cancel() error {
	return t.transition(StatusCancelled)
}

func (t *Transaction) transition(target Status) error {
	if !t.Status.CanTransitionTo(target) {
		return ErrInvalidTransition
	}
	t.Status = target
	t.MarkModified()
	t.AddDomainEvent(NewTransactionStatusChangedEvent(t))
	return nil
}

// SignedAmount returns the amount, negative for expenses
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Summary aggregates transactions over a period
type Summary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
	Count   int
}

// Summarize totals non-cancelled transactions. Amounts of every currency are
// added as-is; callers filter by currency when they need a single one.
func Summarize(txs []Transaction) Summary {
	s := Summary{Income: decimal.Zero, Expense: decimal.Zero}
	for i := range txs {
		tx := &txs[i]
		if tx.Status == StatusCancelled {
			continue
		}
		s.Count++
		if tx.Type == TypeIncome {
			s.Income = s.Income.Add(tx.Amount)
		} else {
			s.Expense = s.Expense.Add(tx.Amount)
		}
	}
	s.Net = s.Income.Sub(s.Expense)
	return s
}
