package ledger

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/dansever/estait-app-sub000/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest records an income or expense of a property
type CreateTransactionRequest struct {
	PropertyID  uuid.UUID        `json:"property_id" binding:"required"`
	LeaseID     *uuid.UUID       `json:"lease_id"`
	Type        string           `json:"type" binding:"required,oneof=income expense"`
	Category    string           `json:"category" binding:"omitempty,oneof=rent deposit maintenance utilities insurance tax mortgage management other"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Currency    string           `json:"currency" binding:"omitempty,currency"`
	Date        string           `json:"date" binding:"required,iso_date"`
	Description string           `json:"description" binding:"max=1000"`
	Reference   string           `json:"reference" binding:"max=200"`
	Completed   bool             `json:"completed"`
}

// UpdateTransactionRequest replaces the entry of a pending transaction
type UpdateTransactionRequest struct {
	Type        string           `json:"type" binding:"required,oneof=income expense"`
	Category    string           `json:"category" binding:"omitempty,oneof=rent deposit maintenance utilities insurance tax mortgage management other"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Currency    string           `json:"currency" binding:"omitempty,currency"`
	Date        string           `json:"date" binding:"required,iso_date"`
	Description string           `json:"description" binding:"max=1000"`
	Version     int              `json:"version" binding:"required,min=1"`
}

// TransactionListFilter represents filter options for listing transactions
type TransactionListFilter struct {
	PropertyID *uuid.UUID `form:"property_id"`
	LeaseID    *uuid.UUID `form:"lease_id"`
	Type       string     `form:"type" binding:"omitempty,oneof=income expense"`
	Category   string     `form:"category" binding:"omitempty,oneof=rent deposit maintenance utilities insurance tax mortgage management other"`
	Status     string     `form:"status" binding:"omitempty,oneof=pending completed cancelled"`
	DateFrom   string     `form:"date_from" binding:"omitempty,iso_date"`
	DateTo     string     `form:"date_to" binding:"omitempty,iso_date"`
	Search     string     `form:"search"`
	Page       int        `form:"page" binding:"min=0"`
	PageSize   int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SummaryRequest selects the period and property of a ledger summary.
// The period defaults to the current month up to today.
type SummaryRequest struct {
	PropertyID *uuid.UUID `form:"property_id"`
	From       string     `form:"from" binding:"omitempty,iso_date"`
	To         string     `form:"to" binding:"omitempty,iso_date"`
}

// CurrencyTotals holds the totals booked in one currency
type CurrencyTotals struct {
	Currency string          `json:"currency"`
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
	Net      decimal.Decimal `json:"net"`
	Count    int             `json:"count"`
	Pending  decimal.Decimal `json:"pending_income"`
}

// SummaryResponse is the income/expense summary of a period
type SummaryResponse struct {
	From       civil.Date       `json:"from"`
	To         civil.Date       `json:"to"`
	PropertyID *uuid.UUID       `json:"property_id,omitempty"`
	Totals     []CurrencyTotals `json:"totals"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          uuid.UUID       `json:"id"`
	PropertyID  uuid.UUID       `json:"property_id"`
	LeaseID     *uuid.UUID      `json:"lease_id,omitempty"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Date        civil.Date      `json:"date"`
	Description string          `json:"description,omitempty"`
	Status      string          `json:"status"`
	Reference   string          `json:"reference,omitempty"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToTransactionResponse converts a transaction to its response
func ToTransactionResponse(t *ledger.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		PropertyID:  t.PropertyID,
		LeaseID:     t.LeaseID,
		Type:        string(t.Type),
		Category:    string(t.Category),
		Amount:      t.Amount,
		Currency:    t.Currency,
		Date:        t.Date,
		Description: t.Description,
		Status:      string(t.Status),
		Reference:   t.Reference,
		Version:     t.Version,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ToTransactionResponses converts a slice of transactions
func ToTransactionResponses(txs []ledger.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txs))
	for i := range txs {
		responses[i] = ToTransactionResponse(&txs[i])
	}
	return responses
}
