package leasing

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/dansever/estait-app-sub000/internal/domain/leasing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateLeaseRequest represents a request to record a new lease
type CreateLeaseRequest struct {
	PropertyID       uuid.UUID        `json:"property_id" binding:"required"`
	TenantID         *uuid.UUID       `json:"tenant_id"`
	LeaseStart       string           `json:"lease_start" binding:"required,iso_date"`
	LeaseEnd         string           `json:"lease_end" binding:"required,iso_date"`
	RentAmount       *decimal.Decimal `json:"rent_amount" binding:"required"`
	Currency         string           `json:"currency" binding:"omitempty,currency"`
	SecurityDeposit  *decimal.Decimal `json:"security_deposit"`
	PaymentFrequency string           `json:"payment_frequency" binding:"omitempty,oneof=monthly weekly biweekly quarterly annually"`
	PaymentDueDay    *int             `json:"payment_due_day" binding:"omitempty,min=1,max=31"`
	Notes            string           `json:"notes" binding:"max=5000"`
}

// UpdateLeaseRequest is a full edit of a lease. Omitted fields keep their value.
type UpdateLeaseRequest struct {
	LeaseStart       *string          `json:"lease_start" binding:"omitempty,iso_date"`
	LeaseEnd         *string          `json:"lease_end" binding:"omitempty,iso_date"`
	RentAmount       *decimal.Decimal `json:"rent_amount"`
	Currency         *string          `json:"currency" binding:"omitempty,currency"`
	SecurityDeposit  *decimal.Decimal `json:"security_deposit"`
	PaymentFrequency *string          `json:"payment_frequency" binding:"omitempty,oneof=monthly weekly biweekly quarterly annually"`
	PaymentDueDay    *int             `json:"payment_due_day" binding:"omitempty,min=1,max=31"`
	ClearDueDay      bool             `json:"clear_payment_due_day"`
	Notes            *string          `json:"notes" binding:"omitempty,max=5000"`
	Version          int              `json:"version" binding:"required,min=1"`
}

// AssignTenantRequest links or unlinks the renter of a lease. A nil tenant unassigns.
type AssignTenantRequest struct {
	TenantID *uuid.UUID `json:"tenant_id"`
}

// TerminateLeaseRequest ends a lease early
type TerminateLeaseRequest struct {
	TerminatedAt string `json:"terminated_at" binding:"required,iso_date"`
	Reason       string `json:"reason" binding:"max=500"`
}

// PreviewRequest classifies a proposed lease period without storing it.
// Dates are raw strings so malformed input can be reported instead of rejected.
type PreviewRequest struct {
	LeaseStart       string `json:"lease_start"`
	LeaseEnd         string `json:"lease_end"`
	PaymentFrequency string `json:"payment_frequency"`
	PaymentDueDay    *int   `json:"payment_due_day"`
	AsOf             string `json:"as_of"`
}

// PreviewResponse reports the derived status of a proposed lease period
type PreviewResponse struct {
	Valid           bool             `json:"valid"`
	ErrorCode       string           `json:"error_code,omitempty"`
	ErrorMessage    string           `json:"error_message,omitempty"`
	AsOf            civil.Date       `json:"as_of"`
	Status          leasing.Status   `json:"status"`
	Progress        leasing.Progress `json:"progress"`
	NextPaymentDate *civil.Date      `json:"next_payment_date,omitempty"`
}

// LeaseListFilter represents filter options for listing leases
type LeaseListFilter struct {
	PropertyID *uuid.UUID `form:"property_id"`
	TenantID   *uuid.UUID `form:"tenant_id"`
	Status     string     `form:"status" binding:"omitempty,oneof=upcoming active ending_soon expired"`
	Page       int        `form:"page" binding:"min=0"`
	PageSize   int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// LeaseResponse represents a lease with its derived status in API responses
type LeaseResponse struct {
	ID                uuid.UUID                `json:"id"`
	PropertyID        uuid.UUID                `json:"property_id"`
	TenantID          *uuid.UUID               `json:"tenant_id,omitempty"`
	TenantName        string                   `json:"tenant_name,omitempty"`
	LeaseStart        civil.Date               `json:"lease_start"`
	LeaseEnd          civil.Date               `json:"lease_end"`
	RentAmount        decimal.Decimal          `json:"rent_amount"`
	Currency          string                   `json:"currency"`
	SecurityDeposit   decimal.Decimal          `json:"security_deposit"`
	PaymentFrequency  leasing.PaymentFrequency `json:"payment_frequency"`
	PaymentDueDay     *int                     `json:"payment_due_day,omitempty"`
	TerminatedAt      *civil.Date              `json:"terminated_at,omitempty"`
	TerminationReason string                   `json:"termination_reason,omitempty"`
	Notes             string                   `json:"notes,omitempty"`
	Status            leasing.Status           `json:"status"`
	IsActive          bool                     `json:"is_active"`
	Progress          leasing.Progress         `json:"progress"`
	NextPaymentDate   *civil.Date              `json:"next_payment_date,omitempty"`
	Version           int                      `json:"version"`
	CreatedAt         time.Time                `json:"created_at"`
	UpdatedAt         time.Time                `json:"updated_at"`
}

// PropertyLeasesResponse splits the leases of a property by status on AsOf
type PropertyLeasesResponse struct {
	PropertyID uuid.UUID       `json:"property_id"`
	AsOf       civil.Date      `json:"as_of"`
	Current    *LeaseResponse  `json:"current,omitempty"`
	Upcoming   []LeaseResponse `json:"upcoming"`
	Past       []LeaseResponse `json:"past"`
}

// SummaryResponse is the lease dashboard of an owner
type SummaryResponse struct {
	AsOf             civil.Date             `json:"as_of"`
	Counts           map[leasing.Status]int `json:"counts"`
	EndingSoon       []LeaseResponse        `json:"ending_soon"`
	ActiveProperties int64                  `json:"active_properties"`
	Occupied         int                    `json:"occupied"`
	OccupancyRate    float64                `json:"occupancy_rate"`
}

// ToLeaseResponse converts a lease to its response on day now
func ToLeaseResponse(l *leasing.Lease, now civil.Date) LeaseResponse {
	status := l.Status(now)
	return LeaseResponse{
		ID:                l.ID,
		PropertyID:        l.PropertyID,
		TenantID:          l.TenantID,
		LeaseStart:        l.LeaseStart,
		LeaseEnd:          l.LeaseEnd,
		RentAmount:        l.RentAmount,
		Currency:          l.Currency,
		SecurityDeposit:   l.SecurityDeposit,
		PaymentFrequency:  l.PaymentFrequency,
		PaymentDueDay:     l.PaymentDueDay,
		TerminatedAt:      l.TerminatedAt,
		TerminationReason: l.TerminationReason,
		Notes:             l.Notes,
		Status:            status,
		IsActive:          status.IsCurrent(),
		Progress:          l.Progress(now),
		NextPaymentDate:   l.NextPaymentDate(now),
		Version:           l.Version,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}

// ToLeaseResponses converts a slice of leases on day now
func ToLeaseResponses(leases []leasing.Lease, now civil.Date) []LeaseResponse {
	responses := make([]LeaseResponse, len(leases))
	for i := range leases {
		responses[i] = ToLeaseResponse(&leases[i], now)
	}
	return responses
}
