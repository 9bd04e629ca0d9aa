package property

import (
	"time"

	"cloud.google.com/go/civil"
	leasingapp "github.com/dansever/estait-app-sub000/internal/application/leasing"
	"github.com/dansever/estait-app-sub000/internal/domain/property"
	"github.com/dansever/estait-app-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddressInput is the postal address of a property in requests
type AddressInput struct {
	Street     string `json:"street" binding:"required,max=255"`
	Unit       string `json:"unit" binding:"max=50"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
	Country    string `json:"country" binding:"max=100"`
}

// ToAddress converts the input into an Address value object
func (a AddressInput) ToAddress() (valueobject.Address, error) {
	return valueobject.NewAddress(a.Street, a.City,
		valueobject.WithUnit(a.Unit),
		valueobject.WithState(a.State),
		valueobject.WithPostalCode(a.PostalCode),
		valueobject.WithCountry(a.Country),
	)
}

// AddressResponse is the postal address of a property in responses
type AddressResponse struct {
	Street     string `json:"street"`
	Unit       string `json:"unit,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// DetailsInput holds the descriptive attributes of a property
type DetailsInput struct {
	Bedrooms      int              `json:"bedrooms" binding:"min=0,max=100"`
	Bathrooms     *decimal.Decimal `json:"bathrooms"`
	SquareMeters  *decimal.Decimal `json:"square_meters"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	PurchaseDate  string           `json:"purchase_date" binding:"omitempty,iso_date"`
	MarketValue   *decimal.Decimal `json:"market_value"`
	Currency      string           `json:"currency" binding:"omitempty,currency"`
}

// CreatePropertyRequest represents a request to add a property
type CreatePropertyRequest struct {
	Name    string       `json:"name" binding:"required,min=1,max=200"`
	Type    string       `json:"type" binding:"omitempty,oneof=apartment house condo townhouse commercial land other"`
	Address AddressInput `json:"address" binding:"required"`
	DetailsInput
	Notes string `json:"notes" binding:"max=5000"`
}

// UpdatePropertyRequest is a full edit of a property
type UpdatePropertyRequest struct {
	Name    string       `json:"name" binding:"required,min=1,max=200"`
	Type    string       `json:"type" binding:"required,oneof=apartment house condo townhouse commercial land other"`
	Address AddressInput `json:"address" binding:"required"`
	DetailsInput
	Notes   string `json:"notes" binding:"max=5000"`
	Version int    `json:"version" binding:"required,min=1"`
}

// PropertyListFilter represents filter options for listing properties
type PropertyListFilter struct {
	Search      string `form:"search"`
	Status      string `form:"status" binding:"omitempty,oneof=active archived"`
	Type        string `form:"type" binding:"omitempty,oneof=apartment house condo townhouse commercial land other"`
	City        string `form:"city"`
	MinBedrooms *int   `form:"min_bedrooms" binding:"omitempty,min=0"`
	Page        int    `form:"page" binding:"min=0"`
	PageSize    int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PropertyResponse represents a property in API responses
type PropertyResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	Address       AddressResponse `json:"address"`
	Bedrooms      int             `json:"bedrooms"`
	Bathrooms     decimal.Decimal `json:"bathrooms"`
	SquareMeters  decimal.Decimal `json:"square_meters"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	PurchaseDate  *civil.Date     `json:"purchase_date,omitempty"`
	MarketValue   decimal.Decimal `json:"market_value"`
	Currency      string          `json:"currency"`
	Notes         string          `json:"notes,omitempty"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// IncomeSummary is the month-to-date ledger total of a property
type IncomeSummary struct {
	From    civil.Date      `json:"from"`
	To      civil.Date      `json:"to"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// OverviewResponse is the property detail view
type OverviewResponse struct {
	Property             PropertyResponse           `json:"property"`
	AsOf                 civil.Date                 `json:"as_of"`
	LeaseStatus          string                     `json:"lease_status"`
	CurrentLease         *leasingapp.LeaseResponse  `json:"current_lease,omitempty"`
	UpcomingLeases       []leasingapp.LeaseResponse `json:"upcoming_leases"`
	PastLeases           []leasingapp.LeaseResponse `json:"past_leases"`
	OpenMaintenanceTasks int64                      `json:"open_maintenance_tasks"`
	MonthToDate          IncomeSummary              `json:"month_to_date"`
}

// ToPropertyResponse converts a property to its response
func ToPropertyResponse(p *property.Property) PropertyResponse {
	return PropertyResponse{
		ID:     p.ID,
		Name:   p.Name,
		Type:   string(p.Type),
		Status: string(p.Status),
		Address: AddressResponse{
			Street:     p.Address.Street(),
			Unit:       p.Address.Unit(),
			City:       p.Address.City(),
			State:      p.Address.State(),
			PostalCode: p.Address.PostalCode(),
			Country:    p.Address.Country(),
		},
		Bedrooms:      p.Bedrooms,
		Bathrooms:     p.Bathrooms,
		SquareMeters:  p.SquareMeters,
		PurchasePrice: p.PurchasePrice,
		PurchaseDate:  p.PurchaseDate,
		MarketValue:   p.MarketValue,
		Currency:      p.Currency,
		Notes:         p.Notes,
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToPropertyResponses converts a slice of properties
func ToPropertyResponses(props []property.Property) []PropertyResponse {
	responses := make([]PropertyResponse, len(props))
	for i := range props {
		responses[i] = ToPropertyResponse(&props[i])
	}
	return responses
}

// ContactInput holds renter contact details
type ContactInput struct {
	Email            string `json:"email" binding:"omitempty,email,max=255"`
	Phone            string `json:"phone" binding:"max=50"`
	EmergencyContact string `json:"emergency_contact" binding:"max=255"`
}

// CreateTenantRequest represents a request to add a renter
type CreateTenantRequest struct {
	FirstName string `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
	ContactInput
	Notes string `json:"notes" binding:"max=5000"`
}

// UpdateTenantRequest is a full edit of a renter
type UpdateTenantRequest struct {
	FirstName string `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
	ContactInput
	Notes   string `json:"notes" binding:"max=5000"`
	Version int    `json:"version" binding:"required,min=1"`
}

// TenantListFilter represents filter options for listing renters
type TenantListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// TenantResponse represents a renter in API responses
type TenantResponse struct {
	ID               uuid.UUID `json:"id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	EmergencyContact string    `json:"emergency_contact,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	Version          int       `json:"version"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ToTenantResponse converts a renter to its response
func ToTenantResponse(t *property.Tenant) TenantResponse {
	return TenantResponse{
		ID:               t.ID,
		FirstName:        t.FirstName,
		LastName:         t.LastName,
		FullName:         t.FullName(),
		Email:            t.Email,
		Phone:            t.Phone,
		EmergencyContact: t.EmergencyContact,
		Notes:            t.Notes,
		Version:          t.Version,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

// ToTenantResponses converts a slice of renters
func ToTenantResponses(tenants []property.Tenant) []TenantResponse {
	responses := make([]TenantResponse, len(tenants))
	for i := range tenants {
		responses[i] = ToTenantResponse(&tenants[i])
	}
	return responses
}

func (c ContactInput) toDomain() property.ContactInfo {
	return property.ContactInfo{
		Email:            c.Email,
		Phone:            c.Phone,
		EmergencyContact: c.EmergencyContact,
	}
}
