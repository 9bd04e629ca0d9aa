package models

import (
	"time"

	"github.com/dansever/estait-app-sub000/internal/domain/property"
	"github.com/dansever/estait-app-sub000/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PropertyModel is the persistence model for the Property aggregate
type PropertyModel struct {
	OwnedAggregateModel
	Name          string                  `gorm:"type:varchar(200);not null"`
	Type          property.PropertyType   `gorm:"type:varchar(20);not null;default:'other'"`
	Status        property.PropertyStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	Street        string                  `gorm:"type:varchar(255)"`
	Unit          string                  `gorm:"type:varchar(50)"`
	City          string                  `gorm:"type:varchar(100);index"`
	State         string                  `gorm:"type:varchar(100)"`
	PostalCode    string                  `gorm:"type:varchar(20)"`
	Country       string                  `gorm:"type:varchar(100)"`
	Bedrooms      int                     `gorm:"not null;default:0"`
	Bathrooms     decimal.Decimal         `gorm:"type:decimal(4,1);not null;default:0"`
	SquareMeters  decimal.Decimal         `gorm:"type:decimal(10,2);not null;default:0"`
	PurchasePrice decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	PurchaseDate  *time.Time              `gorm:"type:date"`
	MarketValue   decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	Currency      string                  `gorm:"type:varchar(3);not null;default:'USD'"`
	Notes         string                  `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PropertyModel) TableName() string {
	return "properties"
}

// ToDomain converts the persistence model to a domain Property
func (m *PropertyModel) ToDomain() *property.Property {
	return &property.Property{
		OwnedAggregateRoot: m.ToOwnedAggregateRoot(),
		Name:               m.Name,
		Type:               m.Type,
		Status:             m.Status,
		Address:            valueobject.RestoreAddress(m.Street, m.Unit, m.City, m.State, m.PostalCode, m.Country),
		Details: property.Details{
			Bedrooms:      m.Bedrooms,
			Bathrooms:     m.Bathrooms,
			SquareMeters:  m.SquareMeters,
			PurchasePrice: m.PurchasePrice,
			PurchaseDate:  DatePtrOf(m.PurchaseDate),
			MarketValue:   m.MarketValue,
			Currency:      m.Currency,
		},
		Notes: m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Property
func (m *PropertyModel) FromDomain(p *property.Property) {
	m.FromDomainOwnedAggregateRoot(p.OwnedAggregateRoot)
	m.Name = p.Name
	m.Type = p.Type
	m.Status = p.Status
	m.Street = p.Address.Street()
	m.Unit = p.Address.Unit()
	m.City = p.Address.City()
	m.State = p.Address.State()
	m.PostalCode = p.Address.PostalCode()
	m.Country = p.Address.Country()
	m.Bedrooms = p.Bedrooms
	m.Bathrooms = p.Bathrooms
	m.SquareMeters = p.SquareMeters
	m.PurchasePrice = p.PurchasePrice
	m.PurchaseDate = DatePtrValue(p.PurchaseDate)
	m.MarketValue = p.MarketValue
	m.Currency = p.Currency
	m.Notes = p.Notes
}

// PropertyModelFromDomain creates a new persistence model from a domain Property
func PropertyModelFromDomain(p *property.Property) *PropertyModel {
	m := &PropertyModel{}
	m.FromDomain(p)
	return m
}

// TenantModel is the persistence model for a renter
type TenantModel struct {
	OwnedAggregateModel
	FirstName        string `gorm:"type:varchar(100);not null"`
	LastName         string `gorm:"type:varchar(100);not null"`
	Email            string `gorm:"type:varchar(200);index"`
	Phone            string `gorm:"type:varchar(50)"`
	EmergencyContact string `gorm:"type:varchar(200)"`
	Notes            string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant
func (m *TenantModel) ToDomain() *property.Tenant {
	return &property.Tenant{
		OwnedAggregateRoot: m.ToOwnedAggregateRoot(),
		FirstName:          m.FirstName,
		LastName:           m.LastName,
		Email:              m.Email,
		Phone:              m.Phone,
		EmergencyContact:   m.EmergencyContact,
		Notes:              m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Tenant
func (m *TenantModel) FromDomain(t *property.Tenant) {
	m.FromDomainOwnedAggregateRoot(t.OwnedAggregateRoot)
	m.FirstName = t.FirstName
	m.LastName = t.LastName
	m.Email = t.Email
	m.Phone = t.Phone
	m.EmergencyContact = t.EmergencyContact
	m.Notes = t.Notes
}

// TenantModelFromDomain creates a new persistence model from a domain Tenant
func TenantModelFromDomain(t *property.Tenant) *TenantModel {
	m := &TenantModel{}
	m.FromDomain(t)
	return m
}
