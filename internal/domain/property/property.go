package property

import (
	"strings"

	"cloud.google.com/go/civil"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/dansever/estait-app-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PropertyType classifies a property
type PropertyType string

const (
	TypeApartment  PropertyType = "apartment"
	TypeHouse      PropertyType = "house"
	TypeCondo      PropertyType = "condo"
	TypeTownhouse  PropertyType = "townhouse"
	TypeCommercial PropertyType = "commercial"
	TypeLand       PropertyType = "land"
	TypeOther      PropertyType = "other"
)

// IsValid checks if the type is a known PropertyType
func (t PropertyType) IsValid() bool {
	switch t {
	case TypeApartment, TypeHouse, TypeCondo, TypeTownhouse, TypeCommercial, TypeLand, TypeOther:
		return true
	}
	return false
}

// PropertyStatus represents whether a property is in the portfolio
type PropertyStatus string

const (
	StatusActive   PropertyStatus = "active"
	StatusArchived PropertyStatus = "archived"
)

// IsValid checks if the status is a known PropertyStatus
func (s PropertyStatus) IsValid() bool {
	return s == StatusActive || s == StatusArchived
}

// Details are the descriptive attributes of a property
type Details struct {
	Bedrooms      int
	Bathrooms     decimal.Decimal
	SquareMeters  decimal.Decimal
	PurchasePrice decimal.Decimal
	PurchaseDate  *civil.Date
	MarketValue   decimal.Decimal
	Currency      string
}

func (d Details) normalize() (Details, error) {
	if d.Bedrooms < 0 {
		return Details{}, shared.NewDomainError("INVALID_BEDROOMS", "Bedrooms cannot be negative")
	}
	if d.Bathrooms.IsNegative() {
		return Details{}, shared.NewDomainError("INVALID_BATHROOMS", "Bathrooms cannot be negative")
	}
	if d.SquareMeters.IsNegative() {
		return Details{}, shared.NewDomainError("INVALID_AREA", "Square meters cannot be negative")
	}
	if d.PurchasePrice.IsNegative() || d.MarketValue.IsNegative() {
		return Details{}, shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	if strings.TrimSpace(d.Currency) == "" {
		d.Currency = valueobject.DefaultCurrency.String()
	}
	cur, err := valueobject.ParseCurrency(d.Currency)
	if err != nil {
		return Details{}, shared.NewDomainError("INVALID_CURRENCY", "Currency must be an ISO 4217 code")
	}
	d.Currency = cur.String()
	return d, nil
}

// Property is a real-estate asset owned by a landlord account
type Property struct {
	shared.OwnedAggregateRoot
	Name    string
	Type    PropertyType
	Status  PropertyStatus
	Address valueobject.Address
	Details
	Notes string
}

// PropertyOption sets optional fields of a new property
type PropertyOption func(*Property) error

// WithDetails sets the descriptive attributes at creation
func WithDetails(details Details) PropertyOption {
	return func(p *Property) error {
		normalized, err := details.normalize()
		if err != nil {
			return err
		}
		p.Details = normalized
		return nil
	}
}

// WithPropertyNotes sets the initial notes
func WithPropertyNotes(notes string) PropertyOption {
	return func(p *Property) error {
		p.Notes = strings.TrimSpace(notes)
		return nil
	}
}

// NewProperty creates a new active property
func NewProperty(ownerID uuid.UUID, name string, propertyType PropertyType, address valueobject.Address, opts ...PropertyOption) (*Property, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if propertyType == "" {
		propertyType = TypeOther
	}
	if !propertyType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PROPERTY_TYPE", "Unknown property type")
	}
	if address.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address is required")
	}

	p := &Property{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Name:               name,
		Type:               propertyType,
		Status:             StatusActive,
		Address:            address,
		Details:            Details{Currency: valueobject.DefaultCurrency.String()},
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	p.AddDomainEvent(NewPropertyCreatedEvent(p))
	return p, nil
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Property name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Property name cannot exceed 200 characters")
	}
	return nil
}

// Update replaces name, type and address
func (p *Property) Update(name string, propertyType PropertyType, address valueobject.Address) error {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}
	if !propertyType.IsValid() {
		return shared.NewDomainError("INVALID_PROPERTY_TYPE", "Unknown property type")
	}
	if address.IsEmpty() {
		return shared.NewDomainError("INVALID_ADDRESS", "Address is required")
	}
	p.Name = name
	p.Type = propertyType
	p.Address = address
	p.MarkModified()
	p.AddDomainEvent(NewPropertyUpdatedEvent(p))
	return nil
}

// Revise applies a full edit of the property as a single modification
func (p *Property) Revise(name string, propertyType PropertyType, address valueobject.Address, details Details, notes string) error {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}
	if !propertyType.IsValid() {
		return shared.NewDomainError("INVALID_PROPERTY_TYPE", "Unknown property type")
	}
	if address.IsEmpty() {
		return shared.NewDomainError("INVALID_ADDRESS", "Address is required")
	}
	normalized, err := details.normalize()
	if err != nil {
		return err
	}
	p.Name = name
	p.Type = propertyType
	p.Address = address
	p.Details = normalized
	p.Notes = strings.TrimSpace(notes)
	p.MarkModified()
	p.AddDomainEvent(NewPropertyUpdatedEvent(p))
	return nil
}

// SetDetails replaces the descriptive attributes
func (p *Property) SetDetails(details Details) error {
	normalized, err := details.normalize()
	if err != nil {
		return err
	}
	p.Details = normalized
	p.MarkModified()
	return nil
}

// SetNotes replaces the free-form notes
func (p *Property) SetNotes(notes string) {
	p.Notes = strings.TrimSpace(notes)
	p.MarkModified()
}

// Archive removes the property from the active portfolio
func (p *Property) Archive() error {
	if p.Status == StatusArchived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Property is already archived")
	}
	p.Status = StatusArchived
	p.MarkModified()
	p.AddDomainEvent(NewPropertyArchivedEvent(p))
	return nil
}

// Restore brings an archived property back
func (p *Property) Restore() error {
	if p.Status != StatusArchived {
		return shared.NewDomainError("NOT_ARCHIVED", "Property is not archived")
	}
	p.Status = StatusActive
	p.MarkModified()
	p.AddDomainEvent(NewPropertyRestoredEvent(p))
	return nil
}

// IsArchived reports whether the property is archived
func (p *Property) IsArchived() bool {
	return p.Status == StatusArchived
}
