package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is an immutable postal address of a property
type Address struct {
	street     string
	unit       string
	city       string
	state      string
	postalCode string
	country    string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithUnit sets the apartment or suite number
func WithUnit(unit string) AddressOption {
	return func(a *Address) {
		a.unit = strings.TrimSpace(unit)
	}
}

// WithState sets the state, province or region
func WithState(state string) AddressOption {
	return func(a *Address) {
		a.state = strings.TrimSpace(state)
	}
}

// WithPostalCode sets the postal code
func WithPostalCode(postalCode string) AddressOption {
	return func(a *Address) {
		a.postalCode = strings.TrimSpace(postalCode)
	}
}

// WithCountry sets the country
func WithCountry(country string) AddressOption {
	return func(a *Address) {
		a.country = strings.TrimSpace(country)
	}
}

// NewAddress creates a new Address. Street and city are required.
func NewAddress(street, city string, opts ...AddressOption) (Address, error) {
	addr := Address{
		street: strings.TrimSpace(street),
		city:   strings.TrimSpace(city),
	}
	for _, opt := range opts {
		opt(&addr)
	}

	if addr.street == "" {
		return Address{}, fmt.Errorf("street cannot be empty")
	}
	if len(addr.street) > 255 {
		return Address{}, fmt.Errorf("street cannot exceed 255 characters")
	}
	if addr.city == "" {
		return Address{}, fmt.Errorf("city cannot be empty")
	}
	if len(addr.city) > 100 {
		return Address{}, fmt.Errorf("city cannot exceed 100 characters")
	}
	if len(addr.state) > 100 {
		return Address{}, fmt.Errorf("state cannot exceed 100 characters")
	}
	if len(addr.postalCode) > 20 {
		return Address{}, fmt.Errorf("postal code cannot exceed 20 characters")
	}
	if len(addr.country) > 100 {
		return Address{}, fmt.Errorf("country cannot exceed 100 characters")
	}
	return addr, nil
}

// RestoreAddress rebuilds an Address from stored columns without validation
func RestoreAddress(street, unit, city, state, postalCode, country string) Address {
	return Address{
		street:     street,
		unit:       unit,
		city:       city,
		state:      state,
		postalCode: postalCode,
		country:    country,
	}
}

// Street returns the street line
func (a Address) Street() string { return a.street }

// Unit returns the apartment or suite number
func (a Address) Unit() string { return a.unit }

// City returns the city
func (a Address) City() string { return a.city }

// State returns the state
func (a Address) State() string { return a.state }

// PostalCode returns the postal code
func (a Address) PostalCode() string { return a.postalCode }

// Country returns the country
func (a Address) Country() string { return a.country }

// IsEmpty returns true if no street was set
func (a Address) IsEmpty() bool {
	return a.street == ""
}

// Equals compares two addresses field by field, ignoring case
func (a Address) Equals(other Address) bool {
	return strings.EqualFold(a.street, other.street) &&
		strings.EqualFold(a.unit, other.unit) &&
		strings.EqualFold(a.city, other.city) &&
		strings.EqualFold(a.state, other.state) &&
		strings.EqualFold(a.postalCode, other.postalCode) &&
		strings.EqualFold(a.country, other.country)
}

// String renders a single-line address, e.g. "12 Main St, Apt 4, Springfield, IL 62701, USA"
func (a Address) String() string {
	parts := []string{a.street}
	if a.unit != "" {
		parts = append(parts, a.unit)
	}
	parts = append(parts, a.city)
	region := strings.TrimSpace(a.state + " " + a.postalCode)
	if region != "" {
		parts = append(parts, region)
	}
	if a.country != "" {
		parts = append(parts, a.country)
	}
	return strings.Join(parts, ", ")
}

type addressJSON struct {
	Street     string `json:"street"`
	Unit       string `json:"unit,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Street:     a.street,
		Unit:       a.unit,
		City:       a.city,
		State:      a.state,
		PostalCode: a.postalCode,
		Country:    a.country,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Address) UnmarshalJSON(data []byte) error {
	var v addressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := NewAddress(v.Street, v.City,
		WithUnit(v.Unit), WithState(v.State), WithPostalCode(v.PostalCode), WithCountry(v.Country))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Value implements driver.Valuer so an Address can be stored as a JSON column
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return a.MarshalJSON()
}

// Scan implements sql.Scanner
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}
	return a.UnmarshalJSON(data)
}
