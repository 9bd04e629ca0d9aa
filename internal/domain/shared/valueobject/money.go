package valueobject

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency is an ISO 4217 currency code
type Currency string

// Commonly used currencies
const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	ILS Currency = "ILS"
)

// DefaultCurrency is used when a record does not name one
const DefaultCurrency = USD

// ParseCurrency validates and normalizes an ISO 4217 code
func ParseCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", fmt.Errorf("currency cannot be empty")
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", fmt.Errorf("unknown currency code %q", code)
	}
	return Currency(unit.String()), nil
}

// IsValidCurrency reports whether code is a known ISO 4217 code
func IsValidCurrency(code string) bool {
	_, err := ParseCurrency(code)
	return err == nil
}

// String returns the currency code
func (c Currency) String() string {
	return string(c)
}

// Money is an immutable amount in a single currency
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates Money after validating the currency code
func NewMoney(amount decimal.Decimal, code Currency) (Money, error) {
	cur, err := ParseCurrency(string(code))
	if err != nil {
		return Money{}, err
	}
	return Money{amount: amount, currency: cur}, nil
}

// NewMoneyFromString creates Money from a decimal string
func NewMoneyFromString(amount string, code Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d, code)
}

// Zero returns zero Money in the given currency
func Zero(code Currency) Money {
	return Money{amount: decimal.Zero, currency: code}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Add returns the sum; both values must share a currency
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot add money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract returns the difference; both values must share a currency
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot subtract money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// Multiply returns the amount scaled by factor
func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.currency}
}

// Equals returns true if amount and currency match
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String returns "<amount> <code>" with two decimals
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}

// Format renders the amount with the currency symbol and grouping for the given language tag
func (m Money) Format(tag language.Tag) string {
	unit, err := currency.ParseISO(string(m.currency))
	if err != nil {
		return m.String()
	}
	f, _ := m.amount.Round(2).Float64()
	p := message.NewPrinter(tag)
	return p.Sprint(currency.Symbol(unit.Amount(f)))
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}{
		Amount:   m.amount.StringFixed(2),
		Currency: m.currency,
	})
}

// UnmarshalJSON implements json.Unmarshaler and validates the currency
func (m *Money) UnmarshalJSON(data []byte) error {
	var v struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := NewMoneyFromString(v.Amount, v.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
