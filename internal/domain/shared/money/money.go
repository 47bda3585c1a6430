package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const DefaultCurrency = "USD"

var (
	ErrInvalidCurrency  = errors.New("money: invalid currency code")
	ErrCurrencyMismatch = errors.New("money: currency mismatch")
	ErrInvalidAmount    = errors.New("money: invalid decimal amount")
)

// Money keeps amounts in integer minor units (cents).
type Money struct {
	Amount   int64
	Currency string
}

func New(amount int64, currency string) (Money, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	if len(currency) != 3 {
		return Money{}, ErrInvalidCurrency
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// Must panics on invalid input; fixtures and tests only.
func Must(amount int64, currency string) Money {
	m, err := New(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// FromDecimal converts a decimal value such as 129.99 into minor units.
func FromDecimal(value float64, currency string) (Money, error) {
	if value < 0 {
		return Money{}, ErrInvalidAmount
	}
	return New(int64(value*100+0.5), currency)
}

// ParseDecimal parses "129.99" or "130" into minor units without float rounding.
func ParseDecimal(raw, currency string) (Money, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "-") {
		return Money{}, ErrInvalidAmount
	}
	whole, frac, _ := strings.Cut(raw, ".")
	if len(frac) > 2 {
		return Money{}, ErrInvalidAmount
	}
	for len(frac) < 2 {
		frac += "0"
	}
	units, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return New(units, currency)
}

func (m Money) Add(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

func (m Money) Multiply(times int64) Money {
	return Money{Amount: m.Amount * times, Currency: m.Currency}
}

func (m Money) IsZero() bool {
	return m.Amount == 0
}

// Decimal renders the amount in major units, e.g. 12999 -> 129.99.
func (m Money) Decimal() float64 {
	return float64(m.Amount) / 100
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d %s", m.Amount/100, m.Amount%100, m.Currency)
}

func (m Money) ensureSameCurrency(other Money) error {
	if m.Currency == "" || other.Currency == "" {
		return ErrInvalidCurrency
	}
	if m.Currency != other.Currency {
		return ErrCurrencyMismatch
	}
	return nil
}
