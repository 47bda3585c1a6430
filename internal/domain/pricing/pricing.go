package pricing

import (
	"errors"

	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/money"
)

var (
	ErrNightlyRateRequired = errors.New("pricing: nightly rate must be positive")
	ErrNightsRequired      = errors.New("pricing: stay must cover at least one night")
)

// Quote is the price of a stay fixed at booking time.
type Quote struct {
	Nights  int
	Nightly money.Money
	Total   money.Money
}

// QuoteStay prices a stay as nights x nightly rate.
func QuoteStay(nightly money.Money, stay daterange.DateRange) (Quote, error) {
	if nightly.Amount <= 0 {
		return Quote{}, ErrNightlyRateRequired
	}
	nights := stay.Nights()
	if nights <= 0 {
		return Quote{}, ErrNightsRequired
	}
	return Quote{
		Nights:  nights,
		Nightly: nightly,
		Total:   nightly.Multiply(int64(nights)),
	}, nil
}
