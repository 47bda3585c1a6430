package policies

import (
	"context"
	"time"

	domainpayment "stayhub/internal/domain/payment"
)

// PaymentsPort checks payment details before a booking is requested.
// Card data is never persisted.
type PaymentsPort interface {
	Verify(ctx context.Context, method domainpayment.Method, card *domainpayment.Card) error
}

// CardCheck validates card details locally; pay-at-property needs nothing.
type CardCheck struct {
	Now func() time.Time
}

func (c CardCheck) Verify(_ context.Context, method domainpayment.Method, card *domainpayment.Card) error {
	if method != domainpayment.MethodCard {
		return nil
	}
	if card == nil {
		return domainpayment.ErrCardRequired
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return card.Validate(now().UTC())
}
