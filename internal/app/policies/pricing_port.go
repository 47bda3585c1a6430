package policies

import (
	"context"

	domainpricing "stayhub/internal/domain/pricing"
	domainproperties "stayhub/internal/domain/properties"
	domainrange "stayhub/internal/domain/shared/daterange"
)

type PricingPort interface {
	Quote(ctx context.Context, property *domainproperties.Property, dr domainrange.DateRange) (domainpricing.Quote, error)
}

// NightlyPricing charges the listed nightly price for every night of the stay.
type NightlyPricing struct{}

func (NightlyPricing) Quote(_ context.Context, property *domainproperties.Property, dr domainrange.DateRange) (domainpricing.Quote, error) {
	return domainpricing.QuoteStay(property.NightlyPrice, dr)
}
