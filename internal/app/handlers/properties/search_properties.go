package properties

import (
	"context"
	"errors"

	"stayhub/internal/app/catalog"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainsearch "stayhub/internal/domain/search"
)

const searchPropertiesKey = "properties.search"

var (
	ErrPriceRange   = errors.New("properties: min price must not exceed max price")
	ErrNegativeMins = errors.New("properties: minimum counts must be non-negative")
)

// SearchPropertiesQuery applies guest preferences and a free-text term to the
// whole catalog.
type SearchPropertiesQuery struct {
	Preferences domainsearch.Preferences
	Term        string
}

func (q SearchPropertiesQuery) Key() string { return searchPropertiesKey }

func (q SearchPropertiesQuery) Validate() error {
	p := q.Preferences
	if p.MaxPrice != nil && p.MinPrice > *p.MaxPrice {
		return ErrPriceRange
	}
	if p.MinBeds < 0 || p.MinBedrooms < 0 || p.MinBathrooms < 0 {
		return ErrNegativeMins
	}
	return nil
}

type SearchPropertiesHandler struct {
	Catalog
}

func (h *SearchPropertiesHandler) Handle(ctx context.Context, q SearchPropertiesQuery) (dto.PropertyCollection, error) {
	var result dto.PropertyCollection
	err := h.read(ctx, func(ctx context.Context, _ uow.UnitOfWork, acc *catalog.Accessor) error {
		items, err := acc.ListAll(ctx)
		if err != nil {
			return err
		}
		result = dto.MapProperties(domainsearch.Filter(items, q.Preferences, q.Term))
		return nil
	})
	return result, err
}

var _ queries.Handler[SearchPropertiesQuery, dto.PropertyCollection] = (*SearchPropertiesHandler)(nil)
