package properties

import (
	"context"

	"stayhub/internal/app/apperr"
	"stayhub/internal/app/catalog"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainproperties "stayhub/internal/domain/properties"
	domainrecommend "stayhub/internal/domain/recommend"
)

const recommendPropertiesKey = "properties.recommend"

// RecommendPropertiesQuery ranks the catalog by similarity to every property
// the customer has booked. A customer without bookings gets an empty list.
type RecommendPropertiesQuery struct {
	CustomerID string
	Limit      int
}

func (q RecommendPropertiesQuery) Key() string     { return recommendPropertiesKey }
func (q RecommendPropertiesQuery) ActorID() string { return q.CustomerID }

type RecommendPropertiesHandler struct {
	Catalog
}

func (h *RecommendPropertiesHandler) Handle(ctx context.Context, q RecommendPropertiesQuery) (dto.PropertyCollection, error) {
	result := dto.PropertyCollection{Items: []dto.Property{}}
	err := h.read(ctx, func(ctx context.Context, unit uow.UnitOfWork, acc *catalog.Accessor) error {
		bookings, err := unit.Bookings().ListByCustomer(ctx, q.CustomerID)
		if err != nil {
			return apperr.Backend(err)
		}
		if len(bookings) == 0 {
			return nil
		}
		seeds := make([]domainproperties.PropertyID, 0, len(bookings))
		for _, b := range bookings {
			seeds = append(seeds, b.PropertyID)
		}
		items, err := acc.ListAll(ctx)
		if err != nil {
			return err
		}
		limit := q.Limit
		if limit <= 0 {
			limit = domainrecommend.DefaultLimit
		}
		result = dto.MapProperties(domainrecommend.Similar(items, seeds, limit))
		if h.Logger != nil {
			h.Logger.Debug("recommendations ranked", "customer_id", q.CustomerID, "seeds", len(seeds), "returned", result.Total)
		}
		return nil
	})
	return result, err
}

var _ queries.Handler[RecommendPropertiesQuery, dto.PropertyCollection] = (*RecommendPropertiesHandler)(nil)
