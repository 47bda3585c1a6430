package properties

import (
	"context"

	"stayhub/internal/app/catalog"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainproperties "stayhub/internal/domain/properties"
)

const getPropertyKey = "properties.get"

type GetPropertyQuery struct {
	PropertyID string
}

func (q GetPropertyQuery) Key() string { return getPropertyKey }

type GetPropertyHandler struct {
	Catalog
}

func (h *GetPropertyHandler) Handle(ctx context.Context, q GetPropertyQuery) (dto.Property, error) {
	var result dto.Property
	err := h.read(ctx, func(ctx context.Context, _ uow.UnitOfWork, acc *catalog.Accessor) error {
		p, err := acc.GetByID(ctx, domainproperties.PropertyID(q.PropertyID))
		if err != nil {
			return err
		}
		result = dto.MapProperty(p)
		return nil
	})
	return result, err
}

const topRatedKey = "properties.top_rated"

type TopRatedQuery struct {
	Limit int
}

func (q TopRatedQuery) Key() string { return topRatedKey }

type TopRatedHandler struct {
	Catalog
}

func (h *TopRatedHandler) Handle(ctx context.Context, q TopRatedQuery) (dto.PropertyCollection, error) {
	var result dto.PropertyCollection
	err := h.read(ctx, func(ctx context.Context, _ uow.UnitOfWork, acc *catalog.Accessor) error {
		items, err := acc.TopRated(ctx, q.Limit)
		if err != nil {
			return err
		}
		result = dto.MapProperties(items)
		return nil
	})
	return result, err
}

const listDestinationsKey = "properties.destinations"

type ListDestinationsQuery struct{}

func (q ListDestinationsQuery) Key() string { return listDestinationsKey }

type ListDestinationsHandler struct {
	Catalog
}

func (h *ListDestinationsHandler) Handle(ctx context.Context, _ ListDestinationsQuery) (dto.DestinationCollection, error) {
	result := dto.DestinationCollection{Items: []dto.Destination{}}
	err := h.read(ctx, func(ctx context.Context, _ uow.UnitOfWork, acc *catalog.Accessor) error {
		dests, err := acc.ListDestinations(ctx)
		if err != nil {
			return err
		}
		for _, d := range dests {
			result.Items = append(result.Items, dto.Destination{
				City:       d.City,
				Country:    d.Country,
				Continent:  d.Continent,
				CoverImage: d.CoverImage,
			})
		}
		return nil
	})
	return result, err
}

var (
	_ queries.Handler[GetPropertyQuery, dto.Property]                   = (*GetPropertyHandler)(nil)
	_ queries.Handler[TopRatedQuery, dto.PropertyCollection]            = (*TopRatedHandler)(nil)
	_ queries.Handler[ListDestinationsQuery, dto.DestinationCollection] = (*ListDestinationsHandler)(nil)
)
