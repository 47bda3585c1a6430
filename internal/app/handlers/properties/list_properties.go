package properties

import (
	"context"

	"stayhub/internal/app/catalog"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainproperties "stayhub/internal/domain/properties"
)

const listPropertiesKey = "properties.list"

// ListPropertiesQuery reads the catalog. Empty fields do not restrict; with no
// fields set every property is returned.
type ListPropertiesQuery struct {
	Text      string
	City      string
	Continent string
	IDs       []string
	HostID    string
}

func (q ListPropertiesQuery) Key() string { return listPropertiesKey }

type ListPropertiesHandler struct {
	Catalog
}

func (h *ListPropertiesHandler) Handle(ctx context.Context, q ListPropertiesQuery) (dto.PropertyCollection, error) {
	var result dto.PropertyCollection
	err := h.read(ctx, func(ctx context.Context, _ uow.UnitOfWork, acc *catalog.Accessor) error {
		items, err := list(ctx, acc, q)
		if err != nil {
			return err
		}
		result = dto.MapProperties(items)
		return nil
	})
	return result, err
}

func list(ctx context.Context, acc *catalog.Accessor, q ListPropertiesQuery) ([]*domainproperties.Property, error) {
	query := domainproperties.Query{
		Text:      q.Text,
		City:      q.City,
		Continent: q.Continent,
		HostID:    q.HostID,
	}
	for _, id := range q.IDs {
		query.IDs = append(query.IDs, domainproperties.PropertyID(id))
	}
	query = query.Normalized()

	set := 0
	for _, v := range []bool{query.Text != "", query.City != "", query.Continent != "", len(query.IDs) > 0, query.HostID != ""} {
		if v {
			set++
		}
	}
	if set > 1 {
		return acc.Find(ctx, query)
	}
	switch {
	case query.Text != "":
		return acc.Search(ctx, q.Text)
	case query.City != "":
		return acc.ListByCity(ctx, q.City)
	case query.Continent != "":
		return acc.ListByContinent(ctx, query.Continent)
	case len(query.IDs) > 0:
		return acc.ListByIDs(ctx, query.IDs)
	case query.HostID != "":
		return acc.ListByHost(ctx, query.HostID)
	default:
		return acc.ListAll(ctx)
	}
}

var _ queries.Handler[ListPropertiesQuery, dto.PropertyCollection] = (*ListPropertiesHandler)(nil)
