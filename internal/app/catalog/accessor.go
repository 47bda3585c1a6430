package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"stayhub/internal/app/apperr"
	domainproperties "stayhub/internal/domain/properties"
)

const (
	// MinPageSize is the smallest page requested from the store.
	MinPageSize = 1000
	// DefaultTopRated is the number of properties TopRated returns without a limit.
	DefaultTopRated = 9
)

// Accessor reads the property catalog, paging through the store transparently.
// It never writes and never retries.
type Accessor struct {
	Properties domainproperties.Repository
	PageSize   int
	Logger     *slog.Logger
}

func New(repo domainproperties.Repository, pageSize int, logger *slog.Logger) *Accessor {
	return &Accessor{Properties: repo, PageSize: pageSize, Logger: logger}
}

func (a *Accessor) ListAll(ctx context.Context) ([]*domainproperties.Property, error) {
	return a.find(ctx, domainproperties.Query{})
}

func (a *Accessor) GetByID(ctx context.Context, id domainproperties.PropertyID) (*domainproperties.Property, error) {
	if strings.TrimSpace(string(id)) == "" {
		return nil, apperr.New(apperr.KindValidation, "property id is required")
	}
	property, err := a.Properties.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainproperties.ErrNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "property %s not found", id)
		}
		return nil, apperr.Backend(err)
	}
	return property, nil
}

// Search matches text case-insensitively against name, city or country.
func (a *Accessor) Search(ctx context.Context, text string) ([]*domainproperties.Property, error) {
	return a.find(ctx, domainproperties.Query{Text: text})
}

func (a *Accessor) ListByCity(ctx context.Context, city string) ([]*domainproperties.Property, error) {
	return a.find(ctx, domainproperties.Query{City: city})
}

func (a *Accessor) ListByContinent(ctx context.Context, continent string) ([]*domainproperties.Property, error) {
	return a.find(ctx, domainproperties.Query{Continent: continent})
}

func (a *Accessor) ListByIDs(ctx context.Context, ids []domainproperties.PropertyID) ([]*domainproperties.Property, error) {
	if len(ids) == 0 {
		return []*domainproperties.Property{}, nil
	}
	return a.find(ctx, domainproperties.Query{IDs: ids})
}

func (a *Accessor) ListByHost(ctx context.Context, hostID string) ([]*domainproperties.Property, error) {
	if strings.TrimSpace(hostID) == "" {
		return []*domainproperties.Property{}, nil
	}
	return a.find(ctx, domainproperties.Query{HostID: hostID})
}

// Find pages through every match of an arbitrary query.
func (a *Accessor) Find(ctx context.Context, query domainproperties.Query) ([]*domainproperties.Property, error) {
	return a.find(ctx, query)
}

type Destination struct {
	City       string
	Country    string
	Continent  string
	CoverImage string
}

// ListDestinations returns one entry per (city, country, continent), ordered
// by city. The cover is the first image of the earliest property that has one.
func (a *Accessor) ListDestinations(ctx context.Context) ([]Destination, error) {
	items, err := a.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	type key struct{ city, country, continent string }
	index := make(map[key]int)
	out := make([]Destination, 0)
	for _, p := range items {
		k := key{
			city:      strings.ToLower(p.Location.City),
			country:   strings.ToLower(p.Location.Country),
			continent: strings.ToLower(p.Location.Continent),
		}
		if i, ok := index[k]; ok {
			if out[i].CoverImage == "" {
				out[i].CoverImage = p.CoverImage()
			}
			continue
		}
		index[k] = len(out)
		out = append(out, Destination{
			City:       p.Location.City,
			Country:    p.Location.Country,
			Continent:  p.Location.Continent,
			CoverImage: p.CoverImage(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := strings.ToLower(out[i].City), strings.ToLower(out[j].City)
		if ci != cj {
			return ci < cj
		}
		return strings.ToLower(out[i].Country) < strings.ToLower(out[j].Country)
	})
	return out, nil
}

// TopRated returns rated properties, best first.
func (a *Accessor) TopRated(ctx context.Context, limit int) ([]*domainproperties.Property, error) {
	if limit <= 0 {
		limit = DefaultTopRated
	}
	items, err := a.find(ctx, domainproperties.Query{RatedOnly: true})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return *items[i].Rating > *items[j].Rating
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (a *Accessor) pageSize() int {
	if a.PageSize < MinPageSize {
		return MinPageSize
	}
	return a.PageSize
}

func (a *Accessor) find(ctx context.Context, query domainproperties.Query) ([]*domainproperties.Property, error) {
	size := a.pageSize()
	query = query.Normalized()
	out := make([]*domainproperties.Property, 0)
	for offset := 0; ; offset += size {
		page, err := a.Properties.Find(ctx, query, offset, size)
		if err != nil {
			if a.Logger != nil {
				a.Logger.Warn("catalog read failed", "offset", offset, "error", err)
			}
			return nil, apperr.Backend(err)
		}
		for _, p := range page {
			if query.RatedOnly && p.Rating == nil {
				continue
			}
			out = append(out, p)
		}
		if len(page) < size {
			return out, nil
		}
	}
}
