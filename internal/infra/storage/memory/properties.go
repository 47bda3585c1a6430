package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainproperties "stayhub/internal/domain/properties"
)

// PropertyRepository keeps the catalog in memory, ordered by creation time.
type PropertyRepository struct {
	mu    sync.RWMutex
	items map[domainproperties.PropertyID]*domainproperties.Property
}

func NewPropertyRepository(seed ...*domainproperties.Property) *PropertyRepository {
	r := &PropertyRepository{items: make(map[domainproperties.PropertyID]*domainproperties.Property)}
	for _, p := range seed {
		if p != nil {
			r.items[p.ID] = p.Clone()
		}
	}
	return r
}

func (r *PropertyRepository) ByID(ctx context.Context, id domainproperties.PropertyID) (*domainproperties.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[domainproperties.PropertyID(strings.TrimSpace(string(id)))]
	if !ok {
		return nil, domainproperties.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *PropertyRepository) Find(ctx context.Context, query domainproperties.Query, offset, limit int) ([]*domainproperties.Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query = query.Normalized()
	r.mu.RLock()
	matches := make([]*domainproperties.Property, 0, len(r.items))
	for _, p := range r.items {
		if query.Matches(p) {
			matches = append(matches, p)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].CreatedAt.Before(matches[j].CreatedAt)
	})
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matches) {
		return []*domainproperties.Property{}, nil
	}
	end := len(matches)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]*domainproperties.Property, 0, end-offset)
	for _, p := range matches[offset:end] {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (r *PropertyRepository) Save(ctx context.Context, property *domainproperties.Property) error {
	if property == nil || strings.TrimSpace(string(property.ID)) == "" {
		return domainproperties.ErrIDRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[property.ID] = property.Clone()
	return nil
}

var _ domainproperties.Repository = (*PropertyRepository)(nil)
