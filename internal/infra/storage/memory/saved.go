package memory

import (
	"context"
	"sort"
	"sync"

	domainproperties "stayhub/internal/domain/properties"
	domainsaved "stayhub/internal/domain/saved"
)

type SavedRepository struct {
	mu    sync.RWMutex
	items map[string]domainsaved.Entry
}

func NewSavedRepository() *SavedRepository {
	return &SavedRepository{items: make(map[string]domainsaved.Entry)}
}

func (r *SavedRepository) Save(ctx context.Context, entry domainsaved.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey(entry.CustomerID, entry.PropertyID)
	if _, ok := r.items[key]; ok {
		return nil
	}
	r.items[key] = entry
	return nil
}

func (r *SavedRepository) Delete(ctx context.Context, customerID string, propertyID domainproperties.PropertyID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, pairKey(customerID, propertyID))
	return nil
}

func (r *SavedRepository) ListByCustomer(ctx context.Context, customerID string) ([]domainsaved.Entry, error) {
	r.mu.RLock()
	out := make([]domainsaved.Entry, 0)
	for _, e := range r.items {
		if e.CustomerID == customerID {
			out = append(out, e)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].SavedAt.Equal(out[j].SavedAt) {
			return out[i].PropertyID < out[j].PropertyID
		}
		return out[i].SavedAt.After(out[j].SavedAt)
	})
	return out, nil
}

var _ domainsaved.Repository = (*SavedRepository)(nil)
