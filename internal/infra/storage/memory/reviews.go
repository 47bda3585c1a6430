package memory

import (
	"context"
	"sort"
	"sync"

	domainproperties "stayhub/internal/domain/properties"
	domainreviews "stayhub/internal/domain/reviews"
)

// ReviewsRepository keys reviews by (customer, property), so a pair holds at most one.
type ReviewsRepository struct {
	mu    sync.RWMutex
	items map[string]*domainreviews.Review
}

func NewReviewsRepository() *ReviewsRepository {
	return &ReviewsRepository{items: make(map[string]*domainreviews.Review)}
}

func (r *ReviewsRepository) ByCustomerAndProperty(ctx context.Context, customerID string, propertyID domainproperties.PropertyID) (*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if review, ok := r.items[pairKey(customerID, propertyID)]; ok {
		return cloneReview(review), nil
	}
	return nil, domainreviews.ErrNotFound
}

func (r *ReviewsRepository) ListByProperty(ctx context.Context, propertyID domainproperties.PropertyID) ([]*domainreviews.Review, error) {
	r.mu.RLock()
	out := make([]*domainreviews.Review, 0)
	for _, review := range r.items {
		if review.PropertyID == propertyID {
			out = append(out, cloneReview(review))
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ReviewsRepository) Save(ctx context.Context, review *domainreviews.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[pairKey(review.CustomerID, review.PropertyID)] = cloneReview(review)
	return nil
}

func pairKey(customerID string, propertyID domainproperties.PropertyID) string {
	return customerID + ":" + string(propertyID)
}

func cloneReview(r *domainreviews.Review) *domainreviews.Review {
	return &domainreviews.Review{
		ID:         r.ID,
		PropertyID: r.PropertyID,
		CustomerID: r.CustomerID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

var _ domainreviews.Repository = (*ReviewsRepository)(nil)
