package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainbooking "stayhub/internal/domain/booking"
	domainproperties "stayhub/internal/domain/properties"
)

// BookingRepository stores bookings in memory. Saved values are copied so
// callers cannot mutate stored state without Save.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	return b.Clone(), nil
}

func (r *BookingRepository) Save(ctx context.Context, booking *domainbooking.Booking) error {
	if booking == nil || strings.TrimSpace(string(booking.ID)) == "" {
		return domainbooking.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	booking.Version++
	r.items[booking.ID] = booking.Clone()
	return nil
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domainbooking.Booking, error) {
	customerID = strings.TrimSpace(customerID)
	return r.collect(func(b *domainbooking.Booking) bool {
		return b.CustomerID == customerID
	}, newestFirst), nil
}

func (r *BookingRepository) ListByProperty(ctx context.Context, propertyID domainproperties.PropertyID, statuses ...domainbooking.Status) ([]*domainbooking.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.collect(func(b *domainbooking.Booking) bool {
		return b.PropertyID == propertyID && statusIn(b.Status, statuses)
	}, byCheckIn), nil
}

func (r *BookingRepository) ListConfirmedEndingBefore(ctx context.Context, cutoff time.Time) ([]*domainbooking.Booking, error) {
	return r.collect(func(b *domainbooking.Booking) bool {
		return b.Status == domainbooking.StatusConfirmed && !b.Stay.CheckOut.After(cutoff)
	}, byCheckIn), nil
}

func (r *BookingRepository) collect(keep func(*domainbooking.Booking) bool, less func(a, b *domainbooking.Booking) bool) []*domainbooking.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbooking.Booking, 0)
	for _, b := range r.items {
		if keep(b) {
			out = append(out, b.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func newestFirst(a, b *domainbooking.Booking) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID > b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func byCheckIn(a, b *domainbooking.Booking) bool {
	if a.Stay.CheckIn.Equal(b.Stay.CheckIn) {
		return a.ID < b.ID
	}
	return a.Stay.CheckIn.Before(b.Stay.CheckIn)
}

func statusIn(s domainbooking.Status, set []domainbooking.Status) bool {
	if len(set) == 0 {
		return true
	}
	for _, candidate := range set {
		if s == candidate {
			return true
		}
	}
	return false
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
