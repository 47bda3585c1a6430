package availability

import (
	"context"
	"log/slog"

	domainbooking "stayhub/internal/domain/booking"
	domainproperties "stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/daterange"
)

// Checker answers whether a stay is free. Only confirmed bookings hold dates,
// and a failed read counts as unavailable.
type Checker struct {
	Logger *slog.Logger
}

func (c Checker) IsAvailable(ctx context.Context, bookings domainbooking.Repository, propertyID domainproperties.PropertyID, stay daterange.DateRange) bool {
	return c.Conflict(ctx, bookings, propertyID, stay, "") == nil
}

// Conflict returns the first blocking booking that overlaps stay, ignoring
// the booking named by skip. A read failure yields ErrUnavailable.
func (c Checker) Conflict(ctx context.Context, bookings domainbooking.Repository, propertyID domainproperties.PropertyID, stay daterange.DateRange, skip domainbooking.BookingID) error {
	existing, err := bookings.ListByProperty(ctx, propertyID, domainbooking.StatusConfirmed)
	if err != nil {
		if c.Logger != nil {
			c.Logger.Warn("availability read failed, treating as unavailable", "property_id", propertyID, "error", err)
		}
		return ErrUnavailable
	}
	for _, b := range existing {
		if b.ID == skip || !b.Blocks() {
			continue
		}
		if b.Stay.Overlaps(stay) {
			return &OverlapError{BookingID: b.ID, Stay: b.Stay}
		}
	}
	return nil
}
