package booking

import (
	"context"
	"errors"
	"log/slog"

	"stayhub/internal/app/dto"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainproperties "stayhub/internal/domain/properties"
)

const listCustomerBookingsKey = "booking.list_customer"

type ListCustomerBookingsQuery struct {
	CustomerID string
}

func (q ListCustomerBookingsQuery) Key() string     { return listCustomerBookingsKey }
func (q ListCustomerBookingsQuery) ActorID() string { return q.CustomerID }

// ListCustomerBookingsHandler returns the customer's bookings newest first,
// each joined with its property summary.
type ListCustomerBookingsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListCustomerBookingsHandler) Handle(ctx context.Context, q ListCustomerBookingsQuery) (dto.BookingCollection, error) {
	result := dto.BookingCollection{Items: []dto.Booking{}}
	err := uow.Run(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true}, func(ctx context.Context, unit uow.UnitOfWork) error {
		bookings, err := unit.Bookings().ListByCustomer(ctx, q.CustomerID)
		if err != nil {
			return err
		}
		cache := make(map[domainproperties.PropertyID]*domainproperties.Property)
		for _, b := range bookings {
			property, ok := cache[b.PropertyID]
			if !ok {
				property, err = unit.Properties().ByID(ctx, b.PropertyID)
				if err != nil {
					if !errors.Is(err, domainproperties.ErrNotFound) {
						return err
					}
					if h.Logger != nil {
						h.Logger.Warn("property missing for booking", "booking_id", b.ID, "property_id", b.PropertyID)
					}
				}
				cache[b.PropertyID] = property
			}
			result.Items = append(result.Items, dto.MapBooking(b, property))
		}
		return nil
	})
	if err != nil {
		return dto.BookingCollection{}, classify(err)
	}
	return result, nil
}

var _ queries.Handler[ListCustomerBookingsQuery, dto.BookingCollection] = (*ListCustomerBookingsHandler)(nil)
