package booking

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/outbox"
	"stayhub/internal/app/uow"
	domainbooking "stayhub/internal/domain/booking"
	domainproperties "stayhub/internal/domain/properties"
)

const cancelBookingKey = "booking.cancel"

var ErrBookingIDRequired = errors.New("booking: booking id is required")

type CancelBookingCommand struct {
	BookingID   string
	RequesterID string
	Now         time.Time
}

func (c CancelBookingCommand) Key() string     { return cancelBookingKey }
func (c CancelBookingCommand) ActorID() string { return c.RequesterID }

func (c CancelBookingCommand) Validate() error {
	if strings.TrimSpace(c.BookingID) == "" {
		return ErrBookingIDRequired
	}
	return nil
}

type CancelBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (dto.Booking, error) {
	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	var result dto.Booking
	err := uow.Run(ctx, h.UoWFactory, uow.TxOptions{}, func(ctx context.Context, unit uow.UnitOfWork) error {
		booking, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(cmd.BookingID))
		if err != nil {
			return err
		}
		if err := booking.Cancel(cmd.RequesterID, now); err != nil {
			return err
		}
		if err := unit.Bookings().Save(ctx, booking); err != nil {
			return err
		}
		if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, booking); err != nil {
			return err
		}
		property, err := unit.Properties().ByID(ctx, booking.PropertyID)
		if err != nil && !errors.Is(err, domainproperties.ErrNotFound) {
			return err
		}
		result = dto.MapBooking(booking, property)
		return nil
	})
	if err != nil {
		return dto.Booking{}, classify(err)
	}
	if h.Logger != nil {
		h.Logger.Info("booking cancelled", "booking_id", cmd.BookingID, "customer_id", cmd.RequesterID)
	}
	return result, nil
}

var _ commands.Handler[CancelBookingCommand, dto.Booking] = (*CancelBookingHandler)(nil)
