package booking

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/handlers/availability"
	"stayhub/internal/app/outbox"
	"stayhub/internal/app/uow"
	domainbooking "stayhub/internal/domain/booking"
	domainproperties "stayhub/internal/domain/properties"
)

const confirmBookingKey = "booking.confirm"

// ConfirmBookingCommand is issued by the property's host. The stay must
// still be free of other confirmed bookings.
type ConfirmBookingCommand struct {
	BookingID string
	HostID    string
	Now       time.Time
}

func (c ConfirmBookingCommand) Key() string     { return confirmBookingKey }
func (c ConfirmBookingCommand) ActorID() string { return c.HostID }

func (c ConfirmBookingCommand) Validate() error {
	if strings.TrimSpace(c.BookingID) == "" {
		return ErrBookingIDRequired
	}
	return nil
}

type ConfirmBookingHandler struct {
	UoWFactory uow.UoWFactory
	Checker    availability.Checker
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *ConfirmBookingHandler) Handle(ctx context.Context, cmd ConfirmBookingCommand) (dto.Booking, error) {
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
		property, err := unit.Properties().ByID(ctx, booking.PropertyID)
		if err != nil {
			return err
		}
		if property.HostID != cmd.HostID {
			return domainproperties.ErrNotHost
		}
		if err := h.Checker.Conflict(ctx, unit.Bookings(), property.ID, booking.Stay, booking.ID); err != nil {
			return err
		}
		if err := booking.Confirm(now); err != nil {
			return err
		}
		if err := unit.Bookings().Save(ctx, booking); err != nil {
			return err
		}
		if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, booking); err != nil {
			return err
		}
		result = dto.MapBooking(booking, property)
		return nil
	})
	if err != nil {
		return dto.Booking{}, classify(err)
	}
	if h.Logger != nil {
		h.Logger.Info("booking confirmed", "booking_id", cmd.BookingID, "host_id", cmd.HostID)
	}
	return result, nil
}

var _ commands.Handler[ConfirmBookingCommand, dto.Booking] = (*ConfirmBookingHandler)(nil)
