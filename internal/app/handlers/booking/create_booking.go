package booking

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/handlers/availability"
	"stayhub/internal/app/middleware"
	"stayhub/internal/app/outbox"
	"stayhub/internal/app/policies"
	"stayhub/internal/app/uow"
	domainbooking "stayhub/internal/domain/booking"
	domainpayment "stayhub/internal/domain/payment"
	domainproperties "stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/daterange"
)

const createBookingKey = "booking.create"

var ErrPropertyIDRequired = errors.New("booking: property id is required")

// CreateBookingCommand requests a stay. Dates are YYYY-MM-DD; Guests defaults
// to one adult. Card details are checked and then dropped.
type CreateBookingCommand struct {
	CustomerID    string
	PropertyID    string
	CheckIn       string
	CheckOut      string
	Guests        int
	PaymentMethod string
	Card          *domainpayment.Card
	ClientKey     string
	Now           time.Time
}

func (c CreateBookingCommand) Key() string            { return createBookingKey }
func (c CreateBookingCommand) ActorID() string        { return c.CustomerID }
func (c CreateBookingCommand) IdempotencyKey() string { return c.ClientKey }

func (c CreateBookingCommand) DecodeResult(codec middleware.ResultCodec, payload []byte) (any, error) {
	return middleware.DecodeAs[dto.Booking](codec, payload)
}

func (c CreateBookingCommand) Validate() error {
	if strings.TrimSpace(c.PropertyID) == "" {
		return ErrPropertyIDRequired
	}
	if c.Guests < 0 {
		return domainbooking.ErrInvalidGuests
	}
	stay, err := daterange.Parse(c.CheckIn, c.CheckOut)
	if err != nil {
		return err
	}
	if err := domainbooking.ValidateStay(stay, c.now()); err != nil {
		return err
	}
	method, err := domainpayment.ParseMethod(c.PaymentMethod)
	if err != nil {
		return err
	}
	if method == domainpayment.MethodCard {
		if c.Card == nil {
			return domainpayment.ErrCardRequired
		}
		return c.Card.Validate(c.now())
	}
	return nil
}

func (c CreateBookingCommand) now() time.Time {
	if c.Now.IsZero() {
		return time.Now().UTC()
	}
	return c.Now.UTC()
}

type CreateBookingHandler struct {
	UoWFactory uow.UoWFactory
	Pricing    policies.PricingPort
	Payments   policies.PaymentsPort
	Checker    availability.Checker
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (dto.Booking, error) {
	if err := cmd.Validate(); err != nil {
		return dto.Booking{}, classify(err)
	}
	now := cmd.now()
	stay, _ := daterange.Parse(cmd.CheckIn, cmd.CheckOut)
	method, _ := domainpayment.ParseMethod(cmd.PaymentMethod)
	guests := cmd.Guests
	if guests == 0 {
		guests = 1
	}
	if err := h.payments().Verify(ctx, method, cmd.Card); err != nil {
		return dto.Booking{}, classify(err)
	}

	var result dto.Booking
	err := uow.Run(ctx, h.UoWFactory, uow.TxOptions{}, func(ctx context.Context, unit uow.UnitOfWork) error {
		property, err := unit.Properties().ByID(ctx, domainproperties.PropertyID(cmd.PropertyID))
		if err != nil {
			return err
		}
		quote, err := h.pricing().Quote(ctx, property, stay)
		if err != nil {
			return err
		}
		if err := h.Checker.Conflict(ctx, unit.Bookings(), property.ID, stay, ""); err != nil {
			return err
		}
		booking, err := domainbooking.NewBooking(domainbooking.CreateParams{
			ID:         domainbooking.BookingID(uuid.NewString()),
			PropertyID: property.ID,
			CustomerID: cmd.CustomerID,
			Stay:       stay,
			Guests:     guests,
			Quote:      quote,
			CreatedAt:  now,
		})
		if err != nil {
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
		if h.Logger != nil && errors.Is(err, availability.ErrUnavailable) {
			h.Logger.Info("booking rejected, dates unavailable", "property_id", cmd.PropertyID, "customer_id", cmd.CustomerID, "stay", stay.String())
		}
		return dto.Booking{}, classify(err)
	}
	if h.Logger != nil {
		h.Logger.Info("booking requested", "booking_id", result.ID, "property_id", cmd.PropertyID, "customer_id", cmd.CustomerID, "nights", result.Nights, "total", result.Total.Amount)
	}
	return result, nil
}

func (h *CreateBookingHandler) pricing() policies.PricingPort {
	if h.Pricing != nil {
		return h.Pricing
	}
	return policies.NightlyPricing{}
}

func (h *CreateBookingHandler) payments() policies.PaymentsPort {
	if h.Payments != nil {
		return h.Payments
	}
	return policies.CardCheck{}
}

var (
	_ commands.Handler[CreateBookingCommand, dto.Booking] = (*CreateBookingHandler)(nil)
	_ middleware.IdempotentCommand                        = CreateBookingCommand{}
	_ middleware.ActorMessage                             = CreateBookingCommand{}
)
