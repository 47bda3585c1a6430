package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"stayhub/internal/domain/pricing"
	"stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/events"
	"stayhub/internal/domain/shared/money"
)

var (
	ErrNotFound         = errors.New("booking: not found")
	ErrCustomerRequired = errors.New("booking: customer id required")
	ErrPropertyRequired = errors.New("booking: property id required")
	ErrInvalidGuests    = errors.New("booking: guests count must be positive")
	ErrTotalRequired    = errors.New("booking: total must be positive")
	ErrInvalidState     = errors.New("booking: invalid state transition")
	ErrNotOwner         = errors.New("booking: booking belongs to another customer")
	ErrAlreadyCancelled = errors.New("booking: already cancelled")
	ErrDuplicateStay    = errors.New("booking: identical confirmed stay exists")
)

type BookingID string

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

func ParseStatus(raw string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, true
	case StatusConfirmed:
		return StatusConfirmed, true
	case StatusCancelled:
		return StatusCancelled, true
	case StatusCompleted:
		return StatusCompleted, true
	default:
		return "", false
	}
}

type Booking struct {
	ID         BookingID
	PropertyID properties.PropertyID
	CustomerID string
	Stay       daterange.DateRange
	Guests     int
	Nights     int
	Total      money.Money
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
	// ListByCustomer returns the customer's bookings, newest first.
	ListByCustomer(ctx context.Context, customerID string) ([]*Booking, error)
	// ListByProperty returns bookings for the property in the given statuses (all when empty).
	ListByProperty(ctx context.Context, propertyID properties.PropertyID, statuses ...Status) ([]*Booking, error)
	// ListConfirmedEndingBefore returns confirmed stays whose check-out is not after cutoff.
	ListConfirmedEndingBefore(ctx context.Context, cutoff time.Time) ([]*Booking, error)
}

type CreateParams struct {
	ID         BookingID
	PropertyID properties.PropertyID
	CustomerID string
	Stay       daterange.DateRange
	Guests     int
	Quote      pricing.Quote
	CreatedAt  time.Time
}

// NewBooking creates a pending booking with the price fixed from the quote.
func NewBooking(params CreateParams) (*Booking, error) {
	if strings.TrimSpace(params.CustomerID) == "" {
		return nil, ErrCustomerRequired
	}
	if strings.TrimSpace(string(params.PropertyID)) == "" {
		return nil, ErrPropertyRequired
	}
	if params.Guests <= 0 {
		return nil, ErrInvalidGuests
	}
	if err := params.Stay.Validate(); err != nil {
		return nil, err
	}
	if params.Quote.Total.Amount <= 0 {
		return nil, ErrTotalRequired
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:         params.ID,
		PropertyID: params.PropertyID,
		CustomerID: params.CustomerID,
		Stay:       params.Stay,
		Guests:     params.Guests,
		Nights:     params.Quote.Nights,
		Total:      params.Quote.Total,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	b.Record(BookingRequested{
		BookingID:  b.ID,
		PropertyID: b.PropertyID,
		CustomerID: b.CustomerID,
		CheckIn:    b.Stay.CheckIn,
		CheckOut:   b.Stay.CheckOut,
		Total:      b.Total,
		At:         now,
	})
	return b, nil
}

// Confirm moves a pending booking to confirmed; the caller has checked host ownership.
func (b *Booking) Confirm(now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	b.Status = StatusConfirmed
	b.UpdatedAt = now.UTC()
	b.Record(BookingConfirmed{BookingID: b.ID, PropertyID: b.PropertyID, CheckIn: b.Stay.CheckIn, CheckOut: b.Stay.CheckOut, At: b.UpdatedAt})
	return nil
}

// Cancel applies the customer cancellation rules in order: ownership,
// already cancelled, cancellation window, then state.
func (b *Booking) Cancel(requesterID string, now time.Time) error {
	if b.CustomerID != requesterID {
		return ErrNotOwner
	}
	if b.Status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if err := DefaultCancellationPolicy.Allows(b.Stay.CheckIn, now); err != nil {
		return err
	}
	if b.Status.Terminal() {
		return ErrInvalidState
	}
	b.Status = StatusCancelled
	b.UpdatedAt = now.UTC()
	b.Record(BookingCancelled{BookingID: b.ID, PropertyID: b.PropertyID, CustomerID: b.CustomerID, At: b.UpdatedAt})
	return nil
}

// Complete closes a confirmed stay once its check-out has passed.
func (b *Booking) Complete(now time.Time) error {
	if b.Status != StatusConfirmed {
		return ErrInvalidState
	}
	if now.Before(b.Stay.CheckOut) {
		return ErrInvalidState
	}
	b.Status = StatusCompleted
	b.UpdatedAt = now.UTC()
	b.Record(StayCompleted{BookingID: b.ID, PropertyID: b.PropertyID, CustomerID: b.CustomerID, At: b.UpdatedAt})
	return nil
}

// Blocks reports whether the booking holds its dates against new requests.
func (b *Booking) Blocks() bool {
	return b.Status == StatusConfirmed
}

func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	return &Booking{
		ID:         b.ID,
		PropertyID: b.PropertyID,
		CustomerID: b.CustomerID,
		Stay:       b.Stay,
		Guests:     b.Guests,
		Nights:     b.Nights,
		Total:      b.Total,
		Status:     b.Status,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
		Version:    b.Version,
	}
}
