package booking

import (
	"time"

	"stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/money"
)

type BookingRequested struct {
	BookingID  BookingID             `json:"booking_id"`
	PropertyID properties.PropertyID `json:"property_id"`
	CustomerID string                `json:"customer_id"`
	CheckIn    time.Time             `json:"check_in"`
	CheckOut   time.Time             `json:"check_out"`
	Total      money.Money           `json:"total"`
	At         time.Time             `json:"at"`
}

func (e BookingRequested) EventName() string     { return "booking.requested" }
func (e BookingRequested) AggregateID() string   { return string(e.BookingID) }
func (e BookingRequested) OccurredAt() time.Time { return e.At }

type BookingConfirmed struct {
	BookingID  BookingID             `json:"booking_id"`
	PropertyID properties.PropertyID `json:"property_id"`
	CheckIn    time.Time             `json:"check_in"`
	CheckOut   time.Time             `json:"check_out"`
	At         time.Time             `json:"at"`
}

func (e BookingConfirmed) EventName() string     { return "booking.confirmed" }
func (e BookingConfirmed) AggregateID() string   { return string(e.BookingID) }
func (e BookingConfirmed) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID  BookingID             `json:"booking_id"`
	PropertyID properties.PropertyID `json:"property_id"`
	CustomerID string                `json:"customer_id"`
	At         time.Time             `json:"at"`
}

func (e BookingCancelled) EventName() string     { return "booking.cancelled" }
func (e BookingCancelled) AggregateID() string   { return string(e.BookingID) }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }

type StayCompleted struct {
	BookingID  BookingID             `json:"booking_id"`
	PropertyID properties.PropertyID `json:"property_id"`
	CustomerID string                `json:"customer_id"`
	At         time.Time             `json:"at"`
}

func (e StayCompleted) EventName() string     { return "booking.completed" }
func (e StayCompleted) AggregateID() string   { return string(e.BookingID) }
func (e StayCompleted) OccurredAt() time.Time { return e.At }
