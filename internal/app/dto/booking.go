package dto

import (
	"time"

	domainbooking "stayhub/internal/domain/booking"
	domainproperties "stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/daterange"
)

// Booking is returned joined with a summary of its property.
type Booking struct {
	ID         string          `json:"id"`
	Property   PropertySummary `json:"property"`
	CustomerID string          `json:"customer_id"`
	CheckIn    string          `json:"check_in"`
	CheckOut   string          `json:"check_out"`
	Guests     int             `json:"guests"`
	Nights     int             `json:"nights"`
	Total      MoneyDTO        `json:"total"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

type BookingCollection struct {
	Items []Booking `json:"items"`
}

type Availability struct {
	PropertyID string `json:"property_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Available  bool   `json:"available"`
}

// CompletionReport summarises one run of the stay completion job.
type CompletionReport struct {
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

func MapBooking(b *domainbooking.Booking, p *domainproperties.Property) Booking {
	if b == nil {
		return Booking{}
	}
	return Booking{
		ID:         string(b.ID),
		Property:   MapPropertySummary(b.PropertyID, p),
		CustomerID: b.CustomerID,
		CheckIn:    b.Stay.CheckIn.Format(daterange.Layout),
		CheckOut:   b.Stay.CheckOut.Format(daterange.Layout),
		Guests:     b.Guests,
		Nights:     b.Nights,
		Total:      MapMoney(b.Total),
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
	}
}
