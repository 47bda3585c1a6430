package dto

import (
	"time"

	domainproperties "stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/money"
)

type MoneyDTO struct {
	Amount   int64   `json:"amount"`
	Currency string  `json:"currency"`
	Decimal  float64 `json:"decimal"`
}

func MapMoney(value money.Money) MoneyDTO {
	return MoneyDTO{
		Amount:   value.Amount,
		Currency: value.Currency,
		Decimal:  value.Decimal(),
	}
}

type Location struct {
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Continent string  `json:"continent"`
	Lat       float64 `json:"lat"`
	Long      float64 `json:"long"`
}

// Property is the full public view of a listing.
type Property struct {
	ID            string    `json:"id"`
	HostID        string    `json:"host_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	NightlyPrice  MoneyDTO  `json:"nightly_price"`
	Location      Location  `json:"location"`
	Beds          int       `json:"beds"`
	Bedrooms      int       `json:"bedrooms"`
	Bathrooms     *float64  `json:"bathrooms,omitempty"`
	BathroomsText string    `json:"bathrooms_text,omitempty"`
	PropertyType  string    `json:"property_type"`
	Amenities     []string  `json:"amenities"`
	Rating        *float64  `json:"rating,omitempty"`
	ReviewCount   int       `json:"review_count"`
	Images        []string  `json:"images"`
	CreatedAt     time.Time `json:"created_at"`
}

type PropertyCollection struct {
	Items []Property `json:"items"`
	Total int        `json:"total"`
}

// PropertySummary is embedded in bookings and saved entries.
type PropertySummary struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	City         string   `json:"city"`
	Country      string   `json:"country"`
	NightlyPrice MoneyDTO `json:"nightly_price"`
	CoverImage   string   `json:"cover_image,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
}

type Destination struct {
	City       string `json:"city"`
	Country    string `json:"country"`
	Continent  string `json:"continent"`
	CoverImage string `json:"cover_image,omitempty"`
}

type DestinationCollection struct {
	Items []Destination `json:"items"`
}

func MapProperty(p *domainproperties.Property) Property {
	if p == nil {
		return Property{}
	}
	return Property{
		ID:           string(p.ID),
		HostID:       p.HostID,
		Name:         p.Name,
		Description:  p.Description,
		NightlyPrice: MapMoney(p.NightlyPrice),
		Location: Location{
			City:      p.Location.City,
			Country:   p.Location.Country,
			Continent: p.Location.Continent,
			Lat:       p.Location.Lat,
			Long:      p.Location.Long,
		},
		Beds:          p.Beds,
		Bedrooms:      p.Bedrooms,
		Bathrooms:     p.Bathrooms,
		BathroomsText: p.BathroomsText,
		PropertyType:  p.PropertyType,
		Amenities:     append([]string{}, p.Amenities...),
		Rating:        p.Rating,
		ReviewCount:   p.ReviewCount,
		Images:        append([]string{}, p.Images...),
		CreatedAt:     p.CreatedAt,
	}
}

func MapProperties(items []*domainproperties.Property) PropertyCollection {
	out := make([]Property, 0, len(items))
	for _, p := range items {
		out = append(out, MapProperty(p))
	}
	return PropertyCollection{Items: out, Total: len(out)}
}

// MapPropertySummary tolerates a missing property and keeps the id so the
// caller still sees which listing the record points to.
func MapPropertySummary(id domainproperties.PropertyID, p *domainproperties.Property) PropertySummary {
	summary := PropertySummary{ID: string(id)}
	if p == nil {
		return summary
	}
	summary.Name = p.Name
	summary.City = p.Location.City
	summary.Country = p.Location.Country
	summary.NightlyPrice = MapMoney(p.NightlyPrice)
	summary.CoverImage = p.CoverImage()
	summary.Rating = p.Rating
	return summary
}
