package properties

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"stayhub/internal/domain/shared/events"
	"stayhub/internal/domain/shared/money"
)

var (
	ErrNotFound         = errors.New("properties: not found")
	ErrIDRequired       = errors.New("properties: id is required")
	ErrHostRequired     = errors.New("properties: host is required")
	ErrNameRequired     = errors.New("properties: name is required")
	ErrNightlyPrice     = errors.New("properties: nightly price must be positive")
	ErrCapacity         = errors.New("properties: beds and bedrooms must be non-negative")
	ErrBathrooms        = errors.New("properties: bathrooms must be non-negative")
	ErrRatingRange      = errors.New("properties: rating must be between 0 and 5")
	ErrLocationRequired = errors.New("properties: city and country are required")
	ErrCoordinates      = errors.New("properties: coordinates out of range")
	ErrNotHost          = errors.New("properties: only the host can modify the property")
)

type PropertyID string

type Location struct {
	City      string
	Country   string
	Continent string
	Lat       float64
	Long      float64
}

type Property struct {
	ID            PropertyID
	HostID        string
	Name          string
	Description   string
	NightlyPrice  money.Money
	Location      Location
	Beds          int
	Bedrooms      int
	Bathrooms     *float64
	BathroomsText string
	PropertyType  string
	Amenities     StringList
	Rating        *float64
	ReviewCount   int
	Images        StringList
	CreatedAt     time.Time
	UpdatedAt     time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id PropertyID) (*Property, error)
	// Find returns one page of matches in a stable order (created-at, then id).
	Find(ctx context.Context, query Query, offset, limit int) ([]*Property, error)
	Save(ctx context.Context, property *Property) error
}

type CreateParams struct {
	ID            PropertyID
	HostID        string
	Name          string
	Description   string
	NightlyPrice  money.Money
	Location      Location
	Beds          int
	Bedrooms      int
	Bathrooms     *float64
	BathroomsText string
	PropertyType  string
	Amenities     []string
	Rating        *float64
	Images        []string
	Now           time.Time
}

func NewProperty(params CreateParams) (*Property, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(params.HostID) == "" {
		return nil, ErrHostRequired
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if params.NightlyPrice.Amount <= 0 {
		return nil, ErrNightlyPrice
	}
	if params.Beds < 0 || params.Bedrooms < 0 {
		return nil, ErrCapacity
	}
	if params.Bathrooms != nil && *params.Bathrooms < 0 {
		return nil, ErrBathrooms
	}
	if err := validateRating(params.Rating); err != nil {
		return nil, err
	}
	loc, err := normalizeLocation(params.Location)
	if err != nil {
		return nil, err
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	p := &Property{
		ID:            params.ID,
		HostID:        strings.TrimSpace(params.HostID),
		Name:          name,
		Description:   strings.TrimSpace(params.Description),
		NightlyPrice:  params.NightlyPrice,
		Location:      loc,
		Beds:          params.Beds,
		Bedrooms:      params.Bedrooms,
		Bathrooms:     params.Bathrooms,
		BathroomsText: strings.TrimSpace(params.BathroomsText),
		PropertyType:  strings.TrimSpace(params.PropertyType),
		Amenities:     NewStringList(params.Amenities...),
		Rating:        params.Rating,
		Images:        NewStringList(params.Images...),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	p.Record(PropertyListed{PropertyID: p.ID, HostID: p.HostID, City: p.Location.City, At: now})
	return p, nil
}

// ApplyReviewScore replaces the aggregate rating with the mean of all review scores.
func (p *Property) ApplyReviewScore(average float64, count int, now time.Time) {
	if count <= 0 {
		p.Rating = nil
		p.ReviewCount = 0
	} else {
		rounded := math.Round(average*100) / 100
		p.Rating = &rounded
		p.ReviewCount = count
	}
	p.UpdatedAt = now.UTC()
}

// BathroomCount prefers the numeric count and falls back to parsing the free
// text ("1.5 baths"). A zero count is reported as absent.
func (p *Property) BathroomCount() (float64, bool) {
	if p.Bathrooms != nil && *p.Bathrooms > 0 {
		return *p.Bathrooms, true
	}
	v, ok := parseBathroomsText(p.BathroomsText)
	return v, ok && v > 0
}

// CoverImage is the first image, used for destination tiles.
func (p *Property) CoverImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Clone returns a deep copy without pending events.
func (p *Property) Clone() *Property {
	if p == nil {
		return nil
	}
	cp := &Property{
		ID:            p.ID,
		HostID:        p.HostID,
		Name:          p.Name,
		Description:   p.Description,
		NightlyPrice:  p.NightlyPrice,
		Location:      p.Location,
		Beds:          p.Beds,
		Bedrooms:      p.Bedrooms,
		BathroomsText: p.BathroomsText,
		PropertyType:  p.PropertyType,
		Amenities:     append(StringList(nil), p.Amenities...),
		ReviewCount:   p.ReviewCount,
		Images:        append(StringList(nil), p.Images...),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Bathrooms != nil {
		v := *p.Bathrooms
		cp.Bathrooms = &v
	}
	if p.Rating != nil {
		v := *p.Rating
		cp.Rating = &v
	}
	return cp
}

func validateRating(r *float64) error {
	if r == nil {
		return nil
	}
	if *r < 0 || *r > 5 {
		return ErrRatingRange
	}
	return nil
}

func normalizeLocation(loc Location) (Location, error) {
	loc.City = strings.TrimSpace(loc.City)
	loc.Country = strings.TrimSpace(loc.Country)
	loc.Continent = strings.TrimSpace(loc.Continent)
	if loc.City == "" || loc.Country == "" {
		return Location{}, ErrLocationRequired
	}
	if loc.Lat < -90 || loc.Lat > 90 || loc.Long < -180 || loc.Long > 180 {
		return Location{}, ErrCoordinates
	}
	return loc, nil
}
