package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/dto"
	availabilityapp "stayhub/internal/app/handlers/availability"
	propertiesapp "stayhub/internal/app/handlers/properties"
	"stayhub/internal/app/queries"
	domainsearch "stayhub/internal/domain/search"
)

type PropertiesHTTP interface {
	List(c *gin.Context)
	Top(c *gin.Context)
	Get(c *gin.Context)
	Availability(c *gin.Context)
	Search(c *gin.Context)
	Destinations(c *gin.Context)
}

type PropertiesHandler struct {
	Queries queries.Bus
	Logger  *slog.Logger
}

func (h PropertiesHandler) List(c *gin.Context) {
	q := propertiesapp.ListPropertiesQuery{
		Text:      c.Query("q"),
		City:      c.Query("city"),
		Continent: c.Query("continent"),
		IDs:       splitCSV(c.Query("ids")),
		HostID:    c.Query("host"),
	}
	result, err := queries.Ask[propertiesapp.ListPropertiesQuery, dto.PropertyCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, result)
}

func (h PropertiesHandler) Top(c *gin.Context) {
	q := propertiesapp.TopRatedQuery{Limit: parseIntDefault(c.Query("limit"), 0)}
	result, err := queries.Ask[propertiesapp.TopRatedQuery, dto.PropertyCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, result)
}

func (h PropertiesHandler) Get(c *gin.Context) {
	q := propertiesapp.GetPropertyQuery{PropertyID: c.Param("id")}
	result, err := queries.Ask[propertiesapp.GetPropertyQuery, dto.Property](c.Request.Context(), h.Queries, q)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, result)
}

func (h PropertiesHandler) Availability(c *gin.Context) {
	q := availabilityapp.CheckAvailabilityQuery{
		PropertyID: c.Param("id"),
		CheckIn:    c.Query("check_in"),
		CheckOut:   c.Query("check_out"),
	}
	result, err := queries.Ask[availabilityapp.CheckAvailabilityQuery, dto.Availability](c.Request.Context(), h.Queries, q)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, result)
}

type searchRequest struct {
	Term          string   `json:"term"`
	MinPrice      float64  `json:"min_price"`
	MaxPrice      *float64 `json:"max_price"`
	MinBeds       int      `json:"min_beds"`
	MinBedrooms   int      `json:"min_bedrooms"`
	MinBathrooms  float64  `json:"min_bathrooms"`
	PropertyTypes []string `json:"property_types"`
	Amenities     []string `json:"amenities"`
	Locations     []string `json:"locations"`
}

// Search takes prices in major units, as the listing form shows them.
func (h PropertiesHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid search preferences")
		return
	}
	q := propertiesapp.SearchPropertiesQuery{
		Term: req.Term,
		Preferences: domainsearch.Preferences{
			MinPrice:      toMinor(req.MinPrice),
			MinBeds:       req.MinBeds,
			MinBedrooms:   req.MinBedrooms,
			MinBathrooms:  req.MinBathrooms,
			PropertyTypes: req.PropertyTypes,
			Amenities:     req.Amenities,
			Locations:     req.Locations,
		},
	}
	// An omitted max_price means no upper bound.
	if req.MaxPrice != nil {
		q.Preferences.MaxPrice = domainsearch.PriceCap(toMinor(*req.MaxPrice))
	}
	result, err := queries.Ask[propertiesapp.SearchPropertiesQuery, dto.PropertyCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, result)
}

func (h PropertiesHandler) Destinations(c *gin.Context) {
	result, err := queries.Ask[propertiesapp.ListDestinationsQuery, dto.DestinationCollection](c.Request.Context(), h.Queries, propertiesapp.ListDestinationsQuery{})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, result)
}

func toMinor(major float64) int64 {
	if major <= 0 {
		return 0
	}
	return int64(major*100 + 0.5)
}

var _ PropertiesHTTP = PropertiesHandler{}
