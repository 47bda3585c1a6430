package properties

import (
	"context"
	"testing"
	"time"

	"stayhub/internal/app/apperr"
	domainbooking "stayhub/internal/domain/booking"
	domainpricing "stayhub/internal/domain/pricing"
	domainproperties "stayhub/internal/domain/properties"
	domainsearch "stayhub/internal/domain/search"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/money"
	"stayhub/internal/infra/storage/memory"
)

var created = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func listing(t *testing.T, id, city, continent, kind string, price int64, amenities ...string) *domainproperties.Property {
	t.Helper()
	p, err := domainproperties.NewProperty(domainproperties.CreateParams{
		ID:           domainproperties.PropertyID(id),
		HostID:       "host-" + city,
		Name:         kind + " in " + city,
		Description:  "A " + kind + " close to the old town",
		NightlyPrice: money.Must(price, "USD"),
		Location:     domainproperties.Location{City: city, Country: "X", Continent: continent},
		Beds:         2,
		Bedrooms:     1,
		PropertyType: kind,
		Amenities:    amenities,
		Now:          created,
	})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func newCatalog(t *testing.T) (Catalog, memory.Factory) {
	t.Helper()
	f := memory.NewFactory(nil,
		listing(t, "p-1", "Paris", "Europe", "Apartment", 15000, "WiFi", "Kitchen"),
		listing(t, "p-2", "Paris", "Europe", "House", 30000, "Pool"),
		listing(t, "p-3", "Tokyo", "Asia", "Apartment", 9000, "WiFi", "Kitchen"),
		listing(t, "p-4", "Lima", "South America", "Cabin", 7000, "Fireplace"),
	)
	return Catalog{UoWFactory: f}, f
}

func ids(items []string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, id := range items {
		out[id] = true
	}
	return out
}

func TestListPropertiesFilters(t *testing.T) {
	c, _ := newCatalog(t)
	h := &ListPropertiesHandler{Catalog: c}
	cases := []struct {
		name  string
		query ListPropertiesQuery
		want  []string
	}{
		{"all", ListPropertiesQuery{}, []string{"p-1", "p-2", "p-3", "p-4"}},
		{"city", ListPropertiesQuery{City: "paris"}, []string{"p-1", "p-2"}},
		{"continent", ListPropertiesQuery{Continent: "Asia"}, []string{"p-3"}},
		{"ids", ListPropertiesQuery{IDs: []string{"p-4", "p-1", "missing"}}, []string{"p-1", "p-4"}},
		{"city and text", ListPropertiesQuery{City: "Paris", Text: "house"}, []string{"p-2"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := h.Handle(context.Background(), tc.query)
			if err != nil {
				t.Fatal(err)
			}
			if len(got.Items) != len(tc.want) {
				t.Fatalf("expected %v, got %d items", tc.want, len(got.Items))
			}
			seen := map[string]bool{}
			for _, item := range got.Items {
				seen[item.ID] = true
			}
			for id := range ids(tc.want) {
				if !seen[id] {
					t.Fatalf("expected %s in result", id)
				}
			}
		})
	}
}

func TestGetPropertyNotFound(t *testing.T) {
	c, _ := newCatalog(t)
	_, err := (&GetPropertyHandler{Catalog: c}).Handle(context.Background(), GetPropertyQuery{PropertyID: "nope"})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSearchPropertiesAppliesPreferences(t *testing.T) {
	c, _ := newCatalog(t)
	h := &SearchPropertiesHandler{Catalog: c}
	got, err := h.Handle(context.Background(), SearchPropertiesQuery{
		Preferences: domainsearch.Preferences{MaxPrice: domainsearch.PriceCap(20000), Amenities: []string{"wifi"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected p-1 and p-3, got %+v", got.Items)
	}
}

func TestSearchPropertiesValidate(t *testing.T) {
	q := SearchPropertiesQuery{Preferences: domainsearch.Preferences{MinPrice: 500, MaxPrice: domainsearch.PriceCap(100)}}
	if err := q.Validate(); err != ErrPriceRange {
		t.Fatalf("expected ErrPriceRange, got %v", err)
	}
	q = SearchPropertiesQuery{Preferences: domainsearch.Preferences{MinBeds: -1}}
	if err := q.Validate(); err != ErrNegativeMins {
		t.Fatalf("expected ErrNegativeMins, got %v", err)
	}
}

func TestRecommendationsNeedBookings(t *testing.T) {
	c, f := newCatalog(t)
	h := &RecommendPropertiesHandler{Catalog: c}
	got, err := h.Handle(context.Background(), RecommendPropertiesQuery{CustomerID: "cust-1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != 0 {
		t.Fatalf("expected no recommendations without bookings, got %d", len(got.Items))
	}

	stay, _ := daterange.Parse("2025-06-10", "2025-06-12")
	quote, _ := domainpricing.QuoteStay(money.Must(15000, "USD"), stay)
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{ID: "b-1", PropertyID: "p-1", CustomerID: "cust-1", Stay: stay, Guests: 1, Quote: quote, CreatedAt: created})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.BookingsRepo.Save(context.Background(), b); err != nil {
		t.Fatal(err)
	}

	got, err = h.Handle(context.Background(), RecommendPropertiesQuery{CustomerID: "cust-1", Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) == 0 || len(got.Items) > 2 {
		t.Fatalf("expected up to two recommendations, got %d", len(got.Items))
	}
	for _, item := range got.Items {
		if item.ID == "p-1" {
			t.Fatal("booked property must not be recommended")
		}
	}
	if got.Items[0].ID != "p-3" {
		t.Fatalf("expected the other WiFi apartment first, got %s", got.Items[0].ID)
	}
}

func TestDestinationsAndTopRated(t *testing.T) {
	c, f := newCatalog(t)
	p, _ := f.PropertiesRepo.ByID(context.Background(), "p-3")
	p.ApplyReviewScore(4.8, 3, created)
	if err := f.PropertiesRepo.Save(context.Background(), p); err != nil {
		t.Fatal(err)
	}

	dest, err := (&ListDestinationsHandler{Catalog: c}).Handle(context.Background(), ListDestinationsQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if len(dest.Items) != 3 {
		t.Fatalf("expected three distinct destinations, got %+v", dest.Items)
	}

	top, err := (&TopRatedHandler{Catalog: c}).Handle(context.Background(), TopRatedQuery{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(top.Items) != 1 || top.Items[0].ID != "p-3" {
		t.Fatalf("expected p-3 as top rated, got %+v", top.Items)
	}
}
