package search

import (
	"reflect"
	"testing"

	"stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/money"
)

func property(id string, priceMajor int64, beds int, mutate ...func(*properties.Property)) *properties.Property {
	p := &properties.Property{
		ID:           properties.PropertyID(id),
		Name:         "Home " + id,
		NightlyPrice: money.Must(priceMajor*100, "USD"),
		Beds:         beds,
		Bedrooms:     1,
		Location:     properties.Location{City: "Lisbon", Country: "Portugal"},
		PropertyType: "Apartment",
		Amenities:    properties.NewStringList("wifi"),
	}
	for _, m := range mutate {
		m(p)
	}
	return p
}

func ids(items []*properties.Property) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, string(p.ID))
	}
	return out
}

func TestFilterPriceAndBeds(t *testing.T) {
	items := []*properties.Property{property("a", 80, 2), property("b", 150, 1)}
	got := Filter(items, Preferences{MinPrice: 5000, MaxPrice: PriceCap(10000), MinBeds: 1}, "")
	if want := []string{"a"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("expected %v, got %v", want, ids(got))
	}
}

func TestFilterPredicates(t *testing.T) {
	two := 2.0
	half := 0.5
	items := []*properties.Property{
		property("flat", 90, 2, func(p *properties.Property) { p.Bathrooms = &two }),
		property("cabin", 70, 3, func(p *properties.Property) {
			p.PropertyType = "Cabin"
			p.Location.City = "Bergen"
			p.Location.Country = "Norway"
			p.Amenities = properties.NewStringList("sauna", "fireplace")
			p.Bathrooms = &half
		}),
		property("room", 40, 1, func(p *properties.Property) { p.Amenities = nil }),
		property("loft", 60, 1, func(p *properties.Property) {
			zero := 0.0
			p.Bathrooms = &zero
			p.Location.City = "Porto"
			p.Amenities = nil
		}),
	}
	cases := []struct {
		name  string
		prefs Preferences
		term  string
		want  []string
	}{
		{"no restriction", Preferences{}, "", []string{"flat", "cabin", "room", "loft"}},
		{"type set", Preferences{PropertyTypes: []string{"cabin"}}, "", []string{"cabin"}},
		{"location by city", Preferences{Locations: []string{"lisbon"}}, "", []string{"flat", "room"}},
		{"amenity any of", Preferences{Amenities: []string{"pool", "SAUNA"}}, "", []string{"cabin"}},
		{"bathrooms only when present", Preferences{MinBathrooms: 1}, "", []string{"flat", "room", "loft"}},
		{"min bedrooms", Preferences{MinBedrooms: 2}, "", []string{}},
		{"term matches country", Preferences{}, "norw", []string{"cabin"}},
		{"term matches name", Preferences{}, "home r", []string{"room"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(Filter(items, tc.prefs, tc.term))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestFilterPriceRangeIsInclusive(t *testing.T) {
	items := []*properties.Property{property("a", 80, 2), property("free", 0, 1)}
	cases := []struct {
		name  string
		prefs Preferences
		want  []string
	}{
		{"zero cap", Preferences{MaxPrice: PriceCap(0)}, []string{"free"}},
		{"exact bounds", Preferences{MinPrice: 8000, MaxPrice: PriceCap(8000)}, []string{"a"}},
		{"open cap", Preferences{MinPrice: 1}, []string{"a"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ids(Filter(items, tc.prefs, "")); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestFilterIsIdempotentAndPure(t *testing.T) {
	items := []*properties.Property{property("a", 80, 2), property("b", 150, 1), property("c", 95, 4)}
	prefs := Preferences{MinPrice: 5000, MaxPrice: PriceCap(10000), MinBeds: 2, Amenities: []string{"wifi"}}
	once := Filter(items, prefs, "home")
	twice := Filter(once, prefs, "home")
	if !reflect.DeepEqual(ids(once), ids(twice)) {
		t.Fatalf("filter not idempotent: %v vs %v", ids(once), ids(twice))
	}
	if len(items) != 3 || items[1].ID != "b" {
		t.Fatal("filter must not modify its input")
	}
}
