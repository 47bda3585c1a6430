package recommend

import (
	"testing"

	"stayhub/internal/domain/properties"
)

func prop(id, description, kind string, amenities ...string) *properties.Property {
	return &properties.Property{
		ID:           properties.PropertyID(id),
		Description:  description,
		PropertyType: kind,
		Amenities:    properties.NewStringList(amenities...),
	}
}

func TestSimilarPrefersCloseListingsAndExcludesSeeds(t *testing.T) {
	catalog := []*properties.Property{
		prop("beach-1", "Sunny beach house with ocean view", "House", "pool", "wifi"),
		prop("beach-2", "Beach bungalow steps from the ocean", "House", "pool"),
		prop("city-1", "Compact studio in the financial district", "Apartment", "elevator"),
		prop("mountain-1", "Log cabin with a fireplace near ski slopes", "Cabin", "fireplace"),
	}
	got := Similar(catalog, []properties.PropertyID{"beach-1"}, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].ID != "beach-2" {
		t.Fatalf("expected beach-2 first, got %s", got[0].ID)
	}
	for _, p := range got {
		if p.ID == "beach-1" {
			t.Fatal("seed property must be excluded")
		}
	}
}

func TestSimilarWithoutSeedsInCatalog(t *testing.T) {
	catalog := []*properties.Property{prop("a", "x", "House")}
	if got := Similar(catalog, []properties.PropertyID{"missing"}, 5); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if got := Similar(catalog, nil, 5); got != nil {
		t.Fatalf("expected nil without seeds, got %v", got)
	}
}

func TestTokenizeDropsStopWordsAndShortTokens(t *testing.T) {
	got := tokenize("A house with the VIEW, x 2 bedrooms")
	want := []string{"house", "view", "bedrooms"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
