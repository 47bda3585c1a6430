package search

import (
	"strings"

	"stayhub/internal/domain/properties"
)

// Preferences hold the guest's search criteria. Prices are minor units and
// the range is inclusive; a nil MaxPrice leaves the upper bound open. Empty
// sets do not restrict.
type Preferences struct {
	MinPrice      int64
	MaxPrice      *int64
	MinBeds       int
	MinBedrooms   int
	MinBathrooms  float64
	PropertyTypes []string
	Amenities     []string
	Locations     []string
}

// PriceCap is a convenience for setting MaxPrice.
func PriceCap(minor int64) *int64 {
	return &minor
}

func (p Preferences) Normalized() Preferences {
	n := p
	if n.MinPrice < 0 {
		n.MinPrice = 0
	}
	n.PropertyTypes = normalizeTokens(p.PropertyTypes)
	n.Amenities = normalizeTokens(p.Amenities)
	n.Locations = normalizeTokens(p.Locations)
	return n
}

// Filter keeps the properties that satisfy prefs and the free-text term, in
// input order. It does not modify its input.
func Filter(items []*properties.Property, prefs Preferences, term string) []*properties.Property {
	prefs = prefs.Normalized()
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]*properties.Property, 0, len(items))
	for _, p := range items {
		if p == nil || !Matches(p, prefs) {
			continue
		}
		if !properties.MatchesText(p, term) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Matches applies the structured predicates; prefs must be normalized.
func Matches(p *properties.Property, prefs Preferences) bool {
	price := p.NightlyPrice.Amount
	if price < prefs.MinPrice {
		return false
	}
	if prefs.MaxPrice != nil && price > *prefs.MaxPrice {
		return false
	}
	if p.Beds < prefs.MinBeds || p.Bedrooms < prefs.MinBedrooms {
		return false
	}
	if prefs.MinBathrooms > 0 {
		if count, ok := p.BathroomCount(); ok && count < prefs.MinBathrooms {
			return false
		}
	}
	if len(prefs.PropertyTypes) > 0 && !contains(prefs.PropertyTypes, p.PropertyType) {
		return false
	}
	if len(prefs.Locations) > 0 && !contains(prefs.Locations, p.Location.City) {
		return false
	}
	if len(prefs.Amenities) > 0 {
		hit := false
		for _, a := range p.Amenities {
			if contains(prefs.Amenities, a) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func contains(set []string, value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return false
	}
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}

func normalizeTokens(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
