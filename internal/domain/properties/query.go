package properties

import "strings"

// Query narrows a catalog read. Zero fields do not restrict.
type Query struct {
	// Text matches name, city or country, case-insensitive substring.
	Text string
	// City is a case-insensitive substring match.
	City string
	// Continent must match exactly.
	Continent string
	IDs       []PropertyID
	HostID    string
	RatedOnly bool
}

func (q Query) Normalized() Query {
	q.Text = strings.ToLower(strings.TrimSpace(q.Text))
	q.City = strings.ToLower(strings.TrimSpace(q.City))
	q.Continent = strings.TrimSpace(q.Continent)
	q.HostID = strings.TrimSpace(q.HostID)
	if len(q.IDs) > 0 {
		seen := make(map[PropertyID]struct{}, len(q.IDs))
		ids := make([]PropertyID, 0, len(q.IDs))
		for _, id := range q.IDs {
			id = PropertyID(strings.TrimSpace(string(id)))
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		q.IDs = ids
	}
	return q
}

// Matches evaluates the query in memory; expects a normalized query.
func (q Query) Matches(p *Property) bool {
	if p == nil {
		return false
	}
	if q.Text != "" && !MatchesText(p, q.Text) {
		return false
	}
	if q.City != "" && !strings.Contains(strings.ToLower(p.Location.City), q.City) {
		return false
	}
	if q.Continent != "" && p.Location.Continent != q.Continent {
		return false
	}
	if q.HostID != "" && p.HostID != q.HostID {
		return false
	}
	if q.RatedOnly && p.Rating == nil {
		return false
	}
	if len(q.IDs) > 0 {
		found := false
		for _, id := range q.IDs {
			if id == p.ID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// MatchesText reports whether term is a substring of name, city or country.
func MatchesText(p *Property, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Location.City), term) ||
		strings.Contains(strings.ToLower(p.Location.Country), term)
}
