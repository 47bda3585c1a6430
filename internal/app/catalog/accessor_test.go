package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"stayhub/internal/app/apperr"
	domainproperties "stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/money"
)

type pagingRepo struct {
	items []*domainproperties.Property
	calls []int
	err   error
}

func (r *pagingRepo) ByID(_ context.Context, id domainproperties.PropertyID) (*domainproperties.Property, error) {
	for _, p := range r.items {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domainproperties.ErrNotFound
}

func (r *pagingRepo) Find(_ context.Context, q domainproperties.Query, offset, limit int) ([]*domainproperties.Property, error) {
	r.calls = append(r.calls, offset)
	if r.err != nil {
		return nil, r.err
	}
	var matched []*domainproperties.Property
	for _, p := range r.items {
		if q.Matches(p) {
			matched = append(matched, p)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r *pagingRepo) Save(context.Context, *domainproperties.Property) error { return nil }

func property(t *testing.T, id, city, country, continent string, rating *float64, images ...string) *domainproperties.Property {
	t.Helper()
	p, err := domainproperties.NewProperty(domainproperties.CreateParams{
		ID:           domainproperties.PropertyID(id),
		HostID:       "host-1",
		Name:         "Stay " + id,
		NightlyPrice: money.Must(10000, "USD"),
		Location:     domainproperties.Location{City: city, Country: country, Continent: continent},
		Rating:       rating,
		Images:       images,
		Now:          time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("new property: %v", err)
	}
	return p
}

func ratingOf(v float64) *float64 { return &v }

func TestListAllPagesUntilShortPage(t *testing.T) {
	repo := &pagingRepo{}
	for i := 0; i < 2500; i++ {
		repo.items = append(repo.items, property(t, fmt.Sprintf("p-%04d", i), "Lisbon", "Portugal", "Europe", nil))
	}
	acc := New(repo, 10, nil)

	items, err := acc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(items) != 2500 {
		t.Fatalf("expected 2500 properties, got %d", len(items))
	}
	want := []int{0, 1000, 2000}
	if fmt.Sprint(repo.calls) != fmt.Sprint(want) {
		t.Fatalf("expected page offsets %v, got %v", want, repo.calls)
	}
}

func TestListAllExactMultipleReadsOneEmptyPage(t *testing.T) {
	repo := &pagingRepo{}
	for i := 0; i < 1000; i++ {
		repo.items = append(repo.items, property(t, fmt.Sprintf("p-%04d", i), "Oslo", "Norway", "Europe", nil))
	}
	items, err := New(repo, 0, nil).ListAll(context.Background())
	if err != nil || len(items) != 1000 {
		t.Fatalf("unexpected result %d, %v", len(items), err)
	}
	if len(repo.calls) != 2 {
		t.Fatalf("expected a trailing empty page read, got %v", repo.calls)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	acc := New(&pagingRepo{}, 0, nil)
	_, err := acc.GetByID(context.Background(), "missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBackendErrorsSurface(t *testing.T) {
	cause := errors.New("connection reset")
	acc := New(&pagingRepo{err: cause}, 0, nil)
	_, err := acc.Search(context.Background(), "x")
	if !errors.Is(err, cause) || apperr.KindOf(err) != apperr.KindBackendFailure {
		t.Fatalf("expected backend failure wrapping cause, got %v", err)
	}
	if err.Error() != cause.Error() {
		t.Fatalf("expected message verbatim, got %q", err.Error())
	}
}

func TestSearchCityAndContinent(t *testing.T) {
	repo := &pagingRepo{items: []*domainproperties.Property{
		property(t, "a", "San Francisco", "USA", "North America", nil),
		property(t, "b", "Paris", "France", "Europe", nil),
		property(t, "c", "Francistown", "Botswana", "Africa", nil),
	}}
	acc := New(repo, 0, nil)
	ctx := context.Background()

	found, _ := acc.Search(ctx, "FRAN")
	if len(found) != 3 {
		t.Fatalf("expected name/city/country match on all three, got %d", len(found))
	}
	byCity, _ := acc.ListByCity(ctx, "francis")
	if len(byCity) != 2 {
		t.Fatalf("expected two city matches, got %d", len(byCity))
	}
	byContinent, _ := acc.ListByContinent(ctx, "Europe")
	if len(byContinent) != 1 || byContinent[0].ID != "b" {
		t.Fatalf("unexpected continent result %v", byContinent)
	}
	none, _ := acc.ListByContinent(ctx, "europe")
	if len(none) != 0 {
		t.Fatal("continent match must be exact")
	}
}

func TestListDestinationsDedupsAndSorts(t *testing.T) {
	repo := &pagingRepo{items: []*domainproperties.Property{
		property(t, "a", "Rome", "Italy", "Europe", nil),
		property(t, "b", "Rome", "Italy", "Europe", nil, "https://img/rome-b.jpg"),
		property(t, "c", "Athens", "Greece", "Europe", nil, "https://img/athens.jpg"),
	}}
	dests, err := New(repo, 0, nil).ListDestinations(context.Background())
	if err != nil {
		t.Fatalf("destinations: %v", err)
	}
	if len(dests) != 2 {
		t.Fatalf("expected 2 destinations, got %d", len(dests))
	}
	if dests[0].City != "Athens" || dests[1].City != "Rome" {
		t.Fatalf("expected city order, got %+v", dests)
	}
	if dests[1].CoverImage != "https://img/rome-b.jpg" {
		t.Fatalf("expected cover from first property with an image, got %q", dests[1].CoverImage)
	}
}

func TestTopRated(t *testing.T) {
	repo := &pagingRepo{items: []*domainproperties.Property{
		property(t, "a", "Rome", "Italy", "Europe", ratingOf(4.2)),
		property(t, "b", "Rome", "Italy", "Europe", nil),
		property(t, "c", "Rome", "Italy", "Europe", ratingOf(4.9)),
		property(t, "d", "Rome", "Italy", "Europe", ratingOf(3.1)),
	}}
	top, err := New(repo, 0, nil).TopRated(context.Background(), 2)
	if err != nil {
		t.Fatalf("top rated: %v", err)
	}
	if len(top) != 2 || top[0].ID != "c" || top[1].ID != "a" {
		t.Fatalf("unexpected top rated result %+v", top)
	}
}
