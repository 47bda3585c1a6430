package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"stayhub/internal/app/uow"
	domainproperties "stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/money"
)

type propertyFixture struct {
	ID           string                      `json:"id"`
	HostID       string                      `json:"host_id"`
	Name         string                      `json:"name"`
	Description  string                      `json:"description"`
	NightlyPrice float64                     `json:"nightly_price"`
	Currency     string                      `json:"currency"`
	City         string                      `json:"city"`
	Country      string                      `json:"country"`
	Continent    string                      `json:"continent"`
	Lat          float64                     `json:"lat"`
	Long         float64                     `json:"long"`
	Beds         int                         `json:"beds"`
	Bedrooms     int                         `json:"bedrooms"`
	Bathrooms    *float64                    `json:"bathrooms"`
	PropertyType string                      `json:"property_type"`
	Amenities    domainproperties.StringList `json:"amenities"`
	Images       domainproperties.StringList `json:"images"`
	Rating       *float64                    `json:"rating"`
	CreatedAt    string                      `json:"created_at"`
}

// loadPropertyFixtures seeds the catalog from a JSON array. Properties that
// already exist are left untouched so restarts do not overwrite host edits.
func (a *application) loadPropertyFixtures(ctx context.Context, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("property fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		logger.Warn("property fixtures file empty", "path", path)
		return nil
	}

	var fixtures []propertyFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	now := time.Now().UTC()
	imported := 0
	for _, fx := range fixtures {
		property, err := fx.toProperty(now)
		if err != nil {
			logger.Error("fixture invalid", "property_id", fx.ID, "error", err)
			continue
		}
		created, err := a.seedProperty(ctx, property)
		if err != nil {
			logger.Error("cannot store fixture property", "property_id", fx.ID, "error", err)
			continue
		}
		if created {
			imported++
		}
	}
	logger.Info("property fixtures imported", "path", path, "imported", imported, "total", len(fixtures))
	return nil
}

func (a *application) seedProperty(ctx context.Context, property *domainproperties.Property) (bool, error) {
	created := false
	err := uow.Run(ctx, a.factory, uow.TxOptions{}, func(ctx context.Context, unit uow.UnitOfWork) error {
		repo := unit.Properties()
		if _, err := repo.ByID(ctx, property.ID); err == nil {
			return nil
		} else if !errors.Is(err, domainproperties.ErrNotFound) {
			return err
		}
		if err := repo.Save(ctx, property); err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

func (fx propertyFixture) toProperty(now time.Time) (*domainproperties.Property, error) {
	price, err := money.FromDecimal(fx.NightlyPrice, fx.Currency)
	if err != nil {
		return nil, err
	}
	createdAt := now
	if fx.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, fx.CreatedAt); err == nil {
			createdAt = t.UTC()
		}
	}
	property, err := domainproperties.NewProperty(domainproperties.CreateParams{
		ID:           domainproperties.PropertyID(fx.ID),
		HostID:       fx.HostID,
		Name:         fx.Name,
		Description:  fx.Description,
		NightlyPrice: price,
		Location: domainproperties.Location{
			City:      fx.City,
			Country:   fx.Country,
			Continent: fx.Continent,
			Lat:       fx.Lat,
			Long:      fx.Long,
		},
		Beds:         fx.Beds,
		Bedrooms:     fx.Bedrooms,
		Bathrooms:    fx.Bathrooms,
		PropertyType: fx.PropertyType,
		Amenities:    fx.Amenities,
		Rating:       fx.Rating,
		Images:       fx.Images,
		Now:          createdAt,
	})
	if err != nil {
		return nil, err
	}
	// Seeded rows are not announcements of new listings.
	property.ClearEvents()
	return property, nil
}
