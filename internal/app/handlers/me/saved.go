package me

import (
	"context"
	"errors"
	"strings"
	"time"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainproperties "stayhub/internal/domain/properties"
	domainsaved "stayhub/internal/domain/saved"
)

const (
	savePropertyKey   = "me.saved.save"
	unsavePropertyKey = "me.saved.unsave"
	listSavedKey      = "me.saved.list"
)

// SavePropertyCommand bookmarks a property. Saving twice is a no-op.
type SavePropertyCommand struct {
	CustomerID string
	PropertyID string
	Now        time.Time
}

func (c SavePropertyCommand) Key() string     { return savePropertyKey }
func (c SavePropertyCommand) ActorID() string { return c.CustomerID }

func (c SavePropertyCommand) Validate() error {
	if strings.TrimSpace(c.PropertyID) == "" {
		return domainsaved.ErrPropertyRequired
	}
	return nil
}

type SavePropertyHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *SavePropertyHandler) Handle(ctx context.Context, cmd SavePropertyCommand) (dto.SavedProperty, error) {
	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	var result dto.SavedProperty
	err := uow.Run(ctx, h.UoWFactory, uow.TxOptions{}, func(ctx context.Context, unit uow.UnitOfWork) error {
		property, err := unit.Properties().ByID(ctx, domainproperties.PropertyID(cmd.PropertyID))
		if err != nil {
			return err
		}
		entry, err := domainsaved.NewEntry(cmd.CustomerID, property.ID, now)
		if err != nil {
			return err
		}
		if err := unit.Saved().Save(ctx, entry); err != nil {
			return err
		}
		result = dto.SavedProperty{Property: dto.MapPropertySummary(property.ID, property), SavedAt: entry.SavedAt}
		return nil
	})
	if err != nil {
		return dto.SavedProperty{}, classify(err)
	}
	return result, nil
}

type UnsavePropertyCommand struct {
	CustomerID string
	PropertyID string
}

func (c UnsavePropertyCommand) Key() string     { return unsavePropertyKey }
func (c UnsavePropertyCommand) ActorID() string { return c.CustomerID }

func (c UnsavePropertyCommand) Validate() error {
	if strings.TrimSpace(c.PropertyID) == "" {
		return domainsaved.ErrPropertyRequired
	}
	return nil
}

type UnsavePropertyHandler struct {
	UoWFactory uow.UoWFactory
}

// Unsaving an entry that does not exist succeeds.
func (h *UnsavePropertyHandler) Handle(ctx context.Context, cmd UnsavePropertyCommand) (struct{}, error) {
	err := uow.Run(ctx, h.UoWFactory, uow.TxOptions{}, func(ctx context.Context, unit uow.UnitOfWork) error {
		return unit.Saved().Delete(ctx, cmd.CustomerID, domainproperties.PropertyID(cmd.PropertyID))
	})
	if err != nil {
		return struct{}{}, classify(err)
	}
	return struct{}{}, nil
}

type ListSavedQuery struct {
	CustomerID string
}

func (q ListSavedQuery) Key() string     { return listSavedKey }
func (q ListSavedQuery) ActorID() string { return q.CustomerID }

type ListSavedHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListSavedHandler) Handle(ctx context.Context, q ListSavedQuery) (dto.SavedCollection, error) {
	result := dto.SavedCollection{Items: []dto.SavedProperty{}}
	err := uow.Run(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true}, func(ctx context.Context, unit uow.UnitOfWork) error {
		entries, err := unit.Saved().ListByCustomer(ctx, q.CustomerID)
		if err != nil {
			return err
		}
		for _, e := range entries {
			property, err := unit.Properties().ByID(ctx, e.PropertyID)
			if err != nil && !errors.Is(err, domainproperties.ErrNotFound) {
				return err
			}
			result.Items = append(result.Items, dto.SavedProperty{
				Property: dto.MapPropertySummary(e.PropertyID, property),
				SavedAt:  e.SavedAt,
			})
		}
		return nil
	})
	if err != nil {
		return dto.SavedCollection{}, classify(err)
	}
	return result, nil
}

var (
	_ commands.Handler[SavePropertyCommand, dto.SavedProperty] = (*SavePropertyHandler)(nil)
	_ commands.Handler[UnsavePropertyCommand, struct{}]        = (*UnsavePropertyHandler)(nil)
	_ queries.Handler[ListSavedQuery, dto.SavedCollection]     = (*ListSavedHandler)(nil)
)
