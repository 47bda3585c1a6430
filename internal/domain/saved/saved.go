package saved

import (
	"context"
	"errors"
	"strings"
	"time"

	"stayhub/internal/domain/properties"
)

var (
	ErrCustomerRequired = errors.New("saved: customer id required")
	ErrPropertyRequired = errors.New("saved: property id required")
)

// Entry marks a property the customer wants to come back to.
type Entry struct {
	CustomerID string
	PropertyID properties.PropertyID
	SavedAt    time.Time
}

func NewEntry(customerID string, propertyID properties.PropertyID, now time.Time) (Entry, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return Entry{}, ErrCustomerRequired
	}
	if strings.TrimSpace(string(propertyID)) == "" {
		return Entry{}, ErrPropertyRequired
	}
	return Entry{CustomerID: customerID, PropertyID: propertyID, SavedAt: now.UTC()}, nil
}

type Repository interface {
	// Save is an upsert; saving twice keeps the first timestamp.
	Save(ctx context.Context, entry Entry) error
	Delete(ctx context.Context, customerID string, propertyID properties.PropertyID) error
	// ListByCustomer returns entries newest first.
	ListByCustomer(ctx context.Context, customerID string) ([]Entry, error)
}
