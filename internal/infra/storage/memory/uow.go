package memory

import (
	"context"
	"errors"

	"stayhub/internal/app/uow"
	domainbooking "stayhub/internal/domain/booking"
	domainproperties "stayhub/internal/domain/properties"
	domainreviews "stayhub/internal/domain/reviews"
	domainsaved "stayhub/internal/domain/saved"
	domainuser "stayhub/internal/domain/user"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	PropertiesRepo domainproperties.Repository
	BookingsRepo   domainbooking.Repository
	ReviewsRepo    domainreviews.Repository
	SavedRepo      domainsaved.Repository
	ProfilesRepo   domainuser.Repository
}

var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// NewFactory builds a factory over fresh repositories seeded with properties.
func NewFactory(users *ProfileRepository, seed ...*domainproperties.Property) Factory {
	if users == nil {
		users = NewProfileRepository()
	}
	return Factory{
		PropertiesRepo: NewPropertyRepository(seed...),
		BookingsRepo:   NewBookingRepository(),
		ReviewsRepo:    NewReviewsRepository(),
		SavedRepo:      NewSavedRepository(),
		ProfilesRepo:   users,
	}
}

// Begin starts a lightweight boundary. Writes apply immediately; there is no
// isolation or rollback.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.PropertiesRepo == nil || f.BookingsRepo == nil || f.ReviewsRepo == nil || f.SavedRepo == nil || f.ProfilesRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{factory: f}, nil
}

type Unit struct {
	factory Factory
}

func (u *Unit) Properties() domainproperties.Repository { return u.factory.PropertiesRepo }
func (u *Unit) Bookings() domainbooking.Repository      { return u.factory.BookingsRepo }
func (u *Unit) Reviews() domainreviews.Repository       { return u.factory.ReviewsRepo }
func (u *Unit) Saved() domainsaved.Repository           { return u.factory.SavedRepo }
func (u *Unit) Profiles() domainuser.Repository         { return u.factory.ProfilesRepo }

func (u *Unit) Commit(ctx context.Context) error {
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	return nil
}

var (
	_ uow.UoWFactory = Factory{}
	_ uow.UnitOfWork = (*Unit)(nil)
)
