package uow

import (
	"context"

	domainbooking "stayhub/internal/domain/booking"
	domainproperties "stayhub/internal/domain/properties"
	domainreviews "stayhub/internal/domain/reviews"
	domainsaved "stayhub/internal/domain/saved"
	domainuser "stayhub/internal/domain/user"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Properties() domainproperties.Repository
	Bookings() domainbooking.Repository
	Reviews() domainreviews.Repository
	Saved() domainsaved.Repository
	Profiles() domainuser.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
