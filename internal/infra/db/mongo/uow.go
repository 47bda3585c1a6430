package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"stayhub/internal/app/uow"
	domainbooking "stayhub/internal/domain/booking"
	domainproperties "stayhub/internal/domain/properties"
	domainreviews "stayhub/internal/domain/reviews"
	domainsaved "stayhub/internal/domain/saved"
	domainuser "stayhub/internal/domain/user"
)

// Factory wires Mongo sessions into the generic UnitOfWork interface. Writes
// run in a multi-document transaction, which needs a replica set.
type Factory struct {
	DB *mongo.Database

	PropertiesRepo domainproperties.Repository
	BookingsRepo   domainbooking.Repository
	ReviewsRepo    domainreviews.Repository
	SavedRepo      domainsaved.Repository
	ProfilesRepo   domainuser.Repository
}

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

func NewFactory(db *mongo.Database) Factory {
	return Factory{
		DB:             db,
		PropertiesRepo: NewPropertyRepository(db),
		BookingsRepo:   NewBookingRepository(db),
		ReviewsRepo:    NewReviewRepository(db),
		SavedRepo:      NewSavedRepository(db),
		ProfilesRepo:   NewProfileRepository(db),
	}
}

// Begin starts a session. Read-only units skip the transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	unit := &Unit{factory: f, session: session}
	if opts.ReadOnly {
		return unit, nil
	}
	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	unit.inTxn = true
	return unit, nil
}

type Unit struct {
	factory Factory
	session mongo.Session
	inTxn   bool
}

func (u *Unit) Properties() domainproperties.Repository { return u.factory.PropertiesRepo }
func (u *Unit) Bookings() domainbooking.Repository      { return u.factory.BookingsRepo }
func (u *Unit) Reviews() domainreviews.Repository       { return u.factory.ReviewsRepo }
func (u *Unit) Saved() domainsaved.Repository           { return u.factory.SavedRepo }
func (u *Unit) Profiles() domainuser.Repository         { return u.factory.ProfilesRepo }

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	if !u.inTxn {
		return nil
	}
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	if !u.inTxn {
		return nil
	}
	return u.session.AbortTransaction(ctx)
}

// InjectContext puts the session on ctx so repository calls join the transaction.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

var (
	_ uow.UoWFactory = Factory{}
	_ uow.UnitOfWork = (*Unit)(nil)
)
