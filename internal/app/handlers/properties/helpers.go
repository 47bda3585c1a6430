package properties

import (
	"context"
	"log/slog"

	"stayhub/internal/app/catalog"
	"stayhub/internal/app/uow"
)

// Catalog carries what every catalog query needs.
type Catalog struct {
	UoWFactory uow.UoWFactory
	PageSize   int
	Logger     *slog.Logger
}

func (c Catalog) read(ctx context.Context, fn func(ctx context.Context, unit uow.UnitOfWork, acc *catalog.Accessor) error) error {
	return uow.Run(ctx, c.UoWFactory, uow.TxOptions{ReadOnly: true}, func(ctx context.Context, unit uow.UnitOfWork) error {
		return fn(ctx, unit, catalog.New(unit.Properties(), c.PageSize, c.Logger))
	})
}
