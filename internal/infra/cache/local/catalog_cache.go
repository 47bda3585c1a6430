package local

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/karlseguin/ccache/v3"

	"stayhub/internal/app/uow"
	domainproperties "stayhub/internal/domain/properties"
)

const (
	defaultTTL     = 30 * time.Second
	defaultMaxSize = 5000

	byIDPrefix = "id:"
	findPrefix = "find:"
)

// CatalogCache decorates a unit-of-work factory so read-only units serve
// property reads from an in-process ccache. Any property save, committed or
// not, clears the cache.
type CatalogCache struct {
	Inner  uow.UoWFactory
	TTL    time.Duration
	Logger *slog.Logger

	cache *ccache.Cache[[]*domainproperties.Property]
}

func NewCatalogCache(inner uow.UoWFactory, ttl time.Duration, logger *slog.Logger) *CatalogCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &CatalogCache{
		Inner:  inner,
		TTL:    ttl,
		Logger: logger,
		cache:  ccache.New(ccache.Configure[[]*domainproperties.Property]().MaxSize(defaultMaxSize).ItemsToPrune(100)),
	}
}

func (c *CatalogCache) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	unit, err := c.Inner.Begin(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &cachedUnit{UnitOfWork: unit, repo: &cachedProperties{inner: unit.Properties(), cache: c, readOnly: opts.ReadOnly}}, nil
}

// Invalidate drops every cached read.
func (c *CatalogCache) Invalidate() {
	c.cache.Clear()
}

func (c *CatalogCache) Stop() {
	c.cache.Stop()
}

func (c *CatalogCache) fetch(key string, load func() ([]*domainproperties.Property, error)) ([]*domainproperties.Property, error) {
	item, err := c.cache.Fetch(key, c.TTL, load)
	if err != nil {
		return nil, err
	}
	return cloneAll(item.Value()), nil
}

type cachedUnit struct {
	uow.UnitOfWork
	repo *cachedProperties
}

func (u *cachedUnit) Properties() domainproperties.Repository { return u.repo }

// InjectContext forwards to the wrapped unit so Mongo sessions still reach the repositories.
func (u *cachedUnit) InjectContext(ctx context.Context) context.Context {
	if injector, ok := u.UnitOfWork.(interface {
		InjectContext(context.Context) context.Context
	}); ok {
		return injector.InjectContext(ctx)
	}
	return ctx
}

type cachedProperties struct {
	inner    domainproperties.Repository
	cache    *CatalogCache
	readOnly bool
}

func (r *cachedProperties) ByID(ctx context.Context, id domainproperties.PropertyID) (*domainproperties.Property, error) {
	if !r.readOnly {
		return r.inner.ByID(ctx, id)
	}
	items, err := r.cache.fetch(byIDPrefix+string(id), func() ([]*domainproperties.Property, error) {
		p, err := r.inner.ByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return []*domainproperties.Property{p}, nil
	})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (r *cachedProperties) Find(ctx context.Context, query domainproperties.Query, offset, limit int) ([]*domainproperties.Property, error) {
	if !r.readOnly {
		return r.inner.Find(ctx, query, offset, limit)
	}
	return r.cache.fetch(findKey(query, offset, limit), func() ([]*domainproperties.Property, error) {
		return r.inner.Find(ctx, query, offset, limit)
	})
}

func (r *cachedProperties) Save(ctx context.Context, p *domainproperties.Property) error {
	err := r.inner.Save(ctx, p)
	r.cache.Invalidate()
	if r.cache.Logger != nil && p != nil {
		r.cache.Logger.Debug("catalog cache cleared", "property_id", p.ID)
	}
	return err
}

func findKey(q domainproperties.Query, offset, limit int) string {
	q = q.Normalized()
	ids := make([]string, 0, len(q.IDs))
	for _, id := range q.IDs {
		ids = append(ids, string(id))
	}
	return fmt.Sprintf("%s%q|%q|%q|%q|%s|%t|%d|%d", findPrefix, q.Text, q.City, q.Continent, q.HostID, strings.Join(ids, ","), q.RatedOnly, offset, limit)
}

func cloneAll(in []*domainproperties.Property) []*domainproperties.Property {
	out := make([]*domainproperties.Property, 0, len(in))
	for _, p := range in {
		out = append(out, p.Clone())
	}
	return out
}

var (
	_ uow.UoWFactory              = (*CatalogCache)(nil)
	_ domainproperties.Repository = (*cachedProperties)(nil)
)
