package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	availabilityapp "stayhub/internal/app/handlers/availability"
	bookingapp "stayhub/internal/app/handlers/booking"
	listingapp "stayhub/internal/app/handlers/listings"
	meapp "stayhub/internal/app/handlers/me"
	propertiesapp "stayhub/internal/app/handlers/properties"
	reviewsapp "stayhub/internal/app/handlers/reviews"
	"stayhub/internal/app/middleware"
	appoutbox "stayhub/internal/app/outbox"
	"stayhub/internal/app/policies"
	"stayhub/internal/app/queries"
	appschedule "stayhub/internal/app/schedule"
	authsvc "stayhub/internal/app/services/auth"
	"stayhub/internal/app/uow"
	domainauth "stayhub/internal/domain/auth"
	domainuser "stayhub/internal/domain/user"
	"stayhub/internal/infra/broker/kafka"
	"stayhub/internal/infra/cache/local"
	redisstore "stayhub/internal/infra/cache/redis"
	"stayhub/internal/infra/config"
	mongostore "stayhub/internal/infra/db/mongo"
	ginserver "stayhub/internal/infra/http/gin"
	"stayhub/internal/infra/obs"
	infraoutbox "stayhub/internal/infra/outbox"
	cronschedule "stayhub/internal/infra/schedule"
	"stayhub/internal/infra/security"
	"stayhub/internal/infra/storage/memory"
	"stayhub/internal/infra/storage/s3"
)

// eventStore is written by command handlers and drained by the relay worker.
type eventStore interface {
	appoutbox.Outbox
	infraoutbox.Queue
}

type closer struct {
	name string
	fn   func(ctx context.Context) error
}

type application struct {
	handlers ginserver.Handlers
	health   obs.HealthHandlers
	factory  uow.UoWFactory
	commands commands.Bus
	worker   *infraoutbox.Worker
	cron     *cronschedule.CronScheduler
	closers  []closer
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// stores groups the adapters chosen by STORE_MODE.
type stores struct {
	factory     uow.UoWFactory
	users       domainuser.Repository
	events      eventStore
	idempotency middleware.IdempotencyStore
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		health: obs.HealthHandlers{Checks: map[string]obs.Check{}},
		logger: logger,
	}

	st, err := app.openStores(ctx, cfg)
	if err != nil {
		app.close(context.Background(), logger)
		return nil, err
	}

	catalogCache := local.NewCatalogCache(st.factory, cfg.CatalogCacheTTL, logger)
	app.addCloser("catalog cache", func(context.Context) error {
		catalogCache.Stop()
		return nil
	})
	app.factory = catalogCache

	sessions, err := app.openSessions(ctx, cfg)
	if err != nil {
		app.close(context.Background(), logger)
		return nil, err
	}

	images, err := app.openImages(cfg)
	if err != nil {
		app.close(context.Background(), logger)
		return nil, err
	}

	producer, err := app.openProducer(cfg)
	if err != nil {
		app.close(context.Background(), logger)
		return nil, err
	}

	auth := &authsvc.Service{
		Users:      st.users,
		Sessions:   sessions,
		Passwords:  security.Passwords{},
		Tokens:     security.SessionTokens{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}
	auth.Subscribe(func(change domainauth.Change) {
		logger.Info("session changed", "kind", change.Kind, "user_id", change.UserID)
	})

	commandBus, queryBus := registerHandlers(app.factory, st.events, images, cfg, logger)

	app.commands = middleware.ChainCommands(
		commandBus,
		middleware.Logging(logger),
		middleware.Validation(middleware.MessageValidator{}),
		middleware.Authorization(middleware.IdentityAuthorizer{}),
		middleware.OutboxFlush(st.events, logger),
		middleware.Idempotency(st.idempotency, nil, app.factory),
		middleware.Transaction(app.factory, nil),
	)
	queryBusWithMiddleware := middleware.ChainQueries(
		queryBus,
		middleware.QueryLogging(logger),
		middleware.QueryValidation(middleware.MessageValidator{}),
		middleware.QueryAuthorization(middleware.IdentityAuthorizer{}),
	)

	app.worker = &infraoutbox.Worker{
		Queue:       st.events,
		Producer:    producer,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Backoff:     cfg.RetryBackoff,
		Logger:      logger,
	}

	app.cron = cronschedule.NewCronScheduler(logger)
	if err := app.cron.Schedule(cfg.CompletionSchedule, app.completeStaysJob()); err != nil {
		app.close(context.Background(), logger)
		return nil, fmt.Errorf("schedule stay completion: %w", err)
	}

	app.handlers = ginserver.Handlers{
		Auth:       ginserver.AuthHandler{Service: auth, Queries: queryBusWithMiddleware, Logger: logger},
		Properties: ginserver.PropertiesHandler{Queries: queryBusWithMiddleware, Logger: logger},
		Bookings:   ginserver.BookingsHandler{Commands: app.commands, Queries: queryBusWithMiddleware, Logger: logger},
		Host:       ginserver.HostHandler{Commands: app.commands, Logger: logger},
		Reviews:    ginserver.ReviewsHandler{Commands: app.commands, Queries: queryBusWithMiddleware, Logger: logger},
		Me:         ginserver.MeHandler{Commands: app.commands, Queries: queryBusWithMiddleware, Logger: logger},
		AuthMiddleware: ginserver.AuthMiddleware{
			Service: auth,
			Logger:  logger,
		}.Handle,
	}
	return app, nil
}

func (a *application) openStores(ctx context.Context, cfg config.Config) (stores, error) {
	if cfg.StoreMode != config.StoreMongo {
		a.logger.Warn("using in-memory storage; data is lost on restart")
		users := memory.NewProfileRepository()
		return stores{
			factory:     memory.NewFactory(users),
			users:       users,
			events:      memory.NewOutbox(),
			idempotency: memory.NewIdempotencyStore(cfg.IdempotencyTTL),
		}, nil
	}

	client, err := mongostore.New(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return stores{}, err
	}
	a.addCloser("mongo", client.Close)
	a.health.Checks["mongo"] = client.Ping

	if err := mongostore.EnsureIndexes(ctx, client.DB); err != nil {
		return stores{}, err
	}
	events, err := infraoutbox.NewStore(ctx, client.DB)
	if err != nil {
		return stores{}, err
	}
	idem, err := mongostore.NewIdempotencyStore(ctx, client.DB, cfg.IdempotencyTTL)
	if err != nil {
		return stores{}, err
	}
	factory := mongostore.NewFactory(client.DB)
	return stores{
		factory:     factory,
		users:       factory.ProfilesRepo,
		events:      events,
		idempotency: idem,
	}, nil
}

func (a *application) openSessions(ctx context.Context, cfg config.Config) (domainauth.SessionStore, error) {
	if !cfg.RedisEnabled() {
		a.logger.Warn("REDIS_ADDR not set; sessions are kept in memory")
		return memory.NewSessionStore(), nil
	}
	client, err := redisstore.NewClient(ctx, redisstore.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, err
	}
	a.addCloser("redis", func(context.Context) error { return client.Close() })
	a.health.Checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	return redisstore.NewSessionStore(client), nil
}

func (a *application) openImages(cfg config.Config) (policies.ImageStore, error) {
	if !cfg.S3Enabled() {
		a.logger.Warn("S3_ENDPOINT not set; listings with images will be rejected")
		return nil, nil
	}
	store, err := s3.NewImageStore(s3.Options{
		Endpoint:       cfg.S3Endpoint,
		PublicEndpoint: cfg.S3PublicEndpoint,
		AccessKey:      cfg.S3AccessKey,
		SecretKey:      cfg.S3SecretKey,
		Bucket:         cfg.S3Bucket,
		UseSSL:         cfg.S3UseSSL,
	}, a.logger)
	if err != nil {
		return nil, err
	}
	a.health.Checks["s3"] = store.Healthy
	return store, nil
}

func (a *application) openProducer(cfg config.Config) (infraoutbox.Producer, error) {
	if !cfg.KafkaEnabled() {
		a.logger.Warn("KAFKA_BROKERS not set; outbox events are logged instead of published")
		return infraoutbox.LogProducer{Logger: a.logger}, nil
	}
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, kafka.NewConfig())
	if err != nil {
		return nil, err
	}
	a.addCloser("kafka", func(context.Context) error { return producer.Close() })
	a.health.Checks["kafka"] = producer.Healthy
	return producer, nil
}

// registerHandlers binds every command and query to its handler on fresh buses.
func registerHandlers(factory uow.UoWFactory, box appoutbox.Outbox, images policies.ImageStore, cfg config.Config, logger *slog.Logger) (*commands.InMemoryBus, *queries.InMemoryBus) {
	encoder := appoutbox.JSONEventEncoder{}
	checker := availabilityapp.Checker{Logger: logger}
	catalog := propertiesapp.Catalog{UoWFactory: factory, PageSize: cfg.CatalogPageSize, Logger: logger}

	cbus := commands.NewInMemoryBus()
	commands.RegisterHandler[bookingapp.CreateBookingCommand, dto.Booking](cbus, bookingapp.CreateBookingCommand{}.Key(), &bookingapp.CreateBookingHandler{
		UoWFactory: factory,
		Pricing:    policies.NightlyPricing{},
		Payments:   policies.CardCheck{},
		Checker:    checker,
		Outbox:     box,
		Encoder:    encoder,
		Logger:     logger,
	})
	commands.RegisterHandler[bookingapp.ConfirmBookingCommand, dto.Booking](cbus, bookingapp.ConfirmBookingCommand{}.Key(), &bookingapp.ConfirmBookingHandler{
		UoWFactory: factory,
		Checker:    checker,
		Outbox:     box,
		Encoder:    encoder,
		Logger:     logger,
	})
	commands.RegisterHandler[bookingapp.CancelBookingCommand, dto.Booking](cbus, bookingapp.CancelBookingCommand{}.Key(), &bookingapp.CancelBookingHandler{
		UoWFactory: factory,
		Outbox:     box,
		Encoder:    encoder,
		Logger:     logger,
	})
	commands.RegisterHandler[bookingapp.CompleteStaysCommand, dto.CompletionReport](cbus, bookingapp.CompleteStaysCommand{}.Key(), &bookingapp.CompleteStaysHandler{
		UoWFactory: factory,
		Outbox:     box,
		Encoder:    encoder,
		Logger:     logger,
	})
	commands.RegisterHandler[listingapp.SubmitListingCommand, dto.Property](cbus, listingapp.SubmitListingCommand{}.Key(), &listingapp.SubmitListingHandler{
		UoWFactory: factory,
		Images:     images,
		Outbox:     box,
		Encoder:    encoder,
		Logger:     logger,
	})
	commands.RegisterHandler[reviewsapp.SubmitReviewCommand, dto.Review](cbus, reviewsapp.SubmitReviewCommand{}.Key(), &reviewsapp.SubmitReviewHandler{
		UoWFactory: factory,
		Outbox:     box,
		Encoder:    encoder,
		Logger:     logger,
	})
	commands.RegisterHandler[meapp.UpdateProfileCommand, dto.UserProfile](cbus, meapp.UpdateProfileCommand{}.Key(), &meapp.UpdateProfileHandler{UoWFactory: factory, Logger: logger})
	commands.RegisterHandler[meapp.SavePropertyCommand, dto.SavedProperty](cbus, meapp.SavePropertyCommand{}.Key(), &meapp.SavePropertyHandler{UoWFactory: factory})
	commands.RegisterHandler[meapp.UnsavePropertyCommand, struct{}](cbus, meapp.UnsavePropertyCommand{}.Key(), &meapp.UnsavePropertyHandler{UoWFactory: factory})

	qbus := queries.NewInMemoryBus()
	queries.RegisterHandler[propertiesapp.GetPropertyQuery, dto.Property](qbus, propertiesapp.GetPropertyQuery{}.Key(), &propertiesapp.GetPropertyHandler{Catalog: catalog})
	queries.RegisterHandler[propertiesapp.TopRatedQuery, dto.PropertyCollection](qbus, propertiesapp.TopRatedQuery{}.Key(), &propertiesapp.TopRatedHandler{Catalog: catalog})
	queries.RegisterHandler[propertiesapp.ListDestinationsQuery, dto.DestinationCollection](qbus, propertiesapp.ListDestinationsQuery{}.Key(), &propertiesapp.ListDestinationsHandler{Catalog: catalog})
	queries.RegisterHandler[propertiesapp.ListPropertiesQuery, dto.PropertyCollection](qbus, propertiesapp.ListPropertiesQuery{}.Key(), &propertiesapp.ListPropertiesHandler{Catalog: catalog})
	queries.RegisterHandler[propertiesapp.SearchPropertiesQuery, dto.PropertyCollection](qbus, propertiesapp.SearchPropertiesQuery{}.Key(), &propertiesapp.SearchPropertiesHandler{Catalog: catalog})
	queries.RegisterHandler[propertiesapp.RecommendPropertiesQuery, dto.PropertyCollection](qbus, propertiesapp.RecommendPropertiesQuery{}.Key(), &propertiesapp.RecommendPropertiesHandler{Catalog: catalog})
	queries.RegisterHandler[availabilityapp.CheckAvailabilityQuery, dto.Availability](qbus, availabilityapp.CheckAvailabilityQuery{}.Key(), &availabilityapp.CheckAvailabilityHandler{UoWFactory: factory, Checker: checker})
	queries.RegisterHandler[bookingapp.ListCustomerBookingsQuery, dto.BookingCollection](qbus, bookingapp.ListCustomerBookingsQuery{}.Key(), &bookingapp.ListCustomerBookingsHandler{UoWFactory: factory, Logger: logger})
	queries.RegisterHandler[reviewsapp.ListPropertyReviewsQuery, dto.ReviewCollection](qbus, reviewsapp.ListPropertyReviewsQuery{}.Key(), &reviewsapp.ListPropertyReviewsHandler{UoWFactory: factory})
	queries.RegisterHandler[reviewsapp.CanReviewQuery, dto.ReviewEligibility](qbus, reviewsapp.CanReviewQuery{}.Key(), &reviewsapp.CanReviewHandler{UoWFactory: factory})
	queries.RegisterHandler[meapp.GetProfileQuery, dto.UserProfile](qbus, meapp.GetProfileQuery{}.Key(), &meapp.GetProfileHandler{UoWFactory: factory})
	queries.RegisterHandler[meapp.ListSavedQuery, dto.SavedCollection](qbus, meapp.ListSavedQuery{}.Key(), &meapp.ListSavedHandler{UoWFactory: factory})
	return cbus, qbus
}

func (a *application) completeStaysJob() appschedule.Job {
	return appschedule.JobFunc{
		JobName: "complete-stays",
		Fn: func(ctx context.Context) error {
			report, err := commands.Dispatch[bookingapp.CompleteStaysCommand, dto.CompletionReport](ctx, a.commands, bookingapp.CompleteStaysCommand{Now: time.Now().UTC()})
			if err != nil {
				return err
			}
			a.logger.Info("stays completed", "completed", report.Completed, "failed", report.Failed)
			return nil
		},
	}
}

// startBackground runs the outbox relay and the cron scheduler until ctx ends.
func (a *application) startBackground(ctx context.Context, cfg config.Config) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.worker.Run(ctx); err != nil && ctx.Err() == nil {
			a.logger.Error("outbox worker stopped", "error", err)
		}
	}()
	a.cron.Start()
	a.logger.Info("background jobs started", "completion_schedule", cfg.CompletionSchedule, "outbox_interval", cfg.OutboxPollInterval)
}

func (a *application) addCloser(name string, fn func(ctx context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

// close stops background work and releases adapters in reverse order.
func (a *application) close(ctx context.Context, logger *slog.Logger) {
	if a.cron != nil {
		if err := a.cron.Stop(ctx); err != nil {
			logger.Warn("cron stop timed out", "error", err)
		}
	}
	a.wg.Wait()
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.fn(ctx); err != nil {
			logger.Warn("close failed", "component", c.name, "error", err)
		}
	}
}
