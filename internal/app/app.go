package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"NewsDesk/internal/config"
	"NewsDesk/internal/httpapi"
	"NewsDesk/internal/infrastructure/events"
	"NewsDesk/internal/infrastructure/scheduler"
	"NewsDesk/internal/infrastructure/storage"
	"NewsDesk/internal/infrastructure/telegram"
	"NewsDesk/internal/logging"
	"NewsDesk/internal/ports"
	"NewsDesk/internal/usecase"
	"NewsDesk/internal/validation"
	"NewsDesk/internal/workflow"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	clock     ports.Clock
	pool      *pgxpool.Pool
	engine    *workflow.Engine
	publisher *usecase.Publisher
	scheduler *usecase.Scheduler
	server    *echo.Echo
	closers   []func() error
}

// New builds the application from configuration. Optional integrations
// (Redis events, Telegram) are only wired when configured.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	loc := cfg.Scheduler.Location()
	clock := ports.ClockFunc(func() time.Time { return time.Now().In(loc) })

	a := &Application{cfg: cfg, logger: baseLogger, clock: clock}

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	var eventPublisher ports.EventPublisher
	if cfg.Events.RedisURL != "" {
		pub, err := events.NewRedisPublisher(cfg.Events.RedisURL, cfg.Events.Stream)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init event publisher: %w", err)
		}
		eventPublisher = pub
		a.closers = append(a.closers, pub.Close)
	}

	a.engine = workflow.NewEngine(workflow.EngineDeps{
		Store:     store,
		Clock:     clock,
		NewID:     workflow.NewID,
		Validator: validation.New(),
		Notifier:  notifier,
		Events:    eventPublisher,
		Logger:    baseLogger.With("component", "workflow"),
	})

	a.publisher = usecase.NewPublisher(usecase.PublisherDeps{
		Workflow: a.engine,
		Logger:   baseLogger.With("component", "publisher"),
	})

	driver := scheduler.NewIntervalScheduler(cfg.Scheduler.Interval, clock)
	a.scheduler = usecase.NewScheduler(driver, a.publisher, baseLogger.With("component", "scheduler"))

	a.server = httpapi.NewServer(
		httpapi.NewHandler(a.engine, clock.Now),
		baseLogger.With("component", "http"),
	)

	return a, nil
}

func (a *Application) openStore(ctx context.Context) (ports.ArticleStore, error) {
	switch a.cfg.Database.Driver {
	case config.DriverMemory:
		a.logger.Warn("using in-memory article store; data is lost on exit")
		return storage.NewMemoryRepository(), nil
	case config.DriverPostgres, "":
		pool, err := storage.Connect(ctx, a.cfg.Database.DSN, storage.PoolConfig{MaxConns: a.cfg.Database.MaxConns})
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		a.pool = pool
		a.closers = append(a.closers, func() error {
			pool.Close()
			return nil
		})
		return storage.NewPostgresRepository(pool), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", a.cfg.Database.Driver)
	}
}

// Run serves the HTTP API and the publication poller until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("http server listening", "addr", a.cfg.HTTP.Addr)
		if err := a.server.Start(a.cfg.HTTP.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := a.scheduler.Start(gctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		a.logger.Info("publication poller started", "interval", a.cfg.Scheduler.Interval)

		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()

		stopErr := a.scheduler.Stop(shutdownCtx)
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		if stopErr != nil {
			return fmt.Errorf("stop scheduler: %w", stopErr)
		}
		a.logger.Info("shutdown complete")
		return nil
	})

	return g.Wait()
}

// PublishDue runs a single poller iteration.
func (a *Application) PublishDue(ctx context.Context) (usecase.PollResult, error) {
	return a.publisher.PublishDue(ctx, a.clock.Now())
}

// Migrate applies the database schema.
func (a *Application) Migrate(ctx context.Context) error {
	if a.pool == nil {
		return fmt.Errorf("migrate: database driver %q has no schema", a.cfg.Database.Driver)
	}
	return storage.Migrate(ctx, a.pool)
}

// Handler exposes the HTTP handler, mainly for tests.
func (a *Application) Handler() http.Handler {
	return a.server
}

// Close releases connections opened by New.
func (a *Application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
