// Package server wires the library backend together: database, services,
// notification delivery, the HTTP API and the periodic jobs, all running
// under a suture supervisor tree until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/dmitrijs2005/libris/internal/logging"
	"github.com/dmitrijs2005/libris/internal/server/authz"
	"github.com/dmitrijs2005/libris/internal/server/config"
	"github.com/dmitrijs2005/libris/internal/server/httpapi"
	"github.com/dmitrijs2005/libris/internal/server/jobs"
	"github.com/dmitrijs2005/libris/internal/server/notify"
	"github.com/dmitrijs2005/libris/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/libris/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	root       *suture.Supervisor
	dispatcher *notify.Dispatcher
}

// OpenDB opens the Postgres pool described by cfg.
func OpenDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if cfg.Database.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxOpenConns)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}

// NewApp connects to the database, applies migrations when configured and
// builds the supervisor tree.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logOpts := logging.Options{Backend: c.Logging.Backend, Level: c.Logging.Level, Format: c.Logging.Format}
	logger := logging.New(os.Stdout, logOpts)
	sl := logging.NewSlog(os.Stdout, logOpts)

	db, err := OpenDB(c)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if c.Database.Migrate {
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migration error: %w", err)
		}
		logger.Info(ctx, "migrations applied")
	}

	enforcer, err := authz.NewEnforcer()
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	dispatcher := notify.NewDispatcher(newSender(c, logger), c.Notify.BufferSize, logger.With("module", "notify"), watermill.NewSlogLogger(sl))

	users := services.NewUserService(db, rm, c)
	circulation := services.NewCirculationService(db, rm, c, dispatcher, logger.With("module", "circulation"))

	api := httpapi.NewServer(httpapi.Services{
		Users:       users,
		Management:  services.NewManagementService(db, rm, dispatcher, logger.With("module", "management")),
		Circulation: circulation,
		Catalog:     services.NewCatalogService(db, rm),
		Recommend:   services.NewRecommendationService(db, rm, c),
	}, enforcer, logger, httpapi.Options{
		CORSOrigins:   c.HTTP.CORSOrigins,
		AuthRateLimit: c.Auth.RateLimit,
		Health:        db.PingContext,
	})

	srv := &http.Server{
		Addr:              c.HTTP.Address,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       c.HTTP.ReadTimeout,
		WriteTimeout:      c.HTTP.WriteTimeout,
	}

	handler := &sutureslog.Handler{Logger: sl}
	spec := suture.Spec{
		EventHook: handler.MustHook(),
		Timeout:   c.HTTP.ShutdownTimeout + time.Second,
	}
	root := suture.New("libris", spec)
	messaging := suture.New("messaging", suture.Spec{Timeout: spec.Timeout})
	apiLayer := suture.New("api", suture.Spec{Timeout: spec.Timeout})
	root.Add(messaging)
	root.Add(apiLayer)

	messaging.Add(dispatcher)
	messaging.Add(jobs.NewReminders(circulation, users, c.Reminders.Interval, logger))
	apiLayer.Add(httpapi.NewListener(srv, c.HTTP.ShutdownTimeout, logger))

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		root:       root,
		dispatcher: dispatcher,
	}, nil
}

// newSender picks SMTP delivery behind a circuit breaker, or logging when
// no relay is configured.
func newSender(c *config.Config, logger logging.Logger) notify.Sender {
	if !c.Notify.Enabled() {
		logger.Warn(context.Background(), "SMTP not configured, notifications will only be logged")
		return notify.NewLogSender(logger.With("module", "notify"))
	}
	smtp := notify.NewSMTPSender(notify.SMTPConfig{
		Host:     c.Notify.SMTPHost,
		Port:     c.Notify.SMTPPort,
		Username: c.Notify.Username,
		Password: c.Notify.Password,
		From:     c.Notify.From,
	})
	return notify.NewBreakerSender(smtp, c.Notify.BreakerFailures, logger)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until SIGINT/SIGTERM, then stops the tree and closes the pool.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "address", app.config.HTTP.Address)
	app.initSignalHandler(cancelFunc)

	err := app.root.Serve(ctx)

	if report, rerr := app.root.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		app.logger.Warn(ctx, "services did not stop in time", "count", len(report))
	}
	if cerr := app.dispatcher.Close(); cerr != nil {
		app.logger.Warn(ctx, "closing dispatcher", "error", cerr)
	}
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Warn(ctx, "closing database", "error", cerr)
	}
	app.logger.Info(context.Background(), "Stopped")

	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
