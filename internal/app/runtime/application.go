// Package runtime assembles the configured application and manages the HTTP
// server lifecycle.
package runtime

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	_ "github.com/lib/pq"

	app "github.com/beedatatech/teamflow/internal/app"
	"github.com/beedatatech/teamflow/internal/app/httpapi"
	"github.com/beedatatech/teamflow/internal/app/metrics"
	"github.com/beedatatech/teamflow/internal/app/services/mailer"
	"github.com/beedatatech/teamflow/internal/app/storage/postgres"
	"github.com/beedatatech/teamflow/internal/config"
	"github.com/beedatatech/teamflow/internal/middleware"
	"github.com/beedatatech/teamflow/pkg/logger"
)

// Application wires core dependencies and manages the HTTP server lifecycle.
type Application struct {
	cfg         *config.Config
	log         *logger.Logger
	server      *http.Server
	hub         *httpapi.Hub
	db          *sql.DB
	stopCleanup func()
}

// NewApplication constructs a fully wired application from configuration.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewApplicationWithConfig(cfg)
}

// NewApplicationWithConfig wires the application around an explicit config,
// used by tests and the CLI flag path.
func NewApplicationWithConfig(cfg *config.Config) (*Application, error) {
	log := logger.New("teamflow", logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	var stores app.Stores
	var db *sql.DB
	if cfg.Database.DSN != "" {
		var err error
		db, err = openDatabase(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}

		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := postgres.Apply(migrateCtx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}

		store := postgres.New(db)
		stores = app.Stores{
			Issues:   store,
			Users:    store,
			Projects: store,
			Teams:    store,
			Chat:     store,
			Reports:  store,
		}
	} else {
		log.Warn("no database DSN configured; using in-memory storage")
	}

	var sender mailer.Sender
	if cfg.SMTP.Username != "" {
		sender = mailer.New(mailer.Config{
			Host:       cfg.SMTP.Host,
			Port:       cfg.SMTP.Port,
			Username:   cfg.SMTP.Username,
			Password:   cfg.SMTP.Password,
			From:       cfg.SMTP.From,
			AppBaseURL: cfg.SMTP.AppBaseURL,
		}, log.Named("mailer"))
	}

	application := app.New(stores, app.Options{
		JWTSecret: cfg.Auth.JWTSecret,
		TokenTTL:  time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute,
		Mailer:    sender,
	}, log)

	uploads, err := httpapi.NewUploadStore(cfg.Uploads.Dir, cfg.Server.MaxUploadBytes)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, err
	}

	hub := httpapi.NewHub(log.Named("chat-hub"))
	handler := httpapi.NewHandler(application, uploads, hub, log.Named("httpapi"))

	auth := middleware.NewAuthMiddleware(
		application.Users,
		log.Named("auth"),
		[]string{"/api/login", "/api/signup", "/health", "/metrics"},
		[]string{"/uploads/"},
	)

	chain := handler
	var stopCleanup func()
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log.Named("ratelimit"))
		stopCleanup = limiter.StartCleanup(time.Minute)
		chain = limiter.Handler(chain)
	}
	// Auth runs before the limiter so authenticated requests are keyed by
	// their account rather than their IP.
	chain = auth.Handler(chain)
	cors := middleware.NewCORSMiddleware(cfg.CORS.AllowedOrigins)
	chain = cors.Handler(chain)
	chain = metrics.InstrumentHandler(chain)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/", chain)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	return &Application{
		cfg:         cfg,
		log:         log,
		server:      server,
		hub:         hub,
		db:          db,
		stopCleanup: stopCleanup,
	}, nil
}

// Run starts the HTTP server and blocks until the context is cancelled or the
// listener fails.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.log.WithField("addr", a.server.Addr).Info("HTTP server listening")
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the server, the chat hub and the database pool.
func (a *Application) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(a.cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if a.stopCleanup != nil {
		a.stopCleanup()
	}

	err := a.server.Shutdown(shutdownCtx)
	a.hub.Close()

	if a.db != nil {
		if closeErr := a.db.Close(); closeErr != nil {
			a.log.WithError(closeErr).Warn("error closing database connection")
		}
	}

	return err
}

func openDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	if cfg.Driver == "" {
		return nil, fmt.Errorf("database driver not configured")
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
