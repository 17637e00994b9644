package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/neptuneos/neptuneos/internal/api/http"
	"github.com/neptuneos/neptuneos/internal/api/service"
	"github.com/neptuneos/neptuneos/internal/api/store"
	"github.com/neptuneos/neptuneos/internal/api/store/drivers/sqlite"
	"github.com/neptuneos/neptuneos/pkg/jwtx"
	"github.com/neptuneos/neptuneos/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the API service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	tokens *jwtx.HS256

	// Services
	authService         *service.AuthService
	settingsService     *service.SettingsService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "neptune-api",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.JWTSecret == DefaultJWTSecret {
		app.logger.Warn("JWT_SECRET not set, using built-in development secret; set JWT_SECRET in production")
	}

	tokens, err := jwtx.NewHS256([]byte(cfg.JWTSecret), cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token signer: %w", err)
	}
	app.tokens = tokens

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	// First-run admin bootstrap, safe to repeat on every startup.
	if err := app.bootstrapService.EnsureAdmin(context.Background()); err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to bootstrap admin user: %w", err)
	}

	// The /api/settings endpoints predate authentication and stay open for
	// older dashboard builds. Make the exposure visible at startup.
	app.logger.Warn("legacy /api/settings endpoints are served without authentication")

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	if app.housekeepingService != nil {
		app.housekeepingService.Start()
	} else {
		app.logger.Info("session housekeeping disabled")
	}

	app.logger.Info("api service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down api service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	if app.housekeepingService != nil {
		app.housekeepingService.Stop()
	}

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("api service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:      app.db,
		Tokens:     app.tokens,
		SessionTTL: app.cfg.SessionTTL,
		Issuer:     app.cfg.Issuer,
	}

	app.settingsService = &service.SettingsService{Store: app.db}

	app.bootstrapService = &service.BootstrapService{
		Store:         app.db,
		Logger:        app.logger,
		AdminUsername: app.cfg.AdminUsername,
		AdminPassword: app.cfg.AdminPassword,
	}

	// Interval 0 disables the sweep entirely; expiry is still enforced at
	// session lookup time.
	if app.cfg.HousekeepingInterval > 0 {
		app.housekeepingService = service.NewHousekeepingService(
			app.db,
			app.logger,
			app.cfg.HousekeepingInterval,
		)
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	// Wire services to router
	router.AuthService = app.authService
	router.SettingsService = app.settingsService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
