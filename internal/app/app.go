package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/sundayezeilo/brandcatalog/internal/audit"
	"github.com/sundayezeilo/brandcatalog/internal/catalog"
	"github.com/sundayezeilo/brandcatalog/internal/config"
	"github.com/sundayezeilo/brandcatalog/internal/db/migrations"
	db "github.com/sundayezeilo/brandcatalog/internal/db/sqlc"
	"github.com/sundayezeilo/brandcatalog/internal/github"
	"github.com/sundayezeilo/brandcatalog/internal/netlify"
	"github.com/sundayezeilo/brandcatalog/internal/server"
	"github.com/sundayezeilo/brandcatalog/internal/store"
	"github.com/sundayezeilo/brandcatalog/internal/telemetry"
)

const tracerFlushTimeout = 5 * time.Second

// App holds the application dependencies and configuration.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	Audit  audit.Store
	Server *server.Server

	shutdownTracer telemetry.ShutdownFunc
}

// New initializes and returns a new App instance with all dependencies wired up.
func New(ctx context.Context) (*App, error) {
	if err := loadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := setupLogger(cfg.App.LogLevel)

	logger.Info("starting application",
		"env", cfg.App.Environment,
		"version", cfg.Observability.ServiceVersion,
	)

	shutdownTracer, err := telemetry.InitTracer(cfg.Observability, os.Stdout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	history, err := openAudit(ctx, cfg.Audit, logger)
	if err != nil {
		_ = shutdownTracer(ctx)
		return nil, fmt.Errorf("failed to open audit store: %w", err)
	}

	handlers := Wire(cfg, logger, history, newUpstreamClient(cfg.Upstream))
	srv := server.New(cfg, logger, handlers)

	logger.Info("application initialized",
		"port", cfg.Server.Port,
		"github_repo", cfg.GitHub.Repo,
		"netlify_site", cfg.Netlify.SiteID,
		"audit_driver", cfg.Audit.Driver,
	)

	return &App{
		Config:         cfg,
		Logger:         logger,
		Audit:          history,
		Server:         srv,
		shutdownTracer: shutdownTracer,
	}, nil
}

// Wire builds the endpoint handlers from configuration. Every outbound call
// goes through httpClient.
func Wire(cfg *config.Config, logger *slog.Logger, history audit.Store, httpClient *http.Client) server.Handlers {
	gh := github.NewClient(cfg.GitHub.Token,
		github.WithBaseURL(cfg.GitHub.APIURL),
		github.WithHTTPClient(httpClient),
	)
	nf := netlify.NewClient(cfg.Netlify.AccessToken,
		netlify.WithBaseURL(cfg.Netlify.APIURL),
		netlify.WithHTTPClient(httpClient),
	)

	redeployStore := store.NewRedeploy(nf, store.RedeployConfig{
		SiteID:       cfg.Netlify.SiteID,
		CatalogURL:   cfg.Netlify.CatalogURL,
		CatalogPath:  cfg.Netlify.CatalogPath,
		PollInterval: cfg.Netlify.DeployPollInterval,
		PollTimeout:  cfg.Netlify.DeployPollTimeout,
		HTTPClient:   httpClient,
		Logger:       logger,
	})
	commitStore := store.NewCommit(gh, nf, store.CommitConfig{
		Owner:  cfg.GitHub.Owner(),
		Repo:   cfg.GitHub.Name(),
		Path:   cfg.GitHub.CatalogPath,
		Branch: cfg.GitHub.Branch,
		SiteID: cfg.Netlify.SiteID,
		Logger: logger,
	})

	redeploy := catalog.NewHandler(catalog.HandlerConfig{
		Service: catalog.NewService(redeployStore, &catalog.ServiceConfig{
			Workflow:  catalog.WorkflowRedeploy,
			Validator: catalog.NewValidator(catalog.TelegramHTTPS),
			Recorder:  history,
			Logger:    logger,
		}),
		Workflow: catalog.WorkflowRedeploy,
		Logger:   logger,
	})
	commit := catalog.NewHandler(catalog.HandlerConfig{
		Service: catalog.NewService(commitStore, &catalog.ServiceConfig{
			Workflow:  catalog.WorkflowCommit,
			Validator: catalog.NewValidator(catalog.TelegramHTTPS, catalog.TelegramHTTP),
			Recorder:  history,
			Logger:    logger,
		}),
		Workflow: catalog.WorkflowCommit,
		Logger:   logger,
	})

	return server.Handlers{
		Redeploy: redeploy,
		Commit:   commit,
		Changes:  audit.NewHandler(history, logger).ListChanges,
	}
}

// Start starts the application server.
func (a *App) Start(ctx context.Context) error {
	a.Logger.Info("server starting",
		"port", a.Config.Server.Port,
	)

	if err := a.Server.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown() error {
	a.Logger.Info("shutting down application")

	var errs []error
	if a.Audit != nil {
		if err := a.Audit.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close audit store: %w", err))
		} else {
			a.Logger.Info("audit store closed")
		}
	}

	if a.shutdownTracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), tracerFlushTimeout)
		defer cancel()
		if err := a.shutdownTracer(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracer: %w", err))
		}
	}

	return errors.Join(errs...)
}

// loadEnv loads .env file only in non-production environments.
func loadEnv() error {
	env := os.Getenv("APP_ENV")
	if env == "development" || env == "test" {
		if err := godotenv.Load(); err != nil {
			log.Println("no .env file found.")
		}
	}
	return nil
}

// setupLogger creates a structured logger based on the log level.
func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}

// newUpstreamClient returns the traced, time-bounded client shared by the
// GitHub and Netlify clients and the public catalog fetch.
func newUpstreamClient(cfg config.UpstreamConfig) *http.Client {
	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: telemetry.Transport(nil),
	}
}

// openAudit opens the change-history backend selected by cfg.Driver.
func openAudit(ctx context.Context, cfg config.AuditConfig, logger *slog.Logger) (audit.Store, error) {
	switch cfg.Driver {
	case config.AuditMemory:
		logger.Info("change history kept in memory")
		return audit.NewMemory(audit.DefaultMemoryCapacity), nil

	case config.AuditSQLite:
		s, err := audit.OpenSQLite(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		logger.Info("change history stored in sqlite", "path", cfg.DSN)
		return s, nil

	case config.AuditPostgres:
		pool, err := connectDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := migrations.Apply(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		return audit.NewPostgres(db.New(pool), &audit.PostgresConfig{Close: pool.Close}), nil

	default:
		logger.Info("change history disabled")
		return audit.Nop{}, nil
	}
}

// connectDatabase establishes a connection to the PostgreSQL database.
func connectDatabase(ctx context.Context, cfg config.AuditConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Set pool configuration
	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns

	logger.Info("connecting to database",
		"host", poolConfig.ConnConfig.Host,
		"port", poolConfig.ConnConfig.Port,
		"database", poolConfig.ConnConfig.Database,
	)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established")

	return pool, nil
}
