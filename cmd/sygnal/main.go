// Sygnal is a push gateway for Matrix homeservers.
//
// Homeservers POST notifications to /_matrix/push/v1/notify; the gateway
// routes each device to its configured delivery backend and returns the
// pushkeys that were permanently rejected.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	_ "github.com/asydorov/sygnal/migrations"

	"github.com/asydorov/sygnal/internal/api"
	"github.com/asydorov/sygnal/internal/gateway"
	"github.com/asydorov/sygnal/internal/infrastructure/config"
	"github.com/asydorov/sygnal/internal/infrastructure/database"
	"github.com/asydorov/sygnal/internal/infrastructure/influxdb"
	"github.com/asydorov/sygnal/internal/infrastructure/logging"
	"github.com/asydorov/sygnal/internal/metrics"
	"github.com/asydorov/sygnal/internal/pushkin"
	"github.com/asydorov/sygnal/internal/pushkin/mqttpush"
	"github.com/asydorov/sygnal/internal/pushkin/webhook"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/sygnal.yaml"

// sentryFlushTimeout bounds the final event flush at shutdown.
const sentryFlushTimeout = 2 * time.Second

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting sygnal",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Error reporting (optional)
	sentryEnabled := cfg.Metrics.SentryDSN != ""
	if sentryEnabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:     cfg.Metrics.SentryDSN,
			Release: "sygnal@" + version,
		}); err != nil {
			return fmt.Errorf("initialising sentry: %w", err)
		}
		defer sentry.Flush(sentryFlushTimeout)
		log.Info("sentry error reporting enabled")
	}

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Connect to InfluxDB (optional); fall back to the no-op sink
	var sink metrics.Sink = metrics.Nop{}
	if cfg.Metrics.InfluxDB.Enabled {
		influxClient, err := influxdb.Connect(cfg.Metrics.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		sink = influxClient
		log.Info("InfluxDB connected",
			"url", cfg.Metrics.InfluxDB.URL,
			"bucket", cfg.Metrics.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled, counters discarded")
	}

	// Build the backend registry. The kind map is the full set of
	// backends this binary can instantiate.
	kinds := pushkin.Kinds{
		"webhook": webhook.New,
		"mqtt":    mqttpush.New,
	}
	registry, err := pushkin.Build(ctx, cfg, kinds, pushkin.Env{DB: db}, log)
	if err != nil {
		return fmt.Errorf("building backend registry: %w", err)
	}
	defer func() {
		log.Info("shutting down backends")
		registry.Shutdown(context.Background())
	}()
	log.Info("backends configured", "app_ids", registry.AppIDs())

	// Dispatch engine
	engine := gateway.NewEngine(registry, sink, log, cfg.Gateway.SoftBackendFailures)

	// HTTP server
	server, err := api.New(api.Deps{
		Config:        cfg.Gateway,
		Security:      cfg.Security,
		Logger:        log,
		Engine:        engine,
		Version:       version,
		SentryEnabled: sentryEnabled,
	})
	if err != nil {
		return fmt.Errorf("creating gateway server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting gateway server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing gateway server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. HTTP server (stop accepting requests first)
	// 2. Backends
	// 3. InfluxDB (if enabled)
	// 4. Database

	log.Info("sygnal stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses SYGNAL_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("SYGNAL_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
