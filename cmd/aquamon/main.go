// Aquamon Core - IoT water-quality monitoring backend.
//
// Ingests water and light telemetry from field devices over MQTT, stores it
// in SQLite (optionally mirrored to InfluxDB), and serves an ownership-scoped
// REST API for accounts, devices, pump control, and alert rules.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/kestrelworks/aquamon-core/migrations"

	"github.com/kestrelworks/aquamon-core/internal/api"
	"github.com/kestrelworks/aquamon-core/internal/audit"
	"github.com/kestrelworks/aquamon-core/internal/auth"
	"github.com/kestrelworks/aquamon-core/internal/device"
	"github.com/kestrelworks/aquamon-core/internal/infrastructure/config"
	"github.com/kestrelworks/aquamon-core/internal/infrastructure/database"
	"github.com/kestrelworks/aquamon-core/internal/infrastructure/influxdb"
	"github.com/kestrelworks/aquamon-core/internal/infrastructure/logging"
	"github.com/kestrelworks/aquamon-core/internal/infrastructure/mqtt"
	"github.com/kestrelworks/aquamon-core/internal/monitor"
)

// Version information - set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Aquamon Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	db, err := database.Open(ctx, database.Config{
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

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	auditRepo := audit.NewRepository(db.DB)
	trail := audit.NewTrail(auditRepo, log)

	userRepo := auth.NewUserRepository(db.DB)
	authService := auth.NewService(userRepo, auth.NewTokenRepository(db.DB), cfg.Security.JWT, log)
	authService.SetTrail(trail)

	if seedErr := auth.SeedAdmin(ctx, userRepo, log); seedErr != nil {
		return fmt.Errorf("seeding admin account: %w", seedErr)
	}

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
	} else {
		log.Info("MQTT disabled, pump commands and telemetry ingest are off")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
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
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	monitorService := monitor.NewService(
		device.NewRepository(db.DB),
		device.NewWaterRepository(db.DB),
		device.NewLightRepository(db.DB),
		device.NewPumpRepository(db.DB),
		device.NewAlertRepository(db.DB),
		publisherOrNil(mqttClient),
		mirrorOrNil(influxClient),
		log,
	)
	monitorService.SetTrail(trail)

	// Telemetry ingest rides the broker connection
	if mqttClient != nil {
		ingestor := monitor.NewIngestor(monitorService, log)
		if startErr := ingestor.Start(mqttClient, byte(cfg.MQTT.QoS)); startErr != nil {
			return fmt.Errorf("starting telemetry ingest: %w", startErr)
		}
	}

	apiServer, err := api.New(api.Deps{
		Config:  cfg.API,
		Logger:  log,
		Auth:    authService,
		Monitor: monitorService,
		Audit:   auditRepo,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating api server: %w", err)
	}
	if startErr := apiServer.Start(ctx); startErr != nil {
		return fmt.Errorf("starting api server: %w", startErr)
	}
	defer func() {
		log.Info("stopping api server")
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error stopping api server", "error", closeErr)
		}
	}()
	log.Info("api server listening", "host", cfg.API.Host, "port", cfg.API.Port)

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses AQUAMON_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("AQUAMON_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// publisherOrNil avoids wrapping a nil *mqtt.Client in a non-nil interface.
func publisherOrNil(c *mqtt.Client) monitor.CommandPublisher {
	if c == nil {
		return nil
	}
	return c
}

func mirrorOrNil(c *influxdb.Client) monitor.TelemetryMirror {
	if c == nil {
		return nil
	}
	return c
}

// healthCheck verifies all infrastructure connections are healthy.
// mqttClient and influxClient may be nil when disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}
	return nil
}
