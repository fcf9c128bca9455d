package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jonathan/ats-matcher/internal/analysis"
	"github.com/jonathan/ats-matcher/internal/config"
	"github.com/jonathan/ats-matcher/internal/db"
	"github.com/jonathan/ats-matcher/internal/observability"
	"github.com/jonathan/ats-matcher/internal/server"
	"github.com/jonathan/ats-matcher/internal/server/ratelimit"
	"github.com/jonathan/ats-matcher/internal/storage"
	"github.com/jonathan/ats-matcher/internal/worker"
)

var (
	servePort       int
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server for resume analysis.

Requires DATABASE_URL. Queued analyses (POST /api/analyses) are enabled when
RABBITMQ_URL and the R2_* storage variables are set. Setting JWT_SECRET
requires a bearer token on every /api route.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file with engine settings")
	rootCmd.AddCommand(serveCmd)
}

// initServiceLogger switches to the service log settings unless flags were given.
func initServiceLogger(cmd *cobra.Command, svc *config.ServiceConfig) {
	level, format := svc.LogLevel, svc.LogFormat
	if cmd.Flags().Changed("log-level") {
		level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		format = logFormat
	}
	observability.InitLogger(observability.LogConfig{Level: level, Format: format})
}

// newServiceEngine builds the engine from an optional config file.
func newServiceEngine(path string) (*analysis.Engine, error) {
	cfg, err := loadCommandConfig(path)
	if err != nil {
		return nil, err
	}
	return newEngine(cfg)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	svc, err := config.LoadServiceConfig()
	if err != nil {
		return err
	}
	initServiceLogger(cmd, svc)

	if svc.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	engine, err := newServiceEngine(serveConfigPath)
	if err != nil {
		return err
	}

	database, err := db.Connect(ctx, svc.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()
	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	deps := server.Deps{Engine: engine, Store: database}

	if svc.Storage.Enabled() && svc.RabbitMQURL != "" {
		store, err := storage.New(ctx, svc.Storage, engine.Config().MaxUploadBytes)
		if err != nil {
			return err
		}
		broker, err := worker.Dial(svc.RabbitMQURL)
		if err != nil {
			return err
		}
		defer broker.Close()

		deps.Objects = store
		deps.Queue = broker
		log.Info().Str("bucket", store.Bucket()).Msg("queued analyses enabled")
	}

	cfg := server.Config{
		Port:       servePort,
		CORSOrigin: svc.CORSOrigin,
	}
	if svc.RateLimit.Enabled() {
		cfg.RateLimit = ratelimit.LoadConfig(svc.RateLimit.RequestsPerSecond, svc.RateLimit.Burst)
	}
	if os.Getenv("JWT_SECRET") != "" {
		jwtCfg, err := config.NewJWTConfig()
		if err != nil {
			return err
		}
		cfg.JWT = jwtCfg
	} else {
		log.Warn().Msg("JWT_SECRET is not set; the API accepts unauthenticated requests")
	}

	srv, err := server.New(cfg, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
