package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jonathan/ats-matcher/internal/config"
	"github.com/jonathan/ats-matcher/internal/db"
	"github.com/jonathan/ats-matcher/internal/storage"
	"github.com/jonathan/ats-matcher/internal/worker"
)

var (
	workerCount      int
	workerConfigPath string
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Process queued analyses from RabbitMQ",
	Long: `Consumes analysis jobs from the "analyses" queue, downloads each resume from
object storage, runs the analysis, stores the result and publishes status
updates to the "analysis_updates" exchange.

Requires DATABASE_URL, RABBITMQ_URL and the R2_* storage variables.`,
	RunE: runWorker,
}

func init() {
	workerCmd.Flags().IntVarP(&workerCount, "workers", "w", 4, "Number of concurrent consumers")
	workerCmd.Flags().StringVar(&workerConfigPath, "config", "", "Path to config.json file with engine settings")
	rootCmd.AddCommand(workerCmd)
}

// checkWorkerConfig reports the first missing setting the worker needs.
func checkWorkerConfig(svc *config.ServiceConfig, workers int) error {
	switch {
	case workers < 1:
		return fmt.Errorf("--workers must be at least 1")
	case svc.DatabaseURL == "":
		return fmt.Errorf("DATABASE_URL environment variable is required")
	case svc.RabbitMQURL == "":
		return fmt.Errorf("RABBITMQ_URL environment variable is required")
	case !svc.Storage.Enabled():
		return fmt.Errorf("object storage is not configured: set R2_BUCKET, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY and R2_ACCOUNT_ID or R2_ENDPOINT")
	}
	return nil
}

func runWorker(cmd *cobra.Command, _ []string) error {
	svc, err := config.LoadServiceConfig()
	if err != nil {
		return err
	}
	initServiceLogger(cmd, svc)
	if err := checkWorkerConfig(svc, workerCount); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := newServiceEngine(workerConfigPath)
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

	store, err := storage.New(ctx, svc.Storage, engine.Config().MaxUploadBytes)
	if err != nil {
		return err
	}

	broker, err := worker.Dial(svc.RabbitMQURL)
	if err != nil {
		return err
	}
	defer broker.Close()

	processor := worker.NewProcessor(engine, store, database, broker)
	log.Info().Int("workers", workerCount).Str("queue", worker.QueueName).Msg("worker starting")

	if err := worker.NewPool(broker, processor, workerCount).Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	log.Info().Msg("worker stopped")
	return nil
}
