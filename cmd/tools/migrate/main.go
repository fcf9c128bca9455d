// Command migrate applies the analyses schema to the database named by
// DATABASE_URL. The schema is idempotent, so running it twice is safe.
//
// Usage:
//
//	go run ./cmd/tools/migrate
//	go run ./cmd/tools/migrate --print > schema.sql
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/ats-matcher/internal/db"
)

var printOnly bool

var rootCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "Apply the analyses schema",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().BoolVar(&printOnly, "print", false, "Print the schema instead of applying it")
}

func run(_ *cobra.Command, _ []string) error {
	if printOnly {
		fmt.Print(db.Schema())
		return nil
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	database, err := db.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer database.Close()

	fmt.Println("=== Schema Migration ===")
	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	summaries, err := database.ListAnalyses(ctx, db.AnalysisFilters{Limit: 1})
	if err != nil {
		return fmt.Errorf("schema applied but analyses table is not readable: %w", err)
	}
	fmt.Printf("Schema applied. analyses table readable (%d sample rows).\n", len(summaries))
	return nil
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
