// Package main provides the ats_matcher command line: one-off and batch resume
// analysis, the HTTP API server and the queue worker.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/ats-matcher/internal/observability"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "ats_matcher",
	Short: "ATS resume matcher",
	Long: `ats_matcher scores how well a resume matches a job description the way an
applicant tracking system would: keyword coverage, skill-category coverage and
a blended ATS score, with ordered recommendations for closing the gaps.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		level, format := logLevel, logFormat
		if !cmd.Flags().Changed("log-level") {
			if v := os.Getenv("LOG_LEVEL"); v != "" {
				level = v
			}
		}
		if !cmd.Flags().Changed("log-format") {
			if v := os.Getenv("LOG_FORMAT"); v != "" {
				format = v
			}
		}
		observability.InitLogger(observability.LogConfig{Level: level, Format: format})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn or error (defaults to LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "pretty", "Log format: json or pretty (defaults to LOG_FORMAT)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
