package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jonathan/ats-matcher/internal/analysis"
	"github.com/jonathan/ats-matcher/internal/db"
	"github.com/jonathan/ats-matcher/internal/observability"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score one resume against a job description",
	Long: `Extracts the resume text (.txt, .pdf, .doc or .docx), matches it against the
job description and prints scores, keyword and skill coverage, searchability
checks and recommendations.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runAnalyze,
}

var (
	analyzeConfigPath  string
	analyzeResume      string
	analyzeTitle       string
	analyzeJob         string
	analyzeJobURL      string
	analyzeUseBrowser  bool
	analyzeTaxonomy    string
	analyzeJSON        bool
	analyzeSave        bool
	analyzeDatabaseURL string
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	analyzeCmd.Flags().StringVarP(&analyzeResume, "resume", "r", "", "Path to the resume file (required)")
	analyzeCmd.Flags().StringVarP(&analyzeTitle, "title", "t", "", "Job title")
	analyzeCmd.Flags().StringVarP(&analyzeJob, "job", "j", "", "Path to job description file (mutually exclusive with --job-url)")
	analyzeCmd.Flags().StringVar(&analyzeJobURL, "job-url", "", "URL to fetch job description from (mutually exclusive with --job)")
	analyzeCmd.Flags().BoolVar(&analyzeUseBrowser, "browser", false, "Render --job-url pages in headless Chrome when the fetched text is too short")
	analyzeCmd.Flags().StringVar(&analyzeTaxonomy, "taxonomy", "", "Path to an alternative skill taxonomy JSON file")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the report as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Store the analysis in PostgreSQL")
	analyzeCmd.Flags().StringVar(&analyzeDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	_ = analyzeCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(analyzeCmd)
}

// analyzeOutput is the --json shape of one analysis.
type analyzeOutput struct {
	ID       string `json:"id,omitempty"`
	File     string `json:"file"`
	JobTitle string `json:"job_title"`
	Band     string `json:"band"`
	*analysis.Report
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadCommandConfig(analyzeConfigPath)
	if err != nil {
		return err
	}

	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("title") {
		cfg.JobTitle = analyzeTitle
	}
	if cmd.Flags().Changed("job") {
		cfg.Job = analyzeJob
	}
	if cmd.Flags().Changed("job-url") {
		cfg.JobURL = analyzeJobURL
	}
	if cmd.Flags().Changed("browser") {
		cfg.UseBrowser = analyzeUseBrowser
	}
	if cmd.Flags().Changed("taxonomy") {
		cfg.TaxonomyPath = analyzeTaxonomy
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = analyzeDatabaseURL
	}

	cfg, err = finalizeConfig(cfg)
	if err != nil {
		return err
	}
	if analyzeSave && cfg.DatabaseURL == "" {
		return fmt.Errorf("--save requires --db-url or DATABASE_URL")
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}
	jobText, err := loadJobDescription(ctx, cfg)
	if err != nil {
		return err
	}
	doc, err := readResume(analyzeResume, engine.Config().MaxUploadBytes)
	if err != nil {
		return err
	}

	report, err := engine.Analyze(doc, cfg.JobTitle, jobText)
	if err != nil {
		return err
	}
	log.Debug().
		Str("file", doc.FileName).
		Str("media_type", doc.MediaType).
		Int("ats_score", report.Result.ATSScore).
		Msg("analysis completed")

	out := analyzeOutput{File: doc.FileName, JobTitle: cfg.JobTitle, Band: report.Result.Band(), Report: report}
	if analyzeSave {
		id, err := saveReport(ctx, cfg.DatabaseURL, doc.FileName, doc.Size(), doc.BaseMediaType(), cfg.JobTitle, jobText, report, engine)
		if err != nil {
			return err
		}
		out.ID = id
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	observability.NewPrinter(os.Stdout).PrintAnalysis(cfg.JobTitle, report)
	if out.ID != "" {
		fmt.Fprintf(os.Stdout, "Saved analysis %s\n", out.ID)
	}
	return nil
}

// saveReport stores a completed analysis and returns its ID.
func saveReport(ctx context.Context, databaseURL, fileName string, size int64, mediaType, title, jobText string,
	report *analysis.Report, engine *analysis.Engine) (string, error) {
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return "", err
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return "", err
	}

	in := &db.AnalysisInput{
		FileName:       fileName,
		FileSize:       size,
		MediaType:      mediaType,
		JobTitle:       title,
		JobDescription: jobText,
	}
	id, err := database.SaveAnalysis(ctx, in, report, engine.Taxonomy().Version())
	if err != nil {
		return "", fmt.Errorf("failed to save analysis: %w", err)
	}
	return id.String(), nil
}
