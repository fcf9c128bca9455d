package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/ats-matcher/internal/analysis"
	"github.com/jonathan/ats-matcher/internal/observability"
)

var batchCmd = &cobra.Command{
	Use:   "batch [resume files...]",
	Short: "Score several resumes against one job description",
	Long: `Analyzes every resume concurrently against the same job description and
prints one summary line per file, in the order given. A file that fails is
reported on its own line and does not stop the others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

var (
	batchConfigPath  string
	batchTitle       string
	batchJob         string
	batchJobURL      string
	batchUseBrowser  bool
	batchTaxonomy    string
	batchConcurrency int
	batchJSON        bool
)

func init() {
	batchCmd.Flags().StringVar(&batchConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	batchCmd.Flags().StringVarP(&batchTitle, "title", "t", "", "Job title")
	batchCmd.Flags().StringVarP(&batchJob, "job", "j", "", "Path to job description file (mutually exclusive with --job-url)")
	batchCmd.Flags().StringVar(&batchJobURL, "job-url", "", "URL to fetch job description from (mutually exclusive with --job)")
	batchCmd.Flags().BoolVar(&batchUseBrowser, "browser", false, "Render --job-url pages in headless Chrome when the fetched text is too short")
	batchCmd.Flags().StringVar(&batchTaxonomy, "taxonomy", "", "Path to an alternative skill taxonomy JSON file")
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", runtime.NumCPU(), "Maximum resumes analyzed at once")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "Print results as JSON")

	rootCmd.AddCommand(batchCmd)
}

// batchResult is the --json shape of one batch entry.
type batchResult struct {
	File   string           `json:"file"`
	Band   string           `json:"band,omitempty"`
	Report *analysis.Report `json:"report,omitempty"`
	Error  string           `json:"error,omitempty"`
	Kind   string           `json:"error_kind,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadCommandConfig(batchConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("title") {
		cfg.JobTitle = batchTitle
	}
	if cmd.Flags().Changed("job") {
		cfg.Job = batchJob
	}
	if cmd.Flags().Changed("job-url") {
		cfg.JobURL = batchJobURL
	}
	if cmd.Flags().Changed("browser") {
		cfg.UseBrowser = batchUseBrowser
	}
	if cmd.Flags().Changed("taxonomy") {
		cfg.TaxonomyPath = batchTaxonomy
	}
	cfg, err = finalizeConfig(cfg)
	if err != nil {
		return err
	}
	if batchConcurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1")
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}
	jobText, err := loadJobDescription(ctx, cfg)
	if err != nil {
		return err
	}

	results := analyzeBatch(ctx, engine, cfg.JobTitle, jobText, args, batchConcurrency)

	if batchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	rows := make([]observability.BatchRow, len(results))
	failed := 0
	for i, r := range results {
		rows[i] = observability.BatchRow{File: r.File}
		if r.Error != "" {
			rows[i].Err = fmt.Errorf("%s", r.Error)
			failed++
			continue
		}
		rows[i].Result = &r.Report.Result
	}
	observability.NewPrinter(os.Stdout).PrintBatch(cfg.JobTitle, rows)

	if failed == len(results) {
		return fmt.Errorf("all %d resumes failed", failed)
	}
	return nil
}

// analyzeBatch runs every file through the engine with at most limit in
// flight. Results keep the order of files.
func analyzeBatch(ctx context.Context, engine *analysis.Engine, title, jobText string, files []string, limit int) []batchResult {
	results := make([]batchResult, len(files))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range files {
		g.Go(func() error {
			res := batchResult{File: filepath.Base(path)}
			report, err := analyzeFile(engine, path, title, jobText)
			if err != nil {
				res.Error = err.Error()
				res.Kind = string(analysis.KindOf(err))
			} else {
				res.Report = report
				res.Band = report.Result.Band()
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func analyzeFile(engine *analysis.Engine, path, title, jobText string) (*analysis.Report, error) {
	doc, err := readResume(path, engine.Config().MaxUploadBytes)
	if err != nil {
		return nil, err
	}
	return engine.Analyze(doc, title, jobText)
}
