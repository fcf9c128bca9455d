package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/ats-matcher/internal/analysis"
	"github.com/jonathan/ats-matcher/internal/config"
	"github.com/jonathan/ats-matcher/internal/extraction"
	"github.com/jonathan/ats-matcher/internal/fetch"
	"github.com/jonathan/ats-matcher/internal/ingestion"
	"github.com/jonathan/ats-matcher/internal/taxonomy"
	"github.com/jonathan/ats-matcher/internal/types"
)

const fetchTimeout = 30 * time.Second

// loadCommandConfig reads the optional --config file and validates it.
func loadCommandConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Config{}, nil
	}
	loaded, err := config.LoadConfig(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if err := loaded.Validate(); err != nil {
		return config.Config{}, err
	}
	return *loaded, nil
}

// finalizeConfig fills defaults after CLI overrides and checks the job inputs.
func finalizeConfig(cfg config.Config) (config.Config, error) {
	cfg = cfg.MergeWithDefaults(config.Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Engine:      config.DefaultEngineConfig(),
	})
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	if cfg.Job == "" && cfg.JobURL == "" {
		return cfg, fmt.Errorf("either --job or --job-url must be provided (via flag or config file)")
	}
	if cfg.JobTitle == "" {
		return cfg, fmt.Errorf("--title is required (via flag or config file)")
	}
	return cfg, nil
}

// newEngine builds the engine, loading an alternative taxonomy when configured.
func newEngine(cfg config.Config) (*analysis.Engine, error) {
	var tax *taxonomy.Taxonomy
	if cfg.TaxonomyPath != "" {
		loaded, err := taxonomy.LoadFile(cfg.TaxonomyPath)
		if err != nil {
			return nil, err
		}
		tax = loaded
	}
	return analysis.New(cfg.Engine, tax)
}

// loadJobDescription returns the job description text from a file or URL.
func loadJobDescription(ctx context.Context, cfg config.Config) (string, error) {
	if cfg.Job != "" {
		text, _, err := ingestion.IngestFromFile(cfg.Job)
		if err != nil {
			return "", fmt.Errorf("failed to read job description: %w", err)
		}
		return text, nil
	}

	var render ingestion.Renderer
	if cfg.UseBrowser {
		render = fetch.BrowserSimple
	}
	client := &http.Client{Timeout: fetchTimeout}
	text, _, err := ingestion.IngestFromURLWithBrowser(ctx, client, cfg.JobURL, render)
	if err != nil {
		return "", fmt.Errorf("failed to fetch job description: %w", err)
	}
	return text, nil
}

// readResume loads a resume file. At most maxBytes+1 bytes are read so that
// oversized files are still reported as too large by the engine.
func readResume(path string, maxBytes int64) (types.RawDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.RawDocument{}, fmt.Errorf("failed to open resume: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return types.RawDocument{}, fmt.Errorf("failed to read resume: %w", err)
	}

	head := data
	if len(head) > 3072 {
		head = head[:3072]
	}
	return types.RawDocument{
		Data:      data,
		MediaType: extraction.ResolveMediaType("", path, head),
		FileName:  filepath.Base(path),
	}, nil
}
