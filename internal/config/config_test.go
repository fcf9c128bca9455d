package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"job_url": "https://example.com/job",
		"job_title": "Backend Engineer",
		"log_format": "pretty",
		"verbose": true,
		"engine": {"max_keywords": 20, "keyword_blend": 0.5}
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://example.com/job", cfg.JobURL)
	assert.Equal(t, "Backend Engineer", cfg.JobTitle)
	assert.Equal(t, "pretty", cfg.LogFormat)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 20, cfg.Engine.MaxKeywords)
	assert.InDelta(t, 0.5, cfg.Engine.KeywordBlend, 1e-9)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644))

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	jobFile := filepath.Join(t.TempDir(), "job.txt")
	require.NoError(t, os.WriteFile(jobFile, []byte("Python developer"), 0644))

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty config", cfg: Config{}},
		{name: "existing job file", cfg: Config{Job: jobFile}},
		{name: "job and url", cfg: Config{Job: jobFile, JobURL: "https://x"}, wantErr: "mutually exclusive"},
		{name: "missing job file", cfg: Config{Job: "/nope/job.txt"}, wantErr: "job file not found"},
		{name: "missing taxonomy", cfg: Config{TaxonomyPath: "/nope/tax.json"}, wantErr: "taxonomy file not found"},
		{name: "bad log format", cfg: Config{LogFormat: "xml"}, wantErr: "log_format"},
		{name: "negative engine value", cfg: Config{Engine: EngineConfig{MaxKeywords: -1}}, wantErr: "max_keywords"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{JobTitle: "Data Engineer", Engine: EngineConfig{MaxKeywords: 12}}
	defaults := Config{
		JobTitle:  "ignored",
		JobURL:    "https://example.com/job",
		LogLevel:  "debug",
		LogFormat: "json",
		Engine:    DefaultEngineConfig(),
	}

	merged := cfg.MergeWithDefaults(defaults)
	assert.Equal(t, "Data Engineer", merged.JobTitle)
	assert.Equal(t, "https://example.com/job", merged.JobURL)
	assert.Equal(t, "debug", merged.LogLevel)
	assert.Equal(t, 12, merged.Engine.MaxKeywords)
	assert.Equal(t, 3, merged.Engine.WeightHigh)

	// Original is untouched.
	assert.Empty(t, cfg.JobURL)
}
