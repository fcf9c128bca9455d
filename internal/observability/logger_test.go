package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLogger(LogConfig{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	logger.Debug().Str("analysis_id", "abc").Msg("scored")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "abc", entry["analysis_id"])
	assert.Equal(t, "scored", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestInitLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitLogger(LogConfig{Level: "warn", Output: &buf})
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestInitLogger_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLogger(LogConfig{Level: "loud", Output: &buf})
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestInitLogger_Pretty(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLogger(LogConfig{Format: "pretty", Output: &buf})
	logger.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestCtx_FallsBackToGlobal(t *testing.T) {
	var buf bytes.Buffer
	InitLogger(LogConfig{Output: &buf})

	Ctx(context.Background()).Info().Msg("from global")
	assert.Contains(t, buf.String(), "from global")

	buf.Reset()
	Ctx(WithContext(context.Background())).Info().Msg("from ctx")
	assert.Contains(t, buf.String(), "from ctx")
}
