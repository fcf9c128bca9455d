package ingestion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetadata(t *testing.T) {
	meta := NewMetadata("Senior Go Engineer", "job.txt")

	assert.Equal(t, "job.txt", meta.Source)
	assert.Equal(t, 18, meta.Chars)
	assert.Equal(t, ComputeHash("Senior Go Engineer"), meta.Hash)

	_, err := time.Parse(time.RFC3339, meta.Timestamp)
	assert.NoError(t, err)
}

func TestComputeHash(t *testing.T) {
	assert.Len(t, ComputeHash("x"), 64)
	assert.Equal(t, ComputeHash("same"), ComputeHash("same"))
	assert.NotEqual(t, ComputeHash("one"), ComputeHash("two"))
}

func TestMetadata_ToJSON(t *testing.T) {
	meta := &Metadata{Source: "https://example.com/job", Timestamp: "2024-01-01T00:00:00Z", Hash: "abcd1234", Chars: 10}

	raw, err := meta.ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "https://example.com/job", decoded["source"])
	assert.Equal(t, "abcd1234", decoded["hash"])
	assert.EqualValues(t, 10, decoded["chars"])
}
