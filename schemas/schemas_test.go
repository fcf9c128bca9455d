package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-matcher/internal/schemas"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "internal", "schemas", "files", "*.schema.json"))
	require.NoError(t, err)
	require.Len(t, files, len(schemas.Names()), "every schema file should be registered")

	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			data, err := os.ReadFile(path)
			require.NoError(t, err)

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON")

			assert.Equal(t, "http://json-schema.org/draft-07/schema#", schemaObj["$schema"])
			assert.NotEmpty(t, schemaObj["title"])
			assert.Equal(t, "object", schemaObj["type"])
		})
	}
}

func TestShippedTaxonomy_MatchesSchema(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "internal", "taxonomy", "data", "taxonomy.json"))
	require.NoError(t, err)

	assert.NoError(t, schemas.Validate(schemas.Taxonomy, data))
}

func TestAnalysisResultSchema_RejectsOutOfRangeScore(t *testing.T) {
	doc := `{
		"atsScore": 101,
		"keywordScore": 50,
		"skillsScore": 50,
		"matchedKeywords": [],
		"missingKeywords": [],
		"skillsAnalysis": [],
		"recommendations": ["Add metrics to your experience bullets."]
	}`

	err := schemas.Validate(schemas.AnalysisResult, []byte(doc))
	require.Error(t, err)

	var ve *schemas.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Errors)
}
