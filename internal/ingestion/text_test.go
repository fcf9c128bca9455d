package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText_PreserveMarkdownHeadings(t *testing.T) {
	result := CleanText("# Senior Engineer\n## Requirements\nContent here")

	assert.Contains(t, result, "# Senior Engineer")
	assert.Contains(t, result, "## Requirements")
	assert.Contains(t, result, "Content here")
}

func TestCleanText_PreserveBulletLists(t *testing.T) {
	result := CleanText("- Python   and SQL\n  * AWS\n• Kubernetes")

	assert.Contains(t, result, "- Python and SQL")
	assert.Contains(t, result, "* AWS")
	assert.Contains(t, result, "• Kubernetes")
}

func TestCleanText_NormalizeWhitespace(t *testing.T) {
	result := CleanText("Line    with \t multiple    spaces")
	assert.Equal(t, "Line with multiple spaces", result)
}

func TestCleanText_RemoveExcessiveBlankLines(t *testing.T) {
	result := CleanText("Line 1\n\n\n\n\nLine 2")
	assert.Equal(t, "Line 1\n\nLine 2", result)
}

func TestCleanText_NormalizeLineEndings(t *testing.T) {
	result := CleanText("Line 1\r\nLine 2\rLine 3\nLine 4")
	assert.Equal(t, "Line 1\nLine 2\nLine 3\nLine 4", result)
}

func TestCleanText_EmptyAndWhitespace(t *testing.T) {
	assert.Empty(t, CleanText(""))
	assert.Empty(t, CleanText("   \n  \n  "))
}

func TestCleanText_Deterministic(t *testing.T) {
	input := "Test content   with   spaces\n\n\nMultiple   blank   lines"
	assert.Equal(t, CleanText(input), CleanText(input))
	assert.Equal(t, CleanText(input), CleanText(CleanText(input)))
}

func TestPrepareJobText(t *testing.T) {
	t.Run("plain text untouched apart from cleanup", func(t *testing.T) {
		assert.Equal(t, "Requires Python, SQL", PrepareJobText("  Requires   Python, SQL  "))
	})

	t.Run("html stripped", func(t *testing.T) {
		html := "<p>Senior <strong>Python</strong> Engineer</p><ul><li>SQL</li><li>AWS</li></ul>"
		assert.Equal(t, "Senior Python Engineer\n- SQL\n- AWS", PrepareJobText(html))
	})

	t.Run("angle brackets that are not markup", func(t *testing.T) {
		assert.Equal(t, "Salary <100k> negotiable", PrepareJobText("Salary <100k> negotiable"))
	})
}

func TestIngestFromFile(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("text file", func(t *testing.T) {
		path := filepath.Join(tmpDir, "job.txt")
		require.NoError(t, os.WriteFile(path, []byte("# Backend Engineer\n\n\n\n- Go   experience"), 0644))

		text, meta, err := IngestFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "# Backend Engineer\n\n- Go experience", text)
		require.NotNil(t, meta)
		assert.Equal(t, path, meta.Source)
		assert.Len(t, meta.Hash, 64)
		assert.NotEmpty(t, meta.Timestamp)
	})

	t.Run("html file", func(t *testing.T) {
		path := filepath.Join(tmpDir, "job.html")
		html := "<html><body><nav>Jobs Home</nav><div class=\"job-description\"><h1>Data Engineer</h1><p>Spark and Airflow</p></div></body></html>"
		require.NoError(t, os.WriteFile(path, []byte(html), 0644))

		text, _, err := IngestFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Data Engineer\nSpark and Airflow", text)
	})

	t.Run("missing file", func(t *testing.T) {
		text, meta, err := IngestFromFile(filepath.Join(tmpDir, "nope.txt"))
		assert.Error(t, err)
		assert.Empty(t, text)
		assert.Nil(t, meta)
		assert.Contains(t, err.Error(), "file not found")
	})

	t.Run("same content same hash", func(t *testing.T) {
		a := filepath.Join(tmpDir, "a.txt")
		b := filepath.Join(tmpDir, "b.txt")
		require.NoError(t, os.WriteFile(a, []byte("Content"), 0644))
		require.NoError(t, os.WriteFile(b, []byte("  Content  "), 0644))

		_, metaA, err := IngestFromFile(a)
		require.NoError(t, err)
		_, metaB, err := IngestFromFile(b)
		require.NoError(t, err)
		assert.Equal(t, metaA.Hash, metaB.Hash)
	})
}
