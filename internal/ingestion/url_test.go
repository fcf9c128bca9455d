package ingestion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestFromURL_InvalidURL(t *testing.T) {
	for _, u := range []string{"", "not-a-url", "example.com", "http://", "ftp://example.com/job"} {
		t.Run(u, func(t *testing.T) {
			_, _, err := IngestFromURL(context.Background(), nil, u)
			var fetchErr *FetchError
			require.True(t, errors.As(err, &fetchErr))
			assert.Equal(t, "invalid URL", fetchErr.Message)
		})
	}
}

func TestIngestFromURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "ATSMatcher")
		_, _ = w.Write([]byte(`<!DOCTYPE html><html><body><nav>Nav</nav>
<main><h1>Platform Engineer</h1><p>Go, gRPC and PostgreSQL</p></main>
<footer>Footer</footer></body></html>`))
	}))
	defer server.Close()

	text, meta, err := IngestFromURL(context.Background(), server.Client(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "Platform Engineer\nGo, gRPC and PostgreSQL", text)
	assert.Equal(t, server.URL, meta.Source)
	assert.NotContains(t, text, "Footer")
}

func TestIngestFromURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, _, err := IngestFromURL(context.Background(), server.Client(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP status 404")
}

func TestIngestFromURL_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<p>x</p>"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := IngestFromURL(ctx, server.Client(), server.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIngestFromURLWithBrowser(t *testing.T) {
	spa := `<html><body><div id="root">Loading...</div></body></html>`
	rendered := `<html><body><main><h1>Data Engineer</h1><p>` +
		strings.Repeat("Build Spark and Airflow pipelines. ", 20) + `</p></main></body></html>`
	long := `<html><body><main><p>` + strings.Repeat("Go services on Kubernetes. ", 30) + `</p></main></body></html>`

	tests := []struct {
		name         string
		page         string
		render       Renderer
		wantRendered bool
		wantContains string
	}{
		{
			name:         "short page is rendered",
			page:         spa,
			render:       func(context.Context, string) (string, error) { return rendered, nil },
			wantRendered: true,
			wantContains: "Data Engineer",
		},
		{
			name:         "long page skips browser",
			page:         long,
			render:       func(context.Context, string) (string, error) { return rendered, nil },
			wantContains: "Kubernetes",
		},
		{
			name:         "render failure keeps HTTP text",
			page:         spa,
			render:       func(context.Context, string) (string, error) { return "", errors.New("no chrome") },
			wantRendered: true,
			wantContains: "Loading...",
		},
		{
			name:         "no renderer",
			page:         spa,
			wantContains: "Loading...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.page))
			}))
			defer server.Close()

			called := false
			var render Renderer
			if tt.render != nil {
				render = func(ctx context.Context, u string) (string, error) {
					called = true
					assert.Equal(t, server.URL, u)
					return tt.render(ctx, u)
				}
			}

			text, _, err := IngestFromURLWithBrowser(context.Background(), server.Client(), server.URL, render)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRendered, called)
			assert.Contains(t, text, tt.wantContains)
		})
	}
}
