package ingestion

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jonathan/ats-matcher/internal/fetch"
)

// DefaultFetchTimeout bounds a job posting download.
const DefaultFetchTimeout = 30 * time.Second

// maxPostingBytes caps the downloaded page size.
const maxPostingBytes = 4 << 20

const userAgent = "Mozilla/5.0 (compatible; ATSMatcher/1.0)"

// FetchError describes a failed job posting download.
type FetchError struct {
	URL     string
	Message string
	Cause   error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Renderer returns the HTML of urlStr after client-side rendering.
type Renderer func(ctx context.Context, urlStr string) (string, error)

// IngestFromURL downloads a job posting page, extracts its readable text and
// cleans it. client may be nil, in which case a client with
// DefaultFetchTimeout is used.
func IngestFromURL(ctx context.Context, client *http.Client, urlStr string) (string, *Metadata, error) {
	return IngestFromURLWithBrowser(ctx, client, urlStr, nil)
}

// IngestFromURLWithBrowser is IngestFromURL with a rendering fallback: when
// the fetched page yields too little text (fetch.ShouldUseBrowser) and render
// is not nil, the page is rendered and extracted again. A failed render keeps
// the HTTP text.
func IngestFromURLWithBrowser(ctx context.Context, client *http.Client, urlStr string, render Renderer) (string, *Metadata, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", nil, &FetchError{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", nil, &FetchError{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", nil, &FetchError{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", nil, &FetchError{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPostingBytes))
	if err != nil {
		return "", nil, &FetchError{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	text, err := HTMLToText(string(body))
	if err != nil {
		return "", nil, &FetchError{URL: urlStr, Message: "content extraction failed", Cause: err}
	}

	if render != nil && fetch.ShouldUseBrowser(text) {
		log.Debug().Str("url", urlStr).Int("chars", len(text)).Msg("page text too short, rendering in browser")
		if html, err := render(ctx, urlStr); err != nil {
			log.Warn().Err(err).Str("url", urlStr).Msg("browser rendering failed, using HTTP content")
		} else if rendered, err := HTMLToText(html); err != nil {
			log.Warn().Err(err).Str("url", urlStr).Msg("rendered content extraction failed")
		} else {
			text = rendered
		}
	}
	text = CleanText(text)

	return text, NewMetadata(text, urlStr), nil
}
