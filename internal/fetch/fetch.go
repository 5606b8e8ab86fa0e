package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultMaxBytes  = 5 << 20
	defaultUserAgent = "seo-backend/1.0"
)

// Error is a transport failure for the target page.
type Error struct {
	URL        string
	StatusCode int
	Reason     string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: status %d: %s", e.URL, e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Options configures a Fetcher.
type Options struct {
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
}

// Fetcher downloads a single page. It never follows links on the page.
type Fetcher struct {
	client    *http.Client
	maxBytes  int64
	userAgent string
}

// New builds a Fetcher, filling zero options with defaults.
func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = defaultMaxBytes
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = defaultUserAgent
	}
	return &Fetcher{
		client:    &http.Client{Timeout: opts.Timeout},
		maxBytes:  opts.MaxBytes,
		userAgent: opts.UserAgent,
	}
}

// Fetch GETs rawURL and returns its body as text.
// Non-2xx responses, non-textual content and oversize bodies fail with *Error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &Error{URL: rawURL, Reason: "invalid request", Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &Error{URL: rawURL, Reason: "unreachable", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Debug("fetch returned bad status code", "url", rawURL, "status_code", resp.StatusCode)
		return "", &Error{URL: rawURL, StatusCode: resp.StatusCode, Reason: http.StatusText(resp.StatusCode)}
	}

	contentType := resp.Header.Get("Content-Type")
	if !isTextual(contentType) {
		return "", &Error{URL: rawURL, StatusCode: resp.StatusCode, Reason: "non-text content type " + contentType}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", &Error{URL: rawURL, StatusCode: resp.StatusCode, Reason: "read body", Err: err}
	}
	if int64(len(body)) > f.maxBytes {
		return "", &Error{URL: rawURL, StatusCode: resp.StatusCode, Reason: fmt.Sprintf("body exceeds %d bytes", f.maxBytes)}
	}
	return string(body), nil
}

func isTextual(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if ct == "" {
		return true
	}
	return strings.HasPrefix(ct, "text/") || strings.Contains(ct, "html") || strings.Contains(ct, "xml")
}
