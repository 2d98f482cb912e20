package fetch

import (
	"context"
	"io"
	"net/http"
	"time"
)

// PageSource fetches documents by URL.
// Implementations own all transport concerns: timeouts, proxies, redirect
// policy. Callers treat any error or non-200 status as "page unavailable"
// and degrade rather than retry.
type PageSource interface {
	// Fetch retrieves the document at the given URL.
	Fetch(ctx context.Context, pageURL string) (*Page, error)
}

// HTTPSource is the HTTP-backed PageSource.
//
// Design decision: We use a struct wrapping an *http.Client rather than
// passing the client on each call because:
//  1. Client configuration (timeouts, proxies) should be consistent
//  2. Connection pooling works better with a shared client
//  3. Easier to test with httptest servers
type HTTPSource struct {
	// client performs the actual HTTP requests.
	client *http.Client

	// userAgent is the User-Agent header to send.
	userAgent string

	// maxBodySize limits the response body size to prevent memory
	// exhaustion from unexpectedly large pages.
	maxBodySize int64

	// timeout is the per-request timeout.
	timeout time.Duration
}

// Option configures an HTTPSource.
type Option func(*HTTPSource)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *HTTPSource) {
		s.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size in bytes.
func WithMaxBodySize(size int64) Option {
	return func(s *HTTPSource) {
		s.maxBodySize = size
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(s *HTTPSource) {
		s.timeout = timeout
	}
}

// NewHTTPSource creates an HTTPSource with the given HTTP client.
//
// Design decision: We require an external http.Client rather than creating
// one internally because:
//  1. Callers may need proxy or TLS configuration we shouldn't guess at
//  2. Connection pooling can be shared across sources
//  3. Allows for different configurations in tests
func NewHTTPSource(client *http.Client, opts ...Option) *HTTPSource {
	s := &HTTPSource{
		client:      client,
		userAgent:   "wikihist/1.0 (+https://github.com/rfctools/wikihist)",
		maxBodySize: 5 * 1024 * 1024, // 5MB
		timeout:     30 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Fetch retrieves a single page.
// The response body is read through an io.LimitReader so oversized pages
// are truncated rather than exhausting memory.
func (s *HTTPSource) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return nil, err
	}

	return &Page{
		URL:        pageURL,
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}
