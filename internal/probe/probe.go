package probe

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/hasu-dev/linkscan/internal/config"
	"github.com/hasu-dev/linkscan/internal/model"
)

// Prober issues bounded-timeout HTTP GET requests and reports the literal
// status code of the response.
//
// Design decision: we hold the http.Client in a struct rather than
// passing it per call because:
//  1. Client configuration (timeout, redirect policy) must be identical
//     for every probe in a run
//  2. Connection pooling works better with a shared client
//  3. Tests can inject a client pointed at httptest servers
type Prober struct {
	// client is the HTTP client used for all probes.
	client *http.Client

	// userAgent is sent with every request.
	userAgent string

	// maxBodySize caps how many response bytes are drained. Draining a
	// bounded amount keeps connections reusable without reading
	// arbitrarily large bodies.
	maxBodySize int64
}

// Option configures a Prober.
type Option func(*Prober)

// WithTimeout sets the per-request timeout. The default is
// config.DefaultTimeout (10 seconds).
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		p.client.Timeout = d
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(p *Prober) {
		p.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum number of response bytes to drain.
func WithMaxBodySize(size int64) Option {
	return func(p *Prober) {
		p.maxBodySize = size
	}
}

// WithClient replaces the HTTP client entirely. The caller is
// responsible for the client's timeout and redirect policy.
func WithClient(client *http.Client) Option {
	return func(p *Prober) {
		p.client = client
	}
}

// New creates a Prober with the default timeout and redirect policy.
//
// Design decision: redirects are not followed. A 301 is reported as 301,
// matching the documented contract that status codes are literal. The
// client uses http.ErrUseLastResponse, which stops the redirect chain
// without treating the response as an error.
func New(opts ...Option) *Prober {
	p := &Prober{
		client: &http.Client{
			Timeout: config.DefaultTimeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent:   config.DefaultUserAgent,
		maxBodySize: config.DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Probe issues exactly one GET against target and returns a LinkRecord
// carrying the literal status code, or model.StatusUnreachable on any
// transport-level failure. It never returns an error: failure to reach a
// link is a result, not an exception.
func (p *Prober) Probe(ctx context.Context, target string) model.LinkRecord {
	record := model.LinkRecord{URL: target, Status: model.StatusUnreachable}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		// Malformed URL counts as unreachable, same as a network failure.
		return record
	}

	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := p.client.Do(req)
	if err != nil {
		return record
	}
	defer resp.Body.Close()

	// Drain a bounded amount of the body so the connection can be reused.
	_, _ = io.CopyN(io.Discard, resp.Body, p.maxBodySize) //nolint:errcheck // Best effort drain

	record.Status = resp.StatusCode
	return record
}
