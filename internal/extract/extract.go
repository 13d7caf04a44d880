package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hasu-dev/linkscan/internal/config"
	"github.com/hasu-dev/linkscan/internal/model"
	"github.com/hasu-dev/linkscan/internal/probe"
)

// linkPrefix is the case-sensitive prefix an href must carry to qualify
// for probing. Relative links, fragments, mailto: and javascript:
// targets all fail this check and are excluded from the report.
const linkPrefix = "http"

// Extractor fetches source pages and probes the outbound links they
// contain. Source pages are always processed strictly in input order;
// link probing within a source may use a bounded worker pool, but the
// recorded order is always document order.
type Extractor struct {
	// client fetches source pages. Probes use the Prober's own client.
	client *http.Client

	// prober performs the per-link status checks.
	prober *probe.Prober

	// concurrency bounds the number of probes in flight per source.
	// 1 means one outstanding request at a time.
	concurrency int

	// userAgent is sent with source-page fetches.
	userAgent string

	// maxBodySize caps how many bytes of a source page are read.
	maxBodySize int64

	// siteConfigs supplies per-host request overrides. May be nil.
	siteConfigs *config.File

	// logger records per-source progress and swallowed failures.
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithProber sets the prober used for link status checks.
func WithProber(p *probe.Prober) Option {
	return func(e *Extractor) {
		e.prober = p
	}
}

// WithTimeout sets the source-page fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		e.client.Timeout = d
	}
}

// WithConcurrency bounds the number of link probes in flight. Values
// below 1 are ignored. Probing stays deterministic at any setting:
// records land at the index of their link's position in the page.
func WithConcurrency(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithUserAgent sets the User-Agent header for source-page fetches.
func WithUserAgent(ua string) Option {
	return func(e *Extractor) {
		e.userAgent = ua
	}
}

// WithMaxBodySize caps how many bytes of a source page are read.
func WithMaxBodySize(size int64) Option {
	return func(e *Extractor) {
		e.maxBodySize = size
	}
}

// WithSiteConfigs supplies per-host request overrides (cookies, headers)
// applied to source-page fetches.
func WithSiteConfigs(cf *config.File) Option {
	return func(e *Extractor) {
		e.siteConfigs = cf
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// WithClient replaces the HTTP client used for source-page fetches.
func WithClient(client *http.Client) Option {
	return func(e *Extractor) {
		e.client = client
	}
}

// New creates an Extractor with default settings: the fixed default
// timeout, sequential probing, and a default prober.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		client:      &http.Client{Timeout: config.DefaultTimeout},
		concurrency: config.DefaultConcurrency,
		userAgent:   config.DefaultUserAgent,
		maxBodySize: config.DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.prober == nil {
		e.prober = probe.New()
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e
}

// Extract scans every source URL in list order and returns the aggregate
// report. A source whose fetch or parse fails contributes an empty link
// list with an explicit failure marker and processing continues with the
// next source. Extract itself never fails; the report is always complete.
func (e *Extractor) Extract(ctx context.Context, sources []string) *model.Report {
	report := model.NewReport()
	start := time.Now()

	for _, source := range sources {
		links, err := e.fetchAnchors(ctx, source)
		if err != nil {
			e.logger.Warn("source fetch failed",
				"source", source,
				"error", err,
			)
			report.AddSource(model.SourceResult{
				Source:      source,
				Links:       []model.LinkRecord{},
				FetchFailed: true,
				FetchError:  err.Error(),
			})
			continue
		}

		filtered := filterProbeable(links)
		e.logger.Debug("source parsed",
			"source", source,
			"anchors", len(links),
			"probeable", len(filtered),
		)

		report.AddSource(model.SourceResult{
			Source: source,
			Links:  e.probeAll(ctx, filtered),
		})
	}

	report.Elapsed = time.Since(start)
	return report
}

// fetchAnchors fetches one source page and returns its anchor targets in
// document order.
func (e *Extractor) fetchAnchors(ctx context.Context, source string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	e.setRequestHeaders(req, source)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	targets, err := AnchorTargets(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return targets, nil
}

// setRequestHeaders applies the default and per-site headers to a
// source-page request.
func (e *Extractor) setRequestHeaders(req *http.Request, source string) {
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	if e.siteConfigs == nil {
		return
	}

	u, err := url.Parse(source)
	if err != nil {
		return
	}

	site := e.siteConfigs.GetSiteConfig(u.Hostname())
	if site.UserAgent != "" {
		req.Header.Set("User-Agent", site.UserAgent)
	}
	if site.Cookie != "" {
		req.Header.Set("Cookie", site.Cookie)
	}
	for k, v := range site.Headers {
		req.Header.Set(k, v)
	}
}

// filterProbeable keeps only hrefs with the absolute http(s) prefix.
// The check is a literal case-sensitive string prefix: no scheme
// normalization and no relative-link resolution, so "HTTP://..." and
// "/relative" are both excluded. Duplicates survive.
func filterProbeable(hrefs []string) []string {
	filtered := make([]string, 0, len(hrefs))
	for _, href := range hrefs {
		if strings.HasPrefix(href, linkPrefix) {
			filtered = append(filtered, href)
		}
	}
	return filtered
}

// probeAll probes every link and returns records in the links' order.
//
// Design decision: records are written to the index matching the link's
// position rather than appended from a channel, so the worker pool can
// run probes in any order while the result stays in document order.
func (e *Extractor) probeAll(ctx context.Context, links []string) []model.LinkRecord {
	records := make([]model.LinkRecord, len(links))

	g := new(errgroup.Group)
	g.SetLimit(e.concurrency)

	for i, link := range links {
		g.Go(func() error {
			records[i] = e.prober.Probe(ctx, link)
			return nil
		})
	}

	// Probes never return errors; Wait only synchronizes the pool.
	_ = g.Wait() //nolint:errcheck // Probe failures are sentinel records, not errors

	return records
}
