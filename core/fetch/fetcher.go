// Package fetch implements the ContentFetcher interface.
// It performs HTTP GET requests with an explicit timeout, a per-host rate
// limit and an optional robots.txt check. Fetch never returns an error:
// any failure degrades to empty content so the pipeline can still produce
// a placeholder report.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "termscan/1.0 (+https://github.com/gaurav-prasanna/termscan)"
	DefaultMaxBytes  = 5 << 20
)

// ErrDisallowed is returned by Get when robots.txt forbids the URL.
var ErrDisallowed = errors.New("disallowed by robots.txt")

// Options configures an HTTPFetcher.
type Options struct {
	Timeout       time.Duration
	UserAgent     string
	MaxBytes      int64
	RatePerSecond float64
	Burst         int
	RespectRobots bool
}

// DefaultOptions returns the fetch settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Timeout:       DefaultTimeout,
		UserAgent:     DefaultUserAgent,
		MaxBytes:      DefaultMaxBytes,
		RatePerSecond: 2,
		Burst:         2,
		RespectRobots: false,
	}
}

// Result holds the raw HTML and response metadata from a fetch.
type Result struct {
	URL         string
	StatusCode  int
	ContentType string
	HTML        string
}

// HTTPFetcher fetches web pages via HTTP.
type HTTPFetcher struct {
	client  *http.Client
	opts    Options
	limiter *Limiter
	robots  *RobotsChecker
}

// New creates an HTTPFetcher. Zero option fields fall back to defaults.
func New(opts Options) *HTTPFetcher {
	def := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = def.UserAgent
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = def.MaxBytes
	}

	f := &HTTPFetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("stopped after 5 redirects")
				}
				return nil
			},
		},
		opts: opts,
	}
	if opts.RatePerSecond > 0 {
		f.limiter = NewLimiter(opts.RatePerSecond, opts.Burst)
	}
	if opts.RespectRobots {
		f.robots = NewRobotsChecker(opts.UserAgent, opts.Timeout)
	}
	return f
}

// Fetch returns the HTML of rawURL, or "" when it cannot be retrieved
// within the configured timeout.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) string {
	res, err := f.Get(ctx, rawURL)
	if err != nil {
		log.Warn().Err(err).Str("url", rawURL).Msg("fetch degraded; continuing with empty content")
		return ""
	}
	log.Debug().Str("url", rawURL).Int("status", res.StatusCode).Int("bytes", len(res.HTML)).Msg("fetched page")
	return res.HTML
}

// ParseURL accepts only absolute http(s) URLs.
func ParseURL(rawURL string) (*url.URL, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("invalid URL %q", rawURL)
	}
	return parsed, nil
}

// Get retrieves the HTML content of the given URL and reports failures.
func (f *HTTPFetcher) Get(ctx context.Context, rawURL string) (*Result, error) {
	if _, err := ParseURL(rawURL); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
		}
		if f.limiter != nil && delay > 0 {
			if err := f.limiter.WaitWithDelay(ctx, rawURL, delay); err != nil {
				return nil, fmt.Errorf("rate limit: %w", err)
			}
		}
	}
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &Result{
		URL:         resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		HTML:        string(body),
	}, nil
}
