// Package fetch retrieves listing and detail pages over HTTP.
package fetch

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	filter "github.com/easonliu714/ShowNews/internal/domain/filter"
	"github.com/easonliu714/ShowNews/pkg/metrics"
)

// Default fetch configuration constants.
const (
	defaultTimeout      = 15 * time.Second
	defaultMinBodyBytes = 500
	maxBodyBytes        = 8 << 20 // 8 MiB cap on page bodies
)

// defaultUserAgents is a small pool of realistic browser identification
// strings; one is chosen at random per request.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 13_5_1) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.5 Safari/605.1.15",
}

// Client fetches pages with browser-like headers and rejects responses
// that look like blocks.
type Client struct {
	http         *http.Client
	userAgents   []string
	minBodyBytes int
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithUserAgents replaces the user-agent pool.
func WithUserAgents(uas []string) Option {
	return func(c *Client) {
		if len(uas) > 0 {
			c.userAgents = uas
		}
	}
}

// WithMinBodyBytes sets the threshold under which a body counts as blocked.
func WithMinBodyBytes(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.minBodyBytes = n
		}
	}
}

// WithHTTPClient swaps the underlying HTTP client (tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// New creates a fetch Client with configuration options.
func New(opts ...Option) *Client {
	c := &Client{
		http:         &http.Client{Timeout: defaultTimeout},
		userAgents:   defaultUserAgents,
		minBodyBytes: defaultMinBodyBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches url and returns the body as text. Non-200 statuses and
// bodies under the minimum byte threshold are fetch failures.
func (c *Client) Get(ctx context.Context, platform, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", url, err)
	}

	req.Header.Set("User-Agent", c.userAgents[rand.IntN(len(c.userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "zh-TW,zh;q=0.9,en-US;q=0.8,en;q=0.7")
	req.Header.Set("Referer", "https://www.google.com/")
	req.Header.Set("DNT", "1")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordFetchError(platform)
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordFetchError(platform)
		return "", fmt.Errorf("fetch %s: %w: %d", url, ErrBadStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.RecordFetchError(platform)
		return "", fmt.Errorf("read body of %s: %w", url, err)
	}
	metrics.RecordFetchDuration(platform, float64(time.Since(start).Milliseconds()))

	if len(body) < c.minBodyBytes {
		metrics.RecordFetchError(platform)
		return "", fmt.Errorf("fetch %s: %w: %d bytes", url, ErrBodyTooShort, len(body))
	}

	return string(body), nil
}

// Anchors extracts candidate anchors from listing-page HTML using the
// platform's goquery selector.
func Anchors(html, selector string) ([]filter.Anchor, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}

	var anchors []filter.Anchor
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		anchors = append(anchors, filter.Anchor{
			Href: href,
			Text: strings.TrimSpace(s.Text()),
		})
	})
	return anchors, nil
}
