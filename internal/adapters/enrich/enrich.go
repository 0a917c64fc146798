// Package enrich fills in event fields from the event's own detail page.
//
// Enrichment is best effort: any fetch or parse problem leaves the
// record with its placeholder defaults and never blocks delivery.
package enrich

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	model "github.com/easonliu714/ShowNews/internal/domain/model"
	profile "github.com/easonliu714/ShowNews/internal/domain/profile"
	"github.com/easonliu714/ShowNews/pkg/logger"
)

// Extraction rule constants.
const (
	minRefinedTitleLen = 6   // refined titles shorter than this keep the listing title
	maxDescriptionLen  = 150 // description truncation point, in runes
)

// datePattern matches YYYY/MM/DD and YYYY.MM.DD shaped tokens.
var datePattern = regexp.MustCompile(`(\d{4}[./]\d{1,2}[./]\d{1,2})`)

// Fetcher retrieves one page as text.
type Fetcher interface {
	Get(ctx context.Context, platform, url string) (string, error)
}

// Enricher performs the secondary detail-page fetch and extraction.
type Enricher struct {
	fetcher Fetcher
	logger  logger.Logger
}

// Option applies a configuration option to the Enricher.
type Option func(*Enricher)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Enricher) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Enricher backed by the given fetcher.
func New(fetcher Fetcher, opts ...Option) *Enricher {
	e := &Enricher{fetcher: fetcher}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich fetches the event's detail page and fills in title, date,
// location and description where the page yields them. On any failure
// the input record is returned unchanged.
func (e *Enricher) Enrich(ctx context.Context, ev model.Event) model.Event {
	html, err := e.fetcher.Get(ctx, ev.Platform, ev.URL)
	if err != nil {
		e.logf(ctx, "detail fetch failed", ev.URL, err)
		return ev
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		e.logf(ctx, "detail parse failed", ev.URL, err)
		return ev
	}

	if title := refinedTitle(doc); title != "" {
		ev.Title = title
	}
	if desc := description(doc); desc != "" {
		ev.Description = desc
	}

	text := normalizeSpace(doc.Text())
	if m := datePattern.FindString(text); m != "" {
		ev.Date = m
	}
	if loc := location(text, ev.Platform); loc != "" {
		ev.Location = loc
	}

	return ev
}

func (e *Enricher) logf(ctx context.Context, msg, url string, err error) {
	if e.logger == nil {
		return
	}
	e.logger.Warn(ctx, msg, logger.String("url", url), logger.Error(err))
}

// refinedTitle prefers <title>, then <h1>, then Open-Graph/Twitter meta
// titles; the first candidate longer than five runes wins.
func refinedTitle(doc *goquery.Document) string {
	candidates := []string{
		strings.TrimSpace(doc.Find("title").First().Text()),
		strings.TrimSpace(doc.Find("h1").First().Text()),
		metaContent(doc, `meta[property="og:title"]`),
		metaContent(doc, `meta[name="twitter:title"]`),
	}
	for _, c := range candidates {
		if len([]rune(c)) >= minRefinedTitleLen {
			return c
		}
	}
	return ""
}

// description reads the Open-Graph or plain meta description, truncated
// to 150 runes with an ellipsis marker.
func description(doc *goquery.Document) string {
	for _, sel := range []string{`meta[property="og:description"]`, `meta[name="description"]`} {
		desc := metaContent(doc, sel)
		if desc == "" {
			continue
		}
		if runes := []rune(desc); len(runes) > maxDescriptionLen {
			return string(runes[:maxDescriptionLen]) + "..."
		}
		return desc
	}
	return ""
}

// location delegates to the platform's precompiled venue-label rule.
// Unknown platforms get the zero profile, which falls back to the
// default labels.
func location(text, platform string) string {
	p, _ := profile.ByName(platform)
	return p.FindLocation(text)
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

var spaceRun = regexp.MustCompile(`\s+`)

func normalizeSpace(s string) string {
	return spaceRun.ReplaceAllString(s, " ")
}
