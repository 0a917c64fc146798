// Package filter turns raw listing-page anchors into validated Event records.
package filter

import (
	"context"
	"net/url"
	"strings"

	classify "github.com/easonliu714/ShowNews/internal/domain/classify"
	dedupe "github.com/easonliu714/ShowNews/internal/domain/dedupe"
	model "github.com/easonliu714/ShowNews/internal/domain/model"
	profile "github.com/easonliu714/ShowNews/internal/domain/profile"
)

// Anchor is one raw <a> element lifted off a listing page.
type Anchor struct {
	Href string
	Text string
}

// genericLabels are anchor texts that are UI buttons, not event titles.
var genericLabels = map[string]struct{}{
	"more": {},
	"更多":   {},
	"詳情":   {},
	"購票":   {},
}

// Filter validates, deduplicates and classifies anchors per platform.
type Filter struct {
	classifier *classify.Classifier
}

// Option applies a configuration option to the Filter.
type Option func(*Filter)

// WithClassifier replaces the default category classifier.
func WithClassifier(c *classify.Classifier) Option {
	return func(f *Filter) {
		if c != nil {
			f.classifier = c
		}
	}
}

// New creates a Filter with configuration options.
func New(opts ...Option) *Filter {
	f := &Filter{classifier: classify.New()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Apply runs the full filter chain for one platform's anchors:
// resolve against the base URL, drop trivial titles, platform cleanup,
// allow-list match, generic label drop, classify, in-pass URL dedup
// (first accepted occurrence wins). Order of surviving records follows
// input order.
func (f *Filter) Apply(ctx context.Context, p profile.Profile, anchors []Anchor) []model.Event {
	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil
	}

	seen := dedupe.New(dedupe.WithCapacityHint(len(anchors)))
	events := make([]model.Event, 0, len(anchors))

	for _, a := range anchors {
		title := strings.TrimSpace(a.Text)
		if a.Href == "" || title == "" || len([]rune(title)) < model.MinTitleLen {
			continue
		}

		abs := resolve(base, a.Href)
		if abs == "" {
			continue
		}

		title = p.Clean(title)
		if len([]rune(title)) < model.MinTitleLen {
			continue
		}

		if !p.Matches(abs) {
			continue
		}
		if _, generic := genericLabels[strings.ToLower(title)]; generic {
			continue
		}

		ev := model.NewEvent(title, abs, p.Name, f.classifier.Categorize(title))
		if !ev.Valid() {
			continue
		}
		// The URL is recorded only on acceptance. Listings often emit a
		// button anchor and a title anchor to the same detail page; a
		// dropped button must not shadow the title anchor.
		if seen.SeenAndRecord(ctx, abs) {
			continue
		}
		events = append(events, ev)
	}

	return events
}

// resolve joins href against base, returning "" on unparsable input.
func resolve(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
