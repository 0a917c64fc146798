// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// Placeholder marks detail fields the crawler could not determine.
// It is distinct from the empty string: empty means "not yet touched",
// Placeholder means "looked and found nothing, see the event page".
const Placeholder = "詳內文"

// MinTitleLen is the minimum pre-normalization title length for a
// candidate link to count as a real event.
const MinTitleLen = 3

// Event represents one ticketed or listed show discovered on a platform.
// URL is the identity key: two records with the same URL are the same
// event regardless of title drift.
type Event struct {
	Title       string // listing or enriched title, trimmed
	URL         string // absolute detail-page URL, unique identity
	Platform    string // source platform name, e.g. "KKTIX"
	Category    string // classified category, "其他" when nothing matched
	Date        string // enrichment field, Placeholder when unknown
	Location    string // enrichment field, Placeholder when unknown
	Description string // enrichment field, empty or truncated meta description
}

// NewEvent builds an Event with default-filled enrichment fields.
func NewEvent(title, url, platform, category string) Event {
	return Event{
		Title:    strings.TrimSpace(title),
		URL:      url,
		Platform: platform,
		Category: category,
		Date:     Placeholder,
		Location: Placeholder,
	}
}

// Valid reports whether the record may flow downstream: a non-trivial
// title and a non-empty URL. The allow-list match is the platform
// profile's responsibility, not the model's.
func (e Event) Valid() bool {
	return e.URL != "" && len([]rune(strings.TrimSpace(e.Title))) >= MinTitleLen
}

// Downgraded reports whether every enrichment field still carries its
// default, meaning the detail fetch produced nothing usable.
func (e Event) Downgraded() bool {
	return e.Date == Placeholder && e.Location == Placeholder && e.Description == ""
}

// SeenRecord is the minimal shape persisted in the seen-event store.
type SeenRecord struct {
	Title  string    `json:"title"`
	SentAt time.Time `json:"sent_at,omitempty"`
}
