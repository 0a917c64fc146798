// Package profile declares the per-platform crawl rules.
//
// A Profile bundles everything that differs between ticketing sites:
// where the listing page lives, which anchors on it are candidate
// events, how relative links resolve, what a genuine detail URL looks
// like, and how titles and locations are cleaned up. Adding a platform
// means adding one Profile here, nothing else.
package profile

import (
	"regexp"
	"strings"
)

// Profile describes one ticketing platform.
type Profile struct {
	// Name identifies the platform in records, logs and metrics.
	Name string

	// ListingURL is the page polled for candidate event anchors.
	ListingURL string

	// AnchorSelector is the goquery selector picking candidate anchors
	// off the listing page.
	AnchorSelector string

	// BaseURL resolves relative hrefs from the listing page.
	BaseURL string

	// DetailPattern is the allow-list over absolute URLs: only URLs
	// shaped like a real detail page pass. This is the primary
	// anti-noise filter against navigation and ad links.
	DetailPattern *regexp.Regexp

	// LocationLabels are the venue labels this site's detail template
	// uses, tried in order by the enricher.
	LocationLabels []string

	// CleanTitle strips site-specific cosmetic noise from anchor text.
	// Nil means no cleanup.
	CleanTitle func(string) string

	// locationPattern is compiled once from LocationLabels when the
	// table is built; FindLocation falls back to the default labels
	// when it is nil.
	locationPattern *regexp.Regexp
}

// Matches reports whether url passes the platform's detail allow-list.
func (p Profile) Matches(url string) bool {
	return p.DetailPattern != nil && p.DetailPattern.MatchString(url)
}

// Clean applies the platform's title cleanup, if any.
func (p Profile) Clean(title string) string {
	if p.CleanTitle == nil {
		return strings.TrimSpace(title)
	}
	return strings.TrimSpace(p.CleanTitle(title))
}

// FindLocation extracts a venue token from detail-page text: one of the
// platform's labels, an optional colon, then the first token up to
// whitespace or punctuation. Empty when no label appears in text.
func (p Profile) FindLocation(text string) string {
	pattern := p.locationPattern
	if pattern == nil {
		pattern = defaultLocationPattern
	}
	if m := pattern.FindStringSubmatch(text); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func compileLocationPattern(labels []string) *regexp.Regexp {
	return regexp.MustCompile(`(?:` + strings.Join(labels, "|") + `)[:：]?\s*([^\s，。]+)`)
}

var (
	udnPriceTail = regexp.MustCompile(`\.\.\.moreNT\$\s*[\d,]+\s*~\s*[\d,]+$`)
	udnEntity    = regexp.MustCompile(`&amp;[a-zA-Z0-9#]+;`)
)

func cleanUDNTitle(title string) string {
	title = udnPriceTail.ReplaceAllString(title, "")
	return udnEntity.ReplaceAllString(title, "")
}

var (
	defaultLocationLabels  = []string{"地點", "場地"}
	defaultLocationPattern = compileLocationPattern(defaultLocationLabels)
)

var profiles = []Profile{
	{
		Name:           "拓元售票",
		ListingURL:     "https://tixcraft.com/activity",
		AnchorSelector: `a[href*="/activity/detail/"]`,
		BaseURL:        "https://tixcraft.com/",
		DetailPattern:  regexp.MustCompile(`(?i)^https?://(www\.)?tixcraft\.com/activity/detail/[A-Za-z0-9_-]+`),
		LocationLabels: []string{"演出地點", "地點", "場地"},
	},
	{
		Name:           "KKTIX",
		ListingURL:     "https://kktix.com/events",
		AnchorSelector: `a[href*="/events/"]`,
		BaseURL:        "https://kktix.com/",
		DetailPattern:  regexp.MustCompile(`(?i)^https?://[a-z0-9-]+\.kktix\.cc/events/[A-Za-z0-9-_]+`),
		LocationLabels: defaultLocationLabels,
	},
	{
		Name:           "OPENTIX",
		ListingURL:     "https://www.opentix.life/event",
		AnchorSelector: `a[href*="/event/"]`,
		BaseURL:        "https://www.opentix.life/",
		DetailPattern:  regexp.MustCompile(`(?i)^https?://(www\.)?opentix\.life/event/\d+`),
		LocationLabels: []string{"演出地點", "地點", "場地"},
	},
	{
		Name:           "年代售票",
		ListingURL:     "https://www.ticket.com.tw/",
		AnchorSelector: `a[href*="PRODUCT_ID="]`,
		BaseURL:        "https://www.ticket.com.tw/",
		DetailPattern:  regexp.MustCompile(`(?i)^https?://(www\.)?ticket\.com\.tw/application/UTK02/UTK0201_\.aspx\?PRODUCT_ID=[A-Z0-9]+`),
		LocationLabels: defaultLocationLabels,
	},
	{
		Name:           "UDN售票網",
		ListingURL:     "https://tickets.udnfunlife.com/",
		AnchorSelector: `a[href*="PRODUCT_ID="]`,
		BaseURL:        "https://tickets.udnfunlife.com/",
		DetailPattern:  regexp.MustCompile(`(?i)^https?://(www\.)?tickets\.udnfunlife\.com/application/UTK02/UTK0201_\.aspx\?PRODUCT_ID=[A-Z0-9]+`),
		LocationLabels: defaultLocationLabels,
		CleanTitle:     cleanUDNTitle,
	},
	{
		Name:           "iBon售票",
		ListingURL:     "https://ticket.ibon.com.tw/",
		AnchorSelector: `a[href]`,
		BaseURL:        "https://ticket.ibon.com.tw/",
		DetailPattern:  regexp.MustCompile(`(?i)^https?://(www\.)?ticket\.ibon\.com\.tw/`),
		LocationLabels: defaultLocationLabels,
	},
	{
		Name:           "寬宏",
		ListingURL:     "https://kham.com.tw/",
		AnchorSelector: `a[href*="PRODUCT_ID="]`,
		BaseURL:        "https://kham.com.tw/",
		DetailPattern:  regexp.MustCompile(`(?i)^https?://(www\.)?kham\.com\.tw/application/UTK02/UTK0201_\.aspx\?PRODUCT_ID=[A-Z0-9]+`),
		LocationLabels: defaultLocationLabels,
	},
	{
		Name:           "Event Go",
		ListingURL:     "https://eventgo.bnextmedia.com.tw/",
		AnchorSelector: `a[href*="/event/detail"]`,
		BaseURL:        "https://eventgo.bnextmedia.com.tw/",
		DetailPattern:  regexp.MustCompile(`(?i)^https?://eventgo\.bnextmedia\.com\.tw/event/detail[^\s]*$`),
		LocationLabels: defaultLocationLabels,
	},
}

func init() {
	for i := range profiles {
		profiles[i].locationPattern = compileLocationPattern(profiles[i].LocationLabels)
	}
}

// All returns the full platform table in crawl order.
func All() []Profile {
	out := make([]Profile, len(profiles))
	copy(out, profiles)
	return out
}

// ByName looks up a platform profile.
func ByName(name string) (Profile, bool) {
	for _, p := range profiles {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// Names returns the platform names in crawl order.
func Names() []string {
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = p.Name
	}
	return out
}
