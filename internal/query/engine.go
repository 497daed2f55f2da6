package query

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"cappuccino/internal/clip"
)

// Category selects which item kinds a view includes.
type Category string

const (
	CategoryAll   Category = "all"
	CategoryText  Category = "text"
	CategoryImage Category = "image"
	CategoryVideo Category = "video"
)

// ParseCategory converts a string into a known Category. Empty means all.
func ParseCategory(value string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(value))) {
	case CategoryAll, "":
		return CategoryAll, true
	case CategoryText:
		return CategoryText, true
	case CategoryImage:
		return CategoryImage, true
	case CategoryVideo:
		return CategoryVideo, true
	}
	return "", false
}

// Criteria describes the subset of a snapshot the user currently wants. Zero
// values match everything.
type Criteria struct {
	Category Category
	// Search is matched case-insensitively as a substring of the item's
	// primary field, its page title, and its source URL.
	Search string
	// Domain is matched exactly against the item URL's hostname with a
	// leading "www." stripped.
	Domain string
	// From and To bound the capture instant at day granularity in local
	// time, inclusive. Either side may be nil for an open bound.
	From *time.Time
	To   *time.Time
}

// Apply filters the snapshot by the criteria and returns the matches sorted
// newest first. All criteria combine conjunctively. The input slice is not
// modified.
func Apply(items []clip.Item, criteria Criteria) []clip.Item {
	matched := make([]clip.Item, 0, len(items))
	search := strings.ToLower(strings.TrimSpace(criteria.Search))
	for _, item := range items {
		if !matchesCategory(item, criteria.Category) {
			continue
		}
		if !matchesSearch(item, search) {
			continue
		}
		if !matchesDomain(item, criteria.Domain) {
			continue
		}
		if !matchesDateRange(item, criteria.From, criteria.To) {
			continue
		}
		matched = append(matched, item)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	return matched
}

func matchesCategory(item clip.Item, category Category) bool {
	switch category {
	case CategoryText:
		// Plain text captures: anything that is neither image nor video.
		return item.Kind != clip.KindImage && item.Kind != clip.KindVideo
	case CategoryImage:
		return item.Kind == clip.KindImage
	case CategoryVideo:
		return item.Kind == clip.KindVideo
	default:
		return true
	}
}

func matchesSearch(item clip.Item, search string) bool {
	if search == "" {
		return true
	}

	var primary string
	switch item.Kind {
	case clip.KindImage:
		primary = item.ImageURL
	case clip.KindVideo:
		// Videos match on their page title or URL; the video URL equals the
		// capture page URL.
		primary = item.URL
	default:
		primary = item.Text
	}

	for _, field := range []string{primary, item.PageTitle, item.URL} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func matchesDomain(item clip.Item, domain string) bool {
	if strings.TrimSpace(domain) == "" {
		return true
	}
	return Hostname(item.URL) == strings.TrimPrefix(domain, "www.")
}

func matchesDateRange(item clip.Item, from, to *time.Time) bool {
	if from == nil && to == nil {
		return true
	}
	day := truncateToDay(item.Timestamp.Local())
	if from != nil && day.Before(truncateToDay(*from)) {
		return false
	}
	if to != nil && day.After(truncateToDay(*to)) {
		return false
	}
	return true
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// Hostname extracts the item URL's hostname with a leading "www." stripped.
// Unparseable URLs yield an empty string.
func Hostname(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}

// Domains returns the distinct hostnames across all items, "www."-stripped
// and lexicographically sorted. Used to populate domain filter selectors.
func Domains(items []clip.Item) []string {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		host := Hostname(item.URL)
		if host == "" {
			continue
		}
		seen[host] = struct{}{}
	}

	domains := make([]string, 0, len(seen))
	for host := range seen {
		domains = append(domains, host)
	}
	sort.Strings(domains)
	return domains
}
