// Package thumbnail derives displayable thumbnails for captured videos.
//
// A platform video id is extracted from the page URL via a fixed set of
// pattern matchers, then a quality cascade probes candidate thumbnail URLs
// from highest to lowest resolution and settles on the first that exists. The
// cascade trades a few extra round trips for always having some displayable
// thumbnail.
package thumbnail

import (
	"regexp"
	"strings"
)

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/v/)([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/shorts/([^&\n?#]+)`),
}

var videoPageMarkers = []string{
	"youtube.com/watch",
	"youtu.be/",
	"youtube.com/shorts/",
}

// VideoID extracts the platform video id from a URL. Patterns are checked in
// order and the first match wins.
func VideoID(url string) (string, bool) {
	for _, pattern := range videoIDPatterns {
		if match := pattern.FindStringSubmatch(url); len(match) > 1 && match[1] != "" {
			return match[1], true
		}
	}
	return "", false
}

// IsVideoPage reports whether the URL points at a supported streaming page.
func IsVideoPage(url string) bool {
	if url == "" {
		return false
	}
	for _, marker := range videoPageMarkers {
		if strings.Contains(url, marker) {
			return true
		}
	}
	return false
}
