package query

import (
	"strings"

	"cappuccino/internal/clip"
)

// documentExtensions are the page-title suffixes counted as office documents.
// This is purely a display statistic.
var documentExtensions = []string{
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
}

// Stats aggregates item counts per kind plus the document count.
type Stats struct {
	Total     int
	Text      int
	Image     int
	Video     int
	Documents int
}

// Aggregate computes display statistics over the full snapshot.
func Aggregate(items []clip.Item) Stats {
	var stats Stats
	stats.Total = len(items)
	for _, item := range items {
		switch item.Kind {
		case clip.KindImage:
			stats.Image++
		case clip.KindVideo:
			stats.Video++
		default:
			stats.Text++
		}
		if isDocumentTitle(item.PageTitle) {
			stats.Documents++
		}
	}
	return stats
}

func isDocumentTitle(pageTitle string) bool {
	title := strings.ToLower(pageTitle)
	for _, ext := range documentExtensions {
		if strings.HasSuffix(title, ext) {
			return true
		}
	}
	return false
}
