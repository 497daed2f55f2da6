// Package export serializes the full saved item collection to CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cappuccino/internal/clip"
)

var header = []string{"ID", "Type", "Content", "Page Title", "URL", "Timestamp"}

// CSV encodes the items into delimited text with a fixed header row. Content
// carries the text, video URL, or image URL depending on the item's kind.
// Fields containing delimiters or quotes are wrapped in quotes with inner
// quotes doubled. Rows keep the order of the input collection.
func CSV(items []clip.Item) (string, error) {
	var builder strings.Builder
	writer := csv.NewWriter(&builder)

	if err := writer.Write(header); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}

	for _, item := range items {
		record := []string{
			strconv.FormatInt(item.ID, 10),
			string(item.Kind),
			item.Content(),
			item.PageTitle,
			item.URL,
			item.Timestamp.Format(time.RFC3339Nano),
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("write csv row for item %d: %w", item.ID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return builder.String(), nil
}
