package clip

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// defaultLocale derives the UI locale seeded into a fresh settings record from
// the process environment, falling back to English when nothing parses.
func defaultLocale() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		value := strings.TrimSpace(os.Getenv(name))
		if value == "" || value == "C" || value == "POSIX" {
			continue
		}
		// Strip encoding and modifier suffixes ("en_US.UTF-8@euro").
		if idx := strings.IndexAny(value, ".@"); idx >= 0 {
			value = value[:idx]
		}
		tag, err := language.Parse(strings.ReplaceAll(value, "_", "-"))
		if err != nil {
			continue
		}
		return tag.String()
	}
	return "en"
}
