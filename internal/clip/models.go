package clip

import (
	"fmt"
	"strings"
	"time"
)

// Kind discriminates the saved item variants.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

var allKinds = []Kind{KindText, KindImage, KindVideo}

// ParseKind converts a string into a known Kind.
func ParseKind(value string) (Kind, bool) {
	candidate := Kind(strings.ToLower(strings.TrimSpace(value)))
	for _, kind := range allKinds {
		if candidate == kind {
			return kind, true
		}
	}
	return "", false
}

// Item is a single captured artifact with provenance metadata. Exactly one
// variant field set is populated depending on Kind: Text for text items,
// ImageURL for images, and ImageURL+VideoURL+VideoID for videos.
type Item struct {
	ID        int64
	Kind      Kind
	Text      string
	ImageURL  string
	VideoURL  string
	VideoID   string
	URL       string
	PageTitle string
	Timestamp time.Time
}

// Content returns the primary payload for the item's kind: the selected text,
// the video page URL, or the image source URL.
func (i *Item) Content() string {
	switch i.Kind {
	case KindVideo:
		return i.VideoURL
	case KindImage:
		return i.ImageURL
	default:
		return i.Text
	}
}

func (i *Item) validate() error {
	switch i.Kind {
	case KindText:
		if i.Text == "" {
			return fmt.Errorf("text item requires text")
		}
	case KindImage:
		if i.ImageURL == "" {
			return fmt.Errorf("image item requires image url")
		}
	case KindVideo:
		if i.ImageURL == "" || i.VideoURL == "" || i.VideoID == "" {
			return fmt.Errorf("video item requires image url, video url, and video id")
		}
	default:
		return fmt.Errorf("unknown item kind %q", i.Kind)
	}
	if strings.TrimSpace(i.URL) == "" {
		return fmt.Errorf("item requires source url")
	}
	return nil
}

// Appearance is the UI theme stored in settings.
type Appearance string

const (
	AppearanceLight Appearance = "light"
	AppearanceDark  Appearance = "dark"
)

// ParseAppearance converts a string into a known Appearance.
func ParseAppearance(value string) (Appearance, bool) {
	switch Appearance(strings.ToLower(strings.TrimSpace(value))) {
	case AppearanceLight:
		return AppearanceLight, true
	case AppearanceDark:
		return AppearanceDark, true
	}
	return "", false
}

// Settings is the single persistent user preferences record.
type Settings struct {
	Lang       string
	Appearance Appearance
}

// SettingsPatch describes a partial settings update. Nil fields keep their
// stored value.
type SettingsPatch struct {
	Lang       *string
	Appearance *Appearance
}

// Health captures diagnostic information about the clip database.
type Health struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	SchemaVersion    string
	IntegrityCheck   bool
	TotalItems       int
	Error            string
}
