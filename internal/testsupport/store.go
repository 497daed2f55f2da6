package testsupport

import (
	"context"
	"testing"
	"time"

	"cappuccino/internal/clip"
	"cappuccino/internal/config"
)

// MustOpenStore opens a clip.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *clip.Store {
	t.Helper()

	store, err := clip.Open(cfg)
	if err != nil {
		t.Fatalf("clip.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AddText persists a text item for tests using the provided store.
func AddText(t testing.TB, store *clip.Store, text, url, pageTitle string, ts time.Time) *clip.Item {
	t.Helper()

	item, err := store.Add(context.Background(), &clip.Item{
		Kind:      clip.KindText,
		Text:      text,
		URL:       url,
		PageTitle: pageTitle,
		Timestamp: ts,
	})
	if err != nil {
		t.Fatalf("store.Add text: %v", err)
	}
	return item
}

// AddImage persists an image item for tests using the provided store.
func AddImage(t testing.TB, store *clip.Store, imageURL, url, pageTitle string, ts time.Time) *clip.Item {
	t.Helper()

	item, err := store.Add(context.Background(), &clip.Item{
		Kind:      clip.KindImage,
		ImageURL:  imageURL,
		URL:       url,
		PageTitle: pageTitle,
		Timestamp: ts,
	})
	if err != nil {
		t.Fatalf("store.Add image: %v", err)
	}
	return item
}

// AddVideo persists a video item for tests using the provided store.
func AddVideo(t testing.TB, store *clip.Store, videoID, url, pageTitle string, ts time.Time) *clip.Item {
	t.Helper()

	item, err := store.Add(context.Background(), &clip.Item{
		Kind:      clip.KindVideo,
		ImageURL:  "https://img.youtube.com/vi/" + videoID + "/default.jpg",
		VideoURL:  url,
		VideoID:   videoID,
		URL:       url,
		PageTitle: pageTitle,
		Timestamp: ts,
	})
	if err != nil {
		t.Fatalf("store.Add video: %v", err)
	}
	return item
}
