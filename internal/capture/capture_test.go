package capture

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"cappuccino/internal/clip"
	"cappuccino/internal/testsupport"
	"cappuccino/internal/thumbnail"
)

func newTestService(t *testing.T) (*Service, *clip.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	stores := StoreFunc(func(context.Context) (*clip.Store, error) { return store, nil })
	probe := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(probe.Close)
	resolver := thumbnail.NewResolver(0, thumbnail.WithBaseURL(probe.URL))
	return NewService(stores, resolver, nil, nil), store
}

func TestHandleSelection(t *testing.T) {
	service, store := newTestService(t)

	item, note := service.Handle(context.Background(), Event{
		Kind:      EventSelection,
		Payload:   "a passage worth keeping",
		PageURL:   "https://example.com/article",
		PageTitle: "Example Article",
	})
	if note.IsError {
		t.Fatalf("unexpected error notification: %q", note.Text)
	}
	if note.Text != "Selection saved" {
		t.Fatalf("notification text = %q", note.Text)
	}
	if item == nil || item.ID == 0 {
		t.Fatal("expected persisted item with id")
	}

	stored, err := store.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Kind != clip.KindText || stored.Text != "a passage worth keeping" {
		t.Fatalf("stored item = %+v", stored)
	}
}

func TestHandleImage(t *testing.T) {
	service, _ := newTestService(t)

	item, note := service.Handle(context.Background(), Event{
		Kind:      EventImage,
		Payload:   "https://example.com/photo.png",
		PageURL:   "https://example.com/gallery",
		PageTitle: "Gallery",
	})
	if note.IsError {
		t.Fatalf("unexpected error notification: %q", note.Text)
	}
	if item.Kind != clip.KindImage || item.ImageURL != "https://example.com/photo.png" {
		t.Fatalf("item = %+v", item)
	}
}

func TestHandleImageOnVideoPageBecomesVideo(t *testing.T) {
	service, _ := newTestService(t)

	item, note := service.Handle(context.Background(), Event{
		Kind:      EventImage,
		Payload:   "https://i.ytimg.com/an/frame.jpg",
		PageURL:   "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		PageTitle: "A Music Video",
	})
	if note.IsError {
		t.Fatalf("unexpected error notification: %q", note.Text)
	}
	if item.Kind != clip.KindVideo {
		t.Fatalf("kind = %q, want video", item.Kind)
	}
	if item.VideoID != "dQw4w9WgXcQ" {
		t.Fatalf("video id = %q", item.VideoID)
	}
	if item.VideoURL != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Fatalf("video url = %q", item.VideoURL)
	}
	if item.ImageURL == "" {
		t.Fatal("expected resolved thumbnail url")
	}
}

func TestHandleVideo(t *testing.T) {
	service, _ := newTestService(t)

	item, note := service.Handle(context.Background(), Event{
		Kind:      EventVideo,
		PageURL:   "https://youtu.be/dQw4w9WgXcQ",
		PageTitle: "A Music Video",
	})
	if note.IsError {
		t.Fatalf("unexpected error notification: %q", note.Text)
	}
	if item.Kind != clip.KindVideo || item.VideoID != "dQw4w9WgXcQ" {
		t.Fatalf("item = %+v", item)
	}
	if note.Text != "Video saved" {
		t.Fatalf("notification text = %q", note.Text)
	}
}

func TestHandleVideoWithoutID(t *testing.T) {
	service, store := newTestService(t)

	item, note := service.Handle(context.Background(), Event{
		Kind:    EventVideo,
		PageURL: "https://example.com/not-a-video",
	})
	if item != nil {
		t.Fatalf("expected nil item, got %+v", item)
	}
	if !note.IsError {
		t.Fatal("expected error notification")
	}
	if note.Text != "Could not save video" {
		t.Fatalf("notification text = %q", note.Text)
	}

	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Fatalf("count = %d, want 0", count)
	}
}

func TestHandleEmptySelection(t *testing.T) {
	service, _ := newTestService(t)

	item, note := service.Handle(context.Background(), Event{
		Kind:    EventSelection,
		Payload: "   ",
		PageURL: "https://example.com",
	})
	if item != nil || !note.IsError {
		t.Fatalf("expected failure, got item=%+v note=%+v", item, note)
	}
}

func TestParseEventKind(t *testing.T) {
	if kind, ok := ParseEventKind(" Image "); !ok || kind != EventImage {
		t.Fatalf("ParseEventKind(Image) = %q, %v", kind, ok)
	}
	if _, ok := ParseEventKind("bogus"); ok {
		t.Fatal("expected bogus kind to be rejected")
	}
}
