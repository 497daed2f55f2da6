package clip_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"cappuccino/internal/clip"
	"cappuccino/internal/testsupport"
)

func TestAddAssignsIncreasingIDs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	var last int64
	for i := 0; i < 5; i++ {
		item, err := store.Add(ctx, &clip.Item{
			Kind: clip.KindText,
			Text: fmt.Sprintf("selection %d", i),
			URL:  "https://example.com/page",
		})
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if item.ID <= last {
			t.Fatalf("expected strictly increasing ids, got %d after %d", item.ID, last)
		}
		last = item.ID
	}
}

func TestAddStampsTimestampWhenAbsent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	before := time.Now().Add(-time.Second)
	item, err := store.Add(context.Background(), &clip.Item{
		Kind: clip.KindText,
		Text: "hello",
		URL:  "https://example.com",
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if item.Timestamp.Before(before) || item.Timestamp.After(time.Now().Add(time.Second)) {
		t.Fatalf("timestamp not stamped at insertion: %v", item.Timestamp)
	}
}

func TestAddValidatesVariantFields(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	cases := []struct {
		name string
		item clip.Item
	}{
		{"text without text", clip.Item{Kind: clip.KindText, URL: "https://example.com"}},
		{"image without image url", clip.Item{Kind: clip.KindImage, URL: "https://example.com"}},
		{"video without video id", clip.Item{Kind: clip.KindVideo, ImageURL: "https://img/x.jpg", VideoURL: "https://example.com", URL: "https://example.com"}},
		{"missing source url", clip.Item{Kind: clip.KindText, Text: "x"}},
		{"unknown kind", clip.Item{Kind: clip.Kind("gif"), URL: "https://example.com"}},
	}
	for _, tc := range cases {
		if _, err := store.Add(ctx, &tc.item); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestListRoundTripsVariants(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	now := time.Now().UTC().Truncate(time.Millisecond)
	testsupport.AddText(t, store, "a quote", "https://example.com/a", "Page A", now)
	testsupport.AddImage(t, store, "https://img/x.png", "https://example.com/b", "Page B", now)
	video := testsupport.AddVideo(t, store, "dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "A Video", now)

	items, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	fetched, err := store.GetByID(context.Background(), video.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil || fetched.Kind != clip.KindVideo || fetched.VideoID != "dQw4w9WgXcQ" {
		t.Fatalf("unexpected fetched video: %#v", fetched)
	}
	if !fetched.Timestamp.Equal(now) {
		t.Fatalf("timestamp mutated on round trip: want %v, got %v", now, fetched.Timestamp)
	}
	if fetched.Content() != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Fatalf("unexpected video content: %s", fetched.Content())
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item := testsupport.AddText(t, store, "gone soon", "https://example.com", "", time.Now())

	if err := store.Delete(ctx, item.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, item.ID); err != nil {
		t.Fatalf("second Delete should still succeed: %v", err)
	}

	items, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for _, it := range items {
		if it.ID == item.ID {
			t.Fatal("deleted item still listed")
		}
	}
}

func TestClearRemovesItemsButKeepsSettings(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	lang := "fr"
	if _, err := store.SaveSettings(ctx, clip.SettingsPatch{Lang: &lang}); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	testsupport.AddText(t, store, "one", "https://example.com/1", "", time.Now())
	testsupport.AddText(t, store, "two", "https://example.com/2", "", time.Now())

	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}

	items, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty store, got %d items", len(items))
	}

	settings, err := store.Settings(ctx)
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if settings.Lang != "fr" {
		t.Fatalf("settings should survive clear, got %+v", settings)
	}
}

func TestSettingsSeededOnCreation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	settings, err := store.Settings(context.Background())
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if settings.Lang == "" {
		t.Fatal("expected seeded language")
	}
	if settings.Appearance != clip.AppearanceLight {
		t.Fatalf("expected light default appearance, got %s", settings.Appearance)
	}
}

func TestSaveSettingsMergesPartialUpdates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	lang := "fr"
	if _, err := store.SaveSettings(ctx, clip.SettingsPatch{Lang: &lang}); err != nil {
		t.Fatalf("SaveSettings lang failed: %v", err)
	}

	dark := clip.AppearanceDark
	merged, err := store.SaveSettings(ctx, clip.SettingsPatch{Appearance: &dark})
	if err != nil {
		t.Fatalf("SaveSettings appearance failed: %v", err)
	}
	if merged.Lang != "fr" || merged.Appearance != clip.AppearanceDark {
		t.Fatalf("partial update clobbered settings: %+v", merged)
	}

	stored, err := store.Settings(ctx)
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if stored != merged {
		t.Fatalf("stored settings diverge: %+v vs %+v", stored, merged)
	}
}

func TestOpenIsIdempotentAcrossRestarts(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	first, err := clip.Open(cfg)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	item := testsupport.AddText(t, first, "persisted", "https://example.com", "", time.Now())
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second, err := clip.Open(cfg)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer second.Close()

	fetched, err := second.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil || fetched.Text != "persisted" {
		t.Fatalf("item did not survive reopen: %#v", fetched)
	}
}

func TestOpenFailureWrapsStorageUnavailable(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	// Point the data dir at a regular file so directory creation fails.
	cfg.Paths.DataDir = cfg.Paths.SocketPath
	if err := os.WriteFile(cfg.Paths.SocketPath, []byte("not a directory"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	_, err := clip.Open(cfg)
	if !errors.Is(err, clip.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestCheckHealthReportsTotals(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	testsupport.AddText(t, store, "one", "https://example.com", "", time.Now())

	health := store.CheckHealth(context.Background())
	if !health.DatabaseExists || !health.DatabaseReadable {
		t.Fatalf("unexpected health flags: %+v", health)
	}
	if !health.IntegrityCheck {
		t.Fatalf("integrity check failed: %+v", health)
	}
	if health.TotalItems != 1 {
		t.Fatalf("expected 1 item, got %d", health.TotalItems)
	}
}
