package daemon

import (
	"context"
	"testing"

	"cappuccino/internal/capture"
	"cappuccino/internal/clip"
	"cappuccino/internal/logging"
	"cappuccino/internal/query"
	"cappuccino/internal/testsupport"
)

func newDaemon(t *testing.T) *Daemon {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	d, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestStartStop(t *testing.T) {
	d := newDaemon(t)
	ctx := context.Background()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second Start to fail")
	}
	status := d.Status(ctx)
	if !status.Running {
		t.Fatal("expected running status")
	}
	if status.StoreOpen {
		t.Fatal("store should stay closed until first use")
	}

	d.Stop()
	if d.Status(ctx).Running {
		t.Fatal("expected stopped status")
	}
}

func TestStoreOpensLazily(t *testing.T) {
	d := newDaemon(t)
	ctx := context.Background()

	if _, err := d.Stats(ctx); err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if !d.Status(ctx).StoreOpen {
		t.Fatal("expected store to be open after first query")
	}
}

func TestCaptureAndList(t *testing.T) {
	d := newDaemon(t)
	ctx := context.Background()

	item, note := d.Capture(ctx, capture.Event{
		Kind:      capture.EventSelection,
		Payload:   "remember this",
		PageURL:   "https://example.com/post",
		PageTitle: "A Post",
	})
	if note.IsError {
		t.Fatalf("capture failed: %q", note.Text)
	}

	items, err := d.ListItems(ctx, query.Criteria{})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 1 || items[0].ID != item.ID {
		t.Fatalf("items = %+v", items)
	}
}

func TestDeleteItem(t *testing.T) {
	d := newDaemon(t)
	ctx := context.Background()

	item, _ := d.Capture(ctx, capture.Event{
		Kind:    capture.EventSelection,
		Payload: "ephemeral",
		PageURL: "https://example.com",
	})

	existed, err := d.DeleteItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if !existed {
		t.Fatal("expected item to exist")
	}

	existed, err = d.DeleteItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("DeleteItem repeat: %v", err)
	}
	if existed {
		t.Fatal("expected second delete to report missing item")
	}
}

func TestClearItemsKeepsSettings(t *testing.T) {
	d := newDaemon(t)
	ctx := context.Background()

	if err := d.SaveAppearance(ctx, clip.AppearanceDark); err != nil {
		t.Fatalf("SaveAppearance: %v", err)
	}
	d.Capture(ctx, capture.Event{Kind: capture.EventSelection, Payload: "one", PageURL: "https://a.example"})
	d.Capture(ctx, capture.Event{Kind: capture.EventSelection, Payload: "two", PageURL: "https://b.example"})

	removed, err := d.ClearItems(ctx)
	if err != nil {
		t.Fatalf("ClearItems: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if got := d.Appearance(ctx); got != clip.AppearanceDark {
		t.Fatalf("appearance after clear = %q", got)
	}
}

func TestAppearanceDefaultsToLight(t *testing.T) {
	d := newDaemon(t)
	if got := d.Appearance(context.Background()); got != clip.AppearanceLight {
		t.Fatalf("appearance = %q, want light", got)
	}
}

func TestExportCSV(t *testing.T) {
	d := newDaemon(t)
	ctx := context.Background()

	d.Capture(ctx, capture.Event{
		Kind:      capture.EventSelection,
		Payload:   "exported text",
		PageURL:   "https://example.com",
		PageTitle: "Export Me",
	})

	doc, err := d.ExportCSV(ctx, query.Criteria{})
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if doc == "" {
		t.Fatal("expected CSV content")
	}
}

func TestSecondInstanceBlocked(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer first.Close()
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	second, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("New second: %v", err)
	}
	defer second.Close()
	if err := second.Start(context.Background()); err == nil {
		t.Fatal("expected lock contention error")
	}
}
