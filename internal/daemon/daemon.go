package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/gofrs/flock"

	"cappuccino/internal/capture"
	"cappuccino/internal/clip"
	"cappuccino/internal/config"
	"cappuccino/internal/export"
	"cappuccino/internal/logging"
	"cappuccino/internal/notifications"
	"cappuccino/internal/query"
	"cappuccino/internal/thumbnail"
)

// Daemon coordinates the clip store, capture pipeline, and API surfaces, and
// enforces single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	capture  *capture.Service
	notifier notifications.Service

	storeMu sync.Mutex
	store   *clip.Store

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	started time.Time
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	StartedAt    time.Time
	DBPath       string
	LockFilePath string
	SocketPath   string
	APIBind      string
	ItemCount    int
	StoreOpen    bool
}

// New constructs a daemon with its dependencies wired but no store opened.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		notifier: notifications.NewService(cfg),
		lockPath: filepath.Join(cfg.Paths.DataDir, "cappd.lock"),
	}
	d.lock = flock.New(d.lockPath)

	resolver := thumbnail.NewResolver(
		time.Duration(cfg.Thumbnails.ProbeTimeout)*time.Second,
		thumbnail.WithLogger(logger),
	)
	d.capture = capture.NewService(
		capture.StoreFunc(d.Store),
		resolver,
		d.notifier,
		logger,
	)
	return d, nil
}

// Start acquires the daemon lock and marks the daemon running. The store is
// not opened here; it comes up lazily with the first request that needs it.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another cappd instance is already running")
	}

	d.started = time.Now()
	d.running.Store(true)
	d.logger.Info("cappd started",
		logging.String("lock", d.lockPath),
		logging.String("db", d.cfg.DatabasePath()))
	return nil
}

// Stop releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("cappd stopped")
}

// Close stops the daemon and closes the store if it was opened.
func (d *Daemon) Close() error {
	d.Stop()
	d.storeMu.Lock()
	defer d.storeMu.Unlock()
	if d.store == nil {
		return nil
	}
	err := d.store.Close()
	d.store = nil
	return err
}

// Store returns the shared store handle, opening the database on first use.
func (d *Daemon) Store(ctx context.Context) (*clip.Store, error) {
	d.storeMu.Lock()
	defer d.storeMu.Unlock()
	if d.store != nil {
		return d.store, nil
	}
	store, err := clip.Open(d.cfg)
	if err != nil {
		return nil, err
	}
	d.store = store
	d.logger.Info("clip store opened", logging.String("db", store.Path()))
	return store, nil
}

func (d *Daemon) openStore() (*clip.Store, bool) {
	d.storeMu.Lock()
	defer d.storeMu.Unlock()
	return d.store, d.store != nil
}

// Capture runs a capture event through the pipeline.
func (d *Daemon) Capture(ctx context.Context, event capture.Event) (*clip.Item, capture.Notification) {
	return d.capture.Handle(ctx, event)
}

// ListItems returns items matching the criteria, newest first.
func (d *Daemon) ListItems(ctx context.Context, criteria query.Criteria) ([]clip.Item, error) {
	store, err := d.Store(ctx)
	if err != nil {
		return nil, err
	}
	items, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.Apply(items, criteria), nil
}

// Domains returns the distinct source hostnames across all saved items,
// www-stripped and sorted. Clients use it to offer domain filter choices.
func (d *Daemon) Domains(ctx context.Context) ([]string, error) {
	store, err := d.Store(ctx)
	if err != nil {
		return nil, err
	}
	items, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.Domains(items), nil
}

// DeleteItem removes a single item. It reports whether the item existed.
func (d *Daemon) DeleteItem(ctx context.Context, id int64) (bool, error) {
	store, err := d.Store(ctx)
	if err != nil {
		return false, err
	}
	item, err := store.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, nil
	}
	if err := store.Delete(ctx, id); err != nil {
		return false, err
	}
	d.logger.Info("item deleted", logging.Int64(logging.FieldItemID, id))
	return true, nil
}

// ClearItems removes every saved item and reports the removed count.
// Settings are untouched.
func (d *Daemon) ClearItems(ctx context.Context) (int64, error) {
	store, err := d.Store(ctx)
	if err != nil {
		return 0, err
	}
	removed, err := store.Clear(ctx)
	if err != nil {
		return 0, err
	}
	d.logger.Info("all items cleared", logging.Int64("removed_count", removed))
	return removed, nil
}

// GetSettings returns the persisted settings.
func (d *Daemon) GetSettings(ctx context.Context) (clip.Settings, error) {
	store, err := d.Store(ctx)
	if err != nil {
		return clip.Settings{}, err
	}
	return store.Settings(ctx)
}

// SaveSettings applies a partial settings update and returns the merged
// result.
func (d *Daemon) SaveSettings(ctx context.Context, patch clip.SettingsPatch) (clip.Settings, error) {
	store, err := d.Store(ctx)
	if err != nil {
		return clip.Settings{}, err
	}
	return store.SaveSettings(ctx, patch)
}

// Appearance returns the stored theme. Any failure degrades to the light
// theme so the caller always has something to render.
func (d *Daemon) Appearance(ctx context.Context) clip.Appearance {
	settings, err := d.GetSettings(ctx)
	if err != nil {
		d.logger.Warn("theme lookup failed, using light", logging.Error(err))
		return clip.AppearanceLight
	}
	return settings.Appearance
}

// SaveAppearance stores the theme, leaving the language untouched.
func (d *Daemon) SaveAppearance(ctx context.Context, appearance clip.Appearance) error {
	_, err := d.SaveSettings(ctx, clip.SettingsPatch{Appearance: &appearance})
	return err
}

// Stats returns aggregate counts over all saved items.
func (d *Daemon) Stats(ctx context.Context) (query.Stats, error) {
	store, err := d.Store(ctx)
	if err != nil {
		return query.Stats{}, err
	}
	items, err := store.List(ctx)
	if err != nil {
		return query.Stats{}, err
	}
	return query.Aggregate(items), nil
}

// ExportCSV renders the matching items as a CSV document.
func (d *Daemon) ExportCSV(ctx context.Context, criteria query.Criteria) (string, error) {
	items, err := d.ListItems(ctx, criteria)
	if err != nil {
		return "", err
	}
	return export.CSV(items)
}

// DatabaseHealth returns diagnostics for the clip database.
func (d *Daemon) DatabaseHealth(ctx context.Context) (clip.Health, error) {
	store, err := d.Store(ctx)
	if err != nil {
		return clip.Health{Error: err.Error()}, err
	}
	return store.CheckHealth(ctx), nil
}

// TestNotification triggers a test push using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	if err := d.notifier.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		StartedAt:    d.started,
		DBPath:       d.cfg.DatabasePath(),
		LockFilePath: d.lockPath,
		SocketPath:   d.cfg.Paths.SocketPath,
		APIBind:      d.cfg.Paths.APIBind,
	}
	if store, ok := d.openStore(); ok {
		status.StoreOpen = true
		if count, err := store.Count(ctx); err == nil {
			status.ItemCount = count
		}
	}
	return status
}
