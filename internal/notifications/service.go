package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cappuccino/internal/clip"
	"cappuccino/internal/config"
)

const userAgent = "Cappuccino-Go/0.1.0"

// Service defines the notification surface exposed to capture handling.
type Service interface {
	NotifySaved(ctx context.Context, item *clip.Item) error
	NotifyCaptureFailed(ctx context.Context, kind clip.Kind, reason string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:       topic,
		client:         &http.Client{Timeout: timeout},
		captureEnabled: cfg.Notifications.Captures,
		errorEnabled:   cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint       string
	client         *http.Client
	captureEnabled bool
	errorEnabled   bool
}

func (n *ntfyService) NotifySaved(ctx context.Context, item *clip.Item) error {
	if !n.captureEnabled || item == nil {
		return nil
	}

	var what string
	switch item.Kind {
	case clip.KindImage:
		what = fmt.Sprintf("Image saved from %s", sourceLabel(item))
	case clip.KindVideo:
		what = fmt.Sprintf("Video saved: %s", sourceLabel(item))
	default:
		what = fmt.Sprintf("Selection saved from %s", sourceLabel(item))
	}

	data := payload{
		title:   "Cappuccino - Saved",
		message: what,
		tags:    []string{"cappuccino", string(item.Kind), "saved"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyCaptureFailed(ctx context.Context, kind clip.Kind, reason string) error {
	if !n.errorEnabled {
		return nil
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "unknown"
	}
	data := payload{
		title:    "Cappuccino - Capture Failed",
		message:  fmt.Sprintf("Could not save %s: %s", kind, reason),
		tags:     []string{"cappuccino", string(kind), "error"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Cappuccino - Test",
		message:  "Notification system test",
		tags:     []string{"cappuccino", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func sourceLabel(item *clip.Item) string {
	if title := strings.TrimSpace(item.PageTitle); title != "" {
		return title
	}
	return item.URL
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifySaved(context.Context, *clip.Item) error { return nil }

func (noopService) NotifyCaptureFailed(context.Context, clip.Kind, string) error { return nil }

func (noopService) TestNotification(context.Context) error { return nil }
