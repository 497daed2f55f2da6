// Package capture turns inbound capture events into persisted saved items.
//
// A capture event is one-way: an external trigger (the browser context menu)
// supplies the payload, the service builds the appropriate item variant,
// persists it, and emits a transient notification for the originating page.
// There is no request/response pair; the caller only receives the transient
// notification text.
package capture

import (
	"context"
	"fmt"
	"strings"

	"log/slog"

	"github.com/google/uuid"

	"cappuccino/internal/clip"
	"cappuccino/internal/logging"
	"cappuccino/internal/notifications"
	"cappuccino/internal/thumbnail"
)

// EventKind discriminates the capture trigger variants.
type EventKind string

const (
	EventSelection EventKind = "selection"
	EventImage     EventKind = "image"
	EventVideo     EventKind = "video"
)

// ParseEventKind converts a string into a known EventKind.
func ParseEventKind(value string) (EventKind, bool) {
	switch EventKind(strings.ToLower(strings.TrimSpace(value))) {
	case EventSelection:
		return EventSelection, true
	case EventImage:
		return EventImage, true
	case EventVideo:
		return EventVideo, true
	}
	return "", false
}

// Event is the one-way capture trigger payload.
type Event struct {
	Kind EventKind
	// Payload carries the selected text for selection events and the image
	// source URL for image events. Video events derive everything from the
	// page URL.
	Payload   string
	PageURL   string
	PageTitle string
}

// Notification is the transient on-page message produced for every capture
// attempt.
type Notification struct {
	Text    string
	IsError bool
}

// Stores yields the shared store handle, initializing it on first use.
type Stores interface {
	Acquire(ctx context.Context) (*clip.Store, error)
}

// StoreFunc adapts a function to the Stores interface.
type StoreFunc func(ctx context.Context) (*clip.Store, error)

// Acquire implements Stores.
func (f StoreFunc) Acquire(ctx context.Context) (*clip.Store, error) { return f(ctx) }

// Service handles capture events end to end.
type Service struct {
	stores   Stores
	resolver *thumbnail.Resolver
	notifier notifications.Service
	logger   *slog.Logger
}

// NewService wires a capture service. A nil notifier or logger degrades to
// no-ops.
func NewService(stores Stores, resolver *thumbnail.Resolver, notifier notifications.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	if resolver == nil {
		resolver = thumbnail.NewResolver(0)
	}
	return &Service{
		stores:   stores,
		resolver: resolver,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "capture"),
	}
}

// Handle builds the item variant for the event, persists it, and returns the
// transient notification. Persisted item is returned for callers that want
// it; on failure the item is nil and the notification carries the reason.
// Push notification failures are logged and swallowed: they are best-effort
// and not critical to the capture having succeeded.
func (s *Service) Handle(ctx context.Context, event Event) (*clip.Item, Notification) {
	eventID := uuid.NewString()
	logger := s.logger.With(
		logging.String(logging.FieldEventID, eventID),
		logging.String(logging.FieldEventType, string(event.Kind)),
	)

	item, err := s.buildItem(ctx, event)
	if err == nil {
		store, acquireErr := s.stores.Acquire(ctx)
		if acquireErr != nil {
			err = acquireErr
		} else {
			item, err = store.Add(ctx, item)
		}
	}

	if err != nil {
		logger.Error("capture failed",
			logging.Error(err),
			logging.String("page_url", event.PageURL))
		s.pushFailure(ctx, logger, event.Kind, err)
		return nil, Notification{Text: failureText(event.Kind), IsError: true}
	}

	logger.Info("capture stored",
		logging.Int64(logging.FieldItemID, item.ID),
		logging.String("kind", string(item.Kind)))
	s.pushSaved(ctx, logger, item)
	return item, Notification{Text: successText(item.Kind)}
}

func (s *Service) buildItem(ctx context.Context, event Event) (*clip.Item, error) {
	switch event.Kind {
	case EventSelection:
		if strings.TrimSpace(event.Payload) == "" {
			return nil, fmt.Errorf("selection event without text")
		}
		return &clip.Item{
			Kind:      clip.KindText,
			Text:      event.Payload,
			URL:       event.PageURL,
			PageTitle: event.PageTitle,
		}, nil

	case EventImage:
		// An image saved from a video page is treated as a video capture so
		// the stored item links back to the video rather than a frame.
		if thumbnail.IsVideoPage(event.PageURL) {
			if videoID, ok := thumbnail.VideoID(event.PageURL); ok {
				return s.buildVideoItem(ctx, event, videoID), nil
			}
		}
		if strings.TrimSpace(event.Payload) == "" {
			return nil, fmt.Errorf("image event without source url")
		}
		return &clip.Item{
			Kind:      clip.KindImage,
			ImageURL:  event.Payload,
			URL:       event.PageURL,
			PageTitle: event.PageTitle,
		}, nil

	case EventVideo:
		videoID, ok := thumbnail.VideoID(event.PageURL)
		if !ok {
			return nil, fmt.Errorf("no video id in url %q", event.PageURL)
		}
		return s.buildVideoItem(ctx, event, videoID), nil

	default:
		return nil, fmt.Errorf("unknown capture event kind %q", event.Kind)
	}
}

func (s *Service) buildVideoItem(ctx context.Context, event Event, videoID string) *clip.Item {
	return &clip.Item{
		Kind:      clip.KindVideo,
		ImageURL:  s.resolver.Resolve(ctx, videoID),
		VideoURL:  event.PageURL,
		VideoID:   videoID,
		URL:       event.PageURL,
		PageTitle: event.PageTitle,
	}
}

func (s *Service) pushSaved(ctx context.Context, logger *slog.Logger, item *clip.Item) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifySaved(ctx, item); err != nil {
		logger.Warn("push notification failed", logging.Error(err))
	}
}

func (s *Service) pushFailure(ctx context.Context, logger *slog.Logger, kind EventKind, cause error) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyCaptureFailed(ctx, itemKind(kind), cause.Error()); err != nil {
		logger.Warn("push notification failed", logging.Error(err))
	}
}

func itemKind(kind EventKind) clip.Kind {
	switch kind {
	case EventImage:
		return clip.KindImage
	case EventVideo:
		return clip.KindVideo
	default:
		return clip.KindText
	}
}

func successText(kind clip.Kind) string {
	switch kind {
	case clip.KindImage:
		return "Image saved"
	case clip.KindVideo:
		return "Video saved"
	default:
		return "Selection saved"
	}
}

func failureText(kind EventKind) string {
	switch kind {
	case EventImage:
		return "Could not save image"
	case EventVideo:
		return "Could not save video"
	default:
		return "Could not save selection"
	}
}
