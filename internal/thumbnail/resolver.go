package thumbnail

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"cappuccino/internal/logging"
)

// qualities are the thumbnail variants probed from highest to lowest
// resolution.
var qualities = []string{
	"maxresdefault.jpg", // 1920x1080
	"sddefault.jpg",     // 640x480
	"hqdefault.jpg",     // 480x360
	"mqdefault.jpg",     // 320x180
	"default.jpg",       // 120x90
}

const defaultBaseURL = "https://img.youtube.com/vi"

// Resolver probes candidate thumbnail URLs for a video id.
type Resolver struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

// Option customizes resolver construction.
type Option func(*Resolver)

// WithBaseURL overrides the thumbnail host, primarily for tests.
func WithBaseURL(baseURL string) Option {
	return func(r *Resolver) {
		r.baseURL = baseURL
	}
}

// WithLogger attaches a logger to the resolver.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver builds a resolver with the given per-probe timeout.
func NewResolver(probeTimeout time.Duration, opts ...Option) *Resolver {
	if probeTimeout <= 0 {
		probeTimeout = 5 * time.Second
	}
	resolver := &Resolver{
		client:  &http.Client{Timeout: probeTimeout},
		baseURL: defaultBaseURL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(resolver)
	}
	return resolver
}

// Candidates returns the ordered probe URLs for a video id, highest quality
// first.
func (r *Resolver) Candidates(videoID string) []string {
	urls := make([]string, 0, len(qualities))
	for _, quality := range qualities {
		urls = append(urls, fmt.Sprintf("%s/%s/%s", r.baseURL, videoID, quality))
	}
	return urls
}

// Resolve returns the best available thumbnail URL for the video id. Each
// candidate gets a lightweight existence check; the first success wins. When
// every probe fails the lowest-quality candidate is returned unconditionally
// so the field is never left empty.
func (r *Resolver) Resolve(ctx context.Context, videoID string) string {
	candidates := r.Candidates(videoID)
	for _, candidate := range candidates {
		if r.exists(ctx, candidate) {
			return candidate
		}
	}
	r.logger.Debug("all thumbnail probes failed, using lowest quality",
		logging.String("video_id", videoID))
	return candidates[len(candidates)-1]
}

func (r *Resolver) exists(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
