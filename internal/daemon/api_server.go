package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"cappuccino/internal/capture"
	"cappuccino/internal/clip"
	"cappuccino/internal/config"
	"cappuccino/internal/logging"
	"cappuccino/internal/query"
)

// APIServer exposes capture and read endpoints over local HTTP. Capture
// triggers (browser toolbar scripts, shell one-liners) POST here; everything
// else is read-only.
type APIServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

// NewAPIServer configures the HTTP API. A blank bind address disables the
// server and returns nil.
func NewAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*APIServer, error) {
	if cfg == nil || d == nil {
		return nil, errors.New("api server requires config and daemon")
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, nil
	}

	mux := http.NewServeMux()
	srv := &APIServer{
		bind:   bind,
		logger: logger,
		daemon: d,
	}

	mux.HandleFunc("/api/capture", srv.handleCapture)
	mux.HandleFunc("/api/items", srv.handleItems)
	mux.HandleFunc("/api/export", srv.handleExport)
	mux.HandleFunc("/api/status", srv.handleStatus)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// Start begins serving until the context is canceled.
func (s *APIServer) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the bound listener address, or "" before Start.
func (s *APIServer) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down.
func (s *APIServer) Stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

type captureRequest struct {
	Kind      string `json:"kind"`
	Payload   string `json:"payload"`
	PageURL   string `json:"page_url"`
	PageTitle string `json:"page_title"`
}

type captureResponse struct {
	Text    string   `json:"text"`
	IsError bool     `json:"isError"`
	Item    *apiItem `json:"item,omitempty"`
}

type apiItem struct {
	ID        int64  `json:"id"`
	Kind      string `json:"kind"`
	Content   string `json:"content"`
	ImageURL  string `json:"image_url,omitempty"`
	VideoURL  string `json:"video_url,omitempty"`
	VideoID   string `json:"video_id,omitempty"`
	URL       string `json:"url"`
	PageTitle string `json:"page_title"`
	Timestamp string `json:"timestamp"`
}

func fromItem(item clip.Item) apiItem {
	return apiItem{
		ID:        item.ID,
		Kind:      string(item.Kind),
		Content:   item.Content(),
		ImageURL:  item.ImageURL,
		VideoURL:  item.VideoURL,
		VideoID:   item.VideoID,
		URL:       item.URL,
		PageTitle: item.PageTitle,
		Timestamp: item.Timestamp.Format(time.RFC3339Nano),
	}
}

func (s *APIServer) handleCapture(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req captureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	kind, ok := capture.ParseEventKind(req.Kind)
	if !ok {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown capture kind %q", req.Kind))
		return
	}

	item, note := s.daemon.Capture(r.Context(), capture.Event{
		Kind:      kind,
		Payload:   req.Payload,
		PageURL:   req.PageURL,
		PageTitle: req.PageTitle,
	})
	resp := captureResponse{Text: note.Text, IsError: note.IsError}
	if item != nil {
		converted := fromItem(*item)
		resp.Item = &converted
	}
	// A failed capture is still a well-formed answer; the transient payload
	// carries the outcome either way.
	s.writeJSON(w, http.StatusOK, resp)
}

type itemsResponse struct {
	Items []apiItem `json:"items"`
	Total int       `json:"total"`
}

func (s *APIServer) handleItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := s.daemon.ListItems(r.Context(), criteria)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	total := len(items)
	if limitStr := strings.TrimSpace(r.URL.Query().Get("limit")); limitStr != "" {
		limit, convErr := strconv.Atoi(limitStr)
		if convErr != nil || limit < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		if limit < len(items) {
			items = items[:limit]
		}
	}

	converted := make([]apiItem, 0, len(items))
	for _, item := range items {
		converted = append(converted, fromItem(item))
	}
	s.writeJSON(w, http.StatusOK, itemsResponse{Items: converted, Total: total})
}

func (s *APIServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	doc, err := s.daemon.ExportCSV(r.Context(), criteria)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="cappuccino-export.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

type statusResponse struct {
	Running   bool   `json:"running"`
	PID       int    `json:"pid"`
	DBPath    string `json:"db_path"`
	ItemCount int    `json:"item_count"`
	StoreOpen bool   `json:"store_open"`
}

func (s *APIServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := s.daemon.Status(r.Context())
	s.writeJSON(w, http.StatusOK, statusResponse{
		Running:   status.Running,
		PID:       status.PID,
		DBPath:    status.DBPath,
		ItemCount: status.ItemCount,
		StoreOpen: status.StoreOpen,
	})
}

// criteriaFromQuery maps filter query parameters onto query criteria. Dates
// are calendar days in local time.
func criteriaFromQuery(r *http.Request) (query.Criteria, error) {
	values := r.URL.Query()
	criteria := query.Criteria{
		Search: values.Get("search"),
		Domain: values.Get("domain"),
	}

	if raw := strings.TrimSpace(values.Get("category")); raw != "" {
		category, ok := query.ParseCategory(raw)
		if !ok {
			return criteria, fmt.Errorf("unknown category %q", raw)
		}
		criteria.Category = category
	}

	for _, bound := range []struct {
		name   string
		target **time.Time
	}{
		{"from", &criteria.From},
		{"to", &criteria.To},
	} {
		raw := strings.TrimSpace(values.Get(bound.name))
		if raw == "" {
			continue
		}
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return criteria, fmt.Errorf("invalid %s date %q, want YYYY-MM-DD", bound.name, raw)
		}
		*bound.target = &parsed
	}
	return criteria, nil
}

func (s *APIServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *APIServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *APIServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String(logging.FieldComponent, "api-server"))
	}
	return logging.NewNop()
}
