package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"strings"
	"sync"
	"time"

	"log/slog"

	"cappuccino/internal/clip"
	"cappuccino/internal/daemon"
	"cappuccino/internal/logging"
	"cappuccino/internal/query"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path. shutdown is
// invoked when a Stop request arrives; it should wind down the whole daemon
// process.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, shutdown func(), logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, shutdown: shutdown, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Cappuccino", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"),
					logging.String("impact", "IPC clients may fail to connect"),
					logging.String(logging.FieldErrorHint, "Check socket permissions and restart the daemon if needed"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "ipc_socket_cleanup_failed"),
			logging.String("impact", "stale IPC socket may block future starts"),
			logging.String(logging.FieldErrorHint, "Remove the socket file manually or rerun capp stop"))
	}
}

type service struct {
	daemon   *daemon.Daemon
	shutdown func()
	logger   *slog.Logger
	ctx      context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

func convertItem(item clip.Item) Item {
	return Item{
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

func criteriaFromFilter(filter Filter) (query.Criteria, error) {
	criteria := query.Criteria{
		Search: filter.Search,
		Domain: filter.Domain,
	}
	if raw := strings.TrimSpace(filter.Category); raw != "" {
		category, ok := query.ParseCategory(raw)
		if !ok {
			return criteria, fmt.Errorf("unknown category %q", raw)
		}
		criteria.Category = category
	}
	if raw := strings.TrimSpace(filter.From); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return criteria, fmt.Errorf("invalid from date %q, want YYYY-MM-DD", raw)
		}
		criteria.From = &parsed
	}
	if raw := strings.TrimSpace(filter.To); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return criteria, fmt.Errorf("invalid to date %q, want YYYY-MM-DD", raw)
		}
		criteria.To = &parsed
	}
	return criteria, nil
}

func (s *service) ItemsList(req ItemsListRequest, resp *ItemsListResponse) error {
	criteria, err := criteriaFromFilter(req.Filter)
	if err != nil {
		return err
	}
	items, err := s.daemon.ListItems(s.ctx, criteria)
	if err != nil {
		return err
	}
	resp.Total = len(items)
	if req.Limit > 0 && req.Limit < len(items) {
		items = items[:req.Limit]
	}
	resp.Items = make([]Item, 0, len(items))
	for _, item := range items {
		resp.Items = append(resp.Items, convertItem(item))
	}
	return nil
}

func (s *service) Domains(_ DomainsRequest, resp *DomainsResponse) error {
	domains, err := s.daemon.Domains(s.ctx)
	if err != nil {
		return err
	}
	resp.Domains = domains
	return nil
}

func (s *service) ItemsDelete(req ItemsDeleteRequest, resp *ItemsDeleteResponse) error {
	if req.ID <= 0 {
		return fmt.Errorf("invalid item id %d", req.ID)
	}
	deleted, err := s.daemon.DeleteItem(s.ctx, req.ID)
	if err != nil {
		return err
	}
	resp.Deleted = deleted
	return nil
}

func (s *service) ItemsClear(_ ItemsClearRequest, resp *ItemsClearResponse) error {
	s.log().Debug("items clear requested")
	removed, err := s.daemon.ClearItems(s.ctx)
	if err != nil {
		return err
	}
	resp.Removed = removed
	return nil
}

func (s *service) ThemeSave(req ThemeSaveRequest, resp *ThemeSaveResponse) error {
	appearance, ok := clip.ParseAppearance(req.Appearance)
	if !ok {
		return fmt.Errorf("unknown appearance %q", req.Appearance)
	}
	if err := s.daemon.SaveAppearance(s.ctx, appearance); err != nil {
		return err
	}
	resp.Appearance = string(appearance)
	s.log().Info("theme saved",
		logging.String(logging.FieldEventType, "theme_save"),
		logging.String("appearance", string(appearance)))
	return nil
}

func (s *service) ThemeGet(_ ThemeGetRequest, resp *ThemeGetResponse) error {
	resp.Appearance = string(s.daemon.Appearance(s.ctx))
	return nil
}

func (s *service) SettingsGet(_ SettingsGetRequest, resp *SettingsGetResponse) error {
	settings, err := s.daemon.GetSettings(s.ctx)
	if err != nil {
		return err
	}
	resp.Lang = settings.Lang
	resp.Appearance = string(settings.Appearance)
	return nil
}

func (s *service) SettingsSave(req SettingsSaveRequest, resp *SettingsSaveResponse) error {
	patch := clip.SettingsPatch{Lang: req.Lang}
	if req.Appearance != nil {
		appearance, ok := clip.ParseAppearance(*req.Appearance)
		if !ok {
			return fmt.Errorf("unknown appearance %q", *req.Appearance)
		}
		patch.Appearance = &appearance
	}
	settings, err := s.daemon.SaveSettings(s.ctx, patch)
	if err != nil {
		return err
	}
	resp.Lang = settings.Lang
	resp.Appearance = string(settings.Appearance)
	return nil
}

func (s *service) ExportCSV(req ExportCSVRequest, resp *ExportCSVResponse) error {
	criteria, err := criteriaFromFilter(req.Filter)
	if err != nil {
		return err
	}
	items, err := s.daemon.ListItems(s.ctx, criteria)
	if err != nil {
		return err
	}
	doc, err := s.daemon.ExportCSV(s.ctx, criteria)
	if err != nil {
		return err
	}
	resp.CSV = doc
	resp.ItemCount = len(items)
	s.log().Info("items exported",
		logging.String(logging.FieldEventType, "export_csv"),
		logging.Int("item_count", len(items)))
	return nil
}

func (s *service) Stats(_ StatsRequest, resp *StatsResponse) error {
	stats, err := s.daemon.Stats(s.ctx)
	if err != nil {
		return err
	}
	resp.Total = stats.Total
	resp.Text = stats.Text
	resp.Image = stats.Image
	resp.Video = stats.Video
	resp.Documents = stats.Documents
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.PID = status.PID
	if !status.StartedAt.IsZero() {
		resp.StartedAt = status.StartedAt.Format(time.RFC3339)
	}
	resp.DBPath = status.DBPath
	resp.LockPath = status.LockFilePath
	resp.SocketPath = status.SocketPath
	resp.APIBind = status.APIBind
	resp.ItemCount = status.ItemCount
	resp.StoreOpen = status.StoreOpen
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Info("daemon stop requested",
		logging.String(logging.FieldEventType, "daemon_stop"))
	resp.Stopping = true
	if s.shutdown != nil {
		// Deferred so the RPC response reaches the client first.
		go s.shutdown()
	}
	return nil
}

func (s *service) DatabaseHealth(_ DatabaseHealthRequest, resp *DatabaseHealthResponse) error {
	health, err := s.daemon.DatabaseHealth(s.ctx)
	if err != nil && health.Error == "" {
		return err
	}
	resp.DBPath = health.DBPath
	resp.DatabaseExists = health.DatabaseExists
	resp.DatabaseReadable = health.DatabaseReadable
	resp.SchemaVersion = health.SchemaVersion
	resp.IntegrityCheck = health.IntegrityCheck
	resp.TotalItems = health.TotalItems
	resp.Error = health.Error
	return nil
}

func (s *service) TestNotification(_ TestNotificationRequest, resp *TestNotificationResponse) error {
	sent, message, err := s.daemon.TestNotification(s.ctx)
	resp.Sent = sent
	resp.Message = message
	return err
}
