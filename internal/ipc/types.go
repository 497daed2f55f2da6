package ipc

// Item mirrors a saved item for IPC and HTTP callers.
type Item struct {
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

// Filter narrows item listings and exports. Date bounds are calendar days in
// the daemon's local time, formatted YYYY-MM-DD, inclusive on both ends.
type Filter struct {
	Category string `json:"category,omitempty"`
	Search   string `json:"search,omitempty"`
	Domain   string `json:"domain,omitempty"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
}

// ItemsListRequest fetches items matching a filter, newest first.
type ItemsListRequest struct {
	Filter Filter `json:"filter"`
	// Limit caps the returned slice; zero means no cap. Total always
	// reflects the full match count.
	Limit int `json:"limit"`
}

// ItemsListResponse contains matching items and the unclipped total.
type ItemsListResponse struct {
	Items []Item `json:"items"`
	Total int    `json:"total"`
}

// ItemsDeleteRequest removes one item by id.
type ItemsDeleteRequest struct {
	ID int64 `json:"id"`
}

// ItemsDeleteResponse reports whether the item existed.
type ItemsDeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// ItemsClearRequest removes every saved item. Settings survive.
type ItemsClearRequest struct{}

// ItemsClearResponse reports the number of removed items.
type ItemsClearResponse struct {
	Removed int64 `json:"removed"`
}

// ThemeSaveRequest stores the UI theme. The stored language is preserved.
type ThemeSaveRequest struct {
	Appearance string `json:"appearance"`
}

// ThemeSaveResponse acknowledges the save.
type ThemeSaveResponse struct {
	Appearance string `json:"appearance"`
}

// ThemeGetRequest fetches the UI theme.
type ThemeGetRequest struct{}

// ThemeGetResponse carries the theme. Lookup failures degrade to light, so
// this call never errors.
type ThemeGetResponse struct {
	Appearance string `json:"appearance"`
}

// SettingsGetRequest fetches the full settings record.
type SettingsGetRequest struct{}

// SettingsGetResponse carries the persisted settings.
type SettingsGetResponse struct {
	Lang       string `json:"lang"`
	Appearance string `json:"appearance"`
}

// SettingsSaveRequest applies a partial settings update. Nil fields keep
// their stored value.
type SettingsSaveRequest struct {
	Lang       *string `json:"lang,omitempty"`
	Appearance *string `json:"appearance,omitempty"`
}

// SettingsSaveResponse carries the merged settings after the update.
type SettingsSaveResponse struct {
	Lang       string `json:"lang"`
	Appearance string `json:"appearance"`
}

// DomainsRequest fetches the distinct source hostnames across saved items.
type DomainsRequest struct{}

// DomainsResponse lists hostnames, www-stripped and sorted.
type DomainsResponse struct {
	Domains []string `json:"domains"`
}

// ExportCSVRequest renders matching items as CSV.
type ExportCSVRequest struct {
	Filter Filter `json:"filter"`
}

// ExportCSVResponse carries the CSV document.
type ExportCSVResponse struct {
	CSV       string `json:"csv"`
	ItemCount int    `json:"item_count"`
}

// StatsRequest fetches aggregate item counts.
type StatsRequest struct{}

// StatsResponse reports per-kind and document counts.
type StatsResponse struct {
	Total     int `json:"total"`
	Text      int `json:"text"`
	Image     int `json:"image"`
	Video     int `json:"video"`
	Documents int `json:"documents"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents daemon runtime information.
type StatusResponse struct {
	Running    bool   `json:"running"`
	PID        int    `json:"pid"`
	StartedAt  string `json:"started_at"`
	DBPath     string `json:"db_path"`
	LockPath   string `json:"lock_path"`
	SocketPath string `json:"socket_path"`
	APIBind    string `json:"api_bind"`
	ItemCount  int    `json:"item_count"`
	StoreOpen  bool   `json:"store_open"`
}

// StopRequest asks the daemon process to shut down.
type StopRequest struct{}

// StopResponse acknowledges the shutdown request.
type StopResponse struct {
	Stopping bool `json:"stopping"`
}

// DatabaseHealthRequest fetches database diagnostics.
type DatabaseHealthRequest struct{}

// DatabaseHealthResponse reports database health information.
type DatabaseHealthResponse struct {
	DBPath           string `json:"db_path"`
	DatabaseExists   bool   `json:"database_exists"`
	DatabaseReadable bool   `json:"database_readable"`
	SchemaVersion    string `json:"schema_version"`
	IntegrityCheck   bool   `json:"integrity_check"`
	TotalItems       int    `json:"total_items"`
	Error            string `json:"error"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports the notification test outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}
