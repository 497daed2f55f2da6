package config

const (
	defaultDataDir               = "~/.local/share/cappuccino"
	defaultLogDir                = "~/.local/share/cappuccino/logs"
	defaultAPIBind               = "127.0.0.1:7519"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultNtfyRequestTimeout    = 10
	defaultThumbnailProbeTimeout = 5
	defaultRecentLimit           = 5
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyRequestTimeout,
			Captures:       true,
			Errors:         true,
		},
		Thumbnails: Thumbnails{
			ProbeTimeout: defaultThumbnailProbeTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		UI: UI{
			RecentLimit: defaultRecentLimit,
		},
	}
}
