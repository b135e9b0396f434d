package config

const (
	defaultStateDir             = "~/.local/share/crosscheck"
	defaultLogDir               = "~/.local/share/crosscheck/logs"
	defaultLinkBaseURL          = "https://drive.google.com/drive/folders"
	defaultStorageTimeout       = 30
	defaultSessionExportPath    = "~/.local/share/crosscheck/games.json"
	defaultLeewayMinutes        = 2
	defaultNotifyRequestTimeout = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// defaultTimestampLayouts lists accepted raw timestamp layouts in priority order.
var defaultTimestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006:01:02 15:04:05",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Storage: Storage{
			LinkBaseURL:    defaultLinkBaseURL,
			RequestTimeout: defaultStorageTimeout,
		},
		Sessions: Sessions{
			ExportPath: defaultSessionExportPath,
		},
		Matching: Matching{
			LeewayMinutes:    defaultLeewayMinutes,
			TimestampLayouts: append([]string(nil), defaultTimestampLayouts...),
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			RunSummary:     true,
			FolderReady:    true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
