package testsupport

import (
	"path/filepath"
	"testing"

	"crosscheck/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Storage.BaseURL = "https://storage.test"
	cfg.Storage.APIKey = "test"
	cfg.Storage.ParentRootID = "parent-root"
	cfg.Storage.UnprocessedFolderID = "inbox"
	cfg.Sessions.ExportPath = filepath.Join(base, "games.json")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithLeewayMinutes overrides the matching tolerance on the test config.
func WithLeewayMinutes(minutes int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Matching.LeewayMinutes = minutes
	}
}

// WithWebhook points notifications at the given URL.
func WithWebhook(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.WebhookURL = url
	}
}
