package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeStorage(); err != nil {
		return err
	}
	if err := c.normalizeSessions(); err != nil {
		return err
	}
	c.normalizeMatching()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStorage() error {
	if c.Storage.APIKey == "" {
		if value, ok := os.LookupEnv("CROSSCHECK_STORAGE_API_KEY"); ok {
			c.Storage.APIKey = strings.TrimSpace(value)
		}
	}
	c.Storage.BaseURL = strings.TrimRight(strings.TrimSpace(c.Storage.BaseURL), "/")
	c.Storage.APIKey = strings.TrimSpace(c.Storage.APIKey)
	c.Storage.ParentRootID = strings.TrimSpace(c.Storage.ParentRootID)
	c.Storage.UnprocessedFolderID = strings.TrimSpace(c.Storage.UnprocessedFolderID)
	c.Storage.LinkBaseURL = strings.TrimRight(strings.TrimSpace(c.Storage.LinkBaseURL), "/")
	if c.Storage.LinkBaseURL == "" {
		c.Storage.LinkBaseURL = defaultLinkBaseURL
	}
	if c.Storage.RequestTimeout <= 0 {
		c.Storage.RequestTimeout = defaultStorageTimeout
	}
	return nil
}

func (c *Config) normalizeSessions() error {
	var err error
	if strings.TrimSpace(c.Sessions.ExportPath) == "" {
		c.Sessions.ExportPath = defaultSessionExportPath
	}
	if c.Sessions.ExportPath, err = expandPath(c.Sessions.ExportPath); err != nil {
		return fmt.Errorf("sessions.export_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeMatching() {
	if c.Matching.LeewayMinutes <= 0 {
		c.Matching.LeewayMinutes = defaultLeewayMinutes
	}
	layouts := make([]string, 0, len(c.Matching.TimestampLayouts))
	seen := make(map[string]struct{}, len(c.Matching.TimestampLayouts))
	for _, layout := range c.Matching.TimestampLayouts {
		trimmed := strings.TrimSpace(layout)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		layouts = append(layouts, trimmed)
	}
	if len(layouts) == 0 {
		layouts = append([]string(nil), defaultTimestampLayouts...)
	}
	c.Matching.TimestampLayouts = layouts
}

func (c *Config) normalizeNotifications() {
	c.Notifications.WebhookURL = strings.TrimSpace(c.Notifications.WebhookURL)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
