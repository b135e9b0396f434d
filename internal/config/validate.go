package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateSessions(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.BaseURL == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/crosscheck/config.toml"
		}
		return fmt.Errorf("storage.base_url is required. Edit %s (create with 'crosscheck config init')", defaultPath)
	}
	if c.Storage.APIKey == "" {
		return errors.New("storage.api_key is required. Set CROSSCHECK_STORAGE_API_KEY env var or edit the config file")
	}
	if c.Storage.ParentRootID == "" {
		return errors.New("storage.parent_root_id must be set")
	}
	if c.Storage.UnprocessedFolderID == "" {
		return errors.New("storage.unprocessed_folder_id must be set")
	}
	if c.Storage.RequestTimeout <= 0 {
		return errors.New("storage.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateSessions() error {
	if strings.TrimSpace(c.Sessions.ExportPath) == "" {
		return errors.New("sessions.export_path must be set")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.LeewayMinutes <= 0 {
		return errors.New("matching.leeway_minutes must be positive")
	}
	if len(c.Matching.TimestampLayouts) == 0 {
		return errors.New("matching.timestamp_layouts must include at least one layout")
	}
	reference := time.Date(2024, 8, 11, 19, 53, 0, 0, time.UTC)
	for _, layout := range c.Matching.TimestampLayouts {
		rendered := reference.Format(layout)
		if _, err := time.Parse(layout, rendered); err != nil {
			return fmt.Errorf("matching.timestamp_layouts: layout %q is not parseable: %w", layout, err)
		}
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive (seconds)")
	}
	return nil
}
