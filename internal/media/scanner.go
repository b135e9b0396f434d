package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"crosscheck/internal/logging"
	"crosscheck/internal/storage"
	"crosscheck/internal/timestamp"
)

// ScanResult is the media snapshot one reconciliation run operates on.
type ScanResult struct {
	Records []Record
	Index   *Index
	Skipped int
}

// Scanner lists the unprocessed folder and derives creation timestamps,
// preferring description metadata over the upload name.
type Scanner struct {
	backend  storage.Backend
	folderID string
	layouts  []string
	logger   *slog.Logger
}

// NewScanner constructs a media scanner over the given unprocessed folder.
// The layouts are tried in order against each item's description metadata.
func NewScanner(backend storage.Backend, folderID string, layouts []string, logger *slog.Logger) *Scanner {
	return &Scanner{
		backend:  backend,
		folderID: folderID,
		layouts:  layouts,
		logger:   logging.NewComponentLogger(logger, "media-scan"),
	}
}

// Scan builds the run's media records and reconciliation index. Files whose
// description and name both carry no parseable timestamp are reported and
// excluded from the index; they never abort the scan.
func (s *Scanner) Scan(ctx context.Context) (*ScanResult, error) {
	items, err := s.backend.ListChildren(ctx, s.folderID)
	if err != nil {
		return nil, fmt.Errorf("list unprocessed folder: %w", err)
	}

	result := &ScanResult{Index: NewIndex()}
	for _, item := range items {
		if item.IsFolder() {
			continue
		}
		record := Record{ID: item.ID, Name: item.Name, MimeType: item.MimeType}

		takenAt, parseErr := s.timestampFor(item)
		if parseErr != nil {
			var pe *timestamp.ParseError
			if !errors.As(parseErr, &pe) {
				return nil, parseErr
			}
			result.Skipped++
			result.Records = append(result.Records, record)
			s.logger.Warn("file skipped, no parseable timestamp",
				logging.String(logging.FieldFileID, item.ID),
				logging.String("name", item.Name),
			)
			continue
		}

		record.TakenAt = &takenAt
		result.Records = append(result.Records, record)
		result.Index.Add(item.ID, takenAt)
		s.logger.Debug("file indexed",
			logging.String(logging.FieldFileID, item.ID),
			logging.String("mime_type", item.MimeType),
			logging.String("taken_at", timestamp.Canonical(takenAt)),
		)
	}

	s.logger.Info("media scan complete",
		logging.Int("total", len(result.Records)),
		logging.Int("indexed", result.Index.Len()),
		logging.Int("skipped", result.Skipped),
	)
	return result, nil
}

// timestampFor resolves an item's creation timestamp. Description metadata
// wins when it parses against the configured layouts; otherwise the upload
// name's stem decides.
func (s *Scanner) timestampFor(item storage.Item) (time.Time, error) {
	if strings.TrimSpace(item.Description) != "" {
		if ts, err := timestamp.Parse(item.Description, s.layouts); err == nil {
			return ts, nil
		}
	}
	return timestamp.FromFilename(item.Name)
}
