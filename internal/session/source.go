package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"crosscheck/internal/timestamp"
)

// Source yields the game session snapshot a reconciliation run operates on.
type Source interface {
	Games(ctx context.Context) ([]*Game, error)
}

// exportRecord mirrors one entry of the portal export file.
type exportRecord struct {
	ID        string   `json:"id"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	Players   []Player `json:"players"`
}

// FileSource reads game sessions from a JSON export produced by the portal
// scraper. Timestamps in the export are expected in canonical form.
type FileSource struct {
	Path string
}

// NewFileSource constructs a session source backed by a JSON export file.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Games(ctx context.Context) ([]*Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read session export: %w", err)
	}

	var records []exportRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse session export: %w", err)
	}

	games := make([]*Game, 0, len(records))
	for i, record := range records {
		id := strings.TrimSpace(record.ID)
		if id == "" {
			return nil, fmt.Errorf("session export entry %d: missing id", i)
		}
		start, err := timestamp.ParseCanonical(record.StartTime)
		if err != nil {
			return nil, fmt.Errorf("session %s: start_time: %w", id, err)
		}
		end, err := timestamp.ParseCanonical(record.EndTime)
		if err != nil {
			return nil, fmt.Errorf("session %s: end_time: %w", id, err)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("session %s: end_time precedes start_time", id)
		}
		games = append(games, &Game{
			ID:        id,
			StartTime: start,
			EndTime:   end,
			Players:   record.Players,
		})
	}
	return games, nil
}
