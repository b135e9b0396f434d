package media

import (
	"time"
)

// Record is one media file discovered in the unprocessed folder. TakenAt is
// nil when the creation timestamp could not be derived; such records are
// excluded from matching.
type Record struct {
	ID       string
	Name     string
	MimeType string
	TakenAt  *time.Time
}

// Index maps media-file ids to canonical creation timestamps. It is built
// once per reconciliation run and is the only source the interval matcher
// queries. Entries are write-once per file id.
type Index struct {
	order   []string
	takenAt map[string]time.Time
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{takenAt: make(map[string]time.Time)}
}

// Add records a file's creation timestamp. The first write wins; a repeated
// id is rejected so one run can never see two timestamps for the same file.
func (x *Index) Add(fileID string, takenAt time.Time) bool {
	if _, exists := x.takenAt[fileID]; exists {
		return false
	}
	x.takenAt[fileID] = takenAt
	x.order = append(x.order, fileID)
	return true
}

// TakenAt returns the creation timestamp recorded for a file.
func (x *Index) TakenAt(fileID string) (time.Time, bool) {
	ts, ok := x.takenAt[fileID]
	return ts, ok
}

// IDs returns the indexed file ids in insertion order.
func (x *Index) IDs() []string {
	cp := make([]string, len(x.order))
	copy(cp, x.order)
	return cp
}

// Len returns the number of indexed files.
func (x *Index) Len() int {
	return len(x.order)
}
