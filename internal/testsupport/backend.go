package testsupport

import (
	"context"
	"fmt"
	"sync"

	"crosscheck/internal/storage"
)

// MemoryBackend is an in-memory storage.Backend for tests. Failure hooks let
// tests inject transport errors per operation.
type MemoryBackend struct {
	mu      sync.Mutex
	items   map[string]*storage.Item
	public  map[string]bool
	created int

	ListErr   func(parentID string) error
	CreateErr func(name, parentID string) error
	PermErr   func(folderID string) error
	MoveErr   func(itemID, newParentID string) error
	RenameErr func(folderID, newName string) error
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		items:  make(map[string]*storage.Item),
		public: make(map[string]bool),
	}
}

// AddFolder seeds a folder with a fixed id.
func (b *MemoryBackend) AddFolder(id, name, parentID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items[id] = &storage.Item{
		ID:       id,
		Name:     name,
		MimeType: storage.FolderMimeType,
		Parents:  parents(parentID),
	}
}

// AddFile seeds a file with a fixed id.
func (b *MemoryBackend) AddFile(id, name, mimeType, parentID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items[id] = &storage.Item{
		ID:       id,
		Name:     name,
		MimeType: mimeType,
		Parents:  parents(parentID),
	}
}

// AddFileWithDescription seeds a file carrying description metadata.
func (b *MemoryBackend) AddFileWithDescription(id, name, mimeType, parentID, description string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items[id] = &storage.Item{
		ID:          id,
		Name:        name,
		MimeType:    mimeType,
		Description: description,
		Parents:     parents(parentID),
	}
}

func parents(parentID string) []string {
	if parentID == "" {
		return nil
	}
	return []string{parentID}
}

func (b *MemoryBackend) ListChildren(ctx context.Context, parentID string) ([]storage.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ListErr != nil {
		if err := b.ListErr(parentID); err != nil {
			return nil, storage.Wrap(nil, "list children", parentID, err)
		}
	}
	var children []storage.Item
	for _, item := range b.items {
		for _, parent := range item.Parents {
			if parent == parentID {
				children = append(children, *item)
				break
			}
		}
	}
	return children, nil
}

func (b *MemoryBackend) CreateFolder(ctx context.Context, name, parentID string) (storage.Item, error) {
	if err := ctx.Err(); err != nil {
		return storage.Item{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.CreateErr != nil {
		if err := b.CreateErr(name, parentID); err != nil {
			return storage.Item{}, storage.Wrap(nil, "create folder", name, err)
		}
	}
	b.created++
	item := &storage.Item{
		ID:       fmt.Sprintf("folder-%d", b.created),
		Name:     name,
		MimeType: storage.FolderMimeType,
		Parents:  parents(parentID),
	}
	b.items[item.ID] = item
	return *item, nil
}

func (b *MemoryBackend) SetPublicRead(ctx context.Context, folderID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.PermErr != nil {
		if err := b.PermErr(folderID); err != nil {
			return storage.Wrap(nil, "set public read", folderID, err)
		}
	}
	if _, ok := b.items[folderID]; !ok {
		return storage.Wrap(storage.ErrNotFound, "set public read", folderID, nil)
	}
	b.public[folderID] = true
	return nil
}

func (b *MemoryBackend) Move(ctx context.Context, itemID, newParentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.MoveErr != nil {
		if err := b.MoveErr(itemID, newParentID); err != nil {
			return storage.Wrap(nil, "move", itemID, err)
		}
	}
	item, ok := b.items[itemID]
	if !ok {
		return storage.Wrap(storage.ErrNotFound, "move", itemID, nil)
	}
	item.Parents = parents(newParentID)
	return nil
}

func (b *MemoryBackend) Rename(ctx context.Context, folderID, newName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.RenameErr != nil {
		if err := b.RenameErr(folderID, newName); err != nil {
			return storage.Wrap(nil, "rename", folderID, err)
		}
	}
	item, ok := b.items[folderID]
	if !ok {
		return storage.Wrap(storage.ErrNotFound, "rename", folderID, nil)
	}
	item.Name = newName
	return nil
}

// ParentOf returns the current parent of an item, or "" when unknown.
func (b *MemoryBackend) ParentOf(itemID string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	item, ok := b.items[itemID]
	if !ok || len(item.Parents) == 0 {
		return ""
	}
	return item.Parents[0]
}

// NameOf returns the current display name of an item.
func (b *MemoryBackend) NameOf(itemID string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	item, ok := b.items[itemID]
	if !ok {
		return ""
	}
	return item.Name
}

// IsPublic reports whether a folder has public read access.
func (b *MemoryBackend) IsPublic(folderID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.public[folderID]
}
