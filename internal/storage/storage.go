package storage

import "context"

// FolderMimeType marks an item as a folder.
const FolderMimeType = "application/vnd.google-apps.folder"

// Item is one storage object, file or folder. Description carries the
// free-text metadata some uploaders stamp with a capture timestamp.
type Item struct {
	ID          string
	Name        string
	MimeType    string
	Description string
	Parents     []string
}

// IsFolder reports whether the item is a folder.
func (i Item) IsFolder() bool {
	return i.MimeType == FolderMimeType
}

// Backend exposes the storage operations the reconciler needs. All calls are
// synchronous blocking network calls and may fail with a transport error.
type Backend interface {
	// ListChildren returns every item whose parent is parentID.
	ListChildren(ctx context.Context, parentID string) ([]Item, error)
	// CreateFolder creates a folder under parentID and returns it.
	CreateFolder(ctx context.Context, name, parentID string) (Item, error)
	// SetPublicRead grants anyone-with-the-link read access to a folder.
	SetPublicRead(ctx context.Context, folderID string) error
	// Move relocates an item under newParentID, replacing its prior parents.
	Move(ctx context.Context, itemID, newParentID string) error
	// Rename changes a folder's display name.
	Rename(ctx context.Context, folderID, newName string) error
}
