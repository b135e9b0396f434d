package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"crosscheck/internal/logging"
	"crosscheck/internal/session"
	"crosscheck/internal/storage"
)

// ErrNoParent marks a game whose start period matches no candidate parent
// folder. The game is left without a folder and its matches are discarded for
// the run.
var ErrNoParent = errors.New("no matching parent folder")

// Provisioner lazily creates per-game media folders under the period parent
// selected by the game's start month.
type Provisioner struct {
	backend      storage.Backend
	parentRootID string
	linkBaseURL  string
	logger       *slog.Logger

	parents map[string]string
	order   []string
}

// NewProvisioner constructs a folder provisioner. LoadParents must run before
// the first EnsureFolder call.
func NewProvisioner(backend storage.Backend, parentRootID, linkBaseURL string, logger *slog.Logger) *Provisioner {
	return &Provisioner{
		backend:      backend,
		parentRootID: parentRootID,
		linkBaseURL:  strings.TrimRight(linkBaseURL, "/"),
		logger:       logging.NewComponentLogger(logger, "provisioner"),
	}
}

// LoadParents builds the prefix lookup table from the candidate parent
// folders, once per run. For each folder the leading digit run of its name is
// the key (8_aug_2024 and 08_aug_2024 both answer to month 8); the first
// folder seen wins a contested prefix.
func (p *Provisioner) LoadParents(ctx context.Context) error {
	children, err := p.backend.ListChildren(ctx, p.parentRootID)
	if err != nil {
		return fmt.Errorf("list parent candidates: %w", err)
	}

	p.parents = make(map[string]string)
	p.order = nil
	sort.SliceStable(children, func(i, j int) bool { return children[i].Name < children[j].Name })
	for _, child := range children {
		if !child.IsFolder() {
			continue
		}
		prefix := leadingDigits(child.Name)
		if prefix == "" {
			continue
		}
		if _, taken := p.parents[prefix]; taken {
			continue
		}
		p.parents[prefix] = child.ID
		p.order = append(p.order, prefix)
	}

	p.logger.Debug("parent lookup table built", logging.Int("candidates", len(p.parents)))
	return nil
}

// EnsureFolder creates and permissions the game's media folder if it does not
// exist yet, recording the folder id and public link on the game. Any failure
// leaves the game folderless so its matches fail closed.
func (p *Provisioner) EnsureFolder(ctx context.Context, game *session.Game) error {
	if game.FolderID != "" {
		return nil
	}

	parentID, err := p.lookupParent(game.StartTime)
	if err != nil {
		return err
	}

	name := FolderName(game.ID)
	folder, err := p.backend.CreateFolder(ctx, name, parentID)
	if err != nil {
		return fmt.Errorf("create folder %s: %w", name, err)
	}
	if err := p.backend.SetPublicRead(ctx, folder.ID); err != nil {
		return fmt.Errorf("share folder %s: %w", folder.ID, err)
	}

	game.FolderID = folder.ID
	game.FolderLink = p.linkBaseURL + "/" + folder.ID
	p.logger.Info("media folder created",
		logging.String(logging.FieldGameID, game.ID),
		logging.String("folder_id", folder.ID),
		logging.String("parent_id", parentID),
	)
	return nil
}

// Move relocates a media item into a folder. Callers treat failures as
// non-fatal: the file stays where it was.
func (p *Provisioner) Move(ctx context.Context, fileID, folderID string) error {
	return p.backend.Move(ctx, fileID, folderID)
}

func (p *Provisioner) lookupParent(start time.Time) (string, error) {
	padded := fmt.Sprintf("%02d", int(start.Month()))
	for _, prefix := range []string{padded, strings.TrimLeft(padded, "0")} {
		if id, ok := p.parents[prefix]; ok {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w for month %s", ErrNoParent, padded)
}

// FolderName returns the canonical media folder name for a game.
func FolderName(gameID string) string {
	return fmt.Sprintf("game_%s_media", gameID)
}

// AbsorbedFolderName returns the audit name a folder receives once its game
// has been absorbed.
func AbsorbedFolderName(gameID string) string {
	return fmt.Sprintf("ABSORBED_game%s_media", gameID)
}

func leadingDigits(name string) string {
	for i, r := range name {
		if r < '0' || r > '9' {
			return name[:i]
		}
	}
	return name
}
