package session

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Player identifies one roster entry on a game session.
type Player struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Game is one scraped game session. The reconciliation run owns these records
// and mutates them in place: the matcher appends media, the absorber appends
// media, sets the absorbed flag, and redirects the folder reference.
type Game struct {
	ID              string
	StartTime       time.Time
	EndTime         time.Time
	Players         []Player
	AssociatedMedia []string
	FolderID        string
	FolderLink      string
	Absorbed        bool
}

// HasMedia reports whether the file is already associated with the game.
func (g *Game) HasMedia(fileID string) bool {
	for _, id := range g.AssociatedMedia {
		if id == fileID {
			return true
		}
	}
	return false
}

// AddMedia associates a file with the game at most once.
func (g *Game) AddMedia(fileID string) {
	if g.HasMedia(fileID) {
		return
	}
	g.AssociatedMedia = append(g.AssociatedMedia, fileID)
}

// RemoveMedia drops a file from the game's media list if present.
func (g *Game) RemoveMedia(fileID string) {
	for i, id := range g.AssociatedMedia {
		if id == fileID {
			g.AssociatedMedia = append(g.AssociatedMedia[:i], g.AssociatedMedia[i+1:]...)
			return
		}
	}
}

// PlayerEmails returns the roster emails in input order.
func (g *Game) PlayerEmails() []string {
	emails := make([]string, 0, len(g.Players))
	for _, player := range g.Players {
		emails = append(emails, player.Email)
	}
	return emails
}

// EmailSet returns the canonicalized roster email set.
func (g *Game) EmailSet() map[string]struct{} {
	set := make(map[string]struct{}, len(g.Players))
	for _, player := range g.Players {
		key := CanonicalEmail(player.Email)
		if key == "" {
			continue
		}
		set[key] = struct{}{}
	}
	return set
}

var emailFolder = cases.Fold()

// CanonicalEmail normalizes an address for set comparison. Addresses are
// trimmed and case folded so MIXED@Case.example and mixed@case.example
// compare equal.
func CanonicalEmail(email string) string {
	return emailFolder.String(strings.TrimSpace(email))
}

// SameRoster reports whether two games share an identical player-email set.
// Order and repetition are irrelevant.
func SameRoster(a, b *Game) bool {
	setA := a.EmailSet()
	setB := b.EmailSet()
	if len(setA) != len(setB) {
		return false
	}
	for key := range setA {
		if _, ok := setB[key]; !ok {
			return false
		}
	}
	return true
}
