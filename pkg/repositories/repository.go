package repositories

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/cbodonnell/gametetris/pkg/repositories/models"
)

//go:embed migrations
var migrations embed.FS

// Repository is the registry of connected players and their match status.
type Repository interface {
	Close(ctx context.Context) error
	SavePlayer(ctx context.Context, player *models.Player) error
	GetPlayer(ctx context.Context, playerID string) (*models.Player, error)
	// ListPlayers returns players ordered by last update. An empty status lists all players.
	ListPlayers(ctx context.Context, status models.PlayerStatus) ([]*models.Player, error)
	SetPlayerStatus(ctx context.Context, playerID string, status models.PlayerStatus, matchID string) error
	DeletePlayer(ctx context.Context, playerID string) error
}

// NewRepository opens the repository named by url. Postgres URLs use the
// postgres:// or postgresql:// scheme; sqlite:// URLs and bare paths open a
// SQLite database. An empty url opens an in-memory SQLite database.
func NewRepository(ctx context.Context, url string) (Repository, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return NewPostgresRepository(ctx, url)
	case url == "":
		return NewSQLiteRepository(ctx, ":memory:")
	default:
		return NewSQLiteRepository(ctx, strings.TrimPrefix(url, "sqlite://"))
	}
}

// readMigrations returns the SQL files for dialect in name order.
func readMigrations(dialect string) ([]string, error) {
	dir := "migrations/" + dialect
	entries, err := fs.ReadDir(migrations, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	scripts := make([]string, 0, len(names))
	for _, name := range names {
		b, err := fs.ReadFile(migrations, dir+"/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %v", name, err)
		}
		scripts = append(scripts, string(b))
	}
	return scripts, nil
}
