package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cbodonnell/gametetris/pkg/repositories/models"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(ctx context.Context, path string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	// an in-memory database exists per connection
	db.SetMaxOpenConns(1)

	scripts, err := readMigrations("sqlite")
	if err != nil {
		db.Close()
		return nil, err
	}
	for i, migration := range scripts {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute migration %d: %v", i+1, err)
		}
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) SavePlayer(ctx context.Context, player *models.Player) error {
	q := `
	INSERT OR REPLACE INTO players (player_id, name, client_id, status, match_id, updated_at)
	VALUES (?, ?, ?, ?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, q, player.ID, player.Name, player.ClientID, string(player.Status), player.MatchID, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save player: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) GetPlayer(ctx context.Context, playerID string) (*models.Player, error) {
	q := `
	SELECT player_id, name, client_id, status, match_id, updated_at FROM players WHERE player_id = ?;
	`
	player, err := scanPlayer(r.db.QueryRowContext(ctx, q, playerID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan player: %v", err)
	}

	return player, nil
}

func (r *SQLiteRepository) ListPlayers(ctx context.Context, status models.PlayerStatus) ([]*models.Player, error) {
	q := `
	SELECT player_id, name, client_id, status, match_id, updated_at FROM players
	WHERE ? = '' OR status = ?
	ORDER BY updated_at, player_id;
	`
	rows, err := r.db.QueryContext(ctx, q, string(status), string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %v", err)
	}
	defer rows.Close()

	players := []*models.Player{}
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %v", err)
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate players: %v", err)
	}

	return players, nil
}

func (r *SQLiteRepository) SetPlayerStatus(ctx context.Context, playerID string, status models.PlayerStatus, matchID string) error {
	q := `
	UPDATE players SET status = ?, match_id = ?, updated_at = ? WHERE player_id = ?;
	`
	res, err := r.db.ExecContext(ctx, q, string(status), matchID, time.Now().UnixMilli(), playerID)
	if err != nil {
		return fmt.Errorf("failed to update player: %v", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %v", err)
	}
	if n == 0 {
		return &ErrNotFound{}
	}

	return nil
}

func (r *SQLiteRepository) DeletePlayer(ctx context.Context, playerID string) error {
	q := `
	DELETE FROM players WHERE player_id = ?;
	`
	if _, err := r.db.ExecContext(ctx, q, playerID); err != nil {
		return fmt.Errorf("failed to delete player: %v", err)
	}

	return nil
}

// rowScanner is satisfied by *sql.Row, *sql.Rows and pgx.Row.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*models.Player, error) {
	var player models.Player
	var status string
	var clientID int64
	var updatedAt int64
	if err := row.Scan(&player.ID, &player.Name, &clientID, &status, &player.MatchID, &updatedAt); err != nil {
		return nil, err
	}
	player.ClientID = uint32(clientID)
	player.Status = models.PlayerStatus(status)
	player.UpdatedAt = time.UnixMilli(updatedAt)
	return &player, nil
}
