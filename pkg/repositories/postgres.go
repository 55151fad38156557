package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cbodonnell/gametetris/pkg/log"
	"github.com/cbodonnell/gametetris/pkg/repositories/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository connects to connStr and applies the migrations.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string) (Repository, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	var username string
	var database string
	err = pool.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to query database: %v", err)
	}
	log.Info("Connected to %s as %s", database, username)

	scripts, err := readMigrations("postgres")
	if err != nil {
		pool.Close()
		return nil, err
	}
	for i, migration := range scripts {
		if _, err := pool.Exec(ctx, migration); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to execute migration %d: %v", i+1, err)
		}
	}

	return &PostgresRepository{
		pool: pool,
	}, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	r.pool.Close()
	return nil
}

func (r *PostgresRepository) SavePlayer(ctx context.Context, player *models.Player) error {
	q := `
	INSERT INTO players (player_id, name, client_id, status, match_id, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (player_id) DO UPDATE SET name = $2, client_id = $3, status = $4, match_id = $5, updated_at = $6;
	`
	_, err := r.pool.Exec(ctx, q, player.ID, player.Name, int64(player.ClientID), string(player.Status), player.MatchID, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save player: %v", err)
	}

	return nil
}

func (r *PostgresRepository) GetPlayer(ctx context.Context, playerID string) (*models.Player, error) {
	q := `
	SELECT player_id, name, client_id, status, match_id, updated_at FROM players WHERE player_id = $1;
	`
	player, err := scanPlayer(r.pool.QueryRow(ctx, q, playerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan player: %v", err)
	}

	return player, nil
}

func (r *PostgresRepository) ListPlayers(ctx context.Context, status models.PlayerStatus) ([]*models.Player, error) {
	q := `
	SELECT player_id, name, client_id, status, match_id, updated_at FROM players
	WHERE $1 = '' OR status = $1
	ORDER BY updated_at, player_id;
	`
	rows, err := r.pool.Query(ctx, q, string(status))
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

func (r *PostgresRepository) SetPlayerStatus(ctx context.Context, playerID string, status models.PlayerStatus, matchID string) error {
	q := `
	UPDATE players SET status = $2, match_id = $3, updated_at = $4 WHERE player_id = $1;
	`
	tag, err := r.pool.Exec(ctx, q, playerID, string(status), matchID, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to update player: %v", err)
	}
	if tag.RowsAffected() == 0 {
		return &ErrNotFound{}
	}

	return nil
}

func (r *PostgresRepository) DeletePlayer(ctx context.Context, playerID string) error {
	q := `
	DELETE FROM players WHERE player_id = $1;
	`
	if _, err := r.pool.Exec(ctx, q, playerID); err != nil {
		return fmt.Errorf("failed to delete player: %v", err)
	}

	return nil
}
