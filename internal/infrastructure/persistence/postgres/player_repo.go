package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/playzo/playzo-backend/internal/domain/player"
)

// ══════════════════════════════════════════════════════════════════════════════
// PLAYER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const playerColumns = `
	id, user_id, display_name, gender, birthdate, email, phone, address, photo_url,
	total_score, high_score, games_played, games_won, average_score,
	last_game_score, last_game_date, created_at, updated_at
`

// PlayerRepository implements player.Repository for PostgreSQL.
type PlayerRepository struct {
	conn *Connection
}

// NewPlayerRepository creates a new PlayerRepository.
func NewPlayerRepository(conn *Connection) *PlayerRepository {
	return &PlayerRepository{conn: conn}
}

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create creates a new player.
func (r *PlayerRepository) Create(ctx context.Context, p *player.Player) error {
	query := `
		INSERT INTO players (
			id, user_id, display_name, gender, birthdate, email, phone, address, photo_url,
			total_score, high_score, games_played, games_won, average_score,
			last_game_score, last_game_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.conn.Exec(ctx, query,
		p.ID,
		p.UserID,
		p.DisplayName,
		string(p.Gender),
		p.Birthdate,
		p.Email,
		p.Phone,
		p.Address,
		p.PhotoURL,
		p.TotalScore,
		p.HighScore,
		p.GamesPlayed,
		p.GamesWon,
		p.AverageScore,
		p.LastGameScore,
		p.LastGameDate,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return player.ErrPlayerAlreadyExists
		}
		return fmt.Errorf("failed to create player: %w", err)
	}

	return nil
}

// GetByID returns a player by internal ID.
func (r *PlayerRepository) GetByID(ctx context.Context, id string) (*player.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	return r.scanPlayer(r.conn.QueryRow(ctx, query, id))
}

// GetByUserID returns the player owned by an account.
func (r *PlayerRepository) GetByUserID(ctx context.Context, userID string) (*player.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE user_id = $1`
	return r.scanPlayer(r.conn.QueryRow(ctx, query, userID))
}

// GetByEmail returns a player by contact email.
func (r *PlayerRepository) GetByEmail(ctx context.Context, email string) (*player.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE email = $1`
	return r.scanPlayer(r.conn.QueryRow(ctx, query, email))
}

// Update updates a player.
func (r *PlayerRepository) Update(ctx context.Context, p *player.Player) error {
	query := `
		UPDATE players SET
			display_name = $1,
			gender = $2,
			birthdate = $3,
			email = $4,
			phone = $5,
			address = $6,
			photo_url = $7,
			total_score = $8,
			high_score = $9,
			games_played = $10,
			games_won = $11,
			average_score = $12,
			last_game_score = $13,
			last_game_date = $14,
			updated_at = $15
		WHERE id = $16
	`

	result, err := r.conn.Exec(ctx, query,
		p.DisplayName,
		string(p.Gender),
		p.Birthdate,
		p.Email,
		p.Phone,
		p.Address,
		p.PhotoURL,
		p.TotalScore,
		p.HighScore,
		p.GamesPlayed,
		p.GamesWon,
		p.AverageScore,
		p.LastGameScore,
		p.LastGameDate,
		time.Now().UTC(),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	if result.RowsAffected() == 0 {
		return player.ErrPlayerNotFound
	}

	return nil
}

// Mutate runs a read-modify-write on a player inside a transaction.
// The row is locked with SELECT ... FOR UPDATE, so two concurrent game
// results for the same player serialize instead of losing a counter bump.
func (r *PlayerRepository) Mutate(
	ctx context.Context,
	id string,
	fn func(*player.Player) error,
) (*player.Player, error) {
	var updated *player.Player

	err := r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1 FOR UPDATE`

		p, err := r.scanPlayer(tx.QueryRow(ctx, query, id))
		if err != nil {
			return err
		}

		if err := fn(p); err != nil {
			return err
		}

		updateQuery := `
			UPDATE players SET
				display_name = $1, gender = $2, birthdate = $3, phone = $4,
				address = $5, photo_url = $6, total_score = $7, high_score = $8,
				games_played = $9, games_won = $10, average_score = $11,
				last_game_score = $12, last_game_date = $13, updated_at = $14
			WHERE id = $15
		`
		_, err = tx.Exec(ctx, updateQuery,
			p.DisplayName,
			string(p.Gender),
			p.Birthdate,
			p.Phone,
			p.Address,
			p.PhotoURL,
			p.TotalScore,
			p.HighScore,
			p.GamesPlayed,
			p.GamesWon,
			p.AverageScore,
			p.LastGameScore,
			p.LastGameDate,
			p.UpdatedAt,
			p.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to persist mutation: %w", err)
		}

		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// ListAll returns every player. The player base is bounded (one row per
// account), so ranking reads load it whole and sort in memory.
func (r *PlayerRepository) ListAll(ctx context.Context) ([]*player.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players ORDER BY total_score DESC, display_name ASC`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	return r.scanPlayers(rows)
}

// List returns a page of players.
func (r *PlayerRepository) List(ctx context.Context, opts player.ListOptions) ([]*player.Player, error) {
	query := `SELECT ` + playerColumns + `
		FROM players
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.conn.Query(ctx, query, limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	return r.scanPlayers(rows)
}

// Count returns the total number of players.
func (r *PlayerRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM players`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}

// Delete removes a player permanently.
func (r *PlayerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}

	if result.RowsAffected() == 0 {
		return player.ErrPlayerNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *PlayerRepository) scanPlayer(row pgx.Row) (*player.Player, error) {
	var (
		p      player.Player
		gender string
	)

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.DisplayName,
		&gender,
		&p.Birthdate,
		&p.Email,
		&p.Phone,
		&p.Address,
		&p.PhotoURL,
		&p.TotalScore,
		&p.HighScore,
		&p.GamesPlayed,
		&p.GamesWon,
		&p.AverageScore,
		&p.LastGameScore,
		&p.LastGameDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, player.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player: %w", err)
	}

	p.Gender = player.Gender(gender)
	return &p, nil
}

func (r *PlayerRepository) scanPlayers(rows pgx.Rows) ([]*player.Player, error) {
	var players []*player.Player
	for rows.Next() {
		p, err := r.scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}
