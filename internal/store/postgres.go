package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"losiento/internal/domain"
	"losiento/internal/metrics"
)

const pgSerializationFailure = "40001"

// MaxTransactionRetries bounds how many times a Serializable transaction is
// retried after a pgx 40001 conflict before UpdateGame surfaces ErrConflict.
const MaxTransactionRetries = 3

// PostgresStore persists games as a JSONB document per row, keyed by
// gameId, alongside a version column used for optimistic diagnostics; the
// authoritative conflict detection is Postgres's own Serializable
// isolation, retried inside UpdateGame.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an already-connected pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the tables this store needs if they do not already exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS games (
			game_id TEXT PRIMARY KEY,
			host_id TEXT NOT NULL,
			phase TEXT NOT NULL,
			version BIGINT NOT NULL DEFAULT 1,
			doc JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS move_history (
			game_id TEXT NOT NULL REFERENCES games(game_id),
			idx INT NOT NULL,
			doc JSONB NOT NULL,
			PRIMARY KEY (game_id, idx)
		);
		CREATE TABLE IF NOT EXISTS active_games (
			user_id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL
		);
	`)
	return err
}

func (s *PostgresStore) CreateGame(ctx context.Context, g *domain.Game) error {
	doc, err := json.Marshal(g)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO games (game_id, host_id, phase, version, doc)
		VALUES ($1, $2, $3, 1, $4)
	`, g.GameID, g.HostID, string(g.Phase), doc)
	return err
}

func (s *PostgresStore) GetGame(ctx context.Context, gameID string) (*domain.Game, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, `SELECT doc FROM games WHERE game_id = $1`, gameID).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var g domain.Game
	if err := json.Unmarshal(doc, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// UpdateGame runs fn inside a Serializable transaction, retrying on 40001
// up to MaxTransactionRetries times before surfacing ErrConflict.
func (s *PostgresStore) UpdateGame(ctx context.Context, gameID string, fn UpdateFunc) (*domain.Game, error) {
	var result *domain.Game
	for attempt := 0; attempt <= MaxTransactionRetries; attempt++ {
		tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
		if err != nil {
			return nil, err
		}

		var doc []byte
		err = tx.QueryRow(ctx, `SELECT doc FROM games WHERE game_id = $1 FOR UPDATE`, gameID).Scan(&doc)
		if errors.Is(err, pgx.ErrNoRows) {
			_ = tx.Rollback(ctx)
			return nil, ErrNotFound
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return nil, err
		}

		var current domain.Game
		if err := json.Unmarshal(doc, &current); err != nil {
			_ = tx.Rollback(ctx)
			return nil, err
		}

		updated, err := fn(&current)
		if err != nil {
			_ = tx.Rollback(ctx)
			return nil, err
		}
		updated.UpdatedAt = time.Now()

		newDoc, err := json.Marshal(updated)
		if err != nil {
			_ = tx.Rollback(ctx)
			return nil, err
		}

		_, err = tx.Exec(ctx, `
			UPDATE games SET doc = $2, phase = $3, version = version + 1, updated_at = now()
			WHERE game_id = $1
		`, gameID, newDoc, string(updated.Phase))
		if err != nil {
			_ = tx.Rollback(ctx)
			if isSerializationFailure(err) {
				continue
			}
			return nil, err
		}

		if err := tx.Commit(ctx); err != nil {
			if isSerializationFailure(err) {
				continue
			}
			return nil, err
		}

		result = updated
		break
	}
	if result == nil {
		metrics.StoreConflicts.Inc()
		return nil, ErrConflict
	}
	return result, nil
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgSerializationFailure
}

func (s *PostgresStore) AppendMove(ctx context.Context, gameID string, rec domain.MoveRecord) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO move_history (game_id, idx, doc) VALUES ($1, $2, $3)
	`, gameID, rec.Index, doc)
	return err
}

func (s *PostgresStore) ListJoinable(ctx context.Context) ([]*domain.Game, error) {
	rows, err := s.pool.Query(ctx, `SELECT doc FROM games WHERE phase = $1`, string(domain.PhaseLobby))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Game
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var g domain.Game
		if err := json.Unmarshal(doc, &g); err != nil {
			return nil, err
		}
		if domain.LowestAvailableSeat(g.Seats) >= 0 {
			out = append(out, &g)
		}
	}
	return out, rows.Err()
}

func (s *PostgresStore) SetActiveGame(ctx context.Context, userID string, gameID *string) error {
	if gameID == nil {
		_, err := s.pool.Exec(ctx, `DELETE FROM active_games WHERE user_id = $1`, userID)
		return err
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO active_games (user_id, game_id) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET game_id = EXCLUDED.game_id
	`, userID, *gameID)
	return err
}

func (s *PostgresStore) GetActiveGame(ctx context.Context, userID string) (*string, error) {
	var gameID string
	err := s.pool.QueryRow(ctx, `SELECT game_id FROM active_games WHERE user_id = $1`, userID).Scan(&gameID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &gameID, nil
}
