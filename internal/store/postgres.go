package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresFavorites keeps the user→exercise favorites relation in
// PostgreSQL. Both sides are Mongo object ids stored as text.
type PostgresFavorites struct {
	pool *pgxpool.Pool
}

func NewPostgresFavorites(pool *pgxpool.Pool) *PostgresFavorites {
	return &PostgresFavorites{pool: pool}
}

// Migrate creates the favorites table if it doesn't exist.
func (s *PostgresFavorites) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS favorites (
			user_id     VARCHAR(24) NOT NULL,
			exercise_id VARCHAR(24) NOT NULL,
			created_at  TIMESTAMPTZ DEFAULT NOW(),
			PRIMARY KEY (user_id, exercise_id)
		)
	`)
	return err
}

// Add marks an exercise as a favorite. Adding twice is a no-op.
func (s *PostgresFavorites) Add(ctx context.Context, userID, exerciseID string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO favorites (user_id, exercise_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		userID, exerciseID,
	)
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

// Remove drops a favorite. Removing a non-favorite is a no-op.
func (s *PostgresFavorites) Remove(ctx context.Context, userID, exerciseID string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND exercise_id = $2`,
		userID, exerciseID,
	)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// ListByUser returns the user's favorite exercise ids, oldest first.
func (s *PostgresFavorites) ListByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT exercise_id FROM favorites WHERE user_id = $1 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
