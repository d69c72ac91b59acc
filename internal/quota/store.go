package quota

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store handles nlu_usage persistence.
type Store struct {
	db *pgxpool.Pool
}

// NewStore returns a Store backed by the given connection pool.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the nlu_usage table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS nlu_usage (
			user_id          TEXT PRIMARY KEY,
			calls_remaining  INTEGER NOT NULL,
			last_reset_month TEXT NOT NULL
		)
	`)
	return err
}

// Consume atomically checks the monthly allowance and deducts one call.
// It resets the counter to DefaultAllowance when last_reset_month is behind
// the current month. Returns ErrExhausted when 0 rows are updated (allowance
// used up or user absent).
func (s *Store) Consume(ctx context.Context, userID string) error {
	month := time.Now().Format("2006-01")

	tag, err := s.db.Exec(ctx, `
		UPDATE nlu_usage SET
			calls_remaining = CASE WHEN last_reset_month != $1 THEN $2 - 1 ELSE calls_remaining - 1 END,
			last_reset_month = $1
		WHERE user_id = $3 AND (last_reset_month < $1 OR calls_remaining > 0)
	`, month, DefaultAllowance, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExhausted
	}
	return nil
}

// EnsureUser inserts a new nlu_usage row for userID with the default
// allowance. If the row already exists the insert is silently skipped.
func (s *Store) EnsureUser(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO nlu_usage (user_id, calls_remaining, last_reset_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, DefaultAllowance, time.Now().Format("2006-01"))
	return err
}
