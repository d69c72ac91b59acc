package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps one row per conversation with the record as jsonb.
// Expiry is lazy on read plus a periodic reaper for rows nobody touches.
type PostgresStore struct {
	pool      *pgxpool.Pool
	retention time.Duration
}

func NewPostgresStore(pool *pgxpool.Pool, retention time.Duration) *PostgresStore {
	return &PostgresStore{pool: pool, retention: retention}
}

// EnsureSchema creates the conversations table when it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS conversations (
			user_id    TEXT PRIMARY KEY,
			record     JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("memory: ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, userID string) (*Record, error) {
	var raw []byte
	var updatedAt time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT record, updated_at FROM conversations WHERE user_id = $1`, userID,
	).Scan(&raw, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("memory: load conversation: %w", err)
	}

	if time.Since(updatedAt) > s.retention {
		// expired in place; drop it and report not found
		_ = s.Delete(ctx, userID)
		return nil, ErrNotFound
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("memory: decode record: %w", err)
	}
	return &rec, nil
}

func (s *PostgresStore) Save(ctx context.Context, rec *Record) error {
	rec.UpdatedAt = time.Now()
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("memory: encode record: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO conversations (user_id, record, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET record = $2, updated_at = now()`,
		rec.UserID, raw)
	if err != nil {
		return fmt.Errorf("memory: save conversation: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM conversations WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("memory: delete conversation: %w", err)
	}
	return nil
}

// ReapExpired removes conversations idle past the retention window.
// Intended to run on a ticker from main.
func (s *PostgresStore) ReapExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM conversations WHERE updated_at < now() - $1::interval`,
		fmt.Sprintf("%d seconds", int(s.retention.Seconds())))
	if err != nil {
		return 0, fmt.Errorf("memory: reap expired: %w", err)
	}
	return tag.RowsAffected(), nil
}
