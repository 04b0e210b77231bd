package usage

import (
	"context"
	"database/sql"
	"errors"
)

type pgStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed usage store.
func NewPGStore(db *sql.DB) *pgStore {
	return &pgStore{DB: db}
}

func (s *pgStore) Get(ctx context.Context, clientID, day string) (int, error) {
	var used int
	err := s.DB.QueryRowContext(ctx, `
SELECT used FROM usage_counters WHERE client_id = $1 AND day = $2::date`, clientID, day).Scan(&used)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return used, nil
}

// Increment relies on the conditional upsert returning no row once the limit is reached.
func (s *pgStore) Increment(ctx context.Context, clientID, day string, limit int) (int, error) {
	var used int
	err := s.DB.QueryRowContext(ctx, `
INSERT INTO usage_counters (client_id, day, used) VALUES ($1, $2::date, 1)
ON CONFLICT (client_id, day) DO UPDATE SET used = usage_counters.used + 1
WHERE usage_counters.used < $3
RETURNING used`, clientID, day, limit).Scan(&used)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrLimitReached
	}
	if err != nil {
		return 0, err
	}
	return used, nil
}
