package usage

import (
	"context"
	"errors"
	"strings"
	"time"

	"recommender-backend/internal/shared/metrics"
	"recommender-backend/internal/shared/util"
)

type store interface {
	Get(ctx context.Context, clientID, day string) (int, error)
	// Increment adds one to the counter unless it already reached limit.
	Increment(ctx context.Context, clientID, day string, limit int) (int, error)
}

// Service enforces a per-client daily request limit. A limit of zero disables it.
type Service struct {
	store store
	limit int
	now   func() time.Time
}

// NewService constructs a Service with an in-memory store.
func NewService(limit int) *Service {
	return &Service{store: newMemoryStore(), limit: limit, now: time.Now}
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(pgStore store, limit int) *Service {
	return &Service{store: pgStore, limit: limit, now: time.Now}
}

// Enabled reports whether a limit is enforced.
func (s *Service) Enabled() bool {
	return s != nil && s.limit > 0
}

// Get returns today's usage for a client.
func (s *Service) Get(ctx context.Context, clientID string) (Usage, error) {
	day, resets := dayOf(s.now())
	u := Usage{ClientID: clientID, Day: day, Limit: s.limit, ResetsAt: resets}
	if !s.Enabled() {
		return u, nil
	}
	used, err := s.store.Get(ctx, normalizeClient(clientID), day)
	if err != nil {
		return Usage{}, err
	}
	u.Used = used
	return u, nil
}

// Consume records one request for the client, or returns ErrLimitReached with the current usage.
func (s *Service) Consume(ctx context.Context, clientID string) (Usage, error) {
	day, resets := dayOf(s.now())
	u := Usage{ClientID: clientID, Day: day, Limit: s.limit, ResetsAt: resets}
	if !s.Enabled() {
		return u, nil
	}
	used, err := s.store.Increment(ctx, normalizeClient(clientID), day, s.limit)
	if err != nil {
		if errors.Is(err, ErrLimitReached) {
			metrics.UsageRejected.Inc()
			u.Used = s.limit
			return u, ErrLimitReached
		}
		return Usage{}, err
	}
	u.Used = used
	return u, nil
}

// normalizeClient returns the storage key for a caller.
func normalizeClient(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		id = "anonymous"
	}
	return util.HashClientKey(id)
}
