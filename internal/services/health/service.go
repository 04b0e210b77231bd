package health

import (
	"context"
	"database/sql"
	"time"
)

const pingTimeout = 2 * time.Second

// Service reports process readiness.
type Service struct {
	DB                   *sql.DB
	CredentialConfigured bool
}

// NewService constructs a health service. db may be nil when quotas are kept in memory.
func NewService(db *sql.DB, credentialConfigured bool) *Service {
	return &Service{DB: db, CredentialConfigured: credentialConfigured}
}

// Status is the health payload.
type Status struct {
	OK         bool   `json:"ok"`
	Credential bool   `json:"credential"`
	Storage    string `json:"storage"`
}

// Status returns the current health. A missing credential is reported but does not fail health,
// since the pipeline still answers with an api_error result.
func (s *Service) Status(ctx context.Context) Status {
	if s == nil {
		return Status{OK: true, Storage: "memory"}
	}
	st := Status{OK: true, Credential: s.CredentialConfigured, Storage: "memory"}
	if s.DB == nil {
		return st
	}
	st.Storage = "postgres"
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(pingCtx); err != nil {
		st.OK = false
		st.Storage = "postgres_unreachable"
	}
	return st
}
