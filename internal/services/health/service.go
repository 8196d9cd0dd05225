package health

import (
	"context"
	"database/sql"
	"time"
)

const pingTimeout = 2 * time.Second

// Service encapsulates health-related checks.
type Service struct {
	DB *sql.DB
}

// NewService constructs a new health service. db may be nil when the run log is in memory.
func NewService(db *sql.DB) *Service {
	return &Service{DB: db}
}

// Status returns a simple liveness payload.
func (s *Service) Status() map[string]bool {
	return map[string]bool{"ok": true}
}

// Ready reports whether the run log backend is reachable.
func (s *Service) Ready(ctx context.Context) (map[string]any, bool) {
	out := map[string]any{"ok": true, "runLog": "memory"}
	if s == nil || s.DB == nil {
		return out, true
	}
	out["runLog"] = "postgres"

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		out["ok"] = false
		out["error"] = "database unreachable"
		return out, false
	}
	return out, true
}
