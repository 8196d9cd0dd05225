package minutes

import "context"

// RunRepo persists the run audit log.
type RunRepo interface {
	Create(ctx context.Context, run Run) error
	GetByID(ctx context.Context, runID string) (Run, error)
	List(ctx context.Context, limit, offset int) ([]Run, error)
}
