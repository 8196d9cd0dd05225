package minutes

import (
	"context"
	"sync"
)

const defaultMemoryRunCap = 1000

// MemoryRepo keeps the most recent runs in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	runs []Run
	byID map[string]int
	cap  int
}

// NewMemoryRepo constructs a MemoryRepo holding at most capacity runs (0 means the default).
func NewMemoryRepo(capacity int) *MemoryRepo {
	if capacity <= 0 {
		capacity = defaultMemoryRunCap
	}
	return &MemoryRepo{
		byID: make(map[string]int),
		cap:  capacity,
	}
}

// Create appends the run, dropping the oldest once full.
func (r *MemoryRepo) Create(ctx context.Context, run Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, run)
	if len(r.runs) <= r.cap {
		r.byID[run.ID] = len(r.runs) - 1
		return nil
	}
	r.runs = append([]Run(nil), r.runs[len(r.runs)-r.cap:]...)
	r.reindex()
	return nil
}

func (r *MemoryRepo) reindex() {
	clear(r.byID)
	for i, run := range r.runs {
		r.byID[run.ID] = i
	}
}

// GetByID returns a run by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, runID string) (Run, error) {
	if err := ctx.Err(); err != nil {
		return Run{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byID[runID]
	if !ok {
		return Run{}, ErrNotFound
	}
	return r.runs[idx], nil
}

// List returns runs newest first, with limit/offset.
func (r *MemoryRepo) List(ctx context.Context, limit, offset int) ([]Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	total := len(r.runs)
	if offset >= total {
		return []Run{}, nil
	}
	out := make([]Run, 0, min(limit, total-offset))
	for i := total - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.runs[i])
	}
	return out, nil
}
