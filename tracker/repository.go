package tracker

import (
	"errors"
	"sort"
	"sync"

	"clipforge/types"
)

// ErrNotFound is returned for status queries on unknown job ids
var ErrNotFound = errors.New("job not found")

// Repository is the shared job registry. All mutations go through
// Update so multi-field changes land atomically; Get and List return
// deep copies so readers never observe a half-applied step.
type Repository interface {
	Create(job *types.Job) error
	Get(id string) (types.Job, error)
	Update(id string, fn func(*types.Job)) error
	List() []types.Job
}

// MemoryRepository keeps jobs in memory for the process lifetime
type MemoryRepository struct {
	mu   sync.RWMutex
	jobs map[string]*types.Job
}

// NewMemoryRepository creates an empty registry
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{jobs: make(map[string]*types.Job)}
}

func (r *MemoryRepository) Create(job *types.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[job.ID]; exists {
		return errors.New("job id already exists")
	}
	stored := job.Clone()
	r.jobs[job.ID] = &stored
	return nil
}

func (r *MemoryRepository) Get(id string) (types.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return types.Job{}, ErrNotFound
	}
	return job.Clone(), nil
}

func (r *MemoryRepository) Update(id string, fn func(*types.Job)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return ErrNotFound
	}
	fn(job)
	return nil
}

// List returns snapshots of all jobs, most recently created first
func (r *MemoryRepository) List() []types.Job {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		out = append(out, job.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
