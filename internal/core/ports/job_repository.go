package ports

import (
	"context"

	"github.com/jobboard/job-board-api/internal/core/domain"
)

// JobFilter narrows job queries. Zero values are ignored.
type JobFilter struct {
	ProviderID string
	IDs        []string // only these jobs
	ExcludeIDs []string // none of these jobs
}

// JobUpdate carries the mutable job fields. Nil pointers are left untouched.
type JobUpdate struct {
	Title       *string
	Description *string
	Category    *string
	Location    *string
	Salary      *string
	Skills      *[]string
	Vacancies   *int
}

// JobRepository defines persistence operations for jobs.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) (*domain.Job, error)
	// FindByID retrieves a job. When providerID is non-empty the job must also
	// be owned by that provider, otherwise domain.ErrJobNotFound is returned.
	FindByID(ctx context.Context, id, providerID string) (*domain.Job, error)
	List(ctx context.Context, filter JobFilter) ([]*domain.Job, error)
	Recent(ctx context.Context, filter JobFilter, limit int) ([]*domain.Job, error)
	Count(ctx context.Context, filter JobFilter) (int64, error)
	// Update applies update to the job, scoped to providerID when non-empty.
	Update(ctx context.Context, id, providerID string, update JobUpdate) error
	Delete(ctx context.Context, id string) error
	// DeleteMany removes every listed job and returns how many were removed.
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}
