package ports

import (
	"context"

	"github.com/jobboard/job-board-api/internal/core/domain"
)

// ApplicantFilter narrows applicant queries. Zero values are ignored; when
// several fields are set they must all match.
type ApplicantFilter struct {
	UserID     string
	JobID      string
	ProviderID string
	JobIDs     []string
	Stage      ApplicantStage
}

// ApplicantStage selects applicants by their position in the status machine.
type ApplicantStage int

const (
	StageAny ApplicantStage = iota
	StageApplied
	StageShortlisted
)

// ApplicantRepository defines persistence operations for applicants.
// The store enforces at most one applicant per (userId, jobId).
type ApplicantRepository interface {
	// Create inserts the applicant. A uniqueness violation on (userId, jobId)
	// yields domain.ErrDuplicateApplication.
	Create(ctx context.Context, a *domain.Applicant) (*domain.Applicant, error)
	FindByID(ctx context.Context, id string) (*domain.Applicant, error)
	FindByUserAndJob(ctx context.Context, userID, jobID string) (*domain.Applicant, error)
	List(ctx context.Context, filter ApplicantFilter) ([]*domain.Applicant, error)
	Count(ctx context.Context, filter ApplicantFilter) (int64, error)
	// MarkShortlisted moves an applied applicant to shortlisted. It yields
	// domain.ErrAlreadyShortlisted when the applicant is shortlisted already,
	// so concurrent calls succeed at most once.
	MarkShortlisted(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}
