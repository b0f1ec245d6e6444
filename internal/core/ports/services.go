package ports

import (
	"context"
	"io"
	"time"

	"github.com/jobboard/job-board-api/internal/core/domain"
)

// Identity is the authenticated caller as established by the access gate.
type Identity struct {
	UserID  string
	Name    string
	Role    domain.Role
	TokenID string
	Expires time.Time
}

// SignupInput carries the fields of a public registration or an admin add.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// AuthService implements registration, login and logout.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Logout(ctx context.Context, who Identity) error
}

// AdminStats is the admin dashboard summary. The requesting admin is excluded
// from the user counts.
type AdminStats struct {
	JobCount       int64 `json:"jobCount"`
	ProviderCount  int64 `json:"providerCount"`
	ApplicantCount int64 `json:"applicantCount"`
	SeekerCount    int64 `json:"seekerCount"`
}

// ProviderStats is the provider dashboard summary.
type ProviderStats struct {
	JobsCount       int64 `json:"jobsCount"`
	ApplicantsCount int64 `json:"applicantsCount"`
}

// EditUserInput carries the admin edit form. Empty strings are left untouched.
type EditUserInput struct {
	Name     string
	Email    string
	Role     domain.Role
	Password string
}

// UserService covers admin user management.
type UserService interface {
	Stats(ctx context.Context, requesterID string) (*AdminStats, error)
	Recent(ctx context.Context, requesterID string) ([]*domain.User, []*domain.Job, error)
	List(ctx context.Context, requesterID string) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, in SignupInput) (*domain.User, error)
	Edit(ctx context.Context, id, requesterID string, in EditUserInput) error
}

// JobInput carries the job form shared by create and edit.
type JobInput struct {
	Title       string
	Description string
	Category    string
	Location    string
	Salary      string
	Skills      []string
	Vacancies   int
}

// AppliedJob is a job annotated with the seeker's application status.
type AppliedJob struct {
	*domain.Job
	Status string `json:"status"`
}

// JobService covers job CRUD for admins and providers and job browsing for
// seekers. An empty ownerID means the caller is not restricted to own jobs.
type JobService interface {
	Create(ctx context.Context, providerID string, in JobInput) (*domain.Job, error)
	Get(ctx context.Context, id, ownerID string) (*domain.Job, error)
	List(ctx context.Context, ownerID string) ([]*domain.Job, error)
	Recent(ctx context.Context, ownerID string) ([]*domain.Job, error)
	Edit(ctx context.Context, id, ownerID string, in JobInput) error
	ProviderStats(ctx context.Context, providerID string) (*ProviderStats, error)
	Available(ctx context.Context, seekerID string) ([]*domain.Job, error)
	Applied(ctx context.Context, seekerID string) ([]AppliedJob, error)
}

// ApplicantView is an applicant with the seeker's public details attached.
type ApplicantView struct {
	*domain.Applicant
	SeekerName  string `json:"name"`
	SeekerEmail string `json:"email,omitempty"`
}

// ApplicantService covers provider-side applicant browsing.
type ApplicantService interface {
	ListForJob(ctx context.Context, providerID, jobID string, stage ApplicantStage) ([]ApplicantView, error)
	Resume(ctx context.Context, applicantID, providerID string) (io.ReadCloser, error)
}

// ApplyInput carries an application whose resume was already stored.
type ApplyInput struct {
	JobID      string
	SeekerID   string
	ProviderID string // optional; must match the job owner when set
	ResumePath string
}

// IntegrityService owns every operation that creates or removes records other
// records depend on, and keeps users, jobs, applicants and resume files
// consistent with each other.
type IntegrityService interface {
	DeleteUser(ctx context.Context, targetID, requesterID string) error
	DeleteJob(ctx context.Context, jobID, requesterID string, requireOwnership bool) error
	ApplyToJob(ctx context.Context, in ApplyInput) (*domain.Applicant, error)
	RejectApplicant(ctx context.Context, applicantID, providerID string) error
	ShortlistApplicant(ctx context.Context, applicantID, providerID string) error
}
