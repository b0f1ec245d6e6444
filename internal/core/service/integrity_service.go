package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobboard/job-board-api/internal/core/domain"
	"github.com/jobboard/job-board-api/internal/core/ports"
	"github.com/jobboard/job-board-api/internal/pkg/metrics"
)

// IntegrityService keeps users, jobs, applicants and resume files consistent
// whenever one of them is created or removed.
type IntegrityService struct {
	users      ports.UserRepository
	jobs       ports.JobRepository
	applicants ports.ApplicantRepository
	tx         ports.Transactor
	janitor    ports.ResumeJanitor
	now        func() time.Time
	log        zerolog.Logger
}

func NewIntegrityService(
	users ports.UserRepository,
	jobs ports.JobRepository,
	applicants ports.ApplicantRepository,
	tx ports.Transactor,
	janitor ports.ResumeJanitor,
	log zerolog.Logger,
) *IntegrityService {
	return &IntegrityService{
		users:      users,
		jobs:       jobs,
		applicants: applicants,
		tx:         tx,
		janitor:    janitor,
		now:        time.Now,
		log:        log,
	}
}

// WithClock replaces the time source used for applied statuses.
func (s *IntegrityService) WithClock(now func() time.Time) *IntegrityService {
	s.now = now
	return s
}

// DeleteUser removes a user together with every job they posted, every
// applicant on those jobs, every application they made and the resumes of all
// of those applicants. The user record goes last.
func (s *IntegrityService) DeleteUser(ctx context.Context, targetID, requesterID string) error {
	if targetID == requesterID {
		return domain.Forbidden("Cannot delete the current User")
	}

	err := runCascade(ctx, s.tx, s.janitor, s.log, "delete_user", func(ctx context.Context, c *cascade) error {
		user, err := s.users.FindByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NotFound("Cannot delete user. User not found!")
			}
			return fmt.Errorf("delete user: find user: %w", err)
		}

		jobIDs, err := s.postedJobIDs(ctx, user)
		if err != nil {
			return err
		}

		dependents, err := s.dependentApplicants(ctx, user.ID, jobIDs)
		if err != nil {
			return err
		}

		s.queueApplicantRemoval(c, dependents)
		if len(jobIDs) > 0 {
			c.then("delete jobs", "job", func(ctx context.Context) (int64, error) {
				return s.jobs.DeleteMany(ctx, jobIDs)
			})
		}
		c.then("delete user", "user", func(ctx context.Context) (int64, error) {
			return 1, s.users.Delete(ctx, user.ID)
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("user_id", targetID).Str("requester_id", requesterID).Msg("user deleted")
	return nil
}

// DeleteJob removes a job, unlinks it from its owner and removes its
// applicants and their resumes. With requireOwnership the job must belong to
// the requester.
func (s *IntegrityService) DeleteJob(ctx context.Context, jobID, requesterID string, requireOwnership bool) error {
	owner := ""
	if requireOwnership {
		owner = requesterID
	}

	err := runCascade(ctx, s.tx, s.janitor, s.log, "delete_job", func(ctx context.Context, c *cascade) error {
		job, err := s.jobs.FindByID(ctx, jobID, owner)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NotFound("Cannot delete job. Job not found!")
			}
			return fmt.Errorf("delete job: find job: %w", err)
		}

		dependents, err := s.applicants.List(ctx, ports.ApplicantFilter{JobID: job.ID})
		if err != nil {
			return fmt.Errorf("delete job: list applicants: %w", err)
		}

		c.then("unlink job", "", func(ctx context.Context) (int64, error) {
			return 0, s.users.PullJob(ctx, job.ProviderID, job.ID)
		})
		s.queueApplicantRemoval(c, dependents)
		c.then("delete job", "job", func(ctx context.Context) (int64, error) {
			return 1, s.jobs.Delete(ctx, job.ID)
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("job_id", jobID).Str("requester_id", requesterID).Msg("job deleted")
	return nil
}

// ApplyToJob records a seeker's application. The resume has already been
// written, so it is discarded on every failure, duplicates included.
func (s *IntegrityService) ApplyToJob(ctx context.Context, in ports.ApplyInput) (*domain.Applicant, error) {
	applicant, err := s.apply(ctx, in)
	if err != nil {
		if in.ResumePath != "" {
			s.janitor.Discard(in.ResumePath)
		}
		metrics.ApplicationsTotal.WithLabelValues(applyResult(err)).Inc()
		if errors.Is(err, domain.ErrDuplicateApplication) {
			s.log.Info().Str("job_id", in.JobID).Str("user_id", in.SeekerID).Msg("duplicate application rejected")
		}
		return nil, err
	}

	metrics.ApplicationsTotal.WithLabelValues("applied").Inc()
	s.log.Info().
		Str("applicant_id", applicant.ID).
		Str("job_id", in.JobID).
		Str("user_id", in.SeekerID).
		Msg("application created")
	return applicant, nil
}

func (s *IntegrityService) apply(ctx context.Context, in ports.ApplyInput) (*domain.Applicant, error) {
	if in.ResumePath == "" {
		return nil, domain.Invalid("Resume not Found")
	}

	job, err := s.jobs.FindByID(ctx, in.JobID, "")
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("apply: find job: %w", err)
	}

	// The denormalised provider id is trusted for authorization later on, so
	// it must come from the job itself.
	if in.ProviderID != "" && in.ProviderID != job.ProviderID {
		return nil, domain.Invalid("The job is not posted by the given provider")
	}

	_, err = s.applicants.FindByUserAndJob(ctx, in.SeekerID, in.JobID)
	switch {
	case err == nil:
		return nil, domain.ErrDuplicateApplication
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("apply: find applicant: %w", err)
	}

	now := s.now().UTC()
	created, err := s.applicants.Create(ctx, &domain.Applicant{
		UserID:     in.SeekerID,
		JobID:      job.ID,
		ProviderID: job.ProviderID,
		Resume:     in.ResumePath,
		Status:     domain.AppliedStatus(now),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateApplication) {
			return nil, err
		}
		return nil, fmt.Errorf("apply: create applicant: %w", err)
	}
	return created, nil
}

// RejectApplicant removes an applicant and its resume. Only the provider the
// application was made to may reject it.
func (s *IntegrityService) RejectApplicant(ctx context.Context, applicantID, providerID string) error {
	err := runCascade(ctx, s.tx, s.janitor, s.log, "reject_applicant", func(ctx context.Context, c *cascade) error {
		applicant, err := s.ownedApplicant(ctx, applicantID, providerID)
		if err != nil {
			return err
		}
		s.queueApplicantRemoval(c, []*domain.Applicant{applicant})
		return nil
	})
	if err != nil {
		return err
	}

	metrics.ApplicantDecisionsTotal.WithLabelValues("rejected").Inc()
	s.log.Info().Str("applicant_id", applicantID).Str("provider_id", providerID).Msg("applicant rejected")
	return nil
}

// ShortlistApplicant moves an applicant to the shortlisted state.
func (s *IntegrityService) ShortlistApplicant(ctx context.Context, applicantID, providerID string) error {
	applicant, err := s.ownedApplicant(ctx, applicantID, providerID)
	if err != nil {
		return err
	}

	if err := applicant.Shortlist(); err != nil {
		return err
	}

	// The read above may be stale; the store only moves applied applicants.
	if err := s.applicants.MarkShortlisted(ctx, applicant.ID); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyShortlisted):
			return err
		case errors.Is(err, domain.ErrNotFound):
			return domain.NotFound("Applicant not found!")
		}
		return fmt.Errorf("shortlist: update status: %w", err)
	}

	metrics.ApplicantDecisionsTotal.WithLabelValues("shortlisted").Inc()
	s.log.Info().Str("applicant_id", applicantID).Str("provider_id", providerID).Msg("applicant shortlisted")
	return nil
}

func (s *IntegrityService) ownedApplicant(ctx context.Context, applicantID, providerID string) (*domain.Applicant, error) {
	applicant, err := s.applicants.FindByID(ctx, applicantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("Applicant not found!")
		}
		return nil, fmt.Errorf("find applicant: %w", err)
	}
	if applicant.ProviderID != providerID {
		return nil, domain.ErrNotApplicantOwner
	}
	return applicant, nil
}

// postedJobIDs returns the jobs listed on the user merged with any job that
// names the user as provider but is missing from that list.
func (s *IntegrityService) postedJobIDs(ctx context.Context, user *domain.User) ([]string, error) {
	owned, err := s.jobs.List(ctx, ports.JobFilter{ProviderID: user.ID})
	if err != nil {
		return nil, fmt.Errorf("delete user: list jobs: %w", err)
	}

	seen := make(map[string]struct{}, len(user.JobsPosted)+len(owned))
	ids := make([]string, 0, len(user.JobsPosted)+len(owned))
	add := func(id string) {
		if _, ok := seen[id]; ok || id == "" {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, id := range user.JobsPosted {
		add(id)
	}
	for _, j := range owned {
		add(j.ID)
	}
	return ids, nil
}

// dependentApplicants collects every applicant that references the user as
// seeker or provider, or references one of jobIDs.
func (s *IntegrityService) dependentApplicants(ctx context.Context, userID string, jobIDs []string) ([]*domain.Applicant, error) {
	filters := []ports.ApplicantFilter{
		{UserID: userID},
		{ProviderID: userID},
	}
	if len(jobIDs) > 0 {
		filters = append(filters, ports.ApplicantFilter{JobIDs: jobIDs})
	}

	seen := make(map[string]struct{})
	var out []*domain.Applicant
	for _, f := range filters {
		found, err := s.applicants.List(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("delete user: list applicants: %w", err)
		}
		for _, a := range found {
			if _, ok := seen[a.ID]; ok {
				continue
			}
			seen[a.ID] = struct{}{}
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *IntegrityService) queueApplicantRemoval(c *cascade, applicants []*domain.Applicant) {
	if len(applicants) == 0 {
		return
	}
	ids := make([]string, 0, len(applicants))
	for _, a := range applicants {
		ids = append(ids, a.ID)
	}
	c.then("delete applicants", "applicant", func(ctx context.Context) (int64, error) {
		return s.applicants.DeleteMany(ctx, ids)
	})
	for _, a := range applicants {
		c.discard(a.Resume)
	}
}

func applyResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateApplication):
		return "duplicate"
	case errors.Is(err, domain.ErrJobNotFound):
		return "job_not_found"
	case errors.Is(err, domain.ErrInvalid):
		return "rejected_input"
	default:
		return "error"
	}
}

var _ ports.IntegrityService = (*IntegrityService)(nil)
