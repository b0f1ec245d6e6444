package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jobboard/job-board-api/internal/core/domain"
	"github.com/jobboard/job-board-api/internal/core/ports"
)

// JobService implements job CRUD and browsing. Removal lives in the
// IntegrityService because it cascades.
type JobService struct {
	jobs       ports.JobRepository
	users      ports.UserRepository
	applicants ports.ApplicantRepository
	log        zerolog.Logger
}

func NewJobService(jobs ports.JobRepository, users ports.UserRepository, applicants ports.ApplicantRepository, log zerolog.Logger) *JobService {
	return &JobService{jobs: jobs, users: users, applicants: applicants, log: log}
}

// Create stores a job owned by providerID and links it on the owner.
func (s *JobService) Create(ctx context.Context, providerID string, in ports.JobInput) (*domain.Job, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.Invalid("Title is required")
	}

	now := time.Now().UTC()
	job, err := s.jobs.Create(ctx, &domain.Job{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Category:    in.Category,
		Location:    in.Location,
		Salary:      in.Salary,
		Skills:      nonNil(in.Skills),
		Vacancies:   in.Vacancies,
		ProviderID:  providerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	if err := s.users.PushJob(ctx, providerID, job.ID); err != nil {
		// Without the link the job would survive its owner; undo it.
		if delErr := s.jobs.Delete(ctx, job.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("job_id", job.ID).Msg("failed to roll back unlinked job")
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("create job: link owner: %w", err)
	}

	s.log.Info().Str("job_id", job.ID).Str("provider_id", providerID).Msg("job created")
	return job, nil
}

func (s *JobService) Get(ctx context.Context, id, ownerID string) (*domain.Job, error) {
	job, err := s.jobs.FindByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

func (s *JobService) List(ctx context.Context, ownerID string) ([]*domain.Job, error) {
	jobs, err := s.jobs.List(ctx, ports.JobFilter{ProviderID: ownerID})
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

func (s *JobService) Recent(ctx context.Context, ownerID string) ([]*domain.Job, error) {
	jobs, err := s.jobs.Recent(ctx, ports.JobFilter{ProviderID: ownerID}, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("recent jobs: %w", err)
	}
	return jobs, nil
}

func (s *JobService) Edit(ctx context.Context, id, ownerID string, in ports.JobInput) error {
	var upd ports.JobUpdate
	if title := strings.TrimSpace(in.Title); title != "" {
		upd.Title = &title
	}
	if in.Description != "" {
		upd.Description = &in.Description
	}
	if in.Category != "" {
		upd.Category = &in.Category
	}
	if in.Location != "" {
		upd.Location = &in.Location
	}
	if in.Salary != "" {
		upd.Salary = &in.Salary
	}
	if in.Skills != nil {
		upd.Skills = &in.Skills
	}
	if in.Vacancies > 0 {
		upd.Vacancies = &in.Vacancies
	}

	if err := s.jobs.Update(ctx, id, ownerID, upd); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound(fmt.Sprintf("Cannot update job with id=%s. Maybe job was not found!", id))
		}
		return fmt.Errorf("edit job: %w", err)
	}
	return nil
}

func (s *JobService) ProviderStats(ctx context.Context, providerID string) (*ports.ProviderStats, error) {
	var stats ports.ProviderStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.JobsCount, err = s.jobs.Count(ctx, ports.JobFilter{ProviderID: providerID})
		return err
	})
	g.Go(func() (err error) {
		stats.ApplicantsCount, err = s.applicants.Count(ctx, ports.ApplicantFilter{ProviderID: providerID})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("provider stats: %w", err)
	}
	return &stats, nil
}

// Available lists the jobs the seeker has not applied to yet.
func (s *JobService) Available(ctx context.Context, seekerID string) ([]*domain.Job, error) {
	applied, err := s.applicants.List(ctx, ports.ApplicantFilter{UserID: seekerID})
	if err != nil {
		return nil, fmt.Errorf("available jobs: %w", err)
	}

	exclude := make([]string, 0, len(applied))
	for _, a := range applied {
		exclude = append(exclude, a.JobID)
	}

	jobs, err := s.jobs.List(ctx, ports.JobFilter{ExcludeIDs: exclude})
	if err != nil {
		return nil, fmt.Errorf("available jobs: %w", err)
	}
	return jobs, nil
}

// Applied lists the jobs the seeker applied to with each application status.
func (s *JobService) Applied(ctx context.Context, seekerID string) ([]ports.AppliedJob, error) {
	applied, err := s.applicants.List(ctx, ports.ApplicantFilter{UserID: seekerID})
	if err != nil {
		return nil, fmt.Errorf("applied jobs: %w", err)
	}
	if len(applied) == 0 {
		return []ports.AppliedJob{}, nil
	}

	status := make(map[string]string, len(applied))
	ids := make([]string, 0, len(applied))
	for _, a := range applied {
		status[a.JobID] = a.Status
		ids = append(ids, a.JobID)
	}

	jobs, err := s.jobs.List(ctx, ports.JobFilter{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("applied jobs: %w", err)
	}

	out := make([]ports.AppliedJob, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, ports.AppliedJob{Job: j, Status: status[j.ID]})
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var _ ports.JobService = (*JobService)(nil)
