package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/jobboard/job-board-api/internal/core/domain"
	"github.com/jobboard/job-board-api/internal/core/ports"
)

// ApplicantService lets providers review who applied to their jobs.
type ApplicantService struct {
	applicants ports.ApplicantRepository
	users      ports.UserRepository
	resumes    ports.ResumeStore
	log        zerolog.Logger
}

func NewApplicantService(applicants ports.ApplicantRepository, users ports.UserRepository, resumes ports.ResumeStore, log zerolog.Logger) *ApplicantService {
	return &ApplicantService{applicants: applicants, users: users, resumes: resumes, log: log}
}

// ListForJob returns the provider's applicants on jobID at the given stage,
// each with the seeker's name. Emails are only shared once shortlisted.
func (s *ApplicantService) ListForJob(ctx context.Context, providerID, jobID string, stage ports.ApplicantStage) ([]ports.ApplicantView, error) {
	applicants, err := s.applicants.List(ctx, ports.ApplicantFilter{
		ProviderID: providerID,
		JobID:      jobID,
		Stage:      stage,
	})
	if err != nil {
		return nil, fmt.Errorf("list applicants: %w", err)
	}
	if len(applicants) == 0 {
		return []ports.ApplicantView{}, nil
	}

	ids := make([]string, 0, len(applicants))
	for _, a := range applicants {
		ids = append(ids, a.UserID)
	}
	seekers, err := s.users.List(ctx, ports.UserFilter{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("list applicants: seekers: %w", err)
	}
	byID := make(map[string]*domain.User, len(seekers))
	for _, u := range seekers {
		byID[u.ID] = u
	}

	views := make([]ports.ApplicantView, 0, len(applicants))
	for _, a := range applicants {
		v := ports.ApplicantView{Applicant: a}
		if u, ok := byID[a.UserID]; ok {
			v.SeekerName = u.Name
			if stage == ports.StageShortlisted {
				v.SeekerEmail = u.Email
			}
		}
		views = append(views, v)
	}
	return views, nil
}

// Resume opens the resume of an applicant owned by providerID.
func (s *ApplicantService) Resume(ctx context.Context, applicantID, providerID string) (io.ReadCloser, error) {
	a, err := s.applicants.FindByID(ctx, applicantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrApplicantNotFound
		}
		return nil, fmt.Errorf("resume: %w", err)
	}
	if a.ProviderID != providerID {
		return nil, domain.ErrApplicantNotFound
	}

	rc, err := s.resumes.Open(ctx, a.Resume)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Warn().Str("applicant_id", a.ID).Str("path", a.Resume).Msg("resume file missing")
			return nil, domain.NotFound("Resume not found")
		}
		return nil, fmt.Errorf("resume: open: %w", err)
	}
	return rc, nil
}

var _ ports.ApplicantService = (*ApplicantService)(nil)
