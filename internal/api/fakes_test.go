package api

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/jobboard/job-board-api/internal/core/domain"
	"github.com/jobboard/job-board-api/internal/core/ports"
)

type integrityCall struct {
	op               string
	target           string
	requester        string
	requireOwnership bool
	apply            ports.ApplyInput
}

type fakeIntegrity struct {
	mu    sync.Mutex
	calls []integrityCall
	err   error
}

func (f *fakeIntegrity) record(c integrityCall) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return f.err
}

func (f *fakeIntegrity) DeleteUser(_ context.Context, target, requester string) error {
	return f.record(integrityCall{op: "DeleteUser", target: target, requester: requester})
}

func (f *fakeIntegrity) DeleteJob(_ context.Context, jobID, requester string, requireOwnership bool) error {
	return f.record(integrityCall{op: "DeleteJob", target: jobID, requester: requester, requireOwnership: requireOwnership})
}

func (f *fakeIntegrity) ApplyToJob(_ context.Context, in ports.ApplyInput) (*domain.Applicant, error) {
	if err := f.record(integrityCall{op: "ApplyToJob", target: in.JobID, requester: in.SeekerID, apply: in}); err != nil {
		return nil, err
	}
	return &domain.Applicant{ID: "app-1", UserID: in.SeekerID, JobID: in.JobID, Resume: in.ResumePath, Status: "Applied on 17 Oct 2026"}, nil
}

func (f *fakeIntegrity) RejectApplicant(_ context.Context, id, provider string) error {
	return f.record(integrityCall{op: "RejectApplicant", target: id, requester: provider})
}

func (f *fakeIntegrity) ShortlistApplicant(_ context.Context, id, provider string) error {
	return f.record(integrityCall{op: "ShortlistApplicant", target: id, requester: provider})
}

type fakeResumes struct {
	saved map[string]string
	err   error
}

func (f *fakeResumes) Save(_ context.Context, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, _ := io.ReadAll(r)
	p := "uploads/resumes/fake.pdf"
	f.saved[p] = string(b)
	return p, nil
}

func (f *fakeResumes) Open(_ context.Context, path string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(f.saved[path])), nil
}

func (f *fakeResumes) Remove(_ context.Context, path string) error {
	delete(f.saved, path)
	return nil
}

type fakeAuth struct {
	signups []ports.SignupInput
	logouts []ports.Identity
}

func (f *fakeAuth) Signup(_ context.Context, in ports.SignupInput) (*domain.User, error) {
	f.signups = append(f.signups, in)
	return &domain.User{ID: "u-new", Name: in.Name, Role: in.Role}, nil
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (string, *domain.User, error) {
	if password != "pw1234" {
		return "", nil, domain.ErrWrongPassword
	}
	return "signed-token", &domain.User{ID: "u1", Email: email}, nil
}

func (f *fakeAuth) Logout(_ context.Context, who ports.Identity) error {
	f.logouts = append(f.logouts, who)
	return nil
}

type fakeUsers struct {
	err error
}

func (f *fakeUsers) Stats(context.Context, string) (*ports.AdminStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ports.AdminStats{JobCount: 3, ProviderCount: 2, ApplicantCount: 5, SeekerCount: 4}, nil
}

func (f *fakeUsers) Recent(context.Context, string) ([]*domain.User, []*domain.Job, error) {
	return []*domain.User{}, []*domain.Job{}, nil
}

func (f *fakeUsers) List(context.Context, string) ([]*domain.User, error) {
	return []*domain.User{}, nil
}

func (f *fakeUsers) Get(_ context.Context, id string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (f *fakeUsers) Create(_ context.Context, in ports.SignupInput) (*domain.User, error) {
	return &domain.User{ID: "u-new", Role: in.Role}, nil
}

func (f *fakeUsers) Edit(_ context.Context, id, requester string, _ ports.EditUserInput) error {
	if id == requester {
		return domain.Forbidden("Cannot edit the current User")
	}
	return nil
}

type fakeJobs struct {
	created []string // owner ids
}

func (f *fakeJobs) Create(_ context.Context, providerID string, in ports.JobInput) (*domain.Job, error) {
	f.created = append(f.created, providerID)
	return &domain.Job{ID: "job-1", Title: in.Title, ProviderID: providerID, CreatedAt: time.Now()}, nil
}

func (f *fakeJobs) Get(_ context.Context, id, owner string) (*domain.Job, error) {
	return nil, domain.ErrJobNotFound
}

func (f *fakeJobs) List(context.Context, string) ([]*domain.Job, error) { return []*domain.Job{}, nil }

func (f *fakeJobs) Recent(context.Context, string) ([]*domain.Job, error) { return []*domain.Job{}, nil }

func (f *fakeJobs) Edit(context.Context, string, string, ports.JobInput) error { return nil }

func (f *fakeJobs) ProviderStats(context.Context, string) (*ports.ProviderStats, error) {
	return &ports.ProviderStats{JobsCount: 1, ApplicantsCount: 2}, nil
}

func (f *fakeJobs) Available(context.Context, string) ([]*domain.Job, error) {
	return []*domain.Job{}, nil
}

func (f *fakeJobs) Applied(context.Context, string) ([]ports.AppliedJob, error) {
	return []ports.AppliedJob{}, nil
}

type fakeApplicants struct{}

func (fakeApplicants) ListForJob(context.Context, string, string, ports.ApplicantStage) ([]ports.ApplicantView, error) {
	return []ports.ApplicantView{}, nil
}

func (fakeApplicants) Resume(context.Context, string, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("%PDF-1.4")), nil
}

type fakeRevoker struct{}

func (fakeRevoker) Revoke(context.Context, string, time.Duration) error { return nil }

func (fakeRevoker) IsRevoked(context.Context, string) (bool, error) { return false, nil }
