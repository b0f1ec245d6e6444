package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobboard/job-board-api/internal/core/domain"
	"github.com/jobboard/job-board-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory store shared by the user, job and applicant stub repositories.
// It mirrors the Mongo repositories closely enough for the cascade rules:
// filters, the (userId, jobId) uniqueness constraint and jobsPosted links.
// ---------------------------------------------------------------------------

type memStore struct {
	mu         sync.Mutex
	seq        int
	users      map[string]*domain.User
	jobs       map[string]*domain.Job
	applicants map[string]*domain.Applicant

	failOn map[string]error // method name -> forced error
	calls  []string         // write calls in order
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[string]*domain.User),
		jobs:       make(map[string]*domain.Job),
		applicants: make(map[string]*domain.Applicant),
		failOn:     make(map[string]error),
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) fail(method string) error {
	return m.failOn[method]
}

func (m *memStore) record(call string) {
	m.calls = append(m.calls, call)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// --- seeding helpers ---

func (m *memStore) addUser(name string, role domain.Role) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &domain.User{ID: m.nextID("user"), Name: name, Email: strings.ToLower(name) + "@example.com", Role: role, JobsPosted: []string{}, CreatedAt: time.Now()}
	m.users[u.ID] = u
	return u
}

func (m *memStore) addJob(provider *domain.User, title string) *domain.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	j := &domain.Job{ID: m.nextID("job"), Title: title, ProviderID: provider.ID, CreatedAt: time.Now()}
	m.jobs[j.ID] = j
	provider.JobsPosted = append(provider.JobsPosted, j.ID)
	return j
}

func (m *memStore) addApplicant(seeker *domain.User, job *domain.Job, status string) *domain.Applicant {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := &domain.Applicant{
		ID:         m.nextID("applicant"),
		UserID:     seeker.ID,
		JobID:      job.ID,
		ProviderID: job.ProviderID,
		Resume:     "uploads/resumes/" + seeker.ID + "-" + job.ID + ".pdf",
		Status:     status,
	}
	m.applicants[a.ID] = a
	return a
}

// ---------------------------------------------------------------------------
// UserRepository
// ---------------------------------------------------------------------------

type stubUserRepo struct{ *memStore }

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.JobsPosted = append([]string(nil), u.JobsPosted...)
	return &c
}

func (r stubUserRepo) matches(u *domain.User, f ports.UserFilter) bool {
	if f.ExcludeID != "" && u.ID == f.ExcludeID {
		return false
	}
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	if f.IDs != nil && !contains(f.IDs, u.ID) {
		return false
	}
	return true
}

func (r stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("users.Create"); err != nil {
		return nil, err
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	c := cloneUser(user)
	c.ID = r.nextID("user")
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("users.FindByID"); err != nil {
		return nil, err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r stubUserRepo) List(_ context.Context, f ports.UserFilter) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.users {
		if r.matches(u, f) {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r stubUserRepo) Recent(ctx context.Context, f ports.UserFilter, limit int) ([]*domain.User, error) {
	all, _ := r.List(ctx, f)
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r stubUserRepo) Count(ctx context.Context, f ports.UserFilter) (int64, error) {
	all, _ := r.List(ctx, f)
	return int64(len(all)), nil
}

func (r stubUserRepo) Update(_ context.Context, id string, upd ports.UserUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	return nil
}

func (r stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("users.Delete"); err != nil {
		return err
	}
	r.record("users.Delete")
	delete(r.users, id)
	return nil
}

func (r stubUserRepo) PushJob(_ context.Context, userID, jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("users.PushJob"); err != nil {
		return err
	}
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.JobsPosted = append(u.JobsPosted, jobID)
	return nil
}

func (r stubUserRepo) PullJob(_ context.Context, userID, jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("users.PullJob"); err != nil {
		return err
	}
	r.record("users.PullJob")
	u, ok := r.users[userID]
	if !ok {
		return nil
	}
	kept := u.JobsPosted[:0]
	for _, id := range u.JobsPosted {
		if id != jobID {
			kept = append(kept, id)
		}
	}
	u.JobsPosted = kept
	return nil
}

// ---------------------------------------------------------------------------
// JobRepository
// ---------------------------------------------------------------------------

type stubJobRepo struct{ *memStore }

func cloneJob(j *domain.Job) *domain.Job {
	c := *j
	return &c
}

func (r stubJobRepo) matches(j *domain.Job, f ports.JobFilter) bool {
	if f.ProviderID != "" && j.ProviderID != f.ProviderID {
		return false
	}
	if f.IDs != nil && !contains(f.IDs, j.ID) {
		return false
	}
	if contains(f.ExcludeIDs, j.ID) {
		return false
	}
	return true
}

func (r stubJobRepo) Create(_ context.Context, job *domain.Job) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("jobs.Create"); err != nil {
		return nil, err
	}
	c := cloneJob(job)
	c.ID = r.nextID("job")
	r.jobs[c.ID] = c
	return cloneJob(c), nil
}

func (r stubJobRepo) FindByID(_ context.Context, id, providerID string) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("jobs.FindByID"); err != nil {
		return nil, err
	}
	j, ok := r.jobs[id]
	if !ok || (providerID != "" && j.ProviderID != providerID) {
		return nil, domain.ErrJobNotFound
	}
	return cloneJob(j), nil
}

func (r stubJobRepo) List(_ context.Context, f ports.JobFilter) ([]*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("jobs.List"); err != nil {
		return nil, err
	}
	var out []*domain.Job
	for _, j := range r.jobs {
		if r.matches(j, f) {
			out = append(out, cloneJob(j))
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

func (r stubJobRepo) Recent(ctx context.Context, f ports.JobFilter, limit int) ([]*domain.Job, error) {
	all, err := r.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r stubJobRepo) Count(ctx context.Context, f ports.JobFilter) (int64, error) {
	all, err := r.List(ctx, f)
	return int64(len(all)), err
}

func (r stubJobRepo) Update(_ context.Context, id, providerID string, upd ports.JobUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok || (providerID != "" && j.ProviderID != providerID) {
		return domain.ErrJobNotFound
	}
	if upd.Title != nil {
		j.Title = *upd.Title
	}
	if upd.Location != nil {
		j.Location = *upd.Location
	}
	return nil
}

func (r stubJobRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("jobs.Delete"); err != nil {
		return err
	}
	r.record("jobs.Delete")
	delete(r.jobs, id)
	return nil
}

func (r stubJobRepo) DeleteMany(_ context.Context, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("jobs.DeleteMany"); err != nil {
		return 0, err
	}
	r.record("jobs.DeleteMany")
	var n int64
	for _, id := range ids {
		if _, ok := r.jobs[id]; ok {
			delete(r.jobs, id)
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// ApplicantRepository
// ---------------------------------------------------------------------------

type stubApplicantRepo struct{ *memStore }

func cloneApplicant(a *domain.Applicant) *domain.Applicant {
	c := *a
	return &c
}

func (r stubApplicantRepo) matches(a *domain.Applicant, f ports.ApplicantFilter) bool {
	if f.UserID != "" && a.UserID != f.UserID {
		return false
	}
	if f.JobID != "" && a.JobID != f.JobID {
		return false
	}
	if f.ProviderID != "" && a.ProviderID != f.ProviderID {
		return false
	}
	if f.JobIDs != nil && !contains(f.JobIDs, a.JobID) {
		return false
	}
	switch f.Stage {
	case ports.StageApplied:
		return a.IsApplied()
	case ports.StageShortlisted:
		return a.IsShortlisted()
	}
	return true
}

func (r stubApplicantRepo) Create(_ context.Context, a *domain.Applicant) (*domain.Applicant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("applicants.Create"); err != nil {
		return nil, err
	}
	for _, existing := range r.applicants {
		if existing.UserID == a.UserID && existing.JobID == a.JobID {
			return nil, domain.ErrDuplicateApplication
		}
	}
	c := cloneApplicant(a)
	c.ID = r.nextID("applicant")
	r.applicants[c.ID] = c
	return cloneApplicant(c), nil
}

func (r stubApplicantRepo) FindByID(_ context.Context, id string) (*domain.Applicant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.applicants[id]
	if !ok {
		return nil, domain.ErrApplicantNotFound
	}
	return cloneApplicant(a), nil
}

func (r stubApplicantRepo) FindByUserAndJob(_ context.Context, userID, jobID string) (*domain.Applicant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("applicants.FindByUserAndJob"); err != nil {
		return nil, err
	}
	for _, a := range r.applicants {
		if a.UserID == userID && a.JobID == jobID {
			return cloneApplicant(a), nil
		}
	}
	return nil, domain.ErrApplicantNotFound
}

func (r stubApplicantRepo) List(_ context.Context, f ports.ApplicantFilter) ([]*domain.Applicant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("applicants.List"); err != nil {
		return nil, err
	}
	var out []*domain.Applicant
	for _, a := range r.applicants {
		if r.matches(a, f) {
			out = append(out, cloneApplicant(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r stubApplicantRepo) Count(ctx context.Context, f ports.ApplicantFilter) (int64, error) {
	all, err := r.List(ctx, f)
	return int64(len(all)), err
}

func (r stubApplicantRepo) MarkShortlisted(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("applicants.MarkShortlisted"); err != nil {
		return err
	}
	a, ok := r.applicants[id]
	if !ok {
		return domain.ErrApplicantNotFound
	}
	if a.Status == domain.StatusShortlisted {
		return domain.ErrAlreadyShortlisted
	}
	a.Status = domain.StatusShortlisted
	return nil
}

func (r stubApplicantRepo) Delete(_ context.Context, id string) error {
	_, err := r.DeleteMany(context.Background(), []string{id})
	return err
}

func (r stubApplicantRepo) DeleteMany(_ context.Context, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("applicants.DeleteMany"); err != nil {
		return 0, err
	}
	r.record("applicants.DeleteMany")
	var n int64
	for _, id := range ids {
		if _, ok := r.applicants[id]; ok {
			delete(r.applicants, id)
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Transactor, janitor, resume store, revoker
// ---------------------------------------------------------------------------

// passthroughTx runs the callback directly, like the Mongo transactor does
// against a standalone server.
type passthroughTx struct{ runs int }

func (t *passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.runs++
	return fn(ctx)
}

func (t *passthroughTx) Atomic() bool { return false }

// recordingJanitor remembers every discarded path. It also checks, at the
// moment of the call, that no applicant still owns the file.
type recordingJanitor struct {
	store     *memStore
	discarded []string
	stillUsed []string
}

func (j *recordingJanitor) Discard(path string) {
	if j.store != nil {
		j.store.mu.Lock()
		for _, a := range j.store.applicants {
			if a.Resume == path {
				j.stillUsed = append(j.stillUsed, path)
			}
		}
		j.store.mu.Unlock()
	}
	j.discarded = append(j.discarded, path)
}

type stubResumeStore struct {
	files map[string]string
}

func (s *stubResumeStore) Save(_ context.Context, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	p := fmt.Sprintf("uploads/resumes/%d.pdf", len(s.files)+1)
	s.files[p] = string(b)
	return p, nil
}

func (s *stubResumeStore) Open(_ context.Context, path string) (io.ReadCloser, error) {
	body, ok := s.files[path]
	if !ok {
		return nil, domain.NotFound("resume missing")
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func (s *stubResumeStore) Remove(_ context.Context, path string) error {
	delete(s.files, path)
	return nil
}

type stubRevoker struct {
	revoked map[string]time.Duration
	err     error
}

func (r *stubRevoker) Revoke(_ context.Context, id string, ttl time.Duration) error {
	if r.err != nil {
		return r.err
	}
	r.revoked[id] = ttl
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	_, ok := r.revoked[id]
	return ok, nil
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

var errStoreDown = errors.New("store unavailable")

type fixture struct {
	store   *memStore
	tx      *passthroughTx
	janitor *recordingJanitor
	svc     *IntegrityService
}

func newFixture() *fixture {
	store := newMemStore()
	tx := &passthroughTx{}
	janitor := &recordingJanitor{store: store}
	svc := NewIntegrityService(
		stubUserRepo{store},
		stubJobRepo{store},
		stubApplicantRepo{store},
		tx,
		janitor,
		zerolog.Nop(),
	)
	return &fixture{store: store, tx: tx, janitor: janitor, svc: svc}
}
