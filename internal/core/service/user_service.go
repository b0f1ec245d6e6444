package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/jobboard/job-board-api/internal/core/domain"
	"github.com/jobboard/job-board-api/internal/core/ports"
)

const recentLimit = 3

// UserService implements admin user management.
type UserService struct {
	users      ports.UserRepository
	jobs       ports.JobRepository
	applicants ports.ApplicantRepository
	log        zerolog.Logger
}

func NewUserService(users ports.UserRepository, jobs ports.JobRepository, applicants ports.ApplicantRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, jobs: jobs, applicants: applicants, log: log}
}

// Stats counts providers, seekers, jobs and applicants. The requesting admin
// is never counted.
func (s *UserService) Stats(ctx context.Context, requesterID string) (*ports.AdminStats, error) {
	var stats ports.AdminStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.ProviderCount, err = s.users.Count(ctx, ports.UserFilter{ExcludeID: requesterID, Role: domain.RoleProvider})
		return err
	})
	g.Go(func() (err error) {
		stats.SeekerCount, err = s.users.Count(ctx, ports.UserFilter{ExcludeID: requesterID, Role: domain.RoleSeeker})
		return err
	})
	g.Go(func() (err error) {
		stats.JobCount, err = s.jobs.Count(ctx, ports.JobFilter{})
		return err
	})
	g.Go(func() (err error) {
		stats.ApplicantCount, err = s.applicants.Count(ctx, ports.ApplicantFilter{})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("admin stats: %w", err)
	}
	return &stats, nil
}

// Recent returns the newest users (excluding the requester) and jobs.
func (s *UserService) Recent(ctx context.Context, requesterID string) ([]*domain.User, []*domain.Job, error) {
	users, err := s.users.Recent(ctx, ports.UserFilter{ExcludeID: requesterID}, recentLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("recent users: %w", err)
	}
	jobs, err := s.jobs.Recent(ctx, ports.JobFilter{}, recentLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("recent jobs: %w", err)
	}
	return users, jobs, nil
}

func (s *UserService) List(ctx context.Context, requesterID string) ([]*domain.User, error) {
	users, err := s.users.List(ctx, ports.UserFilter{ExcludeID: requesterID})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Create adds an account of any role.
func (s *UserService) Create(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	user, err := createUser(ctx, s.users, in)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user added by admin")
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account unless a user with that
// email already exists. It reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	existing, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	switch {
	case err == nil:
		if existing.Role != domain.RoleAdmin {
			s.log.Warn().Str("user_id", existing.ID).Msg("bootstrap admin email belongs to a non-admin account")
		}
		return false, nil
	case !errors.Is(err, domain.ErrNotFound):
		return false, fmt.Errorf("ensure admin: %w", err)
	}

	user, err := createUser(ctx, s.users, ports.SignupInput{Name: name, Email: email, Password: password, Role: domain.RoleAdmin})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return false, nil
		}
		return false, err
	}
	s.log.Info().Str("user_id", user.ID).Msg("bootstrap admin created")
	return true, nil
}

// Edit updates another user's profile. Admins cannot edit themselves here.
func (s *UserService) Edit(ctx context.Context, id, requesterID string, in ports.EditUserInput) error {
	if id == requesterID {
		return domain.Forbidden("Cannot edit the current User")
	}

	var upd ports.UserUpdate
	if name := strings.TrimSpace(in.Name); name != "" {
		upd.Name = &name
	}
	if in.Email != "" {
		email := normalizeEmail(in.Email)
		upd.Email = &email
	}
	if in.Role != "" {
		if !in.Role.Valid() {
			return domain.Invalid("Unknown role")
		}
		role := in.Role
		upd.Role = &role
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), BcryptCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		h := string(hash)
		upd.PasswordHash = &h
	}

	if err := s.users.Update(ctx, id, upd); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return domain.NotFound(fmt.Sprintf("Cannot update user with id=%s. Maybe user was not found!", id))
		case errors.Is(err, domain.ErrEmailTaken):
			return err
		}
		return fmt.Errorf("edit user: %w", err)
	}
	return nil
}

var _ ports.UserService = (*UserService)(nil)
