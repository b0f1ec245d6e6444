package ports

import (
	"context"

	"github.com/jobboard/job-board-api/internal/core/domain"
)

// UserFilter narrows user queries. Zero values are ignored.
type UserFilter struct {
	ExcludeID string      // omit the requesting user
	Role      domain.Role // exact role match
	IDs       []string    // restrict to these ids
}

// UserUpdate carries the mutable user fields. Nil pointers are left untouched.
type UserUpdate struct {
	Name         *string
	Email        *string
	Role         *domain.Role
	PasswordHash *string
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create inserts the user and returns it with its generated id.
	// A taken email yields domain.ErrEmailTaken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)
	// Recent returns at most limit users matching filter, newest first.
	Recent(ctx context.Context, filter UserFilter, limit int) ([]*domain.User, error)
	Count(ctx context.Context, filter UserFilter) (int64, error)
	// Update reports domain.ErrUserNotFound when no user has the id.
	Update(ctx context.Context, id string, update UserUpdate) error
	Delete(ctx context.Context, id string) error
	// PushJob appends jobID to the user's jobsPosted list.
	PushJob(ctx context.Context, userID, jobID string) error
	// PullJob removes jobID from the user's jobsPosted list.
	PullJob(ctx context.Context, userID, jobID string) error
}
