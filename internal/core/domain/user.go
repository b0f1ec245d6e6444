package domain

import "time"

// Role is the closed set of actors known to the job board. The string values
// are the ones persisted and carried in tokens.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleProvider Role = "Job Provider"
	RoleSeeker   Role = "User"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProvider, RoleSeeker:
		return true
	}
	return false
}

// CanSelfRegister reports whether the role may be chosen on public signup.
func (r Role) CanSelfRegister() bool {
	return r == RoleProvider || r == RoleSeeker
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	JobsPosted   []string  `json:"jobsPosted"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
