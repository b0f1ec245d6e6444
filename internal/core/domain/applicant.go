package domain

import (
	"strings"
	"time"
)

const (
	appliedPrefix = "Applied on "

	// StatusShortlisted is terminal; an applicant never moves back to applied.
	StatusShortlisted = "Shortlisted"

	// AppliedDateLayout renders the date carried in an applied status.
	AppliedDateLayout = "2 Jan 2006"
)

// AppliedStatus returns the status stored for a fresh application made at t.
func AppliedStatus(t time.Time) string {
	return appliedPrefix + t.Format(AppliedDateLayout)
}

// Applicant links one seeker's application, and its resume file, to one job.
// ProviderID duplicates the job owner so providers can be filtered cheaply.
type Applicant struct {
	ID         string    `json:"_id"`
	UserID     string    `json:"userId"`
	JobID      string    `json:"jobId"`
	ProviderID string    `json:"providerId"`
	Resume     string    `json:"resume"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// IsApplied reports whether the applicant is still awaiting a decision.
func (a *Applicant) IsApplied() bool {
	return strings.HasPrefix(a.Status, appliedPrefix)
}

// IsShortlisted reports whether the applicant has been shortlisted.
func (a *Applicant) IsShortlisted() bool {
	return a.Status == StatusShortlisted
}

// Shortlist moves the applicant to the shortlisted state.
func (a *Applicant) Shortlist() error {
	if a.IsShortlisted() {
		return ErrAlreadyShortlisted
	}
	a.Status = StatusShortlisted
	return nil
}
