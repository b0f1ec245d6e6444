package handler

import (
	"github.com/jobboard/job-board-api/internal/core/domain"
	"github.com/jobboard/job-board-api/internal/core/ports"
)

// --- Requests ---

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,selfrole"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type addUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,role"`
}

type editUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
	Role     string `json:"role" validate:"omitempty,role"`
}

type jobRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	Salary      string   `json:"salary"`
	Skills      []string `json:"skills" validate:"max=20,dive,required,max=50"`
	Vacancies   int      `json:"vacancies" validate:"gte=0,lte=1000"`
}

type editJobRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	Salary      string   `json:"salary"`
	Skills      []string `json:"skills" validate:"max=20,dive,required,max=50"`
	Vacancies   int      `json:"vacancies" validate:"gte=0,lte=1000"`
}

func (r jobRequest) toInput() ports.JobInput {
	return ports.JobInput{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Location:    r.Location,
		Salary:      r.Salary,
		Skills:      r.Skills,
		Vacancies:   r.Vacancies,
	}
}

func (r editJobRequest) toInput() ports.JobInput {
	return jobRequest(r).toInput()
}

// --- Responses ---

type messageResponse struct {
	Message string `json:"message"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type adminStatsResponse struct {
	Message string           `json:"message"`
	Stats   ports.AdminStats `json:"stats"`
}

type providerStatsResponse struct {
	Message string              `json:"message"`
	Stats   ports.ProviderStats `json:"stats"`
}

type adminRecentResponse struct {
	Message     string         `json:"message"`
	RecentUsers []*domain.User `json:"recentUsers"`
	RecentJobs  []*domain.Job  `json:"recentJobs"`
}

type providerRecentResponse struct {
	Message    string        `json:"message"`
	RecentJobs []*domain.Job `json:"recentJobs"`
}

type usersResponse struct {
	Message string         `json:"message"`
	Users   []*domain.User `json:"users"`
}

type userResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user,omitempty"`
}

type jobsResponse struct {
	Message string        `json:"message"`
	Jobs    []*domain.Job `json:"jobs"`
}

type jobResponse struct {
	Message string      `json:"message"`
	Job     *domain.Job `json:"job,omitempty"`
}

type appliedJobsResponse struct {
	Message     string             `json:"message"`
	JobsApplied []ports.AppliedJob `json:"jobsApplied"`
}

type applicantsResponse struct {
	Message    string                `json:"message"`
	Applicants []ports.ApplicantView `json:"applicants"`
}

type shortlistsResponse struct {
	Message    string                `json:"message"`
	Shortlists []ports.ApplicantView `json:"shortlists"`
}

type applyResponse struct {
	Message   string            `json:"message"`
	Applicant *domain.Applicant `json:"applicant"`
}

// errorResponse documents the error envelope rendered by the central handler.
type errorResponse struct {
	Error string `json:"error"`
}
