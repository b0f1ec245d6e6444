package domain

import "time"

// Job is a posting owned by a provider (or an admin acting as one).
type Job struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	Salary      string    `json:"salary,omitempty"`
	Skills      []string  `json:"skills"`
	Vacancies   int       `json:"vacancies"`
	ProviderID  string    `json:"providerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
