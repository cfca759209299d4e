package models

import "time"

// Entities below are owned by the core backend. The gateway only caches them;
// every mutation round-trips through /api/v1 before the cache changes.

type Job struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"company_name"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	SalaryRange string    `json:"salary_range"`
	Description string    `json:"description"`
	JobLink     string    `json:"job_link"`
	TechStack   []string  `json:"tech_stack,omitempty"`
	MatchScore  int       `json:"match_score"`
	Saved       bool      `json:"saved"`
	Status      string    `json:"status"`
	PostedAt    time.Time `json:"posted_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Application struct {
	ID            string     `json:"id"`
	JobID         string     `json:"job_id"`
	ResumeID      string     `json:"resume_id"`
	CoverLetterID string     `json:"cover_letter_id"`
	CompanyName   string     `json:"company_name"`
	RoleTitle     string     `json:"role_title"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes,omitempty"`
	AppliedAt     *time.Time `json:"applied_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Application statuses the backend recognises. The watcher's LLM analysis is
// clamped to this set before any update is pushed.
const (
	StatusApplied   = "APPLIED"
	StatusScreening = "SCREENING"
	StatusInterview = "INTERVIEW"
	StatusOffer     = "OFFER"
	StatusRejected  = "REJECTED"
)

func IsTerminalStatus(status string) bool {
	return status == StatusOffer || status == StatusRejected
}

func IsKnownStatus(status string) bool {
	switch status {
	case StatusApplied, StatusScreening, StatusInterview, StatusOffer, StatusRejected:
		return true
	}
	return false
}

type Resume struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content"`
	ATSScore  int       `json:"ats_score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Persona struct {
	ID          string   `json:"id"`
	FullName    string   `json:"full_name"`
	Headline    string   `json:"headline"`
	Skills      []string `json:"skills"`
	Locations   []string `json:"locations"`
	TargetRoles []string `json:"target_roles"`
}

type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}
