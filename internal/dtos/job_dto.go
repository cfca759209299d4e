package dtos

import "github.com/applypilot/applypilot-web/internal/models"

type JobCreationRequest struct {
	CompanyName string `json:"company_name" binding:"required"`
	Title       string `json:"role_title" binding:"required"`
	JobLink     string `json:"job_link" binding:"required"`
	Description string `json:"description" binding:"required"`

	// Optional Fields
	Location    string   `json:"location"`
	SalaryRange string   `json:"salary_range"`
	TechStack   []string `json:"tech_stack"`
}

type JobUpdateRequest struct {
	Title       string `json:"title"`
	Location    string `json:"location"`
	SalaryRange string `json:"salary_range"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// JobListResponse is the backend's shape for GET /api/v1/jobs.
// Decoded (not duck-typed) at the network boundary; a mismatch is an error.
type JobListResponse struct {
	Jobs       []models.Job      `json:"jobs"`
	Pagination models.Pagination `json:"pagination"`
}

// JobMatchesResponse is the backend's shape for GET /api/v1/jobs/matches.
type JobMatchesResponse struct {
	Matches []models.Job `json:"matches"`
}
