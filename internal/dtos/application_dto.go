package dtos

import "github.com/applypilot/applypilot-web/internal/models"

type ApplicationCreationRequest struct {
	JobID         string `json:"job_id" binding:"required"`
	ResumeID      string `json:"resume_id" binding:"required"`
	CoverLetterID string `json:"cover_letter_id"`
	Notes         string `json:"notes"`
}

type ApplicationUpdateRequest struct {
	ResumeID      string `json:"resume_id"`
	CoverLetterID string `json:"cover_letter_id"`
	Notes         string `json:"notes"`
}

type ApplicationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=APPLIED SCREENING INTERVIEW OFFER REJECTED"`
}

type ApplicationListResponse struct {
	Applications []models.Application `json:"applications"`
	Pagination   models.Pagination    `json:"pagination"`
}

// ApplicationQueueResponse is GET /api/v1/applications/queue: the ordered set
// of applications waiting on a user action.
type ApplicationQueueResponse struct {
	Queue []models.Application `json:"queue"`
}
