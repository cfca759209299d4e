package dtos

import "github.com/applypilot/applypilot-web/internal/models"

type ResumeCreationRequest struct {
	Name    string `json:"name" binding:"required"`
	Content string `json:"content" binding:"required"`
	Summary string `json:"summary"`
}

type ResumeUpdateRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Summary string `json:"summary"`
}

type ResumeListResponse struct {
	Resumes []models.Resume `json:"resumes"`
}

// ResumeAnalysisResponse is POST /api/v1/resumes/{id}/analyze.
type ResumeAnalysisResponse struct {
	ATSScore    int      `json:"ats_score"`
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`
}
