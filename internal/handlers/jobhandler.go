package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/applypilot/applypilot-web/internal/dtos"
	"github.com/applypilot/applypilot-web/internal/stores"
)

type JobHandler struct {
	Jobs *stores.JobStore
}

// NewJobHandler creates the handler with dependencies
func NewJobHandler(jobs *stores.JobStore) *JobHandler {
	return &JobHandler{Jobs: jobs}
}

// ListJobs is GET /jobs: refresh the cache through the store and return it.
func (h *JobHandler) ListJobs(c *gin.Context) {
	filters := filtersFromQuery(c, "page", "per_page", "search", "location", "status")

	jobs, err := h.Jobs.List(apiCtx(c), filters)
	if err != nil {
		upstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":       jobs,
		"pagination": h.Jobs.Pagination(),
	})
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dtos.JobCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	job, err := h.Jobs.Create(apiCtx(c), &req)
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	var req dtos.JobUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	job, err := h.Jobs.Mutate(apiCtx(c), c.Param("id"), &req)
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	if err := h.Jobs.Remove(apiCtx(c), c.Param("id")); err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// SaveJob bookmarks a listing (POST /jobs/:id/save).
func (h *JobHandler) SaveJob(c *gin.Context) {
	job, err := h.Jobs.Save(apiCtx(c), c.Param("id"))
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Matches is GET /jobs/matches, the AI-ranked view.
func (h *JobHandler) Matches(c *gin.Context) {
	matches, err := h.Jobs.Matches(apiCtx(c))
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}
