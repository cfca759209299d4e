package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/applypilot/applypilot-web/internal/backend"
	"github.com/applypilot/applypilot-web/internal/dtos"
	"github.com/applypilot/applypilot-web/internal/models"
)

// ResumeHandler proxies the resumes surface straight through to the backend.
// Resumes have no gateway-side cache; pages always read fresh.
type ResumeHandler struct {
	Client *backend.Client
}

func NewResumeHandler(client *backend.Client) *ResumeHandler {
	return &ResumeHandler{Client: client}
}

func (h *ResumeHandler) ListResumes(c *gin.Context) {
	var resp dtos.ResumeListResponse
	if err := h.Client.Get(apiCtx(c), "/api/v1/resumes", &resp); err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ResumeHandler) GetResume(c *gin.Context) {
	var resume models.Resume
	if err := h.Client.Get(apiCtx(c), "/api/v1/resumes/"+url.PathEscape(c.Param("id")), &resume); err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, resume)
}

func (h *ResumeHandler) CreateResume(c *gin.Context) {
	var req dtos.ResumeCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	var created models.Resume
	if err := h.Client.Post(apiCtx(c), "/api/v1/resumes", &req, &created); err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ResumeHandler) UpdateResume(c *gin.Context) {
	var req dtos.ResumeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	var updated models.Resume
	if err := h.Client.Put(apiCtx(c), "/api/v1/resumes/"+url.PathEscape(c.Param("id")), &req, &updated); err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	if err := h.Client.Delete(apiCtx(c), "/api/v1/resumes/"+url.PathEscape(c.Param("id"))); err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// AnalyzeResume is POST /resumes/:id/analyze (ATS scoring).
func (h *ResumeHandler) AnalyzeResume(c *gin.Context) {
	var resp dtos.ResumeAnalysisResponse
	if err := h.Client.Post(apiCtx(c), "/api/v1/resumes/"+url.PathEscape(c.Param("id"))+"/analyze", nil, &resp); err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetPersona is GET /persona, the job-search profile driving match scoring.
func (h *ResumeHandler) GetPersona(c *gin.Context) {
	var persona models.Persona
	if err := h.Client.Get(apiCtx(c), "/api/v1/persona", &persona); err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, persona)
}

func (h *ResumeHandler) UpdatePersona(c *gin.Context) {
	var req models.Persona
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	var updated models.Persona
	if err := h.Client.Put(apiCtx(c), "/api/v1/persona", &req, &updated); err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
