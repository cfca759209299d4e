package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/applypilot/applypilot-web/internal/dtos"
	"github.com/applypilot/applypilot-web/internal/stores"
)

type ApplicationHandler struct {
	Apps *stores.ApplicationStore
}

func NewApplicationHandler(apps *stores.ApplicationStore) *ApplicationHandler {
	return &ApplicationHandler{Apps: apps}
}

func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	filters := filtersFromQuery(c, "page", "per_page", "status", "company")

	apps, err := h.Apps.List(apiCtx(c), filters)
	if err != nil {
		upstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": apps,
		"pagination":   h.Apps.Pagination(),
	})
}

func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	var req dtos.ApplicationCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	app, err := h.Apps.Create(apiCtx(c), &req)
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (h *ApplicationHandler) UpdateApplication(c *gin.Context) {
	var req dtos.ApplicationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	app, err := h.Apps.Mutate(apiCtx(c), c.Param("id"), &req)
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	if err := h.Apps.Remove(apiCtx(c), c.Param("id")); err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// SetStatus is PUT /applications/:id/status. Validated client-side before any
// network call; the cache takes the server's returned record, not the patch.
func (h *ApplicationHandler) SetStatus(c *gin.Context) {
	var req dtos.ApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status: " + err.Error()})
		return
	}

	app, err := h.Apps.SetStatus(apiCtx(c), c.Param("id"), req.Status)
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// Queue is GET /applications/queue.
func (h *ApplicationHandler) Queue(c *gin.Context) {
	queue, err := h.Apps.Queue(apiCtx(c))
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"queue": queue})
}
