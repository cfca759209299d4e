package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/applypilot/applypilot-web/internal/backend"
	"github.com/applypilot/applypilot-web/internal/dtos"
)

// AdminHandler proxies the governance surface. Every state-changing admin
// action gets a request id so backend and gateway logs can be lined up.
type AdminHandler struct {
	Client *backend.Client
}

func NewAdminHandler(client *backend.Client) *AdminHandler {
	return &AdminHandler{Client: client}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var resp dtos.AdminUserListResponse
	if err := h.Client.Get(apiCtx(c), "/api/v1/admin/users", &resp); err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) SystemStatus(c *gin.Context) {
	var resp dtos.SystemStatusResponse
	if err := h.Client.Get(apiCtx(c), "/api/v1/admin/system-status", &resp); err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) GetAIConfig(c *gin.Context) {
	var resp map[string]interface{}
	if err := h.Client.Get(apiCtx(c), "/api/v1/admin/ai-config", &resp); err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) UpdateAIConfig(c *gin.Context) {
	var req dtos.AIConfigUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	requestID := uuid.NewString()
	log.Printf("🛠️ Admin action %s: ai-config update", requestID)

	var resp map[string]interface{}
	if err := h.Client.Put(apiCtx(c), "/api/v1/admin/ai-config", &req, &resp); err != nil {
		upstreamError(c, err)
		return
	}
	c.Header("X-Admin-Request-Id", requestID)
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) FeatureToggle(c *gin.Context) {
	var req dtos.FeatureToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	requestID := uuid.NewString()
	log.Printf("🛠️ Admin action %s: feature %s -> %v", requestID, req.Feature, *req.Enabled)

	var resp map[string]interface{}
	if err := h.Client.Post(apiCtx(c), "/api/v1/admin/feature-toggle", &req, &resp); err != nil {
		upstreamError(c, err)
		return
	}
	c.Header("X-Admin-Request-Id", requestID)
	c.JSON(http.StatusOK, resp)
}
