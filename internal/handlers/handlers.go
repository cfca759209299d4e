package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/applypilot/applypilot-web/internal/backend"
	"github.com/applypilot/applypilot-web/internal/gate"
)

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// apiCtx forwards the caller's session token (stashed by the gate middleware)
// to the core backend.
func apiCtx(c *gin.Context) context.Context {
	return backend.WithToken(c.Request.Context(), c.GetString(gate.TokenContextKey))
}

// upstreamError maps a backend failure onto our response. The upstream status
// is kept when we have one so the frontend can tell 404 from 502; the failure
// is always surfaced, never reported as success.
func upstreamError(c *gin.Context, err error) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Message})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "Backend call failed: " + err.Error()})
}

// filtersFromQuery picks the whitelisted filter params off the request.
func filtersFromQuery(c *gin.Context, keys ...string) map[string]string {
	filters := make(map[string]string)
	for _, key := range keys {
		if v := c.Query(key); v != "" {
			filters[key] = v
		}
	}
	return filters
}
