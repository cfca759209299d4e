package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/applypilot/applypilot-web/internal/dtos"
	"github.com/applypilot/applypilot-web/internal/services"
)

type EnhanceHandler struct {
	Svc *services.EnhanceService
}

func NewEnhanceHandler(svc *services.EnhanceService) *EnhanceHandler {
	return &EnhanceHandler{Svc: svc}
}

// Enhance is POST /resume/enhance-truthful: returns the candidate rewrite plus
// the placeholders the user still has to fill in. No auto-retry on provider
// failure; the frontend shows a retry button.
func (h *EnhanceHandler) Enhance(c *gin.Context) {
	var req dtos.EnhanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	sug, err := h.Svc.Request(apiCtx(c), req.OriginalText, req.ContentType)
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, sug)
}

// Confirm is POST /resume/confirm-enhancement: verifies that every placeholder
// got a real value, substitutes them, and re-submits the final text. While any
// placeholder is unresolved this answers 422 — a gating state, not a failure.
func (h *EnhanceHandler) Confirm(c *gin.Context) {
	var req dtos.EnhanceConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	// Re-extract server-side; the client's token list is not trusted
	sug := &services.Suggestion{
		Original:     req.OriginalText,
		Candidate:    req.CandidateText,
		ContentType:  req.ContentType,
		Placeholders: services.ExtractPlaceholders(req.CandidateText),
		State:        services.StateRequested,
	}

	finalText, err := h.Svc.Verify(sug, req.PlaceholderValues)
	if err != nil {
		if errors.Is(err, services.ErrPlaceholdersUnresolved) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Svc.Confirm(apiCtx(c), sug, finalText); err != nil {
		upstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dtos.EnhanceConfirmResponse{FinalText: finalText, Confirmed: true})
}
