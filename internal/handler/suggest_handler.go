package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/whisperbox/internal/middleware"
	"github.com/whisperbox/internal/service"
	"github.com/whisperbox/pkg/response"
)

// SuggestHandler handles AI prompt suggestion requests
type SuggestHandler struct {
	suggestService *service.SuggestService
}

// NewSuggestHandler creates a new SuggestHandler
func NewSuggestHandler(suggestService *service.SuggestService) *SuggestHandler {
	return &SuggestHandler{
		suggestService: suggestService,
	}
}

// Suggest returns AI-generated candidate prompts for anonymous senders.
// The raw string keeps the "||" separators; prompts is the split list.
// POST /api/v1/suggest-messages
func (h *SuggestHandler) Suggest(c *gin.Context) {
	raw, err := h.suggestService.SuggestPrompts(c.Request.Context())
	if err != nil {
		middleware.LogError("suggest-messages: %v", err)
		response.InternalError(c, "failed to generate suggestions")
		return
	}

	response.Success(c, "suggestions", gin.H{
		"questions": raw,
		"prompts":   service.SplitPrompts(raw),
	})
}

// RegisterRoutes registers suggestion routes
func (h *SuggestHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/suggest-messages", h.Suggest)
}
