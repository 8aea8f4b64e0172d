package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/whisperbox/internal/middleware"
	"github.com/whisperbox/internal/service"
	"github.com/whisperbox/pkg/response"
)

// MessageHandler handles message intake and inbox API requests
type MessageHandler struct {
	messageService *service.MessageService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
	}
}

// Send handles anonymous message submission
// POST /api/v1/messages/send
func (h *MessageHandler) Send(c *gin.Context) {
	var req service.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	_, err := h.messageService.Submit(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecipientNotFound):
			response.NotFound(c, "user not found")
		case errors.Is(err, service.ErrNotAccepting):
			response.Forbidden(c, "user is not accepting messages")
		default:
			middleware.LogError("send-message: %v", err)
			response.InternalError(c, "failed to send message")
		}
		return
	}

	response.Created(c, "message sent successfully", nil)
}

// List returns the authenticated user's messages, newest first
// GET /api/v1/messages
func (h *MessageHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	messages, err := h.messageService.List(userID)
	if err != nil {
		middleware.LogError("list-messages: %v", err)
		response.InternalError(c, "failed to load messages")
		return
	}

	response.Success(c, "messages", gin.H{"messages": messages})
}

// Delete removes one of the authenticated user's messages
// DELETE /api/v1/messages/:id
func (h *MessageHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid message id")
		return
	}

	if err := h.messageService.Delete(userID, uint(id)); err != nil {
		if errors.Is(err, service.ErrMessageNotFound) {
			response.NotFound(c, "message not found")
			return
		}
		middleware.LogError("delete-message: %v", err)
		response.InternalError(c, "failed to delete message")
		return
	}

	response.Success(c, "message deleted successfully", nil)
}

// GetAcceptance returns the authenticated user's accepts-messages flag
// GET /api/v1/messages/acceptance
func (h *MessageHandler) GetAcceptance(c *gin.Context) {
	userID := middleware.GetUserID(c)

	accepting, err := h.messageService.GetAcceptance(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		middleware.LogError("get-acceptance: %v", err)
		response.InternalError(c, "failed to load acceptance status")
		return
	}

	response.Success(c, "acceptance status", gin.H{"accept_messages": accepting})
}

// SetAcceptance updates the authenticated user's accepts-messages flag
// POST /api/v1/messages/acceptance
func (h *MessageHandler) SetAcceptance(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req service.AcceptanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.messageService.SetAcceptance(userID, *req.AcceptMessages)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		middleware.LogError("set-acceptance: %v", err)
		response.InternalError(c, "failed to update acceptance status")
		return
	}

	response.Success(c, "acceptance status updated", gin.H{"accept_messages": user.AcceptsMessages})
}

// RegisterRoutes registers message routes
func (h *MessageHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	messages := rg.Group("/messages")
	{
		messages.POST("/send", h.Send)

		messages.GET("", authMiddleware, h.List)
		messages.DELETE("/:id", authMiddleware, h.Delete)
		messages.GET("/acceptance", authMiddleware, h.GetAcceptance)
		messages.POST("/acceptance", authMiddleware, h.SetAcceptance)
	}
}
