package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/service"
)

// ChatHandler handles chat HTTP requests
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// extractRequest is the body of POST /chat/extract
type extractRequest struct {
	Message string `json:"message" binding:"required"`
}

// Message handles POST /chat/message
func (h *ChatHandler) Message(c *gin.Context) {
	var req service.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.chatService.HandleMessage(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Chat failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Extract handles POST /chat/extract
func (h *ChatHandler) Extract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: message is required"})
		return
	}

	c.JSON(http.StatusOK, h.chatService.Extract(c.Request.Context(), req.Message))
}
