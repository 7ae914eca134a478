package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/repository"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/service"
)

// UserHandler handles saved-property HTTP requests
type UserHandler struct {
	saveService *service.SaveService
}

// NewUserHandler creates a new user handler
func NewUserHandler(saveService *service.SaveService) *UserHandler {
	return &UserHandler{saveService: saveService}
}

type saveRequest struct {
	UserID     string `json:"user_id" binding:"required"`
	PropertyID string `json:"property_id" binding:"required"`
}

// Save handles POST /user/save
func (h *UserHandler) Save(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	saved, err := h.saveService.Save(c.Request.Context(), req.UserID, req.PropertyID)
	if err != nil {
		if errors.Is(err, service.ErrMissingIDs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save property: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Property saved successfully",
		"user_id":     saved.UserID,
		"property_id": saved.PropertyID,
	})
}

// Saved handles GET /user/saved/:user_id
func (h *UserHandler) Saved(c *gin.Context) {
	userID := c.Param("user_id")
	saved, err := h.saveService.List(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list saved properties: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":          userID,
		"saved_properties": saved,
	})
}

// Remove handles DELETE /user/saved/:user_id/:property_id
func (h *UserHandler) Remove(c *gin.Context) {
	err := h.saveService.Remove(c.Request.Context(), c.Param("user_id"), c.Param("property_id"))
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Saved property not found"})
	case errors.Is(err, service.ErrMissingIDs):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove saved property: " + err.Error()})
	}
}
