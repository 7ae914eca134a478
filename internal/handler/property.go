package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/model"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/service"
)

// PropertyHandler handles listing HTTP requests
type PropertyHandler struct {
	propertyService *service.PropertyService
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(propertyService *service.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// List handles GET /properties?location=&budget=&bedrooms=
func (h *PropertyHandler) List(c *gin.Context) {
	var filters model.BasicFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filters: " + err.Error()})
		return
	}

	props, err := h.propertyService.Filter(c.Request.Context(), filters)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load properties: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"properties": props})
}

// All handles GET /properties/all
func (h *PropertyHandler) All(c *gin.Context) {
	props, err := h.propertyService.All(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load properties: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"properties": props})
}

// Get handles GET /properties/:id
func (h *PropertyHandler) Get(c *gin.Context) {
	p, err := h.propertyService.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrPropertyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get property: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, p)
}
